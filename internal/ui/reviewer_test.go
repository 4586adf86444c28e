package ui_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/go-ledger-app/internal/ui"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		value    uint64
		decimals int32
		ticker   string
		want     string
	}{
		{42, 9, "CRAB", "CRAB 0.000000042"},
		{1_500_000_000, 9, "CRAB", "CRAB 1.5"},
		{0, 9, "CRAB", "CRAB 0"},
		{18446744073709551615, 0, "", "18446744073709551615"},
		{18446744073709551615, 18, "CFX", "CFX 18.446744073709551615"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ui.FormatAmount(tt.value, tt.decimals, tt.ticker))
	}
}

func TestConsoleReview(t *testing.T) {
	var out bytes.Buffer
	c := ui.NewConsole(strings.NewReader("y\nno\nYES"), &out)
	fields := []ui.Field{{Name: "Amount", Value: "CRAB 1"}, {Name: "To", Value: "0xab"}}

	ok, err := c.ReviewTransaction(t.Context(), fields)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, out.String(), "Amount  CRAB 1")

	ok, err = c.ReviewTransaction(t.Context(), fields)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = c.ReviewAddress(t.Context(), "abcd")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = c.ReviewAddress(t.Context(), "abcd")
	require.Error(t, err)
}

func TestConsoleCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	c := ui.NewConsole(strings.NewReader("y\n"), &bytes.Buffer{})
	_, err := c.ReviewTransaction(ctx, nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestStatic(t *testing.T) {
	ok, err := ui.Static{Approve: true}.ReviewTransaction(t.Context(), nil)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ui.Static{}.ReviewAddress(t.Context(), "")
	require.NoError(t, err)
	assert.False(t, ok)
}
