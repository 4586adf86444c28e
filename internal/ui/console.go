package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github/chapool/go-ledger-app/internal/util"
	"golang.org/x/term"
)

var ErrNotTerminal = errors.New("stdin is not a terminal")

// Console prompts an operator on a line-oriented reader/writer pair.
type Console struct {
	mu  sync.Mutex
	in  *bufio.Reader
	out io.Writer
}

func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// NewStdioConsole prompts on the process terminal. It fails when stdin is not interactive.
func NewStdioConsole() (*Console, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, ErrNotTerminal
	}
	return NewConsole(os.Stdin, os.Stdout), nil
}

func (c *Console) ReviewTransaction(ctx context.Context, fields []Field) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	width := 0
	for _, f := range fields {
		width = max(width, len(f.Name))
	}

	fmt.Fprintln(c.out, "Review transaction")
	for _, f := range fields {
		fmt.Fprintf(c.out, "  %-*s  %s\n", width, f.Name, f.Value)
	}

	return c.confirm(ctx, "Sign transaction?")
}

func (c *Console) ReviewAddress(ctx context.Context, addr string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintf(c.out, "Verify address\n  %s\n", addr)
	return c.confirm(ctx, "Address matches?")
}

func (c *Console) ShowHome(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintln(c.out, "Application is ready")
}

func (c *Console) confirm(ctx context.Context, question string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, errors.Wrap(err, "review aborted")
	}

	fmt.Fprintf(c.out, "%s [y/N] ", question)

	line, err := c.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return false, errors.Wrap(err, "failed to read answer")
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	approved := answer == "y" || answer == "yes"

	util.LogFromContext(ctx).Debug().Bool("approved", approved).Msg("Operator answered review")
	return approved, nil
}
