package client

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github/chapool/go-ledger-app/internal/device"
	"github/chapool/go-ledger-app/internal/util"
)

// Local exchanges frames with a dispatcher in the same process.
type Local struct {
	App *device.App
}

func (l Local) Exchange(ctx context.Context, frame []byte) ([]byte, error) {
	return l.App.Handle(ctx, frame), nil
}

// HTTP exchanges frames with the REST endpoint POST {BaseURL}/apdu.
type HTTP struct {
	BaseURL string
	Client  *http.Client
}

type apduPayload struct {
	Data string `json:"data"`
}

func (h HTTP) Exchange(ctx context.Context, frame []byte) ([]byte, error) {
	body, err := json.Marshal(apduPayload{Data: hex.EncodeToString(frame)})
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimSuffix(h.BaseURL, "/")+"/apdu", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")

	httpClient := h.Client
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	res, err := httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to send request")
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512)) //nolint:mnd
		return nil, errors.Errorf("unexpected status %d: %s", res.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out apduPayload
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, errors.Wrap(err, "failed to decode response")
	}

	reply, err := util.DecodeHex(out.Data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode reply")
	}
	return reply, nil
}
