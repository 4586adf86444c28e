package transaction

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github/chapool/go-ledger-app/internal/wallet/address"
)

type jsonTransaction struct {
	Nonce *uint64 `json:"nonce"`
	Coin  string  `json:"coin"`
	Value *uint64 `json:"value"`
	To    string  `json:"to"`
	Memo  string  `json:"memo"`
}

// jsonKeys are the accepted object keys, matched case-sensitively.
var jsonKeys = map[string]struct{}{"nonce": {}, "coin": {}, "value": {}, "to": {}, "memo": {}}

// DecodeJSON parses the structured text layout
// {"nonce":1,"coin":"CRAB","value":42,"to":"0x…","memo":"…"}.
// nonce, value and to are required; unknown, repeated or differently cased keys
// and trailing data are rejected.
func DecodeJSON(raw []byte) (*Transaction, error) {
	if err := checkJSONKeys(raw); err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	var in jsonTransaction
	if err := dec.Decode(&in); err != nil {
		return nil, parseErr(err, "json")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(ErrParse, "trailing data after json object")
	}

	if in.Nonce == nil || in.Value == nil {
		return nil, errors.Wrap(ErrParse, "nonce and value are required")
	}

	to, err := decodeHexAddress(in.To)
	if err != nil {
		return nil, parseErr(err, "to")
	}

	if err := checkASCII([]byte(in.Memo)); err != nil {
		return nil, err
	}

	return &Transaction{
		Format: FormatJSON,
		Nonce:  *in.Nonce,
		Coin:   in.Coin,
		To:     to,
		Value:  *in.Value,
		Memo:   in.Memo,
	}, nil
}

// EncodeJSON serializes tx in the structured text layout.
func EncodeJSON(tx *Transaction) ([]byte, error) {
	out, err := json.Marshal(jsonTransaction{
		Nonce: &tx.Nonce,
		Coin:  tx.Coin,
		Value: &tx.Value,
		To:    "0x" + tx.To.Hex(),
		Memo:  tx.Memo,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal transaction")
	}
	return out, nil
}

// checkJSONKeys walks the top-level object and fails on any key outside jsonKeys
// or seen twice. encoding/json alone keeps the last duplicate and folds case.
func checkJSONKeys(raw []byte) error {
	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return parseErr(err, "json")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.Wrap(ErrParse, "json: expected an object")
	}

	seen := make(map[string]struct{}, len(jsonKeys))
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return parseErr(err, "json")
		}
		key, ok := tok.(string)
		if !ok {
			return errors.Wrap(ErrParse, "json: expected an object key")
		}
		if _, ok := jsonKeys[key]; !ok {
			return errors.Wrapf(ErrParse, "json: unknown key %q", key)
		}
		if _, ok := seen[key]; ok {
			return errors.Wrapf(ErrParse, "json: repeated key %q", key)
		}
		seen[key] = struct{}{}

		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return parseErr(err, key)
		}
	}

	return nil
}

func decodeHexAddress(s string) (address.Address, error) {
	var addr address.Address

	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
	}
	if len(s) != 2*address.Length {
		return addr, errors.Errorf("expected %d hex characters, got %d", 2*address.Length, len(s))
	}
	if _, err := hex.Decode(addr[:], []byte(s)); err != nil {
		return addr, errors.Wrap(err, "invalid hex")
	}

	return addr, nil
}
