package util

import (
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// DecodeHex decodes hex text with or without a 0x prefix. An empty string decodes to no bytes.
func DecodeHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	return hexutil.Decode(s)
}
