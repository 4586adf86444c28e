package apdu

import "fmt"

// StatusWord is the two byte trailer of every response.
type StatusWord uint16

const (
	StatusOk                 StatusWord = 0x9000
	StatusDeny               StatusWord = 0x6985
	StatusWrongP1P2          StatusWord = 0x6A86
	StatusWrongDataLength    StatusWord = 0x6A87
	StatusInsNotSupported    StatusWord = 0x6D00
	StatusClaNotSupported    StatusWord = 0x6E00
	StatusWrongApduLength    StatusWord = 0x6E03
	StatusTxDisplayFail      StatusWord = 0xB001
	StatusAddrDisplayFail    StatusWord = 0xB002
	StatusTxWrongLength      StatusWord = 0xB004
	StatusTxParsingFail      StatusWord = 0xB005
	StatusTxHashFail         StatusWord = 0xB006
	StatusTxSignFail         StatusWord = 0xB008
	StatusKeyDeriveFail      StatusWord = 0xB009
	StatusVersionParsingFail StatusWord = 0xB00A
	StatusSwapFail           StatusWord = 0xB00B
)

var statusNames = map[StatusWord]string{
	StatusOk:                 "ok",
	StatusDeny:               "deny",
	StatusWrongP1P2:          "wrong_p1p2",
	StatusWrongDataLength:    "wrong_data_length",
	StatusInsNotSupported:    "ins_not_supported",
	StatusClaNotSupported:    "cla_not_supported",
	StatusWrongApduLength:    "wrong_apdu_length",
	StatusTxDisplayFail:      "tx_display_fail",
	StatusAddrDisplayFail:    "addr_display_fail",
	StatusTxWrongLength:      "tx_wrong_length",
	StatusTxParsingFail:      "tx_parsing_fail",
	StatusTxHashFail:         "tx_hash_fail",
	StatusTxSignFail:         "tx_sign_fail",
	StatusKeyDeriveFail:      "key_derive_fail",
	StatusVersionParsingFail: "version_parsing_fail",
	StatusSwapFail:           "swap_fail",
}

// String returns a stable snake_case name, used as a metrics label.
func (s StatusWord) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("0x%04x", uint16(s))
}

// Error lets handlers return a status word directly as an error.
func (s StatusWord) Error() string {
	return fmt.Sprintf("status %s (0x%04X)", s.String(), uint16(s))
}

func (s StatusWord) Bytes() [2]byte {
	return [2]byte{byte(s >> 8), byte(s)}
}
