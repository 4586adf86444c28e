// Package apdu implements the request frame layout and the instruction set of
// the signing application.
package apdu

const (
	// CLA is the only class byte accepted by the application.
	CLA byte = 0xE0

	HeaderLen       = 5
	MaxPayloadLen   = 0xff
	MaxResponseData = 0xff + 2
)

// Ins is the raw instruction byte.
type Ins byte

const (
	InsGetVersion Ins = 0x03
	InsGetAppName Ins = 0x04
	InsGetPubkey  Ins = 0x05
	InsSignTx     Ins = 0x06
)

func (i Ins) String() string {
	switch i {
	case InsGetVersion:
		return "get_version"
	case InsGetAppName:
		return "get_app_name"
	case InsGetPubkey:
		return "get_pubkey"
	case InsSignTx:
		return "sign_tx"
	default:
		return "unknown"
	}
}

const (
	P1Confirm   byte = 0x01
	P1NoConfirm byte = 0x00
	P1SignStart byte = 0x00
	P1SignMax   byte = 0x03
	P2SignLast  byte = 0x00
	P2SignMore  byte = 0x80
	P2Unused    byte = 0x00
	P1P2Unused  byte = 0x00
)

// Command is one decoded request frame. Data aliases the raw frame.
type Command struct {
	CLA  byte
	Ins  Ins
	P1   byte
	P2   byte
	Data []byte
}

// ParseCommand decodes "CLA INS P1 P2 Lc data". A missing Lc is accepted for
// commands without payload.
func ParseCommand(frame []byte) (Command, error) {
	if len(frame) < HeaderLen-1 {
		return Command{}, StatusWrongApduLength
	}

	cmd := Command{
		CLA: frame[0],
		Ins: Ins(frame[1]),
		P1:  frame[2],
		P2:  frame[3],
	}

	if len(frame) == HeaderLen-1 {
		return cmd, nil
	}

	lc := int(frame[4])
	if len(frame)-HeaderLen != lc {
		return Command{}, StatusWrongApduLength
	}

	cmd.Data = frame[HeaderLen:]
	return cmd, nil
}

// Encode serialises the command, failing when the payload exceeds one frame.
func (c Command) Encode() ([]byte, error) {
	if len(c.Data) > MaxPayloadLen {
		return nil, StatusWrongDataLength
	}

	frame := make([]byte, 0, HeaderLen+len(c.Data))
	frame = append(frame, c.CLA, byte(c.Ins), c.P1, c.P2, byte(len(c.Data)))
	frame = append(frame, c.Data...)
	return frame, nil
}
