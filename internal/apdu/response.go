package apdu

import (
	"github/chapool/go-ledger-app/internal/util/bounded"
)

// Response collects the reply payload of one exchange into a fixed-capacity buffer.
type Response struct {
	storage [MaxResponseData]byte
	buf     bounded.Buffer
}

func NewResponse() *Response {
	r := &Response{}
	r.buf = bounded.Wrap(r.storage[:])
	return r
}

func (r *Response) Append(p ...byte) error {
	return r.buf.Append(p...)
}

// AppendLV appends p prefixed by its one byte length.
func (r *Response) AppendLV(p []byte) error {
	return r.buf.AppendLV(p)
}

func (r *Response) Data() []byte {
	return r.buf.Bytes()
}

// Reset drops any payload collected so far.
func (r *Response) Reset() {
	r.buf.Reset()
}

// Encode returns data followed by the status word. Failure replies carry only
// the status word unless keepData is set.
func (r *Response) Encode(sw StatusWord, keepData bool) []byte {
	var data []byte
	if sw == StatusOk || keepData {
		data = r.buf.Bytes()
	}

	out := make([]byte, 0, len(data)+2)
	out = append(out, data...)
	trailer := sw.Bytes()
	return append(out, trailer[0], trailer[1])
}

// SplitReply separates a raw reply into payload and status word.
func SplitReply(reply []byte) ([]byte, StatusWord, error) {
	if len(reply) < 2 {
		return nil, 0, StatusWrongApduLength
	}

	n := len(reply) - 2
	return reply[:n], StatusWord(uint16(reply[n])<<8 | uint16(reply[n+1])), nil
}
