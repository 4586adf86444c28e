package swap

import "strconv"

// Error is the two-level failure reported back to the exchange process.
// The diagnostic lives in a fixed array; building one never grows a buffer.
type Error struct {
	Common CommonCode
	App    AppCode
	msg    [MaxMessageLen]byte
	n      int
}

func newError(common CommonCode, app AppCode) Error {
	return Error{Common: common, App: app}
}

func (e Error) Error() string {
	if e.n == 0 {
		return "swap error " + e.Common.String()
	}
	return "swap error " + e.Common.String() + ": " + string(e.msg[:e.n])
}

// Message returns the diagnostic text, empty when none was set.
func (e *Error) Message() []byte {
	return e.msg[:e.n]
}

// write appends p, truncating at capacity.
func (e *Error) write(p []byte) {
	e.n += copy(e.msg[e.n:], p)
}

func (e *Error) writeString(s string) {
	e.n += copy(e.msg[e.n:], s)
}

func (e *Error) writeUint(v uint64) {
	var scratch [20]byte
	e.write(strconv.AppendUint(scratch[:0], v, 10))
}
