package address

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	// MaxPathLen is the maximum number of components of a derivation path.
	MaxPathLen = 10

	// Hardened is the offset marking a hardened path component.
	Hardened uint32 = 0x80000000
)

var (
	ErrPathLength = errors.New("derivation path length mismatch")
	ErrPathFormat = errors.New("invalid derivation path")
)

// DerivationPath is a bounded sequence of BIP32 path components. The zero
// value is the empty path.
type DerivationPath struct {
	components [MaxPathLen]uint32
	n          int
}

// NewDerivationPath copies components into a path.
func NewDerivationPath(components ...uint32) (DerivationPath, error) {
	var p DerivationPath
	if len(components) > MaxPathLen {
		return p, ErrPathLength
	}

	p.n = copy(p.components[:], components)
	return p, nil
}

// ParsePath decodes the frame encoding of a path: one count byte n followed
// by exactly 4n bytes of big-endian components.
func ParsePath(data []byte) (DerivationPath, error) {
	var p DerivationPath

	if len(data) == 0 {
		return p, ErrPathLength
	}

	n := int(data[0])
	if n > MaxPathLen || len(data)-1 != 4*n {
		return p, ErrPathLength
	}

	for i := 0; i < n; i++ {
		p.components[i] = binary.BigEndian.Uint32(data[1+4*i:])
	}
	p.n = n

	return p, nil
}

// Encode returns the frame encoding accepted by ParsePath.
func (p DerivationPath) Encode() []byte {
	out := make([]byte, 1+4*p.n)
	out[0] = byte(p.n)
	for i := 0; i < p.n; i++ {
		binary.BigEndian.PutUint32(out[1+4*i:], p.components[i])
	}
	return out
}

// Components returns the path as a slice backed by the path value.
func (p *DerivationPath) Components() []uint32 {
	return p.components[:p.n]
}

func (p DerivationPath) Len() int {
	return p.n
}

// String renders the path as "m/44'/60'/0'/0/0".
func (p DerivationPath) String() string {
	var sb strings.Builder
	sb.WriteString("m")
	for _, c := range p.components[:p.n] {
		sb.WriteByte('/')
		if c >= Hardened {
			sb.WriteString(strconv.FormatUint(uint64(c-Hardened), 10))
			sb.WriteByte('\'')
		} else {
			sb.WriteString(strconv.FormatUint(uint64(c), 10))
		}
	}
	return sb.String()
}

// ParseBIP44Path parses the textual form of a path.
// Example: "m/44'/60'/0'/0/0" -> [2147483692, 2147483708, 2147483648, 0, 0]
func ParseBIP44Path(path string) (DerivationPath, error) {
	var p DerivationPath

	if path == "" || path[0] != 'm' {
		return p, errors.Wrapf(ErrPathFormat, "%q", path)
	}

	rest := strings.TrimPrefix(path[1:], "/")
	if rest == "" {
		return p, nil
	}

	parts := strings.Split(rest, "/")
	if len(parts) > MaxPathLen {
		return p, errors.Wrapf(ErrPathLength, "%d components", len(parts))
	}

	for i, part := range parts {
		hardened := strings.HasSuffix(part, "'") || strings.HasSuffix(part, "h")
		if hardened {
			part = part[:len(part)-1]
		}

		index, err := strconv.ParseUint(part, 10, 32)
		if err != nil || uint32(index) >= Hardened {
			return p, errors.Wrapf(ErrPathFormat, "segment %q", parts[i])
		}

		c := uint32(index)
		if hardened {
			c += Hardened
		}
		p.components[i] = c
	}
	p.n = len(parts)

	return p, nil
}

// MustParseBIP44Path is ParseBIP44Path for constants.
func MustParseBIP44Path(path string) DerivationPath {
	p, err := ParseBIP44Path(path)
	if err != nil {
		panic(fmt.Sprintf("address: %v", err))
	}
	return p
}
