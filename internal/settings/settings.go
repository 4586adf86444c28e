package settings

import (
	"sync"

	"github.com/pkg/errors"
)

// Size is the number of setting slots.
const Size = 10

// Slot indexes
const (
	DisplayMemo = 0
)

var ErrIndexOutOfRange = errors.New("settings index out of range")

// Store persists the settings blob.
type Store interface {
	Get(index int) (byte, error)
	Set(index int, value byte) error
}

// Memory keeps settings for the process lifetime only.
type Memory struct {
	mu   sync.RWMutex
	data [Size]byte
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Get(index int) (byte, error) {
	if err := checkIndex(index); err != nil {
		return 0, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data[index], nil
}

func (m *Memory) Set(index int, value byte) error {
	if err := checkIndex(index); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[index] = value
	return nil
}

// Enabled reports whether slot index holds a non-zero value. Lookup failures read as disabled.
func Enabled(s Store, index int) bool {
	v, err := s.Get(index)
	return err == nil && v != 0
}

func checkIndex(index int) error {
	if index < 0 || index >= Size {
		return errors.Wrapf(ErrIndexOutOfRange, "index %d", index)
	}
	return nil
}
