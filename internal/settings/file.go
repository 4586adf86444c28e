package settings

import (
	"os"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

type fileContents struct {
	Data []int `toml:"data"`
}

// File persists settings as a TOML document. A missing file reads as all zeros.
type File struct {
	mu   sync.Mutex
	path string
}

func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Get(index int) (byte, error) {
	if err := checkIndex(index); err != nil {
		return 0, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.load()
	if err != nil {
		return 0, err
	}
	return data[index], nil
}

func (f *File) Set(index int, value byte) error {
	if err := checkIndex(index); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.load()
	if err != nil {
		return err
	}
	data[index] = value

	return f.store(data)
}

func (f *File) load() ([Size]byte, error) {
	var data [Size]byte

	var contents fileContents
	if _, err := toml.DecodeFile(f.path, &contents); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return data, nil
		}
		return data, errors.Wrapf(err, "failed to decode settings file %s", f.path)
	}

	if len(contents.Data) > Size {
		return data, errors.Errorf("settings file %s holds %d values, expected at most %d", f.path, len(contents.Data), Size)
	}
	for i, v := range contents.Data {
		if v < 0 || v > 0xff {
			return data, errors.Errorf("settings value %d at index %d is not a byte", v, i)
		}
		data[i] = byte(v)
	}

	return data, nil
}

func (f *File) store(data [Size]byte) error {
	contents := fileContents{Data: make([]int, Size)}
	for i, v := range data {
		contents.Data[i] = int(v)
	}

	tmp := f.path + ".tmp"
	//nolint:mnd // owner read/write only
	out, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return errors.Wrap(err, "failed to open settings file")
	}

	if err := toml.NewEncoder(out).Encode(contents); err != nil {
		_ = out.Close()
		return errors.Wrap(err, "failed to encode settings")
	}
	if err := out.Close(); err != nil {
		return errors.Wrap(err, "failed to close settings file")
	}

	return errors.Wrap(os.Rename(tmp, f.path), "failed to replace settings file")
}
