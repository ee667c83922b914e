package attachment

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Source is a file picked in the composer.
type Source interface {
	Name() string
	Size() int64
	ModTime() time.Time
	Open() (io.ReadCloser, error)
}

type pathSource struct {
	path string
	info os.FileInfo
}

// FromPath returns a Source for a file on disk.
func FromPath(path string) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	return &pathSource{path: path, info: info}, nil
}

func (p *pathSource) Name() string                 { return filepath.Base(p.path) }
func (p *pathSource) Size() int64                  { return p.info.Size() }
func (p *pathSource) ModTime() time.Time           { return p.info.ModTime() }
func (p *pathSource) Open() (io.ReadCloser, error) { return os.Open(p.path) }

type byteSource struct {
	name    string
	data    []byte
	modTime time.Time
}

// FromBytes returns a Source over an in-memory payload.
func FromBytes(name string, data []byte, modTime time.Time) Source {
	return &byteSource{name: name, data: data, modTime: modTime}
}

func (b *byteSource) Name() string       { return b.name }
func (b *byteSource) Size() int64        { return int64(len(b.data)) }
func (b *byteSource) ModTime() time.Time { return b.modTime }
func (b *byteSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(b.data)), nil
}
