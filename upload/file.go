package upload

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// File is one candidate for upload. Open is called once per submission and
// the returned reader is closed by the submitter.
type File struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

// Ext returns the lower-case extension of the file name, including the dot.
func (f File) Ext() string {
	return lowerExt(f.Name)
}

// ReadAll opens the file and reads its contents.
func (f File) ReadAll() ([]byte, error) {
	if f.Open == nil {
		return nil, fmt.Errorf("upload: file %q has no content", f.Name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// FromPath describes a local file. The name is the base name of path.
func FromPath(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, err
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("upload: %s is a directory", path)
	}
	return File{
		Name: filepath.Base(path),
		Size: info.Size(),
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

// FromBytes describes an in-memory file.
func FromBytes(name string, data []byte) File {
	return File{
		Name: name,
		Size: int64(len(data)),
		Open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}
