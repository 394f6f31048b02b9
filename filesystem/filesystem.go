package filesystem

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrFileNotFound = fmt.Errorf("filesystem: file not found")
	ErrInvalidPath  = fmt.Errorf("filesystem: invalid path")
	ErrIsDirectory  = fmt.Errorf("filesystem: path is a directory")
)

const (
	sniffLen           = 512
	defaultContentType = "application/octet-stream"
)

func init() {
	mime.AddExtensionType(".svg", "image/svg+xml")
	mime.AddExtensionType(".webp", "image/webp")
	mime.AddExtensionType(".js", "text/javascript; charset=utf-8")
	mime.AddExtensionType(".css", "text/css; charset=utf-8")
	mime.AddExtensionType(".woff", "font/woff")
	mime.AddExtensionType(".woff2", "font/woff2")
}

// Filesystem gives read access to the files below one root directory.
// Paths are slash separated and relative to that root.
type Filesystem interface {
	Open(path string) (io.ReadCloser, error)
	ReadFile(path string) ([]byte, error)

	FileExists(path string) (bool, error)
	FileSize(path string) (int64, error)
	FileMetaData(path string) (os.FileInfo, error)

	// ContentType guesses the media type from the extension and falls back
	// to sniffing the first bytes of the file.
	ContentType(path string) (string, error)
}

type localFileSystem struct {
	root string
}

func NewLocalFileSystem(root string) Filesystem {
	return &localFileSystem{root: root}
}

func (filesystem *localFileSystem) resolve(path string) (string, error) {
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return "", ErrInvalidPath
	}
	return filepath.Join(filesystem.root, filepath.FromSlash(path)), nil
}

func (filesystem *localFileSystem) FileExists(path string) (bool, error) {
	info, err := filesystem.FileMetaData(path)
	if err != nil {
		if errors.Is(err, ErrFileNotFound) {
			return false, nil
		}
		return false, err
	}

	return !info.IsDir(), nil
}

func (filesystem *localFileSystem) FileMetaData(path string) (os.FileInfo, error) {
	name, err := filesystem.resolve(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, err
	}

	return info, nil
}

func (filesystem *localFileSystem) FileSize(path string) (int64, error) {
	info, err := filesystem.FileMetaData(path)
	if err != nil {
		return 0, err
	}
	if info.IsDir() {
		return 0, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}
	return info.Size(), nil
}

func (filesystem *localFileSystem) Open(path string) (io.ReadCloser, error) {
	name, err := filesystem.resolve(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, err
	}

	return file, nil
}

func (filesystem *localFileSystem) ReadFile(path string) ([]byte, error) {
	file, err := filesystem.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			slog.Error("closing file error", "path", path, "error", closeErr)
		}
	}()

	return io.ReadAll(file)
}

func (filesystem *localFileSystem) ContentType(path string) (string, error) {
	if contentType := mime.TypeByExtension(filepath.Ext(path)); contentType != "" {
		return contentType, nil
	}

	file, err := filesystem.Open(path)
	if err != nil {
		return "", err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			slog.Error("closing file error", "path", path, "error", closeErr)
		}
	}()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", err
	}
	if n == 0 {
		return defaultContentType, nil
	}

	return http.DetectContentType(head[:n]), nil
}
