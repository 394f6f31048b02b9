package http

import (
	"bytes"
	"fmt"
	"time"

	"github.com/freekieb7/rawhttp/filesystem"
)

type AssetKind uint8

const (
	// AssetFile is streamed from disk byte for byte.
	AssetFile AssetKind = iota
	// AssetTemplate is read as text and has TemplatePlaceholder replaced by
	// the current time before it is sent.
	AssetTemplate
)

const (
	TemplatePlaceholder = "{time}"
	TemplateTimeLayout  = "2006-01-02T15:04:05.000000"
)

type Asset struct {
	Path string
	Kind AssetKind
}

func DefaultAssets() []Asset {
	return []Asset{
		{Path: "/index.html"},
		{Path: "/spring.svg"},
		{Path: "/spring.png"},
		{Path: "/resources.html"},
		{Path: "/styles.css"},
		{Path: "/app.js"},
		{Path: "/links.html"},
		{Path: "/forms.html"},
		{Path: "/classic.html", Kind: AssetTemplate},
		{Path: "/events.html"},
		{Path: "/events.js"},
		{Path: "/test.html"},
	}
}

// StaticResolver serves an allow-list of files below a public root.
// Membership of the allow-list is the only path check performed.
type StaticResolver struct {
	fs     filesystem.Filesystem
	assets map[string]AssetKind
	order  []string
	now    func() time.Time
}

type StaticOption func(*StaticResolver)

func WithClock(now func() time.Time) StaticOption {
	return func(s *StaticResolver) {
		s.now = now
	}
}

func NewStaticResolver(fs filesystem.Filesystem, assets []Asset, opts ...StaticOption) *StaticResolver {
	s := &StaticResolver{
		fs:     fs,
		assets: make(map[string]AssetKind, len(assets)),
		now:    time.Now,
	}
	for _, asset := range assets {
		if _, dup := s.assets[asset.Path]; !dup {
			s.order = append(s.order, asset.Path)
		}
		s.assets[asset.Path] = asset.Kind
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *StaticResolver) Allowed(path string) bool {
	_, found := s.assets[path]
	return found
}

// Missing lists allow-listed paths that have no file below the root.
func (s *StaticResolver) Missing() []string {
	var missing []string
	for _, path := range s.order {
		exists, err := s.fs.FileExists(path)
		if err != nil || !exists {
			missing = append(missing, path)
		}
	}
	return missing
}

// Serve prepares res with the asset stored at path.
func (s *StaticResolver) Serve(res *Response, path string) error {
	kind, found := s.assets[path]
	if !found {
		return fmt.Errorf("%w: %s", ErrAssetNotFound, path)
	}

	contentType, err := s.fs.ContentType(path)
	if err != nil {
		return fmt.Errorf("http: content type of %s: %w", path, err)
	}

	switch kind {
	case AssetTemplate:
		return s.serveTemplate(res, path, contentType)
	default:
		return s.serveFile(res, path, contentType)
	}
}

func (s *StaticResolver) serveFile(res *Response, path, contentType string) error {
	size, err := s.fs.FileSize(path)
	if err != nil {
		return fmt.Errorf("http: stat %s: %w", path, err)
	}

	file, err := s.fs.Open(path)
	if err != nil {
		return fmt.Errorf("http: open %s: %w", path, err)
	}

	res.WithStatus(StatusOK).WithStream(contentType, file, size)
	return nil
}

func (s *StaticResolver) serveTemplate(res *Response, path, contentType string) error {
	template, err := s.fs.ReadFile(path)
	if err != nil {
		return fmt.Errorf("http: read template %s: %w", path, err)
	}

	content := bytes.ReplaceAll(template, []byte(TemplatePlaceholder), []byte(s.now().Format(TemplateTimeLayout)))

	res.WithStatus(StatusOK).WithBody(contentType, content)
	return nil
}
