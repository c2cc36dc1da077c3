package part

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Decoding errors.
var (
	ErrNotMultipart = errors.New("request is not multipart")
	ErrTooManyParts = errors.New("too many parts")
)

// Config controls where decoded parts are stored.
type Config struct {
	// MaxMemory is the largest part kept in memory; bigger parts spill to disk.
	MaxMemory int64 `env:"MAX_MEMORY" envDefault:"1048576"`
	// MaxParts limits the number of parts in one body. Zero means no limit.
	MaxParts int `env:"MAX_PARTS" envDefault:"1000"`
	// TempDir holds spilled parts. Empty means os.TempDir.
	TempDir string `env:"TEMP_DIR"`
}

// LoadConfig reads Config from LENS_MULTIPART_* environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "LENS_MULTIPART_"}); err != nil {
		return Config{}, fmt.Errorf("part: load config: %w", err)
	}
	return cfg, nil
}

// Decoder turns multipart bodies into Parts.
type Decoder struct {
	cfg    Config
	logger *slog.Logger
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithLogger sets the logger used for spill and cleanup records.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Decoder) {
		d.logger = logger
	}
}

// NewDecoder returns a decoder using cfg.
func NewDecoder(cfg Config, opts ...Option) *Decoder {
	d := &Decoder{cfg: cfg, logger: slog.Default()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DecodeRequest decodes a multipart/* request body.
func (d *Decoder) DecodeRequest(r *http.Request) ([]*Part, error) {
	mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		return nil, ErrNotMultipart
	}
	boundary := params["boundary"]
	if boundary == "" {
		return nil, fmt.Errorf("%w: missing boundary", ErrNotMultipart)
	}
	if r.Body == nil {
		return nil, nil
	}
	return d.Decode(r.Body, boundary)
}

// Decode reads every part from body. On failure the parts decoded so far are
// closed before the error is returned.
func (d *Decoder) Decode(body io.Reader, boundary string) ([]*Part, error) {
	mr := multipart.NewReader(body, boundary)
	var parts []*Part
	for {
		mp, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return parts, nil
		}
		if err != nil {
			return nil, d.abort(parts, fmt.Errorf("part: next: %w", err))
		}
		if d.cfg.MaxParts > 0 && len(parts) >= d.cfg.MaxParts {
			mp.Close()
			return nil, d.abort(parts, ErrTooManyParts)
		}
		p, err := d.read(mp)
		mp.Close()
		if err != nil {
			return nil, d.abort(parts, err)
		}
		parts = append(parts, p)
	}
}

func (d *Decoder) read(mp *multipart.Part) (*Part, error) {
	meta := MetaData{
		FieldName:   mp.FormName(),
		FormField:   mp.FileName() == "",
		ContentType: mp.Header.Get("Content-Type"),
		FileName:    mp.FileName(),
		Headers:     make(map[string]string, len(mp.Header)),
	}
	for k := range mp.Header {
		meta.Headers[k] = mp.Header.Get(k)
	}

	var buf bytes.Buffer
	n, err := io.CopyN(&buf, mp, d.cfg.MaxMemory+1)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("part: read %q: %w", meta.FieldName, err)
	}
	if n <= d.cfg.MaxMemory {
		return NewInMemory(meta, buf.Bytes()), nil
	}
	return d.spill(meta, &buf, mp)
}

// spill writes the buffered prefix and the rest of mp to a temp file.
func (d *Decoder) spill(meta MetaData, prefix io.Reader, rest io.Reader) (*Part, error) {
	f, err := os.CreateTemp(d.cfg.TempDir, "lens-part-*")
	if err != nil {
		return nil, fmt.Errorf("part: spill %q: %w", meta.FieldName, err)
	}
	_, err = io.Copy(f, io.MultiReader(prefix, rest))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		d.remove(f.Name())
		return nil, fmt.Errorf("part: spill %q: %w", meta.FieldName, err)
	}
	p, err := NewDiskBacked(meta, f.Name())
	if err != nil {
		d.remove(f.Name())
		return nil, err
	}
	d.logger.Debug("multipart part spilled to disk",
		"field", meta.FieldName,
		"file", meta.FileName,
		"size", p.Len(),
	)
	return p, nil
}

func (d *Decoder) remove(path string) {
	if err := os.Remove(path); err != nil {
		d.logger.Warn("multipart temp file not removed", "path", path, "err", err)
	}
}

func (d *Decoder) abort(parts []*Part, cause error) error {
	if err := CloseAll(parts); err != nil {
		d.logger.Warn("multipart cleanup failed", "err", err)
	}
	return cause
}
