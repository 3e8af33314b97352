package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var (
	ErrTooLarge = errors.New("file too large")
	ErrEmpty    = errors.New("empty file")
)

const DefaultMaxBytes = 5 << 20

// File is one user selection. ContentType may be blank; it is sniffed then.
type File struct {
	Name        string
	ContentType string
	Body        io.Reader
}

// DataURLReader turns a selected file into a data URL. Implementations may
// block; callers run them off the editing path.
type DataURLReader interface {
	ReadDataURL(ctx context.Context, f File) (string, error)
}

// Encoder is the local DataURLReader: it reads the whole body and base64
// encodes it.
type Encoder struct {
	MaxBytes int64
}

func (e Encoder) ReadDataURL(ctx context.Context, f File) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	max := e.MaxBytes
	if max <= 0 {
		max = DefaultMaxBytes
	}
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(f.Body, max+1))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", f.Name, err)
	}
	if n == 0 {
		return "", fmt.Errorf("%w: %s", ErrEmpty, f.Name)
	}
	if n > max {
		return "", fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, f.Name, max)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return Encode(mediaType(f.ContentType, buf.Bytes()), buf.Bytes()), nil
}

// Encode builds "data:<mime>;base64,<payload>".
func Encode(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// Decode splits a base64 data URL back into its media type and bytes.
func Decode(u string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(u, "data:")
	if !ok {
		return "", nil, errors.New("not a data URL")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, errors.New("data URL has no payload")
	}
	mime, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, errors.New("data URL is not base64")
	}
	b, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, err
	}
	return mime, b, nil
}

func mediaType(declared string, data []byte) string {
	ct := declared
	if ct == "" {
		ct = http.DetectContentType(data)
	}
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.TrimSpace(ct)
}
