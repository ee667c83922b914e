// Package attachment encodes picked files into self-contained attachments
// whose content is a base64 data URI.
package attachment

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/matheus3301/ora/internal/store"
	"golang.org/x/sync/errgroup"
)

const (
	fallbackMIME = "application/octet-stream"

	// batchLimit bounds concurrent reads in EncodeBatch.
	batchLimit = 4
)

// EncodingError is returned for a file that could not be encoded. Index is
// the position in the batch, or -1 for a single Encode.
type EncodingError struct {
	Index int
	Name  string
	Err   error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encode attachment %q: %v", e.Name, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// Codec converts Sources into attachments.
type Codec struct {
	// MaxBytes rejects larger payloads; zero means unlimited.
	MaxBytes int64
}

// NewCodec creates a codec with the given size limit.
func NewCodec(maxBytes int64) *Codec {
	return &Codec{MaxBytes: maxBytes}
}

// Encode reads src fully and embeds it. On error no attachment is returned.
func (c *Codec) Encode(src Source, kind store.AttachmentKind) (store.Attachment, error) {
	a, err := c.encode(src, kind)
	if err != nil {
		return store.Attachment{}, &EncodingError{Index: -1, Name: src.Name(), Err: err}
	}
	return a, nil
}

func (c *Codec) encode(src Source, kind store.AttachmentKind) (store.Attachment, error) {
	rc, err := src.Open()
	if err != nil {
		return store.Attachment{}, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = rc.Close() }()

	r := io.Reader(rc)
	if c.MaxBytes > 0 {
		r = io.LimitReader(rc, c.MaxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return store.Attachment{}, fmt.Errorf("read: %w", err)
	}
	if c.MaxBytes > 0 && int64(len(data)) > c.MaxBytes {
		return store.Attachment{}, fmt.Errorf("larger than %d bytes", c.MaxBytes)
	}

	return store.Attachment{
		ID:         fmt.Sprintf("%s-%d-%d", src.Name(), src.Size(), src.ModTime().UnixMilli()),
		Name:       src.Name(),
		Kind:       kind,
		ContentRef: DataURI(detectMIME(src.Name(), data), data),
	}, nil
}

// BatchResult holds the outcome of EncodeBatch, both lists in input order.
type BatchResult struct {
	Attachments []store.Attachment
	Errors      []*EncodingError
}

// Err joins the per-file errors, or returns nil when every file succeeded.
func (r BatchResult) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Error()
	}
	return fmt.Errorf("%d of %d attachments failed: %s",
		len(r.Errors), len(r.Errors)+len(r.Attachments), strings.Join(msgs, "; "))
}

// EncodeBatch encodes sources concurrently. A failed file is reported in
// Errors and left out of Attachments; the others are unaffected.
func (c *Codec) EncodeBatch(ctx context.Context, sources []Source, kind store.AttachmentKind) BatchResult {
	type slot struct {
		a   store.Attachment
		err error
	}
	slots := make([]slot, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchLimit)
	for i, src := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				slots[i].err = err
				return nil
			}
			slots[i].a, slots[i].err = c.encode(src, kind)
			return nil
		})
	}
	_ = g.Wait()

	var res BatchResult
	for i, s := range slots {
		if s.err != nil {
			res.Errors = append(res.Errors, &EncodingError{Index: i, Name: sources[i].Name(), Err: s.err})
			continue
		}
		res.Attachments = append(res.Attachments, s.a)
	}
	return res
}

// DataURI formats data as a base64 data URI.
func DataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func detectMIME(name string, data []byte) string {
	if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
		return kind.MIME.Value
	}
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		if base, _, ok := strings.Cut(t, ";"); ok {
			return base
		}
		return t
	}
	return fallbackMIME
}
