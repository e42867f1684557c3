// Package blob stores uploaded screenshots in a Go CDK bucket.
package blob

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	gcblob "gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	"gocloud.dev/gcerrors"
)

var (
	ErrInvalidKey = errors.New("blob: invalid object key")
	ErrNotFound   = errors.New("blob: object not found")
)

// Bucket keeps objects under forward-slash keys, e.g.
// "<account-id>/<id>.png".
type Bucket struct {
	b *gcblob.Bucket
}

// NewFS opens a bucket backed by files under root, creating it if needed.
func NewFS(root string) (*Bucket, error) {
	if root == "" {
		return nil, errors.New("blob: root directory is required")
	}
	b, err := fileblob.OpenBucket(root, &fileblob.Options{CreateDir: true})
	if err != nil {
		return nil, fmt.Errorf("blob: open %s: %w", root, err)
	}
	return New(b), nil
}

// New wraps an opened bucket. Close closes it.
func New(b *gcblob.Bucket) *Bucket {
	return &Bucket{b: b}
}

// Put writes data to key, replacing any existing object. Readers never see
// a partial object.
func (s *Bucket) Put(ctx context.Context, key, contentType string, data []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	opts := &gcblob.WriterOptions{ContentType: contentType}
	if err := s.b.WriteAll(ctx, key, data, opts); err != nil {
		return fmt.Errorf("blob: write %s: %w", key, err)
	}
	return nil
}

func (s *Bucket) Get(ctx context.Context, key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	data, err := s.b.ReadAll(ctx, key)
	if gcerrors.Code(err) == gcerrors.NotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("blob: read %s: %w", key, err)
	}
	return data, nil
}

// Delete removes key. A missing object is not an error.
func (s *Bucket) Delete(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	err := s.b.Delete(ctx, key)
	if err != nil && gcerrors.Code(err) != gcerrors.NotFound {
		return fmt.Errorf("blob: delete %s: %w", key, err)
	}
	return nil
}

func (s *Bucket) Close() error {
	return s.b.Close()
}

func checkKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, `\`) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	clean := path.Clean(key)
	if clean != key || clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
