package output

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"gocloud.dev/blob"
)

type (
	// Writer stores synthesized definitions in a bucket or a stream
	Writer struct {
		bucket BucketWriter
		stream io.Writer
		prefix string
	}

	// BucketWriter is the part of *blob.Bucket the Writer needs
	BucketWriter interface {
		WriteAll(context.Context, string, []byte, *blob.WriterOptions) error
	}
)

const (
	contentType = "application/json"
	keySuffix   = ".asl.json"
)

var (
	ErrBucketRequired = errors.New("bucket is required")
	ErrStreamRequired = errors.New("stream is required")
	ErrKeyRequired    = errors.New("object key is required")
)

// NewBucketWriter writes definitions as objects under prefix
func NewBucketWriter(bucket BucketWriter, prefix string) (*Writer, error) {
	if bucket == nil {
		return nil, ErrBucketRequired
	}
	return &Writer{
		bucket: bucket,
		prefix: prefix,
	}, nil
}

// NewStreamWriter writes definitions to w, one per line
func NewStreamWriter(w io.Writer) (*Writer, error) {
	if w == nil {
		return nil, ErrStreamRequired
	}
	return &Writer{stream: w}, nil
}

// Write stores one definition. For bucket writers name becomes the object
// key; stream writers ignore it
func (w *Writer) Write(ctx context.Context, name string, data []byte) error {
	if w.stream != nil {
		if _, err := w.stream.Write(data); err != nil {
			return err
		}
		_, err := w.stream.Write([]byte("\n"))
		return err
	}
	if name == "" {
		return ErrKeyRequired
	}
	return w.bucket.WriteAll(ctx, BuildKey(w.prefix, name), data,
		&blob.WriterOptions{ContentType: contentType},
	)
}

// BuildKey joins prefix and name. A name without an extension gets the
// definition suffix
func BuildKey(prefix, name string) string {
	if path.Ext(name) == "" {
		name += keySuffix
	}
	if prefix == "" {
		return name
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix + name
}

// KeyFor derives an object name from a workflow file path
func KeyFor(file string) string {
	base := path.Base(strings.ReplaceAll(file, "\\", "/"))
	if ext := path.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return base + keySuffix
}
