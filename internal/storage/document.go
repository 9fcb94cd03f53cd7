package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"
)

const (
	DefaultRetries    = 10
	DefaultRetryDelay = 100 * time.Millisecond
)

// Document is a single JSON file holding one settings value.
type Document[T ValidatingSpec] struct {
	path       string
	defaults   func() T
	retries    int
	retryDelay time.Duration
}

type DocumentOpt func(*documentOpts)

type documentOpts struct {
	retries    int
	retryDelay time.Duration
}

// WithRetries sets how many times a read or write is attempted.
func WithRetries(n int) DocumentOpt {
	return func(o *documentOpts) {
		o.retries = n
	}
}

// WithRetryDelay sets the pause between attempts.
func WithRetryDelay(d time.Duration) DocumentOpt {
	return func(o *documentOpts) {
		o.retryDelay = d
	}
}

// NewDocument creates a document at path. defaults supplies the value written
// when the file does not exist yet.
func NewDocument[T ValidatingSpec](path string, defaults func() T, opts ...DocumentOpt) *Document[T] {
	o := documentOpts{
		retries:    DefaultRetries,
		retryDelay: DefaultRetryDelay,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.retries < 1 {
		o.retries = 1
	}

	return &Document[T]{
		path:       path,
		defaults:   defaults,
		retries:    o.retries,
		retryDelay: o.retryDelay,
	}
}

func (d *Document[T]) Path() string {
	return d.path
}

// Load reads and validates the document, creating it from defaults first if
// it is missing.
func (d *Document[T]) Load() (T, error) {
	var zero T

	if _, err := os.Stat(d.path); errors.Is(err, fs.ErrNotExist) {
		slog.Info("creating settings document", "path", d.path)
		if err := d.Save(d.defaults()); err != nil {
			return zero, err
		}
	} else {
		slog.Info("loading settings document", "path", d.path)
	}

	var data []byte
	err := d.retry(func() error {
		var err error
		data, err = os.ReadFile(d.path)
		return err
	})
	if err != nil {
		return zero, fmt.Errorf("reading %s: %w", d.path, err)
	}

	v := d.defaults()
	if err := json.Unmarshal(data, v); err != nil {
		return zero, fmt.Errorf("unmarshalling %s: %w", d.path, err)
	}

	if err := v.Validate(); err != nil {
		return zero, fmt.Errorf("validating %s: %w", d.path, err)
	}

	return v, nil
}

// Save writes v to the document.
func (d *Document[T]) Save(v T) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling json: %w", err)
	}

	if err := d.retry(func() error { return atomicWrite(d.path, data, 0644) }); err != nil {
		return fmt.Errorf("saving %s: %w", d.path, err)
	}
	return nil
}

func (d *Document[T]) retry(fn func() error) error {
	var err error
	for attempt := 1; attempt <= d.retries; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt < d.retries {
			time.Sleep(d.retryDelay)
		}
	}
	return err
}
