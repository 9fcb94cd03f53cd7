package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
)

type docSpec struct {
	Enabled bool    `json:"enabled"`
	Range   float64 `json:"range"`
}

func (s *docSpec) Validate() error {
	if s.Range < 0 {
		return fmt.Errorf("range must not be negative")
	}
	return nil
}

func docDefaults() *docSpec {
	return &docSpec{Enabled: true, Range: 10}
}

func TestDocument_Load(t *testing.T) {
	tests := map[string]struct {
		contents *string
		expErr   bool
		exp      docSpec
	}{
		"missing file is created": {
			exp: docSpec{Enabled: true, Range: 10},
		},
		"existing file": {
			contents: ptr(`{"enabled": false, "range": 4}`),
			exp:      docSpec{Enabled: false, Range: 4},
		},
		"missing fields keep defaults": {
			contents: ptr(`{"range": 2}`),
			exp:      docSpec{Enabled: true, Range: 2},
		},
		"invalid json": {
			contents: ptr(`{"range": `),
			expErr:   true,
		},
		"fails validation": {
			contents: ptr(`{"range": -1}`),
			expErr:   true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "settings.json")
			if tt.contents != nil {
				if err := os.WriteFile(path, []byte(*tt.contents), 0644); err != nil {
					t.Fatal(err)
				}
			}

			doc := NewDocument(path, docDefaults, WithRetries(2), WithRetryDelay(time.Millisecond))
			got, err := doc.Load()
			if tt.expErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "loaded", *got, tt.exp)

			if _, err := os.Stat(path); err != nil {
				t.Errorf("expected document on disk: %v", err)
			}
		})
	}
}

func TestDocument_Save(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	doc := NewDocument(path, docDefaults)

	if err := doc.Save(&docSpec{Enabled: false, Range: 7}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading saved file: %v", err)
	}
	var got docSpec
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshalling saved file: %v", err)
	}
	testutil.AssertEqual(t, "saved", got, docSpec{Enabled: false, Range: 7})
}

func TestDocument_SaveUnwritable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "settings.json")
	doc := NewDocument(path, docDefaults, WithRetries(3), WithRetryDelay(time.Millisecond))

	if _, err := doc.Load(); err == nil {
		t.Error("expected error when the document cannot be created")
	}
}

func ptr(s string) *string {
	return &s
}
