// Package sink is the output boundary (component G): the orchestrator
// writes the finished CodeMap through it, independent of destination.
package sink

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/DeusData/codemap/internal/codemap"
)

// Sink is the output boundary the orchestrator depends on.
type Sink interface {
	Write(m *codemap.CodeMap) error
}

// FileSink writes the map as indented JSON to a path on the local
// filesystem, creating parent directories as needed.
type FileSink struct {
	Path string
}

func (s FileSink) Write(m *codemap.CodeMap) error {
	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("sink: mkdir %s: %w", dir, err)
		}
	}
	f, err := os.Create(s.Path)
	if err != nil {
		return fmt.Errorf("sink: create %s: %w", s.Path, err)
	}
	defer f.Close()
	return WriterSink{W: f}.Write(m)
}

// WriterSink streams the map as indented JSON to an arbitrary io.Writer,
// used by the CLI for stdout output.
type WriterSink struct {
	W io.Writer
}

func (s WriterSink) Write(m *codemap.CodeMap) error {
	enc := json.NewEncoder(s.W)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}
