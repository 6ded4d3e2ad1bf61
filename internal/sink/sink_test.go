package sink_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DeusData/codemap/internal/codemap"
	"github.com/DeusData/codemap/internal/sink"
)

func sampleMap() *codemap.CodeMap {
	return &codemap.CodeMap{
		Version:   "1.0",
		Generator: "codemap",
		Nodes:     []*codemap.Node{{ID: "n1", Type: codemap.NodeFile, Label: "main.go"}},
	}
}

func TestWriterSinkWritesIndentedJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (sink.WriterSink{W: &buf}).Write(sampleMap()))

	var decoded codemap.CodeMap
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "1.0", decoded.Version)
	assert.Contains(t, buf.String(), "\n  ")
}

func TestFileSinkCreatesParentAndWritesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "deep", "out.json")

	require.NoError(t, (sink.FileSink{Path: path}).Write(sampleMap()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded codemap.CodeMap
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "codemap", decoded.Generator)
}
