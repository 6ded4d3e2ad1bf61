package codemap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DeusData/codemap/internal/codemap"
)

func TestNodeIDDeterministic(t *testing.T) {
	a := codemap.NodeID("Function", "DoThing", "src/foo.go")
	b := codemap.NodeID("Function", "DoThing", "src/foo.go")
	assert.Equal(t, a, b)
	assert.Len(t, a, 40) // hex-encoded SHA-1
}

func TestNodeIDDiffersByOffset(t *testing.T) {
	a := codemap.NodeID("Function", "DoThing", "src/foo.go", 10)
	b := codemap.NodeID("Function", "DoThing", "src/foo.go", 20)
	assert.NotEqual(t, a, b)
}

func TestNodeIDDiffersByKind(t *testing.T) {
	a := codemap.NodeID("Function", "DoThing", "src/foo.go")
	b := codemap.NodeID("Class", "DoThing", "src/foo.go")
	assert.NotEqual(t, a, b)
}

func TestSyntheticID(t *testing.T) {
	assert.Equal(t, "table:users", codemap.SyntheticID("table", "users"))
	assert.Equal(t, "db", codemap.SyntheticID("db", ""))
}

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "a/b/c.go", codemap.NormalizePath(`a\b\c.go`))
	assert.Equal(t, "a/b/c.go", codemap.NormalizePath("a/b/c.go"))
}
