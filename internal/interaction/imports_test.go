package interaction

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DeusData/codemap/internal/codemap"
)

func TestResolveImportsPython(t *testing.T) {
	caller := &codemap.Node{ID: "caller1", Type: codemap.NodeFile, Language: "Python", FilePath: "app/main.py"}
	target := &codemap.Node{ID: "target1", Type: codemap.NodeFile, FilePath: "app/utils/helpers.py"}
	edge := &codemap.Edge{SourceID: "caller1", TargetID: "app.utils.helpers", Type: codemap.EdgeImports}

	resolveImports(t.TempDir(), []*codemap.Node{caller, target}, []*codemap.Edge{edge})

	assert.Equal(t, "target1", edge.TargetID)
}

func TestResolveImportsLeavesUnresolvedSpecUntouched(t *testing.T) {
	caller := &codemap.Node{ID: "caller1", Type: codemap.NodeFile, Language: "Python", FilePath: "app/main.py"}
	edge := &codemap.Edge{SourceID: "caller1", TargetID: "nonexistent.module", Type: codemap.EdgeImports}

	resolveImports(t.TempDir(), []*codemap.Node{caller}, []*codemap.Edge{edge})

	assert.Equal(t, "nonexistent.module", edge.TargetID)
}

func TestResolveImportsTSRelativeSpecifier(t *testing.T) {
	caller := &codemap.Node{ID: "caller1", Type: codemap.NodeFile, Language: "TypeScript", FilePath: "src/routes/users.ts"}
	target := &codemap.Node{ID: "target1", Type: codemap.NodeFile, FilePath: "src/routes/helpers.ts"}
	edge := &codemap.Edge{SourceID: "caller1", TargetID: "./helpers", Type: codemap.EdgeImports}

	resolveImports(t.TempDir(), []*codemap.Node{caller, target}, []*codemap.Edge{edge})

	assert.Equal(t, "target1", edge.TargetID)
}

func TestResolveImportsTSBareSpecifierResolvesAgainstRoot(t *testing.T) {
	caller := &codemap.Node{ID: "caller1", Type: codemap.NodeFile, Language: "TypeScript", FilePath: "src/routes/users.ts"}
	target := &codemap.Node{ID: "target1", Type: codemap.NodeFile, FilePath: "src/shared/logger.ts"}
	edge := &codemap.Edge{SourceID: "caller1", TargetID: "src/shared/logger", Type: codemap.EdgeImports}

	resolveImports(t.TempDir(), []*codemap.Node{caller, target}, []*codemap.Edge{edge})

	assert.Equal(t, "target1", edge.TargetID)
}
