package interaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DeusData/codemap/internal/codemap"
)

func TestDBLineageCreatesSyntheticNodeOnce(t *testing.T) {
	nodes := []*codemap.Node{
		{ID: "f1", Type: codemap.NodeFunction, CodeSnippet: `db.Exec("SELECT * FROM users")`},
		{ID: "f2", Type: codemap.NodeFunction, CodeSnippet: `db.Exec("DELETE FROM sessions WHERE id = ?", id)`},
		{ID: "f3", Type: codemap.NodeFunction, CodeSnippet: `return doSomethingElse()`},
	}
	dbNode, edges := dbLineage(nodes)
	require.NotNil(t, dbNode)
	assert.Equal(t, "db:generic", dbNode.ID)
	require.Len(t, edges, 2)
	assert.Equal(t, codemap.EdgeDBQuery, edges[0].Type)
}

func TestDBLineageNoMatches(t *testing.T) {
	nodes := []*codemap.Node{
		{ID: "f1", Type: codemap.NodeFunction, CodeSnippet: `return 1 + 1`},
	}
	dbNode, edges := dbLineage(nodes)
	assert.Nil(t, dbNode)
	assert.Empty(t, edges)
}

func TestORMLineagePrismaReadsAndWrites(t *testing.T) {
	nodes := []*codemap.Node{
		{ID: "f1", Type: codemap.NodeFunction, CodeSnippet: `prisma.user.findMany()`},
		{ID: "f2", Type: codemap.NodeFunction, CodeSnippet: `prisma.user.create({data})`},
	}
	newNodes, edges := ormLineage(nodes)
	require.Len(t, newNodes, 1)
	assert.Equal(t, "table:user", newNodes[0].ID)
	require.Len(t, edges, 2)

	var sawReadsFrom, sawWritesTo bool
	for _, e := range edges {
		if e.Type == codemap.EdgeReadsFrom {
			sawReadsFrom = true
		}
		if e.Type == codemap.EdgeWritesTo {
			sawWritesTo = true
		}
	}
	assert.True(t, sawReadsFrom)
	assert.True(t, sawWritesTo)
}

func TestKubernetesLinkageSupersetSelectorMatch(t *testing.T) {
	svc := &codemap.Node{
		ID: "svc1", Type: codemap.NodeComponent, Language: "N/A",
		Metadata: codemap.KubernetesMeta{
			ResourceKind: "Service",
			Selectors:    map[string]string{"app": "checkout"},
		}.ToMap(),
	}
	dep := &codemap.Node{
		ID: "dep1", Type: codemap.NodeComponent, Language: "N/A",
		Metadata: codemap.KubernetesMeta{
			ResourceKind: "Deployment",
			Labels:       map[string]string{"app": "checkout", "tier": "backend"},
			Images:       []string{"myrepo/checkout:1.2.3"},
		}.ToMap(),
	}
	nodes := []*codemap.Node{svc, dep}
	newNodes, edges := kubernetesLinkage(nodes)

	var sawServiceRef, sawImageRef bool
	for _, e := range edges {
		if e.SourceID == "svc1" && e.TargetID == "dep1" {
			sawServiceRef = true
		}
		if e.SourceID == "dep1" && e.Type == codemap.EdgeReferences {
			sawImageRef = true
		}
	}
	assert.True(t, sawServiceRef)
	assert.True(t, sawImageRef)
	require.Len(t, newNodes, 1)
	assert.Equal(t, "image:myrepo/checkout:1.2.3", newNodes[0].ID)
}
