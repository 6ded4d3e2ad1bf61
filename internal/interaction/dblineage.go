package interaction

import (
	"regexp"

	"github.com/DeusData/codemap/internal/codemap"
)

var sqlVerbRe = regexp.MustCompile(`(?i)\b(SELECT\b.*\bFROM\b|INSERT\s+INTO\b|UPDATE\s+\w+\s+SET\b|DELETE\s+FROM\b)`)

// dbLineage implements spec §4.D's DB lineage heuristic: every
// Function/APIRoute snippet matching a bare SQL verb pattern gets a
// DB_QUERY edge to the single synthetic db:generic node, created on
// first use.
func dbLineage(nodes []*codemap.Node) (*codemap.Node, []*codemap.Edge) {
	var dbNode *codemap.Node
	var edges []*codemap.Edge
	for _, n := range nodes {
		if (n.Type != codemap.NodeFunction && n.Type != codemap.NodeAPIRoute) || n.CodeSnippet == "" {
			continue
		}
		if !sqlVerbRe.MatchString(n.CodeSnippet) {
			continue
		}
		if dbNode == nil {
			dbNode = &codemap.Node{
				ID: codemap.SyntheticID("db", "generic"), Type: codemap.NodeComponent,
				Label: "Database", Language: "N/A",
			}
		}
		edges = append(edges, &codemap.Edge{SourceID: n.ID, TargetID: dbNode.ID, Type: codemap.EdgeDBQuery})
	}
	return dbNode, edges
}
