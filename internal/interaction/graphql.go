package interaction

import "github.com/DeusData/codemap/internal/codemap"

// graphqlLinkage implements spec §4.D's GraphQL SDL linkage: every File
// node tagged GraphQL gets a REFERENCES edge to a single synthetic
// graphql:schema node, created at most once.
func graphqlLinkage(nodes []*codemap.Node) (*codemap.Node, []*codemap.Edge) {
	var schemaNode *codemap.Node
	var edges []*codemap.Edge
	seenFiles := map[string]bool{}

	for _, n := range nodes {
		if n.Language != "GraphQL" {
			continue
		}
		if schemaNode == nil {
			schemaNode = &codemap.Node{ID: codemap.SyntheticID("graphql", "schema"), Type: codemap.NodeComponent, Label: "GraphQL Schema", Language: "N/A"}
		}
		if n.Type == codemap.NodeFile {
			if seenFiles[n.ID] {
				continue
			}
			seenFiles[n.ID] = true
			edges = append(edges, &codemap.Edge{SourceID: n.ID, TargetID: schemaNode.ID, Type: codemap.EdgeReferences})
		}
	}
	return schemaNode, edges
}
