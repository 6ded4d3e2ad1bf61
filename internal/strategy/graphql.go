package strategy

import (
	"regexp"

	"github.com/DeusData/codemap/internal/codemap"
	"github.com/DeusData/codemap/internal/lang"
)

func init() {
	Register(lang.GraphQL, extractGraphQL)
}

var graphqlTypeRe = regexp.MustCompile(`(?m)^\s*(?:type|interface|enum|input|union)\s+(\w+)`)

// extractGraphQL emits a File node plus one Class node per named SDL type;
// the synthetic graphql:schema node and its linkage to resolvers is built
// by the interaction analyzer, not here, since it spans files.
func extractGraphQL(in Input) Result {
	var res Result
	res.Nodes = append(res.Nodes, fileNode(in))
	source := string(in.Source())
	for _, m := range graphqlTypeRe.FindAllStringSubmatch(source, -1) {
		res.Nodes = append(res.Nodes, &codemap.Node{
			ID:       codemap.NodeID("graphql-type", m[1], in.FilePath),
			Type:     codemap.NodeClass,
			Label:    m[1],
			FilePath: in.FilePath,
			Language: string(in.Language),
		})
	}
	return res
}
