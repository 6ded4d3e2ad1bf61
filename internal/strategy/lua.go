package strategy

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/DeusData/codemap/internal/codemap"
	"github.com/DeusData/codemap/internal/lang"
	"github.com/DeusData/codemap/internal/parser"
)

func init() {
	Register(lang.Lua, extractLua)
}

// extractLua is a minimal SUPPLEMENT strategy: function declarations only,
// no framework dialect is named for Lua anywhere in the spec.
func extractLua(in Input) Result {
	var res Result
	res.Nodes = append(res.Nodes, fileNode(in))
	res.Exports = map[string]string{}

	if in.IsStub() {
		return res
	}
	root := in.Parsed.Tree.RootNode()
	source := in.Source()
	parser.Walk(root, func(n *tree_sitter.Node) bool {
		if n.Kind() != "function_declaration" && n.Kind() != "function_statement" {
			return true
		}
		nameNode := n.ChildByFieldName("name")
		if nameNode == nil {
			return true
		}
		name := nodeText(nameNode, source)
		decl := enclosingDeclaration(n)
		node := declNode(codemap.NodeFunction, "function", name, in, nodeText(decl, source))
		res.Nodes = append(res.Nodes, node)
		res.Exports[name] = node.ID
		return true
	})
	return res
}
