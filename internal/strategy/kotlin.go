package strategy

import (
	"regexp"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/DeusData/codemap/internal/codemap"
	"github.com/DeusData/codemap/internal/lang"
	"github.com/DeusData/codemap/internal/parser"
)

func init() {
	Register(lang.Kotlin, extractKotlin)
}

// ktorRouteRe matches Ktor's routing DSL: get("/path") { ... },
// post("/path") { ... } inside a routing { } block.
var ktorRouteRe = regexp.MustCompile(`\b(get|post|put|delete|patch)\s*\(\s*"([^"]*)"\s*\)\s*\{`)
var kotlinImportRe = regexp.MustCompile(`^\s*import\s+([\w.]+\*?)`)

// extractKotlin is a SUPPLEMENT strategy folded into the Java family with
// Ktor-specific routing: the distilled spec names no Kotlin dialect, but
// original_source/ shows Kotlin files in the retrieved tree, so Kotlin
// gets the same declaration-walk treatment as Java with Ktor route
// detection layered on top instead of Spring annotations.
func extractKotlin(in Input) Result {
	var res Result
	res.Nodes = append(res.Nodes, fileNode(in))
	res.Exports = map[string]string{}
	source := in.Source()
	fileID := codemap.NodeID("File", in.FilePath, in.FilePath)

	for _, line := range strings.Split(string(source), "\n") {
		if m := kotlinImportRe.FindStringSubmatch(line); m != nil {
			res.Edges = append(res.Edges, importsEdge(fileID, m[1]))
		}
	}
	for _, m := range ktorRouteRe.FindAllStringSubmatch(string(source), -1) {
		label := strings.ToUpper(m[1]) + " " + normalizeRoutePath("", m[2])
		res.Nodes = append(res.Nodes, &codemap.Node{
			ID:       codemap.NodeID("APIRoute", label, in.FilePath),
			Type:     codemap.NodeAPIRoute,
			Label:    label,
			FilePath: in.FilePath,
			Language: string(in.Language),
			Metadata: codemap.RouteFrameworkMeta{Framework: "Ktor", HTTPMethod: strings.ToUpper(m[1])}.ToMap(),
		})
	}

	if in.IsStub() {
		return res
	}
	root := in.Parsed.Tree.RootNode()
	parser.Walk(root, func(n *tree_sitter.Node) bool {
		switch n.Kind() {
		case "class_declaration", "object_declaration":
			nameNode := n.ChildByFieldName("name")
			if nameNode == nil {
				return true
			}
			name := nodeText(nameNode, source)
			decl := enclosingDeclaration(n)
			node := declNode(codemap.NodeClass, "class", name, in, nodeText(decl, source))
			res.Nodes = append(res.Nodes, node)
			res.Exports[name] = node.ID
		case "function_declaration":
			nameNode := n.ChildByFieldName("name")
			if nameNode == nil {
				return true
			}
			name := nodeText(nameNode, source)
			decl := enclosingDeclaration(n)
			node := declNode(codemap.NodeFunction, "function", name, in, nodeText(decl, source))
			res.Nodes = append(res.Nodes, node)
		}
		return true
	})
	return res
}
