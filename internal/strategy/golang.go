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
	Register(lang.Go, extractGo)
}

// goRouteRe matches router.GET("/path", handler), r.Get("/path", handler),
// e.GET("/path", handler) — the shared Gin/Echo/Chi/Fiber shape of
// receiver.VERB(path, ...).
var goRouteRe = regexp.MustCompile(`(?:\w+)\.(GET|POST|PUT|DELETE|PATCH|Get|Post|Put|Delete|Patch|Handle(?:Func)?)\s*\(\s*"([^"]*)"`)

// goImportRe matches a single import line inside an import(...) block or a
// standalone import "path" statement.
var goImportRe = regexp.MustCompile(`^\s*(?:\w+\s+)?"([^"]+)"`)

func extractGo(in Input) Result {
	var res Result
	res.Nodes = append(res.Nodes, fileNode(in))
	res.Exports = map[string]string{}

	if in.IsStub() {
		return res
	}

	root := in.Parsed.Tree.RootNode()
	source := in.Source()
	fileID := codemap.NodeID("File", in.FilePath, in.FilePath)

	var groupPrefix string
	parser.Walk(root, func(n *tree_sitter.Node) bool {
		switch n.Kind() {
		case "import_spec":
			pathNode := n.ChildByFieldName("path")
			if pathNode != nil {
				res.Edges = append(res.Edges, importsEdge(fileID, stripQuotes(nodeText(pathNode, source))))
			}

		case "function_declaration":
			nameNode := n.ChildByFieldName("name")
			if nameNode == nil {
				return true
			}
			name := nodeText(nameNode, source)
			decl := enclosingDeclaration(n)
			snippet := nodeText(decl, source)
			node := declNode(codemap.NodeFunction, "function", name, in, snippet)
			res.Nodes = append(res.Nodes, node)
			if isUpperFirst(name) {
				res.Exports[name] = node.ID
			}
			collectGoCalls(n, source, node.ID, in.FilePath, &res)

			for _, m := range goRouteRe.FindAllStringSubmatch(snippet, -1) {
				verb := strings.ToUpper(m[1])
				if verb == "HANDLE" || verb == "HANDLEFUNC" {
					continue
				}
				label := verb + " " + normalizeRoutePath(groupPrefix, m[2])
				res.Nodes = append(res.Nodes, &codemap.Node{
					ID:       codemap.NodeID("APIRoute", label, in.FilePath),
					Type:     codemap.NodeAPIRoute,
					Label:    label,
					FilePath: in.FilePath,
					Language: string(in.Language),
					Metadata: codemap.RouteFrameworkMeta{Framework: goFramework(snippet), HTTPMethod: verb}.ToMap(),
				})
			}

		case "method_declaration":
			nameNode := n.ChildByFieldName("name")
			if nameNode == nil {
				return true
			}
			name := nodeText(nameNode, source)
			decl := enclosingDeclaration(n)
			snippet := nodeText(decl, source)
			node := declNode(codemap.NodeFunction, "method", name, in, snippet)
			res.Nodes = append(res.Nodes, node)
			collectGoCalls(n, source, node.ID, in.FilePath, &res)

		case "type_declaration":
			parser.Walk(n, func(c *tree_sitter.Node) bool {
				if c.Kind() == "type_spec" {
					nameNode := c.ChildByFieldName("name")
					if nameNode != nil {
						name := nodeText(nameNode, source)
						decl := enclosingDeclaration(n)
						snippet := nodeText(decl, source)
						node := declNode(codemap.NodeClass, "type", name, in, snippet)
						res.Nodes = append(res.Nodes, node)
						if isUpperFirst(name) {
							res.Exports[name] = node.ID
						}
					}
				}
				return true
			})
			return false
		}
		return true
	})

	return res
}

// goFramework is a best-effort guess at the router library from the
// package qualifier seen in the snippet ("gin.", "echo.", "fiber.",
// "chi."); falls back to a generic tag.
func goFramework(snippet string) string {
	switch {
	case strings.Contains(snippet, "gin."):
		return "Gin"
	case strings.Contains(snippet, "echo."):
		return "Echo"
	case strings.Contains(snippet, "fiber."):
		return "Fiber"
	case strings.Contains(snippet, "chi."):
		return "Chi"
	default:
		return "net/http"
	}
}

func collectGoCalls(n *tree_sitter.Node, source []byte, ownerID, filePath string, res *Result) {
	parser.Walk(n, func(c *tree_sitter.Node) bool {
		if c.Kind() == "call_expression" {
			if fn := c.ChildByFieldName("function"); fn != nil {
				res.Calls = append(res.Calls, codemap.CallSite{CallerID: ownerID, Raw: nodeText(fn, source), CallerFile: filePath})
			}
		}
		return true
	})
}
