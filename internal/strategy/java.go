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
	Register(lang.Java, extractJava)
}

// springMappingRe matches @GetMapping("/path"), @RequestMapping(value =
// "/path", method = RequestMethod.POST), @PostMapping, ...
var springMappingRe = regexp.MustCompile(`@(Get|Post|Put|Delete|Patch|Request)Mapping\s*\(([^)]*)\)`)

// springValueRe pulls the first string literal out of a mapping
// annotation's argument list, whether bare or as value=/path=.
var springValueRe = regexp.MustCompile(`(?:value|path)?\s*=?\s*['"]([^'"]*)['"]`)

// springMethodRe extracts RequestMethod.POST out of a @RequestMapping.
var springMethodRe = regexp.MustCompile(`RequestMethod\.(\w+)`)

// javaImportRe matches "import a.b.C;".
var javaImportRe = regexp.MustCompile(`^\s*import\s+(?:static\s+)?([\w.]+\*?)\s*;`)

func extractJava(in Input) Result {
	var res Result
	res.Nodes = append(res.Nodes, fileNode(in))
	res.Exports = map[string]string{}
	source := in.Source()
	fileID := codemap.NodeID("File", in.FilePath, in.FilePath)

	for _, line := range strings.Split(string(source), "\n") {
		if m := javaImportRe.FindStringSubmatch(line); m != nil {
			res.Edges = append(res.Edges, importsEdge(fileID, m[1]))
		}
	}

	if in.IsStub() {
		return res
	}

	root := in.Parsed.Tree.RootNode()
	var classPrefix string

	parser.Walk(root, func(n *tree_sitter.Node) bool {
		switch n.Kind() {
		case "class_declaration", "interface_declaration", "record_declaration", "enum_declaration":
			nameNode := n.ChildByFieldName("name")
			if nameNode == nil {
				return true
			}
			name := nodeText(nameNode, source)
			decl := enclosingDeclaration(n)
			snippet := nodeText(decl, source)
			node := declNode(codemap.NodeClass, "class", name, in, snippet)
			res.Nodes = append(res.Nodes, node)
			res.Exports[name] = node.ID

			modText := modifiersText(n, source)
			for _, m := range springMappingRe.FindAllStringSubmatch(modText, -1) {
				if vm := springValueRe.FindStringSubmatch(m[2]); vm != nil {
					classPrefix = "/" + strings.Trim(vm[1], "/")
				}
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
			collectJavaCalls(n, source, node.ID, in.FilePath, &res)

			modText := modifiersText(n, source)
			for _, m := range springMappingRe.FindAllStringSubmatch(modText, -1) {
				verb := strings.ToUpper(m[1])
				if verb == "REQUEST" {
					if mm := springMethodRe.FindStringSubmatch(m[2]); mm != nil {
						verb = strings.ToUpper(mm[1])
					} else {
						verb = "GET"
					}
				}
				sub := ""
				if vm := springValueRe.FindStringSubmatch(m[2]); vm != nil {
					sub = vm[1]
				}
				label := verb + " " + normalizeRoutePath(classPrefix, sub)
				res.Nodes = append(res.Nodes, &codemap.Node{
					ID:       codemap.NodeID("APIRoute", label, in.FilePath),
					Type:     codemap.NodeAPIRoute,
					Label:    label,
					FilePath: in.FilePath,
					Language: string(in.Language),
					Metadata: codemap.RouteFrameworkMeta{Framework: "Spring", HTTPMethod: verb}.ToMap(),
				})
			}
		}
		return true
	})

	return res
}

func modifiersText(n *tree_sitter.Node, source []byte) string {
	var b strings.Builder
	for i := uint(0); i < n.ChildCount(); i++ {
		c := n.Child(i)
		if c != nil && (c.Kind() == "modifiers" || c.Kind() == "marker_annotation" || c.Kind() == "annotation") {
			b.WriteString(nodeText(c, source))
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func collectJavaCalls(n *tree_sitter.Node, source []byte, ownerID, filePath string, res *Result) {
	parser.Walk(n, func(c *tree_sitter.Node) bool {
		if c.Kind() == "method_invocation" {
			if nameNode := c.ChildByFieldName("name"); nameNode != nil {
				res.Calls = append(res.Calls, codemap.CallSite{CallerID: ownerID, Raw: nodeText(nameNode, source), CallerFile: filePath})
			}
		}
		return true
	})
}
