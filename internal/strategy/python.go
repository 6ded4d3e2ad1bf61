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
	Register(lang.Python, extractPython)
}

// flaskRouteRe matches @app.route('/path', methods=['GET','POST']) and the
// verb-named shortcuts (@app.get, @bp.post, ...).
var flaskRouteRe = regexp.MustCompile(`@(?:\w+)\.(route|get|post|put|delete|patch)\s*\(\s*['"]([^'"]*)['"]([^)]*)\)`)

// fastAPIRouteRe matches @app.get("/path") / @router.post("/path").
var fastAPIRouteRe = flaskRouteRe

// methodsKwRe extracts methods=['GET', 'POST'] from a Flask decorator tail.
var methodsKwRe = regexp.MustCompile(`methods\s*=\s*\[([^\]]*)\]`)

// djangoURLRe matches path('users/', views.list_users) / re_path(...) inside
// a urls.py file.
var djangoURLRe = regexp.MustCompile(`(?:path|re_path)\s*\(\s*r?['"]([^'"]*)['"]\s*,\s*([\w.]+)`)

// drfViewSetActionRe matches DRF @action(detail=True, methods=['post']).
var drfViewSetActionRe = regexp.MustCompile(`@action\s*\(([^)]*)\)`)

// pyImportRe matches "import x" / "from x import y".
var pyImportRe = regexp.MustCompile(`^\s*(?:from\s+([\w.]+)\s+import|import\s+([\w.]+))`)

func extractPython(in Input) Result {
	var res Result
	res.Nodes = append(res.Nodes, fileNode(in))
	res.Exports = map[string]string{}
	source := in.Source()
	fileID := codemap.NodeID("File", in.FilePath, in.FilePath)

	for _, line := range strings.Split(string(source), "\n") {
		if m := pyImportRe.FindStringSubmatch(line); m != nil {
			spec := firstNonEmpty(m[1], m[2])
			if spec != "" {
				res.Edges = append(res.Edges, importsEdge(fileID, spec))
			}
		}
	}

	isURLConf := strings.HasSuffix(in.FilePath, "urls.py")
	if isURLConf {
		for _, m := range djangoURLRe.FindAllStringSubmatch(string(source), -1) {
			label := "/" + strings.Trim(m[1], "/")
			res.Nodes = append(res.Nodes, &codemap.Node{
				ID:       codemap.NodeID("APIRoute", label, in.FilePath),
				Type:     codemap.NodeAPIRoute,
				Label:    label,
				FilePath: in.FilePath,
				Language: string(in.Language),
				Metadata: codemap.RouteFrameworkMeta{Framework: "Django"}.ToMap(),
			})
		}
	}

	if in.IsStub() {
		extractPythonFallback(in, &res)
		return res
	}

	root := in.Parsed.Tree.RootNode()
	isDjangoDRF := strings.Contains(string(source), "rest_framework")

	parser.Walk(root, func(n *tree_sitter.Node) bool {
		switch n.Kind() {
		case "function_definition":
			nameNode := n.ChildByFieldName("name")
			if nameNode == nil {
				return true
			}
			name := nodeText(nameNode, source)
			decl := enclosingDeclaration(n)
			snippet := nodeText(decl, source)
			node := declNode(codemap.NodeFunction, "function", name, in, snippet)
			res.Nodes = append(res.Nodes, node)
			res.Exports[name] = node.ID
			collectPyCalls(n, source, node.ID, in.FilePath, &res)

			decoText := pyDecoratorsText(n, source)
			for _, m := range flaskRouteRe.FindAllStringSubmatch(decoText, -1) {
				methods := []string{strings.ToUpper(m[1])}
				if mm := methodsKwRe.FindStringSubmatch(m[3]); mm != nil {
					methods = splitCSVQuoted(mm[1])
				}
				framework := "Flask"
				if strings.Contains(decoText, "router.") || isDjangoDRF {
					framework = "FastAPI"
				}
				for _, meth := range methods {
					label := strings.ToUpper(meth) + " " + normalizeRoutePath("", m[2])
					res.Nodes = append(res.Nodes, &codemap.Node{
						ID:       codemap.NodeID("APIRoute", label, in.FilePath),
						Type:     codemap.NodeAPIRoute,
						Label:    label,
						FilePath: in.FilePath,
						Language: string(in.Language),
						Metadata: codemap.RouteFrameworkMeta{Framework: framework, HTTPMethod: strings.ToUpper(meth)}.ToMap(),
					})
				}
			}
			if drfViewSetActionRe.MatchString(decoText) {
				res.Nodes = append(res.Nodes, &codemap.Node{
					ID:       codemap.NodeID("APIRoute", name, in.FilePath),
					Type:     codemap.NodeAPIRoute,
					Label:    name,
					FilePath: in.FilePath,
					Language: string(in.Language),
					Metadata: codemap.RouteFrameworkMeta{Framework: "Django REST Framework"}.ToMap(),
				})
			}

		case "class_definition":
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
		}
		return true
	})

	return res
}

func extractPythonFallback(in Input, res *Result) {
	source := string(in.Source())
	for _, m := range flaskRouteRe.FindAllStringSubmatch(source, -1) {
		methods := []string{strings.ToUpper(m[1])}
		if mm := methodsKwRe.FindStringSubmatch(m[3]); mm != nil {
			methods = splitCSVQuoted(mm[1])
		}
		path := normalizeRoutePath("", m[2])
		for _, verb := range methods {
			label := strings.ToUpper(verb) + " " + path
			res.Nodes = append(res.Nodes, &codemap.Node{
				ID:       codemap.NodeID("APIRoute", label, in.FilePath),
				Type:     codemap.NodeAPIRoute,
				Label:    label,
				FilePath: in.FilePath,
				Language: string(in.Language),
				Metadata: codemap.RouteFrameworkMeta{Framework: "Flask", HTTPMethod: strings.ToUpper(verb)}.ToMap(),
			})
		}
	}
}

// pyDecoratorsText collects the decorator lines immediately preceding a
// function/class definition (tree-sitter attaches them as preceding
// siblings under the same "decorated_definition" parent).
func pyDecoratorsText(n *tree_sitter.Node, source []byte) string {
	parent := n.Parent()
	if parent == nil || parent.Kind() != "decorated_definition" {
		return ""
	}
	var b strings.Builder
	for i := uint(0); i < parent.ChildCount(); i++ {
		c := parent.Child(i)
		if c != nil && c.Kind() == "decorator" {
			b.WriteString(nodeText(c, source))
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func collectPyCalls(n *tree_sitter.Node, source []byte, ownerID, filePath string, res *Result) {
	parser.Walk(n, func(c *tree_sitter.Node) bool {
		if c.Kind() == "call" {
			if callee := c.ChildByFieldName("function"); callee != nil {
				res.Calls = append(res.Calls, codemap.CallSite{CallerID: ownerID, Raw: nodeText(callee, source), CallerFile: filePath})
			}
		}
		return true
	})
}

func splitCSVQuoted(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		v := stripQuotes(part)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
