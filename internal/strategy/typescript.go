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
	Register(lang.TypeScript, extractTSJS)
	Register(lang.JavaScript, extractTSJS)
}

// expressRouteRe matches app.get('/path', ...), router.post("/path", ...)
// and the NestJS-free Express/Fastify convention of a method literal
// followed by a path string literal.
var expressRouteRe = regexp.MustCompile(`(?:app|router|route)\s*\.\s*(get|post|put|delete|patch|options|head|all)\s*\(\s*['"` + "`" + `]([^'"` + "`" + `]*)['"` + "`" + `]`)

// nestDecoratorRe matches NestJS @Get('path'), @Post(), @Controller('prefix').
var nestDecoratorRe = regexp.MustCompile(`@(Get|Post|Put|Delete|Patch|Options|Head|All|Controller)\s*\(\s*['"` + "`" + `]?([^'"` + "`" + `)]*)['"` + "`" + `]?\s*\)`)

// nextApiExportRe matches Next.js App Router handler exports named after
// an HTTP method: export [default] [async] function GET|POST|PUT|DELETE|PATCH.
var nextApiExportRe = regexp.MustCompile(`export\s+(?:default\s+)?(?:async\s+)?function\s+(GET|POST|PUT|DELETE|PATCH)\b`)

// importRe matches ES module imports and CommonJS requires with a string
// specifier, the raw value later resolved by the interaction analyzer.
var importRe = regexp.MustCompile(`(?:from\s+['"` + "`" + `]([^'"` + "`" + `]+)['"` + "`" + `])|(?:require\s*\(\s*['"` + "`" + `]([^'"` + "`" + `]+)['"` + "`" + `]\s*\))`)

// hookCallRe matches React hook invocations (useState, useEffect, a custom
// useFoo, ...).
var hookCallRe = regexp.MustCompile(`\buse[A-Z]\w*\s*\(`)

// reactSpecifierRe matches an import specifier of "react", "@react*", or
// "react-*" — the spec §4.A marker of a React-flavoured file.
var reactSpecifierRe = regexp.MustCompile(`^(react|@react[\w/-]*|react-[\w/-]*)$`)

// isReactFlavoredFile implements the non-name-based half of spec §4.A's
// Component test: a .tsx extension, or an import of react/@react*/react-*.
func isReactFlavoredFile(in Input, source []byte) bool {
	if strings.HasSuffix(in.FilePath, ".tsx") {
		return true
	}
	for _, m := range importRe.FindAllStringSubmatch(string(source), -1) {
		if reactSpecifierRe.MatchString(firstNonEmpty(m[1], m[2])) {
			return true
		}
	}
	return false
}

func extractTSJS(in Input) Result {
	var res Result
	res.Nodes = append(res.Nodes, fileNode(in))
	res.Exports = map[string]string{}

	if in.IsStub() {
		extractTSJSFallback(in, &res)
		return res
	}

	root := in.Parsed.Tree.RootNode()
	source := in.Source()
	fileID := codemap.NodeID("File", in.FilePath, in.FilePath)
	isReactFile := isReactFlavoredFile(in, source)

	var controllerPrefix string
	parser.Walk(root, func(n *tree_sitter.Node) bool {
		switch n.Kind() {
		case "import_statement":
			text := nodeText(n, source)
			for _, m := range importRe.FindAllStringSubmatch(text, -1) {
				spec := firstNonEmpty(m[1], m[2])
				if spec != "" {
					res.Edges = append(res.Edges, importsEdge(fileID, spec))
				}
			}

		case "call_expression":
			if callee := n.ChildByFieldName("function"); callee != nil && nodeText(callee, source) == "require" {
				for _, m := range importRe.FindAllStringSubmatch(nodeText(n, source), -1) {
					if spec := firstNonEmpty(m[1], m[2]); spec != "" {
						res.Edges = append(res.Edges, importsEdge(fileID, spec))
					}
				}
			}

		case "function_declaration", "method_definition":
			nameNode := n.ChildByFieldName("name")
			if nameNode == nil {
				return true
			}
			name := nodeText(nameNode, source)
			decl := enclosingDeclaration(n)
			snippet := nodeText(decl, source)

			if isUpperFirst(name) && isReactFile && returnsJSX(snippet) {
				node := declNode(codemap.NodeComponent, "component", name, in, snippet)
				res.Nodes = append(res.Nodes, node)
				if strings.Contains(snippet, "export") {
					res.Exports[name] = node.ID
				}
				collectHookCalls(n, source, node.ID, in.FilePath, &res)
				return true
			}

			node := declNode(codemap.NodeFunction, "function", name, in, snippet)
			res.Nodes = append(res.Nodes, node)
			if strings.Contains(snippet, "export") {
				res.Exports[name] = node.ID
			}
			collectCalls(n, source, node.ID, in.FilePath, &res)

			for _, m := range expressRouteRe.FindAllStringSubmatch(snippet, -1) {
				routeLabel := normalizeRoutePath(controllerPrefix, m[2])
				res.Nodes = append(res.Nodes, &codemap.Node{
					ID:       codemap.NodeID("APIRoute", strings.ToUpper(m[1])+" "+routeLabel, in.FilePath),
					Type:     codemap.NodeAPIRoute,
					Label:    strings.ToUpper(m[1]) + " " + routeLabel,
					FilePath: in.FilePath,
					Language: string(in.Language),
					Metadata: codemap.RouteFrameworkMeta{Framework: "Express", HTTPMethod: strings.ToUpper(m[1])}.ToMap(),
				})
			}
			for _, m := range nestDecoratorRe.FindAllStringSubmatch(decoratorsText(n, source), -1) {
				if strings.EqualFold(m[1], "Controller") {
					controllerPrefix = "/" + strings.Trim(m[2], "/")
					continue
				}
				routeLabel := normalizeRoutePath(controllerPrefix, m[2])
				res.Nodes = append(res.Nodes, &codemap.Node{
					ID:       codemap.NodeID("APIRoute", strings.ToUpper(m[1])+" "+routeLabel, in.FilePath),
					Type:     codemap.NodeAPIRoute,
					Label:    strings.ToUpper(m[1]) + " " + routeLabel,
					FilePath: in.FilePath,
					Language: string(in.Language),
					Metadata: codemap.RouteFrameworkMeta{Framework: "NestJS", HTTPMethod: strings.ToUpper(m[1])}.ToMap(),
				})
			}

		case "class_declaration":
			nameNode := n.ChildByFieldName("name")
			if nameNode == nil {
				return true
			}
			name := nodeText(nameNode, source)
			decl := enclosingDeclaration(n)
			snippet := nodeText(decl, source)
			typ := codemap.NodeClass
			if isUpperFirst(name) && isReactFile && returnsJSX(snippet) {
				typ = codemap.NodeComponent
			}
			node := declNode(typ, "class", name, in, snippet)
			res.Nodes = append(res.Nodes, node)
			if strings.Contains(decoratorsText(n, source), "@Controller") {
				for _, m := range nestDecoratorRe.FindAllStringSubmatch(decoratorsText(n, source), -1) {
					if strings.EqualFold(m[1], "Controller") {
						controllerPrefix = "/" + strings.Trim(m[2], "/")
					}
				}
			}
			if strings.Contains(snippet, "export") {
				res.Exports[name] = node.ID
			}
		}
		return true
	})

	if strings.Contains(in.FilePath, "/api/") && strings.HasSuffix(in.FilePath, "route.ts") {
		routePath := nextAPIRoutePath(in.FilePath)
		for _, m := range nextApiExportRe.FindAllStringSubmatch(string(source), -1) {
			label := strings.ToUpper(m[1]) + " " + routePath
			res.Nodes = append(res.Nodes, &codemap.Node{
				ID:       codemap.NodeID("APIRoute", label, in.FilePath),
				Type:     codemap.NodeAPIRoute,
				Label:    label,
				FilePath: in.FilePath,
				Language: string(in.Language),
				Metadata: codemap.RouteFrameworkMeta{Framework: "Next.js", HTTPMethod: strings.ToUpper(m[1])}.ToMap(),
			})
		}
	}

	return res
}

// nextAPIRoutePath derives the URL path Next.js's App Router maps a route
// file to: everything between the "app" segment and the trailing
// "route.ts"/"route.js" file becomes the path, with the "api" segment
// itself dropped (app/api/users/route.ts -> /users) and dynamic segments
// ([id]) rewritten to :id.
func nextAPIRoutePath(filePath string) string {
	segs := strings.Split(filePath, "/")
	start := 0
	for i, s := range segs {
		if s == "app" {
			start = i + 1
		}
	}
	var parts []string
	for _, s := range segs[start:] {
		if s == "route.ts" || s == "route.js" || s == "api" {
			continue
		}
		if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
			s = ":" + strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
		}
		parts = append(parts, s)
	}
	return "/" + strings.Join(parts, "/")
}

// extractTSJSFallback runs when no tree-sitter grammar is available: route
// and import detection degrade to the same regexes run over raw text.
func extractTSJSFallback(in Input, res *Result) {
	source := string(in.Source())
	fileID := codemap.NodeID("File", in.FilePath, in.FilePath)
	for _, m := range importRe.FindAllStringSubmatch(source, -1) {
		if spec := firstNonEmpty(m[1], m[2]); spec != "" {
			res.Edges = append(res.Edges, importsEdge(fileID, spec))
		}
	}
	for _, m := range expressRouteRe.FindAllStringSubmatch(source, -1) {
		label := strings.ToUpper(m[1]) + " " + m[2]
		res.Nodes = append(res.Nodes, &codemap.Node{
			ID:       codemap.NodeID("APIRoute", label, in.FilePath),
			Type:     codemap.NodeAPIRoute,
			Label:    label,
			FilePath: in.FilePath,
			Language: string(in.Language),
			Metadata: codemap.RouteFrameworkMeta{Framework: "Express", HTTPMethod: strings.ToUpper(m[1])}.ToMap(),
		})
	}
}

func decoratorsText(n *tree_sitter.Node, source []byte) string {
	parent := n.Parent()
	if parent == nil {
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

// returnsJSX is a heuristic: a function/class counts as a component when
// its body contains a JSX element or a return of one.
func returnsJSX(snippet string) bool {
	return strings.Contains(snippet, "</") || regexp.MustCompile(`return\s*\(?\s*<[A-Za-z]`).MatchString(snippet)
}

func collectHookCalls(n *tree_sitter.Node, source []byte, ownerID, filePath string, res *Result) {
	parser.Walk(n, func(c *tree_sitter.Node) bool {
		if c.Kind() == "call_expression" {
			text := nodeText(c, source)
			if hookCallRe.MatchString(text) {
				res.Calls = append(res.Calls, codemap.CallSite{CallerID: ownerID, Raw: text, CallerFile: filePath})
			}
		}
		return true
	})
}

func collectCalls(n *tree_sitter.Node, source []byte, ownerID, filePath string, res *Result) {
	parser.Walk(n, func(c *tree_sitter.Node) bool {
		if c.Kind() == "call_expression" {
			callee := c.ChildByFieldName("function")
			if callee != nil {
				res.Calls = append(res.Calls, codemap.CallSite{CallerID: ownerID, Raw: nodeText(callee, source), CallerFile: filePath})
			}
		}
		return true
	})
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
