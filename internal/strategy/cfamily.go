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
	Register(lang.CPP, extractCPP)
	Register(lang.CSharp, extractCSharp)
	Register(lang.Rust, extractRust)
	Register(lang.PHP, extractPHP)
	Register(lang.Ruby, extractRubyFallback)
	Register(lang.Dart, extractDartFallback)
}

func extractCPP(in Input) Result {
	var res Result
	res.Nodes = append(res.Nodes, fileNode(in))
	res.Exports = map[string]string{}
	source := in.Source()
	fileID := codemap.NodeID("File", in.FilePath, in.FilePath)

	includeRe := regexp.MustCompile(`^\s*#include\s*[<"]([^>"]+)[>"]`)
	for _, line := range strings.Split(string(source), "\n") {
		if m := includeRe.FindStringSubmatch(line); m != nil {
			res.Edges = append(res.Edges, importsEdge(fileID, m[1]))
		}
	}

	if in.IsStub() {
		return res
	}
	root := in.Parsed.Tree.RootNode()
	parser.Walk(root, func(n *tree_sitter.Node) bool {
		switch n.Kind() {
		case "class_specifier", "struct_specifier":
			nameNode := n.ChildByFieldName("name")
			if nameNode == nil {
				return true
			}
			name := nodeText(nameNode, source)
			decl := enclosingDeclaration(n)
			node := declNode(codemap.NodeClass, "class", name, in, nodeText(decl, source))
			res.Nodes = append(res.Nodes, node)
			res.Exports[name] = node.ID
		case "function_definition":
			declNameNode := n.ChildByFieldName("declarator")
			if declNameNode == nil {
				return true
			}
			name := strings.TrimSpace(nodeText(declNameNode, source))
			decl := enclosingDeclaration(n)
			node := declNode(codemap.NodeFunction, "function", name, in, nodeText(decl, source))
			res.Nodes = append(res.Nodes, node)
		}
		return true
	})
	return res
}

// aspNetAttrRe matches [HttpGet("path")] / [HttpPost] on a C# controller
// action, and MapGet("path", handler) minimal-API calls.
var aspNetAttrRe = regexp.MustCompile(`\[Http(Get|Post|Put|Delete|Patch)(?:\s*\(\s*"([^"]*)"\s*\))?\]`)
var aspNetMapRe = regexp.MustCompile(`Map(Get|Post|Put|Delete|Patch)\s*\(\s*"([^"]*)"`)
var aspNetRouteAttrRe = regexp.MustCompile(`\[Route\s*\(\s*"([^"]*)"\s*\)\]`)
var usingRe = regexp.MustCompile(`^\s*using\s+([\w.]+)\s*;`)

func extractCSharp(in Input) Result {
	var res Result
	res.Nodes = append(res.Nodes, fileNode(in))
	res.Exports = map[string]string{}
	source := in.Source()
	fileID := codemap.NodeID("File", in.FilePath, in.FilePath)

	for _, line := range strings.Split(string(source), "\n") {
		if m := usingRe.FindStringSubmatch(line); m != nil {
			res.Edges = append(res.Edges, importsEdge(fileID, m[1]))
		}
	}
	for _, m := range aspNetMapRe.FindAllStringSubmatch(string(source), -1) {
		label := strings.ToUpper(m[1]) + " " + normalizeRoutePath("", m[2])
		res.Nodes = append(res.Nodes, &codemap.Node{
			ID: codemap.NodeID("APIRoute", label, in.FilePath), Type: codemap.NodeAPIRoute, Label: label,
			FilePath: in.FilePath, Language: string(in.Language),
			Metadata: codemap.RouteFrameworkMeta{Framework: "ASP.NET", HTTPMethod: strings.ToUpper(m[1])}.ToMap(),
		})
	}

	if in.IsStub() {
		return res
	}
	root := in.Parsed.Tree.RootNode()
	var classPrefix string
	parser.Walk(root, func(n *tree_sitter.Node) bool {
		switch n.Kind() {
		case "class_declaration":
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
			if m := aspNetRouteAttrRe.FindStringSubmatch(attributesText(n, source)); m != nil {
				classPrefix = "/" + strings.Trim(strings.ReplaceAll(m[1], "[controller]", strings.TrimSuffix(name, "Controller")), "/")
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
			for _, m := range aspNetAttrRe.FindAllStringSubmatch(attributesText(n, source), -1) {
				label := strings.ToUpper(m[1]) + " " + normalizeRoutePath(classPrefix, m[2])
				res.Nodes = append(res.Nodes, &codemap.Node{
					ID: codemap.NodeID("APIRoute", label, in.FilePath), Type: codemap.NodeAPIRoute, Label: label,
					FilePath: in.FilePath, Language: string(in.Language),
					Metadata: codemap.RouteFrameworkMeta{Framework: "ASP.NET", HTTPMethod: strings.ToUpper(m[1])}.ToMap(),
				})
			}
		}
		return true
	})
	return res
}

func attributesText(n *tree_sitter.Node, source []byte) string {
	var b strings.Builder
	for i := uint(0); i < n.ChildCount(); i++ {
		c := n.Child(i)
		if c != nil && c.Kind() == "attribute_list" {
			b.WriteString(nodeText(c, source))
			b.WriteByte('\n')
		}
	}
	return b.String()
}

var rustUseRe = regexp.MustCompile(`^\s*use\s+([\w:]+)`)

func extractRust(in Input) Result {
	var res Result
	res.Nodes = append(res.Nodes, fileNode(in))
	res.Exports = map[string]string{}
	source := in.Source()
	fileID := codemap.NodeID("File", in.FilePath, in.FilePath)

	for _, line := range strings.Split(string(source), "\n") {
		if m := rustUseRe.FindStringSubmatch(line); m != nil {
			res.Edges = append(res.Edges, importsEdge(fileID, m[1]))
		}
	}

	if in.IsStub() {
		return res
	}
	root := in.Parsed.Tree.RootNode()
	parser.Walk(root, func(n *tree_sitter.Node) bool {
		switch n.Kind() {
		case "struct_item", "enum_item", "trait_item":
			nameNode := n.ChildByFieldName("name")
			if nameNode == nil {
				return true
			}
			name := nodeText(nameNode, source)
			decl := enclosingDeclaration(n)
			node := declNode(codemap.NodeClass, "struct", name, in, nodeText(decl, source))
			res.Nodes = append(res.Nodes, node)
			res.Exports[name] = node.ID
		case "impl_item":
			typeNode := n.ChildByFieldName("type")
			if typeNode == nil {
				return true
			}
			body := n.ChildByFieldName("body")
			if body == nil {
				return true
			}
			typeName := nodeText(typeNode, source)
			for i := uint(0); i < body.ChildCount(); i++ {
				fn := body.Child(i)
				if fn == nil || fn.Kind() != "function_item" {
					continue
				}
				nameNode := fn.ChildByFieldName("name")
				if nameNode == nil {
					continue
				}
				name := typeName + "::" + nodeText(nameNode, source)
				decl := enclosingDeclaration(fn)
				node := declNode(codemap.NodeFunction, "function", name, in, nodeText(decl, source))
				res.Nodes = append(res.Nodes, node)
			}
		case "function_item":
			if n.Parent() != nil && n.Parent().Kind() == "declaration_list" {
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
		}
		return true
	})
	return res
}

// laravelRouteRe matches Route::get('/path', [Controller::class,
// 'action']) inside routes/*.php files.
var laravelRouteRe = regexp.MustCompile(`Route::(get|post|put|delete|patch)\s*\(\s*['"]([^'"]*)['"]`)
var phpUseRe = regexp.MustCompile(`^\s*use\s+([\w\\]+)\s*;`)
var phpRequireRe = regexp.MustCompile(`(?:require|include)(?:_once)?\s*\(?['"]([^'"]+)['"]`)

func extractPHP(in Input) Result {
	var res Result
	res.Nodes = append(res.Nodes, fileNode(in))
	res.Exports = map[string]string{}
	source := in.Source()
	fileID := codemap.NodeID("File", in.FilePath, in.FilePath)

	for _, line := range strings.Split(string(source), "\n") {
		if m := phpUseRe.FindStringSubmatch(line); m != nil {
			res.Edges = append(res.Edges, importsEdge(fileID, m[1]))
		}
	}
	for _, m := range phpRequireRe.FindAllStringSubmatch(string(source), -1) {
		res.Edges = append(res.Edges, importsEdge(fileID, m[1]))
	}

	isRouteFile := strings.HasPrefix(in.FilePath, "routes/") || strings.Contains(in.FilePath, "/routes/")
	if isRouteFile {
		for _, m := range laravelRouteRe.FindAllStringSubmatch(string(source), -1) {
			label := strings.ToUpper(m[1]) + " " + normalizeRoutePath("", m[2])
			res.Nodes = append(res.Nodes, &codemap.Node{
				ID: codemap.NodeID("APIRoute", label, in.FilePath), Type: codemap.NodeAPIRoute, Label: label,
				FilePath: in.FilePath, Language: string(in.Language),
				Metadata: codemap.RouteFrameworkMeta{Framework: "Laravel", HTTPMethod: strings.ToUpper(m[1])}.ToMap(),
			})
		}
	}

	if in.IsStub() {
		return res
	}
	root := in.Parsed.Tree.RootNode()
	parser.Walk(root, func(n *tree_sitter.Node) bool {
		switch n.Kind() {
		case "class_declaration":
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
		case "function_definition", "method_declaration":
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

// railsControllerActionNames is the conventional REST action set that, on
// a class extending ApplicationController, each map to a derived
// APIRoute per spec §4.A's Ruby responsibilities.
var railsControllerActionNames = map[string]string{
	"index": "GET", "show": "GET", "create": "POST",
	"update": "PUT", "destroy": "DELETE", "edit": "GET", "new": "GET",
}

var rubyClassRe = regexp.MustCompile(`class\s+(\w+)\s*<\s*(\w+)`)
var rubyDefRe = regexp.MustCompile(`def\s+(\w+)`)
var sinatraRouteRe = regexp.MustCompile(`\b(get|post|put|delete|patch)\s+['"]([^'"]*)['"]\s+do`)
var rubyRequireRe = regexp.MustCompile(`require(?:_relative)?\s+['"]([^'"]+)['"]`)

// extractRubyFallback implements Ruby's responsibilities with the same
// regex-over-raw-text path the fallback strategy uses, since the parser
// provider carries no Ruby grammar.
func extractRubyFallback(in Input) Result {
	var res Result
	res.Nodes = append(res.Nodes, fileNode(in))
	source := string(in.Source())
	fileID := codemap.NodeID("File", in.FilePath, in.FilePath)

	for _, m := range rubyRequireRe.FindAllStringSubmatch(source, -1) {
		res.Edges = append(res.Edges, importsEdge(fileID, m[1]))
	}
	for _, m := range sinatraRouteRe.FindAllStringSubmatch(source, -1) {
		label := strings.ToUpper(m[1]) + " " + normalizeRoutePath("", m[2])
		res.Nodes = append(res.Nodes, &codemap.Node{
			ID: codemap.NodeID("APIRoute", label, in.FilePath), Type: codemap.NodeAPIRoute, Label: label,
			FilePath: in.FilePath, Language: string(in.Language),
			Metadata: codemap.RouteFrameworkMeta{Framework: "Sinatra", HTTPMethod: strings.ToUpper(m[1])}.ToMap(),
		})
	}

	classes := rubyClassRe.FindAllStringSubmatch(source, -1)
	isController := false
	var className string
	for _, m := range classes {
		className = m[1]
		node := &codemap.Node{
			ID: codemap.NodeID("class", className, in.FilePath), Type: codemap.NodeClass, Label: className,
			FilePath: in.FilePath, Language: string(in.Language),
		}
		res.Nodes = append(res.Nodes, node)
		if m[2] == "ApplicationController" {
			isController = true
		}
	}
	if isController {
		for _, m := range rubyDefRe.FindAllStringSubmatch(source, -1) {
			verb, ok := railsControllerActionNames[m[1]]
			if !ok {
				continue
			}
			label := verb + " " + className + "#" + m[1]
			res.Nodes = append(res.Nodes, &codemap.Node{
				ID: codemap.NodeID("APIRoute", label, in.FilePath), Type: codemap.NodeAPIRoute, Label: label,
				FilePath: in.FilePath, Language: string(in.Language),
				Metadata: codemap.RouteFrameworkMeta{Framework: "Rails", HTTPMethod: verb}.ToMap(),
			})
		}
	}
	return res
}

var dartImportRe = regexp.MustCompile(`import\s+['"]([^'"]+)['"]`)
var dartClassRe = regexp.MustCompile(`class\s+(\w+)\s+extends\s+(StatelessWidget|StatefulWidget)`)
var flutterRoutesRe = regexp.MustCompile(`routes\s*:\s*\{([^}]*)\}`)
var flutterRouteEntryRe = regexp.MustCompile(`['"]([^'"]+)['"]\s*:`)

// extractDartFallback implements Dart's Flutter-specific responsibilities
// over raw text, since no Dart grammar is registered in the parser
// provider.
func extractDartFallback(in Input) Result {
	var res Result
	res.Nodes = append(res.Nodes, fileNode(in))
	source := string(in.Source())
	fileID := codemap.NodeID("File", in.FilePath, in.FilePath)

	for _, m := range dartImportRe.FindAllStringSubmatch(source, -1) {
		res.Edges = append(res.Edges, importsEdge(fileID, m[1]))
	}
	for _, m := range dartClassRe.FindAllStringSubmatch(source, -1) {
		res.Nodes = append(res.Nodes, &codemap.Node{
			ID: codemap.NodeID("component", m[1], in.FilePath), Type: codemap.NodeComponent, Label: m[1],
			FilePath: in.FilePath, Language: string(in.Language),
		})
	}
	if m := flutterRoutesRe.FindStringSubmatch(source); m != nil {
		for _, rm := range flutterRouteEntryRe.FindAllStringSubmatch(m[1], -1) {
			label := rm[1]
			res.Nodes = append(res.Nodes, &codemap.Node{
				ID: codemap.NodeID("APIRoute", label, in.FilePath), Type: codemap.NodeAPIRoute, Label: label,
				FilePath: in.FilePath, Language: string(in.Language),
				Metadata: codemap.RouteFrameworkMeta{Framework: "Flutter"}.ToMap(),
			})
		}
	}
	return res
}
