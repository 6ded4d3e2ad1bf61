package strategy

import (
	"path/filepath"
	"regexp"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/DeusData/codemap/internal/codemap"
	"github.com/DeusData/codemap/internal/parser"
)

// fileNode builds the File node every strategy must emit for the analyzed
// path (spec §4.A common extraction contract).
func fileNode(in Input) *codemap.Node {
	return &codemap.Node{
		ID:       codemap.NodeID("File", in.FilePath, in.FilePath),
		Type:     codemap.NodeFile,
		Label:    filepath.Base(in.FilePath),
		FilePath: in.FilePath,
		Language: string(in.Language),
	}
}

// declNode builds a named-declaration node per the common contract: id is
// SHA-1("kind:name:filePath"), codeSnippet is the enclosing declaration
// text (derived per the §9 open-question resolution: walk up to the
// nearest ancestor whose own parent is the tree root).
func declNode(typ codemap.NodeType, kind, name string, in Input, snippet string) *codemap.Node {
	return &codemap.Node{
		ID:          codemap.NodeID(kind, name, in.FilePath),
		Type:        typ,
		Label:       name,
		FilePath:    in.FilePath,
		Language:    string(in.Language),
		CodeSnippet: snippet,
	}
}

// importsEdge builds the common IMPORTS edge from a File node to a raw
// import specifier, to be resolved later by the interaction analyzer.
func importsEdge(fileID, rawSpecifier string) *codemap.Edge {
	return &codemap.Edge{SourceID: fileID, TargetID: rawSpecifier, Type: codemap.EdgeImports}
}

// enclosingDeclaration walks up from a name node to the top-level
// declaration ancestor — the node whose own parent is the tree root —
// resolving the §9 open question in favor of "outermost wrapping
// declaration", which keeps decorators/exports/modifiers attached to the
// emitted snippet.
func enclosingDeclaration(n *tree_sitter.Node) *tree_sitter.Node {
	cur := n
	for {
		p := cur.Parent()
		if p == nil {
			return cur
		}
		gp := p.Parent()
		if gp == nil {
			return p
		}
		cur = p
	}
}

// nodeText returns a tree-sitter node's source text, tolerating a nil node.
func nodeText(n *tree_sitter.Node, source []byte) string {
	if n == nil {
		return ""
	}
	return parser.NodeText(n, source)
}

// toSet builds a membership set from a node-kind list.
func toSet(kinds []string) map[string]bool {
	s := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		s[k] = true
	}
	return s
}

// routeRegexToMatcher converts a route label with :name / {name} path
// parameters into an anchored regexp matching a single non-slash segment
// in each parameter position (spec §4.D API_CALL synthesis).
func routeRegexToMatcher(label string) *regexp.Regexp {
	escaped := regexp.QuoteMeta(label)
	escaped = regexp.MustCompile(`:[A-Za-z_][A-Za-z0-9_]*`).ReplaceAllString(escaped, `[^/]+`)
	escaped = regexp.MustCompile(`\\\{[A-Za-z_][A-Za-z0-9_]*\\\}`).ReplaceAllString(escaped, `[^/]+`)
	return regexp.MustCompile("^" + escaped + "$")
}

// isUpperFirst reports whether a name begins with an uppercase ASCII
// letter (used for React-component and Go-export heuristics).
func isUpperFirst(name string) bool {
	if name == "" {
		return false
	}
	c := name[0]
	return c >= 'A' && c <= 'Z'
}

// stripQuotes removes a single layer of matching quote characters.
func stripQuotes(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') || (first == '`' && last == '`') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// normalizeRoutePath joins a prefix and a sub-path, collapsing duplicate
// slashes and stripping a trailing slash (except for the root route).
func normalizeRoutePath(prefix, sub string) string {
	full := strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(sub, "/")
	full = regexp.MustCompile(`/+`).ReplaceAllString(full, "/")
	if len(full) > 1 {
		full = strings.TrimRight(full, "/")
	}
	if full == "" {
		full = "/"
	}
	return full
}
