// Package parser is the parser provider boundary (component B): for a path
// it returns a tree-sitter tree plus language handle, or signals that no
// grammar is available so strategies fall back to regex-over-raw-text.
package parser

import (
	"fmt"
	"os"
	"sync"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	tree_sitter_cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"
	tree_sitter_c_sharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_php "github.com/tree-sitter/tree-sitter-php/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	tree_sitter_kotlin "github.com/tree-sitter-grammars/tree-sitter-kotlin/bindings/go"
	tree_sitter_lua "github.com/tree-sitter-grammars/tree-sitter-lua/bindings/go"

	"github.com/DeusData/codemap/internal/lang"
)

// Parsed is the result of the parser provider for one file: a real
// tree-sitter tree, or (when Tree is nil) a signal that the caller should
// run the fallback path over Source as a stub tree whose "root text"
// equals the raw file content.
type Parsed struct {
	Language lang.Language
	Source   []byte
	Tree     *tree_sitter.Tree
}

// IsStub reports whether no grammar was available for this file.
func (p *Parsed) IsStub() bool { return p == nil || p.Tree == nil }

// Close releases the underlying tree-sitter tree, if any.
func (p *Parsed) Close() {
	if p != nil && p.Tree != nil {
		p.Tree.Close()
	}
}

// Provider is the parser provider boundary the orchestrator depends on.
type Provider interface {
	For(path string, language lang.Language) (*Parsed, error)
}

// TreeSitterProvider parses with tree-sitter grammars, caching one
// compiled *tree_sitter.Language plus a sync.Pool of parser instances per
// language — initialized once and read-only after warm-up, matching the
// shared-resource policy in spec §5.
type TreeSitterProvider struct {
	once  sync.Once
	langs map[lang.Language]*tree_sitter.Language
	pools map[lang.Language]*sync.Pool
}

// NewTreeSitterProvider constructs the provider. Grammar compilation is
// deferred to first use (see initLanguages).
func NewTreeSitterProvider() *TreeSitterProvider {
	return &TreeSitterProvider{}
}

func (p *TreeSitterProvider) initLanguages() {
	p.once.Do(func() {
		p.langs = map[lang.Language]*tree_sitter.Language{
			lang.Go:         tree_sitter.NewLanguage(tree_sitter_go.Language()),
			lang.JavaScript: tree_sitter.NewLanguage(tree_sitter_javascript.Language()),
			lang.TypeScript: tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()),
			lang.Python:     tree_sitter.NewLanguage(tree_sitter_python.Language()),
			lang.Java:       tree_sitter.NewLanguage(tree_sitter_java.Language()),
			lang.Rust:       tree_sitter.NewLanguage(tree_sitter_rust.Language()),
			lang.CPP:        tree_sitter.NewLanguage(tree_sitter_cpp.Language()),
			lang.CSharp:     tree_sitter.NewLanguage(tree_sitter_c_sharp.Language()),
			lang.PHP:        tree_sitter.NewLanguage(tree_sitter_php.LanguagePHPOnly()),
			lang.Kotlin:     tree_sitter.NewLanguage(tree_sitter_kotlin.Language()),
			lang.Lua:        tree_sitter.NewLanguage(tree_sitter_lua.Language()),
		}
		p.pools = make(map[lang.Language]*sync.Pool, len(p.langs))
		for l, tsLang := range p.langs {
			tsLang := tsLang
			p.pools[l] = &sync.Pool{
				New: func() any {
					parser := tree_sitter.NewParser()
					if err := parser.SetLanguage(tsLang); err != nil {
						// ABI incompatibility: the pool yields nil, and For then
						// returns a stub Parsed (nil Tree, nil error) so callers
						// take the fallback path (spec §7 kind 4).
						return nil
					}
					return parser
				},
			}
		}
	})
}

// For reads the file and parses it with the grammar registered for
// language, if any. When the language has no registered grammar (or the
// grammar's ABI is incompatible), Parsed.Tree is nil and callers run the
// fallback path.
func (p *TreeSitterProvider) For(path string, language lang.Language) (*Parsed, error) {
	p.initLanguages()

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("parser: read %s: %w", path, err)
	}
	source = stripBOM(source)

	pool, ok := p.pools[language]
	if !ok {
		return &Parsed{Language: language, Source: source}, nil
	}

	inst, _ := pool.Get().(*tree_sitter.Parser)
	if inst == nil {
		return &Parsed{Language: language, Source: source}, nil
	}
	tree := inst.Parse(source, nil)
	pool.Put(inst)
	if tree == nil {
		return &Parsed{Language: language, Source: source}, nil
	}
	return &Parsed{Language: language, Source: source, Tree: tree}, nil
}

// stripBOM removes a leading UTF-8 byte-order-mark, common in
// Windows/C#-generated files.
func stripBOM(b []byte) []byte {
	if len(b) >= 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		return b[3:]
	}
	return b
}

// WalkFunc is called for each node during AST traversal; returning false
// skips the node's children.
type WalkFunc func(node *tree_sitter.Node) bool

// Walk traverses the tree-sitter AST depth-first.
func Walk(node *tree_sitter.Node, fn WalkFunc) {
	if node == nil {
		return
	}
	if !fn(node) {
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child != nil {
			Walk(child, fn)
		}
	}
}

// NodeText returns the source slice a tree-sitter node spans.
func NodeText(node *tree_sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}
