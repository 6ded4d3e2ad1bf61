// Package strategy holds the Language Strategy Set (component A): one
// extraction function per language tag, each producing partial nodes,
// edges, exports and call sites from a single file's parsed tree (or a
// stub tree when no grammar is available).
package strategy

import (
	"github.com/DeusData/codemap/internal/codemap"
	"github.com/DeusData/codemap/internal/lang"
	"github.com/DeusData/codemap/internal/parser"
)

// Input is everything a strategy needs to analyze one file.
type Input struct {
	Parsed   *parser.Parsed // Tree is nil on the fallback path
	FilePath string         // forward-slash path, exactly as it will appear on File nodes
	Language lang.Language
}

// Source returns the raw file bytes, present whether or not a grammar
// tree is available.
func (in Input) Source() []byte {
	if in.Parsed == nil {
		return nil
	}
	return in.Parsed.Source
}

// IsStub reports whether no grammar tree is available for this file.
func (in Input) IsStub() bool { return in.Parsed == nil || in.Parsed.Tree == nil }

// Result is a strategy's partial contribution to the master map.
type Result struct {
	Nodes   []*codemap.Node
	Edges   []*codemap.Edge
	Exports map[string]string // exported symbol name -> node id
	Calls   []codemap.CallSite
}

// Func is a per-language extraction strategy.
type Func func(in Input) Result

// registry maps a language tag to its strategy function.
var registry = map[lang.Language]Func{}

// Register adds a strategy for a language tag. Called from each
// language-family file's init().
func Register(l lang.Language, fn Func) { registry[l] = fn }

// For returns the registered strategy for a language tag, if any.
func For(l lang.Language) (Func, bool) {
	fn, ok := registry[l]
	return fn, ok
}
