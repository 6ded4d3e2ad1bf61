// Package orchestrator wires the discovery, parsing, strategy, interaction
// and quality boundaries into the pipeline spec §4.C describes: discover,
// parallel extract, post-pass linkage, dedupe, quality, sort, stamp.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/DeusData/codemap/internal/codemap"
	"github.com/DeusData/codemap/internal/config"
	"github.com/DeusData/codemap/internal/discover"
	"github.com/DeusData/codemap/internal/interaction"
	"github.com/DeusData/codemap/internal/lang"
	"github.com/DeusData/codemap/internal/parser"
	"github.com/DeusData/codemap/internal/quality"
	"github.com/DeusData/codemap/internal/strategy"
)

// Generator is the "generator" tag stamped into every emitted CodeMap.
const Generator = "codemap"

// Version is the emitted schema version.
const Version = "1.0"

// Options configures one Run.
type Options struct {
	Root       string
	Config     *config.Config
	Discoverer discover.Discoverer
	Parser     parser.Provider
}

// ErrStrict is returned when strict mode is set and at least one file
// failed to parse or extract cleanly.
type ErrStrict struct {
	FailedFiles []string
}

func (e *ErrStrict) Error() string {
	return fmt.Sprintf("strict mode: %d file(s) failed to parse", len(e.FailedFiles))
}

// Run executes the full pipeline and returns the finished CodeMap.
func Run(ctx context.Context, opts Options) (*codemap.CodeMap, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	cfg.Normalize()

	files, err := opts.Discoverer.Discover(ctx, opts.Root, cfg)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: discover: %w", err)
	}
	slog.Info("orchestrator.discovered", "files", len(files))

	type partial struct {
		idx    int
		result strategy.Result
		failed bool
	}
	partials := make([]partial, len(files))

	sem := make(chan struct{}, cfg.Concurrency)
	g := new(errgroup.Group)
	var mu sync.Mutex
	var failedFiles []string

	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()

			parsed, perr := opts.Parser.For(f.AbsPath, f.Language)
			failed := perr != nil
			if failed {
				slog.Warn("orchestrator.parse_failed", "file", f.RelPath, "err", perr)
			}

			in := strategy.Input{Parsed: parsed, FilePath: f.RelPath, Language: f.Language}
			var res strategy.Result
			fn, ok := strategy.For(f.Language)
			if ok {
				res = fn(in)
			} else {
				res = strategy.Result{Nodes: []*codemap.Node{fallbackFileNode(f.RelPath, f.Language)}}
			}
			if len(res.Nodes) == 0 {
				res.Nodes = []*codemap.Node{fallbackFileNode(f.RelPath, f.Language)}
				failed = true
			}
			if parsed != nil {
				parsed.Close()
			}

			partials[i] = partial{idx: i, result: res, failed: failed}
			if failed {
				mu.Lock()
				failedFiles = append(failedFiles, f.RelPath)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("orchestrator: extract: %w", err)
	}
	slog.Info("orchestrator.extracted", "files", len(files), "failed", len(failedFiles))

	var nodes []*codemap.Node
	var edges []*codemap.Edge
	var calls []codemap.CallSite
	exportsByFile := map[string]map[string]string{}
	globalExports := map[string]string{}
	for _, p := range partials {
		nodes = append(nodes, p.result.Nodes...)
		edges = append(edges, p.result.Edges...)
		calls = append(calls, p.result.Calls...)
		for name, id := range p.result.Exports {
			if _, ok := globalExports[name]; !ok {
				globalExports[name] = id
			}
		}
	}
	for _, n := range nodes {
		if n.Type == codemap.NodeFile {
			continue
		}
		byFile := exportsByFile[n.FilePath]
		if byFile == nil {
			byFile = map[string]string{}
			exportsByFile[n.FilePath] = byFile
		}
		if _, ok := byFile[n.Label]; !ok {
			byFile[n.Label] = n.ID
		}
	}
	edges = append(edges, resolveCallSites(calls, exportsByFile, globalExports)...)

	nodes, edges = interaction.Run(opts.Root, cfg, nodes, edges)
	slog.Info("orchestrator.linked", "nodes", len(nodes), "edges", len(edges))

	nodes, edges = dedupeAPIRoutes(nodes, edges)

	stats := quality.Analyze(nodes, edges)

	sortNodes(nodes)
	sortEdges(edges)
	slog.Info("orchestrator.done", "nodes", len(nodes), "edges", len(edges))

	cm := &codemap.CodeMap{
		Version:     Version,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Generator:   Generator,
		Commit:      bestEffortCommit(opts.Root),
		Nodes:       nodes,
		Edges:       edges,
		Statistics:  stats,
	}

	if cfg.Strict && len(failedFiles) > 0 {
		sort.Strings(failedFiles)
		return cm, &ErrStrict{FailedFiles: failedFiles}
	}
	return cm, nil
}

func fallbackFileNode(relPath string, language lang.Language) *codemap.Node {
	return &codemap.Node{
		ID:       codemap.NodeID("File", relPath, relPath),
		Type:     codemap.NodeFile,
		Label:    filepath.Base(relPath),
		FilePath: relPath,
		Language: string(language),
	}
}

// dedupeAPIRoutes implements spec §4.C step 4: keep the first APIRoute
// encountered per (filePath, label), rewriting edges that pointed at a
// dropped duplicate to the survivor.
func dedupeAPIRoutes(nodes []*codemap.Node, edges []*codemap.Edge) ([]*codemap.Node, []*codemap.Edge) {
	survivor := map[string]string{} // filePath|label -> surviving id
	redirect := map[string]string{} // dropped id -> survivor id
	var kept []*codemap.Node
	for _, n := range nodes {
		if n.Type != codemap.NodeAPIRoute {
			kept = append(kept, n)
			continue
		}
		key := n.FilePath + "|" + n.Label
		if survivorID, ok := survivor[key]; ok {
			redirect[n.ID] = survivorID
			continue
		}
		survivor[key] = n.ID
		kept = append(kept, n)
	}
	if len(redirect) == 0 {
		return nodes, edges
	}
	for _, e := range edges {
		if tgt, ok := redirect[e.TargetID]; ok {
			e.TargetID = tgt
		}
		if src, ok := redirect[e.SourceID]; ok {
			e.SourceID = src
		}
	}
	return kept, edges
}

// resolveCallSites turns each partial CallSite into a CALLS edge by name
// lookup: same-file declarations win over cross-file exports, matching
// spec §3's "merge exports" contract for the master map. Unresolvable
// call sites are silently dropped, same failure policy as IMPORTS.
func resolveCallSites(calls []codemap.CallSite, exportsByFile map[string]map[string]string, globalExports map[string]string) []*codemap.Edge {
	var edges []*codemap.Edge
	seen := map[string]bool{}
	for _, c := range calls {
		name := lastIdentSegment(c.Raw)
		if name == "" {
			continue
		}
		targetID, ok := exportsByFile[c.CallerFile][name]
		if !ok {
			targetID, ok = globalExports[name]
		}
		if !ok || targetID == c.CallerID {
			continue
		}
		key := c.CallerID + "|" + targetID
		if seen[key] {
			continue
		}
		seen[key] = true
		edges = append(edges, &codemap.Edge{SourceID: c.CallerID, TargetID: targetID, Type: codemap.EdgeCalls})
	}
	return edges
}

func lastIdentSegment(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimSuffix(raw, "(")
	if i := strings.LastIndexAny(raw, ".:>"); i >= 0 {
		raw = raw[i+1:]
	}
	return strings.TrimSpace(raw)
}

func sortNodes(nodes []*codemap.Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i], nodes[j]
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		if a.FilePath != b.FilePath {
			return a.FilePath < b.FilePath
		}
		return a.Label < b.Label
	})
}

func sortEdges(edges []*codemap.Edge) {
	sort.SliceStable(edges, func(i, j int) bool {
		a, b := edges[i], edges[j]
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		if a.SourceID != b.SourceID {
			return a.SourceID < b.SourceID
		}
		return a.TargetID < b.TargetID
	})
}

// bestEffortCommit shells out to git for the current HEAD short hash,
// returning "" if that fails or git isn't available.
func bestEffortCommit(root string) string {
	cmd := exec.Command("git", "rev-parse", "--short", "HEAD")
	cmd.Dir = root
	out, err := cmd.Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
