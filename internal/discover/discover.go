// Package discover is the file discovery boundary (component F): it
// enumerates files under include/exclude/size/count limits and hands the
// orchestrator a flat list the core treats as opaque input.
package discover

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"

	"github.com/DeusData/codemap/internal/codemap"
	"github.com/DeusData/codemap/internal/config"
	"github.com/DeusData/codemap/internal/lang"
)

// FileInfo is one discovered source file.
type FileInfo struct {
	AbsPath  string
	RelPath  string // forward-slash relative to the discovery root
	Basename string
	SizeKB   int
	Language lang.Language
}

// Discoverer is the file discovery boundary the orchestrator depends on.
type Discoverer interface {
	Discover(ctx context.Context, root string, cfg *config.Config) ([]FileInfo, error)
}

// DefaultDiscoverer walks a repository tree via viant/afs, matching the
// include/exclude glob sets and size/count limits from config.Config.
// Using afs (rather than raw os.ReadDir) means the same walk logic serves
// any storage backend afs has a scheme for (file://, s3://, gs://, ...),
// not just the local disk.
type DefaultDiscoverer struct {
	fs storage.Service
}

// NewDefaultDiscoverer builds the default glob-based Discoverer.
func NewDefaultDiscoverer() *DefaultDiscoverer {
	return &DefaultDiscoverer{fs: afs.New()}
}

// Discover enumerates files per spec §4.C step 1: onlyFiles bypasses glob
// discovery verbatim; otherwise it globs include, filters by exclude, and
// applies maxFileSizeKB/maxFiles.
func (d *DefaultDiscoverer) Discover(ctx context.Context, root string, cfg *config.Config) ([]FileInfo, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	cfg.Normalize()

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("discover: %w", err)
	}

	var files []FileInfo
	if len(cfg.OnlyFiles) > 0 {
		files = d.fromOnlyFiles(absRoot, cfg.OnlyFiles)
	} else {
		files, err = d.walk(ctx, absRoot, cfg)
		if err != nil {
			return nil, fmt.Errorf("discover: %w", err)
		}
	}

	files = filterExclude(files, cfg.Exclude)
	files = filterSize(files, cfg.MaxFileSizeKB)

	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })

	if cfg.MaxFiles > 0 && len(files) > cfg.MaxFiles {
		files = files[:cfg.MaxFiles]
	}
	return files, nil
}

func (d *DefaultDiscoverer) fromOnlyFiles(root string, only []string) []FileInfo {
	files := make([]FileInfo, 0, len(only))
	for _, p := range only {
		abs := p
		if !filepath.IsAbs(p) {
			abs = filepath.Join(root, p)
		}
		rel, err := filepath.Rel(root, abs)
		if err != nil {
			rel = p
		}
		// onlyFiles bypasses the whitelist too: the caller named this file
		// explicitly, so it's included even without a recognized language.
		fi, _ := newFileInfo(abs, rel, 0)
		fi.AbsPath, fi.RelPath = abs, codemap.NormalizePath(rel)
		fi.Basename = filepath.Base(abs)
		files = append(files, fi)
	}
	return files
}

// walk recursively lists the tree using afs, skipping ignored directories
// and collecting files whose extension is in the closed table, plus any
// basename beginning with "Dockerfile" and selectively-picked JSON files.
func (d *DefaultDiscoverer) walk(ctx context.Context, root string, cfg *config.Config) ([]FileInfo, error) {
	var files []FileInfo
	var visit func(dirURL, relDir string) error
	visit = func(dirURL, relDir string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		objects, err := d.fs.List(ctx, dirURL)
		if err != nil {
			return err
		}
		for _, obj := range objects {
			name := obj.Name()
			if name == "" || name == "." {
				continue
			}
			rel := name
			if relDir != "" {
				rel = relDir + "/" + name
			}
			if obj.IsDir() {
				if shouldSkipDir(name) {
					continue
				}
				if err := visit(strings.TrimRight(dirURL, "/")+"/"+name, rel); err != nil {
					return err
				}
				continue
			}
			if shouldSkipFile(name) {
				continue
			}
			if !matchesInclude(rel, cfg.Include) {
				continue
			}
			abs := filepath.Join(root, filepath.FromSlash(rel))
			fi, ok := newFileInfo(abs, rel, int(obj.Size()/1024))
			if !ok {
				continue
			}
			files = append(files, fi)
		}
		return nil
	}
	if err := visit("file://"+filepath.ToSlash(root), ""); err != nil {
		return nil, err
	}
	return files, nil
}

// newFileInfo resolves a file's language tag, reporting ok=false when the
// extension falls outside spec §6's closed whitelist — callers must skip
// such files rather than push an untyped File node through the pipeline.
func newFileInfo(abs, rel string, sizeKB int) (FileInfo, bool) {
	rel = codemap.NormalizePath(rel)
	base := filepath.Base(abs)
	l, ok := lang.ForFilename(base)
	if !ok {
		l, ok = lang.ForExtension(strings.ToLower(filepath.Ext(abs)))
	}
	if ok && l == lang.JSON && ignoredJSON[base] {
		ok = false
	}
	if !ok {
		return FileInfo{}, false
	}
	return FileInfo{AbsPath: abs, RelPath: rel, Basename: base, SizeKB: sizeKB, Language: l}, true
}

// ignoreDirs are directory basenames the walk never descends into.
var ignoreDirs = map[string]bool{
	".git": true, "node_modules": true, "dist": true, "build": true,
	"target": true, "bin": true, "obj": true, ".idea": true, ".vscode": true,
	"vendor": true, "__pycache__": true, ".venv": true, "venv": true,
	".mypy_cache": true, ".pytest_cache": true, ".tox": true, "coverage": true,
}

func shouldSkipDir(name string) bool { return ignoreDirs[name] }

var ignoreFileSuffixes = []string{".pyc", ".pyo", ".o", ".a", ".so", ".dll", ".class", "~"}

func shouldSkipFile(name string) bool {
	for _, suf := range ignoreFileSuffixes {
		if strings.HasSuffix(name, suf) {
			return true
		}
	}
	return false
}

// ignoredJSON mirrors spec §4.A's JSON-fallback guidance: skip tool
// configs and lock files so only application/OpenAPI JSON is analyzed.
var ignoredJSON = map[string]bool{
	"package.json": true, "package-lock.json": true, "tsconfig.json": true,
	"composer.json": true, "composer.lock": true, "yarn.lock": true,
	"pnpm-lock.json": true, "tslint.json": true, "angular.json": true,
	".eslintrc.json": true, ".prettierrc.json": true,
}

func matchesInclude(rel string, include []string) bool {
	if len(include) == 0 {
		return true
	}
	for _, pat := range include {
		if pat == "**/*" {
			return true
		}
		if ok, _ := filepath.Match(pat, rel); ok {
			return true
		}
		if ok, _ := filepath.Match(pat, filepath.Base(rel)); ok {
			return true
		}
	}
	return false
}

func filterExclude(files []FileInfo, exclude []string) []FileInfo {
	if len(exclude) == 0 {
		return files
	}
	out := files[:0]
	for _, f := range files {
		excluded := false
		for _, pat := range exclude {
			trimmed := strings.Trim(pat, "*/")
			if trimmed != "" && strings.Contains(f.RelPath, trimmed) {
				excluded = true
				break
			}
		}
		if !excluded {
			out = append(out, f)
		}
	}
	return out
}

func filterSize(files []FileInfo, maxKB int) []FileInfo {
	if maxKB <= 0 {
		return files
	}
	out := files[:0]
	for _, f := range files {
		if f.SizeKB <= maxKB {
			out = append(out, f)
		}
	}
	return out
}
