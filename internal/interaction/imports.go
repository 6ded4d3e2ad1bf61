package interaction

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/DeusData/codemap/internal/codemap"
)

// resolveImports rewrites IMPORTS edge targetIds from a raw specifier to
// the resolved File node id, per language-specific rules (spec §4.D).
// Edges that fail to resolve are left untouched, carrying the raw
// specifier forward.
func resolveImports(rootDir string, nodes []*codemap.Node, edges []*codemap.Edge) {
	fileByPath := map[string]*codemap.Node{}
	filesByBase := map[string][]*codemap.Node{}
	for _, n := range nodes {
		if n.Type != codemap.NodeFile {
			continue
		}
		fileByPath[n.FilePath] = n
		base := filepath.Base(n.FilePath)
		filesByBase[base] = append(filesByBase[base], n)
	}

	tsPaths := loadTSConfigPaths(rootDir)
	goModule, goReplace := loadGoModInfo(rootDir)

	for _, e := range edges {
		if e.Type != codemap.EdgeImports {
			continue
		}
		srcNode := findNodeByID(nodes, e.SourceID)
		if srcNode == nil {
			continue
		}
		switch srcNode.Language {
		case "TypeScript", "JavaScript":
			if target := resolveTSImport(e.TargetID, srcNode.FilePath, rootDir, tsPaths, fileByPath); target != "" {
				e.TargetID = target
			}
		case "Python":
			if target := resolvePythonImport(e.TargetID, rootDir, fileByPath); target != "" {
				e.TargetID = target
			}
		case "Java":
			if target := resolveJavaImport(e.TargetID, rootDir, fileByPath); target != "" {
				e.TargetID = target
			}
		case "Go":
			if target := resolveGoImport(e.TargetID, rootDir, goModule, goReplace, filesByBase); target != "" {
				e.TargetID = target
			}
		}
	}
}

func findNodeByID(nodes []*codemap.Node, id string) *codemap.Node {
	for _, n := range nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// --- TypeScript / JavaScript ---

var tsconfigPathsRe = regexp.MustCompile(`"([^"]+)"\s*:\s*\[\s*"([^"]+)"`)

// loadTSConfigPaths reads tsconfig.json/tsconfig.base.json's
// compilerOptions.paths with a tolerant line scan rather than a full JSON5
// parse, since tsconfig commonly carries comments and trailing commas.
func loadTSConfigPaths(rootDir string) map[string]string {
	paths := map[string]string{}
	for _, name := range []string{"tsconfig.json", "tsconfig.base.json"} {
		data, err := os.ReadFile(filepath.Join(rootDir, name))
		if err != nil {
			continue
		}
		for _, m := range tsconfigPathsRe.FindAllStringSubmatch(string(data), -1) {
			paths[m[1]] = m[2]
		}
	}
	return paths
}

func resolveTSImport(spec, fromFile, rootDir string, tsPaths map[string]string, fileByPath map[string]*codemap.Node) string {
	candidate := spec
	for alias, target := range tsPaths {
		prefix := strings.TrimSuffix(alias, "*")
		if alias == spec {
			candidate = strings.TrimSuffix(target, "*")
			break
		}
		if strings.HasSuffix(alias, "*") && strings.HasPrefix(spec, prefix) {
			rest := strings.TrimPrefix(spec, prefix)
			candidate = strings.TrimSuffix(target, "*") + rest
			break
		}
	}

	var base string
	if strings.HasPrefix(candidate, ".") {
		base = filepath.Join(filepath.Dir(fromFile), candidate)
	} else {
		// Non-relative specifiers resolve against the discovery root, and
		// every node's FilePath is already relative to that same root, so
		// the candidate itself (not joined with rootDir) is the lookup key.
		base = candidate
	}
	base = codemap.NormalizePath(base)

	for _, suffix := range []string{"", ".ts", ".tsx", ".js", ".jsx", "/index.ts", "/index.tsx", "/index.js"} {
		if n, ok := fileByPath[base+suffix]; ok {
			return n.ID
		}
	}
	return ""
}

// --- Python ---

func resolvePythonImport(spec, rootDir string, fileByPath map[string]*codemap.Node) string {
	parts := strings.Split(spec, ".")
	rel := strings.Join(parts, "/")
	candidates := []string{
		rel + ".py",
		filepath.Join(rel, "__init__.py"),
	}
	for _, c := range candidates {
		if n, ok := fileByPath[codemap.NormalizePath(c)]; ok {
			return n.ID
		}
	}
	for _, venv := range []string{".venv", "venv", "env", os.Getenv("VIRTUAL_ENV")} {
		if venv == "" {
			continue
		}
		sitePkg := filepath.Join(venv, "site-packages", rel+".py")
		if n, ok := fileByPath[codemap.NormalizePath(sitePkg)]; ok {
			return n.ID
		}
	}
	return ""
}

// --- Java ---

var javaSourceRoots = []string{"src/main/java", "src/test/java"}

func resolveJavaImport(spec, rootDir string, fileByPath map[string]*codemap.Node) string {
	if strings.HasSuffix(spec, ".*") {
		return ""
	}
	rel := strings.ReplaceAll(spec, ".", "/") + ".java"
	for _, root := range javaSourceRoots {
		c := codemap.NormalizePath(filepath.Join(root, rel))
		if n, ok := fileByPath[c]; ok {
			return n.ID
		}
	}
	suffix := "/" + rel
	for path, n := range fileByPath {
		if strings.HasSuffix(path, suffix) && strings.Contains(path, "/java/") {
			return n.ID
		}
	}
	return ""
}

// --- Go ---

type goModInfo struct {
	module  string
	replace map[string]string
}

var goModuleRe = regexp.MustCompile(`^\s*module\s+(\S+)`)
var goReplaceRe = regexp.MustCompile(`^\s*replace\s+(\S+)\s*=>\s*(\S+)`)

func loadGoModInfo(rootDir string) (string, map[string]string) {
	f, err := os.Open(filepath.Join(rootDir, "go.mod"))
	if err != nil {
		return "", nil
	}
	defer f.Close()

	var module string
	replace := map[string]string{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if m := goModuleRe.FindStringSubmatch(line); m != nil {
			module = m[1]
		}
		if m := goReplaceRe.FindStringSubmatch(line); m != nil {
			replace[m[1]] = m[2]
		}
	}
	return module, replace
}

func resolveGoImport(spec, rootDir, module string, replace map[string]string, filesByBase map[string][]*codemap.Node) string {
	var localDir string
	for from, to := range replace {
		if spec == from || strings.HasPrefix(spec, from+"/") {
			rest := strings.TrimPrefix(strings.TrimPrefix(spec, from), "/")
			localDir = filepath.Join(rootDir, to, filepath.FromSlash(rest))
			break
		}
	}
	if localDir == "" && module != "" && (spec == module || strings.HasPrefix(spec, module+"/")) {
		rest := strings.TrimPrefix(strings.TrimPrefix(spec, module), "/")
		localDir = filepath.Join(rootDir, filepath.FromSlash(rest))
	}
	if localDir == "" {
		return ""
	}
	entries, err := os.ReadDir(localDir)
	if err != nil {
		return ""
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".go") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return ""
	}
	sortStrings(names)
	relDir := localDir
	if rel, err := filepath.Rel(rootDir, localDir); err == nil {
		relDir = rel
	}
	relDir = codemap.NormalizePath(relDir)
	for _, n := range filesByBase[names[0]] {
		if filepath.Dir(n.FilePath) == relDir {
			return n.ID
		}
	}
	if len(filesByBase[names[0]]) > 0 {
		return filesByBase[names[0]][0].ID
	}
	return ""
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j] < s[j-1]; j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}
