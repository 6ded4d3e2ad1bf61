package quality

import (
	"regexp"
	"strings"

	"github.com/DeusData/codemap/internal/codemap"
)

var resultBlockRe = regexp.MustCompile(`\.Result\b`)

// resultNotCompared reports whether some .Result in src is not followed
// (after optional spaces) by one of = ! < >, i.e. it is read rather than
// compared or assigned.
func resultNotCompared(src string) bool {
	for _, loc := range resultBlockRe.FindAllStringIndex(src, -1) {
		rest := strings.TrimLeft(src[loc[1]:], " \t")
		if rest == "" || !strings.ContainsRune("=!<>", rune(rest[0])) {
			return true
		}
	}
	return false
}

var waitCallRe = regexp.MustCompile(`\.Wait\s*\(\s*\)`)
var getAwaiterResultRe = regexp.MustCompile(`\.GetAwaiter\s*\(\s*\)\.GetResult\s*\(`)

// blockingAsync implements spec §4.E's blocking-async bucket: restricted
// to Service/Controller-scoped nodes, excluding test fixtures, deduped by
// (filePath, label, method).
func blockingAsync(nodes []*codemap.Node) codemap.Bucket[codemap.BlockingAsync] {
	seen := map[string]bool{}
	var issues []codemap.BlockingAsync
	for _, n := range nodes {
		if n.CodeSnippet == "" || !inServiceControllerScope(n.FilePath, n.Label) {
			continue
		}
		patterns := []struct {
			re   *regexp.Regexp
			name string
		}{
			{resultBlockRe, ".Result"},
			{waitCallRe, ".Wait()"},
			{getAwaiterResultRe, ".GetAwaiter().GetResult("},
		}
		for _, p := range patterns {
			if !p.re.MatchString(n.CodeSnippet) || (p.re == resultBlockRe && !resultNotCompared(n.CodeSnippet)) {
				continue
			}
			key := n.FilePath + "|" + n.Label + "|" + p.name
			if seen[key] {
				continue
			}
			seen[key] = true
			issues = append(issues, codemap.BlockingAsync{FilePath: n.FilePath, FunctionName: n.Label, Method: n.Label, Pattern: p.name})
		}
	}
	return codemap.Bucket[codemap.BlockingAsync]{Count: len(issues), Issues: issues}
}
