package quality

import (
	"regexp"

	"github.com/DeusData/codemap/internal/codemap"
)

var saveChangesRe = regexp.MustCompile(`\bSaveChangesAsync\s*\(`)
var asyncAwaitResultRe = regexp.MustCompile(`\basync\b[\s\S]*?\bawait\b[\s\S]*?\.Result\b`)
var commentedIncludeRe = regexp.MustCompile(`(?m)^\s*(//|#)\s*.*\.Include\s*\(`)
var lowTimeoutRe = regexp.MustCompile(`(?i)timeout\s*[:=]\s*(\d+)`)
var taskRunRe = regexp.MustCompile(`\bTask\.Run\s*\(`)

// anomalies implements spec §4.E's anomaly bucket, scoped to Service or
// Controller nodes, deduped by (function, kind).
func anomalies(nodes []*codemap.Node) codemap.Bucket[codemap.Anomaly] {
	var issues []codemap.Anomaly
	for _, n := range nodes {
		if n.CodeSnippet == "" || !inServiceControllerScope(n.FilePath, n.Label) {
			continue
		}
		seen := map[string]bool{}
		flag := func(kind string) {
			if seen[kind] {
				return
			}
			seen[kind] = true
			issues = append(issues, codemap.Anomaly{FilePath: n.FilePath, FunctionName: n.Label, Kind: kind})
		}

		if hasUnawaitedCall(n.CodeSnippet, saveChangesRe) {
			flag("unawaited_save_changes")
		}
		if asyncAwaitResultRe.MatchString(n.CodeSnippet) {
			flag("async_await_then_block")
		}
		if commentedIncludeRe.MatchString(n.CodeSnippet) && (findOpRe.MatchString(n.CodeSnippet) || dbPatternRe.MatchString(n.CodeSnippet)) {
			flag("commented_include_beside_active_query")
		}
		for _, m := range lowTimeoutRe.FindAllStringSubmatch(n.CodeSnippet, -1) {
			if ms := parseIntSafe(m[1]); ms > 0 && ms < 100 {
				flag("low_timeout")
				break
			}
		}
		if hasUnawaitedCall(n.CodeSnippet, taskRunRe) {
			flag("fire_and_forget_task")
		}
	}
	return codemap.Bucket[codemap.Anomaly]{Count: len(issues), Issues: issues}
}

// hasUnawaitedCall reports whether re matches somewhere in src that is not
// immediately preceded by "await " (skipping whitespace), i.e. the call is
// fired without being awaited.
func hasUnawaitedCall(src string, re *regexp.Regexp) bool {
	for _, loc := range re.FindAllStringIndex(src, -1) {
		start := loc[0]
		prefix := src[:start]
		trimmed := len(prefix)
		for trimmed > 0 && (prefix[trimmed-1] == ' ' || prefix[trimmed-1] == '\t') {
			trimmed--
		}
		if trimmed >= 5 && prefix[trimmed-5:trimmed] == "await" {
			continue
		}
		return true
	}
	return false
}

func parseIntSafe(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}
