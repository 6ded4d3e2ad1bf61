// Package quality is the code quality analyzer (component E): it derives
// the eight statistics buckets from the finalized node/edge graph.
package quality

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/DeusData/codemap/internal/codemap"
)

var loopOpenerRe = regexp.MustCompile(`\b(for\s*\(|while\s*\(|foreach\s*\(|\.forEach\s*\()`)

var dbPatternRe = regexp.MustCompile(`(?i)\b(SELECT\b.*\bFROM\b|INSERT\s+INTO\b|UPDATE\s+\w+\s+SET\b|DELETE\s+FROM\b|_context\.\w+|DB::\w+|Cache::\w+|\.SaveChanges\w*|session\.query\b)|\.(find|where|select)\w*\s*\(`)

var findOpRe = regexp.MustCompile(`(?i)\.(find|where|select)\w*\s*\(`)
var eagerLoadRe = regexp.MustCompile(`(?i)\.Include\b|\.ThenInclude\b|\.With\b|\.Join\b|\beager\b|\bpreload\b|\.Load\b`)

// findLoops finds each loop opener, then walks forward tracking brace depth
// while ignoring braces inside string/char literals, returning the loop
// body text and the line offset of the opener relative to snippet start.
func findLoops(snippet string) []struct {
	line int
	body string
} {
	var out []struct {
		line int
		body string
	}
	idxs := loopOpenerRe.FindAllStringIndex(snippet, -1)
	for _, loc := range idxs {
		start := loc[0]
		braceStart := strings.IndexByte(snippet[loc[1]:], '{')
		if braceStart < 0 {
			continue
		}
		braceStart += loc[1]
		body, end := balancedBrace(snippet, braceStart)
		if end < 0 {
			continue
		}
		out = append(out, struct {
			line int
			body string
		}{line: lineOf(snippet, start), body: body})
	}
	return out
}

// balancedBrace returns the text between the opening brace at openIdx and
// its matching close, tolerating braces that appear inside string or
// char literals.
func balancedBrace(s string, openIdx int) (string, int) {
	depth := 0
	inString := byte(0)
	for i := openIdx; i < len(s); i++ {
		c := s[i]
		if inString != 0 {
			if c == '\\' {
				i++
				continue
			}
			if c == inString {
				inString = 0
			}
			continue
		}
		switch c {
		case '"', '\'', '`':
			inString = c
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[openIdx+1 : i], i
			}
		}
	}
	return "", -1
}

func lineOf(s string, idx int) int {
	if idx > len(s) {
		idx = len(s)
	}
	return strings.Count(s[:idx], "\n") + 1
}

// dbQueriesInLoops implements spec §4.E's DB-queries-in-loops bucket,
// deduped once per unique (filePath, label, loopStart).
func dbQueriesInLoops(nodes []*codemap.Node) codemap.Bucket[codemap.DBLoopIssue] {
	seen := map[string]bool{}
	var issues []codemap.DBLoopIssue
	for _, n := range nodes {
		if (n.Type != codemap.NodeFunction && n.Type != codemap.NodeAPIRoute) || n.CodeSnippet == "" {
			continue
		}
		for _, loop := range findLoops(n.CodeSnippet) {
			if !dbPatternRe.MatchString(loop.body) {
				continue
			}
			key := n.FilePath + "|" + n.Label + "|" + strconv.Itoa(loop.line)
			if seen[key] {
				continue
			}
			seen[key] = true
			issues = append(issues, codemap.DBLoopIssue{FilePath: n.FilePath, FunctionName: n.Label, Line: loop.line, Pattern: "db_in_loop"})
		}
	}
	return codemap.Bucket[codemap.DBLoopIssue]{Count: len(issues), Issues: issues}
}

// nPlusOneQueries implements spec §4.E's N+1 bucket: the same loop
// enumeration, flagging a find/where/select call unless the body also
// shows an eager-loading marker.
func nPlusOneQueries(nodes []*codemap.Node) codemap.Bucket[codemap.DBLoopIssue] {
	seen := map[string]bool{}
	var issues []codemap.DBLoopIssue
	for _, n := range nodes {
		if (n.Type != codemap.NodeFunction && n.Type != codemap.NodeAPIRoute) || n.CodeSnippet == "" {
			continue
		}
		for _, loop := range findLoops(n.CodeSnippet) {
			if !findOpRe.MatchString(loop.body) || eagerLoadRe.MatchString(loop.body) {
				continue
			}
			key := n.FilePath + "|" + n.Label + "|" + strconv.Itoa(loop.line)
			if seen[key] {
				continue
			}
			seen[key] = true
			issues = append(issues, codemap.DBLoopIssue{FilePath: n.FilePath, FunctionName: n.Label, Line: loop.line, Pattern: "n_plus_one"})
		}
	}
	return codemap.Bucket[codemap.DBLoopIssue]{Count: len(issues), Issues: issues}
}
