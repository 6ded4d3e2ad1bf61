package quality

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/DeusData/codemap/internal/codemap"
)

var tryRe = regexp.MustCompile(`\btry\s*\{`)
var catchRe = regexp.MustCompile(`\bcatch\s*\(`)

var magicNumberRe = regexp.MustCompile(`(?:[^.\w]|^)(\d{3,})(?:[^.\w]|$)`)

var magicStringRe = regexp.MustCompile(`"([^"]{15,})"`)
var upperConstRe = regexp.MustCompile(`"([A-Z_]{8,})"`)
var contentTypeRe = regexp.MustCompile(`(?i)^(application|text|image|multipart)/`)

var commonHTTPCodes = map[string]bool{"200": true, "201": true, "400": true, "404": true, "500": true}

var explicitCastRe = regexp.MustCompile(`\(\s*[A-Z]\w*\s*\)\s*\w|\bas\s+[A-Z]\w*\b`)

// codeSmells implements spec §4.E's smell bucket, scoped to Service or
// Controller nodes: try-without-catch, magic numbers, magic strings, long
// methods, and excessive explicit casting.
func codeSmells(nodes []*codemap.Node) codemap.Bucket[codemap.CodeSmell] {
	var issues []codemap.CodeSmell
	for _, n := range nodes {
		if n.CodeSnippet == "" || !inServiceControllerScope(n.FilePath, n.Label) {
			continue
		}
		if tryRe.MatchString(n.CodeSnippet) && !catchRe.MatchString(n.CodeSnippet) {
			issues = append(issues, codemap.CodeSmell{FilePath: n.FilePath, FunctionName: n.Label, Kind: "try_without_catch"})
		}

		magicNumbers := 0
		for _, m := range magicNumberRe.FindAllStringSubmatch(n.CodeSnippet, -1) {
			v := m[1]
			if commonHTTPCodes[v] {
				continue
			}
			if year, err := strconv.Atoi(v); err == nil && len(v) == 4 && year >= 1900 && year <= 2100 {
				continue
			}
			magicNumbers++
		}
		if magicNumbers > 5 {
			issues = append(issues, codemap.CodeSmell{FilePath: n.FilePath, FunctionName: n.Label, Kind: "magic_number", Count: magicNumbers})
		}

		magicStrings := 0
		seenLiterals := map[string]bool{}
		for _, m := range magicStringRe.FindAllStringSubmatch(n.CodeSnippet, -1) {
			lit := m[1]
			if contentTypeRe.MatchString(lit) || seenLiterals[lit] {
				continue
			}
			seenLiterals[lit] = true
			magicStrings++
		}
		for _, m := range upperConstRe.FindAllStringSubmatch(n.CodeSnippet, -1) {
			lit := m[1]
			if seenLiterals[lit] {
				continue
			}
			seenLiterals[lit] = true
			magicStrings++
		}
		if magicStrings > 5 {
			issues = append(issues, codemap.CodeSmell{FilePath: n.FilePath, FunctionName: n.Label, Kind: "magic_string", Count: magicStrings})
		}

		lineCount := strings.Count(n.CodeSnippet, "\n") + 1
		if lineCount > 80 {
			issues = append(issues, codemap.CodeSmell{FilePath: n.FilePath, FunctionName: n.Label, Kind: "long_method", Count: lineCount})
		}

		casts := len(explicitCastRe.FindAllString(n.CodeSnippet, -1))
		if casts > 10 {
			issues = append(issues, codemap.CodeSmell{FilePath: n.FilePath, FunctionName: n.Label, Kind: "explicit_cast", Count: casts})
		}
	}
	return codemap.Bucket[codemap.CodeSmell]{Count: len(issues), Issues: issues}
}
