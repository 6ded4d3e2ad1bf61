package quality

import (
	"regexp"
	"sort"

	"github.com/DeusData/codemap/internal/codemap"
)

var validationFragmentRe = regexp.MustCompile(`(?i)if\s*\(?\s*!?\w+(\.\w+)*\s*(==|!=|===|!==)\s*(null|nil|undefined|""|'')\s*\)?`)
var addressFieldRe = regexp.MustCompile(`(?i)\b(street|city|state|zip|zipcode|postal_?code|country|address_?line\d?)\b`)
var sqlTableRe = regexp.MustCompile(`(?i)\b(CREATE|ALTER)\s+TABLE\s+([a-zA-Z0-9_"` + "`" + `]+)`)
var ormIncludeRe = regexp.MustCompile(`(?i)\.(Include|ThenInclude|populate|with)\s*\(\s*["'` + "`" + `]?([a-zA-Z0-9_.]+)`)

// repeatedCode implements spec §4.E's repeated-fragment bucket: normalized
// validation checks, address-field clusters, SQL table DDL, and ORM
// include/populate chains, grouped by normalized fragment text across
// files. Address fragments need >3 occurrences to register; every other
// category needs only >1.
func repeatedCode(nodes []*codemap.Node) codemap.Bucket[codemap.RepeatedCode] {
	type group struct {
		files map[string]bool
		count int
	}
	categories := map[string]map[string]*group{
		"validation": {}, "address": {}, "sql_table": {}, "orm_include": {},
	}

	record := func(category, fragment, file string) {
		g := categories[category][fragment]
		if g == nil {
			g = &group{files: map[string]bool{}}
			categories[category][fragment] = g
		}
		g.count++
		g.files[file] = true
	}

	for _, n := range nodes {
		if n.CodeSnippet == "" {
			continue
		}
		for _, m := range validationFragmentRe.FindAllString(n.CodeSnippet, -1) {
			record("validation", normalizeFragment(m), n.FilePath)
		}
		if addressFieldRe.MatchString(n.CodeSnippet) {
			for _, m := range addressFieldRe.FindAllString(n.CodeSnippet, -1) {
				record("address", normalizeFragment(m), n.FilePath)
			}
		}
		for _, m := range sqlTableRe.FindAllStringSubmatch(n.CodeSnippet, -1) {
			record("sql_table", normalizeFragment(m[0]), n.FilePath)
		}
		for _, m := range ormIncludeRe.FindAllStringSubmatch(n.CodeSnippet, -1) {
			record("orm_include", normalizeFragment(m[0]), n.FilePath)
		}
	}

	thresholds := map[string]int{"validation": 1, "address": 3, "sql_table": 1, "orm_include": 1}

	var issues []codemap.RepeatedCode
	for _, category := range []string{"validation", "address", "sql_table", "orm_include"} {
		var patterns []string
		for p := range categories[category] {
			patterns = append(patterns, p)
		}
		sort.Strings(patterns)
		for _, p := range patterns {
			g := categories[category][p]
			if g.count <= thresholds[category] {
				continue
			}
			var files []string
			for f := range g.files {
				files = append(files, f)
			}
			sort.Strings(files)
			issues = append(issues, codemap.RepeatedCode{Category: category, Pattern: p, Count: g.count, Files: files})
		}
	}
	return codemap.Bucket[codemap.RepeatedCode]{Count: len(issues), Issues: issues}
}
