package quality

import (
	"regexp"
	"strings"

	"github.com/DeusData/codemap/internal/codemap"
)

var commentIntroducerRe = regexp.MustCompile(`(//|#|/\*|\*)`)

var todoRe = regexp.MustCompile(`\bTODO\b`)
var fixmeRe = regexp.MustCompile(`\bFIXME\b`)
var hackyRe = regexp.MustCompile(`(?i)\b(hacky|hack|kludge|workaround)\b`)
var tempRemovalRe = regexp.MustCompile(`(?i)temporarily removed|temp removed|temporary removal`)

// technicalDebt implements spec §4.E's technical-debt bucket: a
// line-by-line scan of Service-scoped nodes' snippets, counting a marker
// only when it sits within a comment introducer and no string literal
// precedes its column.
func technicalDebt(nodes []*codemap.Node) codemap.TechnicalDebtBucket {
	var bucket codemap.TechnicalDebtBucket
	for _, n := range nodes {
		if n.CodeSnippet == "" || !inServiceScope(n.FilePath, n.Label) {
			continue
		}
		for i, line := range strings.Split(n.CodeSnippet, "\n") {
			commentIdx := commentIntroducerRe.FindStringIndex(line)
			if commentIdx == nil {
				continue
			}
			checkMarker := func(re *regexp.Regexp, kind string) {
				loc := re.FindStringIndex(line)
				if loc == nil || loc[0] < commentIdx[0] {
					return
				}
				if precededByStringLiteral(line, loc[0]) {
					return
				}
				bucket.Issues = append(bucket.Issues, codemap.TechnicalDebtIssue{
					FilePath: n.FilePath, Line: i + 1, Kind: kind, Text: strings.TrimSpace(line),
				})
				switch kind {
				case "TODO":
					bucket.TODO++
				case "FIXME":
					bucket.FIXME++
				case "hacky":
					bucket.Hacky++
				case "temporary_removal":
					bucket.TemporaryRemoval++
				}
			}
			checkMarker(todoRe, "TODO")
			checkMarker(fixmeRe, "FIXME")
			checkMarker(hackyRe, "hacky")
			checkMarker(tempRemovalRe, "temporary_removal")
		}
	}
	bucket.Count = len(bucket.Issues)
	return bucket
}

// precededByStringLiteral reports whether an odd number of unescaped
// quote characters appears before col, meaning col sits inside a string
// literal rather than the comment text itself.
func precededByStringLiteral(line string, col int) bool {
	count := 0
	for i := 0; i < col && i < len(line); i++ {
		if line[i] == '"' || line[i] == '\'' {
			count++
		}
	}
	return count%2 == 1
}
