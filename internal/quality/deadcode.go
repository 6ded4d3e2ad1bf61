package quality

import (
	"regexp"
	"strings"

	"github.com/DeusData/codemap/internal/codemap"
)

var blockCommentRe = regexp.MustCompile(`(?s)/\*.*?\*/`)
var backupFileRe = regexp.MustCompile(`(?i)(\.bak$|\.old$|\.orig$|~$|_backup\.|-backup\.|\.copy\.|_copy\.)`)

var entryPointNames = map[string]bool{
	"main": true, "index": true, "entry": true, "constructor": true, "init": true, "startup": true,
}

// deadCode implements spec §4.E's dead-code bucket: controllers with no
// incoming API_CALL or CALLS edge, public methods with no incoming CALLS
// edge, oversized block comments, and backup-pattern filenames.
func deadCode(nodes []*codemap.Node, edges []*codemap.Edge) codemap.DeadCodeBucket {
	incoming := map[string]int{}
	incomingCalls := map[string]int{}
	for _, e := range edges {
		if e.Type == codemap.EdgeCalls || e.Type == codemap.EdgeAPICall {
			incoming[e.TargetID]++
		}
		if e.Type == codemap.EdgeCalls {
			incomingCalls[e.TargetID]++
		}
	}

	var bucket codemap.DeadCodeBucket
	seenFiles := map[string]bool{}
	for _, n := range nodes {
		if n.Type == codemap.NodeAPIRoute && strings.Contains(strings.ToLower(n.Label+n.FilePath), "controller") {
			if incoming[n.ID] == 0 {
				bucket.UnusedControllers++
				bucket.Issues = append(bucket.Issues, codemap.DeadCodeIssue{FilePath: n.FilePath, Name: n.Label, Kind: "controller"})
			}
		}

		if n.Type == codemap.NodeFunction && inServiceControllerScope(n.FilePath, n.Label) {
			simple := lastSegment(n.Label)
			if isUpperFirst(simple) && !entryPointNames[strings.ToLower(simple)] && incomingCalls[n.ID] == 0 {
				bucket.UnusedPublicMethods++
				bucket.Issues = append(bucket.Issues, codemap.DeadCodeIssue{FilePath: n.FilePath, Name: n.Label, Kind: "public_method"})
			}
		}

		if n.Type == codemap.NodeFile {
			if backupFileRe.MatchString(n.FilePath) {
				bucket.BackupFiles++
				bucket.Issues = append(bucket.Issues, codemap.DeadCodeIssue{FilePath: n.FilePath, Name: n.FilePath, Kind: "backup_file"})
			}
			if !seenFiles[n.FilePath] && n.CodeSnippet != "" {
				seenFiles[n.FilePath] = true
				for _, m := range blockCommentRe.FindAllString(n.CodeSnippet, -1) {
					if strings.Count(m, "\n") > 5 {
						bucket.LargeCommentBlocks++
						bucket.Issues = append(bucket.Issues, codemap.DeadCodeIssue{FilePath: n.FilePath, Name: n.FilePath, Kind: "comment_block"})
					}
				}
			}
		}
	}
	bucket.Count = bucket.UnusedControllers + bucket.UnusedPublicMethods + bucket.LargeCommentBlocks + bucket.BackupFiles
	return bucket
}

func isUpperFirst(s string) bool {
	if s == "" {
		return false
	}
	return s[0] >= 'A' && s[0] <= 'Z'
}

func lastSegment(label string) string {
	label = strings.TrimSpace(label)
	if i := strings.LastIndexAny(label, " /."); i >= 0 {
		return label[i+1:]
	}
	return label
}
