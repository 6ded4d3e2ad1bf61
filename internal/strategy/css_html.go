package strategy

import (
	"regexp"

	"github.com/DeusData/codemap/internal/codemap"
	"github.com/DeusData/codemap/internal/lang"
)

func init() {
	Register(lang.CSS, extractCSS)
	Register(lang.HTML, extractHTML)
}

var cssSelectorRe = regexp.MustCompile(`([.#]?[\w-]+(?:[ >+~.][.#]?[\w-]+)*)\s*\{`)
var cssImportRe = regexp.MustCompile(`@import\s+(?:url\()?['"]?([^'")]+)['"]?\)?`)

// extractCSS emits one Class node per selector, deduped to a single
// survivor (per the §9 open-question decision to collapse repeated
// selectors rather than keep every occurrence).
func extractCSS(in Input) Result {
	var res Result
	res.Nodes = append(res.Nodes, fileNode(in))
	source := string(in.Source())
	fileID := codemap.NodeID("File", in.FilePath, in.FilePath)

	seen := map[string]bool{}
	for _, m := range cssSelectorRe.FindAllStringSubmatch(source, -1) {
		sel := m[1]
		if seen[sel] {
			continue
		}
		seen[sel] = true
		res.Nodes = append(res.Nodes, &codemap.Node{
			ID:       codemap.NodeID("selector", sel, in.FilePath),
			Type:     codemap.NodeClass,
			Label:    sel,
			FilePath: in.FilePath,
			Language: string(in.Language),
		})
	}
	for _, m := range cssImportRe.FindAllStringSubmatch(source, -1) {
		res.Edges = append(res.Edges, importsEdge(fileID, m[1]))
	}
	return res
}

var htmlScriptLinkRe = regexp.MustCompile(`<(?:script[^>]*\ssrc|link[^>]*\shref)\s*=\s*"([^"]+)"`)

// extractHTML emits only the File node plus IMPORTS edges for linked
// scripts/stylesheets; HTML carries no declarations of its own in the
// data model.
func extractHTML(in Input) Result {
	var res Result
	res.Nodes = append(res.Nodes, fileNode(in))
	source := string(in.Source())
	fileID := codemap.NodeID("File", in.FilePath, in.FilePath)
	for _, m := range htmlScriptLinkRe.FindAllStringSubmatch(source, -1) {
		res.Edges = append(res.Edges, importsEdge(fileID, m[1]))
	}
	return res
}
