package strategy

import (
	"regexp"

	"github.com/DeusData/codemap/internal/codemap"
	"github.com/DeusData/codemap/internal/lang"
)

func init() {
	Register(lang.Bash, extractBash)
}

var bashFuncRe = regexp.MustCompile(`(?m)^\s*(?:function\s+)?([\w-]+)\s*\(\)\s*\{`)
var bashSourceRe = regexp.MustCompile(`(?m)^\s*(?:source|\.)\s+([\w./${}-]+)`)

func extractBash(in Input) Result {
	var res Result
	res.Nodes = append(res.Nodes, fileNode(in))
	source := string(in.Source())
	fileID := codemap.NodeID("File", in.FilePath, in.FilePath)

	for _, m := range bashFuncRe.FindAllStringSubmatch(source, -1) {
		res.Nodes = append(res.Nodes, &codemap.Node{
			ID:       codemap.NodeID("function", m[1], in.FilePath),
			Type:     codemap.NodeFunction,
			Label:    m[1],
			FilePath: in.FilePath,
			Language: string(in.Language),
		})
	}
	for _, m := range bashSourceRe.FindAllStringSubmatch(source, -1) {
		res.Edges = append(res.Edges, importsEdge(fileID, m[1]))
	}
	return res
}
