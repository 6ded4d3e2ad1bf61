package strategy

import (
	"regexp"
	"strings"

	"github.com/DeusData/codemap/internal/codemap"
	"github.com/DeusData/codemap/internal/lang"
)

func init() {
	Register(lang.Dockerfile, extractDockerfile)
}

var dockerFromRe = regexp.MustCompile(`(?i)^\s*FROM\s+(\S+)(?:\s+AS\s+(\S+))?`)
var dockerExposeRe = regexp.MustCompile(`(?i)^\s*EXPOSE\s+(.+)`)
var dockerEnvArgRe = regexp.MustCompile(`(?i)^\s*(ENV|ARG)\s+(\S+)(?:[= ](.*))?`)

// extractDockerfile follows the teacher's line-scanning Dockerfile parser:
// a Dockerfile has no tree-sitter grammar in this pipeline, so every
// directive is read with per-instruction regexes over raw lines.
func extractDockerfile(in Input) Result {
	var res Result
	res.Nodes = append(res.Nodes, fileNode(in))
	fileID := codemap.NodeID("File", in.FilePath, in.FilePath)

	var baseImages []string
	envArgs := map[string]string{}
	var exposed []string

	for _, line := range strings.Split(string(in.Source()), "\n") {
		if m := dockerFromRe.FindStringSubmatch(line); m != nil {
			baseImages = append(baseImages, m[1])
			continue
		}
		if m := dockerExposeRe.FindStringSubmatch(line); m != nil {
			exposed = append(exposed, strings.Fields(m[1])...)
			continue
		}
		if m := dockerEnvArgRe.FindStringSubmatch(line); m != nil {
			envArgs[m[2]] = strings.TrimSpace(m[3])
		}
	}

	seenImages := map[string]bool{}
	for _, img := range baseImages {
		imgID := codemap.SyntheticID("image", img)
		res.Edges = append(res.Edges, &codemap.Edge{
			SourceID: fileID,
			TargetID: imgID,
			Type:     codemap.EdgeReferences,
		})
		if seenImages[img] {
			continue
		}
		seenImages[img] = true
		res.Nodes = append(res.Nodes, &codemap.Node{ID: imgID, Type: codemap.NodeComponent, Label: img, Language: "N/A"})
	}

	meta := map[string]any{}
	if len(exposed) > 0 {
		meta["expose"] = exposed
	}
	if len(envArgs) > 0 {
		meta["env"] = envArgs
	}
	if len(meta) > 0 {
		res.Nodes[0].Metadata = meta
	}
	return res
}
