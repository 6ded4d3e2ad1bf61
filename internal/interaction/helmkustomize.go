package interaction

import (
	"path/filepath"
	"strings"

	"github.com/DeusData/codemap/internal/codemap"
)

// helmKustomizeLinkage implements spec §4.D's Helm/Kustomize linkage: a
// Helm chart node references every template doc and values.yaml sharing
// its chart root; a Kustomize node's resources list resolves to
// neighbour files, preferring a Deployment-kind Component.
func helmKustomizeLinkage(nodes []*codemap.Node) []*codemap.Edge {
	var edges []*codemap.Edge

	byChartRoot := map[string][]*codemap.Node{}
	var charts []*codemap.Node
	for _, n := range nodes {
		meta := n.Metadata
		if meta == nil || meta["platform"] != "Helm" {
			continue
		}
		root, _ := meta["chartRoot"].(string)
		byChartRoot[root] = append(byChartRoot[root], n)
		if meta["helmRole"] == "chart" {
			charts = append(charts, n)
		}
	}
	for _, chart := range charts {
		root, _ := chart.Metadata["chartRoot"].(string)
		for _, sibling := range byChartRoot[root] {
			if sibling.ID == chart.ID {
				continue
			}
			edges = append(edges, &codemap.Edge{SourceID: chart.ID, TargetID: sibling.ID, Type: codemap.EdgeReferences})
		}
	}

	byFilePath := map[string][]*codemap.Node{}
	for _, n := range nodes {
		byFilePath[n.FilePath] = append(byFilePath[n.FilePath], n)
	}

	for _, n := range nodes {
		meta := n.Metadata
		if meta == nil || meta["platform"] != "Kustomize" {
			continue
		}
		resources, _ := meta["resources"].([]string)
		dir := filepath.Dir(n.FilePath)
		for _, res := range resources {
			target := resolveKustomizeResource(dir, res, byFilePath, nodes)
			if target != "" {
				edges = append(edges, &codemap.Edge{SourceID: n.ID, TargetID: target, Type: codemap.EdgeReferences})
			}
		}
	}
	return edges
}

func resolveKustomizeResource(dir, res string, byFilePath map[string][]*codemap.Node, allNodes []*codemap.Node) string {
	for _, suffix := range []string{"", ".yaml", ".yml"} {
		candidate := codemap.NormalizePath(filepath.Join(dir, res+suffix))
		group, ok := byFilePath[candidate]
		if !ok {
			continue
		}
		var fileNode *codemap.Node
		for _, n := range group {
			if n.Metadata != nil && n.Metadata["resourceKind"] == "Deployment" {
				return n.ID
			}
			if n.Type == codemap.NodeFile {
				fileNode = n
			}
		}
		if fileNode != nil {
			return fileNode.ID
		}
		if len(group) > 0 {
			return group[0].ID
		}
	}

	base := filepath.Base(res)
	for _, n := range allNodes {
		if n.Type != codemap.NodeFile {
			continue
		}
		if !strings.HasSuffix(n.FilePath, ".yaml") && !strings.HasSuffix(n.FilePath, ".yml") {
			continue
		}
		if filepath.Base(n.FilePath) == base {
			return n.ID
		}
	}
	return ""
}
