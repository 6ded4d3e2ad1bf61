package interaction

import "github.com/DeusData/codemap/internal/codemap"

// kubernetesLinkage implements spec §4.D's Kubernetes linkage: every
// Service's spec.selector superset-matches a Deployment/Pod's
// metadata.labels, and every Deployment's container images become
// synthetic image:<ref> Components, created once per ref.
func kubernetesLinkage(nodes []*codemap.Node) ([]*codemap.Node, []*codemap.Edge) {
	var services, workloads []*codemap.Node
	for _, n := range nodes {
		meta := n.Metadata
		if meta == nil || meta["platform"] != "Kubernetes" {
			continue
		}
		switch meta["resourceKind"] {
		case "Service":
			services = append(services, n)
		case "Deployment", "Pod":
			workloads = append(workloads, n)
		}
	}

	var edges []*codemap.Edge
	for _, svc := range services {
		selector, _ := svc.Metadata["selectors"].(map[string]string)
		if len(selector) == 0 {
			continue
		}
		for _, w := range workloads {
			labels, _ := w.Metadata["labels"].(map[string]string)
			if supersetMatch(selector, labels) {
				edges = append(edges, &codemap.Edge{SourceID: svc.ID, TargetID: w.ID, Type: codemap.EdgeReferences})
			}
		}
	}

	imageNodes := map[string]*codemap.Node{}
	for _, w := range workloads {
		if w.Metadata["resourceKind"] != "Deployment" {
			continue
		}
		images, _ := w.Metadata["images"].([]string)
		for _, img := range images {
			imgNode, ok := imageNodes[img]
			if !ok {
				imgNode = &codemap.Node{ID: codemap.SyntheticID("image", img), Type: codemap.NodeComponent, Label: img, Language: "N/A"}
				imageNodes[img] = imgNode
			}
			edges = append(edges, &codemap.Edge{SourceID: w.ID, TargetID: imgNode.ID, Type: codemap.EdgeReferences})
		}
	}

	newNodes := make([]*codemap.Node, 0, len(imageNodes))
	for _, n := range imageNodes {
		newNodes = append(newNodes, n)
	}
	return newNodes, edges
}

// supersetMatch reports whether every selector entry appears in labels
// with an equal value.
func supersetMatch(selector, labels map[string]string) bool {
	if len(labels) == 0 {
		return false
	}
	for k, v := range selector {
		if labels[k] != v {
			return false
		}
	}
	return true
}
