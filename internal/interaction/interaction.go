// Package interaction is the interaction analyzer (component D): the set
// of cross-file, cross-service linkage passes that run after extraction,
// inferring relationships no single file's strategy could see on its own.
package interaction

import (
	"github.com/DeusData/codemap/internal/codemap"
	"github.com/DeusData/codemap/internal/config"
)

// Run executes the eight post-extraction passes in the order spec §4.C
// fixes: IMPORTS resolution, API_CALL synthesis, DB lineage, ORM lineage,
// Kubernetes linkage, Helm+Kustomize linkage, Terraform linkage, GraphQL
// SDL linkage. Every pass but IMPORTS resolution is additive; it returns
// the synthetic nodes and new edges to append to the master map.
func Run(rootDir string, cfg *config.Config, nodes []*codemap.Node, edges []*codemap.Edge) ([]*codemap.Node, []*codemap.Edge) {
	resolveImports(rootDir, nodes, edges)

	var newRules []config.InteractionRule
	if cfg != nil {
		newRules = cfg.InteractionRules
	}
	edges = append(edges, synthesizeAPICalls(rootDir, newRules, nodes)...)

	if dbNode, dbEdges := dbLineage(nodes); dbNode != nil {
		nodes = append(nodes, dbNode)
		edges = append(edges, dbEdges...)
	}

	ormNodes, ormEdges := ormLineage(nodes)
	nodes = append(nodes, ormNodes...)
	edges = append(edges, ormEdges...)

	k8sNodes, k8sEdges := kubernetesLinkage(nodes)
	nodes = append(nodes, k8sNodes...)
	edges = append(edges, k8sEdges...)

	edges = append(edges, helmKustomizeLinkage(nodes)...)

	edges = append(edges, terraformLinkage(nodes)...)

	if schemaNode, gqlEdges := graphqlLinkage(nodes); schemaNode != nil {
		nodes = append(nodes, schemaNode)
		edges = append(edges, gqlEdges...)
	}

	return nodes, edges
}
