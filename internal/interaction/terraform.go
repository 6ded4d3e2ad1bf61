package interaction

import (
	"regexp"

	"github.com/DeusData/codemap/internal/codemap"
)

var tfDependsOnListRe = regexp.MustCompile(`depends_on\s*=\s*\[([^\]]*)\]`)
var tfInlineRefRe = regexp.MustCompile(`\b([a-z_][a-z0-9_]*)\.([a-zA-Z0-9_-]+)\.[a-zA-Z0-9_]+\b`)
var tfListEntryRe = regexp.MustCompile(`([a-z_][a-z0-9_]*)\.([a-zA-Z0-9_-]+)`)

// terraformLinkage implements spec §4.D's Terraform pass: build an index
// of type.name -> node across every Terraform resource, then resolve each
// resource's depends_on list and inline type.name references against it.
func terraformLinkage(nodes []*codemap.Node) []*codemap.Edge {
	index := map[string]*codemap.Node{}
	for _, n := range nodes {
		if n.Language != "Terraform" || n.Metadata == nil {
			continue
		}
		rt, _ := n.Metadata["resourceType"].(string)
		rn, _ := n.Metadata["resourceName"].(string)
		if rt == "" || rn == "" {
			continue
		}
		index[rt+"."+rn] = n
	}

	var edges []*codemap.Edge
	seen := map[string]bool{}
	for _, n := range nodes {
		if n.Language != "Terraform" || n.CodeSnippet == "" {
			continue
		}
		refs := map[string]bool{}
		if m := tfDependsOnListRe.FindStringSubmatch(n.CodeSnippet); m != nil {
			for _, entry := range tfListEntryRe.FindAllStringSubmatch(m[1], -1) {
				refs[entry[1]+"."+entry[2]] = true
			}
		}
		for _, m := range tfInlineRefRe.FindAllStringSubmatch(n.CodeSnippet, -1) {
			refs[m[1]+"."+m[2]] = true
		}
		for ref := range refs {
			target, ok := index[ref]
			if !ok || target.ID == n.ID {
				continue
			}
			key := n.ID + "->" + target.ID
			if seen[key] {
				continue
			}
			seen[key] = true
			edges = append(edges, &codemap.Edge{SourceID: n.ID, TargetID: target.ID, Type: codemap.EdgeReferences})
		}
	}
	return edges
}
