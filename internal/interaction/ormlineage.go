package interaction

import (
	"regexp"
	"strings"

	"github.com/DeusData/codemap/internal/codemap"
)

var prismaCallRe = regexp.MustCompile(`\bprisma\.(\w+)\.(\w+)\s*\(`)
var sequelizeDefineRe = regexp.MustCompile(`\.define\s*\(\s*['"]([^'"]+)['"]`)
var sqlAlchemyTableRe = regexp.MustCompile(`__tablename__\s*=\s*['"]([^'"]+)['"]`)

var prismaReadOps = map[string]bool{"findmany": true, "findunique": true, "findfirst": true, "count": true, "aggregate": true}
var prismaWriteOps = map[string]bool{"create": true, "createmany": true, "update": true, "updatemany": true, "delete": true, "deletemany": true, "upsert": true}

// ormLineage implements spec §4.D's ORM lineage heuristic over every
// node's snippet: Prisma calls, Sequelize define(), and SQLAlchemy
// __tablename__ each create (at most once) a synthetic table:<name>
// node. Only Prisma calls also add an edge, typed by the operation's
// read/write shape; Sequelize and SQLAlchemy matches add no edge.
func ormLineage(nodes []*codemap.Node) ([]*codemap.Node, []*codemap.Edge) {
	tables := map[string]*codemap.Node{}
	getTable := func(name string) *codemap.Node {
		if t, ok := tables[name]; ok {
			return t
		}
		t := &codemap.Node{ID: codemap.SyntheticID("table", name), Type: codemap.NodeComponent, Label: name, Language: "N/A"}
		tables[name] = t
		return t
	}

	var edges []*codemap.Edge
	for _, n := range nodes {
		if n.CodeSnippet == "" {
			continue
		}
		for _, m := range prismaCallRe.FindAllStringSubmatch(n.CodeSnippet, -1) {
			table := getTable(m[1])
			op := strings.ToLower(m[2])
			typ := codemap.EdgeReferences
			switch {
			case prismaReadOps[op]:
				typ = codemap.EdgeReadsFrom
			case prismaWriteOps[op]:
				typ = codemap.EdgeWritesTo
			}
			edges = append(edges, &codemap.Edge{SourceID: n.ID, TargetID: table.ID, Type: typ})
		}
		for _, m := range sequelizeDefineRe.FindAllStringSubmatch(n.CodeSnippet, -1) {
			getTable(m[1])
		}
		for _, m := range sqlAlchemyTableRe.FindAllStringSubmatch(n.CodeSnippet, -1) {
			getTable(m[1])
		}
	}

	nodesOut := make([]*codemap.Node, 0, len(tables))
	for _, t := range tables {
		nodesOut = append(nodesOut, t)
	}
	return nodesOut, edges
}
