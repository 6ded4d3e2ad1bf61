package quality

import "github.com/DeusData/codemap/internal/codemap"

// Analyze runs all eight statistics buckets over the finalized node/edge
// graph and returns the fixed-shape Statistics record.
func Analyze(nodes []*codemap.Node, edges []*codemap.Edge) codemap.Statistics {
	return codemap.Statistics{
		DBQueriesInLoops: dbQueriesInLoops(nodes),
		NPlusOneQueries:  nPlusOneQueries(nodes),
		DeadCode:         deadCode(nodes, edges),
		TechnicalDebt:    technicalDebt(nodes),
		CodeSmells:       codeSmells(nodes),
		RepeatedCode:     repeatedCode(nodes),
		Anomalies:        anomalies(nodes),
		BlockingAsync:    blockingAsync(nodes),
	}
}
