package quality_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DeusData/codemap/internal/codemap"
	"github.com/DeusData/codemap/internal/quality"
)

func TestAnalyzeDBQueriesInLoops(t *testing.T) {
	node := &codemap.Node{
		Type:     codemap.NodeFunction,
		Label:    "listOrders",
		FilePath: "src/orders/OrderService.go",
		CodeSnippet: `func listOrders(ids []int) {
	for (const id of ids) {
		db.Query("SELECT * FROM orders WHERE id = ?", id)
	}
}`,
	}
	stats := quality.Analyze([]*codemap.Node{node}, nil)
	require.Equal(t, 1, stats.DBQueriesInLoops.Count)
	assert.Equal(t, "listOrders", stats.DBQueriesInLoops.Issues[0].FunctionName)
}

func TestAnalyzeDBQueriesInLoopsMatchesORMCall(t *testing.T) {
	node := &codemap.Node{
		Type:     codemap.NodeFunction,
		Label:    "listUsers",
		FilePath: "src/users/UserService.go",
		CodeSnippet: `func listUsers(ids []int) {
	for (const id of ids) {
		db.users.Find(u.id)
	}
}`,
	}
	stats := quality.Analyze([]*codemap.Node{node}, nil)
	require.Equal(t, 1, stats.DBQueriesInLoops.Count)
	assert.Equal(t, "listUsers", stats.DBQueriesInLoops.Issues[0].FunctionName)
}

func TestAnalyzeNPlusOne(t *testing.T) {
	node := &codemap.Node{
		Type:     codemap.NodeFunction,
		Label:    "hydrate",
		FilePath: "src/orders/OrderService.go",
		CodeSnippet: `func hydrate(orders []Order) {
	for (const o of orders) {
		repo.Where("order_id = ?", o.ID).Find(&items)
	}
}`,
	}
	stats := quality.Analyze([]*codemap.Node{node}, nil)
	require.Equal(t, 1, stats.NPlusOneQueries.Count)
}

func TestAnalyzeNPlusOneSkippedWhenEagerLoaded(t *testing.T) {
	node := &codemap.Node{
		Type:     codemap.NodeFunction,
		Label:    "hydrate",
		FilePath: "src/orders/OrderService.go",
		CodeSnippet: `func hydrate(orders []Order) {
	for (const o of orders) {
		repo.Include("Items").Where("order_id = ?", o.ID).Find(&items)
	}
}`,
	}
	stats := quality.Analyze([]*codemap.Node{node}, nil)
	assert.Equal(t, 0, stats.NPlusOneQueries.Count)
}

func TestAnalyzeBlockingAsync(t *testing.T) {
	node := &codemap.Node{
		Type:     codemap.NodeFunction,
		Label:    "FetchUser",
		FilePath: "src/users/UserService.cs",
		CodeSnippet: `public User FetchUser(int id) {
	var user = _repo.GetAsync(id).Result;
	return user;
}`,
	}
	stats := quality.Analyze([]*codemap.Node{node}, nil)
	require.Equal(t, 1, stats.BlockingAsync.Count)
	assert.Equal(t, ".Result", stats.BlockingAsync.Issues[0].Pattern)
}

func TestAnalyzeTechnicalDebt(t *testing.T) {
	node := &codemap.Node{
		Type:     codemap.NodeFunction,
		Label:    "Process",
		FilePath: "src/billing/BillingService.go",
		CodeSnippet: `func Process() {
	// TODO: handle retries
	// FIXME this is a hacky workaround for the gateway timeout
	doWork()
}`,
	}
	stats := quality.Analyze([]*codemap.Node{node}, nil)
	assert.Equal(t, 1, stats.TechnicalDebt.TODO)
	assert.Equal(t, 1, stats.TechnicalDebt.FIXME)
	assert.GreaterOrEqual(t, stats.TechnicalDebt.Hacky, 1)
}

func TestAnalyzeTechnicalDebtIgnoresStringLiterals(t *testing.T) {
	node := &codemap.Node{
		Type:     codemap.NodeFunction,
		Label:    "Process",
		FilePath: "src/billing/BillingService.go",
		CodeSnippet: `func Process() {
	log.Info("TODO list exported")
}`,
	}
	stats := quality.Analyze([]*codemap.Node{node}, nil)
	assert.Equal(t, 0, stats.TechnicalDebt.TODO)
}

func TestAnalyzeDeadCodeUnusedController(t *testing.T) {
	route := &codemap.Node{
		ID:       "route-1",
		Type:     codemap.NodeAPIRoute,
		Label:    "GET /unused",
		FilePath: "src/api/UnusedController.ts",
	}
	stats := quality.Analyze([]*codemap.Node{route}, nil)
	assert.Equal(t, 1, stats.DeadCode.UnusedControllers)
}

func TestAnalyzeDeadCodeBackupFile(t *testing.T) {
	node := &codemap.Node{
		Type:     codemap.NodeFile,
		Label:    "OrderService.go.bak",
		FilePath: "src/orders/OrderService.go.bak",
	}
	stats := quality.Analyze([]*codemap.Node{node}, nil)
	assert.Equal(t, 1, stats.DeadCode.BackupFiles)
}

func TestAnalyzeCodeSmellsTryWithoutCatch(t *testing.T) {
	node := &codemap.Node{
		Type:     codemap.NodeFunction,
		Label:    "DoThing",
		FilePath: "src/orders/OrderController.go",
		CodeSnippet: `func DoThing() {
	try {
		risky()
	}
}`,
	}
	stats := quality.Analyze([]*codemap.Node{node}, nil)
	require.Equal(t, 1, stats.CodeSmells.Count)
	assert.Equal(t, "try_without_catch", stats.CodeSmells.Issues[0].Kind)
}

func TestAnalyzeRepeatedCodeAddressFields(t *testing.T) {
	makeNode := func(file string) *codemap.Node {
		return &codemap.Node{
			Type:        codemap.NodeFunction,
			Label:       "Validate",
			FilePath:    file,
			CodeSnippet: `street city state zip`,
		}
	}
	nodes := []*codemap.Node{makeNode("a.go"), makeNode("b.go"), makeNode("c.go"), makeNode("d.go")}
	stats := quality.Analyze(nodes, nil)
	found := false
	for _, issue := range stats.RepeatedCode.Issues {
		if issue.Category == "address" {
			found = true
		}
	}
	assert.True(t, found)
}
