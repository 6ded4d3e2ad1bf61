package interaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DeusData/codemap/internal/codemap"
	"github.com/DeusData/codemap/internal/config"
)

func TestSynthesizeAPICallsFetchLiteral(t *testing.T) {
	caller := &codemap.Node{
		ID:          "caller1",
		Type:        codemap.NodeFunction,
		FilePath:    "frontend/src/api/users.ts",
		CodeSnippet: `function loadUsers() { return fetch('/api/users') }`,
	}
	route := &codemap.Node{
		ID:       "route1",
		Type:     codemap.NodeAPIRoute,
		Label:    "GET /api/users",
		FilePath: "backend/src/routes/users.ts",
	}
	rules := []config.InteractionRule{
		{Type: "API_CALL", Frontend: config.RuleSide{Path: "frontend"}, Backend: config.RuleSide{Path: "backend"}},
	}
	edges := synthesizeAPICalls("", rules, []*codemap.Node{caller, route})

	require.Len(t, edges, 1)
	assert.Equal(t, "caller1", edges[0].SourceID)
	assert.Equal(t, "route1", edges[0].TargetID)
	assert.Equal(t, codemap.EdgeAPICall, edges[0].Type)
}

func TestSynthesizeAPICallsAxiosInstanceBaseURL(t *testing.T) {
	caller := &codemap.Node{
		ID:       "caller1",
		Type:     codemap.NodeFunction,
		FilePath: "frontend/src/api/client.ts",
		CodeSnippet: `const client = axios.create({ baseURL: 'https://api.internal' })
function loadOrders() { return client.get('/orders') }`,
	}
	route := &codemap.Node{
		ID:       "route1",
		Type:     codemap.NodeAPIRoute,
		Label:    "GET /orders",
		FilePath: "backend/src/routes/orders.ts",
	}
	rules := []config.InteractionRule{
		{Type: "API_CALL", Frontend: config.RuleSide{Path: "frontend"}, Backend: config.RuleSide{Path: "backend"}},
	}
	edges := synthesizeAPICalls("", rules, []*codemap.Node{caller, route})

	require.Len(t, edges, 1)
	assert.Equal(t, "route1", edges[0].TargetID)
}

func TestSynthesizeAPICallsNoRulesReturnsNil(t *testing.T) {
	edges := synthesizeAPICalls("", nil, []*codemap.Node{})
	assert.Empty(t, edges)
}

func TestMatchRoutePathParam(t *testing.T) {
	routes := []*codemap.Node{
		{ID: "r1", Label: "GET /users/:id"},
	}
	target := matchRoute(routes, "/users/42")
	assert.Equal(t, "r1", target)
}

func TestIsSecretBindingDetectsCredentialLikeKeys(t *testing.T) {
	assert.True(t, isSecretBinding("DB_PASSWORD"))
	assert.True(t, isSecretBinding("API_TOKEN"))
	assert.False(t, isSecretBinding("API_BASE_URL"))
}
