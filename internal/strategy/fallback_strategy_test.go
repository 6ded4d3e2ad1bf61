package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DeusData/codemap/internal/codemap"
	"github.com/DeusData/codemap/internal/lang"
	"github.com/DeusData/codemap/internal/parser"
)

func TestExtractTSJSFallbackExpressRoute(t *testing.T) {
	in := Input{
		FilePath: "src/routes/users.js",
		Language: lang.JavaScript,
	}
	var res Result
	res.Nodes = append(res.Nodes, fileNode(in))
	extractTSJSFallback(in.withSource(`router.get('/users', (req, res) => {
  res.send(users)
})`), &res)

	var route *codemap.Node
	for _, n := range res.Nodes {
		if n.Type == codemap.NodeAPIRoute {
			route = n
		}
	}
	require.NotNil(t, route)
	assert.Equal(t, "GET /users", route.Label)
}

func TestExtractPythonFallbackFlaskRoute(t *testing.T) {
	in := Input{FilePath: "app/views.py", Language: lang.Python}
	var res Result
	res.Nodes = append(res.Nodes, fileNode(in))
	extractPythonFallback(in.withSource(`@app.route('/users', methods=['POST'])
def create_user():
    pass`), &res)

	var route *codemap.Node
	for _, n := range res.Nodes {
		if n.Type == codemap.NodeAPIRoute {
			route = n
		}
	}
	require.NotNil(t, route)
	assert.Equal(t, "POST /users", route.Label)
}

func TestExtractRubyFallbackRailsController(t *testing.T) {
	in := Input{FilePath: "app/controllers/users_controller.rb", Language: lang.Ruby}
	in = in.withSource(`class UsersController < ApplicationController
  def index
  end

  def create
  end
end`)
	res := extractRubyFallback(in)

	var gotIndex, gotCreate bool
	for _, n := range res.Nodes {
		if n.Type == codemap.NodeAPIRoute {
			if n.Label == "GET UsersController#index" {
				gotIndex = true
			}
			if n.Label == "POST UsersController#create" {
				gotCreate = true
			}
		}
	}
	assert.True(t, gotIndex)
	assert.True(t, gotCreate)
}

func TestExtractDartFallbackFlutterWidget(t *testing.T) {
	in := Input{FilePath: "lib/widgets/home_page.dart", Language: lang.Dart}
	in = in.withSource(`class HomePage extends StatelessWidget {
  Widget build(BuildContext context) {
    return Container();
  }
}`)
	res := extractDartFallback(in)

	var found bool
	for _, n := range res.Nodes {
		if n.Type == codemap.NodeComponent && n.Label == "HomePage" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestExtractDockerfileBaseImage(t *testing.T) {
	in := Input{FilePath: "Dockerfile", Language: lang.Dockerfile}
	in = in.withSource(`FROM golang:1.23-alpine
EXPOSE 8080
`)
	res := extractDockerfile(in)

	var fileN *codemap.Node
	for _, n := range res.Nodes {
		if n.Type == codemap.NodeFile {
			fileN = n
		}
	}
	require.NotNil(t, fileN)
	require.Len(t, res.Edges, 1)
	assert.Equal(t, codemap.EdgeReferences, res.Edges[0].Type)

	var imgN *codemap.Node
	for _, n := range res.Nodes {
		if n.Type == codemap.NodeComponent {
			imgN = n
		}
	}
	require.NotNil(t, imgN, "dockerfile extraction must synthesize the image Component node alongside the REFERENCES edge")
	assert.Equal(t, res.Edges[0].TargetID, imgN.ID)
	assert.Equal(t, "golang:1.23-alpine", imgN.Label)
}

func TestExtractSQLCreateTable(t *testing.T) {
	in := Input{FilePath: "db/schema.sql", Language: lang.SQL}
	in = in.withSource(`CREATE TABLE users (
  id SERIAL PRIMARY KEY,
  email TEXT NOT NULL
);`)
	res := extractSQL(in)

	var found bool
	for _, n := range res.Nodes {
		if n.Label == "users" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestExtractGraphQLTypes(t *testing.T) {
	in := Input{FilePath: "schema.graphql", Language: lang.GraphQL}
	in = in.withSource(`type User {
  id: ID!
  name: String!
}

type Query {
  users: [User!]!
}`)
	res := extractGraphQL(in)

	var names []string
	for _, n := range res.Nodes {
		names = append(names, n.Label)
	}
	assert.Contains(t, names, "User")
	assert.Contains(t, names, "Query")
}

func TestExtractCSSDedupSelectors(t *testing.T) {
	in := Input{FilePath: "styles/app.css", Language: lang.CSS}
	in = in.withSource(`.button { color: red; }
.button { color: blue; }
.card { padding: 4px; }`)
	res := extractCSS(in)

	count := 0
	for _, n := range res.Nodes {
		if n.Label == ".button" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

// withSource is a test-only helper that builds a stub Input carrying raw
// source bytes with no tree-sitter tree, matching the IsStub() contract
// every fallback path runs under.
func (in Input) withSource(src string) Input {
	in.Parsed = &parser.Parsed{Language: in.Language, Source: []byte(src)}
	return in
}
