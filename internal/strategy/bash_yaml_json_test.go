package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DeusData/codemap/internal/codemap"
	"github.com/DeusData/codemap/internal/lang"
)

func TestExtractBashFunctionsAndSource(t *testing.T) {
	in := Input{FilePath: "scripts/deploy.sh", Language: lang.Bash}
	in = in.withSource(`#!/bin/bash
source ./lib/common.sh

deploy() {
  echo "deploying"
}`)
	res := extractBash(in)

	var gotFunc bool
	for _, n := range res.Nodes {
		if n.Type == codemap.NodeFunction && n.Label == "deploy" {
			gotFunc = true
		}
	}
	assert.True(t, gotFunc)
	require.Len(t, res.Edges, 1)
	assert.Equal(t, codemap.EdgeImports, res.Edges[0].Type)
}

func TestExtractYAMLKubernetesDeployment(t *testing.T) {
	in := Input{FilePath: "k8s/deployment.yaml", Language: lang.YAML}
	in = in.withSource(`apiVersion: apps/v1
kind: Deployment
metadata:
  name: checkout
  labels:
    app: checkout
spec:
  template:
    spec:
      containers:
        - name: web
          image: myrepo/checkout:1.2.3
`)
	res := extractYAML(in)

	var comp *codemap.Node
	for _, n := range res.Nodes {
		if n.Type == codemap.NodeComponent {
			comp = n
		}
	}
	require.NotNil(t, comp)
	assert.Equal(t, "checkout", comp.Label)
	assert.Equal(t, "Deployment", comp.Metadata["resourceKind"])
}

func TestExtractYAMLHelmChart(t *testing.T) {
	in := Input{FilePath: "charts/api/Chart.yaml", Language: lang.YAML}
	in = in.withSource("name: api\nversion: 1.0.0\n")
	res := extractYAML(in)

	var found bool
	for _, n := range res.Nodes {
		if n.Metadata != nil && n.Metadata["helmRole"] == "chart" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestExtractYAMLKustomizeResources(t *testing.T) {
	in := Input{FilePath: "overlays/prod/kustomization.yaml", Language: lang.YAML}
	in = in.withSource("resources:\n  - deployment.yaml\n  - service.yaml\n")
	res := extractYAML(in)

	var found bool
	for _, n := range res.Nodes {
		if resources, ok := n.Metadata["resources"].([]string); ok {
			assert.ElementsMatch(t, []string{"deployment.yaml", "service.yaml"}, resources)
			found = true
		}
	}
	assert.True(t, found)
}

func TestExtractJSONOpenAPIPaths(t *testing.T) {
	in := Input{FilePath: "openapi.json", Language: lang.JSON}
	in = in.withSource(`{
  "openapi": "3.0.0",
  "paths": {
    "/users": {
      "get": {}
    }
  }
}`)
	res := extractJSON(in)

	var route *codemap.Node
	for _, n := range res.Nodes {
		if n.Type == codemap.NodeAPIRoute {
			route = n
		}
	}
	require.NotNil(t, route)
	assert.Equal(t, "GET /users", route.Label)
}

func TestExtractJSONNonOpenAPISkipsRoutes(t *testing.T) {
	in := Input{FilePath: "data.json", Language: lang.JSON}
	in = in.withSource(`{"foo": "bar"}`)
	res := extractJSON(in)

	for _, n := range res.Nodes {
		assert.NotEqual(t, codemap.NodeAPIRoute, n.Type)
	}
}
