package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DeusData/codemap/internal/codemap"
	"github.com/DeusData/codemap/internal/lang"
)

func TestExtractGoStubFallsBackToFileNodeOnly(t *testing.T) {
	in := Input{FilePath: "main.go", Language: lang.Go}
	in = in.withSource(`package main

func main() {}
`)
	res := extractGo(in)

	require.Len(t, res.Nodes, 1)
	assert.Equal(t, codemap.NodeFile, res.Nodes[0].Type)
	assert.Empty(t, res.Edges)
}

func TestExtractJavaStubStillExtractsImports(t *testing.T) {
	in := Input{FilePath: "src/main/java/com/example/App.java", Language: lang.Java}
	in = in.withSource(`package com.example;

import com.example.util.Helper;

public class App {}
`)
	res := extractJava(in)

	require.Len(t, res.Edges, 1)
	assert.Equal(t, codemap.EdgeImports, res.Edges[0].Type)
}
