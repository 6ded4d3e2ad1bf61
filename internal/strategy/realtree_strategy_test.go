package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"
	tree_sitter_c_sharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_php "github.com/tree-sitter/tree-sitter-php/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	tree_sitter_kotlin "github.com/tree-sitter-grammars/tree-sitter-kotlin/bindings/go"
	tree_sitter_lua "github.com/tree-sitter-grammars/tree-sitter-lua/bindings/go"

	"github.com/DeusData/codemap/internal/codemap"
	"github.com/DeusData/codemap/internal/lang"
	"github.com/DeusData/codemap/internal/parser"
)

// realGrammar resolves the same tree-sitter grammar the parser provider
// registers for language, so these tests exercise the real AST-walking
// branch of each strategy (IsStub() == false) instead of the regex
// fallback covered elsewhere.
func realGrammar(l lang.Language) *tree_sitter.Language {
	switch l {
	case lang.TypeScript:
		return tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
	case lang.JavaScript:
		return tree_sitter.NewLanguage(tree_sitter_javascript.Language())
	case lang.Python:
		return tree_sitter.NewLanguage(tree_sitter_python.Language())
	case lang.CPP:
		return tree_sitter.NewLanguage(tree_sitter_cpp.Language())
	case lang.CSharp:
		return tree_sitter.NewLanguage(tree_sitter_c_sharp.Language())
	case lang.Rust:
		return tree_sitter.NewLanguage(tree_sitter_rust.Language())
	case lang.PHP:
		return tree_sitter.NewLanguage(tree_sitter_php.LanguagePHPOnly())
	case lang.Kotlin:
		return tree_sitter.NewLanguage(tree_sitter_kotlin.Language())
	case lang.Lua:
		return tree_sitter.NewLanguage(tree_sitter_lua.Language())
	default:
		return nil
	}
}

// parseReal builds an Input carrying a genuine tree-sitter tree, not the
// stub withSource() helper's nil-Tree approximation.
func parseReal(t *testing.T, l lang.Language, filePath, src string) Input {
	t.Helper()
	tsLang := realGrammar(l)
	require.NotNil(t, tsLang, "no grammar registered for %s", l)

	p := tree_sitter.NewParser()
	require.NoError(t, p.SetLanguage(tsLang))
	tree := p.Parse([]byte(src), nil)
	require.NotNil(t, tree)

	return Input{
		FilePath: filePath,
		Language: l,
		Parsed:   &parser.Parsed{Language: l, Source: []byte(src), Tree: tree},
	}
}

func TestExtractTSJSReactComponentRealTree(t *testing.T) {
	in := parseReal(t, lang.TypeScript, "src/components/UserCard.tsx", `
import React from 'react'

export function UserCard(props) {
  return "<div></div>"
}
`)
	res := extractTSJS(in)

	var comp *codemap.Node
	for _, n := range res.Nodes {
		if n.Type == codemap.NodeComponent {
			comp = n
		}
	}
	require.NotNil(t, comp, "React-flavoured .tsx file with an uppercase JSX-returning function must classify as Component")
	assert.Equal(t, "UserCard", comp.Label)
}

func TestExtractTSJSNonReactFileNotClassifiedAsComponent(t *testing.T) {
	in := parseReal(t, lang.TypeScript, "src/utils/NewThing.ts", `
export function NewThing() {
  return "<div></div>"
}
`)
	res := extractTSJS(in)

	for _, n := range res.Nodes {
		assert.NotEqual(t, codemap.NodeComponent, n.Type, "an uppercase function in a non-React-flavoured .ts file must not be classified as a Component")
	}
}

func TestNextAPIRoutePathDropsAPISegment(t *testing.T) {
	assert.Equal(t, "/users", nextAPIRoutePath("app/api/users/route.ts"))
	assert.Equal(t, "/users/:id", nextAPIRoutePath("app/api/users/[id]/route.ts"))
}

func TestExtractPythonFlaskRouteRealTree(t *testing.T) {
	in := parseReal(t, lang.Python, "app/routes.py", `
from flask import Flask

app = Flask(__name__)

@app.route('/users', methods=['GET', 'POST'])
def list_users():
    return []
`)
	res := extractPython(in)

	var route *codemap.Node
	for _, n := range res.Nodes {
		if n.Type == codemap.NodeAPIRoute {
			route = n
		}
	}
	require.NotNil(t, route)
	assert.Equal(t, "Flask", route.Metadata["framework"])
}

func TestExtractCPPClassAndFunctionRealTree(t *testing.T) {
	in := parseReal(t, lang.CPP, "src/Widget.cpp", `
#include "widget.h"

class Widget {
public:
    void render() {}
};
`)
	res := extractCPP(in)

	var class, fn *codemap.Node
	for _, n := range res.Nodes {
		switch {
		case n.Type == codemap.NodeClass && n.Label == "Widget":
			class = n
		case n.Type == codemap.NodeFunction:
			fn = n
		}
	}
	require.NotNil(t, class)
	require.NotNil(t, fn)
	require.Len(t, res.Edges, 1)
}

func TestExtractCSharpAspNetRouteRealTree(t *testing.T) {
	in := parseReal(t, lang.CSharp, "Controllers/UsersController.cs", `
using Microsoft.AspNetCore.Mvc;

[Route("api/[controller]")]
public class UsersController : ControllerBase
{
    [HttpGet("{id}")]
    public IActionResult Get(int id)
    {
        return Ok();
    }
}
`)
	res := extractCSharp(in)

	var route *codemap.Node
	for _, n := range res.Nodes {
		if n.Type == codemap.NodeAPIRoute {
			route = n
		}
	}
	require.NotNil(t, route)
	assert.Contains(t, route.Label, "GET")
	assert.Contains(t, route.Label, "/api/Users")
}

func TestExtractRustImplFunctionRealTree(t *testing.T) {
	in := parseReal(t, lang.Rust, "src/widget.rs", `
use std::fmt;

struct Widget {
    name: String,
}

impl Widget {
    fn render(&self) -> String {
        self.name.clone()
    }
}
`)
	res := extractRust(in)

	var found bool
	for _, n := range res.Nodes {
		if n.Type == codemap.NodeFunction && n.Label == "Widget::render" {
			found = true
		}
	}
	assert.True(t, found)
	require.Len(t, res.Edges, 1)
}

func TestExtractPHPLaravelRouteAndClassRealTree(t *testing.T) {
	in := parseReal(t, lang.PHP, "app/routes/web.php", `<?php

use App\Http\Controllers\UserController;

Route::get('/users', [UserController::class, 'index']);

class Foo {
    function bar() {}
}
`)
	res := extractPHP(in)

	var route, class *codemap.Node
	for _, n := range res.Nodes {
		switch {
		case n.Type == codemap.NodeAPIRoute:
			route = n
		case n.Type == codemap.NodeClass && n.Label == "Foo":
			class = n
		}
	}
	require.NotNil(t, route)
	assert.Equal(t, "Laravel", route.Metadata["framework"])
	require.NotNil(t, class)
}

func TestExtractKotlinClassAndKtorRouteRealTree(t *testing.T) {
	in := parseReal(t, lang.Kotlin, "src/main/kotlin/UserService.kt", `
import io.ktor.routing.*

class UserService {
    fun listUsers() {
    }
}

fun main() {
    routing {
        get("/users") {
        }
    }
}
`)
	res := extractKotlin(in)

	var class *codemap.Node
	for _, n := range res.Nodes {
		if n.Type == codemap.NodeClass && n.Label == "UserService" {
			class = n
		}
	}
	require.NotNil(t, class)

	var route *codemap.Node
	for _, n := range res.Nodes {
		if n.Type == codemap.NodeAPIRoute {
			route = n
		}
	}
	require.NotNil(t, route)
	assert.Equal(t, "Ktor", route.Metadata["framework"])
}

func TestExtractLuaFunctionRealTree(t *testing.T) {
	in := parseReal(t, lang.Lua, "scripts/util.lua", `
function greet(name)
  return "hi"
end
`)
	res := extractLua(in)

	var found bool
	for _, n := range res.Nodes {
		if n.Type == codemap.NodeFunction && n.Label == "greet" {
			found = true
		}
	}
	assert.True(t, found)
	assert.Equal(t, res.Nodes[len(res.Nodes)-1].ID, res.Exports["greet"])
}

func TestExtractTerraformResourceBlock(t *testing.T) {
	in := Input{FilePath: "main.tf", Language: lang.Terraform}
	in = in.withSource(`resource "aws_instance" "web" {
  ami           = "ami-123"
  instance_type = "t2.micro"
}
`)
	res := extractTerraform(in)

	var found bool
	for _, n := range res.Nodes {
		if n.Label == "aws_instance.web" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestExtractHTMLScriptLinkImports(t *testing.T) {
	in := Input{FilePath: "index.html", Language: lang.HTML}
	in = in.withSource(`<html><head><link rel="stylesheet" href="style.css"></head><body><script src="app.js"></script></body></html>`)
	res := extractHTML(in)

	require.Len(t, res.Edges, 2)
}
