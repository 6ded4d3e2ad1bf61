package strategy

import (
	"regexp"
	"strings"

	"github.com/DeusData/codemap/internal/codemap"
	"github.com/DeusData/codemap/internal/lang"
)

func init() {
	Register(lang.Terraform, extractTerraform)
}

// tfBlockHeaderRe matches a top-level block opener: resource "type"
// "name" {, module "name" {, provider "name" {, variable "name" {,
// output "name" {, data "type" "name" {.
var tfBlockHeaderRe = regexp.MustCompile(`^\s*(resource|module|provider|variable|output|data)\s+"([^"]+)"(?:\s+"([^"]+)")?\s*\{`)

// tfDependsOnRe matches a depends_on = [ ... ] attribute; the list may
// span several lines, since [^\]] also matches newlines.
var tfDependsOnRe = regexp.MustCompile(`depends_on\s*=\s*\[([^\]]*)\]`)

// tfInlineRefRe matches inline type.name references inside an attribute
// value, e.g. aws_vpc.main.id.
var tfInlineRefRe = regexp.MustCompile(`\b([a-z_]+)\.([a-zA-Z0-9_-]+)\.[a-zA-Z0-9_]+\b`)

type tfBlock struct {
	kind      string // resource, module, provider, variable, output, data
	blockType string
	name      string
	body      string
}

// extractTerraform follows the teacher's own brace-depth line scanner
// rather than a tree-sitter HCL grammar: the teacher's pipeline never
// wires HCL parsing into its parser registry, so there is no grounded
// AST path to imitate here.
func extractTerraform(in Input) Result {
	var res Result
	res.Nodes = append(res.Nodes, fileNode(in))

	blocks := scanTFBlocks(string(in.Source()))
	for _, b := range blocks {
		name := b.blockType + "." + b.name
		if b.kind == "provider" || b.kind == "variable" || b.kind == "output" {
			name = b.kind + "." + b.blockType
		}
		node := &codemap.Node{
			ID:          codemap.NodeID("terraform", b.kind+":"+name, in.FilePath),
			Type:        codemap.NodeClass,
			Label:       name,
			FilePath:    in.FilePath,
			Language:    string(in.Language),
			CodeSnippet: b.body,
			Metadata:    codemap.TerraformResourceMeta{ResourceType: b.blockType, ResourceName: b.name}.ToMap(),
		}
		res.Nodes = append(res.Nodes, node)
	}

	return res
}

// scanTFBlocks walks the file tracking brace depth, collecting each
// top-level block's header and body text for the interaction analyzer's
// later depends_on / inline-reference pass.
func scanTFBlocks(source string) []tfBlock {
	var blocks []tfBlock
	lines := strings.Split(source, "\n")
	depth := 0
	var cur *tfBlock
	var body strings.Builder

	for _, line := range lines {
		if depth == 0 {
			if m := tfBlockHeaderRe.FindStringSubmatch(line); m != nil {
				kind := m[1]
				blockType := m[2]
				name := m[3]
				if kind == "provider" || kind == "variable" || kind == "output" {
					name = ""
				}
				cur = &tfBlock{kind: kind, blockType: blockType, name: name}
				body.Reset()
				depth += strings.Count(line, "{") - strings.Count(line, "}")
				continue
			}
		} else {
			body.WriteString(line)
			body.WriteByte('\n')
			depth += strings.Count(line, "{") - strings.Count(line, "}")
			if depth <= 0 && cur != nil {
				cur.body = body.String()
				blocks = append(blocks, *cur)
				cur = nil
				depth = 0
			}
		}
	}
	return blocks
}
