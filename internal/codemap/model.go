// Package codemap defines the data model emitted by the analysis pipeline:
// Node, Edge, CallSite, CodeMap and Statistics, plus the deterministic id
// scheme that makes two runs over identical inputs byte-identical.
package codemap

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
)

// NodeType enumerates the vertex kinds in the code map.
type NodeType string

const (
	NodeFile      NodeType = "File"
	NodeFunction  NodeType = "Function"
	NodeClass     NodeType = "Class"
	NodeComponent NodeType = "Component"
	NodeAPIRoute  NodeType = "APIRoute"
)

// EdgeType enumerates the directed relationship kinds in the code map.
type EdgeType string

const (
	EdgeImports         EdgeType = "IMPORTS"
	EdgeCalls           EdgeType = "CALLS"
	EdgeAPICall         EdgeType = "API_CALL"
	EdgeDBQuery         EdgeType = "DB_QUERY"
	EdgeReferences      EdgeType = "REFERENCES"
	EdgeMessagePublish  EdgeType = "MESSAGE_PUBLISH"
	EdgeMessageConsume  EdgeType = "MESSAGE_CONSUME"
	EdgeRPCCall         EdgeType = "RPC_CALL"
	EdgeGraphQLQuery    EdgeType = "GRAPHQL_QUERY"
	EdgeReadsFrom       EdgeType = "READS_FROM"
	EdgeWritesTo        EdgeType = "WRITES_TO"
)

// Node is a vertex in the code map: a file, function, class, component or
// API route.
type Node struct {
	ID          string         `json:"id"`
	Type        NodeType       `json:"type"`
	Label       string         `json:"label"`
	FilePath    string         `json:"filePath"`
	Language    string         `json:"language"`
	CodeSnippet string         `json:"codeSnippet,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// Edge is a directed relationship between two nodes. TargetID may
// temporarily hold a raw import specifier until import resolution rewrites
// it to a resolved node id.
type Edge struct {
	SourceID string   `json:"sourceId"`
	TargetID string   `json:"targetId"`
	Type     EdgeType `json:"type"`
}

// CallSite is an intermediate extraction artifact; it is never emitted in
// the final CodeMap.
type CallSite struct {
	CallerID   string
	Raw        string
	Qualifier  string
	CallerFile string
}

// CodeMap is the single deterministic artifact emitted by the pipeline.
type CodeMap struct {
	Version     string     `json:"version"`
	GeneratedAt string     `json:"generatedAt"`
	Generator   string     `json:"generator"`
	Commit      string     `json:"commit,omitempty"`
	Nodes       []*Node    `json:"nodes"`
	Edges       []*Edge    `json:"edges"`
	Statistics  Statistics `json:"statistics"`
}

// NodeID computes the deterministic SHA-1 based id for a source-derived
// node: SHA-1("kind:key:filePath[:offset]") hex-encoded. filePath is
// normalized to forward slashes by the caller before hashing, per the
// determinism contract in spec §9.
func NodeID(kind, key, filePath string, offset ...int) string {
	parts := []string{kind, key, filePath}
	for _, o := range offset {
		parts = append(parts, fmt.Sprintf("%d", o))
	}
	sum := sha1.Sum([]byte(strings.Join(parts, ":")))
	return hex.EncodeToString(sum[:])
}

// SyntheticID builds a deterministic pseudo-id for a synthetic node that
// has no corresponding source artifact (db:generic, image:<ref>,
// table:<name>, graphql:schema).
func SyntheticID(kind, key string) string {
	if key == "" {
		return kind
	}
	return kind + ":" + key
}

// NormalizePath converts a path to forward-slash form, the canonical form
// used for both FilePath fields and id hashing.
func NormalizePath(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}
