package strategy

import (
	"encoding/json"
	"strings"

	"github.com/DeusData/codemap/internal/codemap"
	"github.com/DeusData/codemap/internal/lang"
)

func init() {
	Register(lang.JSON, extractJSON)
}

type openAPIJSONDoc struct {
	OpenAPI string                     `json:"openapi"`
	Swagger string                     `json:"swagger"`
	Paths   map[string]map[string]any  `json:"paths"`
}

func extractJSON(in Input) Result {
	var res Result
	res.Nodes = append(res.Nodes, fileNode(in))

	var doc openAPIJSONDoc
	if err := json.Unmarshal(in.Source(), &doc); err != nil {
		return res
	}
	if doc.OpenAPI == "" && doc.Swagger == "" {
		return res
	}
	for path, methods := range doc.Paths {
		for method := range methods {
			verb := strings.ToUpper(method)
			if !isHTTPVerb(verb) {
				continue
			}
			label := verb + " " + path
			res.Nodes = append(res.Nodes, &codemap.Node{
				ID:       codemap.NodeID("APIRoute", label, in.FilePath),
				Type:     codemap.NodeAPIRoute,
				Label:    label,
				FilePath: in.FilePath,
				Language: string(in.Language),
				Metadata: codemap.OpenAPIMeta{Framework: "OpenAPI", HTTPMethod: verb}.ToMap(),
			})
		}
	}
	return res
}
