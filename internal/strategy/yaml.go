package strategy

import (
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/DeusData/codemap/internal/codemap"
	"github.com/DeusData/codemap/internal/lang"
)

func init() {
	Register(lang.YAML, extractYAML)
}

var docSplitRe = regexp.MustCompile(`(?m)^---\s*$`)

// k8sDoc mirrors the subset of a Kubernetes manifest the analyzer needs:
// kind/metadata for every resource, spec.selector for Services, labels and
// container images for anything pod-shaped.
type k8sDoc struct {
	APIVersion string `yaml:"apiVersion"`
	Kind       string `yaml:"kind"`
	Metadata   struct {
		Name      string            `yaml:"name"`
		Namespace string            `yaml:"namespace"`
		Labels    map[string]string `yaml:"labels"`
	} `yaml:"metadata"`
	Spec map[string]any `yaml:"spec"`
}

type openAPIDoc struct {
	OpenAPI string                    `yaml:"openapi"`
	Swagger string                    `yaml:"swagger"`
	Paths   map[string]map[string]any `yaml:"paths"`
}

type kustomizeDoc struct {
	Kustomization any      `yaml:"kustomization"`
	Resources     []string `yaml:"resources"`
}

func extractYAML(in Input) Result {
	var res Result
	res.Nodes = append(res.Nodes, fileNode(in))
	source := string(in.Source())
	base := filepath.Base(in.FilePath)

	isHelm := base == "Chart.yaml" || strings.Contains(in.FilePath, "/templates/") || base == "values.yaml"
	isKustomize := base == "kustomization.yaml" || base == "kustomization.yml"

	for _, raw := range docSplitRe.Split(source, -1) {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		var probe map[string]any
		if err := yaml.Unmarshal([]byte(raw), &probe); err != nil || probe == nil {
			continue
		}

		if _, hasOpenAPI := probe["openapi"]; hasOpenAPI {
			extractOpenAPIDoc(raw, in, &res)
			continue
		}
		if _, hasSwagger := probe["swagger"]; hasSwagger {
			extractOpenAPIDoc(raw, in, &res)
			continue
		}

		_, hasAPIVersion := probe["apiVersion"]
		_, hasKind := probe["kind"]
		if hasAPIVersion && hasKind {
			extractK8sDoc(raw, in, &res)
			continue
		}

		if isKustomize || probe["kustomization"] != nil {
			extractKustomizeDoc(raw, in, &res)
			continue
		}

		if isHelm {
			role := "template"
			if base == "Chart.yaml" {
				role = "chart"
			} else if base == "values.yaml" {
				role = "values"
			}
			res.Nodes = append(res.Nodes, &codemap.Node{
				ID:       codemap.NodeID("yaml", in.FilePath, in.FilePath),
				Type:     codemap.NodeFile,
				Label:    base,
				FilePath: in.FilePath,
				Language: string(in.Language),
				Metadata: codemap.HelmMeta{Role: role, ChartRoot: filepath.Dir(in.FilePath)}.ToMap(),
			})
		}
	}

	return res
}

func extractK8sDoc(raw string, in Input, res *Result) {
	var doc k8sDoc
	if err := yaml.Unmarshal([]byte(raw), &doc); err != nil || doc.Kind == "" {
		return
	}
	var selectors map[string]string
	var images []string

	if sel, ok := doc.Spec["selector"]; ok {
		selectors = flattenStringMap(sel)
	}
	images = collectContainerImages(doc.Spec)

	res.Nodes = append(res.Nodes, &codemap.Node{
		ID:       codemap.NodeID("k8s", doc.Kind+":"+doc.Metadata.Name, in.FilePath),
		Type:     codemap.NodeComponent,
		Label:    doc.Metadata.Name,
		FilePath: in.FilePath,
		Language: string(in.Language),
		Metadata: codemap.KubernetesMeta{
			ResourceKind: doc.Kind,
			Name:         doc.Metadata.Name,
			Namespace:    doc.Metadata.Namespace,
			Labels:       doc.Metadata.Labels,
			Selectors:    selectors,
			Images:       images,
		}.ToMap(),
	})
}

// flattenStringMap coerces a YAML-decoded map[string]any (Service
// spec.selector) into map[string]string for label/selector comparison.
func flattenStringMap(v any) map[string]string {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, val := range m {
		if s, ok := val.(string); ok {
			out[k] = s
		}
	}
	return out
}

// collectContainerImages walks a pod-template-shaped spec map looking for
// every "image:" string under spec(.template.spec).containers[].
func collectContainerImages(spec map[string]any) []string {
	var images []string
	var walkAny func(v any)
	walkAny = func(v any) {
		switch t := v.(type) {
		case map[string]any:
			if img, ok := t["image"].(string); ok {
				images = append(images, img)
			}
			for _, vv := range t {
				walkAny(vv)
			}
		case []any:
			for _, vv := range t {
				walkAny(vv)
			}
		}
	}
	walkAny(spec)
	return images
}

func extractOpenAPIDoc(raw string, in Input, res *Result) {
	var doc openAPIDoc
	if err := yaml.Unmarshal([]byte(raw), &doc); err != nil {
		return
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
}

func isHTTPVerb(v string) bool {
	switch v {
	case "GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS", "HEAD":
		return true
	}
	return false
}

func extractKustomizeDoc(raw string, in Input, res *Result) {
	var doc kustomizeDoc
	if err := yaml.Unmarshal([]byte(raw), &doc); err != nil {
		return
	}
	res.Nodes = append(res.Nodes, &codemap.Node{
		ID:       codemap.NodeID("kustomize", in.FilePath, in.FilePath),
		Type:     codemap.NodeFile,
		Label:    filepath.Base(in.FilePath),
		FilePath: in.FilePath,
		Language: string(in.Language),
		Metadata: codemap.KustomizeMeta{Resources: doc.Resources}.ToMap(),
	})
}
