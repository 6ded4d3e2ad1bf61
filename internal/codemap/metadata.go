package codemap

// Typed metadata builders. Per spec §9's design note, every metadata field
// referenced by the interaction analyzer (labels, selectors, images,
// resourceKind, resources, resourceType, resourceName, framework,
// httpMethod) is a contract and gets a field here; anything else a
// strategy wants to stash stays in the catch-all Extra map.

// KubernetesMeta describes a Kubernetes resource doc (Deployment, Service,
// Pod, ...).
type KubernetesMeta struct {
	ResourceKind string            `json:"resourceKind"`
	Name         string            `json:"name,omitempty"`
	Namespace    string            `json:"namespace,omitempty"`
	Labels       map[string]string `json:"labels,omitempty"`
	Selectors    map[string]string `json:"selectors,omitempty"`
	Images       []string          `json:"images,omitempty"`
	Extra        map[string]any    `json:"-"`
}

// ToMap flattens the typed fields plus Extra into the wire metadata map.
func (m KubernetesMeta) ToMap() map[string]any {
	out := map[string]any{"platform": "Kubernetes", "resourceKind": m.ResourceKind}
	if m.Name != "" {
		out["name"] = m.Name
	}
	if m.Namespace != "" {
		out["namespace"] = m.Namespace
	}
	if len(m.Labels) > 0 {
		out["labels"] = m.Labels
	}
	if len(m.Selectors) > 0 {
		out["selectors"] = m.Selectors
	}
	if len(m.Images) > 0 {
		out["images"] = m.Images
	}
	mergeExtra(out, m.Extra)
	return out
}

// HelmMeta describes a Helm Chart.yaml, a templates/ doc, or a values.yaml.
type HelmMeta struct {
	Role      string // "chart", "template", "values"
	ChartRoot string
	Extra     map[string]any
}

func (m HelmMeta) ToMap() map[string]any {
	out := map[string]any{"platform": "Helm", "helmRole": m.Role}
	if m.ChartRoot != "" {
		out["chartRoot"] = m.ChartRoot
	}
	mergeExtra(out, m.Extra)
	return out
}

// KustomizeMeta describes a kustomization.yaml and its resource list.
type KustomizeMeta struct {
	Resources []string
	Extra     map[string]any
}

func (m KustomizeMeta) ToMap() map[string]any {
	out := map[string]any{"platform": "Kustomize"}
	if len(m.Resources) > 0 {
		out["resources"] = m.Resources
	}
	mergeExtra(out, m.Extra)
	return out
}

// OpenAPIMeta describes an OpenAPI/Swagger document path operation.
type OpenAPIMeta struct {
	Framework  string
	HTTPMethod string
	Extra      map[string]any
}

func (m OpenAPIMeta) ToMap() map[string]any {
	out := map[string]any{"framework": m.Framework, "httpMethod": m.HTTPMethod}
	mergeExtra(out, m.Extra)
	return out
}

// TerraformResourceMeta describes a resource/module/provider block.
type TerraformResourceMeta struct {
	ResourceType string
	ResourceName string
	Extra        map[string]any
}

func (m TerraformResourceMeta) ToMap() map[string]any {
	out := map[string]any{"platform": "Terraform"}
	if m.ResourceType != "" {
		out["resourceType"] = m.ResourceType
	}
	if m.ResourceName != "" {
		out["resourceName"] = m.ResourceName
	}
	mergeExtra(out, m.Extra)
	return out
}

// RouteFrameworkMeta describes a framework route/handler found by a
// language strategy (Express, NestJS, Next.js, Flask, FastAPI, Django,
// Spring, Gin/Echo/Fiber/Chi, ASP.NET, Laravel, Rails, Sinatra, Ktor...).
type RouteFrameworkMeta struct {
	Framework  string
	HTTPMethod string
	Extra      map[string]any
}

func (m RouteFrameworkMeta) ToMap() map[string]any {
	out := map[string]any{}
	if m.Framework != "" {
		out["framework"] = m.Framework
	}
	if m.HTTPMethod != "" {
		out["httpMethod"] = m.HTTPMethod
	}
	mergeExtra(out, m.Extra)
	return out
}

func mergeExtra(dst, extra map[string]any) {
	for k, v := range extra {
		if _, exists := dst[k]; !exists {
			dst[k] = v
		}
	}
}
