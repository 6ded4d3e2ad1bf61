package interaction

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/DeusData/codemap/internal/codemap"
	"github.com/DeusData/codemap/internal/config"
)

var fetchCallRe = regexp.MustCompile(`fetch\s*\(\s*([^,)]+)`)
var axiosVerbRe = regexp.MustCompile(`axios\.(get|post|put|delete|patch)\s*\(\s*([^,)]+)`)
var axiosCreateRe = regexp.MustCompile(`(\w+)\s*=\s*axios\.create\s*\(\s*\{\s*baseURL\s*:\s*([^,}]+)`)
var axiosInstanceCallRe = regexp.MustCompile(`(\w+)\.(get|post|put|delete|patch)\s*\(\s*([^,)]+)`)
var baseURLConstRe = regexp.MustCompile(`(?:const|let|var)\s+(apiUrl|baseURL|BASE_URL)\s*=\s*(['"` + "`" + `][^'"` + "`" + `]*['"` + "`" + `])`)
var concatRe = regexp.MustCompile(`(\w+)\s*\+\s*['"` + "`" + `]([^'"` + "`" + `]*)['"` + "`" + `]`)
var envVarRe = regexp.MustCompile(`\$\{?process\.env\.(\w+)\}?`)
var literalArgRe = regexp.MustCompile(`^['"` + "`" + `]([^'"` + "`" + `]*)['"` + "`" + `]$`)

// synthesizeAPICalls implements spec §4.D's API_CALL synthesis: for each
// configured rule, scan every Function node's snippet under the frontend
// root for an HTTP call, resolve its URL, and match it against an
// APIRoute under the backend root.
func synthesizeAPICalls(rootDir string, rules []config.InteractionRule, nodes []*codemap.Node) []*codemap.Edge {
	if len(rules) == 0 {
		return nil
	}
	env := loadDotEnv(rootDir)
	var newEdges []*codemap.Edge

	for _, rule := range rules {
		routes := routesUnder(nodes, rule.Backend.Path)
		for _, n := range nodes {
			if n.Type != codemap.NodeFunction || n.CodeSnippet == "" {
				continue
			}
			if !strings.Contains(n.FilePath, rule.Frontend.Path) {
				continue
			}
			for _, raw := range extractCallURLs(n.CodeSnippet) {
				url := substituteEnv(raw, env)
				path := normalizeURLPath(url)
				if path == "" {
					continue
				}
				if rule.Backend.URLPrefix != "" {
					path = strings.TrimPrefix(path, rule.Backend.URLPrefix)
					if !strings.HasPrefix(path, "/") {
						path = "/" + path
					}
				}
				if target := matchRoute(routes, path); target != "" {
					newEdges = append(newEdges, &codemap.Edge{SourceID: n.ID, TargetID: target, Type: codemap.EdgeAPICall})
				}
			}
		}
	}
	return newEdges
}

func routesUnder(nodes []*codemap.Node, backendRoot string) []*codemap.Node {
	var out []*codemap.Node
	for _, n := range nodes {
		if n.Type == codemap.NodeAPIRoute && strings.Contains(n.FilePath, backendRoot) {
			out = append(out, n)
		}
	}
	return out
}

// extractCallURLs finds every recognized HTTP-call URL expression within a
// function snippet: fetch(...), axios.VERB(...), an axios.create baseURL
// instance's subsequent calls, and baseURL-constant concatenation.
func extractCallURLs(snippet string) []string {
	var urls []string
	consts := map[string]string{}
	for _, m := range baseURLConstRe.FindAllStringSubmatch(snippet, -1) {
		consts[m[1]] = strings.Trim(m[2], `'"`+"`")
	}
	instanceBase := map[string]string{}
	for _, m := range axiosCreateRe.FindAllStringSubmatch(snippet, -1) {
		if lm := literalArgRe.FindStringSubmatch(strings.TrimSpace(m[2])); lm != nil {
			instanceBase[m[1]] = lm[1]
		} else if v, ok := consts[strings.TrimSpace(m[2])]; ok {
			instanceBase[m[1]] = v
		}
	}

	appendResolved := func(arg string) {
		arg = strings.TrimSpace(arg)
		if lm := literalArgRe.FindStringSubmatch(arg); lm != nil {
			urls = append(urls, lm[1])
			return
		}
		if cm := concatRe.FindStringSubmatch(arg); cm != nil {
			if base, ok := consts[cm[1]]; ok {
				urls = append(urls, base+cm[2])
				return
			}
		}
		if v, ok := consts[arg]; ok {
			urls = append(urls, v)
		}
	}

	for _, m := range fetchCallRe.FindAllStringSubmatch(snippet, -1) {
		appendResolved(m[1])
	}
	for _, m := range axiosVerbRe.FindAllStringSubmatch(snippet, -1) {
		appendResolved(m[2])
	}
	for _, m := range axiosInstanceCallRe.FindAllStringSubmatch(snippet, -1) {
		base, ok := instanceBase[m[1]]
		if !ok {
			continue
		}
		arg := strings.TrimSpace(m[3])
		if lm := literalArgRe.FindStringSubmatch(arg); lm != nil {
			urls = append(urls, base+lm[1])
		}
	}
	return urls
}

func substituteEnv(url string, env map[string]string) string {
	return envVarRe.ReplaceAllStringFunc(url, func(m string) string {
		sub := envVarRe.FindStringSubmatch(m)
		if sub == nil {
			return m
		}
		if v, ok := env[sub[1]]; ok {
			return v
		}
		return m
	})
}

func normalizeURLPath(raw string) string {
	path := raw
	if idx := strings.Index(path, "://"); idx >= 0 {
		rest := path[idx+3:]
		if slash := strings.Index(rest, "/"); slash >= 0 {
			path = rest[slash:]
		} else {
			path = "/"
		}
	}
	path = strings.TrimRight(path, "/")
	if path == "" {
		path = "/"
	}
	return path
}

func matchRoute(routes []*codemap.Node, path string) string {
	for _, r := range routes {
		label := r.Label
		if sp := strings.IndexByte(label, ' '); sp >= 0 {
			label = label[sp+1:]
		}
		if routeToMatcher(label).MatchString(path) {
			return r.ID
		}
	}
	return ""
}

func routeToMatcher(label string) *regexp.Regexp {
	escaped := regexp.QuoteMeta(label)
	escaped = regexp.MustCompile(`:[A-Za-z_][A-Za-z0-9_]*`).ReplaceAllString(escaped, `[^/]+`)
	escaped = regexp.MustCompile(`\\\{[A-Za-z_][A-Za-z0-9_]*\\\}`).ReplaceAllString(escaped, `[^/]+`)
	return regexp.MustCompile("^" + escaped + "$")
}

// isSecretBinding reports whether a .env key name looks like a credential,
// mirroring the teacher's envscan secret-filtering so substituted API
// base URLs never pull a password or token into a code map.
func isSecretBinding(key string) bool {
	upper := strings.ToUpper(key)
	for _, marker := range []string{"SECRET", "PASSWORD", "TOKEN", "KEY", "CREDENTIAL", "PRIVATE"} {
		if strings.Contains(upper, marker) {
			return true
		}
	}
	return false
}

var dotenvLineRe = regexp.MustCompile(`^\s*(?:export\s+)?([\w.]+)\s*=\s*(.*)$`)

func loadDotEnv(rootDir string) map[string]string {
	env := map[string]string{}
	f, err := os.Open(filepath.Join(rootDir, ".env"))
	if err != nil {
		return env
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		m := dotenvLineRe.FindStringSubmatch(line)
		if m == nil || isSecretBinding(m[1]) {
			continue
		}
		env[m[1]] = strings.Trim(strings.TrimSpace(m[2]), `'"`)
	}
	return env
}
