package strategy

import (
	"regexp"

	"github.com/DeusData/codemap/internal/codemap"
	"github.com/DeusData/codemap/internal/lang"
)

func init() {
	Register(lang.SQL, extractSQL)
}

var sqlCreateTableRe = regexp.MustCompile(`(?i)CREATE\s+(?:TABLE|VIEW)\s+(?:IF\s+NOT\s+EXISTS\s+)?` + "`" + `?"?\[?([\w.]+)\]?"?` + "`" + `?`)
var sqlCreateIndexRe = regexp.MustCompile(`(?i)CREATE\s+(?:UNIQUE\s+)?INDEX\s+(?:IF\s+NOT\s+EXISTS\s+)?([\w]+)`)
var sqlCreateFuncRe = regexp.MustCompile(`(?i)CREATE\s+(?:OR\s+REPLACE\s+)?FUNCTION\s+([\w.]+)`)
var sqlCreateTriggerRe = regexp.MustCompile(`(?i)CREATE\s+TRIGGER\s+([\w]+)`)

// sqlDialectMarkers is a best-effort dialect sniff used only to stamp
// metadata; the node kind and extraction itself are dialect-agnostic.
var sqlDialectMarkers = []struct {
	pattern *regexp.Regexp
	dialect string
}{
	{regexp.MustCompile(`(?i)AUTO_INCREMENT`), "mysql"},
	{regexp.MustCompile(`(?i)SERIAL\b|RETURNING\b`), "postgres"},
	{regexp.MustCompile(`(?i)IDENTITY\s*\(`), "mssql"},
	{regexp.MustCompile(`(?i)AUTOINCREMENT`), "sqlite"},
}

func extractSQL(in Input) Result {
	var res Result
	res.Nodes = append(res.Nodes, fileNode(in))
	source := string(in.Source())

	dialect := sniffSQLDialect(source)

	emit := func(kind, name string) {
		res.Nodes = append(res.Nodes, &codemap.Node{
			ID:       codemap.NodeID(kind, name, in.FilePath),
			Type:     codemap.NodeClass,
			Label:    name,
			FilePath: in.FilePath,
			Language: string(in.Language),
			Metadata: map[string]any{"dialect": dialect, "sqlKind": kind},
		})
	}
	for _, m := range sqlCreateTableRe.FindAllStringSubmatch(source, -1) {
		emit("table", m[1])
	}
	for _, m := range sqlCreateIndexRe.FindAllStringSubmatch(source, -1) {
		emit("index", m[1])
	}
	for _, m := range sqlCreateFuncRe.FindAllStringSubmatch(source, -1) {
		emit("function", m[1])
	}
	for _, m := range sqlCreateTriggerRe.FindAllStringSubmatch(source, -1) {
		emit("trigger", m[1])
	}

	return res
}

func sniffSQLDialect(source string) string {
	for _, marker := range sqlDialectMarkers {
		if marker.pattern.MatchString(source) {
			return marker.dialect
		}
	}
	return "unknown"
}
