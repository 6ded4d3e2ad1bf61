package quality

import (
	"regexp"
	"strings"
)

var serviceControllerRe = regexp.MustCompile(`(?i)Service|Controller`)
var testFixtureRe = regexp.MustCompile(`(?i)test|spec|mock|stub`)
var serviceOnlyRe = regexp.MustCompile(`(?i)Service`)

// inServiceControllerScope restricts a check to nodes whose path or label
// mentions Service/Controller, excluding test fixtures.
func inServiceControllerScope(filePath, label string) bool {
	if testFixtureRe.MatchString(filePath) {
		return false
	}
	return serviceControllerRe.MatchString(filePath) || serviceControllerRe.MatchString(label)
}

// inServiceScope restricts the technical-debt scan to nodes whose path or
// label mentions Service.
func inServiceScope(filePath, label string) bool {
	return serviceOnlyRe.MatchString(filePath) || serviceOnlyRe.MatchString(label)
}

func normalizeFragment(s string) string {
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}
