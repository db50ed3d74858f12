package cleaner

import (
	"regexp"
	"strings"
)

// HostModules are the specifiers of the host's own utility module. Their
// exports reach the sandbox as injected dependencies, never through imports.
var HostModules = []string{"utils", "trackUtils"}

const importClause = `\bimport\s+(?:[\w$]+|\*\s*as\s+[\w$]+|(?:type\s+)?\{[^}]*\})\s*from\s*`

var (
	hostImport = regexp.MustCompile(importClause +
		`['"](?:\.{1,2}/)*(?:[\w.-]+/)*(?:` + strings.Join(quoteAll(HostModules), "|") + `)(?:\.[jt]s)?['"]\s*;?\s*`)
	relativeImport = regexp.MustCompile(importClause + `['"]\.{1,2}/[^'"\n]*['"]\s*;?\s*`)
)

// CleanForSandbox is the narrower pass run right before evaluation. It removes
// imports of the host utility module and any relative import. Imports of the
// audio library are left alone; the sandbox supplies that namespace by name.
// Running it on output of Clean is a no-op.
func CleanForSandbox(src string) string {
	src = hostImport.ReplaceAllString(src, "")
	return relativeImport.ReplaceAllString(src, "")
}

func quoteAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = regexp.QuoteMeta(n)
	}
	return out
}
