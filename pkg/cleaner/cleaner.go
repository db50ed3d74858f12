// Package cleaner rewrites track sources into plain script the sandbox can evaluate.
//
// It is a best-effort pass over the restricted dialect track authors use: module
// imports are dropped, exports become local declarations and light type
// annotations are stripped. It does not parse; anything it does not recognize is
// left untouched.
package cleaner

import (
	"regexp"
	"strings"
)

// Module specifiers are single-line string literals.
const specifier = `['"][^'"\n]*['"]\s*;?\s*`

// A type argument list nested at most three levels deep.
const typeArgs = `<(?:[^<>]|<(?:[^<>]|<[^<>]*>)*>)*>`

// A capitalized or primitive type, optionally generic or an array.
const typeName = `(?:[A-Z][\w$.]*|number|string|boolean|any|void|unknown)(?:\s*` + typeArgs + `)?(?:\[\])*`

var (
	// import Tone from 'tone';
	defaultImport = regexp.MustCompile(`\bimport\s+[\w$]+\s+from\s*` + specifier)
	// import { a, b } from './utils';  (the list may span lines)
	namedImport = regexp.MustCompile(`\bimport\s+(?:type\s+)?\{[^}]*\}\s*from\s*` + specifier)
	// import * as Tone from 'tone';
	namespaceImport = regexp.MustCompile(`\bimport\s*\*\s*as\s+[\w$]+\s+from\s*` + specifier)

	exportDecl = regexp.MustCompile(`\bexport\s+(const|let|async\s+function|function)\b`)

	// ): Promise<T>
	promiseReturn = regexp.MustCompile(`\)\s*:\s*Promise\s*` + typeArgs)
	// : Type before '{', '=' or ';'
	trailingType = regexp.MustCompile(`:\s*` + typeName + `(?:\s*\|\s*(?:` + typeName + `|null|undefined))*(\s*[{=;])`)

	functionParams = regexp.MustCompile(`\bfunction\b\s*\*?\s*[\w$]*\s*\(([^()]*)\)`)
	arrowParams    = regexp.MustCompile(`\(([^()]*)\)\s*=>`)
	paramType      = regexp.MustCompile(`([\w$]+)\s*\??\s*:\s*((?:[^,=<>{}]|` + typeArgs + `)+)`)

	// name: Type
	inlineType = regexp.MustCompile(`([A-Za-z_$][\w$]*)\s*:\s*[A-Z][\w$]*\b(?:` + typeArgs + `)?(?:\[\])*`)
)

// Clean strips module and type syntax from a track source.
// It is pure and idempotent: Clean(Clean(s)) == Clean(s).
func Clean(src string) string {
	// 1-3. Imports
	src = defaultImport.ReplaceAllString(src, "")
	src = namedImport.ReplaceAllString(src, "")
	src = namespaceImport.ReplaceAllString(src, "")

	// 4. Exports become local declarations
	src = exportDecl.ReplaceAllString(src, "${1}")

	// 5-6. Return and declaration types
	src = promiseReturn.ReplaceAllString(src, ")")
	src = replaceSubmatch(trailingType, src, func(m []int) string {
		if inConditional(src, m[0]) {
			return src[m[0]:m[1]]
		}
		return src[m[2]:m[3]]
	})

	// 7. Parameter lists
	src = stripParams(functionParams, src)
	src = stripParams(arrowParams, src)

	// 8. Whatever inline annotations remain
	return stripInlineTypes(src)
}

// stripParams removes annotations inside the first capture group of every re match.
func stripParams(re *regexp.Regexp, src string) string {
	return replaceSubmatch(re, src, func(m []int) string {
		whole := src[m[0]:m[1]]
		params := src[m[2]:m[3]]
		if !strings.Contains(params, ":") {
			return whole
		}
		cleaned := replaceSubmatch(paramType, params, func(p []int) string {
			// Keep the name and any whitespace that trailed the type.
			typ := params[p[4]:p[5]]
			return params[p[2]:p[3]] + typ[len(strings.TrimRight(typ, " \t\r\n")):]
		})
		return src[m[0]:m[2]] + cleaned + src[m[3]:m[1]]
	})
}

// stripInlineTypes drops "name: Type" annotations unless Type is followed by
// '.' or '(', which marks it as a value expression rather than a type, or the
// colon belongs to a conditional expression.
func stripInlineTypes(src string) string {
	return replaceSubmatch(inlineType, src, func(m []int) string {
		if inConditional(src, m[0]) {
			return src[m[0]:m[1]]
		}
		if m[1] < len(src) {
			if next := src[m[1]]; next == '.' || next == '(' {
				return src[m[0]:m[1]]
			}
		}
		return src[m[2]:m[3]]
	})
}

// inConditional reports whether an unmatched '?' of a conditional expression
// precedes pos within the same expression. The walk stops at ';', at an
// unbalanced opening bracket, and at a line break unless the line it leaves
// starts with '?' or ':'.
func inConditional(src string, pos int) bool {
	depth := 0
	for i := pos - 1; i >= 0; i-- {
		switch c := src[i]; c {
		case ')', ']', '}':
			depth++
		case '(', '[', '{':
			if depth == 0 {
				return false
			}
			depth--
		case ';':
			if depth == 0 {
				return false
			}
		case '\n':
			if depth == 0 {
				rest := strings.TrimLeft(src[i+1:], " \t\r")
				if rest == "" || (rest[0] != '?' && rest[0] != ':') {
					return false
				}
			}
		case '?':
			if depth == 0 && isTernary(src, i) {
				return true
			}
		}
	}
	return false
}

// isTernary reports whether the '?' at i is a conditional operator rather than
// part of '?.', '??' or an optional marker such as "name?:".
func isTernary(src string, i int) bool {
	if i > 0 && src[i-1] == '?' {
		return false
	}
	next := strings.TrimLeft(src[i+1:], " \t\r\n")
	return next != "" && next[0] != '.' && next[0] != '?' && next[0] != ':'
}

// replaceSubmatch is ReplaceAllStringFunc with access to submatch indexes.
func replaceSubmatch(re *regexp.Regexp, src string, repl func(m []int) string) string {
	matches := re.FindAllStringSubmatchIndex(src, -1)
	if len(matches) == 0 {
		return src
	}
	var b strings.Builder
	b.Grow(len(src))
	last := 0
	for _, m := range matches {
		b.WriteString(src[last:m[0]])
		b.WriteString(repl(m))
		last = m[1]
	}
	b.WriteString(src[last:])
	return b.String()
}
