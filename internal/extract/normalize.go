package extract

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	reFencedJSON = regexp.MustCompile("(?s)```json\\s*(\\{.*?\\})\\s*```")
	reBraceSpan  = regexp.MustCompile(`(?s)\{.*\}`)
)

// recovery is one step in the normalization chain. apply returns the
// transformed text and whether the step changed anything.
type recovery struct {
	name  string
	apply func(string) (string, bool)
}

// The chain is ordered: each step runs only when the text is still not
// parseable JSON. Steps are cumulative: later steps see the output of
// earlier ones.
var recoveries = []recovery{
	{"fenced_block", extractFencedBlock},
	{"brace_span", extractBraceSpan},
	{"unwrap_quotes", stripWrappingQuotes},
	{"unescape", unescapeLiterals},
}

// Normalize turns raw model output into valid JSON text. It tolerates
// markdown fencing, wrapping quotes, and escaped-newline corruption, and
// finally accepts Python literal tokens (None/True/False) as a
// second-chance parse. Unrecoverable input yields a MalformedResponse
// error carrying a bounded sample of the text.
func Normalize(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if isJSONObject(text) {
		return text, nil
	}

	for _, r := range recoveries {
		out, changed := r.apply(text)
		if !changed {
			continue
		}
		text = out
		if isJSONObject(text) {
			return text, nil
		}
	}

	// Second chance: the model sometimes emits language literals
	// (None/True/False) instead of JSON tokens.
	if fixed, changed := replacePythonLiterals(text); changed && isJSONObject(fixed) {
		return fixed, nil
	}

	return "", newMalformed(text, nil)
}

func isJSONObject(s string) bool {
	var m map[string]any
	return json.Unmarshal([]byte(s), &m) == nil
}

// extractFencedBlock pulls the object out of a ```json fenced block.
func extractFencedBlock(s string) (string, bool) {
	if m := reFencedJSON.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	return s, false
}

// extractBraceSpan takes the greedy first-{ to last-} span.
func extractBraceSpan(s string) (string, bool) {
	if m := reBraceSpan.FindString(s); m != "" && m != s {
		return m, true
	}
	return s, false
}

// stripWrappingQuotes removes one layer of quotes when the entire string
// is quote-delimited.
func stripWrappingQuotes(s string) (string, bool) {
	if len(s) >= 2 {
		if (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"') {
			return strings.TrimSpace(s[1 : len(s)-1]), true
		}
	}
	return s, false
}

// unescapeLiterals decodes literal two-character escape sequences the
// model sometimes emits instead of real newlines.
func unescapeLiterals(s string) (string, bool) {
	if !strings.Contains(s, `\n`) {
		return s, false
	}
	r := strings.NewReplacer(`\n`, "\n", `\t`, "\t", `\"`, `"`, `\'`, "'")
	return r.Replace(s), true
}

// replacePythonLiterals rewrites bare None/True/False tokens outside
// string literals into their JSON equivalents.
func replacePythonLiterals(s string) (string, bool) {
	var b strings.Builder
	b.Grow(len(s))

	changed := false
	inString := false
	escaped := false

	for i := 0; i < len(s); {
		c := s[i]
		if inString {
			b.WriteByte(c)
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
			i++
			continue
		}
		if c == '"' {
			inString = true
			b.WriteByte(c)
			i++
			continue
		}

		if tok, repl := matchPythonToken(s, i); tok != "" {
			b.WriteString(repl)
			i += len(tok)
			changed = true
			continue
		}
		b.WriteByte(c)
		i++
	}
	return b.String(), changed
}

var pythonTokens = [...]struct{ from, to string }{
	{"None", "null"},
	{"True", "true"},
	{"False", "false"},
}

func matchPythonToken(s string, i int) (tok, repl string) {
	for _, t := range pythonTokens {
		if !strings.HasPrefix(s[i:], t.from) {
			continue
		}
		before := i == 0 || !isIdentChar(s[i-1])
		afterIdx := i + len(t.from)
		after := afterIdx >= len(s) || !isIdentChar(s[afterIdx])
		if before && after {
			return t.from, t.to
		}
	}
	return "", ""
}

func isIdentChar(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
