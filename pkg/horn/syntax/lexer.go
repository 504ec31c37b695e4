package syntax

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/cognicore/horn/pkg/horn/internalerr"
)

type kind int

const (
	tEOF kind = iota
	tIdent
	tVar
	tInt
	tFloat
	tString
	tPunct
)

type token struct {
	kind      kind
	text      string
	line, col int
}

func (t token) String() string {
	if t.kind == tEOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", t.text)
}

// Multi-character operators first so the longest match wins.
var puncts = []string{
	":-", "?-", `\+`, `\=`, "==", "!=", ">=", "=<", "<=", "**",
	"(", ")", "[", "]", ",", "|", ".", ";", "=", ">", "<", "+", "-", "*", "/",
}

func lex(src string) ([]token, error) {
	var (
		toks []token
		rs   = []rune(src)
		i    = 0
		line = 1
		col  = 1
	)

	advance := func(n int) {
		for k := 0; k < n && i < len(rs); k++ {
			if rs[i] == '\n' {
				line++
				col = 1
			} else {
				col++
			}
			i++
		}
	}

	for i < len(rs) {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			advance(1)
			continue
		case r == '%' || r == '#':
			for i < len(rs) && rs[i] != '\n' {
				advance(1)
			}
			continue
		}

		start := token{line: line, col: col}
		switch {
		case unicode.IsLetter(r) || r == '_':
			j := i
			for j < len(rs) && (unicode.IsLetter(rs[j]) || unicode.IsDigit(rs[j]) || rs[j] == '_') {
				j++
			}
			start.text = string(rs[i:j])
			start.kind = tIdent
			if unicode.IsUpper(r) || r == '_' {
				start.kind = tVar
			}
			advance(j - i)

		case unicode.IsDigit(r):
			j := i
			for j < len(rs) && unicode.IsDigit(rs[j]) {
				j++
			}
			start.kind = tInt
			if j+1 < len(rs) && rs[j] == '.' && unicode.IsDigit(rs[j+1]) {
				j++
				for j < len(rs) && unicode.IsDigit(rs[j]) {
					j++
				}
				start.kind = tFloat
			}
			start.text = string(rs[i:j])
			advance(j - i)

		case r == '"':
			var b strings.Builder
			j := i + 1
			for {
				if j >= len(rs) || rs[j] == '\n' {
					return nil, fmt.Errorf("%w: %d:%d: unterminated string", internalerr.ErrInvalidInput, line, col)
				}
				if rs[j] == '"' {
					break
				}
				if rs[j] == '\\' && j+1 < len(rs) {
					j++
					switch rs[j] {
					case 'n':
						b.WriteRune('\n')
					case 't':
						b.WriteRune('\t')
					default:
						b.WriteRune(rs[j])
					}
					j++
					continue
				}
				b.WriteRune(rs[j])
				j++
			}
			start.kind = tString
			start.text = b.String()
			advance(j + 1 - i)

		default:
			matched := ""
			for _, p := range puncts {
				if strings.HasPrefix(string(rs[i:min(i+len(p), len(rs))]), p) {
					matched = p
					break
				}
			}
			if matched == "" {
				return nil, fmt.Errorf("%w: %d:%d: unexpected character %q", internalerr.ErrInvalidInput, line, col, r)
			}
			start.kind = tPunct
			start.text = matched
			advance(len([]rune(matched)))
		}
		toks = append(toks, start)
	}

	return append(toks, token{kind: tEOF, line: line, col: col}), nil
}
