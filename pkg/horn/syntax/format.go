package syntax

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/cognicore/horn/pkg/horn/logic"
)

// WriteProgram writes one clause per line in the text syntax.
func WriteProgram(w io.Writer, clauses []logic.Sentence) error {
	bw := bufio.NewWriter(w)
	for _, c := range clauses {
		if _, err := fmt.Fprintf(bw, "%s.\n", Format(c)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Format renders a clause or goal so that parsing the text again yields an
// equivalent sentence. Schematic variables whose marks are not valid variable
// names get an underscore prefix.
func Format(s logic.Sentence) string {
	var b strings.Builder
	writeSentence(&b, s)
	return b.String()
}

func writeSentence(b *strings.Builder, s logic.Sentence) {
	switch x := s.(type) {
	case logic.Pred:
		writeCall(b, x.Verb, x.Args)
	case logic.Eq:
		if op, l, r, ok := comparison(x); ok {
			writeTerm(b, l)
			b.WriteString(" " + op + " ")
			writeTerm(b, r)
			return
		}
		writeTerm(b, x.L)
		b.WriteString(" = ")
		writeTerm(b, x.R)
	case logic.NotEq:
		writeTerm(b, x.L)
		b.WriteString(` \= `)
		writeTerm(b, x.R)
	case logic.And:
		writeSentence(b, x.L)
		b.WriteString(", ")
		writeSentence(b, x.R)
	case logic.Or:
		b.WriteByte('(')
		writeSentence(b, x.L)
		b.WriteString("; ")
		writeSentence(b, x.R)
		b.WriteByte(')')
	case logic.Not:
		b.WriteString(`\+ (`)
		writeSentence(b, x.S)
		b.WriteByte(')')
	case logic.Rule:
		writeSentence(b, x.Head)
		if x.Body != nil {
			b.WriteString(" :- ")
			writeSentence(b, x.Body)
		}
	}
}

// comparison recognizes Eq(true, cmp(l, r)).
func comparison(e logic.Eq) (string, logic.Term, logic.Term, bool) {
	c, ok := e.L.(logic.Const)
	if !ok || c.Value != true {
		return "", nil, nil, false
	}
	f, ok := e.R.(logic.Func)
	if !ok || len(f.Args) != 2 {
		return "", nil, nil, false
	}
	switch f.Op.Symbol {
	case ">", ">=", "<", "=<":
		return f.Op.Symbol, f.Args[0], f.Args[1], true
	}
	return "", nil, nil, false
}

func writeTerm(b *strings.Builder, t logic.Term) {
	switch x := t.(type) {
	case logic.Const:
		b.WriteString(constant(x.Value))
	case logic.Var:
		if x.Internal() {
			fmt.Fprintf(b, "_G%d_%s", x.Gen, x.Name)
			return
		}
		b.WriteString(x.Name)
	case logic.SchemaVar:
		b.WriteString(varName(x.Mark))
	case logic.Compound:
		switch {
		case x.Tag == logic.NilTag && len(x.Args) == 0:
			b.WriteString("[]")
		case x.Tag == logic.ConsTag && len(x.Args) == 2:
			writeList(b, x)
		case len(x.Args) == 0:
			b.WriteString(x.Tag + "()")
		default:
			writeCall(b, x.Tag, x.Args)
		}
	case logic.Func:
		switch f := x.Op.Symbol; f {
		case "+", "-", "*", "/", "mod", "**":
			if len(x.Args) == 2 {
				b.WriteByte('(')
				writeTerm(b, x.Args[0])
				b.WriteString(" " + f + " ")
				writeTerm(b, x.Args[1])
				b.WriteByte(')')
				return
			}
		}
		writeCall(b, x.Op.Name, x.Args)
	}
}

func writeCall(b *strings.Builder, name string, args []logic.Term) {
	b.WriteString(name)
	if len(args) == 0 {
		return
	}
	b.WriteByte('(')
	for i, a := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		writeTerm(b, a)
	}
	b.WriteByte(')')
}

func writeList(b *strings.Builder, c logic.Compound) {
	b.WriteByte('[')
	var t logic.Term = c
	for i := 0; ; i++ {
		cell, ok := t.(logic.Compound)
		if !ok || cell.Tag != logic.ConsTag || len(cell.Args) != 2 {
			break
		}
		if i > 0 {
			b.WriteString(", ")
		}
		writeTerm(b, cell.Args[0])
		t = cell.Args[1]
	}
	if n, ok := t.(logic.Compound); !ok || n.Tag != logic.NilTag || len(n.Args) != 0 {
		b.WriteString(" | ")
		writeTerm(b, t)
	}
	b.WriteByte(']')
}

var keywords = map[string]bool{
	"true": true, "false": true, "fail": true, "not": true, "is": true, "mod": true,
}

func constant(v any) string {
	switch x := v.(type) {
	case string:
		if atom(x) && !keywords[x] {
			return x
		}
		return strconv.Quote(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		s := strconv.FormatFloat(x, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	case bool:
		return strconv.FormatBool(x)
	case nil:
		return "null"
	default:
		return strconv.Quote(fmt.Sprint(x))
	}
}

func atom(s string) bool {
	for i, r := range s {
		if i == 0 && !unicode.IsLower(r) {
			return false
		}
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

func varName(mark string) string {
	if strings.HasPrefix(mark, "_#") {
		return "_"
	}
	if r := []rune(mark); len(r) > 0 && (unicode.IsUpper(r[0]) || r[0] == '_') {
		return mark
	}
	return "_" + mark
}
