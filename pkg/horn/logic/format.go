package logic

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

func (c Const) String() string {
	switch v := c.Value.(type) {
	case nil:
		return "null"
	case string:
		if isAtom(v) {
			return v
		}
		return strconv.Quote(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func (v Var) String() string {
	if v.Gen == 0 {
		return v.Name
	}
	return fmt.Sprintf("%s_#%d", v.Name, v.Gen)
}

func (s SchemaVar) String() string { return "?" + s.Mark }

func (c Compound) String() string {
	if c.Tag == NilTag && len(c.Args) == 0 {
		return "[]"
	}
	if c.Tag == ConsTag && len(c.Args) == 2 {
		return formatList(c)
	}
	return call(c.Tag, c.Args)
}

func formatList(c Compound) string {
	var b strings.Builder
	b.WriteByte('[')
	var t Term = c
	first := true
	for {
		cell, ok := t.(Compound)
		if !ok || cell.Tag != ConsTag || len(cell.Args) != 2 {
			break
		}
		if !first {
			b.WriteString(", ")
		}
		first = false
		b.WriteString(cell.Args[0].String())
		t = cell.Args[1]
	}
	if n, ok := t.(Compound); !ok || n.Tag != NilTag || len(n.Args) != 0 {
		b.WriteString(" | ")
		b.WriteString(t.String())
	}
	b.WriteByte(']')
	return b.String()
}

func (f Func) String() string {
	if f.Op.Symbol != "" && len(f.Args) == 2 {
		return fmt.Sprintf("(%s %s %s)", f.Args[0], f.Op.Symbol, f.Args[1])
	}
	return call(f.Op.Name, f.Args)
}

func (p Pred) String() string { return call(p.Verb, p.Args) }

func (e Eq) String() string { return fmt.Sprintf("%s = %s", e.L, e.R) }

func (n NotEq) String() string { return fmt.Sprintf("%s \\= %s", n.L, n.R) }

func (a And) String() string { return fmt.Sprintf("%s, %s", a.L, a.R) }

func (o Or) String() string { return fmt.Sprintf("(%s; %s)", o.L, o.R) }

func (n Not) String() string { return fmt.Sprintf("\\+ (%s)", n.S) }

func (r Rule) String() string {
	if r.Body == nil {
		return r.Head.String()
	}
	return fmt.Sprintf("%s :- %s", r.Head, r.Body)
}

func call(name string, args []Term) string {
	if len(args) == 0 {
		return name
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return name + "(" + strings.Join(parts, ", ") + ")"
}

// isAtom reports whether s prints unquoted: a lowercase letter followed by
// letters, digits or underscores.
func isAtom(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !unicode.IsLower(r) {
				return false
			}
			continue
		}
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
