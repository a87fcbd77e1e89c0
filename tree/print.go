package tree

import (
	"fmt"
	"strconv"
	"strings"
)

// String renders the identifier's name.
func (n *Ident) String() string { return n.Name }

// String renders the qualified identifier as role.name.
func (n *Qual) String() string { return string(n.Role) + "." + n.Name }

// String renders the literal in surface syntax.
func (n *Lit) String() string { return formatLit(n.Value) }

// String renders the wrapper as a role form: (Ana x).
func (n *Owned) String() string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(string(n.Role))
	if n.Expr != nil {
		b.WriteByte(' ')
		b.WriteString(n.Expr.String())
	}
	b.WriteByte(')')
	return b.String()
}

// String renders the sequence as (do e1 e2 ...).
func (n *Seq) String() string {
	var b strings.Builder
	b.WriteString("(do")
	writeItems(&b, n.Items)
	b.WriteByte(')')
	return b.String()
}

// String renders the binding form as (let [p1 v1 ...] body...).
func (n *Let) String() string {
	var b strings.Builder
	b.WriteString("(let [")
	for i, bind := range n.Binds {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(stringOrNil(bind.Pattern))
		b.WriteByte(' ')
		b.WriteString(stringOrNil(bind.Value))
	}
	b.WriteByte(']')
	writeItems(&b, n.Body)
	b.WriteByte(')')
	return b.String()
}

// String renders the conditional as (if cond then else).
func (n *If) String() string {
	var b strings.Builder
	b.WriteString("(if ")
	b.WriteString(stringOrNil(n.Cond))
	b.WriteByte(' ')
	b.WriteString(stringOrNil(n.Then))
	b.WriteByte(' ')
	b.WriteString(stringOrNil(n.Else))
	b.WriteByte(')')
	return b.String()
}

// String renders the choice as (select [chooser...] body...).
func (n *Select) String() string {
	var b strings.Builder
	b.WriteString("(select [")
	for i, c := range n.Choosers {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(stringOrNil(c))
	}
	b.WriteByte(']')
	writeItems(&b, n.Body)
	b.WriteByte(')')
	return b.String()
}

// String renders the list in parentheses.
func (n *List) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, it := range n.Items {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(stringOrNil(it))
	}
	b.WriteByte(')')
	return b.String()
}

// String renders the vector in brackets.
func (n *Vec) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, it := range n.Items {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(stringOrNil(it))
	}
	b.WriteByte(']')
	return b.String()
}

// String renders the boxed node; annotations are out-of-band and do not
// appear in surface syntax.
func (n *Annotated) String() string { return stringOrNil(n.Node) }

func writeItems(b *strings.Builder, items []Node) {
	for _, it := range items {
		b.WriteByte(' ')
		b.WriteString(stringOrNil(it))
	}
}

func stringOrNil(n Node) string {
	if n == nil {
		return "<nil>"
	}
	return n.String()
}

func formatLit(v any) string {
	switch v := v.(type) {
	case nil:
		return "nil"
	case bool:
		return strconv.FormatBool(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case string:
		return strconv.Quote(v)
	case Keyword:
		return ":" + string(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
