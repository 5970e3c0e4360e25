package termdag

import (
	"fmt"
	"strconv"
	"strings"
)

// A Literal is a constant that can appear directly in a term or expression.
type Literal interface {
	fmt.Stringer
	literal()
}

type LitInt int64

func (l LitInt) String() string { return strconv.FormatInt(int64(l), 10) }
func (LitInt) literal()         {}

type LitString string

func (l LitString) String() string { return strconv.Quote(string(l)) }
func (LitString) literal()         {}

type LitUnit struct{}

func (LitUnit) String() string { return "()" }
func (LitUnit) literal()       {}

// TermId indexes a node in a TermDag.
type TermId int

// Term is one node of the DAG. Children are referred to by id, so shared
// subterms are stored once.
type Term interface {
	term()
}

type Lit struct {
	Value Literal
}

type Var struct {
	Name string
}

type App struct {
	Head string
	Args []TermId
}

func (Lit) term() {}
func (Var) term() {}
func (App) term() {}

// TermDag hash-conses terms, so building the same term twice yields the same id.
type TermDag struct {
	nodes []Term
	index map[string]TermId
}

func New() *TermDag {
	return &TermDag{nodes: make([]Term, 0), index: make(map[string]TermId)}
}

func (d *TermDag) add(key string, t Term) TermId {
	if id, ok := d.index[key]; ok {
		return id
	}
	id := TermId(len(d.nodes))
	d.nodes = append(d.nodes, t)
	d.index[key] = id
	return id
}

func (d *TermDag) Lit(l Literal) TermId {
	return d.add(fmt.Sprintf("l%T:%s", l, l), Lit{l})
}

func (d *TermDag) Var(name string) TermId {
	return d.add("v"+name, Var{name})
}

func (d *TermDag) App(head string, args []TermId) TermId {
	var key strings.Builder
	key.WriteString("a")
	key.WriteString(head)
	for _, a := range args {
		key.WriteByte(',')
		key.WriteString(strconv.Itoa(int(a)))
	}
	owned := make([]TermId, len(args))
	copy(owned, args)
	return d.add(key.String(), App{head, owned})
}

func (d *TermDag) Get(id TermId) Term {
	return d.nodes[id]
}

func (d *TermDag) Len() int {
	return len(d.nodes)
}

// String prints the term as an s-expression.
func (d *TermDag) String(id TermId) string {
	var b strings.Builder
	d.write(&b, id)
	return b.String()
}

func (d *TermDag) write(b *strings.Builder, id TermId) {
	switch t := d.nodes[id].(type) {
	case Lit:
		b.WriteString(t.Value.String())
	case Var:
		b.WriteString(t.Name)
	case App:
		b.WriteByte('(')
		b.WriteString(t.Head)
		for _, a := range t.Args {
			b.WriteByte(' ')
			d.write(b, a)
		}
		b.WriteByte(')')
	}
}
