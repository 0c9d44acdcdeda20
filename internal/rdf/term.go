package rdf

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

const xsdString = "http://www.w3.org/2001/XMLSchema#string"

// Term is a single RDF term in N-Triples surface form.
type Term string

// TermKind classifies a Term by its surface syntax.
type TermKind int

const (
	KindInvalid TermKind = iota
	KindIRI
	KindBlank
	KindLiteral
)

func (k TermKind) String() string {
	switch k {
	case KindIRI:
		return "iri"
	case KindBlank:
		return "blank"
	case KindLiteral:
		return "literal"
	default:
		return "invalid"
	}
}

// Kind reports the syntactic kind of the term.
func (t Term) Kind() TermKind {
	s := string(t)
	switch {
	case len(s) >= 2 && s[0] == '<' && s[len(s)-1] == '>':
		return KindIRI
	case strings.HasPrefix(s, "_:") && len(s) > 2:
		return KindBlank
	case len(s) >= 2 && s[0] == '"':
		return KindLiteral
	default:
		return KindInvalid
	}
}

// Value returns the IRI without angle brackets, the blank node label without
// the "_:" prefix, or the unescaped lexical form of a literal.
func (t Term) Value() string {
	s := string(t)
	switch t.Kind() {
	case KindIRI:
		return s[1 : len(s)-1]
	case KindBlank:
		return s[2:]
	case KindLiteral:
		end := closingQuote(s)
		if end < 0 {
			return ""
		}
		return unescapeLiteral(s[1:end])
	default:
		return s
	}
}

// String implements fmt.Stringer.
func (t Term) String() string {
	return string(t)
}

// IRI builds an IRI term.
func IRI(iri string) Term {
	return Term("<" + iri + ">")
}

// Blank builds a blank node term.
func Blank(label string) Term {
	return Term("_:" + label)
}

// Literal builds a plain literal term, escaping the lexical form.
func Literal(lexical string) Term {
	return Term(`"` + escapeLiteral(lexical) + `"`)
}

// LangLiteral builds a language-tagged literal.
func LangLiteral(lexical, lang string) Term {
	return Term(`"` + escapeLiteral(lexical) + `"@` + lang)
}

// TypedLiteral builds a datatyped literal. xsd:string and an empty datatype
// give the plain literal, which is the same RDF term.
func TypedLiteral(lexical, datatype string) Term {
	if datatype == "" || datatype == xsdString {
		return Literal(lexical)
	}
	return Term(`"` + escapeLiteral(lexical) + `"^^<` + datatype + `>`)
}

// Triple is one subject-predicate-object statement.
type Triple struct {
	Subject   Term
	Predicate Term
	Object    Term
}

// T is shorthand for constructing a Triple.
func T(s, p, o Term) Triple {
	return Triple{Subject: s, Predicate: p, Object: o}
}

// Validate checks the positional constraints on each term and that the
// statement reads back to exactly the same terms. A term that is merely
// bracketed or quoted, like "<a b>" or an unterminated literal, is rejected.
func (t Triple) Validate() error {
	switch t.Subject.Kind() {
	case KindIRI, KindBlank:
	default:
		return fmt.Errorf("invalid subject %q", t.Subject)
	}
	if t.Predicate.Kind() != KindIRI {
		return fmt.Errorf("invalid predicate %q", t.Predicate)
	}
	if t.Object.Kind() == KindInvalid {
		return fmt.Errorf("invalid object %q", t.Object)
	}

	q, err := parseStatement(t.String(), NTriples)
	if err != nil {
		return fmt.Errorf("malformed triple %s: %w", t, err)
	}
	switch {
	case q.Subject != t.Subject:
		return fmt.Errorf("subject %q is not in canonical form %q", t.Subject, q.Subject)
	case q.Predicate != t.Predicate:
		return fmt.Errorf("predicate %q is not in canonical form %q", t.Predicate, q.Predicate)
	case q.Object != t.Object:
		return fmt.Errorf("object %q is not in canonical form %q", t.Object, q.Object)
	}
	return nil
}

// String renders the triple as an N-Triples statement without the newline.
func (t Triple) String() string {
	return string(t.Subject) + " " + string(t.Predicate) + " " + string(t.Object) + " ."
}

// Quad is a triple together with the identifier of the context holding it.
// Context is the bare identifier (no angle brackets); empty means the
// default graph.
type Quad struct {
	Triple
	Context string
}

// Compare orders triples by subject, then predicate, then object.
func Compare(a, b Triple) int {
	if c := cmp.Compare(a.Subject, b.Subject); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Predicate, b.Predicate); c != 0 {
		return c
	}
	return cmp.Compare(a.Object, b.Object)
}

// SortTriples sorts in place into canonical order.
func SortTriples(ts []Triple) {
	slices.SortFunc(ts, Compare)
}

func closingQuote(s string) int {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}

var literalEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

func escapeLiteral(s string) string {
	return literalEscaper.Replace(s)
}

func unescapeLiteral(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'u', 'U':
			// Numeric escapes are left as written.
			b.WriteByte('\\')
			b.WriteByte(s[i])
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
