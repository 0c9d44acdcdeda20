package rdf

import (
	"fmt"
	"io"
	"strings"

	krdf "github.com/knakk/rdf"
)

// parseStatement reads exactly one statement from text. Terms come back in
// canonical surface form: the form the constructors in this package build.
func parseStatement(text string, format Format) (Quad, error) {
	var q Quad
	if format == NQuads {
		dec := krdf.NewQuadDecoder(strings.NewReader(text), krdf.NQuads)
		kq, err := dec.Decode()
		if err != nil {
			return Quad{}, err
		}
		if _, err := dec.Decode(); err != io.EOF {
			return Quad{}, fmt.Errorf("trailing content after statement")
		}
		if q.Triple, err = fromKnakk(kq.Triple); err != nil {
			return Quad{}, err
		}
		if q.Context, err = contextLabel(kq.Ctx); err != nil {
			return Quad{}, err
		}
		return q, nil
	}

	dec := krdf.NewTripleDecoder(strings.NewReader(text), krdf.NTriples)
	kt, err := dec.Decode()
	if err != nil {
		return Quad{}, err
	}
	if _, err := dec.Decode(); err != io.EOF {
		return Quad{}, fmt.Errorf("trailing content after statement")
	}
	if q.Triple, err = fromKnakk(kt); err != nil {
		return Quad{}, err
	}
	return q, nil
}

func fromKnakk(kt krdf.Triple) (Triple, error) {
	s, err := termOf(kt.Subj)
	if err != nil {
		return Triple{}, fmt.Errorf("subject: %w", err)
	}
	p, err := termOf(kt.Pred)
	if err != nil {
		return Triple{}, fmt.Errorf("predicate: %w", err)
	}
	o, err := termOf(kt.Obj)
	if err != nil {
		return Triple{}, fmt.Errorf("object: %w", err)
	}
	return T(s, p, o), nil
}

func termOf(t krdf.Term) (Term, error) {
	switch v := t.(type) {
	case krdf.IRI:
		iri := bareIRI(v)
		if _, err := krdf.NewIRI(iri); err != nil {
			return "", err
		}
		return IRI(iri), nil
	case krdf.Blank:
		return Blank(strings.TrimPrefix(v.String(), "_:")), nil
	case krdf.Literal:
		if lang := v.Lang(); lang != "" {
			return LangLiteral(v.String(), lang), nil
		}
		return TypedLiteral(v.String(), bareIRI(v.DataType)), nil
	default:
		return "", fmt.Errorf("unsupported term %v", t)
	}
}

func contextLabel(c krdf.Context) (string, error) {
	switch v := c.(type) {
	case nil:
		return "", nil
	case krdf.IRI:
		return bareIRI(v), nil
	case krdf.Blank:
		return string(Blank(strings.TrimPrefix(v.String(), "_:"))), nil
	default:
		return "", fmt.Errorf("graph label must be an IRI or blank node")
	}
}

func bareIRI(i krdf.IRI) string {
	return strings.TrimSuffix(strings.TrimPrefix(i.String(), "<"), ">")
}
