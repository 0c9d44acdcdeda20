package rdf

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Format selects the line-oriented syntax read or written.
type Format int

const (
	// NTriples is one `s p o .` statement per line.
	NTriples Format = iota
	// NQuads allows an optional fourth graph label per line.
	NQuads
)

// ParseFormat maps a user-facing format name to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "nt", "ntriples", "n-triples":
		return NTriples, nil
	case "nq", "nquads", "n-quads":
		return NQuads, nil
	default:
		return 0, fmt.Errorf("unsupported format %q", name)
	}
}

func (f Format) String() string {
	if f == NQuads {
		return "nquads"
	}
	return "ntriples"
}

// SyntaxError reports a malformed statement.
type SyntaxError struct {
	Line int
	Msg  string
	Text string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Msg, e.Text)
}

// Decoder reads statements one line at a time. It never buffers more than a
// single line, so arbitrarily large files can be streamed.
type Decoder struct {
	r      *bufio.Reader
	format Format
	line   int
}

// NewDecoder creates a decoder for the given format.
func NewDecoder(r io.Reader, format Format) *Decoder {
	return &Decoder{r: bufio.NewReader(r), format: format}
}

// Decode returns the next statement, or io.EOF when the input is exhausted.
// Blank lines and comment lines are skipped.
func (d *Decoder) Decode() (Quad, error) {
	for {
		raw, err := d.r.ReadString('\n')
		if err != nil && err != io.EOF {
			return Quad{}, err
		}
		if raw == "" && err == io.EOF {
			return Quad{}, io.EOF
		}
		d.line++
		text := strings.TrimSpace(raw)
		if text == "" || text[0] == '#' {
			if err == io.EOF {
				return Quad{}, io.EOF
			}
			continue
		}
		return d.parseLine(text)
	}
}

// DecodeTo streams every triple into sink and returns how many were read.
// Graph labels are ignored in NQuads mode; callers that need them use Decode.
func (d *Decoder) DecodeTo(ctx context.Context, sink TripleSink) (int, error) {
	n := 0
	for {
		q, err := d.Decode()
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		if err := sink.Add(ctx, q.Triple); err != nil {
			return n, err
		}
		n++
	}
}

func (d *Decoder) parseLine(text string) (Quad, error) {
	q, err := parseStatement(text, d.format)
	if err != nil {
		return Quad{}, &SyntaxError{Line: d.line, Msg: err.Error(), Text: text}
	}
	return q, nil
}

// Encoder writes statements one per line. Call Flush when done.
type Encoder struct {
	w      *bufio.Writer
	format Format
}

// NewEncoder creates an encoder for the given format.
func NewEncoder(w io.Writer, format Format) *Encoder {
	return &Encoder{w: bufio.NewWriter(w), format: format}
}

// EncodeTriple writes a triple with no graph label.
func (e *Encoder) EncodeTriple(t Triple) error {
	return e.Encode(Quad{Triple: t})
}

// Encode writes a statement. The graph label is only emitted in NQuads mode.
func (e *Encoder) Encode(q Quad) error {
	var b strings.Builder
	b.WriteString(string(q.Subject))
	b.WriteByte(' ')
	b.WriteString(string(q.Predicate))
	b.WriteByte(' ')
	b.WriteString(string(q.Object))
	if e.format == NQuads && q.Context != "" {
		b.WriteByte(' ')
		if strings.HasPrefix(q.Context, "_:") {
			b.WriteString(q.Context)
		} else {
			b.WriteString(string(IRI(q.Context)))
		}
	}
	b.WriteString(" .\n")
	_, err := e.w.WriteString(b.String())
	return err
}

// Flush writes any buffered data to the underlying writer.
func (e *Encoder) Flush() error {
	return e.w.Flush()
}
