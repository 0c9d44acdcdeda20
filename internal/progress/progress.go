// Package progress reports user-facing progress for long operations.
//
// Sinks are used purely for feedback; nothing reads them back for control
// flow. Clone and bulk load take a Sink so the CLI can draw a terminal bar
// while tests record what was reported.
package progress

import (
	"fmt"
	"io"
	"sync"

	"github.com/cheggaaa/pb"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Sink receives progress updates.
type Sink interface {
	// SetTotal sets the expected number of units. Zero means unknown.
	SetTotal(n int)
	// Add reports n more units done.
	Add(n int)
	// Message emits a status line alongside the progress display.
	Message(msg string)
	// Close finishes the display.
	Close() error
}

// Factory creates a sink labelled with a unit name such as "ctx" or "triples".
type Factory func(unit string) Sink

// Nop discards all progress.
type Nop struct{}

func (Nop) SetTotal(int)   {}
func (Nop) Add(int)        {}
func (Nop) Message(string) {}
func (Nop) Close() error   { return nil }

// NopFactory returns Nop sinks.
func NopFactory(string) Sink { return Nop{} }

// Bar draws a terminal progress bar.
type Bar struct {
	bar *pb.ProgressBar
	out io.Writer
}

// NewBar starts a bar writing to out.
func NewBar(out io.Writer, unit string) *Bar {
	bar := pb.New(0)
	bar.Output = out
	bar.ShowTimeLeft = false
	bar.ShowSpeed = true
	bar.Prefix(unit + " ")
	bar.Start()
	return &Bar{bar: bar, out: out}
}

// BarFactory returns a Factory producing bars on out.
func BarFactory(out io.Writer) Factory {
	return func(unit string) Sink { return NewBar(out, unit) }
}

func (b *Bar) SetTotal(n int) { b.bar.SetTotal(n) }

func (b *Bar) Add(n int) { b.bar.Add(n) }

func (b *Bar) Message(msg string) { fmt.Fprintln(b.out, msg) }

func (b *Bar) Close() error {
	b.bar.Finish()
	return nil
}

// Recorder keeps everything reported to it. Safe for concurrent use.
type Recorder struct {
	mu       sync.Mutex
	total    int
	done     int
	messages []string
	closed   bool
}

func (r *Recorder) SetTotal(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.total = n
}

func (r *Recorder) Add(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.done += n
}

func (r *Recorder) Message(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
}

func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// Total returns the last total set.
func (r *Recorder) Total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.total
}

// Done returns the sum of all Add calls.
func (r *Recorder) Done() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.done
}

// Messages returns a copy of the messages received.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

// Closed reports whether Close was called.
func (r *Recorder) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

var printer = message.NewPrinter(language.English)

// FormatCount renders n with thousands separators, e.g. 12,345.
func FormatCount(n int) string {
	return printer.Sprintf("%d", n)
}
