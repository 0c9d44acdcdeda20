package repo

import (
	"bytes"
	"regexp"
	"strconv"

	"github.com/roach88/pow/internal/progress"
)

// objectProgress matches the remote's "Receiving objects:  42% (21/50)"
// lines.
var objectProgress = regexp.MustCompile(`Receiving objects:\s+\d+% \((\d+)/(\d+)\)`)

// sidebandWriter turns git sideband progress text into sink updates. The
// remote separates updates with carriage returns and ends phases with a
// newline.
type sidebandWriter struct {
	sink  progress.Sink
	buf   []byte
	total int
	done  int
}

func newSidebandWriter(sink progress.Sink) *sidebandWriter {
	return &sidebandWriter{sink: sink}
}

func (w *sidebandWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexAny(w.buf, "\r\n")
		if i < 0 {
			break
		}
		w.line(string(w.buf[:i]))
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

func (w *sidebandWriter) line(s string) {
	m := objectProgress.FindStringSubmatch(s)
	if m == nil {
		return
	}
	done, err1 := strconv.Atoi(m[1])
	total, err2 := strconv.Atoi(m[2])
	if err1 != nil || err2 != nil {
		return
	}
	if total != w.total {
		w.total = total
		w.sink.SetTotal(total)
	}
	if done > w.done {
		w.sink.Add(done - w.done)
		w.done = done
	}
}
