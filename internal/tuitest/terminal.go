package tuitest

import (
	"bytes"
	"io"
)

// terminalQueries maps the probes Bubble Tea and termenv send at startup to
// the answers a plain dark terminal would give.
var terminalQueries = []struct {
	query  []byte
	answer []byte
}{
	{[]byte("\x1b[6n"), []byte("\x1b[1;1R")},
	{[]byte("\x1b]10;?\x07"), []byte("\x1b]10;rgb:cccc/cccc/cccc\x07")},
	{[]byte("\x1b]10;?\x1b\\"), []byte("\x1b]10;rgb:cccc/cccc/cccc\x1b\\")},
	{[]byte("\x1b]11;?\x07"), []byte("\x1b]11;rgb:0000/0000/0000\x07")},
	{[]byte("\x1b]11;?\x1b\\"), []byte("\x1b]11;rgb:0000/0000/0000\x1b\\")},
}

// terminalResponder answers terminal queries so the program does not block
// waiting for a real terminal.
type terminalResponder struct {
	w   io.Writer
	buf []byte
}

func newTerminalResponder(w io.Writer) *terminalResponder {
	return &terminalResponder{w: w, buf: make([]byte, 0, 128)}
}

func (tr *terminalResponder) Process(chunk []byte) {
	tr.buf = append(tr.buf, chunk...)
	for tr.answerNext() {
	}
	// keep a tail for sequences split across reads
	if len(tr.buf) > 256 {
		tr.buf = tr.buf[len(tr.buf)-64:]
	}
}

// answerNext replies to the earliest pending query in the buffer.
func (tr *terminalResponder) answerNext() bool {
	first, match := -1, -1
	for i, q := range terminalQueries {
		idx := bytes.Index(tr.buf, q.query)
		if idx >= 0 && (first < 0 || idx < first) {
			first, match = idx, i
		}
	}
	if match < 0 {
		return false
	}
	q := terminalQueries[match]
	tr.buf = tr.buf[first+len(q.query):]
	_, _ = tr.w.Write(q.answer)
	return true
}
