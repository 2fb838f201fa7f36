// Fichier: formatter/output.go

package formatter

import (
	"bufio"
	"io"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/miekg/dns"
	"github.com/pkg/errors"
)

// Format selects how a reported address is rendered.
type Format string

const (
	// Plain renders the canonical dotted decimal form.
	Plain Format = "plain"
	// Arpa renders the reverse DNS owner name, e.g. 4.3.2.1.in-addr.arpa.
	Arpa Format = "arpa"
)

// ParseFormat validates a format name. The empty string selects Plain.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return Plain, nil
	case Plain, Arpa:
		return f, nil
	default:
		return "", errors.Errorf("unknown output format %q", s)
	}
}

// Render returns the text written for one address string.
func (f Format) Render(addr string) string {
	if f != Arpa {
		return addr
	}
	name, err := dns.ReverseAddr(addr)
	if err != nil {
		return addr
	}
	return name
}

// Reporter appends one line per reported address to its destination.
// Writes are buffered until Flush. A write error is kept and returned by
// Flush; reporting itself never fails.
type Reporter struct {
	w      *bufio.Writer
	format Format
	digest *xxhash.Digest
	lines  int
	err    error
}

// NewReporter writes to dst when it is set and to stdout otherwise.
func NewReporter(dst, stdout io.Writer, format Format) *Reporter {
	out := stdout
	if dst != nil {
		out = dst
	}
	if format == "" {
		format = Plain
	}
	return &Reporter{
		w:      bufio.NewWriter(out),
		format: format,
		digest: xxhash.New(),
	}
}

// Report writes text followed by a line terminator.
func (r *Reporter) Report(text string) {
	line := r.format.Render(text) + "\n"
	_, _ = r.digest.WriteString(line)
	r.lines++
	if r.err != nil {
		return
	}
	if _, err := r.w.WriteString(line); err != nil {
		r.err = errors.Wrap(err, "writing report")
	}
}

// Flush pushes buffered lines to the destination.
func (r *Reporter) Flush() error {
	if r.err != nil {
		return r.err
	}
	if err := r.w.Flush(); err != nil {
		r.err = errors.Wrap(err, "flushing report")
	}
	return r.err
}

// Lines returns the number of lines reported so far.
func (r *Reporter) Lines() int {
	return r.lines
}

// Digest returns the xxhash64 of everything reported so far.
func (r *Reporter) Digest() uint64 {
	return r.digest.Sum64()
}
