package address

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// headSize is how much of a line is kept: enough for the longest field and
// the tab that ends it. The rest of the line is never looked at.
const headSize = MaxFieldLength + 1

// LoadStats counts the lines seen while filling a Catalog.
type LoadStats struct {
	Lines    int
	Accepted int
	Skipped  int
}

// Load reads r line by line and appends every acceptable address to c.
// Lines that fail validation are skipped and logged at debug level; only a
// read error stops the load. Lines of any length are accepted.
func Load(r io.Reader, p Policy, c *Catalog, logger *zap.Logger) (LoadStats, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var stats LoadStats
	lr := newLineReader(r)
	for {
		head, truncated, err := lr.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, errors.Wrapf(err, "reading line %d", stats.Lines+1)
		}
		stats.Lines++

		a, err := parseHead(p, head, truncated)
		if err != nil {
			stats.Skipped++
			logger.Debug("skipping line",
				zap.Int("line", stats.Lines),
				zap.String("reason", err.Error()))
			continue
		}
		c.Append(a)
		stats.Accepted++
	}
	return stats, nil
}

// parseHead parses the kept head of a line. A truncated head without a tab
// means the field itself is longer than any valid address.
func parseHead(p Policy, head string, truncated bool) (Address, error) {
	if truncated && strings.IndexByte(head, '\t') < 0 {
		return Address{}, ErrTooLong
	}
	return p.ParseLine(head)
}

type lineReader struct {
	r    *bufio.Reader
	head []byte
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{
		r:    bufio.NewReader(r),
		head: make([]byte, 0, headSize+2),
	}
}

// next returns the next line without its terminator, or only its first
// headSize bytes when the line is longer, in which case truncated is set.
// A trailing "\r" is dropped the way bufio.ScanLines does. io.EOF is
// returned once no line is left.
func (lr *lineReader) next() (head string, truncated bool, err error) {
	limit := cap(lr.head)
	lr.head = lr.head[:0]
	total := 0
	for {
		chunk, rerr := lr.r.ReadSlice('\n')
		total += len(chunk)
		if n := min(limit-len(lr.head), len(chunk)); n > 0 {
			lr.head = append(lr.head, chunk[:n]...)
		}
		if errors.Is(rerr, bufio.ErrBufferFull) {
			continue
		}
		if errors.Is(rerr, io.EOF) {
			if total == 0 {
				return "", false, io.EOF
			}
			break
		}
		if rerr != nil {
			return "", false, rerr
		}
		break
	}

	if total > limit {
		return string(lr.head[:headSize]), true, nil
	}
	line := bytes.TrimSuffix(lr.head, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))
	return string(line), false, nil
}
