package address

import (
	"strings"

	"github.com/pkg/errors"
)

// MaxFieldLength is the length of the longest valid field, "255.255.255.255".
const MaxFieldLength = len("255.255.255.255")

var (
	// ErrParse is returned when a field cannot be turned into an Address.
	ErrParse = errors.New("malformed IPv4 address")
	// ErrOutOfRange is returned under StrictRange when a token does not fit its octet.
	ErrOutOfRange = errors.New("octet value out of range")
)

// Reasons a line is skipped by the tokenizer.
var (
	ErrNoTab      = errors.New("no tab separator")
	ErrTooLong    = errors.New("address field too long")
	ErrTokenCount = errors.New("wrong number of dot-separated tokens")
	ErrNotNumeric = errors.New("non-numeric token")
)

var strictPolicy = Policy{}

// Policy controls how lenient the tokenizer and the parser are.
// The zero value is the strict default: a tab is required, exactly
// four tokens are accepted and oversized tokens wrap around.
type Policy struct {
	// WholeLine treats a line without a tab as a bare address field.
	WholeLine bool
	// PermissiveThreeOctets accepts "a.b.c", the last token being a 16-bit value,
	// the way inet_addr on Windows does ("255.255.255" is 255.255.0.255).
	PermissiveThreeOctets bool
	// StrictRange rejects tokens above 255 instead of truncating them to a byte.
	StrictRange bool
}

// Field returns the candidate address field of a line: the text before the
// first tab, or the whole line in WholeLine mode.
func (p Policy) Field(line string) (string, error) {
	if idx := strings.IndexByte(line, '\t'); idx >= 0 {
		return line[:idx], nil
	}
	if p.WholeLine {
		return line, nil
	}
	return "", ErrNoTab
}

// Tokenize validates the superficial shape of a field and splits it into
// its dot-separated numeric tokens.
func (p Policy) Tokenize(field string) ([]string, error) {
	if len(field) > MaxFieldLength {
		return nil, ErrTooLong
	}

	tokens := strings.Split(field, ".")
	for _, tok := range tokens {
		if !isAllDigits(tok) {
			return nil, ErrNotNumeric
		}
	}
	if !p.acceptsTokenCount(len(tokens)) {
		return nil, ErrTokenCount
	}
	return tokens, nil
}

// ParseLine runs a raw input line through the tokenizer and the parser.
// Any error means the line must be skipped.
func (p Policy) ParseLine(line string) (Address, error) {
	field, err := p.Field(line)
	if err != nil {
		return Address{}, err
	}
	tokens, err := p.Tokenize(field)
	if err != nil {
		return Address{}, err
	}
	return p.ParseOctets(tokens)
}

// ParseOctets converts validated numeric tokens into an Address. It validates
// its input again, so it is safe to call with tokens that did not come from
// Tokenize.
func (p Policy) ParseOctets(tokens []string) (Address, error) {
	if !p.acceptsTokenCount(len(tokens)) {
		return Address{}, errors.Wrapf(ErrParse, "got %d tokens", len(tokens))
	}

	var octets [Octets]uint8
	for i, tok := range tokens {
		bits := uint(8)
		if len(tokens) == Octets-1 && i == len(tokens)-1 {
			bits = 16
		}
		v, err := parseToken(tok, bits, p.StrictRange)
		if err != nil {
			return Address{}, err
		}
		if bits == 16 {
			octets[2] = uint8(v >> 8)
			octets[3] = uint8(v)
			continue
		}
		octets[i] = uint8(v)
	}
	return FromOctets(octets[0], octets[1], octets[2], octets[3]), nil
}

// ParseAddress parses a bare dotted decimal string with the strict policy.
// Every failure is reported as ErrParse.
func ParseAddress(s string) (Address, error) {
	tokens, err := strictPolicy.Tokenize(s)
	if err != nil {
		return Address{}, errors.Wrapf(ErrParse, "%q: %v", s, err)
	}
	a, err := strictPolicy.ParseOctets(tokens)
	if err != nil {
		return Address{}, errors.Wrapf(err, "%q", s)
	}
	return a, nil
}

func (p Policy) acceptsTokenCount(n int) bool {
	return n == Octets || (p.PermissiveThreeOctets && n == Octets-1)
}

// parseToken converts a decimal token into a value of the given bit width.
// Overflowing values wrap modulo 2^bits unless strict is set.
func parseToken(tok string, bits uint, strict bool) (uint32, error) {
	if tok == "" {
		return 0, errors.Wrap(ErrParse, "empty token")
	}
	limit := uint32(1)<<bits - 1

	var v uint32
	overflow := false
	for i := 0; i < len(tok); i++ {
		c := tok[i]
		if c < '0' || c > '9' {
			return 0, errors.Wrapf(ErrParse, "token %q is not numeric", tok)
		}
		v = v*10 + uint32(c-'0')
		if v > limit {
			overflow = true
			v &= limit
		}
	}
	if overflow && strict {
		return 0, errors.Wrapf(ErrOutOfRange, "token %q exceeds %d", tok, limit)
	}
	return v, nil
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
