package ipfilter

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrUnknownMode is returned for a processing mode that does not exist.
var ErrUnknownMode = errors.New("unknown processing mode")

// Mode selects the representation used to hold the parsed addresses.
// Both modes produce the same output.
type Mode int

const (
	// ModeLegacy keeps (text, packed) records and scans octets out of the
	// packed value. Historically selected with "17".
	ModeLegacy Mode = iota + 1
	// ModeRange keeps pure Address values. Historically selected with "23".
	ModeRange
)

// ParseMode accepts "legacy", "range" and the numeric aliases 17 and 23.
// The empty string selects ModeLegacy.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "legacy", "17":
		return ModeLegacy, nil
	case "range", "23":
		return ModeRange, nil
	default:
		return 0, errors.Wrapf(ErrUnknownMode, "%q", s)
	}
}

func (m Mode) String() string {
	switch m {
	case ModeLegacy:
		return "legacy"
	case ModeRange:
		return "range"
	default:
		return "unknown"
	}
}

func (m Mode) valid() bool {
	return m == ModeLegacy || m == ModeRange
}
