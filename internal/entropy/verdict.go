package entropy

import "fmt"

// Verdict is the two-valued outcome of classifying a chunk
type Verdict int

const (
	// HighEntropy means the byte distribution is close to uniform
	// (likely encrypted or compressed)
	HighEntropy Verdict = iota
	// Structured means the byte distribution is skewed (text, code, headers)
	Structured
)

// String returns the wire name of the verdict
func (v Verdict) String() string {
	switch v {
	case HighEntropy:
		return "high_entropy"
	case Structured:
		return "structured"
	default:
		return fmt.Sprintf("unknown(%d)", int(v))
	}
}

// MarshalText implements encoding.TextMarshaler
func (v Verdict) MarshalText() ([]byte, error) {
	switch v {
	case HighEntropy, Structured:
		return []byte(v.String()), nil
	default:
		return nil, fmt.Errorf("invalid verdict %d", int(v))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler
func (v *Verdict) UnmarshalText(text []byte) error {
	switch string(text) {
	case "high_entropy":
		*v = HighEntropy
	case "structured":
		*v = Structured
	default:
		return fmt.Errorf("unknown verdict %q", text)
	}
	return nil
}

// Mode selects which statistic the Classifier computes
type Mode int

const (
	// ModeReference uses the raw integer sum of squared deviations
	ModeReference Mode = iota
	// ModeNormalized uses a true chi-square with a fractional expectation
	ModeNormalized
)

// String returns the config name of the mode
func (m Mode) String() string {
	switch m {
	case ModeReference:
		return "reference"
	case ModeNormalized:
		return "normalized"
	default:
		return fmt.Sprintf("unknown(%d)", int(m))
	}
}

// ParseMode parses a mode from its config name
func ParseMode(name string) (Mode, error) {
	switch name {
	case "reference", "":
		return ModeReference, nil
	case "normalized":
		return ModeNormalized, nil
	default:
		return 0, fmt.Errorf("unknown entropy mode: %q", name)
	}
}

// MarshalText implements encoding.TextMarshaler
func (m Mode) MarshalText() ([]byte, error) {
	switch m {
	case ModeReference, ModeNormalized:
		return []byte(m.String()), nil
	default:
		return nil, fmt.Errorf("invalid mode %d", int(m))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
