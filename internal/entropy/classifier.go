// Package entropy estimates whether a fixed-size chunk of bytes is
// high-entropy (encrypted, compressed) or structured (text, code, headers)
// from a chi-square style test on its byte-value frequencies.
//
// The reference calibration is a 4096-byte chunk: E = 16 per bucket and a
// cut of 10000 on the raw sum of squared deviations. Uniformly random data
// lands near 4080; skewed data lands far above the cut.
package entropy

import (
	"errors"
	"fmt"
)

const (
	// ChunkSize is the chunk length the reference threshold is calibrated for
	ChunkSize = 4096
	// ReferenceThreshold is the raw deviation-sum cut at ChunkSize
	ReferenceThreshold = 10000
)

var (
	// ErrLengthOutOfRange is returned when length is negative or exceeds the buffer
	ErrLengthOutOfRange = errors.New("length out of range")
	// ErrEmptyInput is returned for zero-length input, which has no distribution
	ErrEmptyInput = errors.New("empty input")
)

// Classify is the reference classifier: raw deviation sum with E = length/256
// and a fixed cut of ReferenceThreshold. It is meaningful only for
// length == ChunkSize; a zero length reports HighEntropy because the sum is
// zero. Use Classifier for other sizes.
//
// Classify panics if length is negative or larger than len(buf).
func Classify(buf []byte, length int) Verdict {
	if length < 0 || length > len(buf) {
		panic(fmt.Sprintf("entropy: length %d out of range for %d-byte buffer", length, len(buf)))
	}
	h := Count(buf, length)
	if DeviationSum(&h, length) < ReferenceThreshold {
		return HighEntropy
	}
	return Structured
}

// Config holds classifier configuration
type Config struct {
	// Mode selects the statistic
	Mode Mode `yaml:"mode" json:"mode"`
	// ChunkSize is the length Threshold is calibrated for
	ChunkSize int `yaml:"chunk_size" json:"chunk_size"`
	// Threshold is the raw deviation-sum cut at ChunkSize.
	// Statistic < threshold = high entropy, otherwise structured.
	Threshold float64 `yaml:"threshold" json:"threshold"`
}

// DefaultConfig returns the reference calibration
func DefaultConfig() Config {
	return Config{
		Mode:      ModeReference,
		ChunkSize: ChunkSize,
		Threshold: ReferenceThreshold,
	}
}

// Validate checks the configuration for usable values
func (c Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", c.ChunkSize)
	}
	if c.Threshold <= 0 {
		return fmt.Errorf("threshold must be positive, got %g", c.Threshold)
	}
	switch c.Mode {
	case ModeReference, ModeNormalized:
	default:
		return fmt.Errorf("unknown mode %d", int(c.Mode))
	}
	return nil
}

// Result is the outcome of a single classification
type Result struct {
	Verdict   Verdict `json:"verdict"`
	Mode      Mode    `json:"mode"`
	Length    int     `json:"length"`
	Statistic float64 `json:"statistic"`
	Threshold float64 `json:"threshold"`
}

// Classifier classifies chunks of any length against a threshold derived
// from its calibration. It holds no mutable state and is safe for
// concurrent use.
type Classifier struct {
	cfg Config
}

// New creates a new classifier
func New(cfg Config) (*Classifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid classifier config: %w", err)
	}
	return &Classifier{cfg: cfg}, nil
}

// Config returns the classifier configuration
func (c *Classifier) Config() Config {
	return c.cfg
}

// ThresholdFor returns the cut applied to a chunk of the given length.
//
// In reference mode the random-data expectation of the raw sum grows as
// length*255/256, so the cut scales linearly with length. In normalized
// mode the statistic is already divided by E and the cut is fixed at
// Threshold / (ChunkSize/256).
func (c *Classifier) ThresholdFor(length int) float64 {
	if c.cfg.Mode == ModeNormalized {
		return c.cfg.Threshold * Buckets / float64(c.cfg.ChunkSize)
	}
	if length == c.cfg.ChunkSize {
		return c.cfg.Threshold
	}
	return c.cfg.Threshold * float64(length) / float64(c.cfg.ChunkSize)
}

// Classify classifies the first length bytes of buf
func (c *Classifier) Classify(buf []byte, length int) (Result, error) {
	if length < 0 || length > len(buf) {
		return Result{}, fmt.Errorf("%w: length %d, buffer %d", ErrLengthOutOfRange, length, len(buf))
	}
	if length == 0 {
		return Result{}, ErrEmptyInput
	}

	h := Count(buf, length)

	var statistic float64
	switch c.cfg.Mode {
	case ModeNormalized:
		statistic = ChiSquare(&h, length)
	default:
		statistic = float64(DeviationSum(&h, length))
	}

	threshold := c.ThresholdFor(length)
	verdict := Structured
	if statistic < threshold {
		verdict = HighEntropy
	}

	return Result{
		Verdict:   verdict,
		Mode:      c.cfg.Mode,
		Length:    length,
		Statistic: statistic,
		Threshold: threshold,
	}, nil
}

// ClassifyChunk classifies the whole of buf
func (c *Classifier) ClassifyChunk(buf []byte) (Result, error) {
	return c.Classify(buf, len(buf))
}
