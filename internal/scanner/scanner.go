// Package scanner reads one chunk from a file or stream and classifies it.
package scanner

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"

	"github.com/muliwe/go-chunk-entropy/internal/entropy"
)

var (
	// ErrNotFound is returned when the file to scan does not exist
	ErrNotFound = errors.New("file not found")
	// ErrShortChunk is returned when fewer than a full chunk of bytes is available
	ErrShortChunk = errors.New("short chunk")
)

// Report is the result of scanning one file or stream
type Report struct {
	ID        string          `json:"id"`
	Path      string          `json:"path"`
	Timestamp time.Time       `json:"timestamp"`
	Verdict   entropy.Verdict `json:"verdict"`
	Mode      entropy.Mode    `json:"mode"`
	ChunkSize int             `json:"chunk_size"`
	Statistic float64         `json:"statistic"`
	Threshold float64         `json:"threshold"`
	Digest    string          `json:"digest"`
	Reason    string          `json:"reason"`
}

// Scanner classifies the leading chunk of files
type Scanner struct {
	classifier *entropy.Classifier
	chunkSize  int
}

// New creates a scanner reading chunks of the classifier's calibrated size
func New(c *entropy.Classifier) *Scanner {
	return &Scanner{
		classifier: c,
		chunkSize:  c.Config().ChunkSize,
	}
}

// ChunkSize returns the number of bytes read per scan
func (s *Scanner) ChunkSize() int {
	return s.chunkSize
}

// ReadChunk fills buf from r. It never pads: if r ends early the
// returned error wraps ErrShortChunk and reports how many bytes were read.
func ReadChunk(r io.Reader, buf []byte) error {
	n, err := io.ReadFull(r, buf)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return fmt.Errorf("%w: read %d of %d bytes", ErrShortChunk, n, len(buf))
	default:
		return fmt.Errorf("read chunk: %w", err)
	}
}

// ScanFile classifies the first chunk of the file at path
func (s *Scanner) ScanFile(path string) (Report, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Report{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return Report{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	return s.ScanReader(path, f)
}

// ScanReader classifies the first chunk read from r, naming it name
func (s *Scanner) ScanReader(name string, r io.Reader) (Report, error) {
	buf := make([]byte, s.chunkSize)
	if err := ReadChunk(r, buf); err != nil {
		return Report{}, fmt.Errorf("%s: %w", name, err)
	}
	return s.ScanChunk(name, buf)
}

// ScanChunk classifies buf as a whole and builds its report
func (s *Scanner) ScanChunk(name string, buf []byte) (Report, error) {
	res, err := s.classifier.ClassifyChunk(buf)
	if err != nil {
		return Report{}, fmt.Errorf("%s: %w", name, err)
	}

	digest := blake3.Sum256(buf)

	return Report{
		ID:        uuid.New().String(),
		Path:      name,
		Timestamp: time.Now().UTC(),
		Verdict:   res.Verdict,
		Mode:      res.Mode,
		ChunkSize: res.Length,
		Statistic: res.Statistic,
		Threshold: res.Threshold,
		Digest:    hex.EncodeToString(digest[:]),
		Reason:    reason(res),
	}, nil
}

// reason explains the verdict in one line
func reason(res entropy.Result) string {
	if res.Verdict == entropy.HighEntropy {
		return fmt.Sprintf("%s statistic %.0f below %.0f: byte distribution near uniform",
			res.Mode, res.Statistic, res.Threshold)
	}
	return fmt.Sprintf("%s statistic %.0f at or above %.0f: skewed byte distribution",
		res.Mode, res.Statistic, res.Threshold)
}
