// Package report prints human-readable scan results.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muliwe/go-chunk-entropy/internal/entropy"
	"github.com/muliwe/go-chunk-entropy/internal/scanner"
)

const (
	labelHighEntropy = "[!] HIGH ENTROPY (Encrypted)"
	labelStructured  = "[+] STRUCTURED (Safe)"
)

// Printer writes one line per scanned file. Colors are only emitted when
// the writer is a terminal.
type Printer struct {
	w       io.Writer
	asJSON  bool
	encoder *json.Encoder

	high       lipgloss.Style
	structured lipgloss.Style
	muted      lipgloss.Style
}

// NewPrinter creates a printer. With asJSON set, reports are written as
// JSON lines and skip diagnostics are suppressed from w.
func NewPrinter(w io.Writer, asJSON bool) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:          w,
		asJSON:     asJSON,
		encoder:    json.NewEncoder(w),
		high:       r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		structured: r.NewStyle().Foreground(lipgloss.Color("10")),
		muted:      r.NewStyle().Faint(true),
	}
}

// Header prints the banner shown before a batch of scans
func (p *Printer) Header(chunkSize int) {
	if p.asJSON {
		return
	}
	fmt.Fprintf(p.w, "Running Entropy Detection Test (%d-byte chunks)...\n", chunkSize)
	fmt.Fprintln(p.w, strings.Repeat("-", 50))
}

// Result prints the verdict for one report
func (p *Printer) Result(r scanner.Report) error {
	if p.asJSON {
		return p.encoder.Encode(r)
	}

	label := p.structured.Render(labelStructured)
	if r.Verdict == entropy.HighEntropy {
		label = p.high.Render(labelHighEntropy)
	}
	_, err := fmt.Fprintf(p.w, "File: %-20s | Result: %s %s\n",
		r.Path, label, p.muted.Render(fmt.Sprintf("(%.0f / %.0f)", r.Statistic, r.Threshold)))
	return err
}

// NotFound reports a missing file
func (p *Printer) NotFound(name string) {
	if p.asJSON {
		return
	}
	fmt.Fprintf(p.w, "File %s not found. Skipping...\n", name)
}

// TooSmall reports a file shorter than one chunk
func (p *Printer) TooSmall(name string, chunkSize int) {
	if p.asJSON {
		return
	}
	fmt.Fprintf(p.w, "File %s too small for %s test.\n", name, sizeLabel(chunkSize))
}

// Failed reports any other scan failure
func (p *Printer) Failed(name string, err error) {
	if p.asJSON {
		return
	}
	fmt.Fprintf(p.w, "File %s could not be scanned: %v\n", name, err)
}

func sizeLabel(n int) string {
	if n%1024 == 0 {
		return fmt.Sprintf("%dKB", n/1024)
	}
	return fmt.Sprintf("%d-byte", n)
}
