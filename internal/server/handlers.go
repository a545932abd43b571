package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/muliwe/go-chunk-entropy/internal/entropy"
	"github.com/muliwe/go-chunk-entropy/internal/logger"
	"github.com/muliwe/go-chunk-entropy/internal/scanner"
)

const version = "0.2.0"

const contentTypeCBOR = "application/cbor"

// Response represents the API response
type Response struct {
	ID        string    `json:"id"`
	RequestID string    `json:"request_id"`
	Verdict   string    `json:"verdict"`
	Mode      string    `json:"mode"`
	Length    int       `json:"length"`
	Statistic float64   `json:"statistic"`
	Threshold float64   `json:"threshold"`
	Digest    string    `json:"digest"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

// ErrorResponse represents a failed request
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// DebugResponse exposes the effective classifier settings
type DebugResponse struct {
	Mode      string  `json:"mode"`
	ChunkSize int     `json:"chunk_size"`
	Threshold float64 `json:"threshold"`
	Cut       float64 `json:"cut"` // threshold applied to a full chunk
	Version   string  `json:"version"`
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	classifier *entropy.Classifier
	scanners   map[entropy.Mode]*scanner.Scanner
	logger     *logger.Logger
	quiet      bool // suppress console logging (useful for tests)
}

// NewHandler creates a new handler. Requests may pick either mode through
// the mode query parameter; cl supplies the default and the calibration.
func NewHandler(cl *entropy.Classifier, l *logger.Logger) *Handler {
	scanners := map[entropy.Mode]*scanner.Scanner{
		cl.Config().Mode: scanner.New(cl),
	}
	for _, mode := range []entropy.Mode{entropy.ModeReference, entropy.ModeNormalized} {
		if _, ok := scanners[mode]; ok {
			continue
		}
		cfg := cl.Config()
		cfg.Mode = mode
		alt, err := entropy.New(cfg)
		if err != nil {
			continue
		}
		scanners[mode] = scanner.New(alt)
	}

	return &Handler{
		classifier: cl,
		scanners:   scanners,
		logger:     l,
		quiet:      false,
	}
}

// SetQuiet enables or disables console logging
func (h *Handler) SetQuiet(quiet bool) {
	h.quiet = quiet
}

// HandleClassify classifies the first chunk of the request body
func (h *Handler) HandleClassify(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	requestID := RequestIDFromContext(r.Context())

	mode := h.classifier.Config().Mode
	if name := r.URL.Query().Get("mode"); name != "" {
		m, err := entropy.ParseMode(name)
		if err != nil {
			h.writeError(w, r, http.StatusBadRequest, err)
			return
		}
		mode = m
	}
	sc, ok := h.scanners[mode]
	if !ok {
		h.writeError(w, r, http.StatusBadRequest, errors.New("mode not available"))
		return
	}

	report, err := sc.ScanReader(r.RemoteAddr, r.Body)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, scanner.ErrShortChunk) {
			status = http.StatusUnprocessableEntity
		}
		h.writeError(w, r, status, err)
		return
	}

	duration := time.Since(startTime)

	if h.logger != nil {
		if err := h.logger.LogReport(report, r.RemoteAddr, duration); err != nil {
			log.Printf("Error logging report: %v", err)
		}
	}

	message := "Chunk looks structured (text, code or headers)"
	if report.Verdict == entropy.HighEntropy {
		message = "Chunk looks encrypted or compressed"
	}

	if !h.quiet {
		log.Printf("[%s] %s %s - %s %s (%.0f / %.0f) - %dus",
			r.RemoteAddr,
			r.Method,
			r.URL.Path,
			report.Mode,
			report.Verdict,
			report.Statistic,
			report.Threshold,
			duration.Microseconds(),
		)
	}

	h.write(w, r, http.StatusOK, Response{
		ID:        report.ID,
		RequestID: requestID,
		Verdict:   report.Verdict.String(),
		Mode:      report.Mode.String(),
		Length:    report.ChunkSize,
		Statistic: report.Statistic,
		Threshold: report.Threshold,
		Digest:    report.Digest,
		Message:   message,
		Timestamp: report.Timestamp,
		Version:   version,
	})
}

// HandleHealth handles the health check endpoint
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.write(w, r, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: version,
	})
}

// HandleDebug returns the effective classifier configuration
func (h *Handler) HandleDebug(w http.ResponseWriter, r *http.Request) {
	cfg := h.classifier.Config()
	h.write(w, r, http.StatusOK, DebugResponse{
		Mode:      cfg.Mode.String(),
		ChunkSize: cfg.ChunkSize,
		Threshold: cfg.Threshold,
		Cut:       h.classifier.ThresholdFor(cfg.ChunkSize),
		Version:   version,
	})
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	if !h.quiet {
		log.Printf("[%s] %s %s - %d: %v", r.RemoteAddr, r.Method, r.URL.Path, status, err)
	}
	h.write(w, r, status, ErrorResponse{
		Error:     err.Error(),
		RequestID: RequestIDFromContext(r.Context()),
	})
}

// write encodes v as CBOR when the client accepts it, JSON otherwise
func (h *Handler) write(w http.ResponseWriter, r *http.Request, status int, v any) {
	if strings.Contains(r.Header.Get("Accept"), contentTypeCBOR) {
		data, err := cbor.Marshal(v)
		if err != nil {
			log.Printf("Error encoding CBOR response: %v", err)
			http.Error(w, "encoding failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", contentTypeCBOR)
		w.WriteHeader(status)
		if _, err := w.Write(data); err != nil {
			log.Printf("Error writing response: %v", err)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
