package main

import (
	"testing"

	"github.com/muliwe/go-chunk-entropy/internal/entropy"
)

func TestGenerateChunks(t *testing.T) {
	for _, w := range workloads {
		chunks, err := generateChunks(w, 8, entropy.ChunkSize, 7)
		if err != nil {
			t.Fatalf("generateChunks(%s) error = %v", w, err)
		}
		if len(chunks) != 8 {
			t.Errorf("generateChunks(%s) returned %d chunks, want 8", w, len(chunks))
		}
		for i, c := range chunks {
			if len(c) != entropy.ChunkSize {
				t.Errorf("generateChunks(%s)[%d] length = %d, want %d", w, i, len(c), entropy.ChunkSize)
			}
		}
	}
}

func TestGenerateChunks_Unknown(t *testing.T) {
	if _, err := generateChunks("pcap", 1, 16, 1); err == nil {
		t.Error("generateChunks(pcap) error = nil, want error")
	}
}

func TestWorkloadVerdicts(t *testing.T) {
	tests := []struct {
		workload string
		want     entropy.Verdict
	}{
		{"random", entropy.HighEntropy},
		{"text", entropy.Structured},
	}
	for _, tt := range tests {
		chunks, err := generateChunks(tt.workload, 4, entropy.ChunkSize, 3)
		if err != nil {
			t.Fatalf("generateChunks(%s) error = %v", tt.workload, err)
		}
		for _, c := range chunks {
			if got := entropy.Classify(c, len(c)); got != tt.want {
				t.Errorf("Classify(%s chunk) = %s, want %s", tt.workload, got, tt.want)
			}
		}
	}
}

func TestProseIsDeterministic(t *testing.T) {
	a, b := prose(1000, 42), prose(1000, 42)
	if string(a) != string(b) {
		t.Error("prose() should be deterministic for a seed")
	}
}
