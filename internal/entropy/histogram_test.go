package entropy

import (
	"crypto/rand"
	"testing"
)

func TestCountTotalEqualsLength(t *testing.T) {
	buf := make([]byte, 5000)
	if _, err := rand.Read(buf); err != nil {
		t.Fatalf("rand.Read() error = %v", err)
	}

	for _, length := range []int{0, 1, 255, 256, 4095, 4096, 4097, 5000} {
		h := Count(buf, length)
		if got := h.Total(); got != uint64(length) {
			t.Errorf("Count(buf, %d).Total() = %d, want %d", length, got, length)
		}
	}
}

func TestCountIgnoresBytesPastLength(t *testing.T) {
	buf := []byte{1, 1, 2, 9, 9, 9}
	h := Count(buf, 3)

	if h[1] != 2 || h[2] != 1 {
		t.Errorf("Count() = {1:%d, 2:%d}, want {1:2, 2:1}", h[1], h[2])
	}
	if h[9] != 0 {
		t.Errorf("Count() counted byte past length: h[9] = %d", h[9])
	}
}

func TestDeviationSumUniform(t *testing.T) {
	buf := uniformChunk(16)
	h := Count(buf, len(buf))

	if got := DeviationSum(&h, len(buf)); got != 0 {
		t.Errorf("DeviationSum(uniform) = %d, want 0", got)
	}
}

func TestDeviationSumSingleValue(t *testing.T) {
	buf := repeatedChunk(0x41, ChunkSize)
	h := Count(buf, len(buf))

	// (4096-16)^2 + 255*(0-16)^2
	const want = 16646400 + 65280
	if got := DeviationSum(&h, len(buf)); got != want {
		t.Errorf("DeviationSum(single value) = %d, want %d", got, want)
	}
}

func TestDeviationSumTruncatesExpectation(t *testing.T) {
	// 300 bytes: E truncates to 1, so the 44 doubled buckets each add 1
	buf := make([]byte, 0, 300)
	for i := range 256 {
		buf = append(buf, byte(i))
	}
	for i := range 44 {
		buf = append(buf, byte(i))
	}
	h := Count(buf, len(buf))

	if got := DeviationSum(&h, len(buf)); got != 44 {
		t.Errorf("DeviationSum(300 bytes) = %d, want 44", got)
	}
}

func TestChiSquare(t *testing.T) {
	uniform := uniformChunk(16)
	hu := Count(uniform, len(uniform))
	if got := ChiSquare(&hu, len(uniform)); got != 0 {
		t.Errorf("ChiSquare(uniform) = %g, want 0", got)
	}

	single := repeatedChunk(0, ChunkSize)
	hs := Count(single, len(single))
	if got, want := ChiSquare(&hs, len(single)), 16711680.0/16; got != want {
		t.Errorf("ChiSquare(single value) = %g, want %g", got, want)
	}

	var empty Histogram
	if got := ChiSquare(&empty, 0); got != 0 {
		t.Errorf("ChiSquare(empty) = %g, want 0", got)
	}
}

func TestChiSquareFractionalExpectation(t *testing.T) {
	// 128 distinct bytes once each: E = 0.5, every bucket deviates by 0.5
	buf := make([]byte, 128)
	for i := range buf {
		buf[i] = byte(i)
	}
	h := Count(buf, len(buf))

	// 256 * 0.25 / 0.5
	if got := ChiSquare(&h, len(buf)); got != 128 {
		t.Errorf("ChiSquare(128 distinct) = %g, want 128", got)
	}
}

// uniformChunk returns a chunk holding every byte value exactly per times
func uniformChunk(per int) []byte {
	buf := make([]byte, 0, Buckets*per)
	for range per {
		for v := range Buckets {
			buf = append(buf, byte(v))
		}
	}
	return buf
}

func repeatedChunk(v byte, n int) []byte {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = v
	}
	return buf
}
