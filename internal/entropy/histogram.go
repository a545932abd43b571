package entropy

// Buckets is the number of distinct byte values
const Buckets = 256

// Histogram holds one counter per byte value
type Histogram [Buckets]uint32

// Count builds the frequency histogram of the first length bytes of buf.
// The caller guarantees 0 <= length <= len(buf).
func Count(buf []byte, length int) Histogram {
	var h Histogram
	for _, b := range buf[:length] {
		h[b]++
	}
	return h
}

// Total returns the sum of all counters, which equals the counted length
func (h *Histogram) Total() uint64 {
	var total uint64
	for _, c := range h {
		total += uint64(c)
	}
	return total
}

// DeviationSum returns Σ (count - E)² with the integer expectation
// E = length / 256. Non-multiples of 256 truncate E, which biases the
// sum upward slightly.
func DeviationSum(h *Histogram, length int) uint64 {
	expected := int64(length / Buckets)

	var sum uint64
	for _, c := range h {
		diff := int64(c) - expected
		sum += uint64(diff * diff)
	}
	return sum
}

// ChiSquare returns the Pearson statistic Σ (count - E)² / E with the
// fractional expectation E = length / 256. Zero length yields zero.
func ChiSquare(h *Histogram, length int) float64 {
	if length <= 0 {
		return 0
	}
	expected := float64(length) / Buckets

	var sum float64
	for _, c := range h {
		diff := float64(c) - expected
		sum += diff * diff
	}
	return sum / expected
}
