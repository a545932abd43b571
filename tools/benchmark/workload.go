package main

import (
	"crypto/rand"
	"fmt"
	mrand "math/rand/v2"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// workloads lists the generators accepted by -workload
var workloads = []string{"random", "text", "zstd", "lz4", "mixed"}

var vocabulary = strings.Fields(`the of and to in is was for on that with as by at from
his her it an be this which or had not are but were have one all their there been
chunk entropy byte bucket header archive cipher stream block frame offset length`)

// generateChunks returns n chunks of size bytes for the named workload
func generateChunks(workload string, n, size int, seed uint64) ([][]byte, error) {
	switch workload {
	case "random":
		return randomChunks(n, size)
	case "text":
		return split(prose(n*size, seed), n, size)
	case "zstd":
		return compressedChunks(n, size, seed, compressZstd)
	case "lz4":
		return compressedChunks(n, size, seed, compressLZ4)
	case "mixed":
		var out [][]byte
		per := max(n/4, 1)
		for _, w := range []string{"random", "text", "zstd", "lz4"} {
			chunks, err := generateChunks(w, per, size, seed)
			if err != nil {
				return nil, err
			}
			out = append(out, chunks...)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown workload %q (want one of %v)", workload, workloads)
	}
}

func randomChunks(n, size int) ([][]byte, error) {
	buf := make([]byte, n*size)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	return split(buf, n, size)
}

// prose builds at least length bytes of seeded pseudo-English
func prose(length int, seed uint64) []byte {
	rng := mrand.New(mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	var sb strings.Builder
	sb.Grow(length + 64)
	for sb.Len() < length {
		sb.WriteString(vocabulary[rng.IntN(len(vocabulary))])
		if rng.IntN(12) == 0 {
			sb.WriteString(".\n")
		} else {
			sb.WriteByte(' ')
		}
	}
	return []byte(sb.String())
}

// compressedChunks compresses growing amounts of prose until the output
// covers n chunks
func compressedChunks(n, size int, seed uint64, compress func([]byte) ([]byte, error)) ([][]byte, error) {
	want := n * size
	for input := want * 4; ; input *= 2 {
		out, err := compress(prose(input, seed))
		if err != nil {
			return nil, err
		}
		if len(out) >= want {
			return split(out, n, size)
		}
	}
}

func compressZstd(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	defer func() { _ = enc.Close() }()
	return enc.EncodeAll(data, nil), nil
}

func compressLZ4(data []byte) ([]byte, error) {
	dst := make([]byte, lz4.CompressBlockBound(len(data)))
	var c lz4.CompressorHC
	n, err := c.CompressBlock(data, dst)
	if err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("lz4 compress: incompressible input")
	}
	return dst[:n], nil
}

func split(buf []byte, n, size int) ([][]byte, error) {
	if len(buf) < n*size {
		return nil, fmt.Errorf("need %d bytes, have %d", n*size, len(buf))
	}
	chunks := make([][]byte, n)
	for i := range chunks {
		chunks[i] = buf[i*size : (i+1)*size]
	}
	return chunks, nil
}
