// Package main provides a classifier throughput benchmark
package main

import (
	"flag"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/muliwe/go-chunk-entropy/internal/entropy"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "Test duration")
	concurrency := flag.Int("c", 10, "Number of concurrent workers")
	workload := flag.String("workload", "mixed", "Chunk source: random, text, zstd, lz4 or mixed")
	modeName := flag.String("mode", "reference", "Statistic: reference or normalized")
	chunks := flag.Int("chunks", 256, "Number of distinct chunks to cycle through")
	seed := flag.Uint64("seed", 1, "Seed for generated text")
	flag.Parse()

	mode, err := entropy.ParseMode(*modeName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	cfg := entropy.DefaultConfig()
	cfg.Mode = mode
	clf, err := entropy.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	pool, err := generateChunks(*workload, *chunks, cfg.ChunkSize, *seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	fmt.Printf("Benchmarking %s classifier on %d %s chunks of %d bytes\n", mode, len(pool), *workload, cfg.ChunkSize)
	fmt.Printf("Duration: %v, Concurrency: %d\n\n", *duration, *concurrency)

	var (
		totalChunks  int64
		totalErrors  int64
		totalLatency int64 // in nanoseconds
		minLatency   int64 = 1<<63 - 1
		maxLatency   int64
		highEntropy  int64
		structured   int64
		wg           sync.WaitGroup
		stop         = make(chan struct{})
	)

	// Start workers
	for w := 0; w < *concurrency; w++ {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			for i := offset; ; i++ {
				select {
				case <-stop:
					return
				default:
					chunk := pool[i%len(pool)]
					start := time.Now()
					res, err := clf.ClassifyChunk(chunk)
					latency := time.Since(start).Nanoseconds()

					if err != nil {
						atomic.AddInt64(&totalErrors, 1)
						continue
					}

					atomic.AddInt64(&totalChunks, 1)
					atomic.AddInt64(&totalLatency, latency)
					if res.Verdict == entropy.HighEntropy {
						atomic.AddInt64(&highEntropy, 1)
					} else {
						atomic.AddInt64(&structured, 1)
					}

					// Update min/max (approximate, not perfectly thread-safe)
					for {
						old := atomic.LoadInt64(&minLatency)
						if latency >= old || atomic.CompareAndSwapInt64(&minLatency, old, latency) {
							break
						}
					}
					for {
						old := atomic.LoadInt64(&maxLatency)
						if latency <= old || atomic.CompareAndSwapInt64(&maxLatency, old, latency) {
							break
						}
					}
				}
			}
		}(w * len(pool) / max(*concurrency, 1))
	}

	// Progress ticker
	ticker := time.NewTicker(time.Second)
	go func() {
		elapsed := 0
		for range ticker.C {
			elapsed++
			n := atomic.LoadInt64(&totalChunks)
			fmt.Printf("[%ds] Chunks: %d, Chunks/s: %.0f\n", elapsed, n, float64(n)/float64(elapsed))
		}
	}()

	time.Sleep(*duration)
	close(stop)
	ticker.Stop()
	wg.Wait()

	n := atomic.LoadInt64(&totalChunks)
	errs := atomic.LoadInt64(&totalErrors)
	latencyTotal := atomic.LoadInt64(&totalLatency)

	avgLatency := float64(0)
	if n > 0 {
		avgLatency = float64(latencyTotal) / float64(n)
	}
	cps := float64(n) / duration.Seconds()
	mbps := cps * float64(cfg.ChunkSize) / (1 << 20)

	fmt.Println("\n========== RESULTS ==========")
	fmt.Printf("Total chunks:    %d\n", n)
	fmt.Printf("Total errors:    %d\n", errs)
	fmt.Printf("Duration:        %v\n", *duration)
	fmt.Printf("Concurrency:     %d\n", *concurrency)
	fmt.Println()
	fmt.Printf("Chunks/s:        %.0f\n", cps)
	fmt.Printf("Throughput:      %.1f MB/s\n", mbps)
	fmt.Println()
	fmt.Printf("Latency avg:     %.0f ns\n", avgLatency)
	fmt.Printf("Latency min:     %d ns\n", atomic.LoadInt64(&minLatency))
	fmt.Printf("Latency max:     %d ns\n", atomic.LoadInt64(&maxLatency))
	fmt.Println()
	fmt.Printf("High entropy:    %d\n", atomic.LoadInt64(&highEntropy))
	fmt.Printf("Structured:      %d\n", atomic.LoadInt64(&structured))

	if errs > 0 {
		os.Exit(1)
	}
}
