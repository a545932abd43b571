// Command entropyscan classifies the first chunk of each given file as
// high-entropy (encrypted, compressed) or structured.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/muliwe/go-chunk-entropy/internal/config"
	"github.com/muliwe/go-chunk-entropy/internal/entropy"
	"github.com/muliwe/go-chunk-entropy/internal/logger"
	"github.com/muliwe/go-chunk-entropy/internal/report"
	"github.com/muliwe/go-chunk-entropy/internal/scanner"
)

var version = "0.2.0"

// defaultPaths are scanned when no file arguments are given
var defaultPaths = []string{"base_text.txt", "sample_image.jpg", "encrypted.bin"}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var (
		configPath string
		modeName   string
		threshold  float64
		chunkSize  int
		jsonOutput bool
		logDir     string
		noLog      bool
	)

	flagSet := pflag.NewFlagSet("entropyscan", pflag.ContinueOnError)
	flagSet.StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	flagSet.StringVarP(&modeName, "mode", "m", "", "statistic: reference or normalized")
	flagSet.Float64VarP(&threshold, "threshold", "t", 0, "deviation-sum cut at the chunk size (0 keeps config)")
	flagSet.IntVar(&chunkSize, "chunk-size", 0, "bytes classified per file (0 keeps config)")
	flagSet.BoolVar(&jsonOutput, "json", false, "write reports as JSON lines")
	flagSet.StringVar(&logDir, "log-dir", "", "directory for the JSONL scan log")
	flagSet.BoolVar(&noLog, "no-log", false, "do not write the scan log")
	showVersion := flagSet.Bool("version", false, "show version information")
	flagSet.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: entropyscan [flags] [FILE...]\n\n")
		fmt.Fprintf(os.Stderr, "Classifies the first chunk of each FILE. Without arguments scans %v.\n\n", defaultPaths)
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if *showVersion {
		fmt.Printf("entropyscan version %s\n", version)
		return nil
	}

	cfg := config.DefaultConfig()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return err
	}

	if flagSet.Changed("mode") {
		mode, err := entropy.ParseMode(modeName)
		if err != nil {
			return err
		}
		cfg.Classifier.Mode = mode
	}
	if threshold > 0 {
		cfg.Classifier.Threshold = threshold
	}
	if chunkSize > 0 {
		cfg.Classifier.ChunkSize = chunkSize
	}
	if logDir != "" {
		cfg.Logger.LogDir = logDir
	}

	clf, err := entropy.New(cfg.Classifier)
	if err != nil {
		return err
	}
	sc := scanner.New(clf)

	var l *logger.Logger
	if !noLog {
		l, err = logger.New(cfg.Logger)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer func() {
			if err := l.Close(); err != nil {
				log.Printf("Error closing logger: %v", err)
			}
		}()
	}

	paths := flagSet.Args()
	if len(paths) == 0 {
		paths = defaultPaths
	}

	p := report.NewPrinter(os.Stdout, jsonOutput)
	p.Header(sc.ChunkSize())

	for _, path := range paths {
		start := time.Now()
		r, err := sc.ScanFile(path)
		switch {
		case errors.Is(err, scanner.ErrNotFound):
			p.NotFound(path)
			continue
		case errors.Is(err, scanner.ErrShortChunk):
			p.TooSmall(path, sc.ChunkSize())
			continue
		case err != nil:
			p.Failed(path, err)
			continue
		}

		if l != nil {
			if err := l.LogReport(r, "", time.Since(start)); err != nil {
				log.Printf("Error logging report: %v", err)
			}
		}
		if err := p.Result(r); err != nil {
			return err
		}
	}

	return nil
}
