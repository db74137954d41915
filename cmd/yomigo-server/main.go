package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/yomigo/yomigo-server/internal/config"
	"github.com/yomigo/yomigo-server/internal/dictionary"
	"github.com/yomigo/yomigo-server/internal/ocr"
	"github.com/yomigo/yomigo-server/internal/pipeline"
	"github.com/yomigo/yomigo-server/internal/server"
	"github.com/yomigo/yomigo-server/internal/tokenize"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("yomigo-server %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("yomigo-server - OCR and dictionary backend for the YomiGo extension")
			fmt.Println()
			fmt.Println("Usage: yomigo-server [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables (a .env file is also read):")
			fmt.Println("  YOMIGO_ADDR                  Listen address (default :5000)")
			fmt.Println("  YOMIGO_TESSDATA_PREFIX       Tesseract traineddata directory")
			fmt.Println("  YOMIGO_OCR_TIMEOUT           Per-recognition deadline (default 10s)")
			fmt.Println("  YOMIGO_OCR_POOL_SIZE         Concurrent recognitions (default 2)")
			fmt.Println("  YOMIGO_CONFIDENCE_THRESHOLD  Low-confidence line cutoff (default 0.4)")
			fmt.Println("  YOMIGO_LEXICON_PATH          External lexicon JSON (default embedded)")
			fmt.Println()
			fmt.Println("Requires tesseract with the jpn and jpn_vert language packs.")
			return
		}
	}

	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Local development keeps its settings in a .env file; absence is fine.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	cfg := config.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)
	logger.Info("starting yomigo-server",
		"version", Version, "addr", cfg.Addr, "pool_size", cfg.OCRPoolSize)

	lexicon, err := dictionary.Load(cfg.LexiconPath)
	if err != nil {
		// No lexicon means no dictionary pop-ups; refuse to serve.
		return fmt.Errorf("load lexicon: %w", err)
	}
	logger.Info("lexicon loaded", "entries", lexicon.Len(), "path", cfg.LexiconPath)

	tk, err := tokenize.New(tokenize.NewPhraseSet(lexicon.PhraseEntries()))
	if err != nil {
		return fmt.Errorf("build tokenizer: %w", err)
	}

	engine := ocr.NewTesseractEngine(cfg.TessdataPrefix)
	if !engine.Healthy() {
		// Degraded but not fatal: /parse-text and /health still work,
		// and /health tells the extension what is missing.
		logger.Warn("tesseract unavailable; OCR endpoints will fail until it is installed")
	}
	pool := ocr.NewPool(engine, cfg.OCRPoolSize, cfg.OCRTimeout)

	orch := pipeline.New(pool, tk, dictionary.NewResolver(lexicon), cfg.ConfidenceThreshold, logger)
	srv := server.New(orch, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.ListenAndServe(ctx, cfg.Addr)
}
