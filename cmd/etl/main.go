package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dvloznov/finance-etl/internal/config"
	"github.com/dvloznov/finance-etl/internal/logger"
	"github.com/dvloznov/finance-etl/internal/pipeline"
	"github.com/dvloznov/finance-etl/internal/runledger"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	// Initialize structured logger
	log := logger.New(os.Getenv("LOG_LEVEL"))

	// Parse CLI flags; each overrides its environment counterpart
	sourcePath := flag.String("source", "", "source locator: local path or gs:// URI (overrides SOURCE_PATH)")
	sourceType := flag.String("source-type", "", "source kind: local or object-store (overrides SOURCE_TYPE)")
	bucket := flag.String("bucket", "", "destination bucket (overrides DESTINATION_BUCKET)")
	prefix := flag.String("prefix", "", "output prefix (overrides OUTPUT_PREFIX)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		return err
	}
	if *sourcePath != "" {
		cfg.SourcePath = *sourcePath
	}
	if *sourceType != "" {
		cfg.SourceType = *sourceType
	}
	if *bucket != "" {
		cfg.DestinationBucket = *bucket
	}
	if *prefix != "" {
		cfg.OutputPrefix = *prefix
	}
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		return err
	}

	// Create context with timeout so the CLI doesn't hang
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	opts := []pipeline.Option{pipeline.WithLogger(log)}
	if cfg.LedgerProject != "" {
		ledger, err := runledger.NewBigQuery(ctx, cfg.LedgerProject, cfg.LedgerDataset, cfg.LedgerTable)
		if err != nil {
			log.Error().Err(err).Msg("connecting run ledger")
			return err
		}
		defer ledger.Close()
		opts = append(opts, pipeline.WithLedger(ledger))
	}

	p, err := pipeline.New(cfg, opts...)
	if err != nil {
		log.Error().Err(err).Msg("constructing pipeline")
		return err
	}

	result, runErr := p.Execute(ctx)

	// The result record is the contract with whatever triggered this run.
	out, err := json.Marshal(result)
	if err != nil {
		log.Error().Err(err).Msg("encoding result")
		return err
	}
	fmt.Println(string(out))

	return runErr
}
