// Package config loads pipeline configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/dvloznov/finance-etl/internal/recordset"
)

// Source kinds accepted by SOURCE_TYPE.
const (
	SourceLocal       = "local"
	SourceObjectStore = "object-store"
)

// DefaultOutputPrefix is the logical sub-path under the destination bucket.
const DefaultOutputPrefix = "processed_data"

// Config holds one pipeline run's configuration.
type Config struct {
	// SourcePath locates the input: a filesystem path for local sources,
	// a gs://bucket/key URI for object-store sources.
	SourcePath string
	// SourceType is SourceLocal or SourceObjectStore.
	SourceType string
	// DestinationBucket is the root of the output location.
	DestinationBucket string
	// OutputPrefix is the logical sub-path under the destination bucket.
	OutputPrefix string
	// Engine selects the record-set backing engine (rows, columns, auto).
	Engine recordset.Engine
	// RunSuffix appends the run ID to the partition path so concurrent
	// runs in the same wall-clock second cannot collide.
	RunSuffix bool
	// Ledger settings; run bookkeeping is disabled when LedgerProject is
	// empty.
	LedgerProject string
	LedgerDataset string
	LedgerTable   string
	// LogLevel is a zerolog level name.
	LogLevel string
}

// Load reads configuration from the environment. A .env file in the working
// directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		SourcePath:        getenv("SOURCE_PATH", "data/sample_financial_data.csv"),
		SourceType:        getenv("SOURCE_TYPE", SourceLocal),
		DestinationBucket: getenv("DESTINATION_BUCKET", "etl-pipeline-output"),
		OutputPrefix:      getenv("OUTPUT_PREFIX", DefaultOutputPrefix),
		Engine:            recordset.Engine(getenv("ENGINE", string(recordset.EngineAuto))),
		RunSuffix:         strings.EqualFold(os.Getenv("RUN_SUFFIX"), "true"),
		LedgerProject:     os.Getenv("LEDGER_PROJECT"),
		LedgerDataset:     getenv("LEDGER_DATASET", "finance"),
		LedgerTable:       getenv("LEDGER_TABLE", "etl_runs"),
		LogLevel:          getenv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for use by a run.
func (c *Config) Validate() error {
	var errs []string

	if c.SourcePath == "" {
		errs = append(errs, "source path is required")
	}
	switch c.SourceType {
	case SourceLocal, SourceObjectStore:
	default:
		errs = append(errs, fmt.Sprintf("source type %q must be %q or %q", c.SourceType, SourceLocal, SourceObjectStore))
	}
	if c.DestinationBucket == "" {
		errs = append(errs, "destination bucket is required")
	}
	if c.OutputPrefix == "" {
		errs = append(errs, "output prefix is required")
	}
	if !recordset.ValidEngine(string(c.Engine)) {
		errs = append(errs, fmt.Sprintf("engine %q must be rows, columns or auto", c.Engine))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
