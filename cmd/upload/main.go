package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dvloznov/finance-etl/internal/logger"
	"github.com/dvloznov/finance-etl/internal/objstore"
)

func main() {
	// Initialize structured logger
	log := logger.New(os.Getenv("LOG_LEVEL"))

	var (
		bucketName string
		objectName string
		filePath   string
	)

	flag.StringVar(&bucketName, "bucket", "", "bucket name (required)")
	flag.StringVar(&objectName, "object", "", "object name (optional; defaults to file name)")
	flag.StringVar(&filePath, "file", "", "path to local CSV or JSON file (required)")
	flag.Parse()

	if bucketName == "" || filePath == "" {
		log.Fatal().Msg("Usage: upload -bucket BUCKET_NAME -file /path/to/data.csv [-object OBJECT_NAME]")
	}

	if objectName == "" {
		objectName = filepath.Base(filePath)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	data, err := os.ReadFile(filePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Reading local file")
	}

	store, err := objstore.NewGCS(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Connecting storage client")
	}
	defer store.Close()

	log.Info().
		Str("bucket", bucketName).
		Str("object", objectName).
		Str("file", filePath).
		Msg("Uploading file")

	if err := store.Put(ctx, bucketName, objectName, data); err != nil {
		log.Fatal().Err(err).Msg("Upload failed")
	}

	fmt.Printf("Uploaded %s to %s\n", filePath, objstore.JoinURI(bucketName, objectName))
}
