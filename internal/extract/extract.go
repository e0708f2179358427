// Package extract reads tabular financial records (CSV or JSON) from a
// local path or an object store into a record set, with best-effort scalar
// type inference.
package extract

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dvloznov/finance-etl/internal/objstore"
	"github.com/dvloznov/finance-etl/internal/recordset"
)

// Source kinds.
const (
	KindLocal       = "local"
	KindObjectStore = "object-store"
)

// Source locates one input for extraction.
type Source struct {
	// Locator is a filesystem path for local sources or a gs://bucket/key
	// URI for object-store sources.
	Locator string
	Kind    string
}

// ExtractionError reports an unreachable, malformed or empty source.
type ExtractionError struct {
	Source string
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Source, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Extractor pulls raw records into a record set. Object-store reads reuse
// the session's store; extraction is never retried.
type Extractor struct {
	store  objstore.Store
	engine recordset.Engine
}

// New creates an Extractor over the given store and record-set engine.
func New(store objstore.Store, engine recordset.Engine) *Extractor {
	return &Extractor{store: store, engine: engine}
}

// Extract reads the source into a record set. Columns come from the CSV
// header row or the first JSON object's keys; numeric strings become
// numbers, everything else stays a string until the transform stages act.
func (e *Extractor) Extract(ctx context.Context, src Source) (recordset.Table, error) {
	data, err := e.read(ctx, src)
	if err != nil {
		return nil, &ExtractionError{Source: src.Locator, Err: err}
	}

	var tab recordset.Table
	if strings.HasSuffix(strings.ToLower(src.Locator), ".json") {
		tab, err = parseJSON(data, e.engine)
	} else {
		tab, err = parseCSV(data, e.engine)
	}
	if err != nil {
		return nil, &ExtractionError{Source: src.Locator, Err: err}
	}
	if tab.Len() == 0 {
		return nil, &ExtractionError{Source: src.Locator, Err: fmt.Errorf("source has no records")}
	}
	return tab, nil
}

func (e *Extractor) read(ctx context.Context, src Source) ([]byte, error) {
	switch src.Kind {
	case KindLocal:
		data, err := os.ReadFile(src.Locator)
		if err != nil {
			return nil, fmt.Errorf("read local file: %w", err)
		}
		return data, nil
	case KindObjectStore:
		bucket, key, err := objstore.SplitURI(src.Locator)
		if err != nil {
			return nil, err
		}
		data, err := e.store.Get(ctx, bucket, key)
		if err != nil {
			return nil, err
		}
		return data, nil
	}
	return nil, fmt.Errorf("unknown source kind %q", src.Kind)
}

// inferValue applies best-effort scalar inference to a raw string cell:
// empty becomes null, numeric strings become numbers, everything else stays
// a string.
func inferValue(raw string) recordset.Value {
	if raw == "" {
		return recordset.Null()
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return recordset.Num(f)
	}
	return recordset.Str(raw)
}
