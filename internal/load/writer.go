package load

import (
	"context"
	"fmt"

	"github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/dvloznov/finance-etl/internal/objstore"
	"github.com/dvloznov/finance-etl/internal/recordset"
)

// PartObjectName is the single parquet object written per partition.
const PartObjectName = "part-00000.parquet"

const parallelism = 4

// LoadError reports a serialization or write failure. No partial-write
// cleanup is attempted.
type LoadError struct {
	Location string
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Location, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Writer serializes record sets to snappy-compressed parquet in the object
// store.
type Writer struct {
	store objstore.Store
}

// NewWriter creates a Writer reusing the session's store.
func NewWriter(store objstore.Store) *Writer {
	return &Writer{store: store}
}

// Write replaces the partition at plan with the record set: any prior
// objects under the partition key are deleted, then one parquet object is
// put. Returns the fully-qualified output location and the row count.
func (w *Writer) Write(ctx context.Context, t recordset.Table, plan Plan) (string, int, error) {
	location := plan.Location()

	data, err := encodeParquet(t)
	if err != nil {
		return "", 0, &LoadError{Location: location, Err: err}
	}

	// Full overwrite of the partition, not an append.
	prior, err := w.store.List(ctx, plan.Bucket, plan.Key)
	if err != nil {
		return "", 0, &LoadError{Location: location, Err: err}
	}
	for _, key := range prior {
		if err := w.store.Delete(ctx, plan.Bucket, key); err != nil {
			return "", 0, &LoadError{Location: location, Err: err}
		}
	}

	if err := w.store.Put(ctx, plan.Bucket, plan.Key+PartObjectName, data); err != nil {
		return "", 0, &LoadError{Location: location, Err: err}
	}
	return location, t.Len(), nil
}

// encodeParquet serializes the record set with a schema derived from the
// observed column kinds, snappy-compressed.
func encodeParquet(t recordset.Table) ([]byte, error) {
	md := make([]string, 0, len(t.Columns()))
	for _, c := range t.Columns() {
		md = append(md, schemaTag(t, c))
	}

	fw := buffer.NewBufferFile()
	pw, err := writer.NewCSVWriter(md, fw, parallelism)
	if err != nil {
		return nil, fmt.Errorf("create parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	rec := make([]*string, len(t.Columns()))
	for r := 0; r < t.Len(); r++ {
		row := t.Row(r)
		for i, v := range row {
			if v.IsNull() {
				rec[i] = nil
				continue
			}
			s := v.String()
			rec[i] = &s
		}
		if err := pw.WriteString(rec); err != nil {
			return nil, fmt.Errorf("write row %d: %w", r, err)
		}
	}

	if err := pw.WriteStop(); err != nil {
		return nil, fmt.Errorf("finalize parquet: %w", err)
	}
	if err := fw.Close(); err != nil {
		return nil, fmt.Errorf("close parquet buffer: %w", err)
	}
	return fw.Bytes(), nil
}

// schemaTag maps a column to its parquet field tag. A column whose non-null
// values share one scalar kind gets that kind's physical type; mixed-kind
// and all-null columns fall back to strings. Every field is OPTIONAL since
// any cell may be null.
func schemaTag(t recordset.Table, col string) string {
	kind := recordset.KindNull
	for r := 0; r < t.Len(); r++ {
		v := t.Value(r, col)
		if v.IsNull() {
			continue
		}
		if kind == recordset.KindNull {
			kind = v.Kind()
			continue
		}
		if kind != v.Kind() {
			kind = recordset.KindString
			break
		}
	}

	switch kind {
	case recordset.KindNumber:
		return fmt.Sprintf("name=%s, type=DOUBLE, repetitiontype=OPTIONAL", col)
	case recordset.KindInt:
		return fmt.Sprintf("name=%s, type=INT64, repetitiontype=OPTIONAL", col)
	default:
		// Strings and dates; dates render as YYYY-MM-DD.
		return fmt.Sprintf("name=%s, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL", col)
	}
}
