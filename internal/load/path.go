// Package load plans the partitioned output location and writes the final
// record set there as snappy-compressed parquet.
package load

import (
	"fmt"
	"time"

	"github.com/dvloznov/finance-etl/internal/objstore"
)

// TimestampLayout formats the run capture timestamp used in partition paths.
const TimestampLayout = "20060102_150405"

// Plan is a fully-qualified output partition location.
type Plan struct {
	Bucket string
	// Key is the object key prefix of the partition, always ending in "/".
	Key string
}

// PlanPath computes the deterministic destination for a run:
// <bucket>/<prefix>/date=<YYYYMMDD_HHMMSS>/. A non-empty runID is appended
// to the partition directory so runs in the same wall-clock second cannot
// collide; without it two such runs overwrite each other, which the caller
// accepts. No existence check is performed.
func PlanPath(bucket, prefix string, capture time.Time, runID string) Plan {
	partition := "date=" + capture.Format(TimestampLayout)
	if runID != "" {
		partition += "_" + runID
	}
	return Plan{
		Bucket: bucket,
		Key:    fmt.Sprintf("%s/%s/", prefix, partition),
	}
}

// Location returns the fully-qualified URI of the partition.
func (p Plan) Location() string {
	return objstore.JoinURI(p.Bucket, p.Key)
}
