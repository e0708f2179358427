// Package objstore is the object-store boundary of the pipeline: a small
// get/put/list/delete interface with a Google Cloud Storage implementation
// and an in-memory fake for tests.
package objstore

import (
	"context"
	"fmt"
	"strings"
)

// Store provides blob operations against a bucket-addressed object store.
// This interface enables mocking and testing of storage functionality.
type Store interface {
	// Get downloads an object's bytes.
	Get(ctx context.Context, bucket, key string) ([]byte, error)

	// Put uploads an object, replacing any existing object at the key.
	Put(ctx context.Context, bucket, key string, data []byte) error

	// List returns the keys under the given prefix.
	List(ctx context.Context, bucket, prefix string) ([]string, error)

	// Delete removes an object.
	Delete(ctx context.Context, bucket, key string) error

	// Close releases the underlying client.
	Close() error
}

// URIScheme is the object-store URI scheme understood by SplitURI.
const URIScheme = "gs://"

// SplitURI splits "gs://bucket/path/to/object" into bucket and key.
func SplitURI(uri string) (bucket, key string, err error) {
	if !strings.HasPrefix(uri, URIScheme) {
		return "", "", fmt.Errorf("objstore: invalid URI %q: missing %s prefix", uri, URIScheme)
	}
	trimmed := strings.TrimPrefix(uri, URIScheme)
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("objstore: invalid URI %q: want %sbucket/key", uri, URIScheme)
	}
	return parts[0], parts[1], nil
}

// JoinURI builds the fully-qualified URI for a bucket and key.
func JoinURI(bucket, key string) string {
	return URIScheme + bucket + "/" + key
}
