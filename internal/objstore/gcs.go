package objstore

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// GCS is the Google Cloud Storage implementation of Store. It assumes
// Application Default Credentials are configured.
type GCS struct {
	client *storage.Client
}

// NewGCS connects a storage client.
func NewGCS(ctx context.Context) (*GCS, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("objstore: create storage client: %w", err)
	}
	return &GCS{client: client}, nil
}

func (s *GCS) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	rc, err := s.client.Bucket(bucket).Object(key).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("objstore: read object %s: %w", JoinURI(bucket, key), err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("objstore: read bytes of %s: %w", JoinURI(bucket, key), err)
	}
	return data, nil
}

func (s *GCS) Put(ctx context.Context, bucket, key string, data []byte) error {
	w := s.client.Bucket(bucket).Object(key).NewWriter(ctx)
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("objstore: write object %s: %w", JoinURI(bucket, key), err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("objstore: finalize object %s: %w", JoinURI(bucket, key), err)
	}
	return nil
}

func (s *GCS) List(ctx context.Context, bucket, prefix string) ([]string, error) {
	var keys []string
	it := s.client.Bucket(bucket).Objects(ctx, &storage.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("objstore: list %s: %w", JoinURI(bucket, prefix), err)
		}
		keys = append(keys, attrs.Name)
	}
	return keys, nil
}

func (s *GCS) Delete(ctx context.Context, bucket, key string) error {
	if err := s.client.Bucket(bucket).Object(key).Delete(ctx); err != nil {
		return fmt.Errorf("objstore: delete object %s: %w", JoinURI(bucket, key), err)
	}
	return nil
}

func (s *GCS) Close() error {
	return s.client.Close()
}
