package objstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitURI(t *testing.T) {
	tests := []struct {
		uri     string
		bucket  string
		key     string
		wantErr bool
	}{
		{uri: "gs://my-bucket/path/to/file.csv", bucket: "my-bucket", key: "path/to/file.csv"},
		{uri: "gs://b/k", bucket: "b", key: "k"},
		{uri: "s3://bucket/key", wantErr: true},
		{uri: "gs://bucket-only", wantErr: true},
		{uri: "gs:///key", wantErr: true},
		{uri: "", wantErr: true},
	}
	for _, tt := range tests {
		bucket, key, err := SplitURI(tt.uri)
		if tt.wantErr {
			require.Error(t, err, tt.uri)
			continue
		}
		require.NoError(t, err, tt.uri)
		require.Equal(t, tt.bucket, bucket)
		require.Equal(t, tt.key, key)
	}
}

func TestJoinURI(t *testing.T) {
	require.Equal(t, "gs://b/processed_data/date=x/part-00000.parquet",
		JoinURI("b", "processed_data/date=x/part-00000.parquet"))
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	require.NoError(t, s.Put(ctx, "b", "prefix/a.txt", []byte("one")))
	require.NoError(t, s.Put(ctx, "b", "prefix/b.txt", []byte("two")))
	require.NoError(t, s.Put(ctx, "b", "other/c.txt", []byte("three")))

	data, err := s.Get(ctx, "b", "prefix/a.txt")
	require.NoError(t, err)
	require.Equal(t, []byte("one"), data)

	keys, err := s.List(ctx, "b", "prefix/")
	require.NoError(t, err)
	require.Equal(t, []string{"prefix/a.txt", "prefix/b.txt"}, keys)

	require.NoError(t, s.Delete(ctx, "b", "prefix/a.txt"))
	_, err = s.Get(ctx, "b", "prefix/a.txt")
	require.Error(t, err)
	require.Error(t, s.Delete(ctx, "b", "prefix/a.txt"))

	require.False(t, s.Closed())
	require.NoError(t, s.Close())
	require.True(t, s.Closed())
}
