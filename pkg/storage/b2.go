package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/kurin/blazer/b2"
)

// B2Storage keeps blobs in a Backblaze B2 bucket under a key prefix.
type B2Storage struct {
	client *b2.Client
	bucket *b2.Bucket
	prefix string
}

// NewB2Storage authorises against B2 and resolves the bucket.
func NewB2Storage(ctx context.Context, keyID, appKey, bucketName, prefix string) (*B2Storage, error) {
	if keyID == "" || appKey == "" || bucketName == "" {
		return nil, fmt.Errorf("b2 key id, app key and bucket are required")
	}
	client, err := b2.NewClient(ctx, keyID, appKey)
	if err != nil {
		return nil, fmt.Errorf("create b2 client: %w", err)
	}
	bucket, err := client.Bucket(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("get b2 bucket: %w", err)
	}
	return &B2Storage{client: client, bucket: bucket, prefix: prefix}, nil
}

// Put uploads data under key.
func (s *B2Storage) Put(ctx context.Context, key string, data []byte) error {
	w := s.bucket.Object(s.prefix + key).NewWriter(ctx)
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return fmt.Errorf("write b2 object: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close b2 writer: %w", err)
	}
	return nil
}

// Get downloads the object stored under key.
func (s *B2Storage) Get(ctx context.Context, key string) ([]byte, error) {
	r := s.bucket.Object(s.prefix + key).NewReader(ctx)
	defer r.Close() //nolint:errcheck
	data, err := io.ReadAll(r)
	if err != nil {
		if b2.IsNotExist(err) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("read b2 object: %w", err)
	}
	return data, nil
}

// Delete removes the object if it exists.
func (s *B2Storage) Delete(ctx context.Context, key string) error {
	if err := s.bucket.Object(s.prefix + key).Delete(ctx); err != nil && !b2.IsNotExist(err) {
		return fmt.Errorf("delete b2 object: %w", err)
	}
	return nil
}

// Keys lists objects under the configured prefix.
func (s *B2Storage) Keys(ctx context.Context) ([]string, error) {
	keys := make([]string, 0)
	iter := s.bucket.List(ctx, b2.ListPrefix(s.prefix))
	for iter.Next() {
		keys = append(keys, strings.TrimPrefix(iter.Object().Name(), s.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("list b2 objects: %w", err)
	}
	return keys, nil
}
