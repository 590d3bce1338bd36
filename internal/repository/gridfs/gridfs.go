// Package gridfs stores listing photos in MongoDB GridFS.
package gridfs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/msomdec/campus-market/internal/domain"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const bucketName = "listing_images"

// Store implements domain.FileStore on a GridFS bucket. FileStore keys are
// used as GridFS file ids.
//
// A gridfs.Bucket keeps its deadlines and copy buffer on the struct, so every
// operation opens its own bucket handle. Opening one does no I/O.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ domain.FileStore = (*Store)(nil)

// New connects to MongoDB, verifies the connection and opens the bucket.
func New(ctx context.Context, uri, database string) (*Store, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &Store{client: client, db: client.Database(database)}, nil
}

// bucket opens a bucket handle bounded by ctx's deadline, if it has one.
func (s *Store) bucket(ctx context.Context) (*gridfs.Bucket, error) {
	b, err := gridfs.NewBucket(s.db, options.GridFSBucket().SetName(bucketName))
	if err != nil {
		return nil, fmt.Errorf("open gridfs bucket: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		b.SetReadDeadline(deadline)
		b.SetWriteDeadline(deadline)
	}
	return b, nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Save replaces any file stored under key.
func (s *Store) Save(ctx context.Context, key string, data []byte) error {
	if err := s.Delete(ctx, key); err != nil {
		return err
	}
	b, err := s.bucket(ctx)
	if err != nil {
		return err
	}
	if err := b.UploadFromStreamWithID(key, key, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("upload %q: %w", key, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.bucket(ctx)
	if err != nil {
		return nil, err
	}
	stream, err := b.OpenDownloadStream(key)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("open %q: %w", key, err)
	}
	defer stream.Close()
	if deadline, ok := ctx.Deadline(); ok {
		stream.SetReadDeadline(deadline)
	}

	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", key, err)
	}
	return data, nil
}

// Delete is a no-op for missing keys.
func (s *Store) Delete(ctx context.Context, key string) error {
	b, err := s.bucket(ctx)
	if err != nil {
		return err
	}
	if err := b.DeleteContext(ctx, key); err != nil && !errors.Is(err, gridfs.ErrFileNotFound) {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}
