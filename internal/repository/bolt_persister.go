package repository

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"
)

// BoltBucket is the bbolt bucket holding documents.
var BoltBucket = []byte("documents")

// BoltPersister stores the document as one value inside an embedded bbolt database.
type BoltPersister struct {
	db  *bbolt.DB
	key []byte
}

// NewBoltPersister wraps an opened bbolt database.
func NewBoltPersister(db *bbolt.DB, key string) *BoltPersister {
	return &BoltPersister{db: db, key: []byte(key)}
}

// Load copies the stored value out of the read transaction.
func (p *BoltPersister) Load(_ context.Context) ([]byte, error) {
	var raw []byte
	err := p.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(BoltBucket)
		if b == nil {
			return ErrDocumentNotFound
		}
		v := b.Get(p.key)
		if v == nil {
			return ErrDocumentNotFound
		}
		raw = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// Save replaces the stored value.
func (p *BoltPersister) Save(_ context.Context, raw []byte) error {
	err := p.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(BoltBucket)
		if err != nil {
			return err
		}
		return b.Put(p.key, raw)
	})
	if err != nil {
		return fmt.Errorf("save bolt document: %w", err)
	}
	return nil
}

// Location names the database file and key.
func (p *BoltPersister) Location() string {
	return fmt.Sprintf("bolt://%s#%s", p.db.Path(), p.key)
}

// Close releases the database file lock.
func (p *BoltPersister) Close() error {
	return p.db.Close()
}
