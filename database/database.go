package database

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"time"

	"github.com/abiiranathan/pdfcount/logger"
	"github.com/abiiranathan/pdfcount/pdf"
	bolt "go.etcd.io/bbolt"
)

const pagesBucket = "pages"

// Cache stores extracted page texts in a bbolt file.
// It is safe for concurrent use.
type Cache struct {
	store  *bolt.DB
	logger logger.Logger
}

// Open opens or creates the cache file at path.
func Open(path string, logger logger.Logger) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		logger.Error("failed to create cache directory", "err", err.Error(), "path", path)
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	store, err := bolt.Open(path, 0600, &bolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		logger.Error("failed to open cache", "err", err.Error(), "path", path)
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	cache := &Cache{
		store:  store,
		logger: logger,
	}

	if err := cache.initBucket(); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to initialize bucket: %w", err)
	}
	return cache, nil
}

func (c *Cache) initBucket() error {
	return c.store.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(pagesBucket))
		if err != nil {
			c.logger.Error("failed to create bucket", "err", err.Error())
			return fmt.Errorf("failed to create bucket: %w", err)
		}
		return nil
	})
}

// Key identifies an extraction by backend, file and page selection.
// The path hash keeps keys short; Entry.Path guards against collisions.
func Key(backend, absPath string, pages pdf.PageRange) string {
	h := fnv.New32a()
	h.Write([]byte(absPath))
	return fmt.Sprintf("%s:%08x:%s", backend, h.Sum32(), pages.String())
}

func (c *Cache) Put(key string, entry *Entry) error {
	if key == "" {
		return &InvalidKeyError{Key: key, Reason: "key cannot be empty"}
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(entry); err != nil {
		return fmt.Errorf("error encoding entry: %w", err)
	}

	return c.store.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(pagesBucket))
		if bucket == nil {
			return fmt.Errorf("bucket not found")
		}

		if err := bucket.Put([]byte(key), buf.Bytes()); err != nil {
			c.logger.Error("failed to set key", "key", key, "err", err.Error())
			return fmt.Errorf("failed to set key %s: %w", key, err)
		}
		return nil
	})
}

func (c *Cache) Get(key string) (*Entry, error) {
	if key == "" {
		return nil, &InvalidKeyError{Key: key, Reason: "key cannot be empty"}
	}

	var value []byte
	err := c.store.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(pagesBucket))
		if bucket == nil {
			return fmt.Errorf("bucket not found")
		}

		v := bucket.Get([]byte(key))
		if v == nil {
			return &NotFoundError{Key: key}
		}

		// v is only valid inside the transaction
		value = make([]byte, len(v))
		copy(value, v)
		return nil
	})
	if err != nil {
		return nil, err
	}

	var entry Entry
	if err := gob.NewDecoder(bytes.NewReader(value)).Decode(&entry); err != nil {
		return nil, fmt.Errorf("error decoding entry %s: %w", key, err)
	}
	return &entry, nil
}

func (c *Cache) Delete(key string) error {
	if key == "" {
		return &InvalidKeyError{Key: key, Reason: "key cannot be empty"}
	}

	return c.store.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(pagesBucket))
		if bucket == nil {
			return fmt.Errorf("bucket not found")
		}
		return bucket.Delete([]byte(key))
	})
}

func (c *Cache) Close() error {
	if c.store != nil {
		return c.store.Close()
	}
	return nil
}
