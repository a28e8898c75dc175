package receipt

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

// Bucket layout:
//
//	records/<chat_id>/<id> -> record JSON
//	ids/<id>               -> chat_id
//	outputs/<output_file>  -> id
var (
	recordsBucket = []byte("records")
	idsBucket     = []byte("ids")
	outputsBucket = []byte("outputs")
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = errors.New("record not found")

// DB defines the interface for database operations
type DB interface {
	// SaveRecord saves a record to the database. An earlier record writing the
	// same output file is removed and returned.
	SaveRecord(record *Record) (*Record, error)

	// GetRecord retrieves a record by ID
	GetRecord(id string) (*Record, error)

	// ListRecords returns the records of one chat, or of every chat when
	// chatID is empty
	ListRecords(chatID string) ([]*Record, error)

	// DeleteRecord removes a record from the database
	DeleteRecord(id string) error

	// Close closes the database connection
	Close() error
}

// BoltDB implements the DB interface using BoltDB, with one nested bucket per chat
type BoltDB struct {
	db *bbolt.DB
}

// NewBoltDB creates a new BoltDB instance
func NewBoltDB(path string) (*BoltDB, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{recordsBucket, idsBucket, outputsBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &BoltDB{db: db}, nil
}

func chatKey(chatID string) []byte {
	if chatID == "" {
		return []byte(DefaultChatID)
	}
	return []byte(chatID)
}

// SaveRecord saves a record, replacing any record that points at the same
// output file
func (b *BoltDB) SaveRecord(record *Record) (*Record, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("marshaling record: %w", err)
	}

	var replaced *Record
	err = b.db.Update(func(tx *bbolt.Tx) error {
		if record.OutputFile != "" {
			prevID := tx.Bucket(outputsBucket).Get([]byte(record.OutputFile))
			if prevID != nil && string(prevID) != record.ID {
				prev, err := getRecord(tx, string(prevID))
				switch {
				case err == nil:
					if err := deleteRecord(tx, prev); err != nil {
						return err
					}
					replaced = prev
				case !errors.Is(err, ErrNotFound):
					return err
				}
			}
		}

		// An overwritten record may have moved to another chat or output
		if old, err := getRecord(tx, record.ID); err == nil {
			if err := deleteRecord(tx, old); err != nil {
				return err
			}
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}

		chat, err := tx.Bucket(recordsBucket).CreateBucketIfNotExists(chatKey(record.ChatID))
		if err != nil {
			return fmt.Errorf("creating chat bucket: %w", err)
		}
		if err := chat.Put([]byte(record.ID), data); err != nil {
			return err
		}
		if err := tx.Bucket(idsBucket).Put([]byte(record.ID), chatKey(record.ChatID)); err != nil {
			return err
		}
		if record.OutputFile != "" {
			return tx.Bucket(outputsBucket).Put([]byte(record.OutputFile), []byte(record.ID))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return replaced, nil
}

// GetRecord retrieves a record by ID
func (b *BoltDB) GetRecord(id string) (*Record, error) {
	var record *Record
	err := b.db.View(func(tx *bbolt.Tx) error {
		var err error
		record, err = getRecord(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// ListRecords returns records in chat and key order
func (b *BoltDB) ListRecords(chatID string) ([]*Record, error) {
	records := make([]*Record, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		all := tx.Bucket(recordsBucket)
		if chatID != "" {
			chat := all.Bucket(chatKey(chatID))
			if chat == nil {
				return nil
			}
			return appendRecords(chat, &records)
		}
		return all.ForEachBucket(func(k []byte) error {
			return appendRecords(all.Bucket(k), &records)
		})
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// DeleteRecord removes a record from the database. Deleting a missing record
// is not an error.
func (b *BoltDB) DeleteRecord(id string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		record, err := getRecord(tx, id)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return deleteRecord(tx, record)
	})
}

// Close closes the database connection
func (b *BoltDB) Close() error {
	return b.db.Close()
}

func getRecord(tx *bbolt.Tx, id string) (*Record, error) {
	chatID := tx.Bucket(idsBucket).Get([]byte(id))
	if chatID == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	chat := tx.Bucket(recordsBucket).Bucket(chatID)
	if chat == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	data := chat.Get([]byte(id))
	if data == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("unmarshaling record %s: %w", id, err)
	}
	return &record, nil
}

func deleteRecord(tx *bbolt.Tx, record *Record) error {
	if chat := tx.Bucket(recordsBucket).Bucket(chatKey(record.ChatID)); chat != nil {
		if err := chat.Delete([]byte(record.ID)); err != nil {
			return err
		}
	}
	if err := tx.Bucket(idsBucket).Delete([]byte(record.ID)); err != nil {
		return err
	}
	// Only drop the output entry if it still points here
	outputs := tx.Bucket(outputsBucket)
	if record.OutputFile != "" && string(outputs.Get([]byte(record.OutputFile))) == record.ID {
		return outputs.Delete([]byte(record.OutputFile))
	}
	return nil
}

func appendRecords(bucket *bbolt.Bucket, records *[]*Record) error {
	return bucket.ForEach(func(k, v []byte) error {
		var record Record
		if err := json.Unmarshal(v, &record); err != nil {
			return fmt.Errorf("unmarshaling record %s: %w", k, err)
		}
		*records = append(*records, &record)
		return nil
	})
}
