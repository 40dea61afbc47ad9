package badger

import (
	"context"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/openquill/answerbase/storage"
)

// EventRepository implements storage.EventRepository for BadgerDB.
type EventRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.EventRepository = (*EventRepository)(nil)

// NewEventRepository creates a new EventRepository.
func NewEventRepository(backend *Backend) (*EventRepository, error) {
	idSeq, err := backend.GetSequence(eventIDSeq)
	if err != nil {
		return nil, err
	}
	return &EventRepository{backend: backend, idSeq: idSeq}, nil
}

// Close releases the ID sequence.
func (r *EventRepository) Close() error {
	return r.idSeq.Release()
}

// AddEvent appends an event to the log.
func (r *EventRepository) AddEvent(ctx context.Context, event *storage.Event) (*storage.Event, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		nextID, err := r.idSeq.Next()
		if err != nil {
			return err
		}
		// BadgerDB sequences can return 0 on first call, so we skip it
		if nextID == 0 {
			nextID, err = r.idSeq.Next()
			if err != nil {
				return err
			}
		}
		event.Id = nextID
		if event.CreatedAt.IsZero() {
			event.CreatedAt = time.Now().UTC()
		}

		value, err := storage.MarshalEvent(event)
		if err != nil {
			return err
		}
		if err := tx.Set(makeEventKey(event.Id), value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return event, nil
}

// RecentEvents retrieves up to limit events, newest first.
func (r *EventRepository) RecentEvents(ctx context.Context, limit int) ([]*storage.Event, error) {
	var results []*storage.Event
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := eventRecordPrefix + ":"
		startKey := makeEventKey(^uint64(0))

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if !strings.HasPrefix(string(key), prefix) {
				break
			}
			var event *storage.Event
			err := iter.Item().Value(func(val []byte) error {
				var err error
				event, err = storage.UnmarshalEvent(val)
				return err
			})
			if err != nil {
				return err
			}
			results = append(results, event)
			if limit > 0 && len(results) >= limit {
				break
			}
		}
		return nil
	}, false)
	return results, err
}
