package badger

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/openquill/answerbase/core"
	"github.com/openquill/answerbase/storage"
)

// NodeRepository implements storage.NodeRepository for BadgerDB.
type NodeRepository struct {
	backend *Backend
}

var _ storage.NodeRepository = (*NodeRepository)(nil)

// NewNodeRepository creates a new NodeRepository.
func NewNodeRepository(backend *Backend) *NodeRepository {
	return &NodeRepository{backend: backend}
}

// Close is a no-op; the repository holds no resources beyond the backend.
func (r *NodeRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *NodeRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// PutNode creates or replaces a node by id.
func (r *NodeRepository) PutNode(ctx context.Context, node *core.Node) (*core.Node, error) {
	if err := core.ValidateNode(node); err != nil {
		return nil, err
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		old, err := r.readNode(tx, makeNodeKey(node.Id))
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if old != nil {
			node.CreatedAt = old.CreatedAt
			if err := tx.Delete(makeNodeRecencyKey(old.UpdatedAt, old.Id)); err != nil {
				return err
			}
		} else {
			node.CreatedAt = now
		}
		node.UpdatedAt = now

		deriveNodeState(node)
		return r.writeNode(tx, node)
	}, true)
	if err != nil {
		return nil, err
	}
	return node, nil
}

// UpdateNode applies a partial update to an existing node.
func (r *NodeRepository) UpdateNode(ctx context.Context, id string, patch *storage.NodePatch) (*core.Node, error) {
	var result *core.Node
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		node, err := r.readNode(tx, makeNodeKey(id))
		if err != nil {
			return err
		}
		if node == nil {
			return storage.ErrNotFound
		}

		if err := tx.Delete(makeNodeRecencyKey(node.UpdatedAt, node.Id)); err != nil {
			return err
		}

		applyPatch(node, patch)
		if err := core.ValidateNode(node); err != nil {
			return err
		}

		node.UpdatedAt = time.Now().UTC()
		deriveNodeState(node)
		if err := r.writeNode(tx, node); err != nil {
			return err
		}
		result = node
		return nil
	}, true)
	return result, err
}

// DeleteNode removes a node and its recency index entry.
func (r *NodeRepository) DeleteNode(ctx context.Context, id string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeNodeKey(id)
		node, err := r.readNode(tx, key)
		if err != nil {
			return err
		}
		if node == nil {
			return storage.ErrNotFound
		}
		if err := tx.Delete(makeNodeRecencyKey(node.UpdatedAt, node.Id)); err != nil {
			return err
		}
		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetNode retrieves a single node by id.
func (r *NodeRepository) GetNode(ctx context.Context, id string) (*core.Node, error) {
	var result *core.Node
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readNode(tx, makeNodeKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// ListNodes retrieves nodes matching the query, most recently updated first.
// The recency index drives iteration order; filters are applied per node.
func (r *NodeRepository) ListNodes(ctx context.Context, q storage.NodeQuery) ([]*core.Node, error) {
	if q.Limit < 0 {
		return nil, storage.ErrInvalidQuery
	}

	var results []*core.Node
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		startKey := makePartialNodeRecencyKey(time.Date(9999, 12, 31, 23, 59, 59, 999999999, time.UTC))
		prefix := []byte(nodeRecencyPrefix + ":")

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if len(key) < len(prefix)+8 || !strings.HasPrefix(string(key), string(prefix)) {
				break
			}

			id := string(key[len(prefix)+8:])
			node, err := r.readNode(tx, makeNodeKey(id))
			if err != nil {
				return err
			}
			if node == nil || !matchesQuery(node, q) {
				continue
			}

			results = append(results, node)
			if q.Limit > 0 && len(results) >= q.Limit {
				break
			}
		}
		return nil
	}, false)

	return results, err
}

// Categories returns the distinct categories of published nodes, sorted.
func (r *NodeRepository) Categories(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(nodeRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var node *core.Node
			err := iter.Item().Value(func(val []byte) error {
				var err error
				node, err = storage.UnmarshalNode(val)
				return err
			})
			if err != nil {
				return err
			}
			if node.Published && node.Category != "" {
				seen[node.Category] = struct{}{}
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	categories := make([]string, 0, len(seen))
	for c := range seen {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return categories, nil
}

// Helper methods

// readNode reads a node from the transaction. Returns nil when absent.
func (r *NodeRepository) readNode(tx *badger.Txn, key []byte) (*core.Node, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var node *core.Node
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		node, unmarshalErr = storage.UnmarshalNode(val)
		return unmarshalErr
	})
	return node, err
}

// writeNode stores the record and its recency index entry, then commits.
func (r *NodeRepository) writeNode(tx *badger.Txn, node *core.Node) error {
	value, err := storage.MarshalNode(node)
	if err != nil {
		return err
	}
	if err := tx.Set(makeNodeKey(node.Id), value); err != nil {
		return err
	}
	if err := tx.Set(makeNodeRecencyKey(node.UpdatedAt, node.Id), []byte(node.Id)); err != nil {
		return err
	}
	return tx.Commit()
}

// deriveNodeState recomputes everything the server owns: the search blob,
// reasoning-bullet ids, and normalized related-question references.
// Client-supplied values for these fields are overwritten on every write.
func deriveNodeState(node *core.Node) {
	for i := range node.Layer2.Reasoning {
		node.Layer2.Reasoning[i].Id = core.BulletSlug(node.Layer2.Reasoning[i].Title)
	}
	var related []string
	for _, ref := range node.Layer3.RelatedQuestions {
		if ref = core.NormalizeNodeRef(ref); ref != "" {
			related = append(related, ref)
		}
	}
	node.Layer3.RelatedQuestions = related
	core.RebuildSearchBlob(node)
}

// applyPatch merges non-nil patch fields into the node.
func applyPatch(node *core.Node, patch *storage.NodePatch) {
	if patch == nil {
		return
	}
	if patch.Title != nil {
		node.Title = *patch.Title
	}
	if patch.Category != nil {
		node.Category = *patch.Category
	}
	if patch.Keywords != nil {
		node.Keywords = *patch.Keywords
	}
	if patch.AltPhrasings != nil {
		node.AltPhrasings = *patch.AltPhrasings
	}
	if patch.Layer1 != nil {
		node.Layer1 = *patch.Layer1
	}
	if patch.Layer2 != nil {
		node.Layer2 = *patch.Layer2
	}
	if patch.Layer3 != nil {
		node.Layer3 = *patch.Layer3
	}
	if patch.Published != nil {
		node.Published = *patch.Published
	}
	if patch.Tier != nil {
		node.Tier = *patch.Tier
	}
	if patch.SpineGates != nil {
		node.SpineGates = *patch.SpineGates
	}
}

// matchesQuery applies NodeQuery filters to a single node.
func matchesQuery(node *core.Node, q storage.NodeQuery) bool {
	if q.PublishedOnly && !node.Published {
		return false
	}
	if q.Category != "" && node.Category != q.Category {
		return false
	}
	if q.Contains != "" {
		needle := strings.ToLower(q.Contains)
		haystacks := []string{node.Title, node.Keywords, node.Layer1, node.SearchBlob}
		found := false
		for _, h := range haystacks {
			if strings.Contains(strings.ToLower(h), needle) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
