package storage

import (
	"context"
	"time"

	"github.com/openquill/answerbase/core"
)

// NodeQuery filters and bounds a node listing. The zero value lists every
// node in recency order (most recently updated first).
type NodeQuery struct {
	// PublishedOnly restricts results to published nodes.
	PublishedOnly bool

	// Category, when non-empty, requires exact category equality.
	Category string

	// Contains, when non-empty, requires a case-insensitive substring match
	// against title, keywords, layer1, or the search blob.
	Contains string

	// Limit caps the number of results. Zero means no cap.
	Limit int
}

// NodePatch is a partial node update. Nil fields are left untouched;
// non-nil fields replace the stored value, including replacement with an
// empty value. The node id is immutable and therefore absent here.
type NodePatch struct {
	Title        *string
	Category     *string
	Keywords     *string
	AltPhrasings *[]string
	Layer1       *string
	Layer2       *core.Layer2
	Layer3       *core.Layer3
	Published    *bool
	Tier         *int
	SpineGates   *[]string
}

// Event is an analytics record. Search operations append these
// fire-and-forget; nothing in the serving path reads them.
type Event struct {
	Id          uint64    `json:"id"`
	Type        string    `json:"type"`
	Query       string    `json:"query,omitempty"`
	ResultIds   []string  `json:"result_ids,omitempty"`
	ResultCount int       `json:"result_count"`
	TookMs      int64     `json:"took_ms"`
	CreatedAt   time.Time `json:"created_at"`
}

// NodeRepository provides operations for managing content nodes.
// Implementations must be thread-safe.
type NodeRepository interface {
	// PutNode creates or replaces a node by id.
	// Validates the node, recomputes the search blob and reasoning-bullet
	// ids, normalizes related-question references, and maintains timestamps
	// (CreatedAt survives replacement). Client-supplied derived state is
	// overwritten.
	PutNode(ctx context.Context, node *core.Node) (*core.Node, error)

	// UpdateNode applies a partial update to an existing node and returns
	// the merged result with derived state recomputed.
	// Returns ErrNotFound if the node doesn't exist.
	UpdateNode(ctx context.Context, id string, patch *NodePatch) (*core.Node, error)

	// DeleteNode removes a node and its index entries.
	// Returns ErrNotFound if the node doesn't exist.
	DeleteNode(ctx context.Context, id string) error

	// GetNode retrieves a single node by id.
	// Returns ErrNotFound if the node doesn't exist.
	GetNode(ctx context.Context, id string) (*core.Node, error)

	// ListNodes retrieves nodes matching the query, most recently
	// updated first.
	ListNodes(ctx context.Context, q NodeQuery) ([]*core.Node, error)

	// Categories returns the distinct categories of published nodes, sorted.
	Categories(ctx context.Context) ([]string, error)

	// WithTransaction executes fn within a single write transaction.
	// If fn returns an error, nothing is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the repository and releases resources.
	Close() error
}

// EventRepository provides operations for the analytics event log.
type EventRepository interface {
	// AddEvent appends an event, generating its id and CreatedAt.
	AddEvent(ctx context.Context, event *Event) (*Event, error)

	// RecentEvents retrieves up to limit events, newest first.
	RecentEvents(ctx context.Context, limit int) ([]*Event, error)

	// Close closes the repository and releases resources.
	Close() error
}
