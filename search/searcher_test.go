package search

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/openquill/answerbase/ai"
	"github.com/openquill/answerbase/ai/mock"
	"github.com/openquill/answerbase/core"
	"github.com/openquill/answerbase/storage"
	"github.com/openquill/answerbase/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) storage.NodeRepository {
	t.Helper()
	nodeRepo, eventRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		eventRepo.Close()
		nodeRepo.Close()
		backend.Close()
	})
	return nodeRepo
}

func seedNodes(t *testing.T, repo storage.NodeRepository, nodes ...*core.Node) {
	t.Helper()
	ctx := context.Background()
	for _, n := range nodes {
		_, err := repo.PutNode(ctx, n)
		require.NoError(t, err)
	}
}

func TestSearchValidation(t *testing.T) {
	searcher := NewSearcher(newTestRepo(t))

	_, err := searcher.Search(context.Background(), Request{Query: "  ", Category: ""})
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestSearchRanking(t *testing.T) {
	repo := newTestRepo(t)
	seedNodes(t, repo,
		&core.Node{Id: "what-is-gravity", Title: "What is gravity?", Published: true},
		&core.Node{Id: "gravity", Title: "Gravity", Published: true},
		&core.Node{Id: "magnetism", Title: "Magnetism", Published: true},
	)
	searcher := NewSearcher(repo)

	resp, err := searcher.Search(context.Background(), Request{Query: "gravity"})
	require.NoError(t, err)

	// Exact title outranks substring; non-matching candidates are filtered
	// out by the storage contains query.
	require.Len(t, resp.Nodes, 2)
	assert.Equal(t, "gravity", resp.Nodes[0].Id)
	assert.Equal(t, "what-is-gravity", resp.Nodes[1].Id)
}

func TestSearchCategoryOnly(t *testing.T) {
	repo := newTestRepo(t)
	seedNodes(t, repo,
		&core.Node{Id: "older", Title: "Older", Category: "physics", Published: true},
		&core.Node{Id: "newer", Title: "Newer", Category: "physics", Published: true},
		&core.Node{Id: "other", Title: "Other", Category: "biology", Published: true},
	)
	searcher := NewSearcher(repo)

	resp, err := searcher.Search(context.Background(), Request{Category: "physics"})
	require.NoError(t, err)

	// Empty query: unscored, recency order (last write first).
	require.Len(t, resp.Nodes, 2)
	assert.Equal(t, "newer", resp.Nodes[0].Id)
	assert.Equal(t, "older", resp.Nodes[1].Id)
}

func TestSearchUnpublishedExcluded(t *testing.T) {
	repo := newTestRepo(t)
	seedNodes(t, repo,
		&core.Node{Id: "draft-node", Title: "Gravity draft", Published: false},
	)
	searcher := NewSearcher(repo)

	resp, err := searcher.Search(context.Background(), Request{Query: "gravity"})
	require.NoError(t, err)
	assert.Empty(t, resp.Nodes)
	assert.Equal(t, "No results found. Try rephrasing your question.", resp.Summary)
}

func TestSearchNoResultsGuidance(t *testing.T) {
	repo := newTestRepo(t)
	annotator := mock.NewMockAnnotator()
	searcher := NewSearcher(repo, WithAnnotator(annotator))

	resp, err := searcher.Search(context.Background(), Request{Query: "nothing matches this"})
	require.NoError(t, err)

	assert.NotNil(t, resp.Nodes)
	assert.Empty(t, resp.Nodes)
	assert.Equal(t, "No results found. Try rephrasing your question.", resp.Summary)
	assert.Equal(t, 0, annotator.CallCount(), "enrichment must not run on an empty result set")
}

func TestSearchAnnotation(t *testing.T) {
	repo := newTestRepo(t)
	seedNodes(t, repo,
		&core.Node{Id: "gravity", Title: "Gravity", Layer1: "Masses attract.", Published: true},
	)

	t.Run("explanations matched by title", func(t *testing.T) {
		annotator := mock.NewMockAnnotator()
		searcher := NewSearcher(repo, WithAnnotator(annotator))

		resp, err := searcher.Search(context.Background(), Request{Query: "gravity"})
		require.NoError(t, err)
		require.Len(t, resp.Nodes, 1)
		assert.Equal(t, "mock relevance for Gravity", resp.Nodes[0].Relevance)
		assert.Equal(t, "mock summary for gravity", resp.Summary)
	})

	t.Run("annotator failure degrades", func(t *testing.T) {
		annotator := mock.NewMockAnnotator()
		annotator.AnnotateFunc = func(ctx context.Context, query string, candidates []ai.Candidate) (*ai.Annotation, error) {
			return nil, errors.New("upstream returned status 500")
		}
		searcher := NewSearcher(repo, WithAnnotator(annotator))

		resp, err := searcher.Search(context.Background(), Request{Query: "gravity"})
		require.NoError(t, err, "enrichment failure must never fail the search")
		require.Len(t, resp.Nodes, 1)
		assert.Empty(t, resp.Nodes[0].Relevance)
		assert.Empty(t, resp.Summary)
	})
}

func TestSearchLimitClamp(t *testing.T) {
	repo := newTestRepo(t)
	var nodes []*core.Node
	for _, id := range []string{"a", "b", "c"} {
		nodes = append(nodes, &core.Node{Id: id, Title: "gravity " + id, Published: true})
	}
	seedNodes(t, repo, nodes...)
	searcher := NewSearcher(repo)

	resp, err := searcher.Search(context.Background(), Request{Query: "gravity", Limit: 2})
	require.NoError(t, err)
	assert.Len(t, resp.Nodes, 2)

	resp, err = searcher.Search(context.Background(), Request{Query: "gravity", Limit: -5})
	require.NoError(t, err)
	assert.Len(t, resp.Nodes, 3, "non-positive limit falls back to the default")
}

type captureRecorder struct {
	mu    sync.Mutex
	query string
	ids   []string
	calls int
}

func (c *captureRecorder) RecordSearch(query string, resultIDs []string, took time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = query
	c.ids = resultIDs
	c.calls++
}

func TestSearchRecordsEvent(t *testing.T) {
	repo := newTestRepo(t)
	seedNodes(t, repo,
		&core.Node{Id: "gravity", Title: "Gravity", Published: true},
	)
	recorder := &captureRecorder{}
	searcher := NewSearcher(repo, WithRecorder(recorder))

	_, err := searcher.Search(context.Background(), Request{Query: "gravity"})
	require.NoError(t, err)

	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	assert.Equal(t, 1, recorder.calls)
	assert.Equal(t, "gravity", recorder.query)
	assert.Equal(t, []string{"gravity"}, recorder.ids)
}

func TestSearchProjection(t *testing.T) {
	repo := newTestRepo(t)
	seedNodes(t, repo,
		&core.Node{
			Id: "gravity", Title: "Gravity", Layer1: "Masses attract.",
			Category: "physics", Keywords: "gravity", Published: true,
		},
	)
	searcher := NewSearcher(repo)

	resp, err := searcher.Search(context.Background(), Request{Query: "gravity"})
	require.NoError(t, err)
	require.Len(t, resp.Nodes, 1)

	node := resp.Nodes[0]
	assert.Equal(t, "gravity", node.Id)
	assert.Equal(t, "Gravity", node.Title)
	assert.Equal(t, "Masses attract.", node.Layer1)
	assert.Equal(t, "physics", node.Category)
}
