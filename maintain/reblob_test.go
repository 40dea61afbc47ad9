package maintain

import (
	"context"
	"io"
	"testing"

	"github.com/openquill/answerbase/core"
	"github.com/openquill/answerbase/storage"
	"github.com/openquill/answerbase/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRepo lets tests plant nodes with stale blobs, which the real
// repository never persists because its write path recomputes them.
type stubRepo struct {
	storage.NodeRepository
	nodes []*core.Node
	puts  []string
}

func (s *stubRepo) ListNodes(ctx context.Context, q storage.NodeQuery) ([]*core.Node, error) {
	return s.nodes, nil
}

func (s *stubRepo) PutNode(ctx context.Context, node *core.Node) (*core.Node, error) {
	s.puts = append(s.puts, node.Id)
	return node, nil
}

func TestReblobRewritesOnlyStaleNodes(t *testing.T) {
	fresh := &core.Node{Id: "fresh", Title: "Fresh", Keywords: "new"}
	core.RebuildSearchBlob(fresh)

	stale := &core.Node{Id: "stale", Title: "Stale", Keywords: "old", SearchBlob: "legacy blob format"}

	repo := &stubRepo{nodes: []*core.Node{fresh, stale}}
	reblobber := NewReblobber(repo, nil, io.Discard)

	report, err := reblobber.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 1, report.Rewritten)
	assert.Equal(t, []string{"stale"}, repo.puts, "up-to-date nodes are not touched")
}

func TestReblobAgainstRealStore(t *testing.T) {
	nodeRepo, eventRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		eventRepo.Close()
		nodeRepo.Close()
		backend.Close()
	})
	ctx := context.Background()

	_, err = nodeRepo.PutNode(ctx, &core.Node{Id: "fresh", Title: "Fresh", Keywords: "new"})
	require.NoError(t, err)

	reblobber := NewReblobber(nodeRepo, nil, io.Discard)
	report, err := reblobber.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Total)
	assert.Equal(t, 0, report.Rewritten, "the write path keeps blobs current")
}

func TestReblobEmptyStore(t *testing.T) {
	repo := &stubRepo{}
	reblobber := NewReblobber(repo, nil, io.Discard)

	report, err := reblobber.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Total)
	assert.Equal(t, 0, report.Rewritten)
}
