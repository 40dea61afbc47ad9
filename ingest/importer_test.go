package ingest

import (
	"context"
	"testing"

	"github.com/openquill/answerbase/storage"
	"github.com/openquill/answerbase/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestImporter(t *testing.T) (*Importer, storage.NodeRepository) {
	t.Helper()
	nodeRepo, eventRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		eventRepo.Close()
		nodeRepo.Close()
		backend.Close()
	})
	return NewImporter(nodeRepo), nodeRepo
}

func TestImportCSVAllOrNothing(t *testing.T) {
	importer, repo := newTestImporter(t)
	ctx := context.Background()

	report, err := importer.ImportCSV(ctx, "id,title\nfoo-bar,Foo Bar\n,Missing Id\n")
	require.NoError(t, err)

	assert.False(t, report.Committed)
	assert.NotEmpty(t, report.Errors)

	// The valid row must not have been written either.
	_, err = repo.GetNode(ctx, "foo-bar")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestImportCSVCommit(t *testing.T) {
	importer, repo := newTestImporter(t)
	ctx := context.Background()

	report, err := importer.ImportCSV(ctx, "id,title,layer1\na,Alpha,first answer\nb,Beta,second answer\n")
	require.NoError(t, err)
	assert.True(t, report.Committed)
	assert.Equal(t, 2, report.Created)

	node, err := repo.GetNode(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Alpha", node.Title)
	assert.Equal(t, "Alpha first answer", node.SearchBlob)
}

func TestImportCSVFingerprintIdempotence(t *testing.T) {
	importer, _ := newTestImporter(t)
	ctx := context.Background()

	csv := "id,title,layer1\na,Alpha,first answer\n"

	first, err := importer.ImportCSV(ctx, csv)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Created)

	second, err := importer.ImportCSV(ctx, csv)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 0, second.Updated)
	assert.Equal(t, 1, second.Unchanged)

	third, err := importer.ImportCSV(ctx, "id,title,layer1\na,Alpha,revised answer\n")
	require.NoError(t, err)
	assert.Equal(t, 1, third.Updated)
	assert.Equal(t, 0, third.Unchanged)
}

func TestImportMarkdown(t *testing.T) {
	importer, repo := newTestImporter(t)
	ctx := context.Background()

	t.Run("blocked on parse errors", func(t *testing.T) {
		report, err := importer.ImportMarkdown(ctx, "## 1) Layer 1\nno metadata\n")
		require.NoError(t, err)
		assert.False(t, report.Committed)
		assert.NotEmpty(t, report.Errors)
	})

	t.Run("commits a valid document", func(t *testing.T) {
		report, err := importer.ImportMarkdown(ctx, sampleDoc)
		require.NoError(t, err)
		assert.True(t, report.Committed)
		assert.Equal(t, 1, report.Created)

		node, err := repo.GetNode(ctx, "what-is-gravity")
		require.NoError(t, err)
		assert.Equal(t, "What is gravity?", node.Title)
		assert.True(t, node.Published)
	})
}
