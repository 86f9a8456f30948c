package integration

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"idea-board-be/internal/config"
	"idea-board-be/internal/entity"
	"idea-board-be/internal/repository/specification"
	"idea-board-be/internal/repository/unitofwork"
	"idea-board-be/internal/service"
	"idea-board-be/pkg/dedupe/events"
	"idea-board-be/pkg/embedding"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const embeddingDim = 768

// unitVec returns a 768-dim basis vector. Same axis means cosine 1,
// different axes mean cosine 0.
func unitVec(axis int) []float32 {
	v := make([]float32, embeddingDim)
	v[axis%embeddingDim] = 1
	return v
}

// countingProvider records how many times embeddings were generated.
type countingProvider struct {
	calls int64
}

func (p *countingProvider) Generate(text, taskType string) (*embedding.Response, error) {
	atomic.AddInt64(&p.calls, 1)
	return &embedding.Response{Values: unitVec(0)}, nil
}

func newDetectionService(uowFactory unitofwork.RepositoryFactory, t *testing.T) service.IDetectionService {
	t.Helper()
	sysLogger := newTestLogger(t)
	return service.NewDetectionService(
		uowFactory,
		events.NewNatsPublisher(nil, sysLogger),
		sysLogger,
		0.86,
		5,
	)
}

func (f *fixture) upsertEmbedding(t *testing.T, ideaId uuid.UUID, vector []float32) {
	t.Helper()
	ctx := context.Background()
	uow := f.uowFactory.NewUnitOfWork(ctx)

	require.NoError(t, uow.IdeaEmbeddingRepository().Upsert(ctx, &entity.IdeaEmbedding{
		Id:             uuid.New(),
		IdeaId:         ideaId,
		Document:       "test document",
		EmbeddingValue: vector,
	}))
}

func TestScanWorkspaceCreatesSuggestionsOnce(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	uowFactory := unitofwork.NewRepositoryFactory(db)
	f := seedWorkspace(t, uowFactory)
	detectionService := newDetectionService(uowFactory, t)

	// Two near-identical ideas plus three unrelated ones to clear the
	// minimum idea gate.
	dupA := f.seedIdea(t, "Dark mode", 3)
	dupB := f.seedIdea(t, "Night theme", 1)
	f.upsertEmbedding(t, dupA.Id, unitVec(0))
	f.upsertEmbedding(t, dupB.Id, unitVec(0))
	for i := 1; i <= 3; i++ {
		other := f.seedIdea(t, "Unrelated", 0)
		f.upsertEmbedding(t, other.Id, unitVec(i))
	}

	candidates, created, err := detectionService.ScanWorkspace(ctx, f.workspace.Id)
	require.NoError(t, err)
	assert.Equal(t, 1, candidates)
	assert.Equal(t, 1, created)

	// The stored pair is in canonical order.
	uow := uowFactory.NewUnitOfWork(ctx)
	suggestions, err := uow.DuplicateSuggestionRepository().FindAll(ctx,
		specification.ByWorkspaceID{WorkspaceID: f.workspace.Id},
	)
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	sg := suggestions[0]
	assert.Less(t, sg.SourceIdeaId.String(), sg.DuplicateIdeaId.String())
	assert.Equal(t, entity.SuggestionStatusPending, sg.Status)
	assert.InDelta(t, 1.0, sg.Similarity, 0.001)

	// A rescan surfaces nothing new, even after a dismissal.
	outcome, err := newMergeService(uowFactory, t).DismissSuggestion(ctx, sg.Id)
	require.NoError(t, err)
	require.Equal(t, service.OutcomeDismissed, outcome)

	candidates, created, err = detectionService.ScanWorkspace(ctx, f.workspace.Id)
	require.NoError(t, err)
	assert.Equal(t, 0, candidates)
	assert.Equal(t, 0, created)
}

func TestScanSkipsSmallWorkspaces(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	uowFactory := unitofwork.NewRepositoryFactory(db)
	f := seedWorkspace(t, uowFactory)
	detectionService := newDetectionService(uowFactory, t)

	a := f.seedIdea(t, "Twin one", 0)
	b := f.seedIdea(t, "Twin two", 0)
	f.upsertEmbedding(t, a.Id, unitVec(0))
	f.upsertEmbedding(t, b.Id, unitVec(0))

	pairs, err := detectionService.FindDuplicatesInWorkspace(ctx, f.workspace.Id)
	require.NoError(t, err)
	assert.Empty(t, pairs, "below the minimum idea count no pairs are reported")
}

func TestGetClustersGroupsPendingSuggestions(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	uowFactory := unitofwork.NewRepositoryFactory(db)
	f := seedWorkspace(t, uowFactory)
	detectionService := newDetectionService(uowFactory, t)

	popular := f.seedIdea(t, "Popular idea", 10)
	second := f.seedIdea(t, "Second idea", 4)
	third := f.seedIdea(t, "Third idea", 2)
	f.seedSuggestion(t, popular.Id, second.Id, 0.9)
	f.seedSuggestion(t, second.Id, third.Id, 0.87)

	clusters, err := detectionService.GetClusters(ctx, f.workspace.Id)
	require.NoError(t, err)
	require.Len(t, clusters, 1)

	c := clusters[0]
	assert.Equal(t, popular.Id, c.CanonicalId)
	require.Len(t, c.Ideas, 3)
	assert.Equal(t, popular.Id, c.Ideas[0].Id, "canonical idea listed first")
	assert.Len(t, c.Suggestions, 2)
}

// failingProvider rejects every generation request.
type failingProvider struct{}

func (p *failingProvider) Generate(text, taskType string) (*embedding.Response, error) {
	return nil, errors.New("embedding backend unavailable")
}

func TestRunDuplicateDetection(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := newTestLogger(t)

	// Ready workspace: enough ideas, all vectors present, one near-identical
	// pair. The provider is never needed here.
	ready := seedWorkspace(t, uowFactory)
	dupA := ready.seedIdea(t, "Single sign-on", 2)
	dupB := ready.seedIdea(t, "SSO login", 1)
	ready.upsertEmbedding(t, dupA.Id, unitVec(0))
	ready.upsertEmbedding(t, dupB.Id, unitVec(0))
	for i := 1; i <= 3; i++ {
		other := ready.seedIdea(t, "Filler", 0)
		ready.upsertEmbedding(t, other.Id, unitVec(i))
	}

	// Broken workspace: enough ideas but no vectors, and the provider is
	// down, so every sync attempt fails.
	broken := seedWorkspace(t, uowFactory)
	for i := 0; i < 5; i++ {
		broken.seedIdea(t, "Unembedded", 0)
	}

	// Small workspace: below the idea gate, must be skipped entirely.
	small := seedWorkspace(t, uowFactory)
	smA := small.seedIdea(t, "Tiny one", 0)
	smB := small.seedIdea(t, "Tiny two", 0)
	small.upsertEmbedding(t, smA.Id, unitVec(0))
	small.upsertEmbedding(t, smB.Id, unitVec(0))

	embeddingService := service.NewEmbeddingService(uowFactory, &failingProvider{}, sysLogger, 2)
	detectionService := newDetectionService(uowFactory, t)
	batchService := service.NewBatchService(uowFactory, embeddingService, detectionService, sysLogger, config.DetectionConfig{
		SimilarityThreshold:  0.86,
		MinIdeasForDetection: 5,
		WorkspaceBatchSize:   2,
		BatchSleep:           10 * time.Millisecond,
	})

	stats, err := batchService.RunDuplicateDetection(ctx)
	require.NoError(t, err, "a failing workspace must not abort the run")

	// The DB is shared across tests, so counters are lower bounds.
	assert.GreaterOrEqual(t, stats.WorkspacesProcessed, 2)
	assert.GreaterOrEqual(t, stats.SuggestionsCreated, 1)
	assert.GreaterOrEqual(t, stats.Errors, 5, "each unembeddable idea counts as an error")

	uow := uowFactory.NewUnitOfWork(ctx)

	readyCount, err := uow.DuplicateSuggestionRepository().Count(ctx,
		specification.ByWorkspaceID{WorkspaceID: ready.workspace.Id},
	)
	require.NoError(t, err)
	assert.Equal(t, int64(1), readyCount)

	brokenCount, err := uow.DuplicateSuggestionRepository().Count(ctx,
		specification.ByWorkspaceID{WorkspaceID: broken.workspace.Id},
	)
	require.NoError(t, err)
	assert.Zero(t, brokenCount)

	smallCount, err := uow.DuplicateSuggestionRepository().Count(ctx,
		specification.ByWorkspaceID{WorkspaceID: small.workspace.Id},
	)
	require.NoError(t, err)
	assert.Zero(t, smallCount)
}

func TestBackfillMissingIsIdempotent(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	uowFactory := unitofwork.NewRepositoryFactory(db)
	f := seedWorkspace(t, uowFactory)

	provider := &countingProvider{}
	embeddingService := service.NewEmbeddingService(uowFactory, provider, newTestLogger(t), 2)

	var seeded []uuid.UUID
	for i := 0; i < 5; i++ {
		idea := f.seedIdea(t, "Needs embedding", 0)
		seeded = append(seeded, idea.Id)
	}

	stats, err := embeddingService.BackfillMissing(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, stats.Synced, 5)
	assert.Equal(t, 0, stats.Errors)

	uow := uowFactory.NewUnitOfWork(ctx)
	count, err := uow.IdeaEmbeddingRepository().Count(ctx, specification.ByIdeaIDs{IdeaIDs: seeded})
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)

	// Second run finds no gaps for these ideas and calls the provider no
	// further times for them.
	callsAfterFirst := atomic.LoadInt64(&provider.calls)
	stats, err = embeddingService.BackfillMissing(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Errors)
	assert.Equal(t, callsAfterFirst+int64(stats.Synced), atomic.LoadInt64(&provider.calls))
}
