package integration

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"idea-board-be/internal/dto"
	"idea-board-be/internal/entity"
	"idea-board-be/internal/pkg/logger"
	"idea-board-be/internal/repository/memory"
	"idea-board-be/internal/repository/specification"
	"idea-board-be/internal/repository/unitofwork"
	"idea-board-be/internal/service"
	"idea-board-be/pkg/database"
	dedupeEvents "idea-board-be/pkg/dedupe/events"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	require.NoError(t, err, "Failed to connect to DB")
	return gormDB
}

func newTestLogger(t *testing.T) logger.ILogger {
	t.Helper()
	return logger.NewZapLogger(t.TempDir()+"/test.log", false)
}

type fixture struct {
	uowFactory unitofwork.RepositoryFactory
	workspace  *entity.Workspace
}

func seedWorkspace(t *testing.T, uowFactory unitofwork.RepositoryFactory) *fixture {
	t.Helper()
	ctx := context.Background()
	uow := uowFactory.NewUnitOfWork(ctx)

	ws := &entity.Workspace{
		Id:   uuid.New(),
		Name: "Integration Workspace",
		Slug: "integration-" + uuid.New().String(),
	}
	require.NoError(t, uow.WorkspaceRepository().Create(ctx, ws))

	return &fixture{uowFactory: uowFactory, workspace: ws}
}

func (f *fixture) seedIdea(t *testing.T, title string, voteCount int) *entity.Idea {
	t.Helper()
	ctx := context.Background()
	uow := f.uowFactory.NewUnitOfWork(ctx)

	idea := &entity.Idea{
		Id:          uuid.New(),
		WorkspaceId: f.workspace.Id,
		Title:       title,
		ProblemText: "Problem behind " + title,
		Status:      entity.IdeaStatusUnderReview,
		VoteCount:   voteCount,
	}
	require.NoError(t, uow.IdeaRepository().Create(ctx, idea))
	return idea
}

func (f *fixture) seedContributor(t *testing.T, email string) *entity.Contributor {
	t.Helper()
	ctx := context.Background()
	uow := f.uowFactory.NewUnitOfWork(ctx)

	contributor := &entity.Contributor{
		Id:       uuid.New(),
		Email:    email,
		FullName: "Voter " + email,
	}
	require.NoError(t, uow.ContributorRepository().Create(ctx, contributor))
	return contributor
}

func (f *fixture) seedVoteBy(t *testing.T, ideaId, contributorId uuid.UUID) *entity.Vote {
	t.Helper()
	ctx := context.Background()
	uow := f.uowFactory.NewUnitOfWork(ctx)

	vote := &entity.Vote{
		Id:            uuid.New(),
		IdeaId:        ideaId,
		ContributorId: contributorId,
	}
	require.NoError(t, uow.VoteRepository().Create(ctx, vote))
	return vote
}

func (f *fixture) seedVote(t *testing.T, ideaId uuid.UUID, email string) *entity.Vote {
	t.Helper()
	contributor := f.seedContributor(t, email)
	return f.seedVoteBy(t, ideaId, contributor.Id)
}

func (f *fixture) seedSuggestion(t *testing.T, a, b uuid.UUID, similarity float64) *entity.DuplicateSuggestion {
	t.Helper()
	ctx := context.Background()
	uow := f.uowFactory.NewUnitOfWork(ctx)

	src, dup := a, b
	if dup.String() < src.String() {
		src, dup = dup, src
	}
	suggestion := &entity.DuplicateSuggestion{
		Id:              uuid.New(),
		WorkspaceId:     f.workspace.Id,
		SourceIdeaId:    src,
		DuplicateIdeaId: dup,
		Similarity:      similarity,
		Status:          entity.SuggestionStatusPending,
	}
	created, err := uow.DuplicateSuggestionRepository().CreateIfAbsent(ctx, suggestion)
	require.NoError(t, err)
	require.True(t, created)
	return suggestion
}

func newMergeService(uowFactory unitofwork.RepositoryFactory, t *testing.T) service.IMergeService {
	t.Helper()
	sysLogger := newTestLogger(t)
	cache := memory.NewConfidenceCache(time.Minute)
	events := dedupeEvents.NewNatsPublisher(nil, sysLogger)
	return service.NewMergeService(uowFactory, cache, events, sysLogger)
}

func TestMergeSuggestionFlow(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	uowFactory := unitofwork.NewRepositoryFactory(db)
	f := seedWorkspace(t, uowFactory)
	mergeService := newMergeService(uowFactory, t)

	keeper := f.seedIdea(t, "Export to CSV", 0)
	loser := f.seedIdea(t, "CSV export button", 0)

	// One shared contributor, one unique to each side. The shared voter's
	// duplicate vote must be dropped, not moved.
	shared := f.seedContributor(t, fmt.Sprintf("shared-%s@example.com", uuid.New()))
	f.seedVoteBy(t, keeper.Id, shared.Id)
	f.seedVoteBy(t, loser.Id, shared.Id)
	f.seedVote(t, keeper.Id, fmt.Sprintf("keep-%s@example.com", uuid.New()))
	f.seedVote(t, loser.Id, fmt.Sprintf("lose-%s@example.com", uuid.New()))

	f.upsertEmbedding(t, keeper.Id, unitVec(0))
	f.upsertEmbedding(t, loser.Id, unitVec(0))

	suggestion := f.seedSuggestion(t, keeper.Id, loser.Id, 0.91)

	outcome, err := mergeService.MergeSuggestion(ctx, suggestion.Id, keeper.Id)
	require.NoError(t, err)
	assert.Equal(t, service.OutcomeMerged, outcome)

	uow := uowFactory.NewUnitOfWork(ctx)

	merged, err := uow.IdeaRepository().FindOne(ctx, specification.ByID{ID: loser.Id})
	require.NoError(t, err)
	require.NotNil(t, merged)
	assert.Equal(t, entity.IdeaStatusMerged, merged.Status)
	require.NotNil(t, merged.MergedIntoId)
	assert.Equal(t, keeper.Id, *merged.MergedIntoId)

	kept, err := uow.IdeaRepository().FindOne(ctx, specification.ByID{ID: keeper.Id})
	require.NoError(t, err)
	require.NotNil(t, kept)
	assert.Equal(t, entity.IdeaStatusUnderReview, kept.Status)

	votes, err := uow.VoteRepository().FindAll(ctx, specification.ByIdeaID{IdeaID: keeper.Id})
	require.NoError(t, err)
	assert.Len(t, votes, 3, "shared voter keeps a single vote")
	assert.Equal(t, len(votes), kept.VoteCount)

	moved := 0
	for _, v := range votes {
		if !v.IsOrganic() {
			moved++
			assert.Equal(t, loser.Id, *v.InheritedFromIdeaId)
		}
	}
	assert.Equal(t, 1, moved)

	remaining, err := uow.VoteRepository().FindAll(ctx, specification.ByIdeaID{IdeaID: loser.Id})
	require.NoError(t, err)
	assert.Empty(t, remaining, "loser should hold no votes after the merge")

	// The merged idea leaves the scan pool, so its vector goes with it.
	loserVec, err := uow.IdeaEmbeddingRepository().FindOne(ctx, specification.ByIdeaID{IdeaID: loser.Id})
	require.NoError(t, err)
	assert.Nil(t, loserVec)

	keeperVec, err := uow.IdeaEmbeddingRepository().FindOne(ctx, specification.ByIdeaID{IdeaID: keeper.Id})
	require.NoError(t, err)
	assert.NotNil(t, keeperVec)
}

func TestMergeClusterAggregatesOutcomes(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	uowFactory := unitofwork.NewRepositoryFactory(db)
	f := seedWorkspace(t, uowFactory)
	foreign := seedWorkspace(t, uowFactory)
	mergeService := newMergeService(uowFactory, t)

	canonical := f.seedIdea(t, "Dark mode", 0)
	first := f.seedIdea(t, "Night theme", 0)
	second := f.seedIdea(t, "Dark color scheme", 0)

	valid := f.seedSuggestion(t, canonical.Id, first.Id, 0.92)
	resolved := f.seedSuggestion(t, canonical.Id, second.Id, 0.9)

	fa := foreign.seedIdea(t, "Dark mode elsewhere", 0)
	fb := foreign.seedIdea(t, "Night theme elsewhere", 0)
	outside := foreign.seedSuggestion(t, fa.Id, fb.Id, 0.91)

	outcome, err := mergeService.DismissSuggestion(ctx, resolved.Id)
	require.NoError(t, err)
	require.Equal(t, service.OutcomeDismissed, outcome)

	missing := uuid.New()
	res, err := mergeService.MergeCluster(ctx, f.workspace.Id, &dto.MergeClusterRequest{
		CanonicalId:   canonical.Id,
		SuggestionIds: []uuid.UUID{valid.Id, resolved.Id, outside.Id, missing},
	})
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{valid.Id}, res.Merged)
	assert.Equal(t, []uuid.UUID{resolved.Id}, res.AlreadyProcessed)

	reasons := make(map[uuid.UUID]string, len(res.Failed))
	for _, failure := range res.Failed {
		reasons[failure.SuggestionId] = failure.Reason
	}
	require.Len(t, reasons, 2)
	assert.Equal(t, "suggestion outside workspace", reasons[outside.Id])
	assert.Equal(t, "not_found", reasons[missing])

	// The merge itself went through, not just the bookkeeping.
	uow := uowFactory.NewUnitOfWork(ctx)
	mergedIdea, err := uow.IdeaRepository().FindOne(ctx, specification.ByID{ID: first.Id})
	require.NoError(t, err)
	assert.Equal(t, entity.IdeaStatusMerged, mergedIdea.Status)

	// The foreign pair was never touched.
	untouched, err := uow.DuplicateSuggestionRepository().FindOne(ctx, specification.ByID{ID: outside.Id})
	require.NoError(t, err)
	assert.Equal(t, entity.SuggestionStatusPending, untouched.Status)
}

func TestMergeSuggestionIsIdempotent(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	uowFactory := unitofwork.NewRepositoryFactory(db)
	f := seedWorkspace(t, uowFactory)
	mergeService := newMergeService(uowFactory, t)

	keeper := f.seedIdea(t, "Bulk delete", 0)
	loser := f.seedIdea(t, "Delete many at once", 0)
	suggestion := f.seedSuggestion(t, keeper.Id, loser.Id, 0.88)

	outcome, err := mergeService.MergeSuggestion(ctx, suggestion.Id, keeper.Id)
	require.NoError(t, err)
	require.Equal(t, service.OutcomeMerged, outcome)

	uow := uowFactory.NewUnitOfWork(ctx)
	before, err := uow.IdeaRepository().FindOne(ctx, specification.ByID{ID: keeper.Id})
	require.NoError(t, err)

	// Replaying is success without side effects.
	outcome, err = mergeService.MergeSuggestion(ctx, suggestion.Id, keeper.Id)
	require.NoError(t, err)
	assert.Equal(t, service.OutcomeAlreadyProcessed, outcome)

	after, err := uow.IdeaRepository().FindOne(ctx, specification.ByID{ID: keeper.Id})
	require.NoError(t, err)
	assert.Equal(t, before.VoteCount, after.VoteCount)
}

func TestMergeCascadeDismissesPendingSuggestions(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	uowFactory := unitofwork.NewRepositoryFactory(db)
	f := seedWorkspace(t, uowFactory)
	mergeService := newMergeService(uowFactory, t)

	keeper := f.seedIdea(t, "Keyboard shortcuts", 0)
	loser := f.seedIdea(t, "Hotkeys everywhere", 0)
	third := f.seedIdea(t, "Command palette", 0)

	main := f.seedSuggestion(t, keeper.Id, loser.Id, 0.93)
	side := f.seedSuggestion(t, loser.Id, third.Id, 0.87)
	unrelated := f.seedSuggestion(t, keeper.Id, third.Id, 0.86)

	outcome, err := mergeService.MergeSuggestion(ctx, main.Id, keeper.Id)
	require.NoError(t, err)
	require.Equal(t, service.OutcomeMerged, outcome)

	uow := uowFactory.NewUnitOfWork(ctx)

	cascaded, err := uow.DuplicateSuggestionRepository().FindOne(ctx, specification.ByID{ID: side.Id})
	require.NoError(t, err)
	assert.Equal(t, entity.SuggestionStatusDismissed, cascaded.Status)

	// Pairs not touching the merged idea stay pending.
	kept, err := uow.DuplicateSuggestionRepository().FindOne(ctx, specification.ByID{ID: unrelated.Id})
	require.NoError(t, err)
	assert.Equal(t, entity.SuggestionStatusPending, kept.Status)
}

func TestMergeRejectsIdeaOutsidePair(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	uowFactory := unitofwork.NewRepositoryFactory(db)
	f := seedWorkspace(t, uowFactory)
	mergeService := newMergeService(uowFactory, t)

	a := f.seedIdea(t, "Inline comments", 0)
	b := f.seedIdea(t, "Comment threads", 0)
	outsider := f.seedIdea(t, "Emoji reactions", 0)
	suggestion := f.seedSuggestion(t, a.Id, b.Id, 0.9)

	outcome, err := mergeService.MergeSuggestion(ctx, suggestion.Id, outsider.Id)
	require.NoError(t, err)
	assert.Equal(t, service.OutcomeInvalid, outcome)

	// The suggestion stays pending after the rejected request.
	uow := uowFactory.NewUnitOfWork(ctx)
	current, err := uow.DuplicateSuggestionRepository().FindOne(ctx, specification.ByID{ID: suggestion.Id})
	require.NoError(t, err)
	assert.Equal(t, entity.SuggestionStatusPending, current.Status)
}

func TestMergeErrorReportsFailedOutcome(t *testing.T) {
	db := setupDB(t)

	uowFactory := unitofwork.NewRepositoryFactory(db)
	f := seedWorkspace(t, uowFactory)
	mergeService := newMergeService(uowFactory, t)

	a := f.seedIdea(t, "Saved filters", 0)
	b := f.seedIdea(t, "Filter presets", 0)
	suggestion := f.seedSuggestion(t, a.Id, b.Id, 0.9)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	outcome, err := mergeService.MergeSuggestion(cancelled, suggestion.Id, a.Id)
	require.Error(t, err)
	assert.Equal(t, service.OutcomeFailed, outcome)

	// Nothing was resolved; the suggestion can still be merged.
	outcome, err = mergeService.MergeSuggestion(context.Background(), suggestion.Id, a.Id)
	require.NoError(t, err)
	assert.Equal(t, service.OutcomeMerged, outcome)
}

func TestDismissSuggestion(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	uowFactory := unitofwork.NewRepositoryFactory(db)
	f := seedWorkspace(t, uowFactory)
	mergeService := newMergeService(uowFactory, t)

	a := f.seedIdea(t, "Offline mode", 0)
	b := f.seedIdea(t, "Work without network", 0)
	suggestion := f.seedSuggestion(t, a.Id, b.Id, 0.89)

	outcome, err := mergeService.DismissSuggestion(ctx, suggestion.Id)
	require.NoError(t, err)
	assert.Equal(t, service.OutcomeDismissed, outcome)

	outcome, err = mergeService.DismissSuggestion(ctx, suggestion.Id)
	require.NoError(t, err)
	assert.Equal(t, service.OutcomeAlreadyProcessed, outcome)

	outcome, err = mergeService.DismissSuggestion(ctx, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, service.OutcomeNotFound, outcome)
}

func TestSuggestionPairUniqueness(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	uowFactory := unitofwork.NewRepositoryFactory(db)
	f := seedWorkspace(t, uowFactory)

	a := f.seedIdea(t, "Audit log", 0)
	b := f.seedIdea(t, "Activity history", 0)
	f.seedSuggestion(t, a.Id, b.Id, 0.9)

	src, dup := a.Id, b.Id
	if dup.String() < src.String() {
		src, dup = dup, src
	}

	uow := uowFactory.NewUnitOfWork(ctx)
	created, err := uow.DuplicateSuggestionRepository().CreateIfAbsent(ctx, &entity.DuplicateSuggestion{
		Id:              uuid.New(),
		WorkspaceId:     f.workspace.Id,
		SourceIdeaId:    src,
		DuplicateIdeaId: dup,
		Similarity:      0.95,
		Status:          entity.SuggestionStatusPending,
	})
	require.NoError(t, err)
	assert.False(t, created, "duplicate pair must not create a second row")

	count, err := uow.DuplicateSuggestionRepository().Count(ctx,
		specification.ByWorkspaceID{WorkspaceID: f.workspace.Id},
	)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
