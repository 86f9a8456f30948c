package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"idea-board-be/internal/repository/memory"
	"idea-board-be/internal/repository/unitofwork"
	"idea-board-be/internal/service"
	"idea-board-be/pkg/dedupe/confidence"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfidenceScoresIdea(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	uowFactory := unitofwork.NewRepositoryFactory(db)
	f := seedWorkspace(t, uowFactory)

	cache := memory.NewConfidenceCache(time.Minute)
	confidenceService := service.NewConfidenceService(uowFactory, cache, newTestLogger(t), confidence.DefaultConfig())

	idea := f.seedIdea(t, "Scored idea", 0)
	for i := 0; i < 4; i++ {
		f.seedVote(t, idea.Id, fmt.Sprintf("voter-%s@domain%d.com", uuid.New(), i))
	}

	res, err := confidenceService.GetConfidence(ctx, idea.Id)
	require.NoError(t, err)
	assert.Equal(t, idea.Id, res.IdeaId)
	assert.GreaterOrEqual(t, res.IntraScore, 0.0)
	assert.LessOrEqual(t, res.IntraScore, 100.0)
	assert.NotEmpty(t, res.Label)
	assert.NotEmpty(t, res.Breakdown)
	// Votes spread over four domains trip no concentration warning.
	assert.Nil(t, res.Concentration)

	// Second read comes from cache and stays stable.
	again, err := confidenceService.GetConfidence(ctx, idea.Id)
	require.NoError(t, err)
	assert.Equal(t, res.IntraScore, again.IntraScore)
	assert.Equal(t, res.Label, again.Label)
}

func TestGetConfidenceUnknownIdea(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	uowFactory := unitofwork.NewRepositoryFactory(db)
	cache := memory.NewConfidenceCache(time.Minute)
	confidenceService := service.NewConfidenceService(uowFactory, cache, newTestLogger(t), confidence.DefaultConfig())

	_, err := confidenceService.GetConfidence(ctx, uuid.New())
	assert.Error(t, err)
}
