package service

import (
	"context"
	"fmt"

	"idea-board-be/internal/entity"
	"idea-board-be/internal/pkg/logger"
	"idea-board-be/internal/repository/specification"
	"idea-board-be/internal/repository/unitofwork"
	"idea-board-be/pkg/embedding"

	"github.com/google/uuid"
)

type BackfillStats struct {
	Synced int `json:"synced"`
	Errors int `json:"errors"`
}

type IEmbeddingService interface {
	// SyncEmbedding regenerates and stores the embedding for one idea,
	// overwriting any prior vector. Merged ideas are skipped.
	SyncEmbedding(ctx context.Context, ideaId uuid.UUID) error
	// SyncWorkspace fills embedding gaps for all live ideas in a workspace.
	SyncWorkspace(ctx context.Context, workspaceId uuid.UUID) (*BackfillStats, error)
	// BackfillMissing pages every idea lacking an embedding, across
	// workspaces, in fixed batches. Safe to re-run: it only fills gaps.
	BackfillMissing(ctx context.Context) (*BackfillStats, error)
}

type embeddingService struct {
	uowFactory unitofwork.RepositoryFactory
	provider   embedding.Provider
	logger     logger.ILogger
	batchSize  int
}

func NewEmbeddingService(
	uowFactory unitofwork.RepositoryFactory,
	provider embedding.Provider,
	logger logger.ILogger,
	batchSize int,
) IEmbeddingService {
	if batchSize <= 0 {
		batchSize = 20
	}
	return &embeddingService{
		uowFactory: uowFactory,
		provider:   provider,
		logger:     logger,
		batchSize:  batchSize,
	}
}

// buildEmbeddingInput assembles the provider input from idea text.
func buildEmbeddingInput(idea *entity.Idea) string {
	return fmt.Sprintf("Idea Title: %s\n\nProblem: %s", idea.Title, idea.ProblemText)
}

func (s *embeddingService) SyncEmbedding(ctx context.Context, ideaId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	idea, err := uow.IdeaRepository().FindOne(ctx, specification.ByID{ID: ideaId})
	if err != nil {
		return err
	}
	if idea == nil {
		return fmt.Errorf("idea %s not found", ideaId)
	}
	if idea.IsMerged() {
		return nil
	}

	return s.embedIdea(ctx, uow, idea)
}

func (s *embeddingService) embedIdea(ctx context.Context, uow unitofwork.UnitOfWork, idea *entity.Idea) error {
	document := buildEmbeddingInput(idea)

	res, err := s.provider.Generate(document, "RETRIEVAL_DOCUMENT")
	if err != nil {
		return fmt.Errorf("embedding provider failed for idea %s: %w", idea.Id, err)
	}

	return uow.IdeaEmbeddingRepository().Upsert(ctx, &entity.IdeaEmbedding{
		Id:             uuid.New(),
		IdeaId:         idea.Id,
		Document:       document,
		EmbeddingValue: res.Values,
	})
}

func (s *embeddingService) SyncWorkspace(ctx context.Context, workspaceId uuid.UUID) (*BackfillStats, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	stats := &BackfillStats{}

	ideas, err := uow.IdeaRepository().FindAll(ctx,
		specification.ByWorkspaceID{WorkspaceID: workspaceId},
		specification.NotMerged{},
	)
	if err != nil {
		return nil, err
	}
	if len(ideas) == 0 {
		return stats, nil
	}

	ideaIds := make([]uuid.UUID, len(ideas))
	for i, idea := range ideas {
		ideaIds[i] = idea.Id
	}

	existing, err := uow.IdeaEmbeddingRepository().FindAll(ctx, specification.ByIdeaIDs{IdeaIDs: ideaIds})
	if err != nil {
		return nil, err
	}
	embedded := make(map[uuid.UUID]bool, len(existing))
	for _, e := range existing {
		embedded[e.IdeaId] = true
	}

	for _, idea := range ideas {
		if embedded[idea.Id] {
			continue
		}
		if err := s.embedIdea(ctx, uow, idea); err != nil {
			stats.Errors++
			s.logger.Error("EMBEDDING", "Failed to sync embedding", map[string]interface{}{
				"idea_id": idea.Id,
				"error":   err.Error(),
			})
			continue
		}
		stats.Synced++
	}

	return stats, nil
}

// BackfillMissing resumes past the last processed id instead of paging by
// OFFSET, so rows inserted mid-run are neither skipped nor duplicated.
func (s *embeddingService) BackfillMissing(ctx context.Context) (*BackfillStats, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	stats := &BackfillStats{}

	var afterId *uuid.UUID
	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		ideas, err := uow.IdeaRepository().FindMissingEmbedding(ctx, afterId, s.batchSize)
		if err != nil {
			return stats, err
		}
		if len(ideas) == 0 {
			break
		}

		for _, idea := range ideas {
			if err := s.embedIdea(ctx, uow, idea); err != nil {
				stats.Errors++
				s.logger.Error("EMBEDDING", "Failed to backfill embedding", map[string]interface{}{
					"idea_id": idea.Id,
					"error":   err.Error(),
				})
				continue
			}
			stats.Synced++
		}

		lastId := ideas[len(ideas)-1].Id
		afterId = &lastId
	}

	s.logger.Info("EMBEDDING", "Backfill completed", map[string]interface{}{
		"synced": stats.Synced,
		"errors": stats.Errors,
	})
	return stats, nil
}
