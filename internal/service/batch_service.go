package service

import (
	"context"
	"time"

	"idea-board-be/internal/config"
	"idea-board-be/internal/dto"
	"idea-board-be/internal/pkg/logger"
	"idea-board-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IBatchService interface {
	// RunDuplicateDetection walks every workspace with enough ideas, syncs
	// missing embeddings and scans for duplicate pairs. Workspaces are
	// processed in fixed-size batches with a pause between batches; one
	// workspace failing never aborts the run.
	RunDuplicateDetection(ctx context.Context) (*dto.DetectionRunStats, error)
}

type batchService struct {
	uowFactory       unitofwork.RepositoryFactory
	embeddingService IEmbeddingService
	detectionService IDetectionService
	logger           logger.ILogger
	cfg              config.DetectionConfig
}

func NewBatchService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingService IEmbeddingService,
	detectionService IDetectionService,
	logger logger.ILogger,
	cfg config.DetectionConfig,
) IBatchService {
	return &batchService{
		uowFactory:       uowFactory,
		embeddingService: embeddingService,
		detectionService: detectionService,
		logger:           logger,
		cfg:              cfg,
	}
}

func (s *batchService) RunDuplicateDetection(ctx context.Context) (*dto.DetectionRunStats, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	stats := &dto.DetectionRunStats{}

	workspaceIds, err := uow.IdeaRepository().EligibleWorkspaceIds(ctx, s.cfg.MinIdeasForDetection)
	if err != nil {
		return nil, err
	}

	s.logger.Info("BATCH", "Duplicate detection run started", map[string]interface{}{
		"eligible_workspaces": len(workspaceIds),
	})

	batchSize := s.cfg.WorkspaceBatchSize
	if batchSize <= 0 {
		batchSize = 10
	}

	for start := 0; start < len(workspaceIds); start += batchSize {
		end := start + batchSize
		if end > len(workspaceIds) {
			end = len(workspaceIds)
		}

		for _, workspaceId := range workspaceIds[start:end] {
			s.processWorkspace(ctx, workspaceId, stats)
		}

		if end < len(workspaceIds) {
			select {
			case <-ctx.Done():
				return stats, ctx.Err()
			case <-time.After(s.cfg.BatchSleep):
			}
		}
	}

	s.logger.Info("BATCH", "Duplicate detection run finished", map[string]interface{}{
		"workspaces_processed": stats.WorkspacesProcessed,
		"embeddings_synced":    stats.EmbeddingsSynced,
		"suggestions_created":  stats.SuggestionsCreated,
		"errors":               stats.Errors,
	})
	return stats, nil
}

func (s *batchService) processWorkspace(ctx context.Context, workspaceId uuid.UUID, stats *dto.DetectionRunStats) {
	synced, err := s.embeddingService.SyncWorkspace(ctx, workspaceId)
	if err != nil {
		stats.Errors++
		s.logger.Error("BATCH", "Workspace embedding sync failed", map[string]interface{}{
			"workspace_id": workspaceId,
			"error":        err.Error(),
		})
		return
	}
	stats.EmbeddingsSynced += synced.Synced
	stats.Errors += synced.Errors

	_, created, err := s.detectionService.ScanWorkspace(ctx, workspaceId)
	if err != nil {
		stats.Errors++
		s.logger.Error("BATCH", "Workspace scan failed", map[string]interface{}{
			"workspace_id": workspaceId,
			"error":        err.Error(),
		})
		return
	}

	stats.SuggestionsCreated += created
	stats.WorkspacesProcessed++
}
