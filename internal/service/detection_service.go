package service

import (
	"context"
	"sort"

	"idea-board-be/internal/dto"
	"idea-board-be/internal/entity"
	"idea-board-be/internal/pkg/logger"
	"idea-board-be/internal/repository/specification"
	"idea-board-be/internal/repository/unitofwork"
	"idea-board-be/pkg/dedupe/cluster"
	dedupeEvents "idea-board-be/pkg/dedupe/events"
	"idea-board-be/pkg/embedding"

	"github.com/google/uuid"
)

// CandidatePair is one detected duplicate pair, already in canonical order
// (SourceIdeaId sorts before DuplicateIdeaId as a uuid string).
type CandidatePair struct {
	SourceIdeaId    uuid.UUID
	DuplicateIdeaId uuid.UUID
	Similarity      float64
}

// normalizePair orders the two ideas so that (A,B) and (B,A) describe the
// same suggestion row.
func normalizePair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if a.String() < b.String() {
		return a, b
	}
	return b, a
}

type pairKey struct {
	a uuid.UUID
	b uuid.UUID
}

func keyOf(a, b uuid.UUID) pairKey {
	a, b = normalizePair(a, b)
	return pairKey{a: a, b: b}
}

type IDetectionService interface {
	// FindDuplicatesInWorkspace compares every live idea pair in the
	// workspace and returns pairs at or above the similarity threshold that
	// do not already have a suggestion row, strongest first. Workspaces
	// below the minimum idea count return no pairs.
	FindDuplicatesInWorkspace(ctx context.Context, workspaceId uuid.UUID) ([]CandidatePair, error)
	// CreateDuplicateSuggestions persists candidate pairs as PENDING
	// suggestions, skipping pairs that raced into existence since the scan.
	// Returns the number of rows actually created.
	CreateDuplicateSuggestions(ctx context.Context, workspaceId uuid.UUID, pairs []CandidatePair) (int, error)
	// ScanWorkspace runs detection end to end for one workspace.
	ScanWorkspace(ctx context.Context, workspaceId uuid.UUID) (candidates int, created int, err error)
	// GetClusters groups the workspace's pending suggestions into connected
	// components for review.
	GetClusters(ctx context.Context, workspaceId uuid.UUID) ([]dto.ClusterResponse, error)
}

type detectionService struct {
	uowFactory unitofwork.RepositoryFactory
	events     dedupeEvents.Publisher
	logger     logger.ILogger
	threshold  float64
	minIdeas   int
}

func NewDetectionService(
	uowFactory unitofwork.RepositoryFactory,
	events dedupeEvents.Publisher,
	logger logger.ILogger,
	threshold float64,
	minIdeas int,
) IDetectionService {
	return &detectionService{
		uowFactory: uowFactory,
		events:     events,
		logger:     logger,
		threshold:  threshold,
		minIdeas:   minIdeas,
	}
}

func (s *detectionService) FindDuplicatesInWorkspace(ctx context.Context, workspaceId uuid.UUID) ([]CandidatePair, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	ideas, err := uow.IdeaRepository().FindAll(ctx,
		specification.ByWorkspaceID{WorkspaceID: workspaceId},
		specification.NotMerged{},
	)
	if err != nil {
		return nil, err
	}
	if len(ideas) < s.minIdeas {
		return nil, nil
	}

	ideaIds := make([]uuid.UUID, len(ideas))
	for i, idea := range ideas {
		ideaIds[i] = idea.Id
	}

	vectors, err := s.loadVectors(ctx, uow, ideaIds)
	if err != nil {
		return nil, err
	}

	existing, err := s.existingPairs(ctx, uow, workspaceId)
	if err != nil {
		return nil, err
	}

	var pairs []CandidatePair
	for i := 0; i < len(ideaIds); i++ {
		vi, ok := vectors[ideaIds[i]]
		if !ok {
			continue
		}
		for j := i + 1; j < len(ideaIds); j++ {
			vj, ok := vectors[ideaIds[j]]
			if !ok {
				continue
			}
			if existing[keyOf(ideaIds[i], ideaIds[j])] {
				continue
			}
			sim := embedding.CosineSimilarity(vi, vj)
			if sim < s.threshold {
				continue
			}
			src, dup := normalizePair(ideaIds[i], ideaIds[j])
			pairs = append(pairs, CandidatePair{
				SourceIdeaId:    src,
				DuplicateIdeaId: dup,
				Similarity:      sim,
			})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].Similarity > pairs[j].Similarity
	})
	return pairs, nil
}

func (s *detectionService) loadVectors(ctx context.Context, uow unitofwork.UnitOfWork, ideaIds []uuid.UUID) (map[uuid.UUID][]float32, error) {
	embeddings, err := uow.IdeaEmbeddingRepository().FindAll(ctx, specification.ByIdeaIDs{IdeaIDs: ideaIds})
	if err != nil {
		return nil, err
	}
	vectors := make(map[uuid.UUID][]float32, len(embeddings))
	for _, e := range embeddings {
		vectors[e.IdeaId] = e.EmbeddingValue
	}
	return vectors, nil
}

// existingPairs returns every suggestion pair already recorded for the
// workspace, regardless of status. A dismissed pair stays excluded so a
// rescan never resurfaces it.
func (s *detectionService) existingPairs(ctx context.Context, uow unitofwork.UnitOfWork, workspaceId uuid.UUID) (map[pairKey]bool, error) {
	suggestions, err := uow.DuplicateSuggestionRepository().FindAll(ctx,
		specification.ByWorkspaceID{WorkspaceID: workspaceId},
	)
	if err != nil {
		return nil, err
	}
	existing := make(map[pairKey]bool, len(suggestions))
	for _, sg := range suggestions {
		existing[keyOf(sg.SourceIdeaId, sg.DuplicateIdeaId)] = true
	}
	return existing, nil
}

func (s *detectionService) CreateDuplicateSuggestions(ctx context.Context, workspaceId uuid.UUID, pairs []CandidatePair) (int, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	created := 0
	for _, pair := range pairs {
		src, dup := normalizePair(pair.SourceIdeaId, pair.DuplicateIdeaId)
		inserted, err := uow.DuplicateSuggestionRepository().CreateIfAbsent(ctx, &entity.DuplicateSuggestion{
			Id:              uuid.New(),
			WorkspaceId:     workspaceId,
			SourceIdeaId:    src,
			DuplicateIdeaId: dup,
			Similarity:      pair.Similarity,
			Status:          entity.SuggestionStatusPending,
		})
		if err != nil {
			return created, err
		}
		if inserted {
			created++
		}
	}
	return created, nil
}

func (s *detectionService) ScanWorkspace(ctx context.Context, workspaceId uuid.UUID) (int, int, error) {
	pairs, err := s.FindDuplicatesInWorkspace(ctx, workspaceId)
	if err != nil {
		return 0, 0, err
	}

	created, err := s.CreateDuplicateSuggestions(ctx, workspaceId, pairs)
	if err != nil {
		return len(pairs), created, err
	}

	s.logger.Info("DETECTION", "Workspace scan completed", map[string]interface{}{
		"workspace_id": workspaceId,
		"candidates":   len(pairs),
		"created":      created,
	})
	s.events.PublishScanCompleted(ctx, workspaceId, len(pairs), created)
	return len(pairs), created, nil
}

func (s *detectionService) GetClusters(ctx context.Context, workspaceId uuid.UUID) ([]dto.ClusterResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	ideas, err := uow.IdeaRepository().FindAll(ctx,
		specification.ByWorkspaceID{WorkspaceID: workspaceId},
		specification.NotMerged{},
	)
	if err != nil {
		return nil, err
	}

	suggestions, err := uow.DuplicateSuggestionRepository().FindAll(ctx,
		specification.ByWorkspaceID{WorkspaceID: workspaceId},
		specification.PendingOnly{},
	)
	if err != nil {
		return nil, err
	}

	byId := make(map[uuid.UUID]*entity.Idea, len(ideas))
	members := make([]cluster.Member, 0, len(ideas))
	for _, idea := range ideas {
		byId[idea.Id] = idea
		members = append(members, cluster.Member{
			Id:        idea.Id,
			VoteCount: idea.VoteCount,
			CreatedAt: idea.CreatedAt,
		})
	}

	edges := make([]cluster.Edge, 0, len(suggestions))
	for _, sg := range suggestions {
		edges = append(edges, cluster.Edge{
			SuggestionId:    sg.Id,
			SourceIdeaId:    sg.SourceIdeaId,
			DuplicateIdeaId: sg.DuplicateIdeaId,
			Similarity:      sg.Similarity,
		})
	}

	clusters := cluster.Build(members, edges)

	res := make([]dto.ClusterResponse, 0, len(clusters))
	for _, c := range clusters {
		item := dto.ClusterResponse{
			CanonicalId: c.CanonicalId,
			Ideas:       make([]dto.ClusterIdeaResponse, 0, len(c.Members)),
			Suggestions: make([]dto.ClusterEdgeResponse, 0, len(c.Edges)),
		}
		for _, m := range c.Members {
			idea := byId[m.Id]
			item.Ideas = append(item.Ideas, dto.ClusterIdeaResponse{
				Id:        idea.Id,
				Title:     idea.Title,
				Status:    idea.Status,
				VoteCount: idea.VoteCount,
				CreatedAt: idea.CreatedAt,
			})
		}
		for _, e := range c.Edges {
			item.Suggestions = append(item.Suggestions, dto.ClusterEdgeResponse{
				SuggestionId:    e.SuggestionId,
				SourceIdeaId:    e.SourceIdeaId,
				DuplicateIdeaId: e.DuplicateIdeaId,
				Similarity:      e.Similarity,
			})
		}
		res = append(res, item)
	}
	return res, nil
}
