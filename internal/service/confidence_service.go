package service

import (
	"context"
	"strings"
	"time"

	"idea-board-be/internal/dto"
	"idea-board-be/internal/entity"
	"idea-board-be/internal/pkg/logger"
	"idea-board-be/internal/pkg/serverutils"
	"idea-board-be/internal/repository/memory"
	"idea-board-be/internal/repository/specification"
	"idea-board-be/internal/repository/unitofwork"
	"idea-board-be/pkg/dedupe/cluster"
	"idea-board-be/pkg/dedupe/confidence"

	"github.com/google/uuid"
)

type IConfidenceService interface {
	// GetConfidence computes (or serves from cache) the scoring snapshot
	// for one idea.
	GetConfidence(ctx context.Context, ideaId uuid.UUID) (*dto.ConfidenceResponse, error)
}

type confidenceService struct {
	uowFactory unitofwork.RepositoryFactory
	cache      *memory.ConfidenceCache
	logger     logger.ILogger
	config     confidence.Config
}

func NewConfidenceService(
	uowFactory unitofwork.RepositoryFactory,
	cache *memory.ConfidenceCache,
	logger logger.ILogger,
	config confidence.Config,
) IConfidenceService {
	return &confidenceService{
		uowFactory: uowFactory,
		cache:      cache,
		logger:     logger,
		config:     config,
	}
}

func (s *confidenceService) GetConfidence(ctx context.Context, ideaId uuid.UUID) (*dto.ConfidenceResponse, error) {
	if score, ok := s.cache.Get(ideaId); ok {
		return toConfidenceResponse(ideaId, score), nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	idea, err := uow.IdeaRepository().FindOne(ctx, specification.ByID{ID: ideaId})
	if err != nil {
		return nil, err
	}
	if idea == nil {
		return nil, serverutils.NewNotFound("idea not found")
	}
	if idea.IsMerged() {
		return nil, serverutils.NewBadRequest("merged ideas are not scored")
	}

	signals, err := s.collectSignals(ctx, uow, idea)
	if err != nil {
		return nil, err
	}

	score := confidence.Compute(*signals, s.config)
	s.cache.Set(ideaId, &score)

	return toConfidenceResponse(ideaId, &score), nil
}

func (s *confidenceService) collectSignals(ctx context.Context, uow unitofwork.UnitOfWork, idea *entity.Idea) (*confidence.Signals, error) {
	votes, err := uow.VoteRepository().FindAll(ctx, specification.ByIdeaID{IdeaID: idea.Id})
	if err != nil {
		return nil, err
	}

	signals := &confidence.Signals{
		CreatedAt:            idea.CreatedAt,
		Now:                  time.Now(),
		HasProblemText:       strings.TrimSpace(idea.ProblemText) != "",
		FrequencyTag:         idea.FrequencyTag,
		ImpactTag:            idea.ImpactTag,
		OrganicVotesByDomain: map[string]int{},
	}

	contributorIds := make(map[uuid.UUID]bool)
	organicContributors := make([]uuid.UUID, 0, len(votes))
	var lastVoteAt *time.Time
	for _, v := range votes {
		if v.IsOrganic() {
			signals.OrganicVotes++
			if !contributorIds[v.ContributorId] {
				contributorIds[v.ContributorId] = true
				organicContributors = append(organicContributors, v.ContributorId)
			}
		} else {
			signals.InheritedVotes++
		}
		t := v.CreatedAt
		if lastVoteAt == nil || t.After(*lastVoteAt) {
			lastVoteAt = &t
		}
	}
	signals.LastVoteAt = lastVoteAt
	signals.DistinctContributors = len(organicContributors)

	if len(organicContributors) > 0 {
		if err := s.countVotesByDomain(ctx, uow, votes, organicContributors, signals); err != nil {
			return nil, err
		}
	}

	sims, err := s.anchoredClusterSimilarities(ctx, uow, idea)
	if err != nil {
		return nil, err
	}
	signals.DupeSimilarities = sims

	return signals, nil
}

func (s *confidenceService) countVotesByDomain(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	votes []*entity.Vote,
	contributorIds []uuid.UUID,
	signals *confidence.Signals,
) error {
	contributors, err := uow.ContributorRepository().FindAll(ctx, specification.ByIDs{IDs: contributorIds})
	if err != nil {
		return err
	}

	domainOf := make(map[uuid.UUID]string, len(contributors))
	for _, c := range contributors {
		if at := strings.LastIndex(c.Email, "@"); at >= 0 {
			domainOf[c.Id] = strings.ToLower(c.Email[at+1:])
		}
	}

	for _, v := range votes {
		if !v.IsOrganic() {
			continue
		}
		if domain, ok := domainOf[v.ContributorId]; ok {
			signals.OrganicVotesByDomain[domain]++
		}
	}
	return nil
}

// anchoredClusterSimilarities returns the edge similarities of the pending
// cluster the idea is canonical of, or nil when it anchors none.
func (s *confidenceService) anchoredClusterSimilarities(ctx context.Context, uow unitofwork.UnitOfWork, idea *entity.Idea) ([]float64, error) {
	suggestions, err := uow.DuplicateSuggestionRepository().FindAll(ctx,
		specification.ByWorkspaceID{WorkspaceID: idea.WorkspaceId},
		specification.PendingOnly{},
	)
	if err != nil {
		return nil, err
	}
	if len(suggestions) == 0 {
		return nil, nil
	}

	ideas, err := uow.IdeaRepository().FindAll(ctx,
		specification.ByWorkspaceID{WorkspaceID: idea.WorkspaceId},
		specification.NotMerged{},
	)
	if err != nil {
		return nil, err
	}

	members := make([]cluster.Member, 0, len(ideas))
	for _, i := range ideas {
		members = append(members, cluster.Member{Id: i.Id, VoteCount: i.VoteCount, CreatedAt: i.CreatedAt})
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

	for _, c := range cluster.Build(members, edges) {
		if c.CanonicalId != idea.Id {
			continue
		}
		sims := make([]float64, 0, len(c.Edges))
		for _, e := range c.Edges {
			sims = append(sims, e.Similarity)
		}
		return sims, nil
	}
	return nil, nil
}

func toConfidenceResponse(ideaId uuid.UUID, score *confidence.Score) *dto.ConfidenceResponse {
	return &dto.ConfidenceResponse{
		IdeaId:        ideaId,
		IntraScore:    score.IntraScore,
		Label:         score.Label,
		Breakdown:     score.Breakdown,
		Concentration: score.Concentration,
	}
}
