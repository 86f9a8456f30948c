package service

import (
	"context"
	"fmt"
	"sync"

	"idea-board-be/internal/dto"
	"idea-board-be/internal/entity"
	"idea-board-be/internal/pkg/logger"
	"idea-board-be/internal/repository/memory"
	"idea-board-be/internal/repository/specification"
	"idea-board-be/internal/repository/unitofwork"
	dedupeEvents "idea-board-be/pkg/dedupe/events"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// MergeOutcome classifies the result of resolving a suggestion. Callers
// branch on the value, never on error text.
type MergeOutcome int

const (
	// OutcomeFailed accompanies every non-nil error; the suggestion is
	// unchanged or the transaction was rolled back.
	OutcomeFailed MergeOutcome = iota
	// OutcomeMerged means this call performed the merge.
	OutcomeMerged
	// OutcomeDismissed means this call dismissed the suggestion.
	OutcomeDismissed
	// OutcomeAlreadyProcessed means the suggestion was resolved earlier,
	// possibly by a concurrent call. Treated as success.
	OutcomeAlreadyProcessed
	// OutcomeNotFound means no suggestion exists with the given id.
	OutcomeNotFound
	// OutcomeInvalid means the request referenced an idea outside the pair.
	OutcomeInvalid
)

func (o MergeOutcome) String() string {
	switch o {
	case OutcomeFailed:
		return "failed"
	case OutcomeMerged:
		return "merged"
	case OutcomeDismissed:
		return "dismissed"
	case OutcomeAlreadyProcessed:
		return "already_processed"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

type IMergeService interface {
	// MergeSuggestion folds the non-kept idea of the pair into keepIdeaId:
	// votes move over (one per contributor), the loser is marked merged, and
	// every other pending suggestion touching the loser is dismissed.
	// Replaying a resolved suggestion returns OutcomeAlreadyProcessed with
	// no side effects.
	MergeSuggestion(ctx context.Context, suggestionId, keepIdeaId uuid.UUID) (MergeOutcome, error)
	// DismissSuggestion marks a pending suggestion as reviewed-and-rejected.
	DismissSuggestion(ctx context.Context, suggestionId uuid.UUID) (MergeOutcome, error)
	// MergeCluster merges each listed suggestion into the canonical idea
	// concurrently, reporting per-pair outcomes. Suggestions outside the
	// workspace are rejected per pair.
	MergeCluster(ctx context.Context, workspaceId uuid.UUID, req *dto.MergeClusterRequest) (*dto.MergeClusterResponse, error)
}

type mergeService struct {
	uowFactory unitofwork.RepositoryFactory
	cache      *memory.ConfidenceCache
	events     dedupeEvents.Publisher
	logger     logger.ILogger
}

func NewMergeService(
	uowFactory unitofwork.RepositoryFactory,
	cache *memory.ConfidenceCache,
	events dedupeEvents.Publisher,
	logger logger.ILogger,
) IMergeService {
	return &mergeService{
		uowFactory: uowFactory,
		cache:      cache,
		events:     events,
		logger:     logger,
	}
}

func (s *mergeService) MergeSuggestion(ctx context.Context, suggestionId, keepIdeaId uuid.UUID) (MergeOutcome, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	suggestion, err := uow.DuplicateSuggestionRepository().FindOne(ctx, specification.ByID{ID: suggestionId})
	if err != nil {
		return OutcomeFailed, err
	}
	if suggestion == nil {
		return OutcomeNotFound, nil
	}
	if suggestion.Status != entity.SuggestionStatusPending {
		return OutcomeAlreadyProcessed, nil
	}
	if !suggestion.Involves(keepIdeaId) {
		return OutcomeInvalid, nil
	}
	loserId := suggestion.OtherIdea(keepIdeaId)

	if err := uow.Begin(ctx); err != nil {
		return OutcomeFailed, err
	}
	defer uow.Rollback()

	// The status flip doubles as an optimistic lock: whoever updates the
	// pending row first owns the merge.
	rows, err := uow.DuplicateSuggestionRepository().UpdateStatusIfPending(ctx, suggestionId, entity.SuggestionStatusMerged)
	if err != nil {
		return OutcomeFailed, err
	}
	if rows == 0 {
		return OutcomeAlreadyProcessed, nil
	}

	movedVotes, err := s.moveVotes(ctx, uow, loserId, keepIdeaId)
	if err != nil {
		return OutcomeFailed, err
	}

	keeper, err := uow.IdeaRepository().FindOne(ctx, specification.ByID{ID: keepIdeaId})
	if err != nil {
		return OutcomeFailed, err
	}
	if keeper == nil || keeper.IsMerged() {
		return OutcomeFailed, fmt.Errorf("idea %s cannot absorb a merge", keepIdeaId)
	}

	// Unique index aside, recount by distinct contributor so the stored
	// total never exceeds one vote per person.
	voteCount, err := uow.VoteRepository().CountDistinctContributors(ctx, keepIdeaId)
	if err != nil {
		return OutcomeFailed, err
	}
	keeper.VoteCount = int(voteCount)
	if err := uow.IdeaRepository().Update(ctx, keeper); err != nil {
		return OutcomeFailed, err
	}

	loser, err := uow.IdeaRepository().FindOne(ctx, specification.ByID{ID: loserId})
	if err != nil {
		return OutcomeFailed, err
	}
	if loser == nil {
		return OutcomeFailed, fmt.Errorf("idea %s not found", loserId)
	}
	loser.Status = entity.IdeaStatusMerged
	loser.MergedIntoId = &keepIdeaId
	loser.VoteCount = 0
	if err := uow.IdeaRepository().Update(ctx, loser); err != nil {
		return OutcomeFailed, err
	}

	// Merged ideas never enter another scan; drop the stale vector.
	if err := uow.IdeaEmbeddingRepository().DeleteByIdeaId(ctx, loserId); err != nil {
		return OutcomeFailed, err
	}

	dismissed, err := uow.DuplicateSuggestionRepository().DismissPendingInvolving(ctx, loserId, suggestionId)
	if err != nil {
		return OutcomeFailed, err
	}

	if err := uow.Commit(); err != nil {
		return OutcomeFailed, err
	}

	s.cache.Invalidate(keepIdeaId)
	s.cache.Invalidate(loserId)

	s.logger.Info("MERGE", "Suggestion merged", map[string]interface{}{
		"suggestion_id":       suggestionId,
		"kept_idea_id":        keepIdeaId,
		"merged_idea_id":      loserId,
		"moved_votes":         movedVotes,
		"cascaded_dismissals": dismissed,
	})
	s.events.PublishIdeaMerged(ctx, suggestion.WorkspaceId, keepIdeaId, loserId, suggestionId, movedVotes)

	return OutcomeMerged, nil
}

// moveVotes repoints the loser's votes at the keeper, dropping any vote
// whose contributor already voted on the keeper. Moved votes remember their
// origin so scoring can tell organic support from absorbed support.
func (s *mergeService) moveVotes(ctx context.Context, uow unitofwork.UnitOfWork, loserId, keeperId uuid.UUID) (int, error) {
	keeperVotes, err := uow.VoteRepository().FindAll(ctx, specification.ByIdeaID{IdeaID: keeperId})
	if err != nil {
		return 0, err
	}
	seen := make(map[uuid.UUID]bool, len(keeperVotes))
	for _, v := range keeperVotes {
		seen[v.ContributorId] = true
	}

	loserVotes, err := uow.VoteRepository().FindAll(ctx, specification.ByIdeaID{IdeaID: loserId})
	if err != nil {
		return 0, err
	}

	moved := 0
	for _, v := range loserVotes {
		if seen[v.ContributorId] {
			if err := uow.VoteRepository().Delete(ctx, v.Id); err != nil {
				return moved, err
			}
			continue
		}
		origin := loserId
		v.IdeaId = keeperId
		v.InheritedFromIdeaId = &origin
		if err := uow.VoteRepository().Update(ctx, v); err != nil {
			return moved, err
		}
		seen[v.ContributorId] = true
		moved++
	}
	return moved, nil
}

func (s *mergeService) DismissSuggestion(ctx context.Context, suggestionId uuid.UUID) (MergeOutcome, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	suggestion, err := uow.DuplicateSuggestionRepository().FindOne(ctx, specification.ByID{ID: suggestionId})
	if err != nil {
		return OutcomeFailed, err
	}
	if suggestion == nil {
		return OutcomeNotFound, nil
	}
	if suggestion.Status != entity.SuggestionStatusPending {
		return OutcomeAlreadyProcessed, nil
	}

	rows, err := uow.DuplicateSuggestionRepository().UpdateStatusIfPending(ctx, suggestionId, entity.SuggestionStatusDismissed)
	if err != nil {
		return OutcomeFailed, err
	}
	if rows == 0 {
		return OutcomeAlreadyProcessed, nil
	}

	s.logger.Info("MERGE", "Suggestion dismissed", map[string]interface{}{
		"suggestion_id": suggestionId,
	})
	s.events.PublishSuggestionDismissed(ctx, suggestion.WorkspaceId, suggestionId)

	return OutcomeDismissed, nil
}

func (s *mergeService) MergeCluster(ctx context.Context, workspaceId uuid.UUID, req *dto.MergeClusterRequest) (*dto.MergeClusterResponse, error) {
	res := &dto.MergeClusterResponse{
		Merged:           []uuid.UUID{},
		AlreadyProcessed: []uuid.UUID{},
		Failed:           []dto.MergeClusterFailure{},
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	scoped, err := uow.DuplicateSuggestionRepository().FindAll(ctx, specification.ByIDs{IDs: req.SuggestionIds})
	if err != nil {
		return nil, err
	}
	inWorkspace := make(map[uuid.UUID]bool, len(scoped))
	for _, sg := range scoped {
		inWorkspace[sg.Id] = sg.WorkspaceId == workspaceId
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for _, suggestionId := range req.SuggestionIds {
		sid := suggestionId
		if ok, found := inWorkspace[sid]; !found {
			res.Failed = append(res.Failed, dto.MergeClusterFailure{SuggestionId: sid, Reason: OutcomeNotFound.String()})
			continue
		} else if !ok {
			res.Failed = append(res.Failed, dto.MergeClusterFailure{SuggestionId: sid, Reason: "suggestion outside workspace"})
			continue
		}
		g.Go(func() error {
			outcome, err := s.MergeSuggestion(gctx, sid, req.CanonicalId)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				res.Failed = append(res.Failed, dto.MergeClusterFailure{SuggestionId: sid, Reason: err.Error()})
			case outcome == OutcomeMerged:
				res.Merged = append(res.Merged, sid)
			case outcome == OutcomeAlreadyProcessed:
				res.AlreadyProcessed = append(res.AlreadyProcessed, sid)
			default:
				res.Failed = append(res.Failed, dto.MergeClusterFailure{SuggestionId: sid, Reason: outcome.String()})
			}
			// Individual failures are reported per pair, not propagated.
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return res, err
	}
	return res, nil
}
