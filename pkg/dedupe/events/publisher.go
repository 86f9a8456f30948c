package events

import (
	"context"
	"time"

	"idea-board-be/internal/pkg/logger"
	pkgEvents "idea-board-be/pkg/events"
	pktNats "idea-board-be/pkg/nats"

	"github.com/google/uuid"
)

// Publisher abstracts event publishing for duplicate-handling operations.
// Publishing is best effort: failures are logged, never propagated.
type Publisher interface {
	PublishIdeaMerged(ctx context.Context, workspaceId, keptIdeaId, mergedIdeaId, suggestionId uuid.UUID, movedVotes int)
	PublishSuggestionDismissed(ctx context.Context, workspaceId, suggestionId uuid.UUID)
	PublishScanCompleted(ctx context.Context, workspaceId uuid.UUID, candidates, created int)
}

// NatsPublisher implements Publisher using NATS JetStream.
type NatsPublisher struct {
	publisher *pktNats.Publisher
	logger    logger.ILogger
}

func NewNatsPublisher(publisher *pktNats.Publisher, logger logger.ILogger) *NatsPublisher {
	return &NatsPublisher{
		publisher: publisher,
		logger:    logger,
	}
}

func (p *NatsPublisher) PublishIdeaMerged(ctx context.Context, workspaceId, keptIdeaId, mergedIdeaId, suggestionId uuid.UUID, movedVotes int) {
	if p.publisher == nil {
		return
	}

	now := time.Now()
	evt := pkgEvents.BaseEvent{
		Type: "IDEA_MERGED",
		Data: map[string]interface{}{
			"workspace_id":   workspaceId,
			"kept_idea_id":   keptIdeaId,
			"merged_idea_id": mergedIdeaId,
			"suggestion_id":  suggestionId,
			"moved_votes":    movedVotes,
			"occurred_at":    now,
		},
		OccurredAt: now,
	}

	if err := p.publisher.Publish(ctx, evt); err != nil {
		p.logger.Error("DEDUPE", "Failed to publish IDEA_MERGED event", map[string]interface{}{"error": err.Error()})
	}
}

func (p *NatsPublisher) PublishSuggestionDismissed(ctx context.Context, workspaceId, suggestionId uuid.UUID) {
	if p.publisher == nil {
		return
	}

	now := time.Now()
	evt := pkgEvents.BaseEvent{
		Type: "SUGGESTION_DISMISSED",
		Data: map[string]interface{}{
			"workspace_id":  workspaceId,
			"suggestion_id": suggestionId,
			"occurred_at":   now,
		},
		OccurredAt: now,
	}

	if err := p.publisher.Publish(ctx, evt); err != nil {
		p.logger.Error("DEDUPE", "Failed to publish SUGGESTION_DISMISSED event", map[string]interface{}{"error": err.Error()})
	}
}

func (p *NatsPublisher) PublishScanCompleted(ctx context.Context, workspaceId uuid.UUID, candidates, created int) {
	if p.publisher == nil {
		return
	}

	now := time.Now()
	evt := pkgEvents.BaseEvent{
		Type: "DUPLICATE_SCAN_COMPLETED",
		Data: map[string]interface{}{
			"workspace_id": workspaceId,
			"candidates":   candidates,
			"created":      created,
			"occurred_at":  now,
		},
		OccurredAt: now,
	}

	if err := p.publisher.Publish(ctx, evt); err != nil {
		p.logger.Error("DEDUPE", "Failed to publish DUPLICATE_SCAN_COMPLETED event", map[string]interface{}{"error": err.Error()})
	}
}
