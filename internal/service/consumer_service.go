package service

import (
	"context"
	"encoding/json"

	"idea-board-be/internal/dto"
	"idea-board-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the embed queue: each message names one idea whose
// embedding must be regenerated.
type consumerService struct {
	pubSub           *gochannel.GoChannel
	topicName        string
	embeddingService IEmbeddingService
	logger           logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	embeddingService IEmbeddingService,
	logger logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:           pubSub,
		topicName:        topicName,
		embeddingService: embeddingService,
		logger:           logger,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedIdeaMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("CONSUMER", "Failed to unmarshal embed message", map[string]interface{}{
			"error": err.Error(),
		})
		// Ack malformed messages to prevent infinite retry.
		msg.Ack()
		return
	}

	cs.logger.Info("CONSUMER", "Processing idea embedding", map[string]interface{}{
		"idea_id": payload.IdeaId,
	})

	if err := cs.embeddingService.SyncEmbedding(ctx, payload.IdeaId); err != nil {
		cs.logger.Error("CONSUMER", "Failed to sync idea embedding", map[string]interface{}{
			"idea_id": payload.IdeaId,
			"error":   err.Error(),
		})
		msg.Nack()
		return
	}

	msg.Ack()
}
