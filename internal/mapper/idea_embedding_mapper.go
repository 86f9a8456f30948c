package mapper

import (
	"time"

	"idea-board-be/internal/entity"
	"idea-board-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type IdeaEmbeddingMapper struct{}

func NewIdeaEmbeddingMapper() *IdeaEmbeddingMapper {
	return &IdeaEmbeddingMapper{}
}

func (m *IdeaEmbeddingMapper) ToEntity(e *model.IdeaEmbedding) *entity.IdeaEmbedding {
	if e == nil {
		return nil
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	return &entity.IdeaEmbedding{
		Id:             e.Id,
		IdeaId:         e.IdeaId,
		Document:       e.Document,
		EmbeddingValue: e.EmbeddingValue.Slice(),
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      updatedAt,
	}
}

func (m *IdeaEmbeddingMapper) ToModel(e *entity.IdeaEmbedding) *model.IdeaEmbedding {
	if e == nil {
		return nil
	}

	me := &model.IdeaEmbedding{
		Id:             e.Id,
		IdeaId:         e.IdeaId,
		Document:       e.Document,
		EmbeddingValue: pgvector.NewVector(e.EmbeddingValue),
		CreatedAt:      e.CreatedAt,
	}
	if e.UpdatedAt != nil {
		me.UpdatedAt = *e.UpdatedAt
	}
	return me
}
