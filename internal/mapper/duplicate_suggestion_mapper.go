package mapper

import (
	"time"

	"idea-board-be/internal/entity"
	"idea-board-be/internal/model"
)

type DuplicateSuggestionMapper struct{}

func NewDuplicateSuggestionMapper() *DuplicateSuggestionMapper {
	return &DuplicateSuggestionMapper{}
}

func (m *DuplicateSuggestionMapper) ToEntity(s *model.DuplicateSuggestion) *entity.DuplicateSuggestion {
	if s == nil {
		return nil
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.DuplicateSuggestion{
		Id:              s.Id,
		WorkspaceId:     s.WorkspaceId,
		SourceIdeaId:    s.SourceIdeaId,
		DuplicateIdeaId: s.DuplicateIdeaId,
		Similarity:      s.Similarity,
		Status:          s.Status,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       updatedAt,
	}
}

func (m *DuplicateSuggestionMapper) ToModel(s *entity.DuplicateSuggestion) *model.DuplicateSuggestion {
	if s == nil {
		return nil
	}

	ms := &model.DuplicateSuggestion{
		Id:              s.Id,
		WorkspaceId:     s.WorkspaceId,
		SourceIdeaId:    s.SourceIdeaId,
		DuplicateIdeaId: s.DuplicateIdeaId,
		Similarity:      s.Similarity,
		Status:          s.Status,
		CreatedAt:       s.CreatedAt,
	}
	if s.UpdatedAt != nil {
		ms.UpdatedAt = *s.UpdatedAt
	}
	return ms
}
