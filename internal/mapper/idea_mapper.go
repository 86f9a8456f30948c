package mapper

import (
	"time"

	"idea-board-be/internal/entity"
	"idea-board-be/internal/model"
)

type IdeaMapper struct{}

func NewIdeaMapper() *IdeaMapper {
	return &IdeaMapper{}
}

func (m *IdeaMapper) ToEntity(i *model.Idea) *entity.Idea {
	if i == nil {
		return nil
	}

	var updatedAt *time.Time
	if !i.UpdatedAt.IsZero() {
		t := i.UpdatedAt
		updatedAt = &t
	}

	return &entity.Idea{
		Id:           i.Id,
		WorkspaceId:  i.WorkspaceId,
		Title:        i.Title,
		ProblemText:  i.ProblemText,
		Status:       i.Status,
		VoteCount:    i.VoteCount,
		MergedIntoId: i.MergedIntoId,
		FrequencyTag: i.FrequencyTag,
		ImpactTag:    i.ImpactTag,
		CreatedAt:    i.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}

func (m *IdeaMapper) ToModel(i *entity.Idea) *model.Idea {
	if i == nil {
		return nil
	}

	mi := &model.Idea{
		Id:           i.Id,
		WorkspaceId:  i.WorkspaceId,
		Title:        i.Title,
		ProblemText:  i.ProblemText,
		Status:       i.Status,
		VoteCount:    i.VoteCount,
		MergedIntoId: i.MergedIntoId,
		FrequencyTag: i.FrequencyTag,
		ImpactTag:    i.ImpactTag,
		CreatedAt:    i.CreatedAt,
	}
	if i.UpdatedAt != nil {
		mi.UpdatedAt = *i.UpdatedAt
	}
	return mi
}
