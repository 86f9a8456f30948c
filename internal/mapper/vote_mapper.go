package mapper

import (
	"idea-board-be/internal/entity"
	"idea-board-be/internal/model"
)

type VoteMapper struct{}

func NewVoteMapper() *VoteMapper {
	return &VoteMapper{}
}

func (m *VoteMapper) ToEntity(v *model.Vote) *entity.Vote {
	if v == nil {
		return nil
	}
	return &entity.Vote{
		Id:                  v.Id,
		IdeaId:              v.IdeaId,
		ContributorId:       v.ContributorId,
		InheritedFromIdeaId: v.InheritedFromIdeaId,
		CreatedAt:           v.CreatedAt,
	}
}

func (m *VoteMapper) ToModel(v *entity.Vote) *model.Vote {
	if v == nil {
		return nil
	}
	return &model.Vote{
		Id:                  v.Id,
		IdeaId:              v.IdeaId,
		ContributorId:       v.ContributorId,
		InheritedFromIdeaId: v.InheritedFromIdeaId,
		CreatedAt:           v.CreatedAt,
	}
}

func (m *VoteMapper) ContributorToEntity(c *model.Contributor) *entity.Contributor {
	if c == nil {
		return nil
	}
	return &entity.Contributor{
		Id:        c.Id,
		Email:     c.Email,
		FullName:  c.FullName,
		CreatedAt: c.CreatedAt,
	}
}

func (m *VoteMapper) ContributorToModel(c *entity.Contributor) *model.Contributor {
	if c == nil {
		return nil
	}
	return &model.Contributor{
		Id:        c.Id,
		Email:     c.Email,
		FullName:  c.FullName,
		CreatedAt: c.CreatedAt,
	}
}
