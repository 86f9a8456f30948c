package implementation

import (
	"context"
	"errors"

	"idea-board-be/internal/entity"
	"idea-board-be/internal/mapper"
	"idea-board-be/internal/model"
	"idea-board-be/internal/repository/contract"
	"idea-board-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VoteRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.VoteMapper
}

func NewVoteRepository(db *gorm.DB) contract.VoteRepository {
	return &VoteRepositoryImpl{
		db:     db,
		mapper: mapper.NewVoteMapper(),
	}
}

func (r *VoteRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *VoteRepositoryImpl) Create(ctx context.Context, vote *entity.Vote) error {
	m := r.mapper.ToModel(vote)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*vote = *r.mapper.ToEntity(m)
	return nil
}

func (r *VoteRepositoryImpl) Update(ctx context.Context, vote *entity.Vote) error {
	m := r.mapper.ToModel(vote)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*vote = *r.mapper.ToEntity(m)
	return nil
}

func (r *VoteRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Vote{}, id).Error
}

func (r *VoteRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Vote, error) {
	var models []*model.Vote
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Vote, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *VoteRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.Vote{}).Count(&count).Error
	return count, err
}

func (r *VoteRepositoryImpl) CountDistinctContributors(ctx context.Context, ideaId uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Vote{}).
		Where("idea_id = ?", ideaId).
		Distinct("contributor_id").
		Count(&count).Error
	return count, err
}

type ContributorRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.VoteMapper
}

func NewContributorRepository(db *gorm.DB) contract.ContributorRepository {
	return &ContributorRepositoryImpl{
		db:     db,
		mapper: mapper.NewVoteMapper(),
	}
}

func (r *ContributorRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ContributorRepositoryImpl) Create(ctx context.Context, contributor *entity.Contributor) error {
	m := r.mapper.ContributorToModel(contributor)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*contributor = *r.mapper.ContributorToEntity(m)
	return nil
}

func (r *ContributorRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Contributor, error) {
	var m model.Contributor
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ContributorToEntity(&m), nil
}

func (r *ContributorRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Contributor, error) {
	var models []*model.Contributor
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Contributor, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ContributorToEntity(m)
	}
	return entities, nil
}
