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
	"gorm.io/gorm/clause"
)

type IdeaEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.IdeaEmbeddingMapper
}

func NewIdeaEmbeddingRepository(db *gorm.DB) contract.IdeaEmbeddingRepository {
	return &IdeaEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewIdeaEmbeddingMapper(),
	}
}

func (r *IdeaEmbeddingRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *IdeaEmbeddingRepositoryImpl) Upsert(ctx context.Context, embedding *entity.IdeaEmbedding) error {
	m := r.mapper.ToModel(embedding)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "idea_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"document", "embedding_value", "updated_at"}),
		}).
		Create(m).Error
	if err != nil {
		return err
	}
	*embedding = *r.mapper.ToEntity(m)
	return nil
}

func (r *IdeaEmbeddingRepositoryImpl) DeleteByIdeaId(ctx context.Context, ideaId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("idea_id = ?", ideaId).Delete(&model.IdeaEmbedding{}).Error
}

func (r *IdeaEmbeddingRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.IdeaEmbedding, error) {
	var m model.IdeaEmbedding
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *IdeaEmbeddingRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.IdeaEmbedding, error) {
	var models []*model.IdeaEmbedding
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.IdeaEmbedding, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *IdeaEmbeddingRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.IdeaEmbedding{}).Count(&count).Error
	return count, err
}
