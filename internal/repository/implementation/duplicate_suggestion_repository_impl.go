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

type DuplicateSuggestionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DuplicateSuggestionMapper
}

func NewDuplicateSuggestionRepository(db *gorm.DB) contract.DuplicateSuggestionRepository {
	return &DuplicateSuggestionRepositoryImpl{
		db:     db,
		mapper: mapper.NewDuplicateSuggestionMapper(),
	}
}

func (r *DuplicateSuggestionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// CreateIfAbsent relies on the unique (source_idea_id, duplicate_idea_id)
// index; the caller must have normalized the pair ordering already. A
// conflicting insert is a silent no-op, not an error.
func (r *DuplicateSuggestionRepositoryImpl) CreateIfAbsent(ctx context.Context, suggestion *entity.DuplicateSuggestion) (bool, error) {
	m := r.mapper.ToModel(suggestion)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "source_idea_id"}, {Name: "duplicate_idea_id"}},
			DoNothing: true,
		}).
		Create(m)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	*suggestion = *r.mapper.ToEntity(m)
	return true, nil
}

func (r *DuplicateSuggestionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DuplicateSuggestion, error) {
	var m model.DuplicateSuggestion
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *DuplicateSuggestionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DuplicateSuggestion, error) {
	var models []*model.DuplicateSuggestion
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.DuplicateSuggestion, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *DuplicateSuggestionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.DuplicateSuggestion{}).Count(&count).Error
	return count, err
}

func (r *DuplicateSuggestionRepositoryImpl) UpdateStatusIfPending(ctx context.Context, id uuid.UUID, status string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.DuplicateSuggestion{}).
		Where("id = ? AND status = 'pending'", id).
		Update("status", status)
	return result.RowsAffected, result.Error
}

func (r *DuplicateSuggestionRepositoryImpl) DismissPendingInvolving(ctx context.Context, ideaId uuid.UUID, excludeSuggestionId uuid.UUID) (int64, error) {
	query := r.applySpecifications(
		r.db.WithContext(ctx).Model(&model.DuplicateSuggestion{}),
		specification.InvolvingIdea{IdeaID: ideaId},
		specification.PendingOnly{},
	)
	result := query.
		Where("id <> ?", excludeSuggestionId).
		Update("status", entity.SuggestionStatusDismissed)
	return result.RowsAffected, result.Error
}
