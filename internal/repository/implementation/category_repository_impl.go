package implementation

import (
	"context"
	"errors"

	"learnflow-be/internal/entity"
	"learnflow-be/internal/mapper"
	"learnflow-be/internal/model"
	"learnflow-be/internal/repository/contract"
	"learnflow-be/internal/repository/specification"

	"gorm.io/gorm"
)

type CategoryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CategoryMapper
}

func NewCategoryRepository(db *gorm.DB) contract.CategoryRepository {
	return &CategoryRepositoryImpl{
		db:     db,
		mapper: mapper.NewCategoryMapper(),
	}
}

func (r *CategoryRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Category, error) {
	var m model.Category
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *CategoryRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Category, error) {
	var models []*model.Category
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
