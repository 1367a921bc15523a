package service

import (
	"context"

	"learnflow-be/internal/constant"
	"learnflow-be/internal/dto"
	"learnflow-be/internal/mapper"
	"learnflow-be/internal/pkg/apperr"
	"learnflow-be/internal/repository/memory"
	"learnflow-be/internal/repository/specification"
	"learnflow-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type ICategoryService interface {
	GetAll(ctx context.Context) (*dto.ListCategoriesResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.CategoryEnvelope, error)
}

// categoryService reads through an in-memory cache; categories change only
// when cmd/migrate seeds them.
type categoryService struct {
	uowFactory unitofwork.RepositoryFactory
	cache      *memory.CategoryCache
}

func NewCategoryService(uowFactory unitofwork.RepositoryFactory, cache *memory.CategoryCache) ICategoryService {
	return &categoryService{
		uowFactory: uowFactory,
		cache:      cache,
	}
}

func (s *categoryService) GetAll(ctx context.Context) (*dto.ListCategoriesResponse, error) {
	categories, ok := s.cache.GetAll()
	if !ok {
		uow := s.uowFactory.NewUnitOfWork(ctx)
		var err error
		categories, err = uow.CategoryRepository().FindAll(ctx, specification.OrderBy{Field: "name"})
		if err != nil {
			return nil, err
		}
		s.cache.SaveAll(categories)
	}

	res := make([]dto.CategoryResponse, len(categories))
	for i, c := range categories {
		res[i] = mapper.CategoryToResponse(c)
	}
	return &dto.ListCategoriesResponse{Categories: res}, nil
}

func (s *categoryService) Show(ctx context.Context, id uuid.UUID) (*dto.CategoryEnvelope, error) {
	category, ok := s.cache.Get(id)
	if !ok {
		uow := s.uowFactory.NewUnitOfWork(ctx)
		var err error
		category, err = uow.CategoryRepository().FindOne(ctx, specification.ByID{ID: id})
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, apperr.NotFound(constant.MsgCategoryNotFound)
		}
		s.cache.Save(category)
	}

	return &dto.CategoryEnvelope{Category: mapper.CategoryToResponse(category)}, nil
}
