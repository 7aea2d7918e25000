package category

import (
	"context"
	"log/slog"

	errors "github.com/frahmantamala/budgetwise/internal"
	categoryDatamodel "github.com/frahmantamala/budgetwise/internal/core/datamodel/category"
)

type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*categoryDatamodel.Category, error)
	GetByID(ctx context.Context, id int64) (*categoryDatamodel.Category, error)
	GetByName(ctx context.Context, name string) (*categoryDatamodel.Category, error)
	Create(ctx context.Context, category *categoryDatamodel.Category) error
	// Delete removes the category together with every budget and expense
	// filed under it, atomically.
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) List(ctx context.Context) ([]*Category, error) {
	dataCategories, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to get categories from repository", "error", err)
		return nil, errors.NewInternalError("Failed to retrieve categories", err)
	}

	categories := make([]*Category, 0, len(dataCategories))
	for _, dc := range dataCategories {
		categories = append(categories, FromDataModel(dc))
	}

	s.logger.Debug("retrieved categories", "count", len(categories))
	return categories, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Category, error) {
	dc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get category", "category_id", id, "error", err)
		return nil, errors.NewInternalError("Failed to retrieve category", err)
	}
	if dc == nil {
		return nil, errors.ErrCategoryNotFound
	}
	return FromDataModel(dc), nil
}

// Exists reports whether a category with id is present.
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	dc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, errors.NewInternalError("Failed to retrieve category", err)
	}
	return dc != nil, nil
}

func (s *Service) Create(ctx context.Context, dto CreateCategoryDTO) (*Category, error) {
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	existing, err := s.repo.GetByName(ctx, dto.Name)
	if err != nil {
		s.logger.Error("failed to look up category by name", "name", dto.Name, "error", err)
		return nil, errors.NewInternalError("Failed to create category", err)
	}
	if existing != nil {
		return nil, errors.ErrCategoryExists
	}

	dc := ToDataModel(NewCategory(dto.Name, dto.Description))
	if err := s.repo.Create(ctx, dc); err != nil {
		s.logger.Error("failed to create category", "name", dto.Name, "error", err)
		return nil, errors.NewInternalError("Failed to create category", err)
	}

	s.logger.Info("category created", "category_id", dc.ID, "name", dc.Name)
	return FromDataModel(dc), nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get category", "category_id", id, "error", err)
		return errors.NewInternalError("Failed to delete category", err)
	}
	if existing == nil {
		return errors.ErrCategoryNotFound
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete category", "category_id", id, "error", err)
		return errors.NewInternalError("Failed to delete category", err)
	}

	s.logger.Info("category deleted", "category_id", id, "name", existing.Name)
	return nil
}
