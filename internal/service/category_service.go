package service

import (
	"context"
	"errors"
	"fmt"

	"udacitrivia/internal/models"
	"udacitrivia/internal/repository"
	"udacitrivia/pkg/cache"
	"udacitrivia/pkg/logger"

	"gorm.io/gorm"
)

// DefaultCategories are created on an empty database, in this order.
var DefaultCategories = []string{"Science", "Art", "Geography", "History", "Entertainment", "Sports"}

type CategoryService struct {
	categoryRepo repository.CategoryRepository
	cache        *cache.Cache
}

func NewCategoryService(categoryRepo repository.CategoryRepository, cacheService *cache.Cache) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		cache:        cacheService,
	}
}

// EnsureDefaults seeds DefaultCategories when no category exists yet and
// reports how many were created.
func (s *CategoryService) EnsureDefaults() (int, error) {
	count, err := s.categoryRepo.Count()
	if err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	for _, name := range DefaultCategories {
		if err := s.categoryRepo.Create(&models.Category{Type: name}); err != nil {
			return 0, fmt.Errorf("failed to create category %q: %w", name, err)
		}
	}

	s.invalidate()
	return len(DefaultCategories), nil
}

// GetAll returns every category ordered by id.
func (s *CategoryService) GetAll() ([]models.Category, error) {
	var categories []models.Category
	if err := s.cache.GetCachedCategories(&categories); err == nil {
		return categories, nil
	}

	categories, err := s.categoryRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	if err := s.cache.CacheCategories(categories); err != nil {
		logger.Warn("Failed to cache categories", map[string]interface{}{"error": err.Error()})
	}

	return categories, nil
}

// Map returns the categories keyed by id, the shape the API exposes.
func (s *CategoryService) Map() (map[uint]string, error) {
	categories, err := s.GetAll()
	if err != nil {
		return nil, err
	}

	result := make(map[uint]string, len(categories))
	for _, category := range categories {
		result[category.ID] = category.Type
	}
	return result, nil
}

func (s *CategoryService) GetByID(id uint) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to load category: %w", err)
	}
	return category, nil
}

func (s *CategoryService) invalidate() {
	if err := s.cache.InvalidateCategories(); err != nil {
		logger.Warn("Failed to invalidate category cache", map[string]interface{}{"error": err.Error()})
	}
}

// WarmCache loads the categories into the cache so the first page views do
// not hit the database. It is a no-op when caching is disabled.
func (s *CategoryService) WarmCache(ctx context.Context) error {
	if !s.cache.Enabled() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	categories, err := s.categoryRepo.GetAll()
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}
	if err := s.cache.CacheCategories(categories); err != nil {
		return fmt.Errorf("failed to cache categories: %w", err)
	}

	logger.Info("Category cache warmed", map[string]interface{}{"categories": len(categories)})
	return nil
}
