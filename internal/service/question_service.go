package service

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"udacitrivia/internal/models"
	"udacitrivia/internal/repository"
	"udacitrivia/pkg/validator"

	"gorm.io/gorm"
)

const QuestionsPerPage = 10

// maxPage keeps (page-1)*QuestionsPerPage inside int.
const maxPage = math.MaxInt / QuestionsPerPage

type QuestionService struct {
	questionRepo repository.QuestionRepository
	categoryRepo repository.CategoryRepository
}

func NewQuestionService(questionRepo repository.QuestionRepository, categoryRepo repository.CategoryRepository) *QuestionService {
	return &QuestionService{
		questionRepo: questionRepo,
		categoryRepo: categoryRepo,
	}
}

// List returns one page of every question ordered by id. Pages start at 1;
// a page past the last one yields ErrPageOutOfRange.
func (s *QuestionService) List(page int) (*models.QuestionPage, error) {
	page = normalizePage(page)
	if page > maxPage {
		return nil, ErrPageOutOfRange
	}

	total, err := s.questionRepo.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count questions: %w", err)
	}

	questions, err := s.questionRepo.List((page-1)*QuestionsPerPage, QuestionsPerPage)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}

	if len(questions) == 0 {
		return nil, ErrPageOutOfRange
	}

	return &models.QuestionPage{Questions: questions, Total: total, Page: page, PerPage: QuestionsPerPage}, nil
}

// ListByCategory pages through a single category. An empty category is not
// an error.
func (s *QuestionService) ListByCategory(categoryID uint, page int) (*models.QuestionPage, *models.Category, error) {
	page = normalizePage(page)

	category, err := s.categoryRepo.GetByID(categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrCategoryNotFound
		}
		return nil, nil, fmt.Errorf("failed to load category: %w", err)
	}

	if page > maxPage {
		return nil, nil, ErrPageOutOfRange
	}

	total, err := s.questionRepo.CountByCategory(categoryID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to count questions: %w", err)
	}

	questions, err := s.questionRepo.ListByCategory(categoryID, (page-1)*QuestionsPerPage, QuestionsPerPage)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list questions: %w", err)
	}

	if len(questions) == 0 && page > 1 {
		return nil, nil, ErrPageOutOfRange
	}

	return &models.QuestionPage{Questions: questions, Total: total, Page: page, PerPage: QuestionsPerPage}, category, nil
}

func (s *QuestionService) GetByID(id uint) (*models.Question, error) {
	question, err := s.questionRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to load question: %w", err)
	}
	return question, nil
}

func (s *QuestionService) Create(req models.CreateQuestionRequest) (*models.Question, error) {
	req.Question = validator.SanitizeString(req.Question)
	req.Answer = validator.SanitizeString(req.Answer)

	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.categoryRepo.GetByID(req.Category); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to load category: %w", err)
	}

	exists, err := s.questionRepo.ExistsByText(req.Question)
	if err != nil {
		return nil, fmt.Errorf("failed to check question existence: %w", err)
	}
	if exists {
		return nil, ErrQuestionExists
	}

	question := &models.Question{
		Question:   req.Question,
		Answer:     req.Answer,
		Category:   req.Category,
		Difficulty: req.Difficulty,
	}

	if err := s.questionRepo.Create(question); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	return question, nil
}

func (s *QuestionService) Delete(id uint) error {
	if err := s.questionRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuestionNotFound
		}
		return fmt.Errorf("failed to delete question: %w", err)
	}
	return nil
}

func (s *QuestionService) Search(term string) ([]models.Question, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, ErrEmptySearchTerm
	}

	questions, err := s.questionRepo.Search(term)
	if err != nil {
		return nil, fmt.Errorf("failed to search questions: %w", err)
	}
	return questions, nil
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
