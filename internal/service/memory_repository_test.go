package service

import (
	"sort"
	"strings"

	"gorm.io/gorm"

	"udacitrivia/internal/models"
)

type memoryCategoryRepository struct {
	categories []models.Category
	createErr  error
}

func newMemoryCategoryRepository(names ...string) *memoryCategoryRepository {
	repo := &memoryCategoryRepository{}
	for _, name := range names {
		_ = repo.Create(&models.Category{Type: name})
	}
	return repo
}

func (r *memoryCategoryRepository) Create(category *models.Category) error {
	if r.createErr != nil {
		return r.createErr
	}
	category.ID = uint(len(r.categories) + 1)
	r.categories = append(r.categories, *category)
	return nil
}

func (r *memoryCategoryRepository) GetByID(id uint) (*models.Category, error) {
	for _, category := range r.categories {
		if category.ID == id {
			c := category
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryCategoryRepository) GetAll() ([]models.Category, error) {
	result := make([]models.Category, len(r.categories))
	copy(result, r.categories)
	return result, nil
}

func (r *memoryCategoryRepository) Count() (int64, error) {
	return int64(len(r.categories)), nil
}

type memoryQuestionRepository struct {
	questions map[uint]models.Question
	nextID    uint
}

func newMemoryQuestionRepository() *memoryQuestionRepository {
	return &memoryQuestionRepository{questions: make(map[uint]models.Question), nextID: 1}
}

func (r *memoryQuestionRepository) add(question, answer string, category uint, difficulty int) models.Question {
	q := models.Question{Question: question, Answer: answer, Category: category, Difficulty: difficulty}
	_ = r.Create(&q)
	return q
}

func (r *memoryQuestionRepository) sorted(filter func(models.Question) bool) []models.Question {
	result := make([]models.Question, 0, len(r.questions))
	for _, q := range r.questions {
		if filter == nil || filter(q) {
			result = append(result, q)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func window(questions []models.Question, offset, limit int) []models.Question {
	if offset >= len(questions) {
		return []models.Question{}
	}
	end := offset + limit
	if end > len(questions) {
		end = len(questions)
	}
	return questions[offset:end]
}

func (r *memoryQuestionRepository) Create(question *models.Question) error {
	question.ID = r.nextID
	r.nextID++
	r.questions[question.ID] = *question
	return nil
}

func (r *memoryQuestionRepository) GetByID(id uint) (*models.Question, error) {
	q, ok := r.questions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &q, nil
}

func (r *memoryQuestionRepository) Delete(id uint) error {
	if _, ok := r.questions[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.questions, id)
	return nil
}

func (r *memoryQuestionRepository) List(offset, limit int) ([]models.Question, error) {
	return window(r.sorted(nil), offset, limit), nil
}

func (r *memoryQuestionRepository) Count() (int64, error) {
	return int64(len(r.questions)), nil
}

func (r *memoryQuestionRepository) ListByCategory(categoryID uint, offset, limit int) ([]models.Question, error) {
	return window(r.sorted(func(q models.Question) bool { return q.Category == categoryID }), offset, limit), nil
}

func (r *memoryQuestionRepository) CountByCategory(categoryID uint) (int64, error) {
	return int64(len(r.sorted(func(q models.Question) bool { return q.Category == categoryID }))), nil
}

func (r *memoryQuestionRepository) ExistsByText(text string) (bool, error) {
	for _, q := range r.questions {
		if strings.EqualFold(q.Question, text) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryQuestionRepository) Search(term string) ([]models.Question, error) {
	term = strings.ToLower(term)
	return r.sorted(func(q models.Question) bool {
		return strings.Contains(strings.ToLower(q.Question), term)
	}), nil
}

func (r *memoryQuestionRepository) ListIDs(categoryID uint) ([]uint, error) {
	var ids []uint
	for _, q := range r.sorted(func(q models.Question) bool { return categoryID == 0 || q.Category == categoryID }) {
		ids = append(ids, q.ID)
	}
	return ids, nil
}
