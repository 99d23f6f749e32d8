package repository

import (
	"strings"

	"udacitrivia/internal/models"

	"gorm.io/gorm"
)

type QuestionRepository interface {
	Create(question *models.Question) error
	GetByID(id uint) (*models.Question, error)
	Delete(id uint) error
	List(offset, limit int) ([]models.Question, error)
	Count() (int64, error)
	ListByCategory(categoryID uint, offset, limit int) ([]models.Question, error)
	CountByCategory(categoryID uint) (int64, error)
	ExistsByText(text string) (bool, error)
	Search(term string) ([]models.Question, error)
	ListIDs(categoryID uint) ([]uint, error)
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(question *models.Question) error {
	return r.db.Create(question).Error
}

func (r *questionRepository) GetByID(id uint) (*models.Question, error) {
	var question models.Question
	err := r.db.First(&question, id).Error
	return &question, err
}

func (r *questionRepository) Delete(id uint) error {
	result := r.db.Delete(&models.Question{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *questionRepository) List(offset, limit int) ([]models.Question, error) {
	var questions []models.Question
	err := r.db.Order("id ASC").Offset(offset).Limit(limit).Find(&questions).Error
	return questions, err
}

func (r *questionRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Question{}).Count(&count).Error
	return count, err
}

func (r *questionRepository) ListByCategory(categoryID uint, offset, limit int) ([]models.Question, error) {
	var questions []models.Question
	err := r.db.Where("category = ?", categoryID).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&questions).Error
	return questions, err
}

func (r *questionRepository) CountByCategory(categoryID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Question{}).Where("category = ?", categoryID).Count(&count).Error
	return count, err
}

func (r *questionRepository) ExistsByText(text string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Question{}).Where("LOWER(question) = ?", strings.ToLower(text)).Count(&count).Error
	return count > 0, err
}

// Search matches term as a case-insensitive substring of the question text.
func (r *questionRepository) Search(term string) ([]models.Question, error) {
	var questions []models.Question
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	err := r.db.Where("LOWER(question) LIKE ? ESCAPE '\\'", pattern).
		Order("id ASC").
		Find(&questions).Error
	return questions, err
}

// ListIDs returns the ids of every question in the category; 0 means all.
func (r *questionRepository) ListIDs(categoryID uint) ([]uint, error) {
	var ids []uint
	query := r.db.Model(&models.Question{}).Order("id ASC")
	if categoryID != 0 {
		query = query.Where("category = ?", categoryID)
	}
	err := query.Pluck("id", &ids).Error
	return ids, err
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}
