package repository

import (
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"udacitrivia/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(&models.Category{}, &models.Question{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedQuestions(t *testing.T, repo QuestionRepository, questions ...models.Question) []models.Question {
	t.Helper()
	created := make([]models.Question, 0, len(questions))
	for i := range questions {
		q := questions[i]
		if err := repo.Create(&q); err != nil {
			t.Fatalf("failed to create question: %v", err)
		}
		created = append(created, q)
	}
	return created
}

func TestCategoryRepositoryOrdersByID(t *testing.T) {
	repo := NewCategoryRepository(newTestDB(t))

	for _, name := range []string{"Science", "Art", "Geography"} {
		if err := repo.Create(&models.Category{Type: name}); err != nil {
			t.Fatalf("failed to create category: %v", err)
		}
	}

	categories, err := repo.GetAll()
	if err != nil {
		t.Fatalf("GetAll returned error: %v", err)
	}
	if len(categories) != 3 || categories[0].Type != "Science" || categories[2].Type != "Geography" {
		t.Fatalf("unexpected categories %+v", categories)
	}

	count, err := repo.Count()
	if err != nil || count != 3 {
		t.Fatalf("expected 3 categories, got %d (%v)", count, err)
	}

	if _, err := repo.GetByID(42); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestQuestionRepositoryPaginationAndCategory(t *testing.T) {
	repo := NewQuestionRepository(newTestDB(t))

	var questions []models.Question
	for i := 0; i < 12; i++ {
		category := uint(1)
		if i%3 == 0 {
			category = 2
		}
		questions = append(questions, models.Question{
			Question:   "Question " + string(rune('A'+i)),
			Answer:     "Answer",
			Category:   category,
			Difficulty: 1,
		})
	}
	seedQuestions(t, repo, questions...)

	page, err := repo.List(10, 10)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(page) != 2 || page[0].Question != "Question K" {
		t.Fatalf("unexpected second page %+v", page)
	}

	total, err := repo.CountByCategory(2)
	if err != nil || total != 4 {
		t.Fatalf("expected 4 questions in category 2, got %d (%v)", total, err)
	}

	byCategory, err := repo.ListByCategory(2, 0, 10)
	if err != nil {
		t.Fatalf("ListByCategory returned error: %v", err)
	}
	for _, q := range byCategory {
		if q.Category != 2 {
			t.Fatalf("unexpected category %d in %+v", q.Category, q)
		}
	}

	ids, err := repo.ListIDs(0)
	if err != nil || len(ids) != 12 {
		t.Fatalf("expected 12 ids, got %v (%v)", ids, err)
	}
}

func TestQuestionRepositorySearchIsCaseInsensitive(t *testing.T) {
	repo := NewQuestionRepository(newTestDB(t))
	seedQuestions(t, repo,
		models.Question{Question: "What is the Title of the 1990 fantasy film?", Answer: "Edward", Category: 5, Difficulty: 3},
		models.Question{Question: "Which planet is the largest?", Answer: "Jupiter", Category: 1, Difficulty: 2},
		models.Question{Question: "100% of what?", Answer: "Nothing", Category: 1, Difficulty: 1},
	)

	results, err := repo.Search("title")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(results) != 1 || results[0].Answer != "Edward" {
		t.Fatalf("unexpected results %+v", results)
	}

	results, err = repo.Search("%")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(results) != 1 || results[0].Answer != "Nothing" {
		t.Fatalf("expected literal percent match only, got %+v", results)
	}
}

func TestQuestionRepositoryDeleteAndExists(t *testing.T) {
	repo := NewQuestionRepository(newTestDB(t))
	created := seedQuestions(t, repo, models.Question{Question: "Who painted the Mona Lisa?", Answer: "Da Vinci", Category: 2, Difficulty: 1})

	exists, err := repo.ExistsByText("who painted the mona lisa?")
	if err != nil || !exists {
		t.Fatalf("expected question to exist, got %v (%v)", exists, err)
	}

	if err := repo.Delete(created[0].ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := repo.Delete(created[0].ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound on second delete, got %v", err)
	}
}
