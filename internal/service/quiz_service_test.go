package service

import (
	"errors"
	"testing"

	"udacitrivia/internal/models"
)

func newQuizFixture() (*QuizService, *memoryQuestionRepository) {
	categories := newMemoryCategoryRepository(DefaultCategories...)
	questions := newMemoryQuestionRepository()
	questions.add("Q1", "A1", 1, 1)
	questions.add("Q2", "A2", 1, 2)
	questions.add("Q3", "A3", 2, 3)
	questions.add("Q4", "A4", 1, 4)
	return NewQuizService(questions, categories), questions
}

func firstCandidate(int) int { return 0 }

func TestQuizService_NextSkipsPreviousQuestions(t *testing.T) {
	svc, _ := newQuizFixture()
	svc.WithRandom(firstCandidate)

	question, err := svc.Next(models.QuizRequest{
		PreviousQuestions: []uint{1},
		QuizCategory:      models.QuizCategory{ID: 1, Type: "Science"},
	})
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	if question == nil || question.ID != 2 {
		t.Fatalf("expected question 2, got %+v", question)
	}
}

func TestQuizService_NextAllCategories(t *testing.T) {
	svc, _ := newQuizFixture()

	var upper int
	svc.WithRandom(func(n int) int {
		upper = n
		return n - 1
	})

	question, err := svc.Next(models.QuizRequest{PreviousQuestions: []uint{4}})
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	if upper != 3 {
		t.Fatalf("expected 3 candidates across all categories, got %d", upper)
	}
	if question == nil || question.ID != 3 {
		t.Fatalf("expected question 3, got %+v", question)
	}
}

func TestQuizService_NextExhausted(t *testing.T) {
	svc, _ := newQuizFixture()

	question, err := svc.Next(models.QuizRequest{
		PreviousQuestions: []uint{3},
		QuizCategory:      models.QuizCategory{ID: 2},
	})
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	if question != nil {
		t.Fatalf("expected no question once the category is exhausted, got %+v", question)
	}
}

func TestQuizService_NextStopsAfterRound(t *testing.T) {
	svc, repo := newQuizFixture()
	for i := 0; i < 5; i++ {
		repo.add("Extra", "A", 1, 1)
	}

	question, err := svc.Next(models.QuizRequest{PreviousQuestions: []uint{1, 2, 3, 4, 5}})
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	if question != nil {
		t.Fatalf("expected round to end after %d questions", QuestionsPerPlay)
	}
}

func TestQuizService_NextUnknownCategory(t *testing.T) {
	svc, _ := newQuizFixture()

	_, err := svc.Next(models.QuizRequest{QuizCategory: models.QuizCategory{ID: 77}})
	if !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestEvaluateGuess(t *testing.T) {
	cases := []struct {
		guess    string
		answer   string
		expected bool
	}{
		{guess: "Maya Angelou", answer: "Maya Angelou", expected: true},
		{guess: "maya angelou!", answer: "Maya Angelou", expected: true},
		{guess: "I think it was Muhammad Ali.", answer: "Muhammad Ali", expected: true},
		{guess: "Muhammad", answer: "Muhammad Ali", expected: false},
		{guess: "", answer: "Brazil", expected: false},
		{guess: "anything", answer: "   ", expected: false},
	}

	for _, tc := range cases {
		if got := EvaluateGuess(tc.guess, tc.answer); got != tc.expected {
			t.Errorf("EvaluateGuess(%q, %q) = %v, want %v", tc.guess, tc.answer, got, tc.expected)
		}
	}
}
