package service

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"udacitrivia/internal/models"
	"udacitrivia/internal/repository"

	"gorm.io/gorm"
)

// QuestionsPerPlay is the length of one quiz round.
const QuestionsPerPlay = 5

type QuizService struct {
	questionRepo repository.QuestionRepository
	categoryRepo repository.CategoryRepository
	intn         func(n int) int
}

func NewQuizService(questionRepo repository.QuestionRepository, categoryRepo repository.CategoryRepository) *QuizService {
	return &QuizService{
		questionRepo: questionRepo,
		categoryRepo: categoryRepo,
		intn:         rand.IntN,
	}
}

// WithRandom replaces the random source; intn must return a value in [0, n).
func (s *QuizService) WithRandom(intn func(n int) int) *QuizService {
	s.intn = intn
	return s
}

// Next picks a random question of the category (0 means any category) that
// is not in previous. It returns nil once the round is over or the pool is
// exhausted.
func (s *QuizService) Next(req models.QuizRequest) (*models.Question, error) {
	if len(req.PreviousQuestions) >= QuestionsPerPlay {
		return nil, nil
	}

	categoryID := req.QuizCategory.ID
	if categoryID != 0 {
		if _, err := s.categoryRepo.GetByID(categoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, fmt.Errorf("failed to load category: %w", err)
		}
	}

	ids, err := s.questionRepo.ListIDs(categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list quiz questions: %w", err)
	}

	asked := make(map[uint]struct{}, len(req.PreviousQuestions))
	for _, id := range req.PreviousQuestions {
		asked[id] = struct{}{}
	}

	candidates := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, seen := asked[id]; !seen {
			candidates = append(candidates, id)
		}
	}

	if len(candidates) == 0 {
		return nil, nil
	}

	question, err := s.questionRepo.GetByID(candidates[s.intn(len(candidates))])
	if err != nil {
		return nil, fmt.Errorf("failed to load quiz question: %w", err)
	}
	return question, nil
}

var guessPunctuation = strings.NewReplacer(
	".", "", ",", "", "/", "", "#", "", "!", "", "$", "", "%", "", "^", "", "&", "",
	"*", "", ";", "", ":", "", "{", "", "}", "", "=", "", "-", "", "_", "", "`", "",
	"~", "", "(", "", ")", "",
)

// EvaluateGuess accepts a guess when every word of the answer appears in it,
// ignoring case and punctuation.
func EvaluateGuess(guess, answer string) bool {
	formatted := strings.ToLower(guessPunctuation.Replace(guess))
	words := strings.Fields(strings.ToLower(answer))
	if len(words) == 0 || strings.TrimSpace(formatted) == "" {
		return false
	}
	for _, word := range words {
		if !strings.Contains(formatted, word) {
			return false
		}
	}
	return true
}
