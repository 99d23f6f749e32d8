package models

// Category groups questions; Type is the display name ("Science", "Art", ...).
type Category struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Type string `gorm:"uniqueIndex;not null" json:"type"`
}

type Question struct {
	ID         uint   `gorm:"primarykey" json:"id"`
	Question   string `gorm:"not null" json:"question"`
	Answer     string `gorm:"not null" json:"answer"`
	Category   uint   `gorm:"index;not null" json:"category"`
	Difficulty int    `gorm:"not null" json:"difficulty"`
}

type CreateQuestionRequest struct {
	Question   string `json:"question" form:"question" binding:"required,not_blank" validate:"required,not_blank"`
	Answer     string `json:"answer" form:"answer" binding:"required,not_blank" validate:"required,not_blank"`
	Category   uint   `json:"category" form:"category" binding:"required" validate:"required"`
	Difficulty int    `json:"difficulty" form:"difficulty" binding:"required,min=1,max=5" validate:"required,min=1,max=5"`
}

// QuestionsPostRequest is the body accepted by POST /questions: a search
// when SearchTerm is set, otherwise a new question.
type QuestionsPostRequest struct {
	SearchTerm *string `json:"searchTerm"`
	Question   string  `json:"question"`
	Answer     string  `json:"answer"`
	Category   uint    `json:"category"`
	Difficulty int     `json:"difficulty"`
}

func (r QuestionsPostRequest) IsSearch() bool {
	return r.SearchTerm != nil
}

func (r QuestionsPostRequest) CreateRequest() CreateQuestionRequest {
	return CreateQuestionRequest{
		Question:   r.Question,
		Answer:     r.Answer,
		Category:   r.Category,
		Difficulty: r.Difficulty,
	}
}

type QuizCategory struct {
	ID   uint   `json:"id"`
	Type string `json:"type"`
}

type QuizRequest struct {
	PreviousQuestions []uint       `json:"previous_questions"`
	QuizCategory      QuizCategory `json:"quiz_category"`
}

// QuestionPage is one page of questions plus the total number of matches.
type QuestionPage struct {
	Questions []Question `json:"questions"`
	Total     int64      `json:"total"`
	Page      int        `json:"page"`
	PerPage   int        `json:"per_page"`
}

func (p QuestionPage) TotalPages() int {
	if p.PerPage <= 0 || p.Total == 0 {
		return 0
	}
	return int((p.Total + int64(p.PerPage) - 1) / int64(p.PerPage))
}

func (p QuestionPage) HasPrev() bool {
	return p.Page > 1
}

func (p QuestionPage) HasNext() bool {
	return p.Page < p.TotalPages()
}
