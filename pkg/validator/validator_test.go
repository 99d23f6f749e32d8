package validator

import (
	"errors"
	"strings"
	"testing"
)

type sample struct {
	Question   string `validate:"required,not_blank,no_html"`
	Difficulty int    `validate:"min=1,max=5"`
}

func TestValidateMessages(t *testing.T) {
	Init()

	err := Validate(sample{Question: "   ", Difficulty: 9})
	if err == nil {
		t.Fatalf("expected validation error")
	}

	messages := Messages(err)
	joined := strings.Join(messages, "|")
	if !strings.Contains(joined, "Please provide a question") {
		t.Fatalf("expected blank question message, got %v", messages)
	}
	if !strings.Contains(joined, "difficulty must be at most 5") {
		t.Fatalf("expected difficulty message, got %v", messages)
	}
}

func TestValidateRejectsHTML(t *testing.T) {
	Init()

	err := Validate(sample{Question: "<b>bold</b>", Difficulty: 2})
	if err == nil {
		t.Fatalf("expected no_html to reject markup")
	}
	if got := Messages(err); len(got) != 1 || got[0] != "question must not contain HTML" {
		t.Fatalf("unexpected messages %v", got)
	}
}

func TestMessagesPlainError(t *testing.T) {
	got := Messages(errors.New("boom"))
	if len(got) != 1 || got[0] != "boom" {
		t.Fatalf("unexpected messages %v", got)
	}
	if Messages(nil) != nil {
		t.Fatalf("expected nil messages for nil error")
	}
}

func TestSanitizeString(t *testing.T) {
	got := SanitizeString("  What is <script>alert(1)</script>the   <b>capital</b>?  ")
	if got != "What is the capital?" {
		t.Fatalf("unexpected sanitized value %q", got)
	}
}

func TestSanitizeStringKeepsApostrophes(t *testing.T) {
	got := SanitizeString("What's the tallest mountain & why?")
	if got != "What's the tallest mountain & why?" {
		t.Fatalf("expected plain text to survive, got %q", got)
	}
}

func TestIsValidationError(t *testing.T) {
	Init()

	if !IsValidationError(Validate(sample{Difficulty: 1})) {
		t.Fatalf("expected struct validation failure to be detected")
	}
	if IsValidationError(errors.New("boom")) {
		t.Fatalf("plain errors are not validation errors")
	}
}
