package service

import "errors"

var (
	ErrQuestionNotFound = errors.New("question not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrQuestionExists   = errors.New("question already exists")
	ErrPageOutOfRange   = errors.New("page out of range")
	ErrEmptySearchTerm  = errors.New("search term is required")
)
