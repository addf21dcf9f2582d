package models

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// MaxTitleLength is the upper bound on a task title after trimming.
const MaxTitleLength = 200

var (
	ErrEmptyTitle   = errors.New("title must not be empty")
	ErrTitleTooLong = errors.New("title must be at most 200 characters")
)

type Task struct {
	ID        int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Title     string `json:"title" gorm:"not null"`
	Completed bool   `json:"completed" gorm:"not null;default:false"`
	CreatedAt string `json:"created_at" gorm:"not null"`
}

// NormalizeTitle trims surrounding whitespace and validates the result
// against the 1-200 character bound shared by create and update.
func NormalizeTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", ErrEmptyTitle
	}
	if utf8.RuneCountInString(trimmed) > MaxTitleLength {
		return "", ErrTitleTooLong
	}
	return trimmed, nil
}
