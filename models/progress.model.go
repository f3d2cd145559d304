package models

import "time"

// UserWordProgress is the per-user completion flag for a single word.
// Created lazily on first toggle; absence means "not completed". The
// composite unique index makes insert-or-update upserts safe under
// concurrent toggles.
type UserWordProgress struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	UserID      uint      `json:"userId" gorm:"uniqueIndex:idx_user_word;not null"`
	WordID      uint      `json:"wordId" gorm:"uniqueIndex:idx_user_word;not null"`
	IsCompleted bool      `json:"isCompleted" gorm:"default:false"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// UserPracticeProgress is the per-user completion flag for a practice.
// Toggled manually or set true idempotently on a correct answer submission.
type UserPracticeProgress struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	UserID      uint      `json:"userId" gorm:"uniqueIndex:idx_user_practice;not null"`
	PracticeID  uint      `json:"practiceId" gorm:"uniqueIndex:idx_user_practice;not null"`
	IsCompleted bool      `json:"isCompleted" gorm:"default:false"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// UserLessonProgress is a derived aggregate: true iff every word and every
// practice of the (unit, lesson) pair has a completed progress row for the
// user. Never written directly by a user action, only recomputed after
// word/practice mutations.
type UserLessonProgress struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	UserID      uint      `json:"userId" gorm:"uniqueIndex:idx_user_lesson;not null"`
	UnitID      uint      `json:"unitId" gorm:"uniqueIndex:idx_user_lesson;not null"`
	LessonID    uint      `json:"lessonId" gorm:"uniqueIndex:idx_user_lesson;not null"`
	IsCompleted bool      `json:"isCompleted" gorm:"default:false"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// LessonCompletion is an append-only log row written once per 0→1
// transition of the corresponding lesson flag. Rows survive lesson resets,
// so a reset-and-recompleted lesson accumulates multiple entries.
type LessonCompletion struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	UserID      uint      `json:"userId" gorm:"index:idx_completion_lesson;not null"`
	UnitID      uint      `json:"unitId" gorm:"index:idx_completion_lesson;not null"`
	LessonID    uint      `json:"lessonId" gorm:"index:idx_completion_lesson;not null"`
	CompletedAt time.Time `json:"completedAt"`
}
