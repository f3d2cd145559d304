package models

import "time"

// Word is a vocabulary flashcard belonging to exactly one (unit, lesson) pair.
// Content rows are immutable per session and never touched by progress
// operations.
type Word struct {
	ID             uint      `json:"id" gorm:"primarykey"`
	UnitID         uint      `json:"unitId" gorm:"index:idx_word_lesson;not null"`
	LessonID       uint      `json:"lessonId" gorm:"index:idx_word_lesson;not null"`
	Word           string    `json:"word" gorm:"not null"`
	Phonetic       string    `json:"phonetic"`
	EnglishMeaning string    `json:"englishMeaning"`
	ChineseMeaning string    `json:"chineseMeaning"`
	Example        string    `json:"example"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
