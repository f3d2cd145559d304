package models

import "time"

// Practice is a cloze (fill-in-the-blank) exercise with one accepted answer.
type Practice struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	UnitID    uint      `json:"unitId" gorm:"index:idx_practice_lesson;not null"`
	LessonID  uint      `json:"lessonId" gorm:"index:idx_practice_lesson;not null"`
	Practice  string    `json:"practice" gorm:"not null"`
	Answer    string    `json:"answer" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
