package main

import (
	"encoding/csv"
	"flag"
	"log"
	"os"
	"strings"

	"lexi/config"
	"lexi/database"
	"lexi/models"

	"github.com/xuri/excelize/v2"
)

// Imports lesson content into the database. Either an xlsx workbook with a
// "Words" sheet (word, phonetic, englishMeaning, chineseMeaning, example)
// and a "Practices" sheet (practice, answer), or separate CSV files with
// the same columns.
//
// Usage:
//
//	go run scripts/import_lesson.go -unit 1 -lesson 1 -file lesson.xlsx
//	go run scripts/import_lesson.go -unit 1 -lesson 1 -words words.csv -practices practices.csv
func main() {
	file := flag.String("file", "", "xlsx workbook with Words and Practices sheets")
	wordsFile := flag.String("words", "", "CSV file of words")
	practicesFile := flag.String("practices", "", "CSV file of practices")
	unitID := flag.Uint("unit", 0, "unit id")
	lessonID := flag.Uint("lesson", 0, "lesson id")
	flag.Parse()

	if *unitID == 0 || *lessonID == 0 {
		log.Fatal("Both -unit and -lesson are required")
	}
	if *file == "" && *wordsFile == "" && *practicesFile == "" {
		log.Fatal("Provide -file or at least one of -words/-practices")
	}

	config.LoadConfig()

	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	var wordRows, practiceRows [][]string

	if *file != "" {
		wordRows, practiceRows = readWorkbook(*file)
	} else {
		if *wordsFile != "" {
			wordRows = readCSV(*wordsFile)
		}
		if *practicesFile != "" {
			practiceRows = readCSV(*practicesFile)
		}
	}

	inserted := 0
	skipped := 0

	for i, row := range wordRows {
		if i == 0 {
			continue // header
		}
		if len(row) == 0 || strings.TrimSpace(col(row, 0)) == "" {
			skipped++
			continue
		}
		word := models.Word{
			UnitID:         *unitID,
			LessonID:       *lessonID,
			Word:           strings.TrimSpace(col(row, 0)),
			Phonetic:       strings.TrimSpace(col(row, 1)),
			EnglishMeaning: strings.TrimSpace(col(row, 2)),
			ChineseMeaning: strings.TrimSpace(col(row, 3)),
			Example:        strings.TrimSpace(col(row, 4)),
		}
		if err := db.Create(&word).Error; err != nil {
			log.Fatalf("Failed to insert word %q: %v", word.Word, err)
		}
		inserted++
	}

	for i, row := range practiceRows {
		if i == 0 {
			continue // header
		}
		if len(row) < 2 || strings.TrimSpace(col(row, 0)) == "" || strings.TrimSpace(col(row, 1)) == "" {
			skipped++
			continue
		}
		practice := models.Practice{
			UnitID:   *unitID,
			LessonID: *lessonID,
			Practice: strings.TrimSpace(col(row, 0)),
			Answer:   strings.TrimSpace(col(row, 1)),
		}
		if err := db.Create(&practice).Error; err != nil {
			log.Fatalf("Failed to insert practice %q: %v", practice.Practice, err)
		}
		inserted++
	}

	log.Printf("Import completed: %d rows inserted, %d skipped.", inserted, skipped)
}

// col returns the i-th cell of a row, tolerating short rows
func col(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
}

func readWorkbook(path string) (wordRows, practiceRows [][]string) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		log.Fatalf("Failed to open workbook: %v", err)
	}
	defer f.Close()

	wordRows, err = f.GetRows("Words")
	if err != nil {
		log.Printf("No Words sheet: %v", err)
	}
	practiceRows, err = f.GetRows("Practices")
	if err != nil {
		log.Printf("No Practices sheet: %v", err)
	}
	return wordRows, practiceRows
}

func readCSV(path string) [][]string {
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("Failed to open CSV file: %v", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		log.Fatalf("Failed to read CSV: %v", err)
	}
	return records
}
