package qna

import (
	"sort"
	"strconv"
	"strings"

	"github.com/flame-cai/video-qna-backend/internal/models"
)

// Field labels the fallback parser recognizes in free-form model output.
// The record label ("Chapter No.") also delimits records from each other.
const (
	labelNumber   = "Chapter No."
	labelName     = "Chapter Name"
	labelStart    = "Chapter Start time"
	labelEnd      = "Chapter End Time"
	labelQuestion = "Chapter Question"
	labelAnswer   = "Chapter Answer"
)

var fieldLabels = []string{labelNumber, labelName, labelStart, labelEnd, labelQuestion, labelAnswer}

// ParseLabeledChapters scans unstructured text for repeated label-delimited
// chapter records (open-answer variant). A field's value runs from its label
// to the start of the next recognized label, or to the end of the record.
// Records missing any field are dropped; text outside records is ignored.
// No matches at all yields an empty collection, not an error.
func ParseLabeledChapters(text string) []models.Chapter {
	chapters := []models.Chapter{}
	for _, record := range splitRecords(text) {
		ch, ok := parseRecord(record)
		if ok {
			chapters = append(chapters, ch)
		}
	}
	return chapters
}

// splitRecords cuts text into per-chapter segments, each starting at an
// occurrence of the record label.
func splitRecords(text string) []string {
	var records []string
	rest := text
	start := strings.Index(rest, labelNumber)
	if start < 0 {
		return nil
	}
	rest = rest[start:]
	for rest != "" {
		next := strings.Index(rest[len(labelNumber):], labelNumber)
		if next < 0 {
			records = append(records, rest)
			break
		}
		cut := next + len(labelNumber)
		records = append(records, rest[:cut])
		rest = rest[cut:]
	}
	return records
}

// parseRecord extracts all six fields from one record segment. Label order
// within the record does not matter; each value is bounded by the nearest
// following label.
func parseRecord(record string) (models.Chapter, bool) {
	type match struct {
		label string
		pos   int
	}
	var matches []match
	for _, label := range fieldLabels {
		pos := strings.Index(record, label)
		if pos < 0 {
			return models.Chapter{}, false
		}
		matches = append(matches, match{label: label, pos: pos})
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].pos < matches[j].pos })

	fields := make(map[string]string, len(matches))
	for i, m := range matches {
		valueStart := m.pos + len(m.label)
		valueEnd := len(record)
		if i+1 < len(matches) {
			valueEnd = matches[i+1].pos
		}
		fields[m.label] = trimFieldValue(record[valueStart:valueEnd])
	}

	number, err := strconv.Atoi(fields[labelNumber])
	if err != nil {
		return models.Chapter{}, false
	}
	return models.Chapter{
		ChapterNumber:  number,
		ChapterName:    fields[labelName],
		StartTimestamp: fields[labelStart],
		EndTimestamp:   fields[labelEnd],
		Question:       fields[labelQuestion],
		Answer:         fields[labelAnswer],
	}, true
}

// trimFieldValue strips the label/value separator and surrounding noise.
func trimFieldValue(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "-:")
	return strings.TrimSpace(s)
}
