// Package questionbank parses exam question numbers, classifies
// required (必修) questions and loads question-bank JSON files.
package questionbank

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"github.com/eddy80524/dental-quiz-app-sub000/internal/models"
)

// National exam numbers look like 117A12: exam session, section letter,
// question number. Graduate (学士) numbers look like G24-1-1-A-15, where
// the middle part may carry a retake marker.
var (
	nationalRe = regexp.MustCompile(`^(\d+)([A-D])(\d+)$`)
	graduateRe = regexp.MustCompile(`^G\d{2}-[\d\-再]+-[A-D]-(\d+)$`)
)

// IsRequired reports whether a question number falls inside the
// must-pass (必修) range of its exam. The ranges moved across exam
// sessions:
//
//	101-102: sections A,B questions 1-25
//	103-110: sections A,C questions 1-35
//	111-118: all sections, questions 1-20
//
// Graduate exams mark questions 1-20 of every section as required.
func IsRequired(number string) bool {
	if m := nationalRe.FindStringSubmatch(number); m != nil {
		session, _ := strconv.Atoi(m[1])
		section := m[2]
		num, _ := strconv.Atoi(m[3])
		switch {
		case session >= 101 && session <= 102:
			return (section == "A" || section == "B") && num >= 1 && num <= 25
		case session >= 103 && session <= 110:
			return (section == "A" || section == "C") && num >= 1 && num <= 35
		case session >= 111 && session <= 118:
			return num >= 1 && num <= 20
		}
		return false
	}
	if m := graduateRe.FindStringSubmatch(number); m != nil {
		num, _ := strconv.Atoi(m[1])
		return num >= 1 && num <= 20
	}
	return false
}

// bankQuestion mirrors one record of the question-bank JSON files.
type bankQuestion struct {
	Number        string   `json:"number"`
	Subject       string   `json:"subject"`
	Text          string   `json:"question"`
	Choices       []string `json:"choices"`
	Answer        string   `json:"answer"`
	CaseID        string   `json:"case_id"`
	Type          string   `json:"type"`
	ExpectedOrder []string `json:"expected_order"`
}

// Load reads a question-bank JSON file into Question models, skipping
// records without a number and deduplicating by number.
func Load(path string) ([]models.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes question-bank JSON bytes.
func Parse(data []byte) ([]models.Question, error) {
	var raw []bankQuestion
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode question bank: %w", err)
	}

	seen := make(map[string]bool, len(raw))
	questions := make([]models.Question, 0, len(raw))
	for _, r := range raw {
		if r.Number == "" || seen[r.Number] {
			continue
		}
		seen[r.Number] = true

		kind := models.GroupSingle
		switch {
		case r.Type == "ordering":
			kind = models.GroupOrdering
		case r.CaseID != "":
			kind = models.GroupCase
		}

		questions = append(questions, models.Question{
			Number:        r.Number,
			Subject:       r.Subject,
			IsRequired:    IsRequired(r.Number),
			CaseID:        r.CaseID,
			Kind:          kind,
			Text:          r.Text,
			Choices:       r.Choices,
			CorrectAnswer: r.Answer,
		})
	}
	return questions, nil
}

// BuildGroups turns a flat question list into queue groups: questions
// sharing a case ID travel together, everything else is a singleton.
// Input order is preserved by first appearance.
func BuildGroups(questions []models.Question) []models.QuestionGroup {
	var groups []models.QuestionGroup
	caseIndex := make(map[string]int)

	for _, q := range questions {
		if q.CaseID == "" {
			g := models.SingleGroup(q.Number)
			g.Kind = q.Kind
			groups = append(groups, g)
			continue
		}
		if i, ok := caseIndex[q.CaseID]; ok {
			groups[i].QuestionIDs = append(groups[i].QuestionIDs, q.Number)
			continue
		}
		caseIndex[q.CaseID] = len(groups)
		groups = append(groups, models.CaseGroup(q.Number))
	}
	return groups
}
