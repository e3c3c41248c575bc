// Package grading checks submitted answers against the bank's answer
// notation. It is independent of the scheduler: the queue only needs a
// quality rating, grading exists to show the learner correctness.
package grading

import (
	"sort"
	"strings"
)

// CheckChoice compares a choice answer like "A" or "AD" against the
// bank's correct-answer notation:
//
//	"A"          single answer
//	"A/D"        alternatives, any listed answer counts
//	"AC"         multi-select, all letters required in any order
//	"AD/AC/CD"   alternatives of multi-selects
func CheckChoice(userChoice, correctAnswer string) bool {
	userChoice = strings.TrimSpace(userChoice)
	correctAnswer = strings.TrimSpace(correctAnswer)
	if userChoice == "" || correctAnswer == "" {
		return false
	}

	if strings.Contains(correctAnswer, "/") {
		for _, alt := range strings.Split(correctAnswer, "/") {
			if matchChoice(userChoice, strings.TrimSpace(alt)) {
				return true
			}
		}
		return false
	}
	return matchChoice(userChoice, correctAnswer)
}

func matchChoice(user, correct string) bool {
	if len(correct) > 1 && len(user) > 1 {
		return sortLetters(user) == sortLetters(correct)
	}
	return strings.EqualFold(user, correct)
}

func sortLetters(s string) string {
	letters := strings.Split(strings.ToUpper(s), "")
	sort.Strings(letters)
	return strings.Join(letters, "")
}

// CheckOrder reports whether an ordering answer matches the expected
// sequence exactly.
func CheckOrder(user, expected []string) bool {
	if len(user) != len(expected) || len(expected) == 0 {
		return false
	}
	for i := range expected {
		if !strings.EqualFold(strings.TrimSpace(user[i]), strings.TrimSpace(expected[i])) {
			return false
		}
	}
	return true
}
