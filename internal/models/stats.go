package models

// CardStat summarizes a profile's scheduling state across all cards.
type CardStat struct {
	TotalCards      int     `json:"total_cards"`
	TotalReviews    int     `json:"total_reviews"`
	CardsDue        int     `json:"cards_due"`
	CardsDueSoon    int     `json:"cards_due_soon"`
	CardsMastered   int     `json:"cards_mastered"`
	CardsStruggling int     `json:"cards_struggling"`
	OverallAccuracy float64 `json:"overall_accuracy"`
	AvgEaseFactor   float64 `json:"avg_ease_factor"`
	AvgIntervalDays float64 `json:"avg_interval_days"`
}

// SubjectStat is the per-subject breakdown behind the coverage view.
type SubjectStat struct {
	Subject        string  `json:"subject"`
	TotalQuestions int     `json:"total_questions"`
	Introduced     int     `json:"introduced"`
	TotalReviews   int     `json:"total_reviews"`
	Accuracy       float64 `json:"accuracy"`
	AvgEaseFactor  float64 `json:"avg_ease_factor"`
}
