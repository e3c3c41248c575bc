package api

import (
	"github.com/eddy80524/dental-quiz-app-sub000/internal/services"
	"github.com/eddy80524/dental-quiz-app-sub000/internal/worker"
)

// Server holds the wired services behind the HTTP surface.
type Server struct {
	ProfileService  services.ProfileService
	QuestionService services.QuestionService
	SessionService  services.SessionService
	ImportService   services.ImportService
	StatsService    services.StatsService
	PersistPool     *worker.Pool

	QuestionBankPath string
	NewCardsPerDay   int
}
