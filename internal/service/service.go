// Package service holds the application's business operations. Every mutating
// operation runs as one repository transaction: load copies, change them, run
// the gamification ledger, save.
package service

import (
	"errors"
	"log"
	"time"

	"schoolfit/internal/gamification"
	"schoolfit/internal/metrics"
	"schoolfit/internal/models"
)

var (
	// ErrForbidden is returned when a user acts on data they do not own
	ErrForbidden = errors.New("not allowed")
	// ErrNotTeacher is returned when a teacher-only operation is called by a student
	ErrNotTeacher = errors.New("only teachers can do this")
)

// recordAward publishes an award to metrics and logs earned badges
func recordAward(m *metrics.Metrics, username string, award gamification.Award) {
	keys := make([]string, len(award.Badges))
	for i, badge := range award.Badges {
		keys[i] = badge.Key
		log.Printf("Badge awarded: user=%s badge=%s points=%d", username, badge.Key, badge.Points)
	}
	m.AddAward(award.Points, keys)
}

func today(now func() time.Time) string {
	return now().Format(models.DateLayout)
}
