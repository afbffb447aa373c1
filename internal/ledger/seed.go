package ledger

import "github.com/iliyamo/tour-booking/internal/model"

// DefaultTours are installed by Seed at process start.
var DefaultTours = []model.Tour{
	{ID: 123, Description: "Whale Watching", Date: "2025-01-20", Cost: 4500, Places: 8},
	{ID: 124, Description: "Mountain Hiking", Date: "2025-01-21", Cost: 3000, Places: 10},
	{ID: 125, Description: "City Tour", Date: "2025-01-20", Cost: 2000, Places: 15},
}

// Seed creates each tour in DefaultTours.  Tours whose ID already exists
// are skipped.
func (l *Ledger) Seed() {
	for _, t := range DefaultTours {
		_ = l.CreateTour(t.ID, t.Description, t.Date, t.Cost, t.Places)
	}
}

// NewSeededLedger returns a ledger holding the default tours.
func NewSeededLedger() *Ledger {
	l := NewLedger()
	l.Seed()
	return l
}
