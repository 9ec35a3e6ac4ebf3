package model

import "time"

type Season struct {
	ID    int       `json:"id"`
	Name  string    `json:"name"`
	Start time.Time `json:"startTimestamp"`
	End   time.Time `json:"endTimestamp"`
}

// Active reports whether ts falls into the season window [Start, End).
func (s *Season) Active(ts time.Time) bool {
	return !ts.Before(s.Start) && ts.Before(s.End)
}
