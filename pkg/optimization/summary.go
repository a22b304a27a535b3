// Package optimization provides shared data structures for optimization results.
package optimization

// Summary captures the result of a single roster solve.
type Summary struct {
	ID          string          `json:"id"`
	Status      string          `json:"status"`
	Players     []PlayerSummary `json:"players"`
	Objective   float64         `json:"objective"`
	CreditsUsed float64         `json:"creditsUsed"`
	MaxCredits  float64         `json:"maxCredits"`
	RoleCounts  map[string]int  `json:"roleCounts"`
	TeamCounts  map[string]int  `json:"teamCounts"`
	Nodes       int             `json:"nodes"`
	DurationMS  int64           `json:"durationMs"`
	Notes       []string        `json:"notes,omitempty"`
}

// PlayerSummary describes one selected player.
type PlayerSummary struct {
	Name    string  `json:"name"`
	Credits float64 `json:"credits"`
	ROI     float64 `json:"roi"`
	Role    string  `json:"role"`
	Team    string  `json:"team"`
}

// Count returns the number of selected players.
func (s Summary) Count() int {
	return len(s.Players)
}
