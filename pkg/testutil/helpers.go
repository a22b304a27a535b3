// Package testutil provides common player pools and helpers for testing.
package testutil

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/iwvelando/fantasy-optimizer/internal/encoder"
)

// PoolHeader is the CSV header matching the default column configuration.
const PoolHeader = "playerName,credits,selectionPercent,player_role,teamName"

// Pool15 returns a valid 15-player pool across teams IND and WI. At least one
// roster within 100 credits satisfies the default rules.
func Pool15() []encoder.Player {
	return []encoder.Player{
		{Name: "Rishabh Pant", Credits: 9.0, Selection: "55%", Role: "wk", Team: "IND"},
		{Name: "KL Rahul", Credits: 9.5, Selection: "40%", Role: "wk", Team: "IND"},
		{Name: "Virat Kohli", Credits: 10.5, Selection: "80%", Role: "bat", Team: "IND"},
		{Name: "Rohit Sharma", Credits: 10.0, Selection: "70%", Role: "bat", Team: "IND"},
		{Name: "Shreyas Iyer", Credits: 8.5, Selection: "35%", Role: "bat", Team: "IND"},
		{Name: "Jasprit Bumrah", Credits: 9.5, Selection: "65%", Role: "bowl", Team: "IND"},
		{Name: "Mohammed Shami", Credits: 8.5, Selection: "30%", Role: "bowl", Team: "IND"},
		{Name: "Ravindra Jadeja", Credits: 9.0, Selection: "50%", Role: "ar", Team: "IND"},
		{Name: "Shai Hope", Credits: 8.5, Selection: "25%", Role: "wk", Team: "WI"},
		{Name: "Shimron Hetmyer", Credits: 8.5, Selection: "30%", Role: "bat", Team: "WI"},
		{Name: "Nicholas Pooran", Credits: 9.0, Selection: "45%", Role: "bat", Team: "WI"},
		{Name: "Sheldon Cottrell", Credits: 8.0, Selection: "20%", Role: "bowl", Team: "WI"},
		{Name: "Alzarri Joseph", Credits: 8.5, Selection: "22%", Role: "bowl", Team: "WI"},
		{Name: "Jason Holder", Credits: 9.0, Selection: "40%", Role: "ar", Team: "WI"},
		{Name: "Kieron Pollard", Credits: 9.0, Selection: "38%", Role: "ar", Team: "WI"},
	}
}

// WithoutPlayers returns pool minus the named players.
func WithoutPlayers(pool []encoder.Player, names ...string) []encoder.Player {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	out := make([]encoder.Player, 0, len(pool))
	for _, p := range pool {
		if !drop[p.Name] {
			out = append(out, p)
		}
	}
	return out
}

// GeneratePool returns a deterministic pool of n players split evenly across
// two teams, cycling roles so every role is represented. Credits fall in
// [7, 10.5] in half-credit steps.
func GeneratePool(n int, seed int64) []encoder.Player {
	rng := rand.New(rand.NewSource(seed))
	roles := []string{"wk", "bat", "bowl", "ar", "bat", "bowl", "ar"}
	teams := []string{"AUS", "ENG"}
	pool := make([]encoder.Player, n)
	for i := 0; i < n; i++ {
		pool[i] = encoder.Player{
			Name:      fmt.Sprintf("Player %02d", i+1),
			Credits:   7 + 0.5*float64(rng.Intn(8)),
			Selection: fmt.Sprintf("%d%%", 5+rng.Intn(90)),
			Role:      roles[i%len(roles)],
			Team:      teams[i%len(teams)],
		}
	}
	return pool
}

// PoolCSV renders players as CSV text using PoolHeader.
func PoolCSV(players []encoder.Player) string {
	var b strings.Builder
	b.WriteString(PoolHeader)
	b.WriteString("\n")
	for _, p := range players {
		fmt.Fprintf(&b, "%s,%g,%s,%s,%s\n", p.Name, p.Credits, p.Selection, p.Role, p.Team)
	}
	return b.String()
}

// FindPlayer finds a player by name in the pool.
// Returns a pointer to the player if found, nil otherwise.
func FindPlayer(pool []encoder.Player, name string) *encoder.Player {
	for i := range pool {
		if pool[i].Name == name {
			return &pool[i]
		}
	}
	return nil
}
