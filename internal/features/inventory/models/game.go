package models

import "fmt"

// Game identifies the game a campaign belongs to. Identity derives from ID
// alone; the name is display-only and may drift between snapshots.
type Game struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Same reports whether both values refer to the same game.
func (g Game) Same(other Game) bool {
	return g.ID == other.ID
}

func (g Game) String() string {
	return g.Name
}

// GoString mirrors the display form used in debug logs.
func (g Game) GoString() string {
	return fmt.Sprintf("Game(%d, %s)", g.ID, g.Name)
}
