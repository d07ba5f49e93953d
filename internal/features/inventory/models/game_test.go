package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGameIdentity(t *testing.T) {
	a := Game{ID: 33214, Name: "Fortnite"}
	b := Game{ID: 33214, Name: "Fortnite (renamed)"}
	c := Game{ID: 493057, Name: "PUBG"}

	t.Run("SameByIDOnly", func(t *testing.T) {
		assert.True(t, a.Same(b), "equal ids must be interchangeable despite name drift")
		assert.False(t, a.Same(c))
	})

	t.Run("MapKeyByID", func(t *testing.T) {
		seen := map[int64]Game{}
		seen[a.ID] = a
		seen[b.ID] = b
		assert.Len(t, seen, 1)
	})

	t.Run("String", func(t *testing.T) {
		assert.Equal(t, "Fortnite", a.String())
	})
}
