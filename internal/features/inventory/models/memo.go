package models

// memoInt is a lazily recomputed derived value with explicit invalidation.
// Callers must hold the owning campaign's state mutex.
type memoInt struct {
	value int
	valid bool
}

func (m *memoInt) get(compute func() int) int {
	if !m.valid {
		m.value = compute()
		m.valid = true
	}
	return m.value
}

func (m *memoInt) invalidate() { m.valid = false }

type memoFloat struct {
	value float64
	valid bool
}

func (m *memoFloat) get(compute func() float64) float64 {
	if !m.valid {
		m.value = compute()
		m.valid = true
	}
	return m.value
}

func (m *memoFloat) invalidate() { m.valid = false }

type memoBool struct {
	value bool
	valid bool
}

func (m *memoBool) get(compute func() bool) bool {
	if !m.valid {
		m.value = compute()
		m.valid = true
	}
	return m.value
}

func (m *memoBool) invalidate() { m.valid = false }
