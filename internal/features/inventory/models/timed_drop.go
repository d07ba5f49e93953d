package models

import "context"

// TimedDrop is a drop earned by accumulating watch minutes. This is the unit
// actually tracked during play.
type TimedDrop struct {
	BaseDrop

	RequiredMinutes int

	// Guarded by campaign.mu.
	currentMinutes   int
	progress         memoFloat
	remainingMinutes memoInt
}

// CurrentMinutes returns the minutes credited so far, always within
// [0, RequiredMinutes].
func (d *TimedDrop) CurrentMinutes() int {
	d.campaign.mu.Lock()
	defer d.campaign.mu.Unlock()
	return d.currentMinutes
}

// Progress returns the watch progress fraction in [0, 1].
func (d *TimedDrop) Progress() float64 {
	d.campaign.mu.Lock()
	defer d.campaign.mu.Unlock()
	return d.progressLocked()
}

func (d *TimedDrop) progressLocked() float64 {
	return d.progress.get(func() float64 {
		return float64(d.currentMinutes) / float64(d.RequiredMinutes)
	})
}

// RemainingMinutes returns the minutes still needed to complete this drop.
func (d *TimedDrop) RemainingMinutes() int {
	d.campaign.mu.Lock()
	defer d.campaign.mu.Unlock()
	return d.remainingMinutesLocked()
}

func (d *TimedDrop) remainingMinutesLocked() int {
	return d.remainingMinutes.get(func() int {
		return d.RequiredMinutes - d.currentMinutes
	})
}

// SetMinutes sets the watched minutes to an absolute value, clamped to
// [0, RequiredMinutes], and invalidates dependent aggregates.
func (d *TimedDrop) SetMinutes(minutes int) {
	d.claimMu.Lock()
	defer d.claimMu.Unlock()
	d.campaign.mu.Lock()
	defer d.campaign.mu.Unlock()
	if minutes < 0 {
		minutes = 0
	}
	if minutes > d.RequiredMinutes {
		minutes = d.RequiredMinutes
	}
	d.currentMinutes = minutes
	d.onMinutesChangedLocked()
}

// BumpMinutes credits one minute of watch time. Silently a no-op once the
// requirement is met; the steady-state tick calls this once per observed
// minute.
func (d *TimedDrop) BumpMinutes() {
	d.claimMu.Lock()
	defer d.claimMu.Unlock()
	d.campaign.mu.Lock()
	defer d.campaign.mu.Unlock()
	if d.currentMinutes >= d.RequiredMinutes {
		return
	}
	d.currentMinutes++
	d.onMinutesChangedLocked()
}

func (d *TimedDrop) onMinutesChangedLocked() {
	d.progress.invalidate()
	d.remainingMinutes.invalidate()
	d.campaign.onMinutesChangedLocked()
}

// Claim attempts to claim the drop. On success the local minute counter is
// forced to the requirement, closing any drift against the server.
func (d *TimedDrop) Claim(ctx context.Context) bool {
	d.claimMu.Lock()
	defer d.claimMu.Unlock()
	granted := d.claim(ctx)
	if granted {
		d.campaign.mu.Lock()
		if d.currentMinutes != d.RequiredMinutes {
			d.currentMinutes = d.RequiredMinutes
			d.onMinutesChangedLocked()
		}
		d.campaign.mu.Unlock()
	}
	return granted
}
