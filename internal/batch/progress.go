package batch

import (
	"fmt"
	"time"
)

// progress records current/total and emits a progress event at most once
// per progress interval. force bypasses the throttle.
func (m *Manager) progress(current, total int, message string, force bool) {
	if total > 0 && current > total {
		current = total
	}
	m.current.Store(int64(current))

	now := m.now()
	if !force && !m.lastEmit.IsZero() && now.Sub(m.lastEmit) < m.settings.ProgressIntervalDuration() {
		return
	}
	m.lastEmit = now

	eta := estimate(current, total, now.Sub(m.started))
	ev := Event{
		Kind:    EventProgress,
		Message: message,
		Current: current,
		Total:   total,
		ETA:     eta,
	}
	if eta != UnknownETA {
		ev.Finish = now.Add(eta)
	}

	// Progress is lossy: a slow consumer only misses intermediate updates.
	select {
	case m.events <- ev:
	default:
	}
}

// estimate extrapolates the remaining time from the throughput so far.
func estimate(current, total int, elapsed time.Duration) time.Duration {
	if current <= 0 || total <= 0 || elapsed <= 0 {
		return UnknownETA
	}
	rate := float64(current) / elapsed.Seconds()
	remaining := float64(total - current)
	return time.Duration(remaining / rate * float64(time.Second)).Round(time.Millisecond)
}

// FormatETA formats d as HH:MM:SS, or "--:--:--" when d is negative.
func FormatETA(d time.Duration) string {
	if d < 0 {
		return "--:--:--"
	}
	s := int64(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, s%3600/60, s%60)
}
