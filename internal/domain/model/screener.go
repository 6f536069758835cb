package model

// ScreenerBinding names a bounty or category a screener can work on.
// Display-only; assignment happens externally.
type ScreenerBinding struct {
	BountyID string `json:"bounty_id,omitempty"`
	Category string `json:"category,omitempty"`
}

// Screener is an external grading worker. The registry is consumed read-only;
// this core never mutates a screener.
type Screener struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Hotkey        string            `json:"hotkey"`
	Priority      int               `json:"priority"`
	CurrentJobs   int               `json:"current_jobs"`
	MaxConcurrent int               `json:"max_concurrent"`
	IsActive      bool              `json:"is_active"`
	Bindings      []ScreenerBinding `json:"bindings,omitempty"`
}

// AvailableSlots returns how many more jobs the screener could take on.
func (s *Screener) AvailableSlots() int {
	slots := s.MaxConcurrent - s.CurrentJobs
	if slots < 0 {
		return 0
	}
	return slots
}

// CanAccept reports whether the screener is active with spare capacity.
func (s *Screener) CanAccept() bool {
	return s.IsActive && s.AvailableSlots() > 0
}
