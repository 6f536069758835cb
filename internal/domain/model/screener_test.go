package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScreener_AvailableSlots(t *testing.T) {
	s := &Screener{CurrentJobs: 2, MaxConcurrent: 5}
	assert.Equal(t, 3, s.AvailableSlots())

	// Over-committed registries must not report negative capacity.
	s.CurrentJobs = 7
	assert.Equal(t, 0, s.AvailableSlots())
}

func TestScreener_CanAccept(t *testing.T) {
	s := &Screener{CurrentJobs: 1, MaxConcurrent: 2, IsActive: true}
	assert.True(t, s.CanAccept())

	s.IsActive = false
	assert.False(t, s.CanAccept())

	s.IsActive = true
	s.CurrentJobs = 2
	assert.False(t, s.CanAccept())
}
