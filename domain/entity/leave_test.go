package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestNewLeave(t *testing.T) {
	t.Run("single day counts as one", func(t *testing.T) {
		l, err := NewLeave(1, day("2024-03-04"), day("2024-03-04"), "annual", "")
		require.NoError(t, err)
		assert.Equal(t, 1, l.Days())
		assert.Equal(t, LeaveStatusPending, l.Status)
	})

	t.Run("range is inclusive", func(t *testing.T) {
		l, err := NewLeave(1, day("2024-03-04"), day("2024-03-08"), "annual", "")
		require.NoError(t, err)
		assert.Equal(t, 5, l.Days())
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := NewLeave(1, day("2024-03-08"), day("2024-03-04"), "annual", "")
		assert.ErrorIs(t, err, ErrInvalidLeavePeriod)
	})

	t.Run("missing type", func(t *testing.T) {
		_, err := NewLeave(1, day("2024-03-04"), day("2024-03-04"), "", "")
		assert.ErrorIs(t, err, ErrLeaveTypeRequired)
	})
}

func TestLeaveApprove(t *testing.T) {
	t.Run("deducts balance", func(t *testing.T) {
		emp := &Employee{ID: 1, LeavesAvailable: 10}
		l, _ := NewLeave(1, day("2024-03-04"), day("2024-03-06"), "annual", "")

		require.NoError(t, l.Approve(emp))
		assert.Equal(t, 7, emp.LeavesAvailable)
		assert.Equal(t, LeaveStatusApproved, l.Status)
	})

	t.Run("insufficient balance leaves state untouched", func(t *testing.T) {
		emp := &Employee{ID: 1, LeavesAvailable: 2}
		l, _ := NewLeave(1, day("2024-03-04"), day("2024-03-06"), "annual", "")

		assert.ErrorIs(t, l.Approve(emp), ErrInsufficientBalance)
		assert.Equal(t, 2, emp.LeavesAvailable)
		assert.Equal(t, LeaveStatusPending, l.Status)
	})

	t.Run("only pending", func(t *testing.T) {
		emp := &Employee{ID: 1, LeavesAvailable: 10}
		l, _ := NewLeave(1, day("2024-03-04"), day("2024-03-04"), "annual", "")
		require.NoError(t, l.Reject())

		assert.ErrorIs(t, l.Approve(emp), ErrLeaveNotPending)
		assert.ErrorIs(t, l.Reject(), ErrLeaveNotPending)
	})
}

func TestTempTokenUsableAt(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tok := NewTempToken("abc", "10.0.0.1", now, 5*time.Minute)

	assert.True(t, tok.UsableAt(now, "10.0.0.1"))
	assert.False(t, tok.UsableAt(now, "10.0.0.2"))
	assert.False(t, tok.UsableAt(now.Add(6*time.Minute), "10.0.0.1"))

	tok.Used = true
	assert.False(t, tok.UsableAt(now, "10.0.0.1"))
}

func TestSummarize(t *testing.T) {
	entries := []*Timesheet{
		{HoursWorked: 4, ProjectCode: "A"},
		{HoursWorked: 3.5, ProjectCode: "B"},
		{HoursWorked: 2, ProjectCode: "A"},
	}
	s := Summarize(day("2024-03-01"), day("2024-03-31"), entries)

	assert.Equal(t, 3, s.TotalEntries)
	assert.InDelta(t, 9.5, s.TotalHours, 0.001)
	assert.InDelta(t, 6.0, s.ProjectSummary["A"], 0.001)
	assert.Equal(t, "2024-03-01", s.StartDate)
}
