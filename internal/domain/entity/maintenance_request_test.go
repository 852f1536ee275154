package entity

import (
	"testing"
	"time"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{StageNew, StageInProgress, true},
		{StageNew, StageRepaired, false},
		{StageNew, StageScrap, false},
		{StageInProgress, StageRepaired, true},
		{StageInProgress, StageScrap, true},
		{StageInProgress, StageNew, false},
		{StageRepaired, StageInProgress, false},
		{StageRepaired, StageScrap, false},
		{StageScrap, StageNew, false},
		{"bogus", StageInProgress, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%q, %q) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestClosedAndOverdue(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	open := &MaintenanceRequest{Stage: StageInProgress, ScheduledDate: &past}
	if !open.Overdue(now) {
		t.Error("past schedule on open request should be overdue")
	}

	notYet := &MaintenanceRequest{Stage: StageNew, ScheduledDate: &future}
	if notYet.Overdue(now) {
		t.Error("future schedule should not be overdue")
	}

	unscheduled := &MaintenanceRequest{Stage: StageNew}
	if unscheduled.Overdue(now) {
		t.Error("unscheduled request should not be overdue")
	}

	closed := &MaintenanceRequest{Stage: StageRepaired, ScheduledDate: &past}
	if !closed.Closed() {
		t.Error("repaired request should be closed")
	}
	if closed.Overdue(now) {
		t.Error("closed request should not be overdue")
	}
}
