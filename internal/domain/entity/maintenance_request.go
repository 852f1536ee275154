package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Request stages and types.
const (
	StageNew        = "new"
	StageInProgress = "in_progress"
	StageRepaired   = "repaired"
	StageScrap      = "scrap"

	TypeCorrective = "corrective"
	TypePreventive = "preventive"
)

// MaintenanceRequest is a unit of maintenance work against one piece of
// equipment, owned by a team and moved through a fixed stage lifecycle.
type MaintenanceRequest struct {
	ID            bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Subject       string        `bson:"subject" json:"subject"`
	Description   string        `bson:"description,omitempty" json:"description,omitempty"`
	EquipmentID   string        `bson:"equipment_id" json:"equipmentId"`
	TeamID        string        `bson:"team_id,omitempty" json:"teamId,omitempty"`
	RequestType   string        `bson:"request_type" json:"requestType"`
	Stage         string        `bson:"stage" json:"stage"`
	Priority      int           `bson:"priority" json:"priority"` // 0 lowest .. 3 highest
	ScheduledDate *time.Time    `bson:"scheduled_date,omitempty" json:"scheduledDate,omitempty"`
	DurationHours float64       `bson:"duration_hours,omitempty" json:"durationHours,omitempty"`
	CreatedBy     string        `bson:"created_by" json:"createdBy"`
	AssignedTo    string        `bson:"assigned_to,omitempty" json:"assignedTo,omitempty"`
	ClosedAt      *time.Time    `bson:"closed_at,omitempty" json:"closedAt,omitempty"`
	CreatedAt     time.Time     `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time     `bson:"updated_at" json:"updatedAt"`
}

// Closed reports whether the request reached a terminal stage.
func (r *MaintenanceRequest) Closed() bool {
	return r.Stage == StageRepaired || r.Stage == StageScrap
}

// Overdue reports whether the scheduled date has passed without the request
// being closed.
func (r *MaintenanceRequest) Overdue(now time.Time) bool {
	return r.ScheduledDate != nil && r.ScheduledDate.Before(now) && !r.Closed()
}

// CanTransition validates a stage move. New work starts, then either gets
// repaired or written off as scrap.
func CanTransition(from, to string) bool {
	switch from {
	case StageNew:
		return to == StageInProgress
	case StageInProgress:
		return to == StageRepaired || to == StageScrap
	default:
		return false
	}
}
