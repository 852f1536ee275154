package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Equipment statuses.
const (
	EquipmentActive   = "active"
	EquipmentScrapped = "scrapped"
)

// Equipment is a tracked asset. SerialNumber is unique across the fleet.
type Equipment struct {
	ID                bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name              string        `bson:"name" json:"name"`
	SerialNumber      string        `bson:"serial_number" json:"serialNumber"`
	Category          string        `bson:"category,omitempty" json:"category,omitempty"`
	Department        string        `bson:"department,omitempty" json:"department,omitempty"`
	MaintenanceTeamID string        `bson:"maintenance_team_id,omitempty" json:"maintenanceTeamId,omitempty"`
	AssignedTo        string        `bson:"assigned_to,omitempty" json:"assignedTo,omitempty"`
	Vendor            string        `bson:"vendor,omitempty" json:"vendor,omitempty"`
	Cost              float64       `bson:"cost,omitempty" json:"cost,omitempty"`
	WarrantyExpiry    *time.Time    `bson:"warranty_expiry,omitempty" json:"warrantyExpiry,omitempty"`
	Location          string        `bson:"location,omitempty" json:"location,omitempty"`
	Status            string        `bson:"status" json:"status"`
	Description       string        `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt         time.Time     `bson:"created_at" json:"createdAt"`
	UpdatedAt         time.Time     `bson:"updated_at" json:"updatedAt"`
}
