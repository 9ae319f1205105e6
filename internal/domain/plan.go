package domain

import "time"

// PlanStatus distinguishes the creation placeholder from a generated plan.
type PlanStatus string

const (
	PlanStatusPending   PlanStatus = "pending"
	PlanStatusGenerated PlanStatus = "generated"
)

// PlanDocument is the stored form of a trip's itinerary.
// There is at most one per trip; regeneration replaces Data wholesale.
type PlanDocument struct {
	ID        ID         `json:"_id" bson:"_id"`
	TripID    ID         `json:"trip_id" bson:"trip_id"`
	Status    PlanStatus `json:"status" bson:"status"`
	Data      Itinerary  `json:"data" bson:"data"`
	UpdatedAt time.Time  `json:"updated_at" bson:"updated_at"`
}
