// Package domain contains the core data types for the trip planner.
// It is imported by every other internal package (repo, service, handler, chain).
// The only external dependency is the ObjectID type used for identifiers.
package domain

import "time"

// TripStatus tracks where a trip is in the information-gathering lifecycle.
type TripStatus string

const (
	// TripStatusPlanning is set at creation: information is still being gathered by chat.
	TripStatusPlanning TripStatus = "planning"
	// TripStatusPlanned is set after the first successful itinerary generation.
	TripStatusPlanned TripStatus = "planned"
)

// Trip is the top-level aggregate. It owns exactly one information document
// and one plan document, whose ids are assigned when the trip is created.
type Trip struct {
	ID            ID         `json:"_id" bson:"_id"`
	UserID        ID         `json:"user_id" bson:"user_id"`
	Name          string     `json:"name" bson:"name"`
	Status        TripStatus `json:"status" bson:"status"`
	InformationID ID         `json:"information_id" bson:"information_id"`
	PlanID        ID         `json:"plan_id" bson:"plan_id"`
	CreatedAt     time.Time  `json:"created_at" bson:"created_at"`
}

// User holds the account data the planner needs. About is the free-text
// profile appended to the itinerary prompt.
type User struct {
	ID    ID     `json:"_id" bson:"_id"`
	Name  string `json:"name" bson:"name"`
	Email string `json:"email" bson:"email"`
	About string `json:"about,omitempty" bson:"about,omitempty"`
}

// Message is a persisted chat line of a trip. Link is set on bot messages
// that carried a booking link.
type Message struct {
	ID        ID        `json:"_id" bson:"_id"`
	TripID    ID        `json:"trip_id" bson:"trip_id"`
	Text      string    `json:"text" bson:"text"`
	IsUser    bool      `json:"isUser" bson:"isUser"`
	Link      *string   `json:"link,omitempty" bson:"link,omitempty"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// Turn is one utterance of a conversation as supplied by the client.
// Turns are not persisted by the planner; they are context for one call.
type Turn struct {
	Text      string    `json:"text"`
	IsUser    bool      `json:"isUser"`
	Timestamp time.Time `json:"timestamp"`
}
