package models

import "time"

// BookingLock is an advisory lock serializing the availability re-check plus
// booking insert for one contended (salon, branch, date) combination. The
// lock id is derived from that combination, so disjoint combinations never
// serialize against each other.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expiresAt"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
