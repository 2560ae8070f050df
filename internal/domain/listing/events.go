package listing

import "time"

type Created struct {
	ListingID ID
	Owner     OwnerID
	At        time.Time
}

func (e Created) EventName() string     { return "listing.created" }
func (e Created) AggregateID() string   { return string(e.ListingID) }
func (e Created) OccurredAt() time.Time { return e.At }

type Updated struct {
	ListingID ID
	At        time.Time
}

func (e Updated) EventName() string     { return "listing.updated" }
func (e Updated) AggregateID() string   { return string(e.ListingID) }
func (e Updated) OccurredAt() time.Time { return e.At }

type Deleted struct {
	ListingID ID
	Owner     OwnerID
	At        time.Time
}

func (e Deleted) EventName() string     { return "listing.deleted" }
func (e Deleted) AggregateID() string   { return string(e.ListingID) }
func (e Deleted) OccurredAt() time.Time { return e.At }
