package reservation

import "roomly/internal/domain/actor"

// Relationship captures how the acting party relates to a reservation and its
// listing. It is the sole input, besides the target status, to transition
// authorization.
type Relationship struct {
	IsRequester bool
	IsOwner     bool
	IsAdmin     bool
}

// RelationshipFor derives the acting party's relationship to a reservation.
func RelationshipFor(a actor.Actor, r *Reservation) Relationship {
	if r == nil {
		return Relationship{IsAdmin: a.IsAdmin()}
	}
	return Relationship{
		IsRequester: string(a.ID) == r.RequesterID,
		IsOwner:     string(a.ID) == r.OwnerID,
		IsAdmin:     a.IsAdmin(),
	}
}

// CanTransition is the single authorization table for status transitions:
//
//	confirmed, rejected  -> listing owner or admin
//	cancelled            -> requester, listing owner or admin
//	completed            -> no party via the status endpoint
func CanTransition(target Status, rel Relationship) bool {
	switch target {
	case StatusConfirmed, StatusRejected:
		return rel.IsOwner || rel.IsAdmin
	case StatusCancelled:
		return rel.IsRequester || rel.IsOwner || rel.IsAdmin
	default:
		return false
	}
}

// EndpointTarget reports whether target may be requested through the status
// endpoint at all. completed has no trigger yet; pending is the initial state.
func EndpointTarget(target Status) bool {
	switch target {
	case StatusConfirmed, StatusRejected, StatusCancelled:
		return true
	default:
		return false
	}
}
