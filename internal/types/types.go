// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles —
// handlers, storage, and utils can all import types without depending
// on each other.
package types

import "time"

// Coordinates is a latitude/longitude pair as it appears in stored
// records and API responses.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Friend represents one stored friend record: a person, where they
// live, and where their marker goes on the map.
//
// The optional free-text columns are pointers so that a record without
// them serialises as JSON null rather than "" — the frontends rely on
// that distinction.
type Friend struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Location    string      `json:"location"`
	Notes       *string     `json:"notes"`
	OtherCities *string     `json:"otherCities"`
	DisplayName *string     `json:"displayName"`
	Coordinates Coordinates `json:"coordinates"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// PublicFriend is the projection of Friend served to the public map.
// Notes and OtherCities belong to the admin view and have no field
// here at all, so they can never leak through serialisation.
type PublicFriend struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Location    string      `json:"location"`
	DisplayName *string     `json:"displayName"`
	Coordinates Coordinates `json:"coordinates"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// Public returns the public projection of a friend record.
func (f Friend) Public() PublicFriend {
	return PublicFriend{
		ID:          f.ID,
		Name:        f.Name,
		Location:    f.Location,
		DisplayName: f.DisplayName,
		Coordinates: f.Coordinates,
		CreatedAt:   f.CreatedAt,
	}
}

// CoordsInput carries the coordinates of a create request.
//
// Lat and Lng are *float64 on purpose: "required" on a plain float64
// would treat the zero value as missing and reject the equator and the
// prime meridian. With pointers a missing key is nil (rejected) while
// an explicit 0 passes validation.
type CoordsInput struct {
	Lat *float64 `json:"lat" validate:"required"`
	Lng *float64 `json:"lng" validate:"required"`
}

// CreateFriendRequest is the JSON body accepted by POST /api/friends.
//
// Struct tags serve two purposes:
//
//  1. json:"..."  — controls how the field is decoded from the request
//     body (lowercase names match REST API conventions).
//
//  2. validate:"..." — rules checked by the go-playground/validator
//     package. "required" means the field must be present/non-empty.
type CreateFriendRequest struct {
	Name        string       `json:"name"        validate:"required"`
	Location    string       `json:"location"    validate:"required"`
	Notes       *string      `json:"notes"`
	OtherCities *string      `json:"otherCities"`
	DisplayName *string      `json:"displayName"`
	Coords      *CoordsInput `json:"coords"      validate:"required"`
}

// Stats summarises the friends table for the admin dashboard.
type Stats struct {
	TotalFriends               int64 `json:"totalFriends"`
	FriendsWithNotes           int64 `json:"friendsWithNotes"`
	FriendsWithRecommendations int64 `json:"friendsWithRecommendations"`
}
