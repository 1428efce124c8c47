package theaters

import "theaterbook/internal/branches"

// TheaterAvailability is a theater with the slots bookable on one day.
type TheaterAvailability struct {
	Theater
	Date           string             `json:"date"`
	AvailableSlots []SlotAvailability `json:"available_slots"`
}

type AvailabilityResponse struct {
	TheaterID      string             `json:"theater_id"`
	TheaterName    string             `json:"theater_name"`
	Date           string             `json:"date"`
	AvailableSlots []SlotAvailability `json:"available_slots"`
}

type BranchLocationsResponse struct {
	Branch    *branches.Branch `json:"branch"`
	Locations []string         `json:"locations"`
}
