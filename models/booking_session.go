package models

// BookingSession holds the wizard state between selection steps. The funnel
// is strictly ordered: date, then timeslots, then room, then desk. Clearing
// an earlier stage clears everything after it.
type BookingSession struct {
	SessionID         string   `json:"sessionId"`
	UserID            string   `json:"userId"`
	SelectedDate      string   `json:"selectedDate,omitempty"` // ISO date
	SelectedTimeslots []string `json:"selectedTimeslots,omitempty"`
	SelectedRoomID    string   `json:"selectedRoomId,omitempty"`
	SelectedDeskID    string   `json:"selectedDeskId,omitempty"`
}

// DateOption is one selectable date in the booking window.
type DateOption struct {
	ISODate  string `json:"isoDate"`
	Selected bool   `json:"selected"`
}

// RoomOption is one selectable room, with a reserved/total desk count for
// display.
type RoomOption struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ReservedDesks int    `json:"reservedDesks"`
	TotalDesks    int    `json:"totalDesks"`
	Selected      bool   `json:"selected"`
}

// DeskOption is one desk in the selected room. Reserved desks are shown
// but not selectable.
type DeskOption struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Reserved   bool   `json:"reserved"`
	Selectable bool   `json:"selectable"`
	Selected   bool   `json:"selected"`
}

// SessionView is the wizard state plus the candidate sets for every stage,
// as the client should render them.
type SessionView struct {
	Session   BookingSession `json:"session"`
	Dates     []DateOption   `json:"dates"`
	Timeslots []string       `json:"timeslots,omitempty"` // display form, chronological
	Rooms     []RoomOption   `json:"rooms,omitempty"`
	Desks     []DeskOption   `json:"desks,omitempty"`
	Message   string         `json:"message,omitempty"` // set when a toggle was rejected
}
