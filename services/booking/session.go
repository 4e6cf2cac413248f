package booking

import (
	"context"
	"fmt"
	"sort"

	reservationRepo "deskhub/database/repository/reservation"
	resourceRepo "deskhub/database/repository/resource"
	"deskhub/models"
	"deskhub/utils"

	"github.com/google/uuid"
)

// WizardConfig carries the parameters the selection funnel needs.
type WizardConfig struct {
	BookingWindowDays        int
	AvailabilityGraceMinutes int
	CheckInLateMinutes       int
}

// ConfirmResult is the outcome of confirming a wizard session. Exactly one
// of Reservation or View is set: a created reservation on success, or the
// refreshed session view when the booking was rejected with a conflict.
type ConfirmResult struct {
	Reservation *models.Reservation `json:"reservation,omitempty"`
	Warning     string              `json:"warning,omitempty"`
	View        *models.SessionView `json:"view,omitempty"`
}

// DefaultBookingWizard drives the four-stage selection funnel:
// date, then timeslots, then room, then desk. Candidates for each stage are
// recomputed from all earlier selections; changing an earlier selection
// resets everything after it.
type DefaultBookingWizard struct {
	Resources    resourceRepo.ResourceRepository
	Reservations reservationRepo.ReservationRepository
	Engine       ReservationEngine
	Sessions     SessionStore
	Clock        Clock
	Config       WizardConfig
}

// StartSession opens a fresh wizard session for the user.
func (w *DefaultBookingWizard) StartSession(ctx context.Context, userID string) (*models.SessionView, error) {
	session := &models.BookingSession{
		SessionID: uuid.New().String(),
		UserID:    userID,
	}
	if err := w.Sessions.Save(ctx, session); err != nil {
		return nil, NewTransportError("saving booking session", err)
	}
	return w.view(ctx, session, "")
}

// SelectDate picks (or toggles off) a date. Any change cascades a reset of
// timeslots, room and desk.
func (w *DefaultBookingWizard) SelectDate(ctx context.Context, sessionID, isoDate string) (*models.SessionView, error) {
	session, err := w.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.SelectedDate == isoDate {
		session.SelectedDate = ""
	} else {
		if !w.dateInWindow(isoDate) {
			return nil, NewValidationError(fmt.Sprintf("date %s is outside the booking window", isoDate))
		}
		session.SelectedDate = isoDate
	}
	session.SelectedTimeslots = nil
	session.SelectedRoomID = ""
	session.SelectedDeskID = ""

	if err := w.Sessions.Save(ctx, session); err != nil {
		return nil, NewTransportError("saving booking session", err)
	}
	return w.view(ctx, session, "")
}

// ToggleTimeslot adds or removes one slot from the selection. A toggle
// that would break consecutiveness is rejected: the selection stays
// unchanged and the returned view carries an explanatory message.
func (w *DefaultBookingWizard) ToggleTimeslot(ctx context.Context, sessionID, slot string) (*models.SessionView, error) {
	session, err := w.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.SelectedDate == "" {
		return nil, NewValidationError("select a date before choosing timeslots")
	}
	compact := utils.UnformatSlot(slot)
	if _, _, err := utils.ParseSlot(compact); err != nil {
		return nil, NewValidationError(err.Error())
	}

	cat, err := w.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	if !contains(w.candidateSlots(cat, session.SelectedDate), compact) {
		return nil, NewValidationError(fmt.Sprintf("timeslot %s is not available on %s", utils.FormatSlot(compact), session.SelectedDate))
	}

	var updated []string
	var rejection string
	if contains(session.SelectedTimeslots, compact) {
		updated = without(session.SelectedTimeslots, compact)
		rejection = "Removing this timeslot would leave a non-consecutive selection. Remove timeslots from the beginning or end instead."
	} else {
		updated = append(append([]string{}, session.SelectedTimeslots...), compact)
		rejection = "Only consecutive timeslots can be selected."
	}
	if !utils.SlotsAreConsecutive(updated) {
		return w.view(ctx, session, rejection)
	}

	session.SelectedTimeslots = utils.SortSlots(updated)
	session.SelectedRoomID = ""
	session.SelectedDeskID = ""
	if err := w.Sessions.Save(ctx, session); err != nil {
		return nil, NewTransportError("saving booking session", err)
	}
	return w.view(ctx, session, "")
}

// SelectRoom picks (or toggles off) a room; changing it resets the desk.
func (w *DefaultBookingWizard) SelectRoom(ctx context.Context, sessionID, roomID string) (*models.SessionView, error) {
	session, err := w.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.SelectedDate == "" || len(session.SelectedTimeslots) == 0 {
		return nil, NewValidationError("select a date and timeslots before choosing a room")
	}

	if session.SelectedRoomID == roomID {
		session.SelectedRoomID = ""
	} else {
		cat, err := w.loadCatalog(ctx)
		if err != nil {
			return nil, err
		}
		room := cat.byID[roomID]
		if room == nil || room.Type != models.ResourceTypeRoom {
			return nil, NewNotFoundError(fmt.Sprintf("room %s not found", roomID))
		}
		if !w.roomCovers(cat, room, session.SelectedDate, session.SelectedTimeslots) {
			return nil, NewValidationError("room has no desk covering the selected timeslots")
		}
		session.SelectedRoomID = roomID
	}
	session.SelectedDeskID = ""

	if err := w.Sessions.Save(ctx, session); err != nil {
		return nil, NewTransportError("saving booking session", err)
	}
	return w.view(ctx, session, "")
}

// SelectDesk picks (or toggles off) a desk. Reserved desks are visible in
// the view but rejected here.
func (w *DefaultBookingWizard) SelectDesk(ctx context.Context, sessionID, deskID string) (*models.SessionView, error) {
	session, err := w.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.SelectedRoomID == "" {
		return nil, NewValidationError("select a room before choosing a desk")
	}

	if session.SelectedDeskID == deskID {
		session.SelectedDeskID = ""
	} else {
		cat, err := w.loadCatalog(ctx)
		if err != nil {
			return nil, err
		}
		room := cat.byID[session.SelectedRoomID]
		desk := cat.byID[deskID]
		if room == nil || desk == nil || desk.Type != models.ResourceTypeDesk || !contains(room.SubResources, deskID) {
			return nil, NewNotFoundError(fmt.Sprintf("desk %s not found in the selected room", deskID))
		}
		if !w.deskCovers(desk, session.SelectedDate, session.SelectedTimeslots) {
			return nil, NewValidationError("desk does not offer all selected timeslots")
		}
		reservations, err := w.reservationsForDate(ctx, cat, session.SelectedDate)
		if err != nil {
			return nil, err
		}
		if blocking := ConflictingReservation(deskID, session.SelectedDate, session.SelectedTimeslots, reservations); blocking != nil {
			return nil, NewConflictError("desk is already reserved for the selected timeslots", blocking)
		}
		session.SelectedDeskID = deskID
	}

	if err := w.Sessions.Save(ctx, session); err != nil {
		return nil, NewTransportError("saving booking session", err)
	}
	return w.view(ctx, session, "")
}

// Confirm books the completed selection. On a conflict the desk selection
// is cleared and the refreshed view returned alongside the error so the
// caller can re-pick; on success the session is closed.
func (w *DefaultBookingWizard) Confirm(ctx context.Context, sessionID string) (*ConfirmResult, error) {
	session, err := w.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.SelectedDate == "" || len(session.SelectedTimeslots) == 0 || session.SelectedDeskID == "" {
		return nil, NewValidationError("a date, timeslots and a desk must all be selected before confirming")
	}

	reservation, err := w.Engine.CreateReservation(ctx,
		session.SelectedDeskID, session.UserID, session.SelectedDate, session.SelectedTimeslots)
	switch {
	case err == nil:
		_ = w.Sessions.Delete(ctx, sessionID)
		return &ConfirmResult{Reservation: reservation}, nil
	case IsIndexSyncWarning(err):
		_ = w.Sessions.Delete(ctx, sessionID)
		return &ConfirmResult{Reservation: reservation, Warning: err.Error()}, nil
	case IsConflict(err):
		session.SelectedDeskID = ""
		if saveErr := w.Sessions.Save(ctx, session); saveErr != nil {
			return nil, NewTransportError("saving booking session", saveErr)
		}
		view, viewErr := w.view(ctx, session, "")
		if viewErr != nil {
			return nil, viewErr
		}
		return &ConfirmResult{View: view}, err
	default:
		return nil, err
	}
}

// --- candidate computation ---

type catalog struct {
	byID  map[string]*models.Resource
	desks []*models.Resource
	rooms []*models.Resource
}

func (w *DefaultBookingWizard) loadCatalog(ctx context.Context) (*catalog, error) {
	resources, err := w.Resources.ListResources(ctx)
	if err != nil {
		return nil, NewTransportError("listing resources", err)
	}
	cat := &catalog{byID: make(map[string]*models.Resource, len(resources))}
	for i := range resources {
		r := &resources[i]
		cat.byID[r.ID] = r
		switch r.Type {
		case models.ResourceTypeDesk:
			cat.desks = append(cat.desks, r)
		case models.ResourceTypeRoom:
			cat.rooms = append(cat.rooms, r)
		}
	}
	return cat, nil
}

// reservationsForDate fetches the current reservation snapshot for every
// desk, dated from the selected date onward.
func (w *DefaultBookingWizard) reservationsForDate(ctx context.Context, cat *catalog, isoDate string) ([]models.Reservation, error) {
	var all []models.Reservation
	for _, desk := range cat.desks {
		reservations, err := w.Reservations.ListForDesk(ctx, desk.ID, isoDate)
		if err != nil {
			return nil, NewTransportError("listing desk reservations", err)
		}
		all = append(all, reservations...)
	}
	return all, nil
}

// candidateSlots is the deduplicated, chronologically sorted union of
// every desk's available timeslots on the date.
func (w *DefaultBookingWizard) candidateSlots(cat *catalog, isoDate string) []string {
	now := w.Clock.Now()
	seen := make(map[string]struct{})
	var union []string
	for _, desk := range cat.desks {
		for _, slot := range AvailableTimeslots(desk, isoDate, now, w.Config.AvailabilityGraceMinutes, w.Config.CheckInLateMinutes) {
			compact := utils.UnformatSlot(slot)
			if _, ok := seen[compact]; !ok {
				seen[compact] = struct{}{}
				union = append(union, compact)
			}
		}
	}
	return utils.SortSlots(union)
}

// deskCovers reports whether the desk's availability on the date includes
// every selected slot. Existing reservations are deliberately ignored
// here; the conflict detector decides selectability.
func (w *DefaultBookingWizard) deskCovers(desk *models.Resource, isoDate string, selected []string) bool {
	available := AvailableTimeslots(desk, isoDate, w.Clock.Now(), w.Config.AvailabilityGraceMinutes, w.Config.CheckInLateMinutes)
	offered := make(map[string]struct{}, len(available))
	for _, slot := range available {
		offered[utils.UnformatSlot(slot)] = struct{}{}
	}
	for _, slot := range selected {
		if _, ok := offered[utils.UnformatSlot(slot)]; !ok {
			return false
		}
	}
	return true
}

func (w *DefaultBookingWizard) roomCovers(cat *catalog, room *models.Resource, isoDate string, selected []string) bool {
	for _, desk := range w.desksForRoom(cat, room) {
		if w.deskCovers(desk, isoDate, selected) {
			return true
		}
	}
	return false
}

// desksForRoom resolves a room's child desks, sorted by name.
func (w *DefaultBookingWizard) desksForRoom(cat *catalog, room *models.Resource) []*models.Resource {
	var desks []*models.Resource
	for _, id := range room.SubResources {
		if child := cat.byID[id]; child != nil && child.Type == models.ResourceTypeDesk {
			desks = append(desks, child)
		}
	}
	sort.Slice(desks, func(i, j int) bool { return desks[i].Name < desks[j].Name })
	return desks
}

// view assembles the wizard state plus the candidate sets for every stage
// reachable from it.
func (w *DefaultBookingWizard) view(ctx context.Context, session *models.BookingSession, message string) (*models.SessionView, error) {
	v := &models.SessionView{Session: *session, Message: message}
	for _, date := range utils.GenerateBookingWindow(w.Clock.Now(), w.Config.BookingWindowDays) {
		iso := utils.ToISODate(date)
		v.Dates = append(v.Dates, models.DateOption{ISODate: iso, Selected: iso == session.SelectedDate})
	}
	if session.SelectedDate == "" {
		return v, nil
	}

	cat, err := w.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	for _, slot := range w.candidateSlots(cat, session.SelectedDate) {
		v.Timeslots = append(v.Timeslots, utils.FormatSlot(slot))
	}
	if len(session.SelectedTimeslots) == 0 {
		return v, nil
	}

	reservations, err := w.reservationsForDate(ctx, cat, session.SelectedDate)
	if err != nil {
		return nil, err
	}

	for _, room := range cat.rooms {
		if !w.roomCovers(cat, room, session.SelectedDate, session.SelectedTimeslots) {
			continue
		}
		desks := w.desksForRoom(cat, room)
		reserved := 0
		for _, desk := range desks {
			if ConflictingReservation(desk.ID, session.SelectedDate, session.SelectedTimeslots, reservations) != nil {
				reserved++
			}
		}
		v.Rooms = append(v.Rooms, models.RoomOption{
			ID:            room.ID,
			Name:          room.Name,
			ReservedDesks: reserved,
			TotalDesks:    len(desks),
			Selected:      room.ID == session.SelectedRoomID,
		})
	}
	if session.SelectedRoomID == "" {
		return v, nil
	}

	room := cat.byID[session.SelectedRoomID]
	if room == nil {
		return v, nil
	}
	for _, desk := range w.desksForRoom(cat, room) {
		if !w.deskCovers(desk, session.SelectedDate, session.SelectedTimeslots) {
			continue
		}
		isReserved := ConflictingReservation(desk.ID, session.SelectedDate, session.SelectedTimeslots, reservations) != nil
		v.Desks = append(v.Desks, models.DeskOption{
			ID:         desk.ID,
			Name:       desk.Name,
			Reserved:   isReserved,
			Selectable: !isReserved,
			Selected:   desk.ID == session.SelectedDeskID,
		})
	}
	return v, nil
}

func (w *DefaultBookingWizard) loadSession(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	session, err := w.Sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, NewTransportError("loading booking session", err)
	}
	if session == nil {
		return nil, NewNotFoundError("booking session not found or expired")
	}
	return session, nil
}

func (w *DefaultBookingWizard) dateInWindow(isoDate string) bool {
	for _, date := range utils.GenerateBookingWindow(w.Clock.Now(), w.Config.BookingWindowDays) {
		if utils.ToISODate(date) == isoDate {
			return true
		}
	}
	return false
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

func without(list []string, value string) []string {
	out := make([]string, 0, len(list))
	for _, item := range list {
		if item != value {
			out = append(out, item)
		}
	}
	return out
}
