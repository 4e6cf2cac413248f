package booking

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"deskhub/models"
)

// 2025-03-10 is a Monday; all lifecycle tests run relative to it.
var testNow = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

func testCatalog() *fakeResourceRepo {
	template := models.Availability{
		"monday": {"0900-0930", "0930-1000", "1000-1030"},
	}
	return &fakeResourceRepo{resources: []models.Resource{
		{ID: "room-1", Name: "North Wing", Type: models.ResourceTypeRoom, SubResources: []string{"desk-1", "desk-2"}},
		{ID: "desk-1", Name: "Desk 1", Type: models.ResourceTypeDesk, Availability: template},
		{ID: "desk-2", Name: "Desk 2", Type: models.ResourceTypeDesk, Availability: template},
	}}
}

func newTestEngine(now time.Time, resources *fakeResourceRepo, reservations *fakeReservationRepo, users *fakeUserRepo) *DefaultReservationEngine {
	return &DefaultReservationEngine{
		Resources:    resources,
		Reservations: reservations,
		Users:        users,
		Clock:        fixedClock{now: now},
		Config: EngineConfig{
			AvailabilityGraceMinutes: 15,
			CheckInEarlyMinutes:      5,
			CheckInLateMinutes:       15,
			CancelPolicy:             CancelPolicyMark,
		},
	}
}

func TestCreateReservationNormalizesSlots(t *testing.T) {
	reservations := newFakeReservationRepo()
	users := newFakeUserRepo(models.User{ID: "u1"})
	engine := newTestEngine(testNow, testCatalog(), reservations, users)

	// Display form, out of order, with a duplicate.
	created, err := engine.CreateReservation(context.Background(), "desk-1", "u1", "2025-03-10",
		[]string{"09:30-10:00", "09:00-09:30", "0900-0930"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"0900-0930", "0930-1000"}
	if !reflect.DeepEqual(created.Timeslots, want) {
		t.Errorf("timeslots = %v, want %v", created.Timeslots, want)
	}
	if created.Status != models.ReservationStatusReserved {
		t.Errorf("status = %q, want Reserved", created.Status)
	}
	if got := users.indexByUser["u1"]; len(got) != 1 || got[0] != created.ID {
		t.Errorf("reservation index = %v, want [%s]", got, created.ID)
	}
}

func TestCreateReservationRejectsNonConsecutive(t *testing.T) {
	engine := newTestEngine(testNow, testCatalog(), newFakeReservationRepo(), newFakeUserRepo())
	_, err := engine.CreateReservation(context.Background(), "desk-1", "u1", "2025-03-10",
		[]string{"0900-0930", "1000-1030"})
	if ErrorCode(err) != CodeValidation {
		t.Errorf("expected validation error for gap, got %v", err)
	}
}

func TestCreateReservationRejectsRoom(t *testing.T) {
	engine := newTestEngine(testNow, testCatalog(), newFakeReservationRepo(), newFakeUserRepo())
	_, err := engine.CreateReservation(context.Background(), "room-1", "u1", "2025-03-10", []string{"0900-0930"})
	if ErrorCode(err) != CodeValidation {
		t.Errorf("expected validation error for room, got %v", err)
	}
}

func TestCreateReservationDeskConflict(t *testing.T) {
	reservations := newFakeReservationRepo(
		reservation("r1", "u2", "desk-1", "2025-03-10", []string{"0900-0930"}, models.ReservationStatusReserved),
	)
	engine := newTestEngine(testNow, testCatalog(), reservations, newFakeUserRepo())

	_, err := engine.CreateReservation(context.Background(), "desk-1", "u1", "2025-03-10", []string{"0900-0930"})
	if !IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	var be *BookingError
	if !errors.As(err, &be) || be.Blocking == nil || be.Blocking.ID != "r1" {
		t.Errorf("conflict should carry blocking reservation r1, got %+v", be)
	}
}

func TestCreateReservationUserConflictOnOtherDesk(t *testing.T) {
	reservations := newFakeReservationRepo(
		reservation("r1", "u1", "desk-2", "2025-03-10", []string{"0900-0930"}, models.ReservationStatusReserved),
	)
	engine := newTestEngine(testNow, testCatalog(), reservations, newFakeUserRepo())

	_, err := engine.CreateReservation(context.Background(), "desk-1", "u1", "2025-03-10", []string{"0900-0930"})
	if !IsConflict(err) {
		t.Errorf("expected user conflict across desks, got %v", err)
	}
}

func TestCreateReservationCancelledDoesNotBlock(t *testing.T) {
	reservations := newFakeReservationRepo(
		reservation("r1", "u2", "desk-1", "2025-03-10", []string{"0900-0930"}, models.ReservationStatusCancelled),
	)
	engine := newTestEngine(testNow, testCatalog(), reservations, newFakeUserRepo(models.User{ID: "u1"}))

	if _, err := engine.CreateReservation(context.Background(), "desk-1", "u1", "2025-03-10", []string{"0900-0930"}); err != nil {
		t.Errorf("cancelled reservation should not block, got %v", err)
	}
}

func TestCreateReservationIndexFailureIsWarning(t *testing.T) {
	users := newFakeUserRepo(models.User{ID: "u1"})
	users.indexErr = errors.New("mongo down")
	engine := newTestEngine(testNow, testCatalog(), newFakeReservationRepo(), users)

	created, err := engine.CreateReservation(context.Background(), "desk-1", "u1", "2025-03-10", []string{"0900-0930"})
	if !IsIndexSyncWarning(err) {
		t.Fatalf("expected index sync warning, got %v", err)
	}
	if created == nil {
		t.Fatal("reservation should still be returned alongside the warning")
	}
}

func TestCheckInWindowBoundaries(t *testing.T) {
	// Reservation starts 09:00; early grace 5, late allowance 15 gives a
	// window of [08:55, 09:15].
	tests := []struct {
		clock   string
		allowed bool
	}{
		{clock: "08:54", allowed: false},
		{clock: "08:56", allowed: true},
		{clock: "09:14", allowed: true},
		{clock: "09:16", allowed: false},
	}
	for _, tt := range tests {
		t.Run(tt.clock, func(t *testing.T) {
			reservations := newFakeReservationRepo(
				reservation("r1", "u1", "desk-1", "2025-03-10", []string{"0900-0930", "0930-1000"}, models.ReservationStatusReserved),
			)
			clock, _ := time.Parse("2006-01-02 15:04", "2025-03-10 "+tt.clock)
			engine := newTestEngine(clock, testCatalog(), reservations, newFakeUserRepo())

			err := engine.CheckIn(context.Background(), "r1", nil)
			if tt.allowed && err != nil {
				t.Errorf("check-in at %s should succeed, got %v", tt.clock, err)
			}
			if !tt.allowed && ErrorCode(err) != CodeCheckInWindowClosed {
				t.Errorf("check-in at %s should be rejected, got %v", tt.clock, err)
			}
			if tt.allowed {
				r, _ := reservations.GetByID(context.Background(), "r1")
				if r.Status != models.ReservationStatusCompleted {
					t.Errorf("status after check-in = %q, want Completed", r.Status)
				}
			}
		})
	}
}

func TestCheckInProximityGate(t *testing.T) {
	building := &Coordinates{Latitude: 52.5200, Longitude: 13.4050}
	inWindow := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	newEngine := func() (*DefaultReservationEngine, *fakeReservationRepo) {
		reservations := newFakeReservationRepo(
			reservation("r1", "u1", "desk-1", "2025-03-10", []string{"0900-0930"}, models.ReservationStatusReserved),
		)
		engine := newTestEngine(inWindow, testCatalog(), reservations, newFakeUserRepo())
		engine.Config.Building = building
		engine.Config.ProximityThresholdKm = 1.0
		return engine, reservations
	}

	engine, _ := newEngine()
	if err := engine.CheckIn(context.Background(), "r1", nil); ErrorCode(err) != CodeLocationRequired {
		t.Errorf("missing position should be rejected, got %v", err)
	}

	engine, _ = newEngine()
	far := &Coordinates{Latitude: 52.6200, Longitude: 13.4050} // ~11 km north
	if err := engine.CheckIn(context.Background(), "r1", far); ErrorCode(err) != CodeTooFarAway {
		t.Errorf("far position should be rejected, got %v", err)
	}

	engine, reservations := newEngine()
	near := &Coordinates{Latitude: 52.5230, Longitude: 13.4060}
	if err := engine.CheckIn(context.Background(), "r1", near); err != nil {
		t.Errorf("near position should pass, got %v", err)
	}
	r, _ := reservations.GetByID(context.Background(), "r1")
	if r.Status != models.ReservationStatusCompleted {
		t.Errorf("status = %q, want Completed", r.Status)
	}
}

func TestCheckInRejectsNonReserved(t *testing.T) {
	reservations := newFakeReservationRepo(
		reservation("r1", "u1", "desk-1", "2025-03-10", []string{"0900-0930"}, models.ReservationStatusCompleted),
	)
	engine := newTestEngine(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC), testCatalog(), reservations, newFakeUserRepo())
	if err := engine.CheckIn(context.Background(), "r1", nil); ErrorCode(err) != CodeInvalidState {
		t.Errorf("expected invalid state, got %v", err)
	}
}

func TestCancelMarksAndRefreshesIndex(t *testing.T) {
	reservations := newFakeReservationRepo(
		reservation("r1", "u1", "desk-1", "2025-03-10", []string{"0900-0930"}, models.ReservationStatusReserved),
	)
	users := newFakeUserRepo(models.User{ID: "u1"})
	engine := newTestEngine(testNow, testCatalog(), reservations, users)

	if err := engine.Cancel(context.Background(), "r1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r, _ := reservations.GetByID(context.Background(), "r1")
	if r.Status != models.ReservationStatusCancelled {
		t.Errorf("status = %q, want Cancelled", r.Status)
	}
	if got := users.indexByUser["u1"]; len(got) != 0 {
		t.Errorf("index should no longer list the cancelled reservation, got %v", got)
	}

	// A second cancel is a stale action on a finalized reservation.
	if err := engine.Cancel(context.Background(), "r1"); ErrorCode(err) != CodeInvalidState {
		t.Errorf("expected invalid state on double cancel, got %v", err)
	}
}

func TestCancelDeletePolicy(t *testing.T) {
	reservations := newFakeReservationRepo(
		reservation("r1", "u1", "desk-1", "2025-03-10", []string{"0900-0930"}, models.ReservationStatusReserved),
	)
	engine := newTestEngine(testNow, testCatalog(), reservations, newFakeUserRepo(models.User{ID: "u1"}))
	engine.Config.CancelPolicy = CancelPolicyDelete

	if err := engine.Cancel(context.Background(), "r1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r, _ := reservations.GetByID(context.Background(), "r1"); r != nil {
		t.Error("delete policy should remove the reservation row")
	}
}

func TestExpireAllOverdue(t *testing.T) {
	reservations := newFakeReservationRepo(
		// 09:00 start, window closed at 09:15; it is 10:00 now.
		reservation("overdue", "u1", "desk-1", "2025-03-10", []string{"0900-0930"}, models.ReservationStatusReserved),
		// 10:30 start is still ahead.
		reservation("ahead", "u1", "desk-2", "2025-03-10", []string{"1030-1100"}, models.ReservationStatusReserved),
		// Yesterday, long gone.
		reservation("stale", "u2", "desk-1", "2025-03-09", []string{"0900-0930"}, models.ReservationStatusReserved),
	)
	users := newFakeUserRepo(models.User{ID: "u1"}, models.User{ID: "u2"})
	engine := newTestEngine(time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC), testCatalog(), reservations, users)

	expired, err := engine.ExpireAllOverdue(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if expired != 2 {
		t.Errorf("expired = %d, want 2", expired)
	}
	for id, want := range map[string]string{
		"overdue": models.ReservationStatusCancelled,
		"ahead":   models.ReservationStatusReserved,
		"stale":   models.ReservationStatusCancelled,
	} {
		r, _ := reservations.GetByID(context.Background(), id)
		if r.Status != want {
			t.Errorf("%s status = %q, want %q", id, r.Status, want)
		}
	}
}

func TestRemoveTemplateSlotAndRevert(t *testing.T) {
	resources := testCatalog()
	engine := newTestEngine(testNow, resources, newFakeReservationRepo(), newFakeUserRepo())

	original, err := engine.RemoveTemplateSlot(context.Background(), "desk-1", "2025-03-10", "09:00-09:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	updated := resources.updatedAvailability["desk-1"]
	if !reflect.DeepEqual(updated["monday"], []string{"0930-1000", "1000-1030"}) {
		t.Errorf("monday bucket after removal = %v", updated["monday"])
	}

	if err := engine.RevertAvailability(context.Background(), "desk-1", original); err != nil {
		t.Fatalf("unexpected revert error: %v", err)
	}
	if _, ok := resources.restoredRaw["desk-1"]; !ok {
		t.Error("revert did not restore the captured payload")
	}

	resources.restoreErr = errors.New("mongo down")
	if err := engine.RevertAvailability(context.Background(), "desk-1", original); ErrorCode(err) != CodeTransport {
		t.Errorf("failed revert should surface a transport error, got %v", err)
	}
}
