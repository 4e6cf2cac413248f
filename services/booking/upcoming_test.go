package booking

import (
	"context"
	"testing"
	"time"

	"deskhub/models"
)

func TestListUpcomingGroupsAndAnnotates(t *testing.T) {
	// It is 09:05 on 2025-03-10: inside the 09:00 window, past yesterday's.
	now := time.Date(2025, 3, 10, 9, 5, 0, 0, time.UTC)
	reservations := newFakeReservationRepo(
		reservation("active", "u1", "desk-1", "2025-03-10", []string{"0900-0930"}, models.ReservationStatusReserved),
		reservation("later", "u1", "desk-2", "2025-03-10", []string{"1400-1430"}, models.ReservationStatusReserved),
		reservation("tomorrow", "u1", "desk-1", "2025-03-11", []string{"0900-0930"}, models.ReservationStatusReserved),
		reservation("cancelled", "u1", "desk-1", "2025-03-11", []string{"1000-1030"}, models.ReservationStatusCancelled),
		reservation("foreign", "u2", "desk-1", "2025-03-11", []string{"1100-1130"}, models.ReservationStatusReserved),
	)
	engine := newTestEngine(now, testCatalog(), reservations, newFakeUserRepo())

	days, err := engine.ListUpcoming(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(days) != 2 {
		t.Fatalf("expected 2 day groups, got %d: %+v", len(days), days)
	}
	if days[0].Date != "2025-03-10" || days[1].Date != "2025-03-11" {
		t.Errorf("days out of order: %s, %s", days[0].Date, days[1].Date)
	}

	statuses := make(map[string]string)
	names := make(map[string]string)
	for _, day := range days {
		for _, r := range day.Reservations {
			statuses[r.ID] = r.DisplayStatus
			names[r.ID] = r.ResourceName
		}
	}
	if statuses["cancelled"] != "" {
		t.Error("cancelled reservations should not be listed")
	}
	if statuses["foreign"] != "" {
		t.Error("other users' reservations should not be listed")
	}
	if statuses["active"] != DisplayStatusActive {
		t.Errorf("active reservation status = %q", statuses["active"])
	}
	if statuses["later"] != DisplayStatusUpcoming {
		t.Errorf("later-today reservation status = %q", statuses["later"])
	}
	if statuses["tomorrow"] != DisplayStatusUpcoming {
		t.Errorf("tomorrow reservation status = %q", statuses["tomorrow"])
	}
	if names["active"] != "Desk 1" || names["later"] != "Desk 2" {
		t.Errorf("resource names not joined: %v", names)
	}
}

func TestListUpcomingEmpty(t *testing.T) {
	engine := newTestEngine(testNow, testCatalog(), newFakeReservationRepo(), newFakeUserRepo())
	days, err := engine.ListUpcoming(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(days) != 0 {
		t.Errorf("expected no days, got %+v", days)
	}
}

func TestExpireOverdueForUserOnlyTouchesThatUser(t *testing.T) {
	reservations := newFakeReservationRepo(
		reservation("mine", "u1", "desk-1", "2025-03-09", []string{"0900-0930"}, models.ReservationStatusReserved),
		reservation("theirs", "u2", "desk-2", "2025-03-09", []string{"0900-0930"}, models.ReservationStatusReserved),
	)
	users := newFakeUserRepo(models.User{ID: "u1"}, models.User{ID: "u2"})
	engine := newTestEngine(time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC), testCatalog(), reservations, users)

	expired, err := engine.ExpireOverdueForUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if expired != 1 {
		t.Errorf("expired = %d, want 1", expired)
	}
	theirs, _ := reservations.GetByID(context.Background(), "theirs")
	if theirs.Status != models.ReservationStatusReserved {
		t.Error("another user's reservation was touched")
	}
}
