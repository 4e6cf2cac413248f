package booking

import (
	"context"
	"errors"
	"time"

	"deskhub/models"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// fakeResourceRepo serves a static catalog.
type fakeResourceRepo struct {
	resources []models.Resource

	updatedAvailability map[string]models.Availability
	restoredRaw         map[string]interface{}
	updateErr           error
	restoreErr          error
}

func (f *fakeResourceRepo) ListResources(ctx context.Context) ([]models.Resource, error) {
	return f.resources, nil
}

func (f *fakeResourceRepo) GetByID(ctx context.Context, id string) (*models.Resource, error) {
	for i := range f.resources {
		if f.resources[i].ID == id {
			r := f.resources[i]
			return &r, nil
		}
	}
	return nil, nil
}

func (f *fakeResourceRepo) GetByIDs(ctx context.Context, ids []string) ([]models.Resource, error) {
	var out []models.Resource
	for _, id := range ids {
		if r, _ := f.GetByID(ctx, id); r != nil {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeResourceRepo) UpdateAvailability(ctx context.Context, id string, availability models.Availability) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if f.updatedAvailability == nil {
		f.updatedAvailability = make(map[string]models.Availability)
	}
	f.updatedAvailability[id] = availability
	for i := range f.resources {
		if f.resources[i].ID == id {
			f.resources[i].Availability = availability
		}
	}
	return nil
}

func (f *fakeResourceRepo) RestoreAvailability(ctx context.Context, id string, raw interface{}) error {
	if f.restoreErr != nil {
		return f.restoreErr
	}
	if f.restoredRaw == nil {
		f.restoredRaw = make(map[string]interface{})
	}
	f.restoredRaw[id] = raw
	return nil
}

// fakeReservationRepo is an in-memory reservation store.
type fakeReservationRepo struct {
	reservations map[string]*models.Reservation

	insertErr error
	updateErr error
	deleteErr error
}

func newFakeReservationRepo(seed ...models.Reservation) *fakeReservationRepo {
	repo := &fakeReservationRepo{reservations: make(map[string]*models.Reservation)}
	for i := range seed {
		r := seed[i]
		repo.reservations[r.ID] = &r
	}
	return repo
}

func (f *fakeReservationRepo) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	if r, ok := f.reservations[id]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeReservationRepo) ListForDesk(ctx context.Context, deskID, sinceDate string) ([]models.Reservation, error) {
	var out []models.Reservation
	for _, r := range f.reservations {
		if r.ResourceID == deskID && (sinceDate == "" || r.ISODate() >= sinceDate) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeReservationRepo) ListForUser(ctx context.Context, userID, sinceDate string, excludeCancelled bool) ([]models.Reservation, error) {
	var out []models.Reservation
	for _, r := range f.reservations {
		if r.UserID != userID {
			continue
		}
		if sinceDate != "" && r.ISODate() < sinceDate {
			continue
		}
		if excludeCancelled && r.Status == models.ReservationStatusCancelled {
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeReservationRepo) ListReserved(ctx context.Context, upToDate string) ([]models.Reservation, error) {
	var out []models.Reservation
	for _, r := range f.reservations {
		if r.Status == models.ReservationStatusReserved && r.ISODate() <= upToDate {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeReservationRepo) Insert(ctx context.Context, reservation *models.Reservation) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	copied := *reservation
	f.reservations[reservation.ID] = &copied
	return nil
}

func (f *fakeReservationRepo) UpdateStatus(ctx context.Context, id, status string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	r, ok := f.reservations[id]
	if !ok {
		return errors.New("reservation not found")
	}
	r.Status = status
	return nil
}

func (f *fakeReservationRepo) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.reservations, id)
	return nil
}

// fakeUserRepo records index rebuilds.
type fakeUserRepo struct {
	users map[string]*models.User

	indexByUser map[string][]string
	indexErr    error
}

func newFakeUserRepo(users ...models.User) *fakeUserRepo {
	repo := &fakeUserRepo{
		users:       make(map[string]*models.User),
		indexByUser: make(map[string][]string),
	}
	for i := range users {
		u := users[i]
		repo.users[u.ID] = &u
	}
	return repo
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) UpdateReservationIndex(ctx context.Context, userID string, reservationIDs []string) error {
	if f.indexErr != nil {
		return f.indexErr
	}
	f.indexByUser[userID] = reservationIDs
	return nil
}

// memorySessionStore backs wizard tests without Redis.
type memorySessionStore struct {
	sessions map[string]*models.BookingSession
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{sessions: make(map[string]*models.BookingSession)}
}

func (s *memorySessionStore) Get(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	if session, ok := s.sessions[sessionID]; ok {
		copied := *session
		return &copied, nil
	}
	return nil, nil
}

func (s *memorySessionStore) Save(ctx context.Context, session *models.BookingSession) error {
	copied := *session
	s.sessions[session.SessionID] = &copied
	return nil
}

func (s *memorySessionStore) Delete(ctx context.Context, sessionID string) error {
	delete(s.sessions, sessionID)
	return nil
}
