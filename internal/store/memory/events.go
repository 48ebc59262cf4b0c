package memory

import (
	"context"
	"slices"
	"strings"

	"eventdesk/backend/internal/domain"
	"eventdesk/backend/internal/store"
)

func (s *Store) ListEvents(_ context.Context, filter domain.EventFilter) ([]domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]domain.Event, 0, len(s.events))
	for _, e := range s.events {
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		events = append(events, s.joinEvent(e))
	}
	slices.SortFunc(events, func(a, b domain.Event) int {
		if c := compareDatesNullsLast(a.Date, b.Date, true); c != 0 {
			return c
		}
		return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})
	return events, nil
}

func (s *Store) joinEvent(e domain.Event) domain.Event {
	e.Company, e.Contact = nil, nil
	if company, ok := s.companies[e.CompanyID]; ok {
		e.Company = &company
	}
	if contact, ok := s.contacts[e.ContactID]; ok {
		e.Contact = &contact
	}
	e.CAHT = clonePtr(e.CAHT)
	e.RHHours = clonePtr(e.RHHours)
	e.RHCost = clonePtr(e.RHCost)
	return e
}

func (s *Store) GetEvent(_ context.Context, id string) (*domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	event, ok := s.events[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	event = s.joinEvent(event)
	return &event, nil
}

func (s *Store) checkEventRefs(e domain.Event) error {
	if e.CompanyID != "" {
		if _, ok := s.companies[e.CompanyID]; !ok {
			return store.ErrInvalidInput
		}
	}
	if e.ContactID != "" {
		if _, ok := s.contacts[e.ContactID]; !ok {
			return store.ErrInvalidInput
		}
	}
	return nil
}

func (s *Store) CreateEvent(_ context.Context, event domain.Event) (*domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if event.ID == "" || strings.TrimSpace(event.Title) == "" {
		return nil, store.ErrInvalidInput
	}
	if _, exists := s.events[event.ID]; exists {
		return nil, store.ErrConflict
	}
	if err := s.checkEventRefs(event); err != nil {
		return nil, err
	}
	stored := s.joinEvent(event)
	stored.Company, stored.Contact = nil, nil
	s.events[event.ID] = stored
	created := s.joinEvent(stored)
	return &created, nil
}

func (s *Store) UpdateEvent(_ context.Context, event domain.Event) (*domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.events[event.ID]
	if !ok {
		return nil, store.ErrNotFound
	}
	if err := s.checkEventRefs(event); err != nil {
		return nil, err
	}
	event.CreatedAt = existing.CreatedAt
	stored := s.joinEvent(event)
	stored.Company, stored.Contact = nil, nil
	s.events[event.ID] = stored
	updated := s.joinEvent(stored)
	return &updated, nil
}

func (s *Store) RescheduleEvent(_ context.Context, event domain.Event, move func(domain.ShiftAssignment) domain.ShiftAssignment) (*domain.Event, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.events[event.ID]
	if !ok {
		return nil, 0, store.ErrNotFound
	}
	if err := s.checkEventRefs(event); err != nil {
		return nil, 0, err
	}

	moved := make([]domain.ShiftAssignment, 0)
	for _, a := range s.staff {
		if a.EventID != event.ID {
			continue
		}
		next := move(s.joinAssignment(a))
		next.ID, next.EventID, next.BarmanID, next.CreatedAt = a.ID, a.EventID, a.BarmanID, a.CreatedAt
		stored := s.joinAssignment(next)
		stored.Barman = nil
		moved = append(moved, stored)
	}

	event.CreatedAt = existing.CreatedAt
	stored := s.joinEvent(event)
	stored.Company, stored.Contact = nil, nil
	s.events[event.ID] = stored
	for _, a := range moved {
		s.staff[a.ID] = a
	}
	updated := s.joinEvent(stored)
	return &updated, len(moved), nil
}

// DeleteEvent removes the event with its roster and inventory lines.
func (s *Store) DeleteEvent(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.events, id)
	for aid, a := range s.staff {
		if a.EventID == id {
			delete(s.staff, aid)
		}
	}
	for lid, l := range s.inventory {
		if l.EventID == id {
			delete(s.inventory, lid)
		}
	}
	return nil
}

func (s *Store) ListBarmans(_ context.Context) ([]domain.Barman, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	barmans := make([]domain.Barman, 0, len(s.barmans))
	for _, b := range s.barmans {
		barmans = append(barmans, b)
	}
	slices.SortFunc(barmans, func(a, b domain.Barman) int {
		if c := strings.Compare(strings.ToLower(a.LastName), strings.ToLower(b.LastName)); c != 0 {
			return c
		}
		if c := strings.Compare(strings.ToLower(a.FirstName), strings.ToLower(b.FirstName)); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return barmans, nil
}

func (s *Store) GetBarman(_ context.Context, id string) (*domain.Barman, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	barman, ok := s.barmans[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &barman, nil
}

func (s *Store) CreateBarman(_ context.Context, barman domain.Barman) (*domain.Barman, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if barman.ID == "" {
		return nil, store.ErrInvalidInput
	}
	if _, exists := s.barmans[barman.ID]; exists {
		return nil, store.ErrConflict
	}
	s.barmans[barman.ID] = barman
	return &barman, nil
}

func (s *Store) UpdateBarman(_ context.Context, barman domain.Barman) (*domain.Barman, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.barmans[barman.ID]
	if !ok {
		return nil, store.ErrNotFound
	}
	barman.CreatedAt = existing.CreatedAt
	s.barmans[barman.ID] = barman
	return &barman, nil
}

// DeleteBarman also removes every shift the barman was rostered on.
func (s *Store) DeleteBarman(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.barmans[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.barmans, id)
	for aid, a := range s.staff {
		if a.BarmanID == id {
			delete(s.staff, aid)
		}
	}
	return nil
}

func (s *Store) ListEventStaff(_ context.Context, eventID string) ([]domain.ShiftAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.events[eventID]; !ok {
		return nil, store.ErrNotFound
	}
	roster := make([]domain.ShiftAssignment, 0)
	for _, a := range s.staff {
		if a.EventID == eventID {
			roster = append(roster, s.joinAssignment(a))
		}
	}
	slices.SortFunc(roster, func(a, b domain.ShiftAssignment) int {
		switch {
		case a.StartAt == nil && b.StartAt != nil:
			return 1
		case a.StartAt != nil && b.StartAt == nil:
			return -1
		case a.StartAt != nil && b.StartAt != nil:
			if c := a.StartAt.Compare(*b.StartAt); c != 0 {
				return c
			}
		}
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return roster, nil
}

func (s *Store) joinAssignment(a domain.ShiftAssignment) domain.ShiftAssignment {
	a.StartAt = clonePtr(a.StartAt)
	a.EndAt = clonePtr(a.EndAt)
	a.Barman = nil
	if barman, ok := s.barmans[a.BarmanID]; ok {
		a.Barman = &barman
	}
	return a
}

func (s *Store) GetShiftAssignment(_ context.Context, id string) (*domain.ShiftAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.staff[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	a = s.joinAssignment(a)
	return &a, nil
}

func (s *Store) CreateShiftAssignment(_ context.Context, assignment domain.ShiftAssignment) (*domain.ShiftAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if assignment.ID == "" {
		return nil, store.ErrInvalidInput
	}
	if _, ok := s.events[assignment.EventID]; !ok {
		return nil, store.ErrInvalidInput
	}
	if _, ok := s.barmans[assignment.BarmanID]; !ok {
		return nil, store.ErrInvalidInput
	}
	if _, exists := s.staff[assignment.ID]; exists {
		return nil, store.ErrConflict
	}
	stored := s.joinAssignment(assignment)
	stored.Barman = nil
	s.staff[assignment.ID] = stored
	created := s.joinAssignment(stored)
	return &created, nil
}

func (s *Store) UpdateShiftAssignment(_ context.Context, assignment domain.ShiftAssignment) (*domain.ShiftAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.staff[assignment.ID]
	if !ok {
		return nil, store.ErrNotFound
	}
	assignment.EventID = existing.EventID
	assignment.BarmanID = existing.BarmanID
	assignment.CreatedAt = existing.CreatedAt
	stored := s.joinAssignment(assignment)
	stored.Barman = nil
	s.staff[assignment.ID] = stored
	updated := s.joinAssignment(stored)
	return &updated, nil
}

func (s *Store) DeleteShiftAssignment(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.staff[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.staff, id)
	return nil
}
