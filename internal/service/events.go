package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"eventdesk/backend/internal/domain"
	"eventdesk/backend/internal/economics"
	"eventdesk/backend/internal/xid"
)

func (s *Service) ListEvents(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error) {
	if filter.Status != "" {
		if !filter.Status.Valid() {
			return nil, invalid("unknown event status %q", filter.Status)
		}
		return s.repo.ListEvents(ctx, filter)
	}
	return cachedList(ctx, s, keyEvents, func(ctx context.Context) ([]domain.Event, error) {
		return s.repo.ListEvents(ctx, domain.EventFilter{})
	})
}

func (s *Service) GetEvent(ctx context.Context, id string) (domain.Event, error) {
	event, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return domain.Event{}, err
	}
	return *event, nil
}

func (s *Service) CreateEvent(ctx context.Context, req domain.EventCreateRequest) (domain.Event, error) {
	event := domain.Event{
		ID:          xid.New("evt"),
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Location:    strings.TrimSpace(req.Location),
		Date:        req.Date,
		CompanyID:   strings.TrimSpace(req.CompanyID),
		ContactID:   strings.TrimSpace(req.ContactID),
		Status:      req.Status,
		CAHT:        req.CAHT,
		RHHours:     req.RHHours,
		CreatedAt:   s.now(),
	}
	if event.Status == "" {
		event.Status = domain.EventStatusProspect
	}
	if err := validateEvent(event); err != nil {
		return domain.Event{}, err
	}

	created, err := s.repo.CreateEvent(ctx, event)
	if err != nil {
		return domain.Event{}, err
	}
	s.invalidate(ctx, keyEvents)
	s.logWrite(ctx, "event_create", created.ID)
	return *created, nil
}

// UpdateEvent applies req to the event. Moving the event to another day moves
// its rostered shifts with it, keeping their clock times.
func (s *Service) UpdateEvent(ctx context.Context, id string, req domain.EventUpdateRequest) (domain.Event, error) {
	existing, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return domain.Event{}, err
	}

	updated := *existing
	updated.Company, updated.Contact = nil, nil
	if req.Title != nil {
		updated.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		updated.Description = strings.TrimSpace(*req.Description)
	}
	if req.Location != nil {
		updated.Location = strings.TrimSpace(*req.Location)
	}
	if req.Date != nil {
		updated.Date = *req.Date
	}
	if req.CompanyID != nil {
		updated.CompanyID = strings.TrimSpace(*req.CompanyID)
	}
	if req.ContactID != nil {
		updated.ContactID = strings.TrimSpace(*req.ContactID)
	}
	if req.Status != nil {
		updated.Status = *req.Status
	}
	if req.CAHT != nil {
		updated.CAHT = req.CAHT
	}
	if req.RHHours != nil {
		updated.RHHours = req.RHHours
	}
	if err := validateEvent(updated); err != nil {
		return domain.Event{}, err
	}

	var saved *domain.Event
	if !updated.Date.IsZero() && !updated.Date.Equal(existing.Date.Time) {
		var moved int
		saved, moved, err = s.repo.RescheduleEvent(ctx, updated, func(a domain.ShiftAssignment) domain.ShiftAssignment {
			return reanchorShift(a, updated.Date)
		})
		if err != nil {
			return domain.Event{}, err
		}
		if moved > 0 {
			s.logger.Info("moved event roster", zap.String("event_id", saved.ID),
				zap.Stringer("date", updated.Date), zap.Int("shifts", moved))
		}
	} else {
		saved, err = s.repo.UpdateEvent(ctx, updated)
		if err != nil {
			return domain.Event{}, err
		}
	}
	s.invalidate(ctx, keyEvents)
	s.logWrite(ctx, "event_update", saved.ID)
	return *saved, nil
}

// reanchorShift keeps the clock times of a shift and moves it onto date.
func reanchorShift(a domain.ShiftAssignment, date domain.Date) domain.ShiftAssignment {
	var start, end economics.ClockTime
	if a.StartAt != nil {
		start = economics.ClockOf(*a.StartAt)
	}
	if a.EndAt != nil {
		end = economics.ClockOf(*a.EndAt)
	}
	applyShift(&a, date, start, end)
	a.Barman = nil
	return a
}

// DeleteEvent removes the event with its roster and inventory.
func (s *Service) DeleteEvent(ctx context.Context, id string) error {
	if err := s.repo.DeleteEvent(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, keyEvents)
	s.logWrite(ctx, "event_delete", id)
	return nil
}

func validateEvent(e domain.Event) error {
	if e.Title == "" {
		return invalid("title is required")
	}
	if !e.Status.Valid() {
		return invalid("unknown event status %q", e.Status)
	}
	if e.CAHT != nil {
		if err := nonNegative("ca_ht", *e.CAHT); err != nil {
			return err
		}
	}
	if e.RHHours != nil {
		if err := nonNegative("rh_hours", *e.RHHours); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) ListBarmans(ctx context.Context) ([]domain.Barman, error) {
	return cachedList(ctx, s, keyBarmans, s.repo.ListBarmans)
}

func (s *Service) GetBarman(ctx context.Context, id string) (domain.Barman, error) {
	barman, err := s.repo.GetBarman(ctx, id)
	if err != nil {
		return domain.Barman{}, err
	}
	return *barman, nil
}

func (s *Service) CreateBarman(ctx context.Context, req domain.BarmanCreateRequest) (domain.Barman, error) {
	barman := domain.Barman{
		ID:          xid.New("brm"),
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		Phone:       strings.TrimSpace(req.Phone),
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		DateOfBirth: req.DateOfBirth,
		HasLicense:  req.HasLicense,
		CreatedAt:   s.now(),
	}
	if err := validateBarman(barman); err != nil {
		return domain.Barman{}, err
	}

	created, err := s.repo.CreateBarman(ctx, barman)
	if err != nil {
		return domain.Barman{}, err
	}
	s.invalidate(ctx, keyBarmans)
	s.logWrite(ctx, "barman_create", created.ID)
	return *created, nil
}

func (s *Service) UpdateBarman(ctx context.Context, id string, req domain.BarmanUpdateRequest) (domain.Barman, error) {
	existing, err := s.repo.GetBarman(ctx, id)
	if err != nil {
		return domain.Barman{}, err
	}

	updated := *existing
	if req.FirstName != nil {
		updated.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		updated.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Phone != nil {
		updated.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Email != nil {
		updated.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.DateOfBirth != nil {
		updated.DateOfBirth = *req.DateOfBirth
	}
	if req.HasLicense != nil {
		updated.HasLicense = *req.HasLicense
	}
	if err := validateBarman(updated); err != nil {
		return domain.Barman{}, err
	}

	saved, err := s.repo.UpdateBarman(ctx, updated)
	if err != nil {
		return domain.Barman{}, err
	}
	s.invalidate(ctx, keyBarmans)
	s.logWrite(ctx, "barman_update", saved.ID)
	return *saved, nil
}

// DeleteBarman also removes the barman from every roster.
func (s *Service) DeleteBarman(ctx context.Context, id string) error {
	if err := s.repo.DeleteBarman(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, keyBarmans)
	s.logWrite(ctx, "barman_delete", id)
	return nil
}

func validateBarman(b domain.Barman) error {
	if b.FirstName == "" || b.LastName == "" {
		return invalid("first_name and last_name are required")
	}
	if b.Email != "" && !strings.Contains(b.Email, "@") {
		return invalid("email %q is not valid", b.Email)
	}
	return nil
}
