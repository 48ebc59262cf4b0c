package service

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"eventdesk/backend/internal/domain"
	"eventdesk/backend/internal/economics"
	"eventdesk/backend/internal/xid"
)

func (s *Service) ListEventStaff(ctx context.Context, eventID string) ([]domain.ShiftAssignment, error) {
	if _, err := s.repo.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}
	return s.repo.ListEventStaff(ctx, eventID)
}

// AddStaff rosters a barman on an event. Times are clock times on the event's
// date; an end before the start falls on the next day. Either time may be left
// empty, which stores an incomplete shift worth zero hours.
func (s *Service) AddStaff(ctx context.Context, eventID string, req domain.StaffCreateRequest) (domain.ShiftAssignment, error) {
	event, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		return domain.ShiftAssignment{}, err
	}
	if event.Date.IsZero() {
		return domain.ShiftAssignment{}, invalid("event %s has no date", eventID)
	}
	barmanID := strings.TrimSpace(req.BarmanID)
	if barmanID == "" {
		return domain.ShiftAssignment{}, invalid("barman_id is required")
	}
	start, err := clockField("start_time", req.StartTime)
	if err != nil {
		return domain.ShiftAssignment{}, err
	}
	end, err := clockField("end_time", req.EndTime)
	if err != nil {
		return domain.ShiftAssignment{}, err
	}

	assignment := domain.ShiftAssignment{
		ID:        xid.New("stf"),
		EventID:   event.ID,
		BarmanID:  barmanID,
		CreatedAt: s.now(),
	}
	applyShift(&assignment, event.Date, start, end)

	created, err := s.repo.CreateShiftAssignment(ctx, assignment)
	if err != nil {
		return domain.ShiftAssignment{}, err
	}
	s.logWrite(ctx, "staff_add", created.ID)
	return *created, nil
}

func (s *Service) UpdateStaff(ctx context.Context, id string, req domain.StaffUpdateRequest) (domain.ShiftAssignment, error) {
	existing, err := s.repo.GetShiftAssignment(ctx, id)
	if err != nil {
		return domain.ShiftAssignment{}, err
	}
	event, err := s.repo.GetEvent(ctx, existing.EventID)
	if err != nil {
		return domain.ShiftAssignment{}, err
	}
	if event.Date.IsZero() {
		return domain.ShiftAssignment{}, invalid("event %s has no date", event.ID)
	}

	var start, end economics.ClockTime
	if existing.StartAt != nil {
		start = economics.ClockOf(*existing.StartAt)
	}
	if existing.EndAt != nil {
		end = economics.ClockOf(*existing.EndAt)
	}
	if req.StartTime != nil {
		if start, err = clockField("start_time", *req.StartTime); err != nil {
			return domain.ShiftAssignment{}, err
		}
	}
	if req.EndTime != nil {
		if end, err = clockField("end_time", *req.EndTime); err != nil {
			return domain.ShiftAssignment{}, err
		}
	}

	updated := *existing
	updated.Barman = nil
	applyShift(&updated, event.Date, start, end)

	saved, err := s.repo.UpdateShiftAssignment(ctx, updated)
	if err != nil {
		return domain.ShiftAssignment{}, err
	}
	s.logWrite(ctx, "staff_update", saved.ID)
	return *saved, nil
}

func (s *Service) RemoveStaff(ctx context.Context, id string) error {
	if err := s.repo.DeleteShiftAssignment(ctx, id); err != nil {
		return err
	}
	s.logWrite(ctx, "staff_remove", id)
	return nil
}

// clockField parses an optional "HH:MM" value. Empty means unset.
func clockField(field, raw string) (economics.ClockTime, error) {
	if strings.TrimSpace(raw) == "" {
		return economics.ClockTime{}, nil
	}
	c := economics.ParseClock(raw)
	if !c.IsSet() {
		return economics.ClockTime{}, invalid("%s must be HH:MM, got %q", field, raw)
	}
	return c, nil
}

// applyShift stores the instants of start and end on date and recomputes
// HoursWorked from them.
func applyShift(a *domain.ShiftAssignment, date domain.Date, start, end economics.ClockTime) {
	a.StartAt, a.EndAt = nil, nil
	a.HoursWorked = decimal.Zero
	a.CrossesMidnight = false

	if iv, ok := economics.Span(date, start, end); ok {
		a.StartAt = timePtr(iv.Start)
		a.EndAt = timePtr(iv.End)
		a.CrossesMidnight = iv.CrossesMidnight
		a.HoursWorked = economics.HoursBetween(iv.Start, iv.End)
		return
	}
	if date.IsZero() {
		return
	}
	if start.IsSet() {
		a.StartAt = timePtr(start.On(date))
	}
	if end.IsSet() {
		a.EndAt = timePtr(end.On(date))
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
