package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"eventdesk/backend/internal/domain"
	"eventdesk/backend/internal/store"
)

const eventSelect = `
	SELECT e.id, e.title, e.description, e.location, e.date, e.assigned_company_id, e.assigned_contact_id,
	       e.status, e.ca_ht, e.rh_hours, e.rh_cost, e.created_at,
	       co.id, co.name, co.type, co.logo_url, co.created_at,
	       ct.id, ct.company_id, ct.first_name, ct.last_name, ct.email, ct.phone, ct.role, ct.created_at
	FROM events e
	LEFT JOIN companies co ON co.id = e.assigned_company_id
	LEFT JOIN contacts ct ON ct.id = e.assigned_contact_id
`

func scanEvent(row rowScanner) (domain.Event, error) {
	var e domain.Event
	var companyID, contactID sql.NullString
	var caHT, rhHours, rhCost decimal.NullDecimal
	var coID, coName, coType, coLogo sql.NullString
	var coCreated sql.NullTime
	var ctID, ctCompany, ctFirst, ctLast, ctEmail, ctPhone, ctRole sql.NullString
	var ctCreated sql.NullTime
	if err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.Location, &e.Date, &companyID, &contactID,
		&e.Status, &caHT, &rhHours, &rhCost, &e.CreatedAt,
		&coID, &coName, &coType, &coLogo, &coCreated,
		&ctID, &ctCompany, &ctFirst, &ctLast, &ctEmail, &ctPhone, &ctRole, &ctCreated,
	); err != nil {
		return domain.Event{}, err
	}
	e.CompanyID = companyID.String
	e.ContactID = contactID.String
	e.CAHT = decimalPtr(caHT)
	e.RHHours = decimalPtr(rhHours)
	e.RHCost = decimalPtr(rhCost)
	e.CreatedAt = e.CreatedAt.UTC()
	if coID.Valid {
		e.Company = &domain.Company{
			ID:        coID.String,
			Name:      coName.String,
			Type:      domain.CompanyType(coType.String),
			LogoURL:   coLogo.String,
			CreatedAt: coCreated.Time.UTC(),
		}
	}
	if ctID.Valid {
		e.Contact = &domain.Contact{
			ID:        ctID.String,
			CompanyID: ctCompany.String,
			FirstName: ctFirst.String,
			LastName:  ctLast.String,
			Email:     ctEmail.String,
			Phone:     ctPhone.String,
			Role:      ctRole.String,
			CreatedAt: ctCreated.Time.UTC(),
		}
	}
	return e, nil
}

func decimalPtr(v decimal.NullDecimal) *decimal.Decimal {
	if !v.Valid {
		return nil
	}
	d := v.Decimal
	return &d
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func (s *Store) ListEvents(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error) {
	rows, err := s.db.QueryContext(ctx, eventSelect+`
		WHERE ($1 = '' OR e.status = $1)
		ORDER BY e.date DESC NULLS LAST, e.created_at DESC, e.id
	`, string(filter.Status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]domain.Event, 0, 64)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *Store) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	e, err := scanEvent(s.db.QueryRowContext(ctx, eventSelect+` WHERE e.id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return &e, nil
}

func (s *Store) CreateEvent(ctx context.Context, event domain.Event) (*domain.Event, error) {
	if event.ID == "" || strings.TrimSpace(event.Title) == "" {
		return nil, store.ErrInvalidInput
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (
			id, title, description, location, date, assigned_company_id, assigned_contact_id,
			status, ca_ht, rh_hours, rh_cost, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`, event.ID, event.Title, event.Description, event.Location, event.Date,
		nullIfEmpty(event.CompanyID), nullIfEmpty(event.ContactID), string(event.Status),
		nullDecimal(event.CAHT), nullDecimal(event.RHHours), nullDecimal(event.RHCost), event.CreatedAt)
	if err != nil {
		return nil, translateWriteError(err)
	}
	return s.GetEvent(ctx, event.ID)
}

const updateEventSQL = `
	UPDATE events
	SET title = $2, description = $3, location = $4, date = $5, assigned_company_id = $6,
	    assigned_contact_id = $7, status = $8, ca_ht = $9, rh_hours = $10, rh_cost = $11
	WHERE id = $1
`

func updateEventArgs(event domain.Event) []any {
	return []any{
		event.ID, event.Title, event.Description, event.Location, event.Date,
		nullIfEmpty(event.CompanyID), nullIfEmpty(event.ContactID), string(event.Status),
		nullDecimal(event.CAHT), nullDecimal(event.RHHours), nullDecimal(event.RHCost),
	}
}

func (s *Store) UpdateEvent(ctx context.Context, event domain.Event) (*domain.Event, error) {
	res, err := s.db.ExecContext(ctx, updateEventSQL, updateEventArgs(event)...)
	if err != nil {
		return nil, translateWriteError(err)
	}
	if err := expectAffected(res); err != nil {
		return nil, err
	}
	return s.GetEvent(ctx, event.ID)
}

func (s *Store) RescheduleEvent(ctx context.Context, event domain.Event, move func(domain.ShiftAssignment) domain.ShiftAssignment) (*domain.Event, int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, updateEventSQL, updateEventArgs(event)...)
	if err != nil {
		return nil, 0, translateWriteError(err)
	}
	if err := expectAffected(res); err != nil {
		return nil, 0, err
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT id, barman_id, start_time, end_time
		FROM event_staff
		WHERE event_id = $1
		FOR UPDATE
	`, event.ID)
	if err != nil {
		return nil, 0, err
	}
	roster := make([]domain.ShiftAssignment, 0, 16)
	for rows.Next() {
		a := domain.ShiftAssignment{EventID: event.ID}
		var startAt, endAt sql.NullTime
		if err := rows.Scan(&a.ID, &a.BarmanID, &startAt, &endAt); err != nil {
			_ = rows.Close()
			return nil, 0, err
		}
		a.StartAt = timePtr(startAt)
		a.EndAt = timePtr(endAt)
		roster = append(roster, a)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, 0, err
	}
	_ = rows.Close()

	for _, a := range roster {
		next := move(a)
		if _, err := tx.ExecContext(ctx, updateShiftSQL, updateShiftArgs(a.ID, next)...); err != nil {
			return nil, 0, fmt.Errorf("move shift %s: %w", a.ID, translateWriteError(err))
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, 0, err
	}

	saved, err := s.GetEvent(ctx, event.ID)
	if err != nil {
		return nil, 0, err
	}
	return saved, len(roster), nil
}

func (s *Store) DeleteEvent(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

const barmanColumns = `id, first_name, last_name, phone, email, date_of_birth, has_license, created_at`

func scanBarman(row rowScanner) (domain.Barman, error) {
	var b domain.Barman
	if err := row.Scan(&b.ID, &b.FirstName, &b.LastName, &b.Phone, &b.Email, &b.DateOfBirth, &b.HasLicense, &b.CreatedAt); err != nil {
		return domain.Barman{}, err
	}
	b.CreatedAt = b.CreatedAt.UTC()
	return b, nil
}

func (s *Store) ListBarmans(ctx context.Context) ([]domain.Barman, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+barmanColumns+`
		FROM barmans
		ORDER BY lower(last_name), lower(first_name), id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	barmans := make([]domain.Barman, 0, 32)
	for rows.Next() {
		b, err := scanBarman(rows)
		if err != nil {
			return nil, err
		}
		barmans = append(barmans, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return barmans, nil
}

func (s *Store) GetBarman(ctx context.Context, id string) (*domain.Barman, error) {
	b, err := scanBarman(s.db.QueryRowContext(ctx, `SELECT `+barmanColumns+` FROM barmans WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

func (s *Store) CreateBarman(ctx context.Context, barman domain.Barman) (*domain.Barman, error) {
	if barman.ID == "" {
		return nil, store.ErrInvalidInput
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO barmans (id, first_name, last_name, phone, email, date_of_birth, has_license, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, barman.ID, barman.FirstName, barman.LastName, barman.Phone, barman.Email,
		barman.DateOfBirth, barman.HasLicense, barman.CreatedAt)
	if err != nil {
		return nil, translateWriteError(err)
	}
	return s.GetBarman(ctx, barman.ID)
}

func (s *Store) UpdateBarman(ctx context.Context, barman domain.Barman) (*domain.Barman, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE barmans
		SET first_name = $2, last_name = $3, phone = $4, email = $5, date_of_birth = $6, has_license = $7
		WHERE id = $1
	`, barman.ID, barman.FirstName, barman.LastName, barman.Phone, barman.Email,
		barman.DateOfBirth, barman.HasLicense)
	if err != nil {
		return nil, translateWriteError(err)
	}
	if err := expectAffected(res); err != nil {
		return nil, err
	}
	return s.GetBarman(ctx, barman.ID)
}

func (s *Store) DeleteBarman(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM barmans WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

const staffSelect = `
	SELECT st.id, st.event_id, st.barman_id, st.start_time, st.end_time, st.hours_worked,
	       st.crosses_midnight, st.created_at,
	       b.id, b.first_name, b.last_name, b.phone, b.email, b.date_of_birth, b.has_license, b.created_at
	FROM event_staff st
	JOIN barmans b ON b.id = st.barman_id
`

func scanAssignment(row rowScanner) (domain.ShiftAssignment, error) {
	var a domain.ShiftAssignment
	var b domain.Barman
	var startAt, endAt sql.NullTime
	if err := row.Scan(
		&a.ID, &a.EventID, &a.BarmanID, &startAt, &endAt, &a.HoursWorked, &a.CrossesMidnight, &a.CreatedAt,
		&b.ID, &b.FirstName, &b.LastName, &b.Phone, &b.Email, &b.DateOfBirth, &b.HasLicense, &b.CreatedAt,
	); err != nil {
		return domain.ShiftAssignment{}, err
	}
	a.StartAt = timePtr(startAt)
	a.EndAt = timePtr(endAt)
	a.CreatedAt = a.CreatedAt.UTC()
	b.CreatedAt = b.CreatedAt.UTC()
	a.Barman = &b
	return a, nil
}

func (s *Store) ListEventStaff(ctx context.Context, eventID string) ([]domain.ShiftAssignment, error) {
	if err := s.eventExists(ctx, eventID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, staffSelect+`
		WHERE st.event_id = $1
		ORDER BY st.start_time ASC NULLS LAST, st.created_at, st.id
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roster := make([]domain.ShiftAssignment, 0, 16)
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		roster = append(roster, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return roster, nil
}

func (s *Store) eventExists(ctx context.Context, eventID string) error {
	var exists bool
	if err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, eventID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) GetShiftAssignment(ctx context.Context, id string) (*domain.ShiftAssignment, error) {
	a, err := scanAssignment(s.db.QueryRowContext(ctx, staffSelect+` WHERE st.id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (s *Store) CreateShiftAssignment(ctx context.Context, assignment domain.ShiftAssignment) (*domain.ShiftAssignment, error) {
	if assignment.ID == "" {
		return nil, store.ErrInvalidInput
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO event_staff (id, event_id, barman_id, start_time, end_time, hours_worked, crosses_midnight, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, assignment.ID, assignment.EventID, assignment.BarmanID, nullTime(assignment.StartAt), nullTime(assignment.EndAt),
		assignment.HoursWorked, assignment.CrossesMidnight, assignment.CreatedAt)
	if err != nil {
		return nil, translateWriteError(err)
	}
	return s.GetShiftAssignment(ctx, assignment.ID)
}

const updateShiftSQL = `
	UPDATE event_staff
	SET start_time = $2, end_time = $3, hours_worked = $4, crosses_midnight = $5
	WHERE id = $1
`

func updateShiftArgs(id string, a domain.ShiftAssignment) []any {
	return []any{id, nullTime(a.StartAt), nullTime(a.EndAt), a.HoursWorked, a.CrossesMidnight}
}

func (s *Store) UpdateShiftAssignment(ctx context.Context, assignment domain.ShiftAssignment) (*domain.ShiftAssignment, error) {
	res, err := s.db.ExecContext(ctx, updateShiftSQL, updateShiftArgs(assignment.ID, assignment)...)
	if err != nil {
		return nil, translateWriteError(err)
	}
	if err := expectAffected(res); err != nil {
		return nil, err
	}
	return s.GetShiftAssignment(ctx, assignment.ID)
}

func (s *Store) DeleteShiftAssignment(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM event_staff WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}
