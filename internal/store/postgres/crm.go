package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"eventdesk/backend/internal/domain"
	"eventdesk/backend/internal/store"
)

const companyColumns = `id, name, type, logo_url, created_at`

func scanCompany(row rowScanner) (domain.Company, error) {
	var c domain.Company
	if err := row.Scan(&c.ID, &c.Name, &c.Type, &c.LogoURL, &c.CreatedAt); err != nil {
		return domain.Company{}, err
	}
	c.CreatedAt = c.CreatedAt.UTC()
	return c, nil
}

func (s *Store) ListCompanies(ctx context.Context, companyType domain.CompanyType) ([]domain.Company, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+companyColumns+`
		FROM companies
		WHERE ($1 = '' OR type = $1)
		ORDER BY created_at DESC, id
	`, string(companyType))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	companies := make([]domain.Company, 0, 32)
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return companies, nil
}

func (s *Store) GetCompany(ctx context.Context, id string) (*domain.Company, error) {
	c, err := scanCompany(s.db.QueryRowContext(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (s *Store) CreateCompany(ctx context.Context, company domain.Company) (*domain.Company, error) {
	if company.ID == "" || strings.TrimSpace(company.Name) == "" {
		return nil, store.ErrInvalidInput
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO companies (id, name, type, logo_url, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`, company.ID, company.Name, string(company.Type), company.LogoURL, company.CreatedAt)
	if err != nil {
		return nil, translateWriteError(err)
	}
	return s.GetCompany(ctx, company.ID)
}

func (s *Store) UpdateCompany(ctx context.Context, company domain.Company) (*domain.Company, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE companies SET name = $2, type = $3, logo_url = $4
		WHERE id = $1
	`, company.ID, company.Name, string(company.Type), company.LogoURL)
	if err != nil {
		return nil, translateWriteError(err)
	}
	if err := expectAffected(res); err != nil {
		return nil, err
	}
	return s.GetCompany(ctx, company.ID)
}

func (s *Store) DeleteCompany(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func (s *Store) ListCompanyTimeline(ctx context.Context, companyID string) ([]domain.Interaction, error) {
	if _, err := s.GetCompany(ctx, companyID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT i.id, i.contact_id, i.type, i.date, i.content, i.created_at,
		       c.id, c.company_id, c.first_name, c.last_name, c.email, c.phone, c.role, c.created_at
		FROM contact_interactions i
		JOIN contacts c ON c.id = i.contact_id
		WHERE c.company_id = $1
		ORDER BY i.date DESC, i.created_at DESC, i.id
	`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	timeline := make([]domain.Interaction, 0, 32)
	for rows.Next() {
		var in domain.Interaction
		var contact domain.Contact
		var contactCompany sql.NullString
		if err := rows.Scan(
			&in.ID, &in.ContactID, &in.Type, &in.Date, &in.Content, &in.CreatedAt,
			&contact.ID, &contactCompany, &contact.FirstName, &contact.LastName,
			&contact.Email, &contact.Phone, &contact.Role, &contact.CreatedAt,
		); err != nil {
			return nil, err
		}
		in.Date = in.Date.UTC()
		in.CreatedAt = in.CreatedAt.UTC()
		contact.CompanyID = contactCompany.String
		contact.CreatedAt = contact.CreatedAt.UTC()
		in.Contact = &contact
		timeline = append(timeline, in)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return timeline, nil
}

const contactSelect = `
	SELECT c.id, c.company_id, c.first_name, c.last_name, c.email, c.phone, c.role, c.created_at,
	       co.id, co.name, co.type, co.logo_url, co.created_at
	FROM contacts c
	LEFT JOIN companies co ON co.id = c.company_id
`

func scanContact(row rowScanner) (domain.Contact, error) {
	var c domain.Contact
	var companyID sql.NullString
	var coID, coName, coType, coLogo sql.NullString
	var coCreated sql.NullTime
	if err := row.Scan(
		&c.ID, &companyID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Role, &c.CreatedAt,
		&coID, &coName, &coType, &coLogo, &coCreated,
	); err != nil {
		return domain.Contact{}, err
	}
	c.CompanyID = companyID.String
	c.CreatedAt = c.CreatedAt.UTC()
	if coID.Valid {
		c.Company = &domain.Company{
			ID:        coID.String,
			Name:      coName.String,
			Type:      domain.CompanyType(coType.String),
			LogoURL:   coLogo.String,
			CreatedAt: coCreated.Time.UTC(),
		}
	}
	return c, nil
}

func (s *Store) ListContacts(ctx context.Context, filter domain.ContactFilter) ([]domain.Contact, error) {
	conds := make([]string, 0, 2)
	args := make([]any, 0, 2)
	if filter.CompanyID != "" {
		args = append(args, filter.CompanyID)
		conds = append(conds, fmt.Sprintf("c.company_id = $%d", len(args)))
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		args = append(args, "%"+escapeLike(q)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(c.first_name ILIKE $%[1]d OR c.last_name ILIKE $%[1]d OR (c.first_name || ' ' || c.last_name) ILIKE $%[1]d OR c.email ILIKE $%[1]d)", n))
	}

	query := contactSelect
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY c.created_at DESC, c.id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := make([]domain.Contact, 0, 64)
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return contacts, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (s *Store) GetContact(ctx context.Context, id string) (*domain.Contact, error) {
	c, err := scanContact(s.db.QueryRowContext(ctx, contactSelect+` WHERE c.id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (s *Store) CreateContact(ctx context.Context, contact domain.Contact) (*domain.Contact, error) {
	if contact.ID == "" {
		return nil, store.ErrInvalidInput
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO contacts (id, company_id, first_name, last_name, email, phone, role, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, contact.ID, nullIfEmpty(contact.CompanyID), contact.FirstName, contact.LastName,
		contact.Email, contact.Phone, contact.Role, contact.CreatedAt)
	if err != nil {
		return nil, translateWriteError(err)
	}
	return s.GetContact(ctx, contact.ID)
}

func (s *Store) UpdateContact(ctx context.Context, contact domain.Contact) (*domain.Contact, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE contacts
		SET company_id = $2, first_name = $3, last_name = $4, email = $5, phone = $6, role = $7
		WHERE id = $1
	`, contact.ID, nullIfEmpty(contact.CompanyID), contact.FirstName, contact.LastName,
		contact.Email, contact.Phone, contact.Role)
	if err != nil {
		return nil, translateWriteError(err)
	}
	if err := expectAffected(res); err != nil {
		return nil, err
	}
	return s.GetContact(ctx, contact.ID)
}

func (s *Store) DeleteContact(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

const interactionColumns = `id, contact_id, type, date, content, created_at`

func scanInteraction(row rowScanner) (domain.Interaction, error) {
	var in domain.Interaction
	if err := row.Scan(&in.ID, &in.ContactID, &in.Type, &in.Date, &in.Content, &in.CreatedAt); err != nil {
		return domain.Interaction{}, err
	}
	in.Date = in.Date.UTC()
	in.CreatedAt = in.CreatedAt.UTC()
	return in, nil
}

func (s *Store) ListInteractions(ctx context.Context, contactID string) ([]domain.Interaction, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM contacts WHERE id = $1)`, contactID).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, store.ErrNotFound
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+interactionColumns+`
		FROM contact_interactions
		WHERE contact_id = $1
		ORDER BY date DESC, created_at DESC, id
	`, contactID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	interactions := make([]domain.Interaction, 0, 16)
	for rows.Next() {
		in, err := scanInteraction(rows)
		if err != nil {
			return nil, err
		}
		interactions = append(interactions, in)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return interactions, nil
}

func (s *Store) GetInteraction(ctx context.Context, id string) (*domain.Interaction, error) {
	in, err := scanInteraction(s.db.QueryRowContext(ctx, `SELECT `+interactionColumns+` FROM contact_interactions WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return &in, nil
}

func (s *Store) CreateInteraction(ctx context.Context, interaction domain.Interaction) (*domain.Interaction, error) {
	if interaction.ID == "" {
		return nil, store.ErrInvalidInput
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO contact_interactions (id, contact_id, type, date, content, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, interaction.ID, interaction.ContactID, string(interaction.Type), interaction.Date.UTC(),
		interaction.Content, interaction.CreatedAt)
	if err != nil {
		return nil, translateWriteError(err)
	}
	return s.GetInteraction(ctx, interaction.ID)
}

func (s *Store) UpdateInteraction(ctx context.Context, interaction domain.Interaction) (*domain.Interaction, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE contact_interactions SET type = $2, date = $3, content = $4
		WHERE id = $1
	`, interaction.ID, string(interaction.Type), interaction.Date.UTC(), interaction.Content)
	if err != nil {
		return nil, translateWriteError(err)
	}
	if err := expectAffected(res); err != nil {
		return nil, err
	}
	return s.GetInteraction(ctx, interaction.ID)
}

func (s *Store) DeleteInteraction(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM contact_interactions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}
