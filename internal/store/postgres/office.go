package postgres

import (
	"context"
	"database/sql"
	"strings"

	"eventdesk/backend/internal/domain"
	"eventdesk/backend/internal/store"
)

const quickLinkColumns = `id, name, url, favicon_url, created_at`

func scanQuickLink(row rowScanner) (domain.QuickLink, error) {
	var l domain.QuickLink
	var favicon sql.NullString
	if err := row.Scan(&l.ID, &l.Name, &l.URL, &favicon, &l.CreatedAt); err != nil {
		return domain.QuickLink{}, err
	}
	l.FaviconURL = favicon.String
	l.CreatedAt = l.CreatedAt.UTC()
	return l, nil
}

func (s *Store) ListQuickLinks(ctx context.Context) ([]domain.QuickLink, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+quickLinkColumns+`
		FROM quick_links
		ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := make([]domain.QuickLink, 0, 16)
	for rows.Next() {
		l, err := scanQuickLink(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return links, nil
}

func (s *Store) GetQuickLink(ctx context.Context, id string) (*domain.QuickLink, error) {
	l, err := scanQuickLink(s.db.QueryRowContext(ctx, `SELECT `+quickLinkColumns+` FROM quick_links WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return &l, nil
}

func (s *Store) CreateQuickLink(ctx context.Context, link domain.QuickLink) (*domain.QuickLink, error) {
	if link.ID == "" || strings.TrimSpace(link.Name) == "" || strings.TrimSpace(link.URL) == "" {
		return nil, store.ErrInvalidInput
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO quick_links (id, name, url, favicon_url, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`, link.ID, link.Name, link.URL, nullIfEmpty(link.FaviconURL), link.CreatedAt)
	if err != nil {
		return nil, translateWriteError(err)
	}
	return s.GetQuickLink(ctx, link.ID)
}

func (s *Store) UpdateQuickLink(ctx context.Context, link domain.QuickLink) (*domain.QuickLink, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE quick_links SET name = $2, url = $3, favicon_url = $4
		WHERE id = $1
	`, link.ID, link.Name, link.URL, nullIfEmpty(link.FaviconURL))
	if err != nil {
		return nil, translateWriteError(err)
	}
	if err := expectAffected(res); err != nil {
		return nil, err
	}
	return s.GetQuickLink(ctx, link.ID)
}

func (s *Store) DeleteQuickLink(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM quick_links WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

const expenseColumns = `id, title, date, amount_ttc, notes, created_at`

func scanExpense(row rowScanner) (domain.Expense, error) {
	var e domain.Expense
	if err := row.Scan(&e.ID, &e.Title, &e.Date, &e.AmountTTC, &e.Notes, &e.CreatedAt); err != nil {
		return domain.Expense{}, err
	}
	e.CreatedAt = e.CreatedAt.UTC()
	return e, nil
}

func (s *Store) ListExpenses(ctx context.Context) ([]domain.Expense, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+expenseColumns+`
		FROM expenses
		ORDER BY date DESC, created_at DESC, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := make([]domain.Expense, 0, 32)
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return expenses, nil
}

func (s *Store) GetExpense(ctx context.Context, id string) (*domain.Expense, error) {
	e, err := scanExpense(s.db.QueryRowContext(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return &e, nil
}

func (s *Store) CreateExpense(ctx context.Context, expense domain.Expense) (*domain.Expense, error) {
	if expense.ID == "" || strings.TrimSpace(expense.Title) == "" {
		return nil, store.ErrInvalidInput
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO expenses (id, title, date, amount_ttc, notes, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, expense.ID, expense.Title, expense.Date, expense.AmountTTC, expense.Notes, expense.CreatedAt)
	if err != nil {
		return nil, translateWriteError(err)
	}
	return s.GetExpense(ctx, expense.ID)
}

func (s *Store) UpdateExpense(ctx context.Context, expense domain.Expense) (*domain.Expense, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE expenses SET title = $2, date = $3, amount_ttc = $4, notes = $5
		WHERE id = $1
	`, expense.ID, expense.Title, expense.Date, expense.AmountTTC, expense.Notes)
	if err != nil {
		return nil, translateWriteError(err)
	}
	if err := expectAffected(res); err != nil {
		return nil, err
	}
	return s.GetExpense(ctx, expense.ID)
}

func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}
