package service

import (
	"context"
	"net/url"
	"strings"

	"eventdesk/backend/internal/domain"
	"eventdesk/backend/internal/xid"
)

func (s *Service) ListQuickLinks(ctx context.Context) ([]domain.QuickLink, error) {
	return cachedList(ctx, s, keyQuickLinks, s.repo.ListQuickLinks)
}

func (s *Service) CreateQuickLink(ctx context.Context, req domain.QuickLinkCreateRequest) (domain.QuickLink, error) {
	link := domain.QuickLink{
		ID:         xid.New("lnk"),
		Name:       strings.TrimSpace(req.Name),
		URL:        strings.TrimSpace(req.URL),
		FaviconURL: strings.TrimSpace(req.FaviconURL),
		CreatedAt:  s.now(),
	}
	if err := normalizeQuickLink(&link); err != nil {
		return domain.QuickLink{}, err
	}

	created, err := s.repo.CreateQuickLink(ctx, link)
	if err != nil {
		return domain.QuickLink{}, err
	}
	s.invalidate(ctx, keyQuickLinks)
	s.logWrite(ctx, "quick_link_create", created.ID)
	return *created, nil
}

func (s *Service) UpdateQuickLink(ctx context.Context, id string, req domain.QuickLinkUpdateRequest) (domain.QuickLink, error) {
	existing, err := s.repo.GetQuickLink(ctx, id)
	if err != nil {
		return domain.QuickLink{}, err
	}

	updated := *existing
	if req.Name != nil {
		updated.Name = strings.TrimSpace(*req.Name)
	}
	if req.URL != nil {
		updated.URL = strings.TrimSpace(*req.URL)
	}
	if req.FaviconURL != nil {
		updated.FaviconURL = strings.TrimSpace(*req.FaviconURL)
	}
	if err := normalizeQuickLink(&updated); err != nil {
		return domain.QuickLink{}, err
	}

	saved, err := s.repo.UpdateQuickLink(ctx, updated)
	if err != nil {
		return domain.QuickLink{}, err
	}
	s.invalidate(ctx, keyQuickLinks)
	s.logWrite(ctx, "quick_link_update", saved.ID)
	return *saved, nil
}

func (s *Service) DeleteQuickLink(ctx context.Context, id string) error {
	if err := s.repo.DeleteQuickLink(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, keyQuickLinks)
	s.logWrite(ctx, "quick_link_delete", id)
	return nil
}

func normalizeQuickLink(l *domain.QuickLink) error {
	if l.Name == "" {
		return invalid("name is required")
	}
	link, err := webURL("url", l.URL)
	if err != nil {
		return err
	}
	l.URL = link
	if l.FaviconURL != "" {
		favicon, err := webURL("favicon_url", l.FaviconURL)
		if err != nil {
			return err
		}
		l.FaviconURL = favicon
	}
	return nil
}

// webURL accepts absolute http(s) URLs. A bare host such as "example.com"
// is read as https.
func webURL(field, raw string) (string, error) {
	if raw == "" {
		return "", invalid("%s is required", field)
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", invalid("%s must be a web address", field)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", invalid("%s must use http or https", field)
	}
	return u.String(), nil
}

func (s *Service) ListExpenses(ctx context.Context) ([]domain.Expense, error) {
	return cachedList(ctx, s, keyExpenses, s.repo.ListExpenses)
}

func (s *Service) CreateExpense(ctx context.Context, req domain.ExpenseCreateRequest) (domain.Expense, error) {
	expense := domain.Expense{
		ID:        xid.New("exp"),
		Title:     strings.TrimSpace(req.Title),
		Date:      req.Date,
		AmountTTC: req.AmountTTC,
		Notes:     strings.TrimSpace(req.Notes),
		CreatedAt: s.now(),
	}
	if expense.Date.IsZero() {
		expense.Date = domain.DateOf(s.now())
	}
	if err := validateExpense(expense); err != nil {
		return domain.Expense{}, err
	}

	created, err := s.repo.CreateExpense(ctx, expense)
	if err != nil {
		return domain.Expense{}, err
	}
	s.invalidate(ctx, keyExpenses)
	s.logWrite(ctx, "expense_create", created.ID)
	return *created, nil
}

func (s *Service) UpdateExpense(ctx context.Context, id string, req domain.ExpenseUpdateRequest) (domain.Expense, error) {
	existing, err := s.repo.GetExpense(ctx, id)
	if err != nil {
		return domain.Expense{}, err
	}

	updated := *existing
	if req.Title != nil {
		updated.Title = strings.TrimSpace(*req.Title)
	}
	if req.Date != nil && !req.Date.IsZero() {
		updated.Date = *req.Date
	}
	if req.AmountTTC != nil {
		updated.AmountTTC = *req.AmountTTC
	}
	if req.Notes != nil {
		updated.Notes = strings.TrimSpace(*req.Notes)
	}
	if err := validateExpense(updated); err != nil {
		return domain.Expense{}, err
	}

	saved, err := s.repo.UpdateExpense(ctx, updated)
	if err != nil {
		return domain.Expense{}, err
	}
	s.invalidate(ctx, keyExpenses)
	s.logWrite(ctx, "expense_update", saved.ID)
	return *saved, nil
}

func (s *Service) DeleteExpense(ctx context.Context, id string) error {
	if err := s.repo.DeleteExpense(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, keyExpenses)
	s.logWrite(ctx, "expense_delete", id)
	return nil
}

func validateExpense(e domain.Expense) error {
	if e.Title == "" {
		return invalid("title is required")
	}
	return nonNegative("amount_ttc", e.AmountTTC)
}
