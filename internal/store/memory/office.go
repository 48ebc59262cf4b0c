package memory

import (
	"context"
	"slices"
	"strings"

	"eventdesk/backend/internal/domain"
	"eventdesk/backend/internal/store"
)

func (s *Store) ListQuickLinks(_ context.Context) ([]domain.QuickLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	links := make([]domain.QuickLink, 0, len(s.quickLinks))
	for _, l := range s.quickLinks {
		links = append(links, l)
	}
	slices.SortFunc(links, func(a, b domain.QuickLink) int {
		return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})
	return links, nil
}

func (s *Store) GetQuickLink(_ context.Context, id string) (*domain.QuickLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	link, ok := s.quickLinks[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &link, nil
}

func (s *Store) CreateQuickLink(_ context.Context, link domain.QuickLink) (*domain.QuickLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if link.ID == "" || strings.TrimSpace(link.Name) == "" || strings.TrimSpace(link.URL) == "" {
		return nil, store.ErrInvalidInput
	}
	if _, exists := s.quickLinks[link.ID]; exists {
		return nil, store.ErrConflict
	}
	s.quickLinks[link.ID] = link
	return &link, nil
}

func (s *Store) UpdateQuickLink(_ context.Context, link domain.QuickLink) (*domain.QuickLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.quickLinks[link.ID]
	if !ok {
		return nil, store.ErrNotFound
	}
	link.CreatedAt = existing.CreatedAt
	s.quickLinks[link.ID] = link
	return &link, nil
}

func (s *Store) DeleteQuickLink(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.quickLinks[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.quickLinks, id)
	return nil
}

func (s *Store) ListExpenses(_ context.Context) ([]domain.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	expenses := make([]domain.Expense, 0, len(s.expenses))
	for _, e := range s.expenses {
		expenses = append(expenses, e)
	}
	slices.SortFunc(expenses, func(a, b domain.Expense) int {
		if c := compareDatesNullsLast(a.Date, b.Date, true); c != 0 {
			return c
		}
		return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})
	return expenses, nil
}

func (s *Store) GetExpense(_ context.Context, id string) (*domain.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	expense, ok := s.expenses[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &expense, nil
}

func (s *Store) CreateExpense(_ context.Context, expense domain.Expense) (*domain.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if expense.ID == "" || strings.TrimSpace(expense.Title) == "" {
		return nil, store.ErrInvalidInput
	}
	if _, exists := s.expenses[expense.ID]; exists {
		return nil, store.ErrConflict
	}
	s.expenses[expense.ID] = expense
	return &expense, nil
}

func (s *Store) UpdateExpense(_ context.Context, expense domain.Expense) (*domain.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.expenses[expense.ID]
	if !ok {
		return nil, store.ErrNotFound
	}
	expense.CreatedAt = existing.CreatedAt
	s.expenses[expense.ID] = expense
	return &expense, nil
}

func (s *Store) DeleteExpense(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.expenses[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.expenses, id)
	return nil
}
