package memory

import (
	"context"
	"slices"
	"strings"

	"eventdesk/backend/internal/domain"
	"eventdesk/backend/internal/store"
)

func (s *Store) ListCompanies(_ context.Context, companyType domain.CompanyType) ([]domain.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	companies := make([]domain.Company, 0, len(s.companies))
	for _, c := range s.companies {
		if companyType != "" && c.Type != companyType {
			continue
		}
		companies = append(companies, c)
	}
	slices.SortFunc(companies, func(a, b domain.Company) int {
		return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})
	return companies, nil
}

func (s *Store) GetCompany(_ context.Context, id string) (*domain.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	company, ok := s.companies[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &company, nil
}

func (s *Store) CreateCompany(_ context.Context, company domain.Company) (*domain.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if company.ID == "" || strings.TrimSpace(company.Name) == "" {
		return nil, store.ErrInvalidInput
	}
	if _, exists := s.companies[company.ID]; exists {
		return nil, store.ErrConflict
	}
	s.companies[company.ID] = company
	return &company, nil
}

func (s *Store) UpdateCompany(_ context.Context, company domain.Company) (*domain.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.companies[company.ID]
	if !ok {
		return nil, store.ErrNotFound
	}
	company.CreatedAt = existing.CreatedAt
	s.companies[company.ID] = company
	return &company, nil
}

// DeleteCompany detaches the company's contacts and events instead of
// deleting them.
func (s *Store) DeleteCompany(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.companies[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.companies, id)
	for cid, c := range s.contacts {
		if c.CompanyID == id {
			c.CompanyID = ""
			s.contacts[cid] = c
		}
	}
	for eid, e := range s.events {
		if e.CompanyID == id {
			e.CompanyID = ""
			s.events[eid] = e
		}
	}
	return nil
}

func (s *Store) ListCompanyTimeline(_ context.Context, companyID string) ([]domain.Interaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.companies[companyID]; !ok {
		return nil, store.ErrNotFound
	}
	timeline := make([]domain.Interaction, 0)
	for _, in := range s.interactions {
		contact, ok := s.contacts[in.ContactID]
		if !ok || contact.CompanyID != companyID {
			continue
		}
		in.Contact = &contact
		timeline = append(timeline, in)
	}
	sortInteractions(timeline)
	return timeline, nil
}

func (s *Store) ListContacts(_ context.Context, filter domain.ContactFilter) ([]domain.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := strings.ToLower(strings.TrimSpace(filter.Query))
	contacts := make([]domain.Contact, 0, len(s.contacts))
	for _, c := range s.contacts {
		if filter.CompanyID != "" && c.CompanyID != filter.CompanyID {
			continue
		}
		if query != "" && !contactMatches(c, query) {
			continue
		}
		contacts = append(contacts, s.joinContact(c))
	}
	slices.SortFunc(contacts, func(a, b domain.Contact) int {
		return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})
	return contacts, nil
}

func contactMatches(c domain.Contact, query string) bool {
	for _, field := range []string{c.FirstName, c.LastName, c.FirstName + " " + c.LastName, c.Email} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

func (s *Store) joinContact(c domain.Contact) domain.Contact {
	if company, ok := s.companies[c.CompanyID]; ok {
		c.Company = &company
	} else {
		c.Company = nil
	}
	return c
}

func (s *Store) GetContact(_ context.Context, id string) (*domain.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	contact, ok := s.contacts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	contact = s.joinContact(contact)
	return &contact, nil
}

func (s *Store) CreateContact(_ context.Context, contact domain.Contact) (*domain.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if contact.ID == "" {
		return nil, store.ErrInvalidInput
	}
	if _, exists := s.contacts[contact.ID]; exists {
		return nil, store.ErrConflict
	}
	if contact.CompanyID != "" {
		if _, ok := s.companies[contact.CompanyID]; !ok {
			return nil, store.ErrInvalidInput
		}
	}
	contact.Company = nil
	s.contacts[contact.ID] = contact
	created := s.joinContact(contact)
	return &created, nil
}

func (s *Store) UpdateContact(_ context.Context, contact domain.Contact) (*domain.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.contacts[contact.ID]
	if !ok {
		return nil, store.ErrNotFound
	}
	if contact.CompanyID != "" {
		if _, ok := s.companies[contact.CompanyID]; !ok {
			return nil, store.ErrInvalidInput
		}
	}
	contact.CreatedAt = existing.CreatedAt
	contact.Company = nil
	s.contacts[contact.ID] = contact
	updated := s.joinContact(contact)
	return &updated, nil
}

func (s *Store) DeleteContact(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.contacts[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.contacts, id)
	for iid, in := range s.interactions {
		if in.ContactID == id {
			delete(s.interactions, iid)
		}
	}
	for eid, e := range s.events {
		if e.ContactID == id {
			e.ContactID = ""
			s.events[eid] = e
		}
	}
	return nil
}

func (s *Store) ListInteractions(_ context.Context, contactID string) ([]domain.Interaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.contacts[contactID]; !ok {
		return nil, store.ErrNotFound
	}
	interactions := make([]domain.Interaction, 0)
	for _, in := range s.interactions {
		if in.ContactID == contactID {
			interactions = append(interactions, in)
		}
	}
	sortInteractions(interactions)
	return interactions, nil
}

func sortInteractions(items []domain.Interaction) {
	slices.SortFunc(items, func(a, b domain.Interaction) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})
}

func (s *Store) GetInteraction(_ context.Context, id string) (*domain.Interaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	in, ok := s.interactions[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &in, nil
}

func (s *Store) CreateInteraction(_ context.Context, interaction domain.Interaction) (*domain.Interaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if interaction.ID == "" {
		return nil, store.ErrInvalidInput
	}
	if _, ok := s.contacts[interaction.ContactID]; !ok {
		return nil, store.ErrInvalidInput
	}
	if _, exists := s.interactions[interaction.ID]; exists {
		return nil, store.ErrConflict
	}
	interaction.Contact = nil
	s.interactions[interaction.ID] = interaction
	return &interaction, nil
}

func (s *Store) UpdateInteraction(_ context.Context, interaction domain.Interaction) (*domain.Interaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.interactions[interaction.ID]
	if !ok {
		return nil, store.ErrNotFound
	}
	interaction.ContactID = existing.ContactID
	interaction.CreatedAt = existing.CreatedAt
	interaction.Contact = nil
	s.interactions[interaction.ID] = interaction
	return &interaction, nil
}

func (s *Store) DeleteInteraction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.interactions[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.interactions, id)
	return nil
}
