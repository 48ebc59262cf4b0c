package service

import (
	"context"
	"strings"

	"eventdesk/backend/internal/domain"
	"eventdesk/backend/internal/xid"
)

func (s *Service) ListCompanies(ctx context.Context, companyType domain.CompanyType) ([]domain.Company, error) {
	if companyType != "" {
		if !companyType.Valid() {
			return nil, invalid("unknown company type %q", companyType)
		}
		return s.repo.ListCompanies(ctx, companyType)
	}
	return cachedList(ctx, s, keyCompanies, func(ctx context.Context) ([]domain.Company, error) {
		return s.repo.ListCompanies(ctx, "")
	})
}

func (s *Service) GetCompany(ctx context.Context, id string) (domain.Company, error) {
	company, err := s.repo.GetCompany(ctx, id)
	if err != nil {
		return domain.Company{}, err
	}
	return *company, nil
}

// CompanyTimeline lists the interactions of every contact of a company,
// newest first.
func (s *Service) CompanyTimeline(ctx context.Context, companyID string) ([]domain.Interaction, error) {
	return s.repo.ListCompanyTimeline(ctx, companyID)
}

func (s *Service) CreateCompany(ctx context.Context, req domain.CompanyCreateRequest) (domain.Company, error) {
	company := domain.Company{
		ID:        xid.New("cmp"),
		Name:      strings.TrimSpace(req.Name),
		Type:      req.Type,
		LogoURL:   strings.TrimSpace(req.LogoURL),
		CreatedAt: s.now(),
	}
	if company.Type == "" {
		company.Type = domain.CompanyTypeAutre
	}
	if err := validateCompany(company); err != nil {
		return domain.Company{}, err
	}

	created, err := s.repo.CreateCompany(ctx, company)
	if err != nil {
		return domain.Company{}, err
	}
	s.invalidate(ctx, keyCompanies)
	s.logWrite(ctx, "company_create", created.ID)
	return *created, nil
}

func (s *Service) UpdateCompany(ctx context.Context, id string, req domain.CompanyUpdateRequest) (domain.Company, error) {
	existing, err := s.repo.GetCompany(ctx, id)
	if err != nil {
		return domain.Company{}, err
	}

	updated := *existing
	if req.Name != nil {
		updated.Name = strings.TrimSpace(*req.Name)
	}
	if req.Type != nil {
		updated.Type = *req.Type
	}
	if req.LogoURL != nil {
		updated.LogoURL = strings.TrimSpace(*req.LogoURL)
	}
	if err := validateCompany(updated); err != nil {
		return domain.Company{}, err
	}

	saved, err := s.repo.UpdateCompany(ctx, updated)
	if err != nil {
		return domain.Company{}, err
	}
	s.invalidate(ctx, keyCompanies, keyEvents)
	s.logWrite(ctx, "company_update", saved.ID)
	return *saved, nil
}

// DeleteCompany keeps the company's contacts and events, unassigned.
func (s *Service) DeleteCompany(ctx context.Context, id string) error {
	if err := s.repo.DeleteCompany(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, keyCompanies, keyEvents)
	s.logWrite(ctx, "company_delete", id)
	return nil
}

func validateCompany(c domain.Company) error {
	if c.Name == "" {
		return invalid("name is required")
	}
	if !c.Type.Valid() {
		return invalid("unknown company type %q", c.Type)
	}
	return nil
}

func (s *Service) ListContacts(ctx context.Context, filter domain.ContactFilter) ([]domain.Contact, error) {
	filter.CompanyID = strings.TrimSpace(filter.CompanyID)
	filter.Query = strings.TrimSpace(filter.Query)
	return s.repo.ListContacts(ctx, filter)
}

func (s *Service) GetContact(ctx context.Context, id string) (domain.Contact, error) {
	contact, err := s.repo.GetContact(ctx, id)
	if err != nil {
		return domain.Contact{}, err
	}
	return *contact, nil
}

func (s *Service) CreateContact(ctx context.Context, req domain.ContactCreateRequest) (domain.Contact, error) {
	contact := domain.Contact{
		ID:        xid.New("ctc"),
		CompanyID: strings.TrimSpace(req.CompanyID),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:     strings.TrimSpace(req.Phone),
		Role:      strings.TrimSpace(req.Role),
		CreatedAt: s.now(),
	}
	if err := validateContact(contact); err != nil {
		return domain.Contact{}, err
	}

	created, err := s.repo.CreateContact(ctx, contact)
	if err != nil {
		return domain.Contact{}, err
	}
	s.logWrite(ctx, "contact_create", created.ID)
	return *created, nil
}

func (s *Service) UpdateContact(ctx context.Context, id string, req domain.ContactUpdateRequest) (domain.Contact, error) {
	existing, err := s.repo.GetContact(ctx, id)
	if err != nil {
		return domain.Contact{}, err
	}

	updated := *existing
	updated.Company = nil
	if req.CompanyID != nil {
		updated.CompanyID = strings.TrimSpace(*req.CompanyID)
	}
	if req.FirstName != nil {
		updated.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		updated.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		updated.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		updated.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Role != nil {
		updated.Role = strings.TrimSpace(*req.Role)
	}
	if err := validateContact(updated); err != nil {
		return domain.Contact{}, err
	}

	saved, err := s.repo.UpdateContact(ctx, updated)
	if err != nil {
		return domain.Contact{}, err
	}
	s.invalidate(ctx, keyEvents)
	s.logWrite(ctx, "contact_update", saved.ID)
	return *saved, nil
}

// DeleteContact removes the contact with its interactions.
func (s *Service) DeleteContact(ctx context.Context, id string) error {
	if err := s.repo.DeleteContact(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, keyEvents)
	s.logWrite(ctx, "contact_delete", id)
	return nil
}

func validateContact(c domain.Contact) error {
	if c.FirstName == "" && c.LastName == "" {
		return invalid("first_name or last_name is required")
	}
	if c.Email != "" && !strings.Contains(c.Email, "@") {
		return invalid("email %q is not valid", c.Email)
	}
	return nil
}

func (s *Service) ListInteractions(ctx context.Context, contactID string) ([]domain.Interaction, error) {
	return s.repo.ListInteractions(ctx, contactID)
}

func (s *Service) CreateInteraction(ctx context.Context, req domain.InteractionCreateRequest) (domain.Interaction, error) {
	interaction := domain.Interaction{
		ID:        xid.New("itr"),
		ContactID: strings.TrimSpace(req.ContactID),
		Type:      req.Type,
		Date:      req.Date.UTC(),
		Content:   strings.TrimSpace(req.Content),
		CreatedAt: s.now(),
	}
	if interaction.ContactID == "" {
		return domain.Interaction{}, invalid("contact_id is required")
	}
	if req.Date.IsZero() {
		interaction.Date = interaction.CreatedAt
	}
	if !interaction.Type.Valid() {
		return domain.Interaction{}, invalid("unknown interaction type %q", interaction.Type)
	}

	created, err := s.repo.CreateInteraction(ctx, interaction)
	if err != nil {
		return domain.Interaction{}, err
	}
	s.logWrite(ctx, "interaction_create", created.ID)
	return *created, nil
}

func (s *Service) UpdateInteraction(ctx context.Context, id string, req domain.InteractionUpdateRequest) (domain.Interaction, error) {
	existing, err := s.repo.GetInteraction(ctx, id)
	if err != nil {
		return domain.Interaction{}, err
	}

	updated := *existing
	if req.Type != nil {
		if !req.Type.Valid() {
			return domain.Interaction{}, invalid("unknown interaction type %q", *req.Type)
		}
		updated.Type = *req.Type
	}
	if req.Date != nil && !req.Date.IsZero() {
		updated.Date = req.Date.UTC()
	}
	if req.Content != nil {
		updated.Content = strings.TrimSpace(*req.Content)
	}

	saved, err := s.repo.UpdateInteraction(ctx, updated)
	if err != nil {
		return domain.Interaction{}, err
	}
	s.logWrite(ctx, "interaction_update", saved.ID)
	return *saved, nil
}

func (s *Service) DeleteInteraction(ctx context.Context, id string) error {
	if err := s.repo.DeleteInteraction(ctx, id); err != nil {
		return err
	}
	s.logWrite(ctx, "interaction_delete", id)
	return nil
}
