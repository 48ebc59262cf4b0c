package httpapi

import (
	"net/http"

	"eventdesk/backend/internal/domain"
)

func (a *API) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := a.service.ListCompanies(r.Context(), domain.CompanyType(r.URL.Query().Get("type")))
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"companies": companies})
}

func (a *API) handleCreateCompany(w http.ResponseWriter, r *http.Request) {
	var req domain.CompanyCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	company, err := a.service.CreateCompany(r.Context(), req)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"company": company})
}

func (a *API) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	company, err := a.service.GetCompany(r.Context(), r.PathValue("id"))
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"company": company})
}

func (a *API) handleUpdateCompany(w http.ResponseWriter, r *http.Request) {
	var req domain.CompanyUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	company, err := a.service.UpdateCompany(r.Context(), r.PathValue("id"), req)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"company": company})
}

func (a *API) handleDeleteCompany(w http.ResponseWriter, r *http.Request) {
	if err := a.service.DeleteCompany(r.Context(), r.PathValue("id")); err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleCompanyTimeline(w http.ResponseWriter, r *http.Request) {
	timeline, err := a.service.CompanyTimeline(r.Context(), r.PathValue("id"))
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"interactions": timeline})
}

func (a *API) handleListContacts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	contacts, err := a.service.ListContacts(r.Context(), domain.ContactFilter{
		CompanyID: query.Get("company_id"),
		Query:     query.Get("q"),
	})
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"contacts": contacts})
}

func (a *API) handleCreateContact(w http.ResponseWriter, r *http.Request) {
	var req domain.ContactCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	contact, err := a.service.CreateContact(r.Context(), req)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"contact": contact})
}

func (a *API) handleGetContact(w http.ResponseWriter, r *http.Request) {
	contact, err := a.service.GetContact(r.Context(), r.PathValue("id"))
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"contact": contact})
}

func (a *API) handleUpdateContact(w http.ResponseWriter, r *http.Request) {
	var req domain.ContactUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	contact, err := a.service.UpdateContact(r.Context(), r.PathValue("id"), req)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"contact": contact})
}

func (a *API) handleDeleteContact(w http.ResponseWriter, r *http.Request) {
	if err := a.service.DeleteContact(r.Context(), r.PathValue("id")); err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleListInteractions(w http.ResponseWriter, r *http.Request) {
	interactions, err := a.service.ListInteractions(r.Context(), r.PathValue("id"))
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"interactions": interactions})
}

func (a *API) handleCreateInteraction(w http.ResponseWriter, r *http.Request) {
	var req domain.InteractionCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	interaction, err := a.service.CreateInteraction(r.Context(), req)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"interaction": interaction})
}

func (a *API) handleUpdateInteraction(w http.ResponseWriter, r *http.Request) {
	var req domain.InteractionUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	interaction, err := a.service.UpdateInteraction(r.Context(), r.PathValue("id"), req)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"interaction": interaction})
}

func (a *API) handleDeleteInteraction(w http.ResponseWriter, r *http.Request) {
	if err := a.service.DeleteInteraction(r.Context(), r.PathValue("id")); err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
