package httpapi

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"eventdesk/backend/internal/domain"
	"eventdesk/backend/internal/export"
)

func (a *API) handleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := a.service.ListEvents(r.Context(), domain.EventFilter{
		Status: domain.EventStatus(r.URL.Query().Get("status")),
	})
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

func (a *API) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req domain.EventCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	event, err := a.service.CreateEvent(r.Context(), req)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"event": event})
}

func (a *API) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := a.service.GetEvent(r.Context(), r.PathValue("id"))
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"event": event})
}

func (a *API) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req domain.EventUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	event, err := a.service.UpdateEvent(r.Context(), r.PathValue("id"), req)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"event": event})
}

func (a *API) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := a.service.DeleteEvent(r.Context(), r.PathValue("id")); err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleListStaff(w http.ResponseWriter, r *http.Request) {
	staff, err := a.service.ListEventStaff(r.Context(), r.PathValue("id"))
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"staff": staff})
}

func (a *API) handleAddStaff(w http.ResponseWriter, r *http.Request) {
	var req domain.StaffCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	assignment, err := a.service.AddStaff(r.Context(), r.PathValue("id"), req)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"assignment": assignment})
}

func (a *API) handleUpdateStaff(w http.ResponseWriter, r *http.Request) {
	var req domain.StaffUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	assignment, err := a.service.UpdateStaff(r.Context(), r.PathValue("id"), req)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"assignment": assignment})
}

func (a *API) handleRemoveStaff(w http.ResponseWriter, r *http.Request) {
	if err := a.service.RemoveStaff(r.Context(), r.PathValue("id")); err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleListInventory(w http.ResponseWriter, r *http.Request) {
	lines, err := a.service.ListEventInventory(r.Context(), r.PathValue("id"))
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"inventory": lines})
}

func (a *API) handleAddInventoryLine(w http.ResponseWriter, r *http.Request) {
	var req domain.InventoryCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	line, err := a.service.AddInventoryLine(r.Context(), r.PathValue("id"), req)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"line": line})
}

func (a *API) handleUpdateInventoryLine(w http.ResponseWriter, r *http.Request) {
	var req domain.InventoryUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	line, err := a.service.UpdateInventoryLine(r.Context(), r.PathValue("id"), req)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"line": line})
}

func (a *API) handleDeleteInventoryLine(w http.ResponseWriter, r *http.Request) {
	if err := a.service.DeleteInventoryLine(r.Context(), r.PathValue("id")); err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleEventEconomics(w http.ResponseWriter, r *http.Request) {
	econ, err := a.service.EventEconomics(r.Context(), r.PathValue("id"))
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"economics": econ})
}

// handleEventEconomicsXLSX buffers the whole workbook before writing any
// header.
func (a *API) handleEventEconomicsXLSX(w http.ResponseWriter, r *http.Request) {
	econ, err := a.service.EventEconomics(r.Context(), r.PathValue("id"))
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.EventWorkbook(&buf, econ); err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", export.ContentTypeXLSX)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(econ)))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (a *API) handleListBarmans(w http.ResponseWriter, r *http.Request) {
	barmans, err := a.service.ListBarmans(r.Context())
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"barmans": barmans})
}

func (a *API) handleCreateBarman(w http.ResponseWriter, r *http.Request) {
	var req domain.BarmanCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	barman, err := a.service.CreateBarman(r.Context(), req)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"barman": barman})
}

func (a *API) handleGetBarman(w http.ResponseWriter, r *http.Request) {
	barman, err := a.service.GetBarman(r.Context(), r.PathValue("id"))
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"barman": barman})
}

func (a *API) handleUpdateBarman(w http.ResponseWriter, r *http.Request) {
	var req domain.BarmanUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	barman, err := a.service.UpdateBarman(r.Context(), r.PathValue("id"), req)
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"barman": barman})
}

func (a *API) handleDeleteBarman(w http.ResponseWriter, r *http.Request) {
	if err := a.service.DeleteBarman(r.Context(), r.PathValue("id")); err != nil {
		a.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
