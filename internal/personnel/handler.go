package personnel

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/payrollhq/payroll-management/internal/transport"
	"github.com/payrollhq/payroll-management/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) ListPersonnel(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"

	records, err := h.Service.List(activeOnly)
	if err != nil {
		h.Logger.Error("ListPersonnel: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"personnel": records,
	})
}

func (h *Handler) GetPersonnel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	record, err := h.Service.Get(id)
	if err != nil {
		h.Logger.Error("GetPersonnel: service error", "error", err, "id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, record)
}

func (h *Handler) CreatePersonnel(w http.ResponseWriter, r *http.Request) {
	var dto UpsertDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreatePersonnel: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := h.Service.Create(dto)
	if err != nil {
		h.Logger.Error("CreatePersonnel: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message":   "Personnel added successfully",
		"personnel": record,
	})
}

func (h *Handler) UpdatePersonnel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var dto UpsertDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdatePersonnel: invalid request body", "error", err, "id", id)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := h.Service.Update(id, dto)
	if err != nil {
		h.Logger.Error("UpdatePersonnel: service error", "error", err, "id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "Personnel updated successfully",
		"personnel": record,
	})
}

func (h *Handler) DeletePersonnel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Service.Delete(id); err != nil {
		h.Logger.Error("DeletePersonnel: service error", "error", err, "id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Personnel deleted successfully",
	})
}
