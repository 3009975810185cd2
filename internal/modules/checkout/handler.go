package checkout

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/campuskits/merchstore-backend/internal/auth"
)

// Handler exposes the coordinated flows: payment, pickup, return
// approval, and the audited stock adjustment queue.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/checkout", func(r chi.Router) {
		r.Post("/reservations/{id}/pay", h.pay)                      // POST /api/v1/checkout/reservations/{id}/pay
		r.Post("/reservations/{id}/pickup", h.pickup)                // POST /api/v1/checkout/reservations/{id}/pickup
		r.Post("/reservations/{id}/return-approve", h.approveReturn) // POST /api/v1/checkout/reservations/{id}/return-approve
		r.Post("/adjustments", h.requestAdjustment)                  // POST /api/v1/checkout/adjustments
		r.Post("/adjustments/{log_id}/approve", h.approveAdjustment) // POST /api/v1/checkout/adjustments/{log_id}/approve
		r.Post("/adjustments/{log_id}/reject", h.rejectAdjustment)   // POST /api/v1/checkout/adjustments/{log_id}/reject
	})
}

type payRequest struct {
	Method string `json:"method"`
}

type adjustmentRequest struct {
	ItemCode    int    `json:"item_code"`
	Size        string `json:"size"`
	NewQuantity int    `json:"new_quantity"`
	Reason      string `json:"reason"`
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) pay(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	var req payRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	rv, err := h.service.MarkPaid(r.Context(), id, req.Method)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, rv)
}

func (h *Handler) pickup(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	rv, err := h.service.MarkPickedUp(r.Context(), auth.Actor(r.Context()), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, rv)
}

func (h *Handler) approveReturn(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	rv, err := h.service.ApproveReturn(r.Context(), auth.Actor(r.Context()), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, rv)
}

func (h *Handler) requestAdjustment(w http.ResponseWriter, r *http.Request) {
	var req adjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	entry, err := h.service.RequestAdjustment(r.Context(), auth.Actor(r.Context()), req.ItemCode, req.Size, req.NewQuantity, req.Reason)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, entry)
}

func (h *Handler) approveAdjustment(w http.ResponseWriter, r *http.Request) {
	entry, err := h.service.ApproveAdjustment(r.Context(), chi.URLParam(r, "log_id"), auth.Actor(r.Context()))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, entry)
}

func (h *Handler) rejectAdjustment(w http.ResponseWriter, r *http.Request) {
	var req rejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if !h.service.RejectAdjustment(r.Context(), chi.URLParam(r, "log_id"), auth.Actor(r.Context()), req.Reason) {
		respond(w, http.StatusUnprocessableEntity, map[string]string{"error": "stock change not found or not pending"})
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "stock change rejected"})
}

func parseID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

func respondErr(w http.ResponseWriter, err error) {
	msg := err.Error()
	code := http.StatusUnprocessableEntity
	switch {
	case strings.Contains(msg, "not found"):
		code = http.StatusNotFound
	case strings.Contains(msg, "invalid payment method"), strings.Contains(msg, "cannot be negative"):
		code = http.StatusBadRequest
	}
	respond(w, code, map[string]string{"error": msg})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
