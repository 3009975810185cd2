package audit

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// Handler exposes read and export endpoints for the audit trail.
// Creating, approving, and rejecting entries happens through the
// checkout module so the catalog effect stays coordinated.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/audit-logs", func(r chi.Router) {
		r.Get("/", h.list)              // GET /api/v1/audit-logs?status=&actor=&item_code=&reason=
		r.Get("/export", h.exportCSV)   // GET /api/v1/audit-logs/export
		r.Get("/{id}", h.get)           // GET /api/v1/audit-logs/{id}
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var logs []*StockAuditLog
	switch {
	case q.Get("status") != "":
		logs = h.service.ListByStatus(Status(q.Get("status")))
	case q.Get("actor") != "":
		logs = h.service.ListByActor(q.Get("actor"))
	case q.Get("item_code") != "":
		code, err := strconv.Atoi(q.Get("item_code"))
		if err != nil {
			respond(w, http.StatusBadRequest, map[string]string{"error": "invalid item_code"})
			return
		}
		logs = h.service.ListByItemCode(code)
	case q.Get("reason") != "":
		logs = h.service.ListByReason(q.Get("reason"))
	default:
		logs = h.service.ListAll()
	}
	respond(w, http.StatusOK, logs)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	l, ok := h.service.Get(chi.URLParam(r, "id"))
	if !ok {
		respond(w, http.StatusNotFound, map[string]string{"error": "audit log not found"})
		return
	}
	respond(w, http.StatusOK, l)
}

func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="stock_audit_logs.csv"`)
	if err := ExportCSV(w, h.service.ListAll()); err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
