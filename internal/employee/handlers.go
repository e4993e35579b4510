package employee

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"venue/internal/api"
	"venue/internal/audit"
	"venue/pkg/store"
)

type Store interface {
	ListEmployees(ctx context.Context) ([]store.Employee, error)
	GetEmployee(ctx context.Context, id int64) (store.Employee, error)
	CreateEmployee(ctx context.Context, in store.EmployeeInput) (store.Employee, error)
	UpdateEmployee(ctx context.Context, id int64, in store.EmployeeInput) (store.Employee, error)
	DeleteEmployee(ctx context.Context, id int64) error
}

type Handlers struct {
	Store func(r *http.Request) Store
	Audit api.AuditRecorder
}

type employeeRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Position  string `json:"position"`
	HireDate  string `json:"hire_date"`
	IsActive  *bool  `json:"is_active"`
}

// input trims the request; new employees are active unless told otherwise.
func (req employeeRequest) input() store.EmployeeInput {
	in := store.EmployeeInput{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		Position:  strings.TrimSpace(req.Position),
		HireDate:  strings.TrimSpace(req.HireDate),
		IsActive:  true,
	}
	if req.IsActive != nil {
		in.IsActive = *req.IsActive
	}
	return in
}

// List sorts by last then first name. ?active=true|false filters.
func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Store(r).ListEmployees(r.Context())
	if err != nil {
		api.WriteStoreError(w, r, "list employees", err)
		return
	}
	if raw := r.URL.Query().Get("active"); raw != "" {
		want, err := strconv.ParseBool(raw)
		if err != nil {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "active must be true or false")
			return
		}
		kept := items[:0]
		for _, e := range items {
			if e.IsActive == want {
				kept = append(kept, e)
			}
		}
		items = kept
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := strings.ToLower(items[i].LastName), strings.ToLower(items[j].LastName)
		if a != b {
			return a < b
		}
		return strings.ToLower(items[i].FirstName) < strings.ToLower(items[j].FirstName)
	})
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := api.PathID(w, r)
	if !ok {
		return
	}
	e, err := h.Store(r).GetEmployee(r.Context(), id)
	if err != nil {
		api.WriteStoreError(w, r, "get employee", err)
		return
	}
	api.WriteJSON(w, http.StatusOK, e)
}

func (h Handlers) Create(w http.ResponseWriter, r *http.Request) {
	var req employeeRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	e, err := h.Store(r).CreateEmployee(r.Context(), req.input())
	if err != nil {
		api.WriteStoreError(w, r, "create employee", err)
		return
	}
	api.RecordAudit(r, h.Audit, audit.ActionEmployeeCreated, "employee", strconv.FormatInt(e.ID, 10), map[string]any{"position": e.Position})
	api.WriteJSON(w, http.StatusCreated, e)
}

func (h Handlers) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := api.PathID(w, r)
	if !ok {
		return
	}
	var req employeeRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	e, err := h.Store(r).UpdateEmployee(r.Context(), id, req.input())
	if err != nil {
		api.WriteStoreError(w, r, "update employee", err)
		return
	}
	api.RecordAudit(r, h.Audit, audit.ActionEmployeeUpdated, "employee", strconv.FormatInt(id, 10), nil)
	api.WriteJSON(w, http.StatusOK, e)
}

func (h Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := api.PathID(w, r)
	if !ok {
		return
	}
	if err := h.Store(r).DeleteEmployee(r.Context(), id); err != nil {
		api.WriteStoreError(w, r, "delete employee", err)
		return
	}
	api.RecordAudit(r, h.Audit, audit.ActionEmployeeDeleted, "employee", strconv.FormatInt(id, 10), nil)
	w.WriteHeader(http.StatusNoContent)
}
