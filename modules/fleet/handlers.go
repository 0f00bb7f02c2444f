package fleet

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fleetkit/fleetkit/pkg/entitlement"
	"github.com/fleetkit/fleetkit/pkg/plan"
	"github.com/fleetkit/fleetkit/pkg/tenant"
	"github.com/fleetkit/fleetkit/pkg/usage"
)

// Vehicle is a fleet vehicle row. Every row carries its owner's tenant id.
type Vehicle struct {
	ID           uuid.UUID `json:"id"`
	TenantID     uuid.UUID `json:"tenant_id"`
	Registration string    `json:"registration"`
	Model        string    `json:"model"`
	CreatedAt    time.Time `json:"created_at"`
}

// User is a tenant member row.
type User struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// VehicleHandler serves vehicle CRUD behind the entitlement gate.
// Creation goes through usage.Reserver so concurrent requests cannot
// push a tenant past its vehicle limit.
type VehicleHandler struct {
	reserver *usage.Reserver
	pool     *pgxpool.Pool
}

// NewVehicleHandler creates a VehicleHandler.
func NewVehicleHandler(reserver *usage.Reserver, pool *pgxpool.Pool) *VehicleHandler {
	if reserver == nil || pool == nil {
		panic("fleet: reserver and pool are required")
	}
	return &VehicleHandler{reserver: reserver, pool: pool}
}

// List returns the tenant's vehicles.
func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	t, ok := tenant.FromContext(r.Context())
	if !ok {
		// Internal principals bypass the gate tenant-less; fleet data is
		// always tenant-owned, so there is nothing to serve them.
		writeError(w, http.StatusBadRequest, "tenant context required")
		return
	}

	rows, err := h.pool.Query(r.Context(),
		`SELECT id, tenant_id, registration, model, created_at
		 FROM vehicles WHERE tenant_id = $1 ORDER BY created_at`, t.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list vehicles")
		return
	}
	defer rows.Close()

	vehicles := []Vehicle{}
	for rows.Next() {
		var v Vehicle
		if err := rows.Scan(&v.ID, &v.TenantID, &v.Registration, &v.Model, &v.CreatedAt); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list vehicles")
			return
		}
		vehicles = append(vehicles, v)
	}

	writeJSON(w, http.StatusOK, vehicles)
}

// Create inserts a vehicle inside an atomic limit reservation.
func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) {
	t, ok := tenant.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusBadRequest, "tenant context required")
		return
	}
	result := entitlement.MustResultFromContext(r.Context())

	var req struct {
		Registration string `json:"registration"`
		Model        string `json:"model"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Registration == "" {
		writeError(w, http.StatusBadRequest, "registration is required")
		return
	}

	limit, ok := result.Snapshot.Plan.LimitFor(plan.ResourceVehicles)
	if !ok {
		writeError(w, http.StatusInternalServerError, "plan does not gate vehicles")
		return
	}

	v := Vehicle{
		ID:           uuid.New(),
		TenantID:     t.ID,
		Registration: req.Registration,
		Model:        req.Model,
		CreatedAt:    time.Now().UTC(),
	}

	err := h.reserver.Reserve(r.Context(), t.ID, plan.ResourceVehicles, limit, func(tx pgx.Tx) error {
		_, err := tx.Exec(r.Context(),
			`INSERT INTO vehicles (id, tenant_id, registration, model, created_at)
			 VALUES ($1, $2, $3, $4, $5)`,
			v.ID, v.TenantID, v.Registration, v.Model, v.CreatedAt)
		return err
	})
	if err != nil {
		if errors.Is(err, usage.ErrLimitExceeded) {
			writeLimitDenial(w, plan.ResourceVehicles, err)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create vehicle")
		return
	}

	writeJSON(w, http.StatusCreated, v)
}

// UserHandler serves tenant member CRUD behind the entitlement gate.
type UserHandler struct {
	reserver *usage.Reserver
	pool     *pgxpool.Pool
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(reserver *usage.Reserver, pool *pgxpool.Pool) *UserHandler {
	if reserver == nil || pool == nil {
		panic("fleet: reserver and pool are required")
	}
	return &UserHandler{reserver: reserver, pool: pool}
}

// List returns the tenant's members.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	t, ok := tenant.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusBadRequest, "tenant context required")
		return
	}

	rows, err := h.pool.Query(r.Context(),
		`SELECT id, tenant_id, email, name, created_at
		 FROM users WHERE tenant_id = $1 ORDER BY created_at`, t.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.TenantID, &u.Email, &u.Name, &u.CreatedAt); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list users")
			return
		}
		users = append(users, u)
	}

	writeJSON(w, http.StatusOK, users)
}

// Create inserts a member inside an atomic limit reservation.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	t, ok := tenant.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusBadRequest, "tenant context required")
		return
	}
	result := entitlement.MustResultFromContext(r.Context())

	var req struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	limit, ok := result.Snapshot.Plan.LimitFor(plan.ResourceUsers)
	if !ok {
		writeError(w, http.StatusInternalServerError, "plan does not gate users")
		return
	}

	u := User{
		ID:        uuid.New(),
		TenantID:  t.ID,
		Email:     req.Email,
		Name:      req.Name,
		CreatedAt: time.Now().UTC(),
	}

	err := h.reserver.Reserve(r.Context(), t.ID, plan.ResourceUsers, limit, func(tx pgx.Tx) error {
		_, err := tx.Exec(r.Context(),
			`INSERT INTO users (id, tenant_id, email, name, created_at)
			 VALUES ($1, $2, $3, $4, $5)`,
			u.ID, u.TenantID, u.Email, u.Name, u.CreatedAt)
		return err
	})
	if err != nil {
		if errors.Is(err, usage.ErrLimitExceeded) {
			writeLimitDenial(w, plan.ResourceUsers, err)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	writeJSON(w, http.StatusCreated, u)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeLimitDenial reports a reservation refused at creation time with the
// same payload shape the gate uses, so clients see one denial contract.
func writeLimitDenial(w http.ResponseWriter, res plan.Resource, err error) {
	d := &entitlement.DenialError{
		Code:     entitlement.CodeLimitReached,
		Message:  err.Error(),
		Resource: string(res),
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(d.Code.HTTPStatus())
	_ = json.NewEncoder(w).Encode(entitlement.Payload(d))
}
