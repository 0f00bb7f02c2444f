package fleet

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fleetkit/fleetkit/pkg/entitlement"
	"github.com/fleetkit/fleetkit/pkg/plan"
	"github.com/fleetkit/fleetkit/pkg/tenant"
)

// RouterOptions wires the fleet module's collaborators.
type RouterOptions struct {
	Gate     *entitlement.Gate
	Hint     tenant.HintResolver
	Vehicles *VehicleHandler
	Users    *UserHandler
}

// Router mounts the vehicle and user endpoints behind the entitlement
// gate. The gate middleware is the single policy point: no handler
// re-derives tenant, subscription, or limit state.
//
// Example:
//
//	r := chi.NewRouter()
//	r.Mount("/fleet", fleet.Router(fleet.RouterOptions{
//	    Gate:     gate,
//	    Hint:     tenant.NewHeaderHint(""),
//	    Vehicles: fleet.NewVehicleHandler(reserver, pool),
//	    Users:    fleet.NewUserHandler(reserver, pool),
//	}))
func Router(opts RouterOptions) chi.Router {
	if opts.Gate == nil {
		panic("fleet: entitlement gate is required")
	}

	r := chi.NewRouter()
	r.Use(entitlement.Middleware(opts.Gate, opts.Hint, actionFor))

	if opts.Vehicles != nil {
		r.Route("/vehicles", func(v chi.Router) {
			v.Get("/", opts.Vehicles.List)
			v.Post("/", opts.Vehicles.Create)
		})
	}
	if opts.Users != nil {
		r.Route("/users", func(u chi.Router) {
			u.Get("/", opts.Users.List)
			u.Post("/", opts.Users.Create)
		})
	}

	return r
}

// actionFor maps routes to gate actions. Only POSTs mutate; everything
// else is a read against the same resource kind.
func actionFor(r *http.Request) (entitlement.Action, bool) {
	var res plan.Resource
	switch {
	case matchResource(r.URL.Path, "vehicles"):
		res = plan.ResourceVehicles
	case matchResource(r.URL.Path, "users"):
		res = plan.ResourceUsers
	default:
		return entitlement.Action{}, false
	}

	return entitlement.Action{
		Resource: res,
		Mutation: r.Method == http.MethodPost,
	}, true
}

func matchResource(path, segment string) bool {
	return path == "/"+segment || path == "/"+segment+"/" ||
		len(path) > len(segment)+2 && path[:len(segment)+2] == "/"+segment+"/"
}
