package fleet

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetkit/fleetkit/pkg/plan"
)

func TestActionFor(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		method   string
		path     string
		resource plan.Resource
		mutation bool
		mapped   bool
	}{
		{name: "list vehicles", method: http.MethodGet, path: "/vehicles", resource: plan.ResourceVehicles, mapped: true},
		{name: "list vehicles trailing slash", method: http.MethodGet, path: "/vehicles/", resource: plan.ResourceVehicles, mapped: true},
		{name: "create vehicle", method: http.MethodPost, path: "/vehicles", resource: plan.ResourceVehicles, mutation: true, mapped: true},
		{name: "vehicle subpath", method: http.MethodGet, path: "/vehicles/abc", resource: plan.ResourceVehicles, mapped: true},
		{name: "create user", method: http.MethodPost, path: "/users", resource: plan.ResourceUsers, mutation: true, mapped: true},
		{name: "list users", method: http.MethodGet, path: "/users", resource: plan.ResourceUsers, mapped: true},
		{name: "unknown path", method: http.MethodGet, path: "/drivers", mapped: false},
		{name: "prefix is not a match", method: http.MethodGet, path: "/vehiclesx", mapped: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			action, ok := actionFor(httptest.NewRequest(tc.method, tc.path, nil))
			require.Equal(t, tc.mapped, ok)
			if !tc.mapped {
				return
			}
			assert.Equal(t, tc.resource, action.Resource)
			assert.Equal(t, tc.mutation, action.Mutation)
		})
	}
}
