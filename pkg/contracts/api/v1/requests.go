// Package api contains the request contracts of the dashboard HTTP API.
package api

// DashboardRequest selects the slice of sales a dashboard view covers.
// Empty lists mean "all".
type DashboardRequest struct {
	Categories []string `json:"categories,omitempty" query:"category" validate:"dive,seating_category"`
	Opponents  []string `json:"opponents,omitempty" query:"opponent" validate:"dive,min=1,max=120"`
	Policy     string   `json:"policy,omitempty" query:"policy" validate:"omitempty,buyer_policy"`
}

// ProjectionRequest selects the buyer policy the initiative projection is
// computed under.
type ProjectionRequest struct {
	Policy string `json:"policy,omitempty" query:"policy" validate:"omitempty,buyer_policy"`
}
