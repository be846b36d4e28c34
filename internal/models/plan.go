package models

// Plan is a subscription tier bounding how many users and projects a tenant may hold.
type Plan string

const (
	PlanFree       Plan = "free"
	PlanPro        Plan = "pro"
	PlanEnterprise Plan = "enterprise"
)

// PlanLimits is the resource ceiling attached to a plan.
type PlanLimits struct {
	MaxUsers    int `json:"max_users"`
	MaxProjects int `json:"max_projects"`
}

var planLimits = map[Plan]PlanLimits{
	PlanFree:       {MaxUsers: 5, MaxProjects: 3},
	PlanPro:        {MaxUsers: 25, MaxProjects: 15},
	PlanEnterprise: {MaxUsers: 100, MaxProjects: 50},
}

// Valid reports whether p names a known plan.
func (p Plan) Valid() bool {
	_, ok := planLimits[p]
	return ok
}

// Limits returns the resource limits for the plan. Unknown plans fall back
// to the free tier so a bad row can never grant unlimited capacity.
func (p Plan) Limits() PlanLimits {
	if limits, ok := planLimits[p]; ok {
		return limits
	}
	return planLimits[PlanFree]
}
