// Package jobs defines the job-marketplace domain model and the
// normalisation rules applied to backend API payloads before anything
// else in the service touches them.
package jobs

import "encoding/json"

// Status values mirror the job_posts status column in the backend.
type Status string

const (
	StatusPosted    Status = "posted"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Budget type values mirror the backend budget_type choices.
const (
	BudgetFixed  = "fixed"
	BudgetHourly = "hourly"
)

// User is the current user as returned by GET /auth/me.
// Fetched once per dashboard load; read-only for the session.
type User struct {
	ID        int    `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone_number"`
	Role      string `json:"role"` // "creator" or "collaborator"
	Location  string `json:"location"`
	City      string `json:"city"`
	Country   string `json:"country"`
}

// RawJob is a job record exactly as received from the backend.
// Skills is kept as raw JSON because the field arrives in several shapes
// (array, JSON-encoded string, comma-delimited string, null) and is only
// resolved once, by ParseSkills, at ingestion.
type RawJob struct {
	ID             int             `json:"id"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Status         string          `json:"status"`
	BudgetType     string          `json:"budget_type"`
	BudgetFrom     float64         `json:"budget_from"`
	BudgetTo       float64         `json:"budget_to"`
	Skills         json.RawMessage `json:"skills"`
	ExpertiseLevel string          `json:"expertise_level"`
	City           string          `json:"city"`
	Country        string          `json:"country"`
	Rating         float64         `json:"rating"`
	ReviewsCount   int             `json:"reviews_count"`
	ProposalsCount int             `json:"proposals_count"`
	HiredCount     int             `json:"hired_count"`
}

// DisplayJob is a job record after normalisation, ready for rendering.
// Skills is always a non-nil list, location fields are resolved through
// the fallback chain, and the numeric fields are never negative.
type DisplayJob struct {
	ID             int      `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Status         Status   `json:"status"`
	BudgetType     string   `json:"budget_type"`
	BudgetFrom     float64  `json:"budget_from"`
	BudgetTo       float64  `json:"budget_to"`
	Skills         []string `json:"skills"`
	ExpertiseLevel string   `json:"expertise_level"`
	City           string   `json:"city"`
	Country        string   `json:"country"`
	Location       string   `json:"location"`
	Rating         float64  `json:"rating"`
	ReviewsCount   int      `json:"reviews_count"`
	ProposalsCount int      `json:"proposals_count"`
	HiredCount     int      `json:"hired_count"`
}

// Counts are the aggregate job statistics shown in the sidebar.
// They are always derived from a job collection via CountByStatus and
// never stored or mutated independently.
type Counts struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
}

// CountByStatus computes aggregate counts over a job collection.
// Statuses outside the three tracked values count only toward Total.
func CountByStatus(list []DisplayJob) Counts {
	c := Counts{Total: len(list)}
	for _, j := range list {
		switch j.Status {
		case StatusPosted:
			c.Active++
		case StatusCompleted:
			c.Completed++
		case StatusCancelled:
			c.Cancelled++
		}
	}
	return c
}
