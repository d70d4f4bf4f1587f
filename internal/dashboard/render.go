package dashboard

import (
	"time"

	"collabhub/dashboard-service/internal/jobs"
	"collabhub/dashboard-service/internal/verification"
)

// The card shows at most this many skill chips before the "more" toggle.
const skillsPreviewLimit = 3

// JobView is the display-ready JSON for one job card.
type JobView struct {
	jobs.DisplayJob
	BudgetLabel         string          `json:"budget_label"`
	LocationLabel       string          `json:"location_label"`
	Stars               jobs.StarRating `json:"stars"`
	DescriptionPreview  string          `json:"description_preview"`
	DescriptionHasMore  bool            `json:"description_has_more"`
	DescriptionExpanded bool            `json:"description_expanded"`
	SkillsPreview       []string        `json:"skills_preview"`
	SkillsHasMore       bool            `json:"skills_has_more"`
	SkillsExpanded      bool            `json:"skills_expanded"`
}

// SummaryView is the "you had posted a job" card built from the most
// recent job.
type SummaryView struct {
	Title          string `json:"title"`
	BudgetLabel    string `json:"budget_label"`
	ProposalsCount int    `json:"proposals_count"`
	HiredCount     int    `json:"hired_count"`
}

// DashboardView is the full dashboard payload: a pure function of the
// snapshot, the caller's view state and their verification session.
type DashboardView struct {
	WelcomeName  string               `json:"welcome_name"`
	Role         string               `json:"role"`
	Loading      bool                 `json:"loading"`
	Summary      *SummaryView         `json:"summary"`
	Counts       jobs.Counts          `json:"counts"`
	Jobs         []JobView            `json:"jobs"`
	View         ViewState            `json:"view"`
	Verification verification.Session `json:"verification"`
	Version      uint64               `json:"version"`
	LoadedAt     time.Time            `json:"loaded_at"`
}

// AllJobsView is the payload behind the "view all jobs" modal: every
// posted job with the longer description preview.
type AllJobsView struct {
	Total int       `json:"total"`
	Jobs  []JobView `json:"jobs"`
}

// RenderDashboard builds the dashboard payload. It only reads its inputs.
func RenderDashboard(snap *Snapshot, view ViewState, sess verification.Session, loading bool) DashboardView {
	out := DashboardView{
		WelcomeName:  "User",
		Role:         snap.User.Role,
		Loading:      loading,
		Counts:       snap.Counts,
		Jobs:         make([]JobView, 0, len(snap.Jobs)),
		View:         view,
		Verification: sess,
		Version:      snap.Version,
		LoadedAt:     snap.LoadedAt,
	}
	if snap.User.FirstName != "" {
		out.WelcomeName = snap.User.FirstName
	}
	if len(snap.Jobs) > 0 {
		latest := snap.Jobs[0]
		out.Summary = &SummaryView{
			Title:          latest.Title,
			BudgetLabel:    jobs.FormatBudget(latest),
			ProposalsCount: latest.ProposalsCount,
			HiredCount:     latest.HiredCount,
		}
	}
	for _, j := range snap.Jobs {
		out.Jobs = append(out.Jobs, renderJob(j, view, jobs.CardPreviewLen))
	}
	return out
}

// RenderAllJobs builds the all-jobs modal payload.
func RenderAllJobs(snap *Snapshot, view ViewState) AllJobsView {
	out := AllJobsView{
		Total: snap.Counts.Total,
		Jobs:  make([]JobView, 0, len(snap.Jobs)),
	}
	for _, j := range snap.Jobs {
		out.Jobs = append(out.Jobs, renderJob(j, view, jobs.ModalPreviewLen))
	}
	return out
}

func renderJob(j jobs.DisplayJob, view ViewState, previewLen int) JobView {
	preview, cut := jobs.Truncate(j.Description, previewLen)

	skillsPreview := j.Skills
	skillsMore := false
	if len(j.Skills) > skillsPreviewLimit {
		skillsPreview = j.Skills[:skillsPreviewLimit]
		skillsMore = true
	}

	return JobView{
		DisplayJob:          j,
		BudgetLabel:         jobs.FormatBudget(j),
		LocationLabel:       jobs.FormatLocation(j),
		Stars:               jobs.Stars(j.Rating, j.ReviewsCount),
		DescriptionPreview:  preview,
		DescriptionHasMore:  cut,
		DescriptionExpanded: view.ExpandedDescJobID == j.ID,
		SkillsPreview:       skillsPreview,
		SkillsHasMore:       skillsMore,
		SkillsExpanded:      view.ExpandedSkillsJobID == j.ID,
	}
}
