package jobs

// Normalize maps a raw backend job record into a display-ready record.
//
// Location fields follow a fallback chain: the job's own value, then the
// current user's, then empty. Location itself always comes from the user
// (their free-text location, falling back to city), independent of per-job
// fields — it labels where the employer posts from, not where the job is.
//
// Numeric engagement fields default to 0 when absent. A genuine rating of
// exactly 0 is therefore indistinguishable from "no rating yet"; the star
// renderer compensates by treating reviews_count == 0 as the no-signal
// state.
//
// Normalize is pure: calling it twice with the same inputs yields
// identical values.
func Normalize(raw RawJob, user User) DisplayJob {
	return DisplayJob{
		ID:             raw.ID,
		Title:          raw.Title,
		Description:    raw.Description,
		Status:         Status(raw.Status),
		BudgetType:     raw.BudgetType,
		BudgetFrom:     raw.BudgetFrom,
		BudgetTo:       raw.BudgetTo,
		Skills:         ParseSkills(raw.Skills),
		ExpertiseLevel: raw.ExpertiseLevel,
		City:           firstNonEmpty(raw.City, user.City),
		Country:        firstNonEmpty(raw.Country, user.Country),
		Location:       firstNonEmpty(user.Location, user.City),
		Rating:         nonNegative(raw.Rating),
		ReviewsCount:   nonNegativeInt(raw.ReviewsCount),
		ProposalsCount: nonNegativeInt(raw.ProposalsCount),
		HiredCount:     nonNegativeInt(raw.HiredCount),
	}
}

// NormalizeAll normalizes a batch, preserving order. The result is never
// nil, so an empty fetch renders as "no jobs" rather than null.
func NormalizeAll(raws []RawJob, user User) []DisplayJob {
	out := make([]DisplayJob, 0, len(raws))
	for _, r := range raws {
		out = append(out, Normalize(r, user))
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func nonNegativeInt(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
