package jobs

import (
	"fmt"
	"strconv"
)

// Preview lengths used by the dashboard cards and the all-jobs modal.
const (
	CardPreviewLen  = 90
	ModalPreviewLen = 160
)

// StarRating is the five-star breakdown for a job's rating display.
// Filled + Empty, plus one for Half when set, always totals five.
type StarRating struct {
	Filled int  `json:"filled"`
	Half   bool `json:"half"`
	Empty  int  `json:"empty"`
}

// Stars computes the star breakdown for (rating, reviewsCount).
//
// With zero reviews (or no rating) all five stars are unfilled — the
// explicit no-signal state, visually distinct from a low rating backed by
// real reviews. Otherwise floor(rating) stars fill, one half star when the
// fractional remainder is at least 0.5, and the rest stay unfilled.
func Stars(rating float64, reviewsCount int) StarRating {
	if reviewsCount == 0 || rating <= 0 {
		return StarRating{Empty: 5}
	}

	filled := int(rating)
	if filled >= 5 {
		return StarRating{Filled: 5}
	}
	half := rating-float64(filled) >= 0.5
	empty := 5 - filled
	if half {
		empty--
	}
	return StarRating{Filled: filled, Half: half, Empty: empty}
}

// FormatBudget renders the estimated-budget label for a job card:
// hourly jobs show a range with an /hr suffix, fixed-price jobs show the
// single amount, and anything incomplete reads "Budget not specified".
func FormatBudget(j DisplayJob) string {
	switch {
	case j.BudgetType == BudgetHourly && j.BudgetFrom > 0 && j.BudgetTo > 0:
		return fmt.Sprintf("$%s – $%s/hr", formatAmount(j.BudgetFrom), formatAmount(j.BudgetTo))
	case j.BudgetType == BudgetFixed && j.BudgetFrom > 0:
		return "$" + formatAmount(j.BudgetFrom)
	default:
		return "Budget not specified"
	}
}

// FormatLocation joins city and country for the 📍 label, omitting the
// comma when either side is empty.
func FormatLocation(j DisplayJob) string {
	switch {
	case j.City != "" && j.Country != "":
		return j.City + ", " + j.Country
	case j.City != "":
		return j.City
	default:
		return j.Country
	}
}

// Truncate returns a rune-safe prefix of s capped at n runes, and whether
// anything was cut (drives the "more" toggle).
func Truncate(s string, n int) (string, bool) {
	r := []rune(s)
	if len(r) <= n {
		return s, false
	}
	return string(r[:n]) + "...", true
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
