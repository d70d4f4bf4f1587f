package dashboard

import (
	"fmt"
	"sync"
)

// Tab selects the main dashboard list.
type Tab string

const (
	TabDiscover Tab = "discover"
	TabSaved    Tab = "saved"
)

// View action types accepted by the reducer.
const (
	ActionSetTab            = "set_tab"
	ActionToggleSkills      = "toggle_skills"
	ActionToggleDescription = "toggle_description"
	ActionOpenAllJobs       = "open_all_jobs"
	ActionCloseAllJobs      = "close_all_jobs"
)

// ViewAction is one user interaction with the dashboard chrome.
type ViewAction struct {
	Type  string `json:"type"`
	Tab   Tab    `json:"tab,omitempty"`
	JobID int    `json:"job_id,omitempty"`
}

// ViewState is the UI-only state of one caller's dashboard: active tab,
// which job cards are expanded, and whether the all-jobs modal is open.
// Job ids are the stable expansion keys; zero means nothing is expanded.
type ViewState struct {
	ActiveTab           Tab  `json:"active_tab"`
	ExpandedSkillsJobID int  `json:"expanded_skills_job_id"`
	ExpandedDescJobID   int  `json:"expanded_desc_job_id"`
	AllJobsOpen         bool `json:"all_jobs_open"`
}

// DefaultViewState is a fresh dashboard: discover tab, nothing expanded.
func DefaultViewState() ViewState {
	return ViewState{ActiveTab: TabDiscover}
}

// Apply is a pure reducer: it returns the state after one action without
// mutating the receiver. Toggles collapse when the id already matches and
// expand otherwise.
func (v ViewState) Apply(a ViewAction) (ViewState, error) {
	switch a.Type {
	case ActionSetTab:
		if a.Tab != TabDiscover && a.Tab != TabSaved {
			return v, fmt.Errorf("unknown tab %q", a.Tab)
		}
		v.ActiveTab = a.Tab
	case ActionToggleSkills:
		if a.JobID == 0 {
			return v, fmt.Errorf("%s requires job_id", a.Type)
		}
		if v.ExpandedSkillsJobID == a.JobID {
			v.ExpandedSkillsJobID = 0
		} else {
			v.ExpandedSkillsJobID = a.JobID
		}
	case ActionToggleDescription:
		if a.JobID == 0 {
			return v, fmt.Errorf("%s requires job_id", a.Type)
		}
		if v.ExpandedDescJobID == a.JobID {
			v.ExpandedDescJobID = 0
		} else {
			v.ExpandedDescJobID = a.JobID
		}
	case ActionOpenAllJobs:
		v.AllJobsOpen = true
	case ActionCloseAllJobs:
		v.AllJobsOpen = false
	default:
		return v, fmt.Errorf("unknown view action %q", a.Type)
	}
	return v, nil
}

// Views owns every caller's view state. It is the only writer; everything
// else reads the value snapshots it hands out.
type Views struct {
	mu     sync.Mutex
	states map[string]ViewState
}

// NewViews returns an empty registry.
func NewViews() *Views {
	return &Views{states: make(map[string]ViewState)}
}

// Get returns the caller's view state, defaulting for new sessions.
func (vs *Views) Get(key string) ViewState {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	if st, ok := vs.states[key]; ok {
		return st
	}
	return DefaultViewState()
}

// Apply runs the reducer against the caller's state and stores the result.
func (vs *Views) Apply(key string, a ViewAction) (ViewState, error) {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	cur, ok := vs.states[key]
	if !ok {
		cur = DefaultViewState()
	}
	next, err := cur.Apply(a)
	if err != nil {
		return cur, err
	}
	vs.states[key] = next
	return next, nil
}

// Drop forgets the caller's view state.
func (vs *Views) Drop(key string) {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	delete(vs.states, key)
}
