package dashboard_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collabhub/dashboard-service/internal/dashboard"
	"collabhub/dashboard-service/internal/jobs"
)

// fakeAPI scripts the backend responses.
type fakeAPI struct {
	user    jobs.User
	userErr error
	jobs    []jobs.RawJob
	jobsErr error

	meCalls   int
	jobsCalls int
	lastID    int
}

func (f *fakeAPI) Me(ctx context.Context, token string) (jobs.User, error) {
	f.meCalls++
	return f.user, f.userErr
}

func (f *fakeAPI) MyJobs(ctx context.Context, token string, employerID int, status jobs.Status) ([]jobs.RawJob, error) {
	f.jobsCalls++
	f.lastID = employerID
	return f.jobs, f.jobsErr
}

func newService(api dashboard.API) *dashboard.Service {
	return dashboard.NewService(api, dashboard.NewStore(), nil)
}

func TestService_RefreshNormalizesJobs(t *testing.T) {
	api := &fakeAPI{
		user: jobs.User{ID: 42, FirstName: "Ada", City: "Lagos"},
		jobs: []jobs.RawJob{
			{ID: 1, Title: "Edit my vlog", Status: "posted", Skills: []byte(`"Premiere, Resolve"`)},
		},
	}
	svc := newService(api)

	snap := svc.Refresh(context.Background(), "tok")

	assert.Equal(t, 42, api.lastID, "job fetch uses the resolved employer id")
	require.Len(t, snap.Jobs, 1)
	assert.Equal(t, []string{"Premiere", "Resolve"}, snap.Jobs[0].Skills)
	assert.Equal(t, "Lagos", snap.Jobs[0].City, "user city fallback applied")
	assert.Equal(t, 1, snap.Counts.Active)
}

func TestService_RefreshUserFetchFails(t *testing.T) {
	api := &fakeAPI{userErr: errors.New("401 unauthorized")}
	svc := newService(api)

	snap := svc.Refresh(context.Background(), "tok")

	require.NotNil(t, snap, "failures degrade, they never panic or propagate")
	assert.Empty(t, snap.Jobs)
	assert.Equal(t, 0, snap.Counts.Total)
	assert.Equal(t, 0, api.jobsCalls, "jobs are not fetched without an identity")
	assert.False(t, svc.Loading("tok"), "loading flag cleared after failure")
}

func TestService_RefreshJobsFetchFails(t *testing.T) {
	api := &fakeAPI{
		user:    jobs.User{ID: 7, FirstName: "Ada"},
		jobsErr: errors.New("boom"),
	}
	svc := newService(api)

	snap := svc.Refresh(context.Background(), "tok")

	assert.Empty(t, snap.Jobs)
	assert.Equal(t, "Ada", snap.User.FirstName, "user survives a jobs failure")
	assert.False(t, svc.Loading("tok"))
}

func TestService_DashboardReusesSnapshot(t *testing.T) {
	api := &fakeAPI{user: jobs.User{ID: 1}}
	svc := newService(api)
	ctx := context.Background()

	first := svc.Dashboard(ctx, "tok")
	second := svc.Dashboard(ctx, "tok")

	assert.Same(t, first, second)
	assert.Equal(t, 1, api.meCalls, "second read must not hit the backend")
}

func TestService_TokensGetSeparateDashboards(t *testing.T) {
	api := &fakeAPI{user: jobs.User{ID: 1}}
	svc := newService(api)
	ctx := context.Background()

	svc.Dashboard(ctx, "alice")
	svc.Dashboard(ctx, "bob")

	assert.Equal(t, 2, api.meCalls)
	assert.NotEqual(t, dashboard.SessionKey("alice"), dashboard.SessionKey("bob"))
}

func TestSessionKey_HidesToken(t *testing.T) {
	key := dashboard.SessionKey("super-secret-token")
	assert.NotContains(t, key, "super-secret-token")
	assert.Len(t, key, 32)
}
