package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"undergraduation-admin/config"
	"undergraduation-admin/internal/insights"
	"undergraduation-admin/internal/middleware"
	"undergraduation-admin/internal/models"
	"undergraduation-admin/internal/repository"
	"undergraduation-admin/internal/services"
	"undergraduation-admin/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubMailer struct{ err error }

func (m stubMailer) Name() string { return "stub" }

func (m stubMailer) Send(context.Context, services.Message) error { return m.err }

type testServer struct {
	t      *testing.T
	router *gin.Engine
	store  *repository.MemoryStore
	auth   *AuthHandler
	token  string
}

func newTestServer(t *testing.T, mailer services.Mailer) *testServer {
	t.Helper()
	store := repository.NewMemoryStore()
	_, err := repository.Seed(context.Background(), store, testNow)
	require.NoError(t, err)

	cfg := &config.Config{FrontendURLs: []string{"http://localhost:3000"}}
	sessions := session.NewManager("handler-test-secret", 15*time.Minute, time.Hour, session.NewMemoryRegistry())

	api := &API{
		Auth:     NewAuthHandler(cfg, store, sessions),
		Students: NewStudentHandler(store),
		Timeline: NewTimelineHandler(store),
		Followup: NewFollowupHandler(services.NewFollowupService(store, mailer)),
		Insights: NewInsightsHandler(store, insights.DefaultOptions(), &services.LocalArchive{Root: t.TempDir()}),
		Admin:    NewAdminHandler(store),
	}
	fixed := func() time.Time { return testNow }
	api.Students.now = fixed
	api.Timeline.now = fixed
	api.Insights.now = fixed
	api.Admin.now = fixed

	r := gin.New()
	api.Register(r, middleware.RequireSession(sessions))
	return &testServer{t: t, router: r, store: store, auth: api.Auth}
}

func (s *testServer) do(method, target string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// signIn registers a staff account and keeps its access token.
func (s *testServer) signIn() models.AuthResponse {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/auth/signup", models.SignupRequest{Email: "admin@example.com", Password: "secret123", Name: "Admin"})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	var resp models.AuthResponse
	decode(s.t, w, &resp)
	s.token = resp.AccessToken
	return resp
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestHealthIsPublic(t *testing.T) {
	s := newTestServer(t, services.LogMailer{})
	w := s.do(http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok"`)
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	s := newTestServer(t, services.LogMailer{})
	for _, target := range []string{"/api/students", "/api/insights", "/api/charts/status", "/api/auth/me"} {
		w := s.do(http.MethodGet, target, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, target)
	}
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t, services.LogMailer{})
	first := s.signIn()
	assert.NotEmpty(t, first.RefreshToken)
	assert.Equal(t, "admin@example.com", first.User.Email)

	w := s.do(http.MethodPost, "/api/auth/signup", models.SignupRequest{Email: "ADMIN@example.com", Password: "secret123", Name: "Again"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, "/api/auth/login", models.LoginRequest{Email: "admin@example.com", Password: "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/auth/login", models.LoginRequest{Email: "admin@example.com", Password: "secret123"})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me models.Staff
	decode(t, w, &me)
	assert.Equal(t, "Admin", me.Name)
	assert.NotContains(t, w.Body.String(), "password")

	w = s.do(http.MethodPost, "/api/auth/refresh", models.RefreshTokenRequest{RefreshToken: first.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code)
	var refreshed models.AuthResponse
	decode(t, w, &refreshed)
	assert.NotEqual(t, first.RefreshToken, refreshed.RefreshToken)

	w = s.do(http.MethodPost, "/api/auth/refresh", models.RefreshTokenRequest{RefreshToken: first.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	s.token = refreshed.AccessToken
	w = s.do(http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGoogleAuth(t *testing.T) {
	s := newTestServer(t, services.LogMailer{})
	s.auth.google = func(_ context.Context, code string) (*GoogleProfile, error) {
		if code != "good-code" {
			return nil, errors.New("invalid_grant")
		}
		return &GoogleProfile{ID: "g-1", Email: "counselor@example.com", Name: "Counselor"}, nil
	}

	w := s.do(http.MethodPost, "/api/auth/google", models.GoogleAuthRequest{Code: "bad"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/auth/google", models.GoogleAuthRequest{Code: "good-code"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var first models.AuthResponse
	decode(t, w, &first)
	assert.Equal(t, "google", first.User.Provider)

	w = s.do(http.MethodPost, "/api/auth/google", models.GoogleAuthRequest{Code: "good-code"})
	require.Equal(t, http.StatusOK, w.Code)
	var second models.AuthResponse
	decode(t, w, &second)
	assert.Equal(t, first.User.ID, second.User.ID)

	w = s.do(http.MethodPost, "/api/auth/login", models.LoginRequest{Email: "counselor@example.com", Password: "whatever"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Please use google")
}

func TestListStudents(t *testing.T) {
	s := newTestServer(t, services.LogMailer{})
	s.signIn()

	var all models.StudentListResponse
	w := s.do(http.MethodGet, "/api/students", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &all)
	assert.Len(t, all.Students, 10)
	assert.Equal(t, 10, all.Stats.Total)
	assert.Equal(t, 2, all.Stats.ByStatus[models.StatusApplying])

	var filtered models.StudentListResponse
	w = s.do(http.MethodGet, "/api/students?q=ROHAN", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &filtered)
	require.Len(t, filtered.Students, 1)
	assert.Equal(t, "stu_002", filtered.Students[0].ID)
	assert.Equal(t, 10, filtered.Stats.Total)

	w = s.do(http.MethodGet, "/api/students?status=Applying", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &filtered)
	assert.Len(t, filtered.Students, 2)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/students?status=Admitted", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/students?quick=vip", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/students?fuzzy=maybe", nil).Code)
}

func TestGetStudentDetail(t *testing.T) {
	s := newTestServer(t, services.LogMailer{})
	s.signIn()

	w := s.do(http.MethodGet, "/api/students/stu_001", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail models.StudentDetail
	decode(t, w, &detail)
	assert.Equal(t, "Ava Johnson", detail.Student.Name)
	assert.Len(t, detail.Communications, 2)
	assert.Len(t, detail.Interactions, 3)
	assert.Len(t, detail.Notes, 1)
	assert.NotEmpty(t, detail.Summary.Engagement)

	w = s.do(http.MethodGet, "/api/students/nobody", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not_found")
}

func TestUpsertAndStatus(t *testing.T) {
	s := newTestServer(t, services.LogMailer{})
	s.signIn()

	req := models.UpsertStudentRequest{Name: "New Student", Email: "new@example.com", Country: "Brazil", Status: models.StatusExploring}
	w := s.do(http.MethodPut, "/api/students/stu_new", req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	req.Country = "Portugal"
	w = s.do(http.MethodPut, "/api/students/stu_new", req)
	require.Equal(t, http.StatusOK, w.Code)
	var updated models.Student
	decode(t, w, &updated)
	assert.Equal(t, "Portugal", updated.Country)

	w = s.do(http.MethodPatch, "/api/students/stu_new/status", models.UpdateStatusRequest{Status: models.StatusApplying})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &updated)
	assert.Equal(t, models.StatusApplying, updated.Status)

	w = s.do(http.MethodPatch, "/api/students/stu_new/status", models.UpdateStatusRequest{Status: "Admitted"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPatch, "/api/students/missing/status", models.UpdateStatusRequest{Status: models.StatusApplying})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTimelineCRUD(t *testing.T) {
	s := newTestServer(t, services.LogMailer{})
	s.signIn()

	w := s.do(http.MethodPost, "/api/students/stu_005/notes", models.NoteRequest{Content: "Prefers evening calls"})
	require.Equal(t, http.StatusCreated, w.Code)
	var note models.Note
	decode(t, w, &note)
	assert.Equal(t, "admin@example.com", note.CreatedBy)

	w = s.do(http.MethodPatch, "/api/students/stu_005/notes/"+note.ID, models.NoteRequest{Content: "Prefers morning calls"})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &note)
	assert.Equal(t, "Prefers morning calls", note.Content)

	w = s.do(http.MethodDelete, "/api/students/stu_005/notes/"+note.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = s.do(http.MethodDelete, "/api/students/stu_005/notes/"+note.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/api/students/stu_005/communications", models.CreateCommunicationRequest{Channel: models.ChannelCall, Body: "Left a voicemail"})
	require.Equal(t, http.StatusCreated, w.Code)
	var comm models.Communication
	decode(t, w, &comm)
	assert.Equal(t, testNow, comm.CreatedAt.UTC())

	student, err := s.store.GetStudent(context.Background(), "stu_005")
	require.NoError(t, err)
	assert.Equal(t, 1, student.CommunicationsCount)
	assert.Equal(t, models.ChannelCall, student.LastCommunicationChannel)

	w = s.do(http.MethodPost, "/api/students/stu_005/communications", models.CreateCommunicationRequest{Channel: "fax", Body: "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/students/stu_005/tasks", models.CreateTaskRequest{Title: "Call back"})
	require.Equal(t, http.StatusCreated, w.Code)
	var task models.Task
	decode(t, w, &task)
	assert.Equal(t, models.TaskPending, task.Status)
	assert.Equal(t, "admin@example.com", task.Assignee)

	done := models.TaskDone
	w = s.do(http.MethodPatch, "/api/students/stu_005/tasks/"+task.ID, models.TaskUpdate{Status: &done})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &task)
	assert.Equal(t, models.TaskDone, task.Status)

	w = s.do(http.MethodPost, "/api/students/stu_005/interactions", models.CreateInteractionRequest{Type: models.InteractionLogin})
	assert.Equal(t, http.StatusCreated, w.Code)
	w = s.do(http.MethodPost, "/api/students/stu_005/interactions", models.CreateInteractionRequest{Type: "dance"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/students/ghost/notes", models.NoteRequest{Content: "hello"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = s.do(http.MethodGet, "/api/students/ghost/tasks", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSendFollowup(t *testing.T) {
	s := newTestServer(t, stubMailer{err: errors.New("customer.io API error (status 401): unauthorized")})
	s.signIn()

	w := s.do(http.MethodPost, "/api/followup", models.FollowupRequest{StudentID: "stu_002", Body: "Checking in on your shortlist"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp models.FollowupResponse
	decode(t, w, &resp)
	assert.Equal(t, models.DeliverySkipped, resp.Outcome.Status)
	assert.Contains(t, resp.Outcome.Reason, "status 401")
	assert.Equal(t, "rohan@example.com", resp.To)

	comms, err := s.store.ListCommunications(context.Background(), "stu_002")
	require.NoError(t, err)
	require.NotEmpty(t, comms)
	assert.Equal(t, resp.ID, comms[0].ID)

	w = s.do(http.MethodPost, "/api/followup", models.FollowupRequest{StudentID: "stu_002"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Missing studentId or body")

	w = s.do(http.MethodPost, "/api/followup", models.FollowupRequest{StudentID: "ghost", Body: "hi"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInsightsEndpoints(t *testing.T) {
	s := newTestServer(t, services.LogMailer{})
	s.signIn()

	w := s.do(http.MethodGet, "/api/insights", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var snap models.InsightsSnapshot
	decode(t, w, &snap)
	require.Len(t, snap.StatusBreakdown, 4)
	sum := 0
	for _, sc := range snap.StatusBreakdown {
		sum += sc.Count
	}
	assert.Equal(t, 10, sum)
	assert.Equal(t, 7, snap.Segments.ThresholdDays)
	assert.Len(t, snap.Trend.Labels, 14)

	w = s.do(http.MethodGet, "/api/insights?window=3&threshold=10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &snap)
	assert.Len(t, snap.Trend.Labels, 3)
	assert.Equal(t, 10, snap.Segments.ThresholdDays)

	var followups []models.FollowupCandidate
	w = s.do(http.MethodGet, "/api/insights/followups?max=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &followups)
	assert.LessOrEqual(t, len(followups), 2)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/insights?threshold=abc", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/insights?max=-1", nil).Code)
}

func TestCharts(t *testing.T) {
	s := newTestServer(t, services.LogMailer{})
	s.signIn()

	w := s.do(http.MethodGet, "/api/charts/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
	assert.True(t, strings.Contains(w.Body.String(), "<svg"))

	w = s.do(http.MethodGet, "/api/charts/funnel?format=png", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	w = s.do(http.MethodGet, "/api/charts/channels?format=json&mode=multi&select=sms&hover=72", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Layout struct {
			Mode   string `json:"mode"`
			Hover  int    `json:"hover"`
			Curves []struct {
				Name        string `json:"name"`
				Highlighted bool   `json:"highlighted"`
			} `json:"curves"`
			Tooltip struct {
				Entries []struct {
					Series string `json:"series"`
				} `json:"entries"`
			} `json:"tooltip"`
		} `json:"layout"`
	}
	decode(t, w, &body)
	assert.Equal(t, "multi", body.Layout.Mode)
	assert.Equal(t, 1, body.Layout.Hover)
	require.Len(t, body.Layout.Curves, 3)
	for _, c := range body.Layout.Curves {
		assert.Equal(t, c.Name != "sms", c.Highlighted, c.Name)
	}
	assert.Len(t, body.Layout.Tooltip.Entries, 3)

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/charts/radar", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/charts/status?format=gif", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/charts/channels?select=fax", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/charts/channels?hover=left", nil).Code)
}

func TestChartTokenQuery(t *testing.T) {
	s := newTestServer(t, services.LogMailer{})
	s.signIn()
	token := s.token
	s.token = ""

	w := s.do(http.MethodGet, "/api/charts/trend?token="+token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestExportAndSeed(t *testing.T) {
	s := newTestServer(t, services.LogMailer{})
	s.signIn()

	w := s.do(http.MethodPost, "/api/insights/export", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var res models.ExportResult
	decode(t, w, &res)
	assert.Len(t, res.Objects, 7)
	assert.Contains(t, res.Objects, "snapshot.json")

	w = s.do(http.MethodPost, "/api/admin/seed", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"seeded":false}`, w.Body.String())
}

type recordingArchive struct {
	deadlines []time.Time
	err       error
}

func (a *recordingArchive) Put(ctx context.Context, key string, _ []byte, _ string) (string, error) {
	deadline, ok := ctx.Deadline()
	if !ok {
		return "", errors.New("no deadline on " + key)
	}
	a.deadlines = append(a.deadlines, deadline)
	return "mem://" + key, a.err
}

func TestExportInsights_Deadline(t *testing.T) {
	store := repository.NewMemoryStore()
	_, err := repository.Seed(context.Background(), store, testNow)
	require.NoError(t, err)

	archive := &recordingArchive{}
	h := NewInsightsHandler(store, insights.DefaultOptions(), archive)
	h.now = func() time.Time { return testNow }
	r := gin.New()
	r.POST("/export", h.ExportInsights)

	start := time.Now()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/export", nil))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	require.NotEmpty(t, archive.deadlines)
	for _, d := range archive.deadlines {
		assert.WithinDuration(t, start.Add(exportTimeout), d, 5*time.Second)
	}

	archive.err = errors.New("bucket unavailable")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/export", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "export_failed")
}
