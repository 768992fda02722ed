package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Art-of-Technology/collab/internal/app"
	"github.com/Art-of-Technology/collab/internal/models"
	issueservice "github.com/Art-of-Technology/collab/internal/services/issue"
	relationservice "github.com/Art-of-Technology/collab/internal/services/relation"
	"github.com/Art-of-Technology/collab/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestServer(t *testing.T) (*Server, *testutil.Fixture) {
	t.Helper()
	f := testutil.SetupFixture(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := New(app.New(f.Repo, app.WithLogger(logger)), logger, nil)
	require.NoError(t, err)
	return s, f
}

func doRequest(t *testing.T, s *Server, method, path string, body any, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[ErrorResponse](t, rec).Error
}

// ============================================================================
// SERVER SETUP
// ============================================================================

func TestNew(t *testing.T) {
	t.Run("uses defaults when config is nil", func(t *testing.T) {
		s, _ := setupTestServer(t)
		assert.Equal(t, DefaultAddr, s.Addr())
	})

	t.Run("keeps configured address", func(t *testing.T) {
		f := testutil.SetupFixture(t)
		s, err := New(app.New(f.Repo), nil, &Config{Addr: ":9999"})
		require.NoError(t, err)
		assert.Equal(t, ":9999", s.Addr())
	})

	t.Run("returns error when app is nil", func(t *testing.T) {
		_, err := New(nil, nil, nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "app is required")
	})
}

func TestHealth(t *testing.T) {
	s, _ := setupTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/health", nil, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[HealthResponse](t, rec).Status)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestMetrics(t *testing.T) {
	s, _ := setupTestServer(t)
	doRequest(t, s, http.MethodGet, "/health", nil, nil)

	rec := doRequest(t, s, http.MethodGet, "/metrics", nil, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "collab_http_requests_total")
	assert.Contains(t, body, `endpoint="/health"`)
}

func TestUnknownRoute(t *testing.T) {
	s, _ := setupTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/nothing", nil, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEmpty(t, errorMessage(t, rec))
}

// ============================================================================
// RELATIONS
// ============================================================================

func TestRelations_AddListRemove(t *testing.T) {
	s, f := setupTestServer(t)
	epic := f.CreateTestIssue(t, "Checkout epic", "Todo", models.IssueTypeEpic)
	task := f.CreateTestIssue(t, "Payment form", "Todo", models.IssueTypeTask)
	base := "/api/workspaces/acme/issues/" + epic.Key + "/relations"

	rec := doRequest(t, s, http.MethodPost, base+"/bulk", []models.RelationInput{
		{TargetIssueID: task.Key, RelationType: models.RelationChild},
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	added := decode[models.IssueRelations](t, rec)
	require.Len(t, added.Children, 1)
	assert.Equal(t, task.Key, added.Children[0].Key)

	rec = doRequest(t, s, http.MethodGet, "/api/workspaces/acme/issues/"+task.Key+"/relations", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	fromChild := decode[models.IssueRelations](t, rec)
	require.NotNil(t, fromChild.Parent)
	assert.Equal(t, epic.Key, fromChild.Parent.Key)

	relationID := added.Children[0].RelationID
	require.NotEmpty(t, relationID)
	rec = doRequest(t, s, http.MethodDelete, base+"/"+relationID, nil, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, s, http.MethodGet, base, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[models.IssueRelations](t, rec).Children)
}

func TestRelations_Errors(t *testing.T) {
	s, f := setupTestServer(t)
	a := f.CreateTestIssue(t, "A", "Todo", models.IssueTypeTask)
	b := f.CreateTestIssue(t, "B", "Todo", models.IssueTypeTask)
	bulk := "/api/workspaces/acme/issues/" + a.Key + "/relations/bulk"

	rec := doRequest(t, s, http.MethodPost, bulk, []models.RelationInput{
		{TargetIssueID: b.ID, RelationType: models.RelationBlocks},
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	tests := []struct {
		name string
		path string
		body any
		want int
	}{
		{"self relation", bulk, []models.RelationInput{{TargetIssueID: a.Key, RelationType: models.RelationRelatesTo}}, http.StatusBadRequest},
		{"unknown kind", bulk, []models.RelationInput{{TargetIssueID: b.Key, RelationType: "mentions"}}, http.StatusBadRequest},
		{"empty batch", bulk, []models.RelationInput{}, http.StatusBadRequest},
		{"duplicate", bulk, []models.RelationInput{{TargetIssueID: b.Key, RelationType: models.RelationBlocks}}, http.StatusConflict},
		{"inverse duplicate", "/api/workspaces/acme/issues/" + b.Key + "/relations/bulk", []models.RelationInput{{TargetIssueID: a.Key, RelationType: models.RelationBlockedBy}}, http.StatusConflict},
		{"unknown target", bulk, []models.RelationInput{{TargetIssueID: "WEB-999", RelationType: models.RelationRelatesTo}}, http.StatusNotFound},
		{"unknown issue", "/api/workspaces/acme/issues/WEB-999/relations/bulk", []models.RelationInput{{TargetIssueID: b.Key, RelationType: models.RelationRelatesTo}}, http.StatusNotFound},
		{"unknown workspace", "/api/workspaces/nope/issues/" + a.Key + "/relations/bulk", []models.RelationInput{{TargetIssueID: b.Key, RelationType: models.RelationRelatesTo}}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, s, http.MethodPost, tt.path, tt.body, nil)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
			assert.NotEmpty(t, errorMessage(t, rec))
		})
	}
}

func TestRelations_InvalidBody(t *testing.T) {
	s, f := setupTestServer(t)
	a := f.CreateTestIssue(t, "A", "Todo", models.IssueTypeTask)

	req := httptest.NewRequest(http.MethodPost, "/api/workspaces/acme/issues/"+a.Key+"/relations/bulk", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid request body", errorMessage(t, rec))
}

func TestRemoveRelation_Unknown(t *testing.T) {
	s, f := setupTestServer(t)
	a := f.CreateTestIssue(t, "A", "Todo", models.IssueTypeTask)

	rec := doRequest(t, s, http.MethodDelete, "/api/workspaces/acme/issues/"+a.Key+"/relations/missing", nil, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearch(t *testing.T) {
	s, f := setupTestServer(t)
	f.CreateTestIssue(t, "Fix bug", "Todo", models.IssueTypeBug)
	f.CreateTestIssue(t, "Bug epic", "Todo", models.IssueTypeEpic)
	f.CreateTestIssue(t, "Unrelated", "Todo", models.IssueTypeTask)

	rec := doRequest(t, s, http.MethodGet, "/api/issues/search?q=bug&type=issue&workspace=acme", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items := decode[[]models.RelationItem](t, rec)
	require.Len(t, items, 1)
	assert.Equal(t, "Fix bug", items[0].Title)

	rec = doRequest(t, s, http.MethodGet, "/api/issues/search?q=bug", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.RelationItem](t, rec), 2)

	rec = doRequest(t, s, http.MethodGet, "/api/issues/search?q=bug&limit=1", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.RelationItem](t, rec), 1)

	rec = doRequest(t, s, http.MethodGet, "/api/issues/search?limit=-1", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ============================================================================
// ISSUES
// ============================================================================

func TestListAndGetIssues(t *testing.T) {
	s, f := setupTestServer(t)
	issue := f.CreateTestIssue(t, "Landing page", "Todo", models.IssueTypeStory)

	rec := doRequest(t, s, http.MethodGet, "/api/workspaces/acme/issues?project="+f.Project.ID, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Issue](t, rec), 1)

	rec = doRequest(t, s, http.MethodGet, "/api/workspaces/acme/issues?project=other", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))

	rec = doRequest(t, s, http.MethodGet, "/api/workspaces/acme/issues/"+issue.Key, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, issue.ID, decode[models.Issue](t, rec).ID)

	rec = doRequest(t, s, http.MethodGet, "/api/workspaces/acme/issues/WEB-404", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateIssue(t *testing.T) {
	s, f := setupTestServer(t)
	issue := f.CreateTestIssue(t, "Landing page", "Todo", models.IssueTypeStory)
	path := "/api/issues/" + issue.ID
	status := "In Progress"

	t.Run("applies update with current version", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodPut, path, models.IssueUpdate{Status: &status},
			http.Header{"If-Match": {fmt.Sprintf("%q", fmt.Sprint(issue.Version))}})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		updated := decode[models.Issue](t, rec)
		assert.Equal(t, status, updated.Status)
		assert.Equal(t, issue.Version+1, updated.Version)
		assert.Equal(t, fmt.Sprintf("%q", fmt.Sprint(updated.Version)), rec.Header().Get("ETag"))
	})

	t.Run("rejects stale version", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodPut, path, models.IssueUpdate{Status: &status},
			http.Header{"If-Match": {fmt.Sprint(issue.Version)}})
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, errorMessage(t, rec), "changed by someone else")
	})

	t.Run("rejects malformed If-Match", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodPut, path, models.IssueUpdate{Status: &status},
			http.Header{"If-Match": {"abc"}})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		bogus := "Shipped"
		rec := doRequest(t, s, http.MethodPut, path, models.IssueUpdate{Status: &bogus}, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects empty update", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodPut, path, map[string]any{}, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown issue", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodPut, "/api/issues/missing", models.IssueUpdate{Status: &status}, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

// ============================================================================
// VIEWS
// ============================================================================

func TestViews(t *testing.T) {
	s, _ := setupTestServer(t)
	base := "/api/workspaces/acme/views"

	rec := doRequest(t, s, http.MethodPost, base, models.View{
		Name:        "My board",
		DisplayType: models.DisplayKanban,
		Grouping:    "status",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[models.View](t, rec)
	assert.Equal(t, int64(1), created.Version)

	rec = doRequest(t, s, http.MethodGet, base, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.View](t, rec), 1)

	created.Name = "Renamed"
	rec = doRequest(t, s, http.MethodPut, base+"/"+created.ID, created, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, int64(2), decode[models.View](t, rec).Version)

	rec = doRequest(t, s, http.MethodPut, base+"/"+created.ID, created, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doRequest(t, s, http.MethodGet, base+"/"+created.ID, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Renamed", decode[models.View](t, rec).Name)

	rec = doRequest(t, s, http.MethodPost, base, models.View{Name: ""}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, s, http.MethodGet, base+"/missing", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ============================================================================
// STATUSES
// ============================================================================

func TestStatuses(t *testing.T) {
	s, f := setupTestServer(t)
	path := "/api/projects/" + f.Project.ID + "/statuses"

	rec := doRequest(t, s, http.MethodGet, path, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	statuses := decode[[]models.Status](t, rec)
	require.Len(t, statuses, 4)

	ids := make([]string, len(statuses))
	for i, st := range statuses {
		ids[len(statuses)-1-i] = st.ID
	}
	rec = doRequest(t, s, http.MethodPatch, path+"/reorder", ReorderRequest{StatusIDs: ids}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	reordered := decode[[]models.Status](t, rec)
	assert.Equal(t, statuses[3].ID, reordered[0].ID)

	rec = doRequest(t, s, http.MethodPatch, path+"/reorder", ReorderRequest{StatusIDs: ids[:2]}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, s, http.MethodGet, "/api/projects/missing/statuses", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ============================================================================
// ERROR MAPPING
// ============================================================================

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", fmt.Errorf("issue x: %w", models.ErrNotFound), http.StatusNotFound},
		{"target not found", relationservice.ErrTargetNotFound, http.StatusNotFound},
		{"version conflict wraps store conflict", fmt.Errorf("%w: %w", issueservice.ErrVersionConflict, models.ErrConflict), http.StatusConflict},
		{"duplicate", relationservice.ErrDuplicateRelation, http.StatusConflict},
		{"validation", relationservice.ErrSelfRelation, http.StatusBadRequest},
		{"invalid input", models.ErrInvalidInput, http.StatusBadRequest},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestParseIfMatch(t *testing.T) {
	tests := []struct {
		header  string
		want    int64
		wantErr bool
	}{
		{"", 0, false},
		{"*", 0, false},
		{"3", 3, false},
		{`"4"`, 4, false},
		{`W/"5"`, 5, false},
		{"x", 0, true},
		{"-1", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, err := parseIfMatch(tt.header)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"a", "b"}, splitList("a, ,b,"))
}
