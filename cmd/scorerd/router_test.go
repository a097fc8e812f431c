package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auth "github.com/mind-engage/mindengage-scorer/internal/auth/middleware"
	"github.com/mind-engage/mindengage-scorer/internal/config"
	"github.com/mind-engage/mindengage-scorer/internal/db"
	"github.com/mind-engage/mindengage-scorer/internal/evaluation"
	"github.com/mind-engage/mindengage-scorer/internal/grading"
	"github.com/mind-engage/mindengage-scorer/internal/nlp"
	"github.com/mind-engage/mindengage-scorer/internal/scoring"
)

func testDeps(t *testing.T) serverDeps {
	t.Helper()
	ev, err := scoring.NewEvaluator(scoring.Capabilities{Parser: nlp.NewRuleParser(), Embedder: nlp.NewHashEmbedder(0)}, nil)
	require.NoError(t, err)
	return serverDeps{
		cfg:       config.Config{CORSOrigins: []string{"http://localhost:3000"}},
		evaluator: ev,
		grader:    grading.NewDefaultGrader(grading.WithEvaluator(ev)),
		policy:    scoring.StaticPolicy(scoring.DefaultPolicy()),
	}
}

func do(h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

const evalBody = `{"originalAnswer":"Plants make food by photosynthesis","userAnswer":"plants make food by photosynthesis"}`

func TestRouterOpen(t *testing.T) {
	h := newRouter(testDeps(t))

	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/healthz", "", "").Code)
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/readyz", "", "").Code)
	assert.Equal(t, http.StatusOK, do(h, http.MethodPost, "/evaluate", "", evalBody).Code)
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/policy", "", "").Code)
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/evaluations", "", "").Code, "history disabled")
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/events", "", "").Code, "history disabled")
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodPost, "/auth/login", "", "{}").Code, "auth disabled")
}

func TestRouterAuth(t *testing.T) {
	d := testDeps(t)
	d.auth = auth.NewAuthService("test-secret")
	h := newRouter(d)

	student, err := d.auth.IssueJWT("s1", "student")
	require.NoError(t, err)
	teacher, err := d.auth.IssueJWT("t1", "teacher")
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, do(h, http.MethodPost, "/evaluate", "", evalBody).Code)
	assert.Equal(t, http.StatusOK, do(h, http.MethodPost, "/evaluate", student, evalBody).Code)
	assert.Equal(t, http.StatusForbidden, do(h, http.MethodGet, "/policy", student, "").Code)
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/policy", teacher, "").Code)
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/healthz", "", "").Code)

	grade := `{"question":{"type":"true_false","points":1,"answer_key":["true"]},"response":"true"}`
	assert.Equal(t, http.StatusForbidden, do(h, http.MethodPost, "/grade", student, grade).Code)
	assert.Equal(t, http.StatusOK, do(h, http.MethodPost, "/grade", teacher, grade).Code)
}

func TestRouterHistory(t *testing.T) {
	dbh, err := db.Open(context.Background(), db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	defer dbh.Close()

	d := testDeps(t)
	d.auth = auth.NewAuthService("test-secret")
	d.store = evaluation.NewSQLStore(dbh)
	d.events = evaluation.NewEventRepo(dbh)
	h := newRouter(d)

	student, err := d.auth.IssueJWT("s1", "student")
	require.NoError(t, err)
	teacher, err := d.auth.IssueJWT("t1", "teacher")
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, do(h, http.MethodPost, "/evaluate", student, evalBody).Code)
	assert.Equal(t, http.StatusForbidden, do(h, http.MethodGet, "/events", student, "").Code)

	rec := do(h, http.MethodGet, "/events", teacher, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), evaluation.EventAnswerEvaluated)
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/evaluations", teacher, "").Code)
}
