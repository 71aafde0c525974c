package http

import (
	"bytes"
	"encoding/json"
	"io"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/scool-backend/internal/data/repos"
	"github.com/yungbote/scool-backend/internal/data/repos/testutil"
	httpH "github.com/yungbote/scool-backend/internal/http/handlers"
	httpMW "github.com/yungbote/scool-backend/internal/http/middleware"
	"github.com/yungbote/scool-backend/internal/observability"
	"github.com/yungbote/scool-backend/internal/platform/dbctx"
	"github.com/yungbote/scool-backend/internal/platform/gcp"
	"github.com/yungbote/scool-backend/internal/services"
	"github.com/yungbote/scool-backend/internal/views"
)

type routerEnv struct {
	engine   *gin.Engine
	metrics  *observability.Metrics
	profiles services.ProfileService
	db       *gorm.DB
	repos    repos.Set
}

func newRouterEnv(t *testing.T) *routerEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.DB(t)
	log := testutil.Logger(t)
	r := repos.NewSet(db, log)
	loader := services.NewLoader(r)
	bucket := gcp.NewMemoryBucket("https://cdn.test")
	metrics := observability.NewMetrics()

	auth := services.NewAuthService(db, log, r, bucket, "test-secret", time.Hour, 24*time.Hour)
	profiles := services.NewProfileService(db, log, r, loader, bucket)
	catalog := services.NewCatalogService(db, log, r, loader, bucket)
	certificates, err := services.NewCertificateService(db, log, r, loader, bucket, "")
	if err != nil {
		t.Fatalf("NewCertificateService: %v", err)
	}
	academic := httpH.NewAcademicHandler(
		services.NewGroupService(db, log, r, loader, bucket),
		services.NewTimetableService(db, log, r, loader, bucket),
		certificates,
		services.NewPerformanceService(db, log, r),
	)

	engine := NewRouter(RouterConfig{
		Log:             log,
		Metrics:         metrics,
		AuthMiddleware:  httpMW.NewAuthMiddleware(log, auth),
		HealthHandler:   httpH.NewHealthHandler(db),
		AuthHandler:     httpH.NewAuthHandler(auth),
		ProfileHandler:  httpH.NewProfileHandler(profiles),
		CatalogHandler:  httpH.NewCatalogHandler(catalog),
		AcademicHandler: academic,
	})
	return &routerEnv{engine: engine, metrics: metrics, profiles: profiles, db: db, repos: r}
}

func (e *routerEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.engine.ServeHTTP(rec, req)
	return rec
}

func (e *routerEnv) login(t *testing.T, username, password string) string {
	t.Helper()
	rec := e.do(t, stdhttp.MethodPost, "/api/login", "", views.LoginInput{Username: username, Password: password})
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("login %s: want=%d got=%d body=%s", username, stdhttp.StatusOK, rec.Code, rec.Body.String())
	}
	var tokens services.Tokens
	if err := json.Unmarshal(rec.Body.Bytes(), &tokens); err != nil {
		t.Fatalf("decode tokens: %v", err)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Fatalf("tokens: want both set got=%+v", tokens)
	}
	return tokens.AccessToken
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode error envelope: %v body=%s", err, rec.Body.String())
	}
	return env.Error.Code
}

func (e *routerEnv) profileID(t *testing.T, username string) uint {
	t.Helper()
	dbc := dbctx.Context{Ctx: t.Context()}
	u, err := e.repos.User.GetByUsername(dbc, username)
	if err != nil || u == nil {
		t.Fatalf("user %s: row=%v err=%v", username, u, err)
	}
	profiles, err := e.repos.Profile.GetByUserIDs(dbc, []uint{u.ID})
	if err != nil || len(profiles) != 1 {
		t.Fatalf("profile of %s: rows=%d err=%v", username, len(profiles), err)
	}
	return profiles[0].ID
}

func registration(username string) views.RegistrationInput {
	return views.RegistrationInput{
		Username:  username,
		FirstName: "Anna",
		LastName:  "Petrova",
		Password:  "secret-pw",
		Email:     username + "@example.com",
		Profile:   views.ProfileCreateInput{Gender: "female", DateOfBirthday: "2008-03-14"},
	}
}

func TestRegisterLoginAndMe(t *testing.T) {
	env := newRouterEnv(t)

	rec := env.do(t, stdhttp.MethodPost, "/api/register", "", registration("alice"))
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("register: want=%d got=%d body=%s", stdhttp.StatusCreated, rec.Code, rec.Body.String())
	}
	var reg views.RegistrationView
	if err := json.Unmarshal(rec.Body.Bytes(), &reg); err != nil {
		t.Fatalf("decode registration: %v", err)
	}
	if reg.Username != "alice" || reg.Profile.DateOfBirthday != "2008-03-14" {
		t.Fatalf("registration: got=%+v", reg)
	}

	rec = env.do(t, stdhttp.MethodPost, "/api/register", "", registration("alice"))
	if rec.Code != stdhttp.StatusBadRequest || errorCode(t, rec) != "validation" {
		t.Fatalf("duplicate register: want=400/validation got=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, stdhttp.MethodPost, "/api/login", "", views.LoginInput{Username: "alice", Password: "wrong"})
	if rec.Code != stdhttp.StatusUnauthorized {
		t.Fatalf("bad password: want=%d got=%d", stdhttp.StatusUnauthorized, rec.Code)
	}

	token := env.login(t, "alice", "secret-pw")

	rec = env.do(t, stdhttp.MethodGet, "/api/me", token, nil)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("me: want=%d got=%d body=%s", stdhttp.StatusOK, rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"Anna"`) {
		t.Fatalf("me: want first name in body got=%s", rec.Body.String())
	}

	rec = env.do(t, stdhttp.MethodGet, "/api/me", "", nil)
	if rec.Code != stdhttp.StatusUnauthorized || errorCode(t, rec) != "unauthorized" {
		t.Fatalf("me without token: want=401/unauthorized got=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, stdhttp.MethodGet, "/api/profiles/abc", token, nil)
	if rec.Code != stdhttp.StatusBadRequest || errorCode(t, rec) != "validation" {
		t.Fatalf("bad id: want=400/validation got=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, stdhttp.MethodPost, "/api/logout", token, nil)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("logout: want=%d got=%d body=%s", stdhttp.StatusOK, rec.Code, rec.Body.String())
	}
}

func TestManagerOnlyRoutes(t *testing.T) {
	env := newRouterEnv(t)

	if rec := env.do(t, stdhttp.MethodPost, "/api/register", "", registration("stud")); rec.Code != stdhttp.StatusCreated {
		t.Fatalf("register: want=%d got=%d body=%s", stdhttp.StatusCreated, rec.Code, rec.Body.String())
	}
	studentToken := env.login(t, "stud", "secret-pw")

	_, err := env.profiles.CreateStaff(dbctx.Context{Ctx: t.Context()}, views.StaffInput{
		RegistrationInput: registration("boss"),
		Role:              "educational_manager",
		ManagementScope:   "school",
	})
	if err != nil {
		t.Fatalf("create manager: %v", err)
	}
	managerToken := env.login(t, "boss", "secret-pw")

	body := views.CategoryInput{Name: "  Programming  "}
	rec := env.do(t, stdhttp.MethodPost, "/api/categories", studentToken, body)
	if rec.Code != stdhttp.StatusForbidden || errorCode(t, rec) != "forbidden" {
		t.Fatalf("student create category: want=403/forbidden got=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, stdhttp.MethodPost, "/api/categories", managerToken, body)
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("manager create category: want=%d got=%d body=%s", stdhttp.StatusCreated, rec.Code, rec.Body.String())
	}

	rec = env.do(t, stdhttp.MethodGet, "/api/categories", studentToken, nil)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("list categories: want=%d got=%d", stdhttp.StatusOK, rec.Code)
	}
	var cats []views.CategoryView
	if err := json.Unmarshal(rec.Body.Bytes(), &cats); err != nil {
		t.Fatalf("decode categories: %v", err)
	}
	if len(cats) != 1 || cats[0].Name != "Programming" {
		t.Fatalf("categories: want=[Programming] got=%+v", cats)
	}

	var out bytes.Buffer
	if err := env.metrics.WritePrometheus(&out); err != nil {
		t.Fatalf("write metrics: %v", err)
	}
	if !strings.Contains(out.String(), `school_api_errors_total{code="forbidden"} 1`) {
		t.Fatalf("metrics: want forbidden counted got=\n%s", out.String())
	}
}

func TestHealthAndMetricsEndpoints(t *testing.T) {
	env := newRouterEnv(t)

	rec := env.do(t, stdhttp.MethodGet, "/healthcheck", "", nil)
	if rec.Code != stdhttp.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthcheck: want=200 ok got=%d %q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("healthcheck: want X-Request-Id header")
	}

	rec = env.do(t, stdhttp.MethodGet, "/metrics", "", nil)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("metrics: want=%d got=%d", stdhttp.StatusOK, rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `school_api_requests_total{method="GET",route="/healthcheck",status="200"} 1`) {
		t.Fatalf("metrics: want healthcheck counted got=\n%s", rec.Body.String())
	}
}

func TestRecordPerformanceRoute(t *testing.T) {
	env := newRouterEnv(t)

	if rec := env.do(t, stdhttp.MethodPost, "/api/register", "", registration("pupil")); rec.Code != stdhttp.StatusCreated {
		t.Fatalf("register: want=%d got=%d body=%s", stdhttp.StatusCreated, rec.Code, rec.Body.String())
	}
	for _, name := range []string{"teach", "other"} {
		_, err := env.profiles.CreateStaff(dbctx.Context{Ctx: t.Context()}, views.StaffInput{
			RegistrationInput: registration(name),
			Role:              "teacher",
		})
		if err != nil {
			t.Fatalf("create teacher %s: %v", name, err)
		}
	}
	student, teacher, other := env.profileID(t, "pupil"), env.profileID(t, "teach"), env.profileID(t, "other")
	cat := testutil.SeedCategory(t, t.Context(), env.db, "Math")
	course := testutil.SeedCourse(t, t.Context(), env.db, cat.ID, teacher, "Algebra")
	lesson := testutil.SeedLesson(t, t.Context(), env.db, course.ID, 1)
	token := env.login(t, "teach", "secret-pw")

	grade := 4
	in := views.AcademicPerformanceInput{StudentID: student, LessonID: lesson.ID, Date: "2024-09-02", ClassworkGrade: &grade}
	rec := env.do(t, stdhttp.MethodPost, "/api/performance", token, in)
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("record performance: want=%d got=%d body=%s", stdhttp.StatusCreated, rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "" {
		t.Fatalf("record performance: want no Location got=%q", loc)
	}
	var view views.AcademicPerformanceView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode performance: %v", err)
	}
	if view.Teacher != teacher {
		t.Fatalf("teacher: want=%d got=%d", teacher, view.Teacher)
	}

	in.TeacherID = other
	rec = env.do(t, stdhttp.MethodPost, "/api/performance", token, in)
	if rec.Code != stdhttp.StatusForbidden || errorCode(t, rec) != "forbidden" {
		t.Fatalf("grade as another teacher: want=403/forbidden got=%d body=%s", rec.Code, rec.Body.String())
	}
}
