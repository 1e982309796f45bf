package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lab-manager-api/internal/config"
	"github.com/noah-isme/lab-manager-api/internal/handler"
	"github.com/noah-isme/lab-manager-api/internal/middleware"
	"github.com/noah-isme/lab-manager-api/internal/repository"
	"github.com/noah-isme/lab-manager-api/internal/router"
	"github.com/noah-isme/lab-manager-api/internal/service"
	"github.com/noah-isme/lab-manager-api/internal/testutil"
)

const testSecret = "handler-test-secret"

func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	store := repository.NewStore(testutil.OpenDB(t))
	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)
	cache := service.NewCatalogCache(nil, 0, logger)
	events := service.NoopPublisher{}

	access := service.NewAccessPolicy(store)
	activity := service.NewActivityService(store.ActivityLogs(), validate, logger)
	profiles := service.NewProfileService(store, validate, logger)
	labs := service.NewLabService(store, cache, activity, validate, logger)
	timetables := service.NewTimetableService(store, cache, activity, validate, logger)
	practicals := service.NewPracticalService(store, cache, activity, validate, logger)
	notices := service.NewNoticeService(store, cache, activity, validate, logger)
	attendance := service.NewAttendanceService(store, activity, events, logger)
	grading := service.NewGradingService(store, activity, events, logger)

	cfg := config.Config{AppName: "Lab Manager API", AppEnv: "test", JWTSecret: testSecret, AuthRateLimit: 100}
	app := fiber.New()
	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler: handler.NewAuthHandler(
			service.NewAuthService(store, validate, service.AuthConfig{Secret: testSecret, TTL: time.Hour}, logger), validate, logger),
		LabHandler: handler.NewLabHandler(handler.LabServices{
			Labs: labs, Timetables: timetables, Practicals: practicals, Notices: notices, Access: access,
		}, logger),
		StudentHandler: handler.NewStudentHandler(handler.StudentServices{
			Profiles:    profiles,
			Enrollments: service.NewEnrollmentService(store, events, logger),
			Submissions: service.NewSubmissionService(store, events, logger),
			Attendance:  attendance,
			Grading:     grading,
			Access:      access,
		}, validate, logger),
		TeacherHandler: handler.NewTeacherHandler(handler.TeacherServices{
			Profiles: profiles, Labs: labs, Timetables: timetables, Practicals: practicals, Notices: notices,
			Attendance: attendance, Grading: grading, Activity: activity, Access: access,
		}, validate, logger),
	})
	return app
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    json.RawMessage `json:"meta"`
}

type session struct {
	token     string
	profileID string
}

func call(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, envelope, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload envelope
	require.NoError(t, json.Unmarshal(raw, &payload), string(raw))
	return resp.StatusCode, payload, raw
}

func register(t *testing.T, app *fiber.App, body map[string]interface{}) session {
	t.Helper()
	status, payload, raw := call(t, app, http.MethodPost, "/api/auth/register", "", body)
	require.Equal(t, fiber.StatusCreated, status, string(raw))

	var auth struct {
		Token string `json:"token"`
		User  struct {
			Student *struct{ ID string } `json:"student"`
			Teacher *struct{ ID string } `json:"teacher"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(payload.Data, &auth))
	s := session{token: auth.Token}
	if auth.User.Student != nil {
		s.profileID = auth.User.Student.ID
	}
	if auth.User.Teacher != nil {
		s.profileID = auth.User.Teacher.ID
	}
	require.NotEmpty(t, s.profileID)
	return s
}

func dataID(t *testing.T, payload envelope) string {
	t.Helper()
	var item struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(payload.Data, &item))
	require.NotEmpty(t, item.ID)
	return item.ID
}

type fixture struct {
	app         *fiber.App
	teacher     session
	student     session
	labID       string
	practicalID string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	app := setupApp(t)
	teacher := register(t, app, map[string]interface{}{
		"email": "mehta@example.edu", "password": "secret123", "role": "TEACHER", "name": "Dr. Mehta", "department": "CSE",
	})
	student := register(t, app, map[string]interface{}{
		"email": "ravi@example.edu", "password": "secret123", "role": "STUDENT", "name": "Ravi", "roll_no": "CS-17",
	})

	status, payload, raw := call(t, app, http.MethodPost, "/api/teachers/"+teacher.profileID+"/labs", teacher.token, map[string]interface{}{
		"subject_name": "Operating Systems", "subject_code": "cs302",
	})
	require.Equal(t, fiber.StatusCreated, status, string(raw))
	labID := dataID(t, payload)

	status, payload, raw = call(t, app, http.MethodPost, "/api/teachers/"+teacher.profileID+"/labs/"+labID+"/practicals", teacher.token, map[string]interface{}{
		"title": "Scheduler", "deadline": time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339),
	})
	require.Equal(t, fiber.StatusCreated, status, string(raw))

	return fixture{app: app, teacher: teacher, student: student, labID: labID, practicalID: dataID(t, payload)}
}

func TestHealthCheck(t *testing.T) {
	app := setupApp(t)
	status, payload, _ := call(t, app, http.MethodGet, "/api/v1/health", "", nil)
	require.Equal(t, fiber.StatusOK, status)

	var health handler.HealthResponse
	require.NoError(t, json.Unmarshal(payload.Data, &health))
	require.Equal(t, "ok", health.Status)
	require.Equal(t, "Lab Manager API", health.Service)
	require.Equal(t, "test", health.Environment)
	require.WithinDuration(t, time.Now().UTC(), health.Timestamp, 2*time.Second)
}

func TestGradingFlowMatchesMarksContract(t *testing.T) {
	f := newFixture(t)
	studentBase := "/api/students/" + f.student.profileID
	teacherBase := "/api/teachers/" + f.teacher.profileID

	status, _, raw := call(t, f.app, http.MethodPost, studentBase+"/enroll", f.student.token, map[string]string{"lab_id": f.labID})
	require.Equal(t, fiber.StatusCreated, status, string(raw))

	for i, present := range []bool{true, true, false} {
		day := time.Date(2024, 8, 1+i, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
		status, _, raw = call(t, f.app, http.MethodPost, teacherBase+"/labs/"+f.labID+"/attendance", f.teacher.token, map[string]interface{}{
			"student_id": f.student.profileID, "date": day, "is_present": present,
		})
		require.Equal(t, fiber.StatusOK, status, string(raw))
	}

	status, payload, raw := call(t, f.app, http.MethodPost, studentBase+"/submit", f.student.token, map[string]string{
		"practical_id": f.practicalID, "file_url": "https://git.example.edu/ravi/scheduler",
	})
	require.Equal(t, fiber.StatusCreated, status, string(raw))
	submissionID := dataID(t, payload)

	status, _, raw = call(t, f.app, http.MethodPost, teacherBase+"/submissions/"+submissionID+"/grade", f.teacher.token, map[string]float64{
		"practical_mark": 50, "viva_mark": 20,
	})
	require.Equal(t, fiber.StatusOK, status, string(raw))

	status, payload, raw = call(t, f.app, http.MethodGet, studentBase+"/marks/"+f.labID, f.student.token, nil)
	require.Equal(t, fiber.StatusOK, status, string(raw))

	var summary struct {
		TotalMarks float64 `json:"total_marks"`
		MaxMarks   int     `json:"max_marks"`
	}
	require.NoError(t, json.Unmarshal(payload.Data, &summary))
	require.InDelta(t, 76.667, summary.TotalMarks, 1e-3)
	require.Equal(t, 100, summary.MaxMarks)

	schemaPath, err := filepath.Abs(filepath.Join("testdata", "marks_summary.schema.json"))
	require.NoError(t, err)
	schema, err := jsonschema.NewCompiler().Compile("file://" + filepath.ToSlash(schemaPath))
	require.NoError(t, err)

	var document interface{}
	require.NoError(t, json.Unmarshal(raw, &document))
	require.NoError(t, schema.Validate(document))

	for _, path := range []string{studentBase + "/labs", studentBase + "/submissions"} {
		status, payload, raw = call(t, f.app, http.MethodGet, path, f.student.token, nil)
		require.Equal(t, fiber.StatusOK, status, string(raw))
		var items []json.RawMessage
		require.NoError(t, json.Unmarshal(payload.Data, &items))
		require.Len(t, items, 1, path)
	}

	status, payload, _ = call(t, f.app, http.MethodGet, teacherBase+"/activity?page_size=2", f.teacher.token, nil)
	require.Equal(t, fiber.StatusOK, status)
	require.NotEmpty(t, payload.Meta)
}

func TestErrorTaxonomyStatuses(t *testing.T) {
	f := newFixture(t)
	studentBase := "/api/students/" + f.student.profileID

	status, _, _ := call(t, f.app, http.MethodGet, studentBase+"/labs", "", nil)
	require.Equal(t, fiber.StatusUnauthorized, status)

	status, _, _ = call(t, f.app, http.MethodPost, "/api/teachers/"+f.student.profileID+"/labs", f.student.token, map[string]string{
		"subject_name": "Hack", "subject_code": "X1",
	})
	require.Equal(t, fiber.StatusForbidden, status)

	status, _, _ = call(t, f.app, http.MethodPost, studentBase+"/enroll", f.student.token, map[string]string{})
	require.Equal(t, fiber.StatusBadRequest, status)

	status, _, _ = call(t, f.app, http.MethodPost, studentBase+"/enroll", f.student.token, map[string]string{"lab_id": "missing"})
	require.Equal(t, fiber.StatusNotFound, status)

	status, _, _ = call(t, f.app, http.MethodPost, studentBase+"/submit", f.student.token, map[string]string{
		"practical_id": f.practicalID, "file_url": "https://git.example.edu/ravi/scheduler",
	})
	require.Equal(t, fiber.StatusBadRequest, status)

	status, _, _ = call(t, f.app, http.MethodPost, studentBase+"/enroll", f.student.token, map[string]string{"lab_id": f.labID})
	require.Equal(t, fiber.StatusCreated, status)
	status, payload, _ := call(t, f.app, http.MethodPost, studentBase+"/enroll", f.student.token, map[string]string{"lab_id": f.labID})
	require.Equal(t, fiber.StatusConflict, status)
	require.False(t, payload.Success)

	status, _, _ = call(t, f.app, http.MethodDelete, "/api/teachers/"+f.teacher.profileID+"/labs/"+f.labID, f.teacher.token, nil)
	require.Equal(t, fiber.StatusConflict, status)

	status, _, _ = call(t, f.app, http.MethodGet, "/api/students", f.student.token, nil)
	require.Equal(t, fiber.StatusForbidden, status)
	status, _, _ = call(t, f.app, http.MethodGet, "/api/students", f.teacher.token, nil)
	require.Equal(t, fiber.StatusOK, status)

	status, _, _ = call(t, f.app, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "ravi@example.edu", "password": "nope-nope"})
	require.Equal(t, fiber.StatusUnauthorized, status)
}

func TestPublicCatalogue(t *testing.T) {
	f := newFixture(t)

	status, payload, _ := call(t, f.app, http.MethodGet, "/api/labs", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	var labs []struct {
		SubjectCode string `json:"subject_code"`
	}
	require.NoError(t, json.Unmarshal(payload.Data, &labs))
	require.Len(t, labs, 1)
	require.Equal(t, "CS302", labs[0].SubjectCode)

	status, _, _ = call(t, f.app, http.MethodGet, "/api/labs/"+f.labID+"/practicals", "", nil)
	require.Equal(t, fiber.StatusOK, status)

	status, _, _ = call(t, f.app, http.MethodGet, "/api/labs/"+f.labID+"/students", f.student.token, nil)
	require.Equal(t, fiber.StatusForbidden, status)
	status, _, _ = call(t, f.app, http.MethodGet, "/api/labs/"+f.labID+"/students", f.teacher.token, nil)
	require.Equal(t, fiber.StatusOK, status)

	status, _, _ = call(t, f.app, http.MethodGet, "/api/labs/missing", "", nil)
	require.Equal(t, fiber.StatusNotFound, status)
}
