package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"altheia/internal/apiclient"
	"altheia/internal/audit"
	"altheia/internal/logger"
	"altheia/internal/middleware"
	"altheia/internal/models"
	"altheia/internal/policy"
)

type fakeAPI struct {
	mu    sync.Mutex
	user  models.User
	calls []string

	registerErr error
	listErr     error
	updated     *models.User
}

func (f *fakeAPI) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeAPI) called() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) Login(_ context.Context, req apiclient.LoginRequest) (*apiclient.LoginResponse, error) {
	f.record("login")
	if req.Email != f.user.Email {
		return nil, &apiclient.APIError{StatusCode: http.StatusUnauthorized}
	}
	return &apiclient.LoginResponse{AccessToken: "tok", User: f.user}, nil
}

func (f *fakeAPI) VerifySession(context.Context) (*apiclient.VerifyResponse, error) {
	f.record("verify")
	return &apiclient.VerifyResponse{IsValid: false}, nil
}

func (f *fakeAPI) Logout(context.Context) error {
	f.record("logout")
	return nil
}

func (f *fakeAPI) RegisterPatient(context.Context, apiclient.PatientRegistration) error {
	f.record("register patient")
	return f.registerErr
}

func (f *fakeAPI) RegisterPhysician(context.Context, apiclient.PhysicianRegistration) error {
	f.record("register physician")
	return f.registerErr
}

func (f *fakeAPI) RegisterReceptionist(context.Context, apiclient.ReceptionistRegistration) error {
	f.record("register receptionist")
	return f.registerErr
}

func (f *fakeAPI) RegisterLabTechnician(context.Context, apiclient.LabTechnicianRegistration) error {
	f.record("register lab technician")
	return f.registerErr
}

func (f *fakeAPI) UpdateProfile(_ context.Context, req apiclient.ProfileUpdate) (*models.User, error) {
	f.record("update profile")
	if f.updated != nil {
		return f.updated, nil
	}
	u := f.user
	u.Name, u.Email = req.Name, req.Email
	return &u, nil
}

func (f *fakeAPI) Appointments(context.Context) ([]models.Appointment, error) {
	f.record("appointments")
	return nil, f.listErr
}

func (f *fakeAPI) Patients(context.Context) ([]models.Patient, error) {
	f.record("patients")
	return []models.Patient{{ID: "p1", Name: "Ana", DocumentID: "DOC-123456", Email: "ana@example.com", Phone: "5551234"}}, f.listErr
}

func (f *fakeAPI) Clinic(context.Context) (*models.Clinic, error) {
	f.record("clinic")
	return &models.Clinic{Name: "Central"}, f.listErr
}

func (f *fakeAPI) Staff(context.Context) ([]models.StaffMember, error) {
	f.record("staff")
	return nil, f.listErr
}

func (f *fakeAPI) LabOrders(context.Context) ([]models.LabOrder, error) {
	f.record("lab orders")
	return []models.LabOrder{{ID: "l1", Test: "CBC", Status: "pending"}}, f.listErr
}

func (f *fakeAPI) MedicalRecords(context.Context) ([]models.MedicalRecord, error) {
	f.record("medical records")
	return nil, f.listErr
}

type env struct {
	api     *fakeAPI
	r       *gin.Engine
	cookies []*http.Cookie
}

func newEnv(t *testing.T, user models.User) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	api := &fakeAPI{user: user}
	h := New(api, policy.Default, audit.NewRecorder(logger.Discard()), logger.Discard())

	r := gin.New()
	r.Use(sessions.Sessions("s", cookie.NewStore([]byte(strings.Repeat("k", 32)))))
	r.Use(middleware.InjectSession(api, sessions.Options{Path: "/", MaxAge: 3600}, logger.Discard()))
	r.POST("/login", h.Login)
	r.POST("/register", h.Register)
	r.POST("/logout", h.Logout)

	a := r.Group("/", middleware.RequireAuth())
	a.GET("/dashboard", h.Dashboard)
	a.GET("/patients", h.Patients)
	a.GET("/lab", h.LabOrders)
	a.GET("/clinic", h.Clinic)
	a.POST("/staff/new", h.NewStaff)
	a.POST("/profile", h.UpdateProfile)

	return &env{api: api, r: r}
}

func (e *env) do(t *testing.T, method, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range e.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.r.ServeHTTP(rec, req)
	if cs := rec.Result().Cookies(); len(cs) > 0 {
		e.cookies = cs
	}
	return rec
}

func (e *env) login(t *testing.T) {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/login", url.Values{"email": {e.api.user.Email}, "password": {"pw"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
}

var ownerUser = models.User{ID: "o1", Name: "Olga", Email: "olga@example.com", Role: models.RoleOwner}

func TestLogin_Validation(t *testing.T) {
	e := newEnv(t, ownerUser)

	rec := e.do(t, http.MethodPost, "/login", url.Values{"email": {" "}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Enter your email and password.")
	assert.Empty(t, e.api.called())

	rec = e.do(t, http.MethodPost, "/login", url.Values{"email": {"nobody@example.com"}, "password": {"pw"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid email or password.")
}

func TestRegister(t *testing.T) {
	e := newEnv(t, ownerUser)

	rec := e.do(t, http.MethodPost, "/register", url.Values{
		"name": {"Bo"}, "email": {"bo@example.com"}, "password": {"short"},
		"phone": {"555"}, "documentId": {"D1"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "at least 8 characters")
	assert.Contains(t, rec.Body.String(), "bo@example.com", "the form echoes its values")

	e.api.registerErr = &apiclient.APIError{StatusCode: http.StatusConflict}
	rec = e.do(t, http.MethodPost, "/register", url.Values{
		"name": {"Bo"}, "email": {"bo@example.com"}, "password": {"long-enough"},
		"phone": {"555"}, "documentId": {"D1"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "already exists")

	e.api.registerErr = nil
	rec = e.do(t, http.MethodPost, "/register", url.Values{
		"name": {"Bo"}, "email": {"bo@example.com"}, "password": {"long-enough"},
		"phone": {"555"}, "documentId": {"D1"},
	})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestNewStaff_DispatchesByRole(t *testing.T) {
	tests := []struct {
		role string
		call string
	}{
		{"physician", "register physician"},
		{"lab_technician", "register lab technician"},
		{"receptionist", "register receptionist"},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			e := newEnv(t, ownerUser)
			e.login(t)

			rec := e.do(t, http.MethodPost, "/staff/new", url.Values{
				"role": {tt.role}, "name": {"Dr. Ruiz"}, "email": {"ruiz@example.com"},
				"password": {"long-enough"}, "phone": {"555"}, "documentId": {"D9"},
				"specialty": {"Cardiology"}, "licenseNumber": {"L-77"},
			})
			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, "/staff", rec.Header().Get("Location"))
			assert.Contains(t, e.api.called(), tt.call)
		})
	}
}

func TestNewStaff_RejectsPatientRole(t *testing.T) {
	e := newEnv(t, ownerUser)
	e.login(t)

	rec := e.do(t, http.MethodPost, "/staff/new", url.Values{
		"role": {"owner"}, "name": {"X"}, "email": {"x@example.com"},
		"password": {"long-enough"}, "phone": {"555"}, "documentId": {"D9"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Choose a staff role.")
}

func TestPatients_MasksContactForReadOnlyRoles(t *testing.T) {
	physician := models.User{ID: "d1", Name: "Dr. Ruiz", Email: "ruiz@example.com", Role: models.RolePhysician}
	e := newEnv(t, physician)
	e.login(t)

	rec := e.do(t, http.MethodGet, "/patients", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "ana@example.com")
	assert.Contains(t, rec.Body.String(), "an***@example.com")
	assert.NotContains(t, rec.Body.String(), "DOC-123456")
	assert.Contains(t, rec.Body.String(), "*******456")
}

func TestPatients_ShowsContactToEditors(t *testing.T) {
	receptionist := models.User{ID: "r1", Name: "Rita", Email: "rita@example.com", Role: models.RoleReceptionist}
	e := newEnv(t, receptionist)
	e.login(t)

	rec := e.do(t, http.MethodGet, "/patients", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ana@example.com")
	assert.Contains(t, rec.Body.String(), "DOC-123456")
}

func TestAPIUnauthorizedDropsSession(t *testing.T) {
	e := newEnv(t, ownerUser)
	e.login(t)

	e.api.listErr = &apiclient.APIError{StatusCode: http.StatusUnauthorized}
	rec := e.do(t, http.MethodGet, "/clinic", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	e.api.listErr = nil
	rec = e.do(t, http.MethodGet, "/clinic", nil)
	assert.Equal(t, http.StatusFound, rec.Code, "the local session is gone too")
}

func TestDashboard_ExpiredTokenDropsSession(t *testing.T) {
	e := newEnv(t, ownerUser)
	e.login(t)

	e.api.listErr = errors.New("connection refused")
	rec := e.do(t, http.MethodGet, "/dashboard", nil)
	assert.Equal(t, http.StatusOK, rec.Code, "other fetch failures still render the page")

	e.api.listErr = &apiclient.APIError{StatusCode: http.StatusUnauthorized}
	rec = e.do(t, http.MethodGet, "/dashboard", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	e.api.listErr = nil
	rec = e.do(t, http.MethodGet, "/dashboard", nil)
	assert.Equal(t, http.StatusFound, rec.Code, "the local session is gone too")
}

func TestAPIFailureRendersErrorPage(t *testing.T) {
	e := newEnv(t, ownerUser)
	e.login(t)

	e.api.listErr = errors.New("connection refused")
	rec := e.do(t, http.MethodGet, "/lab", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Something went wrong")
}

func TestUpdateProfile(t *testing.T) {
	e := newEnv(t, ownerUser)
	e.login(t)

	rec := e.do(t, http.MethodPost, "/profile", url.Values{"name": {"Olga M."}, "email": {"olga@example.com"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Profile updated.")
	assert.Contains(t, rec.Body.String(), "Olga M.")

	other := ownerUser
	other.ID = "someone-else"
	e.api.updated = &other
	rec = e.do(t, http.MethodPost, "/profile", url.Values{"name": {"X"}, "email": {"x@example.com"}})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestFormError(t *testing.T) {
	assert.Equal(t, "Invalid email or password.", formError(&apiclient.APIError{StatusCode: 401}))
	assert.Equal(t, "Email is invalid", formError(&apiclient.APIError{StatusCode: 400, Message: "Email is invalid"}))
	assert.Contains(t, formError(&apiclient.APIError{StatusCode: 503, Message: "db down"}), "unavailable")
	assert.Contains(t, formError(errors.New("dial tcp")), "unavailable")
}
