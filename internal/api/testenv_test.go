// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package api

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/guesthouse/internal/audit"
	"github.com/tomtom215/guesthouse/internal/auth"
	"github.com/tomtom215/guesthouse/internal/authz"
	"github.com/tomtom215/guesthouse/internal/backup"
	"github.com/tomtom215/guesthouse/internal/config"
	"github.com/tomtom215/guesthouse/internal/database"
	"github.com/tomtom215/guesthouse/internal/models"
	"github.com/tomtom215/guesthouse/internal/storage"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

// Hashing the test passwords with the production bcrypt cost is slow, so the
// credentials are built once for the package.
var (
	credsOnce sync.Once
	testCreds *auth.Credentials
	credsErr  error
)

func testSecurityConfig() config.SecurityConfig {
	return config.SecurityConfig{
		JWTSecret:         "test-secret-that-is-long-enough-for-hs256",
		SessionTimeout:    time.Hour,
		AdminUsername:     "admin",
		AdminPassword:     "admin-password",
		StaffUsername:     "staff",
		StaffPassword:     "staff-password",
		CORSOrigins:       []string{"https://guesthouse.example"},
		RateLimitRequests: 10000,
		RateLimitWindow:   time.Minute,
		LoginRateLimit:    1000,
	}
}

type testEnv struct {
	t          *testing.T
	handler    *Handler
	db         *database.DB
	store      *storage.FSStore
	enforcer   *authz.Enforcer
	activity   *audit.Logger
	server     http.Handler
	adminToken string
	staffToken string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{
		Security: testSecurityConfig(),
		Storage: config.StorageConfig{
			Backend:           storage.BackendLocal,
			MaxUploadSize:     1 << 20,
			MaxAttachmentSize: 256 << 10,
		},
		Stats: config.StatsConfig{CacheTTL: time.Minute},
	}

	db, err := database.New(database.Config{InMemory: true})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	credsOnce.Do(func() {
		testCreds, credsErr = auth.NewCredentials(&cfg.Security)
	})
	if credsErr != nil {
		t.Fatalf("credentials: %v", credsErr)
	}

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		t.Fatalf("jwt manager: %v", err)
	}

	enforcer, err := authz.NewEnforcer(authz.DefaultEnforcerConfig())
	if err != nil {
		t.Fatalf("enforcer: %v", err)
	}
	t.Cleanup(enforcer.Close)

	backups, err := backup.NewManager(db.Raw(), &config.BackupConfig{Dir: t.TempDir(), Retention: 3})
	if err != nil {
		t.Fatalf("backup manager: %v", err)
	}

	activity := audit.NewLogger(audit.NewMemoryStore(1000), audit.Config{Enabled: true, BufferSize: 100})
	t.Cleanup(func() { _ = activity.Close() })

	store := storage.NewMemoryStore()
	handler := NewHandler(Dependencies{
		Config:      cfg,
		DB:          db,
		Store:       store,
		Credentials: testCreds,
		JWT:         jwtManager,
		AuthMW:      auth.NewMiddleware(jwtManager, false),
		Backups:     backups,
		Audit:       activity,
		Version:     "test",
	})
	t.Cleanup(handler.Close)

	adminToken, _, err := jwtManager.GenerateToken("admin", auth.RoleAdmin)
	if err != nil {
		t.Fatalf("admin token: %v", err)
	}
	staffToken, _, err := jwtManager.GenerateToken("staff", auth.RoleStaff)
	if err != nil {
		t.Fatalf("staff token: %v", err)
	}

	return &testEnv{
		t:          t,
		handler:    handler,
		db:         db,
		store:      store,
		enforcer:   enforcer,
		activity:   activity,
		server:     NewRouter(handler, enforcer).SetupChi(),
		adminToken: adminToken,
		staffToken: staffToken,
	}
}

func (e *testEnv) do(method, path string, body io.Reader, contentType, token string) *httptest.ResponseRecorder {
	e.t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) doJSON(method, path string, v interface{}, token string) *httptest.ResponseRecorder {
	e.t.Helper()
	var body io.Reader
	if v != nil {
		data, err := json.Marshal(v)
		if err != nil {
			e.t.Fatalf("marshal: %v", err)
		}
		body = bytes.NewReader(data)
	}
	return e.do(method, path, body, "application/json", token)
}

// testEnvelope mirrors APIResponse with a raw payload.
type testEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    *APIMeta        `json:"meta"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) testEnvelope {
	t.Helper()
	var env testEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, rec.Body.String())
	}
	if data != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, data); err != nil {
			t.Fatalf("decode data: %v (%s)", err, env.Data)
		}
	}
	return env
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, want, rec.Body.String())
	}
}

func expectErrorCode(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	expectStatus(t, rec, status)
	env := decodeEnvelope(t, rec, nil)
	if env.Success || env.Error == nil {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
	if env.Error.Code != code {
		t.Errorf("error code = %q, want %q", env.Error.Code, code)
	}
}

// dateIn returns today plus days as YYYY-MM-DD.
func dateIn(days int) string {
	return models.FormatDate(models.Today(time.Now()).AddDate(0, 0, days))
}

func (e *testEnv) createHouse(name string, capacity int) *models.House {
	e.t.Helper()
	rec := e.doJSON(http.MethodPost, "/api/v1/admin/houses", models.HouseRequest{
		Name:          name,
		Capacity:      capacity,
		Bedrooms:      2,
		PricePerNight: 120,
	}, e.adminToken)
	expectStatus(e.t, rec, http.StatusCreated)
	var h models.House
	decodeEnvelope(e.t, rec, &h)
	return &h
}

func bookingRequest(numGuests, fromDays, nights int) models.BookingRequest {
	return models.BookingRequest{
		Name:      "Maria Rossi",
		Email:     "maria@example.com",
		Phone:     "+39 333 1234567",
		NumGuests: numGuests,
		CheckIn:   dateIn(fromDays),
		CheckOut:  dateIn(fromDays + nights),
	}
}

func (e *testEnv) createBooking(req models.BookingRequest) BookingReceipt {
	e.t.Helper()
	rec := e.doJSON(http.MethodPost, "/api/v1/public/bookings", req, "")
	expectStatus(e.t, rec, http.StatusCreated)
	var receipt BookingReceipt
	decodeEnvelope(e.t, rec, &receipt)
	return receipt
}

// multipartBody builds a form with text fields and at most one file.
func multipartBody(t *testing.T, fields map[string]string, fileField, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write(content); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	return &buf, mw.FormDataContentType()
}
