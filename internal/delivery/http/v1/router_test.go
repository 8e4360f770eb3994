package v1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"contact-api/config"
	v1 "contact-api/internal/delivery/http/v1"
	"contact-api/internal/domain"
	"contact-api/internal/usecase"
	"contact-api/pkg/email"
	"contact-api/pkg/logger"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, msg email.Message) error {
	return m.Called(ctx, msg).Error(0)
}

type MockContactUC struct {
	mock.Mock
}

func (m *MockContactUC) Submit(ctx context.Context, req *domain.ContactRequest) error {
	return m.Called(ctx, req).Error(0)
}

func testConfig() *config.Config {
	return &config.Config{
		GinMode:            gin.TestMode,
		CORSAllowedOrigins: []string{"*"},
		ContactEmailTo:     "owner@example.com",
	}
}

func newRouter(t *testing.T, sender email.Sender, cfg *config.Config) *gin.Engine {
	t.Helper()
	if cfg == nil {
		cfg = testConfig()
	}
	return v1.NewRouter(v1.RouterDeps{
		ContactUC: usecase.NewContactUsecase(sender, nil, usecase.ContactOptions{Recipient: cfg.ContactEmailTo}),
		HealthUC:  usecase.NewHealthUsecase(true, nil),
		Config:    cfg,
	})
}

func postContact(r http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestContactSuccess(t *testing.T) {
	sender := new(MockSender)
	sender.On("Send", mock.Anything, mock.MatchedBy(func(msg email.Message) bool {
		return msg.From == "jane@example.com" && msg.To == "owner@example.com"
	})).Return(nil).Once()
	r := newRouter(t, sender, nil)

	w := postContact(r, `{"name":"Jane Doe","email":"jane@example.com","message":"Hello"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Message sent successfully!"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	sender.AssertExpectations(t)
}

func TestContactValidation(t *testing.T) {
	bodies := []string{
		`{"name":"","email":"jane@example.com","message":"Hello"}`,
		`{"name":"Jane Doe","message":"Hello"}`,
		`{}`,
		``,
	}

	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			sender := new(MockSender)
			r := newRouter(t, sender, nil)

			w := postContact(r, body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, `{"error":"All fields are required."}`, w.Body.String())
			sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
		})
	}
}

func TestContactWhitespaceFieldsAreSent(t *testing.T) {
	sender := new(MockSender)
	sender.On("Send", mock.Anything, mock.Anything).Return(nil).Once()
	r := newRouter(t, sender, nil)

	w := postContact(r, `{"name":"   ","email":"jane@example.com","message":"   "}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Message sent successfully!"}`, w.Body.String())
	sender.AssertNumberOfCalls(t, "Send", 1)
}

func TestContactMalformedJSON(t *testing.T) {
	sender := new(MockSender)
	r := newRouter(t, sender, nil)

	w := postContact(r, `{"name": "Jane",`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid request body."}`, w.Body.String())

	w = postContact(r, `{"name": 42, "email":"jane@example.com","message":"Hello"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestContactBodyTooLarge(t *testing.T) {
	sender := new(MockSender)
	r := newRouter(t, sender, nil)

	body := `{"name":"Jane","email":"jane@example.com","message":"` + strings.Repeat("a", 110<<10) + `"}`
	w := postContact(r, body)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestContactLargeMessageWithinLimit(t *testing.T) {
	sender := new(MockSender)
	sender.On("Send", mock.Anything, mock.Anything).Return(nil).Once()
	r := newRouter(t, sender, nil)

	body := `{"name":"Jane","email":"jane@example.com","message":"` + strings.Repeat("a", 90<<10) + `"}`
	w := postContact(r, body)

	assert.Equal(t, http.StatusOK, w.Code)
	sender.AssertNumberOfCalls(t, "Send", 1)
}

func TestContactDeliveryFailure(t *testing.T) {
	sender := new(MockSender)
	sender.On("Send", mock.Anything, mock.Anything).Return(errors.New("535 5.7.8 Username and Password not accepted"))
	r := newRouter(t, sender, nil)

	w := postContact(r, `{"name":"Jane Doe","email":"jane@example.com","message":"Hello"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to send message."}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "535")
	sender.AssertNumberOfCalls(t, "Send", 1)
}

func TestContactDeliveryFailureLoggedOnce(t *testing.T) {
	var buf bytes.Buffer
	prev := logger.Log
	logger.Log = slog.New(slog.NewJSONHandler(&buf, nil))
	t.Cleanup(func() { logger.Log = prev })

	sender := new(MockSender)
	sender.On("Send", mock.Anything, mock.Anything).Return(errors.New("dial tcp: connection refused"))
	r := newRouter(t, sender, nil)

	w := postContact(r, `{"name":"Jane Doe","email":"jane@example.com","message":"Hello"}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var errorLines []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		if entry["level"] == "ERROR" {
			errorLines = append(errorLines, entry)
		}
	}
	require.Len(t, errorLines, 1)
	assert.Equal(t, w.Header().Get("X-Request-ID"), errorLines[0]["request_id"])
	assert.Contains(t, errorLines[0]["error"], "connection refused")
}

func TestContactHandlerMapsUsecaseErrors(t *testing.T) {
	uc := new(MockContactUC)
	uc.On("Submit", mock.Anything, mock.Anything).Return(&domain.DeliveryError{Err: email.ErrNotConfigured}).Once()
	uc.On("Submit", mock.Anything, mock.Anything).Return(&domain.ValidationError{Fields: []string{"email"}}).Once()

	r := v1.NewRouter(v1.RouterDeps{ContactUC: uc, HealthUC: usecase.NewHealthUsecase(false, nil), Config: testConfig()})

	w := postContact(r, `{"name":"Jane Doe","email":"jane@example.com","message":"Hello"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = postContact(r, `{"name":"Jane Doe","email":"jane@example.com","message":"Hello"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	uc.AssertExpectations(t)
}

func TestRootAndHealth(t *testing.T) {
	r := newRouter(t, new(MockSender), nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Contact API is running!"}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","checks":{"mail":"ok","redis":"disabled"}}`, w.Body.String())
}

func TestHealthDown(t *testing.T) {
	r := v1.NewRouter(v1.RouterDeps{
		ContactUC: new(MockContactUC),
		HealthUC:  usecase.NewHealthUsecase(true, func(context.Context) error { return errors.New("refused") }),
		Config:    testConfig(),
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCORSPreflightAndNotFound(t *testing.T) {
	r := newRouter(t, new(MockSender), nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/contact", nil)
	req.Header.Set("Origin", "https://site.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Not found."}`, w.Body.String())
}

func TestContactRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitEnabled = true
	cfg.RateLimitRequests = 1
	cfg.RateLimitWindowSeconds = 60

	sender := new(MockSender)
	sender.On("Send", mock.Anything, mock.Anything).Return(nil)
	r := newRouter(t, sender, cfg)

	body := `{"name":"Jane Doe","email":"jane@example.com","message":"Hello"}`
	require.Equal(t, http.StatusOK, postContact(r, body).Code)

	w := postContact(r, body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	sender.AssertNumberOfCalls(t, "Send", 1)
}

func TestContactRateLimitIgnoresForwardedFor(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitEnabled = true
	cfg.RateLimitRequests = 1
	cfg.RateLimitWindowSeconds = 60

	sender := new(MockSender)
	sender.On("Send", mock.Anything, mock.Anything).Return(nil)
	r := newRouter(t, sender, cfg)

	body := `{"name":"Jane Doe","email":"jane@example.com","message":"Hello"}`
	codes := make([]int, 0, 3)
	for _, xff := range []string{"203.0.113.1", "203.0.113.2", "198.51.100.7, 203.0.113.3"} {
		req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", xff)
		req.Header.Set("X-Real-IP", xff)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
	sender.AssertNumberOfCalls(t, "Send", 1)
}

func TestContactRateLimitHonoursTrustedProxy(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitEnabled = true
	cfg.RateLimitRequests = 1
	cfg.RateLimitWindowSeconds = 60
	// httptest requests arrive from 192.0.2.1.
	cfg.TrustedProxies = []string{"192.0.2.0/24"}

	sender := new(MockSender)
	sender.On("Send", mock.Anything, mock.Anything).Return(nil)
	r := newRouter(t, sender, cfg)

	body := `{"name":"Jane Doe","email":"jane@example.com","message":"Hello"}`
	for _, xff := range []string{"203.0.113.1", "203.0.113.2"} {
		req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", xff)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, xff)
	}
	sender.AssertNumberOfCalls(t, "Send", 2)
}

func TestContactRateLimitFailClosed(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitEnabled = true
	cfg.RateLimitRequests = 5
	cfg.RateLimitWindowSeconds = 60
	cfg.RateLimitFailClosed = true

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })

	sender := new(MockSender)
	r := v1.NewRouter(v1.RouterDeps{
		ContactUC: usecase.NewContactUsecase(sender, nil, usecase.ContactOptions{Recipient: cfg.ContactEmailTo}),
		HealthUC:  usecase.NewHealthUsecase(true, nil),
		Config:    cfg,
		Redis:     rdb,
	})

	w := postContact(r, `{"name":"Jane Doe","email":"jane@example.com","message":"Hello"}`)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestNoDeduplication(t *testing.T) {
	sender := new(MockSender)
	sender.On("Send", mock.Anything, mock.Anything).Return(nil)
	r := newRouter(t, sender, nil)

	body := `{"name":"Jane Doe","email":"jane@example.com","message":"Hello"}`
	require.Equal(t, http.StatusOK, postContact(r, body).Code)
	require.Equal(t, http.StatusOK, postContact(r, body).Code)

	sender.AssertNumberOfCalls(t, "Send", 2)
}

func TestSwaggerHiddenInRelease(t *testing.T) {
	cfg := testConfig()
	cfg.GinMode = gin.ReleaseMode
	r := newRouter(t, new(MockSender), cfg)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	r = newRouter(t, new(MockSender), nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/api/contact")
}
