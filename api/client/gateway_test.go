package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/saadamjad-44/school-attendance-system/domain"
	"github.com/saadamjad-44/school-attendance-system/internal/fakeapi"
	"github.com/saadamjad-44/school-attendance-system/pkg/httpcontext"
	appLogger "github.com/saadamjad-44/school-attendance-system/pkg/logger"
	"github.com/saadamjad-44/school-attendance-system/repository"
	"github.com/saadamjad-44/school-attendance-system/repository/memory"
	"github.com/saadamjad-44/school-attendance-system/usecase/bootstrap"
)

var testToday = time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

type harness struct {
	srv      *fakeapi.Server
	sessions repository.SessionRepository
	gw       *Gateway
	client   *Client
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	srv := fakeapi.New(func() time.Time { return testToday })
	t.Cleanup(func() { _ = srv.Close() })

	sessions := memory.NewSessionRepository()
	gw := NewGateway(GatewayConfig{BaseURL: fakeapi.BaseURL, Timeout: 5 * time.Second}, srv.Client(), sessions, nil)
	return &harness{srv: srv, sessions: sessions, gw: gw, client: New(gw, nil)}
}

func (h *harness) login(t *testing.T, username string) *domain.User {
	t.Helper()
	user, err := h.client.Login(context.Background(), username, fakeapi.SamplePassword)
	require.NoError(t, err)
	return user
}

func TestGatewayURL(t *testing.T) {
	gw := NewGateway(GatewayConfig{BaseURL: "http://localhost:8000/"}, nil, nil, nil)
	require.Equal(t, "http://localhost:8000/api/me", gw.URL("/me"))
	require.Equal(t, "http://localhost:8000/api/me", gw.URL("me"))

	gw = NewGateway(GatewayConfig{BaseURL: "http://school", BasePath: "v2/"}, nil, nil, nil)
	require.Equal(t, "http://school/v2/admin/classes", gw.URL("/admin/classes"))
}

func TestRequestReturnsBodyUnchanged(t *testing.T) {
	h := newHarness(t)
	const body = `{"id":7,"extra":{"nested":[1,2,3]}}`
	h.srv.Override("GET", "/api/custom", http.StatusOK, "application/json", body)

	raw, err := h.gw.Request(context.Background(), "/custom", Options{})
	require.NoError(t, err)
	require.JSONEq(t, body, string(raw))

	last := h.srv.LastRequest()
	require.Equal(t, "GET", last.Method)
	require.Equal(t, "/api/custom", last.URI)
	require.NotEmpty(t, last.Get(httpcontext.RequestIDHeader))
}

func TestRequestEmptySuccessBody(t *testing.T) {
	h := newHarness(t)
	h.srv.Override("POST", "/api/ping", http.StatusNoContent, "", "")

	raw, err := h.gw.Request(context.Background(), "/ping", Options{Method: "POST"})
	require.NoError(t, err)
	require.Nil(t, raw)
}

func TestRequestInvalidJSONIsTransportError(t *testing.T) {
	h := newHarness(t)
	h.srv.Override("GET", "/api/broken", http.StatusOK, "text/html", "<html>")

	_, err := h.gw.Request(context.Background(), "/broken", Options{})
	require.True(t, domain.IsDomainError(err, domain.ErrCodeTransport))
}

func TestErrorMessages(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		code    domain.ErrorCode
		message string
	}{
		{"detail string", 404, `{"detail":"Student not found"}`, domain.ErrCodeNotFound, "Student not found"},
		{"no detail", 500, `{"error":"boom"}`, domain.ErrCodeServer, domain.MsgRequestFailed},
		{"not json", 502, `<html>Bad Gateway</html>`, domain.ErrCodeServer, domain.MsgUnreadableError},
		{"validation", 422, `{"detail":[{"loc":["body","date"],"msg":"field required"}]}`, domain.ErrCodeInvalid, "field required"},
		{"forbidden", 403, `{"detail":"Not authorized"}`, domain.ErrCodeForbidden, "Not authorized"},
		{"not modified", 304, ``, domain.ErrCodeRequestFailed, domain.MsgUnreadableError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			h.srv.Override("GET", "/api/thing", tc.status, "application/json", tc.body)

			_, err := h.gw.Request(context.Background(), "/thing", Options{})
			require.Error(t, err)
			require.Equal(t, tc.message, err.Error())

			var domErr *domain.Error
			require.True(t, errors.As(err, &domErr))
			require.Equal(t, tc.code, domErr.Code)
			require.Equal(t, tc.status, domErr.Status)
		})
	}
}

func TestRedirectIsFollowed(t *testing.T) {
	h := newHarness(t)
	h.srv.Redirect("GET", "/api/moved", http.StatusTemporaryRedirect, "/api/landing")
	h.srv.Override("GET", "/api/landing", http.StatusOK, "application/json", `{"message":"here"}`)

	var msg domain.Message
	require.NoError(t, h.gw.Do(context.Background(), "/moved", Options{}, &msg))
	require.Equal(t, "here", msg.Message)
	require.Equal(t, "/api/landing", h.srv.LastRequest().URI)
	require.Len(t, h.srv.Requests(), 2)
}

func TestRedirectToFailureIsReported(t *testing.T) {
	h := newHarness(t)
	h.srv.Redirect("GET", "/api/moved", http.StatusFound, "/api/gone")
	h.srv.Override("GET", "/api/gone", http.StatusNotFound, "application/json", `{"detail":"Gone away"}`)

	_, err := h.gw.Request(context.Background(), "/moved", Options{})
	require.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
	require.Equal(t, "Gone away", err.Error())
}

func TestJSONBodyAndHeaderOverride(t *testing.T) {
	h := newHarness(t)
	h.srv.Override("POST", "/api/echo", http.StatusOK, "application/json", `{}`)
	ctx := context.Background()

	_, err := h.gw.Request(ctx, "/echo", Options{Method: "POST", Body: map[string]int{"a": 1}})
	require.NoError(t, err)
	last := h.srv.LastRequest()
	require.Equal(t, "application/json", last.Get("Content-Type"))
	require.JSONEq(t, `{"a":1}`, string(last.Body))

	_, err = h.gw.Request(ctx, "/echo", Options{
		Method:  "POST",
		Body:    map[string]int{"a": 1},
		Headers: map[string]string{"Content-Type": "text/plain"},
	})
	require.NoError(t, err)
	require.Equal(t, "text/plain", h.srv.LastRequest().Get("Content-Type"))

	_, err = h.gw.Request(ctx, "/echo", Options{Method: "POST", Body: "raw=1"})
	require.NoError(t, err)
	last = h.srv.LastRequest()
	require.Equal(t, "raw=1", string(last.Body))
	require.NotEqual(t, "application/json", last.Get("Content-Type"))
}

func TestRequestIDFromContextIsSent(t *testing.T) {
	h := newHarness(t)
	h.srv.Override("GET", "/api/custom", http.StatusOK, "application/json", `{}`)

	ctx := appLogger.ContextWithRequestID(context.Background(), "req-42")
	_, err := h.gw.Request(ctx, "/custom", Options{})
	require.NoError(t, err)
	require.Equal(t, "req-42", h.srv.LastRequest().Get(httpcontext.RequestIDHeader))
}

func TestSessionCookieLifecycle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	user := h.login(t, "admin")
	require.Equal(t, domain.RoleAdmin, user.Role)

	session, err := h.sessions.Get(ctx, DefaultProfile)
	require.NoError(t, err)
	live := session.Live(time.Now())
	require.Len(t, live, 1)
	require.Equal(t, domain.SessionCookieName, live[0].Name)

	me := h.client.CurrentUser(ctx)
	require.NotNil(t, me)
	require.Equal(t, "admin", me.Username)
	require.Equal(t, live[0].Value, h.srv.LastRequest().Cookie)

	require.NoError(t, h.client.Logout(ctx))
	_, err = h.sessions.Get(ctx, DefaultProfile)
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
	require.Nil(t, h.client.CurrentUser(ctx))
}

func TestCurrentUserNullBody(t *testing.T) {
	for _, body := range []string{"null", ""} {
		h := newHarness(t)
		h.srv.Override("GET", "/api/me", http.StatusOK, "application/json", body)

		require.Nil(t, h.client.CurrentUser(context.Background()), "body %q", body)

		var navigated []string
		nav := bootstrap.NavigatorFunc(func(_ context.Context, path string) error {
			navigated = append(navigated, path)
			return nil
		})
		user, err := bootstrap.NewGuard(h.client, nav, nil).Run(context.Background(), "/teacher")
		require.NoError(t, err)
		require.Nil(t, user)
		require.Equal(t, []string{"/login"}, navigated, "body %q", body)
	}
}

func TestLoginFailure(t *testing.T) {
	h := newHarness(t)

	user, err := h.client.Login(context.Background(), "admin", "wrong")
	require.Nil(t, user)
	require.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))
	require.Equal(t, "Invalid username or password", err.Error())
}

type failingDoer struct{ calls int }

func (d *failingDoer) DoRedirects(*fasthttp.Request, *fasthttp.Response, int) error {
	d.calls++
	return errors.New("dial tcp: connection refused")
}

func TestTransportFailureIsNotRetried(t *testing.T) {
	doer := &failingDoer{}
	gw := NewGateway(GatewayConfig{BaseURL: "http://localhost:1"}, doer, nil, nil)

	_, err := gw.Request(context.Background(), "/me", Options{})
	require.True(t, domain.IsDomainError(err, domain.ErrCodeTransport))
	require.Equal(t, 1, doer.calls)

	require.Nil(t, New(gw, nil).CurrentUser(context.Background()))
}

func TestCancelledContextIsNotSent(t *testing.T) {
	doer := &failingDoer{}
	gw := NewGateway(GatewayConfig{BaseURL: "http://localhost:1"}, doer, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gw.Request(ctx, "/me", Options{})
	require.True(t, domain.IsDomainError(err, domain.ErrCodeTransport))
	require.Zero(t, doer.calls)
}

func TestDownload(t *testing.T) {
	h := newHarness(t)
	h.srv.Override("GET", "/api/file", http.StatusOK, "application/octet-stream", "binary")

	var buf bytes.Buffer
	contentType, err := h.gw.Download(context.Background(), "/file", &buf)
	require.NoError(t, err)
	require.Equal(t, "application/octet-stream", contentType)
	require.Equal(t, "binary", buf.String())
}

func TestDoDecodesIntoOut(t *testing.T) {
	h := newHarness(t)
	h.srv.Override("GET", "/api/msg", http.StatusOK, "application/json", `{"message":"ok"}`)

	var msg domain.Message
	require.NoError(t, h.gw.Do(context.Background(), "/msg", Options{}, &msg))
	require.Equal(t, "ok", msg.Message)

	var wrong []int
	err := h.gw.Do(context.Background(), "/msg", Options{}, &wrong)
	require.True(t, domain.IsDomainError(err, domain.ErrCodeTransport))
	var typeErr *json.UnmarshalTypeError
	require.True(t, errors.As(err, &typeErr))
}
