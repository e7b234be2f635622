package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/saadamjad-44/school-attendance-system/api/transport"
	"github.com/saadamjad-44/school-attendance-system/domain"
	"github.com/saadamjad-44/school-attendance-system/pkg/httpcontext"
	appLogger "github.com/saadamjad-44/school-attendance-system/pkg/logger"
	"github.com/saadamjad-44/school-attendance-system/repository"
	"github.com/saadamjad-44/school-attendance-system/repository/memory"
)

const (
	DefaultBasePath = "/api"
	DefaultProfile  = "default"
	// MaxRedirects bounds how many redirects one call follows.
	MaxRedirects = 16
)

// Doer is the part of *fasthttp.Client the gateway needs. The request timeout,
// when set, applies to every hop.
type Doer interface {
	DoRedirects(req *fasthttp.Request, resp *fasthttp.Response, maxRedirectsCount int) error
}

// GatewayConfig locates the backend and the cookie jar used for it.
type GatewayConfig struct {
	BaseURL  string
	BasePath string
	Profile  string
	Timeout  time.Duration
}

// Options configures a single call. Method defaults to GET. A Body that is not
// a string or []byte is sent as JSON.
type Options struct {
	Method  string
	Body    interface{}
	Headers map[string]string
}

// Gateway performs every HTTP exchange with the backend.
type Gateway struct {
	doer     Doer
	baseURL  string
	basePath string
	profile  string
	sessions repository.SessionRepository
	adapter  *httpcontext.Adapter
	logger   *zap.Logger
	now      func() time.Time
}

// NewGateway wires a gateway. A nil doer gets a default fasthttp client and a
// nil session repository gets a process-local one.
func NewGateway(cfg GatewayConfig, doer Doer, sessions repository.SessionRepository, logger *zap.Logger) *Gateway {
	if doer == nil {
		doer = &fasthttp.Client{
			Name:                "attendancectl",
			MaxIdleConnDuration: 30 * time.Second,
		}
	}
	if sessions == nil {
		sessions = memory.NewSessionRepository()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	basePath := cfg.BasePath
	if basePath == "" {
		basePath = DefaultBasePath
	}
	profile := cfg.Profile
	if profile == "" {
		profile = DefaultProfile
	}
	return &Gateway{
		doer:     doer,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		basePath: "/" + strings.Trim(basePath, "/"),
		profile:  profile,
		sessions: sessions,
		adapter:  httpcontext.NewAdapter(cfg.Timeout),
		logger:   logger,
		now:      time.Now,
	}
}

// URL returns the absolute URL of an endpoint.
func (g *Gateway) URL(endpoint string) string {
	if endpoint != "" && !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	return g.baseURL + g.basePath + endpoint
}

// Request performs the call and returns the JSON body unchanged. An empty
// success body yields nil.
func (g *Gateway) Request(ctx context.Context, endpoint string, opts Options) (json.RawMessage, error) {
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if err := g.exchange(ctx, endpoint, opts, resp); err != nil {
		return nil, err
	}

	body := resp.Body()
	if len(body) == 0 {
		return nil, nil
	}
	if !json.Valid(body) {
		return nil, domain.WrapError(domain.ErrCodeTransport, "invalid JSON response", errors.New(truncate(body, 64)))
	}
	return append(json.RawMessage(nil), body...), nil
}

// Do performs the call and decodes the JSON body into out, when out is not nil.
func (g *Gateway) Do(ctx context.Context, endpoint string, opts Options, out interface{}) error {
	raw, err := g.Request(ctx, endpoint, opts)
	if err != nil {
		return err
	}
	if out == nil || raw == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return domain.WrapError(domain.ErrCodeTransport, "unexpected response payload", err)
	}
	return nil
}

// Download performs a GET and copies the raw body to w. It returns the
// response content type.
func (g *Gateway) Download(ctx context.Context, endpoint string, w io.Writer) (string, error) {
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if err := g.exchange(ctx, endpoint, Options{Method: fasthttp.MethodGet}, resp); err != nil {
		return "", err
	}
	if err := resp.BodyWriteTo(w); err != nil {
		return "", domain.WrapError(domain.ErrCodeTransport, "write download", err)
	}
	return string(resp.Header.ContentType()), nil
}

// ForgetSession drops the stored cookies of the gateway's profile.
func (g *Gateway) ForgetSession(ctx context.Context) error {
	return g.sessions.Delete(ctx, g.profile)
}

// Profile returns the session profile the gateway reads and writes.
func (g *Gateway) Profile() string {
	return g.profile
}

func (g *Gateway) exchange(ctx context.Context, endpoint string, opts Options, resp *fasthttp.Response) error {
	ctx, cancel := g.adapter.Attach(ctx)
	defer cancel()

	method := strings.ToUpper(opts.Method)
	if method == "" {
		method = fasthttp.MethodGet
	}
	log := appLogger.WithRequestID(ctx, g.logger).With(
		zap.String("method", method),
		zap.String("endpoint", endpoint),
	)

	if err := ctx.Err(); err != nil {
		return domain.WrapError(domain.ErrCodeTransport, domain.MsgTransportFailure, err)
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)

	req.SetRequestURI(g.URL(endpoint))
	req.Header.SetMethod(method)
	httpcontext.Stamp(ctx, req)
	if err := setBody(req, opts.Body); err != nil {
		return domain.WrapError(domain.ErrCodeInvalid, "encode request body", err)
	}
	// applied after the JSON default so callers can override Content-Type
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}
	if err := g.attachCredentials(ctx, req); err != nil {
		return domain.WrapError(domain.ErrCodeTransport, "load session credentials", err)
	}

	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return domain.WrapError(domain.ErrCodeTransport, domain.MsgTransportFailure, context.DeadlineExceeded)
		}
		req.SetTimeout(remaining)
	}

	start := time.Now()
	if err := g.doer.DoRedirects(req, resp, MaxRedirects); err != nil {
		log.Warn("request failed", zap.Error(err))
		return domain.WrapError(domain.ErrCodeTransport, domain.MsgTransportFailure, err)
	}

	status := resp.StatusCode()
	log.Debug("request completed", zap.Int("status", status), zap.Duration("elapsed", time.Since(start)))

	if err := g.captureCredentials(ctx, resp); err != nil {
		log.Warn("failed to store session cookies", zap.Error(err))
	}

	if status < fasthttp.StatusOK || status >= fasthttp.StatusMultipleChoices {
		return domain.StatusError(status, transport.DetailMessage(resp.Body()))
	}
	return nil
}

func (g *Gateway) attachCredentials(ctx context.Context, req *fasthttp.Request) error {
	session, err := g.sessions.Get(ctx, g.profile)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil
		}
		return err
	}
	for _, c := range session.Live(g.now()) {
		req.Header.SetCookie(c.Name, c.Value)
	}
	return nil
}

func (g *Gateway) captureCredentials(ctx context.Context, resp *fasthttp.Response) error {
	now := g.now()
	var received []domain.Cookie
	resp.Header.VisitAllCookie(func(_, value []byte) {
		c := fasthttp.AcquireCookie()
		defer fasthttp.ReleaseCookie(c)
		if err := c.ParseBytes(value); err != nil {
			return
		}
		cookie := domain.Cookie{
			Name:  string(c.Key()),
			Value: string(c.Value()),
			Path:  string(c.Path()),
		}
		if !c.Expire().IsZero() {
			cookie.ExpiresAt = c.Expire()
		}
		if c.MaxAge() > 0 {
			cookie.ExpiresAt = now.Add(time.Duration(c.MaxAge()) * time.Second)
		}
		received = append(received, cookie)
	})
	if len(received) == 0 {
		return nil
	}

	session, err := g.sessions.Get(ctx, g.profile)
	if err != nil {
		if !errors.Is(err, domain.ErrSessionNotFound) {
			return err
		}
		session = &domain.Session{ID: g.profile}
	}
	session.Merge(received, now)
	if session.Empty(now) {
		return g.sessions.Delete(ctx, g.profile)
	}
	return g.sessions.Save(ctx, session)
}

func setBody(req *fasthttp.Request, body interface{}) error {
	switch b := body.(type) {
	case nil:
		return nil
	case string:
		req.SetBodyString(b)
	case []byte:
		req.SetBody(b)
	default:
		payload, err := json.Marshal(b)
		if err != nil {
			return err
		}
		req.Header.SetContentType("application/json")
		req.SetBody(payload)
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
