package httpcontext

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	appLogger "github.com/saadamjad-44/school-attendance-system/pkg/logger"
)

// RequestIDHeader carries the correlation id of an outgoing call.
const RequestIDHeader = "X-Request-ID"

// Adapter prepares the stdlib context of an outgoing fasthttp request: it
// applies the default deadline and makes sure a request id is present.
type Adapter struct {
	timeout time.Duration
}

// NewAdapter constructs a new Adapter. A zero timeout leaves calls without a
// deadline unless the caller's context carries one.
func NewAdapter(timeout time.Duration) *Adapter {
	if timeout < 0 {
		timeout = 0
	}
	return &Adapter{
		timeout: timeout,
	}
}

// Attach derives the per-request context from the caller's context.
func (a *Adapter) Attach(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}

	var cancel context.CancelFunc
	if _, ok := ctx.Deadline(); !ok && a != nil && a.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}

	if strings.TrimSpace(appLogger.RequestIDFromContext(ctx)) == "" {
		ctx = appLogger.ContextWithRequestID(ctx, uuid.NewString())
	}
	return ctx, cancel
}

// Stamp copies the request id from ctx onto the outgoing request.
func Stamp(ctx context.Context, req *fasthttp.Request) string {
	reqID := appLogger.RequestIDFromContext(ctx)
	if reqID == "" {
		reqID = uuid.NewString()
	}
	req.Header.Set(RequestIDHeader, reqID)
	return reqID
}
