// Package fakeapi is an in-memory stand-in for the attendance backend. It
// serves the same routes, cookies and error details over an in-memory
// listener so the client can be exercised without a network.
package fakeapi

import (
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"

	"github.com/saadamjad-44/school-attendance-system/api/transport"
)

// BaseURL is the address clients should use; the in-memory dialer ignores it.
const BaseURL = "http://attendance.test"

// RecordedRequest is one request seen by the server.
type RecordedRequest struct {
	Method string
	URI    string
	Cookie string
	Body   []byte
	Header map[string]string
}

// Get returns the request header key.
func (r RecordedRequest) Get(key string) string {
	return r.Header[http.CanonicalHeaderKey(key)]
}

type cannedResponse struct {
	status      int
	contentType string
	location    string
	body        []byte
}

// Server is the fake backend.
type Server struct {
	store    *store
	listener *fasthttputil.InmemoryListener
	server   *fasthttp.Server

	mu        sync.Mutex
	requests  []RecordedRequest
	overrides map[string]cannedResponse
}

// New starts a fake backend seeded with the sample school. now decides what
// "today" is; nil means time.Now.
func New(now func() time.Time) *Server {
	if now == nil {
		now = time.Now
	}
	s := &Server{
		store:     newStore(now),
		listener:  fasthttputil.NewInmemoryListener(),
		overrides: make(map[string]cannedResponse),
	}
	s.server = &fasthttp.Server{
		Handler: s.record(s.routes().Handler),
		Name:    "fakeapi",
	}
	go func() {
		_ = s.server.Serve(s.listener)
	}()
	return s
}

// Client returns a fasthttp client whose connections go to this server.
func (s *Server) Client() *fasthttp.Client {
	return &fasthttp.Client{
		Dial: func(string) (net.Conn, error) {
			return s.listener.Dial()
		},
	}
}

// Requests returns a copy of every request seen so far.
func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest(nil), s.requests...)
}

// LastRequest returns the most recent request.
func (s *Server) LastRequest() RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return RecordedRequest{}
	}
	return s.requests[len(s.requests)-1]
}

// Override answers method+path with a canned response instead of routing it.
func (s *Server) Override(method, path string, status int, contentType string, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[method+" "+path] = cannedResponse{status: status, contentType: contentType, body: []byte(body)}
}

// Redirect answers method+path with status and a Location header.
func (s *Server) Redirect(method, path string, status int, location string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[method+" "+path] = cannedResponse{status: status, location: location}
}

// Close stops the server.
func (s *Server) Close() error {
	err := s.server.Shutdown()
	_ = s.listener.Close()
	return err
}

func (s *Server) record(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		rec := RecordedRequest{
			Method: string(ctx.Method()),
			URI:    string(ctx.RequestURI()),
			Cookie: string(ctx.Request.Header.Cookie("session")),
			Body:   append([]byte(nil), ctx.PostBody()...),
			Header: make(map[string]string),
		}
		ctx.Request.Header.VisitAll(func(key, value []byte) {
			rec.Header[http.CanonicalHeaderKey(string(key))] = string(value)
		})

		s.mu.Lock()
		s.requests = append(s.requests, rec)
		canned, ok := s.overrides[rec.Method+" "+string(ctx.Path())]
		s.mu.Unlock()

		if ok {
			if canned.contentType != "" {
				ctx.Response.Header.SetContentType(canned.contentType)
			}
			if canned.location != "" {
				ctx.Response.Header.Set("Location", canned.location)
			}
			ctx.SetStatusCode(canned.status)
			ctx.SetBody(canned.body)
			return
		}
		next(ctx)
	}
}

func (s *Server) routes() *router.Router {
	r := router.New()
	h := handlers{store: s.store}

	r.POST("/api/login", h.login)
	r.POST("/api/logout", h.logout)
	r.GET("/api/me", h.me)

	r.GET("/api/admin/teachers", h.require(h.listTeachers, roleAdmin))
	r.POST("/api/admin/teachers", h.require(h.createTeacher, roleAdmin))
	r.DELETE("/api/admin/teachers/{id}", h.require(h.deleteTeacher, roleAdmin))

	r.GET("/api/admin/students", h.require(h.listStudents, roleAdmin, rolePrincipal))
	r.POST("/api/admin/students", h.require(h.createStudent, roleAdmin))
	r.DELETE("/api/admin/students/{id}", h.require(h.deleteStudent, roleAdmin))

	r.GET("/api/admin/classes", h.require(h.listClasses, roleAdmin, rolePrincipal))
	r.POST("/api/admin/classes", h.require(h.createClass, roleAdmin))
	r.PUT("/api/admin/classes/{id}/assign-teacher", h.require(h.assignTeacher, roleAdmin))

	r.GET("/api/teacher/my-class", h.require(h.myClass, roleTeacher))
	r.GET("/api/teacher/attendance/{date}", h.require(h.attendance, roleTeacher))
	r.POST("/api/teacher/attendance", h.require(h.saveAttendance, roleTeacher))
	r.GET("/api/teacher/history", h.require(h.history, roleTeacher))

	r.GET("/api/principal/dashboard", h.require(h.dashboard, rolePrincipal))
	r.GET("/api/principal/report", h.require(h.monthlyReport, rolePrincipal))
	r.GET("/api/principal/report/export", h.require(h.exportReport, rolePrincipal))
	r.GET("/api/principal/student/{id}", h.require(h.studentReport, rolePrincipal))

	r.GET("/api/notifications", h.require(h.notifications, rolePrincipal, roleTeacher))
	r.POST("/api/notifications/{id}/send", h.require(h.markSent, rolePrincipal))

	return r
}

func respondJSON(ctx *fasthttp.RequestCtx, status int, payload interface{}) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}

func respondDetail(ctx *fasthttp.RequestCtx, status int, detail string) {
	respondJSON(ctx, status, transport.NewErrorBody(detail))
}

func respondInvalid(ctx *fasthttp.RequestCtx, field string) {
	respondJSON(ctx, http.StatusUnprocessableEntity, map[string]interface{}{
		"detail": []map[string]interface{}{
			{"loc": []string{"body", field}, "msg": "field required", "type": "value_error.missing"},
		},
	})
}
