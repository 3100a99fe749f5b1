package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/RAFagb11/synked-sub001/internal/common"
	"github.com/RAFagb11/synked-sub001/internal/http/handlers"
	"github.com/RAFagb11/synked-sub001/internal/http/metrics"
	httpmw "github.com/RAFagb11/synked-sub001/internal/http/middleware"
)

type RouterDependencies struct {
	ProjectHandler      *handlers.ProjectHandler
	ApplicationHandler  *handlers.ApplicationHandler
	NotificationHandler *handlers.NotificationHandler
	DashboardHandler    *handlers.DashboardHandler
	MetricsHandler      *handlers.MetricsHandler
	Identity            *httpmw.Identity
	Metrics             *metrics.Collector
	Logger              *slog.Logger
	RequestTimeout      time.Duration
}

type Router struct {
	deps RouterDependencies
}

const maxBodyBytes = 1 << 20

func NewRouter(deps RouterDependencies) http.Handler {
	return &Router{deps: deps}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	handler := httpmw.Chain(r.baseHandler(),
		httpmw.RequestID,
		httpmw.Logging(r.deps.Logger),
		httpmw.BodyLimit(maxBodyBytes),
		httpmw.Recover,
		httpmw.Metrics(r.deps.Metrics),
		httpmw.Timeout(r.deps.RequestTimeout))
	handler.ServeHTTP(w, req)
}

func (r *Router) baseHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		path := req.URL.Path

		switch {
		case req.Method == http.MethodGet && path == "/health":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		case req.Method == http.MethodGet && path == "/metrics":
			r.deps.MetricsHandler.Get(w, req)
			return
		case req.Method == http.MethodGet && path == "/projects":
			r.deps.ProjectHandler.List(w, req)
			return
		case req.Method == http.MethodPost && path == "/projects":
			r.authed(r.deps.ProjectHandler.Create).ServeHTTP(w, req)
			return
		case req.Method == http.MethodPost && path == "/applications":
			r.authed(r.deps.ApplicationHandler.Create).ServeHTTP(w, req)
			return
		case req.Method == http.MethodGet && path == "/applications":
			r.authed(r.deps.ApplicationHandler.List).ServeHTTP(w, req)
			return
		case req.Method == http.MethodGet && path == "/dashboard/applicant":
			r.authed(r.deps.DashboardHandler.Applicant).ServeHTTP(w, req)
			return
		case req.Method == http.MethodGet && path == "/dashboard/organization":
			r.authed(r.deps.DashboardHandler.Organization).ServeHTTP(w, req)
			return
		case req.Method == http.MethodGet && path == "/notifications":
			r.authed(r.deps.NotificationHandler.List).ServeHTTP(w, req)
			return
		case req.Method == http.MethodPost && path == "/notifications/read-all":
			r.authed(r.deps.NotificationHandler.MarkAllRead).ServeHTTP(w, req)
			return
		}

		if id, action, ok := resourcePath(path, "/projects/"); ok {
			switch {
			case req.Method == http.MethodGet && action == "":
				r.deps.ProjectHandler.Get(w, req, id)
				return
			case req.Method == http.MethodPost && action == "complete":
				r.authedID(id, r.deps.ProjectHandler.Complete).ServeHTTP(w, req)
				return
			case req.Method == http.MethodPost && action == "close":
				r.authedID(id, r.deps.ProjectHandler.Close).ServeHTTP(w, req)
				return
			case req.Method == http.MethodPost && action == "reconcile":
				r.authedID(id, r.deps.ProjectHandler.Reconcile).ServeHTTP(w, req)
				return
			}
		}

		if id, action, ok := resourcePath(path, "/applications/"); ok {
			switch {
			case req.Method == http.MethodGet && action == "":
				r.authedID(id, r.deps.ApplicationHandler.Get).ServeHTTP(w, req)
				return
			case req.Method == http.MethodPost && action == "status":
				r.authedID(id, r.deps.ApplicationHandler.Transition).ServeHTTP(w, req)
				return
			case req.Method == http.MethodPost && action == "withdraw":
				r.authedID(id, r.deps.ApplicationHandler.Withdraw).ServeHTTP(w, req)
				return
			}
		}

		if id, action, ok := resourcePath(path, "/notifications/"); ok {
			if req.Method == http.MethodPost && action == "read" {
				r.authedID(id, r.deps.NotificationHandler.MarkRead).ServeHTTP(w, req)
				return
			}
		}

		http.NotFound(w, req)
	})
}

func (r *Router) authed(handler http.HandlerFunc) http.Handler {
	return r.deps.Identity.Require(handler)
}

func (r *Router) authedID(id common.UUID, handler func(http.ResponseWriter, *http.Request, common.UUID)) http.Handler {
	return r.deps.Identity.Require(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		handler(w, req, id)
	}))
}

// resourcePath splits "/prefix/{id}" and "/prefix/{id}/{action}" paths. A
// malformed id falls through to the surrounding not-found handling via
// ok=false, except when the segment parses and the action has extra depth.
func resourcePath(path, prefix string) (common.UUID, string, bool) {
	if !strings.HasPrefix(path, prefix) {
		return "", "", false
	}
	rest := strings.TrimPrefix(path, prefix)
	parts := strings.SplitN(rest, "/", 2)
	id, err := common.ParseUUID(parts[0])
	if err != nil {
		return "", "", false
	}
	action := ""
	if len(parts) == 2 {
		action = parts[1]
	}
	return id, action, true
}
