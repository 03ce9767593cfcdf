// Package directory exposes the chatroom directory queries over HTTP.
package directory

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type apiError struct {
	Err        error  `json:"-"`
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("%d %s err: %v", e.StatusCode, e.Message, e.Err)
}

func (e *apiError) Render(_ http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

func errNotFound(err error) *apiError {
	return &apiError{Err: err, StatusCode: http.StatusNotFound, Message: "batch not found"}
}

func errInternal(err error) *apiError {
	return &apiError{Err: err, StatusCode: http.StatusInternalServerError, Message: "server error"}
}

// Routes builds the read-only chatroom directory API. Mount it at
// /chatrooms. Every listing endpoint returns an empty JSON array when the
// queried prefix does not exist; only the batch metadata lookup can 404.
func Routes(s *Service) chi.Router {
	r := chi.NewRouter()
	r.Use(allowAllCORS)

	r.Get("/", listHandler(func(*http.Request) ([]string, error) {
		return s.TopLevel()
	}))
	r.Get("/admins", listHandler(func(*http.Request) ([]string, error) {
		return s.Admins()
	}))
	r.Get("/metadata/{batch}", func(w http.ResponseWriter, req *http.Request) {
		meta, err := s.BatchMetadata(chi.URLParam(req, "batch"))
		if err != nil {
			if errors.Is(err, ErrBatchNotFound) {
				_ = render.Render(w, req, errNotFound(err))
			} else {
				_ = render.Render(w, req, errInternal(err))
			}
			return
		}
		render.JSON(w, req, meta)
	})
	r.Get("/{course}", listHandler(func(req *http.Request) ([]string, error) {
		return s.Batches(chi.URLParam(req, "course"))
	}))
	r.Get("/{course}/{batch}/admins/{admin}/students", listHandler(func(req *http.Request) ([]string, error) {
		return s.AdminStudents(
			chi.URLParam(req, "course"),
			chi.URLParam(req, "batch"),
			chi.URLParam(req, "admin"),
		)
	}))
	r.Get("/{course}/{batch}/{module}/students", listHandler(func(req *http.Request) ([]string, error) {
		return s.ModuleParticipants(
			chi.URLParam(req, "course"),
			chi.URLParam(req, "batch"),
			chi.URLParam(req, "module"),
		)
	}))

	return r
}

// listHandler adapts a listing query to an HTTP handler that always renders
// a JSON array.
func listHandler(query func(*http.Request) ([]string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		names, err := query(req)
		if err != nil {
			_ = render.Render(w, req, errInternal(err))
			return
		}
		if names == nil {
			names = []string{}
		}
		render.JSON(w, req, names)
	}
}

// allowAllCORS mirrors the permissive CORS posture of the dashboards that
// consume this API.
func allowAllCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		if req.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, req)
	})
}
