package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/empdesk/empdesk/domain/entity"
	domainerr "github.com/empdesk/empdesk/domain/error"
	"github.com/empdesk/empdesk/domain/valueobject"
	"github.com/empdesk/empdesk/infrastructure/http/middleware"
	"github.com/empdesk/empdesk/infrastructure/http/response"
	"github.com/empdesk/empdesk/infrastructure/http/validator"
	"github.com/empdesk/empdesk/infrastructure/service/logger"
)

const maxBodyBytes = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return domainerr.ErrInvalidRequest.WithDetail("Request body is required")
		}
		return domainerr.ErrInvalidRequest.WithDetail("Invalid request body").Wrap(err)
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, domainerr.ErrInvalidRequest.WithDetail("Invalid " + name)
	}
	return id, nil
}

// queryInt returns def when the parameter is absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, domainerr.ErrInvalidRequest.WithDetail(name + " must be a non-negative integer")
	}
	return v, nil
}

func queryDate(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	if !validator.ValidateDate(raw) {
		return nil, domainerr.ErrInvalidRequest.WithDetail(name + " must be YYYY-MM-DD")
	}
	t, _ := time.Parse(entity.DateLayout, raw)
	return &t, nil
}

func callerIdentity(r *http.Request) (valueobject.Identity, error) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		return valueobject.Identity{}, domainerr.ErrUnauthenticated
	}
	return identity, nil
}

// writeError serves err and logs anything that is our fault.
func writeError(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	if status := domainerr.GetHTTPStatusCode(err); status >= http.StatusInternalServerError {
		log.Error(r.Context(), "Request failed", err, map[string]interface{}{
			"method": r.Method,
			"path":   r.URL.Path,
			"status": status,
		})
	}
	response.FromError(w, err)
}
