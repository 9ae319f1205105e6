package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/trip-planner/internal/domain"
)

// pathID binds a required path parameter holding a 24-character hex id.
func pathID(r *http.Request, name string) (domain.ID, error) {
	var raw string
	if err := bindPath(r, name, &raw); err != nil {
		return domain.NilID, err
	}
	return parseID(name, raw)
}

// pathInt binds a required integer path parameter.
func pathInt(r *http.Request, name string) (int, error) {
	var n int
	if err := bindPath(r, name, &n); err != nil {
		return 0, err
	}
	return n, nil
}

// pathString binds a required string path parameter.
func pathString(r *http.Request, name string) (string, error) {
	var s string
	if err := bindPath(r, name, &s); err != nil {
		return "", err
	}
	return s, nil
}

func bindPath(r *http.Request, name string, dest any) error {
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), dest,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	return nil
}

// queryString binds an optional query parameter. Missing yields "".
func queryString(r *http.Request, name string) (string, error) {
	var v *string
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &v); err != nil {
		return "", fmt.Errorf("invalid %s: %w", name, err)
	}
	if v == nil {
		return "", nil
	}
	return *v, nil
}

// parseID converts a wire id into a domain.ID, naming the field on failure.
func parseID(name, raw string) (domain.ID, error) {
	id, err := domain.ParseID(raw)
	if err != nil {
		return domain.NilID, fmt.Errorf("invalid %s: %q is not a valid id", name, raw)
	}
	return id, nil
}
