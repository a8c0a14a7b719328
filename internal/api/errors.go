package api

import (
	"errors"
	"net/http"

	"github.com/ivcompat/ivcompat/internal/infusion"
	"github.com/ivcompat/ivcompat/internal/solver"
	"github.com/ivcompat/ivcompat/internal/store"
)

// MalformedRequestError reports a request whose "num_ivs"/"ivs"/"add"
// parameters could not be parsed into a well-formed solver input.
type MalformedRequestError struct {
	Reason string
}

func (e MalformedRequestError) Error() string {
	return e.Reason
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	var malformedCatalog infusion.MalformedCatalogError
	var unknownInfusion store.ErrUnknownInfusion
	var unavailable store.ErrUnavailable
	var conflict solver.ConflictError
	var unknownSeed solver.UnknownSeedError
	var malformedRequest MalformedRequestError

	switch {
	case errors.As(err, &malformedRequest):
		return http.StatusBadRequest
	case errors.As(err, &unknownInfusion):
		return http.StatusUnprocessableEntity
	case errors.As(err, &malformedCatalog):
		return http.StatusUnprocessableEntity
	case errors.As(err, &conflict):
		return http.StatusUnprocessableEntity
	case errors.As(err, &unknownSeed):
		return http.StatusUnprocessableEntity
	case errors.As(err, &unavailable):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
