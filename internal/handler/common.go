// Package handler defines the HTTP handlers exposed by the booking
// engine: booking operations, catalog creation, read-only reports and
// the health check.  Handlers translate the store's typed errors into
// HTTP status codes and never swallow a domain error.
package handler

import (
    "errors"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/cinema-booking-engine/internal/repository"
)

// writeError maps the repository error taxonomy onto HTTP responses:
// duplicate keys and lost seat claims are conflicts, missing
// references are not found, failed matching rules are unprocessable,
// and transient storage failures tell the client to retry.
func writeError(c echo.Context, err error) error {
    var dup *repository.DuplicateKeyError
    var nf *repository.NotFoundError
    var cv *repository.ConstraintViolationError
    var tr *repository.TransientError
    switch {
    case errors.As(err, &dup):
        return c.JSON(http.StatusConflict, echo.Map{"error": dup.Error()})
    case errors.As(err, &nf):
        return c.JSON(http.StatusNotFound, echo.Map{"error": nf.Error()})
    case errors.Is(err, repository.ErrSeatUnavailable):
        return c.JSON(http.StatusConflict, echo.Map{"error": "seat unavailable"})
    case errors.As(err, &cv):
        return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": cv.Error()})
    case errors.As(err, &tr):
        return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage temporarily unavailable"})
    default:
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
    }
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    if err != nil || id == 0 {
        return 0, false
    }
    return id, true
}
