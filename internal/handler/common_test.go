package handler

import (
    "errors"
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/cinema-booking-engine/internal/repository"
)

func record(t *testing.T, err error) *httptest.ResponseRecorder {
    t.Helper()
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/", nil)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    require.NoError(t, writeError(c, err))
    return rec
}

func TestWriteErrorStatusMapping(t *testing.T) {
    cases := []struct {
        name string
        err  error
        want int
    }{
        {"duplicate key", &repository.DuplicateKeyError{Field: "bid", Value: "1"}, http.StatusConflict},
        {"not found", &repository.NotFoundError{Entity: "booking", Field: "bid", Value: "1"}, http.StatusNotFound},
        {"seat unavailable", repository.ErrSeatUnavailable, http.StatusConflict},
        {"constraint violation", &repository.ConstraintViolationError{Reason: "price mismatch"}, http.StatusUnprocessableEntity},
        {"transient", &repository.TransientError{Op: "query", Err: errors.New("gone")}, http.StatusServiceUnavailable},
        {"unknown", errors.New("boom"), http.StatusInternalServerError},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            rec := record(t, tc.err)
            assert.Equal(t, tc.want, rec.Code)
        })
    }
}

func TestWriteErrorWrappedStillMaps(t *testing.T) {
    // A wrapped sentinel maps by the inner error, not the wrapper.
    err := &repository.TransientError{Op: "claim seat", Err: repository.ErrSeatUnavailable}
    rec := record(t, err)
    assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestPathID(t *testing.T) {
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/", nil)
    c := e.NewContext(req, httptest.NewRecorder())
    c.SetParamNames("id")

    c.SetParamValues("42")
    id, ok := pathID(c, "id")
    require.True(t, ok)
    assert.Equal(t, uint64(42), id)

    for _, bad := range []string{"0", "-1", "abc", ""} {
        c.SetParamValues(bad)
        _, ok := pathID(c, "id")
        assert.False(t, ok, "value %q should be rejected", bad)
    }
}
