package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/cinema-booking-engine/internal/config"
)

func TestPayloadRoundTrip(t *testing.T) {
    hdr := http.Header{"Content-Type": {"application/json"}}
    body := []byte(`{"items":[]}`)

    bs, err := encodePayload(http.StatusOK, hdr, body)
    require.NoError(t, err)

    status, gotHdr, gotBody, ok := decodePayload(bs)
    require.True(t, ok)
    assert.Equal(t, http.StatusOK, status)
    assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
    assert.Equal(t, body, gotBody)
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
    for _, bs := range [][]byte{nil, []byte("short"), {0, 0, 0, 200, 0, 0, 0, 99}} {
        _, _, _, ok := decodePayload(bs)
        assert.False(t, ok)
    }
}

func TestCacheKeyStrategies(t *testing.T) {
    e := echo.New()
    newCtx := func(query string) echo.Context {
        req := httptest.NewRequest(http.MethodGet, "/v1/reports/shows?"+query, nil)
        c := e.NewContext(req, httptest.NewRecorder())
        c.SetPath("/v1/reports/shows")
        return c
    }
    cfg := config.CacheConfig{Prefix: "reports", KeyStrategy: "route_query"}

    a := cacheKey(cfg, newCtx("date=2026-03-14"))
    b := cacheKey(cfg, newCtx("date=2026-03-15"))
    assert.NotEqual(t, a, b, "query must contribute to the key")

    cfg.KeyStrategy = "route"
    a = cacheKey(cfg, newCtx("date=2026-03-14"))
    b = cacheKey(cfg, newCtx("date=2026-03-15"))
    assert.Equal(t, a, b, "route-only strategy ignores the query")
}

func TestReportCacheDisabledPassesThrough(t *testing.T) {
    e := echo.New()
    mw := ReportCache(config.CacheConfig{Enabled: false}, nil)
    h := mw(func(c echo.Context) error {
        return c.String(http.StatusOK, "fresh")
    })

    req := httptest.NewRequest(http.MethodGet, "/v1/reports/shows", nil)
    rec := httptest.NewRecorder()
    require.NoError(t, h(e.NewContext(req, rec)))
    assert.Equal(t, "fresh", rec.Body.String())
    assert.Empty(t, rec.Header().Get("X-Cache"))
}
