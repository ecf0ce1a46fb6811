// Package router wires the HTTP routes to their handlers and applies
// the middleware each group needs.
package router

import (
    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/cinema-booking-engine/internal/config"
    "github.com/iliyamo/cinema-booking-engine/internal/handler"
    "github.com/iliyamo/cinema-booking-engine/internal/middleware"
)

// RegisterRoutes registers routes that need no authentication: the
// health check, user registration, and the public booking operations.
func RegisterRoutes(e *echo.Echo, b *handler.BookingHandler, cat *handler.CatalogHandler) {
    e.GET("/healthz", handler.Health)

    e.POST("/v1/users", cat.RegisterUser)
    e.POST("/v1/payments", cat.CreatePayment)

    // Booking lifecycle: create, attach a seat, swap to an equivalent
    // seat.  These carry no session; the booking id is the handle.
    e.POST("/v1/bookings", b.CreateBooking)
    e.POST("/v1/bookings/:id/seats", b.AssignSeat)
    e.POST("/v1/bookings/:id/seats/reassign", b.ReassignSeat)
    e.GET("/v1/seats/:id/equivalent", b.EquivalentSeats)
}

// RegisterAdmin registers the operator endpoints under /v1/admin.
// Every route requires a valid token carrying the ADMIN role.
func RegisterAdmin(e *echo.Echo, b *handler.BookingHandler, cat *handler.CatalogHandler, jwtSecret string) {
    g := e.Group("/v1/admin")
    g.Use(middleware.JWTAuth(jwtSecret))
    g.Use(middleware.RequireRole("ADMIN"))

    g.POST("/movies", cat.CreateMovie)
    g.POST("/shows", cat.CreateShowing)

    // Sweeps and destructive maintenance.
    g.POST("/bookings/cancel-pending", b.CancelPending)
    g.POST("/bookings/clear-cancelled", b.ClearCancelled)
    g.DELETE("/payments/:id", b.RemovePayment)
    g.DELETE("/shows", b.RemoveShows)
}

// RegisterReports registers the read-only report endpoints, wrapped in
// the Redis response cache when one is available.
func RegisterReports(e *echo.Echo, r *handler.ReportHandler, cacheCfg config.CacheConfig, rdb *redis.Client) {
    g := e.Group("/v1/reports")
    g.Use(middleware.ReportCache(cacheCfg, rdb))

    g.GET("/shows", r.ShowsStartingAt)
    g.GET("/shows/:id/theaters", r.TheatersPlayingShow)
    g.GET("/movies", r.MovieTitles)
    g.GET("/users/pending", r.PendingBookers)
    g.GET("/users/:email/bookings", r.UserBookings)
    g.GET("/cinemas/:id/shows", r.CinemaShowings)
}
