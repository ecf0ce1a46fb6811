package main

import (
    "context"
    "log"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/cinema-booking-engine/internal/config"
    "github.com/iliyamo/cinema-booking-engine/internal/database"
    "github.com/iliyamo/cinema-booking-engine/internal/handler"
    "github.com/iliyamo/cinema-booking-engine/internal/queue"
    "github.com/iliyamo/cinema-booking-engine/internal/repository"
    "github.com/iliyamo/cinema-booking-engine/internal/router"
    "github.com/iliyamo/cinema-booking-engine/internal/service"
)

func main() {
    // .env is a convenience for local runs; real deployments set the
    // environment directly.
    _ = godotenv.Load()
    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    defer db.Close()
    if err := database.EnsureSchema(context.Background(), db); err != nil {
        log.Fatalf("database: %v", err)
    }

    bookings := repository.NewBookingRepo(db)
    seats := repository.NewShowSeatRepo(db)
    payments := repository.NewPaymentRepo(db)
    shows := repository.NewShowRepo(db)
    users := repository.NewUserRepo(db)
    catalog := repository.NewCatalogRepo(db)
    reports := repository.NewReportRepo(db)
    txm := repository.NewTxManager(db)

    svc := service.NewBookingService(txm, bookings, seats, payments, shows, users, queue.NewPublisher())

    bookingH := handler.NewBookingHandler(svc)
    catalogH := handler.NewCatalogHandler(users, bookings, payments, catalog, seats, txm, cfg.BcryptCost)
    reportH := handler.NewReportHandler(reports)

    // The audit consumer drains the engine's event queues into the
    // local audit log; it reconnects on its own if the broker drops.
    go func() {
        if err := queue.StartAuditConsumer(); err != nil {
            log.Printf("audit consumer stopped: %v", err)
        }
    }()

    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Printf("redis unavailable, report cache disabled")
    }

    e := echo.New()
    router.RegisterRoutes(e, bookingH, catalogH)
    router.RegisterAdmin(e, bookingH, catalogH, cfg.JWTSecret)
    router.RegisterReports(e, reportH, config.LoadCacheConfig(), rdb)

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)
    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}
