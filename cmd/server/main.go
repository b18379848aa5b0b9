package main

import (
	"context"
	"log"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"panel-dashboard/internal/audit"
	"panel-dashboard/internal/backend"
	"panel-dashboard/internal/config"
	"panel-dashboard/internal/http/handler"
	"panel-dashboard/internal/http/router"
	"panel-dashboard/internal/realtime"
	"panel-dashboard/internal/session"
	"panel-dashboard/internal/tickets"

	"github.com/jonboulle/clockwork"
)

// sessionTTL bounds how long an abandoned flag can sit in Redis. The idle
// timeout decides expiry; this only cleans up.
const sessionTTL = 24 * time.Hour

func main() {
	runtime.GOMAXPROCS(runtime.NumCPU())

	config.LoadEnv()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config: ", err)
	}
	config.InitRedis(cfg)
	config.InitDB(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var recorder audit.Recorder = audit.Nop{}
	if config.DB != nil {
		defer config.DB.Close()
		mysqlRecorder := audit.NewMySQLRecorder(config.DB)
		if err := mysqlRecorder.EnsureSchema(ctx); err != nil {
			log.Fatal("audit schema: ", err)
		}
		recorder = mysqlRecorder
	}

	clock := clockwork.NewRealClock()
	monitor := session.NewMonitor(session.NewRedisStore(config.Redis, sessionTTL), clock, cfg.IdleTimeout, cfg.CheckInterval)
	hub := realtime.NewSessionHub()

	monitor.Subscribe(hub.Publish)
	monitor.Subscribe(audit.ExpiryObserver(ctx, recorder))

	go hub.Run(ctx)
	go monitor.Run(ctx)

	h := handler.New(handler.Deps{
		Config:  cfg,
		API:     backend.NewClient(cfg.APIURL, cfg.APITimeout),
		Monitor: monitor,
		Tickets: tickets.NewEngine(clock, time.Local),
		Hub:     hub,
		Audit:   recorder,
		Captcha: config.NewRecaptchaVerifier(cfg.RecaptchaSecret),
	})
	app := router.New(cfg, h, router.Options{AccessLog: true})

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Println("shutdown:", err)
		}
	}()

	log.Println("Dashboard listening on", cfg.Addr(), "- maintenance API", cfg.APIURL)
	if err := app.Listen(cfg.Addr()); err != nil {
		log.Fatal(err)
	}
}
