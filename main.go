package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/Nbuilt/ish-vaqti-bot/internal/access"
	"github.com/Nbuilt/ish-vaqti-bot/internal/admin"
	"github.com/Nbuilt/ish-vaqti-bot/internal/digest"
	"github.com/Nbuilt/ish-vaqti-bot/internal/engine"
	"github.com/Nbuilt/ish-vaqti-bot/internal/ledger"
	"github.com/Nbuilt/ish-vaqti-bot/internal/platform/config"
	"github.com/Nbuilt/ish-vaqti-bot/internal/session"
	"github.com/Nbuilt/ish-vaqti-bot/internal/stats"
	"github.com/Nbuilt/ish-vaqti-bot/internal/transport"
)

func main() {
	cfg, err := config.LoadConfig("config/config.yaml")
	if err != nil {
		log.Fatalf("[FATAL] %v", err)
	}
	log.Printf("[INFO] mode:%s timezone:%s", cfg.Mode, cfg.Timezone)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	led, err := ledger.NewSheetsLedger(ctx, ledger.SheetsConfig{
		CredentialsFile: cfg.Sheets.CredentialsFile,
		SpreadsheetID:   cfg.Sheets.SpreadsheetID,
		AttendanceTab:   cfg.Sheets.AttendanceTab,
		AccessTab:       cfg.Sheets.AccessTab,
		CalcTab:         cfg.Sheets.CalcTab,
		Timeout:         cfg.Sheets.Timeout(),
	})
	if err != nil {
		log.Fatalf("[FATAL] %v", err)
	}
	log.Printf("[INFO] ledger: spreadsheet %s", cfg.Sheets.SpreadsheetID)

	loc := cfg.Location()
	agg := stats.NewAggregator(led)
	eng := engine.New(session.NewStore(), access.NewGate(led), led, agg, loc)

	bot, err := transport.NewBot(cfg.Bot.Token, eng, cfg.Bot.AdminChatID)
	if err != nil {
		log.Fatalf("[FATAL] %v", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := bot.Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	if cfg.Digest.Enabled {
		job := digest.NewJob(led, agg, bot, loc, cfg.Digest.At)
		g.Go(func() error {
			log.Printf("[INFO] daily digest scheduled at %s", cfg.Digest.At)
			err := job.Run(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	if cfg.Admin.Addr != "" {
		gin.SetMode(gin.ReleaseMode)
		r := gin.New()
		r.Use(gin.Logger(), gin.Recovery())
		_ = r.SetTrustedProxies(nil)

		if cfg.Mode == "dev" {
			// CORS is only needed while the operator UI runs off localhost
			r.Use(cors.New(cors.Config{
				AllowOrigins:     []string{"http://localhost:3000"},
				AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
				AllowMethods:     []string{"GET", "POST", "OPTIONS"},
				AllowCredentials: true,
			}))
		}

		r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
		admin.RegisterRoutes(r.Group("/api/v1"),
			admin.NewService(led, agg, cfg.Admin.JWTSecret, cfg.Admin.PasswordHash))

		srv := &http.Server{Addr: cfg.Admin.Addr, Handler: r}
		g.Go(func() error {
			log.Printf("[INFO] admin API listening on %s", cfg.Admin.Addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	if err := g.Wait(); err != nil {
		log.Fatalf("[FATAL] %v", err)
	}
	log.Println("[INFO] shut down")
}
