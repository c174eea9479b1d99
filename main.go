package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"

	"github.com/saitalent/sporty/analysis"
	"github.com/saitalent/sporty/assessment"
	"github.com/saitalent/sporty/config"
	"github.com/saitalent/sporty/db"
	"github.com/saitalent/sporty/handlers"
	"github.com/saitalent/sporty/leaderboard"
	applog "github.com/saitalent/sporty/logger"
	"github.com/saitalent/sporty/metrics"
	mw "github.com/saitalent/sporty/middleware"
	"github.com/saitalent/sporty/storage"
	"github.com/saitalent/sporty/store"
)

func main() {
	cfg := config.Load()
	logger, err := applog.New(cfg.Debug)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	bdb := db.Setup(cfg)
	defer bdb.Close()

	if err := db.CreateTables(context.Background(), bdb); err != nil {
		logger.Fatal("create tables failed", zap.Error(err))
	}

	st := store.New(bdb)

	blobs, err := storage.NewDisk(cfg.VideoDir, cfg.VideoBaseURL)
	if err != nil {
		logger.Fatal("video storage setup failed", zap.Error(err))
	}

	dispatcher := analysis.NewDispatcher(cfg.AnalysisWorkers, cfg.AnalysisTimeout)
	svc := assessment.New(st, dispatcher, logger, cfg.CheatThreshold)

	var analyzer analysis.Analyzer = &analysis.Simulated{Delay: 2 * time.Second}
	if cfg.AnalysisWorkerURL != "" {
		analyzer = analysis.NewWebhookNotifier(cfg.AnalysisWorkerURL)
	}
	sink := func(ctx context.Context, recordingID int64, attempt int, out analysis.Outcome) error {
		rec, err := svc.ApplyAnalysisResult(ctx, recordingID, attempt, out)
		if rec != nil {
			metrics.AnalysisResults.WithLabelValues(rec.ProcessingStatus).Inc()
		}
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go dispatcher.Start(ctx, analyzer, svc.MarkAnalysisStage, sink)
	boards := leaderboard.New(st, logger, cfg.LeaderboardInterval)
	go boards.Run(ctx)

	h := handlers.New(st, svc, blobs)
	verifier := mw.NewJWTVerifier(cfg.JWTKey())

	e := echo.New()
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod: true,
		LogURI:    true,
		LogStatus: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.Int("status", v.Status),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			switch {
			case v.Status >= 500:
				logger.Error("http request", fields...)
			case v.Status >= 400:
				logger.Warn("http request", fields...)
			default:
				logger.Info("http request", fields...)
			}
			return nil
		},
	}))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"*", "Authorization"},
		AllowCredentials: true,
	}))

	// Public
	e.GET("/health", h.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/api/stats", h.PlatformStats)
	e.GET("/api/tests", h.FitnessTests)
	e.GET("/api/device/optimization", h.DeviceOptimization)
	e.Static("/videos", blobs.Dir())

	// Athlete – require valid JWT in Authorization header
	api := e.Group("/api", mw.Auth(verifier))
	api.POST("/athletes", h.RegisterAthlete)
	api.GET("/athletes/me", h.Me)
	api.PUT("/athletes/me", h.UpdateMe)
	api.GET("/athletes/me/summary", h.Summary)
	api.GET("/athletes/me/badges", h.Badges)
	api.GET("/tests/:id/benchmark", h.BenchmarkComparison)
	api.POST("/sessions", h.StartSession)
	api.GET("/sessions", h.Sessions)
	api.GET("/sessions/:id", h.Session)
	api.POST("/sessions/:id/recordings", h.UploadRecording)
	api.POST("/sessions/:id/submit", h.SubmitToSAI)
	api.GET("/recordings/:id/status", h.RecordingStatus)
	api.POST("/recordings/:id/retry", h.RetryAnalysis)
	api.GET("/leaderboard", h.Leaderboard)
	api.GET("/leaderboard/me", h.MyRankings)
	api.GET("/submissions", h.MySubmissions)

	// External analysis workers
	worker := e.Group("/api/analysis", mw.Auth(verifier), mw.RequireRole(mw.RoleWorker))
	worker.POST("/results", h.AnalysisResult)

	// SAI officials
	sai := e.Group("/api/sai", mw.Auth(verifier), mw.RequireRole(mw.RoleOfficial))
	sai.GET("/submissions", h.AllSubmissions)
	sai.POST("/submissions/:id/review", h.ReviewSubmission)
	sai.POST("/recordings/:id/verify", h.VerifyRecording)
	sai.POST("/leaderboard/recompute", func(c echo.Context) error {
		if err := boards.RecomputeAll(c.Request().Context()); err != nil {
			return err
		}
		return c.NoContent(http.StatusAccepted)
	})

	if cfg.Debug {
		logger.Info("starting server", zap.String("mode", "debug"), zap.String("addr", cfg.Port))
		if err := e.Start(cfg.Port); err != nil {
			logger.Fatal("server exited", zap.Error(err))
		}
		return
	}

	autoTLS := &autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		Cache:      autocert.DirCache(".cache"),
		HostPolicy: autocert.HostWhitelist(cfg.TLSDomains...),
	}

	s := &http.Server{
		Addr:         ":443",
		Handler:      e,
		TLSConfig:    autoTLS.TLSConfig(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	if err := s.ListenAndServeTLS("", ""); err != http.ErrServerClosed {
		logger.Error("tls server exited", zap.Error(err))
		os.Exit(1)
	}
}
