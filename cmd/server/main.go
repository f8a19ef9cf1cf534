package main

import (
	"context"
	"log"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/coachboard/api/handler"
	"github.com/fastygo/coachboard/domain"
	"github.com/fastygo/coachboard/internal/config"
	"github.com/fastygo/coachboard/internal/infrastructure/gemini"
	"github.com/fastygo/coachboard/internal/infrastructure/google"
	"github.com/fastygo/coachboard/internal/infrastructure/monitor"
	"github.com/fastygo/coachboard/internal/middleware"
	"github.com/fastygo/coachboard/internal/router"
	"github.com/fastygo/coachboard/internal/services"
	"github.com/fastygo/coachboard/internal/services/lifecycle"
	"github.com/fastygo/coachboard/pkg/httpcontext"
	"github.com/fastygo/coachboard/pkg/logger"
	"github.com/fastygo/coachboard/repository/memory"
	calendarUC "github.com/fastygo/coachboard/usecase/calendar"
	"github.com/fastygo/coachboard/usecase/coach"
	taskUC "github.com/fastygo/coachboard/usecase/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
		Service:  cfg.AppName,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	var (
		seedTasks  []domain.Task
		seedEvents []domain.CalendarEvent
	)
	if cfg.Coach.SeedSample {
		seedTasks = memory.SampleTasks()
		seedEvents = memory.SampleEvents()
	}
	taskRepo := memory.NewTaskRepository(seedTasks...)
	eventRepo := memory.NewEventRepository(seedEvents...)

	conns := monitor.New(zapLogger)
	conns.ConfigureAI(cfg.Gemini.APIKey != "")

	ai := gemini.New(gemini.Config{
		APIKey:   cfg.Gemini.APIKey,
		Endpoint: cfg.Gemini.Endpoint,
		Timeout:  cfg.Gemini.Timeout,
	}, zapLogger)

	provider := google.NewCalendarProvider(google.Config{
		ClientID:     cfg.Calendar.ClientID,
		ClientSecret: cfg.Calendar.ClientSecret,
		APIKey:       cfg.Calendar.APIKey,
		RedirectURL:  cfg.Calendar.RedirectURL,
	}, google.WebAuthorizer(cfg.Calendar.SignInTimeout, zapLogger), zapLogger)

	calendarClient := calendarUC.New(calendarUC.Config{
		ClientID: cfg.Calendar.ClientID,
		APIKey:   cfg.Calendar.APIKey,
		Timeout:  cfg.Calendar.Timeout,
	}, provider, eventRepo, conns, zapLogger)
	if !calendarClient.Available() {
		zapLogger.Warn("calendar credentials missing, connect is disabled")
	}

	if cfg.Calendar.RefreshSpec != "" {
		refresher, err := services.NewCalendarRefresher(calendarClient, zapLogger, services.RefresherConfig{
			Spec:    cfg.Calendar.RefreshSpec,
			Timeout: cfg.Calendar.Timeout,
		})
		if err != nil {
			zapLogger.Fatal("calendar refresher setup failed", zap.Error(err))
		}
		refresher.Start()
		manager.Register("calendar_refresher", func(ctx context.Context) error {
			refresher.Stop(ctx)
			return nil
		})
	}

	persona, err := coach.LoadPersona(cfg.Coach.PersonaFile)
	if err != nil {
		zapLogger.Fatal("coach persona load failed", zap.Error(err))
	}
	session := coach.NewSession(ai, taskRepo, eventRepo, coach.NewPromptBuilder(persona), zapLogger)

	taskUseCase := taskUC.New(taskRepo, eventRepo, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	// Chat waits on the model, connect waits on the user's consent.
	chatAdapter := httpcontext.NewAdapter(cfg.Gemini.Timeout + cfg.Context.RequestTimeout)
	connectTimeout := cfg.Calendar.SignInTimeout + 2*cfg.Calendar.Timeout

	handlers := router.Handlers{
		Task:     apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Calendar: apiHandler.NewCalendarHandler(calendarClient, ctxAdapter, zapLogger, connectTimeout),
		Coach:    apiHandler.NewCoachHandler(session, chatAdapter, zapLogger),
		Health:   apiHandler.NewHealthHandler(conns, ctxAdapter, zapLogger),
	}

	r := router.New(handlers, middleware.AccessLog(zapLogger))

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Concurrency:  cfg.HTTP.MaxConn,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("connection", string(conns.GetStatus().Display())),
		)
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
