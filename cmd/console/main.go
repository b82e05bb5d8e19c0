package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"instituteweb/admin-console/internal"
	"instituteweb/admin-console/internal/auth"
	"instituteweb/admin-console/internal/config"
	"instituteweb/admin-console/internal/cors"
	"instituteweb/admin-console/internal/export"
	"instituteweb/admin-console/internal/schema"
	"instituteweb/admin-console/internal/session"
	"instituteweb/admin-console/internal/store"
	"instituteweb/admin-console/internal/trace"
	"instituteweb/admin-console/internal/upload"

	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/NYCU-SDC/summer/pkg/middleware"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.6.1"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

var AppName = "no-app-name"

var Version = "no-version"

var BuildTime = "no-build-time"

var CommitHash = "no-commit-hash"

var Environment = "no-env"

func main() {
	AppName = os.Getenv("APP_NAME")
	if AppName == "" {
		AppName = "admin-console"
	}

	if BuildTime == "no-build-time" {
		now := time.Now()
		BuildTime = "not provided (now: " + now.Format(time.RFC3339) + ")"
	}

	Environment = os.Getenv("ENV")
	if Environment == "" {
		Environment = "no-env"
	}

	appMetadata := []zap.Field{
		zap.String("app_name", AppName),
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("commit_hash", CommitHash),
		zap.String("environment", Environment),
	}

	cfg, cfgLog := config.Load()
	err := cfg.Validate()
	if err != nil {
		switch {
		case errors.Is(err, config.ErrBackendBaseURLRequired):
			title := "Backend base URL is required"
			message := "Please set the BACKEND_BASE_URL environment variable or provide a config file with the backend_base_url key."
			log.Fatal(EarlyApplicationFailed(title, message))
		case errors.Is(err, config.ErrNoStaffConfigured):
			title := "No staff accounts configured"
			message := "Add a staff list to the config file, or set ADMIN_USERNAME and ADMIN_PASSWORD_HASH."
			log.Fatal(EarlyApplicationFailed(title, message))
		default:
			log.Fatalf("Failed to validate config: %v, exiting...", err)
		}
	}

	logger, err := initLogger(&cfg, appMetadata)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v, exiting...", err)
	}

	cfgLog.FlushToZap(logger)

	if cfg.Secret == config.DefaultSecret && !cfg.Debug {
		logger.Warn("Default secret detected in production environment, replace it with a secure random string")
		cfg.Secret = uuid.New().String()
	}

	logger.Info("Starting application...")

	shutdown, err := initOpenTelemetry(AppName, Version, BuildTime, CommitHash, Environment, cfg.OtelCollectorUrl)
	if err != nil {
		logger.Fatal("Failed to initialize OpenTelemetry", zap.Error(err))
	}

	registry := schema.Builtin()
	validator := internal.NewValidator(registry.Knows)
	problemWriter := internal.NewProblemWriter()

	// ============================================
	// Service
	// ============================================

	recordStore := store.NewHTTPStore(logger, cfg.BackendBaseURL, cfg.BackendToken, cfg.BackendTimeout)
	uploadGateway := upload.NewHTTPGateway(logger, cfg.UploadBaseURL, cfg.BackendToken, cfg.BackendTimeout)

	staff := make([]auth.Staff, 0, len(cfg.Staff))
	for _, account := range cfg.Staff {
		staff = append(staff, auth.Staff{
			Username:     account.Username,
			Role:         account.Role,
			PasswordHash: account.PasswordHash,
		})
	}
	authService := auth.NewService(logger, cfg.Secret, cfg.AccessTokenExpiration, staff)

	sessionManager := session.NewManager(logger, registry, recordStore, uploadGateway, cfg.SessionTTL)
	exportService := export.NewService(logger, registry, recordStore)

	// ============================================
	// Handler
	// ============================================

	authHandler := auth.NewHandler(logger, validator, problemWriter, authService)
	schemaHandler := schema.NewHandler(logger, problemWriter, registry)
	sessionHandler := session.NewHandler(logger, validator, problemWriter, sessionManager)
	exportHandler := export.NewHandler(logger, problemWriter, exportService)

	// ============================================
	// Middleware
	// ============================================

	traceMiddleware := trace.NewMiddleware(logger, cfg.Debug)
	corsMiddleware := cors.NewMiddleware(logger, cfg.AllowOrigins)
	authMW := auth.NewMiddleware(logger, problemWriter, authService)

	basicMiddleware := middleware.NewSet(traceMiddleware.RecoverMiddleware)
	basicMiddleware = basicMiddleware.Append(traceMiddleware.TraceMiddleware)

	authMiddleware := basicMiddleware.Append(authMW.AuthenticateMiddleware)

	// HTTP Server
	mux := http.NewServeMux()

	mux.Handle("GET /api/healthz", basicMiddleware.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			logger.Error("Failed to write response", zap.Error(err))
		}
	}))

	// Authentication
	// ----------------------
	mux.Handle("POST /api/auth/login", basicMiddleware.HandlerFunc(authHandler.LoginHandler))
	mux.Handle("GET /api/auth/me", authMiddleware.HandlerFunc(authHandler.ProfileHandler))

	// Section schemas
	// ----------------------
	mux.Handle("GET /api/sections", authMiddleware.HandlerFunc(schemaHandler.ListHandler))
	mux.Handle("GET /api/sections/{section}/schema", authMiddleware.HandlerFunc(schemaHandler.GetHandler))
	mux.Handle("GET /api/sections/{section}/export", authMiddleware.HandlerFunc(exportHandler.DownloadHandler))

	// Editor sessions
	// ----------------------
	mux.Handle("POST /api/editor/sessions", authMiddleware.HandlerFunc(sessionHandler.CreateHandler))
	mux.Handle("DELETE /api/editor/sessions/{id}", authMiddleware.HandlerFunc(sessionHandler.CloseHandler))
	mux.Handle("GET /api/editor/sessions/{id}", authMiddleware.HandlerFunc(sessionHandler.SnapshotHandler))
	mux.Handle("POST /api/editor/sessions/{id}/section", authMiddleware.HandlerFunc(sessionHandler.SelectSectionHandler))

	// -- Form lifecycle
	mux.Handle("POST /api/editor/sessions/{id}/form", authMiddleware.HandlerFunc(sessionHandler.OpenFormHandler))
	mux.Handle("POST /api/editor/sessions/{id}/form/fields", authMiddleware.HandlerFunc(sessionHandler.FieldEventHandler))
	mux.Handle("POST /api/editor/sessions/{id}/form/files/{field}", authMiddleware.HandlerFunc(sessionHandler.UploadHandler))
	mux.Handle("POST /api/editor/sessions/{id}/form/submit", authMiddleware.HandlerFunc(sessionHandler.SubmitHandler))
	mux.Handle("POST /api/editor/sessions/{id}/form/cancel", authMiddleware.HandlerFunc(sessionHandler.CancelFormHandler))

	// -- Delete confirmation
	mux.Handle("POST /api/editor/sessions/{id}/delete", authMiddleware.HandlerFunc(sessionHandler.RequestDeleteHandler))
	mux.Handle("POST /api/editor/sessions/{id}/delete/confirm", authMiddleware.HandlerFunc(sessionHandler.ConfirmDeleteHandler))
	mux.Handle("POST /api/editor/sessions/{id}/delete/cancel", authMiddleware.HandlerFunc(sessionHandler.CancelDeleteHandler))

	// End of API routes
	// ============================================
	// handle interrupt signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessionManager.StartJanitor(ctx)

	// CORS and Entry Point
	entrypoint := corsMiddleware.HandlerFunc(mux.ServeHTTP)

	srv := &http.Server{
		Addr:    cfg.Host + ":" + cfg.Port,
		Handler: entrypoint,
	}

	go func() {
		logger.Info("Starting listening request", zap.String("host", cfg.Host), zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Fail to start server with error", zap.Error(err))
		}
	}()

	// wait for context close
	<-ctx.Done()
	logger.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	otelCtx, otelCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer otelCancel()
	if err := shutdown(otelCtx); err != nil {
		logger.Error("Forced to shutdown OpenTelemetry", zap.Error(err))
	}

	logger.Info("Successfully shutdown")
}

func initLogger(cfg *config.Config, appMetadata []zap.Field) (*zap.Logger, error) {
	var err error
	var logger *zap.Logger
	if cfg.Debug {
		logger, err = logutil.ZapDevelopmentConfig().Build()
		if err != nil {
			return nil, err
		}
		logger.Info("Running in debug mode", appMetadata...)
	} else {
		logger, err = logutil.ZapProductionConfig().Build()
		if err != nil {
			return nil, err
		}

		logger = logger.With(appMetadata...)
	}
	defer func() {
		err := logger.Sync()
		if err != nil {
			zap.S().Errorw("Failed to sync logger", zap.Error(err))
		}
	}()

	return logger, nil
}

func initOpenTelemetry(appName, version, buildTime, commitHash, environment, otelCollectorUrl string) (func(context.Context) error, error) {
	ctx := context.Background()

	serviceName := semconv.ServiceNameKey.String(appName)
	serviceVersion := semconv.ServiceVersionKey.String(version)
	serviceNamespace := semconv.ServiceNamespaceKey.String("instituteweb")
	serviceCommitHash := attribute.String("service.commit_hash", commitHash)
	serviceEnvironment := semconv.DeploymentEnvironmentKey.String(environment)

	res, err := resource.New(ctx,
		resource.WithAttributes(
			serviceName,
			serviceVersion,
			serviceNamespace,
			serviceCommitHash,
			serviceEnvironment,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	options := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	}

	if otelCollectorUrl != "" {
		conn, err := initGrpcConn(otelCollectorUrl)
		if err != nil {
			return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
		}

		traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
		if err != nil {
			return nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}

		bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
		options = append(options, sdktrace.WithSpanProcessor(bsp))
	}

	tracerProvider := sdktrace.NewTracerProvider(options...)

	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tracerProvider.Shutdown, nil
}

func initGrpcConn(target string) (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
	}

	return conn, nil
}

func EarlyApplicationFailed(title, action string) string {
	result := `
-----------------------------------------
Application Failed to Start
-----------------------------------------

# What's wrong?
%s

# How to fix it?
%s

`

	result = fmt.Sprintf(result, title, action)

	return result
}
