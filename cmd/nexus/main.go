package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/drystore/nexus/internal/api"
	"github.com/drystore/nexus/internal/auth"
	"github.com/drystore/nexus/internal/config"
	"github.com/drystore/nexus/internal/database"
	"github.com/drystore/nexus/internal/gateway"
	"github.com/drystore/nexus/internal/mailer"
	redisclient "github.com/drystore/nexus/internal/redis"
	"github.com/drystore/nexus/internal/service"
	"github.com/drystore/nexus/internal/snowflake"
	"github.com/drystore/nexus/internal/storage"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	// --- Infrastructure ---

	pool, err := database.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	rdb, err := redisclient.NewClient(cfg.RedisURL)
	if err != nil {
		slog.Error("redis", "error", err)
		os.Exit(1)
	}
	defer rdb.Close()

	objects, err := storage.NewMinIOClient(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOBucket)
	if err != nil {
		slog.Error("minio", "error", err)
		os.Exit(1)
	}

	sf, err := snowflake.NewGenerator(cfg.NodeID)
	if err != nil {
		slog.Error("snowflake", "error", err)
		os.Exit(1)
	}
	tokenSvc := auth.NewTokenService(cfg.JWTSecret)
	mail := mailer.NewSMTPMailer(cfg.SMTPAddr, cfg.SMTPFrom, cfg.SMTPUsername, cfg.SMTPPassword)

	// --- Repositories ---

	users := database.NewUserRepository(pool)
	profiles := database.NewProfileRepository(pool)
	positions := database.NewPositionRepository(pool)
	channels := database.NewChannelRepository(pool)
	members := database.NewMemberRepository(pool)
	dms := database.NewDMChannelRepository(pool)
	messages := database.NewMessageRepository(pool)
	attachments := database.NewAttachmentRepository(pool)
	documents := database.NewDocumentRepository(pool)
	documentReads := database.NewDocumentReadRepository(pool)
	announcements := database.NewAnnouncementRepository(pool)
	readStates := database.NewReadStateRepository(pool)
	invitations := database.NewInvitationRepository(pool)
	activities := database.NewActivityRepository(pool)

	// --- Gateway ---

	gwManager := gateway.NewManager(tokenSvc, channels, dms, readStates, rdb)
	typing := gateway.NewTypingNotifier(rdb, gwManager)
	presence := gateway.NewPresenceService(rdb)

	// --- Services ---

	authSvc := service.NewAuthService(users, channels, members, tokenSvc, rdb)
	userSvc := service.NewUserService(users, profiles)
	directorySvc := service.NewDirectoryService(profiles, positions, sf)
	channelSvc := service.NewChannelService(channels, members, dms, activities, sf, gwManager)
	dmSvc := service.NewDMService(dms, users, sf, gwManager)
	messageSvc := service.NewMessageService(messages, members, attachments, readStates, activities,
		dms, profiles, channelSvc, sf, gwManager, typing)
	documentSvc := service.NewDocumentService(documents, documentReads, activities, sf, gwManager)
	announcementSvc := service.NewAnnouncementService(announcements, activities, sf, gwManager)
	invitationSvc := service.NewInvitationService(invitations, users, profiles, channels, members,
		mail, sf, cfg.BaseURL)
	notificationSvc := service.NewNotificationService(readStates, messages, announcements, documentReads)
	activitySvc := service.NewActivityService(activities)
	uploadSvc := service.NewUploadService(attachments, profiles, documents, announcements, objects, sf)
	exportSvc := service.NewExportService(channels, dms, messages)

	// --- Handlers ---

	deps := &api.Dependencies{
		Auth:          api.NewAuthHandler(authSvc),
		Users:         api.NewUserHandler(userSvc, notificationSvc, presence),
		Directory:     api.NewDirectoryHandler(directorySvc),
		Channels:      api.NewChannelHandler(channelSvc),
		DMs:           api.NewDMHandler(dmSvc),
		Messages:      api.NewMessageHandler(messageSvc),
		Documents:     api.NewDocumentHandler(documentSvc),
		Announcements: api.NewAnnouncementHandler(announcementSvc),
		Invitations:   api.NewInvitationHandler(invitationSvc),
		Uploads:       api.NewUploadHandler(uploadSvc),
		Activity:      api.NewActivityHandler(activitySvc),
		Admin:         api.NewAdminHandler(userSvc, exportSvc),
		Gateway:       gwManager,
		TokenService:  tokenSvc,
		Redis:         rdb,
	}

	// --- Echo ---

	e := echo.New()
	e.HidePort = true
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	api.SetupRouter(e, deps)

	// --- Start ---

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("nexus starting", "addr", cfg.ServerAddr)
		if err := e.Start(cfg.ServerAddr); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-sigCtx.Done()
	slog.Info("shutting down")
	if err := e.Shutdown(context.Background()); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
