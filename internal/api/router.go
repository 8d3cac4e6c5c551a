package api

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/drystore/nexus/internal/auth"
	"github.com/drystore/nexus/internal/gateway"
	"github.com/drystore/nexus/internal/redis"
)

// Dependencies holds all handler instances and middleware for route wiring.
type Dependencies struct {
	Auth          *AuthHandler
	Users         *UserHandler
	Directory     *DirectoryHandler
	Channels      *ChannelHandler
	DMs           *DMHandler
	Messages      *MessageHandler
	Documents     *DocumentHandler
	Announcements *AnnouncementHandler
	Invitations   *InvitationHandler
	Uploads       *UploadHandler
	Activity      *ActivityHandler
	Admin         *AdminHandler
	Gateway       *gateway.Manager

	TokenService *auth.TokenService
	Redis        *redis.Client
}

// SetupRouter registers all API routes on the Echo instance.
func SetupRouter(e *echo.Echo, deps *Dependencies) {
	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// WebSocket gateway
	e.GET("/gateway", deps.Gateway.HandleWebSocket)

	v1 := e.Group("/api/v1")

	// Auth routes — no auth middleware, stricter rate limit
	authGroup := v1.Group("/auth",
		RateLimitMiddleware(deps.Redis, 5, time.Minute),
	)
	authGroup.POST("/login", deps.Auth.Login)
	authGroup.POST("/refresh", deps.Auth.Refresh)

	// Public invitation routes — no auth required
	inviteGroup := v1.Group("/invitations",
		RateLimitMiddleware(deps.Redis, 10, time.Minute),
	)
	inviteGroup.GET("/:token", deps.Invitations.GetInvitation)
	inviteGroup.POST("/:token/accept", deps.Invitations.AcceptInvitation)

	// Protected routes — require JWT auth + general rate limit
	authMw := deps.TokenService.Middleware()
	protected := v1.Group("", authMw,
		RateLimitMiddleware(deps.Redis, 120, time.Minute),
	)

	// Auth (protected)
	protected.POST("/auth/logout", deps.Auth.Logout)

	// Current user
	protected.GET("/users/@me", deps.Users.GetMe)
	protected.PATCH("/users/@me", deps.Users.UpdateMe)
	protected.POST("/users/@me/avatar", deps.Uploads.UploadAvatar)
	protected.GET("/users/@me/notifications", deps.Users.GetNotifications)
	protected.GET("/users/@me/read-states", deps.Users.GetReadStates)
	protected.GET("/users/:id/presence", deps.Users.GetPresence)

	// Directory and positions
	protected.GET("/directory", deps.Directory.Search)
	protected.GET("/positions", deps.Directory.ListPositions)

	// Channels
	protected.POST("/channels", deps.Channels.CreateChannel)
	protected.GET("/channels", deps.Channels.ListChannels)
	protected.GET("/conversations", deps.Channels.ListConversations)
	protected.GET("/channels/:id", deps.Channels.GetChannel)
	protected.PATCH("/channels/:id", deps.Channels.UpdateChannel)
	protected.DELETE("/channels/:id", deps.Channels.DeleteChannel)

	// Membership
	protected.PUT("/channels/:id/members/@me", deps.Channels.JoinChannel)
	protected.DELETE("/channels/:id/members/@me", deps.Channels.LeaveChannel)
	protected.POST("/channels/:id/members", deps.Channels.AddMember)
	protected.GET("/channels/:id/members", deps.Channels.ListMembers)
	protected.PATCH("/channels/:id/members/:user_id/role", deps.Channels.SetMemberRole)

	// Direct messages
	protected.POST("/dms", deps.DMs.OpenDM)
	protected.GET("/dms", deps.DMs.ListDMs)

	// Messages
	protected.POST("/channels/:id/messages", deps.Messages.SendMessage)
	protected.GET("/channels/:id/messages", deps.Messages.GetMessages)
	protected.GET("/channels/:id/messages/search", deps.Messages.SearchMessages)
	protected.PATCH("/channels/:id/messages/:message_id", deps.Messages.EditMessage)
	protected.DELETE("/channels/:id/messages/:message_id", deps.Messages.DeleteMessage)
	protected.POST("/channels/:id/ack/:message_id", deps.Messages.AckMessages)
	protected.POST("/channels/:id/typing", deps.Messages.Typing)

	// Documents
	protected.POST("/documents", deps.Documents.CreateDocument)
	protected.GET("/documents", deps.Documents.ListDocuments)
	protected.GET("/documents/:id", deps.Documents.GetDocument)
	protected.PUT("/documents/:id", deps.Documents.UpdateDocument)
	protected.POST("/documents/:id/scrolled", deps.Documents.MarkScrolled)
	protected.POST("/documents/:id/confirm", deps.Documents.ConfirmRead)
	protected.GET("/documents/:id/progress", deps.Documents.GetReadProgress)
	protected.POST("/documents/:id/attachments", deps.Uploads.UploadDocumentAttachment)

	// Announcements
	protected.GET("/announcements", deps.Announcements.ListAnnouncements)
	protected.GET("/announcements/:id", deps.Announcements.GetAnnouncement)
	protected.POST("/announcements/:id/read", deps.Announcements.MarkRead)

	// Uploads
	protected.POST("/uploads/attachments", deps.Uploads.UploadAttachment)
	protected.GET("/attachments/:id/url", deps.Uploads.GetDownloadURL)

	// Activity feed
	protected.GET("/activity", deps.Activity.GetFeed)

	// Admin console — site admin only
	admin := protected.Group("/admin", auth.RequireAdmin())
	admin.GET("/users", deps.Admin.ListUsers)
	admin.PATCH("/users/:id", deps.Admin.UpdateUser)
	admin.POST("/invitations", deps.Invitations.CreateInvitation)
	admin.GET("/invitations", deps.Invitations.ListInvitations)
	admin.DELETE("/invitations/:id", deps.Invitations.CancelInvitation)
	admin.GET("/channels/:id/export", deps.Admin.ExportChannel)

	adminOnly := auth.RequireAdmin()
	protected.DELETE("/documents/:id", deps.Documents.DeleteDocument, adminOnly)
	protected.GET("/documents/:id/readers", deps.Documents.GetReaders, adminOnly)
	protected.POST("/announcements", deps.Announcements.CreateAnnouncement, adminOnly)
	protected.PATCH("/announcements/:id", deps.Announcements.UpdateAnnouncement, adminOnly)
	protected.DELETE("/announcements/:id", deps.Announcements.DeleteAnnouncement, adminOnly)
	protected.POST("/announcements/:id/image", deps.Uploads.UploadAnnouncementImage, adminOnly)
	protected.POST("/positions", deps.Directory.CreatePosition, adminOnly)
	protected.PATCH("/positions/:id", deps.Directory.UpdatePosition, adminOnly)
	protected.DELETE("/positions/:id", deps.Directory.DeletePosition, adminOnly)
}
