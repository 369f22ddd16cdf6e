// Package modernblog is a single-user blog: visitors browse published posts
// and one admin writes, edits, drafts and deletes them.
//
// All state lives in one local key-value slot. The post list is stored as a
// single JSON value and every change is made on an in-memory copy through
// pure functions (CreatePost, UpdatePost, DeletePost) before being committed
// with Repository.Save. The App type exposes that core to the browser UI as
// a JSON API.
package modernblog

import (
	"fmt"
	"net/http"
	"os"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/eringen/modernblog/auth"
	"github.com/eringen/modernblog/storage"
)

// App is the central modernblog application. It wires together the storage
// slot, repository, cache, authenticator, handlers and middleware.
type App struct {
	Config   SiteConfig
	Echo     *echo.Echo
	Slot     storage.Slot
	Repo     *Repository
	Cache    *PostCache
	Auth     *auth.Authenticator
	Sessions *auth.SessionStore

	// writeMu serializes load-modify-save cycles so there is only ever one
	// writer of the post list.
	writeMu      sync.Mutex
	loginLimiter *LoginLimiter
	customRoutes []func(*App)
	ownedSlot    *storage.SQLite
}

// New creates a new App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Setup opens storage and registers middleware and routes. Start calls it;
// tests call it directly and drive a.Echo with httptest.
func (a *App) Setup() error {
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("modernblog: SessionSecret is required")
	}

	if a.Slot == nil {
		slot, err := storage.OpenSQLite(a.Config.DatabasePath)
		if err != nil {
			return fmt.Errorf("modernblog: open storage: %w", err)
		}
		a.Slot = slot
		a.ownedSlot = slot
	}

	a.Repo = NewRepository(a.Slot, a.Echo.Logger)
	a.Cache = NewPostCache(a.Repo, a.Config.PostCacheTTL)
	a.Auth = auth.NewAuthenticator(a.Config.Credentials(),
		auth.WithLatency(a.Config.LoginLatency),
		auth.WithSessionTTL(a.Config.SessionTTL),
	)
	a.Sessions = auth.NewSessionStore(a.Slot)
	a.loginLimiter = NewLoginLimiter(a.Config.LoginAttempts, a.Config.LoginWindow)

	// An expired session left over from the last run is cleared here.
	if _, err := a.Sessions.Restore(); err != nil {
		return fmt.Errorf("modernblog: restore session: %w", err)
	}

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start sets the App up and serves HTTP until the server is shut down.
func (a *App) Start() error {
	if err := a.Setup(); err != nil {
		return err
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Visitor routes
	e.GET("/api/posts", a.handleListPosts)
	e.GET("/api/posts/:id", a.handleGetPost)
	e.GET("/api/tags", a.handleListTags)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/sitemap.xml", a.handleSitemap)

	// Admin routes
	e.GET("/api/admin/session", a.handleAdminSession)
	e.POST("/api/admin/login", a.handleAdminLogin)
	e.POST("/api/admin/logout", a.handleAdminLogout)

	admin := e.Group("/api/admin", a.requireAdmin)
	admin.GET("/posts", a.handleAdminListPosts)
	admin.GET("/posts/:id", a.handleAdminGetPost)
	admin.POST("/posts", a.handleAdminCreatePost)
	admin.PUT("/posts/:id", a.handleAdminUpdatePost)
	admin.DELETE("/posts/:id", a.handleAdminDeletePost)
	admin.POST("/images", a.handleImageUpload)
	admin.POST("/editor", a.handleEditorCommand)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.ownedSlot != nil {
		return a.ownedSlot.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
