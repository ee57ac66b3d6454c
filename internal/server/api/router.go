package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ccsafarmai/farmai/internal/common"
)

// NewRouter builds the gin engine with every route mounted.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), h.RequestLogger())
	if h.Metrics != nil {
		r.Use(h.Metrics.Middleware())
		r.GET("/metrics", gin.WrapH(h.Metrics.Handler()))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api", h.Session())

	authGroup := api.Group("/auth")
	{
		limited := authGroup.Group("", h.RateLimit())
		limited.POST("/register", h.register)
		limited.POST("/login", h.login)
		limited.POST("/forgot-password", h.forgotPassword)
		limited.POST("/reset-password", h.resetPassword)
		limited.POST("/resend-verification", h.resendVerification)
		limited.POST("/verify", h.verifyEmail)

		authGroup.POST("/logout", h.logout)
	}

	private := api.Group("", RequireAuth())
	{
		private.GET("/session", h.session)
		private.GET("/prompts/count", h.promptCount)
		private.GET("/usage", h.usage)

		ai := private.Group("/ai")
		ai.POST("/assistant", h.assistant())
		ai.POST("/farm", h.farm())
		ai.POST("/soil", h.soil())
		ai.POST("/crop", h.crop())

		account := private.Group("/account")
		account.PUT("/profile", h.updateProfile)
		account.PUT("/password", h.updatePassword)
		account.PUT("/image", h.updateImage)
		account.POST("/image/upload-url", h.imageUploadURL)
		account.POST("/wallet", h.addFunds)
	}

	admin := api.Group("/admin", RequireRole(common.RoleAdmin))
	{
		admin.GET("/users", h.listUsers)
		admin.POST("/users", h.createUser)
		admin.PUT("/users/:id", h.updateUser)
		admin.DELETE("/users/:id", h.deleteUser)
	}

	return r
}

// HTTPServer serves the router until its context is cancelled.
type HTTPServer struct {
	address string
	handler http.Handler
	h       *Handler
}

func NewHTTPServer(address string, h *Handler) *HTTPServer {
	return &HTTPServer{address: address, handler: NewRouter(h), h: h}
}

func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.h.log.Info(ctx, "Starting HTTP server", "address", s.address)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.h.log.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
