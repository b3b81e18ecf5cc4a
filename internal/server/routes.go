package server

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"landlord-game/internal/auth"
	"landlord-game/internal/database"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ResultStore is the read side of the results database.
type ResultStore interface {
	Ping(ctx context.Context) error
	GetAll(ctx context.Context) ([]database.GameResult, error)
	GetByPlayer(ctx context.Context, playerName string) ([]database.GameResult, error)
}

// RouterConfig carries the HTTP settings of the router.
type RouterConfig struct {
	AllowedOrigins []string
	Issuer         *auth.Issuer // nil disables token auth
}

// NewRouter wires the HTTP API and the WebSocket endpoint.
func NewRouter(hub *Hub, store ResultStore, cfg RouterConfig, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(logger))
	router.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	upgrader := newUpgrader(cfg.AllowedOrigins)

	router.GET("/healthz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		status := http.StatusOK
		body := gin.H{"status": "ok", "rooms": hub.Registry().Len(), "clients": hub.ClientCount()}
		if store != nil {
			if err := store.Ping(ctx); err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "database unavailable"
			}
		}
		c.JSON(status, body)
	})

	api := router.Group("/api")
	api.GET("/rooms", func(c *gin.Context) {
		c.JSON(http.StatusOK, hub.Registry().Rooms())
	})
	if store != nil {
		api.GET("/results", GetResultsHandler(store, logger))
		api.GET("/results/player/:name", GetResultsByPlayerHandler(store, logger))
	}
	if cfg.Issuer != nil {
		api.POST("/token", TokenHandler(cfg.Issuer, logger))
	}

	router.GET("/ws", func(c *gin.Context) {
		ServeWs(hub, &upgrader, cfg.Issuer, c.Writer, c.Request)
	})

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}

// RequestLogger logs every HTTP request with its status and latency.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
		)
	}
}

// GetResultsByPlayerHandler lists the results a player took part in.
func GetResultsByPlayerHandler(store ResultStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		player := strings.TrimSpace(c.Param("name"))
		if player == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Player name is required"})
			return
		}

		results, err := store.GetByPlayer(c.Request.Context(), player)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				c.JSON(http.StatusNotFound, gin.H{"error": "No results found for player"})
				return
			}
			logger.Error("failed to fetch results", zap.String("player", player), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch results"})
			return
		}
		c.JSON(http.StatusOK, results)
	}
}

// GetResultsHandler lists every stored result, newest first.
func GetResultsHandler(store ResultStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		results, err := store.GetAll(c.Request.Context())
		if err != nil {
			logger.Error("failed to fetch results", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch results"})
			return
		}
		if results == nil {
			results = []database.GameResult{}
		}
		c.JSON(http.StatusOK, results)
	}
}

type tokenRequest struct {
	Name string `json:"name" binding:"required"`
}

// TokenHandler issues a signed player token.
func TokenHandler(issuer *auth.Issuer, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req tokenRequest
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
			return
		}
		token, expiresAt, err := issuer.Generate(strings.TrimSpace(req.Name))
		if err != nil {
			logger.Error("failed to generate token", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token, "expiresAt": expiresAt.UTC().Format(time.RFC3339)})
	}
}
