package http

import (
	"log/slog"
	"net/http"

	"crypto-analyst-bot/internal/handler/middleware"
	"crypto-analyst-bot/internal/repository"
	"crypto-analyst-bot/storage/db"

	"github.com/gin-gonic/gin"
)

// Handler exposes the operational surface: liveness and a few counters.
// The chat transport is the product surface; this is for probes and ops.
type Handler struct {
	storage    *db.Storage
	usersRepo  repository.UsersRepository
	adminsRepo repository.AdminsRepository
	coinsRepo  repository.CoinsRepository
	log        *slog.Logger
}

func NewHandler(storage *db.Storage, usersRepo repository.UsersRepository, adminsRepo repository.AdminsRepository, coinsRepo repository.CoinsRepository, log *slog.Logger) *Handler {
	return &Handler{
		storage:    storage,
		usersRepo:  usersRepo,
		adminsRepo: adminsRepo,
		coinsRepo:  coinsRepo,
		log:        log,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(middleware.RequestLogger(h.log))

	router.GET("/healthz", h.health)

	api := router.Group("/api/v1")
	{
		api.GET("/stats", h.stats)
	}
}

func (h *Handler) health(c *gin.Context) {
	if err := h.storage.Ping(); err != nil {
		h.log.Error("health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) stats(c *gin.Context) {
	users, err := h.usersRepo.CountUsers()
	if err != nil {
		h.log.Error("failed to count users", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	admins, err := h.adminsRepo.CountAdmins()
	if err != nil {
		h.log.Error("failed to count admins", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	coins, err := h.coinsRepo.CountCoins()
	if err != nil {
		h.log.Error("failed to count coins", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":  users,
		"admins": admins,
		"coins":  coins,
	})
}
