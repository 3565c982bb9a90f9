package http_test

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	httphandler "crypto-analyst-bot/internal/handler/http"
	"crypto-analyst-bot/internal/models"
	"crypto-analyst-bot/internal/repository"
	"crypto-analyst-bot/storage/db"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(models.All()...))

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	storage := &db.Storage{DB: gdb}

	handler := httphandler.NewHandler(
		storage,
		repository.NewUsersRepository(gdb),
		repository.NewAdminsRepository(gdb),
		repository.NewCoinsRepository(gdb),
		log,
	)

	router := gin.New()
	handler.RegisterRoutes(router)

	return router, gdb
}

func TestHealth(t *testing.T) {
	router, _ := setupRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestStats(t *testing.T) {
	router, gdb := setupRouter(t)

	usersRepo := repository.NewUsersRepository(gdb)
	require.NoError(t, usersRepo.CreateUser(&models.User{TelegramID: "alice"}))
	require.NoError(t, usersRepo.CreateUser(&models.User{TelegramID: "bob"}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"users":2`)
}
