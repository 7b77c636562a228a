package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"salon-backend/internal/accounts"
	"salon-backend/internal/booking"
	"salon-backend/internal/catalog"
	"salon-backend/internal/middleware"
	"salon-backend/internal/policy"
	"salon-backend/internal/store"
	"salon-backend/pkg/utils"
)

// Handler carries the services every endpoint talks to.
type Handler struct {
	engine   *booking.Engine
	catalog  *catalog.Manager
	accounts *accounts.Manager
	store    *store.Store
	redis    *redis.Client // optional
	log      *zap.Logger
}

type Deps struct {
	Engine   *booking.Engine
	Catalog  *catalog.Manager
	Accounts *accounts.Manager
	Store    *store.Store
	Redis    *redis.Client
	Log      *zap.Logger
}

func New(d Deps) *Handler {
	return &Handler{
		engine:   d.Engine,
		catalog:  d.Catalog,
		accounts: d.Accounts,
		store:    d.Store,
		redis:    d.Redis,
		log:      d.Log.Named("http"),
	}
}

// actor returns the authenticated caller or answers 401.
func actor(c *gin.Context) (policy.Actor, bool) {
	a, ok := middleware.CurrentActor(c)
	if !ok {
		utils.APIResponse(c, http.StatusUnauthorized, false, "Authentication required.", nil)
		return policy.Actor{}, false
	}
	return a, true
}

// bindJSON answers 400 with the binding error when the body is invalid.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "Invalid input", err.Error())
		return false
	}
	return true
}

func idParam(c *gin.Context) uint64 {
	return utils.StringToUint64(c.Param("id"))
}

func (h *Handler) Ping(c *gin.Context) {
	utils.APIResponse(c, http.StatusOK, true, "Server OK!", nil)
}

// Health checks the database and, when configured, Redis.
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{"database": "ok"}
	healthy := true
	if err := h.store.Ping(ctx); err != nil {
		h.log.Warn("database health check failed", zap.Error(err))
		checks["database"] = "unreachable"
		healthy = false
	}
	if h.redis != nil {
		checks["redis"] = "ok"
		if err := h.redis.Ping(ctx).Err(); err != nil {
			h.log.Warn("redis health check failed", zap.Error(err))
			checks["redis"] = "unreachable"
			healthy = false
		}
	}

	if !healthy {
		utils.APIResponse(c, http.StatusServiceUnavailable, false, "Degraded", checks)
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Healthy", checks)
}
