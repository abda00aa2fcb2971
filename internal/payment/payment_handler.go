package payment

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/shared/apperror"
	"github.com/kalana-karunarathna/Fuel-Station-Management-sub000/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type Handler struct {
	service Service
	rdb     *redis.Client
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func NewHandlerWithRedis(service Service, rdb *redis.Client) *Handler {
	return &Handler{service: service, rdb: rdb}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) releaseLock(c *gin.Context) {
	if h.rdb == nil {
		return
	}
	if lk, ok := c.Value("idempotency_lock_key").(string); ok && lk != "" {
		h.rdb.Del(c.Request.Context(), lk)
	}
}

func (h *Handler) cacheResponse(c *gin.Context, resp any) {
	if h.rdb == nil {
		return
	}
	if ck, ok := c.Value("idempotency_cache_key").(string); ok && ck != "" {
		if payload, err := json.Marshal(resp); err == nil {
			_ = h.rdb.Set(c.Request.Context(), ck, payload, 24*time.Hour).Err()
		}
	}
}

func (h *Handler) PaySingle(c *gin.Context) {
	defer h.releaseLock(c)

	var req PaySingleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.PaySingle(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.cacheResponse(c, resp)
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) PayBatch(c *gin.Context) {
	defer h.releaseLock(c)

	var req PayBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.PayBatch(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.cacheResponse(c, resp)
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) CancelPayment(c *gin.Context) {
	resp, err := h.service.CancelPayment(c.Request.Context(), c.Param("payrollId"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
