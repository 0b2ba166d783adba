package handler

import (
	"merchant-webhooks/internal/adapter/http/dto"
	"merchant-webhooks/internal/adapter/http/middleware"
	"merchant-webhooks/internal/core/domain"
	"merchant-webhooks/internal/core/ports"
	"merchant-webhooks/pkg/apperror"
	"merchant-webhooks/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WebhookHandler serves the merchant-scoped endpoint registry, delivery logs and stats.
type WebhookHandler struct {
	endpointSvc  ports.EndpointService
	reportingSvc ports.ReportingService
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(endpointSvc ports.EndpointService, reportingSvc ports.ReportingService) *WebhookHandler {
	return &WebhookHandler{endpointSvc: endpointSvc, reportingSvc: reportingSvc}
}

// merchantFromContext returns the authenticated merchant, which JWTAuth has
// already matched against the path.
func merchantFromContext(c *gin.Context) (string, bool) {
	var uri dto.MerchantURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, apperror.Validation("invalid merchant wallet"))
		return "", false
	}
	merchantID := c.GetString(middleware.CtxMerchantID)
	if merchantID == "" {
		response.Error(c, apperror.ErrInvalidToken())
		return "", false
	}
	return merchantID, true
}

func endpointFromPath(c *gin.Context) (uuid.UUID, string, bool) {
	merchantID, ok := merchantFromContext(c)
	if !ok {
		return uuid.Nil, "", false
	}
	var uri dto.EndpointURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, apperror.Validation("invalid endpoint id"))
		return uuid.Nil, "", false
	}
	id, err := uuid.Parse(uri.ID)
	if err != nil {
		response.Error(c, apperror.Validation("invalid endpoint id"))
		return uuid.Nil, "", false
	}
	return id, merchantID, true
}

// ListEndpoints handles GET /webhooks/:merchant/endpoints.
func (h *WebhookHandler) ListEndpoints(c *gin.Context) {
	merchantID, ok := merchantFromContext(c)
	if !ok {
		return
	}

	eps, err := h.endpointSvc.List(c.Request.Context(), merchantID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.EndpointResponse, len(eps))
	for i := range eps {
		items[i] = dto.NewEndpointResponse(&eps[i])
	}
	response.OK(c, items)
}

// CreateEndpoint handles POST /webhooks/:merchant/endpoints. The secret is
// returned here and never again.
func (h *WebhookHandler) CreateEndpoint(c *gin.Context) {
	merchantID, ok := merchantFromContext(c)
	if !ok {
		return
	}

	var req dto.CreateEndpointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	result, err := h.endpointSvc.Create(c.Request.Context(), ports.CreateEndpointRequest{
		MerchantID:  merchantID,
		URL:         req.URL,
		Events:      req.Events,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Set(middleware.CtxResourceID, result.Endpoint.ID.String())
	response.Created(c, dto.CreateEndpointResponse{
		EndpointResponse: dto.NewEndpointResponse(result.Endpoint),
		Secret:           result.Secret,
		Warning:          result.Warning,
	})
}

// GetEndpoint handles GET /webhooks/:merchant/endpoints/:id.
func (h *WebhookHandler) GetEndpoint(c *gin.Context) {
	id, merchantID, ok := endpointFromPath(c)
	if !ok {
		return
	}

	ep, err := h.endpointSvc.Get(c.Request.Context(), id, merchantID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewEndpointResponse(ep))
}

// UpdateEndpoint handles PUT /webhooks/:merchant/endpoints/:id as a partial update.
func (h *WebhookHandler) UpdateEndpoint(c *gin.Context) {
	id, merchantID, ok := endpointFromPath(c)
	if !ok {
		return
	}

	var req dto.UpdateEndpointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	ep, err := h.endpointSvc.Update(c.Request.Context(), id, merchantID, req.Patch())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewEndpointResponse(ep))
}

// DeleteEndpoint handles DELETE /webhooks/:merchant/endpoints/:id.
func (h *WebhookHandler) DeleteEndpoint(c *gin.Context) {
	id, merchantID, ok := endpointFromPath(c)
	if !ok {
		return
	}

	if err := h.endpointSvc.Delete(c.Request.Context(), id, merchantID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"id": id.String(), "deleted": true})
}

// RotateSecret handles POST /webhooks/:merchant/endpoints/:id/secret.
func (h *WebhookHandler) RotateSecret(c *gin.Context) {
	id, merchantID, ok := endpointFromPath(c)
	if !ok {
		return
	}

	secret, err := h.endpointSvc.RotateSecret(c.Request.Context(), id, merchantID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.RotateSecretResponse{ID: id.String(), Secret: secret})
}

// GetLogs handles GET /webhooks/:merchant/logs.
func (h *WebhookHandler) GetLogs(c *gin.Context) {
	merchantID, ok := merchantFromContext(c)
	if !ok {
		return
	}

	var q dto.LogsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	filter := ports.LogFilter{MerchantID: merchantID, Limit: q.Limit}
	if q.Status != "" {
		status := domain.DeliveryStatus(q.Status)
		filter.Status = &status
	}
	if q.Event != "" {
		event := domain.EventType(q.Event)
		filter.Event = &event
	}
	if q.EndpointID != "" {
		endpointID, err := uuid.Parse(q.EndpointID)
		if err != nil {
			response.Error(c, apperror.Validation("invalid endpoint_id"))
			return
		}
		filter.EndpointID = &endpointID
	}

	logs, err := h.reportingSvc.GetLogs(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.DeliveryLogResponse, len(logs))
	for i := range logs {
		items[i] = dto.NewDeliveryLogResponse(&logs[i])
	}
	response.OK(c, items)
}

// GetStats handles GET /webhooks/:merchant/stats.
func (h *WebhookHandler) GetStats(c *gin.Context) {
	merchantID, ok := merchantFromContext(c)
	if !ok {
		return
	}

	stats, err := h.reportingSvc.GetStats(c.Request.Context(), merchantID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.StatsResponse{
		Total:       stats.Total,
		SuccessRate: stats.SuccessRate,
		Failed:      stats.Failed,
		Last24h:     stats.Last24h,
	})
}
