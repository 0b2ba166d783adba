package handler

import (
	"merchant-webhooks/internal/adapter/http/dto"
	"merchant-webhooks/internal/core/ports"
	"merchant-webhooks/pkg/apperror"
	"merchant-webhooks/pkg/response"

	"github.com/gin-gonic/gin"
)

// TestHandler checks a candidate webhook URL before it is registered.
type TestHandler struct {
	tester ports.ReachabilityTester
}

func NewTestHandler(tester ports.ReachabilityTester) *TestHandler {
	return &TestHandler{tester: tester}
}

// Test handles POST /webhooks/test. Transport failures are reported in the
// result body with 200; only a malformed request is an error.
func (h *TestHandler) Test(c *gin.Context) {
	var req dto.TestWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	result, err := h.tester.Test(c.Request.Context(), req.URL, req.Payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}
