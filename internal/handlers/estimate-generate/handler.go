package estimategenerate

import (
	"context"
	"net/http"

	"site-api/internal/common/errors"
	"site-api/internal/common/logger"
	"site-api/internal/common/middleware"
)

type Handler struct {
	config  *Config
	service *Service
	logger  logger.Logger
}

func NewHandler(config *Config, service *Service, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		service: service,
		logger:  log.WithFields(map[string]interface{}{
			"handler": "estimate-generate",
		}),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := middleware.ParseJSONBody(r, &input); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Request validation failed")
		return
	}

	if err := ValidateInput(&input); err != nil {
		middleware.ErrorResponse(w, errors.HTTPStatusFor(err), errors.PublicMessage(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.config.Timeout)
	defer cancel()

	doc, err := h.service.Execute(ctx, &input)
	if err != nil {
		h.logger.WithError(err).Error("estimate generation failed", map[string]interface{}{
			"requestId": middleware.RequestIDFromContext(r.Context()),
		})
		middleware.ErrorResponse(w, errors.HTTPStatusFor(err), errors.PublicMessage(err))
		return
	}

	middleware.RawJSONResponse(w, http.StatusOK, doc)
}
