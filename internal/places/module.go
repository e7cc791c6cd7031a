package places

import (
	apphttp "places_service/internal/http"
	"places_service/platform/config"
	"places_service/platform/logger"
	"places_service/platform/validator"
)

// Module wires the places search HTTP routes.
type Module struct {
	handler *Handler
}

func NewModule(cfg config.PlacesConfig, val *validator.Validator, log *logger.Logger) *Module {
	svc := NewService(cfg, val, log)
	h := NewHandler(svc)
	return &Module{handler: h}
}

func (m *Module) Name() string {
	return "places"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Public.GET("/find_places", m.handler.FindPlaces)
}

var _ apphttp.Module = (*Module)(nil)
