// Package v1alpha1 serves the encounter engine over HTTP
package v1alpha1

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/route"

	"github.com/KirkDiggler/rpg-encounter/internal/content"
	"github.com/KirkDiggler/rpg-encounter/internal/engine/variants"
	"github.com/KirkDiggler/rpg-encounter/internal/errors"
	"github.com/KirkDiggler/rpg-encounter/internal/orchestrators/encounter"
	"github.com/KirkDiggler/rpg-encounter/internal/services/decision"
)

// HandlerConfig holds dependencies for the handler
type HandlerConfig struct {
	EncounterService encounter.Service
	DecisionService  decision.Service
	Catalog          content.Catalog
	Cache            content.Cache
	Expander         variants.Expander
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.EncounterService == nil {
		vb.RequiredField("EncounterService")
	}
	if c.DecisionService == nil {
		vb.RequiredField("DecisionService")
	}
	if c.Catalog == nil {
		vb.RequiredField("Catalog")
	}
	if c.Cache == nil {
		vb.RequiredField("Cache")
	}
	if c.Expander == nil {
		vb.RequiredField("Expander")
	}

	return vb.Build()
}

// Handler implements the HTTP API
type Handler struct {
	encounterService encounter.Service
	decisionService  decision.Service
	catalog          content.Catalog
	cache            content.Cache
	expander         variants.Expander
}

// NewHandler creates a new handler with the given configuration
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Handler{
		encounterService: cfg.EncounterService,
		decisionService:  cfg.DecisionService,
		catalog:          cfg.Catalog,
		cache:            cfg.Cache,
		expander:         cfg.Expander,
	}, nil
}

// RegisterRoutes mounts every endpoint under /api
func (h *Handler) RegisterRoutes(r route.IRouter) {
	api := r.Group("/api", accessLog())

	contentGroup := api.Group("/content")
	contentGroup.GET("/monsters", h.GetMonsters)
	contentGroup.GET("/monsters/list", h.ListMonsters)
	contentGroup.GET("/classes", h.GetClasses)
	contentGroup.GET("/spells", h.GetSpells)
	contentGroup.GET("/subclasses", h.GetSubclasses)
	contentGroup.GET("/items", h.GetItems)
	contentGroup.GET("/items/:id", h.GetItem)

	api.POST("/expand/monsters", h.ExpandMonsters)

	enc := api.Group("/encounter")
	enc.POST("/create-from-template", h.CreateFromTemplate)
	enc.POST("/create-test", h.CreateTest)
	enc.POST("/start", h.Start)
	enc.POST("/advance", h.Advance)
	enc.POST("/decide", h.Decide)
	enc.POST("/end", h.End)
	enc.GET("/options", h.Options)
	enc.GET("/turn-order", h.TurnOrder)

	api.POST("/admin/cache/clear", h.ClearCache)
}

func accessLog() app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		start := time.Now()
		ctx.Next(c)
		slog.InfoContext(c, "http request",
			"method", string(ctx.Method()),
			"path", string(ctx.Path()),
			"status", ctx.Response.StatusCode(),
			"duration_ms", time.Since(start).Milliseconds())
	}
}

// errorBody is the JSON error envelope
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
}

func writeError(c context.Context, ctx *app.RequestContext, err error) {
	code := errors.GetCode(err)
	status := code.HTTPStatus()
	if status >= 500 {
		slog.ErrorContext(c, "request failed",
			"path", string(ctx.Path()),
			"code", code.String(),
			"error", err.Error())
	}
	ctx.JSON(status, map[string]any{
		"ok": false,
		"error": errorBody{
			Code:    code.String(),
			Message: errors.GetMessage(err),
			Reason:  errors.GetReason(err).String(),
		},
	})
}

// decodeJSON reads the request body; an empty body leaves out untouched
func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errors.InvalidArgumentf("invalid json: %v", err)
	}
	return nil
}
