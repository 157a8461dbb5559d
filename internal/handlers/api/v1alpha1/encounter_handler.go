package v1alpha1

import (
	"context"
	"encoding/json"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/KirkDiggler/rpg-encounter/internal/engine/variants"
	"github.com/KirkDiggler/rpg-encounter/internal/entities"
	"github.com/KirkDiggler/rpg-encounter/internal/errors"
	"github.com/KirkDiggler/rpg-encounter/internal/orchestrators/encounter"
	"github.com/KirkDiggler/rpg-encounter/internal/services/decision"
)

type createFromTemplateRequest struct {
	GameID     string `json:"gameId"`
	TemplateID string `json:"templateId"`
	variants.Options
}

// CreateFromTemplate opens an encounter from one expanded template
func (h *Handler) CreateFromTemplate(c context.Context, ctx *app.RequestContext) {
	var req createFromTemplateRequest
	if err := decodeJSON(ctx, &req); err != nil {
		writeError(c, ctx, err)
		return
	}

	out, err := h.encounterService.CreateFromTemplate(c, &encounter.CreateFromTemplateInput{
		GameID:     req.GameID,
		TemplateID: req.TemplateID,
		Options:    req.Options,
	})
	if err != nil {
		writeError(c, ctx, err)
		return
	}

	ctx.JSON(consts.StatusOK, map[string]any{
		"ok":          true,
		"encounterId": out.Encounter.ID,
		"count":       len(out.Instances),
		"variants":    out.Instances,
		"seed":        out.Seed,
	})
}

type createTestRequest struct {
	GameID     string `json:"gameId"`
	MinEnemies int    `json:"minEnemies"`
	MaxEnemies int    `json:"maxEnemies"`
	Seed       string `json:"seed"`
}

// CreateTest builds a random seeded encounter and rolls initiative
func (h *Handler) CreateTest(c context.Context, ctx *app.RequestContext) {
	var req createTestRequest
	if err := decodeJSON(ctx, &req); err != nil {
		writeError(c, ctx, err)
		return
	}

	out, err := h.encounterService.CreateRandom(c, &encounter.CreateRandomInput{
		GameID:     req.GameID,
		MinEnemies: req.MinEnemies,
		MaxEnemies: req.MaxEnemies,
		Seed:       req.Seed,
	})
	if err != nil {
		writeError(c, ctx, err)
		return
	}

	ctx.JSON(consts.StatusOK, map[string]any{
		"ok":          true,
		"message":     "Test encounter created",
		"encounterId": out.Encounter.ID,
		"gameId":      out.GameID,
		"created":     out.Created,
		"actors":      out.Initiative,
		"turnOrder":   out.TurnOrder,
		"seed":        out.Seed,
	})
}

type startRequest struct {
	EncounterID string `json:"encounterId"`
	Seed        string `json:"seed"`
}

// Start rolls initiative
func (h *Handler) Start(c context.Context, ctx *app.RequestContext) {
	var req startRequest
	if err := decodeJSON(ctx, &req); err != nil {
		writeError(c, ctx, err)
		return
	}

	out, err := h.encounterService.Start(c, &encounter.StartInput{EncounterID: req.EncounterID, Seed: req.Seed})
	if err != nil {
		writeError(c, ctx, err)
		return
	}

	ctx.JSON(consts.StatusOK, map[string]any{
		"ok":          true,
		"encounterId": out.Encounter.ID,
		"seed":        out.Seed,
		"actors":      out.Initiative,
		"turnOrder":   out.TurnOrder,
	})
}

type advanceRequest struct {
	EncounterID string          `json:"encounterId"`
	Context     json.RawMessage `json:"context,omitempty"`
}

// Advance takes the current turn
func (h *Handler) Advance(c context.Context, ctx *app.RequestContext) {
	var req advanceRequest
	if err := decodeJSON(ctx, &req); err != nil {
		writeError(c, ctx, err)
		return
	}

	out, err := h.encounterService.Advance(c, &encounter.AdvanceInput{
		EncounterID: req.EncounterID,
		Context:     req.Context,
	})
	if err != nil {
		writeError(c, ctx, err)
		return
	}

	if out.Mode == encounter.TurnModePlayer {
		ctx.JSON(consts.StatusOK, map[string]any{
			"ok":   true,
			"mode": out.Mode,
			"actor": map[string]any{
				"id":        out.Actor.ID,
				"name":      out.Actor.Name,
				"hpCurrent": out.Actor.HPCurrent,
			},
			"optionsEndpoint": out.OptionsEndpoint,
		})
		return
	}

	ctx.JSON(consts.StatusOK, map[string]any{
		"ok":           true,
		"mode":         out.Mode,
		"ai":           out.Decision,
		"actionResult": out.ActionResult,
		"actors":       out.Actors,
		"round":        out.Encounter.Round,
		"roundIndex":   out.Encounter.RoundIndex,
	})
}

type decideRequest struct {
	EncounterID string `json:"encounterId"`
	ActorID     string `json:"actorId"`
	// ActorInstanceID is accepted as an alias of ActorID
	ActorInstanceID string          `json:"actorInstanceId"`
	Context         json.RawMessage `json:"context,omitempty"`
}

type decideResponse struct {
	OK bool `json:"ok"`
	*entities.DecisionResult
}

// Decide asks the oracle for an NPC decision without resolving it
func (h *Handler) Decide(c context.Context, ctx *app.RequestContext) {
	var req decideRequest
	if err := decodeJSON(ctx, &req); err != nil {
		writeError(c, ctx, err)
		return
	}
	actorID := req.ActorID
	if actorID == "" {
		actorID = req.ActorInstanceID
	}

	out, err := h.decisionService.Decide(c, &decision.DecideInput{
		EncounterID: req.EncounterID,
		ActorID:     actorID,
		Context:     req.Context,
	})
	if err != nil {
		writeError(c, ctx, err)
		return
	}

	ctx.JSON(consts.StatusOK, decideResponse{OK: true, DecisionResult: out.Result})
}

// Options lists a player's turn menu
func (h *Handler) Options(c context.Context, ctx *app.RequestContext) {
	encounterID := ctx.Query("encounterId")
	actorID := ctx.Query("actorId")
	if encounterID == "" || actorID == "" {
		writeError(c, ctx, errors.InvalidArgument("encounterId and actorId are required"))
		return
	}

	out, err := h.encounterService.PlayerOptions(c, &encounter.PlayerOptionsInput{
		EncounterID: encounterID,
		ActorID:     actorID,
	})
	if err != nil {
		writeError(c, ctx, err)
		return
	}

	ctx.JSON(consts.StatusOK, map[string]any{
		"ok": true,
		"actor": map[string]any{
			"id":        out.Actor.ID,
			"name":      out.Actor.Name,
			"hpCurrent": out.Actor.HPCurrent,
			"hpMax":     out.Actor.HPMax,
			"stats":     out.Actor.Stats,
		},
		"options": out.Options,
	})
}

// TurnOrder reports the order, pointer and current actor
func (h *Handler) TurnOrder(c context.Context, ctx *app.RequestContext) {
	out, err := h.encounterService.GetTurnOrder(c, &encounter.GetTurnOrderInput{
		EncounterID: ctx.Query("encounterId"),
	})
	if err != nil {
		writeError(c, ctx, err)
		return
	}

	ctx.JSON(consts.StatusOK, map[string]any{
		"ok":             true,
		"encounterId":    out.Encounter.ID,
		"round":          out.Encounter.Round,
		"roundIndex":     out.Encounter.RoundIndex,
		"turnOrder":      out.Encounter.TurnOrder,
		"state":          out.Encounter.State,
		"currentActorId": out.CurrentActorID,
	})
}

type endRequest struct {
	EncounterID string `json:"encounterId"`
}

// End closes an encounter
func (h *Handler) End(c context.Context, ctx *app.RequestContext) {
	var req endRequest
	if err := decodeJSON(ctx, &req); err != nil {
		writeError(c, ctx, err)
		return
	}

	out, err := h.encounterService.End(c, &encounter.EndInput{EncounterID: req.EncounterID})
	if err != nil {
		writeError(c, ctx, err)
		return
	}

	ctx.JSON(consts.StatusOK, map[string]any{
		"ok":          true,
		"encounterId": out.Encounter.ID,
		"state":       out.Encounter.State,
	})
}
