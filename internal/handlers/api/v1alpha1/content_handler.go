package v1alpha1

import (
	"context"
	"encoding/json"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/tidwall/gjson"

	"github.com/KirkDiggler/rpg-encounter/internal/content"
	"github.com/KirkDiggler/rpg-encounter/internal/engine/variants"
	"github.com/KirkDiggler/rpg-encounter/internal/errors"
)

// GetMonsters returns the raw monster document; ?force=1 bypasses the cache
func (h *Handler) GetMonsters(c context.Context, ctx *app.RequestContext) {
	data, err := h.catalog.Monsters(c, forceRefresh(ctx))
	writeDocument(c, ctx, data, err)
}

// GetClasses returns the first class document the archive resolves
func (h *Handler) GetClasses(c context.Context, ctx *app.RequestContext) {
	data, err := h.catalog.Classes(c, forceRefresh(ctx))
	writeDocument(c, ctx, data, err)
}

// GetSpells returns the raw spell document
func (h *Handler) GetSpells(c context.Context, ctx *app.RequestContext) {
	data, err := h.catalog.Document(c, content.SpellsPath, forceRefresh(ctx))
	writeDocument(c, ctx, data, err)
}

// GetSubclasses returns the raw subclass document
func (h *Handler) GetSubclasses(c context.Context, ctx *app.RequestContext) {
	data, err := h.catalog.Document(c, content.SubclassesPath, forceRefresh(ctx))
	writeDocument(c, ctx, data, err)
}

// GetItems returns the raw item document
func (h *Handler) GetItems(c context.Context, ctx *app.RequestContext) {
	data, err := h.catalog.Document(c, content.ItemsPath, forceRefresh(ctx))
	writeDocument(c, ctx, data, err)
}

// GetItem looks one item up by id, name or slug
func (h *Handler) GetItem(c context.Context, ctx *app.RequestContext) {
	item, err := h.catalog.FindItem(c, ctx.Param("id"))
	if err != nil {
		writeError(c, ctx, err)
		return
	}

	ctx.JSON(consts.StatusOK, map[string]any{"ok": true, "item": item})
}

func forceRefresh(ctx *app.RequestContext) bool {
	force := ctx.Query("force")
	return force == "1" || force == "true"
}

func writeDocument(c context.Context, ctx *app.RequestContext, data []byte, err error) {
	if err != nil {
		writeError(c, ctx, err)
		return
	}

	ctx.JSON(consts.StatusOK, map[string]any{
		"ok":    true,
		"count": documentSize(gjson.ParseBytes(data)),
		"data":  json.RawMessage(data),
	})
}

// ListMonsters returns the compact id/name listing
func (h *Handler) ListMonsters(c context.Context, ctx *app.RequestContext) {
	list, err := h.catalog.ListTemplates(c)
	if err != nil {
		writeError(c, ctx, err)
		return
	}

	ctx.JSON(consts.StatusOK, map[string]any{
		"ok":    true,
		"count": len(list),
		"list":  list,
	})
}

type expandRequest struct {
	TemplateID string `json:"templateId"`
	variants.Options
}

// ExpandMonsters expands one template without persisting anything
func (h *Handler) ExpandMonsters(c context.Context, ctx *app.RequestContext) {
	var req expandRequest
	if err := decodeJSON(ctx, &req); err != nil {
		writeError(c, ctx, err)
		return
	}
	if req.TemplateID == "" {
		writeError(c, ctx, errors.InvalidArgument("templateId is required"))
		return
	}
	if req.Count == 0 {
		req.Count = 1
	}

	tpl, err := h.catalog.FindTemplate(c, req.TemplateID)
	if err != nil {
		writeError(c, ctx, err)
		return
	}

	out, err := h.expander.Expand(c, &variants.ExpandInput{Template: tpl, Options: req.Options})
	if err != nil {
		writeError(c, ctx, err)
		return
	}

	ctx.JSON(consts.StatusOK, map[string]any{
		"ok":       true,
		"count":    len(out.Instances),
		"variants": out.Instances,
		"seed":     out.Seed,
	})
}

type clearCacheRequest struct {
	Path string `json:"path"`
}

// ClearCache drops one memory entry, or all of them without a path
func (h *Handler) ClearCache(c context.Context, ctx *app.RequestContext) {
	var req clearCacheRequest
	if err := decodeJSON(ctx, &req); err != nil {
		writeError(c, ctx, err)
		return
	}

	h.cache.Clear(c, req.Path)

	cleared := req.Path
	if cleared == "" {
		cleared = "all"
	}
	ctx.JSON(consts.StatusOK, map[string]any{"ok": true, "cleared": cleared})
}

// documentSize counts list items or map keys
func documentSize(doc gjson.Result) int {
	switch {
	case doc.IsArray():
		return len(doc.Array())
	case doc.IsObject():
		n := 0
		doc.ForEach(func(_, _ gjson.Result) bool {
			n++
			return true
		})
		return n
	default:
		return 0
	}
}
