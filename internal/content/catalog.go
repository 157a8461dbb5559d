package content

import (
	"context"
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/KirkDiggler/rpg-encounter/internal/entities"
	"github.com/KirkDiggler/rpg-encounter/internal/errors"
)

// Archive document paths
const (
	MonstersPath   = "Monsters.json"
	ItemsPath      = "items.json"
	SpellsPath     = "spells.json"
	SubclassesPath = "subclasses.json"
)

// ClassesCandidates are tried in order since the archive layout for classes
// is not fixed
var ClassesCandidates = []string{"Classes.json", "classes.json", "Classes/index.json", "Classes/Classes.json"}

var whitespace = regexp.MustCompile(`\s+`)

// Catalog exposes typed lookups over the archive documents. Every document
// may be a JSON list or a keyed map; both shapes are accepted everywhere.
type Catalog interface {
	// Document returns a raw archive document by path through the cache
	Document(ctx context.Context, path string, forceRefresh bool) (json.RawMessage, error)

	// Monsters returns the raw monster document
	Monsters(ctx context.Context, forceRefresh bool) (json.RawMessage, error)

	// Classes returns the first class document that resolves
	// Returns errors.NotFound with ReasonTemplateNotFound when none resolve
	Classes(ctx context.Context, forceRefresh bool) (json.RawMessage, error)

	// FindTemplate looks a monster up by id (or map key), then by
	// case-insensitive name.
	// Returns errors.NotFound with ReasonTemplateNotFound when absent
	FindTemplate(ctx context.Context, idOrName string) (*entities.Template, error)

	// ListTemplates returns a compact id/name listing of every monster
	ListTemplates(ctx context.Context) ([]*TemplateSummary, error)

	// Templates returns every monster normalized, in document order
	Templates(ctx context.Context) ([]*entities.Template, error)

	// FindItem looks an item up by id, name or slug (list) or key or name (map)
	// Returns errors.NotFound when absent
	FindItem(ctx context.Context, idOrName string) (json.RawMessage, error)
}

// TemplateSummary is one row of the compact monster listing
type TemplateSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CatalogConfig contains configuration for the catalog.
type CatalogConfig struct {
	Cache Cache
}

// Validate validates the CatalogConfig.
func (cfg *CatalogConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	vb := errors.NewValidationBuilder()
	if cfg.Cache == nil {
		vb.RequiredField("cache")
	}
	return vb.Build()
}

type catalog struct {
	cache Cache
}

// NewCatalog creates a catalog over the cache.
func NewCatalog(cfg *CatalogConfig) (Catalog, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &catalog{cache: cfg.Cache}, nil
}

func (c *catalog) Document(ctx context.Context, path string, forceRefresh bool) (json.RawMessage, error) {
	out, err := c.cache.Fetch(ctx, &FetchInput{Path: path, ForceRefresh: forceRefresh})
	if err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *catalog) Monsters(ctx context.Context, forceRefresh bool) (json.RawMessage, error) {
	return c.Document(ctx, MonstersPath, forceRefresh)
}

func (c *catalog) Classes(ctx context.Context, forceRefresh bool) (json.RawMessage, error) {
	out, err := c.cache.Resolve(ctx, &ResolveInput{Candidates: ClassesCandidates, ForceRefresh: forceRefresh})
	if err != nil {
		return nil, errors.Wrap(err, "classes not found in archive")
	}
	return out.Data, nil
}

func (c *catalog) FindTemplate(ctx context.Context, idOrName string) (*entities.Template, error) {
	if strings.TrimSpace(idOrName) == "" {
		return nil, errors.InvalidArgument("template id is required")
	}

	doc, err := c.Monsters(ctx, false)
	if err != nil {
		return nil, err
	}

	var found gjson.Result
	root := gjson.ParseBytes(doc)
	switch {
	case root.IsArray():
		root.ForEach(func(_, value gjson.Result) bool {
			if value.Get("id").String() == idOrName && value.Get("id").Exists() {
				found = value
				return false
			}
			if name := value.Get("name"); name.Exists() && strings.EqualFold(name.String(), idOrName) {
				found = value
				return false
			}
			return true
		})
	case root.IsObject():
		root.ForEach(func(key, value gjson.Result) bool {
			if key.String() == idOrName {
				found = value
				return false
			}
			return true
		})
		if !found.Exists() {
			root.ForEach(func(_, value gjson.Result) bool {
				if name := value.Get("name"); name.Exists() && strings.EqualFold(name.String(), idOrName) {
					found = value
					return false
				}
				return true
			})
		}
	}

	if !found.Exists() {
		return nil, errors.TemplateNotFoundf("template %s not found", idOrName).WithMeta("template_id", idOrName)
	}

	tpl, err := entities.NormalizeTemplate(json.RawMessage(found.Raw))
	if err != nil {
		return nil, errors.Wrapf(err, "template %s is malformed", idOrName)
	}
	return tpl, nil
}

func (c *catalog) ListTemplates(ctx context.Context) ([]*TemplateSummary, error) {
	doc, err := c.Monsters(ctx, false)
	if err != nil {
		return nil, err
	}

	list := make([]*TemplateSummary, 0)
	root := gjson.ParseBytes(doc)
	switch {
	case root.IsArray():
		root.ForEach(func(_, value gjson.Result) bool {
			name := value.Get("name").String()
			id := value.Get("id").String()
			if id == "" && name != "" {
				id = whitespace.ReplaceAllString(strings.ToLower(name), "_")
			}
			list = append(list, &TemplateSummary{ID: id, Name: name})
			return true
		})
	case root.IsObject():
		root.ForEach(func(key, value gjson.Result) bool {
			list = append(list, &TemplateSummary{ID: key.String(), Name: value.Get("name").String()})
			return true
		})
	}

	return list, nil
}

func (c *catalog) Templates(ctx context.Context) ([]*entities.Template, error) {
	doc, err := c.Monsters(ctx, false)
	if err != nil {
		return nil, err
	}

	templates := make([]*entities.Template, 0)
	gjson.ParseBytes(doc).ForEach(func(key, value gjson.Result) bool {
		tpl, err := entities.NormalizeTemplate(json.RawMessage(value.Raw))
		if err != nil {
			slog.WarnContext(ctx, "skipping malformed monster template",
				"key", key.String(),
				"error", err.Error())
			return true
		}
		templates = append(templates, tpl)
		return true
	})

	return templates, nil
}

func (c *catalog) FindItem(ctx context.Context, idOrName string) (json.RawMessage, error) {
	doc, err := c.Document(ctx, ItemsPath, false)
	if err != nil {
		return nil, err
	}

	var found gjson.Result
	root := gjson.ParseBytes(doc)
	switch {
	case root.IsArray():
		root.ForEach(func(_, value gjson.Result) bool {
			for _, field := range []string{"id", "name", "slug"} {
				if v := value.Get(field); v.Exists() && v.String() == idOrName {
					found = value
					return false
				}
			}
			return true
		})
	case root.IsObject():
		root.ForEach(func(key, value gjson.Result) bool {
			if key.String() == idOrName {
				found = value
				return false
			}
			return true
		})
		if !found.Exists() {
			root.ForEach(func(_, value gjson.Result) bool {
				if v := value.Get("name"); v.Exists() && v.String() == idOrName {
					found = value
					return false
				}
				return true
			})
		}
	}

	if !found.Exists() {
		return nil, errors.NotFoundf("item %s not found", idOrName).WithMeta("item_id", idOrName)
	}
	return json.RawMessage(found.Raw), nil
}
