// Package entities provides core data structures for rpg-encounter.
package entities

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/KirkDiggler/rpg-encounter/internal/errors"
)

// DefaultTemplateHP is used when a template carries no usable hit points
const DefaultTemplateHP = 10

// Template is a monster definition from the content archive, normalized
// from whichever of the accepted shapes it was authored in. Raw keeps the
// original document untouched. StatOrder lists the Stats keys in the
// order the document declares them.
type Template struct {
	ID        string          `json:"id,omitempty"`
	Name      string          `json:"name"`
	Stats     map[string]int  `json:"stats"`
	StatOrder []string        `json:"statOrder,omitempty"`
	HPMax     int             `json:"hpMax"`
	AC        *int            `json:"ac,omitempty"`
	Abilities json.RawMessage `json:"abilities,omitempty"`
	Raw       json.RawMessage `json:"raw"`
}

// TemplateID returns the id when present, otherwise the name
func (t *Template) TemplateID() string {
	if t.ID != "" {
		return t.ID
	}
	return t.Name
}

// Matches reports whether idOrName equals the id or, case-insensitively, the name
func (t *Template) Matches(idOrName string) bool {
	if t.ID != "" && t.ID == idOrName {
		return true
	}
	return t.Name != "" && strings.EqualFold(t.Name, idOrName)
}

// NormalizeTemplate maps a raw template document onto Template.
//
// Accepted aliases:
//   - hit points: "hp" as a bare number, "hp.max" | "hp.hp_max" | "hp.maxhp"
//     when "hp" is an object, then top-level "hp_max", then "hpMax";
//     anything else falls back to DefaultTemplateHP
//   - armor class: "ac", then "armor_class"; absent leaves AC nil
//   - abilities: "abilities", then "actions"
//   - stats: numeric members of "stats" in document order; other values
//     are ignored and a repeated key keeps its first position
func NormalizeTemplate(raw json.RawMessage) (*Template, error) {
	if !gjson.ValidBytes(raw) {
		return nil, errors.InvalidArgument("template is not valid JSON")
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return nil, errors.InvalidArgument("template must be a JSON object")
	}

	tpl := &Template{
		ID:    scalarString(doc.Get("id")),
		Name:  scalarString(doc.Get("name")),
		Stats: make(map[string]int),
		HPMax: templateHP(doc),
		Raw:   append(json.RawMessage(nil), raw...),
	}

	doc.Get("stats").ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.Number {
			return true
		}
		k := key.String()
		if _, seen := tpl.Stats[k]; !seen {
			tpl.StatOrder = append(tpl.StatOrder, k)
		}
		tpl.Stats[k] = int(value.Int())
		return true
	})

	for _, path := range []string{"ac", "armor_class"} {
		if v := doc.Get(path); v.Type == gjson.Number {
			ac := int(v.Int())
			tpl.AC = &ac
			break
		}
	}

	for _, path := range []string{"abilities", "actions"} {
		if v := doc.Get(path); v.Exists() && v.Type != gjson.Null {
			tpl.Abilities = json.RawMessage(v.Raw)
			break
		}
	}

	return tpl, nil
}

func templateHP(doc gjson.Result) int {
	hp := doc.Get("hp")
	switch {
	case hp.Type == gjson.Number:
		return positiveOr(int(hp.Int()), DefaultTemplateHP)
	case hp.IsObject():
		for _, path := range []string{"max", "hp_max", "maxhp"} {
			if v := hp.Get(path); v.Type == gjson.Number {
				return positiveOr(int(v.Int()), DefaultTemplateHP)
			}
		}
	}
	for _, path := range []string{"hp_max", "hpMax"} {
		if v := doc.Get(path); v.Type == gjson.Number {
			return positiveOr(int(v.Int()), DefaultTemplateHP)
		}
	}
	return DefaultTemplateHP
}

func scalarString(v gjson.Result) string {
	switch v.Type {
	case gjson.String, gjson.Number:
		return v.String()
	default:
		return ""
	}
}

func positiveOr(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}
