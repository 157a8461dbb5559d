// Package variants expands one monster template into independent,
// reproducibly varied instances.
package variants

//go:generate mockgen -destination=mock/mock_expander.go -package=variantsmock github.com/KirkDiggler/rpg-encounter/internal/engine/variants Expander

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"sort"

	"github.com/KirkDiggler/rpg-encounter/internal/entities"
	"github.com/KirkDiggler/rpg-encounter/internal/errors"
	"github.com/KirkDiggler/rpg-encounter/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-encounter/internal/pkg/rng"
)

// MaxCount bounds how many instances one call may produce
const MaxCount = 1000

// Expander turns a template into instances
type Expander interface {
	// Expand produces exactly Count instances.
	// Returns errors.NotFound with ReasonTemplateNotFound for a nil template
	// Returns errors.InvalidArgument for a count outside [1, MaxCount] or a
	// modifier whose min exceeds its max
	Expand(ctx context.Context, input *ExpandInput) (*ExpandOutput, error)
}

// StatModifier adds a uniform integer in [Min,Max] to one stat
type StatModifier struct {
	Key string `json:"key"`
	Min int    `json:"min"`
	Max int    `json:"max"`
}

// HPScale selects how hit points follow stat changes. The zero value
// leaves hit points unchanged.
type HPScale struct {
	Factor       float64
	Proportional bool
}

const proportional = "proportional"

// UnmarshalJSON accepts a number or the string "proportional"
func (h *HPScale) UnmarshalJSON(data []byte) error {
	var factor float64
	if err := json.Unmarshal(data, &factor); err == nil {
		*h = HPScale{Factor: factor}
		return nil
	}
	var mode string
	if err := json.Unmarshal(data, &mode); err != nil || mode != proportional {
		return errors.InvalidArgument(`hpScale must be a number or "proportional"`)
	}
	*h = HPScale{Proportional: true}
	return nil
}

// MarshalJSON mirrors UnmarshalJSON
func (h HPScale) MarshalJSON() ([]byte, error) {
	if h.Proportional {
		return json.Marshal(proportional)
	}
	return json.Marshal(h.Factor)
}

// Options control variation. An empty Seed draws one random seed for the
// whole call.
type Options struct {
	Count         int            `json:"count"`
	Seed          string         `json:"seed,omitempty"`
	StatModifiers []StatModifier `json:"statModifiers,omitempty"`
	VaryAllStats  bool           `json:"varyAllStats,omitempty"`
	HPScale       *HPScale       `json:"hpScale,omitempty"`
}

// ExpandInput defines the input for expanding a template
type ExpandInput struct {
	Template *entities.Template
	Options  Options
}

// ExpandOutput defines the output for expanding a template
type ExpandOutput struct {
	Instances []*entities.Instance
	// Seed is the top-level seed actually used
	Seed string
}

// Config contains configuration for the expander.
type Config struct {
	// IDGenerator for instance ids (optional, defaults to mon_xxxxxxxx)
	IDGenerator idgen.Generator
}

type expander struct {
	idGen idgen.Generator
}

// New creates a new expander.
func New(cfg *Config) (Expander, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	gen := cfg.IDGenerator
	if gen == nil {
		gen = idgen.NewShort("mon")
	}
	return &expander{idGen: gen}, nil
}

func (e *expander) Expand(ctx context.Context, input *ExpandInput) (*ExpandOutput, error) {
	if input == nil || input.Template == nil {
		return nil, errors.TemplateNotFoundf("template is required")
	}

	opts := input.Options
	vb := errors.NewValidationBuilder()
	errors.ValidateRange("count", opts.Count, 1, MaxCount, vb)
	for _, mod := range opts.StatModifiers {
		if mod.Key == "" {
			vb.RequiredField("statModifiers.key")
		}
		if mod.Min > mod.Max {
			vb.Fieldf("statModifiers."+mod.Key, "min %d exceeds max %d", mod.Min, mod.Max)
		}
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	seed := opts.Seed
	if seed == "" {
		seed = rng.NewSeed()
	}

	tpl := input.Template
	baseAvg := average(tpl.Stats)

	instances := make([]*entities.Instance, 0, opts.Count)
	for i := 0; i < opts.Count; i++ {
		stream := rng.Derive(seed, i)
		stats := varyStats(stream, tpl, opts)
		hpMax := scaleHP(tpl.HPMax, baseAvg, average(stats), opts.HPScale)

		name := tpl.Name
		if name == "" {
			name = entities.DefaultInstanceName
		}

		instances = append(instances, &entities.Instance{
			InstanceID: e.idGen.Generate(),
			TemplateID: tpl.TemplateID(),
			Name:       name,
			Stats:      stats,
			HP:         entities.HitPoints{Current: hpMax, Max: hpMax},
			AC:         tpl.AC,
			Abilities:  tpl.Abilities,
			Raw:        tpl.Raw,
		})
	}

	slog.DebugContext(ctx, "expanded template",
		"template_id", tpl.TemplateID(),
		"count", len(instances),
		"seed", seed)

	return &ExpandOutput{Instances: instances, Seed: seed}, nil
}

// varyStats applies the whole-sheet pass in template stat order, then each
// modifier in the order given. Every result is floored at 1.
func varyStats(stream *rng.Stream, tpl *entities.Template, opts Options) map[string]int {
	stats := make(map[string]int, len(tpl.Stats))
	for k, v := range tpl.Stats {
		stats[k] = v
	}

	if opts.VaryAllStats {
		for _, k := range statKeys(tpl) {
			delta := int(math.Floor(stream.Float64()*3 - 1))
			stats[k] = max(1, stats[k]+delta)
		}
	}

	for _, mod := range opts.StatModifiers {
		current, ok := stats[mod.Key]
		if !ok {
			current = entities.DefaultAbilityScore
		}
		stats[mod.Key] = max(1, current+stream.IntRange(mod.Min, mod.Max))
	}

	return stats
}

// statKeys returns the declared stat order. Keys missing from it, as on a
// template built by hand, follow in sorted order.
func statKeys(tpl *entities.Template) []string {
	keys := make([]string, 0, len(tpl.Stats))
	listed := make(map[string]bool, len(tpl.StatOrder))
	for _, k := range tpl.StatOrder {
		if _, ok := tpl.Stats[k]; ok && !listed[k] {
			listed[k] = true
			keys = append(keys, k)
		}
	}
	var rest []string
	for k := range tpl.Stats {
		if !listed[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

func scaleHP(base int, baseAvg, newAvg float64, scale *HPScale) int {
	base = max(1, base)
	if scale == nil {
		return base
	}

	factor := scale.Factor
	if scale.Proportional {
		factor = 1
		if baseAvg > 0 {
			factor = newAvg / baseAvg
		}
	}

	return max(1, roundHalfUp(float64(base)*factor))
}

// roundHalfUp rounds .5 toward positive infinity
func roundHalfUp(x float64) int {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return int(math.Floor(x + 0.5))
}

func average(stats map[string]int) float64 {
	if len(stats) == 0 {
		return 0
	}
	sum := 0
	for _, v := range stats {
		sum += v
	}
	return float64(sum) / float64(len(stats))
}
