package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-encounter/internal/engine/variants"
	"github.com/KirkDiggler/rpg-encounter/internal/errors"
)

var (
	expandCount     int
	expandSeed      string
	expandVaryAll   bool
	expandHPScale   string
	expandModifiers []string
)

var expandCmd = &cobra.Command{
	Use:   "expand <templateId>",
	Short: "Expand a monster template into variants and print them as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runExpand,
}

func init() {
	expandCmd.Flags().IntVar(&expandCount, "count", 1, "number of variants")
	expandCmd.Flags().StringVar(&expandSeed, "seed", "", "seed for reproducible output (random when empty)")
	expandCmd.Flags().BoolVar(&expandVaryAll, "vary-all-stats", false, "shift every stat by -1, 0 or +1")
	expandCmd.Flags().StringVar(&expandHPScale, "hp-scale", "", `hit point scaling: a factor or "proportional"`)
	expandCmd.Flags().StringSliceVar(&expandModifiers, "mod", nil, "stat modifier key:min:max, repeatable")
}

func runExpand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	opts := variants.Options{
		Count:        expandCount,
		Seed:         expandSeed,
		VaryAllStats: expandVaryAll,
	}

	for _, raw := range expandModifiers {
		mod, err := parseModifier(raw)
		if err != nil {
			return err
		}
		opts.StatModifiers = append(opts.StatModifiers, mod)
	}

	if expandHPScale != "" {
		scale, err := parseHPScale(expandHPScale)
		if err != nil {
			return err
		}
		opts.HPScale = scale
	}

	stack, err := newContentStack(appConfig)
	if err != nil {
		return err
	}

	tpl, err := stack.catalog.FindTemplate(ctx, args[0])
	if err != nil {
		return err
	}

	out, err := stack.expander.Expand(ctx, &variants.ExpandInput{Template: tpl, Options: opts})
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(map[string]any{
		"seed":     out.Seed,
		"count":    len(out.Instances),
		"variants": out.Instances,
	}, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode variants")
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

// parseModifier reads key:min:max
func parseModifier(raw string) (variants.StatModifier, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 3 || parts[0] == "" {
		return variants.StatModifier{}, errors.InvalidArgumentf("modifier %q must be key:min:max", raw)
	}
	lo, err := strconv.Atoi(parts[1])
	if err != nil {
		return variants.StatModifier{}, errors.InvalidArgumentf("modifier %q has a non-integer min", raw)
	}
	hi, err := strconv.Atoi(parts[2])
	if err != nil {
		return variants.StatModifier{}, errors.InvalidArgumentf("modifier %q has a non-integer max", raw)
	}
	return variants.StatModifier{Key: parts[0], Min: lo, Max: hi}, nil
}

func parseHPScale(raw string) (*variants.HPScale, error) {
	scale := &variants.HPScale{}
	value := raw
	if _, err := strconv.ParseFloat(raw, 64); err != nil {
		value = strconv.Quote(raw)
	}
	if err := scale.UnmarshalJSON([]byte(value)); err != nil {
		return nil, err
	}
	return scale, nil
}
