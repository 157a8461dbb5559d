package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-encounter/internal/engine/variants"
)

func TestParseModifier(t *testing.T) {
	mod, err := parseModifier("strength:-1:2")
	require.NoError(t, err)
	assert.Equal(t, variants.StatModifier{Key: "strength", Min: -1, Max: 2}, mod)

	for _, raw := range []string{"strength", ":1:2", "strength:a:2", "strength:1:b", "a:1:2:3"} {
		_, err := parseModifier(raw)
		assert.Error(t, err, raw)
	}
}

func TestParseHPScale(t *testing.T) {
	scale, err := parseHPScale("1.5")
	require.NoError(t, err)
	assert.Equal(t, &variants.HPScale{Factor: 1.5}, scale)

	scale, err = parseHPScale("proportional")
	require.NoError(t, err)
	assert.True(t, scale.Proportional)

	_, err = parseHPScale("double")
	assert.Error(t, err)
}
