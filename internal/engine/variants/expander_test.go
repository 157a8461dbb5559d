package variants_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-encounter/internal/engine/variants"
	"github.com/KirkDiggler/rpg-encounter/internal/entities"
	"github.com/KirkDiggler/rpg-encounter/internal/errors"
	"github.com/KirkDiggler/rpg-encounter/internal/pkg/idgen"
)

type ExpanderTestSuite struct {
	suite.Suite
	expander variants.Expander
	goblin   *entities.Template
	ctx      context.Context
}

func TestExpanderSuite(t *testing.T) {
	suite.Run(t, new(ExpanderTestSuite))
}

func (s *ExpanderTestSuite) SetupTest() {
	var err error
	s.expander, err = variants.New(&variants.Config{IDGenerator: idgen.NewSequential("mon")})
	s.Require().NoError(err)

	s.goblin, err = entities.NormalizeTemplate(json.RawMessage(
		`{"name":"Goblin","stats":{"strength":10,"dexterity":14},"hp":{"max":7}}`))
	s.Require().NoError(err)
	s.ctx = context.Background()
}

func (s *ExpanderTestSuite) expand(tpl *entities.Template, opts variants.Options) []*entities.Instance {
	out, err := s.expander.Expand(s.ctx, &variants.ExpandInput{Template: tpl, Options: opts})
	s.Require().NoError(err)
	s.Require().Len(out.Instances, opts.Count)
	return out.Instances
}

func (s *ExpanderTestSuite) TestSeededScenarioIsReproducible() {
	opts := variants.Options{Count: 2, Seed: "s1", VaryAllStats: true}

	first := s.expand(s.goblin, opts)
	second := s.expand(s.goblin, opts)

	for i := range first {
		s.Assert().Equal(first[i].Stats, second[i].Stats)
		s.Assert().Equal(first[i].HP, second[i].HP)
	}

	// strength draws first because the document declares it first
	s.Assert().Equal(map[string]int{"strength": 11, "dexterity": 13}, first[0].Stats)
	s.Assert().Equal(map[string]int{"strength": 11, "dexterity": 15}, first[1].Stats)
	s.Assert().Equal(entities.HitPoints{Current: 7, Max: 7}, first[0].HP)
}

func (s *ExpanderTestSuite) TestStatsWithoutDeclaredOrderVarySorted() {
	tpl := &entities.Template{Name: "Goblin", Stats: map[string]int{"strength": 10, "dexterity": 14}, HPMax: 7}

	instances := s.expand(tpl, variants.Options{Count: 2, Seed: "s1", VaryAllStats: true})
	s.Assert().Equal(map[string]int{"dexterity": 15, "strength": 9}, instances[0].Stats)
	s.Assert().Equal(map[string]int{"dexterity": 15, "strength": 11}, instances[1].Stats)

	// a partial order keeps its keys first and sorts the rest after them
	tpl.StatOrder = []string{"strength", "missing"}
	instances = s.expand(tpl, variants.Options{Count: 1, Seed: "s1", VaryAllStats: true})
	s.Assert().Equal(map[string]int{"strength": 11, "dexterity": 13}, instances[0].Stats)
}

func (s *ExpanderTestSuite) TestInstanceIDsAreDistinct() {
	instances := s.expand(s.goblin, variants.Options{Count: 25, Seed: "ids"})

	seen := make(map[string]bool)
	for _, inst := range instances {
		s.Assert().False(seen[inst.InstanceID], "duplicate id %s", inst.InstanceID)
		seen[inst.InstanceID] = true
	}
}

func (s *ExpanderTestSuite) TestDefaultIDsUseMonPrefix() {
	exp, err := variants.New(nil)
	s.Require().NoError(err)

	out, err := exp.Expand(s.ctx, &variants.ExpandInput{Template: s.goblin, Options: variants.Options{Count: 1}})
	s.Require().NoError(err)
	s.Assert().Regexp(`^mon_[0-9a-f]{8}$`, out.Instances[0].InstanceID)
	s.Assert().NotEmpty(out.Seed)
}

func (s *ExpanderTestSuite) TestSiblingsIndependentOfCount() {
	two := s.expand(s.goblin, variants.Options{Count: 2, Seed: "sib", VaryAllStats: true})
	five := s.expand(s.goblin, variants.Options{Count: 5, Seed: "sib", VaryAllStats: true})

	s.Assert().Equal(two[0].Stats, five[0].Stats)
	s.Assert().Equal(two[1].Stats, five[1].Stats)
}

func (s *ExpanderTestSuite) TestProportionalHP() {
	instances := s.expand(s.goblin, variants.Options{
		Count:         2,
		Seed:          "p",
		VaryAllStats:  true,
		StatModifiers: []variants.StatModifier{{Key: "wisdom", Min: 1, Max: 3}},
		HPScale:       &variants.HPScale{Proportional: true},
	})

	s.Assert().Equal(map[string]int{"dexterity": 15, "strength": 11, "wisdom": 13}, instances[0].Stats)
	s.Assert().Equal(entities.HitPoints{Current: 8, Max: 8}, instances[0].HP)
	s.Assert().Equal(map[string]int{"dexterity": 14, "strength": 10, "wisdom": 12}, instances[1].Stats)
	s.Assert().Equal(entities.HitPoints{Current: 7, Max: 7}, instances[1].HP)
}

func (s *ExpanderTestSuite) TestNumericHPScale() {
	testCases := []struct {
		name   string
		factor float64
		want   int
	}{
		{"double", 2, 14},
		{"half rounds up", 0.5, 4},
		{"zero floors at one", 0, 1},
		{"negative floors at one", -3, 1},
	}
	for _, tc := range testCases {
		s.Run(tc.name, func() {
			inst := s.expand(s.goblin, variants.Options{Count: 1, Seed: "n", HPScale: &variants.HPScale{Factor: tc.factor}})
			s.Assert().Equal(tc.want, inst[0].HP.Max)
			s.Assert().Equal(inst[0].HP.Max, inst[0].HP.Current)
		})
	}
}

func (s *ExpanderTestSuite) TestPathologicalStats() {
	zero, err := entities.NormalizeTemplate(json.RawMessage(`{"name":"Husk","stats":{"strength":0,"dexterity":0},"hp":1}`))
	s.Require().NoError(err)

	instances := s.expand(zero, variants.Options{
		Count:         20,
		Seed:          "husk",
		VaryAllStats:  true,
		StatModifiers: []variants.StatModifier{{Key: "strength", Min: -5, Max: -1}},
		HPScale:       &variants.HPScale{Proportional: true},
	})

	for _, inst := range instances {
		s.Assert().GreaterOrEqual(inst.HP.Max, 1)
		s.Assert().GreaterOrEqual(inst.HP.Current, 0)
		for k, v := range inst.Stats {
			s.Assert().GreaterOrEqual(v, 1, "stat %s", k)
		}
	}
}

func (s *ExpanderTestSuite) TestModifierOnMissingStatStartsAtTen() {
	inst := s.expand(s.goblin, variants.Options{
		Count:         1,
		Seed:          "m",
		StatModifiers: []variants.StatModifier{{Key: "charisma", Min: 2, Max: 2}},
	})
	s.Assert().Equal(12, inst[0].Stats["charisma"])
}

func (s *ExpanderTestSuite) TestCarriesTemplateFields() {
	tpl, err := entities.NormalizeTemplate(json.RawMessage(`{"id":"sk","ac":13,"actions":["bite"],"hp":5}`))
	s.Require().NoError(err)

	inst := s.expand(tpl, variants.Options{Count: 1, Seed: "c"})[0]
	s.Assert().Equal("sk", inst.TemplateID)
	s.Assert().Equal(entities.DefaultInstanceName, inst.Name)
	s.Require().NotNil(inst.AC)
	s.Assert().Equal(13, *inst.AC)
	s.Assert().JSONEq(`["bite"]`, string(inst.Abilities))
	s.Assert().Equal(tpl.Raw, inst.Raw)
}

func (s *ExpanderTestSuite) TestErrors() {
	_, err := s.expander.Expand(s.ctx, &variants.ExpandInput{Options: variants.Options{Count: 1}})
	s.Assert().True(errors.HasReason(err, errors.ReasonTemplateNotFound))

	_, err = s.expander.Expand(s.ctx, &variants.ExpandInput{Template: s.goblin, Options: variants.Options{Count: 0}})
	s.Assert().True(errors.IsInvalidArgument(err))

	_, err = s.expander.Expand(s.ctx, &variants.ExpandInput{Template: s.goblin, Options: variants.Options{
		Count:         1,
		StatModifiers: []variants.StatModifier{{Key: "strength", Min: 3, Max: 1}},
	}})
	s.Assert().True(errors.IsInvalidArgument(err))
}

func (s *ExpanderTestSuite) TestHPScaleJSON() {
	var opts variants.Options
	s.Require().NoError(json.Unmarshal([]byte(`{"count":1,"hpScale":"proportional"}`), &opts))
	s.Assert().True(opts.HPScale.Proportional)

	s.Require().NoError(json.Unmarshal([]byte(`{"count":1,"hpScale":1.5}`), &opts))
	s.Assert().Equal(1.5, opts.HPScale.Factor)

	s.Assert().Error(json.Unmarshal([]byte(`{"hpScale":"double"}`), &opts))
}
