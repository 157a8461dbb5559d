package combat_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-encounter/internal/engine/combat"
	"github.com/KirkDiggler/rpg-encounter/internal/entities"
	"github.com/KirkDiggler/rpg-encounter/internal/repositories/character"
	"github.com/KirkDiggler/rpg-encounter/internal/testutils"
)

// scriptedRoller returns rolls in order and records the die sizes asked for
type scriptedRoller struct {
	rolls []int
	sizes []int
}

func (r *scriptedRoller) Roll(size int) (int, error) {
	if len(r.sizes) >= len(r.rolls) {
		return 0, fmt.Errorf("no more rolls")
	}
	v := r.rolls[len(r.sizes)]
	r.sizes = append(r.sizes, size)
	return v, nil
}

func (r *scriptedRoller) RollN(count, size int) ([]int, error) {
	out := make([]int, count)
	for i := range out {
		v, err := r.Roll(size)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// recordingBus satisfies events.EventBus and keeps published events
type recordingBus struct {
	published []events.Event
	err       error
}

func (b *recordingBus) Publish(_ context.Context, e events.Event) error {
	b.published = append(b.published, e)
	return b.err
}
func (b *recordingBus) Subscribe(_ string, _ events.Handler) string { return "sub-id" }
func (b *recordingBus) SubscribeFunc(_ string, _ int, _ events.HandlerFunc) string {
	return "sub-id"
}
func (b *recordingBus) Unsubscribe(_ string) error { return nil }
func (b *recordingBus) Clear(_ string)             {}
func (b *recordingBus) ClearAll()                  {}

type ResolverTestSuite struct {
	suite.Suite
	repo     *character.InMemoryRepository
	bus      *recordingBus
	resolver combat.Resolver
	goblin   *entities.Actor
	hero     *entities.Actor
	ctx      context.Context
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, new(ResolverTestSuite))
}

func (s *ResolverTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = character.NewInMemory(nil)
	s.bus = &recordingBus{}

	var err error
	s.resolver, err = combat.NewResolver(&combat.Config{CharacterRepo: s.repo, EventBus: s.bus})
	s.Require().NoError(err)

	// strength 14 gives +2
	s.goblin = testutils.NewTestNPC("gob")
	s.hero = testutils.NewTestPlayer("hero")
	s.hero.AC = 12
	for _, a := range []*entities.Actor{s.goblin, s.hero} {
		_, err := s.repo.Create(s.ctx, character.CreateInput{Actor: a})
		s.Require().NoError(err)
	}
}

func (s *ResolverTestSuite) resolve(action entities.Action, roller *scriptedRoller) *combat.Result {
	out, err := s.resolver.Resolve(s.ctx, &combat.ResolveInput{
		Action: action,
		Actor:  s.goblin,
		Pool:   []*entities.Actor{s.goblin, s.hero},
		Roller: roller,
	})
	s.Require().NoError(err)
	return out.Result
}

func attackOn(id string, params map[string]interface{}) entities.Action {
	return entities.Action{Type: entities.ActionTypeAttack, TargetID: &id, Params: params}
}

func (s *ResolverTestSuite) heroHP() int {
	out, err := s.repo.Get(s.ctx, character.GetInput{ID: "hero"})
	s.Require().NoError(err)
	return out.Actor.HPCurrent
}

func (s *ResolverTestSuite) TestEndTurn() {
	result := s.resolve(entities.Action{Type: entities.ActionTypeEndTurn}, &scriptedRoller{})

	s.Assert().Equal("Goblin ends their turn.", result.Log)
	s.Assert().Empty(result.Error)
	s.Require().Len(s.bus.published, 1)
	s.Assert().Equal(combat.EventEndTurn, s.bus.published[0].Type())
}

func (s *ResolverTestSuite) TestAttackHitsOnEqualArmorClass() {
	roller := &scriptedRoller{rolls: []int{10, 5}}
	result := s.resolve(attackOn("hero", nil), roller)

	s.Require().NotNil(result.Hit)
	s.Assert().True(*result.Hit)
	s.Assert().Equal(7, *result.Damage)
	s.Assert().Equal("hero", result.TargetID)
	s.Assert().Equal(12, result.AttackTotal)
	s.Assert().Equal("Goblin attacks Aria (roll 10+2 => 12) hits for 7", result.Log)
	s.Assert().Equal([]int{20, 8}, roller.sizes)
	s.Assert().Equal(5, s.heroHP())
	s.Assert().Equal(5, *result.TargetHP)

	s.Require().Len(s.bus.published, 1)
	s.Assert().Equal(combat.EventAttack, s.bus.published[0].Type())
}

func (s *ResolverTestSuite) TestAttackMisses() {
	roller := &scriptedRoller{rolls: []int{9}}
	result := s.resolve(attackOn("hero", nil), roller)

	s.Assert().False(*result.Hit)
	s.Assert().Equal(0, *result.Damage)
	s.Assert().Equal("Goblin attacks Aria (roll 9+2 => 11) missed", result.Log)
	s.Assert().Equal([]int{20}, roller.sizes)
	s.Assert().Equal(12, s.heroHP())
}

func (s *ResolverTestSuite) TestAttackParams() {
	roller := &scriptedRoller{rolls: []int{7, 3}}
	result := s.resolve(attackOn("hero", map[string]interface{}{"atkMod": 5.0, "dmgDie": 4.0}), roller)

	s.Assert().True(*result.Hit)
	s.Assert().Equal(12, result.AttackTotal)
	s.Assert().Equal([]int{20, 4}, roller.sizes)
	// damage still adds the strength modifier
	s.Assert().Equal(5, *result.Damage)
}

func (s *ResolverTestSuite) TestMinimumDamageIsOne() {
	s.goblin.Stats["strength"] = 4
	roller := &scriptedRoller{rolls: []int{20, 1}}
	result := s.resolve(attackOn("hero", nil), roller)

	s.Assert().True(*result.Hit)
	s.Assert().Equal(1, *result.Damage)
	s.Assert().Equal(11, s.heroHP())
}

func (s *ResolverTestSuite) TestMissingArmorClassDefaultsToTen() {
	s.hero.AC = 0
	result := s.resolve(attackOn("hero", nil), &scriptedRoller{rolls: []int{8, 1}})
	s.Assert().True(*result.Hit)
}

func (s *ResolverTestSuite) TestHitPointsFloorAtZero() {
	s.hero.HPCurrent = 2
	result := s.resolve(attackOn("hero", nil), &scriptedRoller{rolls: []int{15, 8}})

	s.Assert().Equal(10, *result.Damage)
	s.Assert().Equal(0, *result.TargetHP)
	s.Assert().Equal(0, s.heroHP())
	s.Assert().Equal(0, s.hero.HPCurrent)
}

func (s *ResolverTestSuite) TestRuleOutcomes() {
	testCases := []struct {
		name   string
		action entities.Action
		want   string
	}{
		{"unknown target", attackOn("dragon", nil), combat.ErrTargetNotFound},
		{"missing target", entities.Action{Type: entities.ActionTypeAttack}, combat.ErrTargetNotFound},
		{"move", entities.Action{Type: entities.ActionTypeMove}, combat.ErrUnsupportedAction},
		{"cast", entities.Action{Type: entities.ActionTypeCast}, combat.ErrUnsupportedAction},
		{"use item", entities.Action{Type: entities.ActionTypeUseItem}, combat.ErrUnsupportedAction},
	}
	for _, tc := range testCases {
		s.Run(tc.name, func() {
			roller := &scriptedRoller{}
			result := s.resolve(tc.action, roller)
			s.Assert().Equal(tc.want, result.Error)
			s.Assert().Empty(roller.sizes)
		})
	}
	s.Assert().Equal(12, s.heroHP())
}

func (s *ResolverTestSuite) TestRollerFailure() {
	_, err := s.resolver.Resolve(s.ctx, &combat.ResolveInput{
		Action: attackOn("hero", nil),
		Actor:  s.goblin,
		Pool:   []*entities.Actor{s.hero},
		Roller: &scriptedRoller{},
	})
	s.Assert().Error(err)
}

func (s *ResolverTestSuite) TestPublishFailureDoesNotFailAction() {
	s.bus.err = fmt.Errorf("bus down")
	result := s.resolve(entities.Action{Type: entities.ActionTypeEndTurn}, &scriptedRoller{})
	s.Assert().Equal("Goblin ends their turn.", result.Log)
}

func (s *ResolverTestSuite) TestDefaultRoller() {
	out, err := s.resolver.Resolve(s.ctx, &combat.ResolveInput{
		Action: attackOn("hero", nil),
		Actor:  s.goblin,
		Pool:   []*entities.Actor{s.hero},
	})
	s.Require().NoError(err)
	s.Assert().GreaterOrEqual(out.Result.AttackRoll, 1)
	s.Assert().LessOrEqual(out.Result.AttackRoll, 20)
}

func (s *ResolverTestSuite) TestConfigValidation() {
	_, err := combat.NewResolver(&combat.Config{})
	s.Assert().Error(err)

	_, err = combat.NewResolver(nil)
	s.Assert().Error(err)
}

func (s *ResolverTestSuite) TestActorEntity() {
	entity := &combat.ActorEntity{Actor: s.hero}
	s.Assert().Equal("hero", entity.GetID())
	s.Assert().Equal(combat.EntityTypePlayer, entity.GetType())
	s.Assert().Equal(combat.EntityTypeNPC, (&combat.ActorEntity{Actor: s.goblin}).GetType())
}
