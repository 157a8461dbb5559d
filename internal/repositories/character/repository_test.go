package character_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-encounter/internal/errors"
	"github.com/KirkDiggler/rpg-encounter/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-encounter/internal/repositories/character"
	"github.com/KirkDiggler/rpg-encounter/internal/testutils"
)

// RepositoryTestSuite runs the same contract against every implementation
type RepositoryTestSuite struct {
	suite.Suite
	newRepo func() (character.Repository, func())
	repo    character.Repository
	cleanup func()
	clock   *clock.Fixed
	ctx     context.Context
}

func TestRedisRepositorySuite(t *testing.T) {
	s := &RepositoryTestSuite{}
	s.newRepo = func() (character.Repository, func()) {
		client, cleanup := testutils.CreateTestRedisClient(s.T())
		repo, err := character.NewRedis(&character.RedisConfig{Client: client, Clock: s.clock})
		s.Require().NoError(err)
		return repo, cleanup
	}
	suite.Run(t, s)
}

func TestInMemoryRepositorySuite(t *testing.T) {
	s := &RepositoryTestSuite{}
	s.newRepo = func() (character.Repository, func()) {
		return character.NewInMemory(s.clock), func() {}
	}
	suite.Run(t, s)
}

func (s *RepositoryTestSuite) SetupTest() {
	s.clock = clock.NewFixed(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	s.ctx = context.Background()
	s.repo, s.cleanup = s.newRepo()
}

func (s *RepositoryTestSuite) TearDownTest() {
	s.cleanup()
}

func (s *RepositoryTestSuite) TestCreateAndGet() {
	npc := testutils.NewTestNPC("gob-1")

	out, err := s.repo.Create(s.ctx, character.CreateInput{Actor: npc})
	s.Require().NoError(err)
	s.Assert().Equal(s.clock.Now().Unix(), out.Actor.CreatedAt)

	got, err := s.repo.Get(s.ctx, character.GetInput{ID: "gob-1"})
	s.Require().NoError(err)
	s.Assert().Equal(npc.Name, got.Actor.Name)
	s.Assert().Equal(npc.Stats, got.Actor.Stats)
	s.Assert().Equal(npc.Kind, got.Actor.Kind)

	s.Run("duplicate id", func() {
		_, err := s.repo.Create(s.ctx, character.CreateInput{Actor: npc})
		s.Assert().True(errors.IsAlreadyExists(err))
	})

	s.Run("missing actor", func() {
		_, err := s.repo.Get(s.ctx, character.GetInput{ID: "nobody"})
		s.Assert().True(errors.IsNotFound(err))
		s.Assert().True(errors.HasReason(err, errors.ReasonActorNotFound))
	})

	s.Run("validation", func() {
		_, err := s.repo.Create(s.ctx, character.CreateInput{})
		s.Assert().True(errors.IsInvalidArgument(err))
		_, err = s.repo.Get(s.ctx, character.GetInput{})
		s.Assert().True(errors.IsInvalidArgument(err))
	})
}

func (s *RepositoryTestSuite) TestGetReturnsCopy() {
	_, err := s.repo.Create(s.ctx, character.CreateInput{Actor: testutils.NewTestNPC("gob-1")})
	s.Require().NoError(err)

	got, err := s.repo.Get(s.ctx, character.GetInput{ID: "gob-1"})
	s.Require().NoError(err)
	got.Actor.Stats["strength"] = 99

	again, err := s.repo.Get(s.ctx, character.GetInput{ID: "gob-1"})
	s.Require().NoError(err)
	s.Assert().Equal(14, again.Actor.Stats["strength"])
}

func (s *RepositoryTestSuite) TestUpdateMovesGameIndex() {
	npc := testutils.NewTestNPC("gob-1")
	_, err := s.repo.Create(s.ctx, character.CreateInput{Actor: npc})
	s.Require().NoError(err)

	s.clock.Advance(time.Minute)
	moved := npc.Clone()
	moved.GameID = "other-game"
	moved.Name = "Goblin Boss"
	out, err := s.repo.Update(s.ctx, character.UpdateInput{Actor: moved})
	s.Require().NoError(err)
	s.Assert().Greater(out.Actor.UpdatedAt, out.Actor.CreatedAt)

	oldGame, err := s.repo.ListByGameID(s.ctx, character.ListByGameIDInput{GameID: testutils.TestGameID})
	s.Require().NoError(err)
	s.Assert().Empty(oldGame.Actors)

	newGame, err := s.repo.ListByGameID(s.ctx, character.ListByGameIDInput{GameID: "other-game"})
	s.Require().NoError(err)
	s.Require().Len(newGame.Actors, 1)
	s.Assert().Equal("Goblin Boss", newGame.Actors[0].Name)

	_, err = s.repo.Update(s.ctx, character.UpdateInput{Actor: testutils.NewTestNPC("ghost")})
	s.Assert().True(errors.HasReason(err, errors.ReasonActorNotFound))
}

func (s *RepositoryTestSuite) TestUpdateHPClamps() {
	_, err := s.repo.Create(s.ctx, character.CreateInput{Actor: testutils.NewTestNPC("gob-1")})
	s.Require().NoError(err)

	testCases := []struct {
		name string
		hp   int
		want int
	}{
		{"damage", 3, 3},
		{"below zero floors", -4, 0},
		{"above max caps", 50, 7},
	}
	for _, tc := range testCases {
		s.Run(tc.name, func() {
			out, err := s.repo.UpdateHP(s.ctx, character.UpdateHPInput{ID: "gob-1", HPCurrent: tc.hp})
			s.Require().NoError(err)
			s.Assert().Equal(tc.want, out.Actor.HPCurrent)

			got, err := s.repo.Get(s.ctx, character.GetInput{ID: "gob-1"})
			s.Require().NoError(err)
			s.Assert().Equal(tc.want, got.Actor.HPCurrent)
		})
	}

	_, err = s.repo.UpdateHP(s.ctx, character.UpdateHPInput{ID: "ghost", HPCurrent: 1})
	s.Assert().True(errors.HasReason(err, errors.ReasonActorNotFound))
}

func (s *RepositoryTestSuite) TestListByGameIDKeepsInsertionOrder() {
	ids := []string{"zed", "alpha", "mid"}
	for _, id := range ids {
		_, err := s.repo.Create(s.ctx, character.CreateInput{Actor: testutils.NewTestNPC(id)})
		s.Require().NoError(err)
	}
	stranger := testutils.NewTestNPC("elsewhere")
	stranger.GameID = "other-game"
	_, err := s.repo.Create(s.ctx, character.CreateInput{Actor: stranger})
	s.Require().NoError(err)

	out, err := s.repo.ListByGameID(s.ctx, character.ListByGameIDInput{GameID: testutils.TestGameID})
	s.Require().NoError(err)
	s.Require().Len(out.Actors, 3)
	for i, id := range ids {
		s.Assert().Equal(id, out.Actors[i].ID)
	}

	limited, err := s.repo.ListByGameID(s.ctx, character.ListByGameIDInput{GameID: testutils.TestGameID, Limit: 2})
	s.Require().NoError(err)
	s.Require().Len(limited.Actors, 2)
	s.Assert().Equal("alpha", limited.Actors[1].ID)

	_, err = s.repo.ListByGameID(s.ctx, character.ListByGameIDInput{})
	s.Assert().True(errors.IsInvalidArgument(err))
}

func TestRedisListCleansStaleIndex(t *testing.T) {
	client, mr, cleanup := testutils.CreateTestRedis(t)
	defer cleanup()

	repo, err := character.NewRedis(&character.RedisConfig{Client: client})
	require.NoError(t, err)
	ctx := context.Background()

	for _, id := range []string{"a", "b"} {
		_, err := repo.Create(ctx, character.CreateInput{Actor: testutils.NewTestNPC(id)})
		require.NoError(t, err)
	}
	mr.Del("character:a")

	out, err := repo.ListByGameID(ctx, character.ListByGameIDInput{GameID: testutils.TestGameID})
	require.NoError(t, err)
	require.Len(t, out.Actors, 1)
	assert.Equal(t, "b", out.Actors[0].ID)

	remaining, err := mr.List("character:game:" + testutils.TestGameID)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, remaining)
}

func TestRedisStoresJSONUnderActorKey(t *testing.T) {
	client, mr, cleanup := testutils.CreateTestRedis(t)
	defer cleanup()

	repo, err := character.NewRedis(&character.RedisConfig{Client: client})
	require.NoError(t, err)

	_, err = repo.Create(context.Background(), character.CreateInput{Actor: testutils.NewTestPlayer("hero")})
	require.NoError(t, err)

	raw, err := mr.Get("character:hero")
	require.NoError(t, err)
	assert.Contains(t, raw, `"kind":"PLAYER"`)
	assert.Contains(t, raw, `"inventory":["potion-of-healing"]`)
}
