package content_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	archivemock "github.com/KirkDiggler/rpg-encounter/internal/clients/archive/mock"
	"github.com/KirkDiggler/rpg-encounter/internal/content"
	"github.com/KirkDiggler/rpg-encounter/internal/errors"
	"github.com/KirkDiggler/rpg-encounter/internal/pkg/clock"
)

type CacheTestSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	mockClient *archivemock.MockClient
	clock      *clock.Fixed
	dir        string
	cache      content.Cache
	ctx        context.Context
}

func TestCacheSuite(t *testing.T) {
	suite.Run(t, new(CacheTestSuite))
}

func (s *CacheTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockClient = archivemock.NewMockClient(s.ctrl)
	s.clock = clock.NewFixed(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	s.dir = filepath.Join(s.T().TempDir(), "content")
	s.ctx = context.Background()

	var err error
	s.cache, err = content.NewCache(&content.Config{
		Client: s.mockClient,
		Dir:    s.dir,
		TTL:    time.Minute,
		Clock:  s.clock,
	})
	s.Require().NoError(err)
}

func (s *CacheTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *CacheTestSuite) fetch(path string, force bool) *content.FetchOutput {
	out, err := s.cache.Fetch(s.ctx, &content.FetchInput{Path: path, ForceRefresh: force})
	s.Require().NoError(err)
	return out
}

func (s *CacheTestSuite) TestFreshMemoryHitSkipsRemote() {
	s.mockClient.EXPECT().Fetch(s.ctx, "Monsters.json").Return(json.RawMessage(`[1]`), nil).Times(1)

	first := s.fetch("Monsters.json", false)
	s.Assert().Equal(content.SourceRemote, first.Source)

	s.clock.Advance(59 * time.Second)
	second := s.fetch("Monsters.json", false)
	s.Assert().Equal(content.SourceMemory, second.Source)
	s.Assert().JSONEq(`[1]`, string(second.Data))
}

func (s *CacheTestSuite) TestStaleMemoryRefetches() {
	gomock.InOrder(
		s.mockClient.EXPECT().Fetch(s.ctx, "items.json").Return(json.RawMessage(`[1]`), nil),
		s.mockClient.EXPECT().Fetch(s.ctx, "items.json").Return(json.RawMessage(`[2]`), nil),
	)

	s.fetch("items.json", false)
	s.clock.Advance(time.Minute)

	out := s.fetch("items.json", false)
	s.Assert().Equal(content.SourceRemote, out.Source)
	s.Assert().JSONEq(`[2]`, string(out.Data))
}

func (s *CacheTestSuite) TestFreshDiskPromotesIntoMemory() {
	s.mockClient.EXPECT().Fetch(s.ctx, "spells.json").Return(json.RawMessage(`{"a":1}`), nil).Times(1)
	s.fetch("spells.json", false)

	// a fresh process shares only the disk tier
	restarted, err := content.NewCache(&content.Config{
		Client: s.mockClient,
		Dir:    s.dir,
		TTL:    time.Minute,
		Clock:  s.clock,
	})
	s.Require().NoError(err)

	s.clock.Advance(30 * time.Second)
	out, err := restarted.Fetch(s.ctx, &content.FetchInput{Path: "spells.json"})
	s.Require().NoError(err)
	s.Assert().Equal(content.SourceDisk, out.Source)
	s.Assert().JSONEq(`{"a":1}`, string(out.Data))

	out, err = restarted.Fetch(s.ctx, &content.FetchInput{Path: "spells.json"})
	s.Require().NoError(err)
	s.Assert().Equal(content.SourceMemory, out.Source)
}

func (s *CacheTestSuite) TestForceRefreshRewritesBothTiers() {
	gomock.InOrder(
		s.mockClient.EXPECT().Fetch(s.ctx, "Monsters.json").Return(json.RawMessage(`[1]`), nil),
		s.mockClient.EXPECT().Fetch(s.ctx, "Monsters.json").Return(json.RawMessage(`[1,2]`), nil),
	)

	s.fetch("Monsters.json", false)
	out := s.fetch("Monsters.json", true)
	s.Assert().Equal(content.SourceRemote, out.Source)

	s.Assert().JSONEq(`[1,2]`, string(s.fetch("Monsters.json", false).Data))

	raw, err := os.ReadFile(filepath.Join(s.dir, "Monsters.json.json"))
	s.Require().NoError(err)
	var onDisk struct {
		TS   int64           `json:"ts"`
		Data json.RawMessage `json:"data"`
	}
	s.Require().NoError(json.Unmarshal(raw, &onDisk))
	s.Assert().JSONEq(`[1,2]`, string(onDisk.Data))
	s.Assert().Equal(s.clock.Now().UnixMilli(), onDisk.TS)
}

func (s *CacheTestSuite) TestDiskKeyIsEscaped() {
	s.mockClient.EXPECT().Fetch(s.ctx, "Classes/index.json").Return(json.RawMessage(`[]`), nil)
	s.fetch("Classes/index.json", false)

	_, err := os.Stat(filepath.Join(s.dir, "Classes%2Findex.json.json"))
	s.Assert().NoError(err)
}

func (s *CacheTestSuite) TestDiskWriteFailureIsSwallowed() {
	blocker := filepath.Join(s.T().TempDir(), "blocker")
	s.Require().NoError(os.WriteFile(blocker, []byte("x"), 0o644))

	cache, err := content.NewCache(&content.Config{
		Client: s.mockClient,
		Dir:    filepath.Join(blocker, "nested"),
		Clock:  s.clock,
	})
	s.Require().NoError(err)

	s.mockClient.EXPECT().Fetch(s.ctx, "Monsters.json").Return(json.RawMessage(`[1]`), nil).Times(1)

	out, err := cache.Fetch(s.ctx, &content.FetchInput{Path: "Monsters.json"})
	s.Require().NoError(err)
	s.Assert().Equal(content.SourceRemote, out.Source)

	out, err = cache.Fetch(s.ctx, &content.FetchInput{Path: "Monsters.json"})
	s.Require().NoError(err)
	s.Assert().Equal(content.SourceMemory, out.Source)
}

func (s *CacheTestSuite) TestRemoteFailureSurfaces() {
	s.mockClient.EXPECT().Fetch(s.ctx, "Monsters.json").
		Return(nil, errors.RemoteFetchf(nil, "fetch Monsters.json returned HTTP %d", 500))

	_, err := s.cache.Fetch(s.ctx, &content.FetchInput{Path: "Monsters.json"})
	s.Require().Error(err)
	s.Assert().True(errors.HasReason(err, errors.ReasonRemoteFetch))
	s.Assert().True(errors.IsUnavailable(err))
}

func (s *CacheTestSuite) TestPerCallTTL() {
	gomock.InOrder(
		s.mockClient.EXPECT().Fetch(s.ctx, "items.json").Return(json.RawMessage(`[1]`), nil),
		s.mockClient.EXPECT().Fetch(s.ctx, "items.json").Return(json.RawMessage(`[1]`), nil),
	)

	s.fetch("items.json", false)
	s.clock.Advance(10 * time.Second)

	out, err := s.cache.Fetch(s.ctx, &content.FetchInput{Path: "items.json", TTL: 5 * time.Second})
	s.Require().NoError(err)
	s.Assert().Equal(content.SourceRemote, out.Source)
}

func (s *CacheTestSuite) TestResolve() {
	s.Run("first resolving candidate wins", func() {
		gomock.InOrder(
			s.mockClient.EXPECT().Fetch(s.ctx, "Classes.json").Return(nil, errors.RemoteFetchf(nil, "status %d", 404)),
			s.mockClient.EXPECT().Fetch(s.ctx, "classes.json").Return(json.RawMessage(`null`), nil),
			s.mockClient.EXPECT().Fetch(s.ctx, "Classes/index.json").Return(json.RawMessage(`{"fighter":{}}`), nil),
		)

		out, err := s.cache.Resolve(s.ctx, &content.ResolveInput{
			Candidates: []string{"Classes.json", "classes.json", "Classes/index.json", "Classes/Classes.json"},
		})
		s.Require().NoError(err)
		s.Assert().Equal("Classes/index.json", out.Path)
	})

	s.Run("none resolve", func() {
		s.mockClient.EXPECT().Fetch(s.ctx, "a.json").Return(nil, errors.RemoteFetchf(nil, "status %d", 404))
		s.mockClient.EXPECT().Fetch(s.ctx, "b.json").Return(nil, errors.RemoteFetchf(nil, "status %d", 404))

		_, err := s.cache.Resolve(s.ctx, &content.ResolveInput{Candidates: []string{"a.json", "b.json"}})
		s.Require().Error(err)
		s.Assert().True(errors.IsNotFound(err))
		s.Assert().True(errors.HasReason(err, errors.ReasonTemplateNotFound))
	})
}

func (s *CacheTestSuite) TestClear() {
	s.mockClient.EXPECT().Fetch(s.ctx, "Monsters.json").Return(json.RawMessage(`[1]`), nil).Times(1)
	s.mockClient.EXPECT().Fetch(s.ctx, "items.json").Return(json.RawMessage(`[2]`), nil).Times(1)

	s.fetch("Monsters.json", false)
	s.fetch("items.json", false)

	s.cache.Clear(s.ctx, "Monsters.json")
	// disk tier still answers for the cleared key
	s.Assert().Equal(content.SourceDisk, s.fetch("Monsters.json", false).Source)
	s.Assert().Equal(content.SourceMemory, s.fetch("items.json", false).Source)

	s.cache.Clear(s.ctx, "")
	s.Assert().Equal(content.SourceDisk, s.fetch("items.json", false).Source)
}

func (s *CacheTestSuite) TestValidation() {
	_, err := content.NewCache(&content.Config{})
	s.Assert().Error(err)

	_, err = s.cache.Fetch(s.ctx, &content.FetchInput{})
	s.Assert().True(errors.IsInvalidArgument(err))
}
