package archive_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-encounter/internal/clients/archive"
	"github.com/KirkDiggler/rpg-encounter/internal/errors"
)

type ClientTestSuite struct {
	suite.Suite
	server   *httptest.Server
	requests []string
	handler  http.HandlerFunc
	client   archive.Client
	ctx      context.Context
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (s *ClientTestSuite) SetupTest() {
	s.requests = nil
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"name":"Goblin"}]`))
	}
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests = append(s.requests, r.URL.Path)
		s.handler(w, r)
	}))

	var err error
	s.client, err = archive.New(&archive.Config{
		BaseURL: s.server.URL + "/",
		Timeout: 200 * time.Millisecond,
	})
	s.Require().NoError(err)
	s.ctx = context.Background()
}

func (s *ClientTestSuite) TearDownTest() {
	s.server.Close()
}

func (s *ClientTestSuite) TestFetchSuccess() {
	doc, err := s.client.Fetch(s.ctx, "Monsters.json")
	s.Require().NoError(err)
	s.Assert().JSONEq(`[{"name":"Goblin"}]`, string(doc))
	s.Assert().Equal([]string{"/Monsters.json"}, s.requests)
}

func (s *ClientTestSuite) TestFetchNestedPath() {
	_, err := s.client.Fetch(s.ctx, "/Classes/index.json")
	s.Require().NoError(err)
	s.Assert().Equal([]string{"/Classes/index.json"}, s.requests)
}

func (s *ClientTestSuite) TestFetchNonSuccessStatus() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "missing", http.StatusNotFound)
	}

	_, err := s.client.Fetch(s.ctx, "spells.json")
	s.Require().Error(err)
	s.Assert().True(errors.IsUnavailable(err))
	s.Assert().True(errors.HasReason(err, errors.ReasonRemoteFetch))
	s.Assert().Equal(http.StatusNotFound, errors.GetMeta(err)["status"])
}

func (s *ClientTestSuite) TestFetchInvalidJSON() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}

	_, err := s.client.Fetch(s.ctx, "items.json")
	s.Assert().True(errors.HasReason(err, errors.ReasonRemoteFetch))
}

func (s *ClientTestSuite) TestFetchTimeout() {
	release := make(chan struct{})
	defer close(release)
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}

	_, err := s.client.Fetch(s.ctx, "Monsters.json")
	s.Require().Error(err)
	s.Assert().True(errors.HasReason(err, errors.ReasonRemoteFetch))
}

func (s *ClientTestSuite) TestFetchEmptyPath() {
	_, err := s.client.Fetch(s.ctx, " ")
	s.Assert().True(errors.IsInvalidArgument(err))
}

func (s *ClientTestSuite) TestConfigDefaults() {
	cfg := &archive.Config{}
	s.Require().NoError(cfg.Validate())
	s.Assert().Equal(archive.DefaultBaseURL, cfg.BaseURL)
	s.Assert().Equal(archive.DefaultTimeout, cfg.Timeout)

	_, err := archive.New(&archive.Config{Timeout: -time.Second})
	s.Assert().Error(err)
}
