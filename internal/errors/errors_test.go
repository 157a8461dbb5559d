package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/KirkDiggler/rpg-encounter/internal/errors"
)

type ErrorsTestSuite struct {
	suite.Suite
}

func TestErrorsSuite(t *testing.T) {
	suite.Run(t, new(ErrorsTestSuite))
}

func (s *ErrorsTestSuite) TestErrorString() {
	err := errors.NotFoundf("encounter %s not found", "enc_1")
	s.Assert().Equal("NOT_FOUND: encounter enc_1 not found", err.Error())

	wrapped := errors.Wrap(fmt.Errorf("connection refused"), "failed to load encounter")
	s.Assert().Equal("INTERNAL: failed to load encounter: connection refused", wrapped.Error())

	// a literal percent is not treated as a verb
	s.Assert().Equal("count must be < 100%", errors.InvalidArgument("count must be < 100%").Message)
}

func (s *ErrorsTestSuite) TestWrap() {
	s.Run("plain error becomes internal", func() {
		base := fmt.Errorf("connection refused")
		wrapped := errors.Wrapf(base, "failed to load %s", "enc_1")
		s.Assert().Equal(errors.CodeInternal, wrapped.Code)
		s.Assert().Equal("failed to load enc_1", wrapped.Message)
		s.Assert().Equal(base, wrapped.Unwrap())
	})

	s.Run("engine error keeps code reason and meta", func() {
		wrapped := errors.Wrap(errors.EncounterNotFound("enc_1"), "advance failed")
		s.Assert().Equal(errors.CodeNotFound, wrapped.Code)
		s.Assert().Equal(errors.ReasonEncounterNotFound, wrapped.Reason)
		s.Assert().Equal("enc_1", wrapped.Meta["encounter_id"])
	})

	s.Run("finds an engine error behind fmt wrapping", func() {
		inner := fmt.Errorf("loading: %w", errors.ActorNotFound("hero"))
		s.Assert().True(errors.IsNotFound(errors.Wrap(inner, "outer")))
	})

	s.Run("nil stays nil", func() {
		s.Assert().Nil(errors.Wrap(nil, "should be nil"))
	})
}

func (s *ErrorsTestSuite) TestTaxonomy() {
	testCases := []struct {
		name   string
		err    error
		code   errors.Code
		reason errors.Reason
	}{
		{"remote fetch", errors.RemoteFetchf(fmt.Errorf("timeout"), "fetch %s", "Monsters.json"), errors.CodeUnavailable, errors.ReasonRemoteFetch},
		{"remote fetch without cause", errors.RemoteFetchf(nil, "status %d", 404), errors.CodeUnavailable, errors.ReasonRemoteFetch},
		{"template not found", errors.TemplateNotFoundf("template %s", "goblin"), errors.CodeNotFound, errors.ReasonTemplateNotFound},
		{"empty turn order", errors.EmptyTurnOrder("enc_1"), errors.CodeFailedPrecondition, errors.ReasonEmptyTurnOrder},
		{"unknown actor kind", errors.UnknownActorKind("a_1", "GHOST"), errors.CodeFailedPrecondition, errors.ReasonUnknownActorKind},
		{"actor not found", errors.ActorNotFound("a_1"), errors.CodeNotFound, errors.ReasonActorNotFound},
		{"encounter not found", errors.EncounterNotFound("enc_1"), errors.CodeNotFound, errors.ReasonEncounterNotFound},
		{"oracle unavailable", errors.OracleUnavailable(fmt.Errorf("dial tcp")), errors.CodeUnavailable, errors.ReasonOracleUnavailable},
		{"oracle unavailable without cause", errors.OracleUnavailable(nil), errors.CodeUnavailable, errors.ReasonOracleUnavailable},
		{"encounter ended", errors.EncounterEnded("enc_1"), errors.CodeFailedPrecondition, errors.ReasonEncounterEnded},
		{"pointer conflict", errors.PointerConflict("enc_1", 0, 1), errors.CodeAborted, errors.ReasonPointerConflict},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Assert().Equal(tc.code, errors.GetCode(tc.err))
			s.Assert().Equal(tc.reason, errors.GetReason(tc.err))
			s.Assert().True(errors.HasReason(errors.Wrap(tc.err, "wrapped"), tc.reason))
		})
	}

	s.Assert().Equal(errors.Reason(""), errors.GetReason(fmt.Errorf("plain")))
	s.Assert().False(errors.HasReason(fmt.Errorf("plain"), errors.ReasonRemoteFetch))
}

func (s *ErrorsTestSuite) TestRecodeKeepsCauseMeta() {
	cause := errors.NotFoundf("no such document").WithMeta("status", 404)
	err := errors.RemoteFetchf(cause, "fetch %s", "spells.json")

	s.Assert().True(errors.IsUnavailable(err))
	s.Assert().Equal(404, errors.GetMeta(err)["status"])
	// the cause still answers for itself
	s.Assert().True(errors.IsNotFound(err.Unwrap()))
}

func (s *ErrorsTestSuite) TestCodeChecks() {
	testCases := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"not found", errors.NotFoundf("x"), errors.IsNotFound},
		{"invalid argument", errors.InvalidArgument("x"), errors.IsInvalidArgument},
		{"already exists", errors.AlreadyExistsf("x"), errors.IsAlreadyExists},
		{"failed precondition", errors.FailedPreconditionf("x"), errors.IsFailedPrecondition},
		{"aborted", errors.Abortedf("x"), errors.IsAborted},
		{"unavailable", errors.OracleUnavailable(nil), errors.IsUnavailable},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Assert().True(tc.check(tc.err))
			s.Assert().True(tc.check(errors.Wrap(tc.err, "wrapped")))
			s.Assert().False(tc.check(errors.Internalf("x")))
		})
	}
}

func (s *ErrorsTestSuite) TestGetters() {
	err := errors.NotFoundf("user friendly message")
	wrapped := errors.Wrap(err, "wrapped message")
	plain := fmt.Errorf("standard error")

	s.Assert().Equal(errors.CodeNotFound, errors.GetCode(wrapped))
	s.Assert().Equal(errors.CodeInternal, errors.GetCode(plain))
	s.Assert().Equal(errors.Code(""), errors.GetCode(nil))

	s.Assert().Equal("user friendly message", errors.GetMessage(err))
	s.Assert().Equal("wrapped message", errors.GetMessage(wrapped))
	s.Assert().Equal("standard error", errors.GetMessage(plain))
	s.Assert().Empty(errors.GetMessage(nil))
	s.Assert().Nil(errors.GetMeta(plain))
}

func (s *ErrorsTestSuite) TestTransportMapping() {
	testCases := []struct {
		code errors.Code
		http int
		grpc codes.Code
	}{
		{errors.CodeInvalidArgument, 400, codes.InvalidArgument},
		{errors.CodeNotFound, 404, codes.NotFound},
		{errors.CodeAlreadyExists, 409, codes.AlreadyExists},
		{errors.CodeFailedPrecondition, 412, codes.FailedPrecondition},
		{errors.CodeAborted, 409, codes.Aborted},
		{errors.CodeInternal, 500, codes.Internal},
		{errors.CodeUnavailable, 503, codes.Unavailable},
		{errors.Code("BOGUS"), 500, codes.Unknown},
	}

	for _, tc := range testCases {
		s.Run(tc.code.String(), func() {
			s.Assert().Equal(tc.http, tc.code.HTTPStatus())
			s.Assert().Equal(tc.grpc, tc.code.GRPCCode())
		})
	}
}

func (s *ErrorsTestSuite) TestToGRPCError() {
	s.Run("reason travels as error info", func() {
		st, ok := status.FromError(errors.ToGRPCError(errors.EncounterEnded("enc_1")))
		s.Require().True(ok)
		s.Assert().Equal(codes.FailedPrecondition, st.Code())
		s.Assert().Equal("encounter enc_1 has ended", st.Message())

		s.Require().Len(st.Details(), 1)
		info, ok := st.Details()[0].(*errdetails.ErrorInfo)
		s.Require().True(ok)
		s.Assert().Equal("ENCOUNTER_ENDED", info.GetReason())
		s.Assert().Equal("enc_1", info.GetMetadata()["encounter_id"])
	})

	s.Run("no reason means no details", func() {
		st, ok := status.FromError(errors.ToGRPCError(errors.NotFoundf("encounter not found")))
		s.Require().True(ok)
		s.Assert().Equal(codes.NotFound, st.Code())
		s.Assert().Empty(st.Details())
	})

	s.Run("status errors pass through", func() {
		in := status.Error(codes.InvalidArgument, "invalid input")
		s.Assert().Equal(in, errors.ToGRPCError(in))
	})

	s.Run("plain errors are internal", func() {
		st, _ := status.FromError(errors.ToGRPCError(fmt.Errorf("boom")))
		s.Assert().Equal(codes.Internal, st.Code())
		s.Assert().Equal("boom", st.Message())
	})

	s.Assert().NoError(errors.ToGRPCError(nil))
}
