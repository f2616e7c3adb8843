package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

// DomainErrorsSuite tests the domain error primitives.
//
// Justification: these codes are how callers distinguish not-found from
// upstream-failure from store-unavailable, so the matching semantics are a
// contract, not an implementation detail.
type DomainErrorsSuite struct {
	suite.Suite
}

func TestDomainErrorsSuite(t *testing.T) {
	suite.Run(t, new(DomainErrorsSuite))
}

func (s *DomainErrorsSuite) TestErrorInterface() {
	s.Run("returns message when present", func() {
		err := &Error{Code: CodeUpstream, Message: "registry returned 502"}
		s.Equal("registry returned 502", err.Error())
	})

	s.Run("returns code when message is empty", func() {
		err := &Error{Code: CodeCorruptRecord}
		s.Equal("corrupt_record", err.Error())
	})
}

func (s *DomainErrorsSuite) TestWrap() {
	s.Run("wraps foreign error with given code", func() {
		inner := errors.New("connection refused")
		err := Wrap(inner, CodeUnavailable, "association store write failed")
		s.True(HasCode(err, CodeUnavailable))
		s.True(errors.Is(err, inner))
	})

	s.Run("preserves code of an already-domain error", func() {
		inner := New(CodeNotFound, "community not configured")
		err := Wrap(inner, CodeInternal, "lookup failed")
		s.True(HasCode(err, CodeNotFound))
	})

	s.Run("survives fmt.Errorf chains", func() {
		err := fmt.Errorf("resolve contact: %w", New(CodeUpstream, "registry 500"))
		s.True(HasCode(err, CodeUpstream))
	})
}

func (s *DomainErrorsSuite) TestIsMatching() {
	s.Run("matches by code only", func() {
		err1 := &Error{Code: CodeNotFound, Message: "contact not found"}
		err2 := &Error{Code: CodeNotFound, Message: "community not found"}
		s.True(err1.Is(err2))
	})

	s.Run("does not match different codes", func() {
		s.False(HasCode(New(CodeUnavailable, ""), CodeUpstream))
	})

	s.Run("does not match non-domain errors", func() {
		s.False(HasCode(errors.New("not found"), CodeNotFound))
	})
}
