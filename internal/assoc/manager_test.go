package assoc

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/citiesense/ginkgo-stakeholder-portal/internal/domain"
	"github.com/citiesense/ginkgo-stakeholder-portal/internal/kv"
	dErrors "github.com/citiesense/ginkgo-stakeholder-portal/pkg/domain-errors"
)

// ManagerSuite exercises the association read-modify-write cycles against the
// in-memory store.
//
// Justification: idempotence, bidirectional reflection, and the
// corrupt-vs-absent distinction are the contract of the index; they cannot
// be checked through the HTTP layer alone.
type ManagerSuite struct {
	suite.Suite
	store   *kv.Memory
	manager *Manager
}

func TestManagerSuite(t *testing.T) {
	suite.Run(t, new(ManagerSuite))
}

func (s *ManagerSuite) SetupTest() {
	s.store = kv.NewMemory()
	s.manager = New(s.store, slog.Default())
}

func (s *ManagerSuite) readDoc(key string, out any) {
	raw, ok, err := s.store.Get(context.Background(), key)
	s.Require().NoError(err)
	s.Require().True(ok, "expected document at %s", key)
	s.Require().NoError(json.Unmarshal([]byte(raw), out))
}

func (s *ManagerSuite) TestLink() {
	ctx := context.Background()

	s.Run("link writes forward and reverse documents", func() {
		s.Require().NoError(s.manager.Link(ctx, "c1", LinkOpts{BusinessID: "b1"}))

		links, err := s.manager.LinksFor(ctx, "c1")
		s.Require().NoError(err)
		s.Equal([]string{"b1"}, links.Businesses)
		s.Empty(links.Properties)

		var reverse struct {
			Contacts []string `json:"contacts"`
		}
		s.readDoc("assoc:business:b1", &reverse)
		s.Equal([]string{"c1"}, reverse.Contacts)
	})

	s.Run("linking twice is idempotent", func() {
		s.Require().NoError(s.manager.Link(ctx, "c1", LinkOpts{BusinessID: "b1"}))
		s.Require().NoError(s.manager.Link(ctx, "c1", LinkOpts{BusinessID: "b1"}))

		links, err := s.manager.LinksFor(ctx, "c1")
		s.Require().NoError(err)
		s.Equal([]string{"b1"}, links.Businesses, "sets, not multisets")
	})

	s.Run("business and property in one call touch three documents", func() {
		s.Require().NoError(s.manager.Link(ctx, "c2", LinkOpts{BusinessID: "b2", PropertyID: "p1"}))

		links, err := s.manager.LinksFor(ctx, "c2")
		s.Require().NoError(err)
		s.Equal([]string{"b2"}, links.Businesses)
		s.Equal([]string{"p1"}, links.Properties)

		var reverse struct {
			Contacts []string `json:"contacts"`
		}
		s.readDoc("assoc:property:p1", &reverse)
		s.Equal([]string{"c2"}, reverse.Contacts)
	})

	s.Run("insertion order is preserved across links", func() {
		s.Require().NoError(s.manager.Link(ctx, "c3", LinkOpts{BusinessID: "b9"}))
		s.Require().NoError(s.manager.Link(ctx, "c3", LinkOpts{BusinessID: "b1"}))
		s.Require().NoError(s.manager.Link(ctx, "c3", LinkOpts{BusinessID: "b9"}))

		links, err := s.manager.LinksFor(ctx, "c3")
		s.Require().NoError(err)
		s.Equal([]string{"b9", "b1"}, links.Businesses)
	})

	s.Run("no ids supplied is a no-op", func() {
		s.Require().NoError(s.manager.Link(ctx, "c4", LinkOpts{}))
		_, ok, err := s.store.Get(ctx, "assoc:contact:c4")
		s.Require().NoError(err)
		s.False(ok)
	})
}

func (s *ManagerSuite) TestLinksFor() {
	ctx := context.Background()

	s.Run("unknown contact yields empty default", func() {
		links, err := s.manager.LinksFor(ctx, "ghost")
		s.Require().NoError(err)
		s.Equal(domain.EmptyAssociationLinks(), links)
	})

	s.Run("corrupt document fails loudly", func() {
		s.Require().NoError(s.store.Set(ctx, "assoc:contact:bad", `{"businesses": "not-a-list"`))

		_, err := s.manager.LinksFor(ctx, "bad")
		s.True(dErrors.HasCode(err, dErrors.CodeCorruptRecord))
	})

	s.Run("corrupt reverse document fails link", func() {
		s.Require().NoError(s.store.Set(ctx, "assoc:business:bad", `not json`))

		err := s.manager.Link(ctx, "c9", LinkOpts{BusinessID: "bad"})
		s.True(dErrors.HasCode(err, dErrors.CodeCorruptRecord))
	})

	s.Run("older documents with null fields normalize to empty slices", func() {
		s.Require().NoError(s.store.Set(ctx, "assoc:contact:old", `{"businesses":null,"properties":["p1"]}`))

		links, err := s.manager.LinksFor(ctx, "old")
		s.Require().NoError(err)
		s.NotNil(links.Businesses)
		s.Equal([]string{"p1"}, links.Properties)
	})
}

func (s *ManagerSuite) TestDegradedMode() {
	ctx := context.Background()
	degraded := New(nil, slog.Default())

	s.Run("link without a store returns immediately", func() {
		s.NoError(degraded.Link(ctx, "c1", LinkOpts{BusinessID: "b1", PropertyID: "p1"}))
	})

	s.Run("linksFor without a store yields empty default", func() {
		links, err := degraded.LinksFor(ctx, "c1")
		s.Require().NoError(err)
		s.Equal(domain.EmptyAssociationLinks(), links)
	})
}
