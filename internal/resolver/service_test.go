package resolver

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/citiesense/ginkgo-stakeholder-portal/internal/assoc"
	"github.com/citiesense/ginkgo-stakeholder-portal/internal/kv"
	"github.com/citiesense/ginkgo-stakeholder-portal/internal/registry"
	dErrors "github.com/citiesense/ginkgo-stakeholder-portal/pkg/domain-errors"
)

// fakeRegistry backs resolution tests with an in-memory contact table whose
// search matches any field exactly, mimicking the upstream q= behavior.
type fakeRegistry struct {
	contacts []registry.Record
	nextID   int

	searches []string
	updates  map[string]map[string]any
	created  []map[string]any

	searchErr error
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{nextID: 1, updates: map[string]map[string]any{}}
}

func (f *fakeRegistry) addContact(fields map[string]any) string {
	id := "c" + strconv.Itoa(f.nextID)
	f.nextID++
	rec := registry.Record{"id": id}
	for k, v := range fields {
		rec[k] = v
	}
	f.contacts = append(f.contacts, rec)
	return id
}

func (f *fakeRegistry) Search(_ context.Context, _ registry.Kind, query string) ([]registry.Record, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	f.searches = append(f.searches, query)
	var out []registry.Record
	for _, rec := range f.contacts {
		for _, field := range []string{"email", "phone", "name"} {
			if rec.Str(field) != "" && rec.Str(field) == query {
				out = append(out, rec)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeRegistry) SearchByContactIDs(_ context.Context, _ registry.Kind, _ []string) ([]registry.Record, error) {
	return nil, registry.ErrBatchUnsupported
}

func (f *fakeRegistry) Get(_ context.Context, _ registry.Kind, id string) (registry.Record, error) {
	for _, rec := range f.contacts {
		if rec.ID() == id {
			return rec, nil
		}
	}
	return nil, dErrors.New(dErrors.CodeNotFound, "no such contact")
}

func (f *fakeRegistry) Create(_ context.Context, _ registry.Kind, fields map[string]any) (registry.Record, error) {
	f.created = append(f.created, fields)
	id := f.addContact(fields)
	return registry.Record{"id": id}, nil
}

func (f *fakeRegistry) Update(_ context.Context, _ registry.Kind, id string, fields map[string]any) (registry.Record, error) {
	f.updates[id] = fields
	for _, rec := range f.contacts {
		if rec.ID() == id {
			for k, v := range fields {
				rec[k] = v
			}
			return rec, nil
		}
	}
	return nil, dErrors.New(dErrors.CodeNotFound, "no such contact")
}

func (f *fakeRegistry) LogEvent(_ context.Context, _ map[string]any) (registry.Record, error) {
	return registry.Record{"id": "ev1"}, nil
}

type singleClientFactory struct {
	client registry.Client
}

func (f *singleClientFactory) ForCommunity(_ context.Context, _ string) (registry.Client, error) {
	return f.client, nil
}

type recordingEvents struct {
	names []string
}

func (r *recordingEvents) Emit(_ context.Context, _ string, name string, _ map[string]any) (string, error) {
	r.names = append(r.names, name)
	return "ev1", nil
}

// ResolverSuite exercises the dedup guarantee and the matcher priority
// chain against an in-memory registry.
type ResolverSuite struct {
	suite.Suite
	registry *fakeRegistry
	store    *kv.Memory
	manager  *assoc.Manager
	events   *recordingEvents
	service  *Service
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, new(ResolverSuite))
}

func (s *ResolverSuite) SetupTest() {
	s.registry = newFakeRegistry()
	s.store = kv.NewMemory()
	s.manager = assoc.New(s.store, slog.Default())
	s.events = &recordingEvents{}
	s.service = New(&singleClientFactory{client: s.registry}, s.manager, s.events, slog.Default(), nil)
}

func (s *ResolverSuite) TestResolveCreates() {
	ctx := context.Background()

	s.Run("unknown identity creates a contact", func() {
		res, err := s.service.Resolve(ctx, "bk-dtwn", ResolveInput{
			Name:  "Ana Maria Perez",
			Email: "ana@x.com",
		})
		s.Require().NoError(err)
		s.True(res.Created)
		s.NotEmpty(res.ContactID)

		s.Require().Len(s.registry.created, 1)
		fields := s.registry.created[0]
		s.Equal("Ana", fields["first_name"])
		s.Equal("Maria Perez", fields["last_name"])
		s.Equal("Ana Maria Perez", fields["name"])
		s.Equal("ana@x.com", fields["email"])
	})

	s.Run("single-token name is not split", func() {
		res, err := s.service.Resolve(ctx, "bk-dtwn", ResolveInput{Name: "Cher"})
		s.Require().NoError(err)
		s.True(res.Created)

		fields := s.registry.created[len(s.registry.created)-1]
		s.Equal("Cher", fields["name"])
		s.NotContains(fields, "first_name")
	})

	s.Run("provenance marker is always present in notes", func() {
		_, err := s.service.Resolve(ctx, "bk-dtwn", ResolveInput{
			Name:  "Marker Check",
			Notes: "walked in asking about the lot",
		})
		s.Require().NoError(err)

		notes := s.registry.created[len(s.registry.created)-1]["notes"].(string)
		s.Contains(notes, "walked in asking about the lot")
		s.Contains(notes, "[source: stakeholder-portal]")
	})
}

func (s *ResolverSuite) TestResolveDeduplicates() {
	ctx := context.Background()

	s.Run("same email twice updates instead of creating", func() {
		first, err := s.service.Resolve(ctx, "bk-dtwn", ResolveInput{
			Name:  "Ana Perez",
			Email: "ana@x.com",
		})
		s.Require().NoError(err)
		s.True(first.Created)

		second, err := s.service.Resolve(ctx, "bk-dtwn", ResolveInput{
			Name:  "Ana Perez",
			Email: "ana@x.com",
			Phone: "718-555-1212",
		})
		s.Require().NoError(err)
		s.False(second.Created)
		s.Equal(first.ContactID, second.ContactID)
		s.Equal("email", second.MatchedBy)

		s.Equal("718-555-1212", s.registry.updates[first.ContactID]["phone"])
	})

	s.Run("email match wins over phone and name", func() {
		byEmail := s.registry.addContact(map[string]any{"email": "shared@x.com"})
		s.registry.addContact(map[string]any{"phone": "5551000"})

		res, err := s.service.Resolve(ctx, "bk-dtwn", ResolveInput{
			Email: "shared@x.com",
			Phone: "5551000",
		})
		s.Require().NoError(err)
		s.Equal(byEmail, res.ContactID)
		s.Equal("email", res.MatchedBy)
	})

	s.Run("phone is tried when email finds nothing", func() {
		byPhone := s.registry.addContact(map[string]any{"phone": "5552000"})

		res, err := s.service.Resolve(ctx, "bk-dtwn", ResolveInput{
			Email: "new-address@x.com",
			Phone: "5552000",
		})
		s.Require().NoError(err)
		s.Equal(byPhone, res.ContactID)
		s.Equal("phone", res.MatchedBy)
	})

	s.Run("name is the last resort", func() {
		byName := s.registry.addContact(map[string]any{"name": "Unusual Name"})

		res, err := s.service.Resolve(ctx, "bk-dtwn", ResolveInput{Name: "Unusual Name"})
		s.Require().NoError(err)
		s.Equal(byName, res.ContactID)
		s.Equal("name", res.MatchedBy)
	})
}

func (s *ResolverSuite) TestResolveWithSuppliedID() {
	ctx := context.Background()
	id := s.registry.addContact(map[string]any{"email": "known@x.com"})

	res, err := s.service.Resolve(ctx, "bk-dtwn", ResolveInput{
		ContactID: id,
		Phone:     "5553000",
	})
	s.Require().NoError(err)
	s.Equal(id, res.ContactID)
	s.Equal("supplied", res.MatchedBy)
	s.Empty(s.registry.searches, "supplied id skips search entirely")
}

func (s *ResolverSuite) TestResolveSideEffects() {
	ctx := context.Background()

	s.Run("business id links the resolved contact", func() {
		res, err := s.service.Resolve(ctx, "bk-dtwn", ResolveInput{
			Name:       "Linked Person",
			BusinessID: "b7",
		})
		s.Require().NoError(err)

		links, err := s.manager.LinksFor(ctx, res.ContactID)
		s.Require().NoError(err)
		s.Equal([]string{"b7"}, links.Businesses)
	})

	s.Run("audit event names creation vs resolution", func() {
		s.Contains(s.events.names, "contact.created")

		existing := s.registry.addContact(map[string]any{"email": "again@x.com"})
		res, err := s.service.Resolve(ctx, "bk-dtwn", ResolveInput{Email: "again@x.com"})
		s.Require().NoError(err)
		s.Equal(existing, res.ContactID)
		s.Equal("contact.resolved", s.events.names[len(s.events.names)-1])
	})
}

func (s *ResolverSuite) TestResolveFailures() {
	ctx := context.Background()

	s.Run("empty input is rejected", func() {
		_, err := s.service.Resolve(ctx, "bk-dtwn", ResolveInput{Notes: "only notes"})
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("registry search failure aborts", func() {
		s.registry.searchErr = dErrors.New(dErrors.CodeUpstream, "registry 502")
		_, err := s.service.Resolve(ctx, "bk-dtwn", ResolveInput{Email: "x@x.com"})
		s.True(dErrors.HasCode(err, dErrors.CodeUpstream))
		s.registry.searchErr = nil
	})
}

func TestWithProvenance(t *testing.T) {
	t.Run("empty notes become just the marker", func(t *testing.T) {
		if got := withProvenance("  "); got != provenanceMarker {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("marker is not duplicated", func(t *testing.T) {
		once := withProvenance("hello")
		twice := withProvenance(once)
		if strings.Count(twice, provenanceMarker) != 1 {
			t.Fatalf("marker duplicated: %q", twice)
		}
	})
}
