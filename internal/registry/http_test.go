package registry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citiesense/ginkgo-stakeholder-portal/internal/community"
	dErrors "github.com/citiesense/ginkgo-stakeholder-portal/pkg/domain-errors"
)

func newTestRegistry(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *HTTPClient) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, NewHTTPClient(srv.URL, "bk-dtwn", "gk_test", srv.Client())
}

func TestHTTPClientSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("sends query and decodes records", func(t *testing.T) {
		_, client := newTestRegistry(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/community/bk-dtwn/contacts", r.URL.Path)
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "Bearer gk_test", r.Header.Get("Authorization"))

			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "ana@x.com", body["q"])

			_, _ = w.Write([]byte(`[{"id":"c1","email":"ana@x.com"}]`))
		})

		recs, err := client.Search(ctx, KindContact, "ana@x.com")
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, "c1", recs[0].ID())
		assert.Equal(t, "ana@x.com", recs[0].Str("email"))
	})

	t.Run("empty result is not an error", func(t *testing.T) {
		_, client := newTestRegistry(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`[]`))
		})

		recs, err := client.Search(ctx, KindContact, "nobody@x.com")
		require.NoError(t, err)
		assert.Empty(t, recs)
	})

	t.Run("non-success status is an upstream failure", func(t *testing.T) {
		_, client := newTestRegistry(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		_, err := client.Search(ctx, KindContact, "ana@x.com")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUpstream))
	})
}

func TestHTTPClientSearchByContactIDs(t *testing.T) {
	ctx := context.Background()

	t.Run("structured filter decodes records", func(t *testing.T) {
		_, client := newTestRegistry(t, func(w http.ResponseWriter, r *http.Request) {
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, []any{"c1", "c2"}, body["contact_ids"])

			_, _ = w.Write([]byte(`[{"id":"b1","contact_ids":["c1"]}]`))
		})

		recs, err := client.SearchByContactIDs(ctx, KindBusiness, []string{"c1", "c2"})
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, []string{"c1"}, recs[0].StrList("contact_ids"))
	})

	t.Run("rejected filter maps to batch-unsupported", func(t *testing.T) {
		_, client := newTestRegistry(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
		})

		_, err := client.SearchByContactIDs(ctx, KindBusiness, []string{"c1"})
		assert.ErrorIs(t, err, ErrBatchUnsupported)
	})

	t.Run("server failure stays an upstream error", func(t *testing.T) {
		_, client := newTestRegistry(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, err := client.SearchByContactIDs(ctx, KindBusiness, []string{"c1"})
		assert.NotErrorIs(t, err, ErrBatchUnsupported)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUpstream))
	})
}

func TestHTTPClientWrites(t *testing.T) {
	ctx := context.Background()

	t.Run("create posts fields and returns record", func(t *testing.T) {
		_, client := newTestRegistry(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "Ana", body["first_name"])

			_, _ = w.Write([]byte(`{"id":"c9","first_name":"Ana"}`))
		})

		rec, err := client.Create(ctx, KindContact, map[string]any{"first_name": "Ana"})
		require.NoError(t, err)
		assert.Equal(t, "c9", rec.ID())
	})

	t.Run("update patches by id", func(t *testing.T) {
		_, client := newTestRegistry(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPatch, r.Method)
			assert.Equal(t, "/community/bk-dtwn/contacts/c1", r.URL.Path)
			_, _ = w.Write([]byte(`{"id":"c1"}`))
		})

		rec, err := client.Update(ctx, KindContact, "c1", map[string]any{"phone": "5551212"})
		require.NoError(t, err)
		assert.Equal(t, "c1", rec.ID())
	})

	t.Run("empty success body is tolerated", func(t *testing.T) {
		_, client := newTestRegistry(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		rec, err := client.Update(ctx, KindContact, "c1", map[string]any{"phone": "5551212"})
		require.NoError(t, err)
		assert.Empty(t, rec.ID())
	})

	t.Run("log event posts to events collection", func(t *testing.T) {
		_, client := newTestRegistry(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/community/bk-dtwn/events", r.URL.Path)
			_, _ = w.Write([]byte(`{"id":"ev1"}`))
		})

		rec, err := client.LogEvent(ctx, map[string]any{"name": "contact.resolved"})
		require.NoError(t, err)
		assert.Equal(t, "ev1", rec.ID())
	})
}

func TestHTTPFactory(t *testing.T) {
	ctx := context.Background()
	src, err := community.ParseStatic(`{"bk-dtwn":{"registry_api_key":"gk_abc"}}`)
	require.NoError(t, err)

	factory := NewHTTPFactory("http://registry.local", src, nil)

	t.Run("known community yields bound client", func(t *testing.T) {
		client, err := factory.ForCommunity(ctx, "bk-dtwn")
		require.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("unknown community is not found", func(t *testing.T) {
		_, err := factory.ForCommunity(ctx, "nowhere")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}
