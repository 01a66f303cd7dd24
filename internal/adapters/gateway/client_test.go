package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"bidboard/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := New(srv.URL+"/api", Session{Token: "tok", UserID: "u1"}, WithTimeout(2*time.Second))
	require.NoError(t, err)
	return client
}

func TestListBidLinksSendsWindowAndAuth(t *testing.T) {
	from := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/bid-links", r.URL.Path)
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.NotEmpty(t, r.Header.Get("X-Request-ID"))
		require.Equal(t, from.Format(time.RFC3339), r.URL.Query().Get("from"))
		require.Equal(t, to.Format(time.RFC3339), r.URL.Query().Get("to"))
		require.Equal(t, "true", r.URL.Query().Get("showBlacklisted"))
		_, _ = w.Write([]byte(`{"bidLinks":[{"_id":"1","title":"Go dev","url":"https://a","confidence":0.9,
			"queryId":{"link":"q","category":"backend"},"queryDateLimit":7,
			"final_details":{"tag":"Remote Job","applicationMethods":{}}}]}`))
	})

	links, err := client.ListBidLinks(context.Background(), domain.BidLinkWindow{From: from, To: to, ShowBlacklisted: true})
	require.NoError(t, err)
	require.Len(t, links, 1)
	require.Equal(t, 0.9, links[0].ConfidenceOrZero())
	require.Equal(t, "backend", links[0].Category())
	require.NotNil(t, links[0].QueryDateLimit)
	require.Equal(t, 7, *links[0].QueryDateLimit)
	tag, ok := links[0].Tag()
	require.True(t, ok)
	require.Equal(t, domain.TagRemoteJob, tag)
}

func TestBlacklistRoundTrip(t *testing.T) {
	var removed string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/bid-links/blacklist", r.URL.Path)
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`{"blacklists":["Acme","spam.io"]}`))
		case http.MethodDelete:
			var body blacklistRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			removed = body.Company
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Fatalf("неожиданный метод %s", r.Method)
		}
	})

	entries, err := client.Blacklist(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"Acme", "spam.io"}, entries)
	require.NoError(t, client.RemoveBlacklist(context.Background(), "Acme"))
	require.Equal(t, "Acme", removed)
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, domain.ErrUnauthorized},
		{http.StatusForbidden, domain.ErrUnauthorized},
		{http.StatusNotFound, domain.ErrNotFound},
	}
	for _, tc := range cases {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			_, _ = w.Write([]byte(`{"message":"nope"}`))
		})
		_, err := client.GetScheduledSearch(context.Background(), "s1")
		require.ErrorIs(t, err, tc.want)
		require.Contains(t, err.Error(), "nope")
	}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})
	_, err := client.ListScheduledSearches(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "status=502")
}

func TestTriggerSearchEscapesID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/auto-search/search/a%20b", r.URL.EscapedPath())
		_, _ = w.Write([]byte(`{"jobsFound":12}`))
	})
	found, err := client.TriggerSearch(context.Background(), "a b")
	require.NoError(t, err)
	require.Equal(t, 12, found)
}

func TestEmptyBodyIsNotAnError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	require.NoError(t, client.AddBlacklist(context.Background(), "Acme"))
	_, err := client.CreateScheduledSearch(context.Background(), domain.ScheduledSearch{Name: "x"})
	require.NoError(t, err)
}

func TestLoginWithoutSession(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/login", r.URL.Path)
		var creds domain.Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		require.Equal(t, "a@b.c", creds.Email)
		require.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"token":"new","user":{"_id":"u9","name":"Ann","email":"a@b.c"}}`))
	})
	res, err := client.WithSession(Session{}).Login(context.Background(), domain.Credentials{Email: "a@b.c", Password: "p"})
	require.NoError(t, err)
	require.Equal(t, "new", res.Token)
	require.Equal(t, "u9", res.User.ID)
	require.Equal(t, "tok", client.Session().Token)
}

func TestRateLimitRespectsContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	limited := client.WithSession(client.Session())
	WithRateLimit(0.001)(limited)

	_, err := limited.Teams(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = limited.Teams(ctx)
	require.Error(t, err)
}

func TestSessionExpiry(t *testing.T) {
	exp := time.Date(2026, 11, 15, 0, 0, 0, 0, time.UTC)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": exp.Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	s := Session{Token: token, UserID: "u1"}
	got, ok := s.ExpiresAt()
	require.True(t, ok)
	require.True(t, got.Equal(exp))
	require.True(t, s.Valid(exp.Add(-time.Hour)))
	require.False(t, s.Valid(exp.Add(time.Second)))

	require.False(t, Session{}.Valid(time.Now()))
	require.True(t, Session{Token: "opaque"}.Valid(time.Now()))
}
