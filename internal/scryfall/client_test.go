package scryfall

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcanaland/mtgcalc/internal/card"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(WithBaseURL(server.URL), WithRateLimit(0))
}

func TestNewClient(t *testing.T) {
	client := NewClient()

	require.NotNil(t, client)
	assert.NotNil(t, client.httpClient)
	assert.NotNil(t, client.rateLimiter)
	assert.Equal(t, defaultUserAgent, client.userAgent)
	assert.Equal(t, defaultBaseURL, client.baseURL)
	assert.Equal(t, "cards", client.unique)
}

func TestSearchSetCards_Pagination(t *testing.T) {
	var serverURL string
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		assert.Equal(t, "/cards/search", r.URL.Path)
		assert.Equal(t, "MTGCalculator/0.1", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")

		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `{"object":"list","has_more":false,"data":[
				{"name":"Shock","rarity":"common","mana_cost":"{R}","type_line":"Instant","set":"tst","prices":{"usd":"0.05"}}
			]}`)
			return
		}

		q := r.URL.Query()
		assert.Equal(t, "set:tst game:paper", q.Get("q"))
		assert.Equal(t, "cards", q.Get("unique"))
		assert.Equal(t, "set", q.Get("order"))
		assert.Equal(t, "true", q.Get("include_extras"))
		assert.Equal(t, "true", q.Get("include_variations"))

		fmt.Fprintf(w, `{"object":"list","has_more":true,"next_page":"%s/cards/search?page=2","data":[
			{"name":"Lightning Bolt","rarity":"uncommon","mana_cost":"{R}","type_line":"Instant","set":"tst","prices":{"usd":null,"usd_foil":"2.50"}}
		]}`, serverURL)
	}))
	defer server.Close()
	serverURL = server.URL

	client := NewClient(WithBaseURL(server.URL), WithRateLimit(0))
	cards, err := client.SearchSetCards(context.Background(), "tst")
	require.NoError(t, err)

	assert.Equal(t, 2, requests)
	require.Len(t, cards, 2)
	assert.Equal(t, "Lightning Bolt", cards[0].Name)
	assert.Equal(t, card.Uncommon, cards[0].Rarity)
	require.NotNil(t, cards[0].Price)
	assert.Equal(t, 2.50, *cards[0].Price)
	assert.Equal(t, "Shock", cards[1].Name)
	assert.Equal(t, 0.05, cards[1].Value())
}

func TestSearchSetCards_SkipsEmptyCodes(t *testing.T) {
	var seen []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.URL.Query().Get("q"))
		fmt.Fprint(w, `{"object":"list","has_more":false,"data":[]}`)
	})

	_, err := client.SearchSetCards(context.Background(), "aaa", "", "bbb")
	require.NoError(t, err)
	assert.Equal(t, []string{"set:aaa game:paper", "set:bbb game:paper"}, seen)
}

func TestSearchSetCards_MalformedResponses(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>oops</html>`},
		{"missing data", `{"object":"list","has_more":false}`},
		{"has more without next page", `{"object":"list","has_more":true,"data":[]}`},
		{"missing rarity", `{"has_more":false,"data":[{"name":"X","type_line":"Instant","mana_cost":""}]}`},
		{"bad price", `{"has_more":false,"data":[{"name":"X","rarity":"rare","type_line":"Instant","mana_cost":"","prices":{"usd":"cheap"}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tt.body)
			})

			_, err := client.SearchSetCards(context.Background(), "tst")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedResponse), "got %v", err)
		})
	}
}

func TestSearchSetCards_APIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"object":"error","code":"not_found","status":404,"details":"No cards found"}`)
	})

	_, err := client.SearchSetCards(context.Background(), "zzz")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.True(t, errors.Is(err, ErrNetwork))
}

func TestSearchSetCards_StatusWithoutErrorBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "upstream down")
	})

	_, err := client.SearchSetCards(context.Background(), "tst")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNetwork))
	assert.Contains(t, err.Error(), "502")
}

func TestSearchSetCards_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(WithBaseURL(url), WithRateLimit(0))
	_, err := client.SearchSetCards(context.Background(), "tst")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNetwork))
}

func TestSets(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sets", r.URL.Path)
		fmt.Fprint(w, `{"object":"list","data":[
			{"name":"Murders at Karlov Manor","code":"mkm","card_count":286,"released_at":"2024-02-09","set_type":"expansion","search_uri":"https://api.scryfall.com/cards/search?q=e:mkm"},
			{"name":"Alpha","code":"lea","card_count":295,"released_at":"1993-08-05","set_type":"core","block":"Core Set"}
		]}`)
	})

	sets, err := client.Sets(context.Background())
	require.NoError(t, err)
	require.Len(t, sets, 2)

	assert.Equal(t, card.Set{
		Name:       "Murders at Karlov Manor",
		Code:       "mkm",
		CardCount:  286,
		ReleasedAt: "2024-02-09",
		SetType:    "expansion",
		SearchURI:  "https://api.scryfall.com/cards/search?q=e:mkm",
	}, sets[0])
	assert.Equal(t, "Core Set", sets[1].Block)
}

func TestSets_MissingRequiredField(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"object":"list","data":[{"name":"No Code","set_type":"expansion"}]}`)
	})

	_, err := client.Sets(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedResponse))
}

func TestDoRequest_CanceledContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out map[string]any
	err := client.doRequest(ctx, client.baseURL+"/sets", &out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNetwork))
}
