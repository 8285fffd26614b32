package services

import (
	"context"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/recipes/internal/client/client"
	"github.com/dmitrijs2005/recipes/internal/client/filters"
	"github.com/dmitrijs2005/recipes/internal/client/models"
	"github.com/dmitrijs2005/recipes/internal/logging"
)

const testDebounce = 20 * time.Millisecond

type searchFixture struct {
	api     *fakeAPI
	view    *recordingView
	history *filters.MemoryHistory
	search  *SearchController
}

func newSearchFixture(t *testing.T, session SessionReader, start string) *searchFixture {
	t.Helper()
	u, err := url.Parse(start)
	require.NoError(t, err)

	f := &searchFixture{
		api:     newFakeAPI(),
		view:    newRecordingView(),
		history: filters.NewMemoryHistory(u),
	}
	toast := NewToaster(f.view, time.Minute)
	f.search = NewSearchController(f.api, session, f.view, toast, f.history, logging.Discard(), testDebounce)
	t.Cleanup(f.search.Close)
	return f
}

func (f *searchFixture) idle(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, f.search.Idle(ctx))
}

func recipes(ids ...int64) []models.RecipeSummary {
	out := make([]models.RecipeSummary, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.RecipeSummary{ID: id, Title: "Rezept"})
	}
	return out
}

func TestSearchController_InitialStateFromURL(t *testing.T) {
	f := newSearchFixture(t, staticSession{}, "/?query=suppe&max_minutes=20&bogus=1")

	st := f.search.State()
	assert.Equal(t, "suppe", st.Query)
	require.NotNil(t, st.MaxMinutes)
	assert.Equal(t, 20, *st.MaxMinutes)
}

func TestSearchController_DebounceCoalesces(t *testing.T) {
	f := newSearchFixture(t, staticSession{}, "/")

	var mu sync.Mutex
	var seen []filters.State
	f.api.searchFn = func(_ context.Context, s filters.State) (*models.SearchResult, error) {
		mu.Lock()
		seen = append(seen, s)
		mu.Unlock()
		return &models.SearchResult{Total: 2, Recipes: recipes(1, 2)}, nil
	}

	for _, q := range []string{"p", "pa", "pas", "past", "pasta"} {
		q := q
		f.search.Update(func(s *filters.State) { s.Query = q })
	}
	f.idle(t)

	assert.Equal(t, 1, f.api.count("search"))
	require.Len(t, seen, 1)
	assert.Equal(t, "pasta", seen[0].Query)
	assert.EqualValues(t, 1, f.search.Epoch())

	snap := f.view.snapshot()
	require.Len(t, snap.listings, 1)
	assert.Equal(t, "2 Rezepte gefunden", snap.listings[0].Title())
	assert.Len(t, snap.listings[0].Result.Recipes, 2)
	assert.Equal(t, "/?query=pasta", snap.urls[len(snap.urls)-1])
}

func TestSearchController_StaleResponseDropped(t *testing.T) {
	f := newSearchFixture(t, staticSession{}, "/")

	type call struct {
		ctx     context.Context
		release chan struct{}
		result  *models.SearchResult
	}
	var mu sync.Mutex
	var calls []*call
	started := make(chan struct{}, 2)

	f.api.searchFn = func(ctx context.Context, s filters.State) (*models.SearchResult, error) {
		c := &call{ctx: ctx, release: make(chan struct{})}
		if s.Query == "a" {
			c.result = &models.SearchResult{Total: 1, Recipes: recipes(1)}
		} else {
			c.result = &models.SearchResult{Total: 3, Recipes: recipes(2, 3, 4)}
		}
		mu.Lock()
		calls = append(calls, c)
		mu.Unlock()
		started <- struct{}{}
		<-c.release
		return c.result, nil
	}

	before := testutil.ToFloat64(searchesSuperseded)

	f.search.Update(func(s *filters.State) { s.Query = "a" })
	f.search.Refresh(context.Background())
	<-started
	f.search.Update(func(s *filters.State) { s.Query = "b" })
	f.search.Refresh(context.Background())
	<-started

	mu.Lock()
	a, b := calls[0], calls[1]
	mu.Unlock()

	// B settles first, then A arrives late.
	close(b.release)
	require.Eventually(t, func() bool { return len(f.view.snapshot().listings) == 1 }, time.Second, 5*time.Millisecond)
	close(a.release)
	f.idle(t)

	snap := f.view.snapshot()
	require.Len(t, snap.listings, 1)
	assert.Equal(t, 3, snap.listings[0].Result.Total)

	l, ok := f.search.Listing()
	require.True(t, ok)
	assert.Equal(t, 3, l.Result.Total)

	assert.Equal(t, before+1, testutil.ToFloat64(searchesSuperseded))
	assert.Error(t, a.ctx.Err(), "superseded request is canceled")
	assert.Equal(t, []bool{true, false}, snap.loading)
}

func TestSearchController_FailureKeepsListing(t *testing.T) {
	f := newSearchFixture(t, staticSession{}, "/")

	fail := false
	var mu sync.Mutex
	f.api.searchFn = func(context.Context, filters.State) (*models.SearchResult, error) {
		mu.Lock()
		defer mu.Unlock()
		if fail {
			return nil, apiErr(client.KindServer, 500, "server error, retry later")
		}
		return &models.SearchResult{Total: 1, Recipes: recipes(7)}, nil
	}

	f.search.Refresh(context.Background())
	f.idle(t)

	mu.Lock()
	fail = true
	mu.Unlock()
	f.search.Refresh(context.Background())
	f.idle(t)

	snap := f.view.snapshot()
	require.Len(t, snap.listings, 1)
	require.Len(t, snap.toasts, 1)
	assert.Equal(t, Toast{Level: ToastError, Message: "server error, retry later"}, snap.toasts[0])

	l, ok := f.search.Listing()
	require.True(t, ok)
	assert.Equal(t, int64(7), l.Result.Recipes[0].ID)
	assert.Equal(t, []bool{true, false, true, false}, snap.loading)
}

func TestSearchController_EmptyState(t *testing.T) {
	f := newSearchFixture(t, staticSession{}, "/")

	total := 2
	var mu sync.Mutex
	f.api.searchFn = func(context.Context, filters.State) (*models.SearchResult, error) {
		mu.Lock()
		defer mu.Unlock()
		if total == 0 {
			return &models.SearchResult{}, nil
		}
		return &models.SearchResult{Total: 2, Recipes: recipes(1, 2)}, nil
	}

	f.search.Refresh(context.Background())
	f.idle(t)
	mu.Lock()
	total = 0
	mu.Unlock()
	f.search.Update(func(s *filters.State) { s.Query = "xyz" })
	f.idle(t)

	snap := f.view.snapshot()
	require.Len(t, snap.listings, 2)
	last := snap.listings[1]
	assert.True(t, last.Empty())
	assert.Empty(t, last.Result.Recipes)
	assert.Equal(t, "0 Rezepte gefunden", last.Title())
	assert.False(t, snap.listings[0].Empty())
}

func TestSearchController_HistoryOneEntryPerSearch(t *testing.T) {
	f := newSearchFixture(t, staticSession{}, "/")

	f.search.Update(func(s *filters.State) { s.Query = "k" })
	f.search.Update(func(s *filters.State) { s.Query = "ku" })
	f.search.Update(func(s *filters.State) { s.Query = "kuchen" })
	f.idle(t)
	assert.Equal(t, 2, f.history.Len())
	assert.Equal(t, "query=kuchen", f.history.Current().RawQuery)

	f.search.Update(func(s *filters.State) { s.Diet = "vegan" })
	f.idle(t)
	assert.Equal(t, 3, f.history.Len())

	require.True(t, f.search.Back(context.Background()))
	f.idle(t)
	assert.Equal(t, filters.State{Query: "kuchen"}, f.search.State())
	assert.Equal(t, 3, f.api.count("search"))

	require.True(t, f.search.Back(context.Background()))
	f.idle(t)
	assert.True(t, f.search.State().IsZero())
	assert.False(t, f.search.Back(context.Background()))
}

func TestSearchController_ResetClearsAndSearches(t *testing.T) {
	f := newSearchFixture(t, staticSession{}, "/?query=pizza&cuisine=italienisch")

	var got filters.State
	var mu sync.Mutex
	f.api.searchFn = func(_ context.Context, s filters.State) (*models.SearchResult, error) {
		mu.Lock()
		got = s
		mu.Unlock()
		return &models.SearchResult{}, nil
	}

	f.search.Update(func(s *filters.State) { s.Diet = "vegan" })
	f.search.Reset(context.Background())
	f.idle(t)

	assert.Equal(t, 1, f.api.count("search"), "pending debounce is dropped")
	mu.Lock()
	assert.True(t, got.IsZero())
	mu.Unlock()
	assert.Empty(t, f.history.Current().RawQuery)
}

func TestSearchController_FavoritesGated(t *testing.T) {
	f := newSearchFixture(t, staticSession{}, "/")

	err := f.search.ShowFavorites(context.Background())
	require.ErrorIs(t, err, ErrLoginRequired)
	assert.Equal(t, 1, f.view.snapshot().loginOpened)
	assert.Zero(t, f.api.count("favorites"))
}

func TestSearchController_Favorites(t *testing.T) {
	f := newSearchFixture(t, signedIn(), "/")
	f.api.favoritesFn = func(context.Context) (*models.SearchResult, error) {
		return &models.SearchResult{Total: 1, Recipes: []models.RecipeSummary{{ID: 5, IsFavorite: true}}}, nil
	}

	require.NoError(t, f.search.ShowFavorites(context.Background()))
	f.idle(t)

	l, ok := f.search.Listing()
	require.True(t, ok)
	assert.Equal(t, ListingFavorites, l.Kind)
	assert.Equal(t, "Meine Favoriten", l.Title())
}

func TestSearchController_MarkFavoriteTouchesOneCard(t *testing.T) {
	f := newSearchFixture(t, signedIn(), "/")
	f.api.searchFn = func(context.Context, filters.State) (*models.SearchResult, error) {
		return &models.SearchResult{Total: 3, Recipes: recipes(1, 2, 3)}, nil
	}
	f.search.Refresh(context.Background())
	f.idle(t)

	f.search.MarkFavorite(2, true)

	l, _ := f.search.Listing()
	assert.False(t, l.Result.Recipes[0].IsFavorite)
	assert.True(t, l.Result.Recipes[1].IsFavorite)
	assert.False(t, l.Result.Recipes[2].IsFavorite)

	shown := f.view.snapshot().listings[0]
	assert.False(t, shown.Result.Recipes[1].IsFavorite, "displayed listing value is not aliased")

	fav, ok := f.view.favorite(2)
	assert.True(t, ok)
	assert.True(t, fav)
}

func TestSearchController_LoadFilterOptions(t *testing.T) {
	f := newSearchFixture(t, staticSession{}, "/")
	f.api.optionsFn = func(context.Context) (*models.FilterOptions, error) {
		return &models.FilterOptions{Diets: []string{"vegan", "vegetarisch"}}, nil
	}

	f.search.LoadFilterOptions(context.Background())
	snap := f.view.snapshot()
	require.Len(t, snap.options, 1)
	assert.Equal(t, []string{"vegan", "vegetarisch"}, snap.options[0].Diets)

	f.api.optionsFn = func(context.Context) (*models.FilterOptions, error) { return nil, errBoom }
	f.search.LoadFilterOptions(context.Background())
	snap = f.view.snapshot()
	assert.Len(t, snap.options, 1)
	assert.Empty(t, snap.toasts, "filter option failures are only logged")
}

func TestSearchController_CloseCancelsInFlight(t *testing.T) {
	f := newSearchFixture(t, staticSession{}, "/")
	started := make(chan struct{})
	f.api.searchFn = func(ctx context.Context, _ filters.State) (*models.SearchResult, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	}

	f.search.Refresh(context.Background())
	<-started
	f.search.Close()
	f.idle(t)

	snap := f.view.snapshot()
	assert.Empty(t, snap.toasts)
	assert.Empty(t, snap.listings)

	f.search.Update(func(s *filters.State) { s.Query = "x" })
	f.idle(t)
	assert.Equal(t, 1, f.api.count("search"))
}
