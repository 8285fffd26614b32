package services

import (
	"context"
	"errors"
	"net/url"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/recipes/internal/client/client"
	"github.com/dmitrijs2005/recipes/internal/client/filters"
	"github.com/dmitrijs2005/recipes/internal/client/models"
	"github.com/dmitrijs2005/recipes/internal/logging"
)

const DefaultSearchDebounce = 300 * time.Millisecond

// SearchController keeps the filter state, the address URL and the displayed
// listing consistent while listing requests race each other.
//
// Every dispatched request is tagged with a fresh epoch. Only the response
// carrying the current epoch may touch the view; older ones are dropped.
// Dispatching also cancels the previous request, but staleness is decided
// by the epoch alone.
type SearchController struct {
	api      client.Client
	session  SessionReader
	view     View
	toast    *Toaster
	history  filters.History
	log      logging.Logger
	debounce time.Duration

	mu    sync.Mutex
	state filters.State
	// committed is set once the current history entry has been searched;
	// the next filter change then pushes a new entry instead of replacing.
	committed bool
	epoch     uint64
	cancel    context.CancelFunc
	loading   bool
	listing   *Listing

	timer    *time.Timer
	timerGen uint64

	busy   int
	idle   chan struct{}
	closed bool
}

func NewSearchController(api client.Client, session SessionReader, view View, toast *Toaster, history filters.History, log logging.Logger, debounce time.Duration) *SearchController {
	if debounce <= 0 {
		debounce = DefaultSearchDebounce
	}
	return &SearchController{
		api:       api,
		session:   session,
		view:      view,
		toast:     toast,
		history:   history,
		log:       log,
		debounce:  debounce,
		state:     filters.FromURL(history.Current()),
		committed: true,
	}
}

func (s *SearchController) State() filters.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *SearchController) URL() *url.URL {
	return s.history.Current()
}

// Listing returns the displayed listing, if any.
func (s *SearchController) Listing() (Listing, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listing == nil {
		return Listing{}, false
	}
	return *s.listing, true
}

func (s *SearchController) Epoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

// Update applies fn to the filter state, rewrites the URL right away and
// schedules a debounced search.
func (s *SearchController) Update(fn func(*filters.State)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(&s.state)
	s.syncURLLocked()
	s.scheduleLocked()
}

// Schedule (re)starts the quiet period without changing the filters.
func (s *SearchController) Schedule() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scheduleLocked()
}

// OnSession re-applies the filters after a login or logout, so the
// favorite flags match the new identity.
func (s *SearchController) OnSession(models.Session) {
	s.Schedule()
}

// Refresh searches immediately, dropping any pending debounce.
func (s *SearchController) Refresh(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopTimerLocked()
	s.dispatchLocked(ctx, ListingSearch)
}

// Reset clears every filter and searches immediately.
func (s *SearchController) Reset(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Reset()
	s.syncURLLocked()
	s.stopTimerLocked()
	s.dispatchLocked(ctx, ListingSearch)
}

// Back moves to the previous history entry, re-reads the filters from it
// and searches. It reports false when there is no previous entry.
func (s *SearchController) Back(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.history.Back()
	if !ok {
		return false
	}
	s.state = filters.FromURL(u)
	s.committed = true
	s.view.ShowURL(u)
	s.stopTimerLocked()
	s.dispatchLocked(ctx, ListingSearch)
	return true
}

// ShowFavorites lists the user's favorites under the same epoch rule as
// searches. Without a session it opens the login prompt instead.
func (s *SearchController) ShowFavorites(ctx context.Context) error {
	if !s.session.Session().Active() {
		s.view.OpenLogin()
		return ErrLoginRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopTimerLocked()
	s.dispatchLocked(ctx, ListingFavorites)
	return nil
}

// LoadFilterOptions fills the select-type filters. Failures are only logged.
func (s *SearchController) LoadFilterOptions(ctx context.Context) {
	opts, err := s.api.FilterOptions(ctx)
	if err != nil {
		s.log.Warn(ctx, "failed to load filter options", "error", err)
		return
	}
	s.view.ShowFilterOptions(*opts)
}

// MarkFavorite sets the favorite flag of one displayed card. The rest of
// the listing is left as is.
func (s *SearchController) MarkFavorite(id int64, favorite bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listing != nil {
		recipes := slices.Clone(s.listing.Result.Recipes)
		for i := range recipes {
			if recipes[i].ID == id {
				recipes[i].IsFavorite = favorite
			}
		}
		s.listing = &Listing{
			Kind:   s.listing.Kind,
			Result: models.SearchResult{Total: s.listing.Result.Total, Recipes: recipes},
		}
	}
	s.view.UpdateFavorite(id, favorite)
}

// Idle blocks until no search is pending or in flight.
func (s *SearchController) Idle(ctx context.Context) error {
	for {
		s.mu.Lock()
		if s.busy == 0 {
			s.mu.Unlock()
			return nil
		}
		ch := s.idle
		s.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close stops the debounce timer and cancels the request in flight.
func (s *SearchController) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.stopTimerLocked()
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *SearchController) syncURLLocked() {
	u := filters.ToURL(s.history.Current(), s.state)
	if s.committed {
		s.history.Push(u)
		s.committed = false
	} else {
		s.history.Replace(u)
	}
	s.view.ShowURL(u)
}

func (s *SearchController) scheduleLocked() {
	if s.closed {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	} else {
		s.beginLocked()
	}
	s.timerGen++
	gen := s.timerGen
	s.timer = time.AfterFunc(s.debounce, func() { s.fire(gen) })
}

func (s *SearchController) stopTimerLocked() {
	if s.timer == nil {
		return
	}
	s.timer.Stop()
	s.timer = nil
	// a callback already waiting for the lock sees a newer generation
	s.timerGen++
	s.endLocked()
}

func (s *SearchController) fire(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.timerGen {
		return
	}
	s.timer = nil
	s.dispatchLocked(context.Background(), ListingSearch)
	s.endLocked()
}

func (s *SearchController) dispatchLocked(ctx context.Context, kind ListingKind) {
	if s.closed {
		return
	}

	s.epoch++
	epoch := s.epoch

	if s.cancel != nil {
		s.cancel()
	}
	reqCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel

	state := s.state
	if kind == ListingSearch {
		s.committed = true
	}
	if !s.loading {
		s.loading = true
		s.view.ShowLoading(true)
	}
	s.beginLocked()
	searchesDispatched.WithLabelValues(kind.String()).Inc()
	s.log.Debug(ctx, "listing dispatched", "epoch", epoch, "kind", kind.String())

	go func() {
		defer cancel()

		var (
			res *models.SearchResult
			err error
		)
		if kind == ListingFavorites {
			res, err = s.api.Favorites(reqCtx)
		} else {
			res, err = s.api.Search(reqCtx, state)
		}
		s.settle(reqCtx, epoch, kind, res, err)
	}()
}

func (s *SearchController) settle(ctx context.Context, epoch uint64, kind ListingKind, res *models.SearchResult, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.endLocked()

	if epoch != s.epoch {
		searchesSuperseded.Inc()
		s.log.Debug(ctx, "stale listing dropped", "epoch", epoch, "current", s.epoch)
		return
	}

	s.cancel = nil
	s.loading = false
	s.view.ShowLoading(false)

	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		s.log.Warn(ctx, "listing failed", "kind", kind.String(), "error", err)
		s.toast.Error(client.Message(err))
		return
	}

	l := Listing{Kind: kind, Result: *res}
	s.listing = &l
	s.view.ShowListing(l)
}

func (s *SearchController) beginLocked() {
	if s.busy == 0 {
		s.idle = make(chan struct{})
	}
	s.busy++
}

func (s *SearchController) endLocked() {
	s.busy--
	if s.busy == 0 {
		close(s.idle)
	}
}
