package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/dmitrijs2005/recipes/internal/client/client"
	"github.com/dmitrijs2005/recipes/internal/client/filters"
	"github.com/dmitrijs2005/recipes/internal/client/models"
)

// ---- fake API ----

type fakeAPI struct {
	mu    sync.Mutex
	calls map[string]int

	loginFn     func(ctx context.Context, c models.Credentials) (*models.AuthResult, error)
	registerFn  func(ctx context.Context, r models.Registration) error
	meFn        func(ctx context.Context) (*models.UserSummary, error)
	optionsFn   func(ctx context.Context) (*models.FilterOptions, error)
	searchFn    func(ctx context.Context, s filters.State) (*models.SearchResult, error)
	recipeFn    func(ctx context.Context, id int64) (*models.RecipeDetail, error)
	randomFn    func(ctx context.Context) (*models.RecipeDetail, error)
	favoritesFn func(ctx context.Context) (*models.SearchResult, error)
	createFn    func(ctx context.Context, r models.NewRecipe) (*models.RecipeDetail, error)
	rateFn      func(ctx context.Context, id int64, stars int) error
	toggleFn    func(ctx context.Context, id int64) (bool, error)
	dishFn      func(ctx context.Context) (int64, bool, error)
}

var _ client.Client = (*fakeAPI)(nil)

func newFakeAPI() *fakeAPI { return &fakeAPI{calls: map[string]int{}} }

func (f *fakeAPI) hit(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) Login(ctx context.Context, c models.Credentials) (*models.AuthResult, error) {
	f.hit("login")
	if f.loginFn != nil {
		return f.loginFn(ctx, c)
	}
	return &models.AuthResult{AccessToken: "tok", User: models.UserSummary{ID: 1, Username: c.Username}}, nil
}

func (f *fakeAPI) Register(ctx context.Context, r models.Registration) error {
	f.hit("register")
	if f.registerFn != nil {
		return f.registerFn(ctx, r)
	}
	return nil
}

func (f *fakeAPI) Me(ctx context.Context) (*models.UserSummary, error) {
	f.hit("me")
	if f.meFn != nil {
		return f.meFn(ctx)
	}
	return &models.UserSummary{ID: 1, Username: "anna"}, nil
}

func (f *fakeAPI) FilterOptions(ctx context.Context) (*models.FilterOptions, error) {
	f.hit("filters")
	if f.optionsFn != nil {
		return f.optionsFn(ctx)
	}
	return &models.FilterOptions{}, nil
}

func (f *fakeAPI) Search(ctx context.Context, s filters.State) (*models.SearchResult, error) {
	f.hit("search")
	if f.searchFn != nil {
		return f.searchFn(ctx, s)
	}
	return &models.SearchResult{}, nil
}

func (f *fakeAPI) Recipe(ctx context.Context, id int64) (*models.RecipeDetail, error) {
	f.hit("recipe")
	if f.recipeFn != nil {
		return f.recipeFn(ctx, id)
	}
	return &models.RecipeDetail{RecipeSummary: models.RecipeSummary{ID: id}}, nil
}

func (f *fakeAPI) Random(ctx context.Context) (*models.RecipeDetail, error) {
	f.hit("random")
	if f.randomFn != nil {
		return f.randomFn(ctx)
	}
	return &models.RecipeDetail{RecipeSummary: models.RecipeSummary{ID: 99}}, nil
}

func (f *fakeAPI) Favorites(ctx context.Context) (*models.SearchResult, error) {
	f.hit("favorites")
	if f.favoritesFn != nil {
		return f.favoritesFn(ctx)
	}
	return &models.SearchResult{}, nil
}

func (f *fakeAPI) CreateRecipe(ctx context.Context, r models.NewRecipe) (*models.RecipeDetail, error) {
	f.hit("create")
	if f.createFn != nil {
		return f.createFn(ctx, r)
	}
	return &models.RecipeDetail{RecipeSummary: models.RecipeSummary{ID: 100, Title: r.Title}}, nil
}

func (f *fakeAPI) Rate(ctx context.Context, id int64, stars int) error {
	f.hit("rate")
	if f.rateFn != nil {
		return f.rateFn(ctx, id, stars)
	}
	return nil
}

func (f *fakeAPI) ToggleFavorite(ctx context.Context, id int64) (bool, error) {
	f.hit("favorite")
	if f.toggleFn != nil {
		return f.toggleFn(ctx, id)
	}
	return true, nil
}

func (f *fakeAPI) DocumentURL(id int64) string {
	return fmt.Sprintf("http://api.test/api/v1/recipes/%d/pdf", id)
}

func (f *fakeAPI) DishOfTheDay(ctx context.Context) (int64, bool, error) {
	f.hit("dish")
	if f.dishFn != nil {
		return f.dishFn(ctx)
	}
	return 0, false, nil
}

func (f *fakeAPI) Ping(context.Context) error { return nil }

func apiErr(kind client.Kind, status int, msg string) error {
	return &client.APIError{Kind: kind, Status: status, Message: msg}
}

// ---- recording view ----

type recordingView struct {
	mu           sync.Mutex
	sessions     []models.Session
	urls         []string
	loading      []bool
	listings     []Listing
	favorites    map[int64]bool
	options      []models.FilterOptions
	toasts       []Toast
	hidden       int
	details      []Detail
	closedDetail int
	loginOpened  int
	formErrors   map[FormKind]string
	closedCreate int
	documents    []string
}

var _ View = (*recordingView)(nil)

func newRecordingView() *recordingView {
	return &recordingView{favorites: map[int64]bool{}, formErrors: map[FormKind]string{}}
}

func (v *recordingView) ShowSession(s models.Session) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sessions = append(v.sessions, s)
}

func (v *recordingView) ShowURL(u *url.URL) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.urls = append(v.urls, u.String())
}

func (v *recordingView) ShowLoading(on bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = append(v.loading, on)
}

func (v *recordingView) ShowListing(l Listing) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.listings = append(v.listings, l)
}

func (v *recordingView) UpdateFavorite(id int64, favorite bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.favorites[id] = favorite
}

func (v *recordingView) ShowFilterOptions(o models.FilterOptions) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.options = append(v.options, o)
}

func (v *recordingView) ShowToast(t Toast) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.toasts = append(v.toasts, t)
}

func (v *recordingView) HideToast() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.hidden++
}

func (v *recordingView) ShowDetail(d Detail) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.details = append(v.details, d)
}

func (v *recordingView) CloseDetail() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closedDetail++
}

func (v *recordingView) OpenLogin() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.loginOpened++
}

func (v *recordingView) ShowFormError(form FormKind, msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.formErrors[form] = msg
}

func (v *recordingView) CloseCreateForm() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closedCreate++
}

func (v *recordingView) OpenDocument(u string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.documents = append(v.documents, u)
}

type viewSnapshot struct {
	sessions     []models.Session
	urls         []string
	loading      []bool
	listings     []Listing
	toasts       []Toast
	hidden       int
	details      []Detail
	closedDetail int
	loginOpened  int
	closedCreate int
	documents    []string
	options      []models.FilterOptions
}

func (v *recordingView) snapshot() viewSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return viewSnapshot{
		sessions:     append([]models.Session(nil), v.sessions...),
		urls:         append([]string(nil), v.urls...),
		loading:      append([]bool(nil), v.loading...),
		listings:     append([]Listing(nil), v.listings...),
		toasts:       append([]Toast(nil), v.toasts...),
		hidden:       v.hidden,
		details:      append([]Detail(nil), v.details...),
		closedDetail: v.closedDetail,
		loginOpened:  v.loginOpened,
		closedCreate: v.closedCreate,
		documents:    append([]string(nil), v.documents...),
		options:      append([]models.FilterOptions(nil), v.options...),
	}
}

func (v *recordingView) formError(form FormKind) string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.formErrors[form]
}

func (v *recordingView) favorite(id int64) (bool, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fav, ok := v.favorites[id]
	return fav, ok
}

// ---- session reader ----

type staticSession struct{ s models.Session }

func (s staticSession) Session() models.Session { return s.s }

func signedIn() staticSession {
	return staticSession{models.Session{Token: "tok", User: &models.UserSummary{ID: 1, Username: "anna"}}}
}

// ---- in-memory prefs ----

type memPrefs struct {
	mu        sync.Mutex
	values    map[string]string
	getErr    error
	setErr    error
	deleteErr error
}

func newMemPrefs() *memPrefs { return &memPrefs{values: map[string]string{}} }

func (p *memPrefs) Get(_ context.Context, key string) (string, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.getErr != nil {
		return "", false, p.getErr
	}
	v, ok := p.values[key]
	return v, ok, nil
}

func (p *memPrefs) Set(_ context.Context, key, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.setErr != nil {
		return p.setErr
	}
	p.values[key] = value
	return nil
}

func (p *memPrefs) SetMany(ctx context.Context, values map[string]string) error {
	for k, v := range values {
		if err := p.Set(ctx, k, v); err != nil {
			return err
		}
	}
	return nil
}

func (p *memPrefs) Delete(_ context.Context, key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.deleteErr != nil {
		return p.deleteErr
	}
	delete(p.values, key)
	return nil
}

func (p *memPrefs) List(context.Context) (map[string]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string]string, len(p.values))
	for k, v := range p.values {
		out[k] = v
	}
	return out, nil
}

func (p *memPrefs) value(key string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.values[key]
	return v, ok
}

var errBoom = errors.New("boom")
