package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/recipes/internal/client/filters"
	"github.com/dmitrijs2005/recipes/internal/client/models"
	"github.com/dmitrijs2005/recipes/internal/common"
	"github.com/dmitrijs2005/recipes/internal/logging"
)

const DefaultAPIPrefix = "/api/v1"

type Options struct {
	ServerURL string
	APIPrefix string
	Timeout   time.Duration
	// Debug dumps every request and response through Logger.
	Debug  bool
	Logger logging.Logger
}

// RESTClient talks JSON to the recipe API. It never retries and never
// reports failures to the user itself; callers decide what to show.
type RESTClient struct {
	http      *resty.Client
	serverURL string
	prefix    string
	log       logging.Logger

	mu   sync.RWMutex
	auth Auth
}

var _ Client = (*RESTClient)(nil)

func NewRESTClient(opts Options) *RESTClient {
	if opts.APIPrefix == "" {
		opts.APIPrefix = DefaultAPIPrefix
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	server := strings.TrimRight(opts.ServerURL, "/")

	c := &RESTClient{
		serverURL: server,
		prefix:    "/" + strings.Trim(opts.APIPrefix, "/"),
		log:       opts.Logger,
	}

	c.http = resty.New().
		SetBaseURL(server).
		SetHeader("Accept", "application/json").
		SetTimeout(opts.Timeout).
		SetLogger(restyLogger{log: opts.Logger}).
		SetDebug(opts.Debug).
		OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
			r.SetHeader(common.RequestIDHeaderName, uuid.NewString())
			return nil
		})

	return c
}

// UseAuth binds the token source. It is set once the session store exists,
// which itself needs the client.
func (c *RESTClient) UseAuth(a Auth) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.auth = a
}

func (c *RESTClient) authHook() Auth {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.auth
}

// execute sends one request and normalizes every failure into *APIError,
// except cancellation of ctx, which is returned as the context error.
func (c *RESTClient) execute(ctx context.Context, method, path string, query url.Values, body any) (*resty.Response, error) {
	req := c.http.R().SetContext(ctx)

	auth := c.authHook()
	if auth != nil {
		if tok := auth.Token(); tok != "" {
			req.SetAuthToken(tok)
		}
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%s %s: %w", method, path, ctx.Err())
		}
		c.log.Debug(ctx, "transport failure", "method", method, "path", path, "error", err)
		return nil, &APIError{Kind: KindNetwork, Message: ErrUnavailable.Error(), Err: err}
	}

	if status := resp.StatusCode(); status < 200 || status >= 300 {
		apiErr := normalize(status, resp.Body())
		if status == http.StatusUnauthorized && auth != nil {
			auth.Unauthorized(ctx)
		}
		return nil, apiErr
	}
	return resp, nil
}

// call performs an API request and decodes the JSON answer into out.
// A 204, an empty body or a nil out yields an empty result.
func (c *RESTClient) call(ctx context.Context, endpoint, method, path string, query url.Values, body, out any) (err error) {
	defer func() { observe(endpoint, err) }()

	resp, err := c.execute(ctx, method, c.prefix+path, query, body)
	if err != nil {
		return err
	}
	if resp.StatusCode() == http.StatusNoContent || out == nil || len(bytes.TrimSpace(resp.Body())) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return &APIError{Kind: KindMalformed, Status: resp.StatusCode(), Message: ErrMalformed.Error(), Err: err}
	}
	return nil
}

func (c *RESTClient) Login(ctx context.Context, creds models.Credentials) (*models.AuthResult, error) {
	var out models.AuthResult
	if err := c.call(ctx, "login", http.MethodPost, "/auth/login", nil, creds, &out); err != nil {
		return nil, err
	}
	if out.AccessToken == "" {
		return nil, &APIError{Kind: KindMalformed, Status: http.StatusOK, Message: ErrMalformed.Error()}
	}
	return &out, nil
}

func (c *RESTClient) Register(ctx context.Context, reg models.Registration) error {
	return c.call(ctx, "register", http.MethodPost, "/auth/register", nil, reg, nil)
}

func (c *RESTClient) Me(ctx context.Context) (*models.UserSummary, error) {
	var out models.UserSummary
	if err := c.call(ctx, "me", http.MethodGet, "/auth/me", nil, nil, &out); err != nil {
		return nil, err
	}
	if out.Username == "" {
		return nil, &APIError{Kind: KindMalformed, Status: http.StatusOK, Message: ErrMalformed.Error()}
	}
	return &out, nil
}

func (c *RESTClient) FilterOptions(ctx context.Context) (*models.FilterOptions, error) {
	var out models.FilterOptions
	if err := c.call(ctx, "filters", http.MethodGet, "/recipes/filters", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *RESTClient) Search(ctx context.Context, state filters.State) (*models.SearchResult, error) {
	var out models.SearchResult
	if err := c.call(ctx, "search", http.MethodGet, "/recipes/search", state.Values(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *RESTClient) Recipe(ctx context.Context, id int64) (*models.RecipeDetail, error) {
	var out models.RecipeDetail
	if err := c.call(ctx, "recipe", http.MethodGet, fmt.Sprintf("/recipes/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *RESTClient) Random(ctx context.Context) (*models.RecipeDetail, error) {
	var out models.RecipeDetail
	if err := c.call(ctx, "random", http.MethodGet, "/recipes/random", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *RESTClient) Favorites(ctx context.Context) (*models.SearchResult, error) {
	var out models.SearchResult
	if err := c.call(ctx, "favorites", http.MethodGet, "/recipes/favorites/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *RESTClient) CreateRecipe(ctx context.Context, recipe models.NewRecipe) (*models.RecipeDetail, error) {
	var out models.RecipeDetail
	if err := c.call(ctx, "create", http.MethodPost, "/recipes", nil, recipe, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *RESTClient) Rate(ctx context.Context, id int64, stars int) error {
	return c.call(ctx, "rate", http.MethodPost, fmt.Sprintf("/recipes/%d/rate", id), nil, models.Rating{Stars: stars}, nil)
}

func (c *RESTClient) ToggleFavorite(ctx context.Context, id int64) (bool, error) {
	var out models.FavoriteState
	if err := c.call(ctx, "favorite", http.MethodPost, fmt.Sprintf("/recipes/%d/favorite", id), nil, nil, &out); err != nil {
		return false, err
	}
	return out.IsFavorite, nil
}

func (c *RESTClient) DocumentURL(id int64) string {
	return fmt.Sprintf("%s%s/recipes/%d/pdf", c.serverURL, c.prefix, id)
}

// Ping probes the unversioned health endpoint.
func (c *RESTClient) Ping(ctx context.Context) (err error) {
	defer func() { observe("health", err) }()
	_, err = c.execute(ctx, http.MethodGet, "/health", nil, nil)
	return err
}

// restyLogger routes resty's own diagnostics into the project logger.
type restyLogger struct {
	log logging.Logger
}

func (l restyLogger) Errorf(format string, v ...any) {
	l.log.Error(context.Background(), strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l restyLogger) Warnf(format string, v ...any) {
	l.log.Warn(context.Background(), strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l restyLogger) Debugf(format string, v ...any) {
	l.log.Debug(context.Background(), strings.TrimSpace(fmt.Sprintf(format, v...)))
}
