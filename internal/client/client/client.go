package client

import (
	"context"

	"github.com/dmitrijs2005/recipes/internal/client/filters"
	"github.com/dmitrijs2005/recipes/internal/client/models"
)

// Auth supplies the bearer token and is told when the server rejected it.
type Auth interface {
	Token() string
	Unauthorized(ctx context.Context)
}

type Client interface {
	Login(ctx context.Context, creds models.Credentials) (*models.AuthResult, error)
	Register(ctx context.Context, reg models.Registration) error
	Me(ctx context.Context) (*models.UserSummary, error)

	FilterOptions(ctx context.Context) (*models.FilterOptions, error)
	Search(ctx context.Context, state filters.State) (*models.SearchResult, error)
	Recipe(ctx context.Context, id int64) (*models.RecipeDetail, error)
	Random(ctx context.Context) (*models.RecipeDetail, error)
	Favorites(ctx context.Context) (*models.SearchResult, error)

	CreateRecipe(ctx context.Context, recipe models.NewRecipe) (*models.RecipeDetail, error)
	Rate(ctx context.Context, id int64, stars int) error
	ToggleFavorite(ctx context.Context, id int64) (bool, error)

	// DocumentURL is the printable PDF of a recipe. It is opened, not fetched.
	DocumentURL(id int64) string
	// DishOfTheDay returns the recipe featured on the landing page.
	DishOfTheDay(ctx context.Context) (int64, bool, error)
	Ping(ctx context.Context) error
}
