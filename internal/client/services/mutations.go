package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/recipes/internal/client/client"
	"github.com/dmitrijs2005/recipes/internal/client/models"
	"github.com/dmitrijs2005/recipes/internal/logging"
)

// Searcher is the part of the SearchController mutations reconcile with.
type Searcher interface {
	Refresh(ctx context.Context)
	MarkFavorite(id int64, favorite bool)
}

// MutationController runs state-changing actions. Gated actions open the
// login prompt and return ErrLoginRequired without sending anything when no
// session is active. Nothing is applied to the view before the server
// confirmed it.
type MutationController struct {
	api     client.Client
	session SessionReader
	search  Searcher
	view    View
	toast   *Toaster
	log     logging.Logger
}

func NewMutationController(api client.Client, session SessionReader, search Searcher, view View, toast *Toaster, log logging.Logger) *MutationController {
	return &MutationController{api: api, session: session, search: search, view: view, toast: toast, log: log}
}

func (m *MutationController) gate() error {
	if m.session.Session().Active() {
		return nil
	}
	m.view.OpenLogin()
	return ErrLoginRequired
}

// ToggleFavorite flips the favorite flag of one recipe once the server
// answered with the new state.
func (m *MutationController) ToggleFavorite(ctx context.Context, id int64) error {
	if err := m.gate(); err != nil {
		return err
	}

	favorite, err := m.api.ToggleFavorite(ctx, id)
	if err != nil {
		m.toast.Error(client.Message(err))
		return err
	}
	m.search.MarkFavorite(id, favorite)
	return nil
}

// Rate submits 1..5 stars, closes the detail view and refreshes the listing
// so the aggregate rating is re-read.
func (m *MutationController) Rate(ctx context.Context, id int64, stars int) error {
	if err := m.gate(); err != nil {
		return err
	}
	if stars < 1 || stars > 5 {
		m.toast.Error(ErrInvalidStars.Error())
		return fmt.Errorf("%w: got %d", ErrInvalidStars, stars)
	}

	if err := m.api.Rate(ctx, id, stars); err != nil {
		m.toast.Error(client.Message(err))
		return err
	}
	m.toast.Success("rating saved")
	m.view.CloseDetail()
	m.search.Refresh(ctx)
	return nil
}

// CreateRecipe submits the form. Errors stay on the form, which is only
// closed on success.
func (m *MutationController) CreateRecipe(ctx context.Context, draft models.RecipeDraft) error {
	if err := m.gate(); err != nil {
		return err
	}

	created, err := m.api.CreateRecipe(ctx, draft.Payload())
	if err != nil {
		m.view.ShowFormError(FormCreate, client.Message(err))
		return err
	}
	m.log.Info(ctx, "recipe created", "id", created.ID)
	m.toast.Success("recipe saved")
	m.view.CloseCreateForm()
	m.search.Refresh(ctx)
	return nil
}

// Random opens the detail view of an arbitrary recipe. Guests may use it.
func (m *MutationController) Random(ctx context.Context) error {
	recipe, err := m.api.Random(ctx)
	if err != nil {
		m.log.Warn(ctx, "random recipe failed", "error", err)
		m.toast.Error("could not load a random recipe")
		return err
	}
	return m.ShowDetail(ctx, recipe.ID)
}

// ShowDetail loads a recipe and opens it. It needs no session; rating is
// offered only when one is active.
func (m *MutationController) ShowDetail(ctx context.Context, id int64) error {
	recipe, err := m.api.Recipe(ctx, id)
	if err == nil {
		var d Detail
		if d, err = m.detail(*recipe); err == nil {
			m.view.ShowDetail(d)
			return nil
		}
	}
	m.log.Warn(ctx, "recipe detail failed", "id", id, "error", err)
	m.toast.Error("could not load recipe")
	return err
}

func (m *MutationController) detail(recipe models.RecipeDetail) (Detail, error) {
	ingredients, err := recipe.Ingredients()
	if err != nil {
		return Detail{}, err
	}
	steps, err := recipe.Steps()
	if err != nil {
		return Detail{}, err
	}
	return Detail{
		Recipe:      recipe,
		Ingredients: ingredients,
		Steps:       steps,
		CanRate:     m.session.Session().Active(),
	}, nil
}

// ExportPDF opens the printable document. The document is not fetched here.
func (m *MutationController) ExportPDF(id int64) {
	m.view.OpenDocument(m.api.DocumentURL(id))
}

// DishOfTheDay opens the recipe featured on the landing page.
func (m *MutationController) DishOfTheDay(ctx context.Context) error {
	id, ok, err := m.api.DishOfTheDay(ctx)
	if err != nil {
		m.toast.Error(client.Message(err))
		return err
	}
	if !ok {
		m.toast.Error("no dish of the day")
		return nil
	}
	return m.ShowDetail(ctx, id)
}
