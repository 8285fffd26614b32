package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/recipes/internal/client/client"
	"github.com/dmitrijs2005/recipes/internal/client/export"
	"github.com/dmitrijs2005/recipes/internal/client/filters"
	"github.com/dmitrijs2005/recipes/internal/client/models"
	"github.com/dmitrijs2005/recipes/internal/client/services"
	"github.com/dmitrijs2005/recipes/internal/common"
	"github.com/dmitrijs2005/recipes/internal/filex"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var errNothingToExport = errors.New("nothing to export")

// Login prompts for credentials. The username of the previous login is
// offered as the default. Failures are shown on the form.
func (a *App) Login(ctx context.Context) error {
	prompt := "Enter username"
	last := a.session.LastUser(ctx)
	if last != "" {
		prompt += " [" + last + "]"
	}
	userName, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return err
	}
	if userName == "" {
		userName = last
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	err = a.session.Login(ctx, models.Credentials{Username: userName, Password: string(password)})
	if err != nil {
		a.view.ShowFormError(services.FormLogin, client.Message(err))
		return err
	}
	a.search.Refresh(ctx)
	a.settle(ctx)
	return nil
}

// Register collects the profile, creates the account and signs in.
func (a *App) Register(ctx context.Context) error {
	var reg models.Registration
	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Enter username", &reg.Username},
		{"Enter email", &reg.Email},
		{"First name", &reg.FirstName},
		{"Last name", &reg.LastName},
	}
	for _, f := range fields {
		v, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	reg.Password = string(password)

	if reg.DataProcessingConsent, err = GetConfirmation(a.reader, "Allow processing of your data for the account?", a.out); err != nil {
		return err
	}
	if reg.ConsentAnalytics, err = GetConfirmation(a.reader, "Allow anonymous usage analytics?", a.out); err != nil {
		return err
	}
	if reg.ConsentMarketing, err = GetConfirmation(a.reader, "Receive newsletters?", a.out); err != nil {
		return err
	}

	if err := a.session.Register(ctx, reg); err != nil {
		a.view.ShowFormError(services.FormRegister, client.Message(err))
		return err
	}
	a.search.Refresh(ctx)
	a.settle(ctx)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	a.search.Refresh(ctx)
	a.settle(ctx)
	return nil
}

// Search sets the free-text query. An empty query clears it.
func (a *App) Search(ctx context.Context, query string) error {
	a.search.Update(func(s *filters.State) { s.Query = strings.TrimSpace(query) })
	a.settle(ctx)
	return nil
}

// Filter sets one filter parameter. An empty value clears it.
func (a *App) Filter(ctx context.Context, param, value string) error {
	probe := a.search.State()
	if err := probe.Set(param, value); err != nil {
		printlnFn(err.Error())
		return err
	}
	a.search.Update(func(s *filters.State) { _ = s.Set(param, value) })
	a.settle(ctx)
	return nil
}

// Filters prints the active filters and the selectable values.
func (a *App) Filters(ctx context.Context) error {
	values := a.search.State().Values()
	if len(values) == 0 {
		printlnFn("No filters set.")
	}
	for _, k := range filters.Params {
		if values.Has(k) {
			printlnFn(fmt.Sprintf("  %s = %s", k, values.Get(k)))
		}
	}

	opts := a.view.FilterOptions()
	for _, o := range []struct {
		param  string
		values []string
	}{
		{filters.ParamCategory, opts.Categories},
		{filters.ParamCuisine, opts.Cuisines},
		{filters.ParamDiet, opts.Diets},
	} {
		if len(o.values) > 0 {
			printlnFn(fmt.Sprintf("%s: %s", o.param, strings.Join(o.values, ", ")))
		}
	}
	return nil
}

func (a *App) Reset(ctx context.Context) error {
	a.search.Reset(ctx)
	a.settle(ctx)
	return nil
}

func (a *App) URL() string {
	return a.search.URL().String()
}

func (a *App) Back(ctx context.Context) error {
	if !a.search.Back(ctx) {
		printlnFn("No previous page.")
		return nil
	}
	a.settle(ctx)
	return nil
}

func (a *App) Show(ctx context.Context, id int64) error {
	return a.mutations.ShowDetail(ctx, id)
}

func (a *App) Favorite(ctx context.Context, id int64) error {
	return a.mutations.ToggleFavorite(ctx, id)
}

func (a *App) Rate(ctx context.Context, id int64, stars int) error {
	if err := a.mutations.Rate(ctx, id, stars); err != nil {
		return err
	}
	a.settle(ctx)
	return nil
}

// Add walks through the recipe form. Ingredients and steps take one item
// per line.
func (a *App) Add(ctx context.Context) error {
	if !a.isLoggedIn() {
		a.view.OpenLogin()
		return services.ErrLoginRequired
	}

	var draft models.RecipeDraft
	texts := []struct {
		prompt string
		dst    *string
	}{
		{"Title", &draft.Title},
		{"Description", &draft.Description},
		{"Category", &draft.Category},
		{"Cuisine", &draft.Cuisine},
		{"Diet", &draft.Diet},
	}
	for _, f := range texts {
		v, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	var err error
	if draft.Portions, err = GetNumber(a.reader, "Portions", a.out); err != nil {
		a.view.ShowFormError(services.FormCreate, err.Error())
		return err
	}
	if draft.TotalMinutes, err = GetNumber(a.reader, "Total time (minutes)", a.out); err != nil {
		a.view.ShowFormError(services.FormCreate, err.Error())
		return err
	}
	if draft.Ingredients, err = GetMultiline(a.reader, "Ingredients", a.out); err != nil {
		return err
	}
	if draft.Steps, err = GetMultiline(a.reader, "Steps", a.out); err != nil {
		return err
	}

	if err := a.mutations.CreateRecipe(ctx, draft); err != nil {
		return err
	}
	a.settle(ctx)
	return nil
}

func (a *App) Random(ctx context.Context) error {
	return a.mutations.Random(ctx)
}

func (a *App) Favorites(ctx context.Context) error {
	if err := a.search.ShowFavorites(ctx); err != nil {
		return err
	}
	a.settle(ctx)
	return nil
}

func (a *App) PDF(_ context.Context, id int64) error {
	a.mutations.ExportPDF(id)
	return nil
}

// Export writes the displayed listing to an .xlsx file.
func (a *App) Export(ctx context.Context, path string) error {
	listing, ok := a.search.Listing()
	if !ok || listing.Empty() {
		a.toast.Error(errNothingToExport.Error())
		return errNothingToExport
	}

	abs, err := filex.EnsureParentDir(path)
	if err == nil {
		err = export.SaveXLSX(abs, listing.Title(), listing.Result.Recipes)
	}
	if err != nil {
		a.log.Warn(ctx, "export failed", "path", path, "error", err)
		a.toast.Error("export failed")
		return err
	}
	a.toast.Success(fmt.Sprintf("%d recipes exported to %s", len(listing.Result.Recipes), abs))
	return nil
}

func (a *App) Dish(ctx context.Context) error {
	return a.mutations.DishOfTheDay(ctx)
}

// Theme prints the current theme, or switches and persists it.
func (a *App) Theme(ctx context.Context, name string) error {
	if name == "" {
		printlnFn("Theme:", a.view.Theme())
		return nil
	}
	if name != common.ThemeLight && name != common.ThemeDark {
		err := fmt.Errorf("unknown theme %q, use %s or %s", name, common.ThemeLight, common.ThemeDark)
		printlnFn(err.Error())
		return err
	}

	a.view.setTheme(name)
	if err := a.prefs.Set(ctx, common.ThemeKey, name); err != nil {
		a.log.Warn(ctx, "failed to persist theme", "error", err)
		return err
	}
	printlnFn("Theme:", name)
	return nil
}
