package services

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/dmitrijs2005/recipes/internal/client/models"
)

var (
	// ErrLoginRequired is returned by gated operations without a session.
	// The login prompt has already been opened when it is returned.
	ErrLoginRequired = errors.New("login required")
	ErrInvalidStars  = errors.New("stars must be between 1 and 5")
)

type ListingKind int

const (
	ListingSearch ListingKind = iota
	ListingFavorites
)

// Listing is the displayed result set and where it came from.
type Listing struct {
	Kind   ListingKind
	Result models.SearchResult
}

// Empty reports whether the empty-state panel (reset, random) is shown
// instead of cards.
func (l Listing) Empty() bool { return l.Result.Total == 0 }

// Title is the results heading.
func (l Listing) Title() string {
	if l.Kind == ListingFavorites {
		return "Meine Favoriten"
	}
	return fmt.Sprintf("%d Rezepte gefunden", l.Result.Total)
}

// Detail is a recipe opened in the detail view.
type Detail struct {
	Recipe      models.RecipeDetail
	Ingredients []string
	Steps       []string
	// CanRate is set when a session is active.
	CanRate bool
}

type FormKind int

const (
	FormLogin FormKind = iota
	FormRegister
	FormCreate
)

type ToastLevel int

const (
	ToastError ToastLevel = iota
	ToastSuccess
)

type Toast struct {
	Level   ToastLevel
	Message string
}

// View renders controller output. Controllers may call it from any
// goroutine, sometimes while holding their own locks, so implementations
// must not call back into a controller synchronously.
type View interface {
	ShowSession(s models.Session)
	ShowURL(u *url.URL)
	ShowLoading(on bool)
	ShowListing(l Listing)
	UpdateFavorite(id int64, favorite bool)
	ShowFilterOptions(o models.FilterOptions)

	ShowToast(t Toast)
	HideToast()

	ShowDetail(d Detail)
	CloseDetail()
	OpenLogin()
	ShowFormError(form FormKind, msg string)
	CloseCreateForm()
	OpenDocument(url string)
}
