package cli

import (
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"

	"github.com/dmitrijs2005/recipes/internal/client/models"
	"github.com/dmitrijs2005/recipes/internal/client/services"
	"github.com/dmitrijs2005/recipes/internal/common"
)

const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiDim    = "\033[2m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiCyan   = "\033[36m"
)

// terminalView renders controller output as text. Output may arrive from
// search goroutines while the REPL waits for input, so every write is
// serialized.
type terminalView struct {
	mu      sync.Mutex
	w       io.Writer
	theme   string
	url     *url.URL
	session models.Session
	options models.FilterOptions
	toast   *services.Toast
}

var _ services.View = (*terminalView)(nil)

func newTerminalView(w io.Writer, theme string) *terminalView {
	v := &terminalView{w: w, url: &url.URL{Path: "/"}}
	v.setTheme(theme)
	return v
}

func (v *terminalView) setTheme(theme string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if theme != common.ThemeDark {
		theme = common.ThemeLight
	}
	v.theme = theme
}

func (v *terminalView) Theme() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.theme
}

// paint wraps s in an ANSI style in the dark theme only. Caller holds mu.
func (v *terminalView) paint(style, s string) string {
	if v.theme != common.ThemeDark {
		return s
	}
	return style + s + ansiReset
}

func (v *terminalView) printf(format string, args ...any) {
	fmt.Fprintf(v.w, format, args...)
}

func (v *terminalView) ShowSession(s models.Session) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.session = s
	if s.Active() {
		v.printf("%s\n", v.paint(ansiGreen, "Hallo, "+s.User.DisplayName()+"!"))
	} else {
		v.printf("%s\n", v.paint(ansiDim, "not signed in"))
	}
}

func (v *terminalView) ShowURL(u *url.URL) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.url = u
}

// URL is the address the view was last told about.
func (v *terminalView) URL() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.url.String()
}

func (v *terminalView) ShowLoading(on bool) {
	if !on {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.printf("%s\n", v.paint(ansiDim, "loading..."))
}

func (v *terminalView) ShowListing(l services.Listing) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.printf("%s\n", v.paint(ansiBold, l.Title()))
	if l.Empty() {
		if l.Kind == services.ListingFavorites {
			v.printf("No favorites yet.\n")
		} else {
			v.printf("No recipes match. Try 'reset' or 'random'.\n")
		}
		return
	}
	for _, r := range l.Result.Recipes {
		v.printf("%s\n", v.card(r))
	}
}

func (v *terminalView) card(r models.RecipeSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", v.paint(ansiCyan, fmt.Sprintf("#%d", r.ID)), r.Title)

	var facts []string
	if r.TotalMinutes != nil {
		facts = append(facts, fmt.Sprintf("%d min", *r.TotalMinutes))
	}
	if r.Portions != nil {
		facts = append(facts, fmt.Sprintf("%d Portionen", *r.Portions))
	}
	if r.AvgRating > 0 {
		facts = append(facts, fmt.Sprintf("%.1f★", r.AvgRating))
	}
	if len(facts) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(facts, ", "))
	}
	if r.IsFavorite && v.session.Active() {
		b.WriteString(" " + v.paint(ansiYellow, "♥"))
	}
	return b.String()
}

func (v *terminalView) UpdateFavorite(id int64, favorite bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if favorite {
		v.printf("#%d added to favorites\n", id)
	} else {
		v.printf("#%d removed from favorites\n", id)
	}
}

func (v *terminalView) ShowFilterOptions(o models.FilterOptions) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.options = o
}

// FilterOptions returns the last options the view was given.
func (v *terminalView) FilterOptions() models.FilterOptions {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.options
}

func (v *terminalView) ShowToast(t services.Toast) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.toast = &t
	if t.Level == services.ToastError {
		v.printf("%s %s\n", v.paint(ansiRed, "[error]"), t.Message)
	} else {
		v.printf("%s %s\n", v.paint(ansiGreen, "[ok]"), t.Message)
	}
}

// HideToast only forgets the slot; printed lines stay in the scrollback.
func (v *terminalView) HideToast() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.toast = nil
}

func (v *terminalView) ShowDetail(d services.Detail) {
	v.mu.Lock()
	defer v.mu.Unlock()

	r := d.Recipe
	v.printf("%s\n", v.paint(ansiBold, r.Title))
	if r.Description != "" {
		v.printf("%s\n", r.Description)
	}
	var meta []string
	for _, s := range []string{r.Category, r.Cuisine, r.Diet} {
		if s != "" {
			meta = append(meta, s)
		}
	}
	if len(meta) > 0 {
		v.printf("%s\n", v.paint(ansiDim, strings.Join(meta, " · ")))
	}
	v.printf("%s\n", v.card(r.RecipeSummary))
	if r.RatingsCount > 0 {
		v.printf("%d ratings\n", r.RatingsCount)
	}
	if r.Author != "" {
		v.printf("by %s\n", r.Author)
	}

	v.printf("\n%s\n", v.paint(ansiBold, "Zutaten"))
	for _, i := range d.Ingredients {
		v.printf("  - %s\n", i)
	}
	v.printf("\n%s\n", v.paint(ansiBold, "Zubereitung"))
	for n, s := range d.Steps {
		v.printf("  %d. %s\n", n+1, s)
	}
	if d.CanRate {
		v.printf("\nrate with: rate %d <1-5>\n", r.ID)
	}
}

func (v *terminalView) CloseDetail() {}

func (v *terminalView) OpenLogin() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.printf("%s\n", v.paint(ansiYellow, "please sign in first ('login' or 'register')"))
}

func (v *terminalView) ShowFormError(form services.FormKind, msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	var name string
	switch form {
	case services.FormLogin:
		name = "login"
	case services.FormRegister:
		name = "registration"
	default:
		name = "recipe"
	}
	v.printf("%s %s\n", v.paint(ansiRed, name+" failed:"), msg)
}

func (v *terminalView) CloseCreateForm() {}

func (v *terminalView) OpenDocument(link string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.printf("PDF: %s\n", link)
}
