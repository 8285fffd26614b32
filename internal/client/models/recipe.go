package models

import (
	"encoding/json"
	"fmt"
)

// RecipeSummary is one card of a listing. IsFavorite is meaningful only
// while a session is active.
type RecipeSummary struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Description  string  `json:"description,omitempty"`
	TotalMinutes *int    `json:"total_minutes,omitempty"`
	Portions     *int    `json:"portions,omitempty"`
	AvgRating    float64 `json:"avg_rating"`
	IsFavorite   bool    `json:"is_favorite"`
}

// RecipeDetail is the full recipe. Ingredients and steps arrive as
// JSON-encoded string lists.
type RecipeDetail struct {
	RecipeSummary
	Category        string `json:"category,omitempty"`
	Cuisine         string `json:"cuisine,omitempty"`
	Diet            string `json:"diet,omitempty"`
	RatingsCount    int    `json:"ratings_count"`
	Author          string `json:"author,omitempty"`
	IngredientsJSON string `json:"ingredients_json,omitempty"`
	StepsJSON       string `json:"steps_json,omitempty"`
}

// Ingredients decodes IngredientsJSON. An empty field yields no items.
func (d RecipeDetail) Ingredients() ([]string, error) {
	return decodeList("ingredients", d.IngredientsJSON)
}

// Steps decodes StepsJSON. An empty field yields no items.
func (d RecipeDetail) Steps() ([]string, error) {
	return decodeList("steps", d.StepsJSON)
}

func decodeList(field, raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", field, err)
	}
	return out, nil
}

// SearchResult is a complete listing. It is replaced wholesale on every
// successful search.
type SearchResult struct {
	Total   int             `json:"total"`
	Recipes []RecipeSummary `json:"recipes"`
}

// FilterOptions lists the selectable values for the select-type filters.
type FilterOptions struct {
	Categories []string `json:"categories"`
	Diets      []string `json:"diets"`
	Cuisines   []string `json:"cuisines"`
}

// FavoriteState is the server's answer to a favorite toggle.
type FavoriteState struct {
	IsFavorite bool `json:"is_favorite"`
}

// Rating is the /rate payload.
type Rating struct {
	Stars int `json:"stars"`
}

// NewRecipe is the structured payload of POST /recipes.
type NewRecipe struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Category     string   `json:"category,omitempty"`
	Cuisine      string   `json:"cuisine,omitempty"`
	Diet         string   `json:"diet,omitempty"`
	Portions     int      `json:"portions"`
	TotalMinutes int      `json:"total_minutes"`
	Ingredients  []string `json:"ingredients"`
	Steps        []string `json:"steps"`
}

// RecipeDraft is the creation form as typed by the user: ingredients and
// steps are free text, one item per line.
type RecipeDraft struct {
	Title        string
	Description  string
	Category     string
	Cuisine      string
	Diet         string
	Portions     int
	TotalMinutes int
	Ingredients  string
	Steps        string
}

// Payload converts the draft into the request body.
func (d RecipeDraft) Payload() NewRecipe {
	return NewRecipe{
		Title:        d.Title,
		Description:  d.Description,
		Category:     d.Category,
		Cuisine:      d.Cuisine,
		Diet:         d.Diet,
		Portions:     d.Portions,
		TotalMinutes: d.TotalMinutes,
		Ingredients:  SplitLines(d.Ingredients),
		Steps:        SplitLines(d.Steps),
	}
}
