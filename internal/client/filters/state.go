// Package filters holds the user-adjustable search criteria and keeps them
// in sync with the shareable address URL.
package filters

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Parameter names shared by the address URL and the outgoing search request.
const (
	ParamQuery       = "query"
	ParamCategory    = "category"
	ParamDiet        = "diet"
	ParamCuisine     = "cuisine"
	ParamMaxMinutes  = "max_minutes"
	ParamMinPortions = "min_portions"
)

// Params lists every recognized parameter in URL order.
var Params = []string{ParamQuery, ParamCategory, ParamDiet, ParamCuisine, ParamMaxMinutes, ParamMinPortions}

var (
	ErrUnknownParam = errors.New("unknown filter")
	ErrInvalidValue = errors.New("invalid filter value")
)

// State is the current set of search criteria. Empty strings and nil
// pointers mean "no filter" and are never sent or written to the URL.
type State struct {
	Query       string
	Category    string
	Diet        string
	Cuisine     string
	MaxMinutes  *int
	MinPortions *int
}

// Int returns a pointer to v, for building states in code.
func Int(v int) *int { return &v }

// FromURL parses the query string of u. Unknown parameters are ignored and
// malformed values are treated as absent.
func FromURL(u *url.URL) State {
	if u == nil {
		return State{}
	}
	q := u.Query()
	return State{
		Query:       text(q.Get(ParamQuery)),
		Category:    text(q.Get(ParamCategory)),
		Diet:        text(q.Get(ParamDiet)),
		Cuisine:     text(q.Get(ParamCuisine)),
		MaxMinutes:  number(q.Get(ParamMaxMinutes)),
		MinPortions: number(q.Get(ParamMinPortions)),
	}
}

// ToURL returns a copy of base whose query string encodes s.
func ToURL(base *url.URL, s State) *url.URL {
	out := url.URL{Path: "/"}
	if base != nil {
		out = *base
	}
	out.RawQuery = s.Values().Encode()
	out.Fragment = ""
	return &out
}

// Values encodes the present fields only.
func (s State) Values() url.Values {
	v := url.Values{}
	put := func(k, val string) {
		if text(val) != "" {
			v.Set(k, val)
		}
	}
	put(ParamQuery, s.Query)
	put(ParamCategory, s.Category)
	put(ParamDiet, s.Diet)
	put(ParamCuisine, s.Cuisine)
	if s.MaxMinutes != nil && *s.MaxMinutes >= 0 {
		v.Set(ParamMaxMinutes, strconv.Itoa(*s.MaxMinutes))
	}
	if s.MinPortions != nil && *s.MinPortions >= 0 {
		v.Set(ParamMinPortions, strconv.Itoa(*s.MinPortions))
	}
	return v
}

// Reset clears every field.
func (s *State) Reset() { *s = State{} }

// IsZero reports whether no filter is set.
func (s State) IsZero() bool { return len(s.Values()) == 0 }

// Set assigns one field by its parameter name. An empty value clears it.
func (s *State) Set(param, value string) error {
	value = strings.TrimSpace(value)
	switch param {
	case ParamQuery:
		s.Query = value
	case ParamCategory:
		s.Category = value
	case ParamDiet:
		s.Diet = value
	case ParamCuisine:
		s.Cuisine = value
	case ParamMaxMinutes, ParamMinPortions:
		var n *int
		if value != "" {
			if n = number(value); n == nil {
				return fmt.Errorf("%w: %s=%q", ErrInvalidValue, param, value)
			}
		}
		if param == ParamMaxMinutes {
			s.MaxMinutes = n
		} else {
			s.MinPortions = n
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownParam, param)
	}
	return nil
}

func text(v string) string {
	if strings.TrimSpace(v) == "" {
		return ""
	}
	return v
}

func number(v string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return nil
	}
	return &n
}
