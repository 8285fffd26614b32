package client

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const dishSelector = ".dish-card[data-recipe-id]"

// DishOfTheDay reads the featured recipe id from the landing page markup.
// A page without a featured card is not an error.
func (c *RESTClient) DishOfTheDay(ctx context.Context) (id int64, ok bool, err error) {
	defer func() { observe("dish", err) }()

	resp, err := c.execute(ctx, http.MethodGet, "/", nil, nil)
	if err != nil {
		return 0, false, err
	}
	return parseDishOfTheDay(resp.Body())
}

func parseDishOfTheDay(page []byte) (int64, bool, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return 0, false, &APIError{Kind: KindMalformed, Status: http.StatusOK, Message: ErrMalformed.Error(), Err: err}
	}

	card := doc.Find(dishSelector).First()
	if card.Length() == 0 {
		return 0, false, nil
	}
	raw, _ := card.Attr("data-recipe-id")
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, false, &APIError{
			Kind:    KindMalformed,
			Status:  http.StatusOK,
			Message: ErrMalformed.Error(),
			Err:     fmt.Errorf("dish card id %q: %w", raw, err),
		}
	}
	return id, true, nil
}
