package store

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"
)

type MenuItem struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	IsAvailable bool            `json:"is_available"`
	ImageURL    string          `json:"image_url,omitempty"`
}

type MenuItemInput struct {
	Name        string          `json:"name" validate:"required,max=120"`
	Description string          `json:"description" validate:"max=1000"`
	Category    string          `json:"category" validate:"required,max=60"`
	Price       decimal.Decimal `json:"price" validate:"gt=0"`
	IsAvailable bool            `json:"is_available"`
	ImageURL    string          `json:"image_url,omitempty" validate:"omitempty,url"`
}

// The menu resource predates the others and uses verb-style paths for list
// and create.

func (c Client) ListMenu(ctx context.Context) ([]MenuItem, error) {
	items, err := decodeList[MenuItem](ctx, c, "/menus/list", nil)
	if err != nil {
		return nil, fmt.Errorf("list menu: %w", err)
	}
	return items, nil
}

func (c Client) CreateMenuItem(ctx context.Context, in MenuItemInput) (MenuItem, error) {
	if err := Validate(in); err != nil {
		return MenuItem{}, err
	}
	var out MenuItem
	if _, err := c.doJSON(ctx, http.MethodPost, "/menus/create", nil, in, &out); err != nil {
		return MenuItem{}, fmt.Errorf("create menu item: %w", err)
	}
	return out, nil
}

func (c Client) UpdateMenuItem(ctx context.Context, id int64, in MenuItemInput) (MenuItem, error) {
	if err := Validate(in); err != nil {
		return MenuItem{}, err
	}
	var out MenuItem
	if _, err := c.doJSON(ctx, http.MethodPut, menuPath(id), nil, in, &out); err != nil {
		return MenuItem{}, fmt.Errorf("update menu item %d: %w", id, err)
	}
	return out, nil
}

func (c Client) DeleteMenuItem(ctx context.Context, id int64) error {
	if _, err := c.doJSON(ctx, http.MethodDelete, menuPath(id), nil, nil, nil); err != nil {
		return fmt.Errorf("delete menu item %d: %w", id, err)
	}
	return nil
}

func menuPath(id int64) string {
	return "/menus/" + strconv.FormatInt(id, 10) + "/"
}
