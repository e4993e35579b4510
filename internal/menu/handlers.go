package menu

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"venue/internal/api"
	"venue/internal/audit"
	"venue/pkg/store"
)

type Store interface {
	ListMenu(ctx context.Context) ([]store.MenuItem, error)
	CreateMenuItem(ctx context.Context, in store.MenuItemInput) (store.MenuItem, error)
	UpdateMenuItem(ctx context.Context, id int64, in store.MenuItemInput) (store.MenuItem, error)
	DeleteMenuItem(ctx context.Context, id int64) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

const publicKey = "public"

type Handlers struct {
	Store func(r *http.Request) Store
	Cache Cache
	TTL   time.Duration
	Audit api.AuditRecorder
}

type publicMenu struct {
	Sections []Section `json:"sections"`
}

// Public serves the guest menu, from cache when possible.
func (h Handlers) Public(w http.ResponseWriter, r *http.Request) {
	var cached publicMenu
	if h.Cache != nil {
		found, err := h.Cache.Get(r.Context(), publicKey, &cached)
		if err != nil {
			api.Log(r.Context()).WithError(err).Warn("menu cache read failed")
		}
		if found {
			w.Header().Set("X-Cache", "HIT")
			api.WriteJSON(w, http.StatusOK, cached)
			return
		}
	}

	items, err := h.Store(r).ListMenu(r.Context())
	if err != nil {
		api.WriteStoreError(w, r, "list menu", err)
		return
	}
	out := publicMenu{Sections: Sections(items, true)}
	if h.Cache != nil {
		if err := h.Cache.Set(r.Context(), publicKey, out, h.TTL); err != nil {
			api.Log(r.Context()).WithError(err).Warn("menu cache write failed")
		}
	}
	w.Header().Set("X-Cache", "MISS")
	api.WriteJSON(w, http.StatusOK, out)
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Store(r).ListMenu(r.Context())
	if err != nil {
		api.WriteStoreError(w, r, "list menu", err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items, "sections": Sections(items, false)})
}

type itemRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	IsAvailable *bool           `json:"is_available"`
	ImageURL    string          `json:"image_url"`
}

func (req itemRequest) input() (store.MenuItemInput, error) {
	price, err := NormalizePrice(req.Price, DefaultCurrencyScale)
	if err != nil {
		return store.MenuItemInput{}, err
	}
	in := store.MenuItemInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       price,
		IsAvailable: true,
		ImageURL:    req.ImageURL,
	}
	if req.IsAvailable != nil {
		in.IsAvailable = *req.IsAvailable
	}
	return in, nil
}

func (h Handlers) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeItem(w, r)
	if !ok {
		return
	}
	item, err := h.Store(r).CreateMenuItem(r.Context(), in)
	if err != nil {
		api.WriteStoreError(w, r, "create menu item", err)
		return
	}
	h.invalidate(r)
	api.RecordAudit(r, h.Audit, audit.ActionMenuItemCreated, "menu_item", strconv.FormatInt(item.ID, 10), map[string]any{"name": item.Name})
	api.WriteJSON(w, http.StatusCreated, item)
}

func (h Handlers) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := api.PathID(w, r)
	if !ok {
		return
	}
	in, ok := decodeItem(w, r)
	if !ok {
		return
	}
	item, err := h.Store(r).UpdateMenuItem(r.Context(), id, in)
	if err != nil {
		api.WriteStoreError(w, r, "update menu item", err)
		return
	}
	h.invalidate(r)
	api.RecordAudit(r, h.Audit, audit.ActionMenuItemUpdated, "menu_item", strconv.FormatInt(id, 10), map[string]any{"price": item.Price})
	api.WriteJSON(w, http.StatusOK, item)
}

func (h Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := api.PathID(w, r)
	if !ok {
		return
	}
	if err := h.Store(r).DeleteMenuItem(r.Context(), id); err != nil {
		api.WriteStoreError(w, r, "delete menu item", err)
		return
	}
	h.invalidate(r)
	api.RecordAudit(r, h.Audit, audit.ActionMenuItemDeleted, "menu_item", strconv.FormatInt(id, 10), nil)
	w.WriteHeader(http.StatusNoContent)
}

func (h Handlers) invalidate(r *http.Request) {
	if h.Cache == nil {
		return
	}
	if err := h.Cache.Delete(r.Context(), publicKey); err != nil {
		api.Log(r.Context()).WithError(err).Warn("menu cache invalidation failed")
	}
}

func decodeItem(w http.ResponseWriter, r *http.Request) (store.MenuItemInput, bool) {
	var req itemRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return store.MenuItemInput{}, false
	}
	in, err := req.input()
	if errors.Is(err, ErrPriceInvalid) {
		api.WriteValidation(w, map[string]string{"price": err.Error()})
		return store.MenuItemInput{}, false
	}
	return in, true
}
