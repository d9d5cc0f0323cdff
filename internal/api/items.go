package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/erazemk/garancija/internal/inventory"
	"github.com/erazemk/garancija/internal/store"
)

// ItemsHandler handles warranty record endpoints. Records are addressed by
// their position in the collection, mirroring the persisted layout, which
// has no record IDs.
type ItemsHandler struct {
	Manager *inventory.Manager
}

type itemRequest struct {
	Name             string `json:"name"`
	BuyDate          string `json:"buy_date"`
	WarrantyYears    int    `json:"warranty_years"`
	ProductImageURL  string `json:"product_img"`
	WarrantyImageURL string `json:"warranty_img"`
}

func (req *itemRequest) buyDate() (time.Time, error) {
	return time.Parse(store.DateFormat, req.BuyDate)
}

// List handles GET /api/items. Supports ?filter= and ?q=.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := inventory.Filter(r.URL.Query().Get("filter"))
	search := r.URL.Query().Get("q")

	items := h.Manager.List(filter, search)
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	buyDate, err := req.buyDate()
	if err != nil {
		jsonError(w, http.StatusBadRequest, "buy_date must be YYYY-MM-DD")
		return
	}

	item, err := h.Manager.Add(r.Context(), req.Name, buyDate, req.WarrantyYears,
		req.ProductImageURL, req.WarrantyImageURL)
	switch {
	case errors.Is(err, inventory.ErrEmptyName), errors.Is(err, inventory.ErrWarrantyRange):
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		// Created in memory, not yet persisted. Report both facts.
		jsonResponse(w, http.StatusCreated, map[string]any{
			"item":  item,
			"error": "item saved in session but not yet persisted",
		})
		return
	}

	jsonResponse(w, http.StatusCreated, item)
}

// Update handles PUT /api/items/{index}.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item index")
		return
	}

	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	buyDate, err := req.buyDate()
	if err != nil {
		jsonError(w, http.StatusBadRequest, "buy_date must be YYYY-MM-DD")
		return
	}

	item, err := h.Manager.Edit(r.Context(), index, req.Name, buyDate, req.WarrantyYears,
		req.ProductImageURL, req.WarrantyImageURL)
	switch {
	case errors.Is(err, inventory.ErrIndexOutOfRange):
		jsonError(w, http.StatusNotFound, "item not found")
		return
	case errors.Is(err, inventory.ErrEmptyName), errors.Is(err, inventory.ErrWarrantyRange):
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		jsonResponse(w, http.StatusOK, map[string]any{
			"item":  item,
			"error": "item updated in session but not yet persisted",
		})
		return
	}

	jsonResponse(w, http.StatusOK, item)
}

// Delete handles DELETE /api/items/{index}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item index")
		return
	}

	switch err := h.Manager.Delete(r.Context(), index); {
	case errors.Is(err, inventory.ErrIndexOutOfRange):
		jsonError(w, http.StatusNotFound, "item not found")
		return
	case err != nil:
		jsonResponse(w, http.StatusOK, map[string]string{
			"message": "item deleted in session but not yet persisted",
		})
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}
