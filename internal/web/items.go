package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/erazemk/garancija/internal/imaging"
	"github.com/erazemk/garancija/internal/inventory"
	"github.com/erazemk/garancija/internal/store"
)

// maxUploadSize bounds a single form submission including both photos.
const maxUploadSize = 12 << 20

// ItemsPage handles GET /, the main card list with search and filter.
func (s *Server) ItemsPage(w http.ResponseWriter, r *http.Request) {
	filter := inventory.Filter(r.URL.Query().Get("filter"))
	search := r.URL.Query().Get("q")

	items := s.Manager.List(filter, search)

	s.Templates.Render(w, "items.html", &struct {
		PageData
		Items   []inventory.ItemStatus
		Total   int
		Filter  string
		Search  string
		Webhook bool
	}{
		PageData: PageData{Title: "Garancije"},
		Items:    items,
		Total:    s.Manager.Len(),
		Filter:   string(filter),
		Search:   search,
		Webhook:  s.Webhook != nil && s.Webhook.Enabled(),
	})
}

// ItemCreateSubmit handles POST /items.
func (s *Server) ItemCreateSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "file too large", http.StatusBadRequest)
		return
	}

	name := r.FormValue("name")
	buyDate, err := time.Parse(store.DateFormat, r.FormValue("buy_date"))
	if err != nil {
		http.Error(w, "invalid buy date", http.StatusBadRequest)
		return
	}
	warrantyYears, err := strconv.Atoi(r.FormValue("warranty_years"))
	if err != nil {
		http.Error(w, "invalid warranty years", http.StatusBadRequest)
		return
	}

	productURL := s.uploadPhoto(r, "product_image", name)
	warrantyURL := s.uploadPhoto(r, "warranty_image", name)

	item, err := s.Manager.Add(r.Context(), name, buyDate, warrantyYears, productURL, warrantyURL)
	switch {
	case errors.Is(err, inventory.ErrEmptyName), errors.Is(err, inventory.ErrWarrantyRange):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		// The item is in memory but the sheet write failed; keep serving
		// the session state and let a later save catch up.
		slog.Error("failed to persist new item", "item", name, "error", err)
	default:
		slog.Info("item added", "item", item.Name, "expires", item.ExpiryDate.Format(store.DateFormat))
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ItemUpdateSubmit handles POST /items/{index}.
func (s *Server) ItemUpdateSubmit(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		http.Error(w, "invalid index", http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "file too large", http.StatusBadRequest)
		return
	}

	name := r.FormValue("name")
	buyDate, err := time.Parse(store.DateFormat, r.FormValue("buy_date"))
	if err != nil {
		http.Error(w, "invalid buy date", http.StatusBadRequest)
		return
	}
	warrantyYears, err := strconv.Atoi(r.FormValue("warranty_years"))
	if err != nil {
		http.Error(w, "invalid warranty years", http.StatusBadRequest)
		return
	}

	// Empty URLs keep the previously stored photos.
	productURL := s.uploadPhoto(r, "product_image", name)
	warrantyURL := s.uploadPhoto(r, "warranty_image", name)

	item, err := s.Manager.Edit(r.Context(), index, name, buyDate, warrantyYears, productURL, warrantyURL)
	switch {
	case errors.Is(err, inventory.ErrIndexOutOfRange):
		http.Error(w, "item not found", http.StatusNotFound)
		return
	case errors.Is(err, inventory.ErrEmptyName), errors.Is(err, inventory.ErrWarrantyRange):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		slog.Error("failed to persist edited item", "item", name, "error", err)
	default:
		slog.Info("item updated", "item", item.Name)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ItemDeleteSubmit handles POST /items/{index}/delete.
func (s *Server) ItemDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		http.Error(w, "invalid index", http.StatusBadRequest)
		return
	}

	switch err := s.Manager.Delete(r.Context(), index); {
	case errors.Is(err, inventory.ErrIndexOutOfRange):
		http.Error(w, "item not found", http.StatusNotFound)
		return
	case err != nil:
		slog.Error("failed to persist after delete", "index", index, "error", err)
	default:
		slog.Info("item deleted", "index", index)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// RemindersSubmit handles POST /reminders: builds the digest and pushes it
// through the messaging webhook.
func (s *Server) RemindersSubmit(w http.ResponseWriter, r *http.Request) {
	if s.Webhook == nil || !s.Webhook.Enabled() {
		slog.Info("reminder requested but no webhook configured")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	digest := s.Manager.ReminderDigest()
	if digest == "" {
		slog.Info("no warranties need attention, skipping reminder")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if err := s.Webhook.Send(r.Context(), digest); err != nil {
		slog.Error("failed to send reminder", "error", err)
	} else {
		slog.Info("reminder digest sent")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ImageGet handles GET /images/{id} when photos are hosted locally.
func (s *Server) ImageGet(w http.ResponseWriter, r *http.Request) {
	if s.Images == nil {
		http.NotFound(w, r)
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	data, mime, err := s.Images.Get(r.Context(), id)
	if err != nil {
		slog.Error("failed to get image", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if data == nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Disposition", "inline")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := w.Write(data); err != nil {
		slog.Error("failed to write image response", "error", err)
	}
}

// uploadPhoto processes and hosts one optional photo from the form.
// Returns an empty URL when the field is absent or the upload fails; a
// failed photo never blocks saving the item itself.
func (s *Server) uploadPhoto(r *http.Request, field, itemName string) string {
	file, _, err := r.FormFile(field)
	if err != nil {
		return ""
	}
	defer file.Close()

	processed, err := imaging.Process(file)
	if err != nil {
		slog.Warn("skipping photo", "field", field, "error", err)
		return ""
	}

	filename := fmt.Sprintf("%s_%s_%s.jpg", itemName, field, time.Now().Format(store.DateFormat))
	url, err := s.Uploader.Upload(r.Context(), processed.Data, processed.MIME, filename)
	if err != nil {
		slog.Warn("photo upload failed, saving item without it", "field", field, "error", err)
		return ""
	}
	return url
}
