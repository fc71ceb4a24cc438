// Package web serves the contact store over HTTP: upload a .vcf file, browse
// and edit contacts, and download the collection as vCard or CSV.
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"unicode/utf8"

	logging "github.com/ipfs/go-log/v2"

	"github.com/mesh-intelligence/cardfile/internal/qr"
	"github.com/mesh-intelligence/cardfile/pkg/csvtable"
	"github.com/mesh-intelligence/cardfile/pkg/types"
	"github.com/mesh-intelligence/cardfile/pkg/vcard"
)

var log = logging.Logger("cardfile/web")

// UploadField is the multipart form field that carries the .vcf file.
const UploadField = "vcf_file"

// maxUploadBytes bounds the size of an uploaded file.
const maxUploadBytes = 10 << 20

// Handler serves the contact API backed by a Store.
type Handler struct {
	store types.Store
}

// NewHandler creates a handler for store. The store must be attached.
func NewHandler(store types.Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes registers the contact routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("POST /upload", h.handleUpload)
	mux.HandleFunc("GET /contacts", h.handleList)
	mux.HandleFunc("POST /contacts", h.handleAdd)
	mux.HandleFunc("GET /contacts/{index}", h.handleGet)
	mux.HandleFunc("PUT /contacts/{index}", h.handleEdit)
	mux.HandleFunc("DELETE /contacts/{index}", h.handleDelete)
	mux.HandleFunc("GET /contacts/{index}/qr", h.handleQR)
	mux.HandleFunc("GET /export/vcf", h.handleExportVCF)
	mux.HandleFunc("GET /export/csv", h.handleExportCSV)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	seq, err := h.store.Contacts()
	if err != nil {
		h.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"contacts": len(seq),
	})
}

// handleUpload replaces the whole collection with the cards in the
// uploaded file.
func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile(UploadField)
	if err != nil || header.Filename == "" {
		if err == nil {
			file.Close()
		}
		writeError(w, http.StatusBadRequest, types.ErrNoFile.Error())
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("read upload: %s", err))
		return
	}
	if !utf8.Valid(data) {
		writeError(w, http.StatusBadRequest, "file is not valid UTF-8")
		return
	}

	seq := vcard.Parse(string(data))
	if err := h.store.ReplaceAll(seq); err != nil {
		h.storeError(w, err)
		return
	}
	log.Infow("contacts uploaded", "file", header.Filename, "count", len(seq))

	http.Redirect(w, r, "/contacts", http.StatusSeeOther)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.Search(r.URL.Query().Get("search"))
	if err != nil {
		h.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(w, r)
	if !ok {
		return
	}
	c, err := h.store.Get(index)
	if err != nil {
		h.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.Entry{Index: index, Contact: c})
}

func (h *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var c types.Contact
	applyForm(&c, r)

	index, err := h.store.Append(c)
	if err != nil {
		h.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, types.Entry{Index: index, Contact: c})
}

// handleEdit overwrites the editable fields of one contact. The telephone
// fallback and pass-through fields are kept.
func (h *Handler) handleEdit(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := h.store.Get(index)
	if err != nil {
		h.storeError(w, err)
		return
	}
	applyForm(&c, r)
	if err := h.store.Replace(index, c); err != nil {
		h.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.Entry{Index: index, Contact: c})
}

// handleDelete removes one contact. Deleting a missing index succeeds.
func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(w, r)
	if !ok {
		return
	}
	if err := h.store.Delete(index); err != nil && !errors.Is(err, types.ErrNotFound) {
		h.storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleQR(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(w, r)
	if !ok {
		return
	}
	size := 0
	if s := r.URL.Query().Get("size"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid size")
			return
		}
		size = n
	}

	c, err := h.store.Get(index)
	if err != nil {
		h.storeError(w, err)
		return
	}
	data, err := qr.Encode(vcard.Write(types.Sequence{c}), size)
	if errors.Is(err, qr.ErrInvalidSize) || errors.Is(err, qr.ErrTooLong) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		log.Errorw("qr encode failed", "index", index, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", fmt.Sprintf("contact-%d.png", index)))
	_, _ = w.Write(data)
}

func (h *Handler) handleExportVCF(w http.ResponseWriter, r *http.Request) {
	seq, err := h.store.Contacts()
	if err != nil {
		h.storeError(w, err)
		return
	}
	writeAttachment(w, "text/vcard", "contacts.vcf", vcard.Write(seq))
}

func (h *Handler) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	seq, err := h.store.Contacts()
	if err != nil {
		h.storeError(w, err)
		return
	}
	writeAttachment(w, "text/csv", "contacts.csv", csvtable.Write(seq))
}

// applyForm sets every editable field from the request form. Fields the
// form leaves out become present-empty.
func applyForm(c *types.Contact, r *http.Request) {
	for _, name := range types.EditableFields {
		c.SetField(name, r.FormValue(name))
	}
}

// pathIndex parses the {index} path segment, writing a 400 on failure.
func pathIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid index")
		return 0, false
	}
	return index, true
}

// storeError maps store errors to HTTP statuses.
func (h *Handler) storeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, types.ErrNotFound), errors.Is(err, types.ErrIndexOutOfRange):
		writeError(w, http.StatusNotFound, types.ErrNotFound.Error())
	case errors.Is(err, types.ErrStoreDetached):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		log.Errorw("store operation failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeAttachment(w http.ResponseWriter, contentType, filename, body string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = io.WriteString(w, body)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": message,
		},
	})
}
