package api

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/importer"
	"github.com/vytor/flashdeck/internal/logger"
)

const defaultMaxUpload = 5 << 20

// handleImportCards accepts a multipart upload with a "file" part (.csv or
// .xlsx) and appends its rows to the deck.
func (s *Server) handleImportCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	deckID, err := pathID(r, "deckID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	limit := s.MaxUploadBytes
	if limit <= 0 {
		limit = defaultMaxUpload
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			handleError(w, r, errors.NewBadRequestError(fmt.Sprintf("file exceeds the %d byte upload limit", limit)))
			return
		}
		log.Debug("invalid multipart body: %v", err)
		handleError(w, r, errors.NewBadRequestError("expected a multipart form with a file field"))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		handleError(w, r, errors.NewBadRequestError("missing file field"))
		return
	}
	defer file.Close()

	opts, err := importOptions(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Debug("importing %s (%d bytes) into deck %d", header.Filename, header.Size, deckID)
	summary, err := s.ImportService.Import(r.Context(), userIDFromContext(r.Context()), deckID, file, header.Filename, opts)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, summary)
}

func importOptions(r *http.Request) (importer.Options, error) {
	opts := importer.DefaultOptions()
	if raw := r.FormValue("skip_header"); raw != "" {
		skip, err := strconv.ParseBool(raw)
		if err != nil {
			return opts, errors.NewBadRequestError("invalid skip_header: " + raw)
		}
		opts.SkipHeader = skip
	}
	opts.Sheet = r.FormValue("sheet")
	if v := r.FormValue("front_column"); v != "" {
		opts.FrontColumn = v
	}
	if v := r.FormValue("back_column"); v != "" {
		opts.BackColumn = v
	}
	if v := r.FormValue("note_column"); v != "" {
		opts.NoteColumn = v
	}
	return opts, nil
}
