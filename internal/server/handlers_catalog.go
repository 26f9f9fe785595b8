package server

import (
	"io"
	"net/http"
	"strings"

	"officedesk/pkg/domain"
)

func (s *Server) handleUploads(w http.ResponseWriter, r *http.Request, user domain.User) {
	switch r.Method {
	case http.MethodPost:
		s.handleUploadCatalog(w, r, user)
	case http.MethodGet:
		s.handleListUploads(w, user)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleUploadCatalog(w http.ResponseWriter, r *http.Request, user domain.User) {
	if s.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form data")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required (field: file)")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read file")
		return
	}
	upload, err := s.app.UploadCatalog(user, header.Filename, data)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, upload)
}

func (s *Server) handleListUploads(w http.ResponseWriter, user domain.User) {
	uploads, err := s.app.ListUploads(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": uploads,
		"count": len(uploads),
	})
}

func (s *Server) handleUploadByID(w http.ResponseWriter, r *http.Request, user domain.User) {
	id := strings.TrimPrefix(r.URL.Path, "/api/uploads/")
	if rest, ok := strings.CutSuffix(id, "/file"); ok {
		s.handleUploadFile(w, r, user, rest)
		return
	}
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if r.Method != http.MethodDelete {
		methodNotAllowed(w)
		return
	}
	if err := s.app.DeleteUpload(user, id); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleUploadFile redirects to a short-lived link for the archived
// original document.
func (s *Server) handleUploadFile(w http.ResponseWriter, r *http.Request, user domain.User, id string) {
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	url, err := s.app.UploadFileURL(user, id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// searchResult is the wire shape of one catalog match.
type searchResult struct {
	Description string   `json:"item_description"`
	Make        string   `json:"make"`
	Brand       string   `json:"brand"`
	CatNo       string   `json:"cat_no"`
	Rate        *float64 `json:"rate"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request, _ domain.User) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	records, err := s.app.Search(r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	results := make([]searchResult, 0, len(records))
	for _, rec := range records {
		results = append(results, searchResult{
			Description: rec.Description,
			Make:        rec.Make,
			Brand:       rec.Brand,
			CatNo:       rec.CatNo,
			Rate:        rec.Rate,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}
