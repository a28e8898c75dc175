package receipt

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/rgnlkopya-maker/fisislebot/internal/scanning"
)

const (
	maxUploadSize = int64(20 << 20) // 20MB
	maxTextSize   = int64(2 << 20)  // 2MB
)

// corsError writes an error response with CORS headers set
func corsError(w http.ResponseWriter, message string, code int) {
	setCORSHeaders(w)
	http.Error(w, message, code)
}

// jsonError writes a JSON error body
func jsonError(w http.ResponseWriter, message string, code int) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

// writeJSON writes v with the given status code
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

// processingStatus maps a processing error to an HTTP status
func processingStatus(err error) int {
	switch {
	case errors.Is(err, scanning.ErrUnsupportedContentType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, scanning.ErrNoTextLayer):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrInvalidChatID):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// handleHealth reports liveness
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleExtract runs extraction on posted text
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text     string `json:"text"`
		Filename string `json:"filename"`
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxTextSize)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := s.service.ExtractText(req.Text, req.Filename)
	if err != nil {
		slog.Error("Error extracting text", "filename", req.Filename, "error", err)
		jsonError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleListDocuments returns the processed documents, optionally for one chat
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	records, err := s.service.ListRecords(r.URL.Query().Get("chat_id"))
	if err != nil {
		slog.Error("Error listing records", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	// Ensure we always return an array, not nil
	if records == nil {
		records = []*Record{}
	}

	writeJSON(w, http.StatusOK, records)
}

// handleUploadDocument handles document upload
func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		errorMsg := "Error parsing form"
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			errorMsg = "File is too large. Maximum size is 20MB."
		}
		jsonError(w, errorMsg, http.StatusBadRequest)
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		slog.Error("Error getting file from form", "error", err)
		errorMsg := "No file provided"
		if errors.Is(err, http.ErrMissingFile) {
			errorMsg = "No file was selected. Please choose a file to upload."
		}
		jsonError(w, errorMsg, http.StatusBadRequest)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		jsonError(w, "Error reading file. Please try again.", http.StatusInternalServerError)
		return
	}

	// Prefer the extension when the client sends no useful content type
	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		if ct := scanning.ContentTypeForFile(header.Filename); ct != "" {
			contentType = ct
		}
	}

	record, err := s.service.ProcessDocument(r.FormValue("chat_id"), header.Filename, data, contentType)
	if err != nil {
		slog.Error("Error processing document", "filename", header.Filename, "error", err)
		jsonError(w, err.Error(), processingStatus(err))
		return
	}

	writeJSON(w, http.StatusCreated, record)
}

// handleGetDocument returns a single record
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		corsError(w, "Document ID required", http.StatusBadRequest)
		return
	}
	record, err := s.service.GetRecord(id)
	if err != nil {
		s.lookupError(w, id, err)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// handleGetOutput returns the JSON output file of a record
func (s *Server) handleGetOutput(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		corsError(w, "Document ID required", http.StatusBadRequest)
		return
	}
	data, err := s.service.GetRecordOutput(id)
	if err != nil {
		s.lookupError(w, id, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// handleDeleteDocument deletes a record and its output
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		corsError(w, "Document ID required", http.StatusBadRequest)
		return
	}
	if err := s.service.DeleteRecord(id); err != nil {
		s.lookupError(w, id, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) lookupError(w http.ResponseWriter, id string, err error) {
	if errors.Is(err, ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		corsError(w, "Document not found", http.StatusNotFound)
		return
	}
	slog.Error("Error looking up document", "id", id, "error", err)
	corsError(w, "Internal server error", http.StatusInternalServerError)
}
