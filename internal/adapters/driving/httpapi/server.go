// Package httpapi exposes registration, duplicate checking, and
// verification over HTTP. Image bytes travel in the request body,
// either raw or as the "file" part of a multipart form.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/core/domain"
	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/core/ports/driving"
	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/logger"
)

// maxUploadBytes bounds request bodies. Large rasters are legitimate;
// anything past this is abuse.
const maxUploadBytes = 64 << 20

// Server handles the HTTP surface of the service.
type Server struct {
	registrar driving.Registrar
	verifier  driving.Verifier
}

// NewServer creates a server with explicit dependencies.
func NewServer(registrar driving.Registrar, verifier driving.Verifier) *Server {
	return &Server{registrar: registrar, verifier: verifier}
}

// Router returns the route table.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /register", s.handleRegister)
	mux.HandleFunc("POST /verify", s.handleVerify)
	mux.HandleFunc("POST /duplicate-check", s.handleDuplicateCheck)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	data, filename, err := readImage(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	record, err := s.registrar.RegisterBytes(r.Context(), filename, data)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, registerResponse{
		Message:    "Artwork registered. Watermarking is queued and will complete shortly.",
		ArtifactID: record.ArtifactID,
		Record:     recordView(record),
	})
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	data, _, err := readImage(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	verdict, err := s.verifier.Verify(r.Context(), data)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, verdictView(verdict))
}

func (s *Server) handleDuplicateCheck(w http.ResponseWriter, r *http.Request) {
	data, _, err := readImage(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	report, err := s.registrar.CheckDuplicate(r.Context(), data)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, duplicateView(report))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// readImage extracts image bytes and a filename from the request. A
// multipart form's "file" part wins; otherwise the raw body is used
// with an optional ?filename= hint.
func readImage(r *http.Request) ([]byte, string, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxUploadBytes)

	if mt := r.Header.Get("Content-Type"); len(mt) >= 19 && mt[:19] == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return nil, "", fmt.Errorf("parsing multipart form: %w", err)
		}
		f, header, err := r.FormFile("file")
		if err != nil {
			return nil, "", errors.New(`multipart form is missing a "file" part`)
		}
		defer f.Close()
		data, err := readPart(f)
		if err != nil {
			return nil, "", err
		}
		return data, header.Filename, nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, "", fmt.Errorf("reading request body: %w", err)
	}
	if len(data) == 0 {
		return nil, "", errors.New("empty request body")
	}

	filename := r.URL.Query().Get("filename")
	if filename == "" {
		filename = "upload.png"
	}
	return data, filename, nil
}

func readPart(f multipart.File) ([]byte, error) {
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("reading file part: %w", err)
	}
	return data, nil
}

// writeServiceError maps core errors onto status codes. Input the core
// rejected is the client's fault; everything else is ours and stays
// opaque.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrDecode),
		errors.Is(err, domain.ErrInvalidImage),
		errors.Is(err, domain.ErrPayloadTooLarge),
		errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
	default:
		logger.Error("Request failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Encoding response: %v", err)
	}
}
