package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/ideamans/go-l10n"
	"github.com/julienschmidt/httprouter"
	"github.com/user/plantscan/pkg/orchestrator"
	"github.com/user/plantscan/pkg/pipeline"
)

// Messages returned to clients. They match what the upload page expects.
const (
	msgInputMissing  = "Video and plant type are required"
	msgNotFound      = "No processed video found"
	msgSourceOpen    = "Failed to open video file"
	msgSinkInit      = "Failed to initialize video writer"
	msgPersistence   = "Failed to save processed video"
	msgUploadTooBig  = "Video exceeds the upload limit"
	msgInvalidUpload = "Invalid upload"
)

// multipartMemory is the part of an upload kept in memory before spilling to
// temporary files.
const multipartMemory = 32 << 20

type detectResponse struct {
	ProcessedVideo string                 `json:"processed_video"`
	Detections     []pipeline.ReportEntry `json:"detections"`
	RunID          string                 `json:"run_id"`
	Frames         int                    `json:"frames"`
	SampledFrames  int                    `json:"sampled_frames"`
	UniqueFrames   int                    `json:"unique_frames"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	data, err := staticFiles.ReadFile("static/index.html")
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sendJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	if s.opts.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooBig *http.MaxBytesError
		switch {
		case errors.As(err, &tooBig), strings.Contains(err.Error(), "request body too large"):
			s.sendError(w, http.StatusRequestEntityTooLarge, msgUploadTooBig)
		case errors.Is(err, http.ErrNotMultipart):
			s.sendError(w, http.StatusBadRequest, msgInputMissing)
		default:
			s.sendError(w, http.StatusBadRequest, msgInvalidUpload)
		}
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("video")
	plantType := strings.TrimSpace(r.FormValue("plant_type"))
	if err != nil || plantType == "" {
		s.sendError(w, http.StatusBadRequest, msgInputMissing)
		return
	}
	defer file.Close()

	s.logger.Info(l10n.F("Received %s for %s detection", header.Filename, plantType))

	result, err := s.detector.Run(r.Context(), orchestrator.Request{
		Video:     file,
		PlantType: plantType,
	})
	if err != nil {
		s.logger.Error(l10n.F("Detection request failed: %s", err))
		status, message := classify(err)
		s.sendError(w, status, message)
		return
	}

	sendJSON(w, http.StatusOK, detectResponse{
		ProcessedVideo: fmt.Sprintf("/get-latest-video?t=%d", s.now().Unix()),
		Detections:     result.Report,
		RunID:          result.RunID,
		Frames:         result.FramesWritten,
		SampledFrames:  result.SampledFrames,
		UniqueFrames:   result.UniqueFrames,
	})
}

func (s *Server) handleLatestVideo(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	artifact, err := s.store.Latest()
	if err != nil {
		status, message := classify(err)
		s.sendError(w, status, message)
		return
	}

	f, err := os.Open(artifact.Path)
	if err != nil {
		s.sendError(w, http.StatusNotFound, msgNotFound)
		return
	}
	defer f.Close()

	s.logger.Debug(l10n.F("Serving %s", artifact.Path))

	h := w.Header()
	h.Set("Content-Type", videoMimeType(artifact.Path))
	h.Set("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate, max-age=0")
	h.Set("Pragma", "no-cache")
	h.Set("Expires", "0")
	http.ServeContent(w, r, "", artifact.ModTime, f)
}

// classify maps pipeline failures to a status code and client message.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, pipeline.ErrInputMissing):
		return http.StatusBadRequest, msgInputMissing
	case errors.Is(err, pipeline.ErrNotFound):
		return http.StatusNotFound, msgNotFound
	case errors.Is(err, pipeline.ErrSourceOpen):
		return http.StatusInternalServerError, msgSourceOpen
	case errors.Is(err, pipeline.ErrSinkInit):
		return http.StatusInternalServerError, msgSinkInit
	case errors.Is(err, pipeline.ErrPersistenceVerification):
		return http.StatusInternalServerError, msgPersistence
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

func videoMimeType(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".mp4") {
		return "video/mp4"
	}
	return "video/avi"
}

func (s *Server) sendError(w http.ResponseWriter, status int, message string) {
	sendJSON(w, status, errorResponse{Error: message})
}

func sendJSON(w http.ResponseWriter, status int, obj any) {
	b, err := json.Marshal(obj)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(b)
}
