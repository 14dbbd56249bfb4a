// internal/ingest/handler.go
package ingest

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/andresuchdata/invopt/internal/drive"
)

type Handler struct {
	service      *Service
	driveService *drive.Service
	dataDir      string
}

// NewHandler builds the ingest HTTP surface. driveService may be nil when
// no Drive source is configured. dataDir is where Drive snapshots land.
func NewHandler(service *Service, driveService *drive.Service, dataDir string) *Handler {
	return &Handler{
		service:      service,
		driveService: driveService,
		dataDir:      dataDir,
	}
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/drive/files", h.ListDriveFiles).Methods("GET")
	router.HandleFunc("/api/ingest/drive", h.IngestDrive).Methods("POST")
	router.HandleFunc("/api/ingest/upload", h.UploadSnapshot).Methods("POST")
}

func (h *Handler) ListDriveFiles(w http.ResponseWriter, r *http.Request) {
	if h.driveService == nil {
		http.Error(w, "drive source not configured", http.StatusServiceUnavailable)
		return
	}

	query := r.URL.Query()
	folderID := query.Get("folderId")

	if path := query.Get("path"); path != "" {
		id, err := h.driveService.FindFolderByPath(r.Context(), path)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		folderID = id
	}

	files, err := h.driveService.ListFiles(r.Context(), folderID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(files)
}

func (h *Handler) IngestDrive(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	opts := drive.DownloadOptions{
		FolderID:   query.Get("folderId"),
		FolderPath: query.Get("path"),
		TargetDir:  h.dataDir,
	}

	n, err := h.service.SyncDrive(r.Context(), opts)
	if err != nil {
		http.Error(w, fmt.Sprintf("ingestion failed: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"status": "success", "rows_ingested": n})
}

// UploadSnapshot ingests a CSV posted as the request body. kind=suppliers
// loads a supplier master; anything else loads a component snapshot.
func (h *Handler) UploadSnapshot(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var (
		n   int
		err error
	)
	if r.URL.Query().Get("kind") == "suppliers" {
		n, err = h.service.IngestSuppliers(r.Context(), r.Body)
	} else {
		n, err = h.service.IngestComponents(r.Context(), r.Body)
	}
	if err != nil {
		http.Error(w, fmt.Sprintf("ingestion failed: %v", err), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"status": "success", "rows_ingested": n})
}
