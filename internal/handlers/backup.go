package handlers

import (
	"loantrack/internal/backup"
	"log"
	"net/http"
)

type BackupHandler struct {
	mirror *backup.Service
}

func NewBackupHandler(mirror *backup.Service) *BackupHandler {
	return &BackupHandler{mirror: mirror}
}

// /backup: POST rebuilds the workbook from scratch.
func (bh *BackupHandler) HandleCreateBackup(w http.ResponseWriter, r *http.Request) {
	op := "internal/handlers/backup.go HandleCreateBackup"

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed.", http.StatusMethodNotAllowed)
		return
	}

	path, err := bh.mirror.CreateFullBackup(r.Context())
	if err != nil {
		http.Error(w, "Couldnt create backup.", http.StatusInternalServerError)
		log.Println("Couldnt create backup in ", op, " with error: ", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"status": "created",
		"path":   path,
	})
}

// /backup/latest: GET downloads the most recent workbook.
func (bh *BackupHandler) HandleDownloadLatest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed.", http.StatusMethodNotAllowed)
		return
	}

	path := bh.mirror.LatestBackup()
	if path == "" {
		http.Error(w, "No backup found.", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Disposition", "attachment; filename=backup.xlsx")
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	http.ServeFile(w, r, path)
}
