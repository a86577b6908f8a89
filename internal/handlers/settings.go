package handlers

import (
	"encoding/json"
	"loantrack/internal/models"
	"loantrack/internal/storage"
	"log"
	"net/http"
)

type SettingsHandler struct {
	storage *storage.SettingsStorage
}

func NewSettingsHandler(s *storage.SettingsStorage) *SettingsHandler {
	return &SettingsHandler{storage: s}
}

// /settings: GET reads the settings row, PUT upserts it.
func (sh *SettingsHandler) HandleSettings(w http.ResponseWriter, r *http.Request) {
	op := "internal/handlers/settings.go HandleSettings"

	switch r.Method {
	case http.MethodGet:
		settings, err := sh.storage.GetSettings(r.Context())
		if err != nil {
			http.Error(w, "Couldnt get settings.", http.StatusConflict)
			log.Println("Couldnt get settings", " in ", op)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": "success",
			"data":   settings,
		})

	case http.MethodPut:
		var settings models.Settings
		if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
			http.Error(w, "Couldnt decode json. Wrong request.", http.StatusBadRequest)
			log.Println("Couldnt decode json. Wrong request ", " in ", op)
			return
		}
		if err := sh.storage.SaveSettings(r.Context(), &settings); err != nil {
			http.Error(w, "Couldnt save settings.", http.StatusConflict)
			log.Println("Couldnt save settings with error ", err, " in ", op)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "saved",
			"message": "Settings saved successfully",
		})

	default:
		http.Error(w, "Method not allowed.", http.StatusMethodNotAllowed)
	}
}
