package handlers

import (
	"encoding/json"
	"loantrack/internal/backup"
	"loantrack/internal/models"
	"loantrack/internal/storage"
	"log"
	"net/http"
	"strconv"
)

type FollowUpHandler struct {
	storage       *storage.FollowUpStorage
	clientStorage *storage.ClientStorage
	mirror        *backup.Service
}

func NewFollowUpHandler(s *storage.FollowUpStorage, cs *storage.ClientStorage, mirror *backup.Service) *FollowUpHandler {
	return &FollowUpHandler{storage: s, clientStorage: cs, mirror: mirror}
}

// /followups: GET lists follow-ups (optionally ?client_id=N), POST
// creates one and bumps the client's last/next follow-up columns.
func (fh *FollowUpHandler) HandleFollowUps(w http.ResponseWriter, r *http.Request) {
	op := "internal/handlers/followups.go HandleFollowUps"

	switch r.Method {
	case http.MethodGet:
		var followUps []models.FollowUp
		var err error

		if clientIDStr := r.URL.Query().Get("client_id"); clientIDStr != "" {
			clientID, convErr := strconv.Atoi(clientIDStr)
			if convErr != nil {
				http.Error(w, "Bad client_id.", http.StatusBadRequest)
				return
			}
			followUps, err = fh.storage.GetFollowUpsByClient(r.Context(), clientID)
		} else {
			followUps, err = fh.storage.GetFollowUps(r.Context())
		}

		if err != nil {
			http.Error(w, "Couldnt get follow-ups.", http.StatusConflict)
			log.Println("Couldnt get follow-ups", " in ", op)
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": "success",
			"data":   followUps,
		})

	case http.MethodPost:
		var followUp models.FollowUp
		if err := json.NewDecoder(r.Body).Decode(&followUp); err != nil {
			http.Error(w, "Couldnt decode json. Wrong request.", http.StatusBadRequest)
			log.Println("Couldnt decode json. Wrong request ", " in ", op)
			return
		}

		if err := fh.storage.CreateFollowUp(r.Context(), &followUp); err != nil {
			http.Error(w, "Couldnt create follow-up with error", http.StatusConflict)
			log.Println("Couldnt create follow-up with error ", err, " in ", op)
			return
		}

		if err := fh.clientStorage.TouchFollowUpDates(r.Context(), followUp.ClientID, followUp.FollowUpDate, followUp.NextFollowUpDate); err != nil {
			log.Println("Couldnt touch client follow-up dates in ", op, " with error: ", err)
		}

		if _, err := fh.mirror.UpdateForFollowUp(r.Context(), followUp.ID, followUp.ClientID, backup.ActionCreate); err != nil {
			log.Println("Couldnt patch backup for follow-up ", followUp.ID, " in ", op, " with error: ", err)
		}
		if _, err := fh.mirror.UpdateForClient(r.Context(), followUp.ClientID, backup.ActionUpdate); err != nil {
			log.Println("Couldnt patch backup for client ", followUp.ClientID, " in ", op, " with error: ", err)
		}

		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"status":  "created",
			"message": "Follow-up created successfully",
			"id":      followUp.ID,
		})

	default:
		http.Error(w, "Method not allowed.", http.StatusMethodNotAllowed)
	}
}

// /followup?id=N: PUT updates, DELETE removes.
func (fh *FollowUpHandler) HandleFollowUp(w http.ResponseWriter, r *http.Request) {
	op := "internal/handlers/followups.go HandleFollowUp"

	switch r.Method {
	case http.MethodPut:
		var followUp models.FollowUp
		if err := json.NewDecoder(r.Body).Decode(&followUp); err != nil {
			http.Error(w, "Couldnt decode json. Wrong request.", http.StatusBadRequest)
			log.Println("Couldnt decode json. Wrong request ", " in ", op)
			return
		}
		if err := fh.storage.UpdateFollowUp(r.Context(), &followUp); err != nil {
			http.Error(w, "Couldnt update follow-up.", http.StatusConflict)
			log.Println("Couldnt update follow-up with error ", err, " in ", op)
			return
		}
		if _, err := fh.mirror.UpdateForFollowUp(r.Context(), followUp.ID, followUp.ClientID, backup.ActionUpdate); err != nil {
			log.Println("Couldnt patch backup for follow-up ", followUp.ID, " in ", op, " with error: ", err)
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "updated",
			"message": "Follow-up updated successfully",
		})

	case http.MethodDelete:
		id, err := strconv.Atoi(r.URL.Query().Get("id"))
		if err != nil {
			http.Error(w, "Missing or bad id.", http.StatusBadRequest)
			return
		}
		followUp, err := fh.storage.GetFollowUpByID(r.Context(), id)
		if err != nil {
			http.Error(w, "Follow-up not found.", http.StatusNotFound)
			log.Println("Couldnt get follow-up ", id, " in ", op, " with error: ", err)
			return
		}
		if err := fh.storage.DeleteFollowUp(r.Context(), id); err != nil {
			http.Error(w, "Couldnt delete follow-up.", http.StatusConflict)
			log.Println("Couldnt delete follow-up with error ", err, " in ", op)
			return
		}
		if _, err := fh.mirror.UpdateForFollowUp(r.Context(), id, followUp.ClientID, backup.ActionDelete); err != nil {
			log.Println("Couldnt patch backup for follow-up ", id, " in ", op, " with error: ", err)
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "deleted",
			"message": "Follow-up deleted successfully",
		})

	default:
		http.Error(w, "Method not allowed.", http.StatusMethodNotAllowed)
	}
}
