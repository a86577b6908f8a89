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

type ClientHandler struct {
	storage *storage.ClientStorage
	mirror  *backup.Service
}

func NewClientHandler(s *storage.ClientStorage, mirror *backup.Service) *ClientHandler {
	return &ClientHandler{storage: s, mirror: mirror}
}

// /clients: GET lists all clients, POST creates one.
func (ch *ClientHandler) HandleClients(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		ch.handleList(w, r)
	case http.MethodPost:
		ch.handleCreate(w, r)
	default:
		http.Error(w, "Method not allowed.", http.StatusMethodNotAllowed)
	}
}

// /client?id=N: GET fetches, PUT updates, DELETE removes.
func (ch *ClientHandler) HandleClient(w http.ResponseWriter, r *http.Request) {
	op := "internal/handlers/clients.go HandleClient"

	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil && r.Method != http.MethodPut {
		http.Error(w, "Missing or bad id.", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		client, err := ch.storage.GetClientByID(r.Context(), id)
		if err != nil {
			http.Error(w, "Client not found.", http.StatusNotFound)
			log.Println("Couldnt get client ", id, " in ", op, " with error: ", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": "success",
			"data":   client,
		})

	case http.MethodPut:
		var client models.Client
		if err := json.NewDecoder(r.Body).Decode(&client); err != nil {
			http.Error(w, "Couldnt decode json. Wrong request.", http.StatusBadRequest)
			log.Println("Couldnt decode json. Wrong request ", " in ", op)
			return
		}
		if err := ch.storage.UpdateClient(r.Context(), &client); err != nil {
			http.Error(w, "Couldnt update client.", http.StatusConflict)
			log.Println("Couldnt update client with error ", err, " in ", op)
			return
		}
		if _, err := ch.mirror.UpdateForClient(r.Context(), client.ID, backup.ActionUpdate); err != nil {
			log.Println("Couldnt patch backup for client ", client.ID, " in ", op, " with error: ", err)
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "updated",
			"message": "Client updated successfully",
		})

	case http.MethodDelete:
		if err := ch.storage.DeleteClient(r.Context(), id); err != nil {
			http.Error(w, "Couldnt delete client.", http.StatusConflict)
			log.Println("Couldnt delete client with error ", err, " in ", op)
			return
		}
		if _, err := ch.mirror.UpdateForClient(r.Context(), id, backup.ActionDelete); err != nil {
			log.Println("Couldnt patch backup for client ", id, " in ", op, " with error: ", err)
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "deleted",
			"message": "Client deleted successfully",
		})

	default:
		http.Error(w, "Method not allowed.", http.StatusMethodNotAllowed)
	}
}

func (ch *ClientHandler) handleList(w http.ResponseWriter, r *http.Request) {
	op := "internal/handlers/clients.go handleList"

	clients, err := ch.storage.GetClients(r.Context())
	if err != nil {
		http.Error(w, "Couldnt get clients.", http.StatusConflict)
		log.Println("Couldnt get clients", " in ", op)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   clients,
	})
}

func (ch *ClientHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	op := "internal/handlers/clients.go handleCreate"

	var client models.Client
	if err := json.NewDecoder(r.Body).Decode(&client); err != nil {
		http.Error(w, "Couldnt decode json. Wrong request.", http.StatusBadRequest)
		log.Println("Couldnt decode json. Wrong request ", " in ", op)
		return
	}

	if err := ch.storage.CreateClient(r.Context(), &client); err != nil {
		http.Error(w, "Couldnt create client with error", http.StatusConflict)
		log.Println("Couldnt create client with error ", err, " in ", op)
		return
	}

	if _, err := ch.mirror.UpdateForClient(r.Context(), client.ID, backup.ActionCreate); err != nil {
		log.Println("Couldnt patch backup for client ", client.ID, " in ", op, " with error: ", err)
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "created",
		"message": "Client created successfully",
		"id":      client.ID,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Println("Failed to encode response with error: ", err)
	}
}
