package handlers

import (
	"encoding/json"
	"io"
	"loantrack/internal/backup"
	"loantrack/internal/models"
	"loantrack/internal/storage"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
)

type LoanHandler struct {
	storage   *storage.LoanStorage
	mirror    *backup.Service
	uploadDir string
}

func NewLoanHandler(s *storage.LoanStorage, mirror *backup.Service, uploadDir string) *LoanHandler {
	return &LoanHandler{storage: s, mirror: mirror, uploadDir: uploadDir}
}

// /loans: GET lists loans (optionally ?client_id=N), POST creates one.
func (lh *LoanHandler) HandleLoans(w http.ResponseWriter, r *http.Request) {
	op := "internal/handlers/loans.go HandleLoans"

	switch r.Method {
	case http.MethodGet:
		var loans []models.Loan
		var err error

		if clientIDStr := r.URL.Query().Get("client_id"); clientIDStr != "" {
			clientID, convErr := strconv.Atoi(clientIDStr)
			if convErr != nil {
				http.Error(w, "Bad client_id.", http.StatusBadRequest)
				return
			}
			loans, err = lh.storage.GetLoansByClient(r.Context(), clientID)
		} else {
			loans, err = lh.storage.GetLoans(r.Context())
		}

		if err != nil {
			http.Error(w, "Couldnt get loans.", http.StatusConflict)
			log.Println("Couldnt get loans", " in ", op)
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": "success",
			"data":   loans,
		})

	case http.MethodPost:
		var loan models.Loan
		if err := json.NewDecoder(r.Body).Decode(&loan); err != nil {
			http.Error(w, "Couldnt decode json. Wrong request.", http.StatusBadRequest)
			log.Println("Couldnt decode json. Wrong request ", " in ", op)
			return
		}

		if err := lh.storage.CreateLoan(r.Context(), &loan); err != nil {
			http.Error(w, "Couldnt create loan with error", http.StatusConflict)
			log.Println("Couldnt create loan with error ", err, " in ", op)
			return
		}

		if _, err := lh.mirror.UpdateForLoan(r.Context(), loan.ID, loan.ClientID, backup.ActionCreate); err != nil {
			log.Println("Couldnt patch backup for loan ", loan.ID, " in ", op, " with error: ", err)
		}

		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"status":  "created",
			"message": "Loan created successfully",
			"id":      loan.ID,
		})

	default:
		http.Error(w, "Method not allowed.", http.StatusMethodNotAllowed)
	}
}

// /loan?id=N: PUT updates, DELETE removes.
func (lh *LoanHandler) HandleLoan(w http.ResponseWriter, r *http.Request) {
	op := "internal/handlers/loans.go HandleLoan"

	switch r.Method {
	case http.MethodPut:
		var loan models.Loan
		if err := json.NewDecoder(r.Body).Decode(&loan); err != nil {
			http.Error(w, "Couldnt decode json. Wrong request.", http.StatusBadRequest)
			log.Println("Couldnt decode json. Wrong request ", " in ", op)
			return
		}
		if err := lh.storage.UpdateLoan(r.Context(), &loan); err != nil {
			http.Error(w, "Couldnt update loan.", http.StatusConflict)
			log.Println("Couldnt update loan with error ", err, " in ", op)
			return
		}
		if _, err := lh.mirror.UpdateForLoan(r.Context(), loan.ID, loan.ClientID, backup.ActionUpdate); err != nil {
			log.Println("Couldnt patch backup for loan ", loan.ID, " in ", op, " with error: ", err)
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "updated",
			"message": "Loan updated successfully",
		})

	case http.MethodDelete:
		id, err := strconv.Atoi(r.URL.Query().Get("id"))
		if err != nil {
			http.Error(w, "Missing or bad id.", http.StatusBadRequest)
			return
		}
		loan, err := lh.storage.GetLoanByID(r.Context(), id)
		if err != nil {
			http.Error(w, "Loan not found.", http.StatusNotFound)
			log.Println("Couldnt get loan ", id, " in ", op, " with error: ", err)
			return
		}
		if err := lh.storage.DeleteLoan(r.Context(), id); err != nil {
			http.Error(w, "Couldnt delete loan.", http.StatusConflict)
			log.Println("Couldnt delete loan with error ", err, " in ", op)
			return
		}
		if _, err := lh.mirror.UpdateForLoan(r.Context(), id, loan.ClientID, backup.ActionDelete); err != nil {
			log.Println("Couldnt patch backup for loan ", id, " in ", op, " with error: ", err)
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "deleted",
			"message": "Loan deleted successfully",
		})

	default:
		http.Error(w, "Method not allowed.", http.StatusMethodNotAllowed)
	}
}

// /loan/proof: POST multipart upload of the disbursement proof file.
// The stored name gets a uuid prefix so two clients can upload files
// with the same original name.
func (lh *LoanHandler) HandleProofUpload(w http.ResponseWriter, r *http.Request) {
	op := "internal/handlers/loans.go HandleProofUpload"

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed.", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "Bad multipart form.", http.StatusBadRequest)
		log.Println("Couldnt parse multipart form in ", op, " with error: ", err)
		return
	}

	loanID, err := strconv.Atoi(r.FormValue("loan_id"))
	if err != nil {
		http.Error(w, "Missing or bad loan_id.", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("proof")
	if err != nil {
		http.Error(w, "Missing proof file.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	loan, err := lh.storage.GetLoanByID(r.Context(), loanID)
	if err != nil {
		http.Error(w, "Loan not found.", http.StatusNotFound)
		log.Println("Couldnt get loan ", loanID, " in ", op, " with error: ", err)
		return
	}

	if err := os.MkdirAll(lh.uploadDir, 0755); err != nil {
		http.Error(w, "Couldnt store file.", http.StatusInternalServerError)
		log.Println("Couldnt create upload dir in ", op, " with error: ", err)
		return
	}

	storedName := uuid.NewString() + "_" + filepath.Base(header.Filename)
	storedPath := filepath.Join(lh.uploadDir, storedName)

	dst, err := os.Create(storedPath)
	if err != nil {
		http.Error(w, "Couldnt store file.", http.StatusInternalServerError)
		log.Println("Couldnt create file in ", op, " with error: ", err)
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		http.Error(w, "Couldnt store file.", http.StatusInternalServerError)
		log.Println("Couldnt write file in ", op, " with error: ", err)
		return
	}

	loan.ProofFilePath = storedPath
	loan.ProofFileName = header.Filename

	if err := lh.storage.UpdateLoan(r.Context(), &loan); err != nil {
		http.Error(w, "Couldnt update loan.", http.StatusConflict)
		log.Println("Couldnt update loan with error ", err, " in ", op)
		return
	}

	if _, err := lh.mirror.UpdateForLoan(r.Context(), loan.ID, loan.ClientID, backup.ActionUpdate); err != nil {
		log.Println("Couldnt patch backup for loan ", loan.ID, " in ", op, " with error: ", err)
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "uploaded",
		"file_name": header.Filename,
	})
}
