package backup

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"sync"

	"github.com/xuri/excelize/v2"
	"loantrack/internal/clock"
	"loantrack/internal/faults"
	"loantrack/internal/models"
)

// Action is what happened to the source record.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

var backupNameRe = regexp.MustCompile(`^backup_\d{4}-\d{2}-\d{2}_\d{2}-\d{2}-\d{2}\.xlsx$`)

// ClientSource, LoanSource and FollowUpSource are the slices of the
// storage layer the mirror reads. The pgx storages satisfy them; tests
// use fakes.
type ClientSource interface {
	GetClients(ctx context.Context) ([]models.Client, error)
	GetClientByID(ctx context.Context, id int) (models.Client, error)
}

type LoanSource interface {
	GetLoans(ctx context.Context) ([]models.Loan, error)
	GetLoanByID(ctx context.Context, id int) (models.Loan, error)
}

type FollowUpSource interface {
	GetFollowUps(ctx context.Context) ([]models.FollowUp, error)
	GetFollowUpByID(ctx context.Context, id int) (models.FollowUp, error)
}

type Store struct {
	Clients   ClientSource
	Loans     LoanSource
	FollowUps FollowUpSource
}

// Service mirrors the clients, loans and follow_ups tables into one
// workbook file under dir. The tables stay the source of truth; the
// workbook is rebuilt or patched from fresh reads, never the other
// way around.
type Service struct {
	dir   string
	store Store

	// Serializes all workbook writers. Two overlapping patches would
	// otherwise read the same snapshot and the last save would win.
	mu sync.Mutex
}

func NewService(dir string, store Store) *Service {
	return &Service{
		dir:   dir,
		store: store,
	}
}

// CreateFullBackup writes a brand-new timestamped workbook from the
// current table contents and returns its path. Errors propagate; a
// partial temp file may be left behind and is swept on the next run.
func (s *Service) CreateFullBackup(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rebuildLocked(ctx)
}

// LatestBackup returns the path of the most recent backup workbook,
// or "" when there is none. The timestamp in the name is zero-padded,
// so the lexically greatest name is the newest.
func (s *Service) LatestBackup() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latestLocked()
}

func (s *Service) latestLocked() string {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return ""
	}

	latest := ""
	for _, entry := range entries {
		name := entry.Name()
		if !backupNameRe.MatchString(name) {
			continue
		}
		if name > latest {
			latest = name
		}
	}

	if latest == "" {
		return ""
	}
	return filepath.Join(s.dir, latest)
}

// UpdateForClient patches the latest workbook after a client mutation.
func (s *Service) UpdateForClient(ctx context.Context, id int, action Action) (string, error) {
	return s.patch(ctx, clientSheet, id, action, func(ctx context.Context) (map[string]string, error) {
		client, err := s.store.Clients.GetClientByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return clientRow(client), nil
	})
}

// UpdateForLoan patches the latest workbook after a loan mutation.
// The owning client id rides along for logging; the fetched loan row
// already carries the client's display name.
func (s *Service) UpdateForLoan(ctx context.Context, id, clientID int, action Action) (string, error) {
	return s.patch(ctx, loanSheet, id, action, func(ctx context.Context) (map[string]string, error) {
		loan, err := s.store.Loans.GetLoanByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return loanRow(loan), nil
	})
}

// UpdateForFollowUp patches the latest workbook after a follow-up mutation.
func (s *Service) UpdateForFollowUp(ctx context.Context, id, clientID int, action Action) (string, error) {
	return s.patch(ctx, followUpSheet, id, action, func(ctx context.Context) (map[string]string, error) {
		followUp, err := s.store.FollowUps.GetFollowUpByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return followUpRow(followUp), nil
	})
}

// patch applies one record change to the latest workbook in place.
// No workbook yet -> full rebuild. Any failure on the patch path also
// falls back to a full rebuild so the file never stays in a
// half-written state.
func (s *Service) patch(ctx context.Context, sheet SheetSchema, id int, action Action, fetch func(ctx context.Context) (map[string]string, error)) (string, error) {
	op := "internal/backup/service.go patch"

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.latestLocked()
	if path == "" {
		return s.rebuildLocked(ctx)
	}

	var fields map[string]string
	if action != ActionDelete {
		var err error
		fields, err = fetch(ctx)
		if faults.KindOf(err) == faults.NotFound {
			// Record already gone, nothing to mirror.
			return path, nil
		}
		if err != nil {
			log.Printf("%s: fetch for %s sheet failed, rebuilding: %v", op, sheet.Name, err)
			return s.rebuildLocked(ctx)
		}
	}

	if err := s.patchFile(path, sheet, id, action, fields); err != nil {
		log.Printf("%s: patch of %s failed, rebuilding: %v", op, path, err)
		return s.rebuildLocked(ctx)
	}

	return path, nil
}

func (s *Service) patchFile(path string, sheet SheetSchema, id int, action Action, fields map[string]string) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return faults.Wrap(faults.IOFailure, "open workbook %s: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet.Name)
	if err != nil {
		return faults.Wrap(faults.IOFailure, "read sheet %s: %w", sheet.Name, err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("sheet %s has no header row", sheet.Name)
	}

	headerCol := make(map[string]int) // header name -> 1-based column
	for i, header := range rows[0] {
		headerCol[header] = i + 1
	}

	idCol, ok := headerCol["ID"]
	if !ok {
		return fmt.Errorf("sheet %s has no ID column", sheet.Name)
	}

	rowNum := findRow(rows, idCol, id)

	switch action {
	case ActionDelete:
		if rowNum == 0 {
			// Nothing to delete, leave the file untouched.
			return nil
		}
		if err := f.RemoveRow(sheet.Name, rowNum); err != nil {
			return faults.Wrap(faults.IOFailure, "remove row %d from %s: %w", rowNum, sheet.Name, err)
		}

	default:
		if rowNum == 0 {
			// New row at the bottom, values in schema column order.
			rowNum = len(rows) + 1
			cell, err := excelize.CoordinatesToCellName(1, rowNum)
			if err != nil {
				return err
			}
			values := sheet.RowValues(fields)
			if err := f.SetSheetRow(sheet.Name, cell, &values); err != nil {
				return faults.Wrap(faults.IOFailure, "append row to %s: %w", sheet.Name, err)
			}
		} else {
			// Overwrite each mapped cell in place.
			for _, col := range sheet.Columns {
				colNum, ok := headerCol[col.Header]
				if !ok {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(colNum, rowNum)
				if err != nil {
					return err
				}
				if err := f.SetCellStr(sheet.Name, cell, fields[col.DBField]); err != nil {
					return faults.Wrap(faults.IOFailure, "set cell %s on %s: %w", cell, sheet.Name, err)
				}
			}
		}
	}

	return s.saveAtomic(f, path)
}

// findRow returns the 1-based row whose ID cell matches id, 0 if none.
func findRow(rows [][]string, idCol, id int) int {
	want := strconv.Itoa(id)
	for i := 1; i < len(rows); i++ {
		if idCol-1 < len(rows[i]) && rows[i][idCol-1] == want {
			return i + 1
		}
	}
	return 0
}

func (s *Service) rebuildLocked(ctx context.Context) (string, error) {
	op := "internal/backup/service.go rebuildLocked"

	s.sweepLockFiles()

	clients, err := s.store.Clients.GetClients(ctx)
	if err != nil {
		return "", fmt.Errorf("Failure to read clients in %s: %w", op, err)
	}
	loans, err := s.store.Loans.GetLoans(ctx)
	if err != nil {
		return "", fmt.Errorf("Failure to read loans in %s: %w", op, err)
	}
	followUps, err := s.store.FollowUps.GetFollowUps(ctx)
	if err != nil {
		return "", fmt.Errorf("Failure to read follow-ups in %s: %w", op, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	clientRows := make([]map[string]string, len(clients))
	for i, client := range clients {
		clientRows[i] = clientRow(client)
	}
	loanRows := make([]map[string]string, len(loans))
	for i, loan := range loans {
		loanRows[i] = loanRow(loan)
	}
	followUpRows := make([]map[string]string, len(followUps))
	for i, followUp := range followUps {
		followUpRows[i] = followUpRow(followUp)
	}

	if err := writeSheet(f, clientSheet, clientRows); err != nil {
		return "", err
	}
	if err := writeSheet(f, loanSheet, loanRows); err != nil {
		return "", err
	}
	if err := writeSheet(f, followUpSheet, followUpRows); err != nil {
		return "", err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", faults.Wrap(faults.IOFailure, "create backup dir %s: %w", s.dir, err)
	}

	name := "backup_" + clock.Now().Format("2006-01-02_15-04-05") + ".xlsx"
	path := filepath.Join(s.dir, name)

	if err := s.saveAtomic(f, path); err != nil {
		return "", err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return path, nil
	}
	return abs, nil
}

func writeSheet(f *excelize.File, sheet SheetSchema, rows []map[string]string) error {
	if _, err := f.NewSheet(sheet.Name); err != nil {
		return err
	}

	headers := sheet.Headers()
	if err := f.SetSheetRow(sheet.Name, "A1", &headers); err != nil {
		return err
	}

	styleID, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4167B8"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	lastCol, err := excelize.ColumnNumberToName(len(sheet.Columns))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet.Name, "A1", lastCol+"1", styleID); err != nil {
		return err
	}
	if err := f.AutoFilter(sheet.Name, "A1:"+lastCol+"1", nil); err != nil {
		return err
	}

	for i, fields := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := sheet.RowValues(fields)
		if err := f.SetSheetRow(sheet.Name, cell, &values); err != nil {
			return err
		}
	}

	return nil
}

// saveAtomic writes the workbook next to its destination and renames
// over it. The tilde prefix keeps half-written files out of the
// latest-backup scan and lets sweepLockFiles collect strays.
func (s *Service) saveAtomic(f *excelize.File, path string) error {
	tmp := filepath.Join(filepath.Dir(path), "~"+filepath.Base(path))
	if err := f.SaveAs(tmp); err != nil {
		return faults.Wrap(faults.IOFailure, "save workbook %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return faults.Wrap(faults.IOFailure, "rename %s to %s: %w", tmp, path, err)
	}
	return nil
}

// sweepLockFiles deletes leftover ~*.xlsx temp/lock files in the
// backup directory.
func (s *Service) sweepLockFiles() {
	matches, err := filepath.Glob(filepath.Join(s.dir, "~*.xlsx"))
	if err != nil {
		return
	}
	for _, match := range matches {
		if err := os.Remove(match); err != nil {
			log.Println("Couldnt remove stale lock file ", match, " with error: ", err)
		}
	}
}
