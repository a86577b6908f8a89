package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"loantrack/internal/backup"
	"loantrack/internal/config"
	"loantrack/internal/handlers"
	"loantrack/internal/reminder"
	"loantrack/internal/storage"
)

func newServeCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the CRM API server and the reminder scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.New()
			ctx := cmd.Context()

			pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
			if err != nil {
				return fmt.Errorf("unable to connect to db: %w", err)
			}
			defer pool.Close()

			if err := pool.Ping(ctx); err != nil {
				return fmt.Errorf("unable to ping db: %w", err)
			}

			log.Println("connected to db successfully")

			clientStorage := storage.NewClientStorage(pool)
			loanStorage := storage.NewLoanStorage(pool)
			followUpStorage := storage.NewFollowUpStorage(pool)
			settingsStorage := storage.NewSettingsStorage(pool)

			mirror := backup.NewService(cfg.BackupDir, backup.Store{
				Clients:   clientStorage,
				Loans:     loanStorage,
				FollowUps: followUpStorage,
			})

			mailer := reminder.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom)
			scheduler := reminder.NewScheduler(settingsStorage, followUpStorage, mailer)

			schedCtx, cancel := context.WithCancel(context.Background())
			defer cancel()
			go scheduler.Run(schedCtx)

			clientHandler := handlers.NewClientHandler(clientStorage, mirror)
			loanHandler := handlers.NewLoanHandler(loanStorage, mirror, cfg.UploadDir)
			followUpHandler := handlers.NewFollowUpHandler(followUpStorage, clientStorage, mirror)
			settingsHandler := handlers.NewSettingsHandler(settingsStorage)
			backupHandler := handlers.NewBackupHandler(mirror)

			mux := http.NewServeMux()
			mux.HandleFunc("/clients", clientHandler.HandleClients)
			mux.HandleFunc("/client", clientHandler.HandleClient)
			mux.HandleFunc("/loans", loanHandler.HandleLoans)
			mux.HandleFunc("/loan", loanHandler.HandleLoan)
			mux.HandleFunc("/loan/proof", loanHandler.HandleProofUpload)
			mux.HandleFunc("/followups", followUpHandler.HandleFollowUps)
			mux.HandleFunc("/followup", followUpHandler.HandleFollowUp)
			mux.HandleFunc("/settings", settingsHandler.HandleSettings)
			mux.HandleFunc("/backup", backupHandler.HandleCreateBackup)
			mux.HandleFunc("/backup/latest", backupHandler.HandleDownloadLatest)

			fmt.Fprintln(stdout, "listening on", cfg.ListenAddr)
			if err := http.ListenAndServe(cfg.ListenAddr, mux); err != nil {
				return fmt.Errorf("Fail Listen and Serve with error %w", err)
			}
			return nil
		},
	}
	return cmd
}
