package cli

import (
	"fmt"
	"io"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"loantrack/internal/backup"
	"loantrack/internal/config"
	"loantrack/internal/storage"
)

func newBackupCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Write a full backup workbook and print its path",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.New()
			ctx := cmd.Context()

			pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
			if err != nil {
				return fmt.Errorf("unable to connect to db: %w", err)
			}
			defer pool.Close()

			mirror := backup.NewService(cfg.BackupDir, backup.Store{
				Clients:   storage.NewClientStorage(pool),
				Loans:     storage.NewLoanStorage(pool),
				FollowUps: storage.NewFollowUpStorage(pool),
			})

			path, err := mirror.CreateFullBackup(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintln(stdout, path)
			return nil
		},
	}
	return cmd
}
