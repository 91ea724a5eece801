package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"schoolfit/internal/service"
)

var (
	exportOutput string
	importInput  string
	importForce  bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every user record to a JSON backup",
	RunE: func(cmd *cobra.Command, args []string) error {
		users, cfg, closeStore, err := openUsers(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()

		out := exportOutput
		if out == "" {
			out = fmt.Sprintf("schoolfit_backup_%s.json", time.Now().Format("20060102_150405"))
		}
		if dir := filepath.Dir(out); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		if err := service.NewBackupService(users, cfg.StoreBackend).Export(out); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d users to %s\n", users.Len(), out)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Replace every user record with a JSON backup",
	RunE: func(cmd *cobra.Command, args []string) error {
		if importInput == "" {
			return fmt.Errorf("--input is required")
		}
		if _, err := os.Stat(importInput); err != nil {
			return fmt.Errorf("input file: %w", err)
		}

		users, cfg, closeStore, err := openUsers(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()

		if users.Len() > 0 && !importForce {
			fmt.Fprintf(cmd.OutOrStdout(), "WARNING: this replaces %d existing users. Type 'yes' to confirm: ", users.Len())
			answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if strings.TrimSpace(answer) != "yes" {
				fmt.Fprintln(cmd.OutOrStdout(), "Import cancelled")
				return nil
			}
		}

		if err := service.NewBackupService(users, cfg.StoreBackend).Import(cmd.Context(), importInput); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d users from %s\n", users.Len(), importInput)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default schoolfit_backup_YYYYMMDD_HHMMSS.json)")
	importCmd.Flags().StringVarP(&importInput, "input", "i", "", "Backup file to import (required)")
	importCmd.Flags().BoolVar(&importForce, "force", false, "Replace existing users without asking")
	rootCmd.AddCommand(exportCmd, importCmd)
}
