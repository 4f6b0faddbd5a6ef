package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"likedposts/app/repositories"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	dbYes       bool
	dbBackupDir string
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Maintain the local session store",
}

var dbCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete the session store",
	Args:  cobra.NoArgs,
	RunE:  dbClean,
}

var dbBackupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Write a backup of the session store",
	Args:  cobra.NoArgs,
	RunE:  dbBackup,
}

var dbRestoreCmd = &cobra.Command{
	Use:   "restore <file>",
	Short: "Replace the session store with a backup",
	Args:  cobra.ExactArgs(1),
	RunE:  dbRestore,
}

func init() {
	RootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(dbCleanCmd, dbBackupCmd, dbRestoreCmd)

	dbCmd.PersistentFlags().BoolVarP(&dbYes, "yes", "y", false, "do not ask for confirmation")
	dbBackupCmd.Flags().StringVar(&dbBackupDir, "dir", "", "backup directory (default <db path>/../backups)")
}

func dbClean(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if !storeExists(cfg.DBPath) {
		fmt.Fprintln(out, "Database is already clean (does not exist)")
		return nil
	}
	if !askYesNo(cmd, "Are you sure you want to clean the database? This cannot be undone.") {
		fmt.Fprintln(out, "Operation cancelled")
		return nil
	}

	if _, err := repositories.Clean(cfg.DBPath); err != nil {
		return err
	}
	printSuccess(out, "Database cleaned")
	return nil
}

func dbBackup(cmd *cobra.Command, args []string) error {
	if !storeExists(cfg.DBPath) {
		return errors.New("no database exists to back up")
	}

	dir := dbBackupDir
	if dir == "" {
		dir = filepath.Join(filepath.Dir(filepath.Clean(cfg.DBPath)), "backups")
	}

	db, err := repositories.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	file, err := repositories.Backup(db, dir)
	if err != nil {
		return err
	}
	printSuccess(cmd.OutOrStdout(), "Database backed up to %s", file)
	return nil
}

func dbRestore(cmd *cobra.Command, args []string) error {
	backupFile := args[0]
	out := cmd.OutOrStdout()

	if _, err := os.Stat(backupFile); err != nil {
		return errors.Errorf("backup file does not exist: %s", backupFile)
	}

	if storeExists(cfg.DBPath) {
		if !askYesNo(cmd, "Existing database found. Do you want to replace it?") {
			fmt.Fprintln(out, "Operation cancelled")
			return nil
		}
		if _, err := repositories.Clean(cfg.DBPath); err != nil {
			return err
		}
	}

	db, err := repositories.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repositories.RestoreFile(db, backupFile); err != nil {
		return err
	}
	printSuccess(out, "Database restored from %s", backupFile)
	return nil
}

func storeExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// askYesNo reads a [y/N] answer from the command's input unless --yes was given.
func askYesNo(cmd *cobra.Command, question string) bool {
	if dbYes {
		return true
	}
	fmt.Fprint(cmd.OutOrStdout(), question+" [y/N] ")
	answer, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return false
	}
	answer = strings.TrimSpace(answer)
	return answer == "y" || answer == "Y"
}
