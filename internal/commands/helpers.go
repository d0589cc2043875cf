package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/posbook-dev/posbook/internal/audit"
	"github.com/posbook-dev/posbook/internal/config"
	"github.com/posbook-dev/posbook/internal/ledger"
	"github.com/posbook-dev/posbook/internal/logging"
	"github.com/posbook-dev/posbook/internal/store"
)

// configFile is the project configuration filename.
const configFile = "posbook.yaml"

func projectDir(cmd *cobra.Command) (string, error) {
	dir, err := cmd.Flags().GetString("dir")
	if err != nil {
		return "", err
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	return absDir, nil
}

// openLedger loads the project config and wires the store, audit trail,
// and engine.
func openLedger(cmd *cobra.Command) (*ledger.Engine, *config.Config, error) {
	dir, err := projectDir(cmd)
	if err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load(filepath.Join(dir, configFile))
	if err != nil {
		return nil, nil, err
	}

	log := logging.New(cfg.Log.Level)
	st := store.New(cfg.Storage.Path)
	trail := audit.New(dir)
	return ledger.New(st, log, trail), cfg, nil
}
