package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/vanbang-api/internal/bootstrap"
	"github.com/noah-isme/vanbang-api/internal/ledger"
	"github.com/noah-isme/vanbang-api/internal/service"
	"github.com/noah-isme/vanbang-api/pkg/config"
	"github.com/noah-isme/vanbang-api/pkg/logger"
)

// session is what every subcommand works against.
type session struct {
	cfg      *config.Config
	logger   *zap.Logger
	ledger   *ledger.Ledger
	store    *bootstrap.Store
	transfer *service.TransferService
}

func (s *session) Close() {
	_ = s.store.Close()
	_ = s.logger.Sync()
}

// noopInvalidator stands in for the statistics cache, which only the server runs.
type noopInvalidator struct{}

func (noopInvalidator) Invalidate(context.Context) {}

func openSession(ctx context.Context) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	l, store, err := bootstrap.OpenLedger(ctx, cfg, logr)
	if err != nil {
		return nil, err
	}
	return &session{
		cfg:      cfg,
		logger:   logr,
		ledger:   l,
		store:    store,
		transfer: service.NewTransferService(l, noopInvalidator{}, logr),
	}, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "Maintain the diploma ledger",
		Long:          `Exports, imports, seeds and checks the diploma ledger configured by STORAGE_DRIVER.`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(
		newExportCmd(),
		newImportCmd(),
		newStatsCmd(),
		newSeedCmd(),
		newVerifyCmd(),
	)
	return root
}

// withSession opens the ledger for the duration of fn.
func withSession(fn func(cmd *cobra.Command, s *session) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()
		return fn(cmd, s)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
