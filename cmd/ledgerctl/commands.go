package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/noah-isme/vanbang-api/internal/models"
	"github.com/noah-isme/vanbang-api/internal/service"
)

var errIntegrity = errors.New("ledger has dangling references")

func newExportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every collection as one JSON document",
		RunE: withSession(func(cmd *cobra.Command, s *session) error {
			snapshot := s.transfer.Export(cmd.Context())
			if out == "" || out == "-" {
				return writeJSON(cmd.OutOrStdout(), snapshot)
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			defer f.Close() //nolint:errcheck
			if err := writeJSON(f, snapshot); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d books, %d diplomas to %s\n",
				len(snapshot.DiplomaBooks), len(snapshot.DiplomaInformations), out)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func newImportCmd() *cobra.Command {
	var in string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace every collection from a JSON document",
		RunE: withSession(func(cmd *cobra.Command, s *session) error {
			var r io.Reader = cmd.InOrStdin()
			if in != "" && in != "-" {
				f, err := os.Open(in)
				if err != nil {
					return fmt.Errorf("open %s: %w", in, err)
				}
				defer f.Close() //nolint:errcheck
				r = f
			}
			var snapshot models.Snapshot
			if err := json.NewDecoder(r).Decode(&snapshot); err != nil {
				return fmt.Errorf("decode ledger document: %w", err)
			}
			summary, err := s.transfer.Import(cmd.Context(), snapshot)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), summary)
		}),
	}
	cmd.Flags().StringVarP(&in, "in", "i", "", "input file (default stdin)")
	return cmd
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print ledger statistics",
		RunE: withSession(func(cmd *cobra.Command, s *session) error {
			return writeJSON(cmd.OutOrStdout(), s.ledger.Statistics())
		}),
	}
}

func newSeedCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a YAML seed file into an empty ledger",
		RunE: withSession(func(cmd *cobra.Command, s *session) error {
			path := file
			if path == "" {
				path = s.cfg.Ledger.SeedFile
			}
			if path == "" {
				return errors.New("no seed file given (--file or SEED_FILE)")
			}
			seed, err := service.LoadSeedFile(path)
			if err != nil {
				return err
			}
			result, err := service.NewSeedService(s.ledger, noopInvalidator{}, s.logger).Apply(cmd.Context(), seed)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		}),
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "seed file (default SEED_FILE)")
	return cmd
}

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Report dangling references between collections",
		RunE: withSession(func(cmd *cobra.Command, s *session) error {
			report := s.transfer.Verify(cmd.Context())
			if err := writeJSON(cmd.OutOrStdout(), report); err != nil {
				return err
			}
			if !report.OK() {
				return fmt.Errorf("%w: %d issue(s)", errIntegrity, len(report.Issues))
			}
			return nil
		}),
	}
}
