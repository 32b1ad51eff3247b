package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/sinew/internal/cli"
	"github.com/aretw0/sinew/pkg/curves"
	"github.com/spf13/cobra"
)

// storeFlags selects where curve documents are kept when --name is used.
type storeFlags struct {
	cfg  cli.StoreConfig
	name string
}

// closeStore releases a store; a failed close is logged, not returned, since
// the command's own result has already been decided.
func closeStore(logger *slog.Logger, closer func() error) {
	if err := closer(); err != nil {
		logger.Warn("store close failed", "err", err)
	}
}

func (f *storeFlags) register(cmd *cobra.Command) {
	fl := cmd.PersistentFlags()
	fl.StringVar(&f.cfg.Kind, "store", "file", "Curve document store (file, redis)")
	fl.StringVar(&f.cfg.Dir, "store-dir", ".sinew/curves", "Directory of the file store")
	fl.StringVar(&f.cfg.RedisAddr, "redis-addr", "localhost:6379", "Redis address")
	fl.StringVar(&f.cfg.RedisPassword, "redis-password", "", "Redis password")
	fl.IntVar(&f.cfg.RedisDB, "redis-db", 0, "Redis database")
	fl.StringVar(&f.cfg.RedisPrefix, "redis-prefix", "", "Redis key prefix")
	fl.DurationVar(&f.cfg.RedisTTL, "redis-ttl", 0, "Expiry of stored documents (0 keeps them)")
	fl.StringVar(&f.name, "name", "", "Document name in the store")
}

func newCurvesCmd(g *globalOptions) *cobra.Command {
	sf := &storeFlags{}
	cmd := &cobra.Command{
		Use:   "curves",
		Short: "Export and import curve control points",
	}
	sf.register(cmd)
	cmd.AddCommand(newCurvesExportCmd(g, sf), newCurvesImportCmd(g, sf))
	return cmd
}

func newCurvesExportCmd(g *globalOptions, sf *storeFlags) *cobra.Command {
	var (
		objects []string
		out     string
	)
	cmd := &cobra.Command{
		Use:   "export <scene>",
		Short: "Export the curves of a scene",
		Long: `Reads the control points and display color of the scene's curve objects
(all of them, or those named with --object) into a JSON document. The
document goes to --out, to the store under --name, or to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadScene(args[0])
			if err != nil {
				return err
			}
			logger, err := cli.NewLogger(cmd.ErrOrStderr(), g.cliOptions())
			if err != nil {
				return err
			}
			host, err := s.Host()
			if err != nil {
				return err
			}
			if len(objects) == 0 {
				objects = host.Paths()
			}

			doc, exportErr := curves.Export(cmd.Context(), host, objects)
			var batch *curves.BatchError
			if exportErr != nil && !errors.As(exportErr, &batch) {
				return exportErr
			}

			switch {
			case out != "":
				if err := curves.WriteFile(out, doc); err != nil {
					return err
				}
				logger.Info("curves exported", "objects", len(doc), "file", out)
			case sf.name != "":
				store, closer, err := cli.OpenStore(sf.cfg, logger)
				if err != nil {
					return err
				}
				defer closeStore(logger, closer)
				if err := store.Save(cmd.Context(), sf.name, doc); err != nil {
					return err
				}
				logger.Info("curves exported", "objects", len(doc), "store", sf.cfg.Kind, "name", sf.name)
			default:
				if err := curves.Encode(cmd.OutOrStdout(), doc); err != nil {
					return err
				}
			}
			return exportErr
		},
	}
	cmd.Flags().StringArrayVar(&objects, "object", nil, "Curve object path to export (repeatable)")
	cmd.Flags().StringVar(&out, "out", "", "Write the document to this file")
	return cmd
}

func newCurvesImportCmd(g *globalOptions, sf *storeFlags) *cobra.Command {
	var in string
	cmd := &cobra.Command{
		Use:   "import <scene>",
		Short: "Apply a curve document to a scene",
		Long: `Writes the control points and color of every record in a document (from
--in, or from the store under --name) back into the scene's curve objects,
then prints the resulting curves. Objects that are missing or whose point
count differs are reported; the others are still applied.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (in == "") == (sf.name == "") {
				return fmt.Errorf("exactly one of --in or --name is required")
			}
			s, err := loadScene(args[0])
			if err != nil {
				return err
			}
			logger, err := cli.NewLogger(cmd.ErrOrStderr(), g.cliOptions())
			if err != nil {
				return err
			}

			var doc curves.Document
			if in != "" {
				doc, err = curves.ReadFile(in)
			} else {
				store, closer, openErr := cli.OpenStore(sf.cfg, logger)
				if openErr != nil {
					return openErr
				}
				defer closeStore(logger, closer)
				doc, err = store.Load(cmd.Context(), sf.name)
			}
			if err != nil {
				return err
			}

			host, err := s.Host()
			if err != nil {
				return err
			}
			report := curves.Import(cmd.Context(), host, doc)
			for _, f := range report.Failed {
				logger.Warn("curve not imported", "object", f.Path, "err", f.Err)
			}

			result, err := curves.Export(cmd.Context(), host, host.Paths())
			if err != nil {
				return err
			}
			if err := curves.Encode(cmd.OutOrStdout(), result); err != nil {
				return err
			}
			return report.Err()
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "Read the document from this file")
	return cmd
}
