package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/locmatch/internal/config"
	"github.com/locmatch/internal/engine"
	"github.com/locmatch/internal/fileio"
	"github.com/locmatch/internal/web"
)

const version = "1.0.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "locmatch",
		Short: "Fuzzy record linkage between two location datasets",
		Long: `Links records of a target dataset to a reference dataset using
postal-code and coordinate blocking with fuzzy name/address scoring.`,
	}

	rootCmd.AddCommand(createMatchCmd())
	rootCmd.AddCommand(createServeCmd())
	rootCmd.AddCommand(createVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// createMatchCmd builds the one-shot file-to-file matching command.
func createMatchCmd() *cobra.Command {
	var (
		refPath string
		tgtPath string
		outPath string
		params  engine.Params
		dbURL   string
	)

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Match a target file against a reference file and write the result CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			config.SetupLogger(cfg)

			ref, err := fileio.ReadFile(refPath, "reference")
			if err != nil {
				return err
			}
			tgt, err := fileio.ReadFile(tgtPath, "target")
			if err != nil {
				return err
			}

			m, err := engine.New(ref, tgt, params.Options())
			if err != nil {
				return err
			}
			res, err := m.Match()
			if err != nil {
				return err
			}

			if dbURL == "" {
				dbURL = cfg.ResultStoreDSN
			}
			if dbURL != "" {
				store, err := engine.OpenStore(dbURL)
				if err != nil {
					return err
				}
				defer store.Close()
				if err := store.EnsureSchema(); err != nil {
					return err
				}
				if err := store.SaveRun(res); err != nil {
					return err
				}
			}

			if err := fileio.WriteCSV(res.Output, outPath); err != nil {
				return err
			}
			log.Info().Str("output", outPath).Int("rows", res.Output.Len()).Msg("result written")

			fmt.Printf("Matched %d of %d target rows (%d lat-long, %d address-zip) in %s\n",
				res.Stats.Matched, res.Stats.TargetRows, res.Stats.LatLong, res.Stats.AddressZip, res.Stats.Elapsed)
			return nil
		},
	}

	cmd.Flags().StringVar(&refPath, "reference", "", "reference dataset file (.csv/.xlsx/.xls)")
	cmd.Flags().StringVar(&tgtPath, "target", "", "target dataset file (.csv/.xlsx/.xls)")
	cmd.Flags().StringVar(&outPath, "output", "matched.csv", "output CSV path")
	cmd.MarkFlagRequired("reference")
	cmd.MarkFlagRequired("target")

	cmd.Flags().StringVar(&params.IDCol1, "id-col1", "CUSTOMER_ID", "reference identifier column")
	cmd.Flags().StringVar(&params.ZipCol1, "zip-col1", "POSTAL_CODE", "reference postal code column")
	cmd.Flags().StringVar(&params.ZipCol2, "zip-col2", "", "target postal code column (defaults to zip-col1)")
	cmd.Flags().StringVar(&params.NameCol1, "name-col1", "CUSTOMER_DESC", "reference name column")
	cmd.Flags().StringVar(&params.NameCol2, "name-col2", "", "target name column (defaults to name-col1)")
	cmd.Flags().StringVar(&params.AddressCol1, "address-col1", "", "reference address column (enables the address-zip stage)")
	cmd.Flags().StringVar(&params.AddressCol2, "address-col2", "", "target address column (defaults to address-col1)")
	cmd.Flags().StringVar(&params.LatCol1, "lat-col1", "", "reference latitude column (enables the lat-long stage)")
	cmd.Flags().StringVar(&params.LongCol1, "long-col1", "", "reference longitude column")
	cmd.Flags().StringVar(&params.LatCol2, "lat-col2", "", "target latitude column (defaults to lat-col1)")
	cmd.Flags().StringVar(&params.LongCol2, "long-col2", "", "target longitude column (defaults to long-col1)")
	cmd.Flags().IntVar(&params.Threshold, "threshold", 0, "override both stage thresholds (default: 80 name, 85 address)")
	cmd.Flags().IntVar(&params.LatLongTolerance, "lat-long-tolerance", engine.DefaultLatLongTolerance,
		"coordinate rounding precision in decimal places")
	cmd.Flags().BoolVar(&params.KeepAll, "keep-all", false, "keep unmatched target rows in the output")
	cmd.Flags().StringVar(&dbURL, "db-url", "", "Postgres DSN to persist the run (optional)")

	return cmd
}

// createServeCmd builds the HTTP server command.
func createServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the matching HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger := config.SetupLogger(cfg)

			srv, err := web.NewServer(cfg, logger)
			if err != nil {
				return err
			}
			return srv.Run()
		},
	}
}

func createVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("locmatch v%s\n", version)
		},
	}
}
