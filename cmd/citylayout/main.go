package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ChicagoDave/citylayout/internal/server"
	"github.com/ChicagoDave/citylayout/pkg/store"
)

func main() {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "citylayout",
		Short: "Procedural city layout generator",
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(batchCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func generateCmd() *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a city and print its summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.seedSet = cmd.Flags().Changed("seed")
			return runGenerate(opts)
		},
	}

	f := cmd.Flags()
	f.Float64VarP(&opts.radius, "radius", "r", 5, "city radius in km")
	f.Int64Var(&opts.seed, "seed", 0, "random seed (random when omitted)")
	f.StringVarP(&opts.configPath, "config", "c", "", "YAML configuration file")
	f.StringVarP(&opts.out, "out", "o", "", "write the scene graph to this file (.json or .json.zst)")
	f.StringVar(&opts.png, "png", "", "write a PNG map to this file")
	f.IntVar(&opts.size, "size", 1024, "PNG map size in pixels")
	f.BoolVar(&opts.parallel, "parallel", false, "place buildings in each zone concurrently")
	f.StringVar(&opts.db, "db", "", "record the run in this SQLite database")
	f.BoolVar(&opts.json, "json", false, "print statistics and the validation report as JSON")
	return cmd
}

func validateCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "validate [config-file]",
		Short: "Validate a configuration file (the built-in defaults when omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runValidate(path, format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format: text or yaml")
	return cmd
}

func batchCmd() *cobra.Command {
	var opts batchOptions

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Generate sample cities over a radius range and summarise them",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runBatch(opts)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&opts.minRadius, "min-radius", 1, "smallest radius in km")
	f.Float64Var(&opts.maxRadius, "max-radius", 15, "largest radius in km")
	f.Float64Var(&opts.step, "step", 1, "radius step in km")
	f.IntVarP(&opts.samples, "samples", "n", 5, "cities generated per radius")
	f.Int64Var(&opts.seed, "seed", 1, "seed of the first city; later cities use consecutive seeds")
	f.StringVarP(&opts.configPath, "config", "c", "", "YAML configuration file")
	f.StringVar(&opts.db, "db", "citylayout.db", "SQLite database receiving every run")
	f.BoolVar(&opts.parallel, "parallel", false, "place buildings in each zone concurrently")
	return cmd
}

func serveCmd() *cobra.Command {
	var (
		opts       server.Options
		configPath string
		dbPath     string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the local HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if dbPath != "" {
				st, err := store.Open(dbPath)
				if err != nil {
					return err
				}
				defer st.Close()
				opts.Store = st
			}
			return server.New(cfg, opts, slog.Default()).Start()
		},
	}

	f := cmd.Flags()
	f.IntVarP(&opts.Port, "port", "p", 3000, "HTTP server port")
	f.Float64VarP(&opts.Radius, "radius", "r", 5, "default city radius in km")
	f.Int64Var(&opts.Seed, "seed", 1, "default random seed")
	f.BoolVar(&opts.Parallel, "parallel", false, "place buildings in each zone concurrently")
	f.StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	f.StringVar(&dbPath, "db", "", "record requested stats in this SQLite database")
	return cmd
}
