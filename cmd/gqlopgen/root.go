package main

import (
	"fmt"
	"net/http"
	"strings"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/llehouerou/gqlopgen"
	"github.com/llehouerou/gqlopgen/internal/config"
	"github.com/llehouerou/gqlopgen/internal/logging"
	"github.com/llehouerou/gqlopgen/types"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "gqlopgen",
		Short:         "Generate GraphQL operation documents from a schema",
		Long:          "gqlopgen introspects a GraphQL schema and writes one query, mutation or subscription document per root field, grouped into module folders.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newClassifyCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

type generateFlags struct {
	cfg               config.Config
	headers           []string
	schemaFile        string
	introspectionFile string
	snapshot          string
	verbose           bool
}

func newGenerateCmd() *cobra.Command {
	f := &generateFlags{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Introspect the schema and write operation documents",
		Long:  "Flags take precedence over the environment, which may be extended with .env and .env.local files in the working directory.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.cfg.Endpoint, "endpoint", types.DefaultEndpoint, "GraphQL endpoint to introspect ($"+config.EnvEndpoint+")")
	flags.StringVarP(&f.cfg.OutputDir, "out", "o", types.DefaultOutputDir, "output root directory ($"+config.EnvOutputDir+")")
	flags.IntVar(&f.cfg.MaxDepth, "max-depth", types.DefaultMaxDepth, "selection depth bound ($"+config.EnvMaxDepth+")")
	flags.StringVar(&f.cfg.Extension, "ext", types.DefaultExtension, "generated file extension ($"+config.EnvFileExt+")")
	flags.DurationVar(&f.cfg.Timeout, "timeout", config.DefaultTimeout, "introspection request timeout ($"+config.EnvTimeout+")")
	flags.IntVar(&f.cfg.Concurrency, "concurrency", 1, "documents built and written at once ($"+config.EnvConcurrency+")")
	flags.BoolVar(&f.cfg.Validate, "validate", false, "validate every document against the schema ($"+config.EnvValidate+")")
	flags.BoolVar(&f.cfg.SkipRequiredArgs, "skip-required-args", false, "omit nested fields with required arguments ($"+config.EnvSkipRequiredArgs+")")
	flags.StringArrayVarP(&f.headers, "header", "H", nil, `extra request header, "Name: value" (repeatable)`)
	flags.StringVar(&f.schemaFile, "schema-file", "", "read the schema from an SDL file instead of the endpoint")
	flags.StringVar(&f.introspectionFile, "introspection-file", "", "read a saved introspection response instead of the endpoint")
	flags.StringVar(&f.snapshot, "snapshot", "", "also write the schema as SDL to this file under the output root")
	flags.BoolVarP(&f.verbose, "verbose", "v", false, "enable debug logging ($"+config.EnvLogLevel+")")
	cmd.MarkFlagsMutuallyExclusive("schema-file", "introspection-file")
	return cmd
}

// applyEnv copies settings from env into every flag the user did not set.
func (f *generateFlags) applyEnv(flags *pflag.FlagSet, env config.Config) {
	unset := func(name string) bool { return !flags.Changed(name) }
	if unset("endpoint") {
		f.cfg.Endpoint = env.Endpoint
	}
	if unset("out") {
		f.cfg.OutputDir = env.OutputDir
	}
	if unset("max-depth") {
		f.cfg.MaxDepth = env.MaxDepth
	}
	if unset("ext") {
		f.cfg.Extension = env.Extension
	}
	f.cfg.Extension = strings.TrimPrefix(f.cfg.Extension, ".")
	if unset("timeout") {
		f.cfg.Timeout = env.Timeout
	}
	if unset("concurrency") {
		f.cfg.Concurrency = env.Concurrency
	}
	if unset("validate") {
		f.cfg.Validate = env.Validate
	}
	if unset("skip-required-args") {
		f.cfg.SkipRequiredArgs = env.SkipRequiredArgs
	}
	f.cfg.LogLevel = env.LogLevel
	if f.verbose {
		f.cfg.LogLevel = logrus.DebugLevel
	}
}

func runGenerate(cmd *cobra.Command, f *generateFlags) error {
	logger := logging.New(cmd.ErrOrStderr(), logrus.InfoLevel)
	f.applyEnv(cmd.Flags(), config.Load(logger))
	logger.SetLevel(f.cfg.LogLevel)

	source, err := newSource(f)
	if err != nil {
		return err
	}

	report, err := gqlopgen.Run(cmd.Context(), source,
		gqlopgen.WithOutputRoot(f.cfg.OutputDir),
		gqlopgen.WithExtension(f.cfg.Extension),
		gqlopgen.WithDepth(f.cfg.MaxDepth),
		gqlopgen.WithRequiredArgsSkipped(f.cfg.SkipRequiredArgs),
		gqlopgen.WithConcurrency(f.cfg.Concurrency),
		gqlopgen.WithValidation(f.cfg.Validate),
		gqlopgen.WithSchemaSnapshot(f.snapshot),
		gqlopgen.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	return report.Summary(cmd.OutOrStdout())
}

func newSource(f *generateFlags) (gqlopgen.SchemaSource, error) {
	switch {
	case f.schemaFile != "":
		return gqlopgen.SDLSource{Path: f.schemaFile}, nil
	case f.introspectionFile != "":
		return gqlopgen.FileSource{Path: f.introspectionFile}, nil
	}
	headers, err := parseHeaders(f.headers)
	if err != nil {
		return nil, err
	}
	return gqlopgen.NewClient(f.cfg.Endpoint, &http.Client{Timeout: f.cfg.Timeout}).WithHeaders(headers), nil
}

// parseHeaders turns "Name: value" pairs into a header map.
func parseHeaders(raw []string) (http.Header, error) {
	headers := make(http.Header, len(raw))
	for _, h := range raw {
		name, value, ok := strings.Cut(h, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid header %q, want \"Name: value\"", h)
		}
		headers.Add(name, strings.TrimSpace(value))
	}
	return headers, nil
}

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify FIELD...",
		Short: "Show the module folder each root field name is written to",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "FIELD\tMODULE")
			for _, name := range args {
				_, _ = fmt.Fprintf(w, "%s\t%s\n", name, gqlopgen.Classify(name))
			}
			return w.Flush()
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "gqlopgen %s\n", version)
		},
	}
}
