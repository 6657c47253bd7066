// Command featurectl is a demo CLI over the selection and expansion
// engine: load a toolchain description, select a feature set, and inspect
// what it resolves to for a given action. Grounded on the cobra
// root-command-plus-subcommand-factory idiom used elsewhere in the pack for
// multi-mode CLIs (a single-mode internal tool would instead reach for
// flag.FlagSet, as the teacher's own CLI does).
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/buildtool/ccfeatures/internal/ctxlog"
	"github.com/buildtool/ccfeatures/internal/featureconfig"
	"github.com/buildtool/ccfeatures/internal/hcltoolchain"
	"github.com/buildtool/ccfeatures/internal/toolchain"
	"github.com/buildtool/ccfeatures/internal/variables"
	"github.com/buildtool/ccfeatures/internal/yamltoolchain"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "featurectl",
		Short: "Inspect a toolchain feature configuration",
		Long:  "featurectl loads a toolchain feature description and answers selection and expansion queries against it.",
	}

	rootCmd.PersistentFlags().String("toolchain", "", "path to a toolchain description file or directory (.hcl or .yaml)")
	rootCmd.PersistentFlags().String("tool-root", "/usr/bin", "root directory tool paths are resolved relative to")
	rootCmd.PersistentFlags().StringSlice("enable", nil, "feature or action-config name to request, may be repeated")
	_ = rootCmd.MarkPersistentFlagRequired("toolchain")

	rootCmd.AddCommand(newSelectCommand())
	rootCmd.AddCommand(newExpandCmdlineCommand())
	rootCmd.AddCommand(newExpandEnvCommand())
	rootCmd.AddCommand(newToolCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var requestID = uuid.NewString()

// requestContext stamps ctx with a per-invocation request ID, the way a
// long-running service would tag a single unit of work for correlated
// logging.
func requestContext() context.Context {
	logger := slog.Default().With("request_id", requestID)
	return ctxlog.WithLogger(context.Background(), logger)
}

func loadRecord(cmd *cobra.Command) (toolchain.ConfigurationRecord, error) {
	ctx := requestContext()
	path, err := cmd.Flags().GetString("toolchain")
	if err != nil || path == "" {
		return toolchain.ConfigurationRecord{}, fmt.Errorf("--toolchain is required")
	}

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		return yamltoolchain.Decode(ctx, path)
	}
	return hcltoolchain.Decode(ctx, path)
}

func buildEngine(cmd *cobra.Command) (*featureconfig.Engine, error) {
	record, err := loadRecord(cmd)
	if err != nil {
		return nil, err
	}
	toolRoot, err := cmd.Flags().GetString("tool-root")
	if err != nil {
		return nil, err
	}
	return featureconfig.Build(record, toolRoot)
}

func requestedNames(cmd *cobra.Command) ([]string, error) {
	return cmd.Flags().GetStringSlice("enable")
}

func newSelectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "select",
		Short: "Resolve the requested feature set and print which requested or default names are enabled (implied ones are not listed)",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := buildEngine(cmd)
			if err != nil {
				return err
			}
			requested, err := requestedNames(cmd)
			if err != nil {
				return err
			}

			fc, err := engine.Select(requestContext(), requested)
			if err != nil {
				return err
			}

			for _, name := range append(requested, engine.Defaults()...) {
				if fc.IsEnabled(name) {
					fmt.Println(name)
				}
			}
			return nil
		},
	}
}

func newExpandCmdlineCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expand-cmdline <action>",
		Short: "Print the command-line arguments resolved for an action",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := buildEngine(cmd)
			if err != nil {
				return err
			}
			requested, err := requestedNames(cmd)
			if err != nil {
				return err
			}

			fc, err := engine.Select(requestContext(), requested)
			if err != nil {
				return err
			}

			flags, err := fc.CommandLine(args[0], variables.Empty(), nil)
			if err != nil {
				return err
			}
			for _, f := range flags {
				fmt.Println(f)
			}
			return nil
		},
	}
	return cmd
}

func newExpandEnvCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "expand-env <action>",
		Short: "Print the environment resolved for an action",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := buildEngine(cmd)
			if err != nil {
				return err
			}
			requested, err := requestedNames(cmd)
			if err != nil {
				return err
			}

			fc, err := engine.Select(requestContext(), requested)
			if err != nil {
				return err
			}

			pairs, err := fc.Environment(args[0], variables.Empty())
			if err != nil {
				return err
			}
			for _, p := range pairs {
				fmt.Printf("%s=%s\n", p.Key, p.Value)
			}
			return nil
		},
	}
}

func newToolCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tool <action>",
		Short: "Print the tool path resolved for an action",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := buildEngine(cmd)
			if err != nil {
				return err
			}
			requested, err := requestedNames(cmd)
			if err != nil {
				return err
			}

			fc, err := engine.Select(requestContext(), requested)
			if err != nil {
				return err
			}

			tool, err := fc.ToolForAction(args[0])
			if err != nil {
				return err
			}
			fmt.Println(tool.Path())
			return nil
		},
	}
}
