package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/dusk-indust/usercrud/internal/config"
	"github.com/dusk-indust/usercrud/internal/userapi"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=v1.2.3".
// Binaries built with go install fall back to the module version.
var version = "dev"

func init() {
	info, _ := debug.ReadBuildInfo()
	version = resolveVersion(version, info)
}

func resolveVersion(linked string, info *debug.BuildInfo) string {
	if linked != "" && linked != "dev" {
		return linked
	}
	if info != nil && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}

// app carries the persistent flags shared by every subcommand.
type app struct {
	configPath string
	apiURL     string
	format     string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "usercrud",
		Short:         "Manage the users of a remote UserService",
		Long:          "usercrud serves a users form backed by a REST UserService and exposes the same operations on the command line and over MCP.",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return validateFormat(a.format)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default: ./usercrud.yml if present)")
	root.PersistentFlags().StringVar(&a.apiURL, "api-url", "", "UserService base URL (overrides config)")
	root.PersistentFlags().StringVar(&a.format, "format", "text", "output format: json|text")

	root.AddCommand(
		newServeCmd(a),
		newMCPCmd(a),
		newDevAPICmd(a),
		newListCmd(a),
		newCreateCmd(a),
		newUpdateCmd(a),
		newDeleteCmd(a),
		newInitCmd(),
		newVersionCmd(),
	)
	return root
}

// loadConfig resolves the config file, environment, and --api-url, in
// increasing precedence.
func (a *app) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if a.configPath != "" {
		cfg, err = config.LoadFile(a.configPath)
	} else {
		cfg, err = config.Load(".")
	}
	if err != nil {
		return nil, err
	}

	if url := strings.TrimSpace(a.apiURL); url != "" {
		cfg.APIURL = url
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// client builds the UserService client described by cfg.
func (a *app) client(cfg *config.Config) *userapi.HTTPClient {
	return userapi.NewHTTPClient(cfg.APIURL, cfg.ClientOptions()...)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version)
			return nil
		},
	}
}
