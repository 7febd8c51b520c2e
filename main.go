package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/VigneshAMPT001/kind-ui/config"
	"github.com/VigneshAMPT001/kind-ui/utils"
)

var version = "dev"

// app is the state shared by every command of one invocation.
type app struct {
	v        *viper.Viper
	cfgFile  string
	cfg      *config.Config
	logger   *utils.Logger
	progress io.Writer

	// bindings maps a command's flag names onto config keys. Only the
	// executing command's flags are bound, so sibling commands sharing a
	// key cannot shadow each other.
	bindings map[*cobra.Command]map[string]string
}

func newRootCmd() *cobra.Command {
	a := &app{
		v:        config.NewViper(),
		bindings: map[*cobra.Command]map[string]string{},
	}

	root := &cobra.Command{
		Use:   "kindmarket",
		Short: "Normalize scraped marketplace listings and report seller pricing",
		Long: `kindmarket turns per-category marketplace scrapes into deduplicated product
families with classified seller offers, and reports on third-party pricing.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.init,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "YAML config file (optional)")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	a.bind(root, "log-level", "log_level")

	root.AddCommand(a.mergeCmd())
	root.AddCommand(a.normalizeCmd())
	root.AddCommand(a.summaryCmd())
	root.AddCommand(a.runCmd())
	root.AddCommand(versionCmd())
	return root
}

// bind records that flag on cmd overrides the config key.
func (a *app) bind(cmd *cobra.Command, flag, key string) {
	if a.bindings[cmd] == nil {
		a.bindings[cmd] = map[string]string{}
	}
	a.bindings[cmd][flag] = key
}

func (a *app) init(cmd *cobra.Command, _ []string) error {
	for c := cmd; c != nil; c = c.Parent() {
		for flag, key := range a.bindings[c] {
			var f *pflag.Flag
			if c == cmd {
				f = cmd.Flags().Lookup(flag)
			} else {
				f = c.PersistentFlags().Lookup(flag)
			}
			if f == nil {
				continue
			}
			if err := a.v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("bind --%s: %w", flag, err)
			}
		}
	}

	cfg, err := config.LoadWith(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = utils.NewLoggerWithLevel(cfg.LogLevel)
	a.progress = cmd.ErrOrStderr()
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "kindmarket %s\n", version)
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
