package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"repofind/internal/config"
	"repofind/internal/finder"
	"repofind/internal/logging"
	"repofind/internal/terminal"
	"repofind/internal/ui"
	"repofind/internal/ui/input"
	"repofind/internal/ui/views"
)

// Root command flags
var (
	configPath   string
	manifestPath string
	stdinMode    bool
	watchMode    bool
	rankedMode   bool
	logLevel     string
	initialQuery string
)

func init() {
	flags := rootCmd.Flags()
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	flags.StringVar(&manifestPath, "manifest", "", "read repositories from a TOML manifest instead of scanning")
	flags.BoolVar(&stdinMode, "stdin", false, "read items from stdin, one per line")
	flags.BoolVar(&watchMode, "watch", false, "keep scanning directories created while the finder is open")
	flags.BoolVar(&rankedMode, "ranked", false, "order matches by fuzzy score instead of input order")
	flags.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); logs go to "+logging.DefaultFile())
	flags.StringVarP(&initialQuery, "query", "q", "", "start with this query")

	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configInitCmd.Flags().Bool("force", false, "overwrite an existing config file")
}

func runFinder(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cs := config.NewConfigService(configPath)
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = cs.LoadFromPath(configPath)
	} else {
		cfg, err = cs.Load()
	}
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)

	level := logLevel
	if level == "" {
		level = cfg.LogLevel
	}
	if err := logging.Initialize(level, cfg.LogFile); err != nil {
		return err
	}
	logger := logging.GetLogger()
	logger.Info("starting", zap.String("config", cs.Path()), zap.Strings("args", args))

	keys, err := cfg.KeyMap()
	if err != nil {
		return err
	}

	handle := finder.NewHandle(nil, finder.FuzzyMatcher{Ranked: cfg.Ranked})
	if initialQuery != "" {
		handle.SetQuery(initialQuery)
	}

	src, err := newSource(ctx, sourceOptions{
		cfg:    cfg,
		roots:  args,
		stdin:  useStdin(args, cfg),
		handle: handle,
		logger: logger,
	})
	if err != nil {
		return err
	}
	defer src.Close()

	var res ui.Result
	err = terminal.Run(ctx, terminal.Options{Logger: logger}, func(ctx context.Context, s *terminal.Session) error {
		prog := ui.NewProgram(handle, s, ui.Options{
			KeyMap:          keys,
			Styles:          views.NewStyles(s.Output(), viewColors(cfg.UI.Colors)),
			ShowHelp:        cfg.UI.ShowHelp,
			PollInterval:    time.Duration(cfg.UI.PollInterval),
			RefreshInterval: time.Duration(cfg.UI.RefreshInterval),
			Logger:          logger,
		})
		var err error
		res, err = prog.Run(ctx)
		return err
	})
	if err != nil {
		return err
	}

	logger.Info("finder closed", zap.Stringer("outcome", res.Outcome))
	if res.Outcome != ui.OutcomeSelected {
		return errCanceled
	}
	out, err := src.Resolve(res.Selection)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

// applyFlags lets explicitly set flags win over the config file
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("watch") {
		cfg.Watch = watchMode
	}
	if flags.Changed("ranked") {
		cfg.Ranked = rankedMode
	}
	if flags.Changed("manifest") {
		cfg.Manifest = manifestPath
	}
}

// useStdin reports whether items come from stdin: when asked to, or when
// stdin is piped and nothing else names a source.
func useStdin(args []string, cfg *config.Config) bool {
	if stdinMode {
		return true
	}
	if len(args) > 0 || cfg.Manifest != "" {
		return false
	}
	return !term.IsTerminal(int(os.Stdin.Fd()))
}

func viewColors(c config.Colors) views.Colors {
	return views.Colors{
		Selected: c.Selected,
		Count:    c.Count,
		Fill:     c.Fill,
		Prompt:   c.Prompt,
		Status:   c.Status,
		Error:    c.Error,
		Help:     c.Help,
	}
}

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the key bindings",
	Long: `List the key bindings of the finder, including overrides from the
config file. The action names are the ones accepted in the [keys] table:

  [keys]
  down = ["down", "ctrl+n", "tab"]`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.NewConfigService(configPath).Load()
		if err != nil {
			return err
		}
		km, err := cfg.KeyMap()
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), formatBindings(km))
		return nil
	},
}

// formatBindings renders one line per action: name, keys and description
func formatBindings(km input.KeyMap) string {
	name := lipgloss.NewStyle().Bold(true).Width(14)
	keys := lipgloss.NewStyle().Width(26)
	desc := lipgloss.NewStyle().Faint(true)

	var b strings.Builder
	for _, nb := range km.Bindings() {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			name.Render(nb.Name),
			keys.Render(strings.Join(nb.Binding.Keys(), ", ")),
			desc.Render(nb.Binding.Help().Desc),
		))
		b.WriteString("\n")
	}
	return b.String()
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		cs := config.NewConfigService(configPath)
		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(cs.Path()); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", cs.Path())
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err := cs.Save(config.DefaultConfig()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), cs.Path())
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the location of the config file",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), config.NewConfigService(configPath).Path())
	},
}
