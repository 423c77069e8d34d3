// Package cli builds the synctree command tree.
package cli

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/arthur-debert/synctree/internal/version"
	"github.com/arthur-debert/synctree/pkg/cobrax/topics"
	"github.com/arthur-debert/synctree/pkg/commands"
	"github.com/arthur-debert/synctree/pkg/config"
	"github.com/arthur-debert/synctree/pkg/core"
	"github.com/arthur-debert/synctree/pkg/errors"
	"github.com/arthur-debert/synctree/pkg/filesystem"
	"github.com/arthur-debert/synctree/pkg/logging"
	"github.com/arthur-debert/synctree/pkg/output"
	"github.com/arthur-debert/synctree/pkg/types"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	verbosity  int
	configFile string
	storePath  string
	backend    string
	format     string
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(nil)
}

// newRootCmd builds the tree over fsys; nil means the OS filesystem.
func newRootCmd(fsys types.FS) *cobra.Command {
	initTemplateFormatting()

	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:     "synctree",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			root := ""
			if cmd.GroupID == "sync" && len(args) > 0 {
				root = args[0]
			}
			logging.SetupLogger(g.logVerbosity(cmd.Flags().Changed("verbose"), root, fsys))
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().CountVarP(&g.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&g.configFile, "config", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringVar(&g.storePath, "store", "", MsgFlagStore)
	rootCmd.PersistentFlags().StringVar(&g.backend, "backend", "", MsgFlagBackend)
	rootCmd.PersistentFlags().StringVar(&g.format, "format", "auto", MsgFlagFormat)

	rootCmd.AddGroup(&cobra.Group{ID: "sync", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newImportCmd(g, fsys))
	rootCmd.AddCommand(newExportCmd(g, fsys))
	rootCmd.AddCommand(newCleanCmd(g, fsys))
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())

	installTopics(rootCmd)

	return rootCmd
}

// installTopics replaces the help command with the embedded topic help.
// Without topics cobra's own help remains.
func installTopics(rootCmd *cobra.Command) {
	sub, err := fs.Sub(helpTopics, "help")
	if err != nil {
		return
	}
	var renderer topics.Renderer = &topics.PlainRenderer{}
	if stdoutIsTerminal() {
		renderer = topics.NewGlamourRenderer()
	}
	tm, err := topics.New(sub, topics.Options{Extensions: []string{".md"}, Renderer: renderer})
	if err != nil {
		return
	}
	tm.Install(rootCmd)
}

func newImportCmd(g *globalFlags, fsys types.FS) *cobra.Command {
	var (
		flat    bool
		force   bool
		noClean bool
		dryRun  bool
		kinds   []string
	)

	cmd := &cobra.Command{
		Use:     "import <root>",
		Short:   MsgImportShort,
		Long:    MsgImportLong,
		Example: MsgImportExample,
		GroupID: "sync",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides := g.overrides()
			if cmd.Flags().Changed("flat") {
				overrides["layout.flat"] = flat
			}
			if cmd.Flags().Changed("force") {
				overrides["import.force"] = force
			}
			if cmd.Flags().Changed("no-clean") {
				overrides["import.clean"] = !noClean
			}
			return runSync(cmd, g, core.CommandImport, commands.SyncOptions{
				Root:       args[0],
				ConfigFile: g.configFile,
				Overrides:  overrides,
				Kinds:      kinds,
				DryRun:     dryRun,
				FileSystem: fsys,
			})
		},
	}

	cmd.Flags().BoolVar(&flat, "flat", false, MsgFlagFlat)
	cmd.Flags().BoolVar(&force, "force", false, MsgFlagForce)
	cmd.Flags().BoolVar(&noClean, "no-clean", false, MsgFlagNoClean)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, MsgFlagDryRun)
	cmd.Flags().StringSliceVarP(&kinds, "kind", "k", nil, MsgFlagKind)
	_ = cmd.RegisterFlagCompletionFunc("kind", completeKinds)

	return cmd
}

func newExportCmd(g *globalFlags, fsys types.FS) *cobra.Command {
	var (
		flat   bool
		dryRun bool
		kinds  []string
	)

	cmd := &cobra.Command{
		Use:     "export <root>",
		Short:   MsgExportShort,
		Long:    MsgExportLong,
		Example: MsgExportExample,
		GroupID: "sync",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides := g.overrides()
			if cmd.Flags().Changed("flat") {
				overrides["layout.flat"] = flat
			}
			return runSync(cmd, g, core.CommandExport, commands.SyncOptions{
				Root:       args[0],
				ConfigFile: g.configFile,
				Overrides:  overrides,
				Kinds:      kinds,
				DryRun:     dryRun,
				FileSystem: fsys,
			})
		},
	}

	cmd.Flags().BoolVar(&flat, "flat", false, MsgFlagFlat)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, MsgFlagDryRun)
	cmd.Flags().StringSliceVarP(&kinds, "kind", "k", nil, MsgFlagKind)
	_ = cmd.RegisterFlagCompletionFunc("kind", completeKinds)

	return cmd
}

func newCleanCmd(g *globalFlags, fsys types.FS) *cobra.Command {
	var (
		dryRun bool
		kinds  []string
	)

	cmd := &cobra.Command{
		Use:     "clean <root>",
		Short:   MsgCleanShort,
		Long:    MsgCleanLong,
		GroupID: "sync",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, g, core.CommandClean, commands.SyncOptions{
				Root:       args[0],
				ConfigFile: g.configFile,
				Overrides:  g.overrides(),
				Kinds:      kinds,
				DryRun:     dryRun,
				FileSystem: fsys,
			})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, MsgFlagDryRun)
	cmd.Flags().StringSliceVarP(&kinds, "kind", "k", nil, MsgFlagKind)
	_ = cmd.RegisterFlagCompletionFunc("kind", completeKinds)

	return cmd
}

// logVerbosity is the -v count when given, otherwise logging.verbosity
// from the configuration of root.
func (g *globalFlags) logVerbosity(flagSet bool, root string, fsys types.FS) int {
	if flagSet {
		return g.verbosity
	}
	if fsys == nil {
		fsys = filesystem.NewOS()
	}
	cfg, err := config.Load(config.LoadOptions{Root: root, File: g.configFile, FS: fsys})
	if err != nil {
		// The command reports the broken config itself.
		return g.verbosity
	}
	return cfg.Logging.Verbosity
}

// overrides turns the set persistent flags into config keys.
func (g *globalFlags) overrides() map[string]interface{} {
	overrides := make(map[string]interface{})
	if g.backend != "" {
		overrides["store.backend"] = g.backend
	}
	if g.storePath != "" {
		overrides["store.path"] = g.storePath
	}
	return overrides
}

// runSync executes one sync command and renders its report. Any failed
// outcome makes the command fail after the report is printed.
func runSync(cmd *cobra.Command, g *globalFlags, command core.CommandType, opts commands.SyncOptions) error {
	format, err := output.ParseFormat(g.format)
	if err != nil {
		return err
	}
	renderer, err := output.NewRenderer(format, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	result, err := commands.Sync(command, opts)
	if err != nil {
		return err
	}

	report := output.FromResult(result)
	if err := renderer.RenderReport(report); err != nil {
		return errors.Wrap(err, errors.ErrFileWrite, "failed to render report")
	}
	if opts.DryRun && format != output.FormatJSON {
		_ = renderer.RenderMessage(MsgDryRunNotice)
	}

	if report.Failed > 0 {
		return errors.Newf(errors.ErrInternal, MsgErrOutcomesFailed, report.Failed, report.Total).
			WithDetail("command", string(command))
	}
	return nil
}

func completeKinds(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	kinds := types.AllKinds()
	names := make([]string, 0, len(kinds))
	for _, k := range kinds {
		names = append(names, string(k))
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		Long:    MsgConfigLong,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), config.DefaultContent())
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		Long:    `Print detailed version information including commit hash and build date`,
		GroupID: "misc",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "synctree version %s\n", version.Version)
			if version.Commit != "" {
				fmt.Fprintf(out, "Commit: %s\n", version.Commit)
			}
			if version.Date != "" {
				fmt.Fprintf(out, "Built:  %s\n", version.Date)
			}
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "completion [bash|zsh|fish|powershell]",
		Short:     MsgCompletionShort,
		GroupID:   "misc",
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

func newManCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "man",
		Short:   MsgManShort,
		GroupID: "misc",
		Hidden:  true,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return doc.GenMan(cmd.Root(), ManHeader(), cmd.OutOrStdout())
		},
	}
}

// ManHeader is the header used for the generated man page.
func ManHeader() *doc.GenManHeader {
	return &doc.GenManHeader{
		Title:   "SYNCTREE",
		Section: "1",
		Source:  "synctree " + version.Version,
		Manual:  "synctree manual",
	}
}

// Main runs the CLI and returns the process exit code.
func Main(args []string) int {
	rootCmd := NewRootCmd()
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
