package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/klauern/rulesync/internal/cache"
	"github.com/klauern/rulesync/internal/config"
	"github.com/klauern/rulesync/internal/logging"
	"github.com/klauern/rulesync/internal/manifest"
	"github.com/klauern/rulesync/internal/model"
	"github.com/klauern/rulesync/internal/progress"
	"github.com/klauern/rulesync/internal/scan"
	"github.com/klauern/rulesync/internal/sync"
	"github.com/klauern/rulesync/internal/ui"
)

func installCommand() *cli.Command {
	return &cli.Command{
		Name:      "install",
		Usage:     "Install a rule set into the destination rules directory",
		UsageText: "rulesync install [options] --source <dir>",
		Description: `Install rule documents from a source rule set, resolving conflicts
   through explicit decisions and cleaning up known alias duplicates.

   Examples:
     rulesync install --source ./rules
     rulesync install --source ./rules --dest ~/.claude/rules --flatten
     rulesync install --source ./rules --strategy merge --dry-run`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "source",
				Aliases:  []string{"s"},
				Usage:    "Source rule-set directory",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "dest",
				Usage: "Destination rules directory (default: ~/.claude/rules)",
			},
			&cli.BoolFlag{
				Name:  "flatten",
				Usage: "Write all rules directly under the destination root",
			},
			&cli.BoolFlag{
				Name:    "dry-run",
				Aliases: []string{"d"},
				Usage:   "Preview changes without modifying files",
			},
			&cli.StringFlag{
				Name:  "strategy",
				Usage: "Conflict handling: ask, overwrite, skip, or merge",
			},
			&cli.BoolFlag{
				Name:  "cleanup-aliases",
				Usage: "Approve removal of alias duplicates (non-interactive strategies)",
			},
			&cli.BoolFlag{
				Name:  "keep-command",
				Usage: "Keep the invoking entry file in the plugin cache",
			},
			&cli.StringFlag{
				Name:  "cache-root",
				Usage: "Plugin cache root searched for the entry file (default: ~/.claude/plugins/cache)",
			},
		},
		Action: runInstall,
	}
}

func runInstall(_ context.Context, cmd *cli.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.Output.NoColor {
		ui.DisableColors()
	}

	sourceDir := cmd.String("source")

	m, err := manifest.Load(sourceDir)
	if err != nil {
		logging.Warn("ignoring unreadable rule-set manifest", logging.Err(err))
		m = nil
	}

	opts := sync.Options{
		SourceDir: sourceDir,
		DestDir:   cmd.String("dest"),
		Layout:    resolveLayout(cmd, cfg, m),
		DryRun:    cmd.Bool("dry-run"),
		Aliases:   resolveAliases(cfg, m),
	}
	if m != nil && m.Command != "" {
		// The command entry file ships with the plugin but is not a rule.
		opts.Exclude = []string{m.Command}
	}
	if opts.DestDir == "" {
		opts.DestDir = cfg.DestDir
	}

	provider, err := resolveProvider(cmd, cfg)
	if err != nil {
		return err
	}

	var bar *progress.Bar
	opts.Progress = func(done, total int) {
		if bar == nil {
			bar = progress.Simple(int64(total), "Installing rules")
		}
		_ = bar.Set(done)
	}

	report, err := sync.New(provider).Install(opts)
	if err != nil {
		return err
	}
	if bar != nil {
		_ = bar.Finish()
	}

	if !cmd.Bool("keep-command") && !cfg.KeepCommand && !opts.DryRun {
		report.SelfDestructed = removeEntryFile(cmd.String("cache-root"), sourceDir, m)
	}

	printReport(report, cmd.Bool("verbose") || cmd.Bool("debug"))

	if !report.Success() {
		return fmt.Errorf("%d file(s) failed", len(report.Failed()))
	}
	return nil
}

// resolveLayout picks the layout mode: flag over config over manifest
// hint over the preserve default.
func resolveLayout(cmd *cli.Command, cfg *config.Config, m *manifest.Manifest) model.LayoutMode {
	if cmd.Bool("flatten") {
		return model.LayoutFlatten
	}
	if cfg.Layout != "" {
		return cfg.LayoutMode()
	}
	if hint := m.LayoutMode(); hint != "" {
		return hint
	}
	return model.LayoutPreserve
}

// resolveAliases merges the configured alias table with manifest extras.
func resolveAliases(cfg *config.Config, m *manifest.Manifest) []model.AliasPair {
	table := cfg.AliasTable()
	if m != nil {
		table = append(table, m.Aliases...)
	}
	return table
}

// resolveProvider builds the decision provider from the strategy flag or
// configuration.
func resolveProvider(cmd *cli.Command, cfg *config.Config) (sync.DecisionProvider, error) {
	strategy := cmd.String("strategy")
	if strategy == "" {
		strategy = cfg.Strategy
	}

	switch {
	case strategy == "" || strategy == config.StrategyAsk:
		return NewInteractiveProvider(), nil
	case model.Decision(strategy).IsValid():
		return &FixedProvider{
			Decision:       model.Decision(strategy),
			CleanupAliases: cmd.Bool("cleanup-aliases"),
		}, nil
	default:
		return nil, fmt.Errorf("unknown conflict strategy %q", strategy)
	}
}

// removeEntryFile deletes the cache copy of the invoking entry file
// named by the manifest. A missing manifest, entry, or cache copy is not
// an error. The source directory is protected: a cache copy that lies
// under it is left alone.
func removeEntryFile(cacheRoot, sourceDir string, m *manifest.Manifest) bool {
	if m == nil || m.Command == "" {
		logging.Debug("no entry command declared, skipping cache cleanup")
		return false
	}

	locator := cache.NewLocator(cacheRoot, "")
	root := locator.CacheRoot()
	if m.Name != "" {
		if installDir, ok := locator.LocateInstallDir(m.Name); ok {
			root = installDir
		}
	}

	removed, err := cache.SelfDestruct(root, m.Command, sourceDir)
	if err != nil {
		logging.Warn("failed to remove entry file from plugin cache",
			logging.Rule(m.Command),
			logging.Err(err),
		)
		return false
	}
	return removed
}

// printReport writes the run summary, with per-file detail when verbose.
func printReport(report *sync.Report, verbose bool) {
	fmt.Println()
	fmt.Print(report.Summary())

	if verbose {
		for _, fr := range report.Files {
			switch fr.Action {
			case sync.ActionInstalled, sync.ActionMerged:
				fmt.Println(ui.Applied(fmt.Sprintf("%s (%s)", fr.Path, fr.Action)))
			case sync.ActionRemoved:
				fmt.Println(ui.Conflicting(fmt.Sprintf("%s removed: %s", fr.DestPath, fr.Message)))
			case sync.ActionFailed:
				name := fr.Path
				if name == "" {
					name = fr.DestPath
				}
				fmt.Println(ui.Failed(fmt.Sprintf("%s: %v", name, fr.Err)))
			default:
				fmt.Println(ui.Skipped(fmt.Sprintf("%s (%s)", fr.Path, fr.Action)))
			}
		}
	}

	if report.SelfDestructed {
		fmt.Println(ui.Applied("removed install command from plugin cache"))
	}
}

func statusCommand() *cli.Command {
	return &cli.Command{
		Name:      "status",
		Usage:     "Show how a rule set compares against the destination",
		UsageText: "rulesync status [options] --source <dir>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "source",
				Aliases:  []string{"s"},
				Usage:    "Source rule-set directory",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "dest",
				Usage: "Destination rules directory (default: ~/.claude/rules)",
			},
			&cli.BoolFlag{
				Name:  "flatten",
				Usage: "Compare against flattened destination paths",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			destDir := cmd.String("dest")
			if destDir == "" {
				destDir = cfg.DestDir
			}

			layout := cfg.LayoutMode()
			if cmd.Bool("flatten") {
				layout = model.LayoutFlatten
			}

			var exclude []string
			if m, err := manifest.Load(cmd.String("source")); err == nil && m != nil && m.Command != "" {
				exclude = append(exclude, m.Command)
			}

			entries, err := scan.New(layout, exclude...).Scan(cmd.String("source"), destDir)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				return errors.New("source rule set is empty")
			}

			counts := map[model.Classification]int{}
			for _, entry := range entries {
				if entry.Err != nil {
					fmt.Println(ui.Failed(fmt.Sprintf("%s: %v", entry.Rule.Path, entry.Err)))
					continue
				}
				counts[entry.Classification]++
				switch entry.Classification {
				case model.ClassNew:
					fmt.Println(ui.Applied(fmt.Sprintf("%s (new)", entry.Rule.Path)))
				case model.ClassConflict:
					fmt.Println(ui.Conflicting(fmt.Sprintf("%s (conflict)", entry.Rule.Path)))
				default:
					fmt.Println(ui.Skipped(fmt.Sprintf("%s (unchanged)", entry.Rule.Path)))
				}
			}

			fmt.Printf("\n%d new, %d unchanged, %d conflicting\n",
				counts[model.ClassNew], counts[model.ClassUnchanged], counts[model.ClassConflict])
			return nil
		},
	}
}
