package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/nate2211/github-analytics/internal/blocks"
	"github.com/nate2211/github-analytics/internal/collector"
	"github.com/nate2211/github-analytics/internal/config"
	"github.com/nate2211/github-analytics/internal/domain"
	"github.com/nate2211/github-analytics/internal/pipeline"
	"github.com/nate2211/github-analytics/internal/report"
)

var (
	cfgFile   string
	repoFlags []string
	tokenFlag string
	showTable bool
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "github-analytics",
	Short: "GitHub repository analytics tool",
	Long: `A CLI tool for fetching and aggregating GitHub repository analytics.

It collects metadata, commit counts, release downloads and (with a token)
traffic statistics for a list of repositories, then prints aggregate totals
and saves the full report locally.`,
	RunE: runFetch,
}

var presetCmd = &cobra.Command{
	Use:   "preset",
	Short: "Manage repository presets",
	Long:  `Manage named repository lists. Exactly one preset is active at a time.`,
}

var presetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List presets",
	RunE:  runPresetList,
}

var presetSetCmd = &cobra.Command{
	Use:   "set [name] [repo...]",
	Short: "Create or replace a preset and make it active",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runPresetSet,
}

var presetRenameCmd = &cobra.Command{
	Use:   "rename [old] [new]",
	Short: "Rename a preset",
	Args:  cobra.ExactArgs(2),
	RunE:  runPresetRename,
}

var presetDeleteCmd = &cobra.Command{
	Use:   "delete [name]",
	Short: "Delete a preset",
	Args:  cobra.ExactArgs(1),
	RunE:  runPresetDelete,
}

var presetApplyCmd = &cobra.Command{
	Use:   "apply [name]",
	Short: "Make a preset active",
	Args:  cobra.ExactArgs(1),
	RunE:  runPresetApply,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.github-analytics/config.json)")
	rootCmd.Flags().StringSliceVar(&repoFlags, "repos", nil, "repositories to fetch (owner/name or GitHub URL)")
	rootCmd.Flags().StringVar(&tokenFlag, "token", "", "GitHub token (default is GITHUB_TOKEN)")
	rootCmd.Flags().BoolVar(&showTable, "table", false, "print a per-repository table")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log fetch progress to stderr")

	rootCmd.AddCommand(presetCmd)
	presetCmd.AddCommand(presetListCmd)
	presetCmd.AddCommand(presetSetCmd)
	presetCmd.AddCommand(presetRenameCmd)
	presetCmd.AddCommand(presetDeleteCmd)
	presetCmd.AddCommand(presetApplyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func configPath() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	return config.DefaultPath()
}

func runFetch(cmd *cobra.Command, args []string) error {
	path, err := configPath()
	if err != nil {
		return fmt.Errorf("failed to resolve config path: %w", err)
	}

	repos := repoFlags
	if len(repos) == 0 {
		repos = config.Load(path).ActiveRepos()
	}
	if len(repos) == 0 {
		fmt.Fprintln(os.Stderr, "No repositories specified. Use --repos or configure a preset.")
		os.Exit(2)
	}

	logOut := io.Discard
	if verbose {
		logOut = os.Stderr
	}
	logger := log.New(logOut, "", log.LstdFlags)

	p := pipeline.New(
		blocks.Fetch{
			Collector:     collector.NewGitHubCollector(logger),
			TokenOverride: tokenFlag,
		},
		blocks.Aggregate{},
	)
	payload := &pipeline.Payload{
		Request: &domain.FetchRequest{Repos: repos},
	}

	payload, _, err = p.Run(cmd.Context(), payload)
	if err != nil {
		return err
	}
	rep := payload.Report

	totals, err := json.MarshalIndent(rep.Totals, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode totals: %w", err)
	}
	fmt.Println(string(totals))

	if showTable {
		printRepoTable(rep)
	}

	for _, fe := range rep.Errors {
		fmt.Fprintf(os.Stderr, "Error fetching %s: %s\n", fe.Repo, fe.Error)
	}

	outPath, err := report.DefaultCLIPath()
	if err != nil {
		return fmt.Errorf("failed to resolve report path: %w", err)
	}
	if err := report.Write(outPath, rep); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	fmt.Printf("Saved full report to: %s\n", outPath)

	return nil
}

func printRepoTable(rep *domain.Report) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{
		"Repo", "Commits", "Stars", "Forks", "Watchers", "Open Issues",
		"Release DL", "Views (14d)", "Views Uniq", "Clones (14d)", "Clones Uniq", "Traffic",
	})

	for _, r := range rep.Repos {
		var views, viewsUniq, clones, clonesUniq int64
		if r.Traffic != nil {
			if v := r.Traffic.Views; v != nil {
				views, viewsUniq = v.Count, v.Uniques
			}
			if c := r.Traffic.Clones; c != nil {
				clones, clonesUniq = c.Count, c.Uniques
			}
		}

		trafficState := "n/a"
		if r.Traffic != nil {
			trafficState = "yes"
			if r.TrafficError != "" {
				trafficState = "no"
			}
		}

		table.Append([]string{
			r.Repo,
			fmt.Sprintf("%d", r.CommitsTotal),
			fmt.Sprintf("%d", r.Stars),
			fmt.Sprintf("%d", r.Forks),
			fmt.Sprintf("%d", r.Watchers),
			fmt.Sprintf("%d", r.OpenIssues),
			fmt.Sprintf("%d", r.ReleaseAssetDownloadsTotal),
			fmt.Sprintf("%d", views),
			fmt.Sprintf("%d", viewsUniq),
			fmt.Sprintf("%d", clones),
			fmt.Sprintf("%d", clonesUniq),
			trafficState,
		})
	}
	table.Render()
}

func runPresetList(cmd *cobra.Command, args []string) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	doc := config.Load(path)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Preset", "Active", "Repos"})
	for _, name := range sortedPresetNames(doc) {
		active := ""
		if name == doc.ActivePreset {
			active = "*"
		}
		table.Append([]string{name, active, fmt.Sprintf("%d", len(doc.Presets[name]))})
	}
	table.Render()
	return nil
}

func runPresetSet(cmd *cobra.Command, args []string) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	doc := config.Load(path)
	if err := doc.SetPreset(args[0], args[1:]); err != nil {
		return err
	}
	if err := doc.Save(path); err != nil {
		return err
	}
	fmt.Printf("Preset %q saved and activated (%d repos)\n", args[0], len(args)-1)
	return nil
}

func runPresetRename(cmd *cobra.Command, args []string) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	doc := config.Load(path)
	if err := doc.RenamePreset(args[0], args[1]); err != nil {
		return err
	}
	if err := doc.Save(path); err != nil {
		return err
	}
	fmt.Printf("Preset %q renamed to %q\n", args[0], args[1])
	return nil
}

func runPresetDelete(cmd *cobra.Command, args []string) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	doc := config.Load(path)
	if err := doc.DeletePreset(args[0]); err != nil {
		return err
	}
	if err := doc.Save(path); err != nil {
		return err
	}
	fmt.Printf("Preset %q deleted; active preset is now %q\n", args[0], doc.ActivePreset)
	return nil
}

func runPresetApply(cmd *cobra.Command, args []string) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	doc := config.Load(path)
	if err := doc.ApplyPreset(args[0]); err != nil {
		return err
	}
	if err := doc.Save(path); err != nil {
		return err
	}
	fmt.Printf("Preset %q is now active (%d repos)\n", args[0], len(doc.Repos))
	return nil
}

func sortedPresetNames(doc *config.Document) []string {
	names := make([]string, 0, len(doc.Presets))
	for name := range doc.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
