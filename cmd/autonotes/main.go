package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/autonotes/autonotes/ai/llm"
	"github.com/autonotes/autonotes/devops"
	"github.com/autonotes/autonotes/internal/profile"
	"github.com/autonotes/autonotes/internal/version"
	"github.com/autonotes/autonotes/notes"
	"github.com/autonotes/autonotes/render"
)

var rootCmd = &cobra.Command{
	Use:   "autonotes",
	Short: "Generates release notes from tracked work items, with an AI-written release summary.",
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		// Secrets (API key, access token) are usually kept in a .env file
		// next to the binary; ignore the error if there is none.
		_ = godotenv.Load()
		return nil
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		setupLogger(viper.GetString("log-level"))

		p := &profile.Profile{
			Model:           viper.GetString("model"),
			BaseURL:         viper.GetString("base-url"),
			Organization:    viper.GetString("org"),
			Project:         viper.GetString("project"),
			QueryID:         viper.GetString("query"),
			OutputFolder:    viper.GetString("output"),
			SoftwareSummary: viper.GetString("software-summary"),
			RenderURL:       viper.GetString("render-url"),
			HTML:            viper.GetBool("html"),
			Version:         version.String(),
		}
		p.FromEnv()
		if err := p.Validate(); err != nil {
			return err
		}

		return run(cmd.Context(), p)
	},
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the autonotes version",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println(version.String())
	},
}

func init() {
	viper.SetDefault("log-level", "info")

	rootCmd.PersistentFlags().String("log-level", "info", `log level, one of "debug", "info", "warn", "error"`)
	rootCmd.Flags().String("model", "", "completion model name (default gpt-4o)")
	rootCmd.Flags().String("base-url", "", "completion endpoint root URL")
	rootCmd.Flags().String("org", "", "work item service organization")
	rootCmd.Flags().String("project", "", "work item service project")
	rootCmd.Flags().String("query", "", "stored query id selecting the release's work items")
	rootCmd.Flags().String("output", "", "output folder for the generated notes")
	rootCmd.Flags().String("software-summary", "", "one-paragraph description of the software, used in the summary prompt")
	rootCmd.Flags().String("render-url", "", "remote markdown render service, empty renders locally")
	rootCmd.Flags().Bool("html", false, "also write a rendered .html file next to the markdown")

	if err := viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level")); err != nil {
		panic(err)
	}
	for _, name := range []string{"model", "base-url", "org", "project", "query", "output", "software-summary", "render-url", "html"} {
		if err := viper.BindPFlag(name, rootCmd.Flags().Lookup(name)); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(versionCmd)
}

func run(ctx context.Context, p *profile.Profile) error {
	runID := uuid.NewString()
	slog.Info("autonotes starting",
		"version", p.Version,
		"release", version.IsRelease(),
		"run_id", runID,
	)

	client := devops.NewClient(&devops.Config{
		Organization: p.Organization,
		Project:      p.Project,
		PAT:          p.PAT,
		BaseURL:      p.DevOpsURL,
	})

	items, err := client.FetchReleaseItems(ctx, p.QueryID)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		slog.Warn("release query matched no work items, nothing to do", "query", p.QueryID)
		return nil
	}

	groups := devops.BuildTree(items)
	doc, rawSummary := notes.Document(p.Project, groups)

	docPath := filepath.Join(p.OutputFolder, notesFileName(p.Project))
	if err := os.WriteFile(docPath, []byte(doc), 0o644); err != nil {
		return err
	}

	summarizer := llm.NewClient(&llm.Config{
		Model:   p.Model,
		APIKey:  p.APIKey,
		BaseURL: p.BaseURL,
		Timeout: p.TimeoutSeconds,
	}, llm.DefaultCatalog())

	var renderer render.Renderer
	if p.HTML {
		if p.RenderURL != "" {
			renderer = render.NewRemote(p.RenderURL)
		} else {
			renderer = render.NewLocal()
		}
	}

	finalizer := notes.NewFinalizer(summarizer, renderer, p.SoftwareSummary)
	if err := finalizer.Finalize(ctx, docPath, rawSummary, p.HTML); err != nil {
		return err
	}

	slog.Info("release notes written", "path", docPath, "items", len(items))
	return nil
}

func notesFileName(project string) string {
	slug := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(project), " ", "-"))
	return fmt.Sprintf("%s-%s.md", slug, time.Now().Format("2006-01-02"))
}

func setupLogger(level string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}
