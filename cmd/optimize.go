package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/josephgoksu/PromptWing/internal/catalog"
	"github.com/josephgoksu/PromptWing/internal/config"
	"github.com/josephgoksu/PromptWing/internal/engine"
	"github.com/josephgoksu/PromptWing/internal/telemetry"
	"github.com/josephgoksu/PromptWing/internal/ui"
	"github.com/josephgoksu/PromptWing/llm"
	"github.com/josephgoksu/PromptWing/models"
	"github.com/josephgoksu/PromptWing/types"
)

var optimizeFramework string

var optimizeCmd = &cobra.Command{
	Use:   "optimize [request]",
	Short: "One-shot prompt optimization without the conversation",
	Long: `Generate an optimized prompt in a single pass: the request is matched
against the catalog (or a framework is forced with --framework), no
clarification questions are asked, and the result is printed to stdout.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		request := strings.TrimSpace(strings.Join(args, " "))
		if request == "" {
			return fmt.Errorf("empty request")
		}

		cfg, err := config.ActiveServiceConfig()
		if err != nil {
			return err
		}
		if ok, missing := config.ValidateService(cfg); !ok {
			return fmt.Errorf("service %s is not configured; missing: %s", cfg.Service, strings.Join(missing, ", "))
		}

		cat, err := newCatalog()
		if err != nil {
			return err
		}
		client := newCompletionClient()
		ctx := cmd.Context()

		tel := newTelemetryClient()
		defer func() { _ = tel.Close() }()

		spin := ui.NewSpinner("optimizing...")
		spin.Start()
		defer spin.Stop()

		detail, err := resolveFramework(ctx, cat, client, request, cfg)
		if err != nil {
			return err
		}
		telemetry.TrackFrameworkSelected(tel, detail.NameEn)

		data := models.ClarificationData{OriginalInput: request}
		templates := engine.WithTemplatesDir(viper.GetString("prompts.templatesDir"))
		prompt, err := engine.NewComposer(client, templates).Compose(ctx, detail, data, cfg)
		if err != nil {
			return err
		}
		cleaned := ui.CleanFencedBlock(prompt)

		spin.Stop()
		fmt.Fprintln(os.Stderr, ui.StyleSubtle.Render("framework: "+detail.NameEn))
		fmt.Println(cleaned)

		if store, err := newHistoryStore(); err == nil && store != nil {
			defer func() { _ = store.Close() }()
			_, _ = store.Save(detail.Name, detail.NameEn, request, cleaned)
		}
		telemetry.TrackPromptGenerated(tel, detail.NameEn, 0, len(cleaned))
		return nil
	},
}

// resolveFramework honors --framework when given, otherwise takes the
// model's top recommendation.
func resolveFramework(ctx context.Context, cat *catalog.Catalog, client *llm.Client, request string, cfg types.ServiceConfig) (*models.FrameworkDetail, error) {
	if optimizeFramework != "" {
		id, ok := cat.FindIDByName(optimizeFramework, optimizeFramework)
		if !ok {
			return nil, fmt.Errorf("unknown framework: %s", optimizeFramework)
		}
		return cat.LoadDetail(id)
	}

	recs, err := engine.NewMatcher(client, cat).Match(ctx, request, cfg)
	if err != nil {
		return nil, err
	}
	top := recs[0]
	id, ok := cat.FindIDByName(top.Name, top.NameEn)
	if !ok {
		return nil, fmt.Errorf("recommended framework %q is not in the catalog", top.Name)
	}
	return cat.LoadDetail(id)
}

func init() {
	optimizeCmd.Flags().StringVarP(&optimizeFramework, "framework", "f", "", "skip matching and use this framework")
	rootCmd.AddCommand(optimizeCmd)
}
