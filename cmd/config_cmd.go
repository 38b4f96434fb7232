package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/josephgoksu/PromptWing/internal/config"
	"github.com/josephgoksu/PromptWing/internal/telemetry"
	"github.com/josephgoksu/PromptWing/internal/ui"
	"github.com/josephgoksu/PromptWing/types"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and change the backend configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved configuration (keys masked)",
	RunE: func(cmd *cobra.Command, args []string) error {
		active := config.ActiveService()
		fmt.Println(ui.StyleTitle.Render("Active service: ") + string(active))
		for _, svc := range []types.ServiceName{
			types.ServiceDeepSeek, types.ServiceKimi, types.ServiceOpenRouter, types.ServiceCustom,
		} {
			cfg, err := config.ServiceConfigFor(svc)
			if err != nil {
				return err
			}
			marker := "  "
			if svc == active {
				marker = ui.StyleSuccess.Render("* ")
			}
			line := fmt.Sprintf("%s%-11s key=%s model=%s", marker, svc, maskKey(cfg.APIKey), valueOrDash(cfg.Model))
			if svc == types.ServiceCustom {
				line += " endpoint=" + valueOrDash(cfg.Endpoint)
			}
			if ok, missing := config.ValidateService(cfg); !ok {
				line += "  " + ui.StyleWarning.Render("missing: "+strings.Join(missing, ", "))
			}
			fmt.Println(line)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <service> <field> [value]",
	Short: "Set a per-service value, or the active service",
	Long: `Set a backend value in the global config file.

  promptwing config set active deepseek
  promptwing config set deepseek model deepseek-chat
  promptwing config set deepseek apiKey          (prompts without echo)
  promptwing config set custom endpoint https://llm.internal/v1/chat/completions`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if args[0] == "active" {
			return config.SetActiveService(types.ServiceName(args[1]))
		}

		service := types.ServiceName(args[0])
		field := args[1]
		var value string
		if len(args) == 3 {
			value = args[2]
		} else if field == "apiKey" {
			fmt.Fprint(os.Stderr, "API key: ")
			raw, err := term.ReadPassword(int(syscall.Stdin))
			fmt.Fprintln(os.Stderr)
			if err != nil {
				return fmt.Errorf("read key: %w", err)
			}
			value = strings.TrimSpace(string(raw))
		} else {
			return fmt.Errorf("missing value for %s.%s", service, field)
		}
		if value == "" {
			return fmt.Errorf("empty value")
		}
		return config.SetServiceField(service, field, value)
	},
}

var configTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Probe the active backend with a minimal request",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.ActiveServiceConfig()
		if err != nil {
			return err
		}
		if ok, missing := config.ValidateService(cfg); !ok {
			return fmt.Errorf("service %s is not configured; missing: %s", cfg.Service, strings.Join(missing, ", "))
		}

		tel := newTelemetryClient()
		defer func() { _ = tel.Close() }()

		spin := ui.NewSpinner(fmt.Sprintf("testing %s...", cfg.Service))
		spin.Start()
		ctx, cancel := context.WithTimeout(cmd.Context(), 45*time.Second)
		defer cancel()
		ok := newCompletionClient().Validate(ctx, cfg)
		spin.Stop()

		telemetry.TrackConfigValidated(tel, string(cfg.Service), ok)
		if !ok {
			return fmt.Errorf("%s did not answer; check key, model, and endpoint", cfg.Service)
		}
		fmt.Println(ui.StyleSuccess.Render("✔ ") + string(cfg.Service) + " is reachable")
		return nil
	},
}

var configExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export the shareable configuration (never API keys)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return config.Export(os.Stdout)
		}
		f, err := os.Create(args[0])
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		return config.Export(f)
	},
}

var configImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Merge an exported configuration into this machine's config",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		if err := config.Import(f); err != nil {
			return err
		}
		fmt.Println(ui.StyleSuccess.Render("✔ ") + "configuration imported")
		return nil
	},
}

func maskKey(key string) string {
	if key == "" {
		return "-"
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func valueOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configTestCmd)
	configCmd.AddCommand(configExportCmd)
	configCmd.AddCommand(configImportCmd)
	rootCmd.AddCommand(configCmd)
}
