package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/josephgoksu/PromptWing/internal/telemetry"
	"github.com/josephgoksu/PromptWing/internal/ui"
	"github.com/josephgoksu/PromptWing/models"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive prompt optimization conversation",
	Long: `Start the interactive conversation: describe what you need, pick one
of the recommended frameworks, answer a couple of clarifying questions,
and receive an optimized prompt. After completion, further messages
refine the prompt.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := newCatalog()
		if err != nil {
			return err
		}
		// Pick up edits to an override directory while the session runs.
		if err := cat.Watch(); err != nil {
			fmt.Fprintln(os.Stderr, "warning:", err)
		}
		defer func() { _ = cat.Close() }()
		controller := newController(cat)

		tel := newTelemetryClient()
		defer func() { _ = tel.Close() }()
		tel.Track(telemetry.EventConversationStarted, nil)

		model := ui.NewChatModel(controller)
		if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
			return fmt.Errorf("chat session failed: %w", err)
		}

		// Archive the final prompt, if the conversation produced one.
		session := controller.Session()
		framework, frameworkEn := "", ""
		if session.Selected != nil {
			framework = session.Selected.Name
			frameworkEn = session.Selected.NameEn
			telemetry.TrackFrameworkSelected(tel, frameworkEn)
		}
		if session.Adjustments > 0 {
			telemetry.TrackPromptAdjusted(tel, frameworkEn, session.Adjustments)
		}
		if session.Stage == models.StageComplete && session.GeneratedPrompt != "" {
			store, err := newHistoryStore()
			if err != nil || store == nil {
				return nil
			}
			defer func() { _ = store.Close() }()
			cleaned := ui.CleanFencedBlock(session.GeneratedPrompt)
			if _, err := store.Save(framework, frameworkEn, session.UserInput, cleaned); err == nil {
				telemetry.TrackPromptGenerated(tel, frameworkEn, session.Round, len(cleaned))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
