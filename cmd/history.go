package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/PromptWing/internal/ui"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse previously generated prompts",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent prompts, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := newHistoryStore()
		if err != nil {
			return err
		}
		if store == nil {
			return fmt.Errorf("history is disabled in the configuration")
		}
		defer func() { _ = store.Close() }()

		records, err := store.List(historyLimit)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println(ui.StyleSubtle.Render("no prompts archived yet"))
			return nil
		}
		for _, r := range records {
			fmt.Printf("%s  %s  %s\n",
				ui.StyleSubtle.Render(r.CreatedAt.Local().Format("2006-01-02 15:04")),
				ui.StyleTitle.Render(r.Framework),
				r.ID)
			fmt.Printf("    %s\n", truncate(r.Request, 80))
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one archived prompt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := newHistoryStore()
		if err != nil {
			return err
		}
		if store == nil {
			return fmt.Errorf("history is disabled in the configuration")
		}
		defer func() { _ = store.Close() }()

		r, err := store.Get(args[0])
		if err != nil {
			return err
		}
		fmt.Println(ui.StyleSubtle.Render("framework: " + r.Framework + " (" + r.FrameworkEn + ")"))
		fmt.Println(ui.StyleSubtle.Render("request:   " + r.Request))
		fmt.Println()
		fmt.Println(r.Prompt)
		return nil
	},
}

// truncate shortens s to at most n runes. Byte slicing would split
// multibyte characters; framework names and requests are often Chinese.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func init() {
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum records to list")
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}
