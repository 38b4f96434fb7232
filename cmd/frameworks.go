package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/PromptWing/internal/ui"
	"github.com/josephgoksu/PromptWing/models"
)

var frameworksCmd = &cobra.Command{
	Use:   "frameworks",
	Short: "Browse the prompt framework catalog",
}

var frameworksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all frameworks in the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := newCatalog()
		if err != nil {
			return err
		}
		for _, e := range cat.Entries() {
			fmt.Printf("%2d. %s %s\n", e.ID,
				ui.StyleTitle.Render(e.Name),
				ui.StyleSubtle.Render("("+e.NameEn+")"))
			fmt.Printf("    %s\n", ui.StyleSubtle.Render(e.Scenario))
		}
		return nil
	},
}

var frameworksShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show one framework in full",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.Join(args, " ")
		cat, err := newCatalog()
		if err != nil {
			return err
		}
		id, ok := cat.FindIDByName(name, name)
		if !ok {
			return fmt.Errorf("unknown framework: %s", name)
		}
		detail, err := cat.LoadDetail(id)
		if err != nil {
			return err
		}
		fmt.Println(ui.RenderMarkdown(frameworkMarkdown(detail), 80))
		return nil
	},
}

// frameworkMarkdown lays a parsed detail back out as display markdown.
func frameworkMarkdown(d *models.FrameworkDetail) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s (%s)\n\n", d.Name, d.NameEn)
	if d.Overview != "" {
		fmt.Fprintf(&b, "%s\n\n", d.Overview)
	}
	if d.URL != "" {
		fmt.Fprintf(&b, "Reference: %s\n\n", d.URL)
	}
	if len(d.Components) > 0 {
		b.WriteString("## Elements\n\n")
		for i, comp := range d.Components {
			fmt.Fprintf(&b, "%d. **%s (%s)**: %s\n", i+1, comp.NameNative, comp.NameEn, comp.Description)
		}
		fmt.Fprintf(&b, "\nComplexity: %s\n\n", models.ComplexityOf(d))
	}
	if len(d.Scenarios) > 0 {
		b.WriteString("## Best for\n\n")
		for _, s := range d.Scenarios {
			fmt.Fprintf(&b, "- %s\n", s)
		}
		b.WriteString("\n")
	}
	for i, ex := range d.Examples {
		if i >= 2 {
			break
		}
		fmt.Fprintf(&b, "## Example: %s\n\n%s\n\n", ex.Title, ex.Body)
	}
	return b.String()
}

func init() {
	frameworksCmd.AddCommand(frameworksListCmd)
	frameworksCmd.AddCommand(frameworksShowCmd)
	rootCmd.AddCommand(frameworksCmd)
}
