package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"lexron-admin/internal/config"
	"lexron-admin/internal/console"

	"github.com/spf13/cobra"
)

// describeCmd prints the settings the console would start with
var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Show the backend and screens the console would use",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return describe(cmd.OutOrStdout(), loadConfig())
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
}

func describe(out io.Writer, cfg *config.Config) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	key := "from environment"
	if cfg.Backend.PublicKey == config.DefaultBackendKey {
		key = "built-in fallback"
	}
	generator := "enabled (" + cfg.GenAI.Model + ")"
	if cfg.GenAI.APIKey == "" {
		generator = "disabled, API_KEY not set"
	}

	fmt.Fprintf(w, "Backend\t%s\n", cfg.Backend.URL)
	fmt.Fprintf(w, "Public key\t%s\n", key)
	fmt.Fprintf(w, "Descriptions\t%s\n", generator)
	fmt.Fprintf(w, "Log file\t%s\n", cfg.Console.LogFile)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "SCREEN\tPATH")
	for _, item := range console.Menu {
		if item.Path != "" {
			fmt.Fprintf(w, "%s\t%s\n", item.Label, item.Path)
		}
		for _, child := range item.Children {
			fmt.Fprintf(w, "%s\t%s\n", child.Label, child.Path)
		}
	}
	return w.Flush()
}
