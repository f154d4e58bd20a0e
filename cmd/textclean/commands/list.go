package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aalekhpatel07/text-cleaner/internal/core/services/cleaner"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transformations or presets",
		Long: `List the transformation catalog in canonical order, or the
available presets with --presets.`,
		Args: cobra.NoArgs,
		RunE: runList,
	}

	cmd.Flags().Bool("presets", false, "list presets instead of transformations")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

	if showPresets, _ := cmd.Flags().GetBool("presets"); showPresets {
		svc, err := newCleaningService(cfg, log, "cli")
		if err != nil {
			return err
		}
		fmt.Fprintln(tw, "NAME\tALIASES\tTRANSFORMATIONS\tDESCRIPTION")
		for _, p := range svc.Presets().List() {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
				p.Name,
				strings.Join(p.Aliases, ","),
				strings.Join(p.Selection.Names(), ","),
				p.Description)
		}
		return tw.Flush()
	}

	fmt.Fprintln(tw, "#\tNAME\tDESCRIPTION")
	for _, t := range cleaner.Catalog() {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", t.Priority(), t, t.Description())
	}
	return tw.Flush()
}
