package command

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/oy3o/nio/charset"
)

// List prints the supported charsets.
var List = &cobra.Command{
	Use:                   "list [--aliases]",
	Short:                 "Lists the supported character sets.",
	DisableFlagsInUseLine: true,
	Args:                  cobra.NoArgs,
	RunE:                  commandList,
}

func init() {
	List.Flags().BoolP("aliases", "a", false, "Show the aliases of each charset.")
}

func commandList(cmd *cobra.Command, args []string) error {
	names := charset.Names()
	if !cfg.GetBool("aliases") {
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.Header([]string{"Name", "Aliases"})
	for _, name := range names {
		cs, err := charset.ForName(name)
		if err != nil {
			return err
		}
		if err := table.Append([]string{name, strings.Join(cs.Aliases(), ", ")}); err != nil {
			return err
		}
	}
	return table.Render()
}
