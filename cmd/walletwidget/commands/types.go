package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	walletwidget "github.com/amarshat/walletwidget"
)

func typesCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "types",
		Short: "List the registered widget types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			descs := walletwidget.DefaultRegistry().Descriptors()
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(descs)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TYPE\tNAME\tENDPOINT\tSIZE")
			for _, d := range descs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%sx%s\n", d.TypeID, d.DisplayName, d.DataEndpoint, d.DefaultWidth, d.DefaultHeight)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
