package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/amarshat/walletwidget/lib/coverage"
)

func lintCmd() *cobra.Command {
	var typesDir string
	cmd := &cobra.Command{
		Use:   "lint [packages]",
		Short: "Check that every widget type has exactly one renderer",
		Long: `Lint parses the package declaring the TypeID constants and the renderer
packages (default ./...) and reports types without a Typed registration,
registrations for unknown types, and duplicates.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := coverage.New().Check(typesDir, args...)
			if err != nil {
				return err
			}
			if err := report.Print(cmd.OutOrStdout()); err != nil {
				return err
			}
			if !report.OK() {
				return errors.New("widget renderer coverage incomplete")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&typesDir, "types", ".", "directory of the package declaring TypeID constants")
	return cmd
}
