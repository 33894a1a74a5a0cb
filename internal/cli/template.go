package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ecowas-hr/application-processor/internal/export"
)

var templateCmd = &cobra.Command{
	Use:   "template <path>",
	Short: "Write an empty results spreadsheet with the standard header",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := export.NewService(cfg.Export.SheetName, logger).WriteTemplate(args[0]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "template written:", args[0])
		return nil
	},
}
