package cli

import (
	"github.com/spf13/cobra"
)

// NewImportctlCommand assembles the importctl command tree
func NewImportctlCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "importctl [flags] [options]",
		Short: "importctl uploads product files and follows bulk imports.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceErrors: true,
	}
	cmd.AddCommand(
		NewCmdUpload(),
		NewCmdStatus(),
		NewCmdHistory(),
		NewCmdDelete(),
		NewCmdTemplate(),
		NewCmdBot(),
		NewCmdToken(),
	)
	return cmd
}
