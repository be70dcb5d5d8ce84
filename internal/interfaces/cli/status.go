package cli

import (
	"context"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type StatusOptions struct {
	GlobalOptions
	OutputOptions
}

func NewCmdStatus() *cobra.Command {
	o := &StatusOptions{GlobalOptions: DefaultGlobalOptions()}
	cmd := &cobra.Command{
		Use:   "status IMPORT_ID",
		Short: "Show the live status of one import.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, o.Complete, o.Validate, func() error {
				return o.Run(cmd.Context(), cmd.OutOrStdout(), args[0])
			})
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *StatusOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)
	o.OutputOptions.Bind(fs)
}

func (o *StatusOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	return o.OutputOptions.Validate()
}

func (o *StatusOptions) Run(ctx context.Context, out io.Writer, importID string) error {
	job, err := o.Client().Status(ctx, importID)
	if err != nil {
		return err
	}
	return o.print(out, job, func(w *tabwriter.Writer) {
		printJobTable(w, job, o.Lang())
	})
}
