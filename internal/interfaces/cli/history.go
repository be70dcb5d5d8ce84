package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/storefront/backoffice/internal/application/importtracker"
	"github.com/storefront/backoffice/internal/domain/bulk"
)

type HistoryOptions struct {
	GlobalOptions
	OutputOptions

	Limit int
}

func NewCmdHistory() *cobra.Command {
	o := &HistoryOptions{
		GlobalOptions: DefaultGlobalOptions(),
		Limit:         importtracker.DefaultHistoryLimit,
	}
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent imports, newest first.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, o.Complete, o.Validate, func() error {
				return o.Run(cmd.Context(), cmd.OutOrStdout())
			})
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *HistoryOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)
	o.OutputOptions.Bind(fs)
	fs.IntVarP(&o.Limit, "limit", "l", o.Limit, "Number of entries to fetch")
}

func (o *HistoryOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	if o.Limit <= 0 {
		return fmt.Errorf("limit must be positive")
	}
	return o.OutputOptions.Validate()
}

func (o *HistoryOptions) Run(ctx context.Context, out io.Writer) error {
	tracker := importtracker.New(o.Client(), importtracker.Config{
		HistoryLimit: o.Limit,
		Language:     o.Lang(),
		Logger:       o.Logger(),
	})
	defer tracker.Close()

	if err := tracker.RefreshHistory(ctx); err != nil {
		return err
	}
	rows := tracker.History()
	entries := make([]bulk.ImportHistoryEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, r.ImportHistoryEntry)
	}
	return o.print(out, entries, func(w *tabwriter.Writer) {
		printHistoryTable(w, entries, o.Lang())
	})
}

type DeleteOptions struct {
	GlobalOptions
}

func NewCmdDelete() *cobra.Command {
	o := &DeleteOptions{GlobalOptions: DefaultGlobalOptions()}
	cmd := &cobra.Command{
		Use:   "delete IMPORT_ID",
		Short: "Delete an import log from the history.",
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

func (o *DeleteOptions) Run(ctx context.Context, out io.Writer, importID string) error {
	if err := o.Client().DeleteHistory(ctx, importID); err != nil {
		return err
	}
	_, err := fmt.Fprintln(out, bulk.Localize(o.Lang(), bulk.MsgImportLogDeleted))
	return err
}
