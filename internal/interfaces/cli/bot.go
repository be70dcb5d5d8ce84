package cli

import (
	"context"
	"fmt"
	"io"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/storefront/backoffice/internal/application/importtracker"
	"github.com/storefront/backoffice/internal/domain/bulk"
)

func NewCmdBot() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bot",
		Short: "Inspect the import bot panel.",
	}
	cmd.AddCommand(newCmdBotStatus(), newCmdBotHistory(), newCmdBotDelete())
	return cmd
}

type BotOptions struct {
	GlobalOptions
	OutputOptions

	Watch        bool
	PollInterval time.Duration
	Limit        int
}

func defaultBotOptions() *BotOptions {
	return &BotOptions{
		GlobalOptions: DefaultGlobalOptions(),
		PollInterval:  importtracker.DefaultBotPollInterval,
		Limit:         importtracker.DefaultBotHistoryLimit,
	}
}

func (o *BotOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	if o.PollInterval <= 0 || o.Limit <= 0 {
		return fmt.Errorf("interval and limit must be positive")
	}
	return o.OutputOptions.Validate()
}

func (o *BotOptions) panel() *importtracker.BotPanel {
	return importtracker.NewBotPanel(o.Client(), importtracker.Config{
		PollInterval: o.PollInterval,
		HistoryLimit: o.Limit,
		Language:     o.Lang(),
		Logger:       o.Logger(),
	})
}

func newCmdBotStatus() *cobra.Command {
	o := defaultBotOptions()
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show bot and importer counters.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, o.Complete, o.Validate, func() error {
				return o.RunStatus(cmd.Context(), cmd.OutOrStdout())
			})
		},
		SilenceUsage: true,
	}
	o.bindStatus(cmd.Flags())
	return cmd
}

func (o *BotOptions) bindStatus(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)
	o.OutputOptions.Bind(fs)
	fs.BoolVarP(&o.Watch, "watch", "w", o.Watch, "Keep refreshing until interrupted")
	fs.DurationVar(&o.PollInterval, "interval", o.PollInterval, "Refresh interval with --watch")
}

func (o *BotOptions) RunStatus(ctx context.Context, out io.Writer) error {
	p := o.panel()
	if !o.Watch {
		if err := p.RefreshStatus(ctx); err != nil {
			return err
		}
		return o.printStatus(out, p.Status())
	}

	var mu sync.Mutex
	p.OnChange(func() {
		status := p.Status()
		if status == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		if err := o.printStatus(out, status); err != nil {
			o.Logger().Sugar().Warnw("Failed to print bot status", "error", err)
		}
	})
	p.Start(ctx)
	<-ctx.Done()
	p.Stop()
	return nil
}

func (o *BotOptions) printStatus(out io.Writer, status *bulk.BotStatus) error {
	return o.print(out, status, func(w *tabwriter.Writer) {
		printBotStatusTable(w, status)
	})
}

func newCmdBotHistory() *cobra.Command {
	o := defaultBotOptions()
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List imports with their processing time.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, o.Complete, o.Validate, func() error {
				return o.RunHistory(cmd.Context(), cmd.OutOrStdout())
			})
		},
		SilenceUsage: true,
	}
	o.GlobalOptions.Bind(cmd.Flags())
	o.OutputOptions.Bind(cmd.Flags())
	cmd.Flags().IntVarP(&o.Limit, "limit", "l", o.Limit, "Number of entries to fetch")
	return cmd
}

func (o *BotOptions) RunHistory(ctx context.Context, out io.Writer) error {
	p := o.panel()
	if err := p.LoadHistory(ctx); err != nil {
		return err
	}
	return o.printRows(out, p.History())
}

func (o *BotOptions) printRows(out io.Writer, rows []importtracker.HistoryRow) error {
	entries := make([]bulk.ImportHistoryEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, r.ImportHistoryEntry)
	}
	return o.print(out, entries, func(w *tabwriter.Writer) {
		printHistoryTable(w, entries, o.Lang())
	})
}

func newCmdBotDelete() *cobra.Command {
	o := defaultBotOptions()
	cmd := &cobra.Command{
		Use:   "delete IMPORT_ID",
		Short: "Delete an import log through the bot panel.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, o.Complete, o.Validate, func() error {
				return o.RunDelete(cmd.Context(), cmd.OutOrStdout(), args[0])
			})
		},
		SilenceUsage: true,
	}
	o.GlobalOptions.Bind(cmd.Flags())
	return cmd
}

func (o *BotOptions) RunDelete(ctx context.Context, out io.Writer, importID string) error {
	if err := o.panel().DeleteHistory(ctx, importID); err != nil {
		return err
	}
	_, err := fmt.Fprintln(out, bulk.Localize(o.Lang(), bulk.MsgImportLogDeleted))
	return err
}
