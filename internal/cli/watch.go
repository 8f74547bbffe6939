package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iliyamo/combat-tiers/internal/config"
	"github.com/iliyamo/combat-tiers/internal/queue"
)

func (a *app) newWatchCmd() *cobra.Command {
	events := config.LoadEventsConfig()

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream player change events from RabbitMQ",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.requireSession(); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
			out := a.output(cmd)
			err := queue.Consume(ctx, events.URL, events.Queue, func(ev queue.PlayerEvent) error {
				if a.cfg.Output == "json" {
					out.Print(ev)
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), ev.String())
				}
				return nil
			}, logger)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&events.URL, "amqp-url", events.URL, "Broker URL (env: RABBITMQ_URL, AMQP_URL)")
	cmd.Flags().StringVar(&events.Queue, "queue", events.Queue, "Queue name (env: EVENTS_QUEUE)")
	return cmd
}
