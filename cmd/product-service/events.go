package main

import (
	"context"
	"encoding/json"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"productmanagement/pkg/events"
)

var eventsGroup string

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect catalog change events",
}

var eventsTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Print catalog change events from the configured topic as JSON lines",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer logger.Sync()

		cc := events.DefaultConsumerConfig(eventsGroup)
		cc.Brokers = cfg.Events.Brokers
		cc.Topic = cfg.Events.Topic
		consumer, err := events.NewKafkaConsumer(cc)
		if err != nil {
			return err
		}
		defer consumer.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		enc := json.NewEncoder(cmd.OutOrStdout())
		return consumer.Run(ctx, func(_ context.Context, event *events.Event) error {
			return enc.Encode(event)
		})
	},
}

func init() {
	eventsTailCmd.Flags().StringVar(&eventsGroup, "group", "product-service-tail", "consumer group id")
	eventsCmd.AddCommand(eventsTailCmd)
}
