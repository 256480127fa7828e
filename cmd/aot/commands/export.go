package commands

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/aot-client/internal/constants"
	"github.com/fivetwenty-io/aot-client/internal/sink"
	"github.com/fivetwenty-io/aot-client/pkg/aot"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewExportCommand creates the export command.
func NewExportCommand() *cobra.Command {
	opts := &listOptions{}

	var (
		sinkType string
		natsURL  string
		subject  string
	)

	cmd := &cobra.Command{
		Use:   "export RESOURCE",
		Short: "Stream every record of a collection",
		Long: `Walk every page of a collection and write each record to a sink:
standard output as JSON lines, or a NATS subject named <subject>.<resource>.`,
		Example: `  aot export observations --filter node:eq:004 > observations.jsonl
  aot export metrics --sink nats --nats-url nats://localhost:4222 --subject aot`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"projects", "nodes", "sensors", "observations", "metrics"},
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := lookupResource(args[0])
			if err != nil {
				return err
			}

			config, err := sinkConfig(sinkType, natsURL, subject)
			if err != nil {
				return err
			}

			config.Writer = cmd.OutOrStdout()

			filters, err := opts.filterSet()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			out, err := sink.NewFromConfig(config)
			if err != nil {
				return err
			}

			page, err := res.list(client).List(ctx, filters)
			if err != nil {
				_ = out.Close(ctx)

				return fmt.Errorf("failed to list %s: %w", res.name, err)
			}

			count, err := sink.Export(ctx, page.Pages(aot.WithMaxPages(opts.maxPages)), res.name, out)

			closeErr := out.Close(ctx)
			if err != nil {
				return err
			}

			if closeErr != nil {
				return closeErr
			}

			logger := cliLogger()
			logger.Info().Str("resource", res.name).Int("records", count).Str("sink", string(config.Type)).Msg("export complete")

			return nil
		},
	}

	opts.addFlags(cmd, false)
	cmd.Flags().StringVar(&sinkType, "sink", string(sink.TypeStdout), "destination: stdout, nats or none")
	cmd.Flags().StringVar(&natsURL, "nats-url", "", "NATS server URL (env AOT_NATS_URL)")
	cmd.Flags().StringVar(&subject, "subject", constants.DefaultNATSSubject, "NATS subject prefix")

	return cmd
}

func sinkConfig(sinkType, natsURL, subject string) (*sink.Config, error) {
	if natsURL == "" {
		natsURL = viper.GetString("nats_url")
	}

	switch sink.Type(sinkType) {
	case sink.TypeStdout, sink.TypeNone:
		return &sink.Config{Type: sink.Type(sinkType)}, nil
	case sink.TypeNATS:
		if natsURL == "" {
			return nil, constants.ErrNATSURLRequired
		}

		return &sink.Config{
			Type: sink.TypeNATS,
			NATS: &sink.NATSConfig{
				URL:     natsURL,
				Subject: subject,
				Name:    constants.DefaultUserAgent + "-export",
			},
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s", constants.ErrUnknownSink, sinkType)
	}
}
