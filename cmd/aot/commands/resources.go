package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/fivetwenty-io/aot-client/internal/constants"
	"github.com/fivetwenty-io/aot-client/pkg/aot"
	"github.com/spf13/cobra"
)

// resource describes one API collection exposed by the CLI.
type resource struct {
	name    string
	aliases []string
	short   string
	long    string

	// idName is the argument name of the get command; empty when the
	// collection has no detail endpoint.
	idName string

	list func(aot.Client) aot.ListClient
	get  func(ctx context.Context, client aot.Client, id string) (*aot.Response, error)
}

func resources() []resource {
	return []resource{
		{
			name:    "projects",
			aliases: []string{"project"},
			short:   "Query projects",
			long:    "List and inspect projects, the highest level in the hierarchy of the system",
			idName:  "SLUG",
			list:    func(c aot.Client) aot.ListClient { return c.Projects() },
			get: func(ctx context.Context, c aot.Client, id string) (*aot.Response, error) {
				return c.Projects().Get(ctx, id)
			},
		},
		{
			name:    "nodes",
			aliases: []string{"node"},
			short:   "Query nodes",
			long:    "List and inspect nodes, the physical instruments that carry sensors",
			idName:  "VSN",
			list:    func(c aot.Client) aot.ListClient { return c.Nodes() },
			get: func(ctx context.Context, c aot.Client, id string) (*aot.Response, error) {
				return c.Nodes().Get(ctx, id)
			},
		},
		{
			name:    "sensors",
			aliases: []string{"sensor"},
			short:   "Query sensors",
			long:    "List and inspect sensors, the components onboard nodes that record observations",
			idName:  "PATH",
			list:    func(c aot.Client) aot.ListClient { return c.Sensors() },
			get: func(ctx context.Context, c aot.Client, id string) (*aot.Response, error) {
				return c.Sensors().Get(ctx, id)
			},
		},
		{
			name:    "observations",
			aliases: []string{"obs"},
			short:   "Query observations",
			long:    "List the data collected by sensors",
			list:    func(c aot.Client) aot.ListClient { return c.Observations() },
		},
		{
			name:  "metrics",
			short: "Query metrics",
			long:  "List telemetry about the operational state of the nodes",
			list:  func(c aot.Client) aot.ListClient { return c.Metrics() },
		},
	}
}

func lookupResource(name string) (resource, error) {
	for _, res := range resources() {
		if res.name == name {
			return res, nil
		}

		for _, alias := range res.aliases {
			if alias == name {
				return res, nil
			}
		}
	}

	return resource{}, fmt.Errorf("%w: %s", constants.ErrUnknownResource, name)
}

// NewResourceCommands creates one command group per API collection.
func NewResourceCommands() []*cobra.Command {
	var cmds []*cobra.Command

	for _, res := range resources() {
		cmds = append(cmds, newResourceCommand(res))
	}

	return cmds
}

func newResourceCommand(res resource) *cobra.Command {
	cmd := &cobra.Command{
		Use:     res.name,
		Aliases: res.aliases,
		Short:   res.short,
		Long:    res.long,
	}

	cmd.AddCommand(newListCommand(res))

	if res.get != nil {
		cmd.AddCommand(newGetCommand(res))
	}

	return cmd
}

func newListCommand(res resource) *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List " + res.name,
		Long:  fmt.Sprintf("List %s, optionally filtered and across every page. --max-pages implies --all", res.name),
		Example: fmt.Sprintf(`  aot %s list --filter project:eq:chicago --size 50
  aot %s list --all --max-pages 5 --output json`, res.name, res.name),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat()
			if err != nil {
				return err
			}

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

			page, err := res.list(client).List(ctx, filters)
			if err != nil {
				return fmt.Errorf("failed to list %s: %w", res.name, err)
			}

			return writeListing(ctx, cmd.OutOrStdout(), format, page, opts)
		},
	}

	opts.addFlags(cmd, true)

	return cmd
}

// listing is the rendered form of one or more pages.
type listing struct {
	Data []aot.Record `json:"data"           yaml:"data"`
	Meta *aot.Meta    `json:"meta,omitempty" yaml:"meta,omitempty"`
}

type detail struct {
	Data aot.Record `json:"data" yaml:"data"`
}

func writeListing(ctx context.Context, w io.Writer, format string, page *aot.Page, opts *listOptions) error {
	// A page limit implies walking.
	if !opts.all && opts.maxPages <= 0 {
		if ok, err := writeStructured(w, format, listing{Data: page.Data(), Meta: page.Meta()}); ok {
			return err
		}

		return renderRecords(w, page.Data())
	}

	var records []aot.Record

	it := page.Pages(aot.WithMaxPages(opts.maxPages))

	err := it.ForEach(ctx, func(p *aot.Page) error {
		records = append(records, p.Data()...)

		return nil
	})
	if err != nil {
		return err
	}

	if records == nil {
		records = []aot.Record{}
	}

	if ok, err := writeStructured(w, format, listing{Data: records}); ok {
		return err
	}

	return renderRecords(w, records)
}

func newGetCommand(res resource) *cobra.Command {
	return &cobra.Command{
		Use:   "get " + res.idName,
		Short: "Get " + res.name[:len(res.name)-1] + " details",
		Long:  fmt.Sprintf("Display a single record of %s by %s", res.name, res.idName),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat()
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

			resp, err := res.get(ctx, client, args[0])
			if err != nil {
				return fmt.Errorf("failed to get %s: %w", args[0], err)
			}

			if ok, err := writeStructured(cmd.OutOrStdout(), format, detail{Data: resp.Data()}); ok {
				return err
			}

			return renderRecord(cmd.OutOrStdout(), resp.Data())
		},
	}
}
