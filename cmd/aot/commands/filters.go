package commands

import (
	"fmt"
	"strings"

	"github.com/fivetwenty-io/aot-client/pkg/aot"
	"github.com/spf13/cobra"
)

const (
	filterPartsWithOp    = 3
	filterPartsShorthand = 2
)

// listOptions holds the flags shared by list and export commands.
type listOptions struct {
	filters  []string
	sets     []string
	page     int
	size     int
	all      bool
	maxPages int
}

func (o *listOptions) addFlags(cmd *cobra.Command, paging bool) {
	cmd.Flags().StringArrayVar(&o.filters, "filter", nil, "add a constraint, field:op:value (repeatable, appends)")
	cmd.Flags().StringArrayVar(&o.sets, "set", nil, "set a constraint, field:op:value (repeatable, replaces the field)")
	cmd.Flags().IntVar(&o.size, "size", 0, "page size")
	cmd.Flags().IntVar(&o.maxPages, "max-pages", 0, "stop after this many pages (0 means no limit)")

	if paging {
		cmd.Flags().IntVar(&o.page, "page", 0, "page number")
		cmd.Flags().BoolVar(&o.all, "all", false, "follow next links and fetch every page")
	}
}

func (o *listOptions) filterSet() (*aot.FilterSet, error) {
	return BuildFilterSet(o.filters, o.sets, o.page, o.size)
}

// ParseFilter parses a command-line constraint. The usual form is
// field:op:value; the value may itself contain colons. The two-part form
// field:value sets a single value; the words true and false, in any case,
// are sent as True/False and every other value is sent verbatim.
func ParseFilter(arg string) (*aot.FilterSet, error) {
	parts := strings.SplitN(arg, ":", filterPartsWithOp)

	for _, part := range parts[:min(len(parts), filterPartsWithOp-1)] {
		if strings.TrimSpace(part) == "" {
			return nil, fmt.Errorf("%w: %q", aot.ErrInvalidFilterFormat, arg)
		}
	}

	switch len(parts) {
	case filterPartsWithOp:
		return aot.NewFilter(parts[0], parts[1], parts[2]), nil
	case filterPartsShorthand:
		switch {
		case strings.EqualFold(parts[1], "true"):
			return aot.NewFilter(parts[0], true), nil
		case strings.EqualFold(parts[1], "false"):
			return aot.NewFilter(parts[0], false), nil
		default:
			return aot.NewFilter(parts[0], parts[1]), nil
		}
	default:
		return nil, fmt.Errorf("%w: %q", aot.ErrInvalidFilterFormat, arg)
	}
}

// BuildFilterSet merges filters with append semantics, then sets with
// replace semantics, then page and size.
func BuildFilterSet(filters, sets []string, page, size int) (*aot.FilterSet, error) {
	fs := aot.NewFilterSet()

	for _, arg := range filters {
		parsed, err := ParseFilter(arg)
		if err != nil {
			return nil, err
		}

		fs.AndSet(parsed)
	}

	for _, arg := range sets {
		parsed, err := ParseFilter(arg)
		if err != nil {
			return nil, err
		}

		fs.OrSet(parsed)
	}

	if page > 0 {
		fs.OrSet(aot.NewFilter(aot.FieldPage, page))
	}

	if size > 0 {
		fs.OrSet(aot.NewFilter(aot.FieldSize, size))
	}

	return fs, nil
}
