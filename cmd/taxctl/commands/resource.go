package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/taxprep/backend/pkg/client"
)

// resourceCmd builds "taxctl <name> list|get|create|update|delete|action"
func resourceCmd(name string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name,
		Short: "Manage " + strings.ReplaceAll(name, "-", " "),
	}
	cmd.AddCommand(
		listCmd(name),
		getCmd(name),
		createCmd(name),
		updateCmd(name),
		deleteCmd(name),
		actionCmd(name),
	)
	return cmd
}

func listCmd(name string) *cobra.Command {
	var params client.ListParams
	var filters []string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List " + name,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseFilters(filters)
			if err != nil {
				return err
			}
			params.Filters = parsed
			ctx, cancel := commandContext(cmd)
			defer cancel()

			page, err := api.Admin(name).List(ctx, params)
			if err != nil {
				return describe(err)
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"items":      page.Items,
				"pagination": page.Pagination,
			})
		},
	}
	cmd.Flags().IntVar(&params.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&params.Limit, "limit", 20, "page size")
	cmd.Flags().StringVar(&params.Search, "search", "", "search text")
	cmd.Flags().StringVar(&params.SortBy, "sort-by", "", "sort field")
	cmd.Flags().StringVar(&params.SortOrder, "sort-order", "", "asc or desc")
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "extra filter as key=value, repeatable")
	return cmd
}

func getCmd(name string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one of " + name,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()
			item, err := api.Admin(name).Get(ctx, args[0])
			if err != nil {
				return describe(err)
			}
			return printJSON(cmd.OutOrStdout(), item)
		},
	}
}

func createCmd(name string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "create -f <file>",
		Short: "Create one of " + name + " from a JSON or YAML document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readDocument(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			item, err := api.Admin(name).Create(ctx, body)
			if err != nil {
				return describe(err)
			}
			return printJSON(cmd.OutOrStdout(), item)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "document to send, - for stdin")
	return cmd
}

func updateCmd(name string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "update <id> -f <file>",
		Short: "Replace one of " + name + " with a JSON or YAML document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readDocument(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			item, err := api.Admin(name).Update(ctx, args[0], body)
			if err != nil {
				return describe(err)
			}
			return printJSON(cmd.OutOrStdout(), item)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "document to send, - for stdin")
	return cmd
}

func deleteCmd(name string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one of " + name,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()
			if err := api.Admin(name).Delete(ctx, args[0]); err != nil {
				return describe(err)
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "deleted %s %s\n", name, args[0])
			return err
		},
	}
}

func actionCmd(name string) *cobra.Command {
	return &cobra.Command{
		Use:     "action <id> <action>",
		Short:   "Run an action on one of " + name,
		Example: "  taxctl invoices action 5b1c... send\n  taxctl tax-organizers action 5b1c... submit",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()
			item, err := api.Admin(name).Action(ctx, args[0], args[1])
			if err != nil {
				return describe(err)
			}
			return printJSON(cmd.OutOrStdout(), item)
		},
	}
}

func parseFilters(raw []string) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(raw))
	for _, f := range raw {
		k, v, ok := strings.Cut(f, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("filter %q is not key=value", f)
		}
		out[k] = v
	}
	return out, nil
}

// readDocument reads a JSON or YAML object from path, or from stdin when path is "-"
func readDocument(stdin io.Reader, path string) (map[string]any, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	// JSON is a subset of YAML, so one decoder covers both
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%s is empty", path)
	}
	return doc, nil
}
