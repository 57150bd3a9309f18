// Package commands implements taxctl, the admin command line for the tax
// consultancy API.
package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/taxprep/backend/pkg/client"
)

const (
	envServer = "TAXCTL_SERVER"
	envToken  = "TAXCTL_TOKEN"
)

var (
	serverURL string
	token     string
	timeout   time.Duration

	api *client.Client
)

// Execute runs the root command
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "taxctl",
		Short:        "Manage the tax consultancy site from the command line",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if serverURL == "" {
				serverURL = envOr(envServer, "http://localhost:8080/api/v1")
			}
			if token == "" {
				token = os.Getenv(envToken)
			}
			api = client.New(serverURL, client.WithToken(token))
			return nil
		},
	}

	root.PersistentFlags().StringVar(&serverURL, "server", "", "API base URL (default $"+envServer+" or http://localhost:8080/api/v1)")
	root.PersistentFlags().StringVar(&token, "token", "", "access token (default $"+envToken+")")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "time limit for the whole command")

	root.AddCommand(loginCmd(), uploadCmd(), seedCmd(), organizerCmd())
	for _, name := range client.AdminResources {
		root.AddCommand(resourceCmd(name))
	}
	return root
}

// commandContext bounds a command by --timeout
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, timeout)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// describe turns an API error into something readable on a terminal
func describe(err error) error {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	msg := apiErr.Message
	for _, fe := range apiErr.Errors {
		msg += fmt.Sprintf("\n  %s: %s", fe.Field, fe.Message)
	}
	if apiErr.Code != "" {
		return fmt.Errorf("%s (%s)", msg, apiErr.Code)
	}
	return fmt.Errorf("%s", msg)
}
