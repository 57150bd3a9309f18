package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func loginCmd() *cobra.Command {
	var email, password string
	var quiet bool
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and print an access token",
		Long: "Sign in with an admin account. Export the printed token as " + envToken +
			" to use it with later commands.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("TAXCTL_PASSWORD")
			}
			if email == "" || password == "" {
				return fmt.Errorf("--email and --password (or $TAXCTL_PASSWORD) are required")
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			session, err := api.Login(ctx, email, password)
			if err != nil {
				return describe(err)
			}
			if quiet {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), session.AccessToken)
				return err
			}
			return printJSON(cmd.OutOrStdout(), session)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&password, "password", "", "admin password")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "print only the access token")
	return cmd
}
