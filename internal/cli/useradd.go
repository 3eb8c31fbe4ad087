package cli

import (
	"bufio"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/studentdesk/internal/config"
	"github.com/mcoot/studentdesk/internal/factory"
	"github.com/mcoot/studentdesk/internal/services/auth"
	"github.com/mcoot/studentdesk/internal/services/validation"
)

func newUserAddCmd(opts *rootOptions) *cobra.Command {
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "useradd USERNAME",
		Short: "Create a login account",
		Long: `Create a login account in the configured storage backend.

The password is read from the first line of stdin, so it never appears in
shell history or the process list.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if cfg.StorageType == config.StorageTypeMemory {
				return errors.New("useradd needs a persistent backend: set STORAGE_TYPE to redis or postgres")
			}

			if !passwordStdin {
				return errors.New("--password-stdin is required")
			}
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("read password: %w", err)
			}
			password := strings.TrimRight(line, "\r\n")

			form, err := validation.ValidateRegister(url.Values{
				"username": {args[0]},
				"password": {password},
			})
			if err != nil {
				return err
			}

			app, err := factory.New(cmd.Context(), factory.ConfigFrom(cfg, nil))
			if err != nil {
				return err
			}
			defer app.Close()

			user, err := app.AuthService.Register(cmd.Context(), form.Username, form.Password)
			if err != nil {
				if errors.Is(err, auth.ErrUsernameExists) {
					return fmt.Errorf("username %q already exists", form.Username)
				}
				return err
			}

			NewOutput(opts.output, cmd.OutOrStdout()).Print(UserResult{
				ID:       int64(user.ID),
				Username: user.Username,
			})
			return nil
		},
	}

	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")

	return cmd
}
