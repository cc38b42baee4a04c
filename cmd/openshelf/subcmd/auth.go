package subcmd

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/openshelf/openshelf/internal/catalog/auth"
)

func init() {
	RootCmd.AddCommand(NewLoginCommand())
	RootCmd.AddCommand(NewRegisterCommand())
	RootCmd.AddCommand(NewLogoutCommand())
}

type LoginCommand struct {
	Email    string
	Password string
}

func NewLoginCommand() *cobra.Command {
	loginCmd := &LoginCommand{}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate against the catalog service",
		RunE:  loginCmd.run,
	}

	cmd.Flags().StringVarP(&loginCmd.Email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&loginCmd.Password, "password", "p", "", "account password")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")

	return cmd
}

func (l *LoginCommand) run(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	orch := auth.New(app.gateway, app.sessions, terminalNavigator{}, app.logger)
	defer orch.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), app.cfg.Timeout())
	defer cancel()

	orch.Login(ctx, l.Email, l.Password)
	if msg := orch.ErrorMessage(); msg != "" {
		return errors.New(msg)
	}

	logrus.Infof("logged in as %s", l.Email)
	return nil
}

type RegisterCommand struct {
	Name         string
	Email        string
	Password     string
	Confirmation string
}

func NewRegisterCommand() *cobra.Command {
	registerCmd := &RegisterCommand{}

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a catalog account",
		RunE:  registerCmd.run,
	}

	cmd.Flags().StringVarP(&registerCmd.Name, "name", "n", "", "display name")
	cmd.Flags().StringVarP(&registerCmd.Email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&registerCmd.Password, "password", "p", "", "account password")
	cmd.Flags().StringVar(&registerCmd.Confirmation, "confirm", "", "password confirmation (defaults to --password)")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")

	return cmd
}

func (r *RegisterCommand) run(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	confirmation := r.Confirmation
	if confirmation == "" {
		confirmation = r.Password
	}

	orch := auth.New(app.gateway, app.sessions, terminalNavigator{}, app.logger)
	defer orch.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), app.cfg.Timeout())
	defer cancel()

	orch.Register(ctx, r.Name, r.Email, r.Password, confirmation)
	if msg := orch.ErrorMessage(); msg != "" {
		return errors.New(msg)
	}

	logrus.Infof("registered %s", r.Email)
	return nil
}

func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}

			orch := auth.New(app.gateway, app.sessions, terminalNavigator{}, app.logger)
			defer orch.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), app.cfg.Timeout())
			defer cancel()

			orch.Logout(ctx)
			logrus.Info("logged out")
			return nil
		},
	}
}
