package main

import (
	"fmt"
	"strconv"

	"github.com/dusk-indust/usercrud/internal/controller"
	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := a.controller()
			if err != nil {
				return err
			}
			if err := ctrl.LoadAll(cmd.Context()); err != nil {
				return err
			}
			return writeUsers(cmd.OutOrStdout(), a.format, ctrl.Users())
		},
	}
}

func newCreateCmd(a *app) *cobra.Command {
	var name, email string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := a.controller()
			if err != nil {
				return err
			}
			if err := ctrl.Submit(cmd.Context(), name, email); err != nil {
				return err
			}
			return writeUsers(cmd.OutOrStdout(), a.format, ctrl.Users())
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "user name")
	cmd.Flags().StringVar(&email, "email", "", "user email")
	return cmd
}

func newUpdateCmd(a *app) *cobra.Command {
	var name, email string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a user",
		Long:  "Loads the user, replaces the fields given by --name and --email, and saves it. Omitted fields keep their current value.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseUserID(args[0])
			if err != nil {
				return err
			}
			ctrl, err := a.controller()
			if err != nil {
				return err
			}
			if err := ctrl.LoadAll(cmd.Context()); err != nil {
				return err
			}
			user, ok := ctrl.Find(id)
			if !ok {
				return fmt.Errorf("user %d not found", id)
			}

			ctrl.BeginEdit(user)
			form := ctrl.Form()
			if cmd.Flags().Changed("name") {
				form.Name = name
			}
			if cmd.Flags().Changed("email") {
				form.Email = email
			}
			if err := ctrl.Submit(cmd.Context(), form.Name, form.Email); err != nil {
				return err
			}
			return writeUsers(cmd.OutOrStdout(), a.format, ctrl.Users())
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&email, "email", "", "new email")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user",
		Long:  "Deletes the user after asking for confirmation on stdin. --yes skips the question.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseUserID(args[0])
			if err != nil {
				return err
			}
			ctrl, err := a.controller()
			if err != nil {
				return err
			}

			var confirm controller.Confirmer = controller.PromptConfirmer{
				In:  cmd.InOrStdin(),
				Out: cmd.ErrOrStderr(),
			}
			if yes {
				confirm = controller.Always(true)
			}

			deleted, err := ctrl.Delete(cmd.Context(), id, confirm)
			if err != nil {
				return err
			}
			if !deleted {
				fmt.Fprintln(cmd.ErrOrStderr(), "Cancelled.")
				return nil
			}
			return writeUsers(cmd.OutOrStdout(), a.format, ctrl.Users())
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "delete without asking")
	return cmd
}

func (a *app) controller() (*controller.UserList, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	return controller.New(a.client(cfg)), nil
}

func parseUserID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid user id %q", arg)
	}
	return id, nil
}
