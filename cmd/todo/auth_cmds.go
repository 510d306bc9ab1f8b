package main

import (
	"context"
	"errors"
	"fmt"

	"todoTracker/internal/form"
	"todoTracker/internal/session"

	"github.com/spf13/cobra"
)

func (c *cli) signUpCmd() *cobra.Command {
	var fields form.SignUpFields

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Регистрация нового пользователя",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if fields.Password == "" {
				password, err := c.readLine("Пароль: ")
				if err != nil {
					return err
				}
				fields.Password = password
			}

			var id *session.Identity
			f := form.New(fields)
			err := f.Submit(cmd.Context(), func(ctx context.Context, fields form.SignUpFields) (err error) {
				if id, err = c.client.SignUp(ctx, fields); err != nil {
					return err
				}
				return c.holder.Set(id)
			})
			if err != nil {
				return c.explain(err)
			}

			fmt.Fprintf(c.out, "Добро пожаловать, %s\n", id.Name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&fields.Name, "name", "n", "", "имя")
	cmd.Flags().StringVarP(&fields.Email, "email", "e", "", "email")
	cmd.Flags().StringVarP(&fields.Password, "password", "p", "", "пароль, если не задан - спросим")
	return cmd
}

func (c *cli) signInCmd() *cobra.Command {
	var fields form.SignInFields

	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Вход по email и паролю",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if fields.Password == "" {
				password, err := c.readLine("Пароль: ")
				if err != nil {
					return err
				}
				fields.Password = password
			}

			var id *session.Identity
			f := form.New(fields)
			err := f.Submit(cmd.Context(), func(ctx context.Context, fields form.SignInFields) (err error) {
				if id, err = c.client.SignIn(ctx, fields); err != nil {
					return err
				}
				return c.holder.Set(id)
			})
			if err != nil {
				return c.explain(err)
			}

			fmt.Fprintf(c.out, "Вы вошли как %s\n", id.Email)
			return nil
		},
	}

	cmd.Flags().StringVarP(&fields.Email, "email", "e", "", "email")
	cmd.Flags().StringVarP(&fields.Password, "password", "p", "", "пароль, если не задан - спросим")
	return cmd
}

func (c *cli) signOutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "Выход, локальная сессия удаляется",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// сессия на сервере могла уже истечь, локальную чистим в любом случае
			err := c.client.SignOut(cmd.Context())
			if err != nil && !errors.Is(err, session.ErrNoSession) {
				return err
			}
			if err := c.holder.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(c.out, "Вы вышли")
			return nil
		},
	}
}
