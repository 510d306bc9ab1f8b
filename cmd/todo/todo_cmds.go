package main

import (
	"context"
	"fmt"
	"strings"

	"todoTracker/internal/editsession"
	"todoTracker/internal/models/todo"

	"github.com/spf13/cobra"
)

// todoFlags поля окна редактирования в виде флагов
type todoFlags struct {
	title       string
	description string
	noDesc      bool
	due         string
	color       string
}

func (f *todoFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "заголовок")
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "описание")
	cmd.Flags().BoolVar(&f.noDesc, "no-description", false, "убрать описание")
	cmd.Flags().StringVar(&f.due, "due", "", "срок, YYYY-MM-DD")
	cmd.Flags().StringVarP(&f.color, "color", "c", "", "цвет: номер 1..6 или hex из палитры")
}

// apply переносит в сессию только явно заданные флаги
func (f *todoFlags) apply(cmd *cobra.Command, s *editsession.Session) error {
	flags := cmd.Flags()

	if flags.Changed("title") {
		s.SetTitle(f.title)
	}
	if flags.Changed("description") {
		d := f.description
		s.SetDescription(&d)
	}
	if f.noDesc {
		s.SetDescription(nil)
	}
	if flags.Changed("due") {
		date, err := todo.ParseDate(f.due)
		if err != nil {
			return fmt.Errorf("срок %q: ожидается YYYY-MM-DD", f.due)
		}
		s.SetEndDate(date)
	}
	if flags.Changed("color") {
		color, err := todo.ParseColor(f.color)
		if err != nil {
			return err
		}
		if err := s.SetColor(color); err != nil {
			return err
		}
	}
	return nil
}

func (c *cli) listCmd() *cobra.Command {
	var completed, all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Показать задачи",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p := newPrinter(c.out)

			if all {
				board, err := c.controller.Board(ctx)
				if err != nil {
					return err
				}
				p.list("Активные", board.Pending)
				p.list("Выполненные", board.Completed)
				return nil
			}

			if completed {
				list, err := c.controller.Completed(ctx)
				if err != nil {
					return err
				}
				p.list("Выполненные", list)
				return nil
			}

			list, err := c.controller.Pending(ctx)
			if err != nil {
				return err
			}
			p.list("Активные", list)
			return nil
		},
	}

	cmd.Flags().BoolVar(&completed, "completed", false, "только выполненные")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "оба списка")
	return cmd
}

func (c *cli) addCmd() *cobra.Command {
	var f todoFlags

	cmd := &cobra.Command{
		Use:   "add [заголовок]",
		Short: "Новая задача",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := editsession.New(c.controller)
			s.OpenCreate()

			if len(args) == 1 {
				s.SetTitle(strings.TrimSpace(args[0]))
			}
			if err := f.apply(cmd, s); err != nil {
				return err
			}

			if err := s.Save(cmd.Context()); err != nil {
				return c.explain(err)
			}
			fmt.Fprintln(c.out, "Задача добавлена")
			return nil
		},
	}

	f.register(cmd)
	return cmd
}

func (c *cli) editCmd() *cobra.Command {
	var f todoFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Изменить задачу",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := c.find(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			s := editsession.New(c.controller)
			s.OpenEdit(t)
			if err := f.apply(cmd, s); err != nil {
				return err
			}

			if err := s.Save(cmd.Context()); err != nil {
				return c.explain(err)
			}
			fmt.Fprintf(c.out, "Задача %s обновлена\n", shortID(t))
			return nil
		},
	}

	f.register(cmd)
	return cmd
}

func (c *cli) toggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Отметить выполненной или вернуть в активные",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := c.find(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if _, err := c.controller.ToggleCompleted(cmd.Context(), t.ID, !t.Completed); err != nil {
				return err
			}
			if t.Completed {
				fmt.Fprintf(c.out, "Задача %s снова активна\n", shortID(t))
			} else {
				fmt.Fprintf(c.out, "Задача %s выполнена\n", shortID(t))
			}
			return nil
		},
	}
}

func (c *cli) removeCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Удалить задачу",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := c.find(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			s := editsession.New(c.controller)
			s.OpenEdit(t)

			confirmer := editsession.ConfirmFunc(c.confirm)
			if yes {
				confirmer = func(ctx context.Context, prompt string) (bool, error) { return true, nil }
			}

			deleted, err := s.Delete(cmd.Context(), confirmer)
			if err != nil {
				return err
			}
			if !deleted {
				fmt.Fprintln(c.out, "Отменено")
				return nil
			}
			fmt.Fprintf(c.out, "Задача %s удалена\n", shortID(t))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "не спрашивать подтверждение")
	return cmd
}
