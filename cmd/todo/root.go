package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"todoTracker/internal/config"
	"todoTracker/internal/form"
	"todoTracker/internal/logger"
	"todoTracker/internal/models/todo"
	"todoTracker/internal/querycache"
	"todoTracker/internal/remote"
	"todoTracker/internal/session"
	"todoTracker/internal/todos"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// cli зависимости, общие для всех подкоманд; собираются в PersistentPreRunE
type cli struct {
	in  *bufio.Reader
	out io.Writer

	configPath  string
	serverURL   string
	sessionFile string
	verbose     bool

	holder     *session.Holder
	client     *remote.Client
	controller *todos.Controller
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	c := &cli{in: bufio.NewReader(in), out: out}

	root := &cobra.Command{
		Use:           "todo",
		Short:         "Список задач в терминале",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
	}
	root.SetOut(out)

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "файл настроек клиента (yaml)")
	root.PersistentFlags().StringVar(&c.serverURL, "server", "", "адрес сервера, по умолчанию TODO_SERVER_URL")
	root.PersistentFlags().StringVar(&c.sessionFile, "session", "", "файл сессии, по умолчанию ~/.config/todo/session.yml")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "подробный лог")

	root.AddCommand(c.signUpCmd())
	root.AddCommand(c.signInCmd())
	root.AddCommand(c.signOutCmd())
	root.AddCommand(c.listCmd())
	root.AddCommand(c.addCmd())
	root.AddCommand(c.editCmd())
	root.AddCommand(c.toggleCmd())
	root.AddCommand(c.removeCmd())

	return root
}

// setupLogger без --verbose в stderr попадают только ошибки
var setupLogger = func(verbose bool) error {
	if verbose {
		return logger.Init(true)
	}
	return logger.Quiet()
}

func (c *cli) setup() error {
	if err := setupLogger(c.verbose); err != nil {
		return err
	}

	cfg, err := config.LoadClient(c.configPath)
	if err != nil {
		return err
	}
	if c.serverURL != "" {
		cfg.ServerURL = c.serverURL
	}
	if c.sessionFile != "" {
		cfg.SessionFile = c.sessionFile
	}
	if cfg.SessionFile == "" {
		if cfg.SessionFile, err = session.DefaultPath(); err != nil {
			return err
		}
	}

	c.holder = session.NewHolder(session.NewFileStore(cfg.SessionFile))
	if err := c.holder.Restore(); err != nil {
		return fmt.Errorf("не удалось прочитать сессию: %w", err)
	}

	c.client = remote.New(cfg.ServerURL, cfg.Timeout, c.holder)
	cache := querycache.New[[]todo.Todo](querycache.NewMemoryBackend[[]todo.Todo]())
	c.controller = todos.NewController(todos.NewRepository(c.client, c.holder), cache, c.holder)
	return nil
}

func (c *cli) readLine(prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)
	line, err := c.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (c *cli) confirm(ctx context.Context, prompt string) (bool, error) {
	answer, err := c.readLine(prompt + " [y/N]: ")
	if err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes", "д", "да":
		return true, nil
	}
	return false, nil
}

// find ищет задачу по полному id или его началу среди обоих списков
func (c *cli) find(ctx context.Context, ref string) (todo.Todo, error) {
	board, err := c.controller.Board(ctx)
	if err != nil {
		return todo.Todo{}, err
	}

	all := append(board.Pending, board.Completed...)

	if id, err := uuid.Parse(ref); err == nil {
		for _, t := range all {
			if t.ID == id {
				return t, nil
			}
		}
		return todo.Todo{}, fmt.Errorf("задача %s не найдена", ref)
	}

	var matches []todo.Todo
	for _, t := range all {
		if strings.HasPrefix(t.ID.String(), strings.ToLower(ref)) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return todo.Todo{}, fmt.Errorf("задача %s не найдена", ref)
	case 1:
		return matches[0], nil
	}
	return todo.Todo{}, fmt.Errorf("под %q подходит несколько задач, уточните id", ref)
}

// explain печатает ошибки полей формы построчно
func (c *cli) explain(err error) error {
	var vErr *form.ValidationError
	if !errors.As(err, &vErr) {
		return err
	}

	names := make([]string, 0, len(vErr.Fields))
	for name := range vErr.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(c.out, "  %s: %s\n", name, vErr.Fields[name])
	}
	return errors.New("форма заполнена с ошибками")
}
