package cli

import (
	"bufio"
	"context"
	"io"
	"log"
	"os"

	"github.com/dmitrijs2005/gophquiz/internal/client/client"
	"github.com/dmitrijs2005/gophquiz/internal/client/config"
)

// quizAPI is the part of client.HTTPClient the commands use.
type quizAPI interface {
	Ping(ctx context.Context) error
	Register(ctx context.Context, req client.RegisterRequest) (string, error)
	Login(ctx context.Context, nickname, password string) error
	Logout(ctx context.Context) error
	LoggedIn(ctx context.Context) (bool, error)
	Courses(ctx context.Context) (map[string]client.Course, error)
	Data(ctx context.Context) (*client.AppData, error)
	Quiz(ctx context.Context, subject string) ([]client.Question, error)
	SubmitScore(ctx context.Context, subject string, score int) error
}

type App struct {
	config   *config.Config
	api      quizAPI
	reader   *bufio.Reader
	out      io.Writer
	nickname string
}

func NewApp(c *config.Config) (*App, error) {
	api, err := client.New(c.ServerURL, c.RequestTimeout)
	if err != nil {
		return nil, err
	}
	return &App{config: c, api: api, reader: bufio.NewReader(os.Stdin), out: os.Stdout}, nil
}

func (a *App) isLoggedIn() bool {
	return a.nickname != ""
}

func (a *App) getStatus() string {
	if a.nickname == "" {
		return ""
	}
	return "(" + a.nickname + ")"
}

// Run starts the REPL and blocks until the user exits.
func (a *App) Run(ctx context.Context) {
	log.Println("Welcome to gophquiz CLI (type 'help' for commands)")

	if err := a.api.Ping(ctx); err != nil {
		log.Printf("Server %s is not reachable: %v", a.config.ServerURL, err)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}
