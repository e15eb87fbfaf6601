package cli

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Status(ctx context.Context) error
	Courses(ctx context.Context) error
	Quiz(ctx context.Context, subject string) error
	Score(ctx context.Context, subject string, score int) error
	Me(ctx context.Context) error
}

// runREPL reads commands line by line from reader and dispatches them to a
// until EOF or "exit"/"quit".
//
//	Not logged in:  help, register, login, status, courses, exit
//	Logged in:      help, courses, quiz <subject>, score <subject> <n>, me, status, logout, exit
//
// Command errors are printed and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("quiz %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: courses, quiz <subject>, score <subject> <n>, me, status, logout, exit")
			} else {
				printlnFn("Available commands: register, login, status, courses, exit")
			}

		case "register":
			cmdErr = a.Register(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "status":
			cmdErr = a.Status(ctx)

		case "courses":
			cmdErr = a.Courses(ctx)

		case "quiz":
			if len(args) != 1 {
				printlnFn("Usage: quiz <subject>")
				continue
			}
			cmdErr = a.Quiz(ctx, args[0])

		case "score":
			if len(args) != 2 {
				printlnFn("Usage: score <subject> <n>")
				continue
			}
			n, err := strconv.Atoi(args[1])
			if err != nil {
				printlnFn("Usage: score <subject> <n>")
				continue
			}
			cmdErr = a.Score(ctx, args[0], n)

		case "me":
			cmdErr = a.Me(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr.Error())
		}
	}
}
