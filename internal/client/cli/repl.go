package cli

import (
	"bufio"
	"context"
	"fmt"
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
	WhoAmI(ctx context.Context) error
	Posts(ctx context.Context) error
	Latest(ctx context.Context) error
	Mine(ctx context.Context) error
	Search(ctx context.Context, text string) error
	Create(ctx context.Context) error
	Refetch(ctx context.Context) error
}

// runREPL reads commands line by line from reader and dispatches them to a.
// It returns on EOF, "exit" or "quit". Command errors are printed and the
// loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("aora %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
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
				printlnFn("Available commands: posts, latest, mine, search <text>, create, refetch, whoami, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}
		case "register":
			cmdErr = a.Register(ctx)
		case "login":
			cmdErr = a.Login(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "whoami":
			cmdErr = a.WhoAmI(ctx)
		case "posts":
			cmdErr = a.Posts(ctx)
		case "latest":
			cmdErr = a.Latest(ctx)
		case "mine":
			cmdErr = a.Mine(ctx)
		case "search":
			if len(args) == 0 {
				printlnFn("Usage: search <text>")
				continue
			}
			cmdErr = a.Search(ctx, strings.Join(args, " "))
		case "create":
			cmdErr = a.Create(ctx)
		case "refetch":
			cmdErr = a.Refetch(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr)
		}
	}
}
