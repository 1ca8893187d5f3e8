package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	afterCommand(ctx context.Context)

	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	List(ctx context.Context, args []string) error
	Refresh(ctx context.Context) error
	Search(ctx context.Context, args []string) error
	Mode(ctx context.Context, args []string) error
	Page(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Create(ctx context.Context) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Status(ctx context.Context) error
}

const (
	helpSignedOut = "Available commands: login, status, help, exit"
	helpSignedIn  = "Available commands: (l)ist [page], refresh, search [text], mode table|card, page N, " +
		"show ID, create, edit ID, delete ID, status, logout, exit"
)

// runREPL starts a simple read–eval–print loop for the dirkeeper console.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Usage errors are reported back to the
// user; other errors have already been shown by the handlers. The loop
// exits on end of input or when the user types "exit" or "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		fmt.Fprintf(w, "dk %s> ", statusFn())
		line, err := readLine(reader)
		if err != nil {
			fmt.Fprintln(w)
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, helpSignedIn)
			} else {
				fmt.Fprintln(w, helpSignedOut)
			}
		case "login":
			err = a.Login(ctx)
		case "logout":
			err = a.Logout(ctx)
		case "l", "list":
			err = a.List(ctx, args)
		case "refresh":
			err = a.Refresh(ctx)
		case "search":
			err = a.Search(ctx, args)
		case "mode":
			err = a.Mode(ctx, args)
		case "page":
			err = a.Page(ctx, args)
		case "show":
			err = a.Show(ctx, args)
		case "create":
			err = a.Create(ctx)
		case "edit":
			err = a.Edit(ctx, args)
		case "delete":
			err = a.Delete(ctx, args)
		case "status":
			err = a.Status(ctx)
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return
		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}

		var usage usageError
		if errors.As(err, &usage) {
			fmt.Fprintln(w, "Usage:", string(usage))
		}
		a.afterCommand(ctx)
	}
}
