package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. *App satisfies it;
// tests use a stub.
type execIface interface {
	List(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	New(ctx context.Context) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Favorite(ctx context.Context, args []string) error
	MarkRead(ctx context.Context, args []string) error
	Categories(ctx context.Context) error
	NewCategory(ctx context.Context) error
	DeleteCategory(ctx context.Context, args []string) error
	Refresh(ctx context.Context) error
	Sync(ctx context.Context) error
	Status(ctx context.Context) error
}

const helpText = `Available commands:
  list [category]      list sheets, optionally of one category
  show <id>            show a sheet
  new                  create a sheet
  edit <id>            edit a sheet
  delete <id>          delete a sheet
  fav <id>             toggle favorite
  read <id> <block>    toggle the read flag of a block (id or 1-based index)
  categories           list custom categories
  newcat               create a custom category
  delcat <id>          delete a custom category
  refresh              reload from the server
  sync                 push queued changes, then reload
  status               connection and queue state
  exit | quit          leave the program`

// runREPL reads commands line by line from in and dispatches them to a until
// EOF or exit. The prompt is only printed for interactive input.
func runREPL(ctx context.Context, a execIface, statusFn func() string, in *bufio.Reader, interactive bool) {
	for {
		if interactive {
			fmt.Printf("cheatsync %s> ", statusFn())
		}
		line, err := in.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
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
			printlnFn(helpText)
		case "l", "list":
			cmdErr = a.List(ctx, args)
		case "show":
			cmdErr = a.Show(ctx, args)
		case "new":
			cmdErr = a.New(ctx)
		case "edit":
			cmdErr = a.Edit(ctx, args)
		case "delete", "rm":
			cmdErr = a.Delete(ctx, args)
		case "fav":
			cmdErr = a.Favorite(ctx, args)
		case "read":
			cmdErr = a.MarkRead(ctx, args)
		case "categories":
			cmdErr = a.Categories(ctx)
		case "newcat":
			cmdErr = a.NewCategory(ctx)
		case "delcat":
			cmdErr = a.DeleteCategory(ctx, args)
		case "refresh":
			cmdErr = a.Refresh(ctx)
		case "sync":
			cmdErr = a.Sync(ctx)
		case "status":
			cmdErr = a.Status(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn(describeError(cmdErr))
		}
	}
}
