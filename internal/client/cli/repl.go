package cli

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error

	Search(ctx context.Context, query string) error
	Filter(ctx context.Context, param, value string) error
	Filters(ctx context.Context) error
	Reset(ctx context.Context) error
	URL() string
	Back(ctx context.Context) error

	Show(ctx context.Context, id int64) error
	Favorite(ctx context.Context, id int64) error
	Rate(ctx context.Context, id int64, stars int) error
	Add(ctx context.Context) error
	Random(ctx context.Context) error
	Favorites(ctx context.Context) error
	PDF(ctx context.Context, id int64) error
	Export(ctx context.Context, path string) error
	Dish(ctx context.Context) error
	Theme(ctx context.Context, name string) error
	Stats(ctx context.Context) error
}

const (
	helpCommon = "Available commands: search <text>, filter <name> [value], filters, reset, url, back, " +
		"show <id>, pdf <id>, random, dish, export <file.xlsx>, theme [light|dark], stats, "
	helpSignedIn  = helpCommon + "fav <id>, rate <id> <1-5>, add, favorites, logout, exit"
	helpSignedOut = helpCommon + "register, login, exit"
)

// runREPL reads commands from reader until EOF or "exit"/"quit".
//
// The first token is the command, the rest its arguments. Missing or
// malformed arguments print a usage line. Errors returned by handlers are
// ignored here: the controllers already reported them to the user.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("recipes %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
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
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpSignedOut)
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "search", "s":
			_ = a.Search(ctx, strings.Join(args, " "))

		case "filter":
			if len(args) == 0 {
				printlnFn("Usage: filter <name> [value]  (no value clears the filter)")
				continue
			}
			_ = a.Filter(ctx, args[0], strings.Join(args[1:], " "))

		case "filters":
			_ = a.Filters(ctx)

		case "reset":
			_ = a.Reset(ctx)

		case "url":
			printlnFn(a.URL())

		case "back":
			_ = a.Back(ctx)

		case "show":
			if id, ok := idArg(args, "show <id>"); ok {
				_ = a.Show(ctx, id)
			}

		case "fav":
			if id, ok := idArg(args, "fav <id>"); ok {
				_ = a.Favorite(ctx, id)
			}

		case "rate":
			if len(args) != 2 {
				printlnFn("Usage: rate <id> <1-5>")
				continue
			}
			id, ok := idArg(args, "rate <id> <1-5>")
			if !ok {
				continue
			}
			stars, err := strconv.Atoi(args[1])
			if err != nil {
				printlnFn("Usage: rate <id> <1-5>")
				continue
			}
			_ = a.Rate(ctx, id, stars)

		case "add":
			_ = a.Add(ctx)

		case "random":
			_ = a.Random(ctx)

		case "favorites":
			_ = a.Favorites(ctx)

		case "pdf":
			if id, ok := idArg(args, "pdf <id>"); ok {
				_ = a.PDF(ctx, id)
			}

		case "export":
			if len(args) != 1 {
				printlnFn("Usage: export <file.xlsx>")
				continue
			}
			_ = a.Export(ctx, args[0])

		case "dish":
			_ = a.Dish(ctx)

		case "theme":
			_ = a.Theme(ctx, strings.Join(args, ""))

		case "stats":
			_ = a.Stats(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}

func idArg(args []string, usage string) (int64, bool) {
	if len(args) == 0 {
		printlnFn("Usage: " + usage)
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		printlnFn("Usage: " + usage)
		return 0, false
	}
	return id, true
}
