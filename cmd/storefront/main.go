package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/utafrali/storefront/internal/app"
	"github.com/utafrali/storefront/internal/config"
	"github.com/utafrali/storefront/pkg/logger"
)

const usage = `usage: storefront <command> [args]

commands:
  catalog [page] [category]   list a catalog page with basket quantities
  product <id>                show one product
  basket                      show the basket
  add <id>                    add one unit of a product
  remove <id>                 remove one unit of a product
  clear                       empty the basket
  pay [card]                  pay the basket (default: STOREFRONT_PAYMENT_CARD)
`

var errUsage = errors.New("invalid usage")

func main() {
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()
	os.Exit(execute(flag.Args()))
}

func execute(args []string) int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		return 1
	}

	log := logger.NewText("storefront", cfg.LogLevel, os.Stderr)

	application, err := app.New(cfg, log)
	if err != nil {
		log.Error("failed to initialize client", slog.String("error", err.Error()))
		return 1
	}
	defer application.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, application, args, os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, err)
			flag.Usage()
			return 2
		}
		log.Error("command failed", slog.String("error", err.Error()))
		return 1
	}
	return 0
}

func run(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	var (
		result any
		err    error
	)

	switch cmd, rest := args[0], args[1:]; cmd {
	case "catalog":
		page := 1
		var category *int64
		if len(rest) > 0 {
			if page, err = strconv.Atoi(rest[0]); err != nil || page < 1 {
				return fmt.Errorf("%w: page %q", errUsage, rest[0])
			}
		}
		if len(rest) > 1 {
			id, err := parseID(rest[1])
			if err != nil {
				return err
			}
			category = &id
		}
		result, err = a.Catalog(ctx, page, category)
	case "product":
		id, perr := requireID(rest)
		if perr != nil {
			return perr
		}
		result, err = a.Product(ctx, id)
	case "basket":
		result, err = a.Basket(ctx)
	case "add":
		id, perr := requireID(rest)
		if perr != nil {
			return perr
		}
		result, err = a.Add(ctx, id)
	case "remove":
		id, perr := requireID(rest)
		if perr != nil {
			return perr
		}
		result, err = a.Remove(ctx, id)
	case "clear":
		result, err = a.Clear(ctx)
	case "pay":
		card := ""
		if len(rest) > 0 {
			card = rest[0]
		}
		result, err = a.Pay(ctx, card)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func requireID(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%w: missing product id", errUsage)
	}
	return parseID(args[0])
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id %q", errUsage, raw)
	}
	return id, nil
}
