package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/conta-ledger/conta/auth"
	"github.com/conta-ledger/conta/auth/exchange"
	jwtauth "github.com/conta-ledger/conta/auth/token/jwt"
	"github.com/conta-ledger/conta/config"
	"github.com/conta-ledger/conta/ledger"
)

const usage = `Usage: conta [flags] <command> [command flags]

Commands:
  token     print a valid bearer token
  add       add an entry to the ledger
  status    print the summary of a monthly sheet
  read      print a range of the spreadsheet

Flags:
`

func main() {
	var (
		configFile string
		envFile    string
		debug      bool
	)

	flag.StringVar(&configFile, "config", "conta.yaml", "Configuration file")
	flag.StringVar(&envFile, "env", ".env", "Environment file (ignored if missing)")
	flag.BoolVar(&debug, "debug", false, "Debug mode")

	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}

	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}

	if debug {
		logger, err = zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
	}

	defer logger.Sync() // nolint: errcheck

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Sugar().Fatalf("Error loading environment file %s: %v", envFile, err)
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		logger.Sugar().Fatalf("Error loading configuration: %v", err)
	}

	identity, signingKey, err := cfg.Identity.Config.CreateIdentity()
	if err != nil {
		logger.Sugar().Fatalf("Error loading service identity: %v", err)
	}
	logger.Sugar().Debugf("Loaded private key with id %s", signingKey.KeyID())

	store, err := cfg.Cache.Config.CreateTokenStore(logger)
	if err != nil {
		logger.Sugar().Fatalf("Error creating token cache: %v", err)
	}

	provider := auth.NewProvider(
		identity,
		jwtauth.NewAssertionBuilder(),
		exchange.NewClient(
			exchange.WithHTTPClient(&http.Client{Timeout: cfg.Exchange.Timeout}),
			exchange.WithLogger(logger),
		),
		store,
		auth.WithLogger(logger),
	)

	ledgerClient := ledger.NewClient(provider, ledger.Config{
		SpreadsheetID:   cfg.Ledger.SpreadsheetID,
		FunctionsURL:    cfg.Ledger.FunctionsURL,
		SpreadsheetsURL: cfg.Ledger.SpreadsheetsURL,
		DevMode:         cfg.Ledger.DevMode,
	}, ledger.WithLogger(logger))

	ctx := context.Background()
	command, args := flag.Arg(0), flag.Args()[1:]

	switch command {
	case "token":
		err = runToken(ctx, provider)
	case "add":
		err = runAdd(ctx, ledgerClient, args)
	case "status":
		err = runStatus(ctx, ledgerClient, args)
	case "read":
		err = runRead(ctx, ledgerClient, args)
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		logger.Sugar().Fatalf("Error running %s: %v", command, err)
	}
}

func runToken(ctx context.Context, provider *auth.Provider) error {
	token, err := provider.GetAccessToken(ctx)
	if err != nil {
		return err
	}

	fmt.Println(token)

	return nil
}

func runAdd(ctx context.Context, client *ledger.Client, args []string) error {
	now := time.Now()

	var (
		entry ledger.Entry
		sheet string
	)

	flags := flag.NewFlagSet("add", flag.ExitOnError)
	flags.StringVar(&entry.Date, "date", now.Format(ledger.DateLayout), "Date of the entry (dd-mm-yyyy)")
	flags.StringVar(&entry.Description, "desc", "", "Description")
	flags.StringVar(&entry.Tag, "tag", "", "Tag")
	flags.StringVar(&entry.Form, "form", "", "Payment form")
	flags.StringVar(&entry.Rate, "rate", "", "Exchange rate")
	flags.StringVar(&entry.AmountUSD, "usd", "", "Amount in USD")
	flags.StringVar(&entry.AmountBs, "bs", "", "Amount in Bs")
	flags.StringVar(&sheet, "sheet", ledger.SheetName(now), "Sheet name")

	if err := flags.Parse(args); err != nil {
		return err
	}

	return client.AddEntries(ctx, sheet, []ledger.Entry{entry})
}

func runStatus(ctx context.Context, client *ledger.Client, args []string) error {
	var sheet string

	flags := flag.NewFlagSet("status", flag.ExitOnError)
	flags.StringVar(&sheet, "sheet", ledger.SheetName(time.Now()), "Sheet name")

	if err := flags.Parse(args); err != nil {
		return err
	}

	status, err := client.Status(ctx, sheet)
	if err != nil {
		return err
	}

	fmt.Println(sheet)
	printRows(status.General)
	fmt.Println()
	printRows(status.Distribution)

	return nil
}

func runRead(ctx context.Context, client *ledger.Client, args []string) error {
	var a1Range string

	flags := flag.NewFlagSet("read", flag.ExitOnError)
	flags.StringVar(&a1Range, "range", "", "Range in A1 notation")

	if err := flags.Parse(args); err != nil {
		return err
	}

	if a1Range == "" {
		return errors.New("range is required")
	}

	values, err := client.ReadRange(ctx, a1Range)
	if err != nil {
		return err
	}

	printRows(values.Values)

	return nil
}

func printRows(rows [][]string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}

	w.Flush()
}
