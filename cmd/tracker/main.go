package main

import (
	"bufio"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	applog "finance-tracker/internal/log"
	"finance-tracker/internal/models"
	"finance-tracker/internal/tracker"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run records one transaction per input line, formatted as
// "date,name,amount,kind". Totals last until input ends.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("tracker", flag.ContinueOnError)
	fs.SetOutput(stderr)
	quiet := fs.Bool("q", false, "Only print the final totals")
	verbose := fs.Bool("v", false, "Log why each rejected line was rejected")
	if err := fs.Parse(args); err != nil {
		return err
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := applog.New(applog.Config{Level: level, Component: applog.ComponentTracker, Output: stderr})

	t := tracker.New()
	scanner := bufio.NewScanner(stdin)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		entry, err := recordLine(t, line)
		if err != nil {
			logger.Debug("Rejected line", "line", lineNo, applog.FieldError, err)
			fmt.Fprintln(stderr, tracker.AlertMessage)
			continue
		}
		if !*quiet {
			fmt.Fprintln(stdout, entry)
			printTotals(stdout, t.Totals())
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	if *quiet {
		printTotals(stdout, t.Totals())
	}
	return nil
}

func recordLine(t *tracker.Tracker, line string) (tracker.Entry, error) {
	date, name, amount, kind, err := parseLine(line)
	if err != nil {
		return tracker.Entry{}, err
	}
	return t.Record(kind, name, amount, date)
}

func parseLine(line string) (date, name, amount string, kind models.Kind, err error) {
	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = 4
	r.TrimLeadingSpace = true
	fields, err := r.Read()
	if err != nil {
		return "", "", "", "", err
	}

	kind = models.Kind(strings.ToLower(strings.TrimSpace(fields[3])))
	if !kind.Valid() {
		return "", "", "", "", errors.New("kind must be income or expense")
	}
	return strings.TrimSpace(fields[0]), fields[1], fields[2], kind, nil
}

func printTotals(w io.Writer, totals tracker.Totals) {
	fmt.Fprintf(w, "Balance: %s  Income: %s  Expense: %s\n",
		tracker.FormatCurrency(totals.Balance),
		tracker.FormatCurrency(totals.Income),
		tracker.FormatCurrency(totals.Expense),
	)
}
