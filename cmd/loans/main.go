package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/Dan9191/loan-registry/internal/config"
	"github.com/Dan9191/loan-registry/internal/export"
	"github.com/Dan9191/loan-registry/internal/models"
	"github.com/Dan9191/loan-registry/internal/repository"
	"github.com/Dan9191/loan-registry/internal/service"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

type app struct {
	repo   *repository.Repository
	svc    *service.Service
	log    *logrus.Logger
	stdin  io.Reader
	stdout io.Writer

	// interactive reports whether stdin is a terminal
	interactive bool
}

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	cfg, err := config.NewConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	// the CLI prints results itself; keep routine logs quiet
	if logLevel == logrus.InfoLevel {
		logLevel = logrus.WarnLevel
	}
	logger.SetLevel(logLevel)

	a := newApp(cfg, logger, os.Stdin, os.Stdout, term.IsTerminal(int(os.Stdin.Fd())))
	if err := a.run(os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp(cfg *config.Config, logger *logrus.Logger, stdin io.Reader, stdout io.Writer, interactive bool) *app {
	repo := repository.NewRepository(cfg.DataFile, logger)
	return &app{
		repo:        repo,
		svc:         service.NewService(repo, logger, nil),
		log:         logger,
		stdin:       stdin,
		stdout:      stdout,
		interactive: interactive,
	}
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `loans - loan application registry

Usage:
  loans init                                   Create or repair the records file
  loans submit --name N --email E --dob D --amount A --rate R --months M
  loans list                                   Show all records
  loans delete --email E [--yes]               Delete the record for E
  loans export [--format csv|xml|xlsx] [--out FILE]
  loans help
`)
}

func (a *app) run(cmd string, args []string) error {
	switch cmd {
	case "help", "-h", "--help":
		printUsage(a.stdout)
		return nil
	case "init":
		return a.commandInit()
	}

	// every other command works on an initialized file
	if _, err := a.repo.EnsureInitialized(); err != nil {
		a.log.Errorf("Failed to initialize records file: %v", err)
	}

	switch cmd {
	case "submit":
		return a.commandSubmit(args)
	case "list":
		return a.commandList()
	case "delete":
		return a.commandDelete(args)
	case "export":
		return a.commandExport(args)
	default:
		printUsage(a.stdout)
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func (a *app) commandInit() error {
	status, err := a.repo.EnsureInitialized()
	if err != nil {
		return err
	}
	if status == repository.HeaderValid {
		fmt.Fprintf(a.stdout, "%s is ready\n", a.repo.Path())
	} else {
		fmt.Fprintf(a.stdout, "%s initialized (%s)\n", a.repo.Path(), status)
	}
	return nil
}

func (a *app) commandSubmit(args []string) error {
	fs := flag.NewFlagSet("submit", flag.ContinueOnError)
	fs.SetOutput(a.stdout)
	var in models.Application
	fs.StringVar(&in.Name, "name", "", "Customer full name")
	fs.StringVar(&in.Email, "email", "", "Email address")
	fs.StringVar(&in.DateOfBirth, "dob", "", "Date of birth (YYYY-MM-DD)")
	fs.StringVar(&in.LoanAmount, "amount", "", "Loan amount ($)")
	fs.StringVar(&in.InterestRate, "rate", "", "Interest rate (%)")
	fs.StringVar(&in.TermMonths, "months", "", "Loan term (months)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	record, err := a.svc.Submit(in)
	if err != nil {
		return describe(err)
	}

	fmt.Fprintln(a.stdout, "The loan application has been successfully submitted to our database.")
	fmt.Fprintf(a.stdout, "Loan Amount: %d $\n", record.LoanAmount)
	fmt.Fprintf(a.stdout, "Interest Amount: %d%%\n", record.InterestRate)
	fmt.Fprintf(a.stdout, "Total Interest for %d months: %d $\n", record.TermMonths, record.TotalInterest)
	return nil
}

func (a *app) commandList() error {
	records, err := a.svc.List()
	if err != nil {
		return describe(err)
	}
	a.printRecords(records)
	return nil
}

func (a *app) printRecords(records []models.LoanRecord) {
	tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Name\tEmail\tDate of Birth\tLoan Amount ($)\tInterest Rate (%)\tInterest ($)\tTerm (Months)\tTotal Interest ($)")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\n",
			r.Name, r.Email, r.DateOfBirth, r.LoanAmount, r.InterestRate, r.InterestAmount, r.TermMonths, r.TotalInterest)
	}
	tw.Flush()
}

func (a *app) commandDelete(args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	fs.SetOutput(a.stdout)
	email := fs.String("email", "", "Email of the record to delete")
	yes := fs.Bool("yes", false, "Skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}

	outcome, err := a.svc.Delete(*email, a.confirmer(*yes))
	if err != nil {
		return describe(err)
	}

	switch outcome {
	case service.DeleteCancelled:
		fmt.Fprintln(a.stdout, "Deletion cancelled.")
	case service.DeleteNotFound:
		fmt.Fprintf(a.stdout, "No record found with email: %s\n", strings.TrimSpace(*email))
	case service.DeleteRemoved:
		fmt.Fprintln(a.stdout, "The record has been successfully removed from the database.")
		return a.commandList()
	}
	return nil
}

// confirmer asks on the terminal unless --yes was given; without a terminal it declines
func (a *app) confirmer(yes bool) service.ConfirmFunc {
	return func(email string) bool {
		if yes {
			return true
		}
		if !a.interactive {
			fmt.Fprintln(a.stdout, "Not a terminal; pass --yes to confirm deletion.")
			return false
		}
		fmt.Fprintf(a.stdout, "Are you sure you want to delete the record for %s? [y/N]: ", email)
		answer, _ := bufio.NewReader(a.stdin).ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return true
		default:
			return false
		}
	}
}

func (a *app) commandExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(a.stdout)
	formatName := fs.String("format", "csv", "Export format: csv, xml or xlsx")
	out := fs.String("out", "", "Output file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	format, err := export.ParseFormat(*formatName)
	if err != nil {
		return err
	}
	records, err := a.svc.List()
	if err != nil {
		return describe(err)
	}

	if *out == "" {
		return export.Write(a.stdout, format, records)
	}
	file, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", *out, err)
	}
	defer file.Close()
	if err := export.Write(file, format, records); err != nil {
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", *out, err)
	}
	fmt.Fprintf(a.stdout, "Exported %d records to %s\n", len(records), *out)
	return nil
}

// describe turns service errors into the category shown to the user
func describe(err error) error {
	var vErr *service.ValidationError
	switch {
	case errors.Is(err, service.ErrDuplicateEmail):
		return fmt.Errorf("duplicate email: %s", err)
	case errors.As(err, &vErr):
		return fmt.Errorf("validation error: %s", vErr.Message)
	case errors.Is(err, service.ErrStorage):
		return fmt.Errorf("database error: %w", err)
	default:
		return err
	}
}
