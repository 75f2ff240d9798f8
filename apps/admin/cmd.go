package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/jmoiron/sqlx"

	"github.com/edusuivi/hebdo/core/report"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db      *sqlx.DB
	rptRepo report.Repository
	out     io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [ARGS] - run a migration command (up, down, status, ...)")
	fmt.Println("  exportreports -user USER_ID [-out FILE] - dump a user's weekly reports as JSON")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	exportReportsCmd := flag.NewFlagSet("exportreports", flag.ExitOnError)
	exportReportsUser := exportReportsCmd.String("user", "", "The owner's user ID. All their reports are dumped, most recent first.")
	exportReportsOut := exportReportsCmd.String("out", "", "Destination file. Defaults to stdout.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "exportreports":
		if err := exportReportsCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *exportReportsUser == "" {
			exportReportsCmd.Usage()
			return errHelp
		}
		return cli.exportReports(*exportReportsUser, *exportReportsOut)
	default:
		cli.printUsage()
		return errHelp
	}
}
