package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
)

// exportReports dumps all of a user's reports as indented JSON, ordered the
// same way the API lists them. Writes to outPath, or cli.out when empty.
func (cli *commandLine) exportReports(userID, outPath string) error {
	reports, err := cli.rptRepo.QueryReportsByOwner(context.Background(), userID)
	if err != nil {
		return err
	}

	var out io.Writer = cli.out
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(reports)
}
