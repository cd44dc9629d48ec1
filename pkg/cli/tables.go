// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var tablesCmd = &cobra.Command{
	Use:   "tables --catalog <file>",
	Short: "list the tables of a catalog",
	Args:  cobra.NoArgs,
	RunE:  runTables,
}

func runTables(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	catalog, err := loadCatalog()
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"table", "handle", "columns"})
	names := catalog.TableNames()
	for _, name := range names {
		t, err := catalog.ResolveTable(ctx, name)
		if err != nil {
			return err
		}
		cols := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			cols[i] = c.Name
		}
		table.Append([]string{name, t.Handle.String(), strings.Join(cols, ", ")})
	}
	table.Render()
	fmt.Fprintf(w, "(%d table%s)\n", len(names), pluralize(len(names)))
	return nil
}

func pluralize(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
