// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package cli

import (
	"fmt"
	"io"
	"io/ioutil"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/planir/pkg/sql/plan"
	"github.com/cockroachdb/planir/pkg/sql/plan/planviz"
	"github.com/cockroachdb/planir/pkg/sql/plan/planwire"
	"github.com/spf13/cobra"
)

var explainCmd = &cobra.Command{
	Use:   "explain <plan.json>",
	Short: "render a plan in its transport form",
	Long: `
Decode a plan from the JSON transport form that is sent to execution workers
and print it. Decoded scans carry no planner constraint.
`,
	Args: cobra.ExactArgs(1),
	RunE: runExplain,
}

func runExplain(cmd *cobra.Command, args []string) error {
	data, err := ioutil.ReadFile(args[0])
	if err != nil {
		return errors.Wrap(err, "reading plan")
	}
	n, err := planwire.Unmarshal(data)
	if err != nil {
		return err
	}
	return renderPlan(cmd.OutOrStdout(), n, cliCtx.format, cliCtx.vizFlags())
}

// renderPlan writes n to w in the given format.
func renderPlan(w io.Writer, n plan.Node, format planFormat, flags planviz.Flags) error {
	switch format {
	case formatExplain:
		_, err := io.WriteString(w, planviz.Explain(n, flags))
		return err
	case formatTable:
		planviz.WriteTable(w, n, flags)
		return nil
	case formatDOT:
		_, err := io.WriteString(w, planviz.DOT(n, flags))
		return err
	case formatJSON:
		b, err := planwire.MarshalIndent(n)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", b)
		return err
	}
	return errors.AssertionFailedf("unknown plan format %d", format)
}
