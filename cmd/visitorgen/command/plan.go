package command

import (
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
)

// planDump keeps spew from chasing the go/types object graph and from
// printing unstable pointer addresses.
var planDump = spew.ConfigState{
	Indent:                  "  ",
	MaxDepth:                6,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

var Plan = &cobra.Command{
	Use:   "plan",
	Short: "Print the assembled generation plan without writing code.",
	Args:  cobra.NoArgs,
	RunE:  commandPlan,
}

func commandPlan(cmd *cobra.Command, args []string) error {
	pipe, err := runPipeline(cmd)
	if err != nil {
		return err
	}

	planDump.Fdump(cmd.OutOrStdout(), pipe.plan)

	return nil
}

func init() {
	Root.AddCommand(Plan)
}
