package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"flipforma-backend/internal/application/proforma"
	"flipforma-backend/internal/application/projects"
	"flipforma-backend/internal/cli"
	"flipforma-backend/internal/domain"
	proformahandlers "flipforma-backend/internal/interfaces/handlers/proforma"

	"github.com/spf13/cobra"
)

var (
	flagFile string
	flagSets []string
)

var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Compute a pro forma from the defaults or an exported project file",
	Example: `  proforma compute
  proforma compute --file Elm-Street.json --set purchasePrice=410000 --set holdPeriodWeeks=20`,
	Args: cobra.NoArgs,
	RunE: runCompute,
}

var defaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Print the default project as an exportable document",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return writeJSON(cmd.OutOrStdout(), domain.NewDraft())
	},
}

func init() {
	computeCmd.Flags().StringVarP(&flagFile, "file", "f", "", "Exported project JSON to compute")
	computeCmd.Flags().StringArrayVar(&flagSets, "set", nil, "Override an input, field=value (repeatable)")
	rootCmd.AddCommand(computeCmd, defaultsCmd)
}

func runCompute(cmd *cobra.Command, _ []string) error {
	p := domain.NewDraft()
	if flagFile != "" {
		data, err := os.ReadFile(flagFile)
		if err != nil {
			return err
		}
		if p, err = projects.ParseDocument(data); err != nil {
			return fmt.Errorf("%s: %w", flagFile, err)
		}
	}

	in, err := applySets(p.Inputs, flagSets)
	if err != nil {
		return err
	}
	p.Inputs = in

	if flagJSON {
		return writeJSON(cmd.OutOrStdout(), proformahandlers.Computation(p.Inputs, p.RenovationItems, p.FinancingSources))
	}
	fmt.Fprintln(cmd.OutOrStdout(), cli.RenderProforma(p.Name(), p.Inputs, p.RenovationItems, p.FinancingSources))
	return nil
}

// applySets applies field=value overrides in order.
func applySets(in domain.PropertyInputs, sets []string) (domain.PropertyInputs, error) {
	for _, s := range sets {
		name, raw, ok := strings.Cut(s, "=")
		if !ok {
			return in, fmt.Errorf("--set %q: expected field=value", s)
		}
		field, err := proforma.ParseInputField(strings.TrimSpace(name))
		if err != nil {
			return in, err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return in, fmt.Errorf("--set %s: %w", name, err)
		}
		if in, err = proforma.SetInput(in, field, v); err != nil {
			return in, err
		}
	}
	return in, nil
}
