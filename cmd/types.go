package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pokereports/pokereports/internal/i18n"
	"github.com/pokereports/pokereports/internal/output"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "Browse report types",
}

var typesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the types a report can be requested for",
	Example: `  pokereports types list
  pokereports types list --types-url http://localhost:8000/api/types -o json`,
	RunE: runTypesList,
}

func init() {
	rootCmd.AddCommand(typesCmd)

	typesListCmd.Flags().StringVarP(&outputFormat, "output", "o", "", "Output format (table, json, yaml, xlsx)")
	typesListCmd.Flags().StringVar(&fileFlag, "file", "", "Write output to a file")
	typesCmd.AddCommand(typesListCmd)
}

func runTypesList(cmd *cobra.Command, args []string) error {
	client, err := getAPIClient()
	if err != nil {
		return err
	}
	ctx, cancel := getContext(cmd)
	defer cancel()

	names, err := client.Type.List(ctx)
	if err != nil {
		cmd.PrintErrln(getPrinter().T(i18n.MsgLoadTypesFailed))
		return err
	}
	return writeOutput(cmd, output.ParseFormat(formatOrDefault(outputFormat)), names, fileFlag)
}
