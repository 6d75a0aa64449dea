// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/privscan/internal/privilege"
	"github.com/pdiddy/privscan/internal/report"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Print the effective keyword and pattern tables",
	Long: `Tables prints the keyword tiers and structural patterns detect would
use, after applying any --tables override file. The output is a valid
override file and can be edited and passed back to detect --tables.`,
	RunE: runTables,
}

// tablesOutput is the document printed by the tables command.
type tablesOutput struct {
	privilege.Tables `yaml:",inline"`
	Profiles         []privilege.SensitivityProfile `json:"profiles,omitempty" yaml:"profiles,omitempty"`
}

func runTables(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("tables")
	if path == "" {
		path = viper.GetString("detect.tables")
	}

	tables := privilege.DefaultTables()
	if path != "" {
		t, err := privilege.LoadTables(path)
		if err != nil {
			return err
		}
		tables = t
	}

	out := tablesOutput{Tables: tables}
	if withProfiles, _ := cmd.Flags().GetBool("profiles"); withProfiles {
		out.Profiles = privilege.Profiles()
	}

	formatFlag, _ := cmd.Flags().GetString("format")
	format, err := report.ParseFormat(formatFlag)
	if err != nil {
		return err
	}
	return report.Encode(os.Stdout, format, out)
}

func init() {
	tablesCmd.Flags().String("tables", "", "YAML or TOML file overriding keyword and pattern tables")
	tablesCmd.Flags().Bool("profiles", false, "also print the sensitivity profiles")
	tablesCmd.Flags().String("format", "yaml", "output format: yaml or json")

	rootCmd.AddCommand(tablesCmd)
}
