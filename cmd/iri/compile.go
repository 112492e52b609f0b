package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"iri2020/internal/settings"
)

var compileFormat string

func init() {
	compileCmd.Flags().StringVarP(&settingsFile, "settings", "s", "", "YAML, TOML or JSON settings file")
	compileCmd.Flags().StringVarP(&compileFormat, "output", "o", "compiled",
		"compiled prints the flag and override arrays; yaml, toml or json print the merged settings")
	rootCmd.AddCommand(compileCmd)
}

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile settings into model flags and overrides",
	Long: `compile merges a settings file over the defaults and prints the
50 switches and 100 override slots handed to the model.`,
	Args: cobra.NoArgs,
	RunE: runCompile,
}

func runCompile(cmd *cobra.Command, args []string) error {
	s := settings.Default()
	if settingsFile != "" {
		var err error
		if s, err = settings.LoadFile(settingsFile); err != nil {
			return err
		}
	}

	if compileFormat != "compiled" {
		data, err := settings.Encode(settings.Format(compileFormat), s)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), string(data))
		return err
	}

	c, err := s.Compile()
	if err != nil {
		return err
	}
	return printJSON(cmd, c)
}
