package main

import (
	"fmt"
	"strings"

	"imagecompare/scanner"

	"github.com/spf13/cobra"
)

var tagsFlags profileFlags

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Show the datatype enumeration, baseline, metrics and report header",
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := tagsFlags.loadProfile()
		if err != nil {
			return err
		}

		fmt.Println("Datatypes:")
		for _, tag := range profile.Datatypes {
			marker := ""
			if tag == profile.Baseline {
				marker = " (baseline)"
			}
			fmt.Printf("  %s%s\n", tag, marker)
		}
		fmt.Println("Metrics:")
		for _, m := range profile.Metrics {
			fmt.Printf("  %-12s precision %d\n", m.Name, m.Precision)
		}
		parser, err := scanner.NewParser(profile.Families, profile.Datatypes, profile.Extension)
		if err != nil {
			return err
		}
		fmt.Println("Families:")
		for i, pattern := range parser.Patterns() {
			fmt.Printf("  %-12s %s\n", profile.Families[i].Name, pattern)
		}
		fmt.Println("Header:")
		fmt.Printf("  %s\n", strings.Join(profile.Header(), ","))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tagsCmd)
	tagsFlags.register(tagsCmd)
}
