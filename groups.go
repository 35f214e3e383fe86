package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"imagecompare/scanner"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	groupsFlags struct {
		profileFlags
		Dir string
	}
)

var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "List the parameter groups found in a folder without computing metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := groupsFlags.loadProfile()
		if err != nil {
			return err
		}

		parser, err := scanner.NewParser(profile.Families, profile.Datatypes, profile.Extension)
		if err != nil {
			return err
		}
		scan, err := scanner.ScanFolder(context.Background(), parser, scanner.ScanOptions{
			FolderPath: groupsFlags.Dir,
			Extension:  profile.Extension,
			DebugMode:  verbose,
		})
		if err != nil {
			return fmt.Errorf("failed to scan %s: %w", groupsFlags.Dir, err)
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "PARAMETERS\tFAMILY\tBASELINE\tDATATYPES")
		withBaseline := 0
		for _, g := range scan.Groups() {
			_, hasBase := g.Path(profile.Baseline)
			if hasBase {
				withBaseline++
			}
			present := ""
			for _, tag := range profile.Datatypes {
				if _, ok := g.Path(tag); ok {
					if present != "" {
						present += ","
					}
					present += string(tag)
				}
			}
			fmt.Fprintf(tw, "%s\t%s\t%t\t%s\n", g.Key, g.Family, hasBase, present)
		}
		if err := tw.Flush(); err != nil {
			return err
		}

		log.Info().
			Int("files", scan.FilesListed).
			Int("matched", scan.FilesMatched).
			Int("groups", scan.Index.Len()).
			Int("with_baseline", withBaseline).
			Msg("Scan complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(groupsCmd)

	groupsFlags.register(groupsCmd)
	groupsCmd.Flags().StringVarP(&groupsFlags.Dir, "dir", "d", ".", "Folder containing the renderings")
}
