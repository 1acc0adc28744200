package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/koendv/cangaroo-hwfilter/canfilter"
)

var dumpFilter string

func init() {
	rootCmd.AddCommand(dumpCmd)
	dumpCmd.Flags().StringVarP(&dumpFilter, "filter", "f", "", "filter definition to decode")
	dumpCmd.MarkFlagRequired("filter")
}

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Decode a filter definition into its directives without touching hardware",
	Run: func(cmd *cobra.Command, args []string) {
		directives, err := canfilter.Directives(dumpFilter)
		if err != nil {
			log.Fatal(err)
		}
		for _, d := range directives {
			space := "std"
			if d.Extended {
				space = "ext"
			}
			if d.IsRange {
				fmt.Printf("%s range %#x-%#x\n", space, d.Begin, d.End)
			} else {
				fmt.Printf("%s id %#x\n", space, d.Begin)
			}
		}
	},
}
