// Package cmd implements the canfilterctl command-line tool: push a
// filter definition to a CAN interface's hardware acceptance filter,
// probe a controller's filter capability, or dump a filter definition's
// decoded directives without touching hardware.
package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "canfilterctl",
	Short: "canfilterctl programs CAN controller hardware acceptance filters",
	Long:  `canfilterctl compiles a text filter definition and pushes it to a bxCAN or FDCAN controller's hardware acceptance filter over USB.`,
}

// Execute runs the root command.
func Execute() {
	log.SetOutput(os.Stdout)
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
