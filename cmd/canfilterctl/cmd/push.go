package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/koendv/cangaroo-hwfilter/ifresolve"
	"github.com/koendv/cangaroo-hwfilter/orchestrator"
	"github.com/koendv/cangaroo-hwfilter/transport"
)

var (
	pushInterface  string
	pushProfile    string
	pushFilter     string
	pushDeviceList string
	pushSerial     string
)

func init() {
	rootCmd.AddCommand(pushCmd)

	pushCmd.Flags().StringVarP(&pushInterface, "interface", "i", "", "network interface name (e.g. can0)")
	pushCmd.Flags().StringVarP(&pushProfile, "profile", "p", "", "TOML device profile file")
	pushCmd.Flags().StringVarP(&pushFilter, "filter", "f", "", "filter definition, e.g. \"0x100, 0x200-0x2FF\"")
	pushCmd.Flags().StringVar(&pushDeviceList, "device-list", "", "YAML VID/PID candidate list, used when no interface can be resolved")
	pushCmd.Flags().StringVar(&pushSerial, "serial", "", "USB serial number to match, used with --device-list")
	pushCmd.MarkFlagRequired("filter")
}

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Compile a filter definition and push it to a CAN interface's hardware filter",
	Run: func(cmd *cobra.Command, args []string) {
		ifName := pushInterface
		var profileVID, profilePID uint16
		if pushProfile != "" {
			profile, err := loadProfile(pushProfile)
			if err != nil {
				log.Fatal(err)
			}
			if ifName == "" {
				ifName = profile.Interface
			}
			if pushSerial == "" {
				pushSerial = profile.Serial
			}
			profileVID, profilePID = uint16(profile.VID), uint16(profile.PID)
		}

		logger := log.Default()

		switch {
		case ifName != "":
			if err := orchestrator.Push(ifresolve.SysfsResolver{}, orchestrator.OpenTransport, logger, ifName, pushFilter); err != nil {
				log.Fatal(err)
			}
		case pushDeviceList != "":
			candidates, err := transport.LoadCandidates(pushDeviceList)
			if err != nil {
				log.Fatal(err)
			}
			dev, err := transport.OpenCandidates(candidates, pushSerial)
			if err != nil {
				log.Fatal(err)
			}
			if err := orchestrator.PushDirect(dev, logger, pushFilter); err != nil {
				log.Fatal(err)
			}
		case profileVID != 0 && profilePID != 0:
			dev, err := transport.OpenShared(profileVID, profilePID, pushSerial)
			if err != nil {
				log.Fatal(err)
			}
			if err := orchestrator.PushDirect(dev, logger, pushFilter); err != nil {
				log.Fatal(err)
			}
		default:
			log.Fatal("push: no interface given; use --interface, --profile (with interface or vid/pid), or --device-list")
		}

		fmt.Println("filter pushed")
	},
}
