package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/koendv/cangaroo-hwfilter/ifresolve"
	"github.com/koendv/cangaroo-hwfilter/transport"
)

var (
	probeInterface  string
	probeDeviceList string
	probeSerial     string
)

func init() {
	rootCmd.AddCommand(probeCmd)
	probeCmd.Flags().StringVarP(&probeInterface, "interface", "i", "", "network interface name (e.g. can0)")
	probeCmd.Flags().StringVar(&probeDeviceList, "device-list", "", "YAML VID/PID candidate list, used when no interface can be resolved")
	probeCmd.Flags().StringVar(&probeSerial, "serial", "", "USB serial number to match, used with --device-list")
}

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Report whether a CAN interface's controller supports hardware filtering",
	Run: func(cmd *cobra.Command, args []string) {
		var dev *transport.Device

		switch {
		case probeInterface != "":
			info, err := ifresolve.SysfsResolver{}.Resolve(probeInterface)
			if err != nil {
				log.Fatal(err)
			}
			dev, err = transport.Open(info.VendorID, info.ProductID, info.Serial)
			if err != nil {
				log.Fatal(err)
			}
		case probeDeviceList != "":
			candidates, err := transport.LoadCandidates(probeDeviceList)
			if err != nil {
				log.Fatal(err)
			}
			dev, err = transport.OpenCandidates(candidates, probeSerial)
			if err != nil {
				log.Fatal(err)
			}
		default:
			log.Fatal("probe: no interface given; use --interface or --device-list")
		}
		defer dev.Close()

		has, err := dev.HasHardwareFilter()
		if err != nil {
			log.Fatal(err)
		}
		if !has {
			fmt.Println("no hardware filter support")
			return
		}

		identity, err := dev.Identity()
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("hardware filter: %s\n", identity)
	},
}
