package transport

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// candidateFile is the on-disk shape of a VID/PID candidate list,
// letting deployments probe adapters this package doesn't know about
// without a code change. The loaded list is used on its own; it is not
// merged with DefaultCandidates.
type candidateFile struct {
	Devices []struct {
		VID uint16 `yaml:"vid"`
		PID uint16 `yaml:"pid"`
	} `yaml:"devices"`
}

// LoadCandidates reads a YAML candidate list of the form:
//
//	devices:
//	  - vid: 0x1d50
//	    pid: 0x606f
//	  - vid: 0xad50
//	    pid: 0x60c4
func LoadCandidates(path string) ([]Candidate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read candidate list %s: %w", path, err)
	}

	var f candidateFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse candidate list %s: %w", path, err)
	}

	candidates := make([]Candidate, len(f.Devices))
	for i, d := range f.Devices {
		candidates[i] = Candidate{VID: d.VID, PID: d.PID}
	}
	return candidates, nil
}

// DefaultCandidates is the built-in gs_usb/candlelight VID/PID list,
// mirroring the reference implementation's default_vid_pid_list_. No open
// path in this module tries it: OpenCandidates tries only the list it is
// given, and canfilterctl passes it only a list loaded by LoadCandidates.
var DefaultCandidates = []Candidate{
	{VID: 0x1d50, PID: 0x606f}, // candleLight
	{VID: 0x1d50, PID: 0x60c4}, // candleLight/cantact compatible
	{VID: 0x16d0, PID: 0x10b8}, // USB2CAN
}
