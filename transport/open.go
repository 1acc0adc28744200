package transport

import (
	"fmt"

	"golang.org/x/sync/singleflight"
)

var openGroup singleflight.Group

// OpenShared is Open deduplicated by (vid, pid, serial): concurrent
// callers asking for the same device within the same in-flight call
// observe one actual USB open, not one each. Used by OpenTransport and
// OpenCandidates so two orchestrator invocations racing on device
// discovery collapse into one USB scan. Callers that join the same
// in-flight call all get back the same *Device pointer; they must
// coordinate Close themselves if they share a Device this way across
// goroutines.
func OpenShared(vid, pid uint16, serial string) (*Device, error) {
	key := fmt.Sprintf("%04x:%04x:%s", vid, pid, serial)
	v, err, _ := openGroup.Do(key, func() (any, error) {
		return Open(vid, pid, serial)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Device), nil
}
