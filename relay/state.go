package relay

import "fmt"

// State is the connection state of a Relay. Only the relay's own control
// loop changes it.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateStreaming
	StateDraining
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateStreaming:
		return "streaming"
	case StateDraining:
		return "draining"
	case StateStopped:
		return "stopped"
	}

	return "unknown"
}

// MarshalText lets State show up by name in JSON output
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	for st := StateDisconnected; st <= StateStopped; st++ {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}

	return fmt.Errorf("unknown relay state '%s'", text)
}
