package feed

// State is the lifecycle position of a Session.
//
//	Idle -> Connecting -> Subscribed -> Terminated
//
// Any failure, and Stop from any state, ends in Terminated, which is final.
type State int

const (
	Idle State = iota
	Connecting
	Subscribed
	Terminated
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Connecting:
		return "connecting"
	case Subscribed:
		return "subscribed"
	case Terminated:
		return "terminated"
	}
	return "unknown"
}

// MarshalText lets State render as its name in JSON.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
