package presenter

// Lifecycle is the state of a registered view.
type Lifecycle int

const (
	// Attached views receive state broadcasts.
	Attached Lifecycle = iota + 1
	// Detached views keep their subscriber but are skipped by broadcasts.
	Detached
)

func (l Lifecycle) String() string {
	switch l {
	case Attached:
		return "attached"
	case Detached:
		return "detached"
	default:
		return "unknown"
	}
}

// Transition names reported to a MetricsCollector.
const (
	TransitionAttached = "attached"
	TransitionResumed  = "resumed"
	TransitionDetached = "detached"
	TransitionCleared  = "cleared"
)
