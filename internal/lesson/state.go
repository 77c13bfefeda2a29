package lesson

// State is a step of a lesson interaction.
type State int

// Interaction states in the order a lesson moves through them.
const (
	Idle State = iota
	TopicSelected
	StoreGenerated
	PreviewExecuted
	AwaitingInput
	RunExecuted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case TopicSelected:
		return "topic_selected"
	case StoreGenerated:
		return "store_generated"
	case PreviewExecuted:
		return "preview_executed"
	case AwaitingInput:
		return "awaiting_input"
	case RunExecuted:
		return "run_executed"
	default:
		return "unknown"
	}
}
