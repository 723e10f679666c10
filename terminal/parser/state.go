package parser

// State for the state machine
type State int

const (
	StateGround State = iota
	StateEscape
	StateEscapeIntermediate
	StateCSIEntry
	StateCSIParam
	StateCSIIntermediate
	StateCsiIgnore
	StateDCSEntry
	StateDCSParam
	StateDCSIntermediate
	StateDCSPassthrough
	StateDCSEscape
	StateDCSIgnore
	StateDecrqssEnter
	StateDecrqssParam
	StateDecrqssIntermediate
	StateDecrqssIgnore
	StateOSCString
	StateAPCString
	StateRenameString
	StateSosPmApcString
	StateConsumeST
)
