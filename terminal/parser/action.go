package parser

import (
	"fmt"
	"strings"

	"github.com/tarnhelm/vtcore/terminal/sequences/csi"
	"github.com/tarnhelm/vtcore/terminal/sequences/dcs"
	"github.com/tarnhelm/vtcore/terminal/sequences/esc"
	"github.com/tarnhelm/vtcore/terminal/sequences/osc"
)

// ActionType is an action that taked when event or
// state transition occurs
type ActionType int

const (
	ActionNone ActionType = iota
	ActionIgnore
	ActionPrint
	ActionExecute
	ActionCollect
	ActionParam
	ActionESCDispatch
	ActionCSIDispatch
	ActionDCSHook
	ActionDCSPut
	ActionDCSUnHook
	ActionDCSEscapePut
	ActionDCSRequestStatus
	ActionOSCStart
	ActionOSCPut
	ActionOSCEnd
	ActionAPCStart
	ActionAPCPut
	ActionAPCEnd
	ActionRenameStart
	ActionRenamePut
	ActionRenameEnd
)

func (a ActionType) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionIgnore:
		return "Ignore"
	case ActionPrint:
		return "Print"
	case ActionExecute:
		return "Execute"
	case ActionCollect:
		return "Collect"
	case ActionParam:
		return "Param"
	case ActionESCDispatch:
		return "ESCDispatch"
	case ActionCSIDispatch:
		return "CSIDispatch"
	case ActionDCSHook:
		return "DCSHook"
	case ActionDCSPut:
		return "DCSPut"
	case ActionDCSUnHook:
		return "DCSUnHook"
	case ActionDCSEscapePut:
		return "DCSEscapePut"
	case ActionDCSRequestStatus:
		return "DCSRequestStatus"
	case ActionOSCStart:
		return "OSCStart"
	case ActionOSCPut:
		return "OSCPut"
	case ActionOSCEnd:
		return "OSCEnd"
	case ActionAPCStart:
		return "APCStart"
	case ActionAPCPut:
		return "APCPut"
	case ActionAPCEnd:
		return "APCEnd"
	case ActionRenameStart:
		return "RenameStart"
	case ActionRenamePut:
		return "RenamePut"
	case ActionRenameEnd:
		return "RenameEnd"
	default:
		return "Unknown"
	}
}

// Action is the action that a caller of the parser is expected to
// take as a result of some input character
type Action struct {
	Type ActionType

	// Draw character to the screen. This is a unicode codepoint.
	PrintData uint8

	// ExecuteData the C0 or C1 function.
	ExecuteData uint8

	// execute the CSI command.
	CSIDispatchData *csi.Command

	// execute the ECS command.
	ESCDispatchData *esc.Command

	// execute the OSC command.
	OSCDispatchData *osc.Command

	// DCS-related events
	DCSHookData *dcs.DCS
	DCSPutData  uint8

	// DCSEscapePutData carries the byte that followed a literal ESC found
	// inside a DCS passthrough payload; the caller is expected to put both
	// the ESC byte and this byte into the passthrough payload, since the
	// embedded ESC itself is never put by a distinct action.
	DCSEscapePutData uint8

	// DCSRequestData carries the parsed DECRQSS inner query (a CSI-shaped
	// command naming the setting being requested), produced once the
	// decrqss mini-parser's final byte arrives.
	DCSRequestData *csi.Command

	// APC data
	APCPutData uint8

	// RenamePutData carries a byte of the ESC k ... ST window-rename
	// payload.
	RenamePutData uint8
}

func (a *Action) String() string {
	if a == nil {
		return "{nil}"
	}
	builder := new(strings.Builder)
	fmt.Fprintf(builder, "{ .%s = ", a.Type.String())
	switch a.Type {
	case ActionPrint:
		fmt.Fprintf(builder, "0x%x", a.PrintData)
	case ActionExecute:
		fmt.Fprintf(builder, "0x%x", a.ExecuteData)
	case ActionCSIDispatch:
		if a.CSIDispatchData != nil {
			fmt.Fprintf(builder, "%s", a.CSIDispatchData.String())
		} else {
			fmt.Fprintf(builder, "nil")
		}
	case ActionESCDispatch:
		if a.ESCDispatchData != nil {
			fmt.Fprintf(builder, "%s", a.ESCDispatchData.String())
		} else {
			fmt.Fprintf(builder, "nil")
		}
	case ActionOSCStart, ActionOSCEnd:
		if a.OSCDispatchData != nil {
			fmt.Fprintf(builder, "osc")
		} else {
			fmt.Fprintf(builder, "nil")
		}
	case ActionDCSHook:
		if a.DCSHookData != nil {
			fmt.Fprintf(builder, "%s", a.DCSHookData.String())
		} else {
			fmt.Fprintf(builder, "nil")
		}
	case ActionDCSPut:
		fmt.Fprintf(builder, "0x%x", a.DCSPutData)
	case ActionDCSEscapePut:
		fmt.Fprintf(builder, "ESC 0x%x", a.DCSEscapePutData)
	case ActionDCSRequestStatus:
		if a.DCSRequestData != nil {
			fmt.Fprintf(builder, "%s", a.DCSRequestData.String())
		} else {
			fmt.Fprintf(builder, "nil")
		}
	case ActionAPCPut:
		fmt.Fprintf(builder, "0x%x", a.APCPutData)
	case ActionRenamePut:
		fmt.Fprintf(builder, "0x%x", a.RenamePutData)
	}
	fmt.Fprintf(builder, "}")
	return builder.String()
}
