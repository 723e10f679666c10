// Provide handler type for control characters
//
// Since we might not have handlers to implement all the control chracters handlers
// Caller to terminal.Stream only needs to implement the handlers they want to
//
// I ported these handler into separate interfaces and use type assertion to
// detect if specific handler is implemented
//
// 1 potential approachs is to move these handlers into struct field
//
// Handlers are grouped by capability, and each method is named after the
// operation it performs rather than the control sequence abbreviation
//
// E.g:
//
// - handler.EditorHandler with SetCursorUp (CUU) and SetCursorDown (CUD)
//
// - handler.FormatEffectorHandler with Index (IND) and ReverseIndex (RI)
package handler
