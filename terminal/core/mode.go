package core

import (
	"maps"
	"slices"
)

// A struct that maintains the state of all settable modes
type Mode struct {
	Name  string
	Value int
	/// True if this is an ANSI mode
	Ansi    bool
	Default bool
}

func entryForMode(name string, value int, ansi bool, defaultMode bool) Mode {
	return Mode{
		Name:    name,
		Value:   value,
		Ansi:    ansi,
		Default: defaultMode,
	}
}

var (
	// ansi modes (CSI Pn h / CSI Pn l)
	ModeDisableKeyboard = entryForMode("disable keyboard", 2, true, false)  // KAM
	ModeInsert          = entryForMode("insert", 4, true, false)            // IRM
	ModeSendReceiveMode = entryForMode("send_receive_mode", 12, true, true) // SRM
	ModeLineFeed        = entryForMode("line feed", 20, true, false)        // LNM

	// DEC private modes (CSI ? Pn h / CSI ? Pn l)
	ModeCursorKeys   = entryForMode("cursor keys", 1, false, false)   // DECCKM
	ModeAnsi132      = entryForMode("132 column", 3, false, false)    // DECCOLM
	ModeSmoothScroll = entryForMode("smooth scroll", 4, false, false) // DECSCLM
	ModeReverseVideo = entryForMode("reverse video", 5, false, false) // DECSCNM
	ModeOrigin       = entryForMode("origin", 6, false, false)        // DECOM
	ModeWraparound   = entryForMode("wraparound", 7, false, true)     // DECAWM
	ModeAutoRepeat   = entryForMode("auto repeat", 8, false, true)    // DECARM

	ModeMouseX10     = entryForMode("mouse x10", 9, false, false)
	ModeCursorBlink  = entryForMode("cursor blink", 12, false, true)
	ModeCursorVisible = entryForMode("cursor visible", 25, false, true) // DECTCEM

	ModeMouseVT200     = entryForMode("mouse vt200", 1000, false, false) // reports on button press/release
	ModeMouseVT200Hl   = entryForMode("mouse vt200 highlight", 1001, false, false)
	ModeMouseButtonEvent = entryForMode("mouse button event", 1002, false, false)
	ModeMouseAnyEvent  = entryForMode("mouse any event", 1003, false, false)
	ModeFocusEvent     = entryForMode("focus event", 1004, false, false)
	ModeMouseUtf8      = entryForMode("mouse utf8", 1005, false, false)
	ModeMouseSgr       = entryForMode("mouse sgr", 1006, false, false)
	ModeMouseUrxvt     = entryForMode("mouse urxvt", 1015, false, false)
	ModeMouseSgrPixels = entryForMode("mouse sgr pixels", 1016, false, false)

	ModeAltScreen47   = entryForMode("alt screen 47", 47, false, false)
	ModeDECCOLM132    = entryForMode("132 column (synonym)", 40, false, false)
	ModeAltScreen1047 = entryForMode("alt screen", 1047, false, false)
	ModeSaveCursor1048 = entryForMode("save cursor", 1048, false, false)
	ModeAltScreen1049 = entryForMode("alt screen + save cursor", 1049, false, false)

	ModeBracketedPaste = entryForMode("bracketed paste", 2004, false, false)
	ModeThemeUpdates    = entryForMode("theme updates", 2031, false, false)

	ModeLRMargins = entryForMode("left/right margins", 69, false, false) // DECLRMM

	// The full list of available entries. For documentation on these modes,
	// see how they are used in the VT100/VT220 and ECMA-48 standards or
	// google their values.
	entries = []Mode{
		ModeDisableKeyboard,
		ModeInsert,
		ModeSendReceiveMode,
		ModeLineFeed,

		ModeCursorKeys,
		ModeAnsi132,
		ModeSmoothScroll,
		ModeReverseVideo,
		ModeOrigin,
		ModeWraparound,
		ModeAutoRepeat,
		ModeMouseX10,
		ModeCursorBlink,
		ModeCursorVisible,
		ModeMouseVT200,
		ModeMouseVT200Hl,
		ModeMouseButtonEvent,
		ModeMouseAnyEvent,
		ModeFocusEvent,
		ModeMouseUtf8,
		ModeMouseSgr,
		ModeMouseUrxvt,
		ModeMouseSgrPixels,
		ModeAltScreen47,
		ModeDECCOLM132,
		ModeAltScreen1047,
		ModeSaveCursor1048,
		ModeAltScreen1049,
		ModeBracketedPaste,
		ModeThemeUpdates,
		ModeLRMargins,
	}
)

// A Packed map of all settable modes. This shouldn't be used directly but
// rather through the ModeState struct
var ModePacked = func() map[Mode]bool {
	packed := make(map[Mode]bool, len(entries))
	for _, m := range entries {
		packed[m] = m.Default
	}
	return packed
}()

type ModeState struct {
	// The values of current modes
	values map[Mode]bool
	// The default values of modes
	defaults map[Mode]bool

	// KeysExtended is driven by CSI > 4 ; Pn m (MODSET) / CSI > 4 ; Pn n
	// (MODOFF), gated by the extended-keys option, rather than a plain SM/RM
	// mode number. 0 = off, 1 = on, 2 = always-on (can't be turned off by the
	// application).
	KeysExtended int
}

func NewModeState(values map[Mode]bool, def map[Mode]bool) *ModeState {
	state := &ModeState{
		defaults: def,
		values:   values,
	}
	if values == nil {
		state.values = make(map[Mode]bool)
	}
	if def == nil {
		state.defaults = make(map[Mode]bool)
	}
	return state
}

func (s *ModeState) Set(m Mode, value bool) {
	s.values[m] = value
}

func (s *ModeState) Get(m Mode) bool {
	return s.values[m]
}

func (s *ModeState) Reset() {
	s.values = make(map[Mode]bool)
	maps.Copy(s.values, s.defaults)
	s.KeysExtended = 0
}

func ModeFromInt(input int, ansi bool) *Mode {
	for entry := range slices.Values(entries) {
		if entry.Value == input && entry.Ansi == ansi {
			return &entry
		}
	}
	return nil
}
