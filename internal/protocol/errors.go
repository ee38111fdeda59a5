package protocol

const (
	// Protocol/transport validation.
	ErrProtoBadRequest  = "E_PROTO_BAD_REQUEST"
	ErrProtoVersion     = "E_PROTO_VERSION"
	ErrProtoUnsupported = "E_PROTO_UNSUPPORTED"

	// Session/world state.
	ErrWorldBusy     = "E_WORLD_BUSY"
	ErrWorldDefeated = "E_WORLD_DEFEATED"

	// Input layer.
	ErrBadRequest = "E_BAD_REQUEST"
	ErrInternal   = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest:  {},
	ErrProtoVersion:     {},
	ErrProtoUnsupported: {},
	ErrWorldBusy:        {},
	ErrWorldDefeated:    {},
	ErrBadRequest:       {},
	ErrInternal:         {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}

func NewError(code, message string) ErrorMsg {
	return ErrorMsg{Type: TypeError, ProtocolVersion: Version, Code: code, Message: message}
}
