package protocol

import "testing"

func TestIsKnownCode(t *testing.T) {
	cases := []string{
		"",
		ErrProtoBadRequest,
		ErrProtoVersion,
		ErrProtoUnsupported,
		ErrWorldBusy,
		ErrWorldDefeated,
		ErrBadRequest,
		ErrInternal,
	}
	for _, c := range cases {
		if !IsKnownCode(c) {
			t.Fatalf("expected known code: %q", c)
		}
	}
	if IsKnownCode("E_NOT_DEFINED") {
		t.Fatalf("expected unknown code rejected")
	}
}

func TestNewError(t *testing.T) {
	m := NewError(ErrWorldBusy, "busy")
	if m.Type != TypeError || m.ProtocolVersion != Version || m.Code != ErrWorldBusy {
		t.Fatalf("unexpected error message: %+v", m)
	}
}

func TestSupportedVersion(t *testing.T) {
	if !SupportedVersion("") || !SupportedVersion(Version) || SupportedVersion("0.9") {
		t.Fatalf("version negotiation mismatch")
	}
}
