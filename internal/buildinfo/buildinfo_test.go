package buildinfo

import "testing"

func TestInfo_String(t *testing.T) {
	got := Info{Version: "1.2.0", Commit: "abc123", Date: "2026-10-14"}.String()
	if want := "chaos 1.2.0 (abc123, built 2026-10-14)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestCurrent_Defaults(t *testing.T) {
	if got := Current(); got.Version != Version || got.Commit != Commit {
		t.Errorf("Current() = %+v", got)
	}
}
