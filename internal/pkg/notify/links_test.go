package notify

import "testing"

func TestUpdateLink(t *testing.T) {
	tests := []struct {
		name     string
		updateID uint
		replyID  uint
		want     string
	}{
		{name: "update only", updateID: 12, replyID: 0, want: "/portal/abc/updates/12"},
		{name: "update with reply anchor", updateID: 12, replyID: 7, want: "/portal/abc/updates/12#reply-7"},
	}

	for _, tt := range tests {
		if got := UpdateLink("abc", tt.updateID, tt.replyID); got != tt.want {
			t.Fatalf("%s: UpdateLink = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestParseUpdateIDInvertsUpdateLink(t *testing.T) {
	for _, updateID := range []uint{1, 12, 550} {
		link := UpdateLink("550e8400-e29b-41d4-a716-446655440000", updateID, 0)
		got, ok := ParseUpdateID(link)
		if !ok || got != updateID {
			t.Fatalf("ParseUpdateID(%q) = (%d, %v), want (%d, true)", link, got, ok, updateID)
		}

		withReply := UpdateLink("550e8400-e29b-41d4-a716-446655440000", updateID, 3)
		got, ok = ParseUpdateID(withReply)
		if !ok || got != updateID {
			t.Fatalf("ParseUpdateID(%q) = (%d, %v), want (%d, true)", withReply, got, ok, updateID)
		}
	}
}

func TestParseUpdateIDRejectsOtherLinks(t *testing.T) {
	for _, link := range []string{
		PortalLink("abc"),
		PortalFilesLink("abc"),
		"",
		"/portal/abc/updates/",
	} {
		if _, ok := ParseUpdateID(link); ok {
			t.Fatalf("ParseUpdateID(%q) should not match", link)
		}
	}
}
