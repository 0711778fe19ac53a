package entities

import "testing"

// TestEscapeMarkdown tests reserved character escaping and entity handling
func TestEscapeMarkdown(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"Plain", "hello world", "hello world"},
		{"Reserved", "a_b*c[d](e)", `a\_b\*c\[d\]\(e\)`},
		{"Punctuation", "done. really!", `done\. really\!`},
		{"Backslash", `a\b`, `a\\b`},
		{"EntitiesUnescapedFirst", "&lt;b&gt;", `<b\>`},
		{"Ampersand", "tom &amp; jerry", "tom & jerry"},
		{"Empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EscapeMarkdown(tt.in); got != tt.want {
				t.Errorf("EscapeMarkdown(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// TestShrinkText tests whitespace normalization
func TestShrinkText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"TrimsEnds", "  text  ", "text"},
		{"CRLFNormalized", "a\r\nb", "a\nb"},
		{"CollapsesNewlineRuns", "a\n\n\n\nb", "a\nb"},
		{"CRLFRunCollapsed", "a\r\n\r\nb", "a\nb"},
		{"OnlyWhitespace", " \n\n ", ""},
		{"Empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShrinkText(tt.in); got != tt.want {
				t.Errorf("ShrinkText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// TestUserMarkdown tests mention rendering and the missing-id guards
func TestUserMarkdown(t *testing.T) {
	tests := []struct {
		name string
		user string
		uid  string
		want string
	}{
		{"Normal", "alice", "42", "[@alice](https://space.bilibili.com/42)"},
		{"EscapesName", "a_b", "42", `[@a\_b](https://space.bilibili.com/42)`},
		{"EmptyUser", "", "42", ""},
		{"EmptyUID", "alice", "", ""},
		{"ZeroUID", "alice", "0", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMarkdown(tt.user, tt.uid); got != tt.want {
				t.Errorf("UserMarkdown(%q, %q) = %q, want %q", tt.user, tt.uid, got, tt.want)
			}
		})
	}
}

// TestMediaFilename tests filename extraction from media URLs
func TestMediaFilename(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"Simple", "https://i0.hdslb.com/bfs/album/abc123.jpg", "abc123.jpg"},
		{"WithQuery", "https://host/path/video.mp4?sign=xyz", "video.mp4"},
		{"LongExtension", "https://host/a/cover.jpeg", "cover.jpeg"},
		{"NoFilename", "https://host/path/", ""},
		{"ShortExtension", "https://host/x.db", ""},
		{"Empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MediaFilename(tt.url); got != tt.want {
				t.Errorf("MediaFilename(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}
