package storage

import "testing"

func TestIsValidKind(t *testing.T) {
	for _, kind := range []string{"avatars", "covers", "posts", "messages", "verification"} {
		if !IsValidKind(kind) {
			t.Errorf("IsValidKind(%q) = false, want true", kind)
		}
	}
	for _, kind := range []string{"", "uploads", "Avatars", "../etc"} {
		if IsValidKind(kind) {
			t.Errorf("IsValidKind(%q) = true, want false", kind)
		}
	}
}

func TestKindContentTypeRules(t *testing.T) {
	cases := []struct {
		kind        string
		contentType string
		want        bool
	}{
		{"avatars", "image/jpeg", true},
		{"avatars", "video/mp4", false},
		{"covers", "image/png", true},
		{"covers", "application/pdf", false},
		{"posts", "video/mp4", true},
		{"posts", "audio/mpeg", false},
		{"messages", "audio/ogg", true},
		{"messages", "application/octet-stream", false},
		{"verification", "application/pdf", true},
		{"verification", "video/mp4", true},
		{"verification", "audio/mpeg", false},
	}
	for _, tc := range cases {
		spec := uploadKinds[tc.kind]
		if got := typeAllowed(tc.contentType, spec.allowed); got != tc.want {
			t.Errorf("typeAllowed(%q, %s) = %v, want %v", tc.contentType, tc.kind, got, tc.want)
		}
	}
}

func TestDetectContentType(t *testing.T) {
	cases := map[string]string{
		".JPG":  "image/jpeg",
		".png":  "image/png",
		".mp4":  "video/mp4",
		".ogg":  "audio/ogg",
		".pdf":  "application/pdf",
		".dat":  "application/octet-stream",
		"":      "application/octet-stream",
		".webp": "image/webp",
	}
	for ext, want := range cases {
		if got := detectContentType(ext); got != want {
			t.Errorf("detectContentType(%q) = %q, want %q", ext, got, want)
		}
	}
}
