package record

import "testing"

func TestMakeRelativeAbsoluteRoundTrip(t *testing.T) {
	base := "/data/app/documents"
	p := "/data/app/documents/images/photo.jpg"

	rel := MakeRelative(p, base)
	if rel != "images/photo.jpg" {
		t.Errorf("relative = %q", rel)
	}
	if got := MakeAbsolute(rel, base); got != p {
		t.Errorf("round trip = %q, want %q", got, p)
	}
}

func TestPathNormalizationIdentityOnURLs(t *testing.T) {
	base := "/data/app/documents"
	urls := []string{
		"https://storage.example.com/recipe-images/1.jpg",
		"http://example.com/a.png",
		"data:image/jpeg;base64,AAAA",
	}
	for _, u := range urls {
		if got := MakeRelative(u, base); got != u {
			t.Errorf("MakeRelative(%q) = %q", u, got)
		}
		if got := MakeAbsolute(u, base); got != u {
			t.Errorf("MakeAbsolute(%q) = %q", u, got)
		}
	}
}

func TestMakeRelativeOutsideBase(t *testing.T) {
	p := "/tmp/elsewhere/photo.jpg"
	if got := MakeRelative(p, "/data/app/documents"); got != p {
		t.Errorf("path outside base = %q, want unchanged", got)
	}
}

func TestMakeAbsoluteEmpty(t *testing.T) {
	if got := MakeAbsolute("", "/base"); got != "" {
		t.Errorf("empty path = %q", got)
	}
}
