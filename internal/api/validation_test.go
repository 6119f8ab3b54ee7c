package api

import "testing"

func TestExtractVideoID(t *testing.T) {
	cases := []struct {
		input string
		want  string
		ok    bool
	}{
		{"abc123def45", "abc123def45", true},
		{"https://www.youtube.com/watch?v=abc123def45", "abc123def45", true},
		{"http://youtube.com/watch?v=abc123def45&t=30s", "abc123def45", true},
		{"https://youtu.be/abc123def45", "abc123def45", true},
		{"https://www.youtube.com/embed/abc123def45", "abc123def45", true},
		{"https://www.youtube-nocookie.com/embed/abc123def45", "abc123def45", true},
		{"https://www.youtube.com/shorts/abc123def45", "abc123def45", true},
		{"", "", false},
		{"not a url", "", false},
		{"https://example.com/watch?v=abc123def45", "", false},
		{"tooshort", "", false},
	}
	for _, c := range cases {
		got, err := ExtractVideoID(c.input)
		if c.ok && err != nil {
			t.Errorf("%q: unexpected error: %v", c.input, err)
			continue
		}
		if !c.ok && err == nil {
			t.Errorf("%q: expected error, got %q", c.input, got)
			continue
		}
		if c.ok && got != c.want {
			t.Errorf("%q: got %q, want %q", c.input, got, c.want)
		}
	}
}

func TestValidateUploadFilename(t *testing.T) {
	for _, name := range []string{"a.mp4", "b.AVI", "c.mov", "d.mkv"} {
		if err := ValidateUploadFilename(name); err != nil {
			t.Errorf("%q should be allowed: %v", name, err)
		}
	}
	for _, name := range []string{"x.exe", "y.mp3", "noext", "z.mp4.sh"} {
		if err := ValidateUploadFilename(name); err == nil {
			t.Errorf("%q should be rejected", name)
		}
	}
}
