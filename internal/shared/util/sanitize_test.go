package util

import "testing"

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "resume.pdf", want: "resume.pdf"},
		{in: " dir/resume.docx ", want: "dir_resume.docx"},
		{in: `C:\cv.txt`, want: "C:_cv.txt"},
		{in: "../etc/passwd", wantErr: true},
		{in: "   ", wantErr: true},
	}
	for _, tt := range tests {
		got, err := SanitizeFileName(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("SanitizeFileName(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("SanitizeFileName(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestValidEmail(t *testing.T) {
	valid := []string{"a@b.co", "Jane.Doe@example.com", " x@y.io "}
	invalid := []string{"", "plain", "@example.com", "a@", "a@b", "a@@b.com", "a b@c.com", "a@b."}
	for _, e := range valid {
		if !ValidEmail(e) {
			t.Fatalf("expected %q valid", e)
		}
	}
	for _, e := range invalid {
		if ValidEmail(e) {
			t.Fatalf("expected %q invalid", e)
		}
	}
	if NormalizeEmail(" Jane@Example.COM ") != "jane@example.com" {
		t.Fatalf("unexpected normalization")
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := TruncateRunes("héllo", 2); got != "hé" {
		t.Fatalf("got %q", got)
	}
	if got := TruncateRunes("abc", 10); got != "abc" {
		t.Fatalf("got %q", got)
	}
	if got := TruncateRunes("abc", 0); got != "" {
		t.Fatalf("got %q", got)
	}
}
