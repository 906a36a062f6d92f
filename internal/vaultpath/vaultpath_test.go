package vaultpath

import "testing"

func TestFromStringRoundTrip(t *testing.T) {
	cases := []string{
		"/",
		"a.md",
		"/a/b/c.md",
		"//double//slash//collapses.md",
		"trailing/",
		"/leading/and/trailing/",
	}
	for _, c := range cases {
		p := FromString(c)
		again := FromString(p.String())
		if !p.Equal(again) {
			t.Errorf("FromString(display(p)) != p for %q: %q vs %q", c, p.String(), again.String())
		}
	}
}

func TestSanitiseRemovesDisallowed(t *testing.T) {
	p := FromString("Some?unvalid:chars?/and*more<here>.md")
	for _, slice := range p.Slices() {
		for _, r := range disallowed {
			if containsRune(slice, r) {
				t.Fatalf("slice %q still contains disallowed rune %q", slice, r)
			}
		}
	}
}

func containsRune(s string, r rune) bool {
	for _, c := range s {
		if c == r {
			return true
		}
	}
	return false
}

func TestSanitiseIdempotent(t *testing.T) {
	raw := `weird:/name*?.md`
	once := sanitise(raw)
	twice := sanitise(once)
	if once != twice {
		t.Fatalf("sanitise not idempotent: %q vs %q", once, twice)
	}
}

func TestRootDisplaysAsSlash(t *testing.T) {
	if got := Root().String(); got != "/" {
		t.Fatalf("Root().String() = %q, want \"/\"", got)
	}
}

func TestIsNote(t *testing.T) {
	if !FromString("/journal/2025-01-02.md").IsNote() {
		t.Fatal("expected .md path to be a note")
	}
	if FromString("/attachments/image.png").IsNote() {
		t.Fatal("did not expect .png path to be a note")
	}
	if Root().IsNote() {
		t.Fatal("root is not a note")
	}
}

func TestParent(t *testing.T) {
	parent, name := FromString("/a/b/c.md").Parent()
	if parent.String() != "/a/b" || name != "c.md" {
		t.Fatalf("got parent=%q name=%q", parent.String(), name)
	}
	parent, name = Root().Parent()
	if parent.String() != "/" || name != "" {
		t.Fatalf("root parent should be root with empty name, got parent=%q name=%q", parent.String(), name)
	}
}

func TestFileFrom(t *testing.T) {
	base := FromString("/journal")
	p, err := base.FileFrom("2025-01-02")
	if err != nil {
		t.Fatalf("FileFrom: %v", err)
	}
	if p.String() != "/journal/2025-01-02.md" {
		t.Fatalf("got %q", p.String())
	}

	p2, err := base.FileFrom("already.md")
	if err != nil {
		t.Fatalf("FileFrom: %v", err)
	}
	if p2.String() != "/journal/already.md" {
		t.Fatalf("got %q", p2.String())
	}

	if _, err := base.FileFrom("trailing/"); err == nil {
		t.Fatal("expected error for name ending in /")
	}
}

func TestNameOnConflict(t *testing.T) {
	existing := map[string]bool{
		"/a/note.md":   true,
		"/a/note-1.md": true,
	}
	p := FromString("/a/note.md")
	fresh := p.NameOnConflict(existing)
	if fresh.String() != "/a/note-2.md" {
		t.Fatalf("got %q, want /a/note-2.md", fresh.String())
	}

	unique := FromString("/a/other.md")
	if got := unique.NameOnConflict(existing); got.String() != unique.String() {
		t.Fatalf("expected unchanged path, got %q", got.String())
	}
}

func TestFromFilesystemPath(t *testing.T) {
	p, err := FromFilesystemPath("/vault", "/vault/a/b.md")
	if err != nil {
		t.Fatalf("FromFilesystemPath: %v", err)
	}
	if p.String() != "/a/b.md" {
		t.Fatalf("got %q", p.String())
	}

	if _, err := FromFilesystemPath("/vault", "/other/b.md"); err == nil {
		t.Fatal("expected error for path outside root")
	}
}
