package cleaner

import (
	"strings"
	"testing"
)

func TestCleanHTMLStripsMarkupAndScripts(t *testing.T) {
	in := `<html><head><style>body{color:red}</style></head>
<body><script>track();</script>
<p>Thank you for applying to <b>Acme Corp</b>.</p>
<div>We will be in touch.</div></body></html>`

	out, err := CleanHTML(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out, "track()") || strings.Contains(out, "color:red") {
		t.Errorf("script/style content leaked: %q", out)
	}
	if !strings.Contains(out, "Thank you for applying to Acme Corp.") {
		t.Errorf("text content lost: %q", out)
	}
	if !strings.Contains(out, "We will be in touch.") {
		t.Errorf("block content lost: %q", out)
	}
}

func TestCleanHTMLKeepsBlockBoundaries(t *testing.T) {
	out, err := CleanHTML("<div>first</div><div>second</div>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "\n") {
		t.Errorf("expected newline between blocks, got %q", out)
	}
	if strings.Contains(out, "firstsecond") {
		t.Errorf("blocks ran together: %q", out)
	}
}

func TestCleanHTMLPlainTextPassthrough(t *testing.T) {
	out, err := CleanHTML("just   a  plain\t\tbody")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "just a plain body" {
		t.Errorf("got %q", out)
	}
}

func TestPreview(t *testing.T) {
	if got := Preview("short", 10); got != "short" {
		t.Errorf("got %q", got)
	}
	got := Preview(strings.Repeat("a", 50), 10)
	if got != strings.Repeat("a", 10)+"..." {
		t.Errorf("got %q", got)
	}
}
