package parser

import (
	"strings"
	"testing"
)

func TestParse_PlainText(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		raw      []byte
		expected string
	}{
		{"txt", "notes.txt", []byte("hello world"), "hello world"},
		{"markdown", "README.md", []byte("# title\nbody"), "# title\nbody"},
		{"unknown suffix falls back to txt", "data.csv", []byte("a,b,c"), "a,b,c"},
		{"invalid utf8 dropped", "bad.txt", []byte{'o', 'k', 0xff, 0xfe, '!'}, "ok!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Parse(tt.path, tt.raw); got != tt.expected {
				t.Errorf("Parse(%s) = %q, want %q", tt.path, got, tt.expected)
			}
		})
	}
}

func TestParse_JSONCanonicalized(t *testing.T) {
	got := Parse("config.json", []byte(`{"b":1,"a":[true,null]}`))

	if !strings.Contains(got, "  \"a\"") {
		t.Errorf("expected 2-space indented output, got %q", got)
	}
	// stable canonical form regardless of input formatting
	again := Parse("config.json", []byte("{\n\t\"b\": 1, \"a\": [true, null]}"))
	if got != again {
		t.Error("same JSON value produced different canonical text")
	}
}

func TestParse_MalformedJSONIsEmptyNotFatal(t *testing.T) {
	if got := Parse("broken.json", []byte(`{"a":`)); got != "" {
		t.Errorf("expected empty text for malformed JSON, got %q", got)
	}
}

func TestParse_HTMLVisibleText(t *testing.T) {
	raw := []byte(`<html><head>
		<title>Login Page</title>
		<style>body { color: red }</style>
		<script>console.log("hidden")</script>
	</head><body>
		<h1>Welcome</h1>
		<p>Please <b>sign in</b> below.</p>
		<div><input id="u" placeholder="user"></div>
	</body></html>`)

	got := Parse("page.html", raw)

	if strings.Contains(got, "console.log") || strings.Contains(got, "color: red") {
		t.Errorf("script/style content leaked into output: %q", got)
	}
	lines := strings.Split(got, "\n")
	var found []string
	for _, l := range lines {
		if l != "" {
			found = append(found, l)
		}
	}
	want := []string{"Login Page", "Welcome", "Please sign in below."}
	for i, w := range want {
		if i >= len(found) || found[i] != w {
			t.Fatalf("visible text runs = %q, want prefix %q", found, want)
		}
	}
}

func TestParse_PDFMalformedDegrades(t *testing.T) {
	if got := Parse("doc.pdf", []byte("this is not a pdf")); got != "" {
		t.Errorf("expected empty text for malformed pdf, got %q", got)
	}
}

func TestParse_SuffixCaseInsensitive(t *testing.T) {
	if got := Parse("NOTES.TXT", []byte("upper")); got != "upper" {
		t.Errorf("uppercase suffix not handled, got %q", got)
	}
}
