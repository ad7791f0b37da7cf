package scriptgen

import (
	"os"
	"path/filepath"
	"testing"
)

func writeHTML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page.html")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func findByTag(elements []UIElement, tag string) *UIElement {
	for i := range elements {
		if elements[i].Tag == tag {
			return &elements[i]
		}
	}
	return nil
}

func TestExtractUIElementsAttributes(t *testing.T) {
	path := writeHTML(t, `<html><body><input id="u" class="a b"></body></html>`)

	elements := ExtractUIElements(path)
	input := findByTag(elements, "input")
	if input == nil {
		t.Fatalf("no input element in %v", elements)
	}
	if input.Id != "u" {
		t.Errorf("id = %q, want %q", input.Id, "u")
	}
	if input.Class != "a b" {
		t.Errorf("class = %q, want %q", input.Class, "a b")
	}
	if input.Name != "" || input.Placeholder != "" || input.Text != "" {
		t.Errorf("absent attributes must be empty, got %+v", *input)
	}
}

func TestExtractUIElementsDocumentOrder(t *testing.T) {
	path := writeHTML(t, `<html><body>
		<input id="user" name="username" placeholder="Username">
		<input id="pass" name="password">
		<button id="login" class="btn  primary">Sign in</button>
	</body></html>`)

	elements := ExtractUIElements(path)

	var ids []string
	for _, e := range elements {
		if e.Id != "" {
			ids = append(ids, e.Id)
		}
	}
	want := []string{"user", "pass", "login"}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ids = %v, want %v", ids, want)
		}
	}

	button := findByTag(elements, "button")
	if button == nil {
		t.Fatal("no button element")
	}
	if button.Class != "btn primary" {
		t.Errorf("class = %q, want normalized %q", button.Class, "btn primary")
	}
	if button.Text != "Sign in" {
		t.Errorf("text = %q, want %q", button.Text, "Sign in")
	}
}

func TestExtractUIElementsMissingFile(t *testing.T) {
	if got := ExtractUIElements(filepath.Join(t.TempDir(), "absent.html")); got != nil {
		t.Errorf("expected nil for missing file, got %v", got)
	}
}
