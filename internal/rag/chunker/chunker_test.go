package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplit_Empty(t *testing.T) {
	if got := Split("", 800, 150); len(got) != 0 {
		t.Errorf("expected no pieces for empty text, got %d", len(got))
	}
}

func TestSplit_SingleWindow(t *testing.T) {
	tests := []struct {
		name string
		size int
	}{
		{"short", 10},
		{"exactly one window", 800},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := strings.Repeat("a", tt.size)
			pieces := Split(text, 800, 150)
			if len(pieces) != 1 {
				t.Fatalf("expected 1 piece, got %d", len(pieces))
			}
			if pieces[0].Text != text || pieces[0].Start != 0 {
				t.Errorf("piece does not cover whole text: start=%d len=%d", pieces[0].Start, len(pieces[0].Text))
			}
		})
	}
}

func TestSplit_CountFormula(t *testing.T) {
	const window, overlap = 800, 150
	step := window - overlap

	for _, size := range []int{1, 150, 151, 799, 800, 801, 1000, 1450, 1451, 5000, 12345} {
		text := strings.Repeat("x", size)
		pieces := Split(text, window, overlap)

		want := (size - overlap + step - 1) / step
		if size <= window {
			want = 1
		}
		if len(pieces) != want {
			t.Errorf("size %d: got %d pieces, want %d", size, len(pieces), want)
		}
	}
}

func TestSplit_ReconstructsOriginal(t *testing.T) {
	const window, overlap = 800, 150

	var b strings.Builder
	for i := 0; b.Len() < 3000; i++ {
		b.WriteString("segment ")
		b.WriteByte(byte('a' + i%26))
		b.WriteString(" | ")
	}
	text := b.String()

	pieces := Split(text, window, overlap)

	var rebuilt strings.Builder
	for i, p := range pieces {
		if i == 0 {
			rebuilt.WriteString(p.Text)
			continue
		}
		rebuilt.WriteString(p.Text[overlap:])
	}
	if rebuilt.String() != text {
		t.Error("concatenating pieces with overlap removed did not reconstruct the input")
	}
}

func TestSplit_Offsets(t *testing.T) {
	text := strings.Repeat("y", 2000)
	pieces := Split(text, 800, 150)

	for i, p := range pieces {
		if p.Start != i*650 {
			t.Errorf("piece %d start = %d, want %d", i, p.Start, i*650)
		}
	}
}

func TestSplit_MultibyteBoundaries(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"cjk", strings.Repeat("日", 400)},
		{"mixed ascii and accents", strings.Repeat("schéma für café | ", 120)},
		{"emoji", strings.Repeat("ab🚀", 500)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pieces := Split(tt.text, 800, 150)
			if len(pieces) == 0 {
				t.Fatal("expected pieces")
			}
			for i, p := range pieces {
				if !utf8.ValidString(p.Text) {
					t.Errorf("piece %d (start %d) is not valid UTF-8", i, p.Start)
				}
				if !utf8.RuneStart(tt.text[p.Start]) {
					t.Errorf("piece %d starts mid-rune at byte %d", i, p.Start)
				}
			}
			last := pieces[len(pieces)-1]
			if last.Start+len(last.Text) != len(tt.text) {
				t.Errorf("pieces do not cover the text, last ends at %d of %d", last.Start+len(last.Text), len(tt.text))
			}
		})
	}
}

func TestSplit_ClampsOverlap(t *testing.T) {
	// overlap >= window must not loop forever
	pieces := Split(strings.Repeat("z", 50), 10, 10)
	if len(pieces) == 0 {
		t.Fatal("expected pieces")
	}
	last := pieces[len(pieces)-1]
	if last.Start+len(last.Text) != 50 {
		t.Errorf("pieces do not cover the text, last ends at %d", last.Start+len(last.Text))
	}
}
