package extract

import (
	"testing"

	"github.com/ppiankov/bookrel/internal/model"
)

func newDefaultStripper() *Stripper {
	return NewStripper(model.DefaultStartMarkers, model.DefaultEndMarkers)
}

func TestStripper_Strip(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "both markers",
			in:   "Header\n*** START OF THIS PROJECT GUTENBERG EBOOK PRIDE ***\nBody text.\n*** END OF THIS PROJECT GUTENBERG EBOOK PRIDE ***\nLicense",
			want: "PRIDE ***\nBody text.",
		},
		{
			name: "modern marker variant",
			in:   "Header\n*** START OF THE PROJECT GUTENBERG EBOOK\nBody\n*** END OF THE PROJECT GUTENBERG EBOOK\nFooter",
			want: "Body",
		},
		{
			name: "earliest end marker wins across variants",
			in:   "*** START OF THE PROJECT GUTENBERG EBOOK\nBody\n*** END OF THE PROJECT GUTENBERG EBOOK\nLicense.\n*** END OF THIS PROJECT GUTENBERG EBOOK\n",
			want: "Body",
		},
		{
			name: "earliest start marker wins across variants",
			in:   "Header\n*** START OF THE PROJECT GUTENBERG EBOOK\nBody\n*** START OF THIS PROJECT GUTENBERG EBOOK\nMore",
			want: "Body\n*** START OF THIS PROJECT GUTENBERG EBOOK\nMore",
		},
		{
			name: "start marker only",
			in:   "junk *** START OF THIS PROJECT GUTENBERG EBOOK  story  ",
			want: "story",
		},
		{
			name: "end marker only",
			in:   "  story *** END OF THIS PROJECT GUTENBERG EBOOK license",
			want: "story",
		},
		{
			name: "no markers is identity up to trimming",
			in:   "\n\n  Just a story.\n  ",
			want: "Just a story.",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}

	s := newDefaultStripper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Strip(tt.in); got != tt.want {
				t.Errorf("Strip() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStripper_EndMarkerBeforeStart(t *testing.T) {
	s := newDefaultStripper()
	in := "*** END OF THIS PROJECT GUTENBERG EBOOK\nold footer\n*** START OF THIS PROJECT GUTENBERG EBOOK\nBody"
	if got := s.Strip(in); got != "Body" {
		t.Errorf("Strip() = %q, want %q", got, "Body")
	}
}

func TestStripper_HasMarkers(t *testing.T) {
	s := newDefaultStripper()

	if s.HasMarkers("no markers here") {
		t.Error("expected false without markers")
	}
	if s.HasMarkers("*** START OF THIS PROJECT GUTENBERG EBOOK only start") {
		t.Error("expected false with only a start marker")
	}
	if !s.HasMarkers("*** START OF THIS PROJECT GUTENBERG EBOOK x *** END OF THIS PROJECT GUTENBERG EBOOK") {
		t.Error("expected true with both markers")
	}
}

func TestStripper_IgnoresEmptyMarkers(t *testing.T) {
	s := NewStripper([]string{""}, []string{""})
	if got := s.Strip("  text  "); got != "text" {
		t.Errorf("Strip() = %q, want %q", got, "text")
	}
}
