package pathtpl

import (
	"testing"

	"github.com/ataluts/photo-scan-tools/internal/tags"
)

func storeWith(pairs map[string]tags.Value) *tags.Store {
	s := tags.NewStore()
	for k, v := range pairs {
		s.Set(k, v)
	}
	return s
}

func TestBuild_BasicSubstitution(t *testing.T) {
	s := storeWith(map[string]tags.Value{
		"Extra:FilmID": tags.String("7"),
		"Extra:FileID": tags.String("roll12"),
	})

	got := Build("{Extra:FilmID}/{Extra:FileID}.tif", s, Options{})
	if got != "7/roll12.tif" {
		t.Errorf("got %q, want %q", got, "7/roll12.tif")
	}
}

func TestBuild_MissingTagRendersUNDEF(t *testing.T) {
	s := storeWith(map[string]tags.Value{
		"Extra:FileID": tags.String("roll12"),
	})

	got := Build("{Extra:FilmID}/{Extra:FileID}.tif", s, Options{})
	if got != "UNDEF/roll12.tif" {
		t.Errorf("got %q, want %q", got, "UNDEF/roll12.tif")
	}
}

func TestBuild_SanitizesValuesButNotFileNamespace(t *testing.T) {
	s := storeWith(map[string]tags.Value{
		"Model":          tags.String("C-D325EF: \"the best\"?"),
		"Extra:FilePath": tags.String("rolls/roll1/a.tif"),
	})

	got := Build("{Model}/{Extra:FilePath}", s, Options{})
	if got != "C-D325EF_ _the best__/rolls/roll1/a.tif" {
		t.Errorf("got %q", got)
	}
}

func TestBuild_DriveLetterColonPreserved(t *testing.T) {
	s := storeWith(map[string]tags.Value{
		"Extra:FileID": tags.String("x"),
	})

	got := Build(`D:\out\{Extra:FileID}.tif`, s, Options{})
	if got != `D:\out\x.tif` {
		t.Errorf("got %q", got)
	}
}

func TestBuild_QuestionMarkEscapesColon(t *testing.T) {
	s := storeWith(map[string]tags.Value{
		"Extra:FileID": tags.String("x"),
	})

	// "?" in static text renders a literal colon.
	got := Build("time?lapse/{Extra:FileID}", s, Options{})
	if got != "time:lapse/x" {
		t.Errorf("got %q", got)
	}
}

func TestBuild_StaticColonRestored(t *testing.T) {
	s := storeWith(map[string]tags.Value{
		"Extra:FileID": tags.String("x"),
	})

	// A literal colon in static text survives substitution unchanged.
	got := Build("archive:2000/{Extra:FileID}.tif", s, Options{})
	if got != "archive:2000/x.tif" {
		t.Errorf("got %q", got)
	}
}

func TestBuild_ZeroPaddedFormatSpec(t *testing.T) {
	s := storeWith(map[string]tags.Value{
		"Extra:FilmFrameNumber": tags.Int(3),
	})

	got := Build("{Extra:FilmFrameNumber?02d}", s, Options{})
	if got != "03" {
		t.Errorf("got %q", got)
	}
}

func TestBuild_TotalLengthTruncationKeepsExtension(t *testing.T) {
	s := storeWith(map[string]tags.Value{
		"ImageTitle": tags.String("a very long title that will not fit anywhere"),
	})

	got := Build("{ImageTitle}.tif", s, Options{MaxTotalLength: 16})
	if len(got) > 16 {
		t.Errorf("length %d exceeds budget: %q", len(got), got)
	}
	if got[len(got)-4:] != ".tif" {
		t.Errorf("extension lost: %q", got)
	}
}

func TestBuild_TruncationWithoutExtension(t *testing.T) {
	s := storeWith(map[string]tags.Value{
		"ImageTitle": tags.String("0123456789abcdef"),
	})

	got := Build("{ImageTitle}", s, Options{MaxTotalLength: 8})
	if got != "01234567" {
		t.Errorf("got %q", got)
	}
}

func TestBuild_MaxValueLength(t *testing.T) {
	s := storeWith(map[string]tags.Value{
		"ImageTitle": tags.String("abcdefgh"),
	})

	got := Build("{ImageTitle}.tif", s, Options{MaxValueLength: 3})
	if got != "abc.tif" {
		t.Errorf("got %q", got)
	}
}

func TestBuild_LiteralBraces(t *testing.T) {
	s := tags.NewStore()
	got := Build("{{literal}}", s, Options{})
	if got != "{literal}" {
		t.Errorf("got %q", got)
	}
}

func TestSanitizeValue_Lists(t *testing.T) {
	v := tags.List(tags.String("a/b"), tags.Int(5))
	clean := SanitizeValue("SomeTag", v, 0)
	elems, _ := clean.List()
	if s, _ := elems[0].Str(); s != "a_b" {
		t.Errorf("list element not sanitized: %q", s)
	}
	if n, _ := elems[1].Int(); n != 5 {
		t.Errorf("non-string element altered: %d", n)
	}
}

func TestSanitizeValue_ControlCharacters(t *testing.T) {
	clean := SanitizeValue("Tag", tags.String("a\x00b\tc"), 0)
	if s, _ := clean.Str(); s != "a_b_c" {
		t.Errorf("got %q", s)
	}
}
