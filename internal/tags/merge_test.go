package tags

import (
	"testing"
)

func TestMerge_OverwritesWritableTag(t *testing.T) {
	base := NewStore()
	base.Set("Make", Mark(Mandatory))

	inc := NewStore()
	inc.Set("Make", String("Panasonic"))

	base.Merge(inc, true)

	got, _ := base.Value("Make").Str()
	if got != "Panasonic" {
		t.Errorf("Expected Make to be overwritten, got %q", got)
	}
}

func TestMerge_SkipTagNeverAltered(t *testing.T) {
	base := NewStore()
	base.Set("WhiteBalance", Mark(Skip))

	inc := NewStore()
	inc.Set("WhiteBalance", String("Manual"))

	base.Merge(inc, true)

	if !base.Value("WhiteBalance").IsMarker(Skip) {
		t.Error("SKIP tag was altered by merge")
	}
}

func TestMerge_DeleteTagNeverAltered(t *testing.T) {
	base := NewStore()
	base.Set("MakerNotes:All", Mark(Delete))

	inc := NewStore()
	inc.Set("MakerNotes:All", String("keep me"))

	base.Merge(inc, true)

	if !base.Value("MakerNotes:All").IsMarker(Delete) {
		t.Error("DELETE tag was altered by merge")
	}
}

func TestMerge_NewKeysRespectAllowNew(t *testing.T) {
	base := NewStore()

	inc := NewStore()
	inc.Set("Copyright", String("someone"))

	base.Merge(inc, false)
	if base.Has("Copyright") {
		t.Error("New key inserted despite allowNew=false")
	}

	base.Merge(inc, true)
	if !base.Has("Copyright") {
		t.Error("New key not inserted with allowNew=true")
	}
}

func TestMerge_InternalKeysBypassLock(t *testing.T) {
	base := NewStore()

	inc := NewStore()
	inc.Set("Extra:FilmID", String("7"))
	inc.Set("ReelName", String("7"))

	base.Merge(inc, false)

	if !base.Has("Extra:FilmID") {
		t.Error("Extra: key must be insertable regardless of allowNew")
	}
	if base.Has("ReelName") {
		t.Error("Non-internal key inserted despite allowNew=false")
	}
}

func TestMerge_ListsMergePositionally(t *testing.T) {
	tests := []struct {
		name string
		base []int64
		inc  []int64
		want []int64
	}{
		{"overwrite by index", []int64{0, 0, 4096, 2656}, []int64{10, 20}, []int64{10, 20, 4096, 2656}},
		{"equal length", []int64{1, 2}, []int64{3, 4}, []int64{3, 4}},
		{"increment longer appends", []int64{1}, []int64{7, 8, 9}, []int64{7, 8, 9}},
		{"empty increment keeps base", []int64{5, 6}, nil, []int64{5, 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := NewStore()
			base.Set("ImageTransform:Crop", Ints(tt.base...))
			inc := NewStore()
			inc.Set("ImageTransform:Crop", Ints(tt.inc...))

			base.Merge(inc, true)

			if !base.Value("ImageTransform:Crop").Equal(Ints(tt.want...)) {
				t.Errorf("got %s, want %s", base.Value("ImageTransform:Crop").Format(), Ints(tt.want...).Format())
			}
		})
	}
}

func TestMerge_ListNeverShrinks(t *testing.T) {
	base := NewStore()
	base.Set("LensInfo", Floats(34, 34, 5.6, 5.6))

	inc := NewStore()
	inc.Set("LensInfo", Floats(50))

	base.Merge(inc, true)

	elems, _ := base.Value("LensInfo").List()
	if len(elems) != 4 {
		t.Fatalf("list shrank: got %d elements, want 4", len(elems))
	}
	if f, _ := elems[0].Float(); f != 50 {
		t.Errorf("first element not overwritten: got %v", f)
	}
}

func TestMerge_NonListOverwritesList(t *testing.T) {
	base := NewStore()
	base.Set("ImageTransform:Compression", List(String("none")))

	inc := NewStore()
	inc.Set("ImageTransform:Compression", String("lzw"))

	base.Merge(inc, true)

	if s, _ := base.Value("ImageTransform:Compression").Str(); s != "lzw" {
		t.Errorf("scalar increment should replace list wholesale, got %v", base.Value("ImageTransform:Compression").Format())
	}
}

func TestMerge_Idempotent(t *testing.T) {
	base := NewStore()
	base.Set("Make", Mark(Mandatory))
	base.Set("ISO", Mark(Optional))

	inc := NewStore()
	inc.Set("Make", String("Panasonic"))
	inc.Set("ISO", Int(100))
	inc.Set("ImageTransform:Crop", Ints(10, 20, 100, 200))

	base.Merge(inc, true)
	once := base.Clone()
	base.Merge(inc, true)

	for _, name := range once.Names() {
		if !base.Value(name).Equal(once.Value(name)) {
			t.Errorf("%s changed on second merge: %s vs %s", name, base.Value(name).Format(), once.Value(name).Format())
		}
	}
	if base.Len() != once.Len() {
		t.Errorf("store size changed on second merge: %d vs %d", base.Len(), once.Len())
	}
}

func TestWritable(t *testing.T) {
	s := NewStore()
	s.Set("A", String("x"))
	s.Set("B", Mark(Skip))
	s.Set("C", Mark(Delete))
	s.Set("D", Mark(Auto))

	tests := []struct {
		name string
		want bool
	}{
		{"A", true},
		{"B", false},
		{"C", false},
		{"D", true},
		{"missing", false},
	}
	for _, tt := range tests {
		if got := s.Writable(tt.name); got != tt.want {
			t.Errorf("Writable(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestLocked(t *testing.T) {
	s := NewStore()
	if s.Locked() {
		t.Error("empty store should not be locked")
	}
	s.Set(LockTag, Bool(true))
	if !s.Locked() {
		t.Error("store with Script:LockTagList=true should be locked")
	}
}
