package content

import (
	"strings"
	"testing"
)

func TestUnit_Kinds(t *testing.T) {
	tests := []struct {
		name       string
		unit       Unit
		wantImage  bool
		wantBullet bool
		wantText   string
		wantLen    int
	}{
		{name: "text", unit: Text("hello"), wantText: "hello", wantLen: 5},
		{name: "bullet", unit: Bullet("item"), wantBullet: true, wantText: "item", wantLen: 6},
		{name: "literal marker", unit: Text("• typed by author"), wantBullet: true, wantText: "typed by author", wantLen: 17},
		{name: "image", unit: Image("/tmp/a.png"), wantImage: true, wantText: "/tmp/a.png", wantLen: 0},
		{name: "cjk", unit: Text("中文内容"), wantText: "中文内容", wantLen: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.unit.IsImage(); got != tt.wantImage {
				t.Errorf("IsImage() = %v, want %v", got, tt.wantImage)
			}
			if got := tt.unit.IsText(); got == tt.wantImage {
				t.Errorf("IsText() = %v, want %v", got, !tt.wantImage)
			}
			if got := tt.unit.IsBullet(); got != tt.wantBullet {
				t.Errorf("IsBullet() = %v, want %v", got, tt.wantBullet)
			}
			if got := tt.unit.BulletText(); got != tt.wantText {
				t.Errorf("BulletText() = %q, want %q", got, tt.wantText)
			}
			if got := tt.unit.Len(); got != tt.wantLen {
				t.Errorf("Len() = %d, want %d", got, tt.wantLen)
			}
		})
	}
}

func TestUnit_Truncate(t *testing.T) {
	long := strings.Repeat("a", 220)
	exact := strings.Repeat("b", 180)
	wide := strings.Repeat("字", 200)

	tests := []struct {
		name string
		unit Unit
		want string
	}{
		{name: "long", unit: Text(long), want: strings.Repeat("a", 180) + "..."},
		{name: "exact", unit: Text(exact), want: exact},
		{name: "short", unit: Text("short"), want: "short"},
		{name: "runes not bytes", unit: Text(wide), want: strings.Repeat("字", 180) + "..."},
		{name: "image untouched", unit: Image(long), want: long},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.unit.Truncate(180, "...")
			if got.Value() != tt.want {
				t.Errorf("Truncate() = %q (%d), want %q", got.Value(), len(got.Value()), tt.want)
			}
			if got.Kind() != tt.unit.Kind() {
				t.Errorf("Truncate() changed kind %v -> %v", tt.unit.Kind(), got.Kind())
			}
		})
	}
}

func TestCard_Counters(t *testing.T) {
	c := Card{Title: "t", Units: []Unit{Text("abc"), Image("x.png"), Bullet("de"), Image("y.png")}}
	if c.Images() != 2 {
		t.Errorf("Images() = %d, want 2", c.Images())
	}
	if c.TextLen() != 3+4 {
		t.Errorf("TextLen() = %d, want 7", c.TextLen())
	}
}

func TestFlatten(t *testing.T) {
	cards := []Card{
		{Units: []Unit{Text("1"), Text("2")}},
		{Units: []Unit{Image("3")}},
		{},
		{Units: []Unit{Text("4")}},
	}
	var got []string
	for _, u := range Flatten(cards) {
		got = append(got, u.Value())
	}
	if strings.Join(got, ",") != "1,2,3,4" {
		t.Errorf("Flatten() = %v", got)
	}
}

func TestDumps(t *testing.T) {
	sections := []Section{
		{Title: "Intro", LeadIn: true, Units: []Unit{Text("first paragraph")}},
		{Title: "Body", Units: []Unit{Bullet("point"), Image("/cache/abc.jpg")}},
	}
	out := DumpSections(sections)
	for _, want := range []string{
		"Sections: 2\n",
		"  Section #1 (lead-in) units: 1\n",
		"    title: \"Intro\"\n",
		"    [0] text:\n      first paragraph\n",
		"    [0] bullet:\n      point\n",
		"    [1] image \"abc.jpg\"\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("DumpSections() missing %q in:\n%s", want, out)
		}
	}

	out = DumpCards([]Card{{Title: "Body (cont.)", Continuation: true, Units: sections[1].Units}})
	if !strings.Contains(out, "Card #1 units: 2 images: 1 characters: 7 continuation: true") {
		t.Errorf("DumpCards() unexpected:\n%s", out)
	}
}
