package paginate

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"cardgen/config"
	"cardgen/content"
	"cardgen/layout"
)

func newTestPaginator(t *testing.T) *Paginator {
	t.Helper()
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	policy := NewPolicy(&cfg.Pagination, layout.NewMetrics(&cfg.Card))
	return New(policy, zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller())))
}

func texts(n, length int) []content.Unit {
	out := make([]content.Unit, n)
	for i := range out {
		out[i] = content.Text(strings.Repeat(string(rune('a'+i)), length))
	}
	return out
}

func values(units []content.Unit) []string {
	out := make([]string, len(units))
	for i, u := range units {
		out[i] = u.Value()
		if len(out[i]) > 8 {
			out[i] = out[i][:8]
		}
	}
	return out
}

func TestPaginate_TextOnly(t *testing.T) {
	pg := newTestPaginator(t)

	cards := pg.Paginate(content.Section{Title: "T", Units: texts(20, 300)})
	if len(cards) != 1 {
		t.Fatalf("cards = %d, want 1", len(cards))
	}
	if len(cards[0].Units) != 12 {
		t.Errorf("units = %d, want 12", len(cards[0].Units))
	}
	// text only cards are not truncated
	if cards[0].Units[0].Len() != 300 {
		t.Errorf("unit length = %d, want 300", cards[0].Units[0].Len())
	}

	cards = pg.Paginate(content.Section{Title: "T", Units: texts(3, 10)})
	if len(cards) != 1 || len(cards[0].Units) != 3 {
		t.Errorf("short section changed: %+v", cards)
	}
}

func TestPaginate_SplitThreshold(t *testing.T) {
	pg := newTestPaginator(t)
	img := content.Image("/img/photo.jpg")

	// short text: 280 + (0+2)*44 + 2*20 + 400 = 808
	short := content.Section{Title: "Trip", Units: append(texts(2, 20), img, content.Text("after"))}
	if est := pg.policy.Estimate(short.Units, 2); est != 808 {
		t.Errorf("Estimate() = %d, want 808", est)
	}
	cards := pg.Paginate(short)
	if len(cards) != 1 {
		t.Fatalf("short section: cards = %d, want 1", len(cards))
	}
	if got := strings.Join(values(cards[0].Units), ","); got != "aaaaaaaa,bbbbbbbb,/img/pho,after" {
		t.Errorf("short section units = %s", got)
	}

	// long text crosses threshold
	long := content.Section{Title: "Trip", Units: append(append(texts(4, 200), img), texts(3, 10)...)}
	cards = pg.Paginate(long)
	if len(cards) != 2 {
		t.Fatalf("long section: cards = %d, want 2", len(cards))
	}
	a, b := cards[0], cards[1]
	if a.Title != "Trip" || a.Continuation {
		t.Errorf("first card = %q continuation %v", a.Title, a.Continuation)
	}
	if len(a.Units) != 3 || a.Images() != 0 {
		t.Errorf("first card units = %v", values(a.Units))
	}
	// split path keeps long text
	if a.Units[0].Len() != 200 {
		t.Errorf("split card text truncated to %d", a.Units[0].Len())
	}
	if b.Title != "Trip (cont.)" || !b.Continuation {
		t.Errorf("second card title = %q continuation %v", b.Title, b.Continuation)
	}
	if len(b.Units) != 3 || !b.Units[0].IsImage() {
		t.Errorf("second card units = %v", values(b.Units))
	}
}

func TestPaginate_SingleTextBeforeImageNeverSplits(t *testing.T) {
	pg := newTestPaginator(t)
	s := content.Section{Title: "T", Units: []content.Unit{
		content.Text(strings.Repeat("x", 2000)),
		content.Image("/i.png"),
	}}
	cards := pg.Paginate(s)
	if len(cards) != 1 {
		t.Fatalf("cards = %d, want 1", len(cards))
	}
	if got := cards[0].Units[0].Value(); got != strings.Repeat("x", 180)+"..." {
		t.Errorf("text not truncated: %d characters", len([]rune(got)))
	}
}

func TestPaginate_SingleCardSelection(t *testing.T) {
	pg := newTestPaginator(t)
	img := content.Image("/i.png")
	img2 := content.Image("/j.png")

	tests := []struct {
		name  string
		units []content.Unit
		want  string
	}{
		{
			name:  "image first",
			units: []content.Unit{img, content.Text("a"), content.Text("b"), content.Text("c")},
			want:  "/i.png,a",
		},
		{
			name:  "one text before",
			units: []content.Unit{content.Text("a"), img, content.Text("b"), img2},
			want:  "a,/i.png,b",
		},
		{
			name:  "two before",
			units: []content.Unit{content.Text("a"), content.Text("b"), img, content.Text("c"), content.Text("d")},
			want:  "a,b,/i.png,c",
		},
		{
			name:  "more than two before",
			units: []content.Unit{content.Text("a"), content.Text("b"), content.Text("c"), img, content.Text("d")},
			want:  "a,b,/i.png",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cards := pg.Paginate(content.Section{Title: "T", Units: tt.units})
			if len(cards) != 1 {
				t.Fatalf("cards = %d, want 1", len(cards))
			}
			if got := strings.Join(values(cards[0].Units), ","); got != tt.want {
				t.Errorf("units = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestPaginate_Truncation(t *testing.T) {
	pg := newTestPaginator(t)
	long := strings.Repeat("l", 220)
	exact := strings.Repeat("e", 180)
	cards := pg.Paginate(content.Section{Title: "T", Units: []content.Unit{
		content.Text(long), content.Image("/i.png"), content.Text(exact),
	}})
	if len(cards) != 1 {
		t.Fatalf("cards = %d, want 1", len(cards))
	}
	u := cards[0].Units
	if u[0].Value() != strings.Repeat("l", 180)+"..." {
		t.Errorf("220 characters not truncated properly: %d", u[0].Len())
	}
	if u[1].Value() != "/i.png" {
		t.Error("image changed")
	}
	if u[2].Value() != exact {
		t.Error("180 characters should be left untouched")
	}
}

func TestPaginate_DoesNotMutateSection(t *testing.T) {
	pg := newTestPaginator(t)
	units := []content.Unit{content.Text(strings.Repeat("m", 300)), content.Image("/i.png")}
	pg.Paginate(content.Section{Title: "T", Units: units})
	if units[0].Len() != 300 {
		t.Error("section units were modified")
	}
}

func TestAll_PreservesOrder(t *testing.T) {
	pg := newTestPaginator(t)
	sections := []content.Section{
		{Title: "one", Units: texts(1, 5)},
		{Title: "two", Units: append(texts(4, 200), content.Image("/i.png"))},
		{Title: "three", Units: texts(2, 5)},
	}
	cards := pg.All(sections)
	var titles []string
	for _, c := range cards {
		titles = append(titles, c.Title)
	}
	if got := strings.Join(titles, "|"); got != "one|two|two (cont.)|three" {
		t.Errorf("titles = %s", got)
	}
}
