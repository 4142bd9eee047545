package render

import (
	"bytes"
	"context"
	"math"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"

	"github.com/pfrederiksen/pitcher-luck/internal/assets"
	"github.com/pfrederiksen/pitcher-luck/internal/pitcher"
	"github.com/pfrederiksen/pitcher-luck/internal/view"
)

type stubLinker struct {
	images map[string]bool
}

func (s stubLinker) PageURL(sel view.Selection) string {
	return "page-" + sel.Query().Encode()
}

func (s stubLinker) ImageURL(kind assets.Kind, key string) string {
	if !s.images[key] {
		return ""
	}
	return "img/" + assets.RelPath(kind, key)
}

func (s stubLinker) ChartURL(sel view.Selection) string {
	return "chart.png"
}

func eraPtr(v float64) *float64 { return &v }

func sampleRows() []pitcher.Record {
	return []pitcher.Record{
		{
			PitcherID: "skubt001", Name: "Tarik Skubal", Year: 2024, Team: "DET",
			GamesStarted: 3, Wins: 2, Losses: 1,
			Decisions:  []pitcher.Decision{pitcher.Win, pitcher.Loss, pitcher.Win},
			RunSupport: 4.4, TeamErrors: 0.5, ERA: eraPtr(2.39),
		},
		{
			PitcherID: "rooki001", Name: "Rookie <b>Arm</b>", Year: 2024, Team: "NYA",
			GamesStarted: 1, Decisions: []pitcher.Decision{pitcher.NoDecision},
			RunSupport: 2.0, TeamErrors: 1.0,
		},
	}
}

func renderDoc(t *testing.T, c templ.Component) *goquery.Document {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		t.Fatalf("parsing output: %v", err)
	}
	return doc
}

func TestTable_Rows(t *testing.T) {
	links := stubLinker{images: map[string]bool{"DET": true, "skubt001": true}}
	doc := renderDoc(t, Table(sampleRows(), links))

	rows := doc.Find("tr.pitcher")
	if rows.Length() != 2 {
		t.Fatalf("found %d pitcher rows, want 2", rows.Length())
	}

	first := rows.First()
	if got := first.Find("td.name").Text(); got != "Tarik Skubal" {
		t.Errorf("first name = %q", got)
	}
	if got := first.Find("td.record").Text(); got != "2-1" {
		t.Errorf("record = %q, want 2-1", got)
	}
	if got := strings.TrimSpace(first.Find(".era-box").Text()); got != "2.39" {
		t.Errorf("ERA box = %q, want 2.39", got)
	}
	if src, _ := first.Find("td.logo img").Attr("src"); src != "img/logos/DET.png" {
		t.Errorf("logo src = %q", src)
	}
	if first.Find("svg.win-loss rect").Length() != 3 {
		t.Errorf("win/loss strip has %d bars, want 3", first.Find("svg.win-loss rect").Length())
	}
	if first.Find("td.luck svg").Length() != 1 {
		t.Error("luck bar missing")
	}

	second := rows.Eq(1)
	if second.Find("img").Length() != 0 {
		t.Error("row without cached images should render no <img>")
	}
	if got := second.Find("td.name").Text(); got != "Rookie <b>Arm</b>" {
		t.Errorf("name not escaped: %q", got)
	}
	if second.Find("td.name b").Length() != 0 {
		t.Error("pitcher name rendered as markup")
	}
	if got := second.Find(".era-missing").Text(); got != "N/A" {
		t.Errorf("missing ERA = %q, want N/A", got)
	}
}

func TestTable_Empty(t *testing.T) {
	doc := renderDoc(t, Table(nil, stubLinker{}))

	if n := doc.Find("tr.pitcher").Length(); n != 0 {
		t.Errorf("found %d pitcher rows, want 0", n)
	}
	if got := doc.Find("tr.empty").Text(); got != EmptyTable {
		t.Errorf("empty row = %q", got)
	}
	if got := doc.Find(".gt-title").Text(); got != Title {
		t.Errorf("title = %q", got)
	}
	if href, _ := doc.Find(".source-note a").Attr("href"); href != SourceURL {
		t.Errorf("source link = %q", href)
	}
}

func TestPage_Live(t *testing.T) {
	sel := view.Selection{Year: 2023, Teams: []string{"NYA"}, SortKey: view.SortERA, Descending: false, ShowAll: true}
	d := PageData{
		Selection:  sel,
		Years:      []int{2022, 2023, 2024},
		Teams:      []string{"DET", "NYA"},
		Rows:       sampleRows(),
		Links:      stubLinker{},
		TeamFilter: true,
		Chart:      true,
	}
	doc := renderDoc(t, Page(d))

	if got := doc.Find("title").Text(); got != PageTitle {
		t.Errorf("title = %q", got)
	}
	checks := map[string]string{
		"select#sort option[selected]":  "era",
		"select#order option[selected]": "asc",
		"select#year option[selected]":  "2023",
		"select#teams option[selected]": "NYA",
	}
	for selector, want := range checks {
		if got, _ := doc.Find(selector).Attr("value"); got != want {
			t.Errorf("%s = %q, want %q", selector, got, want)
		}
	}
	if _, ok := doc.Find(`input[name="all"]`).Attr("checked"); !ok {
		t.Error("show all should be checked")
	}
	if got := doc.Find(`select#teams option[value="NYA"]`).Text(); got != "NYY" {
		t.Errorf("NYA option label = %q, want NYY", got)
	}
	if src, _ := doc.Find("figure.chart img").Attr("src"); src != "chart.png" {
		t.Errorf("chart src = %q", src)
	}
}

func TestPage_StaticNav(t *testing.T) {
	d := PageData{
		Selection: view.Default(2024),
		Years:     []int{2023, 2024},
		Links:     stubLinker{},
	}
	doc := renderDoc(t, Page(d))

	if doc.Find("form").Length() != 0 {
		t.Error("static page should not render a form")
	}
	// 5 sort keys + 2 orders + 2 row modes + 2 years
	if n := doc.Find("nav.controls a").Length(); n != 11 {
		t.Errorf("found %d nav links, want 11", n)
	}
	if n := doc.Find("nav.controls a.active").Length(); n != 4 {
		t.Errorf("found %d active links, want 4", n)
	}
	if doc.Find("figure.chart").Length() != 0 {
		t.Error("empty page should not show a chart")
	}
	if doc.Find("tr.empty").Length() != 1 {
		t.Error("empty page should show the empty row")
	}
}

func TestERABox(t *testing.T) {
	tests := []struct {
		name      string
		era       *float64
		wantText  string
		wantStyle string
	}{
		{"green", eraPtr(ERAMin), "1.50", "background-color:#008000;color:#ffffff;"},
		{"red", eraPtr(9), "9.00", "background-color:#ff0000;color:#ffffff;"},
		{"missing", nil, "N/A", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := renderDoc(t, ERABox(tt.era))
			if tt.era == nil {
				if got := doc.Find("span.era-missing").Text(); got != tt.wantText {
					t.Errorf("placeholder = %q, want %q", got, tt.wantText)
				}
				if doc.Find(".era-box").Length() != 0 {
					t.Error("missing ERA should not render a box")
				}
				return
			}
			box := doc.Find("div.era-box")
			if got := box.Text(); got != tt.wantText {
				t.Errorf("text = %q, want %q", got, tt.wantText)
			}
			if got, _ := box.Attr("style"); got != tt.wantStyle {
				t.Errorf("style = %q, want %q", got, tt.wantStyle)
			}
		})
	}
}

func TestERAColor(t *testing.T) {
	tests := []struct {
		era  float64
		want string
	}{
		{0.5, "#008000"},
		{ERAMin, "#008000"},
		{4.5, "#808080"},
		{ERAMax, "#ff0000"},
		{12, "#ff0000"},
		{math.NaN(), "#808080"},
	}

	for _, tt := range tests {
		if got := ERAColor(tt.era).Hex(); got != tt.want {
			t.Errorf("ERAColor(%v) = %s, want %s", tt.era, got, tt.want)
		}
	}
}

func TestERAColor_BlendsBetweenStops(t *testing.T) {
	c := ERAColor(3.0)
	if c.Hex() == "#008000" || c.Hex() == "#808080" {
		t.Errorf("ERAColor(3.0) = %s, want a blend", c.Hex())
	}
	if c.G < c.R {
		t.Errorf("ERAColor(3.0) = %s, want green-leaning", c.Hex())
	}
}

func TestWinLossStrip(t *testing.T) {
	decisions := []pitcher.Decision{pitcher.Win, pitcher.Win, pitcher.Loss, pitcher.NoDecision}
	svg := WinLossStrip(decisions, DefaultStripStyle)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(svg))
	if err != nil {
		t.Fatal(err)
	}
	counts := map[string]int{
		"rect.win":  2,
		"rect.loss": 1,
		"rect.nd":   1,
	}
	for selector, want := range counts {
		if got := doc.Find(selector).Length(); got != want {
			t.Errorf("%s count = %d, want %d", selector, got, want)
		}
	}
	if fill, _ := doc.Find("rect.loss").Attr("fill"); fill != "darkorange" {
		t.Errorf("loss fill = %q, want darkorange", fill)
	}
	if w, _ := doc.Find("svg").Attr("width"); w != "250.00" {
		t.Errorf("strip width = %q, want 250.00", w)
	}
}

func TestWinLossStrip_Empty(t *testing.T) {
	svg := WinLossStrip(nil, DefaultStripStyle)
	if strings.Contains(svg, "<rect") {
		t.Errorf("empty strip has bars: %s", svg)
	}
}
