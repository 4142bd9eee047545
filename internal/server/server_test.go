package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/pitcher-luck/internal/assets"
	"github.com/pfrederiksen/pitcher-luck/internal/dataset"
	"github.com/pfrederiksen/pitcher-luck/internal/pitcher"
	"github.com/pfrederiksen/pitcher-luck/internal/session"
)

func testStore() *dataset.Store {
	teams := []string{"NYA", "BOS", "DET", "SEA"}
	var season2024, season2023 []pitcher.Record
	for i := 0; i < 20; i++ {
		era := 2.0 + float64(i)*0.25
		rec := pitcher.Record{
			PitcherID:    fmt.Sprintf("p%03d", i),
			Name:         fmt.Sprintf("Pitcher %02d", i),
			Year:         2024,
			Team:         teams[i%len(teams)],
			GamesStarted: 10 + i,
			Wins:         i % 12,
			Losses:       (i * 7) % 10,
			Decisions:    []pitcher.Decision{pitcher.Win, pitcher.Loss, pitcher.NoDecision},
			RunSupport:   3.0 + float64(i%5)*0.4,
			TeamErrors:   float64(i%4) * 0.3,
			ERA:          &era,
		}
		season2024 = append(season2024, rec)
	}
	season2023 = append(season2023, pitcher.Record{PitcherID: "old001", Name: "Old Timer", Year: 2023, Team: "NYA", Wins: 3, Losses: 2, RunSupport: 4})

	images := assets.NewCache()
	images.Put(assets.Logo, "NYA", []byte("png-bytes"))

	return dataset.New(map[int][]pitcher.Record{2023: season2023, 2024: season2024}, images)
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func parse(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	if err != nil {
		t.Fatalf("parsing response: %v", err)
	}
	return doc
}

func TestPage_Default(t *testing.T) {
	h := New(testStore(), Options{}).Handler()

	rec := get(t, h, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET / status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Header().Get("Set-Cookie"), session.CookieName) {
		t.Error("first visit should set a session cookie")
	}

	doc := parse(t, rec)
	if n := doc.Find("tr.pitcher").Length(); n != 14 {
		t.Errorf("default page shows %d rows, want 14", n)
	}
	if src, _ := doc.Find(`tr.pitcher[data-team="NYA"] td.logo img`).First().Attr("src"); src != "/img/logos/NYA.png" {
		t.Errorf("NYA logo src = %q", src)
	}
	if doc.Find("figure.chart img").Length() != 1 {
		t.Error("page should link the chart")
	}
}

func TestPage_FiltersAndSorts(t *testing.T) {
	h := New(testStore(), Options{}).Handler()

	doc := parse(t, get(t, h, "/?year=2024&team=BOS&team=DET&sort=era&order=asc&all=1"))
	rows := doc.Find("tr.pitcher")
	if rows.Length() != 10 {
		t.Fatalf("found %d rows, want 10", rows.Length())
	}

	prev := -1.0
	rows.Each(func(i int, row *goquery.Selection) {
		team, _ := row.Attr("data-team")
		if team != "BOS" && team != "DET" {
			t.Errorf("row %d has team %s", i, team)
		}
		era, err := strconv.ParseFloat(strings.TrimSpace(row.Find(".era-box").Text()), 64)
		if err != nil {
			t.Fatalf("row %d ERA: %v", i, err)
		}
		if era < prev {
			t.Errorf("row %d ERA %v after %v in ascending order", i, era, prev)
		}
		prev = era
	})
}

func TestPage_EmptySelection(t *testing.T) {
	h := New(testStore(), Options{}).Handler()

	rec := get(t, h, "/?team=COL")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	doc := parse(t, rec)
	if n := doc.Find("tr.pitcher").Length(); n != 0 {
		t.Errorf("found %d rows, want 0", n)
	}
	if doc.Find("tr.empty").Length() != 1 {
		t.Error("empty selection should render the empty row")
	}
	if doc.Find("figure.chart").Length() != 0 {
		t.Error("empty selection should not link a chart")
	}
}

func TestPage_SessionRemembersSelection(t *testing.T) {
	h := New(testStore(), Options{}).Handler()

	first := get(t, h, "/?year=2023")
	cookies := first.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("no session cookie")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	doc := parse(t, rec)
	if got, _ := doc.Find("select#year option[selected]").Attr("value"); got != "2023" {
		t.Errorf("selected year = %q, want 2023", got)
	}
	if n := doc.Find("tr.pitcher").Length(); n != 1 {
		t.Errorf("found %d rows, want 1", n)
	}
}

func TestTableFragment(t *testing.T) {
	h := New(testStore(), Options{}).Handler()

	rec := get(t, h, "/table?team=NYA")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if strings.Contains(body, "<html") {
		t.Error("fragment should not be a full document")
	}
	if !strings.HasPrefix(body, "<table") {
		t.Errorf("fragment starts with %.30q", body)
	}
}

func TestChart(t *testing.T) {
	h := New(testStore(), Options{}).Handler()

	rec := get(t, h, "/chart.png?year=2024")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "\x89PNG") {
		t.Error("body is not a PNG")
	}

	if rec := get(t, h, "/chart.png?team=COL"); rec.Code != http.StatusNotFound {
		t.Errorf("empty chart status = %d, want 404", rec.Code)
	}
}

func TestImages(t *testing.T) {
	h := New(testStore(), Options{}).Handler()

	tests := []struct {
		path string
		want int
	}{
		{"/img/logos/NYA.png", http.StatusOK},
		{"/img/logos/BOS.png", http.StatusNotFound},
		{"/img/headshots/p001.png", http.StatusNotFound},
		{"/img/logos/NYA.gif", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if rec := get(t, h, tt.path); rec.Code != tt.want {
				t.Errorf("GET %s status = %d, want %d", tt.path, rec.Code, tt.want)
			}
		})
	}
}

func TestHealthAndMetrics(t *testing.T) {
	h := New(testStore(), Options{}).Handler()
	get(t, h, "/")

	rec := get(t, h, "/healthz")
	var health map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&health); err != nil {
		t.Fatalf("decoding health: %v", err)
	}
	if health["status"] != "healthy" {
		t.Errorf("status = %v", health["status"])
	}
	if health["records"].(float64) != 21 {
		t.Errorf("records = %v, want 21", health["records"])
	}

	rec = get(t, h, "/debug/metrics")
	var metrics map[string]map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&metrics); err != nil {
		t.Fatalf("decoding metrics: %v", err)
	}
	if _, ok := metrics["counters"]["http.requests"]; !ok {
		t.Errorf("metrics missing http.requests: %v", metrics["counters"])
	}
}

func TestCORS(t *testing.T) {
	h := New(testStore(), Options{CORSOrigins: []string{"http://example.test"}}).Handler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://example.test")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://example.test" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestTableFragment_Embedding(t *testing.T) {
	h := New(testStore(), Options{CORSOrigins: []string{"http://embed.test"}}).Handler()

	req := httptest.NewRequest(http.MethodGet, "/table?year=2024&sort=era&order=asc&all=1", nil)
	req.Header.Set("Origin", "http://embed.test")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://embed.test" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Find("form, nav, figure").Length() != 0 {
		t.Error("fragment should carry no page controls")
	}
	if doc.Find("table.pitchers").Length() != 1 {
		t.Error("fragment should hold the pitcher table")
	}
}

func TestRun_Shutdown(t *testing.T) {
	srv := New(testStore(), Options{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}

func TestStaticHandler(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html><body>ok</body></html>"), 0644); err != nil {
		t.Fatal(err)
	}

	h := StaticHandler(dir)
	if rec := get(t, h, "/"); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "ok") {
		t.Errorf("GET / = %d %q", rec.Code, rec.Body.String())
	}
	if rec := get(t, h, "/missing.html"); rec.Code != http.StatusNotFound {
		t.Errorf("GET /missing.html status = %d, want 404", rec.Code)
	}
}
