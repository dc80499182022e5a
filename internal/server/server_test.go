package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/san-kum/gapdash/internal/dashboard"
	"github.com/san-kum/gapdash/internal/export"
	"github.com/san-kum/gapdash/internal/gapminder/gapmindertest"
	"github.com/san-kum/gapdash/internal/session"
)

type viewJSON struct {
	Selection struct {
		Year      int     `json:"year"`
		Continent *string `json:"continent"`
	} `json:"selection"`
	Years   []int `json:"years"`
	Scatter struct {
		Data   []map[string]any `json:"data"`
		Layout map[string]any   `json:"layout"`
	} `json:"scatter"`
	Sunburst struct {
		Data   []map[string]any `json:"data"`
		Layout map[string]any   `json:"layout"`
	} `json:"sunburst"`
}

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s := New(gapmindertest.Sample(), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return &http.Client{Jar: jar}
}

func getView(t *testing.T, c *http.Client, url string) viewJSON {
	t.Helper()
	res, err := c.Get(url + "/api/view")
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("view: status %d", res.StatusCode)
	}
	var v viewJSON
	if err := json.NewDecoder(res.Body).Decode(&v); err != nil {
		t.Fatal(err)
	}
	return v
}

func post(t *testing.T, c *http.Client, url, body string) (int, viewJSON, map[string]string) {
	t.Helper()
	res, err := c.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	data, _ := io.ReadAll(res.Body)

	var v viewJSON
	var e map[string]string
	if res.StatusCode == http.StatusOK {
		if err := json.Unmarshal(data, &v); err != nil {
			t.Fatalf("decode view: %v", err)
		}
	} else {
		json.Unmarshal(data, &e)
	}
	return res.StatusCode, v, e
}

func continent(v viewJSON) string {
	if v.Selection.Continent == nil {
		return ""
	}
	return *v.Selection.Continent
}

func TestIndex(t *testing.T) {
	g := NewWithT(t)
	_, ts := newTestServer(t)

	res, err := http.Get(ts.URL + "/")
	g.Expect(err).NotTo(HaveOccurred())
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)

	g.Expect(res.StatusCode).To(Equal(http.StatusOK))
	g.Expect(res.Header.Get("Content-Type")).To(HavePrefix("text/html"))
	g.Expect(res.Header.Get("X-Frame-Options")).To(Equal("DENY"))
	g.Expect(res.Header.Get("Content-Security-Policy")).To(ContainSubstring("cdn.plot.ly"))

	var cookie *http.Cookie
	for _, c := range res.Cookies() {
		if c.Name == session.CookieName {
			cookie = c
		}
	}
	g.Expect(cookie).NotTo(BeNil())
	g.Expect(cookie.HttpOnly).To(BeTrue())

	page := string(body)
	for _, y := range []string{"1952", "1957", "2007"} {
		g.Expect(page).To(ContainSubstring(`label="` + y + `"`))
	}
	g.Expect(page).To(ContainSubstring(`max="2"`))
}

func TestStatic(t *testing.T) {
	_, ts := newTestServer(t)

	for _, path := range []string{"/static/dashboard.js", "/static/dashboard.css"} {
		res, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		res.Body.Close()
		if res.StatusCode != http.StatusOK {
			t.Errorf("%s: status %d", path, res.StatusCode)
		}
	}
}

func TestInitialView(t *testing.T) {
	g := NewWithT(t)
	_, ts := newTestServer(t)

	v := getView(t, newClient(t), ts.URL)
	g.Expect(v.Selection.Year).To(Equal(1952))
	g.Expect(v.Selection.Continent).To(BeNil())
	g.Expect(v.Years).To(Equal(gapmindertest.Years))
	g.Expect(v.Scatter.Data).To(HaveLen(5))
	g.Expect(v.Sunburst.Data).To(HaveLen(1))
}

func TestYearChange(t *testing.T) {
	g := NewWithT(t)
	_, ts := newTestServer(t)
	c := newClient(t)

	code, v, _ := post(t, c, ts.URL+"/api/year", `{"year": 2007}`)
	g.Expect(code).To(Equal(http.StatusOK))
	g.Expect(v.Selection.Year).To(Equal(2007))

	g.Expect(getView(t, c, ts.URL).Selection.Year).To(Equal(2007))
}

func TestYearRejected(t *testing.T) {
	_, ts := newTestServer(t)
	c := newClient(t)

	tests := []struct {
		name string
		body string
		code int
	}{
		{"unknown year", `{"year": 1953}`, http.StatusBadRequest},
		{"missing year", `{}`, http.StatusBadRequest},
		{"not json", `year=1957`, http.StatusBadRequest},
		{"too large", `{"year": 1957, "pad": "` + strings.Repeat("x", MaxBodyBytes) + `"}`, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, e := post(t, c, ts.URL+"/api/year", tt.body)
			if code != tt.code {
				t.Errorf("expected %d, got %d", tt.code, code)
			}
			if e["error"] == "" {
				t.Error("expected an error message")
			}
		})
	}

	if v := getView(t, c, ts.URL); v.Selection.Year != 1952 {
		t.Errorf("state changed to %d", v.Selection.Year)
	}
}

func TestClickToggle(t *testing.T) {
	g := NewWithT(t)
	_, ts := newTestServer(t)
	c := newClient(t)
	click := `{"points": [{"label": "Asia"}]}`

	_, v, _ := post(t, c, ts.URL+"/api/click", click)
	g.Expect(continent(v)).To(Equal("Asia"))

	_, v, _ = post(t, c, ts.URL+"/api/click", `{"points": [{"label": "Europe"}]}`)
	g.Expect(continent(v)).To(Equal("Europe"))

	_, v, _ = post(t, c, ts.URL+"/api/click", `{"points": [{"label": "Europe"}]}`)
	g.Expect(v.Selection.Continent).To(BeNil())
}

func TestMalformedClick(t *testing.T) {
	_, ts := newTestServer(t)
	c := newClient(t)
	post(t, c, ts.URL+"/api/click", `{"points": [{"label": "Africa"}]}`)

	for _, body := range []string{``, `garbage`, `{"points": []}`, `{"points": [{"label": ""}]}`, `{"points": [{"label": 3}]}`} {
		code, v, _ := post(t, c, ts.URL+"/api/click", body)
		if code != http.StatusOK {
			t.Errorf("%q: expected 200, got %d", body, code)
		}
		if continent(v) != "Africa" {
			t.Errorf("%q: selection changed to %q", body, continent(v))
		}
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	g := NewWithT(t)
	s, ts := newTestServer(t)
	a, b := newClient(t), newClient(t)

	post(t, a, ts.URL+"/api/year", `{"year": 1957}`)
	post(t, a, ts.URL+"/api/click", `{"points": [{"label": "Oceania"}]}`)

	vb := getView(t, b, ts.URL)
	g.Expect(vb.Selection.Year).To(Equal(1952))
	g.Expect(vb.Selection.Continent).To(BeNil())

	va := getView(t, a, ts.URL)
	g.Expect(va.Selection.Year).To(Equal(1957))
	g.Expect(continent(va)).To(Equal("Oceania"))

	g.Expect(s.Sessions().Len()).To(Equal(2))
}

func TestYears(t *testing.T) {
	_, ts := newTestServer(t)

	res, err := http.Get(ts.URL + "/api/years")
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()

	var body struct {
		Years []int `json:"years"`
	}
	json.NewDecoder(res.Body).Decode(&body)
	if len(body.Years) != 3 || body.Years[0] != 1952 || body.Years[2] != 2007 {
		t.Errorf("unexpected years %v", body.Years)
	}
}

func TestExport(t *testing.T) {
	_, ts := newTestServer(t)

	tests := []struct {
		path        string
		code        int
		contentType string
		contains    string
	}{
		{"/export/scatter.svg?year=2007&continent=Asia", http.StatusOK, "image/svg+xml", "Year: 2007"},
		{"/export/scatter.svg?year=1952&continent=Cote%20d%27Ivoire", http.StatusOK, "image/svg+xml", "(selected: Cote d&#39;Ivoire)</text>"},
		{"/export/scatter.json", http.StatusOK, "application/json", `"scatter"`},
		{"/export/scatter.png?year=1957", http.StatusOK, "image/png", "PNG"},
		{"/export/sunburst.csv?year=1952", http.StatusOK, "text/csv", "Asia/China"},
		{"/export/sunburst.json", http.StatusOK, "application/json", `"sunburst"`},
		{"/export/sunburst.png", http.StatusNotFound, "application/json", "unsupported"},
		{"/export/scatter", http.StatusNotFound, "application/json", "unsupported"},
		{"/export/scatter.csv?year=1953", http.StatusBadRequest, "application/json", "not in dataset"},
		{"/export/scatter.csv?year=abc", http.StatusBadRequest, "application/json", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			res, err := http.Get(ts.URL + tt.path)
			if err != nil {
				t.Fatal(err)
			}
			defer res.Body.Close()
			body, _ := io.ReadAll(res.Body)

			if res.StatusCode != tt.code {
				t.Errorf("expected %d, got %d: %s", tt.code, res.StatusCode, body)
			}
			if ct := res.Header.Get("Content-Type"); !strings.HasPrefix(ct, tt.contentType) {
				t.Errorf("expected content type %s, got %s", tt.contentType, ct)
			}
			if !strings.Contains(string(body), tt.contains) {
				t.Errorf("body does not contain %q", tt.contains)
			}
			if res.Header.Get("Set-Cookie") != "" {
				t.Error("export must not create a session")
			}
		})
	}
}

func TestCustomRegistry(t *testing.T) {
	g := NewWithT(t)

	reg := export.NewRegistry()
	reg.Register("selection", "txt", "text/plain", func(w io.Writer, v dashboard.View) error {
		_, err := fmt.Fprintf(w, "%d|%s", v.Selection.Year, v.Selection.Continent)
		return err
	})
	s := New(gapmindertest.Sample(),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithRegistry(reg),
	)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	res, err := http.Get(ts.URL + "/export/selection.txt?year=1957&continent=Europe")
	g.Expect(err).NotTo(HaveOccurred())
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)

	g.Expect(res.StatusCode).To(Equal(http.StatusOK))
	g.Expect(res.Header.Get("Content-Type")).To(Equal("text/plain"))
	g.Expect(string(body)).To(Equal("1957|Europe"))
}

func TestFramingHeaders(t *testing.T) {
	g := NewWithT(t)

	g.Expect(FramingHeaders()).To(Equal(DefaultHeaders()))

	s := New(gapmindertest.Sample(),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithHeaders(FramingHeaders("'self'", "https://intranet.example.org")),
	)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	res, err := http.Get(ts.URL + "/healthz")
	g.Expect(err).NotTo(HaveOccurred())
	res.Body.Close()

	g.Expect(res.Header.Get("X-Frame-Options")).To(BeEmpty())
	csp := res.Header.Get("Content-Security-Policy")
	g.Expect(csp).To(HaveSuffix("frame-ancestors 'self' https://intranet.example.org"))
	g.Expect(csp).To(ContainSubstring("cdn.plot.ly"))
	g.Expect(res.Header.Get("X-Content-Type-Options")).To(Equal("nosniff"))
}

func TestHealthAndMetrics(t *testing.T) {
	g := NewWithT(t)
	_, ts := newTestServer(t)

	res, err := http.Get(ts.URL + "/healthz")
	g.Expect(err).NotTo(HaveOccurred())
	var health map[string]any
	json.NewDecoder(res.Body).Decode(&health)
	res.Body.Close()
	g.Expect(health["status"]).To(Equal("ok"))
	g.Expect(health["records"]).To(BeNumerically("==", 18))

	getView(t, newClient(t), ts.URL)

	res, err = http.Get(ts.URL + "/metrics")
	g.Expect(err).NotTo(HaveOccurred())
	body, _ := io.ReadAll(res.Body)
	res.Body.Close()
	g.Expect(string(body)).To(ContainSubstring("gapdash_sessions_created_total"))
	g.Expect(string(body)).To(ContainSubstring(`route="/api/view"`))
}
