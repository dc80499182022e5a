package session

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/gomega"

	"github.com/san-kum/gapdash/internal/dashboard"
	"github.com/san-kum/gapdash/internal/gapminder/gapmindertest"
)

func withGenerator(g Generator) Option {
	return func(m *Manager) { m.newID = g }
}

func withClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func newManager(opts ...Option) *Manager {
	ds := gapmindertest.Sample()
	return NewManager(func() *dashboard.Controller { return dashboard.New(ds) }, opts...)
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func TestSessionsAreIsolated(t *testing.T) {
	g := NewWithT(t)
	m := newManager()

	idA, a := m.Create()
	idB, b := m.Create()
	g.Expect(idA).NotTo(Equal(idB))

	_, err := a.Dispatch(dashboard.SegmentClicked{Label: "Asia"})
	g.Expect(err).NotTo(HaveOccurred())
	_, err = b.Dispatch(dashboard.YearChanged{Year: 2007})
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(a.Selection()).To(Equal(dashboard.Selection{Year: 1952, Continent: "Asia"}))
	g.Expect(b.Selection()).To(Equal(dashboard.Selection{Year: 2007}))
}

func TestResolve(t *testing.T) {
	g := NewWithT(t)
	m := newManager()

	id, ctrl, created := m.Resolve("")
	g.Expect(created).To(BeTrue())

	again, same, created := m.Resolve(id)
	g.Expect(created).To(BeFalse())
	g.Expect(again).To(Equal(id))
	g.Expect(same).To(BeIdenticalTo(ctrl))

	_, _, created = m.Resolve("unknown")
	g.Expect(created).To(BeTrue())
	g.Expect(m.Len()).To(Equal(2))
}

func TestSweepEvictsIdleSessions(t *testing.T) {
	g := NewWithT(t)
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := newManager(WithTTL(10*time.Minute), withClock(clock.Now))

	idle, _ := m.Create()
	busy, _ := m.Create()

	clock.Advance(8 * time.Minute)
	_, ok := m.Get(busy)
	g.Expect(ok).To(BeTrue())

	clock.Advance(5 * time.Minute)
	g.Expect(m.Sweep()).To(Equal(1))

	_, ok = m.Get(idle)
	g.Expect(ok).To(BeFalse())
	_, ok = m.Get(busy)
	g.Expect(ok).To(BeTrue())
}

func TestRunStopsWithContext(t *testing.T) {
	m := newManager(WithTTL(time.Second))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestCustomGenerator(t *testing.T) {
	n := 0
	m := newManager(withGenerator(func() string {
		n++
		return fmt.Sprintf("sess-%d", n)
	}))

	id, _ := m.Create()
	if id != "sess-1" {
		t.Errorf("expected sess-1, got %s", id)
	}
}

func TestMiddleware(t *testing.T) {
	g := NewWithT(t)
	m := newManager()

	var seen []string
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctrl, ok := FromContext(r.Context())
		g.Expect(ok).To(BeTrue())
		g.Expect(ctrl).NotTo(BeNil())
		seen = append(seen, IDFromContext(r.Context()))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	cookies := rec.Result().Cookies()
	g.Expect(cookies).To(HaveLen(1))
	g.Expect(cookies[0].Name).To(Equal(CookieName))
	g.Expect(cookies[0].HttpOnly).To(BeTrue())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	g.Expect(rec.Result().Cookies()).To(BeEmpty())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "not-a-uuid"})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	g.Expect(rec.Result().Cookies()).To(HaveLen(1))

	g.Expect(seen).To(HaveLen(3))
	g.Expect(seen[1]).To(Equal(seen[0]))
	g.Expect(seen[2]).NotTo(Equal(seen[0]))
}

func TestFromContextWithoutSession(t *testing.T) {
	if _, ok := FromContext(context.Background()); ok {
		t.Error("expected no controller")
	}
	if IDFromContext(context.Background()) != "" {
		t.Error("expected empty id")
	}
}
