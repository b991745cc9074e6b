package browser_test

import (
	"crypto/rand"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"

	"eaglekidz/internal/adapters/api"
	"eaglekidz/internal/adapters/email"
	web "eaglekidz/internal/adapters/http"
	"eaglekidz/internal/adapters/http/middleware"
	"eaglekidz/internal/adapters/http/perf"
)

// testApp holds the running web app, its fake backend and Playwright handles.
type testApp struct {
	BaseURL string
	Backend *fakeBackend
	Sender  *email.NoopSender
	Server  *http.Server
	PW      *playwright.Playwright
	Browser playwright.Browser
}

// newTestApp wires the web app against an in-memory backend and starts it
// on a free port with the production middleware chain.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	backend := &fakeBackend{}
	backendSrv := httptest.NewServer(backend.handler())
	t.Cleanup(backendSrv.Close)

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	collector := perf.NewCollector(1000)
	sender := email.NewNoopSender()
	app, err := web.New(web.Deps{
		Backend:    api.New(backendSrv.URL, api.WithObserver(collector.BackendObserver())),
		Sender:     sender,
		Recipients: []string{"lead@example.org"},
		Collector:  collector,
		Location:   time.Local,
		Version:    "browser-test",
	})
	if err != nil {
		t.Fatalf("failed to build web app: %v", err)
	}

	csrfKey := make([]byte, 32)
	rand.Read(csrfKey)
	handler := middleware.Chain(app.Routes(),
		middleware.Recovery,
		middleware.RequestID,
		middleware.Timing(collector, 0),
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey, false, []string{
			fmt.Sprintf("127.0.0.1:%d", port),
			fmt.Sprintf("localhost:%d", port),
		}),
	)

	srv := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", port),
		Handler: handler,
	}
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("test server error: %v", err)
		}
	}()

	// Wait for server to be ready
	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	for i := 0; i < 50; i++ {
		resp, err := http.Get(baseURL + "/healthz")
		if err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	// Start Playwright
	pw, err := playwright.Run()
	if err != nil {
		t.Fatalf("failed to start Playwright: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		t.Fatalf("failed to launch browser: %v", err)
	}

	t.Cleanup(func() {
		browser.Close()
		pw.Stop()
		srv.Close()
	})

	return &testApp{
		BaseURL: baseURL,
		Backend: backend,
		Sender:  sender,
		Server:  srv,
		PW:      pw,
		Browser: browser,
	}
}

// newPage creates a new browser page (tab). Confirm dialogs are accepted.
func (a *testApp) newPage(t *testing.T) playwright.Page {
	t.Helper()
	page, err := a.Browser.NewPage()
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}
	page.OnDialog(func(d playwright.Dialog) { d.Accept() })
	t.Cleanup(func() { page.Close() })
	return page
}

// goTo navigates and fails the test on error.
func (a *testApp) goTo(t *testing.T, page playwright.Page, path string) {
	t.Helper()
	if _, err := page.Goto(a.BaseURL + path); err != nil {
		t.Fatalf("failed to navigate to %s: %v", path, err)
	}
}

// waitText waits for text to become visible inside selector.
func waitText(t *testing.T, page playwright.Page, selector, text string) {
	t.Helper()
	err := page.Locator(selector + " >> text=" + text).First().WaitFor(playwright.LocatorWaitForOptions{
		Timeout: playwright.Float(5000),
	})
	if err != nil {
		t.Fatalf("%q did not appear in %s: %v", text, selector, err)
	}
}

func click(t *testing.T, page playwright.Page, selector string) {
	t.Helper()
	if err := page.Locator(selector).First().Click(); err != nil {
		t.Fatalf("failed to click %s: %v", selector, err)
	}
}

func fill(t *testing.T, page playwright.Page, selector, value string) {
	t.Helper()
	if err := page.Locator(selector).Fill(value); err != nil {
		t.Fatalf("failed to fill %s: %v", selector, err)
	}
}
