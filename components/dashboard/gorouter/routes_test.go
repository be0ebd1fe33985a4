package gorouter

import "testing"

func TestDefaultRouteConfig(t *testing.T) {
	routes := defaultRouteConfig(RouteConfig{})
	if routes.HTML != "/" || routes.State != "/state" {
		t.Fatalf("unexpected defaults: %+v", routes)
	}
	if routes.CloseSect != "/sections/:section/close" {
		t.Fatalf("unexpected close route %q", routes.CloseSect)
	}

	custom := defaultRouteConfig(RouteConfig{WebSocket: "/events"})
	if custom.WebSocket != "/events" {
		t.Fatalf("expected override kept, got %q", custom.WebSocket)
	}
	if custom.ThemeToggle != "/theme/toggle" {
		t.Fatalf("expected untouched defaults filled, got %q", custom.ThemeToggle)
	}
}

func TestParseAcceptLanguage(t *testing.T) {
	cases := map[string]string{
		"en-US,en;q=0.9": "en-us",
		"fr;q=0.8, de":   "fr",
		"  es-MX ;q=0.5": "es-mx",
		"":               "",
		" , de-DE;q=0.7": "de-de",
	}
	for header, want := range cases {
		if got := parseAcceptLanguage(header); got != want {
			t.Fatalf("parseAcceptLanguage(%q) = %q, want %q", header, got, want)
		}
	}
}

func TestRegisterRequiresRouterAndController(t *testing.T) {
	if err := Register(Config[struct{}]{}); err == nil {
		t.Fatalf("expected error without router")
	}
}
