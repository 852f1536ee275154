package templates

import (
	"strings"
	"testing"
)

func TestRenderAllTemplates(t *testing.T) {
	data := map[string]any{
		"AppName":   "gearguard-api",
		"Name":      "Ada",
		"Code":      "123456",
		"Subject":   "Quarterly inspection",
		"Equipment": "CNC Mill 01",
	}
	for _, name := range []string{LoginOTP, ResetPassword, RequestAssigned} {
		subject, text, html, err := Render(name, data)
		if err != nil {
			t.Fatalf("Render(%q) error: %v", name, err)
		}
		if subject == "" {
			t.Errorf("Render(%q) returned empty subject", name)
		}
		if text == "" || html == "" {
			t.Errorf("Render(%q) returned empty body", name)
		}
		if !strings.Contains(text, "Ada") || !strings.Contains(html, "Ada") {
			t.Errorf("Render(%q) did not substitute name", name)
		}
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	if _, _, _, err := Render("nope", nil); err == nil {
		t.Fatal("expected error for unknown template")
	}
}
