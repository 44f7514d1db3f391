package bindings

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestDefault(t *testing.T) {
	site, err := Default()
	if err != nil {
		t.Fatalf("Default() returned error: %v", err)
	}

	if diff := cmp.Diff([]string{"booking", "contact"}, site.FormNames()); diff != "" {
		t.Errorf("form names mismatch (-want +got):\n%s", diff)
	}

	booking, _ := site.Form("booking")
	contact, _ := site.Form("contact")
	if booking.Feedback != FeedbackInline || booking.Endpoint != "/api/bookings" {
		t.Errorf("unexpected booking binding %+v", booking)
	}
	if contact.Feedback != FeedbackBlocking || contact.Endpoint != "/api/contact" {
		t.Errorf("unexpected contact binding %+v", contact)
	}

	if site.Carousel == nil {
		t.Fatal("expected carousel bindings")
	}
	if site.Carousel.Interval != 3*time.Second || site.Carousel.SwipeThreshold != 50 {
		t.Errorf("unexpected carousel timing %+v", site.Carousel)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{name: "empty", doc: "  ", want: "empty"},
		{name: "bad yaml", doc: "forms: [", want: "parse"},
		{
			name: "missing selectors",
			doc:  "forms:\n  booking:\n    endpoint: /api/bookings\n    message: '#m'\n",
			want: "form selector is required",
		},
		{
			name: "relative endpoint",
			doc:  "forms:\n  contact:\n    form: '#f'\n    submit: '#s'\n    endpoint: api/contact\n    feedback: blocking\n",
			want: "endpoint must be an absolute path",
		},
		{
			name: "inline without message",
			doc:  "forms:\n  contact:\n    form: '#f'\n    submit: '#s'\n    endpoint: /api/contact\n",
			want: "inline feedback needs a message selector",
		},
		{
			name: "unknown feedback",
			doc:  "forms:\n  contact:\n    form: '#f'\n    submit: '#s'\n    endpoint: /api/contact\n    feedback: toast\n",
			want: "feedback must be inline or blocking",
		},
		{
			name: "carousel without slides",
			doc:  "carousel:\n  viewport: '.c'\n",
			want: "slides selector is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	doc := "forms:\n  contact:\n    form: '#contact'\n    submit: '#send'\n    message: '#msg'\n    endpoint: /api/contact\n"
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	site, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	contact, ok := site.Form("contact")
	if !ok || contact.Feedback != FeedbackInline {
		t.Errorf("expected inline default feedback, got %+v", contact)
	}
	if site.Carousel != nil {
		t.Error("expected no carousel bindings")
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing file")
	}

	if _, err := Load(""); err != nil {
		t.Errorf("Load(\"\") should return defaults, got %v", err)
	}
}
