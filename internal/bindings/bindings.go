// Package bindings describes how the controllers attach to page markup:
// selectors for every element, the endpoint of each form and its feedback
// strategy.
package bindings

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed site.yaml
var defaultSite []byte

const (
	FeedbackInline   = "inline"
	FeedbackBlocking = "blocking"
)

type Site struct {
	Forms    map[string]Form `yaml:"forms"`
	Carousel *Carousel       `yaml:"carousel"`
}

type Form struct {
	Form     string `yaml:"form"`
	Submit   string `yaml:"submit"`
	Message  string `yaml:"message"`
	Dismiss  string `yaml:"dismiss"`
	Endpoint string `yaml:"endpoint"`
	Feedback string `yaml:"feedback"`
}

type Carousel struct {
	Viewport       string        `yaml:"viewport"`
	Slides         string        `yaml:"slides"`
	Dots           string        `yaml:"dots"`
	Prev           string        `yaml:"prev"`
	Next           string        `yaml:"next"`
	Interval       time.Duration `yaml:"interval"`
	SwipeThreshold float64       `yaml:"swipe_threshold"`
}

// Default returns the bindings for the production markup.
func Default() (*Site, error) {
	return Parse(defaultSite)
}

// Load reads bindings from path, or returns Default when path is empty.
func Load(path string) (*Site, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("bindings: read %s: %w", path, err)
	}
	site, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("bindings: %s: %w", path, err)
	}
	return site, nil
}

func Parse(data []byte) (*Site, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("bindings: document is empty")
	}

	var site Site
	if err := yaml.Unmarshal(data, &site); err != nil {
		return nil, fmt.Errorf("bindings: parse: %w", err)
	}
	site.applyDefaults()
	if err := site.Validate(); err != nil {
		return nil, err
	}
	return &site, nil
}

func (s *Site) applyDefaults() {
	for name, f := range s.Forms {
		if f.Feedback == "" {
			f.Feedback = FeedbackInline
		}
		s.Forms[name] = f
	}
}

func (s *Site) Validate() error {
	var errors []string

	for _, name := range s.FormNames() {
		f := s.Forms[name]
		if f.Form == "" {
			errors = append(errors, fmt.Sprintf("form %q: form selector is required", name))
		}
		if f.Submit == "" {
			errors = append(errors, fmt.Sprintf("form %q: submit selector is required", name))
		}
		if !strings.HasPrefix(f.Endpoint, "/") {
			errors = append(errors, fmt.Sprintf("form %q: endpoint must be an absolute path, got: %q", name, f.Endpoint))
		}
		switch f.Feedback {
		case FeedbackInline:
			if f.Message == "" {
				errors = append(errors, fmt.Sprintf("form %q: inline feedback needs a message selector", name))
			}
		case FeedbackBlocking:
		default:
			errors = append(errors, fmt.Sprintf("form %q: feedback must be inline or blocking, got: %q", name, f.Feedback))
		}
	}

	if c := s.Carousel; c != nil {
		if c.Slides == "" {
			errors = append(errors, "carousel: slides selector is required")
		}
		if c.Interval < 0 {
			errors = append(errors, fmt.Sprintf("carousel: interval cannot be negative, got: %s", c.Interval))
		}
		if c.SwipeThreshold < 0 {
			errors = append(errors, fmt.Sprintf("carousel: swipe_threshold cannot be negative, got: %v", c.SwipeThreshold))
		}
	}

	if len(errors) > 0 {
		errMsg := "bindings validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}
	return nil
}

// FormNames returns the configured form names, sorted.
func (s *Site) FormNames() []string {
	names := make([]string, 0, len(s.Forms))
	for name := range s.Forms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Site) Form(name string) (Form, bool) {
	f, ok := s.Forms[name]
	return f, ok
}
