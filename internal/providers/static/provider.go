package static

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/orkg/license-service/internal/domain/license"
)

// ID is the provider identifier reported in answers.
const ID = "static"

// Provider answers from a fixed list of curated rules. Rules are checked in
// order and the first match decides.
type Provider struct {
	rules []Rule
}

// New validates rules and creates the provider.
func New(rules []Rule) (*Provider, error) {
	rules = append([]Rule(nil), rules...)
	if err := validate(rules); err != nil {
		return nil, err
	}
	return &Provider{rules: rules}, nil
}

// FromFile loads rules from path and creates the provider.
func FromFile(path string) (*Provider, error) {
	rules, err := LoadRules(path)
	if err != nil {
		return nil, err
	}
	return New(rules)
}

func (p *Provider) ID() string { return ID }

func (p *Provider) Description() string {
	return fmt.Sprintf("Curated licenses for %d host and path patterns", len(p.rules))
}

func (p *Provider) CanProcess(u *url.URL) bool {
	_, ok := p.match(u)
	return ok
}

func (p *Provider) Resolve(_ context.Context, u *url.URL) (string, bool, error) {
	rule, ok := p.match(u)
	if !ok || rule.License == "" {
		return "", false, nil
	}
	return license.NormalizeSPDX(rule.License), true, nil
}

func (p *Provider) match(u *url.URL) (Rule, bool) {
	if u == nil {
		return Rule{}, false
	}
	host := strings.ToLower(u.Hostname())
	candidates := []string{host}
	if segments := license.PathSegments(u); len(segments) > 0 {
		candidates = append(candidates, host+"/"+strings.Join(segments, "/"))
	}

	for _, rule := range p.rules {
		for _, name := range candidates {
			if doublestar.MatchUnvalidated(rule.Pattern, name) {
				return rule, true
			}
		}
	}
	return Rule{}, false
}
