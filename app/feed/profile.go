package feed

import (
	"embed"
	"fmt"
	"log/slog"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed profiles/*.yml
var profileFS embed.FS

const DefaultProfile = "habr"

// LoadProfile reads a source profile from path. An empty path selects the
// built-in Habr profile.
func LoadProfile(path string) (*Profile, error) {
	var (
		data []byte
		err  error
	)

	if path == "" {
		data, err = profileFS.ReadFile("profiles/" + DefaultProfile + ".yml")
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	profile, err := ParseProfile(data)
	if err != nil {
		return nil, fmt.Errorf("invalid profile %s: %w", describeProfilePath(path), err)
	}

	slog.Debug("Profile loaded", "profile", profile.Name, "feed_url", profile.FeedURL, "format", profile.Format)
	return profile, nil
}

func ParseProfile(data []byte) (*Profile, error) {
	var profile Profile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if profile.Format == "" {
		profile.Format = FormatHTML
	}
	if profile.BaseURL == "" {
		profile.BaseURL = profile.FeedURL
	}

	if err := validateProfile(&profile); err != nil {
		return nil, err
	}

	return &profile, nil
}

func validateProfile(profile *Profile) error {
	requiredFields := map[string]string{
		"name":     profile.Name,
		"feed_url": profile.FeedURL,
	}

	for fieldName, fieldValue := range requiredFields {
		if fieldValue == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
	}

	for fieldName, rawURL := range map[string]string{"feed_url": profile.FeedURL, "base_url": profile.BaseURL} {
		u, err := url.Parse(rawURL)
		if err != nil || !u.IsAbs() {
			return fmt.Errorf("%s must be an absolute URL: %q", fieldName, rawURL)
		}
	}

	switch profile.Format {
	case FormatHTML:
		if profile.Feed.Item == "" || profile.Feed.Link.IsZero() || profile.Feed.Title.IsZero() {
			return fmt.Errorf("html feeds require feed.item, feed.title and feed.link selectors")
		}
	case FormatRSS:
	default:
		return fmt.Errorf("unsupported format: %s", profile.Format)
	}

	validFields := map[string]bool{
		"title":  true,
		"author": true,
		"link":   true,
	}

	for i, filter := range profile.Filters {
		if !validFields[filter.Field] {
			return fmt.Errorf("invalid filter field at index %d: %s", i, filter.Field)
		}
		if len(filter.Includes) == 0 && len(filter.Excludes) == 0 {
			return fmt.Errorf("filter at index %d must have at least one include or exclude rule", i)
		}
	}

	return nil
}

// ResolveURL turns a link found in the feed into an absolute URL.
func (p *Profile) ResolveURL(href string) (string, error) {
	base, err := url.Parse(p.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("invalid link %q: %w", href, err)
	}

	return base.ResolveReference(ref).String(), nil
}

func describeProfilePath(path string) string {
	if path == "" {
		return "(built-in " + DefaultProfile + ")"
	}
	return path
}
