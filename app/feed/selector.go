package feed

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Selector is a CSS selector with an optional attribute to read instead of
// the element text. In YAML it is either a plain string or a mapping:
//
//	title: h1.tm-title
//	published_at: {css: "time[datetime]", attr: datetime}
type Selector struct {
	CSS  string `yaml:"css"`
	Attr string `yaml:"attr"`
}

func (s *Selector) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		s.CSS = node.Value
		s.Attr = ""
		return nil
	case yaml.MappingNode:
		type plain Selector
		var p plain
		if err := node.Decode(&p); err != nil {
			return err
		}
		*s = Selector(p)
		return nil
	default:
		return fmt.Errorf("line %d: selector must be a string or a mapping", node.Line)
	}
}

func (s Selector) IsZero() bool {
	return s.CSS == ""
}
