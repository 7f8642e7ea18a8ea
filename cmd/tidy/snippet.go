package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	yaml "gopkg.in/yaml.v3"

	"github.com/wdm0006/tidykit/pkg/snippet"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// runSnippet renders a style record of the given kind. Settings come from
// the kind's defaults, then an optional JSON or YAML file, then -set
// key=value pairs.
func runSnippet(_ context.Context, e *env, args []string) error {
	fs := newFlagSet(e, "snippet")
	kind := fs.String("kind", "button", "snippet kind: "+strings.Join(snippet.Kinds, ", "))
	stylePath := fs.String("style", "", "JSON or YAML file with style settings")
	measure := fs.String("measure", "", "measure name (default per kind)")
	cssPath := fs.String("css", "", "CSS file to merge in front of the HTML")
	htmlOnly := fs.Bool("html", false, "print only the HTML, not the measure")
	var sets setFlags
	fs.Var(&sets, "set", "style setting as key=value, repeatable (e.g. -set text=Buy -set size=Large)")
	if err := parse(fs, args); err != nil {
		return err
	}
	sn, err := snippet.New(*kind)
	if err != nil {
		return usagef("%v", err)
	}
	if *stylePath != "" {
		b, err := os.ReadFile(*stylePath)
		if err != nil {
			return err
		}
		if err := yaml.Unmarshal(b, sn); err != nil {
			return fmt.Errorf("style %s: %w", *stylePath, err)
		}
	}
	if len(sets) > 0 {
		if err := sets.node().Decode(sn); err != nil {
			return usagef("-set: %v", err)
		}
	}
	if err := validate.Struct(sn); err != nil {
		return usagef("snippet: %v", err)
	}
	html, err := sn.HTML()
	if err != nil {
		return err
	}
	if *cssPath != "" {
		css, err := os.ReadFile(*cssPath)
		if err != nil {
			return err
		}
		html = snippet.Merge(html, string(css))
	}
	if *htmlOnly {
		fmt.Fprintln(e.stdout, html)
		return nil
	}
	name := *measure
	if name == "" {
		name = sn.MeasureName()
	}
	fmt.Fprintln(e.stdout, snippet.Measure(name, html))
	return nil
}

// setFlags collects repeated key=value flags. Values are read as YAML
// scalars or flow sequences, so "-set width=250" and "-set fields=[a, b]"
// fill typed fields; anything else is kept as text.
type setFlags []string

func (s *setFlags) String() string { return strings.Join(*s, ",") }

func (s *setFlags) Set(v string) error {
	if !strings.Contains(v, "=") {
		return fmt.Errorf("want key=value, got %q", v)
	}
	*s = append(*s, v)
	return nil
}

func (s setFlags) node() *yaml.Node {
	m := &yaml.Node{Kind: yaml.MappingNode}
	for _, kv := range s {
		k, v, _ := strings.Cut(kv, "=")
		val := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
		var doc yaml.Node
		if err := yaml.Unmarshal([]byte(v), &doc); err == nil && len(doc.Content) == 1 {
			if c := doc.Content[0]; c.Kind == yaml.ScalarNode || c.Kind == yaml.SequenceNode {
				val = c
			}
		}
		m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, val)
	}
	return m
}
