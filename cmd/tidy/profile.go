package main

import (
	"context"
	"encoding/json"

	"github.com/wdm0006/tidykit/pkg/profile"
	"github.com/wdm0006/tidykit/pkg/report"
)

func runProfile(_ context.Context, e *env, args []string) error {
	fs := newFlagSet(e, "profile")
	var in inputFlags
	in.register(fs, "in")
	asJSON := fs.Bool("json", false, "print the report as JSON")
	preview := fs.Int("preview", 0, "print the first n rows before the report (at most 100)")
	if err := parse(fs, args); err != nil {
		return err
	}
	f, err := in.load()
	if err != nil {
		return err
	}
	rep := profile.Build(f)
	if *asJSON {
		enc := json.NewEncoder(e.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	if *preview > 0 {
		report.Preview(e.stdout, f, *preview)
	}
	report.Profile(e.stdout, rep)
	return nil
}
