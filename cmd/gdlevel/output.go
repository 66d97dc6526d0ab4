package main

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

var spewConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// write renders v in one of the config.Formats.
func write(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "spew":
		spewConfig.Fdump(w, v)
		return nil
	}
	return fmt.Errorf("unknown format %q", format)
}
