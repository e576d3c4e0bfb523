// Package output formats resolved services for the three supported output
// modes, grounded on the teacher's internal/report text/json writers
// (internal/report/text.go, internal/report/json.go) and adapted from
// capability-table rendering to the single-column path list this spec's
// output contract calls for.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/monodeps/monodeps/internal/pathinfo"
	"github.com/monodeps/monodeps/internal/service"
)

// displayPath returns svc's directory, relative to origin when origin is
// non-nil (the --relative flag), canonical otherwise.
func displayPath(svc *service.Service, origin *pathinfo.Info) string {
	if origin == nil {
		return svc.Dir.Canonical
	}
	return svc.Dir.RelativeTo(*origin)
}

// WriteServicesPlain writes one path per line; in verbose mode each line
// that carries a trigger is followed by " [<trigger>]".
func WriteServicesPlain(w io.Writer, services []*service.Service, origin *pathinfo.Info, verbose bool) {
	for _, svc := range services {
		path := displayPath(svc, origin)
		if verbose && svc.Trigger() != nil {
			fmt.Fprintf(w, "%s [%s]\n", path, svc.Trigger().Kind)
			continue
		}
		fmt.Fprintln(w, path)
	}
}

// WriteServicesJSON writes a top-level JSON array of path strings.
func WriteServicesJSON(w io.Writer, services []*service.Service, origin *pathinfo.Info) error {
	paths := make([]string, len(services))
	for i, svc := range services {
		paths[i] = displayPath(svc, origin)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(paths)
}

// WriteServicesYAML writes a flow-sequence of path strings with the
// emitter's leading "---" document marker suppressed.
func WriteServicesYAML(w io.Writer, services []*service.Service, origin *pathinfo.Info) error {
	node := yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, svc := range services {
		node.Content = append(node.Content, &yaml.Node{
			Kind:  yaml.ScalarNode,
			Value: displayPath(svc, origin),
		})
	}

	out, err := yaml.Marshal(&node)
	if err != nil {
		return err
	}
	out = bytes.TrimPrefix(out, []byte("---\n"))
	_, err = w.Write(out)
	return err
}

// WriteValidation prints a single service's declared and auto-discovered
// dependencies for the `validate` subcommand.
func WriteValidation(w io.Writer, svc *service.Service, origin *pathinfo.Info) {
	fmt.Fprintf(w, "%s\n", displayPath(svc, origin))
	fmt.Fprintln(w, "declared:")
	for _, p := range svc.Declared {
		fmt.Fprintf(w, "  %s\n", p.Raw())
	}
	fmt.Fprintln(w, "auto-discovered:")
	for _, p := range svc.Auto {
		fmt.Fprintf(w, "  %s\n", p.Raw())
	}
}
