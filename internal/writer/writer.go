// Package writer serializes an entity graph to its output targets:
// NDJSON (single file or split per type), a FHIR Bundle, or a per-type
// tree of individual JSON documents. Output order is deterministic:
// resource types sort lexically and resources within a type sort by id,
// so the same graph always produces byte-identical files.
package writer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/legitrace/fhirsynth/internal/fhir"
	"github.com/legitrace/fhirsynth/internal/plan"
	"github.com/legitrace/fhirsynth/internal/synth"
)

// Write dispatches on the plan's output format and writes the graph
// under the plan's output path.
func Write(g *synth.Graph, p *plan.Plan) error {
	outputPath := p.Outputs.Path
	switch p.Outputs.Format {
	case "", "ndjson":
		return WriteNDJSON(g, p, outputPath)
	case "bundle":
		return WriteBundle(g, p, outputPath)
	case "files":
		return WriteFiles(g, outputPath)
	default:
		return fmt.Errorf("writer: unknown output format %q", p.Outputs.Format)
	}
}

// WriteNDJSON writes the graph as NDJSON under dir: either one
// output.ndjson or one file per resource type.
func WriteNDJSON(g *synth.Graph, p *plan.Plan, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("writer: mkdir %s: %w", dir, err)
	}

	if p.Outputs.NDJSON.SplitByResourceType {
		for _, rt := range g.Types() {
			path := filepath.Join(dir, rt+".ndjson")
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("writer: create %s: %w", path, err)
			}
			err = encodeNDJSON(f, sortedByID(g.All(rt)))
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return fmt.Errorf("writer: write %s: %w", path, err)
			}
		}
		return nil
	}

	path := filepath.Join(dir, "output.ndjson")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writer: create %s: %w", path, err)
	}
	err = EncodeNDJSON(f, g)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("writer: write %s: %w", path, err)
	}
	return nil
}

// EncodeNDJSON streams every resource in the graph as NDJSON, types
// sorted lexically and resources sorted by id.
func EncodeNDJSON(w io.Writer, g *synth.Graph) error {
	for _, rt := range g.Types() {
		if err := encodeNDJSON(w, sortedByID(g.All(rt))); err != nil {
			return err
		}
	}
	return nil
}

// EncodeTypeNDJSON streams one resource type as NDJSON in insertion
// order, for per-type export endpoints.
func EncodeTypeNDJSON(w io.Writer, g *synth.Graph, resourceType string) error {
	return encodeNDJSON(w, g.All(resourceType))
}

func encodeNDJSON(w io.Writer, resources []fhir.Resource) error {
	for _, r := range resources {
		line, err := json.Marshal(r.Body())
		if err != nil {
			return err
		}
		if _, err := w.Write(append(line, '\n')); err != nil {
			return err
		}
	}
	return nil
}

// WriteBundle writes the graph as a single bundle.json under dir.
func WriteBundle(g *synth.Graph, p *plan.Plan, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("writer: mkdir %s: %w", dir, err)
	}
	path := filepath.Join(dir, "bundle.json")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writer: create %s: %w", path, err)
	}
	err = EncodeBundle(f, g, p.Outputs.BundleType)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("writer: write %s: %w", path, err)
	}
	return nil
}

// EncodeBundle writes the graph as a FHIR Bundle. Transaction bundles
// carry a PUT request per entry so they can be loaded into a server
// idempotently; the default is a collection.
func EncodeBundle(w io.Writer, g *synth.Graph, bundleType string) error {
	if bundleType == "" {
		bundleType = "collection"
	}

	entries := make([]any, 0, g.Len())
	for _, rt := range g.Types() {
		for _, r := range sortedByID(g.All(rt)) {
			entry := map[string]any{"resource": r.Body()}
			if bundleType == "transaction" {
				entry["request"] = map[string]any{
					"method": "PUT",
					"url":    fmt.Sprintf("%s/%s", r.ResourceType(), r.ID()),
				}
			}
			entries = append(entries, entry)
		}
	}

	bundle := map[string]any{
		"resourceType": "Bundle",
		"type":         bundleType,
		"entry":        entries,
	}
	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// WriteFiles writes each resource to dir/{Type}/{id}.json.
func WriteFiles(g *synth.Graph, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("writer: mkdir %s: %w", dir, err)
	}
	for _, rt := range g.Types() {
		typeDir := filepath.Join(dir, rt)
		if err := os.MkdirAll(typeDir, 0o755); err != nil {
			return fmt.Errorf("writer: mkdir %s: %w", typeDir, err)
		}
		for _, r := range g.All(rt) {
			data, err := json.MarshalIndent(r.Body(), "", "  ")
			if err != nil {
				return err
			}
			path := filepath.Join(typeDir, r.ID()+".json")
			if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
				return fmt.Errorf("writer: write %s: %w", path, err)
			}
		}
	}
	return nil
}

func sortedByID(resources []fhir.Resource) []fhir.Resource {
	out := make([]fhir.Resource, len(resources))
	copy(out, resources)
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}
