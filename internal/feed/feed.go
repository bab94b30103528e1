// Package feed implements the feed transpiler: it runs every script in a
// feed directory far enough to capture its description-block output and
// collects the results into a manifest. Scripts evaluate in parallel, one
// interpreter instance each; within an instance evaluation stays serial.
package feed

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
	"golang.org/x/sync/errgroup"

	"github.com/v0rts/openvas-scanner/internal/builtin"
	"github.com/v0rts/openvas-scanner/internal/interp"
	"github.com/v0rts/openvas-scanner/internal/lexer"
	"github.com/v0rts/openvas-scanner/internal/loader"
	"github.com/v0rts/openvas-scanner/internal/parser"
	"github.com/v0rts/openvas-scanner/internal/register"
	"github.com/v0rts/openvas-scanner/internal/sink"
	"github.com/v0rts/openvas-scanner/internal/value"
)

// Entry is one script's description-block output.
type Entry struct {
	Filename     string              `yaml:"filename"`
	OID          string              `yaml:"oid,omitempty"`
	Name         string              `yaml:"name,omitempty"`
	Category     string              `yaml:"category,omitempty"`
	Family       string              `yaml:"family,omitempty"`
	Version      string              `yaml:"version,omitempty"`
	Dependencies []string            `yaml:"dependencies,omitempty"`
	Tags         map[string]string   `yaml:"tags,omitempty"`
	References   map[string][]string `yaml:"references,omitempty"`
	Error        string              `yaml:"error,omitempty"`
}

// Manifest is the transpiled feed: one entry per script file, ordered by
// filename.
type Manifest struct {
	Scripts []Entry `yaml:"scripts"`
}

// Transpiler walks a feed directory and runs each script's description
// block against an in-memory sink.
type Transpiler struct {
	Root    string
	Workers int
}

// New returns a Transpiler over the feed rooted at root, fanning out over
// workers scripts at a time.
func New(root string, workers int) *Transpiler {
	if workers < 1 {
		workers = 1
	}
	return &Transpiler{Root: root, Workers: workers}
}

// Scripts lists every .nasl file under the feed root, relative to it.
func (t *Transpiler) Scripts() ([]string, error) {
	var out []string
	err := filepath.WalkDir(t.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".nasl") {
			return nil
		}
		rel, err := filepath.Rel(t.Root, path)
		if err != nil {
			return err
		}
		out = append(out, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

// Run transpiles the whole feed. A script that fails to parse or evaluate
// still gets an entry, with its Error field set; only filesystem-level
// failures abort the run.
func (t *Transpiler) Run(ctx context.Context) (*Manifest, error) {
	scripts, err := t.Scripts()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, len(scripts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.Workers)
	for idx, name := range scripts {
		idx, name := idx, name
		g.Go(func() error {
			entries[idx] = t.describe(gctx, name)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &Manifest{Scripts: entries}, nil
}

// describe runs one script in description mode and captures its sink
// output.
func (t *Transpiler) describe(ctx context.Context, name string) Entry {
	entry := Entry{Filename: name}
	src, err := os.ReadFile(filepath.Join(t.Root, name))
	if err != nil {
		entry.Error = err.Error()
		return entry
	}

	mem := sink.NewMemory()
	key := mem.ResolveKey(name)
	reg := register.New(map[string]value.Value{"description": value.Num(1)})
	ld := loader.NewFilesystem(t.Root)
	disp := builtin.DescriptionBuiltins(key, mem)

	p := parser.New(lexer.New(string(src)))
	stmts := p.All()
	if errs := p.Errors(); len(errs) > 0 {
		entry.Error = errs[0].Error()
		return entry
	}

	it := interp.New(string(src), key, reg, mem, ld, disp)
	if _, err := it.Run(ctx, stmts); err != nil {
		entry.Error = err.Error()
	}

	if oid, sname, category, family, version, deps, tags, refs, ok := mem.Record(key); ok {
		entry.OID = oid
		entry.Name = sname
		entry.Category = category
		entry.Family = family
		entry.Version = version
		entry.Dependencies = deps
		if len(tags) > 0 {
			entry.Tags = tags
		}
		if len(refs) > 0 {
			entry.References = refs
		}
	}
	return entry
}

// WriteYAML renders the manifest as YAML.
func (m *Manifest) WriteYAML(w io.Writer) error {
	out, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("feed: marshal manifest: %w", err)
	}
	_, err = w.Write(out)
	return err
}
