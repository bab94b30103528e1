package feed

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeScript(t *testing.T, dir, name, code string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(code), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestTranspileFeed(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "one.nasl", `
if (description)
{
	script_oid("1.3.6.1.4.1.25623.1.0.1");
	script_name("First plugin");
	script_tag(name: "summary", value: "First.");
	exit(0);
}
exit(0);
`)
	writeScript(t, dir, "two.nasl", `
if (description)
{
	script_oid("1.3.6.1.4.1.25623.1.0.2");
	script_name("Second plugin");
	exit(0);
}
exit(0);
`)
	writeScript(t, dir, "notes.txt", "not a script")

	manifest, err := New(dir, 2).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(manifest.Scripts) != 2 {
		t.Fatalf("want 2 entries, got %d", len(manifest.Scripts))
	}
	first := manifest.Scripts[0]
	if first.Filename != "one.nasl" || first.OID != "1.3.6.1.4.1.25623.1.0.1" || first.Name != "First plugin" {
		t.Fatalf("got %+v", first)
	}
	if first.Tags["summary"] != "First." {
		t.Fatalf("got tags %v", first.Tags)
	}
	if manifest.Scripts[1].OID != "1.3.6.1.4.1.25623.1.0.2" {
		t.Fatalf("got %+v", manifest.Scripts[1])
	}
}

func TestTranspileRecordsScriptErrors(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "broken.nasl", `this is ( not nasl ]];`)
	writeScript(t, dir, "fine.nasl", `exit(0);`)

	manifest, err := New(dir, 1).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(manifest.Scripts) != 2 {
		t.Fatalf("want 2 entries, got %d", len(manifest.Scripts))
	}
	if manifest.Scripts[0].Filename != "broken.nasl" || manifest.Scripts[0].Error == "" {
		t.Fatalf("broken script should carry its error: %+v", manifest.Scripts[0])
	}
	if manifest.Scripts[1].Error != "" {
		t.Fatalf("fine script should not error: %+v", manifest.Scripts[1])
	}
}

func TestManifestYAML(t *testing.T) {
	manifest := &Manifest{Scripts: []Entry{{
		Filename: "one.nasl",
		OID:      "1.3.6.1.4.1.25623.1.0.1",
		Name:     "First plugin",
	}}}
	var buf bytes.Buffer
	if err := manifest.WriteYAML(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"scripts:", "one.nasl", "First plugin"} {
		if !strings.Contains(out, want) {
			t.Fatalf("yaml output missing %q:\n%s", want, out)
		}
	}
}
