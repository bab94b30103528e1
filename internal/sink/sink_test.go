package sink

import (
	"testing"

	"github.com/v0rts/openvas-scanner/internal/value"
)

func TestMemoryAccumulatesFields(t *testing.T) {
	m := NewMemory()
	key := m.ResolveKey("plugin.nasl")
	if key != "plugin.nasl" {
		t.Fatalf("got key %q", key)
	}

	dispatch := func(kind FieldKind, k string, v value.Value) {
		t.Helper()
		if err := m.Dispatch(key, Field{Kind: kind, Key: k, Value: v}); err != nil {
			t.Fatal(err)
		}
	}
	dispatch(FieldOID, "", value.Str("1.3.6.1.4.1.25623.1.0.9"))
	dispatch(FieldName, "", value.Str("A plugin"))
	dispatch(FieldDependency, "", value.Str("find_service.nasl"))
	dispatch(FieldDependency, "", value.Str("http_version.nasl"))
	dispatch(FieldTag, "summary", value.Str("Does a thing."))
	dispatch(FieldReference, "cve", value.Str("CVE-2024-0001"))

	oid, name, _, _, _, deps, tags, refs, ok := m.Record(key)
	if !ok {
		t.Fatal("record missing")
	}
	if oid != "1.3.6.1.4.1.25623.1.0.9" || name != "A plugin" {
		t.Fatalf("got oid %q name %q", oid, name)
	}
	if len(deps) != 2 || deps[0] != "find_service.nasl" {
		t.Fatalf("got deps %v", deps)
	}
	if tags["summary"] != "Does a thing." {
		t.Fatalf("got tags %v", tags)
	}
	if len(refs["cve"]) != 1 || refs["cve"][0] != "CVE-2024-0001" {
		t.Fatalf("got refs %v", refs)
	}
}

func TestOIDWriteAliasesRecord(t *testing.T) {
	m := NewMemory()
	if err := m.Dispatch("plugin.nasl", Field{Kind: FieldOID, Value: value.Str("1.2.3")}); err != nil {
		t.Fatal(err)
	}
	if _, _, _, _, _, _, _, _, ok := m.Record("1.2.3"); !ok {
		t.Fatal("record not reachable by OID")
	}
}

func TestResolveKeyGeneratesForAnonymousRuns(t *testing.T) {
	m := NewMemory()
	a, b := m.ResolveKey(""), m.ResolveKey("")
	if a == "" || a == b {
		t.Fatalf("anonymous keys must be distinct: %q vs %q", a, b)
	}
}
