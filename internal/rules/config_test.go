package rules

import (
	"os"
	"path/filepath"
	"testing"

	"idlimp/internal/errors"
)

const legacyXML = `<?xml version="1.0" encoding="utf-8"?>
<IDLConversions xmlns="http://dummy.sil.org/IDLConversions.xsd">
  <m_ParamTypes>
    <ConversionEntry>
      <Attribute>out,~in</Attribute>
      <Match>BSTR\s*\*</Match>
      <Replace>string</Replace>
      <NewAttribute>MarshalAs</NewAttribute>
      <NewAttrValue>UnmanagedType.BStr</NewAttrValue>
    </ConversionEntry>
    <ConversionEntry>
      <Match>long</Match>
      <Replace>int</Replace>
      <fEnd>false</fEnd>
    </ConversionEntry>
  </m_ParamTypes>
  <m_ParamNames>
    <ConversionEntry>
      <Match>^(\s*)ref$</Match>
      <Replace>$1_ref</Replace>
    </ConversionEntry>
  </m_ParamNames>
</IDLConversions>`

func TestParseXMLLegacy(t *testing.T) {
	cfg, err := ParseXML([]byte(legacyXML))
	if err != nil {
		t.Fatalf("ParseXML: %v", err)
	}
	if len(cfg.ParamTypes) != 2 || len(cfg.ParamNames) != 1 {
		t.Fatalf("got %d type rules, %d name rules", len(cfg.ParamTypes), len(cfg.ParamNames))
	}
	first := cfg.ParamTypes[0]
	if len(first.Conditions) != 2 || !first.Conditions[1].Negate || first.Conditions[1].Key != "in" {
		t.Fatalf("conditions = %+v", first.Conditions)
	}
	if !first.End || cfg.ParamTypes[1].End {
		t.Fatalf("fEnd not honoured")
	}
	if cfg.ParamNames[0].Replace != "${1}_ref" {
		t.Fatalf("template = %q", cfg.ParamNames[0].Replace)
	}
}

func TestParseTOMLErrors(t *testing.T) {
	if _, err := ParseTOML("[[param_type]]\nmatch = '('\n"); !errors.IsData(err) {
		t.Fatalf("bad regex should be a data error, got %v", err)
	}
	if _, err := ParseTOML("[[param_type]]\nmatch = 'x'\nbogus = 1\n"); !errors.IsData(err) {
		t.Fatalf("unknown key should be a data error, got %v", err)
	}
}

func TestLoadByExtension(t *testing.T) {
	dir := t.TempDir()
	xmlPath := filepath.Join(dir, "IDLImp.xml")
	if err := os.WriteFile(xmlPath, []byte(legacyXML), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(xmlPath)
	if err != nil || len(cfg.ParamTypes) != 2 {
		t.Fatalf("Load xml: %v", err)
	}

	tomlPath := filepath.Join(dir, "rules.toml")
	if err := os.WriteFile(tomlPath, []byte("[[param_name]]\nmatch = 'a'\nreplace = 'b'\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load(tomlPath)
	if err != nil || len(cfg.ParamNames) != 1 {
		t.Fatalf("Load toml: %v", err)
	}
}

func TestDotnetTemplate(t *testing.T) {
	tests := map[string]string{
		"plain":     "plain",
		"$1Ptr":     "${1}Ptr",
		"$$1":       "$$1",
		"<$&>":      "<${0}>",
		"${name}":   "${name}",
		"a$12b$3":   "a${12}b${3}",
		"trailing$": "trailing$",
	}
	for in, want := range tests {
		if got := dotnetTemplate(in); got != want {
			t.Fatalf("dotnetTemplate(%q) = %q, want %q", in, got, want)
		}
	}
}
