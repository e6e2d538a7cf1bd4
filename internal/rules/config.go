package rules

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"idlimp/internal/errors"
)

// Config is the ordered rule set for parameter types and parameter names.
type Config struct {
	ParamTypes []*Rule
	ParamNames []*Rule
}

type tomlFile struct {
	ParamType []entry `toml:"param_type"`
	ParamName []entry `toml:"param_name"`
}

type xmlFile struct {
	XMLName    xml.Name `xml:"IDLConversions"`
	ParamTypes []entry  `xml:"m_ParamTypes>ConversionEntry"`
	ParamNames []entry  `xml:"m_ParamNames>ConversionEntry"`
}

// Load reads a rule file, picking the format from the extension: ".xml" is
// the legacy IDLConversions document, anything else is TOML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read rules %s", path)
	}
	var cfg *Config
	if strings.EqualFold(filepath.Ext(path), ".xml") {
		cfg, err = ParseXML(data)
	} else {
		cfg, err = ParseTOML(string(data))
	}
	if err != nil {
		return nil, errors.Wrapf(err, "rules %s", path)
	}
	return cfg, nil
}

// ParseTOML reads [[param_type]] and [[param_name]] tables.
func ParseTOML(src string) (*Config, error) {
	var f tomlFile
	meta, err := toml.Decode(src, &f)
	if err != nil {
		return nil, errors.MarkData(errors.Wrap(err, "decode"))
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, errors.MarkData(errors.WithHint(
			errors.Newf("unknown key %s", undecoded[0]),
			"rule keys are match, replace, attributes, attr_value, new_attribute, new_attr_value, end"))
	}
	return build(f.ParamType, f.ParamName)
}

// ParseXML reads the legacy XML rule document.
func ParseXML(data []byte) (*Config, error) {
	var f xmlFile
	if err := xml.Unmarshal(data, &f); err != nil {
		return nil, errors.MarkData(errors.Wrap(err, "decode"))
	}
	return build(f.ParamTypes, f.ParamNames)
}

func build(types, names []entry) (*Config, error) {
	cfg := &Config{
		ParamTypes: make([]*Rule, 0, len(types)),
		ParamNames: make([]*Rule, 0, len(names)),
	}
	for i, e := range types {
		r, err := e.compile()
		if err != nil {
			return nil, errors.MarkData(errors.Wrapf(err, "param_type #%d", i+1))
		}
		cfg.ParamTypes = append(cfg.ParamTypes, r)
	}
	for i, e := range names {
		r, err := e.compile()
		if err != nil {
			return nil, errors.MarkData(errors.Wrapf(err, "param_name #%d", i+1))
		}
		cfg.ParamNames = append(cfg.ParamNames, r)
	}
	return cfg, nil
}
