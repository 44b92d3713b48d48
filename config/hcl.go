package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/joho/godotenv"
	"github.com/zclconf/go-cty/cty"
)

// hclFile is the top-level structure of a config file.
type hclFile struct {
	Mode          *string      `hcl:"mode,optional"`
	DefaultPreset *string      `hcl:"default_preset,optional"`
	LogLevel      *string      `hcl:"log_level,optional"`
	LogFormat     *string      `hcl:"log_format,optional"`
	LogFile       *string      `hcl:"log_file,optional"`
	Server        *hclServer   `hcl:"server,block"`
	Store         *hclStore    `hcl:"store,block"`
	Presets       []*hclPreset `hcl:"preset,block"`
}

type hclServer struct {
	Listen     *string `hcl:"listen,optional"`
	Tick       *string `hcl:"tick,optional"`
	SessionTTL *string `hcl:"session_ttl,optional"`
}

type hclStore struct {
	Backend     string  `hcl:"backend"`
	Path        *string `hcl:"path,optional"`
	RedisAddr   *string `hcl:"redis_addr,optional"`
	RedisKey    *string `hcl:"redis_key,optional"`
	DatabaseURL *string `hcl:"database_url,optional"`
}

type hclPreset struct {
	Name  string `hcl:"name,label"`
	Rows  int    `hcl:"rows"`
	Cols  int    `hcl:"cols"`
	Mines int    `hcl:"mines"`
}

// LoadDotEnv loads KEY=value pairs from path into the environment without
// overriding variables that are already set. A missing file is ignored.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// LoadFile applies the HCL file at path on top of c. Expressions may refer
// to environment variables as env.NAME.
func (c *Config) LoadFile(path string) error {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse config file %s: %s", path, diags.Error())
	}

	var raw hclFile
	diags = gohcl.DecodeBody(file.Body, evalContext(), &raw)
	if diags.HasErrors() {
		return fmt.Errorf("failed to decode config file %s: %s", path, diags.Error())
	}

	if err := c.apply(&raw); err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}
	return nil
}

func evalContext() *hcl.EvalContext {
	vars := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			continue
		}
		vars[name] = cty.StringVal(value)
	}

	env := cty.EmptyObjectVal
	if len(vars) > 0 {
		env = cty.ObjectVal(vars)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": env},
	}
}

func (c *Config) apply(raw *hclFile) error {
	setString(&c.Mode, raw.Mode)
	setString(&c.DefaultPreset, raw.DefaultPreset)
	setString(&c.LogLevel, raw.LogLevel)
	setString(&c.LogFormat, raw.LogFormat)
	setString(&c.LogFile, raw.LogFile)

	if s := raw.Server; s != nil {
		setString(&c.Server.Listen, s.Listen)
		if err := setDuration(&c.Server.Tick, s.Tick, "server.tick"); err != nil {
			return err
		}
		if err := setDuration(&c.Server.SessionTTL, s.SessionTTL, "server.session_ttl"); err != nil {
			return err
		}
	}

	if s := raw.Store; s != nil {
		c.Store.Backend = s.Backend
		setString(&c.Store.Path, s.Path)
		setString(&c.Store.RedisAddr, s.RedisAddr)
		setString(&c.Store.RedisKey, s.RedisKey)
		setString(&c.Store.DatabaseURL, s.DatabaseURL)
	}

	for _, p := range raw.Presets {
		if err := c.Presets.Override(p.Name, p.Rows, p.Cols, p.Mines); err != nil {
			return err
		}
	}
	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setDuration(dst *time.Duration, src *string, name string) error {
	if src == nil {
		return nil
	}
	d, err := time.ParseDuration(*src)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = d
	return nil
}
