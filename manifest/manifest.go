// Package manifest loads pipelines described in YAML.
//
//	name: fields
//	timeout: 30s
//	stages:
//	  - command: echo
//	    args: ["1:2:3"]
//	  - command: rev
//	    uncached: true
//	  - path: /usr/bin/cut
//	    args: ["-d", ":", "-f", "1"]
//	    env: {LC_ALL: C}
//	  - write: out.txt
//
// Each stage sets exactly one of command, path, read, write or append.
package manifest

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"gopkg.in/yaml.v3"

	"github.com/jmgilman/go/shell/errors"
	"github.com/jmgilman/go/shell/exec"
	"github.com/jmgilman/go/shell/pipeline"
	"github.com/jmgilman/go/shell/redirect"
	"github.com/jmgilman/go/shell/resolve"
	"github.com/jmgilman/go/shell/sh"
)

// Stage kinds.
const (
	KindCommand = "command"
	KindPath    = "path"
	KindRead    = "read"
	KindWrite   = "write"
	KindAppend  = "append"
)

// Manifest is a parsed pipeline file.
type Manifest struct {
	Name       string  `yaml:"name"`
	RawTimeout string  `yaml:"timeout"` // e.g. "30s"; empty means no timeout
	Stages     []Stage `yaml:"stages"`
}

// Stage is one pipeline stage. Args and Env keep the distinction between an
// absent key (nil) and an empty one.
type Stage struct {
	Command    string            `yaml:"command"`
	Path       string            `yaml:"path"`
	Read       string            `yaml:"read"`
	Write      string            `yaml:"write"`
	Append     string            `yaml:"append"`
	Args       []string          `yaml:"args"`
	Env        map[string]string `yaml:"env"`
	InheritEnv bool              `yaml:"inherit_env"`
	Dir        string            `yaml:"dir"`
	Uncached   bool              `yaml:"uncached"`
}

// Kind returns which of the stage's mutually exclusive keys is set, or "" if
// none or several are.
func (s Stage) Kind() string {
	kind := ""
	for k, v := range map[string]string{
		KindCommand: s.Command,
		KindPath:    s.Path,
		KindRead:    s.Read,
		KindWrite:   s.Write,
		KindAppend:  s.Append,
	} {
		if v == "" {
			continue
		}
		if kind != "" {
			return ""
		}
		kind = k
	}
	return kind
}

// Parse decodes and validates a manifest. Unknown keys are rejected.
func Parse(data []byte) (*Manifest, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, errors.New(errors.CodeInvalidConfig, "manifest is empty")
		}
		return nil, errors.Wrap(err, errors.CodeInvalidConfig, "failed to parse manifest")
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Load reads and parses the manifest at path in fsys.
func Load(fsys billy.Filesystem, path string) (*Manifest, error) {
	data, err := util.ReadFile(fsys, path)
	if err != nil {
		return nil, errors.WithContext(
			errors.Wrapf(err, errors.CodeIO, "failed to read manifest %s", path),
			"path", path,
		)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, errors.WithContext(err, "path", path)
	}
	return m, nil
}

// Validate checks the manifest's structure.
func (m *Manifest) Validate() error {
	if len(m.Stages) == 0 {
		return errors.New(errors.CodeInvalidConfig, "manifest has no stages")
	}
	if _, err := m.timeout(); err != nil {
		return err
	}
	for i, st := range m.Stages {
		kind := st.Kind()
		if kind == "" {
			return stageError(i, "must set exactly one of command, path, read, write or append")
		}
		isProcess := kind == KindCommand || kind == KindPath
		if !isProcess && (st.Args != nil || st.Env != nil || st.InheritEnv || st.Dir != "" || st.Uncached) {
			return stageError(i, fmt.Sprintf("%s stages take no process settings", kind))
		}
		if kind == KindPath && st.Uncached {
			return stageError(i, "uncached applies to command stages only")
		}
	}
	return nil
}

// Timeout returns the run timeout, or 0 for none.
func (m *Manifest) Timeout() time.Duration {
	d, _ := m.timeout()
	return d
}

func (m *Manifest) timeout() (time.Duration, error) {
	if m.RawTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(m.RawTimeout)
	if err != nil || d <= 0 {
		return 0, errors.WithContext(
			errors.Newf(errors.CodeInvalidConfig, "invalid timeout %q", m.RawTimeout),
			"timeout", m.RawTimeout,
		)
	}
	return d, nil
}

// Builder returns a pipeline.Builder that creates fresh stages on each call.
// Commands are located through s, and file stages use fsys.
func (m *Manifest) Builder(s *sh.Shell, fsys billy.Filesystem) pipeline.Builder {
	return func() (exec.Runnable, error) {
		stages := make([]exec.Runnable, 0, len(m.Stages))
		for i, st := range m.Stages {
			r, err := build(s, fsys, st)
			if err != nil {
				return nil, errors.WithContext(err, "stage", i)
			}
			stages = append(stages, r)
		}
		if len(stages) == 0 {
			return nil, errors.New(errors.CodeInvalidConfig, "manifest has no stages")
		}
		return exec.Chain(stages[0], stages[1:]...), nil
	}
}

func build(s *sh.Shell, fsys billy.Filesystem, st Stage) (exec.Runnable, error) {
	switch st.Kind() {
	case KindCommand:
		policy := s.Policy()
		if st.Uncached {
			policy = resolve.Uncached
		}
		return s.Command(st.Command, policy, processOptions(st)...), nil
	case KindPath:
		return s.Executable(st.Path, processOptions(st)...), nil
	case KindRead:
		return redirect.FromFile(fsys, st.Read), nil
	case KindWrite:
		return redirect.ToFile(fsys, st.Write), nil
	case KindAppend:
		return redirect.AppendFile(fsys, st.Append), nil
	default:
		return nil, errors.New(errors.CodeInvalidConfig, "stage must set exactly one of command, path, read, write or append")
	}
}

func processOptions(st Stage) []exec.Option {
	var opts []exec.Option
	if st.Args != nil {
		opts = append(opts, exec.WithArgs(st.Args...))
	}
	if st.Env != nil {
		opts = append(opts, exec.WithEnv(st.Env))
	}
	if st.InheritEnv {
		opts = append(opts, exec.WithInheritEnv())
	}
	if st.Dir != "" {
		opts = append(opts, exec.WithDir(st.Dir))
	}
	return opts
}

func stageError(i int, msg string) error {
	return errors.WithContext(
		errors.Newf(errors.CodeInvalidConfig, "stage %d: %s", i, msg),
		"stage", i,
	)
}
