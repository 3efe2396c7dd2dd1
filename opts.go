package executor

import (
	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// Opts are operator-tunable knobs for the docker path.
type Opts struct {
	// Docker is the container runtime binary to invoke.
	Docker string `toml:"docker"`

	// TmpDir is where generated build recipes are written, relative to the
	// project directory.
	TmpDir string `toml:"tmp_dir"`
}

func DefaultOpts() Opts {
	return Opts{
		Docker: "docker",
		TmpDir: ".digdag/tmp/docker",
	}
}

// LoadOpts reads opts from a TOML file, filling unset fields with defaults.
func LoadOpts(path string) (Opts, error) {
	opts := DefaultOpts()
	if _, err := toml.DecodeFile(path, &opts); err != nil {
		return Opts{}, errors.Wrap(err, "load executor opts")
	}
	return opts, nil
}
