package executor_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	executor "github.com/digdag/docker-command-executor"
)

type ConfigSuite struct {
	suite.Suite
	*require.Assertions
}

func (s *ConfigSuite) parse(payload string) executor.Config {
	cfg, err := executor.ParseConfig([]byte(payload))
	s.NoError(err)
	return cfg
}

func (s *ConfigSuite) TestHas() {
	cfg := s.parse(`{"docker": {"image": "ubuntu:20.04"}}`)

	s.True(cfg.Has("docker"))
	s.False(cfg.Has("shell"))
}

func (s *ConfigSuite) TestNested() {
	cfg := s.parse(`{"docker": {"image": "ubuntu:20.04"}}`)

	image, err := cfg.Nested("docker").GetString("image")
	s.NoError(err)
	s.Equal("ubuntu:20.04", image)

	// absent and non-object keys both yield an empty view
	s.False(cfg.Nested("missing").Has("image"))
	s.False(s.parse(`{"docker": "oops"}`).Nested("docker").Has("image"))
}

func (s *ConfigSuite) TestGetStringErrors() {
	cfg := s.parse(`{"count": 3}`)

	_, err := cfg.GetString("image")
	s.Error(err)

	_, err = cfg.GetString("count")
	s.Error(err)
}

func (s *ConfigSuite) TestGetStringOr() {
	cfg := s.parse(`{"name": "build"}`)

	s.Equal("build", cfg.GetStringOr("name", "default"))
	s.Equal("default", cfg.GetStringOr("missing", "default"))
}

func (s *ConfigSuite) TestGetBool() {
	cfg := s.parse(`{"pull_always": true, "broken": "yes"}`)

	s.True(cfg.GetBool("pull_always", false))
	s.False(cfg.GetBool("missing", false))
	s.True(cfg.GetBool("missing", true))
	s.False(cfg.GetBool("broken", false))
}

func (s *ConfigSuite) TestGetStringList() {
	cfg := s.parse(`{"build": ["apt-get update", "echo a\necho b"]}`)

	build, err := cfg.GetStringList("build")
	s.NoError(err)
	s.Equal([]string{"apt-get update", "echo a\necho b"}, build)

	missing, err := cfg.GetStringList("missing")
	s.NoError(err)
	s.Nil(missing)

	_, err = s.parse(`{"build": "apt-get update"}`).GetStringList("build")
	s.Error(err)

	_, err = s.parse(`{"build": ["ok", 3]}`).GetStringList("build")
	s.Error(err)
}

func (s *ConfigSuite) TestParseDockerSpec() {
	cfg := s.parse(`{
		"image": "ubuntu:20.04",
		"build": ["apt-get update"],
		"pull_always": true
	}`)

	spec, err := executor.ParseDockerSpec(cfg)
	s.NoError(err)
	s.Equal("ubuntu:20.04", spec.Image)
	s.Equal([]string{"apt-get update"}, spec.Build)
	s.True(spec.PullAlways)
}

func (s *ConfigSuite) TestParseDockerSpecDefaults() {
	spec, err := executor.ParseDockerSpec(s.parse(`{"image": "alpine"}`))
	s.NoError(err)
	s.Empty(spec.Build)
	s.False(spec.PullAlways)
}

func (s *ConfigSuite) TestParseDockerSpecMissingImage() {
	_, err := executor.ParseDockerSpec(s.parse(`{"build": ["apt-get update"]}`))
	s.Error(err)
}

func (s *ConfigSuite) TestParseConfigRejectsGarbage() {
	_, err := executor.ParseConfig([]byte(`not json`))
	s.Error(err)
}

func TestConfig(t *testing.T) {
	suite.Run(t, &ConfigSuite{
		Assertions: require.New(t),
	})
}
