package executor

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/docker/cli/cli/config/configfile"
	"github.com/docker/cli/cli/config/types"
	"github.com/pkg/errors"
)

// seedRegistryCredentials writes ~/.docker/config.json from the
// DOCKER_USERNAME, DOCKER_PASSWORD and DOCKER_REGISTRY environment variables
// so that pull and build can reach private registries. With an incomplete
// set of variables nothing is written.
func (e *DockerExecutor) seedRegistryCredentials() error {
	username := os.Getenv("DOCKER_USERNAME")
	password := os.Getenv("DOCKER_PASSWORD")
	registry := os.Getenv("DOCKER_REGISTRY")

	if username == "" || password == "" || registry == "" {
		e.Logger.Debugf("no docker registry credentials in environment")
		return nil
	}

	config := configfile.ConfigFile{
		AuthConfigs: map[string]types.AuthConfig{
			registry: {
				Username: username,
				Password: password,
			},
		},
	}

	payload, err := json.MarshalIndent(config, "", " ")
	if err != nil {
		return errors.Wrap(err, "marshal docker config")
	}

	homedir, err := os.UserHomeDir()
	if err != nil {
		return errors.Wrap(err, "locate home dir")
	}

	configDir := filepath.Join(homedir, ".docker")
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return errors.Wrap(err, "create docker config dir")
	}

	configPath := filepath.Join(configDir, "config.json")
	if err := os.WriteFile(configPath, payload, 0600); err != nil {
		return errors.Wrap(err, "write docker config")
	}

	e.Logger.Debugf("wrote registry credentials for %s", registry)
	return nil
}
