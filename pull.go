package executor

import (
	"github.com/pkg/errors"
)

// pullImage runs the runtime's pull command for a pre-existing remote image,
// streaming its output to the operator sinks. A non-zero exit is fatal.
func (e *DockerExecutor) pullImage(projectPath, image string) error {
	e.Logger.Infof("pulling docker image %s", image)
	banner(e.Stderr, "pulling %s", image)

	err := e.Runner.Stream(projectPath, e.Stdout, e.Stderr, e.docker(), "pull", image)
	if err != nil {
		return errors.Wrap(err, "docker pull")
	}

	return nil
}
