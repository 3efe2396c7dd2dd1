// Package executor is the command-execution layer of a workflow-task runner:
// given a task's declarative configuration it either spawns the task's
// command directly on the host, or resolves (and if needed builds or pulls)
// a container image and spawns the command inside an ephemeral container.
package executor

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DockerExecutor decides between host and container execution and
// materializes the decision into a spawned process. It is safe to use from
// concurrent task attempts; two attempts racing to build the same tag both
// build, which is idempotent.
type DockerExecutor struct {
	// Local spawns host processes; it is both the fallback path and the
	// primitive used to spawn the container runtime itself.
	Local Launcher

	// Runner executes the runtime's synchronous sub-invocations
	// (list-images, build, pull).
	Runner CommandRunner

	// Logger is the diagnostic sink.
	Logger logrus.FieldLogger

	// Opts carries operator-tunable knobs. Zero-valued fields fall back to
	// defaults.
	Opts Opts

	// Stdout and Stderr are the operator-visible sinks that build and pull
	// output is streamed to.
	Stdout io.Writer
	Stderr io.Writer
}

// New returns a DockerExecutor with the os/exec-backed runner and default
// options.
func New(local Launcher) *DockerExecutor {
	return &DockerExecutor{
		Local:  local,
		Runner: ExecRunner{},
		Logger: logrus.StandardLogger(),
		Opts:   DefaultOpts(),
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

func (e *DockerExecutor) docker() string {
	if e.Opts.Docker != "" {
		return e.Opts.Docker
	}
	return "docker"
}

func (e *DockerExecutor) tmpDir() string {
	if e.Opts.TmpDir != "" {
		return e.Opts.TmpDir
	}
	return ".digdag/tmp/docker"
}

// Start spawns the task's command and returns its live handle. Without a
// "docker" configuration section the command runs directly on the host.
// Image resolution (probe, build, pull) runs synchronously before the final
// spawn; the spawn itself does not wait for the command to finish.
func (e *DockerExecutor) Start(projectPath string, req *TaskRequest, spec ProcessSpec) (Process, error) {
	if !req.Config.Has("docker") {
		return e.Local.Start(spec)
	}
	return e.startWithDocker(projectPath, req, spec)
}

func (e *DockerExecutor) startWithDocker(projectPath string, req *TaskRequest, spec ProcessSpec) (Process, error) {
	docker, err := ParseDockerSpec(req.Config.Nested("docker"))
	if err != nil {
		return nil, err
	}

	if err := e.seedRegistryCredentials(); err != nil {
		return nil, err
	}

	var image string
	if len(docker.Build) > 0 {
		tag := UniqueImageTag(req, docker)

		present, err := e.imageExists(projectPath, tag)
		if err != nil {
			return nil, err
		}

		if present {
			e.Logger.Debugf("reusing docker image %s", tag)
		} else if err := e.buildImage(projectPath, tag, docker); err != nil {
			return nil, err
		}

		image = tag.String()
	} else {
		image = docker.Image
		if docker.PullAlways {
			if err := e.pullImage(projectPath, image); err != nil {
				return nil, err
			}
		}
	}

	run := e.runInvocation(projectPath, image, spec)
	e.Logger.Debugf("running in docker: %s", strings.Join(run.Command, " "))

	proc, err := e.Local.Start(run)
	if err != nil {
		return nil, errors.Wrap(err, "docker run")
	}

	return proc, nil
}

// runInvocation derives the outer docker-run launch description from the
// task's own. The project directory is bind-mounted onto the identical path
// inside the container so the working directory in spec stays valid
// verbatim, and the inner command vector is appended unmodified.
func (e *DockerExecutor) runInvocation(projectPath, image string, spec ProcessSpec) ProcessSpec {
	args := []string{e.docker(), "run"}

	args = append(args, "-i")   // keep stdin open
	args = append(args, "--rm") // remove container when it exits

	args = append(args, "-v", fmt.Sprintf("%s:%s:rw", projectPath, projectPath))

	workdir := spec.Dir
	if workdir == "" {
		workdir = projectPath
	} else if !filepath.IsAbs(workdir) {
		workdir = filepath.Join(projectPath, workdir)
	}
	args = append(args, "-w", filepath.Clean(workdir))

	for k, v := range spec.Env {
		args = append(args, "-e", k+"="+v)
	}

	args = append(args, image)
	args = append(args, spec.Command...)

	return ProcessSpec{
		Command: args,
		Dir:     projectPath,
		Stdin:   spec.Stdin,
		Stdout:  spec.Stdout,
		Stderr:  spec.Stderr,
	}
}
