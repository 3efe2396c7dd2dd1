package executor

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"
)

// buildImage synthesizes a Dockerfile for tag and runs the runtime's build
// command, streaming its output to the operator sinks. A non-zero exit
// aborts the attempt; there is no fallback to a stale image.
func (e *DockerExecutor) buildImage(projectPath string, tag ImageTag, spec DockerSpec) error {
	recipePath, err := e.writeDockerfile(projectPath, tag, spec)
	if err != nil {
		return err
	}

	e.Logger.Infof("building docker image %s", tag)
	banner(e.Stderr, "building %s", tag)

	err = e.Runner.Stream(projectPath, e.Stdout, e.Stderr,
		e.docker(), "build",
		"-f", recipePath,
		"--force-rm",
		"-t", tag.String(),
		projectPath,
	)
	if err != nil {
		return errors.Wrap(err, "docker build")
	}

	return nil
}

// writeDockerfile writes the build recipe under the project's generated
// artifacts directory, one instruction per non-empty line of each build step.
// The file name is derived from the tag, so concurrent attempts with
// distinct tags never collide on it.
func (e *DockerExecutor) writeDockerfile(projectPath string, tag ImageTag, spec DockerSpec) (string, error) {
	dir := filepath.Join(projectPath, filepath.FromSlash(e.tmpDir()))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrap(err, "create recipe dir")
	}

	path := filepath.Join(dir, "Dockerfile."+strings.ReplaceAll(tag.String(), ":", "."))

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "FROM %s\n", strings.ReplaceAll(spec.Image, "\n", ""))

	// No ADD/COPY of project files here: that would key every RUN layer on
	// unrelated file contents and spoil layer sharing between images with a
	// common instruction prefix. Files reach the container through the
	// run-time bind mount instead.
	for _, step := range spec.Build {
		for _, line := range strings.Split(step, "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			fmt.Fprintf(&buf, "RUN %s\n", line)
		}
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", errors.Wrap(err, "write recipe")
	}

	return path, nil
}

var bannerColor = color.New(color.FgCyan, color.Bold)

func banner(w io.Writer, format string, args ...interface{}) {
	bannerColor.Fprintf(w, format+"\n", args...)
}
