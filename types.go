package executor

import (
	"github.com/google/go-containerregistry/pkg/name"
	"github.com/pkg/errors"
)

// TaskRequest identifies one task invocation. It is owned by the caller and
// read-only here, except for revision pinning (see EffectiveRevision).
type TaskRequest struct {
	ProjectID int
	Revision  string
	Config    Config
}

// DockerSpec is the parsed view of a task's "docker" configuration section.
type DockerSpec struct {
	// Image is the base image reference. Required.
	Image string

	// Build is an ordered list of build steps. Each step may span multiple
	// lines; every non-empty line becomes one build instruction.
	Build []string

	// PullAlways forces a pull of Image before every run. Only honored when
	// no build steps are configured.
	PullAlways bool
}

// ParseDockerSpec reads the "docker" section into a DockerSpec. The image
// reference is validated before any runtime command is invoked.
func ParseDockerSpec(cfg Config) (DockerSpec, error) {
	image, err := cfg.GetString("image")
	if err != nil {
		return DockerSpec{}, errors.Wrap(err, "docker config")
	}

	if _, err := name.ParseReference(image, name.WeakValidation); err != nil {
		return DockerSpec{}, errors.Wrapf(err, "docker config: invalid image %q", image)
	}

	build, err := cfg.GetStringList("build")
	if err != nil {
		return DockerSpec{}, errors.Wrap(err, "docker config")
	}

	return DockerSpec{
		Image:      image,
		Build:      build,
		PullAlways: cfg.GetBool("pull_always", false),
	}, nil
}

// RedirectKind selects how one standard stream of a spawned process is wired.
type RedirectKind int

const (
	// RedirectInherit attaches the stream to the executor's own stream.
	RedirectInherit RedirectKind = iota

	// RedirectPipe exposes the stream as a pipe on the process handle.
	RedirectPipe

	// RedirectFile writes the stream to (or reads it from) Path, truncating.
	RedirectFile

	// RedirectAppend appends the stream to Path. Output streams only.
	RedirectAppend

	// RedirectDiscard connects the stream to the null device.
	RedirectDiscard
)

// Redirect describes the target of one standard stream.
type Redirect struct {
	Kind RedirectKind
	Path string
}

// ProcessSpec is a fully resolved launch description: what to run, where,
// with which environment, and how the standard streams are wired.
type ProcessSpec struct {
	Command []string
	Env     map[string]string
	Dir     string
	Stdin   Redirect
	Stdout  Redirect
	Stderr  Redirect
}

// Request is the wire payload read by cmd/task from stdin.
type Request struct {
	ProjectID int                    `json:"project_id"`
	Revision  string                 `json:"revision,omitempty"`
	Config    map[string]interface{} `json:"config"`
	Command   []string               `json:"command"`
	Dir       string                 `json:"dir,omitempty"`
	Env       map[string]string      `json:"env,omitempty"`
}

// Task converts the wire payload into a TaskRequest.
func (r Request) Task() TaskRequest {
	return TaskRequest{
		ProjectID: r.ProjectID,
		Revision:  r.Revision,
		Config:    NewConfig(r.Config),
	}
}

// ProcessSpec converts the wire payload into a launch description with all
// streams inherited.
func (r Request) ProcessSpec() ProcessSpec {
	return ProcessSpec{
		Command: r.Command,
		Env:     r.Env,
		Dir:     r.Dir,
	}
}
