package executor

import (
	"io"
	"os"
	"os/exec"

	"github.com/pkg/errors"
)

// Process is a live handle on a spawned OS process. It is the sole means by
// which the caller observes completion or terminates the process.
type Process interface {
	// Wait blocks until the process exits and returns its exit code. A
	// non-zero exit is not an error; only failures to observe the process
	// are.
	Wait() (int, error)

	// Kill forcibly terminates the process.
	Kill() error

	// Stdin, Stdout and Stderr return the near ends of streams launched
	// with RedirectPipe, nil for any other redirect kind.
	Stdin() io.WriteCloser
	Stdout() io.ReadCloser
	Stderr() io.ReadCloser
}

// Launcher spawns a process asynchronously and returns a live handle.
type Launcher interface {
	Start(spec ProcessSpec) (Process, error)
}

// CommandRunner runs a command synchronously to completion. It is kept
// separate from Launcher so the wait-vs-handle contract is explicit at each
// call site.
type CommandRunner interface {
	// CombinedOutput runs argv in dir and returns its combined stdout and
	// stderr once it exits.
	CombinedOutput(dir string, argv ...string) ([]byte, error)

	// Stream runs argv in dir with stdout and stderr wired to the given
	// sinks, and waits for it to exit.
	Stream(dir string, stdout, stderr io.Writer, argv ...string) error
}

// ExecRunner is the os/exec-backed CommandRunner.
type ExecRunner struct{}

func (ExecRunner) CombinedOutput(dir string, argv ...string) ([]byte, error) {
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

func (ExecRunner) Stream(dir string, stdout, stderr io.Writer, argv ...string) error {
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// LocalLauncher spawns host processes directly from a ProcessSpec.
type LocalLauncher struct{}

func (LocalLauncher) Start(spec ProcessSpec) (Process, error) {
	if len(spec.Command) == 0 {
		return nil, errors.New("empty command")
	}

	cmd := exec.Command(spec.Command[0], spec.Command[1:]...)
	cmd.Dir = spec.Dir

	if len(spec.Env) > 0 {
		env := os.Environ()
		for k, v := range spec.Env {
			env = append(env, k+"="+v)
		}
		cmd.Env = env
	}

	proc := &localProcess{cmd: cmd}

	if err := proc.wireStreams(spec); err != nil {
		proc.closeFiles()
		return nil, err
	}

	if err := cmd.Start(); err != nil {
		proc.closeFiles()
		return nil, errors.Wrapf(err, "start %s", spec.Command[0])
	}

	return proc, nil
}

type localProcess struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
	stderr io.ReadCloser

	// redirect targets opened on behalf of the process, closed after Wait
	files []*os.File
}

func (p *localProcess) wireStreams(spec ProcessSpec) error {
	var err error

	switch spec.Stdin.Kind {
	case RedirectInherit:
		p.cmd.Stdin = os.Stdin
	case RedirectPipe:
		if p.stdin, err = p.cmd.StdinPipe(); err != nil {
			return errors.Wrap(err, "stdin pipe")
		}
	case RedirectFile:
		f, err := os.Open(spec.Stdin.Path)
		if err != nil {
			return errors.Wrap(err, "open stdin")
		}
		p.files = append(p.files, f)
		p.cmd.Stdin = f
	case RedirectDiscard:
		// a nil stdin reads from the null device
	}

	switch spec.Stdout.Kind {
	case RedirectInherit:
		p.cmd.Stdout = os.Stdout
	case RedirectPipe:
		if p.stdout, err = p.cmd.StdoutPipe(); err != nil {
			return errors.Wrap(err, "stdout pipe")
		}
	case RedirectFile, RedirectAppend:
		f, err := openSink(spec.Stdout)
		if err != nil {
			return errors.Wrap(err, "open stdout")
		}
		p.files = append(p.files, f)
		p.cmd.Stdout = f
	case RedirectDiscard:
		// a nil stdout writes to the null device
	}

	switch spec.Stderr.Kind {
	case RedirectInherit:
		p.cmd.Stderr = os.Stderr
	case RedirectPipe:
		if p.stderr, err = p.cmd.StderrPipe(); err != nil {
			return errors.Wrap(err, "stderr pipe")
		}
	case RedirectFile, RedirectAppend:
		f, err := openSink(spec.Stderr)
		if err != nil {
			return errors.Wrap(err, "open stderr")
		}
		p.files = append(p.files, f)
		p.cmd.Stderr = f
	case RedirectDiscard:
	}

	return nil
}

func openSink(r Redirect) (*os.File, error) {
	flags := os.O_CREATE | os.O_WRONLY
	if r.Kind == RedirectAppend {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	return os.OpenFile(r.Path, flags, 0644)
}

func (p *localProcess) Wait() (int, error) {
	err := p.cmd.Wait()
	p.closeFiles()
	if err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return p.cmd.ProcessState.ExitCode(), nil
		}
		return -1, errors.Wrap(err, "wait")
	}
	return 0, nil
}

func (p *localProcess) Kill() error {
	return p.cmd.Process.Kill()
}

func (p *localProcess) Stdin() io.WriteCloser { return p.stdin }
func (p *localProcess) Stdout() io.ReadCloser { return p.stdout }
func (p *localProcess) Stderr() io.ReadCloser { return p.stderr }

func (p *localProcess) closeFiles() {
	for _, f := range p.files {
		f.Close()
	}
	p.files = nil
}
