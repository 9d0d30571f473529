package invoke

import (
	"context"
	"errors"
	"io"
	osexec "os/exec"
	"time"

	utilexec "k8s.io/utils/exec"
)

// waitDelay bounds how long Wait keeps draining output after the
// interpreter has been killed.
const waitDelay = time.Second

// hostExec is the exec.Interface used outside tests. Commands bound to a
// cancellable context run in their own process group, so cancelling kills
// the interpreter together with anything it started.
type hostExec struct{}

var _ utilexec.Interface = hostExec{}

func (hostExec) Command(cmd string, args ...string) utilexec.Cmd {
	return &hostCmd{Cmd: osexec.Command(cmd, args...)}
}

func (hostExec) CommandContext(ctx context.Context, cmd string, args ...string) utilexec.Cmd {
	c := osexec.CommandContext(ctx, cmd, args...)
	if ctx.Done() != nil {
		killGroupOnCancel(c)
		c.WaitDelay = waitDelay
	}
	return &hostCmd{Cmd: c}
}

func (hostExec) LookPath(file string) (string, error) {
	path, err := osexec.LookPath(file)
	return path, translateError(err)
}

type hostCmd struct {
	*osexec.Cmd
}

var _ utilexec.Cmd = &hostCmd{}

func (c *hostCmd) SetDir(dir string)       { c.Dir = dir }
func (c *hostCmd) SetStdin(in io.Reader)   { c.Stdin = in }
func (c *hostCmd) SetStdout(out io.Writer) { c.Stdout = out }
func (c *hostCmd) SetStderr(out io.Writer) { c.Stderr = out }
func (c *hostCmd) SetEnv(env []string)     { c.Env = env }

func (c *hostCmd) Run() error {
	return translateError(c.Cmd.Run())
}

func (c *hostCmd) Start() error {
	return translateError(c.Cmd.Start())
}

func (c *hostCmd) Wait() error {
	return translateError(c.Cmd.Wait())
}

func (c *hostCmd) Output() ([]byte, error) {
	out, err := c.Cmd.Output()
	return out, translateError(err)
}

func (c *hostCmd) CombinedOutput() ([]byte, error) {
	out, err := c.Cmd.CombinedOutput()
	return out, translateError(err)
}

func (c *hostCmd) Stop() {
	if c.Process != nil {
		_ = c.Process.Kill()
	}
}

// translateError maps os/exec errors onto the k8s.io/utils/exec types that
// Invoker inspects.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var exitErr *osexec.ExitError
	if errors.As(err, &exitErr) {
		return &utilexec.ExitErrorWrapper{ExitError: exitErr}
	}
	if errors.Is(err, osexec.ErrNotFound) {
		return utilexec.ErrExecutableNotFound
	}

	return err
}
