//go:build !unix

package invoke

import osexec "os/exec"

// Without process groups only the interpreter is killed; WaitDelay still
// stops Wait from blocking on output held open by its children.
func killGroupOnCancel(*osexec.Cmd) {}
