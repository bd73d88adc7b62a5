package shell

import (
	"os"
	"os/user"
)

// System is the slice of the operating system the shell itself touches.
type System interface {
	Getwd() (string, error)
	Chdir(dir string) error
	Hostname() (string, error)
	UserHomeDir() (string, error)
	Username() string
	Getuid() int
}

// HostSystem returns the System for the running process.
func HostSystem() System {
	return hostSystem{}
}

type hostSystem struct{}

var _ System = hostSystem{}

func (hostSystem) Getwd() (string, error)       { return os.Getwd() }
func (hostSystem) Chdir(dir string) error       { return os.Chdir(dir) }
func (hostSystem) Hostname() (string, error)    { return os.Hostname() }
func (hostSystem) UserHomeDir() (string, error) { return os.UserHomeDir() }
func (hostSystem) Getuid() int                  { return os.Getuid() }

func (hostSystem) Username() string {
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return os.Getenv("USER")
}
