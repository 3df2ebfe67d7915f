package util

import (
	"bufio"
	"errors"
	"os"
	"os/exec"
	"time"
)

// ReadSource reads Fly source text from file or stdin. If opt.Src is set
// the file is read directly; otherwise the function waits briefly for
// input piped into stdin and errors out if none arrives, so an
// interactive invocation with no redirected input fails fast instead of
// hanging.
func ReadSource(opt Options) (string, error) {
	if len(opt.Src) > 0 {
		b, err := os.ReadFile(opt.Src)
		return string(b), err
	}

	c := make(chan string)
	cerr := make(chan error)

	go func(c chan string, cerr chan error) {
		defer close(c)
		defer close(cerr)
		reader := bufio.NewReader(os.Stdin)
		text, err := reader.ReadString(0)
		if err == nil {
			c <- text
		} else {
			cerr <- err
		}
	}(c, cerr)

	select {
	case <-time.After(500 * time.Millisecond):
		return "", errors.New("expected input from stdin, got none")
	case s := <-c:
		return s, nil
	case err := <-cerr:
		return "", err
	}
}

// LookPathOrEmpty resolves name on PATH, returning "" instead of an error
// when it cannot be found. Nothing in this repository calls it.
func LookPathOrEmpty(name string) string {
	p, err := exec.LookPath(name)
	if err != nil {
		return ""
	}
	return p
}
