package env

import (
	"os"
)

func Test() bool {
	return os.Getenv("TEST_MODE") != ""
}

func Debug() bool {
	return os.Getenv("DEBUG") != ""
}

// ELKJS returns the path to the elk.js bundle used by the ELK solver
// adapter, if configured.
func ELKJS() string {
	return os.Getenv("WIREKIT_ELK_JS")
}
