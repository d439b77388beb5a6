package launcher

import (
	"os"
)

// BindDirectory makes dir the process working directory. Relative paths
// resolve against the directory the launcher was started in.
func BindDirectory(dir string) error {
	if err := os.Chdir(dir); err != nil {
		return &DirectoryError{Dir: dir, Err: err}
	}
	return nil
}
