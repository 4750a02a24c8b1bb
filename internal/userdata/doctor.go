package userdata

import (
	"fmt"
	"io"
	"os"

	"github.com/kiosk-labs/kiosk/internal/branding"
	"github.com/kiosk-labs/kiosk/internal/platform"
)

// CheckLayout reports on the directories in l. When fix is true, missing
// userdata directories are created and permissions on the config directory
// are repaired. It returns the number of problems left unresolved.
func CheckLayout(w io.Writer, l *Layout, fix bool) int {
	fmt.Fprintln(w, "Userdata check:")
	problems := 0

	if _, err := os.Stat(l.Userdata); os.IsNotExist(err) {
		fmt.Fprintf(w, "  [MISS] %s does not exist\n", l.Userdata)
		if !fix {
			fmt.Fprintf(w, "         Run '%s doctor --fix' to create it\n", branding.CLIName())
			return 1
		}
		fmt.Fprintln(w, "  [FIX ] Initializing userdata...")
		if initErr := InitGlobal(w); initErr != nil {
			fmt.Fprintf(w, "  [FAIL] %v\n", initErr)
			return 1
		}
	} else {
		fmt.Fprintf(w, "  [ OK ] %s exists\n", l.Userdata)
	}

	if !checkDir(w, l.Extensions, DirPermNormal, fix) {
		problems++
	} else if err := platform.CheckWritable(l.Extensions); err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		problems++
	}
	if !checkDirWithPerm(w, l.ConfigDir, DirPermSecure, fix) {
		problems++
	}
	if !checkDir(w, l.LogsDir, DirPermNormal, fix) {
		problems++
	}

	fmt.Fprintln(w, "Built-in extensions:")
	if info, err := os.Stat(l.Builtin); err != nil || !info.IsDir() {
		fmt.Fprintf(w, "  [MISS] %s not found (set %s or builtin_dir)\n", l.Builtin, branding.EnvVar("BUILTIN"))
		problems++
	} else {
		fmt.Fprintf(w, "  [ OK ] %s\n", l.Builtin)
	}

	return problems
}

func checkDir(w io.Writer, path string, perm os.FileMode, fix bool) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		fmt.Fprintf(w, "  [MISS] %s does not exist\n", path)
		if !fix {
			return false
		}
		if mkErr := platform.MkdirPrivate(path, perm); mkErr != nil {
			fmt.Fprintf(w, "  [FAIL] Could not create %s: %v\n", path, mkErr)
			return false
		}
		fmt.Fprintf(w, "  [FIX ] Created %s\n", path)
		return true
	}
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %s: %v\n", path, err)
		return false
	}
	if !info.IsDir() {
		fmt.Fprintf(w, "  [WARN] %s exists but is not a directory\n", path)
		return false
	}
	fmt.Fprintf(w, "  [ OK ] %s exists\n", path)
	return true
}

func checkDirWithPerm(w io.Writer, path string, expectedPerm os.FileMode, fix bool) bool {
	if !checkDir(w, path, expectedPerm, fix) {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	actualPerm := info.Mode().Perm()
	if actualPerm == expectedPerm {
		return true
	}
	fmt.Fprintf(w, "  [WARN] %s has permissions %o (expected %o)\n", path, actualPerm, expectedPerm)
	if !fix {
		return false
	}
	if chErr := platform.Chmod(path, expectedPerm); chErr != nil {
		fmt.Fprintf(w, "  [FAIL] Could not fix permissions on %s: %v\n", path, chErr)
		return false
	}
	fmt.Fprintf(w, "  [FIX ] Fixed permissions on %s to %o\n", path, expectedPerm)
	return true
}
