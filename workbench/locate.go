package workbench

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pthm-cable/snow/config"
)

// ErrNotFound is returned when no workbench bundle can be located.
var ErrNotFound = errors.New("editor installation not found")

// remoteServerDir appears in the app root when the editor runs as a remote
// server inside WSL; the real install then lives on the Windows side.
const remoteServerDir = ".vscode-server"

// bundleRel is the bundle's path below an app root.
var bundleRel = filepath.Join("out", "vs", "workbench", "workbench.desktop.main.js")

// Profiles under C:\Users that never own an install.
var systemProfiles = map[string]bool{
	"Public":       true,
	"Default":      true,
	"Default User": true,
	"All Users":    true,
}

// Locator finds the workbench bundle.
type Locator struct {
	GOOS            string
	Override        string // explicit bundle path
	AppRoot         string // host-advertised app root (resources/app)
	WindowsUsername string
	MountRoot       string // WSL mount of C:
	Home            string
	LocalAppData    string
	ProcVersion     string // kernel version file used for WSL detection
}

// NewLocator builds a Locator for this machine from the host config.
func NewLocator(host config.HostConfig) *Locator {
	home, _ := os.UserHomeDir()
	localAppData := os.Getenv("LOCALAPPDATA")
	if localAppData == "" && home != "" {
		localAppData = filepath.Join(home, "AppData", "Local")
	}
	appRoot := host.AppRoot
	if appRoot == "" {
		appRoot = os.Getenv("VSCODE_APP_ROOT")
	}
	mount := host.MountRoot
	if mount == "" {
		mount = "/mnt/c"
	}
	return &Locator{
		GOOS:            runtime.GOOS,
		Override:        host.WorkbenchPath,
		AppRoot:         appRoot,
		WindowsUsername: strings.TrimSpace(host.WindowsUsername),
		MountRoot:       mount,
		Home:            home,
		LocalAppData:    localAppData,
		ProcVersion:     "/proc/version",
	}
}

// installDir is a directory holding <resources>/app, directly or one
// hash-named level down.
type installDir struct {
	dir       string
	resources string
}

// Locate returns the bundle path for the current environment.
func (l *Locator) Locate() (string, error) {
	if l.Override != "" {
		if isFile(l.Override) {
			return l.Override, nil
		}
		return "", fmt.Errorf("%w: configured workbench_path %q does not exist", ErrNotFound, l.Override)
	}

	if l.AppRoot != "" {
		if strings.Contains(l.AppRoot, remoteServerDir) {
			user := l.WindowsUser()
			for _, d := range l.wslInstallDirs([]string{user}) {
				if p, ok := findBundle(d); ok {
					return p, nil
				}
			}
			return "", fmt.Errorf("%w: could not find VS Code installation for Windows user %q; "+
				"set host.windows_username in %s", ErrNotFound, user, config.DefaultPath())
		}
		p := filepath.Join(l.AppRoot, bundleRel)
		if isFile(p) {
			return p, nil
		}
		return "", fmt.Errorf("%w: no workbench bundle under app root %q", ErrNotFound, l.AppRoot)
	}

	if found := l.Candidates(); len(found) > 0 {
		return found[0], nil
	}
	return "", fmt.Errorf("%w: no VS Code installation in the standard locations; "+
		"set host.app_root or host.workbench_path in %s", ErrNotFound, config.DefaultPath())
}

// Candidates returns every existing bundle in the well-known install
// locations for this OS, including every Windows profile under WSL.
func (l *Locator) Candidates() []string {
	var dirs []installDir
	switch l.GOOS {
	case "windows":
		dirs = append(dirs,
			installDir{filepath.Join(l.LocalAppData, "Programs", "Microsoft VS Code"), "resources"},
			installDir{`C:\Program Files\Microsoft VS Code`, "resources"},
		)
	case "darwin":
		dirs = append(dirs,
			installDir{"/Applications/Visual Studio Code.app/Contents", "Resources"},
			installDir{filepath.Join(l.Home, "Applications", "Visual Studio Code.app", "Contents"), "Resources"},
		)
	case "linux":
		if l.isWSL() {
			dirs = append(dirs, l.wslInstallDirs(l.windowsProfiles())...)
		}
		dirs = append(dirs,
			installDir{"/usr/share/code", "resources"},
			installDir{"/opt/visual-studio-code", "resources"},
			installDir{filepath.Join(l.Home, ".vscode"), "resources"},
		)
	}

	seen := make(map[string]bool)
	var out []string
	for _, d := range dirs {
		if p, ok := findBundle(d); ok && !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

// WindowsUser resolves the Windows profile owning the install: the configured
// name, else the first real profile under the mount, else "User".
func (l *Locator) WindowsUser() string {
	if l.WindowsUsername != "" {
		return l.WindowsUsername
	}
	if profiles := l.windowsProfiles(); len(profiles) > 0 {
		return profiles[0]
	}
	return "User"
}

func (l *Locator) windowsProfiles() []string {
	entries, err := os.ReadDir(filepath.Join(l.MountRoot, "Users"))
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() || systemProfiles[name] || strings.HasPrefix(name, ".") {
			continue
		}
		out = append(out, name)
	}
	return out
}

func (l *Locator) wslInstallDirs(users []string) []installDir {
	dirs := make([]installDir, 0, len(users)+1)
	for _, u := range users {
		dirs = append(dirs, installDir{
			filepath.Join(l.MountRoot, "Users", u, "AppData", "Local", "Programs", "Microsoft VS Code"),
			"resources",
		})
	}
	return append(dirs, installDir{filepath.Join(l.MountRoot, "Program Files", "Microsoft VS Code"), "resources"})
}

func (l *Locator) isWSL() bool {
	data, err := os.ReadFile(l.ProcVersion)
	if err != nil {
		return false
	}
	v := strings.ToLower(string(data))
	return strings.Contains(v, "microsoft") || strings.Contains(v, "wsl")
}

// findBundle checks d directly, then each subdirectory one level down;
// newer Windows builds install under a commit-hash directory.
func findBundle(d installDir) (string, bool) {
	direct := filepath.Join(d.dir, d.resources, "app", bundleRel)
	if isFile(direct) {
		return direct, true
	}
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return "", false
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		p := filepath.Join(d.dir, e.Name(), d.resources, "app", bundleRel)
		if isFile(p) {
			return p, true
		}
	}
	return "", false
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
