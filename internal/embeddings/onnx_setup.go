package embeddings

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// DefaultONNXRuntimeVersion matches the onnxruntime_go release in go.mod.
// Bump both together.
const DefaultONNXRuntimeVersion = "1.23.0"

// DefaultONNXReleaseURL is the root the release archives are fetched from.
const DefaultONNXReleaseURL = "https://github.com/microsoft/onnxruntime/releases/download"

// maxLibraryFileSize caps any single file unpacked from the archive.
const maxLibraryFileSize = 512 << 20

// ErrUnsupportedPlatform indicates the OS/arch has no prebuilt runtime.
var ErrUnsupportedPlatform = errors.New("unsupported platform")

var releasePlatforms = map[string]map[string]string{
	"linux": {
		"amd64": "linux-x64",
		"arm64": "linux-aarch64",
	},
	"darwin": {
		"amd64": "osx-x86_64",
		"arm64": "osx-arm64",
	},
}

// releasePlatform returns the archive platform tag for goos/goarch.
func releasePlatform(goos, goarch string) (string, error) {
	if tag, ok := releasePlatforms[goos][goarch]; ok {
		return tag, nil
	}
	return "", fmt.Errorf("%w: %s/%s", ErrUnsupportedPlatform, goos, goarch)
}

// libraryName returns the runtime shared library filename for goos.
func libraryName(goos string) string {
	if goos == "darwin" {
		return "libonnxruntime.dylib"
	}
	return "libonnxruntime.so"
}

// ManagedLibraryDir is where `clarity onnx install` puts the runtime.
func ManagedLibraryDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".config", "clarity", "lib")
}

// systemLibraryDirs are probed after ONNX_PATH and the managed directory.
var systemLibraryDirs = []string{
	"/opt/homebrew/lib",
	"/usr/local/lib",
	"/usr/lib",
}

// ONNXLibraryPath locates the onnxruntime shared library: ONNX_PATH first,
// then ManagedLibraryDir, then common system directories. It returns "" when
// nothing is found.
func ONNXLibraryPath() string {
	if p := strings.TrimSpace(os.Getenv("ONNX_PATH")); p != "" {
		return p
	}
	name := libraryName(runtime.GOOS)
	for _, dir := range append([]string{ManagedLibraryDir()}, systemLibraryDirs...) {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// RuntimeInstaller downloads an onnxruntime release archive and unpacks its
// lib/ directory. Zero fields take the defaults from NewRuntimeInstaller.
type RuntimeInstaller struct {
	Version string
	Dir     string
	BaseURL string
	Client  *http.Client
	GOOS    string
	GOARCH  string
}

// NewRuntimeInstaller targets the running platform and ManagedLibraryDir.
func NewRuntimeInstaller() *RuntimeInstaller {
	return &RuntimeInstaller{
		Version: DefaultONNXRuntimeVersion,
		Dir:     ManagedLibraryDir(),
		BaseURL: DefaultONNXReleaseURL,
		Client:  http.DefaultClient,
		GOOS:    runtime.GOOS,
		GOARCH:  runtime.GOARCH,
	}
}

func (in *RuntimeInstaller) withDefaults() RuntimeInstaller {
	d := NewRuntimeInstaller()
	c := *in
	if c.Version == "" {
		c.Version = d.Version
	}
	if c.Dir == "" {
		c.Dir = d.Dir
	}
	if c.BaseURL == "" {
		c.BaseURL = d.BaseURL
	}
	if c.Client == nil {
		c.Client = d.Client
	}
	if c.GOOS == "" {
		c.GOOS = d.GOOS
	}
	if c.GOARCH == "" {
		c.GOARCH = d.GOARCH
	}
	return c
}

// URL returns the archive URL for the configured version and platform.
func (in *RuntimeInstaller) URL() (string, error) {
	c := in.withDefaults()
	platform, err := releasePlatform(c.GOOS, c.GOARCH)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/v%s/onnxruntime-%s-%s.tgz",
		strings.TrimSuffix(c.BaseURL, "/"), c.Version, platform, c.Version), nil
}

// Install downloads and unpacks the runtime, writing progress lines to out,
// and returns the path of the main shared library.
func (in *RuntimeInstaller) Install(ctx context.Context, out io.Writer) (string, error) {
	c := in.withDefaults()
	url, err := c.URL()
	if err != nil {
		return "", err
	}
	if out == nil {
		out = io.Discard
	}

	if err := os.MkdirAll(c.Dir, 0o700); err != nil {
		return "", fmt.Errorf("creating directory: %w", err)
	}

	fmt.Fprintf(out, "Downloading ONNX runtime v%s for %s/%s...\n", c.Version, c.GOOS, c.GOARCH)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("downloading ONNX runtime: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download %s failed with status %d", url, resp.StatusCode)
	}

	path, err := c.extract(resp.Body)
	if err != nil {
		return "", fmt.Errorf("extracting archive: %w", err)
	}
	fmt.Fprintf(out, "Installed %s\n", path)
	return path, nil
}

// extract unpacks the files under <root>/lib/ flat into Dir, keeping
// symlinks, and returns the main library path. Fields must be defaulted.
func (c *RuntimeInstaller) extract(r io.Reader) (string, error) {
	gzr, err := gzip.NewReader(r)
	if err != nil {
		return "", fmt.Errorf("creating gzip reader: %w", err)
	}
	defer gzr.Close()

	platform, err := releasePlatform(c.GOOS, c.GOARCH)
	if err != nil {
		return "", err
	}
	prefix := fmt.Sprintf("onnxruntime-%s-%s/lib/", platform, c.Version)
	libName := libraryName(c.GOOS)
	found := false

	tr := tar.NewReader(gzr)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("reading tar: %w", err)
		}

		name := strings.TrimPrefix(hdr.Name, "./")
		if !strings.HasPrefix(name, prefix) || hdr.Typeflag == tar.TypeDir {
			continue
		}
		filename := filepath.Base(name)
		if filename == "." || filename == ".." || filename == "/" {
			continue
		}
		dest := filepath.Join(c.Dir, filename)

		switch hdr.Typeflag {
		case tar.TypeSymlink:
			// Links inside lib/ are sibling names like libonnxruntime.so.1.
			if strings.ContainsRune(hdr.Linkname, '/') {
				continue
			}
			_ = os.Remove(dest)
			if err := os.Symlink(hdr.Linkname, dest); err != nil {
				continue
			}
		case tar.TypeReg:
			if err := writeLibraryFile(dest, tr, hdr.Size); err != nil {
				return "", err
			}
		default:
			continue
		}

		if filename == libName || strings.HasPrefix(filename, libName+".") {
			found = true
		}
	}

	if !found {
		return "", fmt.Errorf("library %s not found in archive", libName)
	}
	return filepath.Join(c.Dir, libName), nil
}

func writeLibraryFile(dest string, r io.Reader, size int64) error {
	if size > maxLibraryFileSize {
		return fmt.Errorf("file %s too large: %d bytes", filepath.Base(dest), size)
	}
	f, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("creating file %s: %w", filepath.Base(dest), err)
	}
	if _, err := io.Copy(f, io.LimitReader(r, maxLibraryFileSize)); err != nil {
		f.Close()
		return fmt.Errorf("writing file %s: %w", filepath.Base(dest), err)
	}
	return f.Close()
}

// setONNXPathEnv exports path for fastembed-go, which reads ONNX_PATH.
var setONNXPathEnv = func(path string) error {
	return os.Setenv("ONNX_PATH", path)
}
