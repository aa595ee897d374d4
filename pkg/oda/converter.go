// Package oda wraps the external ODA File Converter, the collaborator that
// turns intermediate DXF documents into binary DWG files.
package oda

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"
)

// EnvVar names the environment variable that overrides converter discovery.
const EnvVar = "ODA_FILE_CONVERTER"

// DefaultTimeout bounds one converter invocation.
const DefaultTimeout = 60 * time.Second

// DefaultVersion is the DWG version tag passed through when none is given.
const DefaultVersion = "ACAD2018"

// defaultPaths lists the conventional install locations per platform.
func defaultPaths() []string {
	switch runtime.GOOS {
	case "windows":
		return []string{
			`C:\Program Files\ODA\ODAFileConverter\ODAFileConverter.exe`,
			`C:\Program Files (x86)\ODA\ODAFileConverter\ODAFileConverter.exe`,
		}
	case "darwin":
		return []string{
			"/Applications/ODAFileConverter.app/Contents/MacOS/ODAFileConverter",
		}
	default:
		return []string{
			"/usr/bin/ODAFileConverter",
			"/usr/local/bin/ODAFileConverter",
			"/opt/ODAFileConverter/ODAFileConverter",
		}
	}
}

// InstallHint is the guidance surfaced when no converter binary is found.
const InstallHint = "ODA File Converter not found; install it from " +
	"https://www.opendesign.com/guestfiles/oda_file_converter or set " +
	EnvVar + " to the binary path"

// ConversionError reports a failed external conversion for one document.
type ConversionError struct {
	Source  string
	Output  string
	Timeout bool
	Err     error
}

func (e *ConversionError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("convert %s: converter timed out", e.Source)
	}
	return fmt.Sprintf("convert %s: %v", e.Source, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// Converter invokes the ODA File Converter binary.
type Converter struct {
	// Path is the converter binary. Empty means not found.
	Path string
	// Timeout bounds each invocation; zero means DefaultTimeout.
	Timeout time.Duration

	// run executes the prepared command. Tests substitute it.
	run func(cmd *exec.Cmd) error
}

// Find locates the converter binary: explicit path first, then the EnvVar
// override, then PATH, then conventional install locations. An empty
// explicit path is not an error; the returned Converter may be unavailable.
func Find(explicit string) *Converter {
	c := &Converter{run: func(cmd *exec.Cmd) error { return cmd.Run() }}

	if explicit != "" {
		c.Path = explicit
		return c
	}
	if env := os.Getenv(EnvVar); env != "" {
		c.Path = env
		return c
	}
	if p, err := exec.LookPath("ODAFileConverter"); err == nil {
		c.Path = p
		return c
	}
	for _, p := range defaultPaths() {
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			c.Path = p
			return c
		}
	}
	return c
}

// Available reports whether a converter binary was located.
func (c *Converter) Available() bool { return c.Path != "" }

// Convert translates the DXF at src into a DWG at dst with the given
// version tag. The converter works on directories, so src is staged into a
// temporary input directory and the produced file is moved to dst. The
// source must exist before invocation and the output must exist and be
// non-empty afterwards.
func (c *Converter) Convert(ctx context.Context, src, version, dst string) error {
	if !c.Available() {
		return &ConversionError{Source: src, Output: dst, Err: errors.New(InstallHint)}
	}
	if fi, err := os.Stat(src); err != nil || fi.Size() == 0 {
		return &ConversionError{Source: src, Output: dst, Err: fmt.Errorf("source missing or empty: %s", src)}
	}
	if version == "" {
		version = DefaultVersion
	}

	workDir, err := os.MkdirTemp("", "pdf2cad-oda-*")
	if err != nil {
		return &ConversionError{Source: src, Output: dst, Err: err}
	}
	defer os.RemoveAll(workDir)

	inDir := filepath.Join(workDir, "in")
	outDir := filepath.Join(workDir, "out")
	for _, d := range []string{inDir, outDir} {
		if err := os.Mkdir(d, 0o755); err != nil {
			return &ConversionError{Source: src, Output: dst, Err: err}
		}
	}
	staged := filepath.Join(inDir, filepath.Base(src))
	if err := copyFile(src, staged); err != nil {
		return &ConversionError{Source: src, Output: dst, Err: err}
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Arguments: input dir, output dir, version, type, recurse, audit.
	cmd := exec.CommandContext(runCtx, c.Path, inDir, outDir, version, "DWG", "0", "1")
	if err := c.run(cmd); err != nil {
		timedOut := errors.Is(runCtx.Err(), context.DeadlineExceeded)
		return &ConversionError{Source: src, Output: dst, Timeout: timedOut, Err: err}
	}

	base := filepath.Base(src)
	produced := filepath.Join(outDir, base[:len(base)-len(filepath.Ext(base))]+".dwg")
	fi, err := os.Stat(produced)
	if err != nil || fi.Size() == 0 {
		return &ConversionError{Source: src, Output: dst, Err: errors.New("converter produced no output")}
	}
	if err := copyFile(produced, dst); err != nil {
		return &ConversionError{Source: src, Output: dst, Err: err}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}
