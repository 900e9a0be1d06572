package ocr

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// fakeTools points PATH at a fresh directory and disables the Homebrew
// fallback. It returns the directory for installing fake executables.
// With system set, /bin and /usr/bin stay reachable for scripts that need
// coreutils.
func fakeTools(t *testing.T, system bool) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fakes need a POSIX shell")
	}

	dir := t.TempDir()
	path := dir
	if system {
		path = strings.Join([]string{dir, "/bin", "/usr/bin"}, string(os.PathListSeparator))
	}
	t.Setenv("PATH", path)

	saved := searchDirs
	searchDirs = nil
	t.Cleanup(func() { searchDirs = saved })

	return dir
}

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

// copyScript mimics a successful ocrmypdf run: it copies the input to the
// output and records its arguments.
const copyScript = `echo "$@" > "${0%/*}/args"
for a; do in=$out; out=$a; done
cp "$in" "$out"
echo "ocr" >> "$out"`

func writeInput(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "scan.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4 original"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestProcessor_Unavailable(t *testing.T) {
	fakeTools(t, false)

	p := NewProcessor()
	if p.Available() {
		t.Fatalf("Available() = true with binary %q", p.Binary())
	}
	ok, msg := p.Process(context.Background(), "in.pdf", "out.pdf", "deu", true)
	if ok || !strings.Contains(msg, "not installed") {
		t.Errorf("Process() = %v, %q", ok, msg)
	}
}

func TestProcessor_Process(t *testing.T) {
	tools := fakeTools(t, true)
	writeScript(t, tools, "ocrmypdf", copyScript)
	dir := t.TempDir()
	in := writeInput(t, dir)
	out := filepath.Join(dir, "out.pdf")

	p := NewProcessor()
	if !p.Available() {
		t.Fatal("Available() = false")
	}

	ok, msg := p.Process(context.Background(), in, out, "eng", true)
	if !ok {
		t.Fatalf("Process() failed: %s", msg)
	}

	args, err := os.ReadFile(filepath.Join(tools, "args"))
	if err != nil {
		t.Fatal(err)
	}
	want := "-l eng --optimize 0 --skip-text " + in + " " + out
	if got := strings.TrimSpace(string(args)); got != want {
		t.Errorf("args = %q, want %q", got, want)
	}
}

func TestProcessor_ProcessMissingInput(t *testing.T) {
	tools := fakeTools(t, true)
	writeScript(t, tools, "ocrmypdf", copyScript)

	ok, msg := NewProcessor().Process(context.Background(), "/does/not/exist.pdf", "/tmp/x.pdf", "deu", true)
	if ok || !strings.HasPrefix(msg, "input file not found") {
		t.Errorf("Process() = %v, %q", ok, msg)
	}
}

func TestProcessor_Failures(t *testing.T) {
	tests := []struct {
		name     string
		script   string
		skipText bool
		wantOK   bool
		wantMsg  string
	}{
		{"password", `echo "ERROR: input PDF is encrypted" >&2; exit 8`, true, false, "PDF is password protected"},
		{"invalid", `echo "ERROR: not a valid PDF" >&2; exit 2`, true, false, "invalid or damaged PDF"},
		{"already text", `echo "page already has text! - no text found to OCR" >&2; exit 6`, true, true, "pages already contain text"},
		{"already text without skip", `echo "page already has text!" >&2; exit 6`, false, false, "OCR failed: page already has text!"},
		{"first line", `printf "boom\nsecond line\n" >&2; exit 15`, true, false, "OCR failed: boom"},
		{"silent", `exit 15`, true, false, "OCR failed: unknown error (exit code 15)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tools := fakeTools(t, false)
			writeScript(t, tools, "ocrmypdf", tt.script)
			dir := t.TempDir()
			in := writeInput(t, dir)

			ok, msg := NewProcessor().Process(context.Background(), in, filepath.Join(dir, "out.pdf"), "deu", tt.skipText)
			if ok != tt.wantOK || msg != tt.wantMsg {
				t.Errorf("Process() = %v, %q, want %v, %q", ok, msg, tt.wantOK, tt.wantMsg)
			}
		})
	}
}

func TestProcessor_Timeout(t *testing.T) {
	tools := fakeTools(t, true)
	writeScript(t, tools, "ocrmypdf", "exec sleep 5")
	dir := t.TempDir()
	in := writeInput(t, dir)

	p := NewProcessor(WithTimeout(100 * time.Millisecond))
	start := time.Now()
	ok, msg := p.Process(context.Background(), in, filepath.Join(dir, "out.pdf"), "deu", true)
	if ok || !strings.HasPrefix(msg, "OCR timed out after") {
		t.Errorf("Process() = %v, %q", ok, msg)
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("Process() took %v, timeout not enforced", elapsed)
	}
}

func TestProcessor_ProcessInPlace(t *testing.T) {
	tools := fakeTools(t, true)
	writeScript(t, tools, "ocrmypdf", copyScript)
	dir := t.TempDir()
	in := writeInput(t, dir)

	p := NewProcessor(WithBackup(true))
	ok, msg := p.ProcessInPlace(context.Background(), in, "deu", true)
	if !ok {
		t.Fatalf("ProcessInPlace() failed: %s", msg)
	}

	data, err := os.ReadFile(in)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(string(data), "ocr\n") {
		t.Errorf("file was not replaced: %q", data)
	}
	if _, err := os.Stat(filepath.Join(dir, "scan.ocr.pdf")); !os.IsNotExist(err) {
		t.Errorf("temporary output left behind")
	}
	backup, err := os.ReadFile(filepath.Join(dir, "scan.bak.pdf"))
	if err != nil {
		t.Fatalf("backup missing: %v", err)
	}
	if string(backup) != "%PDF-1.4 original" {
		t.Errorf("backup = %q", backup)
	}
}

func TestProcessor_ProcessInPlaceFailureKeepsOriginal(t *testing.T) {
	tools := fakeTools(t, false)
	writeScript(t, tools, "ocrmypdf", `for a; do out=$a; done; echo partial > "$out"; echo "boom" >&2; exit 15`)
	dir := t.TempDir()
	in := writeInput(t, dir)

	ok, _ := NewProcessor().ProcessInPlace(context.Background(), in, "deu", true)
	if ok {
		t.Fatal("ProcessInPlace() succeeded, want failure")
	}
	data, err := os.ReadFile(in)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "%PDF-1.4 original" {
		t.Errorf("original modified: %q", data)
	}
	if _, err := os.Stat(filepath.Join(dir, "scan.ocr.pdf")); !os.IsNotExist(err) {
		t.Errorf("temporary output left behind")
	}
}

func TestProcessor_LargeFileWarning(t *testing.T) {
	tools := fakeTools(t, false)
	writeScript(t, tools, "ocrmypdf", "exit 0")
	dir := t.TempDir()
	in := filepath.Join(dir, "big.pdf")

	f, err := os.Create(in)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Truncate(largeFileSize + 1); err != nil {
		t.Fatal(err)
	}
	f.Close()

	var warnings []string
	p := NewProcessor(WithWarnFunc(func(msg string) { warnings = append(warnings, msg) }))
	p.Process(context.Background(), in, filepath.Join(dir, "out.pdf"), "deu", true)

	if len(warnings) != 1 || !strings.HasPrefix(warnings[0], "Large file") {
		t.Errorf("warnings = %q", warnings)
	}
}

func TestCheckInstallation(t *testing.T) {
	t.Run("missing ocrmypdf", func(t *testing.T) {
		fakeTools(t, false)
		if _, err := CheckInstallation(context.Background()); !errors.Is(err, ErrNotInstalled) {
			t.Errorf("err = %v, want ErrNotInstalled", err)
		}
	})

	t.Run("missing tesseract", func(t *testing.T) {
		tools := fakeTools(t, false)
		writeScript(t, tools, "ocrmypdf", "echo 16.0.0")
		if _, err := CheckInstallation(context.Background()); !errors.Is(err, ErrTesseractMissing) {
			t.Errorf("err = %v, want ErrTesseractMissing", err)
		}
	})

	t.Run("installed", func(t *testing.T) {
		tools := fakeTools(t, false)
		writeScript(t, tools, "ocrmypdf", "echo 16.0.0")
		writeScript(t, tools, "tesseract", "exit 0")
		inst, err := CheckInstallation(context.Background())
		if err != nil {
			t.Fatalf("CheckInstallation() error: %v", err)
		}
		if inst.Version != "16.0.0" {
			t.Errorf("Version = %q", inst.Version)
		}
	})

	t.Run("broken", func(t *testing.T) {
		tools := fakeTools(t, false)
		writeScript(t, tools, "ocrmypdf", "exit 1")
		writeScript(t, tools, "tesseract", "exit 0")
		if _, err := CheckInstallation(context.Background()); err == nil {
			t.Error("CheckInstallation() succeeded with a failing ocrmypdf")
		}
	})
}

func TestInstalledLanguages(t *testing.T) {
	t.Run("listing", func(t *testing.T) {
		tools := fakeTools(t, false)
		writeScript(t, tools, "tesseract", `printf 'List of available languages in "/usr/share/tessdata/" (3):\ndeu\neng\nosd\n'`)
		got := InstalledLanguages(context.Background())
		if strings.Join(got, ",") != "deu,eng,osd" {
			t.Errorf("InstalledLanguages() = %v", got)
		}
	})

	t.Run("fallback", func(t *testing.T) {
		fakeTools(t, false)
		got := InstalledLanguages(context.Background())
		if len(got) != 1 || got[0] != "eng" {
			t.Errorf("InstalledLanguages() = %v, want [eng]", got)
		}
	})
}

func TestIsWorkFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"scan.ocr.pdf", true},
		{"scan.bak.pdf", true},
		{"/dir/Scan.BAK.PDF", true},
		{"scan.pdf", false},
		{"backup.pdf", false},
		{"ocr.pdf", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsWorkFile(tt.name); got != tt.want {
				t.Errorf("IsWorkFile(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}
