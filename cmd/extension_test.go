package cmd

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestExtensionMechanism(t *testing.T) {
	tempDir := t.TempDir()

	// Create bcp-hello executable
	helloCmdSource := fmt.Sprintf(`
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Printf("%s=%%s\n", os.Getenv("%s"))
	fmt.Printf("%s=%%s\n", os.Getenv("%s"))
	fmt.Printf("%s=%%s\n", os.Getenv("%s"))
	fmt.Printf("args=%%v\n", os.Args[1:])
}
`, EnvConfigFile, EnvConfigFile, EnvDataDir, EnvDataDir, EnvVerbose, EnvVerbose)

	helloCmdPath := filepath.Join(tempDir, "bcp-hello")
	srcFile := helloCmdPath + ".go"
	if err := os.WriteFile(srcFile, []byte(helloCmdSource), 0644); err != nil {
		t.Fatalf("Failed to write bcp-hello source: %v", err)
	}
	build := exec.Command("go", "build", "-o", helloCmdPath, srcFile)
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		t.Fatalf("Failed to compile bcp-hello: %v", err)
	}

	// Compile the main bcp binary
	bcpBinaryPath := filepath.Join(tempDir, "bcp")
	build = exec.Command("go", "build", "-o", bcpBinaryPath, "../bcp")
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		t.Fatalf("Failed to compile bcp binary: %v", err)
	}

	expectedConfig := filepath.Join(tempDir, "random.toml")
	expectedDataDir := filepath.Join(tempDir, "data")

	bcp := exec.Command(bcpBinaryPath, "-config", expectedConfig, "-data-dir", expectedDataDir, "-v", "hello", "world")
	bcp.Env = []string{"PATH=" + tempDir + string(os.PathListSeparator) + os.Getenv("PATH")}
	var stdout, stderr bytes.Buffer
	bcp.Stdout = &stdout
	bcp.Stderr = &stderr
	if err := bcp.Run(); err != nil {
		t.Fatalf("bcp command failed: %v\nStdout: %s\nStderr: %s", err, stdout.String(), stderr.String())
	}

	output := stdout.String()
	for _, expectedLine := range []string{
		EnvConfigFile + "=" + expectedConfig,
		EnvDataDir + "=" + expectedDataDir,
		EnvVerbose + "=true",
		"args=[world]",
	} {
		if !strings.Contains(output, expectedLine) {
			t.Errorf("Expected output to contain %q, but got:\n%s", expectedLine, output)
		}
	}
}

func TestRunExtension_NotFound(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	found, code := RunExtension("nothing-here", nil)
	if found || code != 0 {
		t.Errorf("RunExtension() = %v, %d, want false, 0", found, code)
	}
}
