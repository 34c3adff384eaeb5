package exiftool

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/ataluts/photo-scan-tools/pkg/photoscan"
)

// Tool invokes the exiftool binary. It implements photoscan.TagWriter
// and photoscan.TagReader. Calls are synchronous; per-file failures
// surface the tool's stderr verbatim.
type Tool struct {
	exe string
	run func(args []string) (stdout, stderr []byte, err error)
}

// New wraps the binary at the given path.
func New(exe string) *Tool {
	t := &Tool{exe: exe}
	t.run = t.execRun
	return t
}

// Exe returns the path of the wrapped binary.
func (t *Tool) Exe() string { return t.exe }

func (t *Tool) execRun(args []string) ([]byte, []byte, error) {
	cmd := exec.Command(t.exe, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// execute runs the tool and wraps a non-zero exit as a ToolError with
// the diagnostic output attached.
func (t *Tool) execute(args []string) ([]byte, error) {
	stdout, stderr, err := t.run(args)
	if err != nil {
		diag := strings.TrimSpace(string(stderr))
		if diag == "" {
			diag = err.Error()
		}
		return nil, fmt.Errorf("%w: %s", photoscan.ErrTool, diag)
	}
	return stdout, nil
}

// ApplyTags writes the assignments to the target file in place.
func (t *Tool) ApplyTags(path string, assignments []photoscan.Assignment) error {
	args := append([]string{"-E", "-overwrite_original"}, Args(assignments)...)
	args = append(args, path)
	_, err := t.execute(args)
	return err
}

// ReadTag returns a single tag's value, or "" when the tag is absent.
func (t *Tool) ReadTag(path, tag string) (string, error) {
	out, err := t.execute([]string{"-s3", "-" + tag, path})
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(out), "\r\n"), nil
}

// ReadTags returns all tags matching a group specifier (for example
// "NikonScan:all"), keyed by their group-qualified names.
func (t *Tool) ReadTags(path, group string) (map[string]string, error) {
	out, err := t.execute([]string{"-j", "-G", "-" + group, path})
	if err != nil {
		return nil, err
	}
	var records []map[string]any
	if err := json.Unmarshal(out, &records); err != nil {
		return nil, fmt.Errorf("%w: unparsable tool output: %v", photoscan.ErrTool, err)
	}
	result := make(map[string]string)
	if len(records) == 0 {
		return result, nil
	}
	for name, value := range records[0] {
		result[name] = stringify(value)
	}
	return result, nil
}

func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}
