package upload

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultMaxSize is the default per-file size ceiling (50 MB).
const DefaultMaxSize int64 = 50 * 1024 * 1024

// DefaultAllowedExtensions are accepted when no set is configured.
var DefaultAllowedExtensions = []string{".pdf"}

// Validator decides before any submission whether a file is accepted. It
// returns an empty reason to accept the file. Validators must be pure.
type Validator interface {
	Validate(f File) (reason string)
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc func(f File) string

// Validate implements Validator.
func (fn ValidatorFunc) Validate(f File) string { return fn(f) }

// ExtensionSizeValidator accepts files whose extension is in Allowed
// (case-insensitive) and whose size does not exceed MaxSize bytes. An empty
// Allowed set or a non-positive MaxSize disables the respective check.
type ExtensionSizeValidator struct {
	Allowed []string
	MaxSize int64
}

// NewExtensionSizeValidator creates a validator with the given extensions
// and size ceiling in megabytes.
func NewExtensionSizeValidator(allowed []string, maxSizeMB int) ExtensionSizeValidator {
	exts := make([]string, 0, len(allowed))
	for _, e := range allowed {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts = append(exts, e)
	}
	return ExtensionSizeValidator{Allowed: exts, MaxSize: int64(maxSizeMB) * 1024 * 1024}
}

// Validate implements Validator.
func (v ExtensionSizeValidator) Validate(f File) string {
	if len(v.Allowed) > 0 {
		ext := f.Ext()
		ok := false
		for _, a := range v.Allowed {
			if strings.EqualFold(a, ext) {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Sprintf("%s: unsupported file type %q (allowed: %s)", f.Name, ext, strings.Join(v.Allowed, ", "))
		}
	}
	if v.MaxSize > 0 && f.Size > v.MaxSize {
		return fmt.Sprintf("%s: file size %s exceeds the limit of %s", f.Name, formatSize(f.Size), formatSize(v.MaxSize))
	}
	return ""
}

func lowerExt(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

func formatSize(n int64) string {
	const mb = 1024 * 1024
	if n >= mb {
		return fmt.Sprintf("%.1f MB", float64(n)/mb)
	}
	return fmt.Sprintf("%d bytes", n)
}
