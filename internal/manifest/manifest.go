// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	// CompilerID identifies this compiler in every manifest it writes.
	CompilerID = "skillc-poc-0.1"

	// Suffix is appended to an artifact path to name its manifest.
	Suffix = ".manifest.json"
)

// ErrDigestMismatch indicates a recorded digest no longer matches the file on disk.
var ErrDigestMismatch = errors.New("digest mismatch")

type (
	// FileDigest pairs a file path with its lowercase hex SHA-256 digest.
	FileDigest struct {
		Path   string `json:"path"`
		SHA256 string `json:"sha256"`
	}

	// Manifest is the build record written next to every artifact.
	Manifest struct {
		Compiler  string     `json:"compiler"`
		BuildMode string     `json:"build_mode"`
		Source    FileDigest `json:"source"`
		Artifact  FileDigest `json:"artifact"`
	}

	// DigestMismatchError reports which file changed since the manifest was written.
	// It wraps ErrDigestMismatch so callers can use errors.Is for classification.
	DigestMismatchError struct {
		Path     string
		Expected string
		Got      string
	}
)

// Error returns a description showing both digests.
func (e *DigestMismatchError) Error() string {
	return fmt.Sprintf("digest verification failed for %s\nExpected: %s\nGot:      %s", e.Path, e.Expected, e.Got)
}

// Unwrap returns ErrDigestMismatch so callers can use errors.Is.
func (e *DigestMismatchError) Unwrap() error { return ErrDigestMismatch }

// PathFor returns the manifest path for an artifact.
func PathFor(artifact string) string {
	return artifact + Suffix
}

// Build hashes source and artifact and returns their manifest. Paths are
// recorded in lexically cleaned form, so "./greet.skill" is stored as
// "greet.skill".
func Build(source, artifact, mode string) (*Manifest, error) {
	sourceHash, err := ComputeFileHash(source)
	if err != nil {
		return nil, fmt.Errorf("failed to hash source: %w", err)
	}
	artifactHash, err := ComputeFileHash(artifact)
	if err != nil {
		return nil, fmt.Errorf("failed to hash artifact: %w", err)
	}

	return &Manifest{
		Compiler:  CompilerID,
		BuildMode: mode,
		Source:    FileDigest{Path: filepath.Clean(source), SHA256: sourceHash},
		Artifact:  FileDigest{Path: filepath.Clean(artifact), SHA256: artifactHash},
	}, nil
}

// Marshal renders m as two-space indented JSON.
func (m *Manifest) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Write stores m at path, replacing any existing file.
func Write(path string, m *Manifest) error {
	data, err := m.Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest %s: %w", path, err)
	}
	return nil
}

// Read loads a manifest written by Write.
func Read(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest %s: %w", path, err)
	}
	if m.Compiler == "" || m.Source.Path == "" || m.Artifact.Path == "" {
		return nil, fmt.Errorf("manifest %s is incomplete", path)
	}
	return &m, nil
}

// Verify recomputes both digests recorded in m. The source is checked first.
func Verify(m *Manifest) error {
	for _, fd := range []FileDigest{m.Source, m.Artifact} {
		if err := verifyFile(fd); err != nil {
			return err
		}
	}
	return nil
}

func verifyFile(fd FileDigest) error {
	got, err := ComputeFileHash(fd.Path)
	if err != nil {
		return err
	}
	if got != fd.SHA256 {
		return &DigestMismatchError{Path: fd.Path, Expected: fd.SHA256, Got: got}
	}
	return nil
}

// ComputeFileHash returns the lowercase hex SHA-256 digest of the file at path.
func ComputeFileHash(path string) (_ string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = f.Close()
	}()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing file %s: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
