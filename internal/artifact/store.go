package artifact

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DefaultPath is used when no model path is configured.
const DefaultPath = "career_model.gob.gz"

// storedFile is the on-disk envelope.
type storedFile struct {
	Metadata       Metadata
	Checksum       string
	CompressedData []byte
}

// Save writes the artifact to path atomically.
func Save(path string, a *Artifact) error {
	if a == nil {
		return errors.New("artifact is required")
	}
	if err := a.Validate(); err != nil {
		return fmt.Errorf("refusing to save invalid artifact: %w", err)
	}

	var raw bytes.Buffer
	if err := gob.NewEncoder(&raw).Encode(a); err != nil {
		return fmt.Errorf("encode artifact: %w", err)
	}

	hash := sha256.Sum256(raw.Bytes())

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(raw.Bytes()); err != nil {
		return fmt.Errorf("compress artifact: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return fmt.Errorf("finalize compression: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create artifact directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	sf := storedFile{
		Metadata:       a.Metadata,
		Checksum:       hex.EncodeToString(hash[:]),
		CompressedData: compressed.Bytes(),
	}
	if err := gob.NewEncoder(tmp).Encode(sf); err != nil {
		tmp.Close()
		return fmt.Errorf("write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close artifact: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("move artifact into place: %w", err)
	}

	return nil
}

// Load reads and verifies the artifact at path. Every failure matches ErrLoadFailure.
func Load(path string) (*Artifact, error) {
	a, err := load(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadFailure, path, err)
	}
	return a, nil
}

// ReadMetadata returns only the envelope metadata without decoding the model.
func ReadMetadata(path string) (*Metadata, error) {
	sf, err := readEnvelope(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadFailure, path, err)
	}
	return &sf.Metadata, nil
}

func load(path string) (*Artifact, error) {
	sf, err := readEnvelope(path)
	if err != nil {
		return nil, err
	}

	gzr, err := gzip.NewReader(bytes.NewReader(sf.CompressedData))
	if err != nil {
		return nil, fmt.Errorf("decompress artifact: %w", err)
	}
	defer gzr.Close()

	raw, err := io.ReadAll(gzr)
	if err != nil {
		return nil, fmt.Errorf("read decompressed data: %w", err)
	}

	hash := sha256.Sum256(raw)
	if checksum := hex.EncodeToString(hash[:]); checksum != sf.Checksum {
		return nil, fmt.Errorf("checksum mismatch: expected %s, got %s", sf.Checksum, checksum)
	}

	var a Artifact
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&a); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}

	if a.Metadata.ID != sf.Metadata.ID {
		return nil, fmt.Errorf("envelope id %s does not match payload id %s", sf.Metadata.ID, a.Metadata.ID)
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}

	return &a, nil
}

func readEnvelope(path string) (*storedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()

	var sf storedFile
	if err := gob.NewDecoder(f).Decode(&sf); err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	return &sf, nil
}
