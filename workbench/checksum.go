package workbench

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ChecksumKey is the bundle's entry in product.json "checksums".
const ChecksumKey = "vs/workbench/workbench.desktop.main.js"

// checksumPath addresses the entry in gjson path syntax.
var checksumPath = "checksums." + strings.ReplaceAll(ChecksumKey, ".", `\.`)

// ProductPath returns the product.json that vouches for the bundle at path.
// The bundle lives at <app>/out/vs/workbench/; product.json at <app>/.
func ProductPath(bundle string) string {
	return filepath.Join(filepath.Dir(bundle), "..", "..", "..", "product.json")
}

// Checksum is the editor's integrity digest: unpadded base64 SHA-256.
func Checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return strings.TrimRight(base64.StdEncoding.EncodeToString(sum[:]), "=")
}

// ChecksumStatus describes how product.json relates to the bundle.
type ChecksumStatus string

const (
	ChecksumOK      ChecksumStatus = "ok"
	ChecksumStale   ChecksumStatus = "stale"
	ChecksumAbsent  ChecksumStatus = "absent"
	ChecksumUnknown ChecksumStatus = "unknown"
)

var errBadProduct = errors.New("product.json is not valid JSON")

func readProduct(bundle string) ([]byte, error) {
	data, err := os.ReadFile(ProductPath(bundle))
	if err != nil {
		return nil, fmt.Errorf("reading product.json: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return nil, errBadProduct
	}
	return data, nil
}

// CheckChecksum compares the recorded digest with the bundle on disk.
func CheckChecksum(bundle string) ChecksumStatus {
	product, err := readProduct(bundle)
	if err != nil {
		return ChecksumUnknown
	}
	want := gjson.GetBytes(product, checksumPath)
	if !want.Exists() {
		return ChecksumAbsent
	}
	data, err := os.ReadFile(bundle)
	if err != nil {
		return ChecksumUnknown
	}
	if Checksum(data) != want.String() {
		return ChecksumStale
	}
	return ChecksumOK
}

// UpdateChecksum rewrites the bundle's digest in product.json. Only the digest
// bytes change; the rest of the file is preserved as is. Without a recorded
// digest there is nothing to update.
func UpdateChecksum(bundle string) error {
	product, err := readProduct(bundle)
	if err != nil {
		return err
	}
	old := gjson.GetBytes(product, checksumPath)
	if !old.Exists() {
		return nil
	}

	data, err := os.ReadFile(bundle)
	if err != nil {
		return fmt.Errorf("reading workbench: %w", err)
	}
	sum := Checksum(data)
	if sum == old.String() {
		return nil
	}

	updated, err := sjson.SetBytes(product, checksumPath, sum)
	if err != nil {
		return fmt.Errorf("updating product.json: %w", err)
	}

	path := ProductPath(bundle)
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("reading product.json: %w", err)
	}
	if err := os.WriteFile(path, updated, info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing product.json: %w", err)
	}
	return nil
}
