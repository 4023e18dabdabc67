package workbench

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestChecksumUnpadded(t *testing.T) {
	// sha256("") in base64 is 47DEQpj8HBSa+/TImW+5JCeuQeRkm5NMpJWZG3hSuFU=
	if got := Checksum(nil); got != "47DEQpj8HBSa+/TImW+5JCeuQeRkm5NMpJWZG3hSuFU" {
		t.Errorf("Checksum(nil) = %q", got)
	}
	if strings.HasSuffix(Checksum([]byte("snow")), "=") {
		t.Error("checksum must not be padded")
	}
}

func TestProductPath(t *testing.T) {
	bundle := filepath.Join("/opt", "code", "resources", "app", bundleRel)
	want := filepath.Join("/opt", "code", "resources", "app", "product.json")
	if got := ProductPath(bundle); got != want {
		t.Errorf("ProductPath = %q, want %q", got, want)
	}
}

func TestCheckChecksum(t *testing.T) {
	bundle := installTree(t, bundleText)
	if s := CheckChecksum(bundle); s != ChecksumOK {
		t.Errorf("fresh install: status = %s, want ok", s)
	}

	if err := os.WriteFile(bundle, []byte(bundleText+"tampered"), 0o644); err != nil {
		t.Fatal(err)
	}
	if s := CheckChecksum(bundle); s != ChecksumStale {
		t.Errorf("modified bundle: status = %s, want stale", s)
	}

	if err := os.WriteFile(ProductPath(bundle), []byte(`{"checksums":{}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if s := CheckChecksum(bundle); s != ChecksumAbsent {
		t.Errorf("no entry: status = %s, want absent", s)
	}

	if err := os.Remove(ProductPath(bundle)); err != nil {
		t.Fatal(err)
	}
	if s := CheckChecksum(bundle); s != ChecksumUnknown {
		t.Errorf("no product.json: status = %s, want unknown", s)
	}
}

func TestUpdateChecksumSplicesOnlyDigest(t *testing.T) {
	bundle := installTree(t, bundleText)
	before := readString(t, ProductPath(bundle))

	patched := bundleText + block("snow()")
	if err := os.WriteFile(bundle, []byte(patched), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := UpdateChecksum(bundle); err != nil {
		t.Fatalf("UpdateChecksum: %v", err)
	}

	after := readString(t, ProductPath(bundle))
	want := strings.Replace(before, Checksum([]byte(bundleText)), Checksum([]byte(patched)), 1)
	if after != want {
		t.Errorf("product.json =\n%s\nwant\n%s", after, want)
	}
	if s := CheckChecksum(bundle); s != ChecksumOK {
		t.Errorf("status after update = %s, want ok", s)
	}
}

func TestUpdateChecksumNoEntry(t *testing.T) {
	bundle := installTree(t, bundleText)
	product := `{"nameShort":"Code"}`
	if err := os.WriteFile(ProductPath(bundle), []byte(product), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := UpdateChecksum(bundle); err != nil {
		t.Fatal(err)
	}
	if got := readString(t, ProductPath(bundle)); got != product {
		t.Errorf("product.json rewritten without an entry: %q", got)
	}
}

func TestInstallRefreshesChecksum(t *testing.T) {
	bundle := installTree(t, bundleText)
	if _, err := Install(bundle, generated(t)); err != nil {
		t.Fatal(err)
	}
	if s := CheckChecksum(bundle); s != ChecksumOK {
		t.Errorf("after Install: status = %s, want ok", s)
	}
	if _, err := Remove(bundle); err != nil {
		t.Fatal(err)
	}
	if s := CheckChecksum(bundle); s != ChecksumOK {
		t.Errorf("after Remove: status = %s, want ok", s)
	}
}

func TestUpdateChecksumKeepsLayout(t *testing.T) {
	bundle := installTree(t, bundleText)
	old := Checksum([]byte(bundleText))
	product := "{\"checksums\" : {\t\"" + ChecksumKey + "\" :   \"" + old + "\" , \"x.js\":\"y\"},\n\"n\":1}"
	if err := os.WriteFile(ProductPath(bundle), []byte(product), 0o644); err != nil {
		t.Fatal(err)
	}

	patched := bundleText + block("snow()")
	if err := os.WriteFile(bundle, []byte(patched), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := UpdateChecksum(bundle); err != nil {
		t.Fatalf("UpdateChecksum: %v", err)
	}
	want := strings.Replace(product, old, Checksum([]byte(patched)), 1)
	if got := readString(t, ProductPath(bundle)); got != want {
		t.Errorf("product.json = %q, want %q", got, want)
	}
}

func TestMalformedProduct(t *testing.T) {
	bundle := installTree(t, bundleText)
	if err := os.WriteFile(ProductPath(bundle), []byte(`{"checksums": {`), 0o644); err != nil {
		t.Fatal(err)
	}
	if s := CheckChecksum(bundle); s != ChecksumUnknown {
		t.Errorf("status = %s, want unknown", s)
	}
	if err := UpdateChecksum(bundle); err == nil {
		t.Error("expected error for malformed product.json")
	}
	if _, err := Install(bundle, generated(t)); err != nil {
		t.Errorf("malformed product.json must not fail Install: %v", err)
	}
}
