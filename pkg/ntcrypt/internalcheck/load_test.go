package internalcheck

import (
	"testing"

	"golang.org/x/tools/go/packages"
)

const libraryPattern = "github.com/hsiuhsiu/ntcrypt-go/pkg/ntcrypt/..."

// loadLibrary loads the non-test sources of every ntcrypt package.
func loadLibrary(t *testing.T, mode packages.LoadMode) []*packages.Package {
	t.Helper()
	pkgs, err := packages.Load(&packages.Config{Mode: mode}, libraryPattern)
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}
	if len(pkgs) == 0 {
		t.Fatalf("pattern %s matched no packages", libraryPattern)
	}
	if packages.PrintErrors(pkgs) > 0 {
		t.Fatalf("packages under %s do not type-check", libraryPattern)
	}
	return pkgs
}
