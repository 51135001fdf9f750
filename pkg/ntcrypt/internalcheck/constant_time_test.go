package internalcheck

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

func TestNoDirectByteComparison(t *testing.T) {
	pkgs := loadLibrary(t, packages.NeedSyntax|packages.NeedTypes|packages.NeedTypesInfo|packages.NeedFiles|packages.NeedName)

	var findings []string
	for _, pkg := range pkgs {
		for _, file := range pkg.Syntax {
			ast.Inspect(file, func(n ast.Node) bool {
				be, ok := n.(*ast.BinaryExpr)
				if !ok || (be.Op != token.EQL && be.Op != token.NEQ) {
					return true
				}
				if isByteSlice(pkg.TypesInfo.TypeOf(be.X)) && isByteSlice(pkg.TypesInfo.TypeOf(be.Y)) {
					pos := pkg.Fset.Position(be.Pos())
					findings = append(findings, fmt.Sprintf("%s: avoid == on byte arrays; use crypto/subtle", pos))
				}
				return true
			})
		}
	}

	if len(findings) > 0 {
		t.Fatalf("constant-time policy violation:\n%s", strings.Join(findings, "\n"))
	}
}

func isByteSlice(typ types.Type) bool {
	if typ == nil {
		return false
	}
	switch tt := typ.(type) {
	case *types.Slice:
		return isByte(tt.Elem())
	case *types.Pointer:
		return isByteSlice(tt.Elem())
	case *types.Named:
		return isByteSlice(tt.Underlying())
	case *types.Array:
		return isByte(tt.Elem())
	default:
		return false
	}
}

func isByte(t types.Type) bool {
	basic, ok := t.(*types.Basic)
	return ok && basic.Kind() == types.Byte
}
