package common

import "path"

// PkgAlias returns the package alias (last element of path) for a given package path.
// Returns empty string if pkgPath is empty.
func PkgAlias(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	return path.Base(pkgPath)
}

// QualifiedName joins a package alias and a type name, omitting the alias
// when the type lives in the package being generated into.
func QualifiedName(pkgPath, name, contextPkgPath string) string {
	if pkgPath == "" || pkgPath == contextPkgPath {
		return name
	}

	return PkgAlias(pkgPath) + "." + name
}
