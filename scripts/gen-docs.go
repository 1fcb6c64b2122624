//go:build ignore

// gen-docs writes docs/config.md, the reference for the gziptool config file.
// It reads the struct definitions in apis/v1 so the reference follows the yaml
// and validate tags.
package main

import (
	"fmt"
	"go/ast"
	"go/token"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"

	"golang.org/x/tools/go/packages"
)

type section struct {
	name        string
	description string
	fields      []field
}

type field struct {
	key         string
	typeName    string
	ref         string
	required    bool
	allowed     []string
	description string
	defaultVal  string
}

// Documented structs in output order. Config is the document root.
var documented = []string{"Config", "LogSpec", "S3Spec", "S3Credentials"}

func main() {
	root, err := findProjectRoot()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error finding project root: %v\n", err)
		os.Exit(1)
	}

	pkgs, err := packages.Load(&packages.Config{
		Mode: packages.NeedSyntax | packages.NeedFiles | packages.NeedName,
		Dir:  root,
	}, "./apis/v1")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading package: %v\n", err)
		os.Exit(1)
	}

	structs := make(map[string]*structInfo)
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			fmt.Fprintf(os.Stderr, "Package error: %v\n", e)
		}
		if len(pkg.Errors) > 0 {
			os.Exit(1)
		}
		for _, file := range pkg.Syntax {
			collectStructs(file, structs)
		}
	}

	var b strings.Builder
	b.WriteString("# Configuration file\n\n")
	b.WriteString("Pass the file with `--config` or `GZIPTOOL_CONFIG`. Flags override values set here.\n")

	for _, name := range documented {
		info, ok := structs[name]
		if !ok {
			fmt.Fprintf(os.Stderr, "Warning: struct %s not found\n", name)
			continue
		}
		writeSection(&b, buildSection(info))
	}

	outputPath := filepath.Join(root, "docs", "config.md")
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(outputPath, []byte(b.String()), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", outputPath, err)
		os.Exit(1)
	}

	fmt.Printf("Generated %s\n", outputPath)
}

type structInfo struct {
	name       string
	doc        string
	structType *ast.StructType
}

func collectStructs(file *ast.File, structs map[string]*structInfo) {
	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}

		for _, spec := range genDecl.Specs {
			typeSpec, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			structType, ok := typeSpec.Type.(*ast.StructType)
			if !ok {
				continue
			}

			var doc string
			if genDecl.Doc != nil && len(genDecl.Specs) == 1 {
				doc = cleanDoc(genDecl.Doc.Text())
			} else if typeSpec.Doc != nil {
				doc = cleanDoc(typeSpec.Doc.Text())
			}

			structs[typeSpec.Name.Name] = &structInfo{
				name:       typeSpec.Name.Name,
				doc:        doc,
				structType: structType,
			}
		}
	}
}

func buildSection(info *structInfo) section {
	s := section{name: info.name, description: info.doc}

	for _, f := range info.structType.Fields.List {
		if len(f.Names) == 0 || !ast.IsExported(f.Names[0].Name) {
			continue
		}

		out := field{key: f.Names[0].Name}
		if f.Tag != nil {
			tag := reflect.StructTag(strings.Trim(f.Tag.Value, "`"))
			if key, _, _ := strings.Cut(tag.Get("yaml"), ","); key != "" {
				out.key = key
			}
			out.required, out.allowed = parseValidate(tag.Get("validate"))
		}
		out.typeName, out.ref = typeOf(f.Type)
		out.description, out.defaultVal = fieldDoc(f)

		s.fields = append(s.fields, out)
	}

	return s
}

func writeSection(b *strings.Builder, s section) {
	fmt.Fprintf(b, "\n## %s\n\n", s.name)
	if s.description != "" {
		fmt.Fprintf(b, "%s\n\n", strings.ReplaceAll(s.description, "\n", " "))
	}

	b.WriteString("| Key | Type | Required | Default | Description |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, f := range s.fields {
		typeName := "`" + f.typeName + "`"
		if f.ref != "" {
			typeName = fmt.Sprintf("[%s](#%s)", f.ref, strings.ToLower(f.ref))
		}

		description := strings.ReplaceAll(f.description, "\n", " ")
		if len(f.allowed) > 0 {
			description = strings.TrimSpace(fmt.Sprintf("%s One of: `%s`.", description, strings.Join(f.allowed, "`, `")))
		}

		required := ""
		if f.required {
			required = "yes"
		}

		fmt.Fprintf(b, "| `%s` | %s | %s | %s | %s |\n", f.key, typeName, required, f.defaultVal, description)
	}
}

func parseValidate(tag string) (required bool, allowed []string) {
	for _, part := range strings.Split(tag, ",") {
		switch {
		case part == "required":
			required = true
		case strings.HasPrefix(part, "oneof="):
			allowed = strings.Fields(strings.TrimPrefix(part, "oneof="))
		}
	}
	return required, allowed
}

func typeOf(expr ast.Expr) (name string, ref string) {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name, ""
	case *ast.StarExpr:
		if ident, ok := t.X.(*ast.Ident); ok && isDocumented(ident.Name) {
			return ident.Name, ident.Name
		}
		return typeOf(t.X)
	case *ast.ArrayType:
		inner, _ := typeOf(t.Elt)
		return "[]" + inner, ""
	case *ast.MapType:
		key, _ := typeOf(t.Key)
		val, _ := typeOf(t.Value)
		return fmt.Sprintf("map[%s]%s", key, val), ""
	case *ast.SelectorExpr:
		return t.Sel.Name, ""
	default:
		return "unknown", ""
	}
}

func isDocumented(name string) bool {
	for _, d := range documented {
		if d == name {
			return true
		}
	}
	return false
}

// Matches "(default: gzip)" and "(default: error.log)" in field comments.
var defaultRegex = regexp.MustCompile(`\(default: ([^)]+)\)`)

func fieldDoc(f *ast.Field) (description, defaultVal string) {
	var text string
	if f.Doc != nil {
		text = f.Doc.Text()
	} else if f.Comment != nil {
		text = f.Comment.Text()
	}
	if text == "" {
		return "", ""
	}

	if m := defaultRegex.FindStringSubmatch(text); m != nil {
		defaultVal = "`" + strings.TrimSpace(m[1]) + "`"
		text = defaultRegex.ReplaceAllString(text, "")
	}

	return cleanDoc(text), defaultVal
}

func cleanDoc(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.Join(lines, "\n")
}

func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found")
		}
		dir = parent
	}
}
