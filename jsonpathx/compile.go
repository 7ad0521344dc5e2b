package jsonpathx

import "github.com/oliveagle/jsonpath"

// CheckSyntax reports whether path is a syntactically valid JSONPath
// expression, without evaluating it against any document. Used to validate
// `descriptor_map[*].path` entries the way the teacher validates submission
// descriptor paths in credential/manifest (model.go: jsonpath.Compile).
func CheckSyntax(path string) error {
	_, err := jsonpath.Compile(path)
	return err
}
