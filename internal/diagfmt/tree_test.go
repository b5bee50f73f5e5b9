package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"mesozoic/internal/parser"
)

func TestFormatTree(t *testing.T) {
	_, f := virtualFile(t, "a.ts", "let a: number = 1;\n")
	res := parser.ParseFile(f, parser.Options{})
	if res.Tree == nil {
		t.Fatalf("parse failed with %d errors", res.Errors)
	}
	tree := res.Tree

	var pretty bytes.Buffer
	if err := FormatTreePretty(&pretty, tree); err != nil {
		t.Fatal(err)
	}
	rootKind := tree.Get(tree.Root).Kind.String()
	if !strings.HasPrefix(pretty.String(), rootKind) {
		t.Errorf("pretty dump does not start with %s:\n%s", rootKind, pretty.String())
	}

	var buf bytes.Buffer
	if err := FormatTreeJSON(&buf, tree); err != nil {
		t.Fatal(err)
	}
	var root NodeJSON
	if err := json.Unmarshal(buf.Bytes(), &root); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if root.Kind != rootKind || len(root.Kids) != 1 {
		t.Fatalf("root = %+v", root)
	}
	if root.Kids[0].Line != 1 || root.Kids[0].Col != 1 {
		t.Errorf("statement position = %d:%d", root.Kids[0].Line, root.Kids[0].Col)
	}
	if !strings.Contains(buf.String(), `"text": "a"`) {
		t.Errorf("identifier missing from dump:\n%s", buf.String())
	}
}

func TestFormatTreeNil(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatTreeJSON(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "null" {
		t.Errorf("got %q", buf.String())
	}
}
