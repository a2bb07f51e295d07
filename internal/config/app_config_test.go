package config

import (
	"os"
	"path/filepath"
	"testing"
)

type configTestCase struct {
	name              string
	globalContent     string
	localContent      string
	explicitPath      string
	explicitContent   string
	expectAll         *bool
	expectDepth       *int
	expectFormat      []string
	expectColorForce  *bool
	expectASCII       *bool
	expectLoadFailure bool
}

func boolPointer(value bool) *bool {
	pointer := value
	return &pointer
}

func intPointer(value int) *int {
	pointer := value
	return &pointer
}

func TestLoadApplicationConfigurationMergesSources(t *testing.T) {
	testCases := []configTestCase{
		{
			name:          "local_overrides_global",
			globalContent: "all: true\ndepth: 3\ndirectory_format: [1, 31]\n",
			localContent:  "depth: 5\nascii: true\n",
			expectAll:     boolPointer(true),
			expectDepth:   intPointer(5),
			expectFormat:  []string{"1", "31"},
			expectASCII:   boolPointer(true),
		},
		{
			name:             "explicit_path_replaces_local",
			globalContent:    "color_force: true\n",
			localContent:     "depth: 7\n",
			explicitPath:     "custom.yaml",
			explicitContent:  "directory_format: [4]\n",
			expectColorForce: boolPointer(true),
			expectFormat:     []string{"4"},
		},
		{
			name:         "scalar_format_becomes_list",
			localContent: "directory_format: 1\n",
			expectFormat: []string{"1"},
		},
		{
			name:         "non_integer_format_is_kept_verbatim",
			localContent: "directory_format: [bold]\n",
			expectFormat: []string{"bold"},
		},
		{
			name: "no_files",
		},
		{
			name:              "missing_explicit_file",
			explicitPath:      "absent.yaml",
			expectLoadFailure: true,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			homeDirectory := t.TempDir()
			workingDirectory := t.TempDir()
			if testCase.globalContent != "" {
				globalDirectory := filepath.Join(homeDirectory, ".tree")
				if err := os.MkdirAll(globalDirectory, 0o755); err != nil {
					t.Fatalf("create global directory: %v", err)
				}
				writeFile(t, filepath.Join(globalDirectory, "config.yaml"), testCase.globalContent)
			}
			if testCase.localContent != "" {
				writeFile(t, filepath.Join(workingDirectory, ".tree.yaml"), testCase.localContent)
			}
			if testCase.explicitContent != "" {
				writeFile(t, filepath.Join(workingDirectory, testCase.explicitPath), testCase.explicitContent)
			}

			loaded, err := LoadApplicationConfiguration(LoadOptions{
				WorkingDirectory: workingDirectory,
				HomeDirectory:    homeDirectory,
				ExplicitFilePath: testCase.explicitPath,
			})
			if testCase.expectLoadFailure {
				if err == nil {
					t.Fatalf("expected load failure")
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadApplicationConfiguration error: %v", err)
			}
			assertBool(t, "all", loaded.All, testCase.expectAll)
			assertBool(t, "color_force", loaded.ColorForce, testCase.expectColorForce)
			assertBool(t, "ascii", loaded.ASCII, testCase.expectASCII)
			if (loaded.Depth == nil) != (testCase.expectDepth == nil) || (loaded.Depth != nil && *loaded.Depth != *testCase.expectDepth) {
				t.Fatalf("unexpected depth %v", loaded.Depth)
			}
			if len(loaded.DirectoryFormat) != len(testCase.expectFormat) {
				t.Fatalf("expected format %v, got %v", testCase.expectFormat, loaded.DirectoryFormat)
			}
			for index, code := range testCase.expectFormat {
				if loaded.DirectoryFormat[index] != code {
					t.Fatalf("expected format %v, got %v", testCase.expectFormat, loaded.DirectoryFormat)
				}
			}
		})
	}
}

func TestMergeDoesNotAlias(t *testing.T) {
	base := ApplicationConfiguration{All: boolPointer(false)}
	override := ApplicationConfiguration{All: boolPointer(true), DirectoryFormat: []string{"1"}}
	merged := base.Merge(override)
	*override.All = false
	override.DirectoryFormat[0] = "2"
	if merged.All == nil || !*merged.All {
		t.Fatalf("merged value must not alias override")
	}
	if merged.DirectoryFormat[0] != "1" {
		t.Fatalf("merged slice must not alias override")
	}
}

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func assertBool(t *testing.T, label string, actual *bool, expected *bool) {
	t.Helper()
	if (actual == nil) != (expected == nil) {
		t.Fatalf("%s: expected %v, got %v", label, expected, actual)
	}
	if actual != nil && *actual != *expected {
		t.Fatalf("%s: expected %t, got %t", label, *expected, *actual)
	}
}
