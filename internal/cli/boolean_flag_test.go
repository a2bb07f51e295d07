package cli

import (
	"testing"

	"github.com/spf13/cobra"
)

func TestRegisterBooleanFlagParsesValues(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name               string
		defaultValue       bool
		arguments          []string
		expected           bool
		expectedPositional []string
		expectError        bool
	}{
		{name: "defaults_to_false", arguments: []string{}, expected: false},
		{name: "default_true_kept", defaultValue: true, arguments: []string{}, expected: true},
		{name: "bare_switch_sets_true", arguments: []string{"--feature"}, expected: true},
		{name: "shorthand_sets_true", arguments: []string{"-f"}, expected: true},
		{name: "equals_false", defaultValue: true, arguments: []string{"--feature=false"}, expected: false},
		{name: "equals_off_literal", defaultValue: true, arguments: []string{"--feature=off"}, expected: false},
		{name: "equals_yes_literal", arguments: []string{"--feature=YES"}, expected: true},
		{
			name:               "literal_after_space_stays_positional",
			arguments:          []string{"--feature", "on"},
			expected:           true,
			expectedPositional: []string{"on"},
		},
		{
			name:               "directory_after_switch_stays_positional",
			defaultValue:       true,
			arguments:          []string{"--feature", "no"},
			expected:           true,
			expectedPositional: []string{"no"},
		},
		{name: "rejects_unknown_literal", arguments: []string{"--feature=maybe"}, expectError: true},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			command := &cobra.Command{Use: "boolean-test"}
			flagValue := !testCase.defaultValue
			registerBooleanFlag(command.Flags(), &flagValue, "feature", "f", testCase.defaultValue, "toggle feature behaviour")
			parseErr := command.ParseFlags(testCase.arguments)
			if testCase.expectError {
				if parseErr == nil {
					t.Fatalf("expected parse error for arguments %v", testCase.arguments)
				}
				return
			}
			if parseErr != nil {
				t.Fatalf("unexpected parse error: %v", parseErr)
			}
			if flagValue != testCase.expected {
				t.Fatalf("expected %t, got %t", testCase.expected, flagValue)
			}
			positional := command.Flags().Args()
			if len(positional) != len(testCase.expectedPositional) {
				t.Fatalf("expected positional %v, got %v", testCase.expectedPositional, positional)
			}
			for index := range positional {
				if positional[index] != testCase.expectedPositional[index] {
					t.Fatalf("expected positional %v, got %v", testCase.expectedPositional, positional)
				}
			}
		})
	}
}
