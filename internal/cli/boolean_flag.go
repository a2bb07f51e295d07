package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

const (
	booleanFlagTypeName      = "bool"
	booleanFlagTrueLiteral   = "true"
	booleanFlagLiteralList   = "true, false, yes, no, on, off, 1, 0"
	booleanFlagInvalidFormat = "invalid boolean value %q for --%s; accepted values: %s"
)

var booleanFlagLiterals = map[string]bool{
	"true":  true,
	"t":     true,
	"1":     true,
	"yes":   true,
	"y":     true,
	"on":    true,
	"false": false,
	"f":     false,
	"0":     false,
	"no":    false,
	"n":     false,
	"off":   false,
}

// literalBoolean is a pflag.Value for switches. A bare switch sets true; a value
// must be attached with "=" (--all=off) so a following DIRECTORY argument is never
// taken as the switch's value.
type literalBoolean struct {
	target *bool
	name   string
}

func (value *literalBoolean) Set(input string) error {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		normalized = booleanFlagTrueLiteral
	}
	parsed, known := booleanFlagLiterals[normalized]
	if !known {
		return fmt.Errorf(booleanFlagInvalidFormat, input, value.name, booleanFlagLiteralList)
	}
	*value.target = parsed
	return nil
}

func (value *literalBoolean) String() string {
	if value.target == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(*value.target)
}

func (value *literalBoolean) Type() string {
	return booleanFlagTypeName
}

// IsBoolFlag lets pflag accept the switch without a value.
func (value *literalBoolean) IsBoolFlag() bool {
	return true
}

// registerBooleanFlag registers a switch that also accepts yes/no/on/off literals after "=".
// An empty shorthand registers a long-only flag.
func registerBooleanFlag(flagSet *pflag.FlagSet, target *bool, name string, shorthand string, defaultValue bool, usage string) {
	if flagSet == nil || target == nil {
		return
	}
	*target = defaultValue
	flagSet.VarP(&literalBoolean{target: target, name: name}, name, shorthand, usage)
	if registered := flagSet.Lookup(name); registered != nil {
		registered.DefValue = strconv.FormatBool(defaultValue)
		registered.NoOptDefVal = booleanFlagTrueLiteral
	}
}
