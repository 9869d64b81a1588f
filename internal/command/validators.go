// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/whctlgo/internal/loader"
	"github.com/staranto/whctlgo/internal/output"
	"github.com/staranto/whctlgo/internal/webhooks"
)

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// JammedFlagValidator verifies that the arg following a flag does not begin
// with '--'.  urfave/cli allows this and I don't see how to turn it off.
func JammedFlagValidator(value any) error {
	if strings.HasPrefix(value.(string), "--") {
		return errors.New("must not begin with '--'")
	}
	return nil
}

func OutputValidator(value any) error {
	if !slices.Contains(output.Formats, value.(string)) {
		return fmt.Errorf("must be one of %v", output.Formats)
	}
	return nil
}

func SourceValidator(value any) error {
	valid := []string{loader.SourceFile, loader.SourceS3}
	if !slices.Contains(valid, value.(string)) {
		return fmt.Errorf("must be one of %v", valid)
	}
	return nil
}

func FailurePolicyValidator(value any) error {
	_, err := webhooks.ParseFailurePolicy(value.(string))
	return err
}

// ArgCountValidator checks the positional argument count of c against
// [minArgs, maxArgs]. The usage text is included in the error.
func ArgCountValidator(c *cli.Command, minArgs, maxArgs int) error {
	n := c.NArg()
	if n < minArgs || n > maxArgs {
		return fmt.Errorf("%w: got %d arguments, usage: %s", ErrUsage, n, c.UsageText)
	}
	for _, a := range c.Args().Slice() {
		if err := JammedFlagValidator(a); err != nil {
			return fmt.Errorf("%w: argument %q %v", ErrUsage, a, err)
		}
	}
	return nil
}
