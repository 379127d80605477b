// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
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

func GlobalFlagsValidator(ctx context.Context, c *cli.Command) error {
	return nil
}

// OutputDirValidator rejects an empty output directory value.
func OutputDirValidator(value any) error {
	if s, ok := value.(string); !ok || s == "" {
		return fmt.Errorf("must be a non-empty directory path")
	}
	return nil
}
