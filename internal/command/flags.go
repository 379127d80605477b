// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"
)

// NewGlobalFlags returns the flags shared by every subcommand.
func NewGlobalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Value:   false,
		},
		&cli.BoolFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Value:   false,
		},
	}
}

// NewInstanceFlag constructs the "instance" flag, resolved from the flag
// itself, the DANDICTL_INSTANCE environment variable, and then the config
// file (namespaced key first, then global).
func NewInstanceFlag(ns string, cfgFile string) *cli.StringFlag {
	flag := &cli.StringFlag{
		Name:    "instance",
		Aliases: []string{"i"},
		Usage:   "DANDI instance name or API base URL",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("DANDICTL_INSTANCE"),
		),
		Value: "dandi",
	}

	if cfgFile != "" {
		flag = NameSpacedValueChainFlagFromConfigFile(ns, cfgFile, flag)
	}

	return flag
}

// NewOutputDirFlag constructs the "output" flag with the given default
// directory.
func NewOutputDirFlag(defaultDir string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "directory to write reports to",
		Value:   defaultDir,
		Validator: func(value string) error {
			return FlagValidators(value, OutputDirValidator)
		},
	}
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config file
// sources to the given flag's Sources chain.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag) *cli.StringFlag {
	src := yaml.YAML(ns+"."+flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	src = yaml.YAML(flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	return flag
}
