// Copyright 2025 Treeline Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	treeline "github.com/treelinedb/gotreeline"
	"github.com/treelinedb/gotreeline/content"
)

type distinctFlags struct {
	flagset     *flag.FlagSet
	field       string
	displayType string
	maxValues   int
}

func newDistinctFlags() *distinctFlags {
	f := &distinctFlags{
		flagset: flag.NewFlagSet("distinct-values", flag.ExitOnError),
	}
	f.flagset.StringVar(
		&f.field,
		"field",
		"",
		"content field name to collect distinct values of",
	)
	f.flagset.StringVar(
		&f.displayType,
		"display-type",
		"Grid",
		"display type of the content to inspect",
	)
	f.flagset.IntVar(
		&f.maxValues,
		"max-values",
		0,
		"maximum number of values to return (0 for all)",
	)
	return f
}

func runDistinctValues(f *globalFlags) {
	distinctFlags := newDistinctFlags()
	err := distinctFlags.flagset.Parse(f.flagset.Args()[1:])
	if err != nil {
		fmt.Printf("failed to parse subcommand args: %s\n", err)
		os.Exit(1)
	}
	if distinctFlags.field == "" {
		fmt.Printf("You must specify -field\n")
		os.Exit(1)
	}
	keySet := parseKeySet(distinctFlags.flagset.Args())

	m := createManager(f)
	defer m.Close()

	values, err := m.GetDistinctValues(
		context.Background(),
		treeline.ContentOptions{
			RequestOptions: requestOptions(f),
		},
		content.Overrides{DisplayType: distinctFlags.displayType},
		keySet,
		distinctFlags.field,
		distinctFlags.maxValues,
	)
	if err != nil {
		fmt.Printf("ERROR: failure fetching distinct values: %s\n", err)
		os.Exit(1)
	}
	fmt.Printf("distinct values of %s: %d\n", distinctFlags.field, len(values))
	for _, value := range values {
		fmt.Printf("  %s\n", value)
	}
}
