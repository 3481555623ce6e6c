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
	"github.com/treelinedb/gotreeline/rpc"
)

type contentFlags struct {
	flagset     *flag.FlagSet
	displayType string
	start       int64
	size        int64
}

func newContentFlags() *contentFlags {
	f := &contentFlags{
		flagset: flag.NewFlagSet("content", flag.ExitOnError),
	}
	f.flagset.StringVar(
		&f.displayType,
		"display-type",
		"Grid",
		"display type to request the content descriptor for",
	)
	f.flagset.Int64Var(
		&f.start,
		"start",
		0,
		"index of the first record to return",
	)
	f.flagset.Int64Var(
		&f.size,
		"size",
		20,
		"maximum number of records to return (0 for all)",
	)
	return f
}

func runContent(f *globalFlags) {
	contentFlags := newContentFlags()
	err := contentFlags.flagset.Parse(f.flagset.Args()[1:])
	if err != nil {
		fmt.Printf("failed to parse subcommand args: %s\n", err)
		os.Exit(1)
	}
	keySet := parseKeySet(contentFlags.flagset.Args())

	m := createManager(f)
	defer m.Close()

	descriptor, err := m.GetContentDescriptor(
		context.Background(),
		requestOptions(f),
		contentFlags.displayType,
		keySet,
		nil,
	)
	if err != nil {
		fmt.Printf("ERROR: failure fetching content descriptor: %s\n", err)
		os.Exit(1)
	}
	if descriptor == nil {
		fmt.Printf("no content for the given keys\n")
		return
	}

	opts := treeline.ContentOptions{
		RequestOptions: requestOptions(f),
	}
	if contentFlags.size > 0 {
		opts.Paging = &rpc.PageSpec{
			Start: contentFlags.start,
			Size:  contentFlags.size,
		}
	}
	result, size, err := m.GetContentAndSize(
		context.Background(),
		opts,
		descriptor,
		keySet,
	)
	if err != nil {
		fmt.Printf("ERROR: failure fetching content: %s\n", err)
		os.Exit(1)
	}
	if result == nil {
		fmt.Printf("no content for the given keys\n")
		return
	}
	fmt.Printf(
		"content (%s): %d records total\n",
		result.Descriptor.DisplayType,
		size,
	)
	for _, item := range result.Items {
		fmt.Printf("%s\n", item.Label.DisplayValue)
		for _, field := range result.Descriptor.Fields {
			value, ok := item.DisplayValues[field.Name]
			if !ok {
				continue
			}
			fmt.Printf("  %s: %s\n", field.Label, value)
		}
	}
}
