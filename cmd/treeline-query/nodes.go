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
	"github.com/treelinedb/gotreeline/hierarchy"
	"github.com/treelinedb/gotreeline/rpc"
)

type nodesFlags struct {
	flagset *flag.FlagSet
	start   int64
	size    int64
	filter  string
}

func newNodesFlags() *nodesFlags {
	f := &nodesFlags{
		flagset: flag.NewFlagSet("nodes", flag.ExitOnError),
	}
	f.flagset.Int64Var(&f.start, "start", 0, "index of the first node to return")
	f.flagset.Int64Var(
		&f.size,
		"size",
		20,
		"maximum number of nodes to return (0 for all)",
	)
	f.flagset.StringVar(
		&f.filter,
		"filter",
		"",
		"return paths to nodes whose label matches this text instead of the root nodes",
	)
	return f
}

func runNodes(f *globalFlags) {
	nodesFlags := newNodesFlags()
	err := nodesFlags.flagset.Parse(f.flagset.Args()[1:])
	if err != nil {
		fmt.Printf("failed to parse subcommand args: %s\n", err)
		os.Exit(1)
	}

	m := createManager(f)
	defer m.Close()

	if nodesFlags.filter != "" {
		paths, err := m.GetFilteredNodePaths(
			context.Background(),
			requestOptions(f),
			nodesFlags.filter,
		)
		if err != nil {
			fmt.Printf("ERROR: failure fetching node paths: %s\n", err)
			os.Exit(1)
		}
		fmt.Printf("node paths matching %q: %d\n", nodesFlags.filter, len(paths))
		for _, path := range paths {
			printNodePath(path, 0)
		}
		return
	}

	opts := treeline.HierarchyOptions{
		RequestOptions: requestOptions(f),
	}
	if nodesFlags.size > 0 {
		opts.Paging = &rpc.PageSpec{
			Start: nodesFlags.start,
			Size:  nodesFlags.size,
		}
	}
	nodes, count, err := m.GetNodesAndCount(context.Background(), opts)
	if err != nil {
		fmt.Printf("ERROR: failure fetching nodes: %s\n", err)
		os.Exit(1)
	}
	fmt.Printf("root nodes: %d total\n", count)
	for _, node := range nodes {
		marker := " "
		if node.HasChildren {
			marker = "+"
		}
		fmt.Printf("%s %s\n", marker, node.Label.DisplayValue)
	}
}

func printNodePath(path hierarchy.NodePathElement, depth int) {
	marker := " "
	if path.IsMarked {
		marker = "*"
	}
	fmt.Printf(
		"%*s%s %s\n",
		depth*2,
		"",
		marker,
		path.Node.Label.DisplayValue,
	)
	for _, child := range path.Children {
		printNodePath(child, depth+1)
	}
}
