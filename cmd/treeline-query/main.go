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
	"crypto/tls"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strings"

	treeline "github.com/treelinedb/gotreeline"
	"github.com/treelinedb/gotreeline/keys"
	"github.com/treelinedb/gotreeline/rpc"
	"github.com/treelinedb/gotreeline/rpc/grpcrpc"
	"github.com/treelinedb/gotreeline/rpc/streamrpc"
)

type globalFlags struct {
	flagset    *flag.FlagSet
	socket     string
	address    string
	useTls     bool
	grpcTarget string
	dataset    string
	revision   string
	locale     string
	ruleset    string
	debug      bool
}

func newGlobalFlags() *globalFlags {
	f := &globalFlags{
		flagset: flag.NewFlagSet(os.Args[0], flag.ExitOnError),
	}
	f.flagset.StringVar(
		&f.socket,
		"socket",
		"",
		"UNIX socket path to connect to",
	)
	f.flagset.StringVar(
		&f.address,
		"address",
		"",
		"TCP address to connect to in address:port format",
	)
	f.flagset.BoolVar(&f.useTls, "tls", false, "enable TLS")
	f.flagset.StringVar(
		&f.grpcTarget,
		"grpc",
		"",
		"gRPC target to connect to. this overrides the -socket and -address options",
	)
	f.flagset.StringVar(
		&f.dataset,
		"dataset",
		"",
		"dataset id to run operations against",
	)
	f.flagset.StringVar(&f.revision, "revision", "", "dataset revision")
	f.flagset.StringVar(
		&f.locale,
		"locale",
		"",
		"locale for display labels. this overrides the TREELINE_LOCALE environment variable",
	)
	f.flagset.StringVar(&f.ruleset, "ruleset", "", "ruleset id to evaluate")
	f.flagset.BoolVar(&f.debug, "debug", false, "enable debug logging")
	return f
}

func main() {
	f := newGlobalFlags()
	err := f.flagset.Parse(os.Args[1:])
	if err != nil {
		fmt.Printf("failed to parse command args: %s\n", err)
		os.Exit(1)
	}

	if f.dataset == "" {
		fmt.Printf("You must specify -dataset\n")
		os.Exit(1)
	}

	if len(f.flagset.Args()) > 0 {
		switch f.flagset.Arg(0) {
		case "nodes":
			runNodes(f)
		case "content":
			runContent(f)
		case "labels":
			runLabels(f)
		case "distinct-values":
			runDistinctValues(f)
		default:
			fmt.Printf("Unknown subcommand: %s\n", f.flagset.Arg(0))
			os.Exit(1)
		}
	} else {
		fmt.Printf(
			"You must specify a subcommand (nodes, content, labels or distinct-values)\n",
		)
		os.Exit(1)
	}
}

func createClientConnection(f *globalFlags) net.Conn {
	var err error
	var conn net.Conn
	var dialProto string
	var dialAddress string
	if f.socket != "" {
		dialProto = "unix"
		dialAddress = f.socket
	} else if f.address != "" {
		dialProto = "tcp"
		dialAddress = f.address
	} else {
		fmt.Printf("You must specify one of -socket, -address or -grpc\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if f.useTls {
		conn, err = tls.Dial(dialProto, dialAddress, nil)
	} else {
		conn, err = net.Dial(dialProto, dialAddress)
	}
	if err != nil {
		fmt.Printf("Connection failed: %s\n", err)
		os.Exit(1)
	}
	return conn
}

func createManager(f *globalFlags) *treeline.Manager {
	var handler rpc.Handler
	if f.grpcTarget != "" {
		client, err := grpcrpc.Dial(f.grpcTarget)
		if err != nil {
			fmt.Printf("Connection failed: %s\n", err)
			os.Exit(1)
		}
		handler = client
	} else {
		client := streamrpc.NewClient(createClientConnection(f))
		go func() {
			for err := range client.ErrorChan() {
				fmt.Printf("ERROR: %s\n", err)
				os.Exit(1)
			}
		}()
		handler = client
	}
	options, err := treeline.EnvOptions()
	if err != nil {
		fmt.Printf("failed to read environment config: %s\n", err)
		os.Exit(1)
	}
	options = append(options, treeline.WithHandler(handler))
	if f.locale != "" {
		options = append(options, treeline.WithLocale(f.locale))
	}
	if f.debug {
		options = append(options, treeline.WithLogger(
			slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			})),
		))
	}
	m, err := treeline.NewManager(options...)
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	return m
}

func requestOptions(f *globalFlags) treeline.RequestOptions {
	return treeline.RequestOptions{
		Dataset:   treeline.NewStaticDataset(f.dataset, f.revision),
		RulesetID: f.ruleset,
	}
}

func parseInstanceKeyList(args []string) []keys.InstanceKey {
	instanceKeys := make([]keys.InstanceKey, 0, len(args))
	for _, arg := range args {
		class, id, ok := strings.Cut(arg, ":")
		if !ok || class == "" || id == "" {
			fmt.Printf("ERROR: invalid instance key %q, expected class:id\n", arg)
			os.Exit(1)
		}
		instanceKeys = append(
			instanceKeys,
			keys.InstanceKey{Class: class, ID: keys.ID(id)},
		)
	}
	return instanceKeys
}

func parseKeySet(args []string) *keys.KeySet {
	return keys.NewKeySet(parseInstanceKeyList(args)...)
}
