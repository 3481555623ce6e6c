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
	"fmt"
	"os"
)

func runLabels(f *globalFlags) {
	args := f.flagset.Args()[1:]
	if len(args) == 0 {
		fmt.Printf("You must specify at least one class:id instance key\n")
		os.Exit(1)
	}
	instanceKeys := parseInstanceKeyList(args)

	m := createManager(f)
	defer m.Close()

	labelDefs, err := m.GetDisplayLabels(
		context.Background(),
		requestOptions(f),
		instanceKeys,
	)
	if err != nil {
		fmt.Printf("ERROR: failure fetching display labels: %s\n", err)
		os.Exit(1)
	}
	for i, label := range labelDefs {
		fmt.Printf(
			"%s:%s = %s\n",
			instanceKeys[i].Class,
			instanceKeys[i].ID,
			label.DisplayValue,
		)
	}
}
