// Copyright 2024 Sudo Sweden AB
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
	"os/signal"
	"time"

	"github.com/spf13/pflag"
	"github.com/sudoswedenab/dockyards-console/pkg/util/jwt"
	"k8s.io/client-go/kubernetes/scheme"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/config"
)

func main() {
	var namespace string
	var subject string
	var expiration time.Duration
	pflag.StringVar(&namespace, "namespace", "dockyards-system", "namespace of the jwt secret")
	pflag.StringVar(&subject, "subject", "", "token subject")
	pflag.DurationVar(&expiration, "expiration", time.Hour, "token expiration")
	pflag.Parse()

	if subject == "" {
		fmt.Fprintln(os.Stderr, "subject must not be empty")

		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.GetConfig()
	if err != nil {
		panic(err)
	}

	c, err := client.New(cfg, client.Options{Scheme: scheme.Scheme})
	if err != nil {
		panic(err)
	}

	privateKey, err := jwt.GetOrGenerateAccessKey(ctx, c, namespace)
	if err != nil {
		panic(err)
	}

	token, err := jwt.SignAccessToken(privateKey, subject, expiration)
	if err != nil {
		panic(err)
	}

	fmt.Println(token)
}
