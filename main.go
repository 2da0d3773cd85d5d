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
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/spf13/pflag"
	consoleconfig "github.com/sudoswedenab/dockyards-console/api/config"
	"github.com/sudoswedenab/dockyards-console/internal/api/v1/handlers"
	"github.com/sudoswedenab/dockyards-console/internal/metrics"
	"github.com/sudoswedenab/dockyards-console/internal/wizardstore"
	"github.com/sudoswedenab/dockyards-console/pkg/authorization"
	"github.com/sudoswedenab/dockyards-console/pkg/util/jwt"
	appsv1 "k8s.io/api/apps/v1"
	authorizationv1 "k8s.io/api/authorization/v1"
	corev1 "k8s.io/api/core/v1"
	rbacv1 "k8s.io/api/rbac/v1"
	"k8s.io/apimachinery/pkg/runtime"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/config"
	metricsserver "sigs.k8s.io/controller-runtime/pkg/metrics/server"
)

func newLogger(logLevel string) (*slog.Logger, error) {
	var level slog.Level
	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, fmt.Errorf("unknown log level %s", logLevel)
	}

	handlerOptions := slog.HandlerOptions{
		Level: level,
	}

	return slog.New(slog.NewTextHandler(os.Stdout, &handlerOptions)), nil
}

func main() {
	var logLevel string
	var configMap string
	var collectMetricsInterval int
	var metricsBindAddress string
	var allowedOrigins []string
	var namespace string
	var wizardDatabase string
	var envFile string
	var publicAddress string
	var privateAddress string
	var reconcileAuthorization bool
	pflag.StringVar(&logLevel, "log-level", "info", "log level")
	pflag.StringVar(&configMap, "config-map", "dockyards-console", "ConfigMap name")
	pflag.IntVar(&collectMetricsInterval, "collect-metrics-interval", 30, "collect metrics interval seconds")
	pflag.StringVar(&metricsBindAddress, "metrics-bind-address", "0", "metrics bind address")
	pflag.StringSliceVar(&allowedOrigins, "allow-origin", []string{"http://localhost", "http://localhost:8000"}, "allow origin")
	pflag.StringVar(&namespace, "namespace", "dockyards-system", "namespace of the console config and keys")
	pflag.StringVar(&wizardDatabase, "wizard-database", "file:wizards.db", "vm wizard database, a postgres url or sqlite path")
	pflag.StringVar(&envFile, "env-file", "", "load environment variables from file")
	pflag.StringVar(&publicAddress, "public-address", ":9000", "public server address")
	pflag.StringVar(&privateAddress, "private-address", ":9001", "private server address")
	pflag.BoolVar(&reconcileAuthorization, "reconcile-authorization", true, "reconcile form cluster roles on start")
	pflag.Parse()

	logger, err := newLogger(logLevel)
	if err != nil {
		fmt.Printf("error preparing logger: %s", err)
		os.Exit(1)
	}

	slogr := logr.FromSlogHandler(logger.Handler())
	ctrl.SetLogger(slogr)

	if envFile != "" {
		err := godotenv.Load(envFile)
		if err != nil {
			logger.Error("error loading env file", "err", err)

			os.Exit(1)
		}
	}

	logger.Debug("process info", "uid", os.Getuid(), "pid", os.Getpid(), "namespace", namespace)

	kubeconfig, err := config.GetConfig()
	if err != nil {
		logger.Error("error getting kubeconfig", "err", err)

		os.Exit(1)
	}

	scheme := runtime.NewScheme()

	_ = appsv1.AddToScheme(scheme)
	_ = authorizationv1.AddToScheme(scheme)
	_ = corev1.AddToScheme(scheme)
	_ = rbacv1.AddToScheme(scheme)

	controllerClient, err := client.New(kubeconfig, client.Options{Scheme: scheme})
	if err != nil {
		logger.Error("error creating new controller client", "err", err)

		os.Exit(1)
	}

	managerOptions := ctrl.Options{
		Scheme:                 scheme,
		HealthProbeBindAddress: "0",
		Metrics: metricsserver.Options{
			BindAddress: metricsBindAddress,
		},
	}

	mgr, err := ctrl.NewManager(kubeconfig, managerOptions)
	if err != nil {
		logger.Error("error creating manager", "err", err)

		os.Exit(1)
	}

	ctx := context.Background()

	registry := prometheus.NewRegistry()

	prometheusMetricsOptions := []metrics.PrometheusMetricsOption{
		metrics.WithLogger(logger),
		metrics.WithPrometheusRegistry(registry),
		metrics.WithManager(mgr),
	}

	prometheusMetrics, err := metrics.NewPrometheusMetrics(prometheusMetricsOptions...)
	if err != nil {
		logger.Error("error creating new prometheus metrics", "err", err)
		os.Exit(1)
	}

	go func() {
		synced := mgr.GetCache().WaitForCacheSync(ctx)
		if !synced {
			logger.Warn("collecting metrics before cache is synced")
		}

		interval := time.Second * time.Duration(collectMetricsInterval)

		err := prometheusMetrics.CollectMetrics()
		if err != nil {
			logger.Error("error collecting prometheus metrics", "err", err)
		}

		ticker := time.NewTicker(interval)
		for range ticker.C {
			err := prometheusMetrics.CollectMetrics()
			if err != nil {
				logger.Error("error collecting prometheus metrics", "err", err)
			}
		}
	}()

	accessKey, err := jwt.GetOrGenerateAccessKey(ctx, controllerClient, namespace)
	if err != nil {
		logger.Error("error getting private key for jwt", "err", err)

		os.Exit(1)
	}

	consoleConfig, err := consoleconfig.GetConfigOrDefault(ctx, controllerClient, configMap, namespace)
	if err != nil {
		logger.Error("error loading config map", "err", err)

		os.Exit(1)
	}

	wizardStore, err := wizardstore.Open(wizardDatabase, logger)
	if err != nil {
		logger.Error("error opening wizard store", "err", err)

		os.Exit(1)
	}

	if reconcileAuthorization {
		err := authorization.ReconcileFormAuthorization(ctx, controllerClient)
		if err != nil {
			logger.Error("error reconciling form authorization", "err", err)

			os.Exit(1)
		}
	}

	handlerOptions := []handlers.HandlerOption{
		handlers.WithManager(mgr),
		handlers.WithNamespace(namespace),
		handlers.WithJWTPublicKey(&accessKey.PublicKey),
		handlers.WithLogger(logger),
		handlers.WithConfig(consoleConfig),
		handlers.WithWizardStore(wizardStore),
		handlers.WithPrometheusMetrics(prometheusMetrics),
	}

	publicMux := http.NewServeMux()

	err = handlers.RegisterRoutes(publicMux, handlerOptions...)
	if err != nil {
		logger.Error("error registering handler routes", "err", err)
		os.Exit(1)
	}

	corsOptions := cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodPost, http.MethodGet, http.MethodPut},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Origin"},
		AllowCredentials: true,
		ExposedHeaders:   []string{"Content-Length"},
	}

	corsHandler := cors.New(corsOptions)

	publicServer := &http.Server{
		Handler: corsHandler.Handler(publicMux),
		Addr:    publicAddress,
	}

	go func() {
		err := publicServer.ListenAndServe()
		if err != nil {
			logger.Error("error running public server", "err", err)

			os.Exit(1)
		}
	}()

	privateMux := http.NewServeMux()

	promHandlerOpts := promhttp.HandlerOpts{
		Registry: registry,
	}
	promHandler := promhttp.HandlerFor(registry, promHandlerOpts)

	privateMux.Handle("/metrics", promHandler)
	privateMux.HandleFunc("GET /healthz", func(_ http.ResponseWriter, _ *http.Request) {})

	privateServer := &http.Server{
		Handler: privateMux,
		Addr:    privateAddress,
	}

	go func() {
		err := privateServer.ListenAndServe()
		if err != nil {
			logger.Error("error running private server", "err", err)

			os.Exit(1)
		}
	}()

	err = mgr.Start(ctx)
	if err != nil {
		logger.Error("error starting manager", "err", err)

		os.Exit(1)
	}
}
