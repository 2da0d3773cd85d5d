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


package handlers

import (
	"crypto/ecdsa"
	"log/slog"
	"net/http"

	"github.com/sudoswedenab/dockyards-console/api/config"
	"github.com/sudoswedenab/dockyards-console/internal/api/v1/middleware"
	"github.com/sudoswedenab/dockyards-console/internal/metrics"
	"github.com/sudoswedenab/dockyards-console/internal/wizardstore"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

type handler struct {
	client.Client

	logger             *slog.Logger
	namespace          string
	jwtAccessPublicKey *ecdsa.PublicKey
	config             config.ConfigReader
	wizardStore        *wizardstore.Store
	metrics            *metrics.PrometheusMetrics
}

type HandlerOption func(*handler)

func WithManager(mgr ctrl.Manager) HandlerOption {
	controllerClient := mgr.GetClient()

	return func(h *handler) {
		h.Client = controllerClient
	}
}

func WithClient(controllerClient client.Client) HandlerOption {
	return func(h *handler) {
		h.Client = controllerClient
	}
}

func WithNamespace(namespace string) HandlerOption {
	return func(h *handler) {
		h.namespace = namespace
	}
}

func WithJWTPublicKey(publicKey *ecdsa.PublicKey) HandlerOption {
	return func(h *handler) {
		h.jwtAccessPublicKey = publicKey
	}
}

func WithLogger(logger *slog.Logger) HandlerOption {
	return func(h *handler) {
		h.logger = logger
	}
}

func WithConfig(configReader config.ConfigReader) HandlerOption {
	return func(h *handler) {
		h.config = configReader
	}
}

func WithWizardStore(store *wizardstore.Store) HandlerOption {
	return func(h *handler) {
		h.wizardStore = store
	}
}

func WithPrometheusMetrics(prometheusMetrics *metrics.PrometheusMetrics) HandlerOption {
	return func(h *handler) {
		h.metrics = prometheusMetrics
	}
}

func RegisterRoutes(mux *http.ServeMux, handlerOptions ...HandlerOption) error {
	h := handler{
		logger: slog.Default(),
		config: &config.DefaultingConfig{},
	}

	for _, handlerOption := range handlerOptions {
		handlerOption(&h)
	}

	if h.namespace == "" {
		h.logger.Warn("using empty namespace")
	}

	logger := middleware.NewLogger(h.logger).Handler
	requireAuth := middleware.NewRequireAuth(h.jwtAccessPublicKey).Handler
	contentType := middleware.NewContentType("application/json").Handler

	api := func(next http.Handler) http.Handler {
		return logger(requireAuth(contentType(next)))
	}

	mux.Handle("GET /v1/namespaces/{namespace}/deployments/{resourceName}/form", api(GetNamespacedResource(&h, DeploymentGVK.Group, "deployments", h.GetDeploymentForm(DeploymentGVK))))
	mux.Handle("PUT /v1/namespaces/{namespace}/deployments/{resourceName}/form", api(h.recordFormUpdate("deployments", UpdateNamespacedResource(&h, DeploymentGVK.Group, "deployments", h.UpdateDeploymentForm(DeploymentGVK)))))

	mux.Handle("GET /v1/namespaces/{namespace}/deploymentconfigs/{resourceName}/form", api(GetNamespacedResource(&h, DeploymentConfigGVK.Group, "deploymentconfigs", h.GetDeploymentForm(DeploymentConfigGVK))))
	mux.Handle("PUT /v1/namespaces/{namespace}/deploymentconfigs/{resourceName}/form", api(h.recordFormUpdate("deploymentconfigs", UpdateNamespacedResource(&h, DeploymentConfigGVK.Group, "deploymentconfigs", h.UpdateDeploymentForm(DeploymentConfigGVK)))))

	mux.Handle("GET /v1/vm-wizards/{wizardID}/nics", api(http.HandlerFunc(h.GetWizardNICs)))
	mux.Handle("POST /v1/vm-wizards/{wizardID}/nics", api(http.HandlerFunc(h.CreateWizardNIC)))
	mux.Handle("POST /v1/vm-wizards/{wizardID}/nics/{nicID}/actions/{action}", api(http.HandlerFunc(h.PostWizardNICAction)))

	return nil
}
