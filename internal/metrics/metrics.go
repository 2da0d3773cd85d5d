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

package metrics

import (
	"context"
	"log/slog"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sudoswedenab/dockyards-console/api/apiutil"
	"github.com/sudoswedenab/dockyards-console/pkg/editdeployment"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

var (
	DeploymentListGVK       = schema.GroupVersionKind{Group: "apps", Version: "v1", Kind: "DeploymentList"}
	DeploymentConfigListGVK = schema.GroupVersionKind{Group: "apps.openshift.io", Version: "v1", Kind: "DeploymentConfigList"}
)

type PrometheusMetrics struct {
	logger           *slog.Logger
	registry         *prometheus.Registry
	controllerClient client.Client
	deploymentMetric *prometheus.GaugeVec
	formUpdateMetric *prometheus.CounterVec
	rowActionMetric  *prometheus.HistogramVec
}

type PrometheusMetricsOption func(*PrometheusMetrics)

func WithLogger(logger *slog.Logger) PrometheusMetricsOption {
	return func(m *PrometheusMetrics) {
		m.logger = logger
	}
}

func WithPrometheusRegistry(registry *prometheus.Registry) PrometheusMetricsOption {
	return func(m *PrometheusMetrics) {
		m.registry = registry
	}
}

func WithManager(mgr ctrl.Manager) PrometheusMetricsOption {
	controllerClient := mgr.GetClient()

	return func(m *PrometheusMetrics) {
		m.controllerClient = controllerClient
	}
}

func WithClient(controllerClient client.Client) PrometheusMetricsOption {
	return func(m *PrometheusMetrics) {
		m.controllerClient = controllerClient
	}
}

func NewPrometheusMetrics(prometheusMetricsOptions ...PrometheusMetricsOption) (*PrometheusMetrics, error) {
	deploymentMetric := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dockyards_console_deployment",
			Help: "Deployments and deployment configs editable through the console.",
		},
		[]string{
			"name",
			"namespace",
			"kind",
			"strategy_type",
			"image_trigger",
		},
	)

	formUpdateMetric := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dockyards_console_form_update_total",
			Help: "Edit form updates by resource and response code.",
		},
		[]string{
			"resource",
			"code",
		},
	)

	rowActionMetric := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dockyards_console_row_action_duration_seconds",
			Help:    "Duration of network interface row actions.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{
			"action",
		},
	)

	m := PrometheusMetrics{
		deploymentMetric: deploymentMetric,
		formUpdateMetric: formUpdateMetric,
		rowActionMetric:  rowActionMetric,
	}

	for _, prometheusMetricsOption := range prometheusMetricsOptions {
		prometheusMetricsOption(&m)
	}

	if m.logger == nil {
		m.logger = slog.Default()
	}

	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}

	m.registry.MustRegister(m.deploymentMetric)
	m.registry.MustRegister(m.formUpdateMetric)
	m.registry.MustRegister(m.rowActionMetric)

	buildInfo, ok := debug.ReadBuildInfo()
	if ok {
		buildMetric := prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dockyards_console_build_info",
			},
			[]string{
				"goversion",
				"revision",
			},
		)

		revision := "(unknown)"
		for _, setting := range buildInfo.Settings {
			if setting.Key == "vcs.revision" {
				revision = setting.Value
			}
		}

		labels := prometheus.Labels{
			"goversion": buildInfo.GoVersion,
			"revision":  revision,
		}

		buildMetric.With(labels).Inc()

		m.registry.MustRegister(buildMetric)
	}

	return &m, nil
}

func (m *PrometheusMetrics) setDeploymentMetrics(list *unstructured.UnstructuredList) {
	for i := range list.Items {
		item := &list.Items[i]

		formData := editdeployment.ConvertToFormData(item)

		labels := prometheus.Labels{
			"name":          item.GetName(),
			"namespace":     item.GetNamespace(),
			"kind":          item.GetKind(),
			"strategy_type": string(formData.DeploymentStrategy.Type),
			"image_trigger": strconv.FormatBool(formData.Triggers.Image),
		}

		m.deploymentMetric.With(labels).Set(1)
	}
}

func (m *PrometheusMetrics) CollectMetrics() error {
	ctx := context.Background()

	m.logger.Log(ctx, slog.LevelDebug-1, "collecting prometheus metrics")

	var deploymentList unstructured.UnstructuredList
	deploymentList.SetGroupVersionKind(DeploymentListGVK)

	err := m.controllerClient.List(ctx, &deploymentList)
	if err != nil {
		m.logger.Error("error listing deployments", "err", err)

		return err
	}

	var deploymentConfigList unstructured.UnstructuredList
	deploymentConfigList.SetGroupVersionKind(DeploymentConfigListGVK)

	err = m.controllerClient.List(ctx, &deploymentConfigList)
	if apiutil.IgnoreNoMatch(err) != nil {
		m.logger.Warn("error listing deployment configs", "err", err)
	}

	m.deploymentMetric.Reset()

	m.setDeploymentMetrics(&deploymentList)

	if err == nil {
		m.setDeploymentMetrics(&deploymentConfigList)
	}

	return nil
}

func (m *PrometheusMetrics) RecordFormUpdate(resource string, code int) {
	if m == nil {
		return
	}

	labels := prometheus.Labels{
		"resource": resource,
		"code":     strconv.Itoa(code),
	}

	m.formUpdateMetric.With(labels).Inc()
}

func (m *PrometheusMetrics) ObserveRowAction(action string, duration time.Duration) {
	if m == nil {
		return
	}

	labels := prometheus.Labels{
		"action": action,
	}

	m.rowActionMetric.With(labels).Observe(duration.Seconds())
}
