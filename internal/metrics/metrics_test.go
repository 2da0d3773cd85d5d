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
	"log/slog"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	appsv1 "k8s.io/api/apps/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/scheme"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"
)

func TestCollectMetrics(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	deployments := appsv1.DeploymentList{
		Items: []appsv1.Deployment{
			{
				ObjectMeta: metav1.ObjectMeta{
					Name:      "rolling",
					Namespace: "testing",
					Annotations: map[string]string{
						"image.openshift.io/triggers": `[{"from":{"kind":"ImageStreamTag","name":"test:latest","namespace":"testing"},"pause":"false"}]`,
					},
				},
				Spec: appsv1.DeploymentSpec{
					Strategy: appsv1.DeploymentStrategy{
						Type: appsv1.RollingUpdateDeploymentStrategyType,
					},
				},
			},
			{
				ObjectMeta: metav1.ObjectMeta{
					Name:      "recreate",
					Namespace: "testing",
				},
				Spec: appsv1.DeploymentSpec{
					Strategy: appsv1.DeploymentStrategy{
						Type: appsv1.RecreateDeploymentStrategyType,
					},
				},
			},
		},
	}

	fakeClient := fake.NewClientBuilder().WithScheme(scheme.Scheme).WithLists(&deployments).Build()

	m, err := NewPrometheusMetrics(
		WithLogger(logger),
		WithPrometheusRegistry(prometheus.NewRegistry()),
		WithClient(fakeClient),
	)
	if err != nil {
		t.Fatal(err)
	}

	err = m.CollectMetrics()
	if err != nil {
		t.Fatal(err)
	}

	tt := []struct {
		name   string
		labels prometheus.Labels
	}{
		{
			name: "test rolling update with image trigger",
			labels: prometheus.Labels{
				"name":          "rolling",
				"namespace":     "testing",
				"kind":          "Deployment",
				"strategy_type": "RollingUpdate",
				"image_trigger": "true",
			},
		},
		{
			name: "test recreate",
			labels: prometheus.Labels{
				"name":          "recreate",
				"namespace":     "testing",
				"kind":          "Deployment",
				"strategy_type": "Recreate",
				"image_trigger": "false",
			},
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			actual := testutil.ToFloat64(m.deploymentMetric.With(tc.labels))
			if actual != 1 {
				t.Errorf("expected 1, got %f", actual)
			}
		})
	}

	count := testutil.CollectAndCount(m.deploymentMetric)
	if count != 2 {
		t.Errorf("expected 2 deployment series, got %d", count)
	}
}

func TestRecordFormUpdate(t *testing.T) {
	m, err := NewPrometheusMetrics(WithPrometheusRegistry(prometheus.NewRegistry()))
	if err != nil {
		t.Fatal(err)
	}

	m.RecordFormUpdate("deployments", http.StatusAccepted)
	m.RecordFormUpdate("deployments", http.StatusAccepted)
	m.RecordFormUpdate("deployments", http.StatusConflict)

	actual := testutil.ToFloat64(m.formUpdateMetric.With(prometheus.Labels{"resource": "deployments", "code": "202"}))
	if actual != 2 {
		t.Errorf("expected 2, got %f", actual)
	}

	actual = testutil.ToFloat64(m.formUpdateMetric.With(prometheus.Labels{"resource": "deployments", "code": "409"}))
	if actual != 1 {
		t.Errorf("expected 1, got %f", actual)
	}
}

func TestObserveRowAction(t *testing.T) {
	m, err := NewPrometheusMetrics(WithPrometheusRegistry(prometheus.NewRegistry()))
	if err != nil {
		t.Fatal(err)
	}

	m.ObserveRowAction("delete", time.Millisecond)

	count := testutil.CollectAndCount(m.rowActionMetric)
	if count != 1 {
		t.Errorf("expected 1 row action series, got %d", count)
	}
}
