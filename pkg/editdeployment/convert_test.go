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

package editdeployment

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/util/intstr"
	"k8s.io/utils/ptr"
)

func newDeploymentConfig() *unstructured.Unstructured {
	return &unstructured.Unstructured{
		Object: map[string]any{
			"apiVersion": "apps.openshift.io/v1",
			"kind":       "DeploymentConfig",
			"metadata": map[string]any{
				"name":            "test",
				"namespace":       "testing",
				"resourceVersion": "123",
				"annotations": map[string]any{
					"app.openshift.io/vcs-uri": "https://git.example.com/test.git",
				},
				"labels": map[string]any{
					"app": "test",
				},
			},
			"spec": map[string]any{
				"paused":   false,
				"replicas": int64(3),
				"selector": map[string]any{
					"app": "test",
				},
				"strategy": map[string]any{
					"type":                  "Rolling",
					"activeDeadlineSeconds": int64(21600),
					"resources":             map[string]any{},
					"rollingParams": map[string]any{
						"intervalSeconds":     int64(1),
						"timeoutSeconds":      int64(600),
						"updatePeriodSeconds": int64(1),
						"maxSurge":            "25%",
						"maxUnavailable":      int64(1),
						"pre": map[string]any{
							"failurePolicy": "Retry",
							"execNewPod": map[string]any{
								"command": []any{
									"/bin/true",
								},
								"containerName": "test",
								"env": []any{
									map[string]any{
										"name":  "HOOK",
										"value": "pre",
									},
								},
								"volumes": []any{
									"data",
									"cache",
								},
							},
						},
					},
				},
				"template": map[string]any{
					"metadata": map[string]any{
						"labels": map[string]any{
							"app": "test",
						},
					},
					"spec": map[string]any{
						"containers": []any{
							map[string]any{
								"name":  "test",
								"image": "registry.example.com/test:v1",
								"env": []any{
									map[string]any{
										"name":  "FOO",
										"value": "bar",
									},
								},
								"ports": []any{
									map[string]any{
										"containerPort": int64(8080),
										"protocol":      "TCP",
									},
								},
							},
							map[string]any{
								"name":  "sidecar",
								"image": "registry.example.com/sidecar:latest",
							},
						},
					},
				},
				"triggers": []any{
					map[string]any{
						"type": "ConfigChange",
					},
				},
			},
		},
	}
}

func newDeployment() *unstructured.Unstructured {
	return &unstructured.Unstructured{
		Object: map[string]any{
			"apiVersion": "apps/v1",
			"kind":       "Deployment",
			"metadata": map[string]any{
				"name":            "test",
				"namespace":       "testing",
				"resourceVersion": "456",
			},
			"spec": map[string]any{
				"paused":   false,
				"replicas": int64(1),
				"strategy": map[string]any{
					"type": "RollingUpdate",
					"rollingUpdate": map[string]any{
						"maxSurge":       "25%",
						"maxUnavailable": "25%",
					},
				},
				"template": map[string]any{
					"spec": map[string]any{
						"containers": []any{
							map[string]any{
								"name":  "test",
								"image": "registry.example.com/test:v1",
							},
						},
					},
				},
			},
		},
	}
}

func TestGetResourceType(t *testing.T) {
	tt := []struct {
		name     string
		kind     string
		expected ResourceType
	}{
		{
			name:     "test deployment config",
			kind:     "DeploymentConfig",
			expected: ResourceTypeOpenShift,
		},
		{
			name:     "test deployment",
			kind:     "Deployment",
			expected: ResourceTypeKubernetes,
		},
		{
			name:     "test empty kind",
			expected: ResourceTypeKubernetes,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			var obj unstructured.Unstructured
			obj.SetKind(tc.kind)

			actual := GetResourceType(&obj)
			if actual != tc.expected {
				t.Errorf("expected %s, got %s", tc.expected, actual)
			}
		})
	}
}

func TestSplitImageName(t *testing.T) {
	tt := []struct {
		name          string
		image         string
		expectedImage string
		expectedTag   string
	}{
		{
			name:          "test image with tag",
			image:         "registry/img:v2",
			expectedImage: "registry/img",
			expectedTag:   "v2",
		},
		{
			name:          "test image without tag",
			image:         "registry/img",
			expectedImage: "registry/img",
		},
		{
			name: "test empty",
		},
		{
			name:          "test registry with port",
			image:         "registry:5000/img:v2",
			expectedImage: "registry",
			expectedTag:   "5000/img:v2",
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			image, tag := SplitImageName(tc.image)
			if image != tc.expectedImage {
				t.Errorf("expected image %q, got %q", tc.expectedImage, image)
			}

			if tag != tc.expectedTag {
				t.Errorf("expected tag %q, got %q", tc.expectedTag, tag)
			}
		})
	}
}

func TestConvertToFormData(t *testing.T) {
	t.Run("test deployment config", func(t *testing.T) {
		actual := ConvertToFormData(newDeploymentConfig())

		expected := &FormData{
			Name: "test",
			Project: Project{
				Name: "testing",
			},
			ResourceVersion: "123",
			DeploymentStrategy: DeploymentStrategy{
				Type: StrategyTypeRolling,
				RollingParams: &RollingParams{
					TimeoutSeconds:      ptr.To(int64(600)),
					UpdatePeriodSeconds: ptr.To(int64(1)),
					IntervalSeconds:     ptr.To(int64(1)),
					MaxSurge:            ptr.To(intstr.FromString("25%")),
					MaxUnavailable:      ptr.To(intstr.FromInt32(1)),
					Pre: LifecycleHookFormData{
						Lch: LifecycleHookData{
							FailurePolicy: FailurePolicyRetry,
							ExecNewPod: ExecNewPodFormData{
								Command:       []string{"/bin/true"},
								ContainerName: "test",
								Env: []corev1.EnvVar{
									{
										Name:  "HOOK",
										Value: "pre",
									},
								},
								Volumes: "data,cache",
							},
							TagImages: []TagImageHook{},
						},
						Exists: true,
						Action: LifecycleActionExecNewPod,
					},
					Post: LifecycleHookFormData{
						Lch: LifecycleHookData{
							FailurePolicy: FailurePolicyAbort,
							TagImages:     []TagImageHook{},
						},
						Action: LifecycleActionExecNewPod,
					},
				},
				ImageStreamData: &HookImageStreamDataSet{
					Pre:  newHookImageStreamData("test", "testing", nil),
					Post: newHookImageStreamData("test", "testing", nil),
				},
			},
			Containers: []corev1.Container{
				{
					Name:  "test",
					Image: "registry.example.com/test:v1",
					Env: []corev1.EnvVar{
						{
							Name:  "FOO",
							Value: "bar",
						},
					},
					Ports: []corev1.ContainerPort{
						{
							ContainerPort: 8080,
							Protocol:      corev1.ProtocolTCP,
						},
					},
				},
				{
					Name:  "sidecar",
					Image: "registry.example.com/sidecar:latest",
				},
			},
			ImageName: "registry.example.com/test:v1",
			Envs: []corev1.EnvVar{
				{
					Name:  "FOO",
					Value: "bar",
				},
			},
			Replicas: ptr.To(int32(3)),
			Triggers: Triggers{
				Config: true,
			},
			ImageSearch: newImageSearch(ImageStreamRef{}),
		}

		if !cmp.Equal(actual, expected) {
			t.Errorf("diff: %s", cmp.Diff(expected, actual))
		}
	})

	t.Run("test image trigger annotation", func(t *testing.T) {
		obj := newDeployment()
		obj.SetAnnotations(map[string]string{
			AnnotationImageTriggers: `[{"from":{"name":"ns/img:latest","namespace":"ns"},"pause":"false"}]`,
		})

		actual := ConvertToFormData(obj)

		expectedTriggers := Triggers{
			Image: true,
		}

		if !cmp.Equal(actual.Triggers, expectedTriggers) {
			t.Errorf("diff: %s", cmp.Diff(expectedTriggers, actual.Triggers))
		}

		expectedImageStream := ImageStreamRef{
			Namespace: "ns",
			Image:     "ns/img",
			Tag:       "latest",
		}

		if !cmp.Equal(actual.ImageStream, expectedImageStream) {
			t.Errorf("diff: %s", cmp.Diff(expectedImageStream, actual.ImageStream))
		}

		if !actual.FromImageStreamTag {
			t.Error("expected from image stream tag")
		}
	})

	t.Run("test paused image trigger annotation", func(t *testing.T) {
		obj := newDeployment()
		obj.SetAnnotations(map[string]string{
			AnnotationImageTriggers: `[{"from":{"name":"img:latest","namespace":"ns"},"pause":"true"}]`,
		})

		actual := ConvertToFormData(obj)

		if actual.Triggers.Image {
			t.Error("expected image trigger to be paused")
		}

		if !actual.FromImageStreamTag {
			t.Error("expected from image stream tag")
		}
	})

	t.Run("test missing image trigger annotation", func(t *testing.T) {
		actual := ConvertToFormData(newDeployment())

		if !cmp.Equal(actual.Triggers, Triggers{}) {
			t.Errorf("diff: %s", cmp.Diff(Triggers{}, actual.Triggers))
		}

		if actual.FromImageStreamTag {
			t.Error("expected not from image stream tag")
		}
	})

	t.Run("test invalid image trigger annotation", func(t *testing.T) {
		obj := newDeployment()
		obj.SetAnnotations(map[string]string{
			AnnotationImageTriggers: `{"from":`,
		})

		actual := ConvertToFormData(obj)

		if actual.Triggers.Image || actual.FromImageStreamTag {
			t.Error("expected no image trigger")
		}
	})

	t.Run("test deployment recreate strategy", func(t *testing.T) {
		obj := newDeployment()
		obj.Object["spec"].(map[string]any)["strategy"] = map[string]any{
			"type": "Recreate",
		}

		actual := ConvertToFormData(obj)

		expected := DeploymentStrategy{
			Type: StrategyTypeRecreate,
		}

		if !cmp.Equal(actual.DeploymentStrategy, expected) {
			t.Errorf("diff: %s", cmp.Diff(expected, actual.DeploymentStrategy))
		}
	})

	t.Run("test default strategy type", func(t *testing.T) {
		dc := newDeploymentConfig()
		delete(dc.Object["spec"].(map[string]any), "strategy")

		actual := ConvertToFormData(dc)
		if actual.DeploymentStrategy.Type != StrategyTypeRolling {
			t.Errorf("expected %s, got %s", StrategyTypeRolling, actual.DeploymentStrategy.Type)
		}

		deployment := newDeployment()
		delete(deployment.Object["spec"].(map[string]any), "strategy")

		actual = ConvertToFormData(deployment)
		if actual.DeploymentStrategy.Type != StrategyTypeRollingUpdate {
			t.Errorf("expected %s, got %s", StrategyTypeRollingUpdate, actual.DeploymentStrategy.Type)
		}
	})

	t.Run("test image change trigger", func(t *testing.T) {
		obj := newDeploymentConfig()
		obj.Object["spec"].(map[string]any)["triggers"] = []any{
			map[string]any{
				"type": "ImageChange",
				"imageChangeParams": map[string]any{
					"automatic": true,
					"containerNames": []any{
						"test",
					},
					"from": map[string]any{
						"kind":      "ImageStreamTag",
						"name":      "test:v2",
						"namespace": "images",
					},
				},
			},
		}

		actual := ConvertToFormData(obj)

		expectedTriggers := Triggers{
			Image: true,
		}

		if !cmp.Equal(actual.Triggers, expectedTriggers) {
			t.Errorf("diff: %s", cmp.Diff(expectedTriggers, actual.Triggers))
		}

		expectedImageStream := ImageStreamRef{
			Namespace: "images",
			Image:     "test",
			Tag:       "v2",
		}

		if !cmp.Equal(actual.ImageStream, expectedImageStream) {
			t.Errorf("diff: %s", cmp.Diff(expectedImageStream, actual.ImageStream))
		}
	})

	t.Run("test idempotence", func(t *testing.T) {
		obj := newDeploymentConfig()

		first := ConvertToFormData(obj)
		second := ConvertToFormData(obj)

		if !cmp.Equal(first, second) {
			t.Errorf("diff: %s", cmp.Diff(first, second))
		}
	})
}

func TestConvertToResource(t *testing.T) {
	t.Run("test round trip deployment config", func(t *testing.T) {
		obj := newDeploymentConfig()

		actual := ConvertToResource(ConvertToFormData(obj), obj)

		expected := newDeploymentConfig()

		if !cmp.Equal(actual, expected) {
			t.Errorf("diff: %s", cmp.Diff(expected, actual))
		}
	})

	t.Run("test round trip deployment", func(t *testing.T) {
		obj := newDeployment()

		actual := ConvertToResource(ConvertToFormData(obj), obj)

		expected := newDeployment()

		if !cmp.Equal(actual, expected) {
			t.Errorf("diff: %s", cmp.Diff(expected, actual))
		}
	})

	t.Run("test inputs are not modified", func(t *testing.T) {
		obj := newDeploymentConfig()
		formData := ConvertToFormData(obj)
		formData.ImageName = "registry.example.com/test:v2"
		formData.Envs = nil
		formData.DeploymentStrategy.RollingParams.Pre.Exists = false

		_ = ConvertToResource(formData, obj)

		expected := newDeploymentConfig()

		if !cmp.Equal(obj, expected) {
			t.Errorf("diff: %s", cmp.Diff(expected, obj))
		}
	})

	t.Run("test first container overlay", func(t *testing.T) {
		obj := newDeploymentConfig()
		formData := ConvertToFormData(obj)
		formData.ImageName = "registry.example.com/test:v2"
		formData.Envs = []corev1.EnvVar{
			{
				Name:  "BAR",
				Value: "baz",
			},
		}

		actual := ConvertToResource(formData, obj)

		containers, _, _ := unstructured.NestedSlice(actual.Object, "spec", "template", "spec", "containers")

		expected := []any{
			map[string]any{
				"name":  "test",
				"image": "registry.example.com/test:v2",
				"env": []any{
					map[string]any{
						"name":  "BAR",
						"value": "baz",
					},
				},
				"ports": []any{
					map[string]any{
						"containerPort": int64(8080),
						"protocol":      "TCP",
					},
				},
			},
			map[string]any{
				"name":  "sidecar",
				"image": "registry.example.com/sidecar:latest",
			},
		}

		if !cmp.Equal(containers, expected) {
			t.Errorf("diff: %s", cmp.Diff(expected, containers))
		}
	})

	t.Run("test resolved image stream image", func(t *testing.T) {
		obj := newDeploymentConfig()
		formData := ConvertToFormData(obj)
		formData.FromImageStreamTag = true
		formData.Triggers.Image = true
		formData.ImageStream = ImageStreamRef{
			Namespace: "images",
			Image:     "test",
			Tag:       "v2",
		}
		formData.ISI.Image = Image{
			Name:                 "sha256:1234",
			DockerImageReference: "image-registry.example.com/images/test@sha256:1234",
		}

		actual := ConvertToResource(formData, obj)

		containers, _, _ := unstructured.NestedSlice(actual.Object, "spec", "template", "spec", "containers")

		image, _, _ := unstructured.NestedString(containers[0].(map[string]any), "image")
		if image != "image-registry.example.com/images/test@sha256:1234" {
			t.Errorf("unexpected image %s", image)
		}

		triggers, _, _ := unstructured.NestedSlice(actual.Object, "spec", "triggers")

		expected := []any{
			map[string]any{
				"type": "ImageChange",
				"imageChangeParams": map[string]any{
					"automatic": true,
					"containerNames": []any{
						"test",
					},
					"from": map[string]any{
						"kind":      "ImageStreamTag",
						"name":      "test:v2",
						"namespace": "images",
					},
				},
			},
			map[string]any{
				"type": "ConfigChange",
			},
		}

		if !cmp.Equal(triggers, expected) {
			t.Errorf("diff: %s", cmp.Diff(expected, triggers))
		}
	})

	t.Run("test unresolved image stream image", func(t *testing.T) {
		obj := newDeploymentConfig()
		formData := ConvertToFormData(obj)
		formData.FromImageStreamTag = true
		formData.Triggers.Config = false

		actual := ConvertToResource(formData, obj)

		triggers, _, _ := unstructured.NestedSlice(actual.Object, "spec", "triggers")
		if len(triggers) != 0 {
			t.Errorf("expected no triggers, got %v", triggers)
		}
	})

	t.Run("test deployment trigger annotation", func(t *testing.T) {
		obj := newDeployment()
		formData := ConvertToFormData(obj)
		formData.FromImageStreamTag = true
		formData.Triggers.Image = true
		formData.ImageStream = ImageStreamRef{
			Namespace: "testing",
			Image:     "test",
		}
		formData.ISI.Image = Image{
			DockerImageReference: "image-registry.example.com/testing/test@sha256:1234",
		}

		actual := ConvertToResource(formData, obj)

		expected := map[string]string{
			AnnotationImageTriggers: `[{"from":{"kind":"ImageStreamTag","name":"test:latest","namespace":"testing"},"fieldPath":"spec.template.spec.containers[?(@.name==\"test\")].image","pause":"false"}]`,
		}

		if !cmp.Equal(actual.GetAnnotations(), expected) {
			t.Errorf("diff: %s", cmp.Diff(expected, actual.GetAnnotations()))
		}
	})

	t.Run("test image pull secret is appended", func(t *testing.T) {
		obj := newDeployment()
		templateSpec := obj.Object["spec"].(map[string]any)["template"].(map[string]any)["spec"].(map[string]any)
		templateSpec["imagePullSecrets"] = []any{
			map[string]any{
				"name": "registry",
			},
		}

		formData := ConvertToFormData(obj)
		if formData.ImagePullSecret != "registry" {
			t.Fatalf("expected image pull secret registry, got %s", formData.ImagePullSecret)
		}

		actual := ConvertToResource(formData, obj)

		imagePullSecrets, _, _ := unstructured.NestedSlice(actual.Object, "spec", "template", "spec", "imagePullSecrets")

		expected := []any{
			map[string]any{
				"name": "registry",
			},
			map[string]any{
				"name": "registry",
			},
		}

		if !cmp.Equal(imagePullSecrets, expected) {
			t.Errorf("diff: %s", cmp.Diff(expected, imagePullSecrets))
		}
	})

	t.Run("test deployment recreate strategy", func(t *testing.T) {
		obj := newDeployment()
		formData := ConvertToFormData(obj)
		formData.DeploymentStrategy = DeploymentStrategy{
			Type: StrategyTypeRecreate,
			RecreateParams: &RecreateParams{
				TimeoutSeconds: ptr.To(int64(60)),
			},
		}

		actual := ConvertToResource(formData, obj)

		strategy, _, _ := unstructured.NestedMap(actual.Object, "spec", "strategy")

		expected := map[string]any{
			"type": "Recreate",
		}

		if !cmp.Equal(strategy, expected) {
			t.Errorf("diff: %s", cmp.Diff(expected, strategy))
		}
	})

	t.Run("test replicas", func(t *testing.T) {
		obj := newDeployment()
		formData := ConvertToFormData(obj)
		formData.Replicas = ptr.To(int32(5))
		formData.Paused = true

		actual := ConvertToResource(formData, obj)

		replicas, _, _ := unstructured.NestedInt64(actual.Object, "spec", "replicas")
		if replicas != 5 {
			t.Errorf("expected 5 replicas, got %d", replicas)
		}

		paused, _, _ := unstructured.NestedBool(actual.Object, "spec", "paused")
		if !paused {
			t.Error("expected paused")
		}
	})
}

func TestGetUpdatedStrategyMaxSurge(t *testing.T) {
	tt := []struct {
		name     string
		maxSurge *intstr.IntOrString
		expected map[string]any
	}{
		{
			name:     "test percentage",
			maxSurge: ptr.To(intstr.FromString("25%")),
			expected: map[string]any{
				"maxSurge": "25%",
			},
		},
		{
			name:     "test integer string",
			maxSurge: ptr.To(intstr.FromString("3")),
			expected: map[string]any{
				"maxSurge": int64(3),
			},
		},
		{
			name:     "test integer",
			maxSurge: ptr.To(intstr.FromInt32(2)),
			expected: map[string]any{
				"maxSurge": int64(2),
			},
		},
		{
			name:     "test empty string",
			maxSurge: ptr.To(intstr.FromString("")),
			expected: map[string]any{},
		},
		{
			name:     "test zero",
			maxSurge: ptr.To(intstr.FromInt32(0)),
			expected: map[string]any{},
		},
		{
			name:     "test zero string",
			maxSurge: ptr.To(intstr.FromString("0")),
			expected: map[string]any{},
		},
		{
			name:     "test nil",
			expected: map[string]any{},
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			formData := DeploymentStrategy{
				Type: StrategyTypeRollingUpdate,
				RollingUpdate: &RollingUpdate{
					MaxSurge: tc.maxSurge,
				},
			}

			original := map[string]any{
				"type": "RollingUpdate",
				"rollingUpdate": map[string]any{
					"maxSurge": "50%",
				},
			}

			actual := getUpdatedStrategy(formData, original, ResourceTypeKubernetes)

			expected := map[string]any{
				"type":          "RollingUpdate",
				"rollingUpdate": tc.expected,
			}

			if !cmp.Equal(actual, expected) {
				t.Errorf("diff: %s", cmp.Diff(expected, actual))
			}
		})
	}
}

func TestGetUpdatedStrategyHooks(t *testing.T) {
	t.Run("test hook that does not exist", func(t *testing.T) {
		formData := DeploymentStrategy{
			Type: StrategyTypeRecreate,
			RecreateParams: &RecreateParams{
				Pre: LifecycleHookFormData{
					Lch: LifecycleHookData{
						FailurePolicy: FailurePolicyIgnore,
						ExecNewPod: ExecNewPodFormData{
							Command:       []string{"/bin/false"},
							ContainerName: "test",
						},
					},
					Exists: false,
					Action: LifecycleActionExecNewPod,
				},
			},
		}

		original := map[string]any{
			"type": "Recreate",
			"recreateParams": map[string]any{
				"pre": map[string]any{
					"failurePolicy": "Abort",
				},
			},
		}

		actual := getUpdatedStrategy(formData, original, ResourceTypeOpenShift)

		expected := map[string]any{
			"type":           "Recreate",
			"recreateParams": map[string]any{},
		}

		if !cmp.Equal(actual, expected) {
			t.Errorf("diff: %s", cmp.Diff(expected, actual))
		}
	})

	t.Run("test exec new pod without volumes", func(t *testing.T) {
		formData := DeploymentStrategy{
			Type: StrategyTypeRecreate,
			RecreateParams: &RecreateParams{
				Mid: LifecycleHookFormData{
					Lch: LifecycleHookData{
						ExecNewPod: ExecNewPodFormData{
							Command:       []string{"/bin/migrate"},
							ContainerName: "test",
						},
						TagImages: []TagImageHook{
							{
								ContainerName: "ignored",
							},
						},
					},
					Exists: true,
					Action: LifecycleActionExecNewPod,
				},
			},
		}

		actual := getUpdatedStrategy(formData, nil, ResourceTypeOpenShift)

		expected := map[string]any{
			"type": "Recreate",
			"recreateParams": map[string]any{
				"mid": map[string]any{
					"failurePolicy": "Abort",
					"execNewPod": map[string]any{
						"command": []any{
							"/bin/migrate",
						},
						"containerName": "test",
						"volumes":       []any{},
					},
				},
			},
		}

		if !cmp.Equal(actual, expected) {
			t.Errorf("diff: %s", cmp.Diff(expected, actual))
		}
	})

	t.Run("test exec new pod without container name", func(t *testing.T) {
		formData := DeploymentStrategy{
			Type: StrategyTypeRecreate,
			RecreateParams: &RecreateParams{
				Pre: LifecycleHookFormData{
					Lch: LifecycleHookData{
						FailurePolicy: FailurePolicyRetry,
						ExecNewPod: ExecNewPodFormData{
							Volumes: "data",
						},
					},
					Exists: true,
					Action: LifecycleActionExecNewPod,
				},
			},
		}

		actual := getUpdatedStrategy(formData, nil, ResourceTypeOpenShift)

		expected := map[string]any{
			"type": "Recreate",
			"recreateParams": map[string]any{
				"pre": map[string]any{
					"failurePolicy": "Retry",
					"execNewPod": map[string]any{
						"volumes": []any{
							"data",
						},
					},
				},
			},
		}

		if !cmp.Equal(actual, expected) {
			t.Errorf("diff: %s", cmp.Diff(expected, actual))
		}
	})

	t.Run("test tag images from image stream tag", func(t *testing.T) {
		formData := DeploymentStrategy{
			Type: StrategyTypeRolling,
			RollingParams: &RollingParams{
				Post: LifecycleHookFormData{
					Lch: LifecycleHookData{
						FailurePolicy: FailurePolicyRetry,
					},
					Exists: true,
					Action: LifecycleActionTagImages,
				},
			},
			ImageStreamData: &HookImageStreamDataSet{
				Pre: &HookImageStreamData{
					ContainerName: "wrong",
				},
				Post: &HookImageStreamData{
					ContainerName: "test",
					ImageStreamTag: ImageStreamTag{
						APIVersion: "image.openshift.io/v1",
						Kind:       "ImageStreamTag",
						Metadata: &ObjectMetadata{
							Name:            "test:prod",
							Namespace:       "images",
							ResourceVersion: "42",
							UID:             "4a2a0e4f-0e0b-4c55-a0a7-2d2b0b7b9a10",
						},
					},
				},
			},
		}

		actual := getUpdatedStrategy(formData, nil, ResourceTypeOpenShift)

		expected := map[string]any{
			"type": "Rolling",
			"rollingParams": map[string]any{
				"post": map[string]any{
					"failurePolicy": "Retry",
					"tagImages": []any{
						map[string]any{
							"containerName": "test",
							"to": map[string]any{
								"apiVersion":      "image.openshift.io/v1",
								"kind":            "ImageStreamTag",
								"name":            "test:prod",
								"namespace":       "images",
								"resourceVersion": "42",
								"uid":             "4a2a0e4f-0e0b-4c55-a0a7-2d2b0b7b9a10",
							},
						},
					},
				},
			},
		}

		if !cmp.Equal(actual, expected) {
			t.Errorf("diff: %s", cmp.Diff(expected, actual))
		}
	})

	t.Run("test edited tag images target", func(t *testing.T) {
		formData := DeploymentStrategy{
			Type: StrategyTypeRecreate,
			RecreateParams: &RecreateParams{
				Pre: LifecycleHookFormData{
					Exists: true,
					Action: LifecycleActionTagImages,
				},
			},
			ImageStreamData: &HookImageStreamDataSet{
				Pre: &HookImageStreamData{
					ContainerName: "test",
					To: corev1.ObjectReference{
						Kind: "ImageStreamTag",
						Name: "test:edited",
					},
					ImageStreamTag: ImageStreamTag{
						Metadata: &ObjectMetadata{
							Name: "test:resolved",
						},
					},
				},
			},
		}

		actual := getUpdatedStrategy(formData, nil, ResourceTypeOpenShift)

		tagImages, _, _ := unstructured.NestedSlice(actual, "recreateParams", "pre", "tagImages")

		expected := []any{
			map[string]any{
				"containerName": "test",
				"to": map[string]any{
					"kind": "ImageStreamTag",
					"name": "test:edited",
				},
			},
		}

		if !cmp.Equal(tagImages, expected) {
			t.Errorf("diff: %s", cmp.Diff(expected, tagImages))
		}
	})

	t.Run("test unexposed params are kept", func(t *testing.T) {
		formData := DeploymentStrategy{
			Type: StrategyTypeRolling,
			RollingParams: &RollingParams{
				TimeoutSeconds: ptr.To(int64(300)),
			},
		}

		original := map[string]any{
			"type": "Recreate",
			"recreateParams": map[string]any{
				"timeoutSeconds": int64(600),
			},
			"rollingParams": map[string]any{
				"timeoutSeconds": int64(600),
				"updatePercent":  int64(-20),
			},
			"labels": map[string]any{
				"app": "test",
			},
		}

		actual := getUpdatedStrategy(formData, original, ResourceTypeOpenShift)

		expected := map[string]any{
			"type": "Rolling",
			"rollingParams": map[string]any{
				"timeoutSeconds": int64(300),
				"updatePercent":  int64(-20),
			},
			"labels": map[string]any{
				"app": "test",
			},
		}

		if !cmp.Equal(actual, expected) {
			t.Errorf("diff: %s", cmp.Diff(expected, actual))
		}
	})
}

func TestConvertNil(t *testing.T) {
	t.Run("test nil resource to form data", func(t *testing.T) {
		actual := ConvertToFormData(nil)

		if actual.DeploymentStrategy.Type != StrategyTypeRollingUpdate {
			t.Errorf("expected strategy type %s, got %s", StrategyTypeRollingUpdate, actual.DeploymentStrategy.Type)
		}

		if len(actual.Containers) != 0 {
			t.Errorf("expected no containers, got %d", len(actual.Containers))
		}
	})

	t.Run("test nil form data", func(t *testing.T) {
		obj := newDeployment()

		actual := ConvertToResource(nil, obj)

		expected := newDeployment()

		if !cmp.Equal(actual, expected) {
			t.Errorf("diff: %s", cmp.Diff(expected, actual))
		}
	})

	t.Run("test nil resource", func(t *testing.T) {
		formData := FormData{
			Replicas: ptr.To(int32(2)),
		}

		actual := ConvertToResource(&formData, nil)

		replicas, _, _ := unstructured.NestedInt64(actual.Object, "spec", "replicas")
		if replicas != 2 {
			t.Errorf("expected replicas 2, got %d", replicas)
		}
	})
}

func TestNestedIntOrString(t *testing.T) {
	tt := []struct {
		name     string
		value    any
		expected *intstr.IntOrString
	}{
		{
			name:     "test percentage",
			value:    "25%",
			expected: ptr.To(intstr.FromString("25%")),
		},
		{
			name:     "test int64",
			value:    int64(3),
			expected: ptr.To(intstr.FromInt32(3)),
		},
		{
			name:     "test int32",
			value:    int32(4),
			expected: ptr.To(intstr.FromInt32(4)),
		},
		{
			name:     "test float64",
			value:    float64(5),
			expected: ptr.To(intstr.FromInt32(5)),
		},
		{
			name:  "test int64 out of range",
			value: int64(math.MaxInt32) + 1,
		},
		{
			name:  "test float64 out of range",
			value: float64(math.MinInt32) - 1,
		},
		{
			name:  "test unsupported type",
			value: true,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			obj := map[string]any{
				"maxSurge": tc.value,
			}

			actual := nestedIntOrString(obj, "maxSurge")
			if !cmp.Equal(actual, tc.expected) {
				t.Errorf("diff: %s", cmp.Diff(tc.expected, actual))
			}
		})
	}
}
