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
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
)

func getContainers(obj *unstructured.Unstructured) []corev1.Container {
	containers := fromUnstructuredSlice[corev1.Container](nestedSlice(obj.Object, "spec", "template", "spec", "containers"))
	if containers == nil {
		return []corev1.Container{}
	}

	return containers
}

func getImagePullSecret(obj *unstructured.Unstructured) string {
	imagePullSecrets := nestedSlice(obj.Object, "spec", "template", "spec", "imagePullSecrets")
	if len(imagePullSecrets) == 0 {
		return ""
	}

	imagePullSecret, ok := imagePullSecrets[0].(map[string]any)
	if !ok {
		return ""
	}

	return nestedString(imagePullSecret, "name")
}

// getContainerImage returns the image of the first container, the resolved image
// stream image when one is selected and the free text name otherwise.
func getContainerImage(formData *FormData) string {
	if formData.FromImageStreamTag && !formData.ISI.Image.IsZero() {
		return formData.ISI.Image.DockerImageReference
	}

	return formData.ImageName
}

// getUpdatedContainers overlays the image and env of the first container. The
// containers of the resource are used so that fields outside the form survive.
func getUpdatedContainers(formData *FormData, original []any) []any {
	var containers []any
	if len(original) > 0 {
		containers = runtime.DeepCopyJSONValue(original).([]any)
	} else {
		containers = toUnstructuredSlice(formData.Containers)
	}

	container := make(map[string]any)
	if len(containers) > 0 {
		m, ok := containers[0].(map[string]any)
		if ok {
			container = m
		}
	} else {
		containers = []any{container}
	}

	container["image"] = getContainerImage(formData)

	if len(formData.Envs) > 0 {
		container["env"] = toUnstructuredSlice(formData.Envs)
	} else {
		delete(container, "env")
	}

	containers[0] = container

	return containers
}

func getUpdatedImagePullSecrets(formData *FormData, original []any) []any {
	imagePullSecrets := []any{}
	if len(original) > 0 {
		imagePullSecrets = runtime.DeepCopyJSONValue(original).([]any)
	}

	if formData.ImagePullSecret != "" {
		imagePullSecrets = append(imagePullSecrets, map[string]any{
			"name": formData.ImagePullSecret,
		})
	}

	return imagePullSecrets
}

func firstContainerName(containers []any) string {
	if len(containers) == 0 {
		return ""
	}

	container, ok := containers[0].(map[string]any)
	if !ok {
		return ""
	}

	return nestedString(container, "name")
}
