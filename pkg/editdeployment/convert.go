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
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/utils/ptr"
)

// ConvertToFormData projects a Deployment or DeploymentConfig onto the edit form.
func ConvertToFormData(obj *unstructured.Unstructured) *FormData {
	if obj == nil {
		obj = &unstructured.Unstructured{}
	}

	resourceType := GetResourceType(obj)

	containers := getContainers(obj)

	formData := FormData{
		Name: obj.GetName(),
		Project: Project{
			Name: obj.GetNamespace(),
		},
		ResourceVersion:    obj.GetResourceVersion(),
		DeploymentStrategy: getStrategy(obj, resourceType),
		Containers:         containers,
		ImagePullSecret:    getImagePullSecret(obj),
		Paused:             nestedBool(obj.Object, "spec", "paused"),
	}

	if len(containers) > 0 {
		formData.ImageName = containers[0].Image
		formData.Envs = containers[0].Env
	}

	replicas, has := nestedInt64(obj.Object, "spec", "replicas")
	if has {
		formData.Replicas = ptr.To(int32(replicas))
	}

	values := getTriggersAndImageStreamValues(obj, resourceType)

	formData.Triggers = values.triggers
	formData.FromImageStreamTag = values.fromImageStreamTag
	formData.ImageSearch = values.imageSearch

	return &formData
}

// ConvertToResource applies the form to an owned copy of obj. Neither argument is
// modified. A nil form returns the copy unchanged.
func ConvertToResource(formData *FormData, obj *unstructured.Unstructured) *unstructured.Unstructured {
	if obj == nil {
		obj = &unstructured.Unstructured{}
	}

	if formData == nil {
		return obj.DeepCopy()
	}

	resourceType := GetResourceType(obj)

	updated := obj.DeepCopy()
	if updated.Object == nil {
		updated.Object = make(map[string]any)
	}

	spec := nestedMap(updated.Object, "spec")
	if spec == nil {
		spec = make(map[string]any)
		updated.Object["spec"] = spec
	}

	spec["paused"] = formData.Paused

	if formData.Replicas != nil {
		spec["replicas"] = int64(*formData.Replicas)
	} else {
		delete(spec, "replicas")
	}

	spec["strategy"] = getUpdatedStrategy(formData.DeploymentStrategy, nestedMap(obj.Object, "spec", "strategy"), resourceType)

	containers := getUpdatedContainers(formData, nestedSlice(obj.Object, "spec", "template", "spec", "containers"))

	setNestedField(spec, containers, "template", "spec", "containers")

	imagePullSecrets := getUpdatedImagePullSecrets(formData, nestedSlice(obj.Object, "spec", "template", "spec", "imagePullSecrets"))
	if len(imagePullSecrets) > 0 {
		setNestedField(spec, imagePullSecrets, "template", "spec", "imagePullSecrets")
	}

	containerName := firstContainerName(containers)

	if resourceType == ResourceTypeOpenShift {
		spec["triggers"] = getUpdatedDeploymentConfigTriggers(formData, containerName)

		return updated
	}

	if formData.FromImageStreamTag && !formData.ISI.Image.IsZero() {
		imageStream := formData.ImageStream

		annotations := updated.GetAnnotations()
		if annotations == nil {
			annotations = make(map[string]string)
		}

		annotations[AnnotationImageTriggers] = GetTriggerAnnotation(containerName, imageStream.Image, imageStream.Namespace, formData.Triggers.Image, imageStream.Tag)

		updated.SetAnnotations(annotations)
	}

	return updated
}
