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
	"encoding/json"
	"fmt"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

type triggerValues struct {
	triggers           Triggers
	fromImageStreamTag bool
	imageSearch        ImageSearch
}

type imageTriggerFrom struct {
	Kind      string `json:"kind"`
	Name      string `json:"name"`
	Namespace string `json:"namespace"`
}

// imageTrigger is the single entry written to the image trigger annotation.
type imageTrigger struct {
	From      imageTriggerFrom `json:"from"`
	FieldPath string           `json:"fieldPath"`
	Pause     string           `json:"pause"`
}

func getTriggersAndImageStreamValues(obj *unstructured.Unstructured, resourceType ResourceType) triggerValues {
	if resourceType == ResourceTypeOpenShift {
		return getDeploymentConfigTriggers(obj)
	}

	return getAnnotationTriggers(obj)
}

func getDeploymentConfigTriggers(obj *unstructured.Unstructured) triggerValues {
	var values triggerValues
	var imageChange map[string]any

	for _, v := range nestedSlice(obj.Object, "spec", "triggers") {
		trigger, ok := v.(map[string]any)
		if !ok {
			continue
		}

		switch nestedString(trigger, "type") {
		case TriggerTypeImageChange:
			if imageChange == nil {
				imageChange = trigger
			}

			if nestedBool(trigger, "imageChangeParams", "automatic") {
				values.triggers.Image = true
			}
		case TriggerTypeConfigChange:
			values.triggers.Config = true
		}
	}

	image, tag := SplitImageName(nestedString(imageChange, "imageChangeParams", "from", "name"))

	values.fromImageStreamTag = imageChange != nil
	values.imageSearch = newImageSearch(ImageStreamRef{
		Namespace: nestedString(imageChange, "imageChangeParams", "from", "namespace"),
		Image:     image,
		Tag:       tag,
	})

	return values
}

// decodeTriggerAnnotation returns the first entry of the image trigger
// annotation. Missing or unparseable annotations have no entry.
func decodeTriggerAnnotation(annotations map[string]string) map[string]any {
	value, has := annotations[AnnotationImageTriggers]
	if !has {
		return nil
	}

	var entries []any
	err := json.Unmarshal([]byte(value), &entries)
	if err != nil || len(entries) == 0 {
		return nil
	}

	entry, ok := entries[0].(map[string]any)
	if !ok {
		return nil
	}

	return entry
}

func getAnnotationTriggers(obj *unstructured.Unstructured) triggerValues {
	var values triggerValues

	entry := decodeTriggerAnnotation(obj.GetAnnotations())

	image, tag := SplitImageName(nestedString(entry, "from", "name"))

	values.triggers.Image = nestedString(entry, "pause") == "false"
	values.fromImageStreamTag = entry != nil
	values.imageSearch = newImageSearch(ImageStreamRef{
		Namespace: nestedString(entry, "from", "namespace"),
		Image:     image,
		Tag:       tag,
	})

	return values
}

// GetTriggerAnnotation encodes an image trigger for the named container. An
// empty tag means latest.
func GetTriggerAnnotation(containerName, image, namespace string, automatic bool, tag string) string {
	if tag == "" {
		tag = "latest"
	}

	entries := []imageTrigger{
		{
			From: imageTriggerFrom{
				Kind:      ImageStreamTagKind,
				Name:      image + ":" + tag,
				Namespace: namespace,
			},
			FieldPath: fmt.Sprintf("spec.template.spec.containers[?(@.name==%q)].image", containerName),
			Pause:     fmt.Sprintf("%t", !automatic),
		},
	}

	b, err := json.Marshal(entries)
	if err != nil {
		return "[]"
	}

	return string(b)
}

func getUpdatedDeploymentConfigTriggers(formData *FormData, containerName string) []any {
	triggers := []any{}

	if formData.FromImageStreamTag && !formData.ISI.Image.IsZero() {
		imageStream := formData.ImageStream

		triggers = append(triggers, map[string]any{
			"type": TriggerTypeImageChange,
			"imageChangeParams": map[string]any{
				"automatic":      formData.Triggers.Image,
				"containerNames": []any{containerName},
				"from": map[string]any{
					"kind":      ImageStreamTagKind,
					"name":      imageStream.Image + ":" + imageStream.Tag,
					"namespace": imageStream.Namespace,
				},
			},
		})
	}

	if formData.Triggers.Config {
		triggers = append(triggers, map[string]any{
			"type": TriggerTypeConfigChange,
		})
	}

	return triggers
}
