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
	"slices"
	"strings"

	corev1 "k8s.io/api/core/v1"
)

// lifecycleHook is the resource encoding of a hook. Only one of ExecNewPod and
// TagImages is set on a well formed hook.
type lifecycleHook struct {
	FailurePolicy FailurePolicy   `json:"failurePolicy,omitempty"`
	ExecNewPod    *execNewPodHook `json:"execNewPod,omitempty"`
	TagImages     []TagImageHook  `json:"tagImages,omitempty"`
}

type execNewPodHook struct {
	Command       []string        `json:"command,omitempty"`
	Env           []corev1.EnvVar `json:"env,omitempty"`
	ContainerName string          `json:"containerName,omitempty"`
	Volumes       []string        `json:"volumes,omitempty"`
}

func hookAction(raw map[string]any) LifecycleAction {
	_, hasTagImages := raw[string(LifecycleActionTagImages)]
	if hasTagImages {
		return LifecycleActionTagImages
	}

	return LifecycleActionExecNewPod
}

func getLifecycleHookData(raw map[string]any) LifecycleHookData {
	var hook lifecycleHook
	if raw != nil {
		_ = fromUnstructured(raw, &hook)
	}

	data := LifecycleHookData{
		FailurePolicy: hook.FailurePolicy,
		TagImages:     hook.TagImages,
	}

	if data.FailurePolicy == "" {
		data.FailurePolicy = FailurePolicyAbort
	}

	if data.TagImages == nil {
		data.TagImages = []TagImageHook{}
	}

	if hook.ExecNewPod != nil {
		data.ExecNewPod = ExecNewPodFormData{
			Command:       hook.ExecNewPod.Command,
			ContainerName: hook.ExecNewPod.ContainerName,
			Env:           hook.ExecNewPod.Env,
			Volumes:       strings.Join(hook.ExecNewPod.Volumes, ","),
		}
	}

	return data
}

func getLifecycleHookFormData(raw map[string]any) LifecycleHookFormData {
	return LifecycleHookFormData{
		Lch:    getLifecycleHookData(raw),
		Exists: raw != nil,
		Action: hookAction(raw),
	}
}

// getUpdatedLifecycleHook encodes the hook with exactly one action block.
func getUpdatedLifecycleHook(formData LifecycleHookFormData, imageStreamData *HookImageStreamData) map[string]any {
	failurePolicy := formData.Lch.FailurePolicy
	if failurePolicy == "" {
		failurePolicy = FailurePolicyAbort
	}

	hook := map[string]any{
		"failurePolicy": string(failurePolicy),
	}

	if formData.Action == LifecycleActionTagImages {
		tagImages := slices.Clone(formData.Lch.TagImages)
		if imageStreamData != nil {
			tagImage := TagImageHook{
				ContainerName: imageStreamData.ContainerName,
				To:            tagImageTarget(imageStreamData),
			}

			if len(tagImages) == 0 {
				tagImages = append(tagImages, tagImage)
			} else {
				tagImages[0] = tagImage
			}
		}

		hook[string(LifecycleActionTagImages)] = toUnstructuredSlice(tagImages)

		return hook
	}

	execNewPod := formData.Lch.ExecNewPod

	volumes := []any{}
	if execNewPod.Volumes != "" {
		volumes = toAnySlice(strings.Split(execNewPod.Volumes, ","))
	}

	encoded := map[string]any{
		"volumes": volumes,
	}

	if execNewPod.ContainerName != "" {
		encoded["containerName"] = execNewPod.ContainerName
	}

	if execNewPod.Command != nil {
		encoded["command"] = toAnySlice(execNewPod.Command)
	}

	if len(execNewPod.Env) > 0 {
		encoded["env"] = toUnstructuredSlice(execNewPod.Env)
	}

	hook[string(LifecycleActionExecNewPod)] = encoded

	return hook
}
