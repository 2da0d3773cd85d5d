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
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/util/intstr"
)

var strategyParamsKeys = []string{
	"recreateParams",
	"customParams",
	"rollingParams",
	"rollingUpdate",
}

func defaultStrategyType(resourceType ResourceType) StrategyType {
	if resourceType == ResourceTypeOpenShift {
		return StrategyTypeRolling
	}

	return StrategyTypeRollingUpdate
}

func getStrategyData(strategyType StrategyType, strategy map[string]any, name, namespace string) DeploymentStrategy {
	data := DeploymentStrategy{
		Type: strategyType,
	}

	switch strategyType {
	case StrategyTypeRecreate:
		params := nestedMap(strategy, "recreateParams")
		pre := nestedMap(params, "pre")
		mid := nestedMap(params, "mid")
		post := nestedMap(params, "post")

		data.RecreateParams = &RecreateParams{
			TimeoutSeconds: nestedInt64Ptr(params, "timeoutSeconds"),
			Pre:            getLifecycleHookFormData(pre),
			Mid:            getLifecycleHookFormData(mid),
			Post:           getLifecycleHookFormData(post),
		}

		data.ImageStreamData = &HookImageStreamDataSet{
			Pre:  newHookImageStreamData(name, namespace, hookTagImages(pre)),
			Mid:  newHookImageStreamData(name, namespace, hookTagImages(mid)),
			Post: newHookImageStreamData(name, namespace, hookTagImages(post)),
		}
	case StrategyTypeCustom:
		params := nestedMap(strategy, "customParams")

		var customParams CustomParams
		if params != nil {
			_ = fromUnstructured(params, &customParams)
		}

		data.CustomParams = &customParams
	case StrategyTypeRolling:
		params := nestedMap(strategy, "rollingParams")
		pre := nestedMap(params, "pre")
		post := nestedMap(params, "post")

		data.RollingParams = &RollingParams{
			TimeoutSeconds:      nestedInt64Ptr(params, "timeoutSeconds"),
			UpdatePeriodSeconds: nestedInt64Ptr(params, "updatePeriodSeconds"),
			IntervalSeconds:     nestedInt64Ptr(params, "intervalSeconds"),
			MaxSurge:            nestedIntOrString(params, "maxSurge"),
			MaxUnavailable:      nestedIntOrString(params, "maxUnavailable"),
			Pre:                 getLifecycleHookFormData(pre),
			Post:                getLifecycleHookFormData(post),
		}

		data.ImageStreamData = &HookImageStreamDataSet{
			Pre:  newHookImageStreamData(name, namespace, hookTagImages(pre)),
			Post: newHookImageStreamData(name, namespace, hookTagImages(post)),
		}
	case StrategyTypeRollingUpdate:
		params := nestedMap(strategy, "rollingUpdate")

		data.RollingUpdate = &RollingUpdate{
			MaxSurge:       nestedIntOrString(params, "maxSurge"),
			MaxUnavailable: nestedIntOrString(params, "maxUnavailable"),
		}
	}

	return data
}

func hookTagImages(raw map[string]any) []TagImageHook {
	return fromUnstructuredSlice[TagImageHook](nestedSlice(raw, "tagImages"))
}

func getStrategy(obj *unstructured.Unstructured, resourceType ResourceType) DeploymentStrategy {
	strategy := nestedMap(obj.Object, "spec", "strategy")

	strategyType := StrategyType(nestedString(strategy, "type"))
	if strategyType == "" {
		strategyType = defaultStrategyType(resourceType)
	}

	if resourceType == ResourceTypeKubernetes && strategyType != StrategyTypeRollingUpdate {
		return DeploymentStrategy{
			Type: strategyType,
		}
	}

	return getStrategyData(strategyType, strategy, obj.GetName(), obj.GetNamespace())
}

func hookImageStreamData(set *HookImageStreamDataSet, slot string) *HookImageStreamData {
	if set == nil {
		return nil
	}

	switch slot {
	case "pre":
		return set.Pre
	case "mid":
		return set.Mid
	case "post":
		return set.Post
	}

	return nil
}

func setOrRemoveInt64(params map[string]any, key string, value *int64) {
	if value == nil || *value == 0 {
		delete(params, key)

		return
	}

	params[key] = *value
}

func setOrRemoveHook(params map[string]any, slot string, hook LifecycleHookFormData, imageStreamData *HookImageStreamDataSet) {
	if !hook.Exists {
		delete(params, slot)

		return
	}

	params[slot] = getUpdatedLifecycleHook(hook, hookImageStreamData(imageStreamData, slot))
}

func setOrRemoveIntOrString(params map[string]any, key string, value *intstr.IntOrString) {
	encoded, ok := intOrStringValue(value)
	if !ok {
		delete(params, key)

		return
	}

	params[key] = encoded
}

// originalParams returns an owned copy of the params the resource already has for
// key, so that params the form does not edit are kept.
func originalParams(strategy map[string]any, key string) map[string]any {
	params := nestedMap(strategy, key)
	if params == nil {
		return make(map[string]any)
	}

	return runtime.DeepCopyJSON(params)
}

// getUpdatedStrategy rebuilds spec.strategy for the selected type. Strategy keys
// that the form does not edit, such as resources or labels, are kept.
func getUpdatedStrategy(formData DeploymentStrategy, original map[string]any, resourceType ResourceType) map[string]any {
	strategy := make(map[string]any)
	if original != nil {
		strategy = runtime.DeepCopyJSON(original)
	}

	for _, key := range strategyParamsKeys {
		delete(strategy, key)
	}

	strategyType := formData.Type
	if strategyType == "" {
		strategyType = defaultStrategyType(resourceType)
	}

	strategy["type"] = string(strategyType)

	switch strategyType {
	case StrategyTypeRecreate:
		if resourceType != ResourceTypeOpenShift {
			break
		}

		var recreateParams RecreateParams
		if formData.RecreateParams != nil {
			recreateParams = *formData.RecreateParams
		}

		params := originalParams(original, "recreateParams")

		setOrRemoveInt64(params, "timeoutSeconds", recreateParams.TimeoutSeconds)
		setOrRemoveHook(params, "pre", recreateParams.Pre, formData.ImageStreamData)
		setOrRemoveHook(params, "mid", recreateParams.Mid, formData.ImageStreamData)
		setOrRemoveHook(params, "post", recreateParams.Post, formData.ImageStreamData)

		strategy["recreateParams"] = params
	case StrategyTypeCustom:
		if formData.CustomParams == nil {
			break
		}

		params := originalParams(original, "customParams")

		delete(params, "command")
		delete(params, "environment")
		delete(params, "image")

		if formData.CustomParams.Command != nil {
			params["command"] = toAnySlice(formData.CustomParams.Command)
		}

		if len(formData.CustomParams.Environment) > 0 {
			params["environment"] = toUnstructuredSlice(formData.CustomParams.Environment)
		}

		if formData.CustomParams.Image != "" {
			params["image"] = formData.CustomParams.Image
		}

		strategy["customParams"] = params
	case StrategyTypeRolling:
		var rollingParams RollingParams
		if formData.RollingParams != nil {
			rollingParams = *formData.RollingParams
		}

		params := originalParams(original, "rollingParams")

		setOrRemoveInt64(params, "timeoutSeconds", rollingParams.TimeoutSeconds)
		setOrRemoveInt64(params, "updatePeriodSeconds", rollingParams.UpdatePeriodSeconds)
		setOrRemoveInt64(params, "intervalSeconds", rollingParams.IntervalSeconds)
		setOrRemoveHook(params, "pre", rollingParams.Pre, formData.ImageStreamData)
		setOrRemoveHook(params, "post", rollingParams.Post, formData.ImageStreamData)

		setOrRemoveIntOrString(params, "maxSurge", rollingParams.MaxSurge)
		setOrRemoveIntOrString(params, "maxUnavailable", rollingParams.MaxUnavailable)

		strategy["rollingParams"] = params
	case StrategyTypeRollingUpdate:
		var rollingUpdate RollingUpdate
		if formData.RollingUpdate != nil {
			rollingUpdate = *formData.RollingUpdate
		}

		params := originalParams(original, "rollingUpdate")

		setOrRemoveIntOrString(params, "maxSurge", rollingUpdate.MaxSurge)
		setOrRemoveIntOrString(params, "maxUnavailable", rollingUpdate.MaxUnavailable)

		strategy["rollingUpdate"] = params
	}

	return strategy
}
