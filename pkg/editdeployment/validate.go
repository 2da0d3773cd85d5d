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

	"github.com/containers/image/v5/docker/reference"
	"k8s.io/apimachinery/pkg/util/intstr"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

// ValidateFormData checks the fields of the form that are written back to the
// resource as is.
func ValidateFormData(formData *FormData, resourceType ResourceType) field.ErrorList {
	var errorList field.ErrorList

	if formData.Name == "" {
		errorList = append(errorList, field.Required(field.NewPath("name"), "must not be empty"))
	}

	if formData.Replicas != nil && *formData.Replicas < 0 {
		errorList = append(errorList, field.Invalid(field.NewPath("replicas"), *formData.Replicas, "must not be negative"))
	}

	// Image stream backed containers get their image from the trigger, the free
	// text name may hold a placeholder.
	if !formData.FromImageStreamTag {
		imagePath := field.NewPath("imageName")

		if formData.ImageName == "" {
			errorList = append(errorList, field.Required(imagePath, "must not be empty"))
		} else {
			_, err := reference.ParseNormalizedNamed(formData.ImageName)
			if err != nil {
				errorList = append(errorList, field.Invalid(imagePath, formData.ImageName, err.Error()))
			}
		}
	}

	errorList = append(errorList, validateStrategy(formData.DeploymentStrategy, resourceType, field.NewPath("deploymentStrategy"))...)

	return errorList
}

func validateStrategy(strategy DeploymentStrategy, resourceType ResourceType, fldPath *field.Path) field.ErrorList {
	var errorList field.ErrorList

	var supported []string
	switch resourceType {
	case ResourceTypeOpenShift:
		supported = []string{string(StrategyTypeRecreate), string(StrategyTypeCustom), string(StrategyTypeRolling)}
	default:
		supported = []string{string(StrategyTypeRecreate), string(StrategyTypeRollingUpdate)}
	}

	if strategy.Type != "" && !slices.Contains(supported, string(strategy.Type)) {
		errorList = append(errorList, field.NotSupported(fldPath.Child("type"), strategy.Type, supported))
	}

	if strategy.RecreateParams != nil {
		paramsPath := fldPath.Child("recreateParams")

		errorList = append(errorList, validateHook(strategy.RecreateParams.Pre, paramsPath.Child("pre"))...)
		errorList = append(errorList, validateHook(strategy.RecreateParams.Mid, paramsPath.Child("mid"))...)
		errorList = append(errorList, validateHook(strategy.RecreateParams.Post, paramsPath.Child("post"))...)
	}

	if strategy.RollingParams != nil {
		paramsPath := fldPath.Child("rollingParams")

		errorList = append(errorList, validateIntOrPercent(strategy.RollingParams.MaxSurge, paramsPath.Child("maxSurge"))...)
		errorList = append(errorList, validateIntOrPercent(strategy.RollingParams.MaxUnavailable, paramsPath.Child("maxUnavailable"))...)
		errorList = append(errorList, validateHook(strategy.RollingParams.Pre, paramsPath.Child("pre"))...)
		errorList = append(errorList, validateHook(strategy.RollingParams.Post, paramsPath.Child("post"))...)
	}

	if strategy.RollingUpdate != nil {
		paramsPath := fldPath.Child("rollingUpdate")

		errorList = append(errorList, validateIntOrPercent(strategy.RollingUpdate.MaxSurge, paramsPath.Child("maxSurge"))...)
		errorList = append(errorList, validateIntOrPercent(strategy.RollingUpdate.MaxUnavailable, paramsPath.Child("maxUnavailable"))...)
	}

	return errorList
}

func validateHook(hook LifecycleHookFormData, fldPath *field.Path) field.ErrorList {
	if !hook.Exists {
		return nil
	}

	var errorList field.ErrorList

	switch hook.Lch.FailurePolicy {
	case "", FailurePolicyAbort, FailurePolicyRetry, FailurePolicyIgnore:
	default:
		supported := []string{string(FailurePolicyAbort), string(FailurePolicyRetry), string(FailurePolicyIgnore)}
		errorList = append(errorList, field.NotSupported(fldPath.Child("lch", "failurePolicy"), hook.Lch.FailurePolicy, supported))
	}

	if hook.Action == LifecycleActionExecNewPod && hook.Lch.ExecNewPod.ContainerName == "" {
		errorList = append(errorList, field.Required(fldPath.Child("lch", "execNewPod", "containerName"), "must not be empty"))
	}

	return errorList
}

// validateIntOrPercent rejects strings that are neither a percentage nor an
// integer. Such values would be written verbatim.
func validateIntOrPercent(value *intstr.IntOrString, fldPath *field.Path) field.ErrorList {
	if value == nil || value.Type != intstr.String || value.StrVal == "" {
		return nil
	}

	if strings.HasSuffix(value.StrVal, "%") {
		return nil
	}

	encoded, _ := intOrStringValue(value)

	_, isString := encoded.(string)
	if isString {
		return field.ErrorList{
			field.Invalid(fldPath, value.StrVal, "must be an integer or a percentage"),
		}
	}

	return nil
}
