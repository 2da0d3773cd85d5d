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
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/apimachinery/pkg/util/intstr"
)

type ResourceType string

const (
	ResourceTypeOpenShift  ResourceType = "openshift"
	ResourceTypeKubernetes ResourceType = "kubernetes"
)

const (
	DeploymentKind       = "Deployment"
	DeploymentConfigKind = "DeploymentConfig"
)

type StrategyType string

const (
	StrategyTypeRecreate      StrategyType = "Recreate"
	StrategyTypeCustom        StrategyType = "Custom"
	StrategyTypeRolling       StrategyType = "Rolling"
	StrategyTypeRollingUpdate StrategyType = "RollingUpdate"
)

type FailurePolicy string

const (
	FailurePolicyAbort  FailurePolicy = "Abort"
	FailurePolicyRetry  FailurePolicy = "Retry"
	FailurePolicyIgnore FailurePolicy = "Ignore"
)

// LifecycleAction selects which of the two mutually exclusive hook actions is
// written back to the resource.
type LifecycleAction string

const (
	LifecycleActionExecNewPod LifecycleAction = "execNewPod"
	LifecycleActionTagImages  LifecycleAction = "tagImages"
)

const (
	TriggerTypeImageChange  = "ImageChange"
	TriggerTypeConfigChange = "ConfigChange"

	ImageStreamTagKind = "ImageStreamTag"

	AnnotationImageTriggers = "image.openshift.io/triggers"
)

type Project struct {
	Name string `json:"name"`
}

// FormData is the edit form projection of a Deployment or DeploymentConfig.
type FormData struct {
	Name               string             `json:"name"`
	Project            Project            `json:"project"`
	ResourceVersion    string             `json:"resourceVersion,omitempty"`
	DeploymentStrategy DeploymentStrategy `json:"deploymentStrategy"`
	Containers         []corev1.Container `json:"containers"`
	ImageName          string             `json:"imageName,omitempty"`
	Envs               []corev1.EnvVar    `json:"envs,omitempty"`
	ImagePullSecret    string             `json:"imagePullSecret,omitempty"`
	Paused             bool               `json:"paused"`
	Replicas           *int32             `json:"replicas,omitempty"`
	Triggers           Triggers           `json:"triggers"`
	FromImageStreamTag bool               `json:"fromImageStreamTag"`

	ImageSearch `json:",inline"`
}

type Triggers struct {
	Image  bool `json:"image"`
	Config bool `json:"config,omitempty"`
}

// ImageSearch is the scratch state of an image stream picker. The converter only
// seeds its shape; an image picker fills in the resolved tag and image.
type ImageSearch struct {
	IsSearchingForImage bool                 `json:"isSearchingForImage"`
	ImageStream         ImageStreamRef       `json:"imageStream"`
	ISI                 ImageStreamImageData `json:"isi"`
	Image               ImageStreamImageData `json:"image"`
}

type ImageStreamRef struct {
	Namespace string `json:"namespace"`
	Image     string `json:"image"`
	Tag       string `json:"tag"`
}

type ImageStreamImageData struct {
	Name   string                 `json:"name"`
	Image  Image                  `json:"image"`
	Tag    string                 `json:"tag"`
	Status ImageStreamImageStatus `json:"status"`
	Ports  []corev1.ContainerPort `json:"ports"`
}

type ImageStreamImageStatus struct {
	Metadata map[string]string `json:"metadata"`
	Status   string            `json:"status"`
}

// Image is the resolved image of an image stream image lookup.
type Image struct {
	Name                 string `json:"name,omitempty"`
	DockerImageReference string `json:"dockerImageReference,omitempty"`
}

func (i Image) IsZero() bool {
	return i.Name == "" && i.DockerImageReference == ""
}

type ObjectMetadata struct {
	Name            string    `json:"name,omitempty"`
	Namespace       string    `json:"namespace,omitempty"`
	ResourceVersion string    `json:"resourceVersion,omitempty"`
	UID             types.UID `json:"uid,omitempty"`
}

// ImageStreamTag is the identity of a resolved image stream tag.
type ImageStreamTag struct {
	APIVersion string          `json:"apiVersion,omitempty"`
	Kind       string          `json:"kind,omitempty"`
	Metadata   *ObjectMetadata `json:"metadata,omitempty"`
}

type DeploymentStrategy struct {
	Type            StrategyType            `json:"type"`
	RecreateParams  *RecreateParams         `json:"recreateParams,omitempty"`
	CustomParams    *CustomParams           `json:"customParams,omitempty"`
	RollingParams   *RollingParams          `json:"rollingParams,omitempty"`
	RollingUpdate   *RollingUpdate          `json:"rollingUpdate,omitempty"`
	ImageStreamData *HookImageStreamDataSet `json:"imageStreamData,omitempty"`
}

type RecreateParams struct {
	TimeoutSeconds *int64                `json:"timeoutSeconds,omitempty"`
	Pre            LifecycleHookFormData `json:"pre"`
	Mid            LifecycleHookFormData `json:"mid"`
	Post           LifecycleHookFormData `json:"post"`
}

type CustomParams struct {
	Command     []string        `json:"command,omitempty"`
	Environment []corev1.EnvVar `json:"environment,omitempty"`
	Image       string          `json:"image,omitempty"`
}

type RollingParams struct {
	TimeoutSeconds      *int64                `json:"timeoutSeconds,omitempty"`
	UpdatePeriodSeconds *int64                `json:"updatePeriodSeconds,omitempty"`
	IntervalSeconds     *int64                `json:"intervalSeconds,omitempty"`
	MaxSurge            *intstr.IntOrString   `json:"maxSurge,omitempty"`
	MaxUnavailable      *intstr.IntOrString   `json:"maxUnavailable,omitempty"`
	Pre                 LifecycleHookFormData `json:"pre"`
	Post                LifecycleHookFormData `json:"post"`
}

type RollingUpdate struct {
	MaxSurge       *intstr.IntOrString `json:"maxSurge,omitempty"`
	MaxUnavailable *intstr.IntOrString `json:"maxUnavailable,omitempty"`
}

// LifecycleHookFormData wraps a hook with the state of its form section. Exists
// decides whether the hook is written back at all.
type LifecycleHookFormData struct {
	Lch         LifecycleHookData `json:"lch"`
	Exists      bool              `json:"exists"`
	IsAddingLch bool              `json:"isAddingLch"`
	Action      LifecycleAction   `json:"action"`
}

type LifecycleHookData struct {
	FailurePolicy FailurePolicy      `json:"failurePolicy"`
	ExecNewPod    ExecNewPodFormData `json:"execNewPod"`
	TagImages     []TagImageHook     `json:"tagImages"`
}

// ExecNewPodFormData holds volumes as a single comma separated string.
type ExecNewPodFormData struct {
	Command       []string        `json:"command,omitempty"`
	ContainerName string          `json:"containerName,omitempty"`
	Env           []corev1.EnvVar `json:"env,omitempty"`
	Volumes       string          `json:"volumes"`
}

type TagImageHook struct {
	ContainerName string                 `json:"containerName"`
	To            corev1.ObjectReference `json:"to"`
}

type HookImageStreamDataSet struct {
	Pre  *HookImageStreamData `json:"pre,omitempty"`
	Mid  *HookImageStreamData `json:"mid,omitempty"`
	Post *HookImageStreamData `json:"post,omitempty"`
}

// HookImageStreamData is the image stream picker state of a tagImages hook.
type HookImageStreamData struct {
	Name               string                 `json:"name"`
	Project            Project                `json:"project"`
	FromImageStreamTag bool                   `json:"fromImageStreamTag"`
	ImageStreamTag     ImageStreamTag         `json:"imageStreamTag"`
	ContainerName      string                 `json:"containerName"`
	To                 corev1.ObjectReference `json:"to"`

	ImageSearch `json:",inline"`
}
