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
	"strings"

	corev1 "k8s.io/api/core/v1"
)

// SplitImageName splits a name:tag composite on its first colon. A name
// without a colon has an empty tag.
func SplitImageName(s string) (string, string) {
	name, tag, _ := strings.Cut(s, ":")

	return name, tag
}

func newImageStreamImageData() ImageStreamImageData {
	return ImageStreamImageData{
		Status: ImageStreamImageStatus{
			Metadata: map[string]string{},
		},
		Ports: []corev1.ContainerPort{},
	}
}

func newImageSearch(imageStream ImageStreamRef) ImageSearch {
	return ImageSearch{
		ImageStream: imageStream,
		ISI:         newImageStreamImageData(),
		Image:       newImageStreamImageData(),
	}
}

// newHookImageStreamData seeds the image stream picker of a hook from the first
// tagImages entry, if any.
func newHookImageStreamData(name, namespace string, tagImages []TagImageHook) *HookImageStreamData {
	var tagImage TagImageHook
	if len(tagImages) > 0 {
		tagImage = tagImages[0]
	}

	imageNamespace := tagImage.To.Namespace
	if imageNamespace == "" {
		imageNamespace = namespace
	}

	image, tag := SplitImageName(tagImage.To.Name)

	return &HookImageStreamData{
		Name: name,
		Project: Project{
			Name: namespace,
		},
		FromImageStreamTag: true,
		ContainerName:      tagImage.ContainerName,
		To:                 tagImage.To,
		ImageSearch: newImageSearch(ImageStreamRef{
			Namespace: imageNamespace,
			Image:     image,
			Tag:       tag,
		}),
	}
}

// tagImageTarget returns the edited target reference, or one built from the
// resolved image stream tag when the target was left empty.
func tagImageTarget(data *HookImageStreamData) corev1.ObjectReference {
	if data == nil {
		return corev1.ObjectReference{}
	}

	if data.To != (corev1.ObjectReference{}) {
		return data.To
	}

	to := corev1.ObjectReference{
		APIVersion: data.ImageStreamTag.APIVersion,
		Kind:       data.ImageStreamTag.Kind,
	}

	metadata := data.ImageStreamTag.Metadata
	if metadata != nil {
		to.Name = metadata.Name
		to.Namespace = metadata.Namespace
		to.ResourceVersion = metadata.ResourceVersion
		to.UID = metadata.UID
	}

	return to
}
