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

package apiutil

import (
	"context"

	authorizationv1 "k8s.io/api/authorization/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/meta"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

const AuthenticatedGroup = "dockyards:authenticated"

func IsSubjectAllowed(ctx context.Context, c client.Client, subject string, resourceAttributes *authorizationv1.ResourceAttributes) (bool, error) {
	accessReview := authorizationv1.SubjectAccessReview{
		Spec: authorizationv1.SubjectAccessReviewSpec{
			Groups: []string{
				AuthenticatedGroup,
			},
			User:               subject,
			ResourceAttributes: resourceAttributes,
		},
	}

	err := c.Create(ctx, &accessReview)
	if err != nil {
		return false, err
	}

	return accessReview.Status.Allowed, nil
}

// GetUnstructured reads a namespaced object of any kind, served or not by the
// scheme of the client.
func GetUnstructured(ctx context.Context, c client.Reader, gvk schema.GroupVersionKind, objectKey client.ObjectKey) (*unstructured.Unstructured, error) {
	var obj unstructured.Unstructured
	obj.SetGroupVersionKind(gvk)

	err := c.Get(ctx, objectKey, &obj)
	if err != nil {
		return nil, err
	}

	return &obj, nil
}

func IgnoreConflict(err error) error {
	if apierrors.IsConflict(err) {
		return nil
	}

	return err
}

func IgnoreForbidden(err error) error {
	if apierrors.IsForbidden(err) {
		return nil
	}

	return err
}

func IgnoreIsInvalid(err error) error {
	if apierrors.IsInvalid(err) {
		return nil
	}

	return err
}

// IgnoreNoMatch ignores errors for kinds the API server does not serve.
func IgnoreNoMatch(err error) error {
	if meta.IsNoMatchError(err) {
		return nil
	}

	return err
}

func IgnoreClientError(err error) error {
	if apierrors.IsInvalid(err) {
		return nil
	}

	if apierrors.IsConflict(err) {
		return nil
	}

	if apierrors.IsForbidden(err) {
		return nil
	}

	if apierrors.IsNotFound(err) {
		return nil
	}

	return err
}
