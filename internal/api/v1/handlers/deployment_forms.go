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


package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/sudoswedenab/dockyards-console/api/apiutil"
	"github.com/sudoswedenab/dockyards-console/api/config"
	"github.com/sudoswedenab/dockyards-console/internal/api/v1/middleware"
	"github.com/sudoswedenab/dockyards-console/pkg/editdeployment"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/util/validation/field"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

var (
	DeploymentGVK       = schema.GroupVersionKind{Group: "apps", Version: "v1", Kind: editdeployment.DeploymentKind}
	DeploymentConfigGVK = schema.GroupVersionKind{Group: "apps.openshift.io", Version: "v1", Kind: editdeployment.DeploymentConfigKind}
)

var ErrFormUpdatesDisabled = errors.New("form updates are disabled")

func (h *handler) GetDeploymentForm(gvk schema.GroupVersionKind) GetNamespacedResourceFunc[editdeployment.FormData] {
	return func(ctx context.Context, namespace, resourceName string) (*editdeployment.FormData, error) {
		objectKey := client.ObjectKey{
			Name:      resourceName,
			Namespace: namespace,
		}

		obj, err := apiutil.GetUnstructured(ctx, h.Client, gvk, objectKey)
		if err != nil {
			return nil, err
		}

		return editdeployment.ConvertToFormData(obj), nil
	}
}

func (h *handler) UpdateDeploymentForm(gvk schema.GroupVersionKind) UpdateNamespacedResourceFunc[editdeployment.FormData] {
	groupResource := schema.GroupResource{
		Group:    gvk.Group,
		Resource: "deployments",
	}

	if gvk.Kind == editdeployment.DeploymentConfigKind {
		groupResource.Resource = "deploymentconfigs"
	}

	return func(ctx context.Context, namespace, resourceName string, formData *editdeployment.FormData) error {
		logger := middleware.LoggerFrom(ctx)

		if config.IsEnabled(h.config, config.KeyFormUpdatesDisabled) {
			return apierrors.NewForbidden(groupResource, resourceName, ErrFormUpdatesDisabled)
		}

		objectKey := client.ObjectKey{
			Name:      resourceName,
			Namespace: namespace,
		}

		obj, err := apiutil.GetUnstructured(ctx, h.Client, gvk, objectKey)
		if err != nil {
			return err
		}

		resourceType := editdeployment.GetResourceType(obj)

		errorList := editdeployment.ValidateFormData(formData, resourceType)
		if formData.Name != "" && formData.Name != resourceName {
			errorList = append(errorList, field.Invalid(field.NewPath("name"), formData.Name, "must match the name of the resource"))
		}

		if len(errorList) > 0 {
			return apierrors.NewInvalid(gvk.GroupKind(), resourceName, errorList)
		}

		if formData.ResourceVersion != "" {
			obj.SetResourceVersion(formData.ResourceVersion)
		}

		updated := editdeployment.ConvertToResource(formData, obj)

		err = h.Update(ctx, updated)
		if err != nil {
			return err
		}

		logger.Debug("updated resource from form", "name", updated.GetName(), "resourceVersion", updated.GetResourceVersion())

		return nil
	}
}

func (h *handler) recordFormUpdate(resource string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		statusResponseWriter := middleware.NewStatusResponseWriter(w)

		next.ServeHTTP(statusResponseWriter, r)

		h.metrics.RecordFormUpdate(resource, statusResponseWriter.StatusCode())
	}
}
