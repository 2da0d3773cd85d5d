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
	"encoding/json"
	"net/http"

	"github.com/sudoswedenab/dockyards-console/api/apiutil"
	"github.com/sudoswedenab/dockyards-console/internal/api/v1/middleware"
	authorizationv1 "k8s.io/api/authorization/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/meta"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

type GetNamespacedResourceFunc[T any] func(context.Context, string, string) (*T, error)

func GetNamespacedResource[T any](h *handler, group, resource string, f GetNamespacedResourceFunc[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		logger := middleware.LoggerFrom(ctx).With("resource", resource)

		namespace := r.PathValue("namespace")
		if namespace == "" {
			w.WriteHeader(http.StatusBadRequest)

			return
		}

		resourceName := r.PathValue("resourceName")
		if resourceName == "" {
			w.WriteHeader(http.StatusBadRequest)

			return
		}

		subject, err := middleware.SubjectFrom(ctx)
		if err != nil {
			logger.Error("error getting subject from context", "err", err)
			w.WriteHeader(http.StatusInternalServerError)

			return
		}

		resourceAttributes := authorizationv1.ResourceAttributes{
			Group:     group,
			Namespace: namespace,
			Resource:  resource,
			Name:      resourceName,
			Verb:      "get",
		}

		allowed, err := apiutil.IsSubjectAllowed(ctx, h.Client, subject, &resourceAttributes)
		if err != nil {
			logger.Error("error reviewing subject", "err", err)
			w.WriteHeader(http.StatusInternalServerError)

			return
		}

		if !allowed {
			logger.Debug("subject is not allowed to get resource", "subject", subject, "namespace", namespace)
			w.WriteHeader(http.StatusUnauthorized)

			return
		}

		response, err := f(ctx, namespace, resourceName)
		if apierrors.IsNotFound(err) || meta.IsNoMatchError(err) {
			w.WriteHeader(http.StatusNotFound)

			return
		}

		if client.IgnoreNotFound(err) != nil {
			logger.Error("error getting resource", "err", err)
			w.WriteHeader(http.StatusInternalServerError)

			return
		}

		b, err := json.Marshal(response)
		if err != nil {
			logger.Error("error marshalling response", "err", err)
			w.WriteHeader(http.StatusInternalServerError)

			return
		}

		w.WriteHeader(http.StatusOK)
		_, err = w.Write(b)
		if err != nil {
			logger.Error("error writing response", "err", err)
			w.WriteHeader(http.StatusInternalServerError)

			return
		}
	}
}
