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
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/sudoswedenab/dockyards-console/api/apiutil"
	"github.com/sudoswedenab/dockyards-console/internal/api/v1/middleware"
	authorizationv1 "k8s.io/api/authorization/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/meta"
)

type UnprocessableEntityErrors struct {
	Errors []string `json:"errors"`
}

type UpdateNamespacedResourceFunc[T any] func(context.Context, string, string, *T) error

func UpdateNamespacedResource[T any](h *handler, group, resource string, f UpdateNamespacedResourceFunc[T]) http.HandlerFunc {
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
			Verb:      "update",
		}

		allowed, err := apiutil.IsSubjectAllowed(ctx, h.Client, subject, &resourceAttributes)
		if err != nil {
			logger.Error("error reviewing subject", "err", err)
			w.WriteHeader(http.StatusInternalServerError)

			return
		}

		if !allowed {
			logger.Debug("subject is not allowed to update resource", "subject", subject, "namespace", namespace)
			w.WriteHeader(http.StatusUnauthorized)

			return
		}

		b, err := io.ReadAll(r.Body)
		if err != nil {
			logger.Error("error reading request body", "err", err)
			w.WriteHeader(http.StatusInternalServerError)

			return
		}

		var request T
		err = json.Unmarshal(b, &request)
		if err != nil {
			logger.Debug("error unmarshalling request", "err", err)
			w.WriteHeader(http.StatusBadRequest)

			return
		}

		err = f(ctx, namespace, resourceName, &request)
		if apierrors.IsForbidden(err) {
			w.WriteHeader(http.StatusForbidden)

			return
		}

		if apierrors.IsNotFound(err) || meta.IsNoMatchError(err) {
			w.WriteHeader(http.StatusNotFound)

			return
		}

		if apierrors.IsConflict(err) {
			w.WriteHeader(http.StatusConflict)

			return
		}

		if apierrors.IsInvalid(err) {
			writeUnprocessableEntity(w, logger, err)

			return
		}

		if apiutil.IgnoreClientError(err) != nil {
			logger.Error("error updating resource", "err", err)
			w.WriteHeader(http.StatusInternalServerError)

			return
		}

		w.WriteHeader(http.StatusAccepted)
	}
}

func writeUnprocessableEntity(w http.ResponseWriter, logger *slog.Logger, err error) {
	var statusError *apierrors.StatusError
	if !errors.As(err, &statusError) || statusError.ErrStatus.Details == nil {
		w.WriteHeader(http.StatusUnprocessableEntity)

		return
	}

	var response UnprocessableEntityErrors

	for _, cause := range statusError.ErrStatus.Details.Causes {
		response.Errors = append(response.Errors, cause.Message)
	}

	b, err := json.Marshal(response)
	if err != nil {
		logger.Error("error marshalling response", "err", err)
		w.WriteHeader(http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusUnprocessableEntity)
	_, err = w.Write(b)
	if err != nil {
		logger.Error("error writing response", "err", err)
	}
}
