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
	"time"

	"github.com/sudoswedenab/dockyards-console/api/config"
	"github.com/sudoswedenab/dockyards-console/internal/api/v1/middleware"
	"github.com/sudoswedenab/dockyards-console/internal/wizardstore"
	"github.com/sudoswedenab/dockyards-console/pkg/util/name"
	"github.com/sudoswedenab/dockyards-console/pkg/vmwizard/nicrow"
)

var rowActionLabels = map[string]string{
	"edit":   nicrow.ActionLabelEdit,
	"delete": nicrow.ActionLabelDelete,
}

type rowCollector struct {
	rows []nicrow.Row
}

func (c *rowCollector) RenderRow(_ context.Context, row nicrow.Row) error {
	c.rows = append(c.rows, row)

	return nil
}

// storeEditDialog applies the network submitted with the request in place of an
// interactive dialog.
type storeEditDialog struct {
	store    *wizardstore.Store
	wizardID string
	request  nicrow.Network
	updated  *wizardstore.WizardNetwork
}

func (d *storeEditDialog) Show(ctx context.Context, options nicrow.DialogOptions) error {
	network, err := d.store.GetNetwork(ctx, d.wizardID, options.Network.ID)
	if err != nil {
		return err
	}

	network.FromNetwork(d.request)

	err = d.store.UpdateNetwork(ctx, network)
	if err != nil {
		return err
	}

	d.updated = network

	return nil
}

func (h *handler) customData(wizardID string) nicrow.CustomData {
	return nicrow.CustomData{
		IsDisabled:       config.IsEnabled(h.config, config.KeyNICRowsDisabled),
		IsDeleteDisabled: config.IsEnabled(h.config, config.KeyNICDeletesDisabled),
		IsUpdateDisabled: config.IsEnabled(h.config, config.KeyNICUpdatesDisabled),
		WizardReduxID:    wizardID,
	}
}

func (h *handler) withProgress(action string) nicrow.WithProgressFunc {
	return func(ctx context.Context, op func(context.Context) error) error {
		start := time.Now()

		err := op(ctx)

		h.metrics.ObserveRowAction(action, time.Since(start))

		return err
	}
}

func (h *handler) GetWizardNICs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	logger := middleware.LoggerFrom(ctx)

	wizardID := r.PathValue("wizardID")
	if wizardID == "" {
		w.WriteHeader(http.StatusBadRequest)

		return
	}

	networks, err := h.wizardStore.ListNetworks(ctx, wizardID)
	if err != nil {
		logger.Error("error listing wizard networks", "err", err)
		w.WriteHeader(http.StatusInternalServerError)

		return
	}

	customData := h.customData(wizardID)

	collector := rowCollector{
		rows: []nicrow.Row{},
	}

	for i, network := range networks {
		bundle := nicrow.NewNetworkBundle(network.ToNetwork())

		err := nicrow.Render(ctx, &collector, bundle, customData, i, nil)
		if err != nil {
			logger.Error("error rendering row", "err", err)
			w.WriteHeader(http.StatusInternalServerError)

			return
		}
	}

	b, err := json.Marshal(collector.rows)
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

func (h *handler) CreateWizardNIC(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	logger := middleware.LoggerFrom(ctx)

	wizardID := r.PathValue("wizardID")
	if wizardID == "" {
		w.WriteHeader(http.StatusBadRequest)

		return
	}

	b, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Error("error reading request body", "err", err)
		w.WriteHeader(http.StatusInternalServerError)

		return
	}

	var request nicrow.Network
	err = json.Unmarshal(b, &request)
	if err != nil {
		logger.Debug("error unmarshalling request", "err", err)
		w.WriteHeader(http.StatusBadRequest)

		return
	}

	if request.Name == "" {
		existing, err := h.wizardStore.ListNetworks(ctx, wizardID)
		if err != nil {
			logger.Error("error listing wizard networks", "err", err)
			w.WriteHeader(http.StatusInternalServerError)

			return
		}

		names := make([]string, len(existing))
		for i, network := range existing {
			names[i] = network.Name
		}

		request.Name = name.NextNICName(names)
	}

	detail, isValid := name.IsValidName(request.Name)
	if !isValid {
		writeUnprocessableEntityDetail(w, logger, detail)

		return
	}

	network := wizardstore.WizardNetwork{
		WizardID: wizardID,
	}

	network.FromNetwork(request)

	err = h.wizardStore.CreateNetwork(ctx, &network)
	if err != nil {
		logger.Error("error creating wizard network", "err", err)
		w.WriteHeader(http.StatusInternalServerError)

		return
	}

	b, err = json.Marshal(network.ToNetwork())
	if err != nil {
		logger.Error("error marshalling response", "err", err)
		w.WriteHeader(http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusCreated)
	_, err = w.Write(b)
	if err != nil {
		logger.Error("error writing response", "err", err)
		w.WriteHeader(http.StatusInternalServerError)

		return
	}
}

func (h *handler) PostWizardNICAction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	logger := middleware.LoggerFrom(ctx)

	wizardID := r.PathValue("wizardID")
	if wizardID == "" {
		w.WriteHeader(http.StatusBadRequest)

		return
	}

	nicID := r.PathValue("nicID")
	if nicID == "" {
		w.WriteHeader(http.StatusBadRequest)

		return
	}

	actionName := r.PathValue("action")

	label, hasLabel := rowActionLabels[actionName]
	if !hasLabel {
		w.WriteHeader(http.StatusNotFound)

		return
	}

	logger = logger.With("wizardID", wizardID, "nicID", nicID, "action", actionName)

	stored, err := h.wizardStore.GetNetwork(ctx, wizardID, nicID)
	if errors.Is(err, wizardstore.ErrNetworkNotFound) {
		w.WriteHeader(http.StatusNotFound)

		return
	}

	if err != nil {
		logger.Error("error getting wizard network", "err", err)
		w.WriteHeader(http.StatusInternalServerError)

		return
	}

	dialog := storeEditDialog{
		store:    h.wizardStore,
		wizardID: wizardID,
	}

	if actionName == "edit" {
		b, err := io.ReadAll(r.Body)
		if err != nil {
			logger.Error("error reading request body", "err", err)
			w.WriteHeader(http.StatusInternalServerError)

			return
		}

		err = json.Unmarshal(b, &dialog.request)
		if err != nil {
			logger.Debug("error unmarshalling request", "err", err)
			w.WriteHeader(http.StatusBadRequest)

			return
		}

		detail, isValid := name.IsValidName(dialog.request.Name)
		if !isValid {
			writeUnprocessableEntityDetail(w, logger, detail)

			return
		}
	}

	customData := h.customData(wizardID)

	actionOptions := nicrow.ActionOptions{
		WizardReduxID:    customData.WizardReduxID,
		IsDeleteDisabled: customData.IsDeleteDisabled,
		IsUpdateDisabled: customData.IsUpdateDisabled,
		RemoveNIC: func(ctx context.Context, id string) error {
			return h.wizardStore.RemoveNetwork(ctx, wizardID, id)
		},
		WithProgress: h.withProgress(actionName),
		EditDialog:   &dialog,
	}

	var action *nicrow.Action

	actions := nicrow.GetActions(stored.ToNetwork(), actionOptions)
	for i := range actions {
		if actions[i].Label == label {
			action = &actions[i]

			break
		}
	}

	if action == nil {
		w.WriteHeader(http.StatusNotFound)

		return
	}

	if customData.IsDisabled || action.IsDisabled {
		logger.Debug("refusing disabled row action")
		w.WriteHeader(http.StatusForbidden)

		return
	}

	err = action.Callback(ctx)
	if errors.Is(err, wizardstore.ErrNetworkNotFound) {
		w.WriteHeader(http.StatusNotFound)

		return
	}

	if err != nil {
		logger.Error("error running row action", "err", err)
		w.WriteHeader(http.StatusInternalServerError)

		return
	}

	if dialog.updated == nil {
		w.WriteHeader(http.StatusNoContent)

		return
	}

	b, err := json.Marshal(dialog.updated.ToNetwork())
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

func writeUnprocessableEntityDetail(w http.ResponseWriter, logger *slog.Logger, detail string) {
	response := UnprocessableEntityErrors{
		Errors: []string{
			detail,
		},
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
