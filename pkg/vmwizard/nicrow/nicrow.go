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

package nicrow

import (
	"context"
	"errors"
)

const (
	ActionLabelEdit   = "Edit"
	ActionLabelDelete = "Delete"
)

var (
	ErrNoEditDialog = errors.New("no edit dialog")
	ErrNoRemoveNIC  = errors.New("no remove nic function")
)

type ValidationType string

const (
	ValidationTypeError   ValidationType = "error"
	ValidationTypeWarning ValidationType = "warning"
	ValidationTypeInfo    ValidationType = "info"
)

type ValidationMessage struct {
	Type    ValidationType `json:"type"`
	Message string         `json:"message"`
}

// NetworkValidation holds validation messages keyed by field name.
type NetworkValidation struct {
	Validations map[string]ValidationMessage `json:"validations,omitempty"`
}

// Network is a network interface being configured in a VM wizard.
type Network struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Model       string             `json:"model,omitempty"`
	MACAddress  string             `json:"macAddress,omitempty"`
	NetworkName string             `json:"networkName,omitempty"`
	NetworkType string             `json:"networkType,omitempty"`
	Validation  *NetworkValidation `json:"validation,omitempty"`
}

// NetworkBundle is the display form of a wizard network together with the
// network it was built from.
type NetworkBundle struct {
	Name              string  `json:"name"`
	Model             string  `json:"model,omitempty"`
	MACAddress        string  `json:"macAddress,omitempty"`
	Network           string  `json:"network,omitempty"`
	Type              string  `json:"type,omitempty"`
	WizardNetworkData Network `json:"wizardNetworkData"`
}

func NewNetworkBundle(network Network) NetworkBundle {
	return NetworkBundle{
		Name:              network.Name,
		Model:             network.Model,
		MACAddress:        network.MACAddress,
		Network:           network.NetworkName,
		Type:              network.NetworkType,
		WizardNetworkData: network,
	}
}

type RemoveNICFunc func(ctx context.Context, id string) error

// WithProgressFunc runs op while tracking it as in progress. Errors returned by
// op are returned unchanged.
type WithProgressFunc func(ctx context.Context, op func(context.Context) error) error

type DialogOptions struct {
	Blocking      bool
	IsEditing     bool
	WizardReduxID string
	Network       Network
}

// EditDialog shows the network edit dialog and returns once it has a result.
type EditDialog interface {
	Show(ctx context.Context, options DialogOptions) error
}

type ActionOptions struct {
	WizardReduxID    string
	IsDeleteDisabled bool
	IsUpdateDisabled bool
	RemoveNIC        RemoveNICFunc
	WithProgress     WithProgressFunc
	EditDialog       EditDialog
}

type CustomData struct {
	IsDisabled       bool
	IsDeleteDisabled bool
	IsUpdateDisabled bool
	ColumnClasses    []string
	RemoveNIC        RemoveNICFunc
	WithProgress     WithProgressFunc
	WizardReduxID    string
	EditDialog       EditDialog
}

// Action is a kebab menu option. IsDisabled only describes the option, the
// callback runs regardless of it.
type Action struct {
	Label      string                      `json:"label"`
	IsDisabled bool                        `json:"isDisabled"`
	Callback   func(context.Context) error `json:"-"`
}

type Kebab struct {
	ID         string   `json:"id"`
	IsDisabled bool     `json:"isDisabled"`
	Options    []Action `json:"options"`
}

type RowData struct {
	Name       string `json:"name"`
	Model      string `json:"model,omitempty"`
	MACAddress string `json:"macAddress,omitempty"`
	Network    string `json:"network,omitempty"`
	Type       string `json:"type,omitempty"`
}

type Style map[string]string

type Row struct {
	Data          RowData                      `json:"data"`
	Validation    map[string]ValidationMessage `json:"validation,omitempty"`
	ColumnClasses []string                     `json:"columnClasses,omitempty"`
	Index         int                          `json:"index"`
	Style         Style                        `json:"style,omitempty"`
	Actions       Kebab                        `json:"actions"`
}

type RowRenderer interface {
	RenderRow(ctx context.Context, row Row) error
}

func withProgress(ctx context.Context, f WithProgressFunc, op func(context.Context) error) error {
	if f == nil {
		return op(ctx)
	}

	return f(ctx, op)
}

func editAction(network Network, opts ActionOptions) Action {
	return Action{
		Label:      ActionLabelEdit,
		IsDisabled: opts.IsUpdateDisabled,
		Callback: func(ctx context.Context) error {
			return withProgress(ctx, opts.WithProgress, func(ctx context.Context) error {
				if opts.EditDialog == nil {
					return ErrNoEditDialog
				}

				dialogOptions := DialogOptions{
					Blocking:      true,
					IsEditing:     true,
					WizardReduxID: opts.WizardReduxID,
					Network:       network,
				}

				return opts.EditDialog.Show(ctx, dialogOptions)
			})
		},
	}
}

func deleteAction(network Network, opts ActionOptions) Action {
	id := network.ID

	return Action{
		Label:      ActionLabelDelete,
		IsDisabled: opts.IsDeleteDisabled,
		Callback: func(ctx context.Context) error {
			return withProgress(ctx, opts.WithProgress, func(ctx context.Context) error {
				if opts.RemoveNIC == nil {
					return ErrNoRemoveNIC
				}

				return opts.RemoveNIC(ctx, id)
			})
		},
	}
}

// GetActions returns the Edit and Delete actions of a network, in that order.
func GetActions(network Network, opts ActionOptions) []Action {
	return []Action{
		editAction(network, opts),
		deleteAction(network, opts),
	}
}

func KebabID(name string) string {
	return "kebab-for-" + name
}

func NewRow(bundle NetworkBundle, customData CustomData, index int, style Style) Row {
	actionOptions := ActionOptions{
		WizardReduxID:    customData.WizardReduxID,
		IsDeleteDisabled: customData.IsDeleteDisabled,
		IsUpdateDisabled: customData.IsUpdateDisabled,
		RemoveNIC:        customData.RemoveNIC,
		WithProgress:     customData.WithProgress,
		EditDialog:       customData.EditDialog,
	}

	row := Row{
		Data: RowData{
			Name:       bundle.Name,
			Model:      bundle.Model,
			MACAddress: bundle.MACAddress,
			Network:    bundle.Network,
			Type:       bundle.Type,
		},
		ColumnClasses: customData.ColumnClasses,
		Index:         index,
		Style:         style,
		Actions: Kebab{
			ID:         KebabID(bundle.Name),
			IsDisabled: customData.IsDisabled,
			Options:    GetActions(bundle.WizardNetworkData, actionOptions),
		},
	}

	validation := bundle.WizardNetworkData.Validation
	if validation != nil {
		row.Validation = validation.Validations
	}

	return row
}

func Render(ctx context.Context, renderer RowRenderer, bundle NetworkBundle, customData CustomData, index int, style Style) error {
	return renderer.RenderRow(ctx, NewRow(bundle, customData, index, style))
}
