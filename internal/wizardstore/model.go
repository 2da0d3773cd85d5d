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


package wizardstore

import (
	"time"

	"github.com/google/uuid"
	"github.com/sudoswedenab/dockyards-console/pkg/vmwizard/nicrow"
	"gorm.io/gorm"
)

type Validations map[string]nicrow.ValidationMessage

// WizardNetwork is a network interface stored for a VM wizard.
type WizardNetwork struct {
	ID          uuid.UUID   `json:"id" gorm:"primaryKey"`
	WizardID    string      `json:"wizard_id" gorm:"index"`
	Name        string      `json:"name"`
	Model       string      `json:"model,omitempty"`
	MACAddress  string      `json:"mac_address,omitempty" gorm:"column:mac_address"`
	NetworkName string      `json:"network_name,omitempty"`
	NetworkType string      `json:"network_type,omitempty"`
	Validations Validations `json:"validations,omitempty" gorm:"serializer:json"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (n *WizardNetwork) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}

	return nil
}

// ToNetwork returns the row binder view of the stored network.
func (n *WizardNetwork) ToNetwork() nicrow.Network {
	network := nicrow.Network{
		ID:          n.ID.String(),
		Name:        n.Name,
		Model:       n.Model,
		MACAddress:  n.MACAddress,
		NetworkName: n.NetworkName,
		NetworkType: n.NetworkType,
	}

	if len(n.Validations) > 0 {
		network.Validation = &nicrow.NetworkValidation{
			Validations: n.Validations,
		}
	}

	return network
}

// FromNetwork copies the editable fields of network into n. ID and WizardID
// are left untouched.
func (n *WizardNetwork) FromNetwork(network nicrow.Network) {
	n.Name = network.Name
	n.Model = network.Model
	n.MACAddress = network.MACAddress
	n.NetworkName = network.NetworkName
	n.NetworkType = network.NetworkType
	n.Validations = nil

	if network.Validation != nil && len(network.Validation.Validations) > 0 {
		n.Validations = Validations(network.Validation.Validations)
	}
}
