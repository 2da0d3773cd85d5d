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


package wizardstore_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/sudoswedenab/dockyards-console/internal/wizardstore"
	"github.com/sudoswedenab/dockyards-console/pkg/vmwizard/nicrow"
	"gorm.io/gorm"
)

func newStore(t *testing.T) *wizardstore.Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("unexpected error creating db: %s", err)
	}

	store, err := wizardstore.NewStore(db)
	if err != nil {
		t.Fatalf("unexpected error creating store: %s", err)
	}

	return store
}

var ignoreTimestamps = cmpopts.IgnoreFields(wizardstore.WizardNetwork{}, "CreatedAt", "UpdatedAt")

func TestStoreNetworks(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	nic0 := wizardstore.WizardNetwork{
		ID:          uuid.MustParse("5b7f8f8e-2b4e-4ff1-9b1f-7d7bbf6c1f10"),
		WizardID:    "wizard-1",
		Name:        "nic-0",
		Model:       "virtio",
		NetworkName: "Pod Networking",
		NetworkType: "pod",
	}

	nic1 := wizardstore.WizardNetwork{
		WizardID:    "wizard-1",
		Name:        "nic-1",
		Model:       "e1000e",
		MACAddress:  "02:00:00:00:00:01",
		NetworkName: "vlan-10",
		NetworkType: "multus",
		Validations: wizardstore.Validations{
			"name": {
				Type:    nicrow.ValidationTypeWarning,
				Message: "name is too long",
			},
		},
	}

	other := wizardstore.WizardNetwork{
		WizardID: "wizard-2",
		Name:     "nic-0",
	}

	for _, network := range []*wizardstore.WizardNetwork{&nic0, &nic1, &other} {
		err := store.CreateNetwork(ctx, network)
		if err != nil {
			t.Fatalf("unexpected error creating network: %s", err)
		}
	}

	if nic1.ID == uuid.Nil {
		t.Fatal("expected id to be set on create")
	}

	t.Run("test list", func(t *testing.T) {
		actual, err := store.ListNetworks(ctx, "wizard-1")
		if err != nil {
			t.Fatalf("unexpected error listing networks: %s", err)
		}

		expected := []wizardstore.WizardNetwork{nic0, nic1}
		sortByName := cmpopts.SortSlices(func(a, b wizardstore.WizardNetwork) bool { return a.Name < b.Name })

		if !cmp.Equal(actual, expected, ignoreTimestamps, sortByName) {
			t.Errorf("diff: %s", cmp.Diff(expected, actual, ignoreTimestamps, sortByName))
		}
	})

	t.Run("test get", func(t *testing.T) {
		actual, err := store.GetNetwork(ctx, "wizard-1", nic1.ID.String())
		if err != nil {
			t.Fatalf("unexpected error getting network: %s", err)
		}

		if !cmp.Equal(*actual, nic1, ignoreTimestamps) {
			t.Errorf("diff: %s", cmp.Diff(nic1, *actual, ignoreTimestamps))
		}
	})

	t.Run("test get other wizard", func(t *testing.T) {
		_, err := store.GetNetwork(ctx, "wizard-2", nic1.ID.String())
		if !errors.Is(err, wizardstore.ErrNetworkNotFound) {
			t.Errorf("expected not found error, got %v", err)
		}
	})

	t.Run("test get invalid id", func(t *testing.T) {
		_, err := store.GetNetwork(ctx, "wizard-1", "nic-1")
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			t.Errorf("expected record not found error, got %v", err)
		}
	})

	t.Run("test update", func(t *testing.T) {
		updated := nic0
		updated.FromNetwork(nicrow.Network{
			Name:        "eth0",
			Model:       "e1000e",
			NetworkName: "vlan-20",
			NetworkType: "multus",
		})

		err := store.UpdateNetwork(ctx, &updated)
		if err != nil {
			t.Fatalf("unexpected error updating network: %s", err)
		}

		actual, err := store.GetNetwork(ctx, "wizard-1", nic0.ID.String())
		if err != nil {
			t.Fatalf("unexpected error getting network: %s", err)
		}

		expected := wizardstore.WizardNetwork{
			ID:          nic0.ID,
			WizardID:    "wizard-1",
			Name:        "eth0",
			Model:       "e1000e",
			NetworkName: "vlan-20",
			NetworkType: "multus",
		}

		if !cmp.Equal(*actual, expected, ignoreTimestamps) {
			t.Errorf("diff: %s", cmp.Diff(expected, *actual, ignoreTimestamps))
		}
	})

	t.Run("test update missing", func(t *testing.T) {
		missing := wizardstore.WizardNetwork{
			ID:       uuid.New(),
			WizardID: "wizard-1",
			Name:     "missing",
		}

		err := store.UpdateNetwork(ctx, &missing)
		if !errors.Is(err, wizardstore.ErrNetworkNotFound) {
			t.Errorf("expected not found error, got %v", err)
		}
	})

	t.Run("test remove", func(t *testing.T) {
		err := store.RemoveNetwork(ctx, "wizard-1", nic1.ID.String())
		if err != nil {
			t.Fatalf("unexpected error removing network: %s", err)
		}

		err = store.RemoveNetwork(ctx, "wizard-1", nic1.ID.String())
		if !errors.Is(err, wizardstore.ErrNetworkNotFound) {
			t.Errorf("expected not found error on second remove, got %v", err)
		}

		actual, err := store.ListNetworks(ctx, "wizard-1")
		if err != nil {
			t.Fatalf("unexpected error listing networks: %s", err)
		}

		if len(actual) != 1 {
			t.Errorf("expected 1 network, got %d", len(actual))
		}
	})
}

func TestOpen(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError + 1}))

	store, err := wizardstore.Open(":memory:", logger)
	if err != nil {
		t.Fatalf("unexpected error opening store: %s", err)
	}

	networks, err := store.ListNetworks(context.Background(), "wizard-1")
	if err != nil {
		t.Fatalf("unexpected error listing networks: %s", err)
	}

	if len(networks) != 0 {
		t.Errorf("expected no networks, got %d", len(networks))
	}
}

func TestToNetwork(t *testing.T) {
	tt := []struct {
		name     string
		network  wizardstore.WizardNetwork
		expected nicrow.Network
	}{
		{
			name: "test without validations",
			network: wizardstore.WizardNetwork{
				ID:          uuid.MustParse("5b7f8f8e-2b4e-4ff1-9b1f-7d7bbf6c1f10"),
				Name:        "nic-0",
				Model:       "virtio",
				NetworkName: "Pod Networking",
				NetworkType: "pod",
			},
			expected: nicrow.Network{
				ID:          "5b7f8f8e-2b4e-4ff1-9b1f-7d7bbf6c1f10",
				Name:        "nic-0",
				Model:       "virtio",
				NetworkName: "Pod Networking",
				NetworkType: "pod",
			},
		},
		{
			name: "test with validations",
			network: wizardstore.WizardNetwork{
				ID:   uuid.MustParse("5b7f8f8e-2b4e-4ff1-9b1f-7d7bbf6c1f10"),
				Name: "nic-0",
				Validations: wizardstore.Validations{
					"network": {
						Type:    nicrow.ValidationTypeError,
						Message: "network is required",
					},
				},
			},
			expected: nicrow.Network{
				ID:   "5b7f8f8e-2b4e-4ff1-9b1f-7d7bbf6c1f10",
				Name: "nic-0",
				Validation: &nicrow.NetworkValidation{
					Validations: map[string]nicrow.ValidationMessage{
						"network": {
							Type:    nicrow.ValidationTypeError,
							Message: "network is required",
						},
					},
				},
			},
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			actual := tc.network.ToNetwork()
			if !cmp.Equal(actual, tc.expected) {
				t.Errorf("diff: %s", cmp.Diff(tc.expected, actual))
			}
		})
	}
}
