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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/sudoswedenab/dockyards-console/internal/loggers"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var ErrNetworkNotFound = fmt.Errorf("wizard network not found: %w", gorm.ErrRecordNotFound)

type Store struct {
	db *gorm.DB
}

// Open connects to dsn, using postgres for postgres urls and sqlite for
// everything else, and migrates the schema.
func Open(dsn string, logger *slog.Logger) (*Store, error) {
	gormConfig := gorm.Config{
		Logger:         loggers.NewGormSlogger(logger),
		TranslateError: true,
	}

	var dialector gorm.Dialector
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gormConfig)
	if err != nil {
		return nil, fmt.Errorf("error opening wizard database: %w", err)
	}

	return NewStore(db)
}

func NewStore(db *gorm.DB) (*Store, error) {
	err := db.AutoMigrate(&WizardNetwork{})
	if err != nil {
		return nil, fmt.Errorf("error migrating wizard networks: %w", err)
	}

	s := Store{
		db: db,
	}

	return &s, nil
}

func (s *Store) ListNetworks(ctx context.Context, wizardID string) ([]WizardNetwork, error) {
	var networks []WizardNetwork
	err := s.db.WithContext(ctx).Where("wizard_id = ?", wizardID).Order("created_at, id").Find(&networks).Error
	if err != nil {
		return nil, fmt.Errorf("error listing wizard networks: %w", err)
	}

	return networks, nil
}

func (s *Store) GetNetwork(ctx context.Context, wizardID, networkID string) (*WizardNetwork, error) {
	id, err := uuid.Parse(networkID)
	if err != nil {
		return nil, ErrNetworkNotFound
	}

	var network WizardNetwork
	err = s.db.WithContext(ctx).Where("wizard_id = ? AND id = ?", wizardID, id).Take(&network).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNetworkNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("error getting wizard network: %w", err)
	}

	return &network, nil
}

func (s *Store) CreateNetwork(ctx context.Context, network *WizardNetwork) error {
	err := s.db.WithContext(ctx).Create(network).Error
	if err != nil {
		return fmt.Errorf("error creating wizard network: %w", err)
	}

	return nil
}

func (s *Store) UpdateNetwork(ctx context.Context, network *WizardNetwork) error {
	result := s.db.WithContext(ctx).
		Model(&WizardNetwork{}).
		Where("wizard_id = ? AND id = ?", network.WizardID, network.ID).
		Select("name", "model", "mac_address", "network_name", "network_type", "validations").
		Updates(network)

	if result.Error != nil {
		return fmt.Errorf("error updating wizard network: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrNetworkNotFound
	}

	return nil
}

func (s *Store) RemoveNetwork(ctx context.Context, wizardID, networkID string) error {
	id, err := uuid.Parse(networkID)
	if err != nil {
		return ErrNetworkNotFound
	}

	result := s.db.WithContext(ctx).Where("wizard_id = ? AND id = ?", wizardID, id).Delete(&WizardNetwork{})
	if result.Error != nil {
		return fmt.Errorf("error removing wizard network: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrNetworkNotFound
	}

	return nil
}
