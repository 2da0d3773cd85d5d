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

package config

import (
	"context"
	"strconv"
	"sync"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

type Key string

const (
	KeyNICUpdatesDisabled  Key = "nicUpdatesDisabled"
	KeyNICDeletesDisabled  Key = "nicDeletesDisabled"
	KeyNICRowsDisabled     Key = "nicRowsDisabled"
	KeyFormUpdatesDisabled Key = "formUpdatesDisabled"
)

type ConfigReader interface {
	GetConfigKey(key Key, defaultValue string) string
}

type ConfigWriter interface {
	SetConfigKey(ctx context.Context, client client.Client, key Key, value string) error
}

type consoleConfig struct {
	name      string
	namespace string
	config    map[string]string
	mutex     sync.Mutex
}

func GetConfig(ctx context.Context, c client.Client, configMap, namespace string) (*consoleConfig, error) {
	config := consoleConfig{
		name:      configMap,
		namespace: namespace,
	}

	cm := corev1.ConfigMap{}
	err := c.Get(ctx, client.ObjectKey{Name: configMap, Namespace: namespace}, &cm)
	if err != nil {
		return &consoleConfig{}, err
	}

	config.config = cm.Data

	return &config, nil
}

// GetConfigOrDefault falls back to defaults when the ConfigMap does not exist.
func GetConfigOrDefault(ctx context.Context, c client.Client, configMap, namespace string) (ConfigReader, error) {
	config, err := GetConfig(ctx, c, configMap, namespace)
	if apierrors.IsNotFound(err) {
		return &DefaultingConfig{}, nil
	}

	if err != nil {
		return nil, err
	}

	return config, nil
}

func (config *consoleConfig) GetConfigKey(key Key, defaultValue string) string {
	config.mutex.Lock()
	defer config.mutex.Unlock()

	c := config.config
	if c == nil || c[string(key)] == "" {
		return defaultValue
	}

	return c[string(key)]
}

func (config *consoleConfig) SetConfigKey(ctx context.Context, c client.Client, key Key, value string) error {
	config.mutex.Lock()
	defer config.mutex.Unlock()

	if config.config == nil {
		config.config = make(map[string]string)
	}

	config.config[string(key)] = value
	err := config.setConfig(ctx, c)
	if err != nil {
		return err
	}

	return nil
}

func (config *consoleConfig) setConfig(ctx context.Context, c client.Client) error {
	cm := corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:      config.name,
			Namespace: config.namespace,
		},
	}
	err := c.Get(ctx, client.ObjectKeyFromObject(&cm), &cm)
	if err != nil {
		return err
	}

	cm.Data = config.config

	err = c.Update(ctx, &cm)
	if err != nil {
		return err
	}

	return nil
}

type DefaultingConfig struct{}

func (c *DefaultingConfig) GetConfigKey(_ Key, defaultValue string) string {
	return defaultValue
}

// IsEnabled reads a boolean key. Values that do not parse are false.
func IsEnabled(reader ConfigReader, key Key) bool {
	if reader == nil {
		return false
	}

	enabled, err := strconv.ParseBool(reader.GetConfigKey(key, "false"))
	if err != nil {
		return false
	}

	return enabled
}
