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

package editdeployment

import (
	"math"
	"strconv"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/util/intstr"
)

// GetResourceType classifies a workload by the way it encodes strategies and
// image triggers.
func GetResourceType(obj *unstructured.Unstructured) ResourceType {
	if obj != nil && obj.GetKind() == DeploymentConfigKind {
		return ResourceTypeOpenShift
	}

	return ResourceTypeKubernetes
}

func nestedMap(obj map[string]any, fields ...string) map[string]any {
	v, found, err := unstructured.NestedFieldNoCopy(obj, fields...)
	if !found || err != nil {
		return nil
	}

	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}

	return m
}

func nestedSlice(obj map[string]any, fields ...string) []any {
	v, found, err := unstructured.NestedFieldNoCopy(obj, fields...)
	if !found || err != nil {
		return nil
	}

	s, ok := v.([]any)
	if !ok {
		return nil
	}

	return s
}

func nestedString(obj map[string]any, fields ...string) string {
	v, found, err := unstructured.NestedFieldNoCopy(obj, fields...)
	if !found || err != nil {
		return ""
	}

	s, ok := v.(string)
	if !ok {
		return ""
	}

	return s
}

func nestedBool(obj map[string]any, fields ...string) bool {
	v, found, err := unstructured.NestedFieldNoCopy(obj, fields...)
	if !found || err != nil {
		return false
	}

	b, ok := v.(bool)
	if !ok {
		return false
	}

	return b
}

// nestedInt64 accepts every numeric representation a decoded object may carry.
func nestedInt64(obj map[string]any, fields ...string) (int64, bool) {
	v, found, err := unstructured.NestedFieldNoCopy(obj, fields...)
	if !found || err != nil {
		return 0, false
	}

	switch n := v.(type) {
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	}

	return 0, false
}

func nestedInt64Ptr(obj map[string]any, fields ...string) *int64 {
	n, ok := nestedInt64(obj, fields...)
	if !ok {
		return nil
	}

	return &n
}

func nestedIntOrString(obj map[string]any, fields ...string) *intstr.IntOrString {
	v, found, err := unstructured.NestedFieldNoCopy(obj, fields...)
	if !found || err != nil {
		return nil
	}

	var n int64

	switch t := v.(type) {
	case string:
		value := intstr.FromString(t)
		return &value
	case int64:
		n = t
	case int32:
		n = int64(t)
	case int:
		n = int64(t)
	case float64:
		if t < math.MinInt32 || t > math.MaxInt32 {
			return nil
		}

		n = int64(t)
	default:
		return nil
	}

	// Values outside int32 cannot be represented and are dropped.
	if n < math.MinInt32 || n > math.MaxInt32 {
		return nil
	}

	value := intstr.FromInt32(int32(n))

	return &value
}

// setNestedField sets value at the path, replacing intermediate values that are
// not objects.
func setNestedField(obj map[string]any, value any, fields ...string) {
	m := obj
	for _, field := range fields[:len(fields)-1] {
		next, ok := m[field].(map[string]any)
		if !ok {
			next = make(map[string]any)
			m[field] = next
		}

		m = next
	}

	m[fields[len(fields)-1]] = value
}

func fromUnstructured(in any, out any) bool {
	m, ok := in.(map[string]any)
	if !ok {
		return false
	}

	err := runtime.DefaultUnstructuredConverter.FromUnstructured(m, out)

	return err == nil
}

func toUnstructured(in any) map[string]any {
	m, err := runtime.DefaultUnstructuredConverter.ToUnstructured(in)
	if err != nil {
		return nil
	}

	return m
}

func toUnstructuredSlice[T any](items []T) []any {
	s := make([]any, 0, len(items))
	for i := range items {
		m := toUnstructured(&items[i])
		if m == nil {
			continue
		}

		s = append(s, m)
	}

	return s
}

func fromUnstructuredSlice[T any](in []any) []T {
	var items []T
	for _, v := range in {
		var item T
		if !fromUnstructured(v, &item) {
			continue
		}

		items = append(items, item)
	}

	return items
}

func toAnySlice(in []string) []any {
	s := make([]any, 0, len(in))
	for _, v := range in {
		s = append(s, v)
	}

	return s
}

// intOrStringValue encodes a rollout knob for a resource. Values without a
// percent sign are written as integers.
func intOrStringValue(v *intstr.IntOrString) (any, bool) {
	if v == nil {
		return nil, false
	}

	switch v.Type {
	case intstr.Int:
		if v.IntVal == 0 {
			return nil, false
		}

		return int64(v.IntVal), true
	default:
		if v.StrVal == "" {
			return nil, false
		}

		if v.StrVal[len(v.StrVal)-1] == '%' {
			return v.StrVal, true
		}

		n, err := strconv.ParseInt(v.StrVal, 10, 32)
		if err != nil {
			return v.StrVal, true
		}

		if n == 0 {
			return nil, false
		}

		return n, true
	}
}
