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


package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"github.com/sudoswedenab/dockyards-console/pkg/editdeployment"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"sigs.k8s.io/yaml"
)

func readResource(name string) (*unstructured.Unstructured, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}

	j, err := yaml.YAMLToJSON(b)
	if err != nil {
		return nil, err
	}

	var obj unstructured.Unstructured
	err = obj.UnmarshalJSON(j)
	if err != nil {
		return nil, err
	}

	return &obj, nil
}

func readFormData(name string) (*editdeployment.FormData, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}

	var formData editdeployment.FormData
	err = yaml.Unmarshal(b, &formData)
	if err != nil {
		return nil, err
	}

	return &formData, nil
}

func run(resourceFile, formFile string, validate bool) error {
	obj, err := readResource(resourceFile)
	if err != nil {
		return fmt.Errorf("error reading resource: %w", err)
	}

	if formFile == "" {
		b, err := yaml.Marshal(editdeployment.ConvertToFormData(obj))
		if err != nil {
			return err
		}

		_, err = os.Stdout.Write(b)

		return err
	}

	formData, err := readFormData(formFile)
	if err != nil {
		return fmt.Errorf("error reading form: %w", err)
	}

	if validate {
		errorList := editdeployment.ValidateFormData(formData, editdeployment.GetResourceType(obj))
		if len(errorList) > 0 {
			return errorList.ToAggregate()
		}
	}

	b, err := yaml.Marshal(editdeployment.ConvertToResource(formData, obj).Object)
	if err != nil {
		return err
	}

	_, err = os.Stdout.Write(b)

	return err
}

func main() {
	var resourceFile string
	var formFile string
	var validate bool
	pflag.StringVar(&resourceFile, "resource", "", "deployment or deployment config yaml")
	pflag.StringVar(&formFile, "form", "", "form data yaml to apply to the resource")
	pflag.BoolVar(&validate, "validate", true, "validate form data before converting")
	pflag.Parse()

	if resourceFile == "" {
		fmt.Fprintln(os.Stderr, "resource must not be empty")

		os.Exit(2)
	}

	err := run(resourceFile, formFile, validate)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)

		os.Exit(1)
	}
}
