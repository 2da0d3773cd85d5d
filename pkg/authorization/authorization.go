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


package authorization

import (
	"context"

	rbacv1 "k8s.io/api/rbac/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
)

const (
	ClusterRoleFormViewer = "dockyards-console:form-viewer"
	ClusterRoleFormEditor = "dockyards-console:form-editor"

	LabelPartOf = "app.kubernetes.io/part-of"
	PartOf      = "dockyards-console"
)

var formResources = []rbacv1.PolicyRule{
	{
		APIGroups: []string{
			"apps",
		},
		Resources: []string{
			"deployments",
		},
	},
	{
		APIGroups: []string{
			"apps.openshift.io",
		},
		Resources: []string{
			"deploymentconfigs",
		},
	},
}

func formRules(verbs ...string) []rbacv1.PolicyRule {
	rules := make([]rbacv1.PolicyRule, len(formResources))

	for i, rule := range formResources {
		rules[i] = rbacv1.PolicyRule{
			Verbs:     verbs,
			APIGroups: rule.APIGroups,
			Resources: rule.Resources,
		}
	}

	return rules
}

func reconcileClusterRole(ctx context.Context, c client.Client, name, aggregateTo string, rules []rbacv1.PolicyRule) error {
	clusterRole := rbacv1.ClusterRole{
		ObjectMeta: metav1.ObjectMeta{
			Name: name,
		},
	}

	_, err := controllerutil.CreateOrPatch(ctx, c, &clusterRole, func() error {
		if clusterRole.Labels == nil {
			clusterRole.Labels = make(map[string]string)
		}

		clusterRole.Labels[LabelPartOf] = PartOf
		clusterRole.Labels["rbac.authorization.k8s.io/aggregate-to-"+aggregateTo] = "true"

		clusterRole.Rules = rules

		return nil
	})

	return err
}

// ReconcileFormAuthorization ensures the cluster roles checked by the form
// endpoints exist. The roles aggregate into the default view and edit roles,
// bindings are left to cluster administrators.
func ReconcileFormAuthorization(ctx context.Context, c client.Client) error {
	err := reconcileClusterRole(ctx, c, ClusterRoleFormViewer, "view", formRules("get"))
	if err != nil {
		return err
	}

	err = reconcileClusterRole(ctx, c, ClusterRoleFormEditor, "edit", formRules("get", "update"))
	if err != nil {
		return err
	}

	return nil
}
