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

package jwt

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

const (
	SecretName               = "dockyards-backend-jwt"
	AccessTokenPrivateKeyKey = "accessTokenPrivateKey"
)

var ErrNoPEMData = errors.New("no pem data found")

func EncodePrivateKey(privateKey *ecdsa.PrivateKey) ([]byte, error) {
	b, err := x509.MarshalECPrivateKey(privateKey)
	if err != nil {
		return nil, err
	}

	block := pem.Block{
		Type:  "EC PRIVATE KEY",
		Bytes: b,
	}

	return pem.EncodeToMemory(&block), nil
}

func DecodePrivateKey(b []byte) (*ecdsa.PrivateKey, error) {
	block, _ := pem.Decode(b)
	if block == nil {
		return nil, ErrNoPEMData
	}

	return x509.ParseECPrivateKey(block.Bytes)
}

// GetOrGenerateAccessKey returns the key used to sign access tokens. A new key
// is generated and stored when the secret does not exist.
func GetOrGenerateAccessKey(ctx context.Context, c client.Client, namespace string) (*ecdsa.PrivateKey, error) {
	objectKey := client.ObjectKey{
		Name:      SecretName,
		Namespace: namespace,
	}

	var secret corev1.Secret
	err := c.Get(ctx, objectKey, &secret)
	if client.IgnoreNotFound(err) != nil {
		return nil, err
	}

	if apierrors.IsNotFound(err) {
		privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		if err != nil {
			return nil, err
		}

		b, err := EncodePrivateKey(privateKey)
		if err != nil {
			return nil, err
		}

		secret = corev1.Secret{
			ObjectMeta: metav1.ObjectMeta{
				Name:      SecretName,
				Namespace: namespace,
			},
			Data: map[string][]byte{
				AccessTokenPrivateKeyKey: b,
			},
			Type: corev1.SecretTypeOpaque,
		}

		err = c.Create(ctx, &secret)
		if err != nil {
			return nil, err
		}

		return privateKey, nil
	}

	b, hasKey := secret.Data[AccessTokenPrivateKeyKey]
	if !hasKey {
		return nil, errors.New("jwt secret has no access token private key in data")
	}

	return DecodePrivateKey(b)
}

// SignAccessToken returns an ES256 token for subject, as accepted by the
// console API.
func SignAccessToken(privateKey *ecdsa.PrivateKey, subject string, expiration time.Duration) (string, error) {
	now := time.Now()

	claims := jwtv5.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwtv5.NewNumericDate(now),
		ExpiresAt: jwtv5.NewNumericDate(now.Add(expiration)),
	}

	token := jwtv5.NewWithClaims(jwtv5.SigningMethodES256, claims)

	return token.SignedString(privateKey)
}
