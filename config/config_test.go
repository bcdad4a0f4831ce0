// Copyright 2016 - 2023 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolvePasswordPrefersEnvWhenSet(t *testing.T) {
	c := Config{Password: "literal", PasswordEnv: "OOXMLCRYPT_TEST_PASSWORD"}
	lookup := func(name string) (string, bool) {
		if name == "OOXMLCRYPT_TEST_PASSWORD" {
			return "from-env", true
		}
		return "", false
	}
	assert.Equal(t, "from-env", c.ResolvePassword(lookup))
}

func TestResolvePasswordFallsBackToLiteralWhenEnvUnset(t *testing.T) {
	c := Config{Password: "literal", PasswordEnv: "OOXMLCRYPT_TEST_PASSWORD"}
	lookup := func(string) (string, bool) { return "", false }
	assert.Equal(t, "literal", c.ResolvePassword(lookup))
}

func TestResolvePasswordFallsBackWhenEnvEmpty(t *testing.T) {
	c := Config{Password: "literal", PasswordEnv: "OOXMLCRYPT_TEST_PASSWORD"}
	lookup := func(string) (string, bool) { return "", true }
	assert.Equal(t, "literal", c.ResolvePassword(lookup))
}

func TestResolvePasswordNoEnvConfigured(t *testing.T) {
	c := Config{Password: "literal"}
	lookup := func(string) (string, bool) { return "should not be called", true }
	assert.Equal(t, "literal", c.ResolvePassword(lookup))
}
