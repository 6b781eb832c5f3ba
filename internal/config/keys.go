// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

var durationType = reflect.TypeOf(Duration{})

// Keys returns every settable key in dot notation, in file order.
func Keys() []string {
	var keys []string
	t := reflect.TypeOf(Config{})
	for i := 0; i < t.NumField(); i++ {
		section := t.Field(i)
		st := section.Type
		for j := 0; j < st.NumField(); j++ {
			keys = append(keys, tomlName(section)+"."+tomlName(st.Field(j)))
		}
	}
	return keys
}

// Get returns the value of a key such as "reveal.chat_interval" formatted as
// it would appear in the file.
func (c *Config) Get(key string) (string, error) {
	field, err := c.lookup(key)
	if err != nil {
		return "", err
	}
	if field.Type() == durationType {
		return field.Interface().(Duration).String(), nil
	}
	return fmt.Sprint(field.Interface()), nil
}

// Set parses value into the field named by key. The result is not validated;
// call Validate before saving.
func (c *Config) Set(key, value string) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}

	if field.Type() == durationType {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%s: invalid duration %q", key, value)
		}
		field.Set(reflect.ValueOf(D(d)))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: invalid integer %q", key, value)
		}
		field.SetInt(int64(n))
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: invalid boolean %q", key, value)
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("%s: unsupported type %s", key, field.Type())
	}
	return nil
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	section, name, ok := strings.Cut(strings.ToLower(strings.TrimSpace(key)), ".")
	if !ok || section == "" || name == "" {
		return reflect.Value{}, fmt.Errorf("invalid key %q, expected section.name", key)
	}

	v := reflect.ValueOf(c).Elem()
	sv, ok := fieldByTOML(v, section)
	if !ok {
		return reflect.Value{}, fmt.Errorf("unknown section: %s", section)
	}
	fv, ok := fieldByTOML(sv, name)
	if !ok {
		return reflect.Value{}, fmt.Errorf("unknown field: %s.%s", section, name)
	}
	return fv, nil
}

func fieldByTOML(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if tomlName(t.Field(i)) == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func tomlName(f reflect.StructField) string {
	if tag, _, _ := strings.Cut(f.Tag.Get("toml"), ","); tag != "" {
		return tag
	}
	return strings.ToLower(f.Name)
}
