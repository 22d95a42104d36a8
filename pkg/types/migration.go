// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package types

// Migrations maps an old plugin name to the plugin that replaced it. A nil
// target records a plugin that was removed without replacement.
type Migrations map[string]*string

// Target returns a pointer to name, for building Migrations literals.
func Target(name string) *string {
	return &name
}

// Clone returns a shallow copy of m.
func (m Migrations) Clone() Migrations {
	out := make(Migrations, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
