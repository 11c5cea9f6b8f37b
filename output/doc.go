// SPDX-License-Identifier: EPL-2.0

// Package output provides the sinks the engine renders into: Oto for the
// sound card, built on github.com/ebitengine/oto/v3 unless the headless tag
// is set, and Offline for renders to file and tests.
package output
