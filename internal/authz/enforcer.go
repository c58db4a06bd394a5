// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

// Package authz provides role-based authorization using Casbin. Roles come
// from the auth package's JWT/basic claims; paths are matched against a
// policy that ships embedded and can be overridden by file.
package authz

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"

	"github.com/tomtom215/vocatio/internal/config"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

// Enforcer wraps a synced Casbin enforcer.
type Enforcer struct {
	enforcer *casbin.SyncedEnforcer
}

// NewEnforcer loads the RBAC model and policy. Empty paths use the embedded
// defaults; configured paths must exist.
func NewEnforcer(cfg *config.SecurityConfig) (*Enforcer, error) {
	var m model.Model
	var err error

	if cfg.CasbinModelPath != "" {
		if !fileExists(cfg.CasbinModelPath) {
			return nil, fmt.Errorf("casbin model file not found: %s", cfg.CasbinModelPath)
		}
		m, err = model.NewModelFromFile(cfg.CasbinModelPath)
	} else {
		m, err = model.NewModelFromString(embeddedModel)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model: %w", err)
	}

	var enforcer *casbin.SyncedEnforcer
	if cfg.CasbinPolicyPath != "" {
		if !fileExists(cfg.CasbinPolicyPath) {
			return nil, fmt.Errorf("casbin policy file not found: %s", cfg.CasbinPolicyPath)
		}
		adapter := fileadapter.NewAdapter(cfg.CasbinPolicyPath)
		enforcer, err = casbin.NewSyncedEnforcer(m, adapter)
	} else {
		enforcer, err = casbin.NewSyncedEnforcer(m)
		if err == nil {
			err = loadEmbeddedPolicy(enforcer, embeddedPolicy)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	return &Enforcer{enforcer: enforcer}, nil
}

// Enforce reports whether subject may perform action on object.
func (e *Enforcer) Enforce(subject, object, action string) (bool, error) {
	allowed, err := e.enforcer.Enforce(subject, object, action)
	if err != nil {
		return false, fmt.Errorf("enforcement failed: %w", err)
	}
	return allowed, nil
}

func loadEmbeddedPolicy(enforcer *casbin.SyncedEnforcer, policy string) error {
	for _, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		switch parts[0] {
		case "p":
			if len(parts) >= 4 {
				if _, err := enforcer.AddPolicy(parts[1], parts[2], parts[3]); err != nil {
					return fmt.Errorf("failed to add policy %v: %w", parts[1:], err)
				}
			}
		case "g":
			if len(parts) >= 3 {
				if _, err := enforcer.AddGroupingPolicy(parts[1], parts[2]); err != nil {
					return fmt.Errorf("failed to add grouping policy %v: %w", parts[1:], err)
				}
			}
		}
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
