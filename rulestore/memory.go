package rulestore

import (
	"context"
	"sync"

	"github.com/kpaulsen/brandlens/model"
)

// Memory is an in-process Repository. Safe for concurrent use.
type Memory struct {
	mu     sync.RWMutex
	rules  map[string][]model.BrandRule
	status map[string]Status
	assets map[string]ExtractedAssets
}

var _ Repository = (*Memory)(nil)

// NewMemory returns an empty in-memory repository.
func NewMemory() *Memory {
	return &Memory{
		rules:  make(map[string][]model.BrandRule),
		status: make(map[string]Status),
		assets: make(map[string]ExtractedAssets),
	}
}

func (m *Memory) Rules(_ context.Context, brandID string) ([]model.BrandRule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]model.BrandRule(nil), m.rules[brandID]...), nil
}

func (m *Memory) SetRules(_ context.Context, brandID string, rules []model.BrandRule, assets *ExtractedAssets) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules[brandID] = append([]model.BrandRule(nil), rules...)
	m.status[brandID] = StatusReview
	if assets != nil {
		m.assets[brandID] = *assets
	}
	return nil
}

func (m *Memory) Status(_ context.Context, brandID string) (Status, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.status[brandID]; ok {
		return s, nil
	}
	return StatusNone, nil
}

func (m *Memory) SetStatus(_ context.Context, brandID string, status Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status[brandID] = status
	return nil
}

func (m *Memory) ReplaceRule(_ context.Context, brandID string, rule model.BrandRule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.rules[brandID] {
		if r.ID == rule.ID {
			m.rules[brandID][i] = rule
			break
		}
	}
	return nil
}

func (m *Memory) ConfirmRule(_ context.Context, brandID, ruleID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.rules[brandID] {
		if r.ID == ruleID {
			m.rules[brandID][i] = confirmed(r)
			break
		}
	}
	return nil
}

func (m *Memory) ConfirmAll(_ context.Context, brandID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rules := m.rules[brandID]
	for i, r := range rules {
		rules[i] = confirmed(r)
	}
	m.status[brandID] = StatusComplete
	return nil
}

func (m *Memory) DeleteRule(_ context.Context, brandID, ruleID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rules := m.rules[brandID]
	for i, r := range rules {
		if r.ID == ruleID {
			m.rules[brandID] = append(rules[:i:i], rules[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Memory) AddRule(_ context.Context, brandID string, rule model.BrandRule) (model.BrandRule, error) {
	if rule.ID == "" {
		rule.ID = model.NewRuleID()
	}
	rule = confirmed(rule)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules[brandID] = append(m.rules[brandID], rule)
	return rule, nil
}

func (m *Memory) Assets(_ context.Context, brandID string) (ExtractedAssets, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.assets[brandID], nil
}

func (m *Memory) Clear(_ context.Context, brandID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rules, brandID)
	delete(m.assets, brandID)
	m.status[brandID] = StatusNone
	return nil
}
