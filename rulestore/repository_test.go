package rulestore

import (
	"context"
	"reflect"
	"testing"

	"github.com/kpaulsen/brandlens/model"
)

// repositories lists the implementations under the conformance suite.
func repositories(t *testing.T) map[string]Repository {
	t.Helper()

	sqlite, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Repository{
		"memory": NewMemory(),
		"sqlite": sqlite,
	}
}

func TestRepositorySetAndGetRules(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			rules := sampleRules()
			assets := &ExtractedAssets{
				Logos: []model.MediaAsset{{Name: "logo.png", Size: 1024, IsLogo: true, Confidence: 0.9}},
			}

			if err := repo.SetRules(ctx, "acme", rules, assets); err != nil {
				t.Fatalf("SetRules: %v", err)
			}

			got, err := repo.Rules(ctx, "acme")
			if err != nil {
				t.Fatalf("Rules: %v", err)
			}
			if !reflect.DeepEqual(got, rules) {
				t.Errorf("rules diverged:\ngot  %+v\nwant %+v", got, rules)
			}

			status, err := repo.Status(ctx, "acme")
			if err != nil {
				t.Fatalf("Status: %v", err)
			}
			if status != StatusReview {
				t.Errorf("status after SetRules = %s, want review", status)
			}

			stored, err := repo.Assets(ctx, "acme")
			if err != nil {
				t.Fatalf("Assets: %v", err)
			}
			if len(stored.Logos) != 1 || stored.Logos[0].Name != "logo.png" {
				t.Errorf("assets = %+v", stored)
			}
		})
	}
}

func TestRepositoryUnknownBrand(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			rules, err := repo.Rules(ctx, "ghost")
			if err != nil {
				t.Fatalf("Rules: %v", err)
			}
			if len(rules) != 0 {
				t.Errorf("unknown brand has %d rules", len(rules))
			}
			status, err := repo.Status(ctx, "ghost")
			if err != nil {
				t.Fatalf("Status: %v", err)
			}
			if status != StatusNone {
				t.Errorf("unknown brand status = %s, want none", status)
			}
		})
	}
}

func TestRepositoryConfirmRule(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := repo.SetRules(ctx, "acme", sampleRules(), nil); err != nil {
				t.Fatalf("SetRules: %v", err)
			}

			// Idempotent: a second confirm changes nothing.
			for i := 0; i < 2; i++ {
				if err := repo.ConfirmRule(ctx, "acme", "rule-primary"); err != nil {
					t.Fatalf("ConfirmRule: %v", err)
				}
			}

			rules, err := repo.Rules(ctx, "acme")
			if err != nil {
				t.Fatalf("Rules: %v", err)
			}
			var found model.BrandRule
			for _, r := range rules {
				if r.ID == "rule-primary" {
					found = r
				}
			}
			if !found.Confirmed || found.Confidence != 1.0 {
				t.Errorf("confirmed rule = %v/%v, want true/1.0", found.Confirmed, found.Confidence)
			}

			// Confirming a missing ID is a no-op.
			if err := repo.ConfirmRule(ctx, "acme", "rule-missing"); err != nil {
				t.Errorf("ConfirmRule on missing ID: %v", err)
			}
		})
	}
}

func TestRepositoryConfirmAll(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := repo.SetRules(ctx, "acme", sampleRules(), nil); err != nil {
				t.Fatalf("SetRules: %v", err)
			}
			if err := repo.ConfirmAll(ctx, "acme"); err != nil {
				t.Fatalf("ConfirmAll: %v", err)
			}

			rules, _ := repo.Rules(ctx, "acme")
			for _, r := range rules {
				if !r.Confirmed || r.Confidence != 1.0 {
					t.Errorf("rule %s not confirmed: %v/%v", r.ID, r.Confirmed, r.Confidence)
				}
			}
			status, _ := repo.Status(ctx, "acme")
			if status != StatusComplete {
				t.Errorf("status after ConfirmAll = %s, want complete", status)
			}
		})
	}
}

func TestRepositoryReplaceRule(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := repo.SetRules(ctx, "acme", sampleRules(), nil); err != nil {
				t.Fatalf("SetRules: %v", err)
			}

			edited := sampleRules()[0]
			edited.Description = "edited by reviewer"
			edited.Confidence = 0.95
			if err := repo.ReplaceRule(ctx, "acme", edited); err != nil {
				t.Fatalf("ReplaceRule: %v", err)
			}

			rules, _ := repo.Rules(ctx, "acme")
			if len(rules) != 3 {
				t.Fatalf("rule count changed to %d", len(rules))
			}
			if rules[0].Description != "edited by reviewer" || rules[0].Confidence != 0.95 {
				t.Errorf("replaced rule = %+v", rules[0])
			}

			// Replacing a missing ID neither errors nor inserts.
			missing := edited
			missing.ID = "rule-missing"
			if err := repo.ReplaceRule(ctx, "acme", missing); err != nil {
				t.Errorf("ReplaceRule on missing ID: %v", err)
			}
			rules, _ = repo.Rules(ctx, "acme")
			if len(rules) != 3 {
				t.Errorf("missing-ID replace changed count to %d", len(rules))
			}
		})
	}
}

func TestRepositoryDeleteRule(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := repo.SetRules(ctx, "acme", sampleRules(), nil); err != nil {
				t.Fatalf("SetRules: %v", err)
			}

			if err := repo.DeleteRule(ctx, "acme", "rule-heading"); err != nil {
				t.Fatalf("DeleteRule: %v", err)
			}
			rules, _ := repo.Rules(ctx, "acme")
			if len(rules) != 2 {
				t.Fatalf("rule count = %d, want 2", len(rules))
			}
			for _, r := range rules {
				if r.ID == "rule-heading" {
					t.Error("deleted rule still present")
				}
			}

			// Deleting a missing ID is a no-op.
			if err := repo.DeleteRule(ctx, "acme", "rule-heading"); err != nil {
				t.Errorf("second delete: %v", err)
			}
		})
	}
}

func TestRepositoryAddRule(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := repo.SetRules(ctx, "acme", sampleRules(), nil); err != nil {
				t.Fatalf("SetRules: %v", err)
			}

			added, err := repo.AddRule(ctx, "acme", model.BrandRule{
				Category:    model.CategoryComponent,
				Name:        "Button shape",
				Description: "Buttons use fully rounded corners",
				Confidence:  0.4,
				Value: model.ComponentValue{
					Component:  "button",
					Properties: map[string]string{"borderRadius": "9999px"},
				},
				ApplicableTo: []string{"website"},
			})
			if err != nil {
				t.Fatalf("AddRule: %v", err)
			}

			// Manual rules are trusted: stored confirmed at full
			// confidence with a fresh ID.
			if added.ID == "" {
				t.Error("AddRule assigned no ID")
			}
			if !added.Confirmed || added.Confidence != 1.0 {
				t.Errorf("added rule = %v/%v, want true/1.0", added.Confirmed, added.Confidence)
			}

			rules, _ := repo.Rules(ctx, "acme")
			if len(rules) != 4 {
				t.Fatalf("rule count = %d, want 4", len(rules))
			}
			last := rules[len(rules)-1]
			if last.ID != added.ID {
				t.Errorf("added rule not appended last: %+v", last)
			}
			if !reflect.DeepEqual(last.Value, added.Value) {
				t.Errorf("payload diverged: %+v vs %+v", last.Value, added.Value)
			}
		})
	}
}

func TestRepositoryClear(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			assets := &ExtractedAssets{Logos: []model.MediaAsset{{Name: "logo.png"}}}
			if err := repo.SetRules(ctx, "acme", sampleRules(), assets); err != nil {
				t.Fatalf("SetRules: %v", err)
			}

			if err := repo.Clear(ctx, "acme"); err != nil {
				t.Fatalf("Clear: %v", err)
			}

			rules, _ := repo.Rules(ctx, "acme")
			if len(rules) != 0 {
				t.Errorf("%d rules survived Clear", len(rules))
			}
			status, _ := repo.Status(ctx, "acme")
			if status != StatusNone {
				t.Errorf("status after Clear = %s, want none", status)
			}
			stored, _ := repo.Assets(ctx, "acme")
			if len(stored.Logos) != 0 {
				t.Errorf("assets survived Clear: %+v", stored)
			}
		})
	}
}

func TestRepositoryBrandIsolation(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := repo.SetRules(ctx, "acme", sampleRules(), nil); err != nil {
				t.Fatalf("SetRules: %v", err)
			}
			if err := repo.SetRules(ctx, "globex", sampleRules()[:1], nil); err != nil {
				t.Fatalf("SetRules: %v", err)
			}

			if err := repo.Clear(ctx, "globex"); err != nil {
				t.Fatalf("Clear: %v", err)
			}
			rules, _ := repo.Rules(ctx, "acme")
			if len(rules) != 3 {
				t.Errorf("clearing one brand affected another: %d rules", len(rules))
			}
		})
	}
}
